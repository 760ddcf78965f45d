// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mlsource

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier turns a completed dual-channel feature window into an
// event label ("idle", "blink", "double_blink", "triple_blink",
// "long_blink", "look_up", "look_down", "look_left", "look_right").
type Classifier interface {
	Predict(features []float64) (label string, ok bool)
}

// ModelBlob is the exported form of a trained scikit-learn SVC's
// one-vs-rest decision-function coefficients. scikit-learn persists
// models with joblib/pickle, which Go cannot deserialize, so training
// produces this JSON blob as a separate export step instead of a .pkl
// file.
type ModelBlob struct {
	Classes     []string    `json:"classes"`
	Gamma       float64     `json:"gamma"`
	SupportVecs [][]float64 `json:"support_vectors"`
	DualCoef    [][]float64 `json:"dual_coef"` // one row per class, one column per support vector
	Intercept   []float64   `json:"intercept"` // one per class
}

// ScalerBlob is the exported form of the StandardScaler fit on the
// training features, applied before the model sees a feature vector.
type ScalerBlob struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// SVMClassifier evaluates an RBF-kernel one-vs-rest decision function
// loaded from a model/scaler blob pair.
type SVMClassifier struct {
	model  ModelBlob
	scaler ScalerBlob
}

// LoadClassifier reads the model and scaler blobs from modelPath and
// scalerPath. Callers must treat either file being missing or
// unreadable as fatal: ML mode requires a trained classifier to
// operate at all.
func LoadClassifier(modelPath, scalerPath string) (*SVMClassifier, error) {
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read classifier model: %w", err)
	}
	var model ModelBlob
	if err := json.Unmarshal(modelData, &model); err != nil {
		return nil, fmt.Errorf("parse classifier model: %w", err)
	}
	if len(model.Classes) == 0 || len(model.SupportVecs) == 0 {
		return nil, fmt.Errorf("classifier model %s is empty", modelPath)
	}

	scalerData, err := os.ReadFile(scalerPath)
	if err != nil {
		return nil, fmt.Errorf("read classifier scaler: %w", err)
	}
	var scaler ScalerBlob
	if err := json.Unmarshal(scalerData, &scaler); err != nil {
		return nil, fmt.Errorf("parse classifier scaler: %w", err)
	}
	if len(scaler.Mean) == 0 {
		return nil, fmt.Errorf("classifier scaler %s is empty", scalerPath)
	}

	return &SVMClassifier{model: model, scaler: scaler}, nil
}

// Predict scales features with the stored scaler, evaluates the
// per-class RBF decision function, and returns the highest-scoring
// class label.
func (c *SVMClassifier) Predict(features []float64) (string, bool) {
	if len(features) != len(c.scaler.Mean) {
		return "", false
	}

	scaled := make([]float64, len(features))
	for i, f := range features {
		scale := c.scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		scaled[i] = (f - c.scaler.Mean[i]) / scale
	}

	m := c.model
	bestIdx, bestScore := -1, math.Inf(-1)
	for classIdx, coefRow := range m.DualCoef {
		score := m.Intercept[classIdx]
		for svIdx, sv := range m.SupportVecs {
			score += coefRow[svIdx] * rbfKernel(sv, scaled, m.Gamma)
		}
		if score > bestScore {
			bestScore = score
			bestIdx = classIdx
		}
	}

	if bestIdx < 0 || bestIdx >= len(m.Classes) {
		return "", false
	}
	return m.Classes[bestIdx], true
}

func rbfKernel(a, b []float64, gamma float64) float64 {
	sumSq := 0.0
	for i := range a {
		d := a[i] - b[i]
		sumSq += d * d
	}
	return math.Exp(-gamma * sumSq)
}
