// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mlsource

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlidingWindowFillsAndShifts(t *testing.T) {
	w := NewSlidingWindow(3)
	require.False(t, w.Full())

	w.Push(1)
	w.Push(2)
	require.False(t, w.Full())

	w.Push(3)
	require.True(t, w.Full())
	require.Equal(t, []float64{1, 2, 3}, w.Get())

	w.Push(4)
	require.Equal(t, []float64{2, 3, 4}, w.Get())
}

func TestExtractFeaturesMatchesReferenceValues(t *testing.T) {
	window := []float64{0, 1, 2, 3, 4, 5, 4, 3, 2, 1}
	f := ExtractFeatures(window)
	require.Len(t, f, 10)

	require.InDelta(t, 5.0, f[0], 1e-9)                  // peak_amplitude
	require.InDelta(t, 2.0, f[1], 1e-9)                  // zero_crossings
	require.InDelta(t, 0.15151515151515152, f[2], 1e-9)  // slope
	require.InDelta(t, 1.0, f[3], 1e-9)                  // max_derivative
	require.InDelta(t, 2.5, f[4], 1e-9)                  // mean
	require.InDelta(t, 1.5, f[5], 1e-9)                  // std
	require.InDelta(t, 0.0, f[6], 1e-9)                  // skewness
	require.InDelta(t, -1.0518518518518518, f[7], 1e-9)  // kurtosis
	require.InDelta(t, 2.9154759474226504, f[8], 1e-9)   // rms
	require.InDelta(t, 0.9876543209876544, f[9], 1e-9)   // derivative_variance
}

func TestExtractDualFeaturesConcatenates(t *testing.T) {
	v := []float64{1, 2, 3}
	h := []float64{4, 5, 6}
	d := ExtractDualFeatures(v, h)
	require.Len(t, d, 20)
	require.Equal(t, ExtractFeatures(v), d[:10])
	require.Equal(t, ExtractFeatures(h), d[10:])
}

// writeTestBlobPair builds a trivial two-class linear-separable model
// blob (class "near" scores high at the origin, "far" scores high away
// from it) plus an identity scaler blob, and returns their paths.
func writeTestBlobPair(t *testing.T, dir string) (modelPath, scalerPath string) {
	model := ModelBlob{
		Classes: []string{"near", "far"},
		Gamma:   1.0,
		SupportVecs: [][]float64{
			{0, 0},
			{10, 10},
		},
		DualCoef: [][]float64{
			{1.0, -1.0}, // class "near": high weight on SV0, negative on SV1
			{-1.0, 1.0}, // class "far": opposite
		},
		Intercept: []float64{0, 0},
	}
	modelData, err := json.Marshal(model)
	require.NoError(t, err)
	modelPath = filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, modelData, 0644))

	scaler := ScalerBlob{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	scalerData, err := json.Marshal(scaler)
	require.NoError(t, err)
	scalerPath = filepath.Join(dir, "scaler.json")
	require.NoError(t, os.WriteFile(scalerPath, scalerData, 0644))

	return modelPath, scalerPath
}

func TestLoadClassifierAndPredict(t *testing.T) {
	modelPath, scalerPath := writeTestBlobPair(t, t.TempDir())

	clf, err := LoadClassifier(modelPath, scalerPath)
	require.NoError(t, err)

	label, ok := clf.Predict([]float64{0, 0})
	require.True(t, ok)
	require.Equal(t, "near", label)

	label, ok = clf.Predict([]float64{10, 10})
	require.True(t, ok)
	require.Equal(t, "far", label)
}

func TestLoadClassifierMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, scalerPath := writeTestBlobPair(t, dir)

	_, err := LoadClassifier(filepath.Join(dir, "missing.json"), scalerPath)
	require.Error(t, err)
}

func TestLoadClassifierMissingScalerErrors(t *testing.T) {
	dir := t.TempDir()
	modelPath, _ := writeTestBlobPair(t, dir)

	_, err := LoadClassifier(modelPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

type stubClassifier struct {
	label string
}

func (s stubClassifier) Predict(features []float64) (string, bool) {
	return s.label, true
}

func TestStepperFiresEveryWindowStepOnceFull(t *testing.T) {
	// windowStep counts from the very first sample, same as the window
	// fill itself: once the window becomes full, the step counter has
	// already reached windowSize, so classification fires immediately
	// if windowStep <= windowSize.
	s := NewStepper(3, 2, stubClassifier{label: "idle"})

	_, ok := s.Step(1, 1) // window not full (1/3)
	require.False(t, ok)
	_, ok = s.Step(1, 1) // window not full (2/3)
	require.False(t, ok)
	label, ok := s.Step(1, 1) // full now, step counter = 3 >= 2: fires
	require.True(t, ok)
	require.Equal(t, "idle", label)

	_, ok = s.Step(1, 1) // counter reset to 0, then 1: below step
	require.False(t, ok)
	label, ok = s.Step(1, 1) // counter = 2 >= 2: fires again
	require.True(t, ok)
	require.Equal(t, "idle", label)
}
