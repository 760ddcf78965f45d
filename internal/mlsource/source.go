// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mlsource

// Stepper feeds one dual-channel EOG sample at a time into two sliding
// windows and calls the classifier every windowStep samples once both
// windows are full, mirroring the reference classifier's predict()
// cadence (a fresh classification every windowStep samples, not every
// sample, to bound CPU cost).
type Stepper struct {
	windowV, windowH *SlidingWindow
	classifier       Classifier
	windowStep       int
	sinceLastStep    int
}

// NewStepper builds a stepper with the given window size/step and
// classifier.
func NewStepper(windowSize, windowStep int, classifier Classifier) *Stepper {
	return &Stepper{
		windowV:    NewSlidingWindow(windowSize),
		windowH:    NewSlidingWindow(windowSize),
		classifier: classifier,
		windowStep: windowStep,
	}
}

// Step feeds one sample pair, returning a label when a new
// classification fires this call.
func (s *Stepper) Step(eogV, eogH float64) (label string, ok bool) {
	s.windowV.Push(eogV)
	s.windowH.Push(eogH)
	s.sinceLastStep++

	if !s.windowV.Full() {
		return "", false
	}
	if s.sinceLastStep < s.windowStep {
		return "", false
	}
	s.sinceLastStep = 0

	features := ExtractDualFeatures(s.windowV.Get(), s.windowH.Get())
	return s.classifier.Predict(features)
}

// Reset clears both windows and the step counter.
func (s *Stepper) Reset() {
	s.windowV.Reset()
	s.windowH.Reset()
	s.sinceLastStep = 0
}
