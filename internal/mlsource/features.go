// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mlsource

import "math"

// FeatureNames lists the 10 per-channel features, in extraction order.
var FeatureNames = []string{
	"peak_amplitude", "zero_crossings", "slope", "max_derivative",
	"mean", "std", "skewness", "kurtosis", "rms", "derivative_variance",
}

// ExtractFeatures computes the 10 time-domain/statistical features used
// to classify one channel's window.
func ExtractFeatures(window []float64) []float64 {
	n := len(window)
	mean := meanOf(window)
	std := stdOf(window, mean)

	centered := make([]float64, n)
	for i, v := range window {
		centered[i] = v - mean
	}

	var derivative []float64
	if n > 1 {
		derivative = make([]float64, n-1)
		for i := 1; i < n; i++ {
			derivative[i-1] = window[i] - window[i-1]
		}
	}

	minV, maxV := window[0], window[0]
	for _, v := range window {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	peakAmplitude := maxV - minV

	zeroCrossings := 0.0
	for i := 1; i < n; i++ {
		if sign(centered[i-1]) != sign(centered[i]) {
			zeroCrossings++
		}
	}

	slope := linearSlope(window)

	maxDerivative := 0.0
	for _, d := range derivative {
		if math.Abs(d) > maxDerivative {
			maxDerivative = math.Abs(d)
		}
	}

	var skewness, kurtosis float64
	if std > 0 {
		for _, c := range centered {
			r := c / std
			skewness += r * r * r
			kurtosis += r * r * r * r
		}
		skewness /= float64(n)
		kurtosis = kurtosis/float64(n) - 3.0
	}

	sumSq := 0.0
	for _, v := range window {
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(n))

	derivVar := 0.0
	if len(derivative) > 0 {
		dMean := meanOf(derivative)
		for _, d := range derivative {
			diff := d - dMean
			derivVar += diff * diff
		}
		derivVar /= float64(len(derivative))
	}

	return []float64{
		peakAmplitude, zeroCrossings, slope, maxDerivative,
		mean, std, skewness, kurtosis, rms, derivVar,
	}
}

// ExtractDualFeatures concatenates the 10 features of the vertical
// channel with the 10 of the horizontal channel into a 20-vector, so
// the classifier can distinguish vertical gaze/blink events from
// horizontal ones.
func ExtractDualFeatures(v, h []float64) []float64 {
	return append(ExtractFeatures(v), ExtractFeatures(h)...)
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdOf(xs []float64, mean float64) float64 {
	variance := 0.0
	for _, x := range xs {
		diff := x - mean
		variance += diff * diff
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// linearSlope fits a degree-1 least-squares line to window against the
// sample index and returns its slope.
func linearSlope(window []float64) float64 {
	n := float64(len(window))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range window {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
