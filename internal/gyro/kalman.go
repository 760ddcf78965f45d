// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gyro removes startup offset and slow drift from the raw gyro
// channels (C2): a stationary-mean calibrator seeds each axis, then a
// per-axis 2-state Kalman filter separates true angular velocity from
// bias during operation.
package gyro

// KalmanFilter tracks a single gyro axis with state x = [omega, bias] and
// measurement z = omega + bias + noise. Bias drifts slowly (small Q_bias)
// while angular velocity moves quickly (large Q_omega), so a sustained
// offset is gradually attributed to bias rather than motion, with no
// explicit stillness detection.
//
// State is plain 2x2/2x1 algebra rather than a matrix library: the system
// is fixed-size and never grows, so there is nothing for a general linear
// algebra package to buy beyond allocation overhead on a per-sample hot
// path.
type KalmanFilter struct {
	x0, x1 float64 // state: [omega, bias]

	p00, p01 float64 // state covariance
	p10, p11 float64

	qOmega, qBias float64 // process noise diagonal
	r             float64 // measurement noise
}

// NewKalmanFilter constructs a filter with the given process/measurement
// noise. F (state transition), H (measurement), and the initial P=diag(1000,1000)
// are fixed by the model and not configurable.
func NewKalmanFilter(qOmega, qBias, r float64) *KalmanFilter {
	return &KalmanFilter{
		qOmega: qOmega,
		qBias:  qBias,
		r:      r,
		p00:    1000.0,
		p11:    1000.0,
	}
}

// Update processes one raw gyro sample and returns the estimated true
// angular velocity with bias removed.
func (k *KalmanFilter) Update(z float64) float64 {
	// Predict. F = [[0,0],[0,1]]: omega has no memory, bias persists.
	xPred0 := 0.0
	xPred1 := k.x1

	// P_pred = F P F^T + Q, with F as above this reduces to:
	pPred00 := k.qOmega
	pPred01 := 0.0
	pPred10 := 0.0
	pPred11 := k.p11 + k.qBias

	// Update. H = [1, 1], so innovation y = z - (xPred0 + xPred1).
	y := z - (xPred0 + xPred1)

	// S = H P_pred H^T + R = sum of all four P_pred entries + R.
	s := pPred00 + pPred01 + pPred10 + pPred11 + k.r

	// Kalman gain K = P_pred H^T / S, a 2x1 vector.
	k0 := (pPred00 + pPred01) / s
	k1 := (pPred10 + pPred11) / s

	k.x0 = xPred0 + k0*y
	k.x1 = xPred1 + k1*y

	// Covariance update P = (I - K H) P_pred.
	k.p00 = (1-k0)*pPred00 - k0*pPred10
	k.p01 = (1-k0)*pPred01 - k0*pPred11
	k.p10 = -k1*pPred00 + (1-k1)*pPred10
	k.p11 = -k1*pPred01 + (1-k1)*pPred11

	return k.x0
}

// Bias returns the current bias estimate.
func (k *KalmanFilter) Bias() float64 {
	return k.x1
}

// SetInitialBias seeds the bias state from a startup calibration so the
// filter doesn't need to converge from zero, and shrinks the bias
// uncertainty accordingly.
func (k *KalmanFilter) SetInitialBias(bias float64) {
	k.x1 = bias
	k.p11 = 100.0
}

// ThreeAxisKalman applies an independent KalmanFilter to each of the
// gyro's three axes.
type ThreeAxisKalman struct {
	X, Y, Z *KalmanFilter
}

// NewThreeAxisKalman builds three independent filters sharing the same
// noise parameters.
func NewThreeAxisKalman(qOmega, qBias, r float64) *ThreeAxisKalman {
	return &ThreeAxisKalman{
		X: NewKalmanFilter(qOmega, qBias, r),
		Y: NewKalmanFilter(qOmega, qBias, r),
		Z: NewKalmanFilter(qOmega, qBias, r),
	}
}

// SetInitialBias seeds all three axes from a calibration result.
func (t *ThreeAxisKalman) SetInitialBias(bx, by, bz float64) {
	t.X.SetInitialBias(bx)
	t.Y.SetInitialBias(by)
	t.Z.SetInitialBias(bz)
}

// Update processes one raw (gx, gy, gz) triple and returns
// bias-corrected, rounded integer values.
func (t *ThreeAxisKalman) Update(gx, gy, gz int) (int, int, int) {
	ox := t.X.Update(float64(gx))
	oy := t.Y.Update(float64(gy))
	oz := t.Z.Update(float64(gz))
	return roundInt(ox), roundInt(oy), roundInt(oz)
}

// Bias returns the current per-axis bias estimates.
func (t *ThreeAxisKalman) Bias() (float64, float64, float64) {
	return t.X.Bias(), t.Y.Bias(), t.Z.Bias()
}

func roundInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
