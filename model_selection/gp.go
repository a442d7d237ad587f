package model_selection

import (
	"math"
	"sync"
)

// gaussianProcess is a lightweight surrogate model over normalized parameter
// vectors. It predicts the score of untried combinations from the ones
// already evaluated.
type gaussianProcess struct {
	mu sync.RWMutex

	// X holds observed points, Y the scores at those points.
	X [][]float64
	Y []float64

	// sigma is the RBF kernel width. Inputs are normalized to [0,1], so the
	// default width of 0.2 gives each observation local influence.
	sigma float64
}

func newGaussianProcess() *gaussianProcess {
	return &gaussianProcess{sigma: 0.2}
}

// Predict returns the expected score and uncertainty at x. With no
// observations it returns a flat prior of (0, 1).
func (gp *gaussianProcess) Predict(x []float64) (mean, variance float64) {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	if len(gp.X) == 0 {
		return 0, 1
	}

	k := make([]float64, len(gp.X))
	var kSum float64
	for i := range gp.X {
		k[i] = gp.rbfKernel(x, gp.X[i])
		kSum += k[i]
	}

	// Kernel-weighted average of observed scores.
	var sum float64
	for i := range gp.X {
		sum += k[i] * gp.Y[i]
	}
	if kSum > 0 {
		mean = sum / kSum
	}

	// Uncertainty shrinks as the point gets close to an observation.
	maxK := 0.0
	for i := range k {
		if k[i] > maxK {
			maxK = k[i]
		}
	}
	variance = 1 - maxK
	if variance < 1e-12 {
		variance = 1e-12
	}
	return mean, variance
}

// rbfKernel returns exp(-||x1-x2||^2 / (2 sigma^2)), 1 for identical points.
// Callers hold the read lock.
func (gp *gaussianProcess) rbfKernel(x1, x2 []float64) float64 {
	var sum float64
	for i := range x1 {
		diff := x1[i] - x2[i]
		sum += diff * diff
	}
	return math.Exp(-sum / (2 * gp.sigma * gp.sigma))
}

// Update records an observed point and its score.
func (gp *gaussianProcess) Update(x []float64, y float64) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	point := make([]float64, len(x))
	copy(point, x)
	gp.X = append(gp.X, point)
	gp.Y = append(gp.Y, y)
}

func normalPDF(z float64) float64 {
	return math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
}

func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
