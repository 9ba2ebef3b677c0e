// Package kernel provides the weight functions used to convert neighborhood
// distances into local regression weights along with the residual based
// robustness weight functions.
package kernel

import (
	"errors"
	"math"
)

var (
	ErrUnknownKernel       = errors.New("unknown kernel")
	ErrUnknownRobustMethod = errors.New("unknown robustness method")
)

// RobustScaleEpsilon clamps the robustness scale estimate so a perfect local
// fit does not divide by zero. A scale at or below this means no further
// downweighting is needed.
const RobustScaleEpsilon = 1e-12

// Weight maps a distance and a bandwidth to a regression weight in [0, 1].
type Weight func(dist, bandwidth float64) float64

// Kernel selects a distance weighting function.
type Kernel string

const (
	KernelTricube      Kernel = "tricube"
	KernelEpanechnikov Kernel = "epanechnikov"
	KernelTriangle     Kernel = "triangle"
	KernelGaussian     Kernel = "gaussian"
)

// Func resolves a kernel name to its weight function. An empty kernel resolves
// to tricube.
func (k Kernel) Func() (Weight, error) {
	switch k {
	case KernelTricube, "":
		return Tricube, nil
	case KernelEpanechnikov:
		return Epanechnikov, nil
	case KernelTriangle:
		return Triangle, nil
	case KernelGaussian:
		return Gaussian, nil
	}
	return nil, ErrUnknownKernel
}

// Tricube computes (1 - (d/b)^3)^3 for d < b and 0 otherwise. A bandwidth of
// zero means every neighborhood member is coincident with the query so weights
// degrade to uniform.
func Tricube(dist, bandwidth float64) float64 {
	u, ok := normalize(dist, bandwidth)
	if !ok {
		return 0.0
	}
	c := 1.0 - u*u*u
	return c * c * c
}

// Epanechnikov computes 0.75*(1 - (d/b)^2) for d < b and 0 otherwise.
func Epanechnikov(dist, bandwidth float64) float64 {
	u, ok := normalize(dist, bandwidth)
	if !ok {
		return 0.0
	}
	return 0.75 * (1.0 - u*u)
}

// Triangle computes 1 - d/b for d < b and 0 otherwise.
func Triangle(dist, bandwidth float64) float64 {
	u, ok := normalize(dist, bandwidth)
	if !ok {
		return 0.0
	}
	return 1.0 - u
}

// Gaussian computes exp(-0.5*(3d/b)^2). Unlike the compact kernels the weight
// stays positive past the bandwidth though it decays below 1.2% there.
func Gaussian(dist, bandwidth float64) float64 {
	if bandwidth <= 0.0 {
		bandwidth = 1.0
	}
	u := 3.0 * dist / bandwidth
	return math.Exp(-0.5 * u * u)
}

func normalize(dist, bandwidth float64) (float64, bool) {
	if bandwidth <= 0.0 {
		// coincident neighborhood, treat as unit bandwidth for uniform weights
		bandwidth = 1.0
	}
	u := dist / bandwidth
	if u >= 1.0 {
		return 0.0, false
	}
	return u, true
}

// RobustWeight maps a residual and a scale estimate to a downweighting factor
// in [0, 1].
type RobustWeight func(residual, scale float64) float64

// RobustMethod selects a residual based robustness weight function.
type RobustMethod string

const (
	RobustBisquare RobustMethod = "bisquare"
	RobustHuber    RobustMethod = "huber"
)

// Func resolves a robustness method name to its weight function. An empty
// method resolves to bisquare.
func (m RobustMethod) Func() (RobustWeight, error) {
	switch m {
	case RobustBisquare, "":
		return Bisquare, nil
	case RobustHuber:
		return Huber, nil
	}
	return nil, ErrUnknownRobustMethod
}

// Bisquare computes the robustness weight (1 - (e/(6s))^2)^2 for |e| < 6s and
// 0 otherwise, where s is the median absolute residual. A scale at or below
// RobustScaleEpsilon returns 1.0 leaving the kernel weight untouched.
func Bisquare(residual, scale float64) float64 {
	if scale <= RobustScaleEpsilon {
		return 1.0
	}
	u := residual / (6.0 * scale)
	if math.Abs(u) >= 1.0 {
		return 0.0
	}
	c := 1.0 - u*u
	return c * c
}

// Huber computes the robustness weight min(1, 1.345s/|e|). Less aggressive
// than bisquare since extreme residuals keep a small positive weight.
func Huber(residual, scale float64) float64 {
	if scale <= RobustScaleEpsilon {
		return 1.0
	}
	abs := math.Abs(residual)
	bound := 1.345 * scale
	if abs <= bound {
		return 1.0
	}
	return bound / abs
}
