// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"math/cmplx"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// SkinDepthBar is the classical solution for time-harmonic current density
// in a long round conductor carrying a prescribed total current I at
// angular frequency ω (spec.md §8 scenario (c)):
//
//	J(r) = I·k·J0(k·r) / (2π·R·J1(k·R)),   k² = -jωμσ
//
// with J0/J1 the ordinary Bessel functions of the first kind, evaluated
// here at the complex argument k·r via their defining power series (no
// complex-Bessel routine is available from any retrieved library, so this
// follows the teacher's own ana package's habit of hand-coding the closed
// form directly rather than reaching for a numerical library — see
// besselJ below).
type SkinDepthBar struct {
	R     float64 // conductor radius
	Mu    float64 // relative permeability
	Sigma float64 // conductivity, S/m
	Freq  float64 // frequency, Hz
	I     float64 // total rms current, A
}

// Init sets defaults then applies prms.
func (o *SkinDepthBar) Init(prms fun.Prms) {
	o.R, o.Mu, o.Sigma, o.Freq, o.I = 5e-3, 1.0, 5.8e7, 60.0, 1.0
	for _, p := range prms {
		switch p.N {
		case "R":
			o.R = p.V
		case "mu":
			o.Mu = p.V
		case "sigma":
			o.Sigma = p.V
		case "freq":
			o.Freq = p.V
		case "I":
			o.I = p.V
		}
	}
}

const mu0 = 4 * math.Pi * 1e-7

// SkinDepth returns δ = sqrt(2/(ωμσ)), the conventional 1/e decay length
// the skin-effect boundary condition in ele/magnetics_ac.go is also built
// from.
func (o *SkinDepthBar) SkinDepth() float64 {
	omega := 2 * math.Pi * o.Freq
	return math.Sqrt(2 / (omega * o.Mu * mu0 * o.Sigma))
}

// waveNumber returns k with k²=-jωμσ, the propagation constant of the
// diffusion equation ∇²J = jωμσJ inside the conductor.
func (o *SkinDepthBar) waveNumber() complex128 {
	omega := 2 * math.Pi * o.Freq
	return cmplx.Sqrt(complex(0, -omega*o.Mu*mu0*o.Sigma))
}

// Current returns the complex current-density phasor at radius r (0≤r≤R).
func (o *SkinDepthBar) Current(r float64) complex128 {
	k := o.waveNumber()
	num := complex(o.I, 0) * k * besselJ(0, k*complex(r, 0))
	den := complex(2*math.Pi*o.R, 0) * besselJ(1, k*complex(o.R, 0))
	return num / den
}

// Compare reports the relative error (magnitude) between this analytical
// current density and a numerical value got at radius r.
func (o *SkinDepthBar) Compare(r float64, got complex128, tol float64, verbose bool) float64 {
	want := o.Current(r)
	if verbose {
		chk.PrintAnaNum("|J|", tol, cmplx.Abs(want), cmplx.Abs(got), verbose)
	}
	if want == 0 {
		return cmplx.Abs(got)
	}
	return cmplx.Abs(got-want) / cmplx.Abs(want)
}

// besselJ evaluates the order-n (0 or 1) Bessel function of the first kind
// at a complex argument by its defining power series
//
//	Jn(z) = Σ_{k=0}^∞ (-1)^k/(k!·(k+n)!) · (z/2)^(2k+n)
//
// which converges quickly for the |z|≲O(10) arguments this benchmark's
// radius/skin-depth ratios produce.
func besselJ(n int, z complex128) complex128 {
	half := z / 2
	term := cmplx.Pow(half, complex(float64(n), 0))
	for k := 1; k <= n; k++ {
		term /= complex(float64(k), 0)
	}
	sum := term
	half2 := half * half
	for k := 1; k <= 60; k++ {
		term *= -half2 / complex(float64(k)*float64(k+n), 0)
		sum += term
		if cmplx.Abs(term) < 1e-16*cmplx.Abs(sum) {
			break
		}
	}
	return sum
}
