// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bh

import (
	"math"
	"math/cmplx"

	"github.com/cpmech/femag/inp"
)

// roundWireFit are the coefficients of the empirical fit for the
// frequency-dependent proximity-effect permeability of a bundle of round
// strands, reproduced from the original solver's wire homogenization
// routine (a cubic in the fill fraction).
var roundWireFit = [4]float64{0.7756067409818643, 0.6873854335408803, 0.06841584481674128, -0.07143732702512284}

// FoilProximityMu returns the relative permeability a rectangular
// (foil-wound) conductor region presents to the fundamental-frequency
// field, homogenizing the foil+insulation stack into an equivalent solid
// conductor. areaMM2 is the cross-sectional area of the owning block
// label; turns carries the winding's sign. Grounded on the original
// solver's GetFillFactor, wiretype==3 branch.
func FoilProximityMu(b *inp.BlockProp, turns int, areaMM2, freqHz float64) complex128 {
	if freqHz == 0 || b.Sigma == 0 {
		return 1
	}
	w := 2 * math.Pi * freqHz
	d := b.WireStrandDiam * 0.001 // m
	fill := math.Abs(d * d * float64(turns) / (areaMM2 * 1e-6))
	dd := d / math.Sqrt(fill)
	fill = d / dd
	sigmaFoil := b.Sigma * (d / dd) * 1e6 // S/m, effective foil conductivity
	arg := cmplx.Sqrt(complex(0, w*sigmaFoil*Mu0)) * complex(d/2, 0)
	ufd := complex(Mu0, 0) * cmplx.Tanh(arg) / arg
	return (complex(fill, 0)*ufd + complex((1-fill)*Mu0, 0)) / complex(Mu0, 0)
}

// wireKind discriminates the three round-wire proximity regimes
// (LamType-3: magnet wire, stranded non-litz, litz).
type wireKind int

const (
	WireMagnet   wireKind = 0
	WireStranded wireKind = 1
	WireLitz     wireKind = 2
)

// RoundProximityMu returns the relative permeability a bundle of round
// strands presents to the fundamental-frequency field. Grounded on the
// original solver's GetFillFactor round-wire branch, including its
// empirical cubic fit for the frequency-dependent reduction factor.
func RoundProximityMu(b *inp.BlockProp, kind wireKind, turns int, areaMM2, freqHz float64) complex128 {
	if freqHz == 0 || b.Sigma == 0 {
		return 1
	}
	var r float64 // strand (or bundle-equivalent) radius, meters
	var awire float64
	switch kind {
	case WireStranded:
		r = b.WireStrandDiam * 0.0005 * math.Sqrt(float64(b.WireStrandCount))
		awire = math.Pi * r * r * float64(turns)
	default: // WireMagnet, WireLitz
		r = b.WireStrandDiam * 0.0005
		awire = math.Pi * r * r * float64(b.WireStrandCount) * float64(turns)
	}
	fill := math.Abs(awire / (areaMM2 * 1e-6))
	sigma := b.Sigma * 1e6 // S/m
	wnd := 2 * math.Pi * freqHz * sigma * Mu0 * r * r / 2
	c1 := roundWireFit[0] + fill*(roundWireFit[1]+fill*(roundWireFit[2]+fill*roundWireFit[3]))
	c2 := 1.5 * fill / c1
	arg := cmplx.Sqrt(complex(c1, 0) * complex(0, wnd))
	return complex(c2, 0)*(cmplx.Tanh(arg)/arg) + complex(1-c2, 0)
}
