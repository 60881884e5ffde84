// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// ConcentricElectrodes is the classical solution for the potential between
// two infinitely-long coaxial cylindrical electrodes (spec.md §8 scenario
// (d)): Laplace's equation in polar coordinates with no angular or axial
// dependence reduces to u(r) logarithmic in r.
type ConcentricElectrodes struct {
	R1, V1 float64 // inner electrode radius and potential
	R2, V2 float64 // outer electrode radius and potential
}

// Init sets defaults then applies prms.
func (o *ConcentricElectrodes) Init(prms fun.Prms) {
	o.R1, o.V1 = 1.0, 1.0
	o.R2, o.V2 = 2.0, 0.0
	for _, p := range prms {
		switch p.N {
		case "R1":
			o.R1 = p.V
		case "V1":
			o.V1 = p.V
		case "R2":
			o.R2 = p.V
		case "V2":
			o.V2 = p.V
		}
	}
}

// Value returns u(r) = V1 + (V2-V1)·ln(r/R1)/ln(R2/R1), R1≤r≤R2.
func (o *ConcentricElectrodes) Value(r float64) float64 {
	return o.V1 + (o.V2-o.V1)*math.Log(r/o.R1)/math.Log(o.R2/o.R1)
}

// RadialField returns E_r(r) = -du/dr = (V1-V2)/(r·ln(R2/R1)), the surface
// field the "concentric electrodes" benchmark's capacitance-per-length
// check (Q' = 2πε·E_r·r, constant in r) is built from.
func (o *ConcentricElectrodes) RadialField(r float64) float64 {
	return (o.V1 - o.V2) / (r * math.Log(o.R2/o.R1))
}

// Compare reports the relative error between this closed-form value and a
// numerical value got at radius r.
func (o *ConcentricElectrodes) Compare(r, got float64, tol float64, verbose bool) float64 {
	want := o.Value(r)
	if verbose {
		chk.PrintAnaNum("V", tol, want, got, verbose)
	}
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
