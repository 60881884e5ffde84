// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bh

import "github.com/cpmech/femag/inp"

// Reluctivity returns ν(B) = H(B)/B, the successive-approximation
// reluctivity update (the outer loop's Mu1 for a nonlinear material),
// falling back to dH/dB at B=0 by L'Hopital's rule since H is odd and
// H/B is therefore well defined in the limit.
func Reluctivity(c *Curve, B float64) float64 {
	if B < 0 {
		B = -B
	}
	if B < 1e-9 {
		return c.DHDB(0)
	}
	return c.H(B) / B
}

// NewtonReluctivity returns ν(B) and dν/dB, the pair the Newton-mode outer
// loop folds directly into the element's frozen stiffness coefficient
// (fem.SolveMagnetostatic) the same way the successive-approximation loop
// uses ν alone. dν/dB is obtained from the quotient rule on ν=H/B; at B=0,
// ν is even and H is odd so dν/dB vanishes by symmetry.
func NewtonReluctivity(c *Curve, B float64) (nu, dnuDB float64) {
	sign := 1.0
	if B < 0 {
		B, sign = -B, -1
	}
	if B < 1e-9 {
		return c.DHDB(0), 0
	}
	h := c.H(B)
	dh := c.DHDB(B)
	nu = h / B
	dnuDB = sign * (B*dh - h) / (B * B)
	return
}

// UpdateElementMu refreshes e.Mu1 (and, in Newton mode, e.Mu2) from the
// element's current flux density magnitude B, per spec.md §4.5's outer
// loop. For a linear material (curve==nil) the caller should have set
// e.Mu1 once, from the material's constant reluctivity, and never call
// this.
func UpdateElementMu(e *inp.Element, c *Curve, B float64, newton bool) {
	if newton {
		nu, dnu := NewtonReluctivity(c, B)
		e.Mu1 = complex(nu, 0)
		e.Mu2 = complex(dnu, 0)
		return
	}
	e.Mu1 = complex(Reluctivity(c, B), 0)
}
