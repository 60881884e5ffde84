// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bh

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
)

func sampleSteelCurve() *Curve {
	return NewCurve([]inp.BHPoint{
		{B: 0, H: 0},
		{B: 1.0, H: 200},
		{B: 1.5, H: 2000},
		{B: 1.8, H: 20000},
		{B: 2.0, H: 100000},
	})
}

// Test_curve_monotone checks that H is strictly increasing in B, a
// physical requirement of any real saturation curve.
func Test_curve_monotone(tst *testing.T) {
	chk.PrintTitle("curve_monotone")
	c := sampleSteelCurve()
	prev := -1.0
	for b := 0.0; b <= 2.0; b += 0.01 {
		h := c.H(b)
		if h < prev {
			tst.Errorf("H must be monotone increasing: H(%v)=%v < previous %v", b, h, prev)
		}
		prev = h
	}
}

// Test_curve_interpolates_samples checks that H reproduces the table
// exactly at the sample points.
func Test_curve_interpolates_samples(tst *testing.T) {
	chk.PrintTitle("curve_interpolates_samples")
	c := sampleSteelCurve()
	cases := []inp.BHPoint{{B: 1.0, H: 200}, {B: 1.5, H: 2000}, {B: 1.8, H: 20000}}
	for _, p := range cases {
		got := c.H(p.B)
		if math.Abs(got-p.H) > 1e-6 {
			tst.Errorf("H(%v) should equal the sample %v, got %v", p.B, p.H, got)
		}
	}
}

// Test_reluctivity_limit_at_zero checks that Reluctivity does not divide
// by zero and matches the initial slope dH/dB(0).
func Test_reluctivity_limit_at_zero(tst *testing.T) {
	chk.PrintTitle("reluctivity_limit_at_zero")
	c := sampleSteelCurve()
	nu := Reluctivity(c, 0)
	want := c.DHDB(0)
	if math.Abs(nu-want) > 1e-9 {
		tst.Errorf("Reluctivity(0) should equal dH/dB(0)=%v, got %v", want, nu)
	}
}

// Test_newton_reluctivity_symmetry checks that the Newton-mode derivative
// vanishes at B=0, as it must for an odd H(B).
func Test_newton_reluctivity_symmetry(tst *testing.T) {
	chk.PrintTitle("newton_reluctivity_symmetry")
	c := sampleSteelCurve()
	_, dnu := NewtonReluctivity(c, 0)
	if math.Abs(dnu) > 1e-12 {
		tst.Errorf("dnu/dB should vanish at B=0 by symmetry, got %v", dnu)
	}
}
