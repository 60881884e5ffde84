// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bh implements nonlinear B-H saturation curves, lamination and
// proximity-effect homogenization, and the per-element permeability update
// rule the outer nonlinear loop in fem/ calls once per iteration.
package bh

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
)

// Curve is a monotone cubic-Hermite interpolant of a material's (B,H)
// saturation table, with clamped end slopes and a linear Taylor fallback
// near B=0 where a secant-based slope would be ill-conditioned.
type Curve struct {
	b, h, m []float64 // samples and per-interval Hermite tangents
	h0slope float64   // dH/dB at B=0, used by the Taylor fallback
}

// NewCurve builds a Curve from inp.BHPoint samples, which must be sorted by
// ascending B and start at (0,0) (spec.md §3 invariant on BlockProp.BH).
func NewCurve(points []inp.BHPoint) *Curve {
	if len(points) < 2 {
		chk.Panic("bh: a B-H curve needs at least two samples, got %d", len(points))
	}
	n := len(points)
	c := &Curve{b: make([]float64, n), h: make([]float64, n)}
	for i, p := range points {
		c.b[i] = p.B
		c.h[i] = p.H
	}
	c.m = fritschCarlsonTangents(c.b, c.h)
	c.h0slope = c.h[1] / c.b[1] // secant of the first interval, used only for B near 0
	return c
}

// fritschCarlsonTangents computes monotone cubic-Hermite tangents (Fritsch
// & Carlson, 1980): start from the secant slopes, then clamp each interior
// tangent so the spline cannot overshoot and lose the monotonicity that a
// physical B-H curve always has.
func fritschCarlsonTangents(b, h []float64) []float64 {
	n := len(b)
	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		delta[i] = (h[i+1] - h[i]) / (b[i+1] - b[i])
	}
	m := make([]float64, n)
	m[0] = delta[0]
	m[n-1] = delta[n-2]
	for i := 1; i < n-1; i++ {
		if delta[i-1]*delta[i] <= 0 {
			m[i] = 0
			continue
		}
		m[i] = (delta[i-1] + delta[i]) / 2
	}
	for i := 0; i < n-1; i++ {
		if delta[i] == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a := m[i] / delta[i]
		bb := m[i+1] / delta[i]
		if s := a*a + bb*bb; s > 9 {
			t := 3 / math.Sqrt(s)
			m[i] = t * a * delta[i]
			m[i+1] = t * bb * delta[i]
		}
	}
	return m
}

// interval returns the index i such that c.b[i] <= B <= c.b[i+1], clamping
// to the end intervals for B outside the table.
func (c *Curve) interval(B float64) int {
	i := sort.SearchFloat64s(c.b, B) - 1
	if i < 0 {
		i = 0
	}
	if i > len(c.b)-2 {
		i = len(c.b) - 2
	}
	return i
}

// H returns the interpolated field intensity at flux density B.
func (c *Curve) H(B float64) float64 {
	if B < 0 {
		return -c.H(-B)
	}
	if B < 1e-9 {
		return c.h0slope * B // Taylor fallback: avoid the secant's 0/0 near the origin
	}
	i := c.interval(B)
	return hermite(c.b[i], c.b[i+1], c.h[i], c.h[i+1], c.m[i], c.m[i+1], B)
}

// DHDB returns dH/dB at B, the slope Newton mode needs.
func (c *Curve) DHDB(B float64) float64 {
	if B < 0 {
		return c.DHDB(-B)
	}
	if B < 1e-9 {
		return c.h0slope
	}
	i := c.interval(B)
	return hermiteDeriv(c.b[i], c.b[i+1], c.h[i], c.h[i+1], c.m[i], c.m[i+1], B)
}

func hermite(b0, b1, h0, h1, m0, m1, B float64) float64 {
	t := (B - b0) / (b1 - b0)
	dx := b1 - b0
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*h0 + h10*dx*m0 + h01*h1 + h11*dx*m1
}

func hermiteDeriv(b0, b1, h0, h1, m0, m1, B float64) float64 {
	t := (B - b0) / (b1 - b0)
	dx := b1 - b0
	dh00 := 6*t*t - 6*t
	dh10 := 3*t*t - 4*t + 1
	dh01 := -6*t*t + 6*t
	dh11 := 3*t*t - 2*t
	return (dh00*h0+dh10*dx*m0+dh01*h1+dh11*dx*m1) / dx
}
