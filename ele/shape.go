// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements the per-element local matrices/vectors for every
// regime×geometry combination this solver supports (magnetostatics,
// time-harmonic AC magnetics, electrostatics, heat flow; planar and
// axisymmetric), plus the Dirichlet-folding and conductor-redirection
// steps every assembler applies before handing its contribution to the
// sparse engine.
package ele

import (
	"math"

	"github.com/cpmech/femag/inp"
)

// mu0 is the permeability of free space, N/A² (H/m); kept here too (as an
// un-exported copy of bh.Mu0's value) so ele does not need to import bh
// just for this one constant, which only the AC skin-depth boundary
// condition uses.
const mu0 = 4 * math.Pi * 1e-7

// Geometry holds the linear-triangle shape-function coefficients for one
// element: N_i(x,y) = (a_i + B[i]*x + C[i]*y) / (2*Area), with
// B[i]=y_j-y_k, C[i]=x_k-x_j (j,k the other two vertices in cyclic order) —
// the same b/c convention inp.checkAreas already commits to. Area is the
// signed triangle area (positive by inp's vertex-ordering invariant).
type Geometry struct {
	B, C     [3]float64
	Area     float64
	Centroid [2]float64 // (x̄, ȳ) in the mesh's internal length unit (mm)
}

// NewGeometry computes the shape-function coefficients of mesh.Elems[ei].
func NewGeometry(mesh *inp.Mesh, ei int) Geometry {
	e := &mesh.Elems[ei]
	p0, p1, p2 := mesh.Nodes[e.P[0]], mesh.Nodes[e.P[1]], mesh.Nodes[e.P[2]]
	var g Geometry
	g.B[0] = p1.Y - p2.Y
	g.B[1] = p2.Y - p0.Y
	g.B[2] = p0.Y - p1.Y
	g.C[0] = p2.X - p1.X
	g.C[1] = p0.X - p2.X
	g.C[2] = p1.X - p0.X
	g.Area = (g.B[0]*g.C[1] - g.B[1]*g.C[0]) / 2
	g.Centroid[0] = (p0.X + p1.X + p2.X) / 3
	g.Centroid[1] = (p0.Y + p1.Y + p2.Y) / 3
	return g
}

// StiffnessTerm returns the (i,j) entry of the anisotropic diffusion
// stiffness ∫∇Nᵢ·D·∇Nⱼ dA for D=diag(kx,ky): (kx·Bᵢ·Bⱼ + ky·Cᵢ·Cⱼ)/(4·Area).
func (g *Geometry) StiffnessTerm(i, j int, kx, ky float64) float64 {
	return (kx*g.B[i]*g.B[j] + ky*g.C[i]*g.C[j]) / (4 * g.Area)
}

// MassTerm returns the (i,j) entry of the consistent mass matrix
// ∫NᵢNⱼ dA for a linear triangle: Area/12·(1+δᵢⱼ).
func (g *Geometry) MassTerm(i, j int) float64 {
	if i == j {
		return g.Area / 6
	}
	return g.Area / 12
}

// EdgeLength returns the length of the edge running from vertex j to
// vertex (j+1)%3, in the mesh's internal length unit.
func EdgeLength(mesh *inp.Mesh, ei, j int) float64 {
	e := &mesh.Elems[ei]
	a, b := mesh.Nodes[e.P[j]], mesh.Nodes[e.P[(j+1)%3]]
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PlanarDepth returns the prescribed out-of-page depth for a planar
// problem (spec.md's [depth] key, default 1).
func PlanarDepth(p *inp.Problem) float64 { return p.Depth }

// AxiRbar returns the centroid radius r̄ used as the revolution depth
// (2π·r̄) for an axisymmetric element's volumetric integrals.
func (g *Geometry) AxiRbar() float64 { return g.Centroid[0] }

// AxiRhat computes R̂, the harmonic-mean-like effective radius the
// axisymmetric z-direction ("My"/c-term) stiffness contribution needs, per
// the original solver's StaticAxisymmetric: when no vertex sits on the
// axis it is a log-mean of the per-edge radii; degenerate (on-axis or
// equal-radius) cases fall back to an arithmetic mean to avoid a log(0) or
// 0/0.
func (g *Geometry) AxiRhat(mesh *inp.Mesh, ei int) float64 {
	e := &mesh.Elems[ei]
	var rn [3]float64
	onAxis := 0
	for k := 0; k < 3; k++ {
		rn[k] = mesh.Nodes[e.P[k]].X
		if rn[k] < 1e-6 {
			onAxis++
		}
	}
	rbar := (rn[0] + rn[1] + rn[2]) / 3
	switch onAxis {
	case 2:
		return rbar
	case 1:
		var a, b float64
		switch {
		case rn[0] < 1e-6:
			a, b = rn[1], rn[2]
		case rn[1] < 1e-6:
			a, b = rn[2], rn[0]
		default:
			a, b = rn[0], rn[1]
		}
		if math.Abs(a-b) < 1e-6 {
			return b / 2
		}
		return (a - b) / (2 * (math.Log(a) - math.Log(b)))
	default:
		q0, q1, q2 := g.C[0], g.C[1], g.C[2]
		switch {
		case math.Abs(q0) < 1e-6:
			return (q1 * q1) / (2 * (-q1 + rn[0]*math.Log(rn[0]/rn[2])))
		case math.Abs(q1) < 1e-6:
			return (q2 * q2) / (2 * (-q2 + rn[1]*math.Log(rn[1]/rn[0])))
		case math.Abs(q2) < 1e-6:
			return (q0 * q0) / (2 * (-q0 + rn[2]*math.Log(rn[2]/rn[1])))
		default:
			return -(q0 * q1 * q2) / (2 * (q0*rn[0]*math.Log(rn[0]) + q1*rn[1]*math.Log(rn[1]) + q2*rn[2]*math.Log(rn[2])))
		}
	}
}

// KelvinFactor returns the conformal-mapping scale factor applied to an
// external (Kelvin-transformed, open-boundary) axisymmetric element's
// reluctivity, per the original solver's "warp the permeability" step:
// κ = (r̄²+ (z̄-Zo)²)·Ri / Ro³. The element's reluctivity should be divided
// by κ (equivalently, its permeability multiplied by κ).
func KelvinFactor(g *Geometry, problem *inp.Problem) float64 {
	r := g.Centroid[0]
	z := g.Centroid[1] - problem.ExtZo
	return (r*r+z*z)*problem.ExtRi/(problem.ExtRo*problem.ExtRo*problem.ExtRo)
}
