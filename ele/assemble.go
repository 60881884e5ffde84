// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/sparse"
)

// ScalarField identifies which of the three real scalar regimes an
// assembler call is for; it only changes which BlockProp/Element fields
// supply the diffusion coefficients and source term.
type ScalarField int

const (
	FieldMagnetostatic ScalarField = iota // A_z; coefficient = element reluctivity (Mu1,Mu2)
	FieldElectrostatic                    // V; coefficient = BlockProp.Kx,Ky (permittivity)
	FieldHeatFlow                         // T; coefficient = BlockProp.Kx,Ky (conductivity)
)

// depth returns the out-of-plane integration depth: the prescribed
// constant for a planar problem, or 2π·r̄ for an axisymmetric one (the
// Kelvin scaling for an external label is folded into kx,ky instead, since
// it modifies the material coefficient, not the integration depth).
func depth(problem *inp.Problem, g *Geometry) float64 {
	if !problem.AxiSymmetric() {
		return problem.Depth
	}
	return 2 * math.Pi * g.AxiRbar()
}

// coeffs returns the local (kx,ky) diffusion coefficients for element ei
// under the given field.
func coeffs(field ScalarField, mesh *inp.Mesh, blocks []inp.BlockProp, ei int) (kx, ky float64) {
	e := &mesh.Elems[ei]
	if field == FieldMagnetostatic {
		nu1, nu2 := real(e.Mu1), real(e.Mu2)
		if nu2 == 0 {
			nu2 = nu1
		}
		return nu2, nu1
	}
	b := &blocks[e.Block]
	return b.Kx, b.Ky
}

// source returns the volumetric source density for element ei: the
// circuit-resolved override if ei belongs to a conductor (see
// ResolveConductorSources), otherwise the material's constant
// BlockProp.Source. The same field serves all three real regimes (current
// density, charge density, heat density).
func source(mesh *inp.Mesh, blocks []inp.BlockProp, override []float64, ei int) float64 {
	e := &mesh.Elems[ei]
	if override != nil && override[ei] != 0 {
		return override[ei]
	}
	return real(blocks[e.Block].Source)
}

// AssembleScalar builds the global stiffness/load for one of the three
// real scalar regimes over every element and folds Dirichlet rows in
// place. Periodicity and the outer nonlinear loop's per-iteration
// reluctivity refresh (bh.UpdateElementMu) are the caller's
// responsibility — this only assembles one linear (or one Newton-frozen)
// system from whatever coefficients the elements currently carry.
// srcOverride may be nil; otherwise it is the result of
// ResolveConductorSources.
func AssembleScalar(field ScalarField, mesh *inp.Mesh, problem *inp.Problem, blocks []inp.BlockProp, labels []inp.BlockLabel, srcOverride []float64, sys *sparse.BigLinProb) {
	sys.Wipe()
	for ei := range mesh.Elems {
		g := NewGeometry(mesh, ei)
		kx, ky := coeffs(field, mesh, blocks, ei)
		d := depth(problem, &g)
		if problem.AxiSymmetric() {
			lbl := &labels[mesh.Elems[ei].Label]
			if lbl.External {
				kappa := KelvinFactor(&g, problem)
				kx /= kappa
				ky /= kappa
			}
		}
		assembleElementStiffness(mesh, ei, &g, kx, ky, d, sys)
		assembleElementLoad(mesh, blocks, labels, srcOverride, ei, &g, d, sys)
		assembleEdgeConditions(mesh, problem, ei, &g, sys)
	}
	ApplyPointDirichlet(sys, mesh, problem)
	ApplyEdgeDirichlet(sys, mesh, problem)
	ApplyConductorDirichlet(sys, mesh, problem)
	if problem.AxiSymmetric() {
		ApplyAxisDirichlet(sys, mesh)
	}
}

// ApplyConductorDirichlet sets every node marked with a Fixed-kind circuit
// (Node.Cond) to that circuit's prescribed value: a Fixed circuit is a
// Dirichlet condition on its conductor's nodes, not a volumetric source
// (ResolveConductorSources deliberately skips it for that reason).
func ApplyConductorDirichlet(sys *sparse.BigLinProb, mesh *inp.Mesh, problem *inp.Problem) {
	for i := range mesh.Nodes {
		n := &mesh.Nodes[i]
		if n.Cond < 0 {
			continue
		}
		c := &problem.Circuits[n.Cond]
		if c.Kind == inp.CircuitFixed {
			sys.SetValue(i, real(c.Value))
		}
	}
}

// ApplyAxisDirichlet forces A_z (or V, T) to zero at every node sitting on
// the axis of revolution (r≈0), per the original solver's on-axis boundary
// treatment for StaticAxisymmetric: the axis is a natural Dirichlet
// boundary for the revolved potential, not merely wherever the mesh
// happens to place an explicit point/edge condition.
func ApplyAxisDirichlet(sys *sparse.BigLinProb, mesh *inp.Mesh) {
	const axisTol = 1e-6
	for i := range mesh.Nodes {
		if mesh.Nodes[i].X < axisTol {
			sys.SetValue(i, 0)
		}
	}
}

func assembleElementStiffness(mesh *inp.Mesh, ei int, g *Geometry, kx, ky, d float64, sys *sparse.BigLinProb) {
	e := &mesh.Elems[ei]
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			sys.Put(d*g.StiffnessTerm(i, j, kx, ky), e.P[i], e.P[j])
		}
	}
}

func assembleElementLoad(mesh *inp.Mesh, blocks []inp.BlockProp, labels []inp.BlockLabel, override []float64, ei int, g *Geometry, d float64, sys *sparse.BigLinProb) {
	e := &mesh.Elems[ei]
	src := source(mesh, blocks, override, ei)
	if src != 0 {
		lumped := src * g.Area * d / 3
		for i := 0; i < 3; i++ {
			sys.B[e.P[i]] += lumped
		}
	}
	be := magnetizationLoad(mesh, blocks, labels, ei, d)
	for i := 0; i < 3; i++ {
		sys.B[e.P[i]] += be[i]
	}
}

// magnetizationLoad returns element ei's three nodal load contributions
// from its block's permanent-magnet excitation: coercive magnetization
// H_c (BlockProp.MagH) directed at its label's MagAngle, grounded on the
// original solver's axisymmetric magnetization term
// (cfemm/fsolver/staticaxi.cpp), generalized to both planar and
// axisymmetric geometry by folding the revolution scaling into this
// package's own depth() rather than the original's per-edge-radius and
// unit-conversion factor. MagExpr (a per-element angle override) has no
// expression engine wired in here, so a non-empty MagExpr is ignored and
// the label's constant MagAngle is used instead.
func magnetizationLoad(mesh *inp.Mesh, blocks []inp.BlockProp, labels []inp.BlockLabel, ei int, d float64) (be [3]float64) {
	e := &mesh.Elems[ei]
	hc := blocks[e.Block].MagH
	if hc == 0 {
		return be
	}
	lbl := &labels[e.Label]
	theta := lbl.MagAngle * math.Pi / 180
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	for j := 0; j < 3; j++ {
		k := (j + 1) % 3
		pj, pk := mesh.Nodes[e.P[j]], mesh.Nodes[e.P[k]]
		K := -hc * d * (cosT*(pk.X-pj.X) + sinT*(pk.Y-pj.Y))
		be[j] += K
		be[k] += K
	}
	return be
}

// assembleEdgeConditions folds the Mixed (Robin) and SurfaceSource
// boundary contributions of every marked edge of element ei into the
// stiffness/load built so far.
func assembleEdgeConditions(mesh *inp.Mesh, problem *inp.Problem, ei int, g *Geometry, sys *sparse.BigLinProb) {
	e := &mesh.Elems[ei]
	for j := 0; j < 3; j++ {
		bcIdx := e.Edge[j]
		if bcIdx < 0 {
			continue
		}
		bc := &problem.Boundaries[bcIdx]
		a, b := e.P[j], e.P[(j+1)%3]
		l := EdgeLength(mesh, ei, j)
		switch bc.Kind {
		case inp.BdryMixed:
			c0, c1 := real(bc.C0), real(bc.C1)
			k := c0 * l / 6
			sys.Put(2*k, a, a)
			sys.Put(2*k, b, b)
			sys.Put(k, a, b)
			load := c1 * l / 2
			sys.B[a] += load
			sys.B[b] += load
		case inp.BdrySurfaceSource:
			load := real(bc.Source) * l / 2
			sys.B[a] += load
			sys.B[b] += load
		}
	}
}

// ApplyPointDirichlet sets every node carrying a fixed PointProp to its
// prescribed value.
func ApplyPointDirichlet(sys *sparse.BigLinProb, mesh *inp.Mesh, problem *inp.Problem) {
	for i := range mesh.Nodes {
		n := &mesh.Nodes[i]
		if n.Bc < 0 {
			continue
		}
		pp := &problem.Points[n.Bc]
		if pp.Fixed {
			sys.SetValue(i, real(pp.Value))
		}
	}
}

// ApplyEdgeDirichlet sets every node touched by a Fixed-kind edge
// boundary to its prescribed value (linear-in-coordinates, with phase
// ignored in the real engine).
func ApplyEdgeDirichlet(sys *sparse.BigLinProb, mesh *inp.Mesh, problem *inp.Problem) {
	for ei := range mesh.Elems {
		e := &mesh.Elems[ei]
		for j := 0; j < 3; j++ {
			bcIdx := e.Edge[j]
			if bcIdx < 0 {
				continue
			}
			bc := &problem.Boundaries[bcIdx]
			if bc.Kind != inp.BdryFixed {
				continue
			}
			for _, node := range [2]int{e.P[j], e.P[(j+1)%3]} {
				n := &mesh.Nodes[node]
				val := real(bc.Value) + bc.GradX*n.X + bc.GradY*n.Y
				sys.SetValue(node, val)
			}
		}
	}
}
