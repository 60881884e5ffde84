// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
)

// unitSquareMesh mirrors ele's own fixture: a 1x1 mm square split into two
// triangles, with nodes 0 and 3 carrying fixed point conditions.
//
//	2---3
//	|  /|
//	| / |
//	0---1
func unitSquareMesh() (*inp.Mesh, *inp.Problem) {
	mesh := &inp.Mesh{
		Nodes: []inp.Node{
			{Id: 0, X: 0, Y: 0, Bc: 0},
			{Id: 1, X: 1, Y: 0, Bc: -1},
			{Id: 2, X: 0, Y: 1, Bc: -1},
			{Id: 3, X: 1, Y: 1, Bc: 1},
		},
		Elems: []inp.Element{
			{Id: 0, P: [3]int{0, 1, 3}, Label: 0, Block: 0, Edge: [3]int{-1, -1, -1}},
			{Id: 1, P: [3]int{0, 3, 2}, Label: 0, Block: 0, Edge: [3]int{-1, -1, -1}},
		},
	}
	problem := &inp.Problem{
		ProblemType: "planar",
		Depth:       1,
		Precision:   1e-10,
		Blocks:      []inp.BlockProp{{Kx: 1, Ky: 1}},
		Labels:      []inp.BlockLabel{{Material: 0, Circuit: -1}},
		Points: []inp.PointProp{
			{Fixed: true, Value: 0},
			{Fixed: true, Value: 1},
		},
	}
	return mesh, problem
}

// nodeAt finds a node's current index by its coordinates — Renumber is free
// to permute node order, so tests must not assume the fixture's original
// node indices survive assembly.
func nodeAt(mesh *inp.Mesh, x, y float64) int {
	for i, n := range mesh.Nodes {
		if math.Abs(n.X-x) < 1e-9 && math.Abs(n.Y-y) < 1e-9 {
			return i
		}
	}
	return -1
}

func Test_solve_heat_is_linear_and_respects_dirichlet(tst *testing.T) {
	chk.PrintTitle("solve_heat_is_linear_and_respects_dirichlet")
	mesh, problem := unitSquareMesh()
	problem.Format = "heat"
	d := NewDomain(problem, mesh)
	res, err := SolveHeat(d)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if res.Iterations != 1 {
		tst.Errorf("a linear regime should solve in exactly one iteration, got %d", res.Iterations)
	}
	i0, i3 := nodeAt(d.Mesh, 0, 0), nodeAt(d.Mesh, 1, 1)
	if math.Abs(d.Sol.Real[i0]) > 1e-6 {
		tst.Errorf("node (0,0) should stay fixed at 0, got %v", d.Sol.Real[i0])
	}
	if math.Abs(d.Sol.Real[i3]-1) > 1e-6 {
		tst.Errorf("node (1,1) should stay fixed at 1, got %v", d.Sol.Real[i3])
	}
}

func Test_solve_magnetostatic_converges_with_linear_material(tst *testing.T) {
	chk.PrintTitle("solve_magnetostatic_converges_with_linear_material")
	mesh, problem := unitSquareMesh()
	problem.Format = "magnetics_dc"
	d := NewDomain(problem, mesh)
	res, err := SolveMagnetostatic(d)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged || res.Iterations != 1 {
		tst.Errorf("a linear material should converge in exactly one iteration, got converged=%v iters=%d", res.Converged, res.Iterations)
	}
}

func Test_solve_magnetostatic_converges_with_nonlinear_material(tst *testing.T) {
	chk.PrintTitle("solve_magnetostatic_converges_with_nonlinear_material")
	mesh, problem := unitSquareMesh()
	problem.Format = "magnetics_dc"
	problem.Blocks[0].BH = []inp.BHPoint{
		{B: 0, H: 0},
		{B: 1, H: 100},
		{B: 1.5, H: 1000},
		{B: 2, H: 100000},
	}
	problem.Points[1].Value = 5
	d := NewDomain(problem, mesh)
	res, err := SolveMagnetostatic(d)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged {
		tst.Errorf("nonlinear outer loop should converge within %d iterations, residual=%v", maxOuterIterations, res.Residual)
	}
}

func Test_solve_magnetostatic_tags_outer_loop_exhaustion(tst *testing.T) {
	chk.PrintTitle("solve_magnetostatic_tags_outer_loop_exhaustion")
	mesh, problem := unitSquareMesh()
	problem.Format = "magnetics_dc"
	// a BH curve with a near-vertical segment drives the reluctivity update
	// back and forth without settling, so the outer loop exhausts its cap.
	problem.Blocks[0].BH = []inp.BHPoint{
		{B: 0, H: 0},
		{B: 1, H: 1},
		{B: 1.000001, H: 1e9},
	}
	problem.Points[1].Value = 50
	d := NewDomain(problem, mesh)
	_, err := SolveMagnetostatic(d)
	if err == nil {
		tst.Fatalf("expected the outer loop to fail to converge")
	}
	tagged, ok := err.(*inp.TaggedError)
	if !ok || tagged.Kind != inp.ErrSolverNonconvergence {
		tst.Errorf("expected ErrSolverNonconvergence, got %v", err)
	}
}

func Test_resolve_series_circuits_rewrites_to_parallel(tst *testing.T) {
	chk.PrintTitle("resolve_series_circuits_rewrites_to_parallel")
	_, problem := unitSquareMesh()
	problem.Circuits = []inp.Circuit{{Kind: inp.CircuitSeries, Value: complex(3, 0)}}
	problem.Labels[0].Circuit = 0
	ResolveSeriesCircuits(problem)
	got := problem.Labels[0].Circuit
	if got == 0 {
		tst.Errorf("label should have been repointed to a new Parallel circuit, still points at %d", got)
	}
	nc := problem.Circuits[got]
	if nc.Kind != inp.CircuitParallel || nc.Value != complex(3, 0) {
		tst.Errorf("rewritten circuit should be Parallel carrying the original value, got %+v", nc)
	}
}
