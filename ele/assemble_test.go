// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/sparse"
)

// unitSquareMesh returns a 1x1 mm square split into two triangles:
//
//	2---3
//	|  /|
//	| / |
//	0---1
func unitSquareMesh() (*inp.Mesh, *inp.Problem, []inp.BlockProp, []inp.BlockLabel) {
	mesh := &inp.Mesh{
		Nodes: []inp.Node{
			{Id: 0, X: 0, Y: 0, Bc: -1},
			{Id: 1, X: 1, Y: 0, Bc: -1},
			{Id: 2, X: 0, Y: 1, Bc: -1},
			{Id: 3, X: 1, Y: 1, Bc: -1},
		},
		Elems: []inp.Element{
			{Id: 0, P: [3]int{0, 1, 3}, Label: 0, Block: 0, Edge: [3]int{-1, -1, -1}, Mu1: 1, Mu2: 1},
			{Id: 1, P: [3]int{0, 3, 2}, Label: 0, Block: 0, Edge: [3]int{-1, -1, -1}, Mu1: 1, Mu2: 1},
		},
	}
	blocks := []inp.BlockProp{{Kx: 1, Ky: 1}}
	labels := []inp.BlockLabel{{Material: 0, Circuit: -1}}
	problem := &inp.Problem{
		ProblemType: "planar",
		Depth:       1,
		Points: []inp.PointProp{
			{Fixed: true, Value: 0},
			{Fixed: true, Value: 1},
		},
	}
	mesh.Nodes[0].Bc = 0
	mesh.Nodes[3].Bc = 1
	return mesh, problem, blocks, labels
}

func Test_geometry_area_and_shape(tst *testing.T) {
	chk.PrintTitle("geometry_area_and_shape")
	mesh, _, _, _ := unitSquareMesh()
	g := NewGeometry(mesh, 0)
	if math.Abs(g.Area-0.5) > 1e-12 {
		tst.Errorf("triangle area should be 0.5, got %v", g.Area)
	}
	var sumB, sumC float64
	for i := 0; i < 3; i++ {
		sumB += g.B[i]
		sumC += g.C[i]
	}
	if math.Abs(sumB) > 1e-12 || math.Abs(sumC) > 1e-12 {
		tst.Errorf("shape-function gradient coefficients must sum to zero, got sumB=%v sumC=%v", sumB, sumC)
	}
}

func Test_assemble_scalar_respects_dirichlet(tst *testing.T) {
	chk.PrintTitle("assemble_scalar_respects_dirichlet")
	mesh, problem, blocks, labels := unitSquareMesh()
	sys := sparse.Create(len(mesh.Nodes), len(mesh.Nodes))
	AssembleScalar(FieldHeatFlow, mesh, problem, blocks, labels, nil, sys)
	ok, _ := sys.Solve(1e-10, 200)
	if !ok {
		tst.Errorf("solve should converge on this well-posed Dirichlet problem")
	}
	if math.Abs(sys.V[0]-0) > 1e-6 {
		tst.Errorf("node 0 should stay fixed at 0, got %v", sys.V[0])
	}
	if math.Abs(sys.V[3]-1) > 1e-6 {
		tst.Errorf("node 3 should stay fixed at 1, got %v", sys.V[3])
	}
}

func Test_apply_axis_dirichlet(tst *testing.T) {
	chk.PrintTitle("apply_axis_dirichlet")
	mesh, problem, blocks, labels := unitSquareMesh()
	problem.ProblemType = "axisymmetric"
	sys := sparse.Create(len(mesh.Nodes), len(mesh.Nodes))
	AssembleScalar(FieldMagnetostatic, mesh, problem, blocks, labels, nil, sys)
	ok, _ := sys.Solve(1e-10, 200)
	if !ok {
		tst.Errorf("solve should converge")
	}
	// nodes 0 and 2 sit on the axis (X=0) and must be forced to zero
	// regardless of the point Dirichlet conditions assigned above.
	if math.Abs(sys.V[2]-0) > 1e-6 {
		tst.Errorf("on-axis node 2 should be forced to 0, got %v", sys.V[2])
	}
}

func Test_kelvin_factor_grows_with_radius(tst *testing.T) {
	chk.PrintTitle("kelvin_factor_grows_with_radius")
	problem := &inp.Problem{ExtZo: 0, ExtRi: 1, ExtRo: 10}
	near := &Geometry{Centroid: [2]float64{2, 0}}
	far := &Geometry{Centroid: [2]float64{8, 0}}
	kNear := KelvinFactor(near, problem)
	kFar := KelvinFactor(far, problem)
	if kFar <= kNear {
		tst.Errorf("Kelvin factor should grow with radius: near=%v far=%v", kNear, kFar)
	}
}
