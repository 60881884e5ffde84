// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/sparse"
)

func Test_assemble_magnetics_ac_respects_dirichlet(tst *testing.T) {
	chk.PrintTitle("assemble_magnetics_ac_respects_dirichlet")
	mesh, problem, blocks, labels := unitSquareMesh()
	problem.Format = "magnetics_ac"
	problem.Frequency = 60
	problem.Points[1].Value = complex(1, 0.5)
	sys := sparse.CreateComplex(len(mesh.Nodes), len(mesh.Nodes))
	AssembleMagneticsAC(mesh, problem, blocks, labels, nil, sys)
	ok, _ := sys.Solve(1e-10, 200)
	if !ok {
		tst.Errorf("complex solve should converge on this well-posed Dirichlet problem")
	}
	if cmplx.Abs(sys.V[0]) > 1e-6 {
		tst.Errorf("node 0 should stay fixed at 0, got %v", sys.V[0])
	}
	want := complex(1, 0.5)
	if cmplx.Abs(sys.V[3]-want) > 1e-6 {
		tst.Errorf("node 3 should stay fixed at %v, got %v", want, sys.V[3])
	}
}

func Test_assemble_magnetics_ac_eddy_current_adds_mass(tst *testing.T) {
	chk.PrintTitle("assemble_magnetics_ac_eddy_current_adds_mass")
	mesh, problem, blocks, labels := unitSquareMesh()
	problem.Format = "magnetics_ac"
	problem.Frequency = 60
	blocks[0].Sigma = 0
	sysNoCond := sparse.CreateComplex(len(mesh.Nodes), len(mesh.Nodes))
	AssembleMagneticsAC(mesh, problem, blocks, labels, nil, sysNoCond)
	v0 := sysNoCond.Get(sparse.Standard, 1, 1)

	blocks[0].Sigma = 1e6
	sysCond := sparse.CreateComplex(len(mesh.Nodes), len(mesh.Nodes))
	AssembleMagneticsAC(mesh, problem, blocks, labels, nil, sysCond)
	v1 := sysCond.Get(sparse.Standard, 1, 1)

	if cmplx.Abs(v1-v0) < 1e-9 {
		tst.Errorf("adding bulk conductivity should change the assembled diagonal via the eddy-current mass term")
	}
	if math.Abs(imag(v1)) < 1e-9 {
		tst.Errorf("the eddy-current term must contribute an imaginary part, got %v", v1)
	}
}

// Test_resolve_ac_conductors_augments_solid_conductor exercises spec.md
// §4.4's real conductor redirection: a fixed-current circuit whose only
// member is a solid (non-wound), conducting block must get a genuine
// augmented row, not the uniform-current-density approximation that would
// force skin effect to zero.
func Test_resolve_ac_conductors_augments_solid_conductor(tst *testing.T) {
	chk.PrintTitle("resolve_ac_conductors_augments_solid_conductor")
	mesh, problem, blocks, labels := unitSquareMesh()
	problem.Format = "magnetics_ac"
	problem.Frequency = 60
	blocks[0].Sigma = 4e7
	labels[0].Circuit = 0
	problem.Circuits = []inp.Circuit{{Kind: inp.CircuitParallel, Value: complex(1, 0)}}

	row := ResolveACConductors(mesh, problem, blocks, labels)
	if len(row) != 1 {
		tst.Fatalf("expected one circuit to need a real conductor row, got %d", len(row))
	}
	augRow := row[0]
	if augRow != len(mesh.Nodes) {
		tst.Errorf("augmented row should start at len(mesh.Nodes), got %d", augRow)
	}

	sys := sparse.CreateComplexWithConductors(len(mesh.Nodes)+1, len(mesh.Nodes)+1, len(mesh.Nodes))
	AssembleMagneticsAC(mesh, problem, blocks, labels, row, sys)
	if sys.Get(sparse.Standard, augRow, augRow) == 0 {
		tst.Errorf("augmented row should carry a nonzero self-coupling term")
	}
	if cmplx.Abs(sys.B[augRow]-complex(1, 0)) > 1e-12 {
		tst.Errorf("augmented row's RHS should carry the circuit's prescribed current, got %v", sys.B[augRow])
	}
	ok, _ := sys.Solve(1e-10, 500)
	if !ok {
		tst.Errorf("augmented complex solve should converge")
	}
}

// Test_resolve_ac_conductors_leaves_wound_coil_uniform checks the other
// side of the same Case split: a wound coil (many turns) keeps
// ResolveConductorSources' uniform-density approximation, which is exact
// for it, rather than being needlessly augmented.
func Test_resolve_ac_conductors_leaves_wound_coil_uniform(tst *testing.T) {
	chk.PrintTitle("resolve_ac_conductors_leaves_wound_coil_uniform")
	mesh, problem, blocks, labels := unitSquareMesh()
	blocks[0].Sigma = 4e7
	labels[0].Circuit = 0
	labels[0].Turns = 10
	problem.Circuits = []inp.Circuit{{Kind: inp.CircuitParallel, Value: complex(1, 0)}}

	row := ResolveACConductors(mesh, problem, blocks, labels)
	if len(row) != 0 {
		tst.Errorf("a wound coil should stay on the uniform-density path, got augmented rows %v", row)
	}
}
