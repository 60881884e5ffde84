// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_square_magnetostatic_fixture_loads exercises the full loader
// pipeline (ReadProblem -> LoadMesh -> AssignMaterials) against the
// square_magnetostatic example fixture, the same sequence main.go's load
// runs.
func Test_square_magnetostatic_fixture_loads(tst *testing.T) {
	chk.PrintTitle("square_magnetostatic_fixture_loads")
	p, err := ReadProblem("../examples/square_magnetostatic/square.fem")
	if err != nil {
		tst.Fatalf("ReadProblem failed: %v", err)
	}
	if p.Format != "magnetics_dc" {
		tst.Errorf("expected format magnetics_dc, got %q", p.Format)
	}
	if len(p.Blocks) != 1 || len(p.Labels) != 1 {
		tst.Fatalf("expected one block and one label, got %d blocks, %d labels", len(p.Blocks), len(p.Labels))
	}
	if err := Validate(p); err != nil {
		tst.Fatalf("Validate failed: %v", err)
	}
	m, err := LoadMesh(p.Basename, p.LengthUnits)
	if err != nil {
		tst.Fatalf("LoadMesh failed: %v", err)
	}
	if len(m.Nodes) != 36 {
		tst.Errorf("expected 36 nodes, got %d", len(m.Nodes))
	}
	if len(m.Elems) != 50 {
		tst.Errorf("expected 50 elements, got %d", len(m.Elems))
	}
	if err := m.AssignMaterials(p.Labels); err != nil {
		tst.Fatalf("AssignMaterials failed: %v", err)
	}
	for i, e := range m.Elems {
		if e.Block != 0 {
			tst.Errorf("element %d: expected Block 0 (the fixture's only block), got %d", i, e.Block)
		}
	}
}

// Test_concentric_electrodes_fixture_loads exercises the same pipeline for
// the periodic-annulus fixture, which additionally carries pbc pairs.
func Test_concentric_electrodes_fixture_loads(tst *testing.T) {
	chk.PrintTitle("concentric_electrodes_fixture_loads")
	p, err := ReadProblem("../examples/concentric_electrodes/annulus.fem")
	if err != nil {
		tst.Fatalf("ReadProblem failed: %v", err)
	}
	if p.Format != "electrostatic" {
		tst.Errorf("expected format electrostatic, got %q", p.Format)
	}
	if len(p.Points) != 2 {
		tst.Fatalf("expected two fixed-potential point properties, got %d", len(p.Points))
	}
	m, err := LoadMesh(p.Basename, p.LengthUnits)
	if err != nil {
		tst.Fatalf("LoadMesh failed: %v", err)
	}
	if len(m.Pairs) != 5 {
		tst.Errorf("expected 5 periodic pairs across the annulus's angular seam, got %d", len(m.Pairs))
	}
	if err := m.AssignMaterials(p.Labels); err != nil {
		tst.Fatalf("AssignMaterials failed: %v", err)
	}
}

func Test_read_problem_reports_bad_problem_file(tst *testing.T) {
	chk.PrintTitle("read_problem_reports_bad_problem_file")
	_, err := ReadProblem("../examples/does_not_exist/nope.fem")
	if err == nil {
		tst.Fatalf("expected an error for a missing problem file")
	}
	tagged, ok := err.(*TaggedError)
	if !ok || tagged.Kind != ErrBadProblemFile {
		tst.Errorf("expected ErrBadProblemFile, got %v", err)
	}
}
