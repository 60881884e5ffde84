// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_validate_rejects_stacked_lamination_in_ac(tst *testing.T) {
	chk.PrintTitle("validate_rejects_stacked_lamination_in_ac")
	p := defaultProblem()
	p.Format = "magnetics_ac"
	p.Frequency = 60
	p.Blocks = []BlockProp{{LamType: LamStackX}}
	err := Validate(p)
	if err == nil {
		tst.Fatalf("expected an error for a stacked lamination in AC")
	}
	tagged, ok := err.(*TaggedError)
	if !ok || tagged.Kind != ErrLaminationInAC {
		tst.Errorf("expected ErrLaminationInAC, got %v", err)
	}
}

func Test_validate_accepts_in_plane_lamination_in_ac(tst *testing.T) {
	chk.PrintTitle("validate_accepts_in_plane_lamination_in_ac")
	p := defaultProblem()
	p.Format = "magnetics_ac"
	p.Frequency = 60
	p.Blocks = []BlockProp{{LamType: LamInPlane}}
	if err := Validate(p); err != nil {
		tst.Errorf("in-plane lamination should be accepted in AC, got %v", err)
	}
}

func Test_validate_accepts_stacked_lamination_in_dc(tst *testing.T) {
	chk.PrintTitle("validate_accepts_stacked_lamination_in_dc")
	p := defaultProblem()
	p.Format = "magnetics_dc"
	p.Blocks = []BlockProp{{LamType: LamStackY}}
	if err := Validate(p); err != nil {
		tst.Errorf("stacked lamination should be accepted outside AC, got %v", err)
	}
}

func Test_validate_rejects_prevsoln_with_zero_frequency(tst *testing.T) {
	chk.PrintTitle("validate_rejects_prevsoln_with_zero_frequency")
	p := defaultProblem()
	p.Format = "magnetics_dc"
	p.PrevSoln = "prev.sol"
	err := Validate(p)
	if err == nil {
		tst.Fatalf("expected an error for [prevsoln] with zero frequency")
	}
	tagged, ok := err.(*TaggedError)
	if !ok || tagged.Kind != ErrIncompatiblePrevSoln {
		tst.Errorf("expected ErrIncompatiblePrevSoln, got %v", err)
	}
}

func Test_validate_rejects_prevsoln_with_axisymmetric_ac(tst *testing.T) {
	chk.PrintTitle("validate_rejects_prevsoln_with_axisymmetric_ac")
	p := defaultProblem()
	p.Format = "magnetics_ac"
	p.ProblemType = "axisymmetric"
	p.Frequency = 60
	p.PrevSoln = "prev.sol"
	err := Validate(p)
	if err == nil {
		tst.Fatalf("expected an error for [prevsoln] with axisymmetric AC")
	}
	tagged, ok := err.(*TaggedError)
	if !ok || tagged.Kind != ErrIncompatiblePrevSoln {
		tst.Errorf("expected ErrIncompatiblePrevSoln, got %v", err)
	}
}
