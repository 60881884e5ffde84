// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_solution_residual_is_relative_l2_change(tst *testing.T) {
	chk.PrintTitle("solution_residual_is_relative_l2_change")
	v := []float64{1, 0}
	vPrev := []float64{0, 0}
	got := solutionResidual(v, vPrev)
	if math.Abs(got-1) > 1e-12 {
		tst.Errorf("expected residual 1 for a unit step from zero, got %v", got)
	}
	if solutionResidual(v, v) != 0 {
		tst.Errorf("residual against itself should be exactly 0")
	}
}

func Test_relax_solution_blends_toward_previous_iterate(tst *testing.T) {
	chk.PrintTitle("relax_solution_blends_toward_previous_iterate")
	v := []float64{10, 20}
	vPrev := []float64{0, 0}
	relaxSolution(v, vPrev, 0.25)
	if math.Abs(v[0]-2.5) > 1e-12 || math.Abs(v[1]-5) > 1e-12 {
		tst.Errorf("relax=0.25 should blend 25%% of v with 75%% of vPrev, got %v", v)
	}
}

func Test_complex_residual_and_relax_match_real_case(tst *testing.T) {
	chk.PrintTitle("complex_residual_and_relax_match_real_case")
	v := []complex128{complex(1, 0), 0}
	vPrev := []complex128{0, 0}
	if got := complexResidual(v, vPrev); math.Abs(got-1) > 1e-12 {
		tst.Errorf("expected residual 1, got %v", got)
	}
	relaxSolutionComplex(v, vPrev, 0.25)
	if cmplxAbsDiff(v[0], complex(0.25, 0)) > 1e-12 {
		tst.Errorf("relax=0.25 should blend toward vPrev, got %v", v[0])
	}
}

func cmplxAbsDiff(a, b complex128) float64 {
	d := a - b
	return math.Hypot(real(d), imag(d))
}

func Test_tighten_inner_precision_falls_back_to_outer_precision_on_first_pass(tst *testing.T) {
	chk.PrintTitle("tighten_inner_precision_falls_back_to_outer_precision_on_first_pass")
	if got := tightenInnerPrecision(1e-8, 0); got != 1e-8 {
		tst.Errorf("with no prior residual, inner precision should equal the outer precision, got %v", got)
	}
}

func Test_tighten_inner_precision_never_exceeds_1e4_or_drops_below_outer_precision(tst *testing.T) {
	chk.PrintTitle("tighten_inner_precision_never_exceeds_1e4_or_drops_below_outer_precision")
	if got := tightenInnerPrecision(1e-8, 10); got != 1e-4 {
		tst.Errorf("a large residual should cap the inner precision at 1e-4, got %v", got)
	}
	if got := tightenInnerPrecision(1e-2, 1e-3); got != 1e-2 {
		tst.Errorf("the inner precision should never be tighter than the outer precision, got %v", got)
	}
}
