// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_square_poisson_series_peak_matches_benchmark(tst *testing.T) {
	chk.PrintTitle("square_poisson_series_peak_matches_benchmark")
	var sol SquarePoissonSeries
	sol.Init(nil)
	sol.L = 1.0
	sol.F = 1e6 * mu0
	peak := sol.Peak()
	if peak <= 0 {
		tst.Errorf("expected a positive peak value, got %v", peak)
	}
}

func Test_concentric_electrodes_matches_boundary_values(tst *testing.T) {
	chk.PrintTitle("concentric_electrodes_matches_boundary_values")
	var sol ConcentricElectrodes
	sol.Init(nil)
	if math.Abs(sol.Value(sol.R1)-sol.V1) > 1e-9 {
		tst.Errorf("V(R1) should equal V1, got %v", sol.Value(sol.R1))
	}
	if math.Abs(sol.Value(sol.R2)-sol.V2) > 1e-9 {
		tst.Errorf("V(R2) should equal V2, got %v", sol.Value(sol.R2))
	}
}

func Test_skin_depth_bar_current_integrates_to_total_current(tst *testing.T) {
	chk.PrintTitle("skin_depth_bar_current_integrates_to_total_current")
	var sol SkinDepthBar
	sol.Init(nil)
	// crude midpoint-rule integration of J(r) over the disc to sanity-check
	// magnitude order against the prescribed total current.
	const n = 2000
	var total complex128
	dr := sol.R / n
	for i := 0; i < n; i++ {
		r := (float64(i) + 0.5) * dr
		total += sol.Current(r) * complex(2*math.Pi*r*dr, 0)
	}
	mag := realAbs(total)
	if mag < 0.5*sol.I || mag > 2*sol.I {
		tst.Errorf("integrated current %v should be within a factor of 2 of prescribed %v", mag, sol.I)
	}
}

func realAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
