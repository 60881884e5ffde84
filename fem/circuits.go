// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/femag/inp"

// ResolveSeriesCircuits rewrites every Series circuit into one independent
// Parallel circuit per block label it owns, all carrying the circuit's
// original total value. A Series circuit's defining property is that the
// same current/charge/heat-flow runs through every label it owns (that is
// what "in series" means); a Parallel circuit with that same value applied
// to one label already produces exactly that current for that label
// (ele.ResolveConductorSources distributes a circuit's Value uniformly,
// scaled by the label's own Turns, over that label's own cross-section) —
// so splitting a Series circuit into one Parallel circuit per label, all
// sharing the same Value, reproduces series current-sharing without
// ele/ needing to know anything about circuit topology. Grounded on
// _examples/original_source/cfemm/fsolver/fsolver.cpp's LoadProblemFile,
// which performs the equivalent per-block rewrite while loading the
// problem file, before any matrix assembly begins. Must run once, before
// the first call to ele.ResolveConductorSources.
// ResolveSeriesCircuits returns shadowOf, a map from every newly-created
// shadow Parallel circuit's index back to the original Series circuit it
// was split from — out/ needs this to collapse shadow conductors back to
// their real circuit when writing per-label results (spec.md §4.8: "a
// per-label record carries its real circuit's excitation, not the shadow
// one").
func ResolveSeriesCircuits(problem *inp.Problem) (shadowOf map[int]int) {
	shadowOf = make(map[int]int)
	for li := range problem.Labels {
		l := &problem.Labels[li]
		if l.Circuit < 0 {
			continue
		}
		original := l.Circuit
		c := &problem.Circuits[original]
		if c.Kind != inp.CircuitSeries {
			continue
		}
		problem.Circuits = append(problem.Circuits, inp.Circuit{Kind: inp.CircuitParallel, Value: c.Value})
		l.Circuit = len(problem.Circuits) - 1
		shadowOf[l.Circuit] = original
	}
	return
}
