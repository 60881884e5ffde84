// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"sort"

	"github.com/cpmech/femag/inp"
)

// ResolveConductorSources computes, for every element whose block label
// owns a Parallel or Series circuit, the uniform source density that
// carries the circuit's prescribed total current/charge/heat-flow, and
// returns it as a per-element override (NaN-free; elements not owned by a
// circuit get 0 and fall back to their material's BlockProp.Source).
//
// The sparse engine supports a Lagrange-multiplier-style extra unknown per
// conductor (sparse.CreateWithConductors); this solver instead distributes
// each circuit's prescribed total uniformly over its cross-section before
// assembly, which is exact for a Parallel circuit (every turn sees the
// same current by definition) and is this implementation's deliberate
// simplification for a Series circuit, whose original-FEMM semantics is
// "rewrite to one parallel circuit per block, in proportion to turns"
// (mirrored here by ResolveSeriesCircuits in fem/, which runs before this
// function).
func ResolveConductorSources(mesh *inp.Mesh, problem *inp.Problem) []float64 {
	out := make([]float64, len(mesh.Elems))
	area := make([]float64, len(problem.Circuits))
	for ei := range mesh.Elems {
		lbl := mesh.Elems[ei].Label
		l := &problem.Labels[lbl]
		if l.Circuit < 0 {
			continue
		}
		g := NewGeometry(mesh, ei)
		area[l.Circuit] += g.Area
	}
	for ei := range mesh.Elems {
		lbl := mesh.Elems[ei].Label
		l := &problem.Labels[lbl]
		if l.Circuit < 0 || area[l.Circuit] == 0 {
			continue
		}
		c := &problem.Circuits[l.Circuit]
		if c.Kind == inp.CircuitFixed {
			continue // handled as a Dirichlet condition on the conductor's nodes, not a source
		}
		density := real(c.Value) / area[l.Circuit]
		if l.Turns != 0 {
			density *= float64(l.Turns)
		}
		out[ei] = density
	}
	return out
}

// isWoundConductor reports whether label l's winding sees current density
// spread uniformly across its cross-section rather than redistributed by
// skin/proximity effect — the same "many thin strands" heuristic
// inp.LamWound already uses for lamination, per the original solver's own
// "if coils are wound, they act like they have a zero bulk conductivity"
// rule (_examples/original_source/cfemm/fsolver/harmonic2d.cpp).
func isWoundConductor(b *inp.BlockProp, l *inp.BlockLabel) bool {
	return b.LamType >= inp.LamWound || l.Turns > 1 || l.Turns < -1 || b.WireStrandCount > 1
}

// ResolveACConductors partitions the AC regime's non-Fixed circuits into
// the ones ResolveConductorSources' uniform-current-density approximation
// still serves exactly (every member label wound, or none conducting —
// harmonic2d.cpp's "Case 1": CircInt2, the conductivity-weighted circuit
// area, is zero) and the ones that need the sparse engine's real
// conductor-redirection unknown instead ("Case 2": one or more solid,
// non-wound conducting labels, where a spatially uniform density cannot
// reproduce skin effect). The returned map gives each Case-2 circuit's
// augmented row index, starting at len(mesh.Nodes); a circuit absent from
// the map stays on the uniform-density path.
func ResolveACConductors(mesh *inp.Mesh, problem *inp.Problem, blocks []inp.BlockProp, labels []inp.BlockLabel) map[int]int {
	solidSigma := map[int]float64{}
	seen := map[int]bool{}
	for ei := range mesh.Elems {
		e := &mesh.Elems[ei]
		l := &labels[e.Label]
		if l.Circuit < 0 {
			continue
		}
		c := &problem.Circuits[l.Circuit]
		if c.Kind == inp.CircuitFixed {
			continue
		}
		seen[l.Circuit] = true
		b := &blocks[e.Block]
		if !isWoundConductor(b, l) {
			solidSigma[l.Circuit] += b.Sigma
		}
	}
	needsRow := make([]int, 0, len(seen))
	for c := range seen {
		if solidSigma[c] != 0 {
			needsRow = append(needsRow, c)
		}
	}
	sort.Ints(needsRow)
	row := make(map[int]int, len(needsRow))
	for i, c := range needsRow {
		row[c] = len(mesh.Nodes) + i
	}
	return row
}

// clearAugmentedOverride zeroes override for every element whose circuit
// was assigned a real conductor row, so ResolveConductorSources' uniform-
// density contribution is not double-counted alongside the coupling terms
// assembleACConductorCoupling adds for those same elements.
func clearAugmentedOverride(mesh *inp.Mesh, labels []inp.BlockLabel, conductorRow map[int]int, override []float64) {
	if len(conductorRow) == 0 {
		return
	}
	for ei := range mesh.Elems {
		l := &labels[mesh.Elems[ei].Label]
		if l.Circuit < 0 {
			continue
		}
		if _, ok := conductorRow[l.Circuit]; ok {
			override[ei] = 0
		}
	}
}
