// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// Validate checks the cross-cutting problem-level constraints spec.md §7
// calls out that no single per-record parser can enforce on its own: an
// AC problem may not carry a stacked-lamination block, and a requested
// [prevsoln] incremental-permeability restart is accepted only on a
// nonzero-frequency problem built on a previous DC operating point, and is
// rejected for a zero-frequency or axisymmetric-harmonic problem, which the
// original solver never supported either.
func Validate(p *Problem) error {
	if p.IsACMagnetics() {
		for i := range p.Blocks {
			if p.Blocks[i].LamType == LamStackX || p.Blocks[i].LamType == LamStackY {
				return Tag(ErrLaminationInAC, "stacked lamination (LamType 1 or 2) is not supported in AC magnetics")
			}
		}
	}
	if p.PrevSoln != "" {
		if p.Frequency == 0 {
			return Tag(ErrIncompatiblePrevSoln, "[prevsoln] requires a nonzero [frequency]")
		}
		if p.IsACMagnetics() && p.AxiSymmetric() {
			return Tag(ErrIncompatiblePrevSoln, "[prevsoln] is not supported for axisymmetric AC magnetics")
		}
	}
	return nil
}
