// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bh

import "github.com/cpmech/femag/inp"

// Model bundles a material's nonlinear B-H curve with its resolved
// reluctivity at the free-space limit, cached once per BlockProp so the
// outer nonlinear loop in fem/ does not rebuild the Hermite tangents on
// every iteration. Modeled on the GetModel/database pattern the material
// model packages use elsewhere in this codebase's lineage (allocate once,
// key by the owning property, reuse), adapted here to key by the
// BlockProp's identity rather than by a simulation/material name string,
// since block properties carry no name in this problem format.
type Model struct {
	Curve *Curve // nil for a linear material
	Mu0Nu float64 // 1/(µ0·µr) for a linear material; ignored if Curve != nil
}

var _db = map[*inp.BlockProp]*Model{}

// GetModel returns the cached Model for b, allocating it on first use.
func GetModel(b *inp.BlockProp) *Model {
	if m, ok := _db[b]; ok {
		return m
	}
	m := &Model{}
	if b.IsNonlinear() {
		m.Curve = NewCurve(b.BH)
	} else {
		mur := b.Kx
		if mur == 0 {
			mur = 1
		}
		m.Mu0Nu = 1 / (Mu0 * mur)
	}
	_db[b] = m
	return m
}

// ResetRegistry forgets every cached Model, so the next GetModel call for a
// block builds a fresh one.
func ResetRegistry() { _db = map[*inp.BlockProp]*Model{} }
