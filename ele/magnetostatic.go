// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/sparse"
)

// AssembleMagnetostatic builds the DC magnetic vector-potential system
// ∇·(ν∇A_z) = -Jz over the whole mesh, using each element's current
// reluctivity estimate (Mu1/Mu2, refreshed once per outer-loop iteration
// by bh.UpdateElementMu).
func AssembleMagnetostatic(mesh *inp.Mesh, problem *inp.Problem, blocks []inp.BlockProp, labels []inp.BlockLabel, sys *sparse.BigLinProb) {
	override := ResolveConductorSources(mesh, problem)
	AssembleScalar(FieldMagnetostatic, mesh, problem, blocks, labels, override, sys)
}
