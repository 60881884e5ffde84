// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/sparse"
)

// AssembleElectrostatic builds the electrostatic potential system
// ∇·(ε∇V) = -ρ over the whole mesh. Electrostatic materials carry no
// nonlinear B-H table, so BlockProp.Kx,Ky (anisotropic permittivity) are
// used directly and the outer loop never iterates this regime more than
// once.
func AssembleElectrostatic(mesh *inp.Mesh, problem *inp.Problem, blocks []inp.BlockProp, labels []inp.BlockLabel, sys *sparse.BigLinProb) {
	AssembleScalar(FieldElectrostatic, mesh, problem, blocks, labels, nil, sys)
}
