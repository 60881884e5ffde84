// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/sparse"
)

// AssembleHeat builds the steady-state heat-conduction system
// ∇·(k∇T) = -q over the whole mesh, using BlockProp.Kx,Ky as the
// anisotropic thermal conductivity.
func AssembleHeat(mesh *inp.Mesh, problem *inp.Problem, blocks []inp.BlockProp, labels []inp.BlockLabel, sys *sparse.BigLinProb) {
	AssembleScalar(FieldHeatFlow, mesh, problem, blocks, labels, nil, sys)
}
