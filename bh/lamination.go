// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bh

import (
	"math"
	"math/cmplx"

	"github.com/cpmech/femag/inp"
)

// Mu0 is the permeability of free space, in N/A² (H/m).
const Mu0 = 4 * math.Pi * 1e-7

// deg45 is exp(-i·π/4), the 45° phase lag a skin-effect argument always
// carries (the original derivation's "halflag" rotation with θh=0 folded
// in separately below).
var deg45 = cmplx.Exp(complex(0, -math.Pi/4))

// InPlaneMu computes the complex effective relative permeability of an
// in-plane-laminated block (BlockProp.LamType==LamInPlane) at angular
// frequency omega, per the classic eddy-current lamination formula: the
// core's relative permeability is rotated by the hysteresis angle, then
// reduced by tanh(K)/K where K is the lamination half-thickness expressed
// in skin depths, and finally mixed with the non-conducting fill fraction.
// Grounded on the original cfemm harmonic solver's per-block effective
// permeability computation (same tanh(K)/K reduction, same (1-fill) air
// term); lengths are taken in millimeters, matching this solver's internal
// unit (spec.md §9 Open Question (i)).
func InPlaneMu(b *inp.BlockProp, muRel, omega float64) complex128 {
	mu := complex(muRel, 0) * cmplx.Exp(complex(0, -b.LamHystDeg*math.Pi/180))
	if b.LamThickness == 0 || b.Sigma == 0 || omega == 0 {
		return mu
	}
	halflag := cmplx.Exp(complex(0, -b.LamHystDeg*math.Pi/360))
	skinDepth := math.Sqrt(2 / (Mu0 * omega * b.Sigma * muRel))
	thicknessM := b.LamThickness * 0.001
	k := halflag * deg45 * complex(thicknessM/(2*skinDepth), 0)
	reduced := mu * cmplx.Tanh(k) / k
	return reduced*complex(b.LamFill, 0) + complex(1-b.LamFill, 0)
}

// StackedMu computes the anisotropic relative permeability pair (muX,muY)
// of a block whose laminations are stacked along one in-page axis
// (LamStackX or LamStackY): flux crossing the stack direction sees the
// core and air gaps in series (harmonic mean of permeabilities), while
// flux running along the lamination plane sees them in parallel
// (arithmetic, fill-weighted mean). This closed-form reluctance-network
// homogenization is the DC-limit completion of the frequency-dependent
// formula above: the original solver does not run its eddy-current
// reduction for on-edge lamination in AC at all (ErrLaminationInAC, see
// harmonic2d.cpp's early rejection of LamType 1/2), so only the DC case
// needs this rule.
func StackedMu(lamType int, muCore, lamFill float64) (muX, muY float64) {
	series := 1 / (lamFill/muCore + (1 - lamFill))
	parallel := lamFill*muCore + (1 - lamFill)
	if lamType == inp.LamStackX {
		return series, parallel
	}
	return parallel, series
}
