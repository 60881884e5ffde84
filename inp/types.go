// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the input data read from a problem file
// (.fem/.feh/.fee) and its companion mesh files (.node/.ele/.edge/.pbc):
// nodes, elements, periodic pairs, boundary/point/block properties,
// circuits and block labels.
package inp

// Node holds a mesh vertex: planar coordinates in the solver's internal
// length unit (millimeters, see LoadMesh), plus the resolved point-property
// and conductor marker indices (-1 meaning "none"). Bc indexes
// Problem.Points (a nodal source/fixed-value condition); edge-level
// conditions live on the owning Element's Edge array instead, indexing
// Problem.Boundaries.
type Node struct {
	Id   int
	X, Y float64
	Bc   int // index into Problem.Points, or -1
	Cond int // index into Problem.Circuits, or -1
}

// Element holds a triangle: three vertex indices (p0,p1,p2), the resolved
// block-label and material (block-type) indices, three edge markers (edge
// j runs from P[j] to P[(j+1)%3]; -1 if internal), and the per-element scratch
// permeability pair used by the outer nonlinear loop (spec.md §3). Mu1/Mu2
// are carried as complex128 so the same Element type serves both the real
// (DC magnetostatics, electrostatics, heat flow) and complex (AC magnetics)
// assemblers; real regimes simply keep the imaginary part at zero.
type Element struct {
	Id    int
	P     [3]int
	Label int // resolved BlockLabel index
	Block int // resolved BlockProp (material) index
	Edge  [3]int
	Mu1   complex128
	Mu2   complex128
}

// PeriodicPair couples two nodes as periodic (Tag==0) or anti-periodic
// (Tag==1).
type PeriodicPair struct {
	A, B int
	Tag  int
}

// BHPoint is one sample (B,H) of a block's saturation curve.
type BHPoint struct {
	B, H float64
}

// BdryKind discriminates the boundary-property tagged union (spec.md §3).
type BdryKind int

const (
	BdryFixed BdryKind = iota
	BdryMixed
	BdrySurfaceSource
	BdrySkinDepth
	BdryPeriodic
	BdryAntiPeriodic
)

// BoundaryProp is one entry of the boundary-property table referenced by
// Element.Edge[j].
type BoundaryProp struct {
	Kind BdryKind

	// BdryFixed: constant or linear-in-coordinates value with a phase.
	Value    complex128
	GradX    float64
	GradY    float64
	PhaseDeg float64

	// BdryMixed (Robin): c0*u + c1 = du/dn
	C0, C1 complex128

	// BdrySurfaceSource: surface charge / line current density
	Source complex128

	// BdrySkinDepth: small-skin-depth absorbing boundary material
	Mu, Sigma float64
}

// PointProp is a nodal source and/or fixed-value condition, referenced by
// Node.Bc (spec.md §3 Point property).
type PointProp struct {
	Source complex128
	Fixed  bool
	Value  complex128
}

// LamType values for BlockProp.LamType (spec.md §4.6).
const (
	LamInPlane = 0
	LamStackX  = 1
	LamStackY  = 2
	LamWound   = 3 // and any LamType>=3, or |Turns|>1 on the owning label
)

// BlockProp is a material (block-type) property: linear anisotropic
// tensor, lamination descriptor, optional B-H table, optional wire
// descriptor, and a volumetric source density.
type BlockProp struct {
	Kx, Ky float64 // anisotropic permeability/permittivity/conductivity
	Sigma  float64 // bulk conductivity (magnetics only)

	LamType      int
	LamFill      float64
	LamThickness float64
	LamHystDeg   float64 // hysteresis angle θ_h, degrees

	BH []BHPoint // monotone (B,H) samples, B[0]=H[0]=0; nil if linear material

	WireStrandDiam  float64
	WireStrandCount int
	WireIsFoil      bool

	Source complex128 // volumetric current density / charge / heat density

	MagH float64 // coercive magnetization H_c, A/m (permanent-magnet source; magnetics only)
}

// IsNonlinear reports whether this material carries a B-H table.
func (b *BlockProp) IsNonlinear() bool { return len(b.BH) >= 2 }

// BlockLabel is a PSLG block label: a point inside a region, its material,
// meshing hint, owning circuit, magnetization, turns, and region flags.
type BlockLabel struct {
	X, Y      float64
	Material  int // index into Problem.Blocks, or -1 if using the default
	MaxArea   float64
	Circuit   int // index into Problem.Circuits, or -1
	MagAngle  float64
	MagExpr   string // non-empty if the angle is a per-element expression
	Turns     int    // sign = winding direction
	External  bool   // Kelvin-transform annulus (axisymmetric open boundary)
	IsDefault bool
}

// CircuitKind discriminates the circuit/conductor tagged union.
type CircuitKind int

const (
	CircuitParallel CircuitKind = iota // prescribed total current/charge/heat-flow, shared
	CircuitSeries                      // prescribed total, rewritten to parallel-per-block at assembly
	CircuitFixed                       // fixed potential/temperature (Dirichlet on the conductor)
)

// Circuit is one conductor record (spec.md §3).
type Circuit struct {
	Kind  CircuitKind
	Value complex128 // total current/charge/heat-flow (Parallel/Series) or fixed value (Fixed)
}
