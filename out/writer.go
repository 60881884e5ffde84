// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out appends a solved Domain's results to its problem file, in
// the same bracketed-key / <beginX>-<endX> grammar inp uses to read one
// (spec.md §4.8): a node table (coordinates converted back to the user's
// own length units), an element table, and one circuit-result record per
// block label that owns a conductor.
package out

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/ele"
	"github.com/cpmech/femag/fem"
	"github.com/cpmech/femag/inp"
)

// WriteSolution appends d's solution to its problem file (d.Problem.FilePath),
// reopening it for append rather than rewriting it whole: the original
// geometry/property sections a later reload needs (e.g. as someone else's
// [prevsoln]) are left untouched, mirroring the way the mesh-generator
// collaborator itself only ever adds files rather than rewriting the
// problem file it was handed.
func WriteSolution(d *fem.Domain) error {
	f, err := os.OpenFile(d.Problem.FilePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return chk.Err("out: cannot open %q for append: %v", d.Problem.FilePath, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	writeNodes(w, d)
	writeElements(w, d)
	writeCircuitResults(w, d)
	return w.Flush()
}

// toUserUnits converts a coordinate from the solver's internal millimeters
// back to the problem's own [lengthunits], the inverse of the scaling
// inp.LoadMesh applies on the way in.
func toUserUnits(p *inp.Problem, mm float64) float64 {
	scale := inp.LengthUnitScale(p.LengthUnits)
	return mm / scale
}

func writeNodes(w *bufio.Writer, d *fem.Domain) {
	fmt.Fprintln(w, "<beginsolutionnodes>")
	for i, n := range d.Mesh.Nodes {
		x := toUserUnits(d.Problem, n.X)
		y := toUserUnits(d.Problem, n.Y)
		switch {
		case d.Sol.Cplx != nil:
			v := d.Sol.Cplx[i]
			fmt.Fprintf(w, "x=%.10g y=%.10g value=%.10g valuei=%.10g\n", x, y, real(v), imag(v))
		default:
			fmt.Fprintf(w, "x=%.10g y=%.10g value=%.10g\n", x, y, d.Sol.Real[i])
		}
	}
	fmt.Fprintln(w, "<endsolutionnodes>")
}

func writeElements(w *bufio.Writer, d *fem.Domain) {
	fmt.Fprintln(w, "<beginsolutionelements>")
	for _, e := range d.Mesh.Elems {
		fmt.Fprintf(w, "p0=%d p1=%d p2=%d label=%d\n", e.P[0], e.P[1], e.P[2], e.Label)
	}
	fmt.Fprintln(w, "<endsolutionelements>")
}

// writeCircuitResults emits one record per block label that owns a
// circuit, collapsing any shadow Parallel circuit ResolveSeriesCircuits
// created back to the Series circuit it stands in for (spec.md §4.8: "a
// per-label record carries its real circuit's excitation, not the shadow
// one"). Kind names the *real* circuit's kind, never "parallel" for a
// label whose circuit used to be a Series one.
func writeCircuitResults(w *bufio.Writer, d *fem.Domain) {
	fmt.Fprintln(w, "<beginsolutioncircuits>")
	for li := range d.Labels {
		l := &d.Labels[li]
		if l.Circuit < 0 {
			continue
		}
		realIdx := l.Circuit
		if orig, ok := d.ShadowOf[l.Circuit]; ok {
			realIdx = orig
		}
		c := &d.Problem.Circuits[realIdx]
		switch c.Kind {
		case inp.CircuitFixed:
			v, q := reactionAtLabel(d, li)
			fmt.Fprintf(w, "label=%d kind=fixed value=%.10g valuei=%.10g q=%.10g qi=%.10g\n",
				li, real(v), imag(v), real(q), imag(q))
		default: // Parallel, or Series collapsed back to its excitation
			dv := averageSolutionAtLabel(d, li)
			kind := "parallel"
			if c.Kind == inp.CircuitSeries {
				kind = "series"
			}
			fmt.Fprintf(w, "label=%d kind=%s value=%.10g valuei=%.10g dv=%.10g dvi=%.10g\n",
				li, kind, real(c.Value), imag(c.Value), real(dv), imag(dv))
		}
	}
	fmt.Fprintln(w, "<endsolutioncircuits>")
}

// averageSolutionAtLabel returns the area-weighted average nodal solution
// over every element owned by block label li — a terminal-potential proxy
// for a Parallel/Series circuit. It is reported for every such circuit; the
// value of an AC solid conductor's augmented row (Domain.ACConductorRow) is
// not read back here.
func averageSolutionAtLabel(d *fem.Domain, li int) complex128 {
	var totalArea float64
	var sum complex128
	for ei := range d.Mesh.Elems {
		e := &d.Mesh.Elems[ei]
		if e.Label != li {
			continue
		}
		g := ele.NewGeometry(d.Mesh, ei)
		var v complex128
		for k := 0; k < 3; k++ {
			if d.Sol.Cplx != nil {
				v += d.Sol.Cplx[e.P[k]]
			} else {
				v += complex(d.Sol.Real[e.P[k]], 0)
			}
		}
		v /= 3
		sum += v * complex(g.Area, 0)
		totalArea += g.Area
	}
	if totalArea == 0 {
		return 0
	}
	return sum / complex(totalArea, 0)
}

// reactionAtLabel recovers the net flow (current/charge/heat-flow) a Fixed
// circuit draws through the nodes it fixed, by the FEM reaction recovery
// Σ(K·u) restricted to those nodes: the raw per-element stiffness this
// solver would have assembled had the row not been overwritten by
// Dirichlet elimination, evaluated at the already-solved nodal values. The
// element load F is not subtracted. This only covers the real regimes' diffusion term (no
// eddy-current mass contribution), which is exact for the electrostatic
// and heat-flow regimes a Fixed circuit is overwhelmingly used with, and a
// documented simplification for the magnetics regimes.
func reactionAtLabel(d *fem.Domain, li int) (v, q complex128) {
	v = complex(real(d.Problem.Circuits[labelCircuit(d, li)].Value), 0)
	nodeInLabel := make(map[int]bool)
	for i := range d.Mesh.Nodes {
		if d.Mesh.Nodes[i].Cond == labelCircuit(d, li) {
			nodeInLabel[i] = true
		}
	}
	var reaction float64
	for ei := range d.Mesh.Elems {
		e := &d.Mesh.Elems[ei]
		g := ele.NewGeometry(d.Mesh, ei)
		kx, ky := elementCoeffs(d, ei)
		for i := 0; i < 3; i++ {
			if !nodeInLabel[e.P[i]] {
				continue
			}
			var kuRow float64
			for j := 0; j < 3; j++ {
				kuRow += g.StiffnessTerm(i, j, kx, ky) * d.Sol.Real[e.P[j]]
			}
			reaction += kuRow * d.Problem.Depth
		}
	}
	q = complex(reaction, 0)
	return
}

// labelCircuit resolves block label li's circuit index, unwound through
// any shadow rewrite, for reactionAtLabel's Node.Cond comparison (which is
// always set to the *original* circuit index at mesh load time, never the
// shadow one — the shadow rewrite happens after the mesh is loaded).
func labelCircuit(d *fem.Domain, li int) int {
	c := d.Labels[li].Circuit
	if orig, ok := d.ShadowOf[c]; ok {
		return orig
	}
	return c
}

// elementCoeffs returns the (kx,ky) diffusion coefficients reactionAtLabel
// needs, mirroring ele's own unexported coeffs() for the magnetostatic and
// real-material regimes (AC's complex coefficients are not handled here;
// see reactionAtLabel's doc comment).
func elementCoeffs(d *fem.Domain, ei int) (kx, ky float64) {
	e := &d.Mesh.Elems[ei]
	if d.Problem.Format == "magnetics_dc" {
		nu1, nu2 := real(e.Mu1), real(e.Mu2)
		if nu2 == 0 {
			nu2 = nu1
		}
		return nu2, nu1
	}
	b := &d.Blocks[e.Block]
	return b.Kx, b.Ky
}
