// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mesh holds the geometry produced by LoadMesh: nodes, elements, periodic
// pairs, and the node-to-element adjacency used once to assign edge
// markers (spec.md §4.2 point 4).
type Mesh struct {
	Nodes     []Node
	Elems     []Element
	Pairs     []PeriodicPair
	NodeElems [][]int // NodeElems[i] = indices into Elems touching node i
}

// lengthUnitScale converts a `[lengthunits]` value to millimeters, the
// internal length unit this solver standardizes on (spec.md §9 Open
// Question (i): the reference scales to mm in one variant and cm in
// another; mm is chosen here and every node coordinate is scaled to it on
// load).
func lengthUnitScale(units string) float64 {
	switch strings.ToLower(units) {
	case "inches":
		return 25.4
	case "mils":
		return 0.0254
	case "millimeters", "mm", "":
		return 1.0
	case "centimeters", "cm":
		return 10.0
	case "meters", "m":
		return 1000.0
	case "microns":
		return 0.001
	default:
		return 1.0
	}
}

// LengthUnitScale is the exported form of lengthUnitScale, for out/'s
// solution writer: node coordinates must be reported back in the user's
// original [lengthunits], not the mm this solver standardizes on
// internally (spec.md §4.8).
func LengthUnitScale(units string) float64 { return lengthUnitScale(units) }

// decodeMarker unpacks the low/high 16-bit packed marker used by .node and
// (after sign-stripping) .edge records: low bits = bcIndex+2 (0 or 1 means
// none), high bits = conductorIndex+1 (0 means none).
func decodeMarker(m int64) (bc, cond int) {
	low := m & 0xFFFF
	high := (m >> 16) & 0xFFFF
	if low <= 1 {
		bc = -1
	} else {
		bc = int(low) - 2
	}
	if high == 0 {
		cond = -1
	} else {
		cond = int(high) - 1
	}
	return
}

// decodeEdgeMarker unpacks a .edge record's marker: negative values carry
// a packed boundary/conductor marker (same scheme as decodeMarker, applied
// to the absolute value); non-negative values mean "no marker".
func decodeEdgeMarker(m int64) (bc, cond int, has bool) {
	if m >= 0 {
		return -1, -1, false
	}
	bc, cond = decodeMarker(-m)
	return bc, cond, true
}

// readFields reads a whitespace-table file, skipping blank lines, and
// calls fn with the fields of every non-header line. The first line is
// passed to header.
func readFields(path string, header func(fields []string) (nrows int, err error), row func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	first := true
	nrows := 0
	count := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first {
			first = false
			nrows, err = header(fields)
			if err != nil {
				return err
			}
			continue
		}
		if count >= nrows {
			break
		}
		if err := row(fields); err != nil {
			return err
		}
		count++
	}
	return sc.Err()
}

func atoi(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
func atof(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// LoadMesh reads basename.node, basename.ele, basename.pbc, basename.edge
// and returns the assembled Mesh, scaling coordinates by lengthUnits into
// millimeters (see lengthUnitScale).
func LoadMesh(basename, lengthUnits string) (*Mesh, error) {
	scale := lengthUnitScale(lengthUnits)
	o := new(Mesh)

	if err := readFields(basename+".node",
		func(f []string) (int, error) {
			n, err := strconv.Atoi(f[0])
			if err != nil {
				return 0, Tag(ErrBadNodeFile, "cannot parse node count: "+err.Error())
			}
			o.Nodes = make([]Node, n)
			return n, nil
		},
		func(f []string) error {
			if len(f) < 4 {
				return Tag(ErrBadNodeFile, "node line must have 4 fields: i x y m")
			}
			i, err := strconv.Atoi(f[0])
			if err != nil {
				return Tag(ErrBadNodeFile, err.Error())
			}
			x, err := atof(f[1])
			if err != nil {
				return Tag(ErrBadNodeFile, err.Error())
			}
			y, err := atof(f[2])
			if err != nil {
				return Tag(ErrBadNodeFile, err.Error())
			}
			m, err := atoi(f[3])
			if err != nil {
				return Tag(ErrBadNodeFile, err.Error())
			}
			bc, cond := decodeMarker(m)
			if i < 0 || i >= len(o.Nodes) {
				return Tag(ErrBadNodeFile, fmt.Sprintf("node id %d out of range", i))
			}
			o.Nodes[i] = Node{Id: i, X: x * scale, Y: y * scale, Bc: bc, Cond: cond}
			return nil
		}); err != nil {
		return nil, err
	}

	if err := readFields(basename+".ele",
		func(f []string) (int, error) {
			n, err := strconv.Atoi(f[0])
			if err != nil {
				return 0, Tag(ErrBadElementFile, err.Error())
			}
			o.Elems = make([]Element, n)
			return n, nil
		},
		func(f []string) error {
			if len(f) < 5 {
				return Tag(ErrBadElementFile, "element line must have 5 fields: i p0 p1 p2 label")
			}
			i, err := strconv.Atoi(f[0])
			if err != nil {
				return Tag(ErrBadElementFile, err.Error())
			}
			var p [3]int
			for k := 0; k < 3; k++ {
				p[k], err = strconv.Atoi(f[1+k])
				if err != nil {
					return Tag(ErrBadElementFile, err.Error())
				}
			}
			label, err := strconv.Atoi(f[4])
			if err != nil {
				return Tag(ErrBadElementFile, err.Error())
			}
			if i < 0 || i >= len(o.Elems) {
				return Tag(ErrBadElementFile, fmt.Sprintf("element id %d out of range", i))
			}
			resolvedLabel := label - 1 // file is 1-indexed; 0 means "use default"
			o.Elems[i] = Element{Id: i, P: p, Label: resolvedLabel, Block: -1, Edge: [3]int{-1, -1, -1}}
			return nil
		}); err != nil {
		return nil, err
	}

	if err := readFields(basename+".pbc",
		func(f []string) (int, error) {
			n, err := strconv.Atoi(f[0])
			if err != nil {
				return 0, Tag(ErrBadPbcFile, err.Error())
			}
			o.Pairs = make([]PeriodicPair, n)
			return n, nil
		},
		func(f []string) error {
			if len(f) < 4 {
				return Tag(ErrBadPbcFile, "pbc line must have 4 fields: i a b t")
			}
			i, err := strconv.Atoi(f[0])
			if err != nil {
				return Tag(ErrBadPbcFile, err.Error())
			}
			a, err := strconv.Atoi(f[1])
			if err != nil {
				return Tag(ErrBadPbcFile, err.Error())
			}
			b, err := strconv.Atoi(f[2])
			if err != nil {
				return Tag(ErrBadPbcFile, err.Error())
			}
			t, err := strconv.Atoi(f[3])
			if err != nil {
				return Tag(ErrBadPbcFile, err.Error())
			}
			if i < 0 || i >= len(o.Pairs) {
				return Tag(ErrBadPbcFile, fmt.Sprintf("pbc id %d out of range", i))
			}
			o.Pairs[i] = PeriodicPair{A: a, B: b, Tag: t}
			return nil
		}); err != nil {
		return nil, err
	}

	o.buildAdjacency()

	type edgeRec struct {
		n0, n1  int
		bc      int
		present bool
	}
	var edges []edgeRec
	if err := readFields(basename+".edge",
		func(f []string) (int, error) {
			n, err := strconv.Atoi(f[0])
			if err != nil {
				return 0, Tag(ErrBadEdgeFile, err.Error())
			}
			edges = make([]edgeRec, 0, n)
			return n, nil
		},
		func(f []string) error {
			if len(f) < 4 {
				return Tag(ErrBadEdgeFile, "edge line must have 4 fields: i n0 n1 m")
			}
			n0, err := strconv.Atoi(f[1])
			if err != nil {
				return Tag(ErrBadEdgeFile, err.Error())
			}
			n1, err := strconv.Atoi(f[2])
			if err != nil {
				return Tag(ErrBadEdgeFile, err.Error())
			}
			m, err := atoi(f[3])
			if err != nil {
				return Tag(ErrBadEdgeFile, err.Error())
			}
			bc, _, has := decodeEdgeMarker(m)
			edges = append(edges, edgeRec{n0: n0, n1: n1, bc: bc, present: has})
			return nil
		}); err != nil {
		return nil, err
	}

	for _, e := range edges {
		if !e.present {
			continue
		}
		o.assignEdgeMarker(e.n0, e.n1, e.bc)
	}

	if err := o.checkAreas(); err != nil {
		return nil, err
	}

	return o, nil
}

// buildAdjacency builds node-to-element adjacency with a count-then-place
// pass into a single flat structure (spec.md §9 design note); NodeElems
// stores per-node slices, but the backing array itself is allocated once.
func (o *Mesh) buildAdjacency() {
	count := make([]int, len(o.Nodes))
	for _, e := range o.Elems {
		for _, p := range e.P {
			count[p]++
		}
	}
	backing := make([]int, len(o.Elems)*3)
	o.NodeElems = make([][]int, len(o.Nodes))
	offset := 0
	for i, c := range count {
		o.NodeElems[i] = backing[offset : offset : offset+c]
		offset += c
	}
	for ei, e := range o.Elems {
		for _, p := range e.P {
			o.NodeElems[p] = append(o.NodeElems[p], ei)
		}
	}
}

// localEdgeIndex returns the local edge slot j (edge between Pj and
// P(j+1)%3) of element matching {n0,n1}, or -1 if no such edge exists on
// this element. This fixes the ambiguous "edge opposite node" convention
// of spec.md §3 to the operational definition the spec itself offers as
// equivalent: ej runs from Pj to P(j+1 mod 3).
func localEdgeIndex(e *Element, n0, n1 int) int {
	for j := 0; j < 3; j++ {
		a, b := e.P[j], e.P[(j+1)%3]
		if (a == n0 && b == n1) || (a == n1 && b == n0) {
			return j
		}
	}
	return -1
}

// assignEdgeMarker implements spec.md §4.2 point 4: walk the elements
// touching either endpoint and give the marker to the first element whose
// vertex pair matches — "first hit wins" prevents a surface-source edge
// shared by two legitimate candidate elements from being double-counted
// (spec.md §9 Open Question (ii)).
func (o *Mesh) assignEdgeMarker(n0, n1, bc int) {
	for _, ei := range o.NodeElems[n0] {
		j := localEdgeIndex(&o.Elems[ei], n0, n1)
		if j >= 0 {
			o.Elems[ei].Edge[j] = bc
			return
		}
	}
	for _, ei := range o.NodeElems[n1] {
		j := localEdgeIndex(&o.Elems[ei], n0, n1)
		if j >= 0 {
			o.Elems[ei].Edge[j] = bc
			return
		}
	}
}

// checkAreas enforces spec.md §3 invariant 1: every element's signed area
// (under the p0,p1,p2 vertex ordering) must be strictly positive.
func (o *Mesh) checkAreas() error {
	for _, e := range o.Elems {
		n0, n1, n2 := o.Nodes[e.P[0]], o.Nodes[e.P[1]], o.Nodes[e.P[2]]
		b0 := n1.Y - n2.Y
		b1 := n2.Y - n0.Y
		c0 := n2.X - n1.X
		c1 := n0.X - n2.X
		area := (b0*c1 - b1*c0) / 2
		if area <= 0 {
			return Tag(ErrBadElementFile, fmt.Sprintf("element %d has non-positive signed area %g; vertices must be ordered counter-clockwise", e.Id, area))
		}
	}
	return nil
}

// AssignMaterials resolves each element's Block field from its BlockLabel,
// applying the default-label rule (spec.md §3 invariant 3, §4.2 point 3).
func (o *Mesh) AssignMaterials(labels []BlockLabel) error {
	defaultLabel := -1
	for i, l := range labels {
		if l.IsDefault {
			defaultLabel = i
		}
	}
	for i := range o.Elems {
		e := &o.Elems[i]
		label := e.Label
		if label < 0 {
			label = defaultLabel
		}
		if label < 0 || label >= len(labels) {
			return Tag(ErrMissingMaterial, fmt.Sprintf("element %d has no block label and no default label exists", e.Id))
		}
		e.Label = label
		e.Block = labels[label].Material
	}
	return nil
}
