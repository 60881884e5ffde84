// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renum

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
)

// chainMesh builds a strip of triangles over n nodes laid out along a line,
// each triangle joining three consecutive nodes, numbered so that the
// largest index gap across an edge is n-1; Cuthill-McKee should collapse
// that gap down to 2.
func chainMesh(n int) *inp.Mesh {
	m := &inp.Mesh{Nodes: make([]inp.Node, n)}
	// num[k] is the number of the k-th node along the strip; alternating
	// between the two ends (0, n-1, 1, n-2, ...) makes the initial
	// numbering deliberately bad
	num := make([]int, n)
	for k := 0; k < n; k++ {
		if k%2 == 0 {
			num[k] = k / 2
		} else {
			num[k] = n - 1 - k/2
		}
	}
	for k := 0; k < n; k++ {
		m.Nodes[num[k]] = inp.Node{Id: num[k], X: float64(k), Y: 0}
	}
	for i := 0; i < n-2; i++ {
		a, b, c := num[i], num[i+1], num[i+2]
		m.Elems = append(m.Elems, inp.Element{Id: i, P: [3]int{a, b, c}, Block: -1, Edge: [3]int{-1, -1, -1}})
	}
	return m
}

func Test_bandwidth_reduction(tst *testing.T) {
	chk.PrintTitle("bandwidth_reduction")
	m := chainMesh(20)
	before := bandwidth(m)
	bw := Renumber(m)
	if bw >= before {
		tst.Errorf("renumbering should reduce bandwidth: before=%d after=%d", before, bw)
	}
	if len(m.Nodes) != 20 {
		tst.Errorf("renumbering must not change the node count")
	}
}

func Test_renumber_preserves_adjacency(tst *testing.T) {
	chk.PrintTitle("renumber_preserves_adjacency")
	m := chainMesh(10)
	edgesBefore := map[[2]int]bool{}
	for _, e := range m.Elems {
		for j := 0; j < 3; j++ {
			a, b := e.P[j], e.P[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			edgesBefore[[2]int{a, b}] = true
		}
	}
	Renumber(m)
	edgesAfter := map[[2]int]bool{}
	for _, e := range m.Elems {
		for j := 0; j < 3; j++ {
			a, b := e.P[j], e.P[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			edgesAfter[[2]int{a, b}] = true
		}
	}
	if len(edgesBefore) != len(edgesAfter) {
		tst.Errorf("renumbering must preserve the number of distinct edges: before=%d after=%d", len(edgesBefore), len(edgesAfter))
	}
}
