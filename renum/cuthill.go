// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package renum implements the Cuthill-McKee bandwidth-reducing node
// renumbering applied to a mesh before assembly (spec.md §4.3). The
// algorithm — unique-neighbor adjacency, ascending-degree neighbor
// ordering, min-degree start node, and BFS renumbering with restart on
// disconnected components — mirrors FEMM's own Cuthill() routine.
package renum

import (
	"sort"

	"github.com/cpmech/femag/inp"
)

// Renumber reorders mesh.Nodes to reduce the bandwidth of the stiffness
// matrix that will be assembled over it, remapping every node index
// elements and periodic pairs refer to, clearing NodeElems, and returns the
// resulting bandwidth (the value the sparse engine should be created
// with).
func Renumber(mesh *inp.Mesh) int {
	n := len(mesh.Nodes)
	if n == 0 {
		return 0
	}

	ocon, numcon := buildAdjacency(mesh)
	sortByDegree(ocon, numcon)

	n0 := minDegreeStart(numcon)
	newnum := bfsRenumber(n, n0, ocon)

	remapElements(mesh, newnum)
	remapPairs(mesh, newnum)
	permuteNodes(mesh, newnum)
	mesh.NodeElems = nil // stale; nothing after renumbering reads it
	sortElementsByVertexSum(mesh)

	return bandwidth(mesh)
}

// buildAdjacency collects the unique node-node neighbor lists implied by
// the mesh's triangle edges.
func buildAdjacency(mesh *inp.Mesh) (ocon [][]int, numcon []int) {
	n := len(mesh.Nodes)
	seen := make([]map[int]bool, n)
	for i := range seen {
		seen[i] = make(map[int]bool)
	}
	for _, e := range mesh.Elems {
		for j := 0; j < 3; j++ {
			a, b := e.P[j], e.P[(j+1)%3]
			if !seen[a][b] {
				seen[a][b] = true
				seen[b][a] = true
			}
		}
	}
	ocon = make([][]int, n)
	numcon = make([]int, n)
	for i := 0; i < n; i++ {
		for nb := range seen[i] {
			ocon[i] = append(ocon[i], nb)
		}
		numcon[i] = len(ocon[i])
	}
	return
}

// sortByDegree orders each node's neighbor list by ascending connectivity,
// so the BFS visits low-degree neighbors first — this is what keeps the
// resulting numbering tight around the diagonal.
func sortByDegree(ocon [][]int, numcon []int) {
	for i := range ocon {
		nbrs := ocon[i]
		sort.Slice(nbrs, func(a, b int) bool { return numcon[nbrs[a]] < numcon[nbrs[b]] })
	}
}

// minDegreeStart picks the node with the fewest neighbors as the BFS seed,
// breaking out early once a degree-2 node is found since that is already
// the best possible start.
func minDegreeStart(numcon []int) int {
	n0 := 0
	best := numcon[0]
	for i := 1; i < len(numcon); i++ {
		if numcon[i] < best {
			best = numcon[i]
			n0 = i
			if best == 2 {
				break
			}
		}
	}
	return n0
}

// bfsRenumber assigns newnum[old] for every node by walking a FIFO queue
// (order, indexed by the position each node was discovered at) and
// expanding each node's not-yet-visited neighbors in ascending-degree
// order; whenever the queue runs dry before every node has been reached —
// a disconnected mesh — it restarts from the lowest-degree unvisited node,
// exactly as FEMM's Cuthill() falls back to its "multiply connected" path.
func bfsRenumber(n, start int, ocon [][]int) []int {
	newnum := make([]int, n)
	for i := range newnum {
		newnum[i] = -1
	}
	order := make([]int, n) // order[k] = the node numbered k
	newnum[start] = 0
	order[0] = start
	count := 1

	for pos := 0; pos < n; pos++ {
		if pos >= count {
			// queue exhausted with nodes still unvisited: disconnected mesh.
			seed := -1
			for i := 0; i < n; i++ {
				if newnum[i] < 0 && (seed < 0 || len(ocon[i]) < len(ocon[seed])) {
					seed = i
				}
			}
			if seed < 0 {
				break
			}
			newnum[seed] = count
			order[count] = seed
			count++
		}
		cur := order[pos]
		for _, nb := range ocon[cur] {
			if newnum[nb] < 0 {
				newnum[nb] = count
				order[count] = nb
				count++
			}
		}
	}
	return newnum
}

func remapElements(mesh *inp.Mesh, newnum []int) {
	for i := range mesh.Elems {
		for j := 0; j < 3; j++ {
			mesh.Elems[i].P[j] = newnum[mesh.Elems[i].P[j]]
		}
	}
}

func remapPairs(mesh *inp.Mesh, newnum []int) {
	for i := range mesh.Pairs {
		mesh.Pairs[i].A = newnum[mesh.Pairs[i].A]
		mesh.Pairs[i].B = newnum[mesh.Pairs[i].B]
	}
}

// permuteNodes moves every node to its new slot and fixes up its Id.
func permuteNodes(mesh *inp.Mesh, newnum []int) {
	n := len(mesh.Nodes)
	out := make([]inp.Node, n)
	for old, nn := range newnum {
		node := mesh.Nodes[old]
		node.Id = nn
		out[nn] = node
	}
	mesh.Nodes = out
}

// sortElementsByVertexSum stable-sorts the elements by the sum of each
// element's vertex indices, the same cheap locality heuristic FEMM's SortElements
// applies after renumbering: elements referencing nearby node numbers end
// up assembled close together.
func sortElementsByVertexSum(mesh *inp.Mesh) {
	score := func(e inp.Element) int { return e.P[0] + e.P[1] + e.P[2] }
	sort.SliceStable(mesh.Elems, func(a, b int) bool {
		return score(mesh.Elems[a]) < score(mesh.Elems[b])
	})
	for i := range mesh.Elems {
		mesh.Elems[i].Id = i
	}
}

// bandwidth returns one more than the largest |a-b| over the elements'
// edges (a, b the current node numbers), i.e. the matrix half-bandwidth
// the renumbering achieved counting the diagonal.
func bandwidth(mesh *inp.Mesh) int {
	bw := 0
	for _, e := range mesh.Elems {
		for j := 0; j < 3; j++ {
			d := e.P[j] - e.P[(j+1)%3]
			if d < 0 {
				d = -d
			}
			if d > bw {
				bw = d
			}
		}
	}
	return bw + 1
}
