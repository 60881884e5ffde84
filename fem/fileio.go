// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/inp"
)

// Encoder defines encoders; e.g. gob or json.
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json.
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder. gob is the default; json is available
// for a human-readable PrevSoln file.
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder.
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// prevSolnRecord is what gets encoded to/decoded from a [prevsoln] file:
// enough to tell whether the mesh it was solved on still matches this one
// (spec.md §7's incompatible-previous-solution error kind fires on a mismatch)
// plus the solution vector itself, seeding the outer loop's first B
// estimate instead of starting from zero everywhere.
type prevSolnRecord struct {
	NumNodes int
	Real     []float64
	Cplx     []complex128
}

// SaveSolution writes d.Sol to path, for later reuse as another problem's
// [prevsoln]. Grounded on the teacher's Domain.SaveSol (fem/fileio.go),
// narrowed to this solver's single Solution value (no Dydt/D2ydt2 — there
// is no time axis here) and always gob-encoded, matching GetEncoder's
// default.
func SaveSolution(path string, d *Domain) error {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, "")
	rec := prevSolnRecord{NumNodes: len(d.Mesh.Nodes), Real: d.Sol.Real, Cplx: d.Sol.Cplx}
	if err := enc.Encode(&rec); err != nil {
		return chk.Err("fem: cannot encode solution: %v", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadPrevSolution reads a [prevsoln] file and seeds d.Sol from it, after
// checking the node count still matches this problem's mesh. A mismatch
// is reported as inp.ErrIncompatiblePrevSoln (spec.md §7), not silently
// ignored: a stale or foreign solution file would otherwise seed the outer
// loop with nonsense and quietly change its convergence path.
func LoadPrevSolution(path string, d *Domain) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return inp.Tag(inp.ErrIncompatiblePrevSoln, err.Error())
	}
	dec := GetDecoder(bytes.NewReader(data), "")
	var rec prevSolnRecord
	if err := dec.Decode(&rec); err != nil {
		return inp.Tag(inp.ErrIncompatiblePrevSoln, err.Error())
	}
	if rec.NumNodes != len(d.Mesh.Nodes) {
		return inp.Tag(inp.ErrIncompatiblePrevSoln, "previous solution's node count does not match this mesh")
	}
	d.Sol.Real = rec.Real
	d.Sol.Cplx = rec.Cplx
	return nil
}
