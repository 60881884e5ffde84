// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_getput checks that Put/Get agree on the symmetric slot regardless of
// which order (i,j) or (j,i) the caller uses, per spec.md §8 property 3.
func Test_getput(tst *testing.T) {
	chk.PrintTitle("getput")
	o := Create(4, 2)
	o.Put(3.0, 0, 1)
	o.Put(2.0, 1, 0) // accumulate the symmetric slot from the other side
	if math.Abs(o.Get(0, 1)-5.0) > 1e-15 {
		tst.Errorf("Get(0,1) should accumulate to 5, got %v", o.Get(0, 1))
	}
	if math.Abs(o.Get(1, 0)-o.Get(0, 1)) > 1e-15 {
		tst.Errorf("Get(i,j) must equal Get(j,i)")
	}
}

// Test_setvalue checks that SetValue followed by Solve yields V[i]==v.
func Test_setvalue(tst *testing.T) {
	chk.PrintTitle("setvalue")
	o := Create(3, 2)
	o.Put(4.0, 0, 0)
	o.Put(-1.0, 0, 1)
	o.Put(4.0, 1, 1)
	o.Put(-1.0, 1, 2)
	o.Put(4.0, 2, 2)
	o.B[0], o.B[1], o.B[2] = 0, 0, 10
	o.SetValue(0, 1.5)
	ok, _ := o.Solve(1e-10, 200)
	if !ok {
		tst.Fatalf("solve failed to converge")
	}
	if math.Abs(o.V[0]-1.5) > 1e-8 {
		tst.Errorf("V[0] should equal the Dirichlet value 1.5, got %v", o.V[0])
	}
}

// Test_periodicity checks V[i]==V[j] after Periodicity+Solve, per spec.md
// §8 property 3.
func Test_periodicity(tst *testing.T) {
	chk.PrintTitle("periodicity")
	o := Create(4, 3)
	o.Put(4.0, 0, 0)
	o.Put(-1.0, 0, 1)
	o.Put(4.0, 1, 1)
	o.Put(-1.0, 1, 2)
	o.Put(4.0, 2, 2)
	o.Put(-1.0, 2, 3)
	o.Put(4.0, 3, 3)
	o.B[0] = 5
	o.B[3] = 5
	o.SetValue(0, 1.0)
	o.Periodicity(1, 2)
	ok, _ := o.Solve(1e-10, 500)
	if !ok {
		tst.Fatalf("solve failed to converge")
	}
	if math.Abs(o.V[1]-o.V[2]) > 1e-6 {
		tst.Errorf("periodic pair should match: V[1]=%v V[2]=%v", o.V[1], o.V[2])
	}
}
