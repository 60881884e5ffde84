// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/femag/fem"
	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/out"
)

// exit statuses, spec.md §6: 0 = success; 1 = could not load problem file;
// 2 = solver failed.
const (
	exitOK          = 0
	exitLoadFailed  = 1
	exitSolveFailed = 2
)

func main() {

	// catch errors that escape the tagged-error path below (a genuine bug,
	// not a documented loader/solver failure kind)
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			inp.Warnf("ERROR: %v", err)
			os.Exit(exitSolveFailed)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".fem", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.PfWhite("\nFemag -- 2D Finite Element Magnetics\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"problem file", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	os.Exit(run(fnamepath, verbose))
}

// run loads, validates, solves and writes one problem, returning the exit
// status spec.md §6 documents. A tagged loader or solver error is reported
// with a single line on the warning channel (inp.Warnf) and mapped to
// exitLoadFailed or exitSolveFailed; nothing is written to the problem
// file on failure.
func run(fnamepath string, verbose bool) int {
	problem, mesh, err := load(fnamepath)
	if err != nil {
		inp.Warnf("%v", err)
		return exitLoadFailed
	}

	domain := fem.NewDomain(problem, mesh)

	if problem.PrevSoln != "" {
		if err := fem.LoadPrevSolution(problem.PrevSoln, domain); err != nil {
			inp.Warnf("%v", err)
			return exitLoadFailed
		}
	}

	result, err := fem.Solve(domain)
	if err != nil {
		inp.Warnf("%v", err)
		return exitSolveFailed
	}

	if err := out.WriteSolution(domain); err != nil {
		inp.Warnf("%v", err)
		return exitSolveFailed
	}

	if verbose {
		io.Pf("\nconverged in %d iteration(s), residual=%v\n", result.Iterations, result.Residual)
	}
	return exitOK
}

// load runs the whole loader pipeline (spec.md §6): parse the problem file,
// validate the cross-cutting constraints no single parser step can check
// on its own, load the mesh in the problem's own length units, and resolve
// every element's material from its block label. Every failure here is a
// tagged error the caller maps to exitLoadFailed, never a solver failure.
func load(fnamepath string) (*inp.Problem, *inp.Mesh, error) {
	problem, err := inp.ReadProblem(fnamepath)
	if err != nil {
		return nil, nil, err
	}
	if err := inp.Validate(problem); err != nil {
		return nil, nil, err
	}
	mesh, err := inp.LoadMesh(problem.Basename, problem.LengthUnits)
	if err != nil {
		return nil, nil, err
	}
	if err := mesh.AssignMaterials(problem.Labels); err != nil {
		return nil, nil, err
	}
	return problem, mesh, nil
}
