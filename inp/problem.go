// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"
)

// Problem holds everything read from a .fem/.feh/.fee problem file
// (spec.md §6), except the PSLG geometry (points/segments/arcs/holes),
// which is the mesh generator's concern and is not retained once the mesh
// itself has been produced.
type Problem struct {
	FilePath string // full path to the .fem/.feh/.fee file
	Basename string // FilePath without the mesh-format extension; .node/.ele/.edge/.pbc share this

	Format      string // "magnetics_dc" | "magnetics_ac" | "electrostatic" | "heat"
	Frequency   float64
	Precision   float64
	MinAngle    float64
	Depth       float64
	LengthUnits string
	Coordinates string // "cartesian" | "polar"
	ProblemType string // "planar" | "axisymmetric"
	ExtZo       float64
	ExtRo       float64
	ExtRi       float64
	ACSolver    int // 0=successive approximation, 1=Newton
	PrevSoln    string
	DoSmartMesh bool
	ForceMaxMesh bool

	Points     []PointProp
	Boundaries []BoundaryProp
	Blocks     []BlockProp
	Circuits   []Circuit
	Labels     []BlockLabel
}

// AxiSymmetric reports whether [problemtype]=axisymmetric.
func (p *Problem) AxiSymmetric() bool { return strings.EqualFold(p.ProblemType, "axisymmetric") }

// IsACMagnetics reports whether this is the time-harmonic magnetics regime.
func (p *Problem) IsACMagnetics() bool { return strings.EqualFold(p.Format, "magnetics_ac") }

// defaultProblem sets the non-zero defaults a freshly-allocated Problem
// should carry (spec.md §4.1 default precision, §6 default coordinates).
func defaultProblem() *Problem {
	return &Problem{
		Precision:   1e-8,
		LengthUnits: "millimeters",
		Coordinates: "cartesian",
		ProblemType: "planar",
		Depth:       1.0,
	}
}

// ReadProblem parses a problem file into a Problem. Top-level scalars are
// `[key]=value` lines; tables live between `<beginX>`/`<endX>` markers,
// one record per line as `key=value key=value ...` (spec.md §6 fixes only
// the block delimiters, not the per-line grammar inside them; this is the
// concrete grammar this implementation commits to).
func ReadProblem(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Tag(ErrBadProblemFile, err.Error())
	}
	defer f.Close()

	p := defaultProblem()
	p.FilePath = path
	ext := filepath.Ext(path)
	p.Basename = strings.TrimSuffix(path, ext)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, Tag(ErrBadProblemFile, err.Error())
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "["):
			if err := parseKeyValue(p, line); err != nil {
				return nil, err
			}
		case strings.EqualFold(line, "<beginpoint>"):
			j, err := parsePointBlock(p, lines, i+1)
			if err != nil {
				return nil, err
			}
			i = j
		case strings.EqualFold(line, "<beginbdry>"):
			j, err := parseBdryBlock(p, lines, i+1)
			if err != nil {
				return nil, err
			}
			i = j
		case strings.EqualFold(line, "<beginblock>"):
			j, err := parseBlockBlock(p, lines, i+1)
			if err != nil {
				return nil, err
			}
			i = j
		case strings.EqualFold(line, "<begincircuit>"), strings.EqualFold(line, "<beginconductor>"):
			j, err := parseCircuitBlock(p, lines, i+1)
			if err != nil {
				return nil, err
			}
			i = j
		case strings.EqualFold(line, "<beginlabels>"):
			j, err := parseLabelBlock(p, lines, i+1)
			if err != nil {
				return nil, err
			}
			i = j
		}
	}
	return p, nil
}

func parseKeyValue(p *Problem, line string) error {
	close := strings.Index(line, "]")
	if close < 0 {
		return Tag(ErrBadProblemFile, "malformed key line: "+line)
	}
	key := strings.ToLower(strings.TrimSpace(line[1:close]))
	rest := strings.TrimSpace(line[close+1:])
	rest = strings.TrimPrefix(rest, "=")
	val := strings.TrimSpace(rest)
	switch key {
	case "format":
		p.Format = val
	case "frequency":
		p.Frequency, _ = strconv.ParseFloat(val, 64)
	case "precision":
		p.Precision, _ = strconv.ParseFloat(val, 64)
	case "minangle":
		p.MinAngle, _ = strconv.ParseFloat(val, 64)
	case "depth":
		p.Depth, _ = strconv.ParseFloat(val, 64)
	case "lengthunits":
		p.LengthUnits = val
	case "coordinates":
		p.Coordinates = val
	case "problemtype":
		p.ProblemType = val
	case "extzo":
		p.ExtZo, _ = strconv.ParseFloat(val, 64)
	case "extro":
		p.ExtRo, _ = strconv.ParseFloat(val, 64)
	case "extri":
		p.ExtRi, _ = strconv.ParseFloat(val, 64)
	case "acsolver":
		n, _ := strconv.Atoi(val)
		p.ACSolver = n
	case "prevsoln":
		p.PrevSoln = val
	case "dosmartmesh":
		p.DoSmartMesh = parseBool(val)
	case "forcemaxmesh":
		p.ForceMaxMesh = parseBool(val)
	case "numpoints", "numsegments", "numarcsegments", "numholes", "numblocklabels":
		// PSLG-geometry counted arrays; the geometry itself is the mesh
		// generator's concern and is not retained past mesh generation.
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes"
}

// fieldMap splits a "key=value key=value" record line into a map.
func fieldMap(line string) map[string]string {
	m := make(map[string]string)
	for _, tok := range strings.Fields(line) {
		kv := strings.SplitN(tok, "=", 2)
		if len(kv) == 2 {
			m[strings.ToLower(kv[0])] = kv[1]
		}
	}
	return m
}

func mf(m map[string]string, key string) float64 {
	v, _ := strconv.ParseFloat(m[key], 64)
	return v
}
func mi(m map[string]string, key string) int {
	v, _ := strconv.Atoi(m[key])
	return v
}

func parsePointBlock(p *Problem, lines []string, start int) (int, error) {
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.EqualFold(line, "<endpoint>") {
			return i, nil
		}
		if line == "" {
			continue
		}
		m := fieldMap(line)
		p.Points = append(p.Points, PointProp{
			Source: complex(mf(m, "source"), mf(m, "sourcei")),
			Fixed:  parseBool(m["fixed"]),
			Value:  complex(mf(m, "value"), mf(m, "valuei")),
		})
	}
	return i, Tag(ErrBadProblemFile, "<beginpoint> without matching <endpoint>")
}

func parseBdryBlock(p *Problem, lines []string, start int) (int, error) {
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.EqualFold(line, "<endbdry>") {
			return i, nil
		}
		if line == "" {
			continue
		}
		m := fieldMap(line)
		bp := BoundaryProp{}
		switch strings.ToLower(m["kind"]) {
		case "mixed", "robin":
			bp.Kind = BdryMixed
			bp.C0 = complex(mf(m, "c0"), mf(m, "c0i"))
			bp.C1 = complex(mf(m, "c1"), mf(m, "c1i"))
		case "source", "surface":
			bp.Kind = BdrySurfaceSource
			bp.Source = complex(mf(m, "source"), mf(m, "sourcei"))
		case "skindepth":
			bp.Kind = BdrySkinDepth
			bp.Mu = mf(m, "mu")
			bp.Sigma = mf(m, "sigma")
		case "periodic":
			bp.Kind = BdryPeriodic
		case "antiperiodic":
			bp.Kind = BdryAntiPeriodic
		default: // "fixed"
			bp.Kind = BdryFixed
			bp.Value = complex(mf(m, "value"), mf(m, "valuei"))
			bp.GradX = mf(m, "gradx")
			bp.GradY = mf(m, "grady")
			bp.PhaseDeg = mf(m, "phase")
		}
		p.Boundaries = append(p.Boundaries, bp)
	}
	return i, Tag(ErrBadProblemFile, "<beginbdry> without matching <endbdry>")
}

func parseBlockBlock(p *Problem, lines []string, start int) (int, error) {
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.EqualFold(line, "<endblock>") {
			return i, nil
		}
		if line == "" {
			continue
		}
		m := fieldMap(line)
		bp := BlockProp{
			Kx:              mf(m, "kx"),
			Ky:              mf(m, "ky"),
			Sigma:           mf(m, "sigma"),
			LamType:         mi(m, "lamtype"),
			LamFill:         mf(m, "lamfill"),
			LamThickness:    mf(m, "lamthickness"),
			LamHystDeg:      mf(m, "lamhyst"),
			WireStrandDiam:  mf(m, "strandd"),
			WireStrandCount: mi(m, "strandn"),
			WireIsFoil:      parseBool(m["foil"]),
			Source:          complex(mf(m, "source"), mf(m, "sourcei")),
			MagH:            mf(m, "magh"),
		}
		if bh, ok := m["bh"]; ok {
			for _, pair := range strings.Split(bh, ";") {
				xy := strings.Split(pair, ",")
				if len(xy) == 2 {
					b, _ := strconv.ParseFloat(xy[0], 64)
					h, _ := strconv.ParseFloat(xy[1], 64)
					bp.BH = append(bp.BH, BHPoint{B: b, H: h})
				}
			}
		}
		p.Blocks = append(p.Blocks, bp)
	}
	return i, Tag(ErrBadProblemFile, "<beginblock> without matching <endblock>")
}

func parseCircuitBlock(p *Problem, lines []string, start int) (int, error) {
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.EqualFold(line, "<endcircuit>") || strings.EqualFold(line, "<endconductor>") {
			return i, nil
		}
		if line == "" {
			continue
		}
		m := fieldMap(line)
		c := Circuit{Value: complex(mf(m, "value"), mf(m, "valuei"))}
		switch strings.ToLower(m["kind"]) {
		case "series":
			c.Kind = CircuitSeries
		case "fixed":
			c.Kind = CircuitFixed
		default:
			c.Kind = CircuitParallel
		}
		p.Circuits = append(p.Circuits, c)
	}
	return i, Tag(ErrBadProblemFile, "<begincircuit> without matching <endcircuit>")
}

func parseLabelBlock(p *Problem, lines []string, start int) (int, error) {
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.EqualFold(line, "<endlabels>") {
			return i, nil
		}
		if line == "" {
			continue
		}
		m := fieldMap(line)
		p.Labels = append(p.Labels, BlockLabel{
			X:         mf(m, "x"),
			Y:         mf(m, "y"),
			Material:  mi(m, "material"),
			MaxArea:   mf(m, "maxarea"),
			Circuit:   mi(m, "circuit") - 1, // file is 1-indexed; 0 means "none"
			MagAngle:  mf(m, "magangle"),
			MagExpr:   m["magexpr"],
			Turns:     mi(m, "turns"),
			External:  parseBool(m["external"]),
			IsDefault: parseBool(m["default"]),
		})
	}
	return i, Tag(ErrBadProblemFile, "<beginlabels> without matching <endlabels>")
}

// Warnf writes a one-line warning to the warning channel (stdout by
// default), per spec.md §7: "a single line written to the warning
// channel".
func Warnf(format string, args ...interface{}) {
	io.PfRed(format+"\n", args...)
}
