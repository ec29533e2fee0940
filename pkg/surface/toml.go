package surface

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/flatgeom/orbita/pkg/exact"
)

// ErrBadDescription is returned when a TOML surface description is
// syntactically valid TOML but does not describe a surface.
var ErrBadDescription = errors.New("bad surface description")

// tomlDoc is the on-disk surface schema:
//
//	name = "torus"
//
//	[field]                      # optional; omit for rational coordinates
//	name = "K"
//	minpoly = ["-2", "0", "1"]   # x² − 2, coefficients by ascending degree
//	root = 1.4142135623730951
//
//	[[edges]]
//	vector = ["1", "0"]          # exact coordinate literals, ';' per basis
//
//	[[faces]]
//	halfedges = [1, 2, -3]       # signed 1-based edge numbers, ccw
type tomlDoc struct {
	Name  string     `toml:"name"`
	Field *tomlField `toml:"field"`
	Edges []tomlEdge `toml:"edges"`
	Faces []tomlFace `toml:"faces"`
}

type tomlField struct {
	Name    string   `toml:"name"`
	Minpoly []string `toml:"minpoly"`
	Root    float64  `toml:"root"`
}

type tomlEdge struct {
	Vector []string `toml:"vector"`
}

type tomlFace struct {
	HalfEdges []int `toml:"halfedges"`
}

// ParseTOML decodes a TOML surface description and builds the validated
// mesh.
func ParseTOML(data []byte) (*Mesh, error) {
	var doc tomlDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("surface: decoding description: %w", err)
	}
	return fromDoc(&doc)
}

// LoadFile reads and parses a TOML surface description from disk.
func LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("surface: reading %s: %w", path, err)
	}
	m, err := ParseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("surface: %s: %w", path, err)
	}
	return m, nil
}

func fromDoc(doc *tomlDoc) (*Mesh, error) {
	f, err := fieldFromDoc(doc.Field)
	if err != nil {
		return nil, err
	}

	n := len(doc.Edges)
	vectors := make([]exact.Vec2, n)
	for i, e := range doc.Edges {
		if len(e.Vector) != 2 {
			return nil, fmt.Errorf("%w: edge %d has %d coordinates, want 2", ErrBadDescription, i+1, len(e.Vector))
		}
		x, err := parseElem(f, e.Vector[0])
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d: %v", ErrBadDescription, i+1, err)
		}
		y, err := parseElem(f, e.Vector[1])
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d: %v", ErrBadDescription, i+1, err)
		}
		vectors[i] = exact.V(x, y)
	}

	next := make([]HalfEdge, 2*n)
	for i := range next {
		next[i] = -1
	}
	for fi, face := range doc.Faces {
		if len(face.HalfEdges) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d half-edges, want 3", ErrBadDescription, fi+1, len(face.HalfEdges))
		}
		hs := make([]HalfEdge, 3)
		for j, k := range face.HalfEdges {
			h, err := halfEdgeFromSigned(k, n)
			if err != nil {
				return nil, fmt.Errorf("%w: face %d: %v", ErrBadDescription, fi+1, err)
			}
			hs[j] = h
		}
		for j := range hs {
			at := hs[j]
			if next[at] != -1 {
				return nil, fmt.Errorf("%w: half-edge %+d appears in two faces", ErrBadDescription, face.HalfEdges[j])
			}
			next[at] = hs[(j+1)%3]
		}
	}
	for h, nh := range next {
		if nh == -1 {
			return nil, fmt.Errorf("%w: half-edge %d of edge %d appears in no face", ErrBadDescription, h, h/2+1)
		}
	}
	return NewMesh(f, next, vectors)
}

func fieldFromDoc(fd *tomlField) (*exact.Field, error) {
	if fd == nil {
		return exact.Rationals(), nil
	}
	minpoly := make([]*big.Rat, len(fd.Minpoly))
	for i, s := range fd.Minpoly {
		q, ok := new(big.Rat).SetString(strings.TrimSpace(s))
		if !ok {
			return nil, fmt.Errorf("%w: malformed minpoly coefficient %q", ErrBadDescription, s)
		}
		minpoly[i] = q
	}
	name := fd.Name
	if name == "" {
		name = "K"
	}
	f, err := exact.NewNumberField(name, minpoly, fd.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDescription, err)
	}
	return f, nil
}

// parseElem parses an exact coordinate literal: a rational string for Q, or
// ';'-joined power-basis coordinates for a number field.
func parseElem(f *exact.Field, s string) (e exact.Elem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return f.MustParse(s), nil
}

// halfEdgeFromSigned maps a signed 1-based edge number to a half-edge
// handle: +k is the positive half-edge of edge k−1, −k the negative one.
func halfEdgeFromSigned(k, n int) (HalfEdge, error) {
	e := k
	if e < 0 {
		e = -e
	}
	if e == 0 || e > n {
		return 0, fmt.Errorf("edge number %d out of range [1, %d]", k, n)
	}
	if k > 0 {
		return Edge(e - 1).Positive(), nil
	}
	return Edge(e - 1).Negative(), nil
}
