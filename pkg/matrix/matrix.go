// Package matrix provides dense exact linear algebra over the coordinate
// fields of package exact: rank, echelon forms, determinants, linear system
// solving and kernel computations via fraction-containing Gauss elimination.
//
// Matrices are mutable but not safe for concurrent use. All entries of a
// matrix belong to a single field fixed at construction time.
package matrix

import (
	"errors"
	"fmt"

	"github.com/flatgeom/orbita/pkg/exact"
)

var (
	// ErrShape is returned when operand dimensions do not match.
	ErrShape = errors.New("matrix dimensions do not match")

	// ErrNotSquare is returned by [Matrix.Det] on rectangular matrices.
	ErrNotSquare = errors.New("matrix is not square")

	// ErrInconsistent is returned by [Matrix.Solve] when the system has no
	// solution.
	ErrInconsistent = errors.New("linear system is inconsistent")

	// ErrFieldMismatch is returned when operands live over different fields.
	ErrFieldMismatch = errors.New("matrices belong to different fields")
)

// Matrix is a dense rows×cols matrix over a fixed exact field.
type Matrix struct {
	f    *exact.Field
	r, c int
	a    [][]exact.Elem
}

// New returns a zero-filled rows×cols matrix over f.
func New(f *exact.Field, rows, cols int) *Matrix {
	a := make([][]exact.Elem, rows)
	for i := range a {
		a[i] = make([]exact.Elem, cols)
		for j := range a[i] {
			a[i][j] = f.Zero()
		}
	}
	return &Matrix{f: f, r: rows, c: cols, a: a}
}

// Identity returns the n×n identity matrix over f.
func Identity(f *exact.Field, n int) *Matrix {
	m := New(f, n, n)
	for i := 0; i < n; i++ {
		m.a[i][i] = f.One()
	}
	return m
}

// FromRows builds a matrix from row slices. All rows must have equal length
// and all entries must belong to f.
func FromRows(f *exact.Field, rows [][]exact.Elem) (*Matrix, error) {
	if len(rows) == 0 {
		return New(f, 0, 0), nil
	}
	cols := len(rows[0])
	m := New(f, len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrShape, i, len(row), cols)
		}
		for j, v := range row {
			if err := m.set(i, j, v); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Field returns the coefficient field.
func (m *Matrix) Field() *exact.Field { return m.f }

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.c }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) exact.Elem { return m.a[i][j] }

func (m *Matrix) set(i, j int, v exact.Elem) error {
	if v.Field() != m.f {
		return fmt.Errorf("%w: entry field %s, matrix field %s", ErrFieldMismatch, v.Field().Name(), m.f.Name())
	}
	m.a[i][j] = v
	return nil
}

// Set stores v at row i, column j. It panics when v belongs to a different
// field; entries and matrix share one field by construction.
func (m *Matrix) Set(i, j int, v exact.Elem) {
	if err := m.set(i, j, v); err != nil {
		panic("matrix: " + err.Error())
	}
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []exact.Elem {
	out := make([]exact.Elem, m.c)
	copy(out, m.a[i])
	return out
}

// SetRow replaces row i with the given entries.
func (m *Matrix) SetRow(i int, row []exact.Elem) error {
	if len(row) != m.c {
		return fmt.Errorf("%w: row length %d, want %d", ErrShape, len(row), m.c)
	}
	for j, v := range row {
		if err := m.set(i, j, v); err != nil {
			return err
		}
	}
	return nil
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []exact.Elem {
	out := make([]exact.Elem, m.r)
	for i := range out {
		out[i] = m.a[i][j]
	}
	return out
}

// Clone returns a deep structural copy (entries are shared; they are
// immutable).
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{f: m.f, r: m.r, c: m.c, a: make([][]exact.Elem, m.r)}
	for i := range m.a {
		out.a[i] = make([]exact.Elem, m.c)
		copy(out.a[i], m.a[i])
	}
	return out
}

// Transpose returns the transposed matrix.
func (m *Matrix) Transpose() *Matrix {
	out := New(m.f, m.c, m.r)
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.a[j][i] = m.a[i][j]
		}
	}
	return out
}

// Submatrix returns a copy of rows [r0,r1) and columns [c0,c1).
func (m *Matrix) Submatrix(r0, r1, c0, c1 int) *Matrix {
	out := New(m.f, r1-r0, c1-c0)
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			out.a[i-r0][j-c0] = m.a[i][j]
		}
	}
	return out
}

// Mul returns m·o.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.f != o.f {
		return nil, ErrFieldMismatch
	}
	if m.c != o.r {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", ErrShape, m.r, m.c, o.r, o.c)
	}
	out := New(m.f, m.r, o.c)
	for i := 0; i < m.r; i++ {
		for j := 0; j < o.c; j++ {
			acc := m.f.Zero()
			for k := 0; k < m.c; k++ {
				acc = acc.Add(m.a[i][k].Mul(o.a[k][j]))
			}
			out.a[i][j] = acc
		}
	}
	return out, nil
}

// MulVec returns m·v for a column vector v.
func (m *Matrix) MulVec(v []exact.Elem) ([]exact.Elem, error) {
	if len(v) != m.c {
		return nil, fmt.Errorf("%w: vector length %d, want %d", ErrShape, len(v), m.c)
	}
	out := make([]exact.Elem, m.r)
	for i := 0; i < m.r; i++ {
		acc := m.f.Zero()
		for j := 0; j < m.c; j++ {
			acc = acc.Add(m.a[i][j].Mul(v[j]))
		}
		out[i] = acc
	}
	return out, nil
}

// VecMul returns v·m for a row vector v.
func (m *Matrix) VecMul(v []exact.Elem) ([]exact.Elem, error) {
	if len(v) != m.r {
		return nil, fmt.Errorf("%w: vector length %d, want %d", ErrShape, len(v), m.r)
	}
	out := make([]exact.Elem, m.c)
	for j := 0; j < m.c; j++ {
		acc := m.f.Zero()
		for i := 0; i < m.r; i++ {
			acc = acc.Add(v[i].Mul(m.a[i][j]))
		}
		out[j] = acc
	}
	return out, nil
}

// echelonize reduces m in place to reduced row echelon form and returns the
// pivot columns in order.
func (m *Matrix) echelonize() []int {
	var pivots []int
	row := 0
	for col := 0; col < m.c && row < m.r; col++ {
		pivot := -1
		for i := row; i < m.r; i++ {
			if !m.a[i][col].IsZero() {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		m.a[row], m.a[pivot] = m.a[pivot], m.a[row]
		inv, err := m.a[row][col].Inv()
		if err != nil {
			// The pivot was checked nonzero; a failure here means the
			// coefficient ring has zero divisors (reducible minpoly).
			panic("matrix: pivot not invertible: " + err.Error())
		}
		for j := col; j < m.c; j++ {
			m.a[row][j] = m.a[row][j].Mul(inv)
		}
		for i := 0; i < m.r; i++ {
			if i == row || m.a[i][col].IsZero() {
				continue
			}
			factor := m.a[i][col]
			for j := col; j < m.c; j++ {
				m.a[i][j] = m.a[i][j].Sub(factor.Mul(m.a[row][j]))
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return pivots
}

// Rank returns the rank of m. The receiver is not modified.
func (m *Matrix) Rank() int {
	return len(m.Clone().echelonize())
}

// EchelonForm returns the reduced row echelon form of m together with the
// pivot columns. The receiver is not modified.
func (m *Matrix) EchelonForm() (*Matrix, []int) {
	e := m.Clone()
	pivots := e.echelonize()
	return e, pivots
}

// Det returns the determinant. The receiver is not modified.
func (m *Matrix) Det() (exact.Elem, error) {
	if m.r != m.c {
		return exact.Elem{}, ErrNotSquare
	}
	w := m.Clone()
	det := m.f.One()
	for col := 0; col < w.c; col++ {
		pivot := -1
		for i := col; i < w.r; i++ {
			if !w.a[i][col].IsZero() {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			return m.f.Zero(), nil
		}
		if pivot != col {
			w.a[col], w.a[pivot] = w.a[pivot], w.a[col]
			det = det.Neg()
		}
		det = det.Mul(w.a[col][col])
		inv, err := w.a[col][col].Inv()
		if err != nil {
			panic("matrix: pivot not invertible: " + err.Error())
		}
		for i := col + 1; i < w.r; i++ {
			if w.a[i][col].IsZero() {
				continue
			}
			factor := w.a[i][col].Mul(inv)
			for j := col; j < w.c; j++ {
				w.a[i][j] = w.a[i][j].Sub(factor.Mul(w.a[col][j]))
			}
		}
	}
	return det, nil
}

// Solve returns a solution x of m·x = b, choosing zero for free variables.
// It returns ErrInconsistent when no solution exists. The receiver is not
// modified.
func (m *Matrix) Solve(b []exact.Elem) ([]exact.Elem, error) {
	if len(b) != m.r {
		return nil, fmt.Errorf("%w: rhs length %d, want %d", ErrShape, len(b), m.r)
	}
	aug := New(m.f, m.r, m.c+1)
	for i := 0; i < m.r; i++ {
		copy(aug.a[i], m.a[i])
		if err := aug.set(i, m.c, b[i]); err != nil {
			return nil, err
		}
	}
	pivots := aug.echelonize()
	x := make([]exact.Elem, m.c)
	for j := range x {
		x[j] = m.f.Zero()
	}
	for i, col := range pivots {
		if col == m.c {
			return nil, ErrInconsistent
		}
		x[col] = aug.a[i][m.c]
	}
	return x, nil
}

// RightKernel returns a matrix whose rows form a basis of {x : m·x = 0}.
func (m *Matrix) RightKernel() *Matrix {
	e := m.Clone()
	pivots := e.echelonize()
	isPivot := make(map[int]int, len(pivots)) // column -> pivot row
	for i, col := range pivots {
		isPivot[col] = i
	}
	var rows [][]exact.Elem
	for col := 0; col < m.c; col++ {
		if _, ok := isPivot[col]; ok {
			continue
		}
		v := make([]exact.Elem, m.c)
		for j := range v {
			v[j] = m.f.Zero()
		}
		v[col] = m.f.One()
		for pcol, prow := range isPivot {
			v[pcol] = e.a[prow][col].Neg()
		}
		rows = append(rows, v)
	}
	out, err := FromRows(m.f, rows)
	if err != nil {
		panic("matrix: " + err.Error())
	}
	if out.c == 0 {
		out.c = m.c
	}
	return out
}

// AppendRow returns a new matrix with row appended below m.
func (m *Matrix) AppendRow(row []exact.Elem) (*Matrix, error) {
	if m.r > 0 && len(row) != m.c {
		return nil, fmt.Errorf("%w: row length %d, want %d", ErrShape, len(row), m.c)
	}
	out := m.Clone()
	if out.r == 0 {
		out.c = len(row)
	}
	out.a = append(out.a, make([]exact.Elem, len(row)))
	for j, v := range row {
		if err := out.set(out.r, j, v); err != nil {
			return nil, err
		}
	}
	out.r++
	return out, nil
}

// LeftKernel returns a matrix whose rows form a basis of {v : v·m = 0}.
func (m *Matrix) LeftKernel() *Matrix {
	return m.Transpose().RightKernel()
}

// IsIntegral reports whether every entry is a rational integer.
func (m *Matrix) IsIntegral() bool {
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			q, ok := m.a[i][j].Rat()
			if !ok || !q.IsInt() {
				return false
			}
		}
	}
	return true
}

// String renders the matrix row by row, mainly for debugging and logs.
func (m *Matrix) String() string {
	s := ""
	for i := 0; i < m.r; i++ {
		s += "["
		for j := 0; j < m.c; j++ {
			if j > 0 {
				s += " "
			}
			s += m.a[i][j].String()
		}
		s += "]"
		if i+1 < m.r {
			s += "\n"
		}
	}
	return s
}
