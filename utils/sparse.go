package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a sparse dictionary-of-keys matrix used during assembly.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

// Accumulate adds val to the (i,j) entry.
func (m DOK) Accumulate(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m DOK) NNZ() int { return m.M.NNZ() }

func (m DOK) ToCSR() (R CSR) {
	R = CSR{
		m.M.ToCSR(),
		false,
		m.name,
	}
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		panic(fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name))
	}
}

// CSR wraps a compressed sparse row matrix for fast products.
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

func (m *CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// MulVec computes y = A*x.
func (m CSR) MulVec(x []float64, y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc || len(y) != nr {
		panic(fmt.Errorf("dimension mismatch: matrix is %d x %d, x %d, y %d", nr, nc, len(x), len(y)))
	}
	for i := range y {
		y[i] = 0
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
}

// Diagonal extracts the matrix diagonal.
func (m CSR) Diagonal() (d []float64) {
	var (
		nr, _ = m.Dims()
	)
	d = make([]float64, nr)
	m.M.DoNonZero(func(i, j int, v float64) {
		if i == j {
			d[i] = v
		}
	})
	return
}
