package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

const (
	NODETOL = 1.e-12
)

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

// Matrix wraps a gonum dense matrix with chainable methods and direct
// access to the row-major backing slice via DataP.
type Matrix struct {
	M        *mat.Dense
	DataP    []float64
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) < nr*nc {
			panic(fmt.Errorf("mismatch in allocation: NewMatrix needs %d x %d = %d, have %d",
				nr, nc, nr*nc, len(dataO[0])))
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:     m,
		DataP: m.RawMatrix().Data,
	}
	return
}

func NewDiagMatrix(n int, d []float64, scalarO ...float64) (R Matrix) {
	R = NewMatrix(n, n)
	if d == nil && len(scalarO) == 0 {
		panic("no diagonal data provided")
	}
	if d != nil && len(d) != n {
		panic(fmt.Errorf("diagonal length %d does not match dimension %d", len(d), n))
	}
	for i := 0; i < n; i++ {
		if d != nil {
			R.Set(i, i, d[i])
		} else {
			R.Set(i, i, scalarO[0])
		}
	}
	return
}

// NewSymTriDiagonal builds a symmetric tridiagonal matrix from the main
// diagonal d0 and first off diagonal d1, ready for mat.EigenSym
func NewSymTriDiagonal(d0, d1 []float64) (J *mat.SymDense) {
	var (
		n = len(d0)
	)
	if len(d1) != n-1 {
		panic(fmt.Errorf("off diagonal length %d does not match dimension %d", len(d1), n))
	}
	J = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		J.SetSym(i, i, d0[i])
		if i < n-1 {
			J.SetSym(i, i+1, d1[i])
		}
	}
	return
}

func (m Matrix) IsEmpty() bool { return m.M == nil }

// Dims, At and T satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.DataP }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = m.name
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	formatString := "%s = \n%8.5f\n"
	o = fmt.Sprintf(formatString, name, mat.Formatted(m.M, mat.Squeeze()))
	return
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	copy(R.DataP, m.DataP)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	R.M.CloneFrom(m.M.T())
	R.DataP = R.M.RawMatrix().Data
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

// MulVec multiplies by a Vector, returning a new Vector.
func (m Matrix) MulVec(v Vector) (R Vector) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	if nc != v.Len() {
		panic(fmt.Errorf("dimension mismatch: matrix is %d x %d, vector length %d", nr, nc, v.Len()))
	}
	R = NewVector(nr)
	R.V.MulVec(m.M, v.V)
	R.DataP = R.V.RawVector().Data
	return
}

func (m Matrix) Slice(I, K, J, L int) (R Matrix) { // Does not change receiver
	var (
		nrR    = K - I
		ncR    = L - J
		_, ncM = m.Dims()
		data   = make([]float64, nrR*ncR)
	)
	for i := I; i < K; i++ {
		for j := J; j < L; j++ {
			ind := (i-I)*ncR + j - J
			data[ind] = m.DataP[i*ncM+j]
		}
	}
	R = NewMatrix(nrR, ncR, data)
	return
}

func (m Matrix) SliceRows(I Index) (R Matrix) { // Does not change receiver
	var (
		_, nc = m.Dims()
		nr    = len(I)
	)
	R = NewMatrix(nr, nc)
	for i, row := range I {
		if row > m.RawMatrix().Rows-1 || row < 0 {
			panic(fmt.Errorf("row index %d out of bounds, max is %d", row, m.RawMatrix().Rows-1))
		}
		R.M.SetRow(i, m.M.RawRowView(row))
	}
	return
}

func (m Matrix) SliceCols(I Index) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, len(I))
	for j, col := range I {
		if col > nc-1 || col < 0 {
			panic(fmt.Errorf("column index %d out of bounds, max is %d", col, nc-1))
		}
		for i := 0; i < nr; i++ {
			R.DataP[i*len(I)+j] = m.DataP[i*nc+col]
		}
	}
	return
}

// Subset returns a column-ordered subset of m's elements as a new matrix
// with the given dimensions.
func (m Matrix) Subset(I Index, nrNew, ncNew int) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = make([]float64, nrNew*ncNew)
	)
	for i, ind := range I {
		ii, jj := indexToIJColMajor(ind, nr)
		iNew, jNew := indexToIJColMajor(i, nrNew)
		data[iNew*ncNew+jNew] = m.DataP[ii*nc+jj]
	}
	R = NewMatrix(nrNew, ncNew, data)
	return
}

func (m Matrix) SubsetVector(I Index) (V Vector) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	V = NewVector(len(I))
	for i, ind := range I {
		ii, jj := indexToIJColMajor(ind, nr)
		V.DataP[i] = m.DataP[ii*nc+jj]
	}
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] -= val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] += a
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val)
	}
	return m
}

func (m Matrix) Apply2(A Matrix, f func(float64, float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i])
	}
	return m
}

func (m Matrix) Apply3(A, B Matrix, f func(float64, float64, float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i], B.DataP[i])
	}
	return m
}

func (m Matrix) POW(p int) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = POW(val, p)
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) ElDiv(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] /= val
	}
	return m
}

func (m Matrix) AssignScalar(I Index, val float64) Matrix { // Changes receiver
	m.checkWritable()
	var (
		nr, nc = m.Dims()
	)
	for _, ind := range I {
		ii, jj := indexToIJColMajor(ind, nr)
		m.DataP[ii*nc+jj] = val
	}
	return m
}

func (m Matrix) IndexedAssign(I2 Index2D, vals []float64) (err error) { // Changes receiver
	m.checkWritable()
	if I2.Len != len(vals) {
		err = fmt.Errorf("length of index %d and values %d must match", I2.Len, len(vals))
		return
	}
	for i, val := range vals {
		m.M.Set(I2.RI[i], I2.CI[i], val)
	}
	return
}

func (m Matrix) Inverse() (R Matrix, err error) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("matrix not square: dims = [%d,%d]", nr, nc)
		return
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert: matrix is singular")
		return
	}
	work := make([]float64, 64*nr)
	lapack64.Getri(R.RawMatrix(), iPiv, work, len(work))
	return
}

// InverseWithCheck panics on singularity and warns on severe
// ill-conditioning, for use on operator matrices that must be
// invertible by construction.
func (m Matrix) InverseWithCheck() (R Matrix) {
	var (
		err error
	)
	if cond := m.ConditionNumber(); cond > 1.e+14 {
		fmt.Printf("warning: matrix %s condition number %8.2e\n", m.name, cond)
	}
	if R, err = m.Inverse(); err != nil {
		panic(err)
	}
	return
}

func (m Matrix) ConditionNumber() float64 {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDThin) {
		return math.Inf(1)
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[len(values)-1] < 1.e-16 {
		return math.Inf(1)
	}
	return values[0] / values[len(values)-1]
}

// LUSolve solves m * X = B for X.
func (m Matrix) LUSolve(B Matrix) (X Matrix, err error) {
	var (
		lu     mat.LU
		nr, _  = m.Dims()
		_, ncB = B.Dims()
	)
	lu.Factorize(m.M)
	X = NewMatrix(nr, ncB)
	if err = lu.SolveTo(X.M, false, B.M); err != nil {
		return
	}
	X.DataP = X.M.RawMatrix().Data
	return
}

func (m Matrix) Col(j int) (V Vector) {
	var (
		nr, nc = m.Dims()
	)
	V = NewVector(nr)
	for i := 0; i < nr; i++ {
		V.DataP[i] = m.DataP[i*nc+j]
	}
	return
}

func (m Matrix) Row(i int) (V Vector) {
	var (
		_, nc = m.Dims()
	)
	V = NewVector(nc)
	copy(V.DataP, m.M.RawRowView(i))
	return
}

func (m Matrix) Min() (min float64) {
	min = m.DataP[0]
	for _, val := range m.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = m.DataP[0]
	for _, val := range m.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) SumRows() (V Vector) {
	// Returns the sum along rows, one value per row
	var (
		nr, nc = m.Dims()
	)
	V = NewVector(nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			V.DataP[i] += m.DataP[i*nc+j]
		}
	}
	return
}

func (m Matrix) SumCols() (V Vector) {
	// Returns the sum along columns, one value per column
	var (
		nr, nc = m.Dims()
	)
	V = NewVector(nc)
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			V.DataP[j] += m.DataP[i*nc+j]
		}
	}
	return
}

// Find returns the column-major indices of elements satisfying (el op val).
func (m Matrix) Find(op EvalOp, val float64, abs bool) (I Index) {
	var (
		nr, nc = m.Dims()
	)
	comp := func(target float64) bool {
		if abs {
			target = math.Abs(target)
		}
		switch op {
		case Equal:
			return target == val
		case Less:
			return target < val
		case LessOrEqual:
			return target <= val
		case Greater:
			return target > val
		case GreaterOrEqual:
			return target >= val
		}
		return false
	}
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			if comp(m.DataP[i*nc+j]) {
				I = append(I, i+nr*j)
			}
		}
	}
	return
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		panic(fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name))
	}
}

func indexToIJColMajor(ind, nr int) (i, j int) {
	i = ind % nr
	j = ind / nr
	return
}
