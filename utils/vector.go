package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Vector wraps a gonum VecDense with chainable methods and direct access
// to the backing slice via DataP.
type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(n int, dataO ...[]float64) (V Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) < n {
			panic(fmt.Errorf("mismatch in allocation: NewVector needs %d, have %d", n, len(dataO[0])))
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	V = Vector{
		V:     v,
		DataP: v.RawVector().Data,
	}
	return
}

func NewVectorConstant(n int, val float64) (V Vector) {
	V = NewVector(n, ConstArray(n, val))
	return
}

// Dims, At and T satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.DataP }

func (v Vector) Set(i int, val float64) Vector { // Changes receiver
	v.DataP[i] = val
	return v
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	R = NewVector(v.Len())
	copy(R.DataP, v.DataP)
	return
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) ElMul(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] *= val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.DataP {
		sum += val
	}
	return
}

func (v Vector) Dot(a Vector) (dot float64) {
	for i, val := range v.DataP {
		dot += val * a.DataP[i]
	}
	return
}

func (v Vector) Norm2() (nrm float64) {
	nrm = math.Sqrt(v.Dot(v))
	return
}

func (v Vector) Subset(I Index) (R Vector) { // Does not change receiver
	R = NewVector(len(I))
	for i, ind := range I {
		R.DataP[i] = v.DataP[ind]
	}
	return
}

// Find returns indices of elements satisfying (el op val), optionally on
// absolute values.
func (v Vector) Find(op EvalOp, val float64, abs bool) (I Index) {
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
	for i, val := range v.DataP {
		if comp(val) {
			I = append(I, i)
		}
	}
	return
}

// ToMatrix returns the vector as an Nx1 matrix sharing no storage.
func (v Vector) ToMatrix() (R Matrix) {
	R = NewMatrix(v.Len(), 1, v.Copy().DataP)
	return
}

// ToDiagMatrix returns an NxN matrix with the vector on the diagonal.
func (v Vector) ToDiagMatrix() (R Matrix) {
	R = NewDiagMatrix(v.Len(), v.DataP)
	return
}

func (v Vector) Print(msgI ...string) (o string) {
	var name string
	if len(msgI) != 0 {
		name = msgI[0]
	}
	o = fmt.Sprintf("%s = \n%8.5f\n", name, mat.Formatted(v.V, mat.Squeeze()))
	return
}

// Row is a user-defined Row vector.
type Row []float64

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Row) Dims() (r, c int)    { return 1, len(v) }
func (v Row) At(_, j int) float64 { return v[j] }
func (v Row) T() mat.Matrix       { return Column(v) }

// Column is a user-defined Column vector.
type Column []float64

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Column) Dims() (r, c int)    { return len(v), 1 }
func (v Column) At(i, _ int) float64 { return v[i] }
func (v Column) T() mat.Matrix       { return Row(v) }
