package utils

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Test matrix creation and data aliasing
		M := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
		assert.Equal(t, 2, M.RawMatrix().Rows)
		assert.Equal(t, 3, M.RawMatrix().Cols)
		assert.True(t, near(M.At(1, 0), 4))
		M.DataP[3] = 10
		assert.True(t, near(M.At(1, 0), 10))
	}
	{ // Test Mul, Transpose
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 2, []float64{0, 1, 1, 0})
		C := A.Mul(B)
		assert.True(t, nearVec(C.DataP, []float64{2, 1, 4, 3}, 1.e-12))
		At := A.Transpose()
		assert.True(t, nearVec(At.DataP, []float64{1, 3, 2, 4}, 1.e-12))
	}
	{ // Test Inverse
		A := NewMatrix(3, 3, []float64{4, 0, 0, 0, 2, 0, 1, 0, 1})
		Ainv, err := A.Inverse()
		assert.NoError(t, err)
		I := A.Mul(Ainv)
		assert.True(t, nearVec(I.DataP, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, 1.e-12))
		// Singular
		S := NewMatrix(2, 2, []float64{1, 2, 2, 4})
		_, err = S.Inverse()
		assert.Error(t, err)
	}
	{ // Test LUSolve
		A := NewMatrix(2, 2, []float64{2, 1, 1, 3})
		B := NewMatrix(2, 1, []float64{3, 5})
		X, err := A.LUSolve(B)
		assert.NoError(t, err)
		assert.True(t, nearVec(X.DataP, []float64{0.8, 1.4}, 1.e-12))
	}
	{ // Test chainable mutators
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		M.Scale(2).AddScalar(1)
		assert.True(t, nearVec(M.DataP, []float64{3, 5, 7, 9}, 1.e-12))
		M.Apply(func(v float64) float64 { return v - 1 })
		assert.True(t, nearVec(M.DataP, []float64{2, 4, 6, 8}, 1.e-12))
	}
	{ // Test Col, Row, SumRows, SumCols
		M := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
		assert.True(t, nearVec(M.Col(1).DataP, []float64{2, 5}, 1.e-12))
		assert.True(t, nearVec(M.Row(1).DataP, []float64{4, 5, 6}, 1.e-12))
		assert.True(t, nearVec(M.SumRows().DataP, []float64{6, 15}, 1.e-12))
		assert.True(t, nearVec(M.SumCols().DataP, []float64{5, 7, 9}, 1.e-12))
	}
	{ // Test SliceRows, SliceCols
		M := NewMatrix(3, 2, []float64{1, 2, 3, 4, 5, 6})
		R := M.SliceRows(Index{2, 0})
		assert.True(t, nearVec(R.DataP, []float64{5, 6, 1, 2}, 1.e-12))
		C := M.SliceCols(Index{1})
		assert.True(t, nearVec(C.DataP, []float64{2, 4, 6}, 1.e-12))
	}
	{ // Test Find on column-major indices
		M := NewMatrix(2, 2, []float64{0, 1, -1, 0})
		I := M.Find(Less, 0, false)
		assert.Equal(t, Index{1}, I)
		I = M.Find(Greater, 0.5, true)
		assert.Equal(t, Index{1, 2}, I)
	}
	{ // Test read only protection
		M := NewMatrix(2, 2)
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		M.SetWritable()
		assert.NotPanics(t, func() { M.Set(0, 0, 1) })
	}
	{ // Test MulVec
		M := NewMatrix(2, 3, []float64{1, 0, 1, 0, 2, 0})
		v := NewVector(3, []float64{1, 2, 3})
		r := M.MulVec(v)
		assert.True(t, nearVec(r.DataP, []float64{4, 4}, 1.e-12))
	}
}

func TestVector(t *testing.T) {
	{ // Test basics
		v := NewVector(3, []float64{3, 1, 2})
		assert.True(t, near(v.Min(), 1))
		assert.True(t, near(v.Max(), 3))
		assert.True(t, near(v.Sum(), 6))
		w := v.Copy().Scale(2)
		assert.True(t, nearVec(w.DataP, []float64{6, 2, 4}, 1.e-12))
		assert.True(t, nearVec(v.DataP, []float64{3, 1, 2}, 1.e-12))
	}
	{ // Test Find and Subset
		v := NewVector(4, []float64{-1, 0, 1, -1})
		I := v.Find(Less, -0.5, false)
		assert.Equal(t, Index{0, 3}, I)
		s := v.Subset(I)
		assert.True(t, nearVec(s.DataP, []float64{-1, -1}, 1.e-12))
	}
	{ // Test Dot and Norm2
		a := NewVector(2, []float64{3, 4})
		assert.True(t, near(a.Norm2(), 5))
		b := NewVector(2, []float64{1, 1})
		assert.True(t, near(a.Dot(b), 7))
	}
}

func TestIndex(t *testing.T) {
	{ // Test ranges
		r := NewRangeOffset(1, 3)
		assert.Equal(t, Index{0, 1, 2}, r)
		r = NewRange(2, 4)
		assert.Equal(t, Index{2, 3, 4}, r)
		assert.Equal(t, Index{4, 3, 2}, r.Reverse())
		assert.Equal(t, Index{12, 13, 14}, r.Add(10))
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
