package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCG(t *testing.T) {
	{ // Test solve of a small SPD system against the direct inverse
		// A = [4 1 0; 1 3 1; 0 1 2]
		dok := NewDOK(3, 3)
		dok.Set(0, 0, 4).Set(0, 1, 1).Set(1, 0, 1)
		dok.Set(1, 1, 3).Set(1, 2, 1).Set(2, 1, 1)
		dok.Set(2, 2, 2)
		A := dok.ToCSR()

		b := []float64{1, 2, 3}
		cg := &CG{Tol: 1.e-14}
		x, err := cg.Solve(A, b)
		assert.NoError(t, err)

		Adense := NewMatrix(3, 3, []float64{4, 1, 0, 1, 3, 1, 0, 1, 2})
		X, err := Adense.LUSolve(NewMatrix(3, 1, []float64{1, 2, 3}))
		assert.NoError(t, err)
		assert.True(t, nearVec(x, X.DataP, 1.e-10))
	}
	{ // Test residual verification A*x = b
		N := 50
		dok := NewDOK(N, N)
		for i := 0; i < N; i++ {
			dok.Set(i, i, 4)
			if i > 0 {
				dok.Set(i, i-1, -1)
				dok.Set(i-1, i, -1)
			}
		}
		A := dok.ToCSR()
		b := make([]float64, N)
		for i := range b {
			b[i] = float64(i%3) + 1
		}
		cg := &CG{Tol: 1.e-13}
		x, err := cg.Solve(A, b)
		assert.NoError(t, err)
		res := make([]float64, N)
		A.MulVec(x, res)
		assert.True(t, nearVec(res, b, 1.e-10))
	}
	{ // Test indefinite rejection
		dok := NewDOK(2, 2)
		dok.Set(0, 0, 1).Set(1, 1, -1)
		A := dok.ToCSR()
		cg := &CG{}
		_, err := cg.Solve(A, []float64{1, 1})
		assert.Error(t, err)
	}
}

func TestPartitionMap(t *testing.T) {
	{ // Test bucket coverage with remainder
		pm := NewPartitionMap(4, 10)
		var total int
		prevEnd := 0
		for n := 0; n < pm.ParallelDegree; n++ {
			kmin, kmax := pm.GetBucketRange(n)
			assert.Equal(t, prevEnd, kmin)
			total += pm.GetBucketDimension(n)
			prevEnd = kmax
		}
		assert.Equal(t, 10, total)
		assert.Equal(t, 10, prevEnd)
	}
	{ // Test degree clamp when more workers than items
		pm := NewPartitionMap(8, 3)
		assert.Equal(t, 1, pm.ParallelDegree)
		assert.Equal(t, 3, pm.GetBucketDimension(0))
	}
}
