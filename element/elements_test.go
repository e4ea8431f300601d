package element

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/gocurv/utils"
	"github.com/stretchr/testify/assert"
)

func TestJacobi1D(t *testing.T) {
	{ // Test Gauss quadrature nodes and weights
		X, W := JacobiGQ(0, 0, 1)
		assert.True(t, nearVec([]float64{-math.Sqrt(1. / 3.), math.Sqrt(1. / 3.)}, X.DataP, 1.e-12))
		assert.True(t, nearVec([]float64{1, 1}, W.DataP, 1.e-12))

		X, W = JacobiGQ(0, 0, 4)
		assert.True(t, near(2, W.Sum(), 1.e-12))
		// five points integrate through degree nine
		var integral float64
		for i, x := range X.DataP {
			integral += W.DataP[i] * math.Pow(x, 8)
		}
		assert.True(t, near(2./9., integral, 1.e-12))
	}
	{ // Test Gauss-Lobatto nodes
		X := JacobiGL(0, 0, 1)
		assert.True(t, nearVec([]float64{-1, 1}, X.DataP, 1.e-12))
		X = JacobiGL(0, 0, 2)
		assert.True(t, nearVec([]float64{-1, 0, 1}, X.DataP, 1.e-12))
		X = JacobiGL(0, 0, 4)
		for i := 0; i < 5; i++ {
			assert.True(t, near(-X.AtVec(4-i), X.AtVec(i), 1.e-12))
		}
		assert.True(t, near(-1, X.AtVec(0), 1.e-12))
		assert.True(t, near(1, X.AtVec(4), 1.e-12))
	}
	{ // Test Vandermonde inversion and the 1D derivative operator
		N := 4
		R := JacobiGL(0, 0, N)
		V := Vandermonde1D(N, R)
		VVinv := V.Mul(V.InverseWithCheck())
		for i := 0; i < N+1; i++ {
			for j := 0; j < N+1; j++ {
				var expect float64
				if i == j {
					expect = 1
				}
				assert.True(t, near(expect, VVinv.At(i, j), 1.e-10))
			}
		}
		Dr := Dmatrix1D(N, R, V)
		f := R.Copy().POW(3)
		df := Dr.MulVec(f)
		for i, r := range R.DataP {
			assert.True(t, near(3*r*r, df.AtVec(i), 1.e-10))
		}
	}
}

func TestCubature(t *testing.T) {
	{ // Test that the weights always sum to the reference area
		for _, COrder := range []int{1, 3, 8, 12} {
			cub := NewCubature(COrder)
			assert.True(t, near(2, cub.W.Sum(), 1.e-10))
		}
	}
	{ // Test low order moments on the standard triangle
		cub := NewCubature(6)
		var ir, ir2, irs float64
		for i := 0; i < cub.Nq; i++ {
			r, s, w := cub.R.AtVec(i), cub.S.AtVec(i), cub.W.AtVec(i)
			ir += w * r
			ir2 += w * r * r
			irs += w * r * s
		}
		assert.True(t, near(-2./3., ir, 1.e-10))
		assert.True(t, near(2./3., ir2, 1.e-10))
		assert.True(t, near(0, irs, 1.e-10))
	}
}

func TestLagrangeElement2D(t *testing.T) {
	{ // Test the nodal set and Vandermonde across orders
		for _, N := range []int{1, 2, 4, 7} {
			el := NewLagrangeElement2D(N)
			assert.Equal(t, (N+1)*(N+2)/2, el.Np)
			assert.Equal(t, N+1, el.Nfp)
			// the corners are nodes
			assert.True(t, near(-1, el.R.AtVec(el.VMask[0]), 1.e-9))
			assert.True(t, near(-1, el.S.AtVec(el.VMask[0]), 1.e-9))
			assert.True(t, near(1, el.R.AtVec(el.VMask[1]), 1.e-9))
			assert.True(t, near(-1, el.S.AtVec(el.VMask[1]), 1.e-9))
			assert.True(t, near(-1, el.R.AtVec(el.VMask[2]), 1.e-9))
			assert.True(t, near(1, el.S.AtVec(el.VMask[2]), 1.e-9))
			VVinv := el.JB2D.V.Mul(el.JB2D.Vinv)
			for i := 0; i < el.Np; i++ {
				for j := 0; j < el.Np; j++ {
					var expect float64
					if i == j {
						expect = 1
					}
					assert.True(t, near(expect, VVinv.At(i, j), 1.e-8))
				}
			}
		}
	}
	{ // Test the differentiation matrices on a polynomial
		N := 3
		el := NewLagrangeElement2D(N)
		var (
			rd, sd = el.R.DataP, el.S.DataP
		)
		f := utils.NewVector(el.Np)
		dfdrEx := utils.NewVector(el.Np)
		dfdsEx := utils.NewVector(el.Np)
		for i := range f.DataP {
			r, s := rd[i], sd[i]
			f.DataP[i] = r*r*r - 2*r*s + s*s
			dfdrEx.DataP[i] = 3*r*r - 2*s
			dfdsEx.DataP[i] = -2*r + 2*s
		}
		assert.True(t, nearVec(dfdrEx.DataP, el.Dr.MulVec(f).DataP, 1.e-8))
		assert.True(t, nearVec(dfdsEx.DataP, el.Ds.MulVec(f).DataP, 1.e-8))
	}
	{ // Test that the mass matrix integrates the constant over the reference area
		el := NewLagrangeElement2D(2)
		ones := utils.NewVectorConstant(el.Np, 1)
		area := ones.Dot(el.MassMatrix.MulVec(ones))
		assert.True(t, near(2, area, 1.e-10))
	}
	{ // Test face masks: counts, shared corners and Lobatto spacing along each face
		N := 4
		el := NewLagrangeElement2D(N)
		lgl := JacobiGL(0, 0, N)
		for f := 0; f < 3; f++ {
			assert.Equal(t, el.Nfp, len(el.FMask[f]))
			// the last node of face f is the first node of the next face
			assert.Equal(t, el.FMask[(f+1)%3][0], el.FMask[f][el.Nfp-1])
			for i, ind := range el.FMask[f] {
				tp := FaceParam(f, el.R.AtVec(ind), el.S.AtVec(ind))
				assert.True(t, near(lgl.AtVec(i), tp, 1.e-9))
			}
		}
	}
	{ // Test the face quadrature symmetry that lets traces match across elements by index reversal
		el := NewLagrangeElement2D(3)
		NG := el.GaussR.Len()
		for i := 0; i < NG; i++ {
			assert.True(t, near(-el.GaussR.AtVec(NG-1-i), el.GaussR.AtVec(i), 1.e-12))
		}
		assert.True(t, near(2, el.GaussW.Sum(), 1.e-12))
	}
	{ // Test face interpolation and the face derivative applied twice
		N := 3
		el := NewLagrangeElement2D(N)
		fFace := el.FaceR.Copy().POW(3)
		fGauss := el.FaceInterp.MulVec(fFace)
		for i, tg := range el.GaussR.DataP {
			assert.True(t, near(tg*tg*tg, fGauss.AtVec(i), 1.e-9))
		}
		dfFace := el.Dt.MulVec(fFace)
		for i, tf := range el.FaceR.DataP {
			assert.True(t, near(3*tf*tf, dfFace.AtVec(i), 1.e-9))
		}
		d2fFace := el.Dt.MulVec(dfFace)
		for i, tf := range el.FaceR.DataP {
			assert.True(t, near(6*tf, d2fFace.AtVec(i), 1.e-8))
		}
	}
	{ // Test interpolation, differentiation and integration at the cubature points
		el := NewLagrangeElement2D(3)
		f := utils.NewVector(el.Np)
		for i := range f.DataP {
			r, s := el.R.DataP[i], el.S.DataP[i]
			f.DataP[i] = r*r + s
		}
		fq := el.Cub.V.MulVec(f)
		var integral float64
		for i := 0; i < el.Cub.Nq; i++ {
			r, s := el.Cub.R.AtVec(i), el.Cub.S.AtVec(i)
			assert.True(t, near(r*r+s, fq.AtVec(i), 1.e-9))
			integral += el.Cub.W.AtVec(i) * fq.AtVec(i)
		}
		assert.True(t, near(0, integral, 1.e-10))
		fr := el.Cub.Dr.MulVec(f)
		fs := el.Cub.Ds.MulVec(f)
		for i := 0; i < el.Cub.Nq; i++ {
			r := el.Cub.R.AtVec(i)
			assert.True(t, near(2*r, fr.AtVec(i), 1.e-9))
			assert.True(t, near(1, fs.AtVec(i), 1.e-9))
		}
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
