package element

import (
	"math"

	"github.com/notargets/gocurv/utils"
)

/*
JacobiBasis2D is the orthonormal simplex polynomial basis of Hesthaven and Warburton on the standard triangle,
together with its generalized Vandermonde matrix and derivatives at a given nodal set. The inverse Vandermonde
converts nodal values to modal coefficients, so interpolation and differentiation at arbitrary points reduce
to Vandermonde products
*/
type JacobiBasis2D struct {
	P               int // Order
	Np              int // Dimension
	V, Vinv, Vr, Vs utils.Matrix
}

func NewJacobiBasis2D(P int, R, S utils.Vector) (jb2d *JacobiBasis2D) {
	jb2d = &JacobiBasis2D{
		P:  P,
		Np: (P + 1) * (P + 2) / 2,
	}
	jb2d.V = Vandermonde2D(P, R, S)
	jb2d.Vinv = jb2d.V.InverseWithCheck()
	jb2d.Vr, jb2d.Vs = GradVandermonde2D(P, R, S)
	return
}

// GetInterpMatrix returns the matrix that carries nodal values to the locations in R,S
func (jb2d *JacobiBasis2D) GetInterpMatrix(R, S utils.Vector) (Interp utils.Matrix) {
	Interp = Vandermonde2D(jb2d.P, R, S).Mul(jb2d.Vinv)
	return
}

// GetDerivativeMatrices returns the matrices that carry nodal values to (d/dr, d/ds) at the locations in R,S
func (jb2d *JacobiBasis2D) GetDerivativeMatrices(R, S utils.Vector) (Dr, Ds utils.Matrix) {
	Vr, Vs := GradVandermonde2D(jb2d.P, R, S)
	Dr, Ds = Vr.Mul(jb2d.Vinv), Vs.Mul(jb2d.Vinv)
	return
}

func Vandermonde2D(N int, R, S utils.Vector) (V2D utils.Matrix) {
	V2D = utils.NewMatrix(R.Len(), (N+1)*(N+2)/2)
	var sk int
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			V2D.SetCol(sk, Simplex2DP(R, S, i, j))
			sk++
		}
	}
	return
}

func GradVandermonde2D(N int, R, S utils.Vector) (V2Dr, V2Ds utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) / 2
		Nr = R.Len()
	)
	V2Dr, V2Ds = utils.NewMatrix(Nr, Np), utils.NewMatrix(Nr, Np)
	var sk int
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			ddr, dds := GradSimplex2DP(R, S, i, j)
			V2Dr.SetCol(sk, ddr)
			V2Ds.SetCol(sk, dds)
			sk++
		}
	}
	return
}

func Simplex2DP(R, S utils.Vector, i, j int) (P []float64) {
	var (
		A, B = RStoAB(R, S)
		Np   = A.Len()
		bd   = B.DataP
	)
	h1 := JacobiP(A, 0, 0, i)
	h2 := JacobiP(B, float64(2*i+1), 0, j)
	P = make([]float64, Np)
	sq2 := math.Sqrt(2)
	for ii := range h1 {
		tv1 := sq2 * h1[ii] * h2[ii]
		tv2 := utils.POW(1-bd[ii], i)
		P[ii] = tv1 * tv2
	}
	return
}

func GradSimplex2DP(R, S utils.Vector, id, jd int) (ddr, dds []float64) {
	var (
		A, B   = RStoAB(R, S)
		ad, bd = A.DataP, B.DataP
	)
	fa := JacobiP(A, 0, 0, id)
	dfa := GradJacobiP(A, 0, 0, id)
	gb := JacobiP(B, 2*float64(id)+1, 0, jd)
	dgb := GradJacobiP(B, 2*float64(id)+1, 0, jd)
	// r-derivative
	// d/dr = da/dr d/da + db/dr d/db = (2/(1-s)) d/da = (2/(1-B)) d/da
	ddr = make([]float64, len(gb))
	for i := range ddr {
		ddr[i] = dfa[i] * gb[i]
		if id > 0 {
			ddr[i] *= utils.POW(0.5*(1-bd[i]), id-1)
		}
		// Normalize
		ddr[i] *= math.Pow(2, float64(id)+0.5)
	}
	// s-derivative
	// d/ds = ((1+A)/2)/((1-B)/2) d/da + d/db
	dds = make([]float64, len(gb))
	for i := range dds {
		dds[i] = 0.5 * dfa[i] * gb[i] * (1 + ad[i])
		if id > 0 {
			dds[i] *= utils.POW(0.5*(1-bd[i]), id-1)
		}
		tmp := dgb[i] * utils.POW(0.5*(1-bd[i]), id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[i] * utils.POW(0.5*(1-bd[i]), id-1)
		}
		dds[i] += fa[i] * tmp
		// Normalize
		dds[i] *= math.Pow(2, float64(id)+0.5)
	}
	return
}
