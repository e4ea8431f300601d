package element

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gocurv/utils"
)

/*
LagrangeElement2D is the nodal Lagrange element on the standard triangle with vertices (-1,-1), (1,-1) and
(-1,1). Face f runs counterclockwise from vertex f to vertex (f+1)%3, and the face nodes in FMask are sorted
along that traversal, so the traces of two elements sharing an edge line up after reversing one side.

The same Gauss-Lobatto parameter set describes the nodes of every face, which makes one 1D basis serve all
face interpolation and differentiation
*/
type LagrangeElement2D struct {
	N, Np, Nfp, NFaces int
	R, S               utils.Vector
	JB2D               *JacobiBasis2D
	Dr, Ds             utils.Matrix
	MassMatrix         utils.Matrix
	FMask              [3]utils.Index // volume indices of the face nodes, in traversal order
	VMask              [3]int         // volume index of each corner vertex
	FaceR              utils.Vector   // face parameter of the face nodes
	V1D, V1Dinv        utils.Matrix
	Dt                 utils.Matrix // face parameter derivative at the face nodes
	GaussR, GaussW     utils.Vector // face quadrature
	FaceInterp         utils.Matrix // face nodes to face quadrature points
	Cub                *Cubature
}

func NewLagrangeElement2D(N int) (el *LagrangeElement2D) {
	var (
		// choose orders to integrate curved element products exactly
		CubatureOrder = 3 * (N + 1)
		NGauss        = 2 * (N + 1)
	)
	if N < 1 {
		panic(fmt.Errorf("polynomial order must be >= 1 to carry vertex nodes, have %d", N))
	}
	el = &LagrangeElement2D{
		N:      N,
		Np:     (N + 1) * (N + 2) / 2,
		Nfp:    N + 1,
		NFaces: 3,
	}
	// Compute nodal set
	el.R, el.S = XYtoRS(Nodes2D(N))
	// Build reference element matrices
	el.JB2D = NewJacobiBasis2D(N, el.R, el.S)
	el.MassMatrix = el.JB2D.Vinv.Transpose().Mul(el.JB2D.Vinv)
	el.Dr, el.Ds = el.GetDerivativeMatrices(el.R, el.S)
	el.buildFaceMasks()
	// 1D basis along the faces, shared by all three
	el.FaceR = JacobiGL(0, 0, N)
	el.V1D = Vandermonde1D(N, el.FaceR)
	el.V1Dinv = el.V1D.InverseWithCheck()
	el.Dt = GradVandermonde1D(el.FaceR, N).Mul(el.V1Dinv)
	el.GaussR, el.GaussW = JacobiGQ(0, 0, NGauss-1)
	el.FaceInterp = Vandermonde1D(N, el.GaussR).Mul(el.V1Dinv)
	// Volume cubature with interpolation and derivatives at the cubature points
	el.Cub = NewCubature(CubatureOrder)
	el.Cub.V = el.JB2D.GetInterpMatrix(el.Cub.R, el.Cub.S)
	el.Cub.Dr, el.Cub.Ds = el.GetDerivativeMatrices(el.Cub.R, el.Cub.S)
	// Mark fields read only
	el.MassMatrix.SetReadOnly("MassMatrix")
	el.Dr.SetReadOnly("Dr")
	el.Ds.SetReadOnly("Ds")
	el.Dt.SetReadOnly("Dt")
	el.FaceInterp.SetReadOnly("FaceInterp")
	return
}

func (el *LagrangeElement2D) GetDerivativeMatrices(R, S utils.Vector) (Dr, Ds utils.Matrix) {
	Dr, Ds = el.JB2D.GetDerivativeMatrices(R, S)
	return
}

// FaceInterpTo builds the interpolation matrix from the face nodes to arbitrary
// points T of the face parameter
func (el *LagrangeElement2D) FaceInterpTo(T utils.Vector) (IM utils.Matrix) {
	IM = Vandermonde1D(el.N, T).Mul(el.V1Dinv)
	return
}

/*
FaceParam maps reference coordinates on face f to the face parameter running from -1 at vertex f to 1 at
vertex (f+1)%3
*/
func FaceParam(f int, r, s float64) (t float64) {
	switch f {
	case 0:
		t = r
	case 1:
		t = 0.5 * (s - r)
	case 2:
		t = -s
	default:
		panic(fmt.Errorf("face number must be 0, 1 or 2, have %d", f))
	}
	return
}

func (el *LagrangeElement2D) buildFaceMasks() {
	var (
		rd, sd = el.R.DataP, el.S.DataP
	)
	onFace := [3]func(r, s float64) bool{
		func(r, s float64) bool { return math.Abs(s+1) < utils.NODETOL },
		func(r, s float64) bool { return math.Abs(r+s) < utils.NODETOL },
		func(r, s float64) bool { return math.Abs(r+1) < utils.NODETOL },
	}
	for f := 0; f < 3; f++ {
		var fm utils.Index
		for i := range rd {
			if onFace[f](rd[i], sd[i]) {
				fm = append(fm, i)
			}
		}
		if len(fm) != el.Nfp {
			panic(fmt.Errorf("face %d has %d nodes, need %d", f, len(fm), el.Nfp))
		}
		// Order face nodes along the counterclockwise traversal
		sort.Slice(fm, func(i, j int) bool {
			return FaceParam(f, rd[fm[i]], sd[fm[i]]) < FaceParam(f, rd[fm[j]], sd[fm[j]])
		})
		el.FMask[f] = fm
	}
	for f := 0; f < 3; f++ {
		el.VMask[f] = el.FMask[f][0]
	}
}
