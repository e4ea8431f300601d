package curvature

import (
	"math"

	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/utils"
)

/*
Extrinsic carries the pointwise curvature fields of an embedded surface at the geometry
nodes: the Weingarten map W = ∇_S ν as an ambient 3x3 tensor, the mean curvature
H = tr(W)/2, the Gauss curvature K = det(W + ν ν'), and the principal curvatures
K1 <= K2. With the outward normal of a sphere of radius R, H = 1/R and K = 1/R²
*/
type Extrinsic struct {
	Msh    *surface.Mesh
	W      [3][3]utils.Matrix
	H, K   utils.Matrix
	K1, K2 utils.Matrix
}

func NewExtrinsic(msh *surface.Mesh) (ex *Extrinsic) {
	ex = &Extrinsic{Msh: msh}
	normals := [3]utils.Matrix{msh.NX, msh.NY, msh.NZ}
	for a := 0; a < 3; a++ {
		ex.W[a][0], ex.W[a][1], ex.W[a][2] = msh.SurfaceGradient(normals[a])
	}
	// The shape operator of the exact surface is symmetric
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 3; b++ {
			sym := ex.W[a][b].Copy().Add(ex.W[b][a]).Scale(0.5)
			ex.W[a][b] = sym
			ex.W[b][a] = sym.Copy()
		}
	}
	nr, nc := msh.X.Dims()
	ex.H = utils.NewMatrix(nr, nc)
	ex.K = utils.NewMatrix(nr, nc)
	ex.K1 = utils.NewMatrix(nr, nc)
	ex.K2 = utils.NewMatrix(nr, nc)
	for i := range ex.H.DataP {
		var (
			w  [3][3]float64
			nv = [3]float64{msh.NX.DataP[i], msh.NY.DataP[i], msh.NZ.DataP[i]}
		)
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				w[a][b] = ex.W[a][b].DataP[i]
			}
		}
		h := 0.5 * (w[0][0] + w[1][1] + w[2][2])
		// The normal direction carries the zero eigenvalue of W; adding ν ν' moves it to
		// one so the determinant is the product of the principal curvatures
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				w[a][b] += nv[a] * nv[b]
			}
		}
		var (
			k    = det3(w)
			disc = math.Sqrt(math.Max(h*h-k, 0))
		)
		ex.H.DataP[i] = h
		ex.K.DataP[i] = k
		ex.K1.DataP[i] = h - disc
		ex.K2.DataP[i] = h + disc
	}
	return
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
