package surface

import (
	"fmt"
	"math"

	"github.com/notargets/gocurv/element"
	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/utils"
)

/*
MetricField is a first fundamental form sampled at the reference element nodes of every
element, expressed in the reference coordinates (r,s). It is the only geometric input of
the intrinsic curvature operators and deliberately carries no embedding data: two meshes
with the same metric field produce identical intrinsic curvature regardless of how they
sit in space
*/
type MetricField struct {
	El      *element.LagrangeElement2D
	K       int
	E, F, G utils.Matrix // Np x K
}

// NewMetricFromEmbedding samples the embedding metric of a curved mesh
func NewMetricFromEmbedding(msh *Mesh) (mf *MetricField) {
	mf = &MetricField{
		El: msh.El,
		K:  msh.K,
		E:  msh.E.Copy(),
		F:  msh.F.Copy(),
		G:  msh.G.Copy(),
	}
	return
}

/*
NewMetricFromChart pulls a chart metric g(u,v) back to the reference coordinates of a
planar mesh whose node coordinates are the chart coordinates. The mesh must lie in the
z = 0 plane
*/
func NewMetricFromChart(msh *Mesh, g geometry.MetricFunc) (mf *MetricField, err error) {
	var (
		scale = math.Max(math.Max(msh.X.Max(), -msh.X.Min()), math.Max(msh.Y.Max(), -msh.Y.Min()))
	)
	if zMax := math.Max(msh.Z.Max(), -msh.Z.Min()); zMax > 1.e-10*math.Max(scale, 1) {
		err = fmt.Errorf("chart metrics require a planar mesh, found |z| up to %v", zMax)
		return
	}
	mf = &MetricField{
		El: msh.El,
		K:  msh.K,
		E:  utils.NewMatrix(msh.El.Np, msh.K),
		F:  utils.NewMatrix(msh.El.Np, msh.K),
		G:  utils.NewMatrix(msh.El.Np, msh.K),
	}
	for i := range mf.E.DataP {
		var (
			ec, fc, gc = g(msh.X.DataP[i], msh.Y.DataP[i])
			ur, vr     = msh.Xr.DataP[i], msh.Yr.DataP[i]
			us, vs     = msh.Xs.DataP[i], msh.Ys.DataP[i]
		)
		mf.E.DataP[i] = ur*ur*ec + 2*ur*vr*fc + vr*vr*gc
		mf.F.DataP[i] = ur*us*ec + (ur*vs+us*vr)*fc + vr*vs*gc
		mf.G.DataP[i] = us*us*ec + 2*us*vs*fc + vs*vs*gc
	}
	return
}

// Det is the nodal metric determinant EG − F²
func (mf *MetricField) Det() (det utils.Matrix) {
	det = mf.E.Copy().ElMul(mf.G).Subtract(mf.F.Copy().ElMul(mf.F))
	return
}

// AreaAt interpolates the metric to reference points and returns the area form sqrt(det g)
func (mf *MetricField) AreaAt(R, S utils.Vector) (ja utils.Matrix, err error) {
	var (
		IM = mf.El.JB2D.GetInterpMatrix(R, S)
		E  = IM.Mul(mf.E)
		F  = IM.Mul(mf.F)
		G  = IM.Mul(mf.G)
	)
	ja = utils.NewMatrix(E.Dims())
	for i := range ja.DataP {
		det := E.DataP[i]*G.DataP[i] - F.DataP[i]*F.DataP[i]
		if det <= 0 {
			err = fmt.Errorf("metric is not positive definite, det g = %v", det)
			return
		}
		ja.DataP[i] = math.Sqrt(det)
	}
	return
}

/*
ChristoffelField holds the metric and its connection coefficients Γ^k_ij at a common set
of reference points of every element, each matrix nq x K
*/
type ChristoffelField struct {
	E, F, G utils.Matrix
	Det     utils.Matrix
	Gamma   [2][2][2]utils.Matrix // [k][i][j]
}

/*
ChristoffelAt evaluates the connection at reference points R, S. The nodal metric is
differentiated through the element derivative matrices, then metric and derivatives are
interpolated to the target points and combined as
Γ^k_ij = ½ g^kl (∂_i g_lj + ∂_j g_li − ∂_l g_ij)
*/
func (mf *MetricField) ChristoffelAt(R, S utils.Vector) (cf *ChristoffelField) {
	var (
		el = mf.El
		IM = el.JB2D.GetInterpMatrix(R, S)
		dg [2][3]utils.Matrix // [direction][E F G]
	)
	cf = &ChristoffelField{
		E: IM.Mul(mf.E),
		F: IM.Mul(mf.F),
		G: IM.Mul(mf.G),
	}
	for d, D := range []utils.Matrix{el.Dr, el.Ds} {
		dg[d][0] = IM.Mul(D.Mul(mf.E))
		dg[d][1] = IM.Mul(D.Mul(mf.F))
		dg[d][2] = IM.Mul(D.Mul(mf.G))
	}
	nr, nc := cf.E.Dims()
	cf.Det = utils.NewMatrix(nr, nc)
	for k := 0; k < 2; k++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				cf.Gamma[k][i][j] = utils.NewMatrix(nr, nc)
			}
		}
	}
	for p := range cf.E.DataP {
		var (
			g    = [2][2]float64{{cf.E.DataP[p], cf.F.DataP[p]}, {cf.F.DataP[p], cf.G.DataP[p]}}
			det  = g[0][0]*g[1][1] - g[0][1]*g[1][0]
			ginv = [2][2]float64{{g[1][1] / det, -g[0][1] / det}, {-g[0][1] / det, g[0][0] / det}}
			dgp  [2][2][2]float64 // [direction][row][col]
		)
		cf.Det.DataP[p] = det
		for d := 0; d < 2; d++ {
			dgp[d] = [2][2]float64{
				{dg[d][0].DataP[p], dg[d][1].DataP[p]},
				{dg[d][1].DataP[p], dg[d][2].DataP[p]},
			}
		}
		for k := 0; k < 2; k++ {
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					var sum float64
					for l := 0; l < 2; l++ {
						sum += ginv[k][l] * (dgp[i][l][j] + dgp[j][l][i] - dgp[l][i][j])
					}
					cf.Gamma[k][i][j].DataP[p] = 0.5 * sum
				}
			}
		}
	}
	return
}

// Christoffel evaluates the connection at the element nodes
func (mf *MetricField) Christoffel() *ChristoffelField {
	return mf.ChristoffelAt(mf.El.R, mf.El.S)
}

/*
Riemann computes the lowered curvature component R_rsrs = <R(∂r,∂s)∂s,∂r> at the element
nodes, equal to K·det(g). Gauss curvature follows by dividing by the metric determinant.
The connection is evaluated at the nodes and differentiated through the element derivative
matrices
*/
func (mf *MetricField) Riemann() (rm utils.Matrix) {
	var (
		el = mf.El
		cf = mf.Christoffel()
		rk [2]utils.Matrix
	)
	for k := 0; k < 2; k++ {
		// R^k_srs = ∂_r Γ^k_ss − ∂_s Γ^k_rs + Γ^k_rl Γ^l_ss − Γ^k_sl Γ^l_rs
		rk[k] = el.Dr.Mul(cf.Gamma[k][1][1]).Subtract(el.Ds.Mul(cf.Gamma[k][0][1]))
		for l := 0; l < 2; l++ {
			rk[k].Add(cf.Gamma[k][0][l].Copy().ElMul(cf.Gamma[l][1][1])).
				Subtract(cf.Gamma[k][1][l].Copy().ElMul(cf.Gamma[l][0][1]))
		}
	}
	rm = mf.E.Copy().ElMul(rk[0]).Add(mf.F.Copy().ElMul(rk[1]))
	return
}

// Corner edge directions: outgoing face velocity and reversed incoming face velocity
var cornerVectors = [3][2][2]float64{
	{{1, 0}, {0, 1}},
	{{-1, 1}, {-1, 0}},
	{{0, -1}, {1, -1}},
}

/*
CornerAngle measures the interior angle of corner c of element k under the metric,
using atan2 of the metric cross and dot products of the two edge directions
*/
func (mf *MetricField) CornerAngle(k, c int) (theta float64) {
	var (
		n    = mf.El.VMask[c]
		e    = mf.E.At(n, k)
		f    = mf.F.At(n, k)
		g    = mf.G.At(n, k)
		a, b = cornerVectors[c][0], cornerVectors[c][1]
		dot  = e*a[0]*b[0] + f*(a[0]*b[1]+a[1]*b[0]) + g*a[1]*b[1]
		crs  = math.Sqrt(e*g-f*f) * (a[0]*b[1] - a[1]*b[0])
	)
	theta = math.Atan2(crs, dot)
	return
}

/*
FaceGeodesicCurvature evaluates the geodesic curvature of the counterclockwise face
traversal at face parameters T, along with the metric traversal speed |u|_g. The face is
a straight segment in reference coordinates, so the covariant acceleration is purely the
connection term a^k = Γ^k_ij u^i u^j and

	κ = sqrt(det g) (u⁰a¹ − u¹a⁰) / |u|_g³
*/
func (mf *MetricField) FaceGeodesicCurvature(f int, T utils.Vector) (kappa, speed utils.Matrix) {
	var (
		R, S, u = FaceCoordinates(f, T)
		cf      = mf.ChristoffelAt(R, S)
		nr, nc  = cf.E.Dims()
	)
	kappa = utils.NewMatrix(nr, nc)
	speed = utils.NewMatrix(nr, nc)
	for p := range cf.E.DataP {
		var a [2]float64
		for k := 0; k < 2; k++ {
			a[k] = cf.Gamma[k][0][0].DataP[p]*u[0]*u[0] +
				2*cf.Gamma[k][0][1].DataP[p]*u[0]*u[1] +
				cf.Gamma[k][1][1].DataP[p]*u[1]*u[1]
		}
		uNorm := math.Sqrt(cf.E.DataP[p]*u[0]*u[0] + 2*cf.F.DataP[p]*u[0]*u[1] + cf.G.DataP[p]*u[1]*u[1])
		kappa.DataP[p] = math.Sqrt(cf.Det.DataP[p]) * (u[0]*a[1] - u[1]*a[0]) / (uNorm * uNorm * uNorm)
		speed.DataP[p] = uNorm
	}
	return
}
