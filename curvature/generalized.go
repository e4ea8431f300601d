package curvature

import (
	"math"

	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/utils"
)

/*
LiftedCurvature is a distributional Gauss curvature measure lifted into a Lagrange
space. The measure tests against a function u as

	Σ_T ∫_T K u dA  +  Σ_T ∮_∂T κ u ds  +  Σ_V Θ_V u(V)

with the smooth curvature K on element interiors, the geodesic curvature κ of the
counterclockwise element boundary traversals, and the angle deficit Θ_V at vertices,
2π minus the angle sum at interior vertices and π minus the angle sum on the boundary.
B is the measure tested against the space basis, X solves M X = B, and Total is the
action on the constant one. Gauss-Bonnet pins Total to 2π χ for any piecewise-smooth
geometry, exactly up to quadrature, because each element satisfies its local
Gauss-Bonnet identity no matter how roughly the elements meet
*/
type LiftedCurvature struct {
	Space *surface.LagrangeSpace
	B, X  []float64
	Total float64
}

// GaussBonnetDefect is the distance of the total curvature from 2π χ
func (lc *LiftedCurvature) GaussBonnetDefect() float64 {
	return lc.Total - 2*math.Pi*float64(lc.Space.Msh.Chi)
}

func newLifted(sp *surface.LagrangeSpace, fn *surface.Functional) (lc *LiftedCurvature, err error) {
	lc = &LiftedCurvature{Space: sp}
	lc.B = sp.Assemble(fn)
	if lc.X, err = sp.Lift(lc.B); err != nil {
		return
	}
	lc.Total = surface.Total(lc.B)
	return
}

// deficits accumulates the corner angles of every element at its vertices and returns
// the angle deficit of each vertex
func deficits(msh *surface.Mesh, mf *surface.MetricField) (theta []float64) {
	angleSum := make([]float64, msh.Nv)
	for k := 0; k < msh.K; k++ {
		verts := msh.Tri(k)
		for c := 0; c < 3; c++ {
			angleSum[verts[c]] += mf.CornerAngle(k, c)
		}
	}
	theta = make([]float64, msh.Nv)
	for v := range theta {
		full := 2 * math.Pi
		if msh.BoundaryVertex[v] {
			full = math.Pi
		}
		theta[v] = full - angleSum[v]
	}
	return
}

/*
LiftIntrinsic assembles and lifts the distributional curvature of a metric field:
smooth Gauss curvature on element interiors, geodesic curvature along the element
boundaries and angle deficits at the vertices, all measured by the metric alone. The
space should carry the metric area form, from NewMetricLagrangeSpace, so that the mass
solve and Total measure the intrinsic surface
*/
func LiftIntrinsic(sp *surface.LagrangeSpace, mf *surface.MetricField) (lc *LiftedCurvature, err error) {
	var (
		msh    = sp.Msh
		Nq     = sp.El.Cub.Nq
		nGauss = sp.El.GaussR.Len()
		IM     = mf.El.JB2D.GetInterpMatrix(sp.El.Cub.R, sp.El.Cub.S)
		gaussQ = IM.Mul(GaussFromMetric(mf))
		theta  = deficits(msh, mf)
		edge   [3]struct{ kappa, speed utils.Matrix }
	)
	for f := 0; f < 3; f++ {
		edge[f].kappa, edge[f].speed = mf.FaceGeodesicCurvature(f, sp.El.GaussR)
	}
	fn := &surface.Functional{
		Element: func(k int) []float64 {
			dens := make([]float64, Nq)
			for q := range dens {
				dens[q] = gaussQ.DataP[q*msh.K+k]
			}
			return dens
		},
		Face: func(k, f int) []float64 {
			out := make([]float64, nGauss)
			for q := range out {
				out[q] = edge[f].kappa.DataP[q*msh.K+k] * edge[f].speed.DataP[q*msh.K+k]
			}
			return out
		},
		Vertex: func(v int) float64 { return theta[v] },
	}
	return newLifted(sp, fn)
}

/*
LiftExtrinsic assembles and lifts the distributional curvature of the embedded mesh of
the space: Gauss curvature of the polynomial geometry through its second fundamental
form, geodesic curvature of the embedded element boundaries

	κ = (ν × c') · c'' / |c'|³

and angle deficits of the embedded corner angles
*/
func LiftExtrinsic(sp *surface.LagrangeSpace) (lc *LiftedCurvature, err error) {
	var (
		msh    = sp.Msh
		Nq     = sp.El.Cub.Nq
		nGauss = sp.El.GaussR.Len()
		theta  = deficits(msh, surface.NewMetricFromEmbedding(msh))
		fg     [3]*surface.FaceGeometry
	)
	gaussQ, err := gaussAtPoints(msh, sp.El.Cub.R, sp.El.Cub.S)
	if err != nil {
		return
	}
	for f := 0; f < 3; f++ {
		if fg[f], err = msh.FaceMetricAt(f, sp.El.GaussR); err != nil {
			return
		}
	}
	fn := &surface.Functional{
		Element: func(k int) []float64 {
			dens := make([]float64, Nq)
			for q := range dens {
				dens[q] = gaussQ.DataP[q*msh.K+k]
			}
			return dens
		},
		Face: func(k, f int) []float64 {
			out := make([]float64, nGauss)
			for q := range out {
				var (
					i     = q*msh.K + k
					speed = fg[f].Speed.DataP[i]
					cx    = fg[f].NY.DataP[i]*fg[f].TZ.DataP[i] - fg[f].NZ.DataP[i]*fg[f].TY.DataP[i]
					cy    = fg[f].NZ.DataP[i]*fg[f].TX.DataP[i] - fg[f].NX.DataP[i]*fg[f].TZ.DataP[i]
					cz    = fg[f].NX.DataP[i]*fg[f].TY.DataP[i] - fg[f].NY.DataP[i]*fg[f].TX.DataP[i]
				)
				// κ times the traversal speed
				out[q] = (cx*fg[f].AX.DataP[i] + cy*fg[f].AY.DataP[i] + cz*fg[f].AZ.DataP[i]) /
					(speed * speed)
			}
			return out
		},
		Vertex: func(v int) float64 { return theta[v] },
	}
	return newLifted(sp, fn)
}

/*
LiftNaive projects the pointwise Gauss curvature field alone, dropping the edge and
vertex parts of the measure. On piecewise-smooth shapes the result integrates to nearly
zero instead of 2π χ: a closed cylinder concentrates all of its curvature in the rims
and corners that the pointwise field cannot see
*/
func LiftNaive(sp *surface.LagrangeSpace) (lc *LiftedCurvature, err error) {
	var (
		msh = sp.Msh
		Nq  = sp.El.Cub.Nq
	)
	gaussQ, err := gaussAtPoints(msh, sp.El.Cub.R, sp.El.Cub.S)
	if err != nil {
		return
	}
	fn := &surface.Functional{
		Element: func(k int) []float64 {
			dens := make([]float64, Nq)
			for q := range dens {
				dens[q] = gaussQ.DataP[q*msh.K+k]
			}
			return dens
		},
	}
	return newLifted(sp, fn)
}

/*
gaussAtPoints evaluates the Gauss curvature of the polynomial geometry at reference
points of every element through the second fundamental form, K = (LN − M²)/(EG − F²).
The nodal first derivative fields are exact polynomial representations, so the second
derivatives, and with them K, are exact for the discrete surface
*/
func gaussAtPoints(msh *surface.Mesh, R, S utils.Vector) (gauss utils.Matrix, err error) {
	mt, err := msh.MetricAt(R, S)
	if err != nil {
		return
	}
	var (
		DrT, DsT = msh.El.GetDerivativeMatrices(R, S)
		Xrr, Yrr = DrT.Mul(msh.Xr), DrT.Mul(msh.Yr)
		Zrr      = DrT.Mul(msh.Zr)
		Xrs, Yrs = DsT.Mul(msh.Xr), DsT.Mul(msh.Yr)
		Zrs      = DsT.Mul(msh.Zr)
		Xss, Yss = DsT.Mul(msh.Xs), DsT.Mul(msh.Ys)
		Zss      = DsT.Mul(msh.Zs)
	)
	gauss = utils.NewMatrix(mt.E.Dims())
	for i := range gauss.DataP {
		var (
			nx, ny, nz = mt.NX.DataP[i], mt.NY.DataP[i], mt.NZ.DataP[i]
			bigL       = nx*Xrr.DataP[i] + ny*Yrr.DataP[i] + nz*Zrr.DataP[i]
			bigM       = nx*Xrs.DataP[i] + ny*Yrs.DataP[i] + nz*Zrs.DataP[i]
			bigN       = nx*Xss.DataP[i] + ny*Yss.DataP[i] + nz*Zss.DataP[i]
			det        = mt.E.DataP[i]*mt.G.DataP[i] - mt.F.DataP[i]*mt.F.DataP[i]
		)
		gauss.DataP[i] = (bigL*bigN - bigM*bigM) / det
	}
	return
}
