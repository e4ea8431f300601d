package curvature

import (
	"math"

	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/utils"
)

// Components orders the six entries of a symmetric ambient tensor
var Components = [6][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 2}, {2, 2}}

/*
LiftedWeingarten is the generalized Weingarten measure of a piecewise-smooth surface
lifted into a Lagrange space, component by component. Tested against a symmetric tensor
field σ the measure reads

	Σ_T ∫_T ∇ν : σ dA  +  Σ_E ∫_E ∠(ν₊,ν₋) μ μ' : σ ds

with the smooth shape operator on element interiors and, on every interior edge, the
dihedral angle between the two surface normals weighted by the rank-one tensor of the
averaged co-normal μ. Half the trace of the measure generalizes the total mean
curvature: a unit box, all of whose curvature sits in its twelve edges, totals 3π
*/
type LiftedWeingarten struct {
	Space      *surface.LagrangeSpace
	B, X       [6][]float64
	TraceTotal float64
}

type edgeJump struct {
	theta, speed []float64
	mu           [3][]float64
}

/*
LiftWeingarten assembles and lifts the Weingarten measure of the mesh of the space. The
smooth part interpolates the nodal shape operator to the cubature points; the edge part
visits each interior edge once, matching quadrature points across the edge through the
reversed traversal of the neighbor, and measures the signed dihedral angle

	θ = atan2((ν₊ × ν₋) · t̂, ν₊ · ν₋)

about the edge tangent t̂. The co-normal μ bisects the outward co-normals of the two
sides, a quarter turn of the averaged normal about the edge: μ ∝ t̂ × (ν₊ + ν₋)
*/
func LiftWeingarten(sp *surface.LagrangeSpace) (lw *LiftedWeingarten, err error) {
	var (
		msh    = sp.Msh
		Nq     = sp.El.Cub.Nq
		nGauss = sp.El.GaussR.Len()
		ex     = NewExtrinsic(msh)
		IM     = msh.El.JB2D.GetInterpMatrix(sp.El.Cub.R, sp.El.Cub.S)
		wq     [6]utils.Matrix
		fg     [3]*surface.FaceGeometry
	)
	lw = &LiftedWeingarten{Space: sp}
	for c, ab := range Components {
		wq[c] = IM.Mul(ex.W[ab[0]][ab[1]])
	}
	for f := 0; f < 3; f++ {
		if fg[f], err = msh.FaceMetricAt(f, sp.El.GaussR); err != nil {
			return
		}
	}
	jumps := buildEdgeJumps(msh, fg, nGauss)
	for c := range Components {
		var (
			a, b = Components[c][0], Components[c][1]
			fn   = &surface.Functional{
				Element: func(k int) []float64 {
					dens := make([]float64, Nq)
					for q := range dens {
						dens[q] = wq[c].DataP[q*msh.K+k]
					}
					return dens
				},
				Face: func(k, f int) []float64 {
					ej := jumps[[2]int{k, f}]
					if ej == nil {
						return nil
					}
					out := make([]float64, nGauss)
					for q := range out {
						out[q] = ej.theta[q] * ej.mu[a][q] * ej.mu[b][q] * ej.speed[q]
					}
					return out
				},
			}
		)
		lw.B[c] = sp.Assemble(fn)
		if lw.X[c], err = sp.Lift(lw.B[c]); err != nil {
			return
		}
	}
	lw.TraceTotal = 0.5 * (surface.Total(lw.B[0]) + surface.Total(lw.B[3]) + surface.Total(lw.B[5]))
	return
}

/*
buildEdgeJumps computes the dihedral angle, co-normal and traversal speed at the face
quadrature points of every interior edge, keyed by the first connected element and face.
Quadrature point q of the first side coincides with point nGauss-1-q of the second,
because the second element traverses the shared edge in the opposite direction and the
Gauss points are symmetric
*/
func buildEdgeJumps(msh *surface.Mesh, fg [3]*surface.FaceGeometry, nGauss int) (
	jumps map[[2]int]*edgeJump) {
	jumps = make(map[[2]int]*edgeJump, msh.NEdges-msh.NBoundaryEdges)
	for _, key := range msh.EdgeKeys {
		e := msh.Edges[key]
		if e.NumConnectedTris != 2 {
			continue
		}
		var (
			k1 = int(e.ConnectedTris[0])
			f1 = e.ConnectedTriEdgeNumber[0].Index()
			k2 = int(e.ConnectedTris[1])
			f2 = e.ConnectedTriEdgeNumber[1].Index()
			ej = &edgeJump{
				theta: make([]float64, nGauss),
				speed: make([]float64, nGauss),
			}
		)
		for a := 0; a < 3; a++ {
			ej.mu[a] = make([]float64, nGauss)
		}
		for q := 0; q < nGauss; q++ {
			var (
				i1         = q*msh.K + k1
				i2         = (nGauss-1-q)*msh.K + k2
				speed      = fg[f1].Speed.DataP[i1]
				tx         = fg[f1].TX.DataP[i1] / speed
				ty         = fg[f1].TY.DataP[i1] / speed
				tz         = fg[f1].TZ.DataP[i1] / speed
				px, py, pz = fg[f1].NX.DataP[i1], fg[f1].NY.DataP[i1], fg[f1].NZ.DataP[i1]
				mx, my, mz = fg[f2].NX.DataP[i2], fg[f2].NY.DataP[i2], fg[f2].NZ.DataP[i2]
				ax, ay, az = px + mx, py + my, pz + mz
				ux         = ty*az - tz*ay
				uy         = tz*ax - tx*az
				uz         = tx*ay - ty*ax
				uLen       = math.Sqrt(ux*ux + uy*uy + uz*uz)
			)
			ej.speed[q] = speed
			if uLen < 1.e-14 {
				continue // opposite normals leave no averaged direction
			}
			var (
				cx   = py*mz - pz*my
				cy   = pz*mx - px*mz
				cz   = px*my - py*mx
				sinT = cx*tx + cy*ty + cz*tz
				cosT = px*mx + py*my + pz*mz
			)
			ej.theta[q] = math.Atan2(sinT, cosT)
			ej.mu[0][q] = ux / uLen
			ej.mu[1][q] = uy / uLen
			ej.mu[2][q] = uz / uLen
		}
		jumps[[2]int{k1, f1}] = ej
	}
	return
}
