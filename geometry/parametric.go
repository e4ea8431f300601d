package geometry

import (
	"math"

	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// MetricFunc is a closed form first fundamental form over chart coordinates
type MetricFunc func(u, v float64) (E, F, G float64)

// FlatMetric is the Euclidean metric in chart coordinates
func FlatMetric(u, v float64) (E, F, G float64) { return 1, 0, 1 }

/*
HemisphereMap is the geodesic polar chart of the radius R sphere about the north pole:
straight rays from the chart origin map to great circle arcs of the same length, so the
chart disk of radius Rπ/2 covers the upper hemisphere
*/
func HemisphereMap(R float64) ParamMap {
	return func(u, v float64) r3.Vec {
		var (
			rho = math.Hypot(u, v)
			s   = sinc(rho / R)
		)
		return r3.Vec{X: s * u, Y: s * v, Z: R * math.Cos(rho/R)}
	}
}

/*
HemisphereMetric is the sphere metric pulled back through HemisphereMap, in closed form:
E = s² + q u², F = q u v, G = s² + q v² with s = sinc(ρ/R) and q = (1 − s²)/ρ². Its Gauss
curvature is 1/R² everywhere, with no reference to any embedding
*/
func HemisphereMetric(R float64) MetricFunc {
	return func(u, v float64) (E, F, G float64) {
		var (
			rho2 = u*u + v*v
			t2   = rho2 / (R * R)
			s    = sinc(math.Sqrt(t2))
			q    float64
		)
		if t2 < 1.e-8 {
			q = (1. / (R * R)) * (1./3. - 2.*t2/45.)
		} else {
			q = (1 - s*s) / rho2
		}
		E = s*s + q*u*u
		F = q * u * v
		G = s*s + q*v*v
		return
	}
}

func sinc(t float64) float64 {
	if math.Abs(t) < 1.e-4 {
		t2 := t * t
		return 1 - t2/6*(1-t2/20)
	}
	return math.Sin(t) / t
}

/*
NewHemisphere builds a premesh of the upper hemisphere of radius R as a single parametric
patch: a Delaunay disk of geodesic radius Rπ/2 in the chart plane, evaluated through the
geodesic polar chart. The chart preserves orientation, so counterclockwise chart triangles
carry the outward normal
*/
func NewHemisphere(R, h float64) (pm *Premesh) {
	checkPositive("hemisphere", R, h)
	var (
		a            = R * math.Pi / 2
		nphi         = divisions(2*math.Pi*a, h, 8)
		ringX, ringY = ringCoordinates(a, nphi)
		pts          = DiskPoints(ringX, ringY, a, h)
		tris         = TriangulateDisk(pts)
		chart        = HemisphereMap(R)
	)
	pm = NewPremesh(len(pts), len(tris))
	pm.UV = utils.NewMatrix(pm.Nv, 2)
	for i, p := range pts {
		pm.UV.Set(i, 0, p[0])
		pm.UV.Set(i, 1, p[1])
		pm.SetVertex(i, chart(p[0], p[1]))
	}
	for k, t := range tris {
		pm.SetTri(k, t)
	}
	pm.Patches = []Patch{{Tag: types.NewTag("hemisphere"), Map: chart}}
	return
}
