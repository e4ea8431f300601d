package geometry

import (
	"math"
	"testing"

	"github.com/notargets/gocurv/types"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestIcosphere(t *testing.T) {
	{ // Test subdivision counts and the closed surface Euler characteristic
		for depth, counts := range map[int][2]int{0: {12, 20}, 1: {42, 80}, 2: {162, 320}} {
			pm := newIcosphere(1, depth)
			assert.Equal(t, counts[0], pm.Nv)
			assert.Equal(t, counts[1], pm.K)
			assert.Equal(t, 2, eulerCharacteristic(pm))
		}
	}
	{ // Test that every vertex lands on the sphere and every element faces outward
		pm := NewSphere(2, 0.5)
		for i := 0; i < pm.Nv; i++ {
			assert.True(t, near(2, r3.Norm(pm.Vertex(i)), 1.e-12))
		}
		for k := 0; k < pm.K; k++ {
			assert.True(t, pm.FaceNormal(k).Dot(pm.Centroid(k)) > 0)
		}
	}
	{ // Test that the subdivision depth tracks the target edge length
		coarse := NewSphere(1, 0.6)
		fine := NewSphere(1, 0.15)
		assert.True(t, fine.K > 4*coarse.K)
	}
}

func TestEllipsoid(t *testing.T) {
	var (
		a, b, c = 2., 1.5, 1.
		pm      = NewEllipsoid(a, b, c, 0.4)
	)
	for i := 0; i < pm.Nv; i++ {
		p := pm.Vertex(i)
		onSurf := p.X*p.X/(a*a) + p.Y*p.Y/(b*b) + p.Z*p.Z/(c*c)
		assert.True(t, near(1, onSurf, 1.e-12))
	}
	assert.Equal(t, 2, eulerCharacteristic(pm))
}

func TestCylinderPremesh(t *testing.T) {
	var (
		R, H = 1., 2.
		pm   = NewCylinder(R, H, 0.5)
	)
	{ // Test that welding closed the surface
		for _, u := range pm.edgeUses() {
			assert.Equal(t, 2, u.count)
		}
		assert.Equal(t, 2, eulerCharacteristic(pm))
	}
	{ // Test the rim feature curves close into rings of the side grid resolution
		nphi := divisions(2*math.Pi*R, 0.5, 8)
		assert.Equal(t, 2, len(pm.Curves))
		for _, crv := range pm.Curves {
			assert.Equal(t, nphi, len(crv.Edges))
			closed, err := crv.Edges.ReOrder(false)
			assert.NoError(t, err)
			assert.True(t, closed)
		}
		assert.Equal(t, 2*nphi, len(pm.EdgeCurve))
	}
	{ // Test rim points sit exactly on the rim circles
		for _, crv := range pm.Curves {
			for _, v := range crv.Edges.Vertices() {
				p := pm.Vertex(v)
				assert.True(t, near(R, math.Hypot(p.X, p.Y), 1.e-12))
				assert.True(t, near(H/2, math.Abs(p.Z), 1.e-12))
			}
		}
	}
}

func TestBoxPremesh(t *testing.T) {
	var (
		pm = NewBox(1, 1, 1, 0.5)
	)
	{ // Test the welded counts: 2x2 grids per face
		assert.Equal(t, 26, pm.Nv)
		assert.Equal(t, 48, pm.K)
		assert.Equal(t, 2, eulerCharacteristic(pm))
	}
	{ // Test the twelve open edge curves
		assert.Equal(t, 12, len(pm.Curves))
		for _, crv := range pm.Curves {
			assert.Equal(t, 2, len(crv.Edges))
			closed, err := crv.Edges.ReOrder(false)
			assert.NoError(t, err)
			assert.False(t, closed)
		}
	}
	{ // Test all elements face away from the origin
		for k := 0; k < pm.K; k++ {
			assert.True(t, pm.FaceNormal(k).Dot(pm.Centroid(k)) > 0)
		}
	}
}

func TestTorusPremesh(t *testing.T) {
	var (
		RMajor, rMinor = 2., 0.5
		pm             = NewTorus(RMajor, rMinor, 0.4)
	)
	assert.Equal(t, 0, eulerCharacteristic(pm))
	for _, u := range pm.edgeUses() {
		assert.Equal(t, 2, u.count)
	}
	for i := 0; i < pm.Nv; i++ {
		p := pm.Vertex(i)
		rho := math.Hypot(p.X, p.Y)
		tubeDist := math.Hypot(rho-RMajor, p.Z)
		assert.True(t, near(rMinor, tubeDist, 1.e-12))
	}
}

func TestDiskPremesh(t *testing.T) {
	var (
		pm = NewDisk(1, 0.3)
	)
	assert.Equal(t, 1, eulerCharacteristic(pm))
	{ // Test the rim is the only boundary and closes into a loop
		var nb int
		for _, u := range pm.edgeUses() {
			if u.count == 1 {
				nb++
			}
		}
		assert.Equal(t, 1, len(pm.Curves))
		assert.Equal(t, nb, len(pm.Curves[0].Edges))
		closed, err := pm.Curves[0].Edges.ReOrder(false)
		assert.NoError(t, err)
		assert.True(t, closed)
	}
	{ // Test chart coordinates match the plane coordinates
		for i := 0; i < pm.Nv; i++ {
			assert.True(t, near(pm.UV.At(i, 0), pm.VX.DataP[i], 1.e-14))
			assert.True(t, near(pm.UV.At(i, 1), pm.VY.DataP[i], 1.e-14))
			assert.True(t, near(0, pm.VZ.DataP[i], 1.e-14))
		}
	}
}

func TestHemisphereChart(t *testing.T) {
	var (
		R     = 1.5
		chart = HemisphereMap(R)
		g     = HemisphereMetric(R)
	)
	{ // Test the chart lands on the sphere, pole and equator included
		assert.True(t, nearVec([]float64{0, 0, R}, vecSlice(chart(0, 0)), 1.e-12))
		for _, uv := range [][2]float64{{0.1, 0}, {0, -0.7}, {1.1, 0.3}, {R * math.Pi / 2, 0}} {
			p := chart(uv[0], uv[1])
			assert.True(t, near(R, r3.Norm(p), 1.e-12))
		}
		eq := chart(R*math.Pi/2, 0)
		assert.True(t, near(0, eq.Z, 1.e-12))
	}
	{ // Test the closed form metric: radial rays are unit speed, hoops shrink by sinc
		for _, rho := range []float64{1.e-6, 0.3, 1.0, R * math.Pi / 2 * 0.999} {
			E, F, G := g(rho, 0)
			assert.True(t, near(1, E, 1.e-10))
			assert.True(t, near(0, F, 1.e-12))
			s := math.Sin(rho/R) / (rho / R)
			assert.True(t, near(s*s, G, 1.e-10))
			assert.True(t, E*G-F*F > 0)
		}
	}
	{ // Test the premesh vertices agree with the chart at the stored UV
		pm := NewHemisphere(R, 0.5)
		for i := 0; i < pm.Nv; i++ {
			p := chart(pm.UV.At(i, 0), pm.UV.At(i, 1))
			assert.True(t, near(0, r3.Norm(p.Sub(pm.Vertex(i))), 1.e-12))
		}
		assert.Equal(t, 1, eulerCharacteristic(pm))
	}
}

func TestProjectors(t *testing.T) {
	{ // Test idempotency on and off surface
		var (
			cyl = CylinderProjector(2)
			p   = r3.Vec{X: 1, Y: 1, Z: 0.5}
		)
		q := cyl.Project(p)
		assert.True(t, near(2, math.Hypot(q.X, q.Y), 1.e-12))
		assert.True(t, near(0, r3.Norm(cyl.Project(q).Sub(q)), 1.e-14))
	}
	{ // Test the torus projector puts points on the tube
		var (
			tor = TorusProjector(2, 0.5)
			p   = r3.Vec{X: 2.2, Y: -0.4, Z: 0.3}
		)
		q := tor.Project(p)
		rho := math.Hypot(q.X, q.Y)
		assert.True(t, near(0.5, math.Hypot(rho-2, q.Z), 1.e-12))
	}
	{ // Test the rim circle projector
		rim := CircleProjector(1, 0.5)
		q := rim.Project(r3.Vec{X: 3, Y: 4, Z: 0.1})
		assert.True(t, nearVec([]float64{0.6, 0.8, 0.5}, vecSlice(q), 1.e-12))
	}
}

func eulerCharacteristic(pm *Premesh) int {
	edges := make(map[types.EdgeKey]bool)
	for k := 0; k < pm.K; k++ {
		verts := pm.Tri(k)
		for f := 0; f < 3; f++ {
			edges[types.NewEdgeKey([2]int{verts[f], verts[(f+1)%3]})] = true
		}
	}
	return pm.Nv - len(edges) + pm.K
}

func vecSlice(p r3.Vec) []float64 { return []float64{p.X, p.Y, p.Z} }

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
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
