package surface

import (
	"math"
	"testing"

	"github.com/notargets/gocurv/geometry"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMeshTopology(t *testing.T) {
	{ // Closed sphere: chi = 2, no boundary, 3F = 2E
		msh, err := NewMesh(geometry.NewSphere(1, 0.5), 2)
		assert.NoError(t, err)
		assert.Equal(t, 2, msh.Chi)
		assert.Equal(t, 0, msh.NBoundaryEdges)
		assert.Equal(t, 3*msh.K, 2*msh.NEdges)
		for _, onB := range msh.BoundaryVertex {
			assert.False(t, onB)
		}
	}
	{ // Torus: genus one
		msh, err := NewMesh(geometry.NewTorus(2, 0.5, 0.6), 2)
		assert.NoError(t, err)
		assert.Equal(t, 0, msh.Chi)
	}
	{ // Disk: boundary edges flagged and carried by the rim curve
		msh, err := NewMesh(geometry.NewDisk(1, 0.4), 3)
		assert.NoError(t, err)
		assert.Equal(t, 1, msh.Chi)
		assert.True(t, msh.NBoundaryEdges > 0)
		var nb int
		for _, key := range msh.EdgeKeys {
			e := msh.Edges[key]
			if e.IsBoundary() {
				nb++
				assert.True(t, e.CurveID >= 0)
				verts := key.GetVertices(false)
				assert.True(t, msh.BoundaryVertex[verts[0]])
				assert.True(t, msh.BoundaryVertex[verts[1]])
			}
		}
		assert.Equal(t, msh.NBoundaryEdges, nb)
	}
	{ // Cylinder: closed, with the two rim curves marked on interior edges
		pm := geometry.NewCylinder(1, 2, 0.5)
		msh, err := NewMesh(pm, 3)
		assert.NoError(t, err)
		assert.Equal(t, 2, msh.Chi)
		assert.Equal(t, 0, msh.NBoundaryEdges)
		var nCurve int
		for _, key := range msh.EdgeKeys {
			e := msh.Edges[key]
			if e.CurveID >= 0 {
				nCurve++
				assert.Equal(t, uint8(2), e.NumConnectedTris)
			}
		}
		var want int
		for _, crv := range pm.Curves {
			want += len(crv.Edges)
		}
		assert.Equal(t, want, nCurve)
	}
	{ // Two elements traversing their shared edge the same way is an orientation error
		pm := geometry.NewPremesh(4, 2)
		pm.SetVertex(0, r3.Vec{})
		pm.SetVertex(1, r3.Vec{X: 1})
		pm.SetVertex(2, r3.Vec{Y: 1})
		pm.SetVertex(3, r3.Vec{Y: -1})
		pm.SetTri(0, [3]int{0, 1, 2})
		pm.SetTri(1, [3]int{0, 1, 3})
		pm.Patches = []geometry.Patch{{}}
		_, err := NewMesh(pm, 1)
		assert.Error(t, err)
	}
}

func TestCurvedGeometry(t *testing.T) {
	{ // Box: area and the divergence identity are exact on straight elements
		msh, err := NewMesh(geometry.NewBox(1, 2, 3, 0.75), 3)
		assert.NoError(t, err)
		assert.True(t, near(22., msh.Area(), 1.e-10))
		flux := msh.X.Copy().ElMul(msh.NX).
			Add(msh.Y.Copy().ElMul(msh.NY)).
			Add(msh.Z.Copy().ElMul(msh.NZ))
		assert.True(t, near(3*6., msh.Integrate(flux), 1.e-10))
	}
	{ // Sphere: area converges and nodal normals point radially outward
		msh, err := NewMesh(geometry.NewSphere(1, 0.35), 4)
		assert.NoError(t, err)
		assert.True(t, near(4*math.Pi, msh.Area(), 1.e-3))
		for i := range msh.NX.DataP {
			dot := msh.NX.DataP[i]*msh.X.DataP[i] +
				msh.NY.DataP[i]*msh.Y.DataP[i] +
				msh.NZ.DataP[i]*msh.Z.DataP[i]
			assert.True(t, dot > 0.999)
		}
		assert.True(t, msh.J.Min() > 0)
	}
	{ // Cylinder with caps: area of side plus caps
		msh, err := NewMesh(geometry.NewCylinder(1, 2, 0.4), 4)
		assert.NoError(t, err)
		assert.True(t, near(6*math.Pi, msh.Area(), 1.e-2))
	}
	{ // Straight box edges carry zero acceleration in the face geometry
		msh, _ := NewMesh(geometry.NewBox(1, 1, 1, 0.6), 3)
		for f := 0; f < 3; f++ {
			fg, err := msh.FaceMetricAt(f, msh.El.GaussR)
			assert.NoError(t, err)
			for i := range fg.AX.DataP {
				assert.True(t, near(0., fg.AX.DataP[i], 1.e-8))
				assert.True(t, near(0., fg.AY.DataP[i], 1.e-8))
				assert.True(t, near(0., fg.AZ.DataP[i], 1.e-8))
				assert.True(t, fg.Speed.DataP[i] > 0)
			}
		}
	}
	{ // Surface gradient of the ambient coordinate x is the tangential projection of e_x
		msh, _ := NewMesh(geometry.NewBox(2, 1, 1, 0.6), 3)
		gx, gy, gz := msh.SurfaceGradient(msh.X)
		for i := range gx.DataP {
			nx := msh.NX.DataP[i]
			assert.True(t, near(1-nx*nx, gx.DataP[i], 1.e-9))
			assert.True(t, near(-nx*msh.NY.DataP[i], gy.DataP[i], 1.e-9))
			assert.True(t, near(-nx*msh.NZ.DataP[i], gz.DataP[i], 1.e-9))
		}
	}
}

func TestMetricField(t *testing.T) {
	{ // Affine elements have a constant metric: zero connection, zero curvature
		msh, _ := NewMesh(geometry.NewBox(1, 2, 1, 0.6), 3)
		mf := NewMetricFromEmbedding(msh)
		cf := mf.Christoffel()
		for k := 0; k < 2; k++ {
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					for _, g := range cf.Gamma[k][i][j].DataP {
						assert.True(t, near(0., g, 1.e-9))
					}
				}
			}
		}
		for _, rm := range mf.Riemann().DataP {
			assert.True(t, near(0., rm, 1.e-9))
		}
	}
	{ // Corner angles of a single right triangle under the flat metric
		pm := geometry.NewPremesh(3, 1)
		pm.SetVertex(0, r3.Vec{})
		pm.SetVertex(1, r3.Vec{X: 1})
		pm.SetVertex(2, r3.Vec{Y: 1})
		pm.SetTri(0, [3]int{0, 1, 2})
		pm.Patches = []geometry.Patch{{}}
		msh, err := NewMesh(pm, 2)
		assert.NoError(t, err)
		mf := NewMetricFromEmbedding(msh)
		assert.True(t, near(math.Pi/2, mf.CornerAngle(0, 0), 1.e-12))
		assert.True(t, near(math.Pi/4, mf.CornerAngle(0, 1), 1.e-12))
		assert.True(t, near(math.Pi/4, mf.CornerAngle(0, 2), 1.e-12))
		theta := mf.CornerAngle(0, 0) + mf.CornerAngle(0, 1) + mf.CornerAngle(0, 2)
		assert.True(t, near(math.Pi, theta, 1.e-12))
	}
	{ // Sphere of radius 2: the Riemann component over det g recovers K = 1/4
		msh, _ := NewMesh(geometry.NewSphere(2, 0.5), 4)
		mf := NewMetricFromEmbedding(msh)
		gauss := mf.Riemann().ElDiv(mf.Det())
		mean := msh.Integrate(gauss) / msh.Area()
		assert.True(t, near(0.25, mean, 1.e-2))
		for _, val := range gauss.DataP {
			assert.True(t, math.Abs(val-0.25) < 0.05)
		}
	}
	{ // Hemisphere chart metric on the flat geodesic disk: intrinsic area 2 pi R^2
		var (
			R = 1.5
		)
		msh, _ := NewMesh(geometry.NewDisk(math.Pi/2*R, 0.35), 4)
		mf, err := NewMetricFromChart(msh, geometry.HemisphereMetric(R))
		assert.NoError(t, err)
		ja, err := mf.AreaAt(msh.El.Cub.R, msh.El.Cub.S)
		assert.NoError(t, err)
		var area float64
		for q := 0; q < msh.El.Cub.Nq; q++ {
			for k := 0; k < msh.K; k++ {
				area += msh.El.Cub.W.DataP[q] * ja.DataP[q*msh.K+k]
			}
		}
		assert.True(t, near(2*math.Pi*R*R, area, 2.e-2))
	}
	{ // A chart metric on a curved mesh is rejected
		msh, _ := NewMesh(geometry.NewSphere(1, 0.6), 2)
		_, err := NewMetricFromChart(msh, geometry.FlatMetric)
		assert.Error(t, err)
	}
}

func TestLagrangeSpace(t *testing.T) {
	var (
		msh, errM = NewMesh(geometry.NewSphere(1, 0.5), 3)
	)
	assert.NoError(t, errM)
	sp, err := NewLagrangeSpace(msh, 3)
	assert.NoError(t, err)
	{ // Dof count: vertices, two interior dofs per edge, one interior node per element
		assert.Equal(t, msh.Nv+2*msh.NEdges+msh.K, sp.Ndof)
	}
	{ // Every element node agrees with its global dof coordinate
		var (
			XS = sp.GeoInterp.Mul(msh.X)
			YS = sp.GeoInterp.Mul(msh.Y)
			ZS = sp.GeoInterp.Mul(msh.Z)
		)
		for k := 0; k < msh.K; k++ {
			for n := 0; n < sp.Np; n++ {
				g := sp.GDOF[k*sp.Np+n]
				assert.True(t, near(sp.DofX[g], XS.At(n, k), 1.e-8))
				assert.True(t, near(sp.DofY[g], YS.At(n, k), 1.e-8))
				assert.True(t, near(sp.DofZ[g], ZS.At(n, k), 1.e-8))
			}
		}
	}
	{ // Total mass equals the surface area
		ones := make([]float64, sp.Ndof)
		for i := range ones {
			ones[i] = 1
		}
		assert.True(t, near(msh.Area(), sp.Integrate(ones), 1.e-6))
		assert.True(t, near(4*math.Pi, sp.Integrate(ones), 1.e-2))
	}
	{ // Lifting the area functional returns the constant one
		b := sp.Assemble(&Functional{
			Element: func(k int) []float64 {
				dens := make([]float64, sp.El.Cub.Nq)
				for q := range dens {
					dens[q] = 1
				}
				return dens
			},
		})
		assert.True(t, near(msh.Area(), Total(b), 1.e-6))
		x, err := sp.Lift(b)
		assert.NoError(t, err)
		for _, val := range x {
			assert.True(t, near(1., val, 1.e-8))
		}
	}
	{ // Vertex point masses pass through the assembly untouched
		b := sp.Assemble(&Functional{
			Vertex: func(v int) (mass float64) {
				if v == 0 {
					mass = 2.5
				}
				return
			},
		})
		assert.True(t, near(2.5, Total(b), 1.e-14))
	}
	{ // Boundary face functional integrates the rim circumference of the disk
		dmsh, err := NewMesh(geometry.NewDisk(1, 0.4), 4)
		assert.NoError(t, err)
		dsp, err := NewLagrangeSpace(dmsh, 3)
		assert.NoError(t, err)
		var speed [3][]float64
		for f := 0; f < 3; f++ {
			fg, err := dmsh.FaceMetricAt(f, dsp.El.GaussR)
			assert.NoError(t, err)
			speed[f] = fg.Speed.DataP
		}
		nGauss := dsp.El.GaussR.Len()
		b := dsp.Assemble(&Functional{
			Face: func(k, f int) []float64 {
				if !dmsh.Edges[dmsh.FaceKey(k, f)].IsBoundary() {
					return nil
				}
				edge := make([]float64, nGauss)
				for q := 0; q < nGauss; q++ {
					edge[q] = speed[f][q*dmsh.K+k]
				}
				return edge
			},
		})
		assert.True(t, near(2*math.Pi, Total(b), 1.e-4))
	}
	{ // Metric space measures the intrinsic surface of the hemisphere chart
		var (
			R = 1.2
		)
		dmsh, _ := NewMesh(geometry.NewDisk(math.Pi/2*R, 0.4), 4)
		mf, err := NewMetricFromChart(dmsh, geometry.HemisphereMetric(R))
		assert.NoError(t, err)
		msp, err := NewMetricLagrangeSpace(dmsh, mf, 3)
		assert.NoError(t, err)
		ones := make([]float64, msp.Ndof)
		for i := range ones {
			ones[i] = 1
		}
		assert.True(t, near(2*math.Pi*R*R, msp.Integrate(ones), 2.e-2))
	}
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
