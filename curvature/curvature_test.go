package curvature

import (
	"math"
	"testing"

	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/surface"
	"github.com/stretchr/testify/assert"
)

func TestExtrinsicSphere(t *testing.T) {
	// Pointwise fields sharpen with the geometric order; every node of the sphere is
	// umbilic with H = 1/R and K = 1/R²
	var (
		tols = map[int]float64{2: 0.8, 3: 0.3, 4: 0.1, 5: 0.05}
	)
	for _, R := range []float64{1, 2} {
		errByOrder := make(map[int]float64)
		for Ng := 2; Ng <= 5; Ng++ {
			msh, err := surface.NewMesh(geometry.NewSphere(R, 0.4*R), Ng)
			assert.NoError(t, err)
			ex := NewExtrinsic(msh)
			var errH, errK float64
			for i := range ex.H.DataP {
				errH = math.Max(errH, math.Abs(ex.H.DataP[i]*R-1))
				errK = math.Max(errK, math.Abs(ex.K.DataP[i]*R*R-1))
			}
			assert.True(t, errH < tols[Ng], "order %d mean curvature error %v", Ng, errH)
			assert.True(t, errK < 2*tols[Ng], "order %d Gauss curvature error %v", Ng, errK)
			for i := range ex.K1.DataP {
				assert.True(t, math.Abs(ex.K2.DataP[i]-ex.K1.DataP[i])*R < 2*tols[Ng])
			}
			errByOrder[Ng] = errH
		}
		assert.True(t, errByOrder[5] < errByOrder[2])
	}
	{ // Integrated mean curvature of the unit sphere
		msh, _ := surface.NewMesh(geometry.NewSphere(1, 0.4), 4)
		ex := NewExtrinsic(msh)
		assert.True(t, near(4*math.Pi, msh.Integrate(ex.H), 1.e-3))
	}
}

func TestExtrinsicCylinder(t *testing.T) {
	var (
		R        = 1.0
		pm       = geometry.NewCylinder(R, 2, 0.3)
		k1a, k2a = CylinderPrincipal(R)
	)
	msh, err := surface.NewMesh(pm, 4)
	assert.NoError(t, err)
	ex := NewExtrinsic(msh)
	np := msh.El.Np
	for k := 0; k < msh.K; k++ {
		onSide := pm.Patches[pm.PatchID[k]].Tag.GetBase() == "side"
		for n := 0; n < np; n++ {
			if onSide {
				assert.True(t, math.Abs(ex.K1.At(n, k)-k1a) < 0.08)
				assert.True(t, math.Abs(ex.K2.At(n, k)-k2a) < 0.08)
			} else {
				// Caps are exactly planar, curvature free to machine precision
				assert.True(t, near(0., ex.K1.At(n, k), 1.e-10))
				assert.True(t, near(0., ex.K2.At(n, k), 1.e-10))
			}
		}
	}
}

func TestExtrinsicAnalyticFields(t *testing.T) {
	{ // Torus: Gauss curvature changes sign between the outer and inner equators
		var (
			gaussRef = TorusGauss(2, 0.5)
			meanRef  = TorusMean(2, 0.5)
		)
		msh, err := surface.NewMesh(geometry.NewTorus(2, 0.5, 0.3), 4)
		assert.NoError(t, err)
		ex := NewExtrinsic(msh)
		for i := range ex.K.DataP {
			var (
				x, y, z = msh.X.DataP[i], msh.Y.DataP[i], msh.Z.DataP[i]
			)
			assert.True(t, math.Abs(ex.K.DataP[i]-gaussRef(x, y, z)) < 0.1)
			assert.True(t, math.Abs(ex.H.DataP[i]-meanRef(x, y, z)) < 0.1)
		}
		assert.True(t, ex.K.Max() > 0.3)
		assert.True(t, ex.K.Min() < -0.5)
	}
	{ // Ellipsoid
		gaussRef := EllipsoidGauss(1.2, 1, 0.8)
		msh, err := surface.NewMesh(geometry.NewEllipsoid(1.2, 1, 0.8, 0.25), 4)
		assert.NoError(t, err)
		ex := NewExtrinsic(msh)
		for i := range ex.K.DataP {
			var (
				want = gaussRef(msh.X.DataP[i], msh.Y.DataP[i], msh.Z.DataP[i])
			)
			assert.True(t, math.Abs(ex.K.DataP[i]-want) < 0.1*want)
		}
	}
}

func TestTheoremaEgregium(t *testing.T) {
	// The metric of the embedding reproduces the extrinsic Gauss curvature without
	// touching the embedding
	msh, err := surface.NewMesh(geometry.NewSphere(1.5, 0.5), 4)
	assert.NoError(t, err)
	var (
		ex        = NewExtrinsic(msh)
		intrinsic = GaussFromMetric(surface.NewMetricFromEmbedding(msh))
	)
	for i := range intrinsic.DataP {
		assert.True(t, math.Abs(intrinsic.DataP[i]-ex.K.DataP[i]) < 0.05)
	}
}

func TestIntrinsicHemisphereChart(t *testing.T) {
	// The chart metric of the geodesic polar parameterization carries K = 1/R² onto
	// the flat disk
	var (
		R = 1.3
	)
	msh, err := surface.NewMesh(geometry.NewDisk(math.Pi/2*R, 0.3), 4)
	assert.NoError(t, err)
	mf, err := surface.NewMetricFromChart(msh, geometry.HemisphereMetric(R))
	assert.NoError(t, err)
	gauss := GaussFromMetric(mf)
	for _, val := range gauss.DataP {
		assert.True(t, math.Abs(val*R*R-1) < 0.05)
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
