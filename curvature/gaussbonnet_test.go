package curvature

import (
	"math"
	"testing"

	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/surface"
	"github.com/stretchr/testify/assert"
)

func liftSpace(t *testing.T, pm *geometry.Premesh, Ng, P int) *surface.LagrangeSpace {
	msh, err := surface.NewMesh(pm, Ng)
	assert.NoError(t, err)
	sp, err := surface.NewLagrangeSpace(msh, P)
	assert.NoError(t, err)
	return sp
}

func TestGaussBonnetClosed(t *testing.T) {
	{ // Smooth sphere: total curvature 4π through both routes
		sp := liftSpace(t, geometry.NewSphere(1, 0.4), 4, 3)
		lcE, err := LiftExtrinsic(sp)
		assert.NoError(t, err)
		assert.True(t, near(4*math.Pi, lcE.Total, 1.e-7))
		assert.True(t, math.Abs(lcE.GaussBonnetDefect()) < 1.e-6)
		lcI, err := LiftIntrinsic(sp, surface.NewMetricFromEmbedding(sp.Msh))
		assert.NoError(t, err)
		assert.True(t, math.Abs(lcI.GaussBonnetDefect()) < 5.e-3)
		// The lifted field is the constant curvature
		for _, val := range lcE.X {
			assert.True(t, math.Abs(val-1) < 0.05)
		}
	}
	{ // Torus: χ = 0, positive and negative curvature cancel exactly
		sp := liftSpace(t, geometry.NewTorus(2, 0.5, 0.4), 4, 3)
		lc, err := LiftExtrinsic(sp)
		assert.NoError(t, err)
		assert.True(t, math.Abs(lc.Total) < 1.e-6)
		assert.True(t, math.Abs(lc.GaussBonnetDefect()) < 1.e-6)
	}
	{ // Box: the measure is eight vertex masses of π/2
		sp := liftSpace(t, geometry.NewBox(1, 1, 1, 0.5), 2, 2)
		lc, err := LiftExtrinsic(sp)
		assert.NoError(t, err)
		assert.True(t, math.Abs(lc.GaussBonnetDefect()) < 1.e-10)
		var corners int
		for _, val := range lc.B {
			if math.Abs(val) > 1.e-8 {
				corners++
				assert.True(t, near(math.Pi/2, val, 1.e-10))
			}
		}
		assert.Equal(t, 8, corners)
	}
}

func TestGaussBonnetCylinderAndNaive(t *testing.T) {
	// The closed cylinder hides all of its curvature in the rims and rim vertices.
	// The distributional measure finds the full 4π; projecting the pointwise field
	// alone finds essentially nothing
	sp := liftSpace(t, geometry.NewCylinder(1, 2, 0.35), 4, 3)
	lc, err := LiftExtrinsic(sp)
	assert.NoError(t, err)
	assert.True(t, near(4*math.Pi, lc.Total, 1.e-6))
	naive, err := LiftNaive(sp)
	assert.NoError(t, err)
	assert.True(t, math.Abs(naive.Total) < 0.5)
	assert.True(t, math.Abs(naive.Total-4*math.Pi) > 10)
}

func TestGaussBonnetBoundary(t *testing.T) {
	{ // Flat disk: χ = 1, carried entirely by the rim turning
		sp := liftSpace(t, geometry.NewDisk(1, 0.4), 4, 3)
		lc, err := LiftExtrinsic(sp)
		assert.NoError(t, err)
		assert.True(t, near(2*math.Pi, lc.Total, 1.e-7))
	}
	{ // Embedded hemisphere cap: χ = 1 with a geodesic equator
		sp := liftSpace(t, geometry.NewHemisphere(1.3, 0.35), 4, 3)
		lc, err := LiftExtrinsic(sp)
		assert.NoError(t, err)
		assert.True(t, math.Abs(lc.GaussBonnetDefect()) < 1.e-6)
	}
}

func TestHemisphereIntrinsicMatchesExtrinsic(t *testing.T) {
	// The flat chart disk with the hemisphere metric and the embedded cap carry the
	// same curvature measure: total 2π and the constant field 1/R²
	var (
		R = 1.3
	)
	dmsh, err := surface.NewMesh(geometry.NewDisk(math.Pi/2*R, 0.35), 4)
	assert.NoError(t, err)
	mf, err := surface.NewMetricFromChart(dmsh, geometry.HemisphereMetric(R))
	assert.NoError(t, err)
	msp, err := surface.NewMetricLagrangeSpace(dmsh, mf, 3)
	assert.NoError(t, err)
	lcI, err := LiftIntrinsic(msp, mf)
	assert.NoError(t, err)
	assert.True(t, math.Abs(lcI.GaussBonnetDefect()) < 1.e-2)

	spE := liftSpace(t, geometry.NewHemisphere(R, 0.35), 4, 3)
	lcE, err := LiftExtrinsic(spE)
	assert.NoError(t, err)
	assert.True(t, math.Abs(lcI.Total-lcE.Total) < 1.e-2)

	var (
		want = 1 / (R * R)
	)
	for _, val := range lcI.X {
		assert.True(t, math.Abs(val-want) < 0.1*want)
	}
	for _, val := range lcE.X {
		assert.True(t, math.Abs(val-want) < 0.1*want)
	}
}

func TestLiftedFieldRefinement(t *testing.T) {
	// The lifted curvature field converges to the pointwise curvature under mesh
	// refinement
	fieldErr := func(h float64) (errMax float64) {
		sp := liftSpace(t, geometry.NewSphere(1, h), 3, 3)
		lc, err := LiftExtrinsic(sp)
		assert.NoError(t, err)
		for _, val := range lc.X {
			errMax = math.Max(errMax, math.Abs(val-1))
		}
		return
	}
	var (
		coarse = fieldErr(0.8)
		fine   = fieldErr(0.35)
	)
	assert.True(t, fine < coarse)
}
