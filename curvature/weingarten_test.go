package curvature

import (
	"math"
	"testing"

	"github.com/notargets/gocurv/geometry"
	"github.com/stretchr/testify/assert"
)

func TestWeingartenBox(t *testing.T) {
	// All curvature of the unit box sits in its twelve edges: faces are flat, each
	// edge turns the normal by π/2 over unit length, and half the trace totals 3π
	sp := liftSpace(t, geometry.NewBox(1, 1, 1, 0.5), 2, 2)
	lw, err := LiftWeingarten(sp)
	assert.NoError(t, err)
	assert.True(t, near(3*math.Pi, lw.TraceTotal, 1.e-9))
}

func TestWeingartenFacetedSphere(t *testing.T) {
	// On a flat-faceted sphere the smooth part vanishes and the edge jumps alone
	// recover the total mean curvature ∫H = 4πR
	sp := liftSpace(t, geometry.NewSphere(1, 0.25), 1, 1)
	lw, err := LiftWeingarten(sp)
	assert.NoError(t, err)
	assert.True(t, near(4*math.Pi, lw.TraceTotal, 0.05))
}

func TestWeingartenSmoothSphere(t *testing.T) {
	// On the smooth sphere the trace recovers ∫H and the lifted tensor approaches the
	// tangential projector over R: W = (I − ν ν')/R
	sp := liftSpace(t, geometry.NewSphere(1, 0.4), 4, 3)
	lw, err := LiftWeingarten(sp)
	assert.NoError(t, err)
	assert.True(t, near(4*math.Pi, lw.TraceTotal, 1.e-2))
	var (
		maxDev, meanDev float64
	)
	for c, ab := range Components {
		for i := range lw.X[c] {
			var (
				nv   = [3]float64{sp.DofX[i], sp.DofY[i], sp.DofZ[i]}
				want = -nv[ab[0]] * nv[ab[1]]
			)
			if ab[0] == ab[1] {
				want += 1
			}
			dev := math.Abs(lw.X[c][i] - want)
			maxDev = math.Max(maxDev, dev)
			meanDev += dev
		}
	}
	meanDev /= float64(6 * sp.Ndof)
	assert.True(t, maxDev < 0.25)
	assert.True(t, meanDev < 0.05)
}

func TestWeingartenCylinder(t *testing.T) {
	// Side and caps contribute the smooth mean curvature πH of the side wall; the two
	// rims each turn the normal by π/2 over length 2πR: total trace/2 = πH + π²R
	var (
		R, H = 1.0, 2.0
		want = math.Pi*H + math.Pi*math.Pi*R
	)
	sp := liftSpace(t, geometry.NewCylinder(R, H, 0.3), 4, 3)
	lw, err := LiftWeingarten(sp)
	assert.NoError(t, err)
	assert.True(t, near(want, lw.TraceTotal, 2.e-2))
}
