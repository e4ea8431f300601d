package curvature

import (
	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/utils"
)

/*
GaussFromMetric evaluates the Gauss curvature of a metric field at the element nodes,
K = R_rsrs / det g, from the first fundamental form alone. Sampling the metric of an
embedded surface recovers the extrinsic Gauss curvature without ever touching the
embedding, which is Gauss's theorema egregium in discrete form
*/
func GaussFromMetric(mf *surface.MetricField) (gauss utils.Matrix) {
	gauss = mf.Riemann().ElDiv(mf.Det())
	return
}
