package curvature

import "math"

// Closed-form curvatures of the analytic shapes, with outward normals

// SphereCurvatures returns the Gauss and mean curvature of a sphere of radius R
func SphereCurvatures(R float64) (gauss, mean float64) {
	return 1 / (R * R), 1 / R
}

// CylinderPrincipal returns the principal curvatures of the side of a cylinder: the
// axial direction is flat, the azimuthal direction bends at 1/R
func CylinderPrincipal(R float64) (k1, k2 float64) {
	return 0, 1 / R
}

// TorusGauss is the Gauss curvature field of a torus around the z axis, positive on
// the outer half and negative on the inner
func TorusGauss(RMajor, rMinor float64) func(x, y, z float64) float64 {
	return func(x, y, z float64) float64 {
		cosT := (math.Hypot(x, y) - RMajor) / rMinor
		return cosT / (rMinor * (RMajor + rMinor*cosT))
	}
}

// TorusMean is the mean curvature field of the same torus
func TorusMean(RMajor, rMinor float64) func(x, y, z float64) float64 {
	return func(x, y, z float64) float64 {
		cosT := (math.Hypot(x, y) - RMajor) / rMinor
		return (RMajor + 2*rMinor*cosT) / (2 * rMinor * (RMajor + rMinor*cosT))
	}
}

// EllipsoidGauss is the Gauss curvature field of the ellipsoid x²/a² + y²/b² + z²/c² = 1
func EllipsoidGauss(a, b, c float64) func(x, y, z float64) float64 {
	return func(x, y, z float64) float64 {
		w2 := x*x/(a*a*a*a) + y*y/(b*b*b*b) + z*z/(c*c*c*c)
		return 1 / (a * a * b * b * c * c * w2 * w2)
	}
}
