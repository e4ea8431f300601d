package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Surface places nearby points onto an exact surface or curve
type Surface interface {
	Project(p r3.Vec) r3.Vec
}

// SurfaceFunc adapts a plain function to the Surface interface
type SurfaceFunc func(p r3.Vec) r3.Vec

func (f SurfaceFunc) Project(p r3.Vec) r3.Vec { return f(p) }

// SphereProjector maps points radially onto the sphere of radius R about the origin
func SphereProjector(R float64) Surface {
	return SurfaceFunc(func(p r3.Vec) r3.Vec {
		return r3.Unit(p).Scale(R)
	})
}

/*
EllipsoidProjector maps points onto the ellipsoid with semi axes a, b, c by normalizing in
the scaled space where the ellipsoid becomes the unit sphere
*/
func EllipsoidProjector(a, b, c float64) Surface {
	return SurfaceFunc(func(p r3.Vec) r3.Vec {
		q := r3.Unit(r3.Vec{X: p.X / a, Y: p.Y / b, Z: p.Z / c})
		return r3.Vec{X: a * q.X, Y: b * q.Y, Z: c * q.Z}
	})
}

/*
CylinderProjector maps points radially in the xy plane onto the cylinder of radius R about
the z axis, leaving z unchanged
*/
func CylinderProjector(R float64) Surface {
	return SurfaceFunc(func(p r3.Vec) r3.Vec {
		rho := math.Hypot(p.X, p.Y)
		return r3.Vec{X: R * p.X / rho, Y: R * p.Y / rho, Z: p.Z}
	})
}

/*
CircleProjector maps points onto the horizontal circle of radius R at height z0, the rim
geometry joining a cylinder cap to its side
*/
func CircleProjector(R, z0 float64) Surface {
	return SurfaceFunc(func(p r3.Vec) r3.Vec {
		rho := math.Hypot(p.X, p.Y)
		return r3.Vec{X: R * p.X / rho, Y: R * p.Y / rho, Z: z0}
	})
}

/*
TorusProjector maps points onto the torus with tube radius rMinor around the horizontal
circle of radius RMajor, projecting within the vertical half plane through the point and
the z axis
*/
func TorusProjector(RMajor, rMinor float64) Surface {
	return SurfaceFunc(func(p r3.Vec) r3.Vec {
		rho := math.Hypot(p.X, p.Y)
		center := r3.Vec{X: RMajor * p.X / rho, Y: RMajor * p.Y / rho}
		d := r3.Unit(p.Sub(center)).Scale(rMinor)
		return center.Add(d)
	})
}
