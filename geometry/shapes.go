package geometry

import (
	"fmt"
	"math"

	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
NewSphere builds a premesh of the sphere of radius R about the origin by subdividing an
icosahedron and lifting the vertices radially, the subdivision depth chosen to bring edge
lengths near the target h
*/
func NewSphere(R, h float64) (pm *Premesh) {
	checkPositive("sphere", R, h)
	pm = newIcosphere(R, icosphereDepth(R, h))
	pm.Patches = []Patch{{Tag: types.NewTag("sphere"), Proj: SphereProjector(R)}}
	pm.OrientOutward(func(c r3.Vec) r3.Vec { return c })
	return
}

/*
NewEllipsoid builds a premesh of the ellipsoid with semi axes a, b, c by scaling a unit
icosphere, which places the vertices exactly on the ellipsoid
*/
func NewEllipsoid(a, b, c, h float64) (pm *Premesh) {
	checkPositive("ellipsoid", a, b, c, h)
	var (
		rmax = math.Max(a, math.Max(b, c))
	)
	pm = newIcosphere(1, icosphereDepth(rmax, h))
	for i := 0; i < pm.Nv; i++ {
		p := pm.Vertex(i)
		pm.SetVertex(i, r3.Vec{X: a * p.X, Y: b * p.Y, Z: c * p.Z})
	}
	pm.Patches = []Patch{{Tag: types.NewTag("ellipsoid"), Proj: EllipsoidProjector(a, b, c)}}
	pm.OrientOutward(func(cen r3.Vec) r3.Vec { return cen })
	return
}

/*
NewCylinder builds a closed cylinder of radius R and height H centered on the origin: a
structured grid on the curved side, Delaunay cap disks welded onto the side's rim rings, and
rim feature curves carrying the exact circles where side meets caps. Patches are "side",
"cap-top" and "cap-bottom"
*/
func NewCylinder(R, H, h float64) (pm *Premesh) {
	checkPositive("cylinder", R, H, h)
	var (
		nphi         = divisions(2*math.Pi*R, h, 8)
		nz           = divisions(H, h, 1)
		ringX, ringY = ringCoordinates(R, nphi)
		vx, vy, vz   []float64
		tris         [][3]int
		patch        []int
		sideVert     = func(i, j int) int { return j*nphi + i }
	)
	// Side grid, counterclockwise around the axis, bottom to top
	for j := 0; j <= nz; j++ {
		z := -H/2 + H*float64(j)/float64(nz)
		for i := 0; i < nphi; i++ {
			vx, vy, vz = append(vx, ringX[i]), append(vy, ringY[i]), append(vz, z)
		}
	}
	for j := 0; j < nz; j++ {
		for i := 0; i < nphi; i++ {
			var (
				i2   = (i + 1) % nphi
				a, b = sideVert(i, j), sideVert(i2, j)
				c, d = sideVert(i2, j+1), sideVert(i, j+1)
			)
			tris = append(tris, [3]int{a, b, c}, [3]int{a, c, d})
			patch = append(patch, 0, 0)
		}
	}
	// Caps reuse the rim ring coordinates so welding is exact. The bottom cap reverses
	// the winding to keep its normal pointing down and out
	var (
		capPts  = DiskPoints(ringX, ringY, R, h)
		capTris = TriangulateDisk(capPts)
	)
	for _, z := range []float64{H / 2, -H / 2} {
		var (
			base = len(vx)
			top  = z > 0
		)
		for _, p := range capPts {
			vx, vy, vz = append(vx, p[0]), append(vy, p[1]), append(vz, z)
		}
		for _, t := range capTris {
			if top {
				tris = append(tris, [3]int{base + t[0], base + t[1], base + t[2]})
				patch = append(patch, 1)
			} else {
				tris = append(tris, [3]int{base + t[0], base + t[2], base + t[1]})
				patch = append(patch, 2)
			}
		}
	}
	pm = assemblePremesh(vx, vy, vz, tris, patch)
	pm.WeldVertices(1.e-8 * (R + H))
	pm.Patches = []Patch{
		{Tag: types.NewTag("side"), Proj: CylinderProjector(R)},
		{Tag: types.NewTag("cap-top")},
		{Tag: types.NewTag("cap-bottom")},
	}
	pm.AddFeatureCurve(types.NewTag("rim-top"), CircleProjector(R, H/2), 0, 1)
	pm.AddFeatureCurve(types.NewTag("rim-bottom"), CircleProjector(R, -H/2), 0, 2)
	return
}

/*
NewBox builds a closed box with side lengths lx, ly, lz centered on the origin from six
structured face grids welded along their shared edges. All patches are planar so no
projectors are carried; the twelve sharp edges are marked as straight feature curves
*/
func NewBox(lx, ly, lz, h float64) (pm *Premesh) {
	checkPositive("box", lx, ly, lz, h)
	var (
		nx, ny, nz = divisions(lx, h, 1), divisions(ly, h, 1), divisions(lz, h, 1)
		vx, vy, vz []float64
		tris       [][3]int
		patch      []int
	)
	addFace := func(o, u, v r3.Vec, nu, nv, id int) {
		var (
			base = len(vx)
			vert = func(i, j int) int { return base + j*(nu+1) + i }
		)
		for j := 0; j <= nv; j++ {
			for i := 0; i <= nu; i++ {
				p := o.Add(u.Scale(float64(i) / float64(nu))).Add(v.Scale(float64(j) / float64(nv)))
				vx, vy, vz = append(vx, p.X), append(vy, p.Y), append(vz, p.Z)
			}
		}
		for j := 0; j < nv; j++ {
			for i := 0; i < nu; i++ {
				var (
					a, b = vert(i, j), vert(i+1, j)
					c, d = vert(i+1, j+1), vert(i, j+1)
				)
				tris = append(tris, [3]int{a, b, c}, [3]int{a, c, d})
				patch = append(patch, id, id)
			}
		}
	}
	var (
		ex = r3.Vec{X: lx}
		ey = r3.Vec{Y: ly}
		ez = r3.Vec{Z: lz}
	)
	// each face's u x v points outward
	addFace(r3.Vec{X: lx / 2, Y: -ly / 2, Z: -lz / 2}, ey, ez, ny, nz, 0)  // face-xp
	addFace(r3.Vec{X: -lx / 2, Y: -ly / 2, Z: -lz / 2}, ez, ey, nz, ny, 1) // face-xm
	addFace(r3.Vec{X: -lx / 2, Y: ly / 2, Z: -lz / 2}, ez, ex, nz, nx, 2)  // face-yp
	addFace(r3.Vec{X: -lx / 2, Y: -ly / 2, Z: -lz / 2}, ex, ez, nx, nz, 3) // face-ym
	addFace(r3.Vec{X: -lx / 2, Y: -ly / 2, Z: lz / 2}, ex, ey, nx, ny, 4)  // face-zp
	addFace(r3.Vec{X: -lx / 2, Y: -ly / 2, Z: -lz / 2}, ey, ex, ny, nx, 5) // face-zm
	pm = assemblePremesh(vx, vy, vz, tris, patch)
	pm.WeldVertices(1.e-8 * (lx + ly + lz))
	pm.Patches = []Patch{
		{Tag: types.NewTag("face-xp")}, {Tag: types.NewTag("face-xm")},
		{Tag: types.NewTag("face-yp")}, {Tag: types.NewTag("face-ym")},
		{Tag: types.NewTag("face-zp")}, {Tag: types.NewTag("face-zm")},
	}
	for _, pair := range [][2]int{
		{0, 2}, {0, 3}, {0, 4}, {0, 5},
		{1, 2}, {1, 3}, {1, 4}, {1, 5},
		{2, 4}, {2, 5}, {3, 4}, {3, 5},
	} {
		tag := types.NewTag(fmt.Sprintf("edge-%s-%s",
			pm.Patches[pair[0]].Tag.GetLabel(), pm.Patches[pair[1]].Tag.GetLabel()))
		pm.AddFeatureCurve(tag, nil, pair[0], pair[1])
	}
	return
}

/*
NewTorus builds a premesh of the torus with tube radius rMinor swept around the horizontal
circle of radius RMajor, as a doubly periodic structured grid oriented with the outward
normal
*/
func NewTorus(RMajor, rMinor, h float64) (pm *Premesh) {
	checkPositive("torus", RMajor-rMinor, rMinor, h)
	var (
		nphi       = divisions(2*math.Pi*(RMajor+rMinor), h, 8)
		ntheta     = divisions(2*math.Pi*rMinor, h, 8)
		vx, vy, vz []float64
		tris       [][3]int
		patch      []int
		vert       = func(i, j int) int { return j*nphi + i }
	)
	for j := 0; j < ntheta; j++ {
		var (
			theta = 2 * math.Pi * float64(j) / float64(ntheta)
			rho   = RMajor + rMinor*math.Cos(theta)
			z     = rMinor * math.Sin(theta)
		)
		for i := 0; i < nphi; i++ {
			phi := 2 * math.Pi * float64(i) / float64(nphi)
			vx, vy, vz = append(vx, rho*math.Cos(phi)), append(vy, rho*math.Sin(phi)), append(vz, z)
		}
	}
	for j := 0; j < ntheta; j++ {
		for i := 0; i < nphi; i++ {
			var (
				i2, j2 = (i + 1) % nphi, (j + 1) % ntheta
				a, b   = vert(i, j), vert(i2, j)
				c, d   = vert(i2, j2), vert(i, j2)
			)
			tris = append(tris, [3]int{a, b, c}, [3]int{a, c, d})
			patch = append(patch, 0, 0)
		}
	}
	pm = assemblePremesh(vx, vy, vz, tris, patch)
	pm.Patches = []Patch{{Tag: types.NewTag("torus"), Proj: TorusProjector(RMajor, rMinor)}}
	pm.OrientOutward(func(cen r3.Vec) r3.Vec {
		rho := math.Hypot(cen.X, cen.Y)
		return cen.Sub(r3.Vec{X: RMajor * cen.X / rho, Y: RMajor * cen.Y / rho})
	})
	return
}

/*
NewDisk builds a flat disk premesh of the given radius in the z = 0 plane, with chart
coordinates equal to the plane coordinates so closed form metrics pull back directly, and
the boundary marked as a rim feature curve on the exact circle
*/
func NewDisk(radius, h float64) (pm *Premesh) {
	checkPositive("disk", radius, h)
	var (
		nphi         = divisions(2*math.Pi*radius, h, 8)
		ringX, ringY = ringCoordinates(radius, nphi)
		pts          = DiskPoints(ringX, ringY, radius, h)
		tris         = TriangulateDisk(pts)
	)
	pm = NewPremesh(len(pts), len(tris))
	pm.UV = utils.NewMatrix(len(pts), 2)
	for i, p := range pts {
		pm.UV.Set(i, 0, p[0])
		pm.UV.Set(i, 1, p[1])
		pm.SetVertex(i, r3.Vec{X: p[0], Y: p[1]})
	}
	for k, t := range tris {
		pm.SetTri(k, t)
	}
	pm.Patches = []Patch{{Tag: types.NewTag("disk")}}
	pm.MarkBoundaryCurve(types.NewTag("rim"), CircleProjector(radius, 0))
	return
}

func icosphereDepth(R, h float64) (depth int) {
	var (
		edge0 = 4 / math.Sqrt(10+2*math.Sqrt(5)) * R // icosahedron edge at circumradius R
	)
	depth = int(math.Ceil(math.Log2(edge0 / h)))
	if depth < 0 {
		depth = 0
	}
	if depth > 8 {
		depth = 8
	}
	return
}

/*
newIcosphere subdivides the icosahedron depth times, caching edge midpoints so shared edges
split once, then lifts every vertex radially onto the sphere of radius R. The base face
table traverses counterclockwise seen from outside
*/
func newIcosphere(R float64, depth int) (pm *Premesh) {
	var (
		phi = (1 + math.Sqrt(5)) / 2
	)
	corners := [][3]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	vl := make([]r3.Vec, 0, 12)
	for _, c := range corners {
		vl = append(vl, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
	}
	for d := 0; d < depth; d++ {
		var (
			next = make([][3]int, 0, 4*len(faces))
			mids = make(map[types.EdgeKey]int)
		)
		mid := func(a, b int) int {
			key := types.NewEdgeKey([2]int{a, b})
			if m, ok := mids[key]; ok {
				return m
			}
			m := len(vl)
			vl = append(vl, vl[a].Add(vl[b]).Scale(0.5))
			mids[key] = m
			return m
		}
		for _, f := range faces {
			m01, m12, m20 := mid(f[0], f[1]), mid(f[1], f[2]), mid(f[2], f[0])
			next = append(next,
				[3]int{f[0], m01, m20},
				[3]int{f[1], m12, m01},
				[3]int{f[2], m20, m12},
				[3]int{m01, m12, m20})
		}
		faces = next
	}
	pm = NewPremesh(len(vl), len(faces))
	for i, p := range vl {
		pm.SetVertex(i, r3.Unit(p).Scale(R))
	}
	for k, f := range faces {
		pm.SetTri(k, f)
	}
	return
}

func assemblePremesh(vx, vy, vz []float64, tris [][3]int, patch []int) (pm *Premesh) {
	pm = NewPremesh(len(vx), len(tris))
	copy(pm.VX.DataP, vx)
	copy(pm.VY.DataP, vy)
	copy(pm.VZ.DataP, vz)
	for k, t := range tris {
		pm.SetTri(k, t)
	}
	copy(pm.PatchID, patch)
	return
}

func checkPositive(shape string, dims ...float64) {
	for _, d := range dims {
		if d <= 0 {
			panic(fmt.Errorf("%s dimensions must be positive, have %v", shape, dims))
		}
	}
}
