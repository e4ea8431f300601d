package surface

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gocurv/element"
	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

type InternalEdgeNumber uint8

const (
	First InternalEdgeNumber = iota
	Second
	Third
)

func (ien InternalEdgeNumber) Index() int {
	return int(ien)
}

type InternalEdgeDirection bool

const (
	SmallestToLargest InternalEdgeDirection = false // edge runs smallest vertex index to largest within the triangle
	Reversed          InternalEdgeDirection = true
)

// Edge connectivity uses fixed arrays rather than slices to keep the edge map compact
type Edge struct {
	NumConnectedTris       uint8
	ConnectedTris          [2]uint32
	ConnectedTriDirection  [2]InternalEdgeDirection
	ConnectedTriEdgeNumber [2]InternalEdgeNumber
	Index                  int32 // dense edge number used for degree of freedom layout
	CurveID                int32 // feature curve carrying this edge, -1 when none
}

func (e *Edge) IsBoundary() bool { return e.NumConnectedTris == 1 }

/*
Mesh is a curved high-order surface mesh: the premesh topology plus an isoparametric
geometric representation of order Ng. Node coordinates are placed by straight-sided vertex
blending, then projected onto the exact patch surfaces and feature curves of the premesh,
so the polynomial geometry samples the true surface. All nodal fields are stored Np x K,
one column per element.

The metric terms carry the first fundamental form E, F, G of the embedding, the area form
J = sqrt(EG − F²), and the outward unit normal induced by the counterclockwise element
traversal
*/
type Mesh struct {
	Pre    *geometry.Premesh
	Ng     int
	El     *element.LagrangeElement2D
	K, Nv  int
	EToV   utils.Matrix
	Edges  map[types.EdgeKey]*Edge
	// EdgeKeys lists the edges in dense Index order
	EdgeKeys       []types.EdgeKey
	NEdges         int
	NBoundaryEdges int
	Chi            int // Euler characteristic Nv - NEdges + K
	BoundaryVertex []bool
	X, Y, Z        utils.Matrix
	Xr, Xs         utils.Matrix
	Yr, Ys         utils.Matrix
	Zr, Zs         utils.Matrix
	E, F, G        utils.Matrix
	J              utils.Matrix
	NX, NY, NZ     utils.Matrix
	CubJ           utils.Matrix // area form at the volume cubature points
}

func NewMesh(pre *geometry.Premesh, Ng int) (msh *Mesh, err error) {
	msh = &Mesh{
		Pre:   pre,
		Ng:    Ng,
		K:     pre.K,
		Nv:    pre.Nv,
		EToV:  pre.EToV,
		El:    element.NewLagrangeElement2D(Ng),
		Edges: make(map[types.EdgeKey]*Edge),
	}
	if err = msh.buildTopology(); err != nil {
		return
	}
	msh.buildCoordinates()
	err = msh.buildGeometry()
	return
}

func (msh *Mesh) Tri(k int) (verts [3]int) {
	for i := 0; i < 3; i++ {
		verts[i] = int(msh.EToV.At(k, i))
	}
	return
}

// FaceKey is the edge key of face f of element k
func (msh *Mesh) FaceKey(k, f int) types.EdgeKey {
	verts := msh.Tri(k)
	return types.NewEdgeKey([2]int{verts[f], verts[(f+1)%3]})
}

func (msh *Mesh) buildTopology() (err error) {
	for k := 0; k < msh.K; k++ {
		verts := msh.Tri(k)
		for f := 0; f < 3; f++ {
			pair := [2]int{verts[f], verts[(f+1)%3]}
			if pair[0] == pair[1] {
				err = fmt.Errorf("element %d face %d is degenerate at vertex %d", k, f, pair[0])
				return
			}
			if err = msh.addEdge(pair, k, InternalEdgeNumber(f)); err != nil {
				return
			}
		}
	}
	// Interior edges of an orientable surface are traversed once in each direction
	for key, e := range msh.Edges {
		if e.NumConnectedTris == 2 && e.ConnectedTriDirection[0] == e.ConnectedTriDirection[1] {
			verts := key.GetVertices(false)
			err = fmt.Errorf("elements %d and %d traverse edge %d-%d in the same direction: "+
				"mesh is not consistently oriented",
				e.ConnectedTris[0], e.ConnectedTris[1], verts[0], verts[1])
			return
		}
	}
	msh.NEdges = len(msh.Edges)
	msh.EdgeKeys = make([]types.EdgeKey, 0, msh.NEdges)
	for key := range msh.Edges {
		msh.EdgeKeys = append(msh.EdgeKeys, key)
	}
	sort.Slice(msh.EdgeKeys, func(i, j int) bool { return msh.EdgeKeys[i] < msh.EdgeKeys[j] })
	msh.BoundaryVertex = make([]bool, msh.Nv)
	for i, key := range msh.EdgeKeys {
		e := msh.Edges[key]
		e.Index = int32(i)
		if e.IsBoundary() {
			msh.NBoundaryEdges++
			verts := key.GetVertices(false)
			msh.BoundaryVertex[verts[0]] = true
			msh.BoundaryVertex[verts[1]] = true
		}
	}
	msh.Chi = msh.Nv - msh.NEdges + msh.K
	return
}

func (msh *Mesh) addEdge(pair [2]int, k int, f InternalEdgeNumber) (err error) {
	var (
		key = types.NewEdgeKey(pair)
		dir = SmallestToLargest
	)
	if pair[0] > pair[1] {
		dir = Reversed
	}
	e, ok := msh.Edges[key]
	if !ok {
		e = &Edge{CurveID: -1}
		if ind, onCurve := msh.Pre.EdgeCurve[key]; onCurve {
			e.CurveID = int32(ind)
		}
		msh.Edges[key] = e
	} else if e.NumConnectedTris > 1 {
		err = fmt.Errorf("edge %d-%d is shared by more than two elements", pair[0], pair[1])
		return
	}
	conn := int(e.NumConnectedTris)
	e.ConnectedTris[conn] = uint32(k)
	e.ConnectedTriDirection[conn] = dir
	e.ConnectedTriEdgeNumber[conn] = f
	e.NumConnectedTris++
	return
}

/*
buildCoordinates places the curved nodes: straight vertex blending at the reference nodes,
then the element patch projector, or the parametric chart evaluated at blended UV for
chart patches. Face nodes on feature curves are finally re-placed by the curve projector so
both sides of a crease sample identical edge geometry
*/
func (msh *Mesh) buildCoordinates() {
	var (
		el  = msh.El
		np  = el.Np
		pre = msh.Pre
	)
	msh.X = utils.NewMatrix(np, msh.K)
	msh.Y = utils.NewMatrix(np, msh.K)
	msh.Z = utils.NewMatrix(np, msh.K)
	blend := func(n int) (ba, bb, bc float64) {
		r, s := el.R.DataP[n], el.S.DataP[n]
		return -0.5 * (r + s), 0.5 * (1 + r), 0.5 * (1 + s)
	}
	for k := 0; k < msh.K; k++ {
		var (
			verts = msh.Tri(k)
			patch = pre.Patch(k)
		)
		for n := 0; n < np; n++ {
			ba, bb, bc := blend(n)
			if patch.Map != nil {
				u := ba*pre.UV.At(verts[0], 0) + bb*pre.UV.At(verts[1], 0) + bc*pre.UV.At(verts[2], 0)
				v := ba*pre.UV.At(verts[0], 1) + bb*pre.UV.At(verts[1], 1) + bc*pre.UV.At(verts[2], 1)
				p := patch.Map(u, v)
				msh.X.Set(n, k, p.X)
				msh.Y.Set(n, k, p.Y)
				msh.Z.Set(n, k, p.Z)
				continue
			}
			p := pre.Vertex(verts[0]).Scale(ba).
				Add(pre.Vertex(verts[1]).Scale(bb)).
				Add(pre.Vertex(verts[2]).Scale(bc))
			if patch.Proj != nil {
				p = patch.Proj.Project(p)
			}
			msh.X.Set(n, k, p.X)
			msh.Y.Set(n, k, p.Y)
			msh.Z.Set(n, k, p.Z)
		}
	}
	// Feature curve overrides
	for _, key := range msh.EdgeKeys {
		e := msh.Edges[key]
		if e.CurveID < 0 {
			continue
		}
		crv := &pre.Curves[e.CurveID]
		if crv.Proj == nil {
			continue
		}
		for c := 0; c < int(e.NumConnectedTris); c++ {
			var (
				k = int(e.ConnectedTris[c])
				f = e.ConnectedTriEdgeNumber[c].Index()
			)
			for _, n := range el.FMask[f] {
				p := crv.Proj.Project(pointAt(msh.X, msh.Y, msh.Z, n, k))
				msh.X.Set(n, k, p.X)
				msh.Y.Set(n, k, p.Y)
				msh.Z.Set(n, k, p.Z)
			}
		}
	}
}

func (msh *Mesh) buildGeometry() (err error) {
	var (
		el = msh.El
	)
	mt, err := msh.MetricAt(el.R, el.S)
	if err != nil {
		return fmt.Errorf("curved geometry is degenerate: %w", err)
	}
	msh.Xr, msh.Xs = mt.Xr, mt.Xs
	msh.Yr, msh.Ys = mt.Yr, mt.Ys
	msh.Zr, msh.Zs = mt.Zr, mt.Zs
	msh.E, msh.F, msh.G = mt.E, mt.F, mt.G
	msh.J = mt.J
	msh.NX, msh.NY, msh.NZ = mt.NX, mt.NY, mt.NZ
	cub, err := msh.MetricAt(el.Cub.R, el.Cub.S)
	if err != nil {
		return fmt.Errorf("curved geometry is degenerate at the cubature points: %w", err)
	}
	msh.CubJ = cub.J
	return
}

/*
MetricTerms carries the geometry of every element evaluated at a common set of reference
points: tangent vectors, first fundamental form, area form and unit normal, each nq x K
*/
type MetricTerms struct {
	Xr, Xs, Yr, Ys, Zr, Zs utils.Matrix
	E, F, G                utils.Matrix
	J                      utils.Matrix
	NX, NY, NZ             utils.Matrix
}

// MetricAt evaluates the embedding metric at reference points R, S of every element
func (msh *Mesh) MetricAt(R, S utils.Vector) (mt *MetricTerms, err error) {
	var (
		DrT, DsT = msh.El.GetDerivativeMatrices(R, S)
	)
	mt = &MetricTerms{
		Xr: DrT.Mul(msh.X), Xs: DsT.Mul(msh.X),
		Yr: DrT.Mul(msh.Y), Ys: DsT.Mul(msh.Y),
		Zr: DrT.Mul(msh.Z), Zs: DsT.Mul(msh.Z),
	}
	mt.E = mt.Xr.Copy().ElMul(mt.Xr).Add(mt.Yr.Copy().ElMul(mt.Yr)).Add(mt.Zr.Copy().ElMul(mt.Zr))
	mt.G = mt.Xs.Copy().ElMul(mt.Xs).Add(mt.Ys.Copy().ElMul(mt.Ys)).Add(mt.Zs.Copy().ElMul(mt.Zs))
	mt.F = mt.Xr.Copy().ElMul(mt.Xs).Add(mt.Yr.Copy().ElMul(mt.Ys)).Add(mt.Zr.Copy().ElMul(mt.Zs))
	var (
		nr, nc = mt.E.Dims()
	)
	mt.J = utils.NewMatrix(nr, nc)
	mt.NX = utils.NewMatrix(nr, nc)
	mt.NY = utils.NewMatrix(nr, nc)
	mt.NZ = utils.NewMatrix(nr, nc)
	for i := range mt.J.DataP {
		var (
			cx = mt.Yr.DataP[i]*mt.Zs.DataP[i] - mt.Zr.DataP[i]*mt.Ys.DataP[i]
			cy = mt.Zr.DataP[i]*mt.Xs.DataP[i] - mt.Xr.DataP[i]*mt.Zs.DataP[i]
			cz = mt.Xr.DataP[i]*mt.Ys.DataP[i] - mt.Yr.DataP[i]*mt.Xs.DataP[i]
		)
		det := mt.E.DataP[i]*mt.G.DataP[i] - mt.F.DataP[i]*mt.F.DataP[i]
		if det <= 0 {
			err = fmt.Errorf("area form vanishes, det g = %v", det)
			return
		}
		nrm := sqrt3(cx, cy, cz)
		mt.J.DataP[i] = nrm
		mt.NX.DataP[i] = cx / nrm
		mt.NY.DataP[i] = cy / nrm
		mt.NZ.DataP[i] = cz / nrm
	}
	return
}

/*
FaceCoordinates maps the face parameter values T of face f to reference coordinates and
returns the constant reference velocity of the counterclockwise traversal
*/
func FaceCoordinates(f int, T utils.Vector) (R, S utils.Vector, u [2]float64) {
	var (
		n = T.Len()
	)
	R, S = utils.NewVector(n), utils.NewVector(n)
	switch f {
	case 0:
		u = [2]float64{1, 0}
		for i, t := range T.DataP {
			R.DataP[i], S.DataP[i] = t, -1
		}
	case 1:
		u = [2]float64{-1, 1}
		for i, t := range T.DataP {
			R.DataP[i], S.DataP[i] = -t, t
		}
	case 2:
		u = [2]float64{0, -1}
		for i, t := range T.DataP {
			R.DataP[i], S.DataP[i] = -1, -t
		}
	default:
		panic(fmt.Errorf("face number must be 0, 1 or 2, have %d", f))
	}
	return
}

/*
FaceGeometry carries the curved edge geometry of face f of every element at a set of face
parameter values: position, velocity and acceleration of the traversal, the surface unit
normal along the edge, and the traversal speed |c'|
*/
type FaceGeometry struct {
	U          [2]float64 // reference velocity of the traversal
	CX, CY, CZ utils.Matrix
	TX, TY, TZ utils.Matrix
	AX, AY, AZ utils.Matrix
	NX, NY, NZ utils.Matrix
	Speed      utils.Matrix
}

// FaceMetricAt evaluates the curved edge geometry of face f at face parameters T
func (msh *Mesh) FaceMetricAt(f int, T utils.Vector) (fg *FaceGeometry, err error) {
	var (
		R, S, u  = FaceCoordinates(f, T)
		IM       = msh.El.JB2D.GetInterpMatrix(R, S)
		DrT, DsT = msh.El.GetDerivativeMatrices(R, S)
	)
	mt, err := msh.MetricAt(R, S)
	if err != nil {
		return
	}
	fg = &FaceGeometry{
		U:  u,
		CX: IM.Mul(msh.X), CY: IM.Mul(msh.Y), CZ: IM.Mul(msh.Z),
		NX: mt.NX, NY: mt.NY, NZ: mt.NZ,
	}
	deriv1 := func(Ar, As utils.Matrix) utils.Matrix {
		return Ar.Copy().Scale(u[0]).Add(As.Copy().Scale(u[1]))
	}
	fg.TX = deriv1(mt.Xr, mt.Xs)
	fg.TY = deriv1(mt.Yr, mt.Ys)
	fg.TZ = deriv1(mt.Zr, mt.Zs)
	// The nodal first derivative fields are exact polynomial representations, so
	// differentiating them again yields the exact second derivatives of the geometry
	deriv2 := func(Anodal_r, Anodal_s utils.Matrix) utils.Matrix {
		var (
			Arr = DrT.Mul(Anodal_r)
			Ars = DsT.Mul(Anodal_r)
			Ass = DsT.Mul(Anodal_s)
		)
		return Arr.Scale(u[0] * u[0]).Add(Ars.Scale(2 * u[0] * u[1])).Add(Ass.Scale(u[1] * u[1]))
	}
	fg.AX = deriv2(msh.Xr, msh.Xs)
	fg.AY = deriv2(msh.Yr, msh.Ys)
	fg.AZ = deriv2(msh.Zr, msh.Zs)
	var (
		nr, nc = fg.TX.Dims()
	)
	fg.Speed = utils.NewMatrix(nr, nc)
	for i := range fg.Speed.DataP {
		fg.Speed.DataP[i] = sqrt3(fg.TX.DataP[i], fg.TY.DataP[i], fg.TZ.DataP[i])
	}
	return
}

/*
SurfaceGradient computes the tangential gradient of a nodal scalar field, raising the
reference derivatives through the inverse metric: ∇f = f^r T_r + f^s T_s with
[f^r; f^s] = g⁻¹ [f_r; f_s]
*/
func (msh *Mesh) SurfaceGradient(fld utils.Matrix) (gx, gy, gz utils.Matrix) {
	var (
		fr     = msh.El.Dr.Mul(fld)
		fs     = msh.El.Ds.Mul(fld)
		nr, nc = fld.Dims()
	)
	gx = utils.NewMatrix(nr, nc)
	gy = utils.NewMatrix(nr, nc)
	gz = utils.NewMatrix(nr, nc)
	for i := range fr.DataP {
		var (
			det = msh.E.DataP[i]*msh.G.DataP[i] - msh.F.DataP[i]*msh.F.DataP[i]
			a   = (msh.G.DataP[i]*fr.DataP[i] - msh.F.DataP[i]*fs.DataP[i]) / det
			b   = (msh.E.DataP[i]*fs.DataP[i] - msh.F.DataP[i]*fr.DataP[i]) / det
		)
		gx.DataP[i] = a*msh.Xr.DataP[i] + b*msh.Xs.DataP[i]
		gy.DataP[i] = a*msh.Yr.DataP[i] + b*msh.Ys.DataP[i]
		gz.DataP[i] = a*msh.Zr.DataP[i] + b*msh.Zs.DataP[i]
	}
	return
}

// Integrate computes the surface integral of a nodal field over the whole mesh
func (msh *Mesh) Integrate(fld utils.Matrix) (total float64) {
	var (
		cub = msh.El.Cub
		fq  = cub.V.Mul(fld)
	)
	for q := 0; q < cub.Nq; q++ {
		for k := 0; k < msh.K; k++ {
			total += cub.W.DataP[q] * msh.CubJ.DataP[q*msh.K+k] * fq.DataP[q*msh.K+k]
		}
	}
	return
}

// Area is the total surface area
func (msh *Mesh) Area() float64 {
	ones := utils.NewMatrix(msh.El.Np, msh.K).AddScalar(1)
	return msh.Integrate(ones)
}

func sqrt3(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

func pointAt(X, Y, Z utils.Matrix, n, k int) r3.Vec {
	return r3.Vec{X: X.At(n, k), Y: Y.At(n, k), Z: Z.At(n, k)}
}

