package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
A Premesh is a straight-sided triangulation of a piecewise-smooth surface embedded in R3,
together with the exact geometry needed to curve it: every element belongs to a patch, each
patch optionally carries a projector onto its smooth surface piece or a parametric chart,
and feature curves mark the sharp creases between patches with their own exact curve
geometry, like the rim circles joining a cylinder side to its caps.

Elements are consistently oriented, traversing the vertices of any element counterclockwise
as seen from outside the surface, so the induced normal points outward on closed shapes
*/
type Premesh struct {
	Nv, K      int
	VX, VY, VZ utils.Vector
	EToV       utils.Matrix // K x 3 vertex indices
	PatchID    []int        // patch of each element
	Patches    []Patch
	UV         utils.Matrix // Nv x 2 chart coordinates, only for parametric patches
	Curves     []FeatureCurve
	EdgeCurve  map[types.EdgeKey]int // edge to feature curve index
}

/*
A Patch is a maximal smooth piece of a composite surface. Proj places points onto the exact
surface and is applied to the curved nodes of every element in the patch; nil leaves the
straight-sided nodes in place, which is exact for planar patches. When Map is present the
nodes are evaluated through the parametric chart at the blended UV coordinates instead
*/
type Patch struct {
	Tag  types.Tag
	Proj Surface
	Map  ParamMap
}

// ParamMap is a parametric chart (u,v) -> R3
type ParamMap func(u, v float64) r3.Vec

/*
A FeatureCurve is a sharp crease between two patches, or a boundary rim, carrying its own
exact geometry. Face nodes of elements along the curve are placed by Proj after patch
projection, so both sides of the crease sample identical edge geometry
*/
type FeatureCurve struct {
	Tag   types.Tag
	Proj  Surface
	Edges types.Curve
}

func NewPremesh(nv, k int) (pm *Premesh) {
	pm = &Premesh{
		Nv:        nv,
		K:         k,
		VX:        utils.NewVector(nv),
		VY:        utils.NewVector(nv),
		VZ:        utils.NewVector(nv),
		EToV:      utils.NewMatrix(k, 3),
		PatchID:   make([]int, k),
		EdgeCurve: make(map[types.EdgeKey]int),
	}
	return
}

func (pm *Premesh) Vertex(i int) r3.Vec {
	return r3.Vec{X: pm.VX.DataP[i], Y: pm.VY.DataP[i], Z: pm.VZ.DataP[i]}
}

func (pm *Premesh) SetVertex(i int, p r3.Vec) {
	pm.VX.DataP[i], pm.VY.DataP[i], pm.VZ.DataP[i] = p.X, p.Y, p.Z
}

func (pm *Premesh) Tri(k int) (verts [3]int) {
	for i := 0; i < 3; i++ {
		verts[i] = int(pm.EToV.At(k, i))
	}
	return
}

func (pm *Premesh) SetTri(k int, verts [3]int) {
	for i := 0; i < 3; i++ {
		pm.EToV.Set(k, i, float64(verts[i]))
	}
}

func (pm *Premesh) Centroid(k int) r3.Vec {
	var (
		verts = pm.Tri(k)
	)
	c := pm.Vertex(verts[0]).Add(pm.Vertex(verts[1])).Add(pm.Vertex(verts[2]))
	return c.Scale(1. / 3.)
}

// FaceNormal is the non-unit normal induced by the element's traversal order
func (pm *Premesh) FaceNormal(k int) r3.Vec {
	var (
		verts = pm.Tri(k)
	)
	e1 := pm.Vertex(verts[1]).Sub(pm.Vertex(verts[0]))
	e2 := pm.Vertex(verts[2]).Sub(pm.Vertex(verts[0]))
	return e1.Cross(e2)
}

// Patch returns the patch an element belongs to
func (pm *Premesh) Patch(k int) *Patch {
	return &pm.Patches[pm.PatchID[k]]
}

/*
OrientOutward flips elements whose traversal normal opposes the outward direction given by
ref at the element centroid
*/
func (pm *Premesh) OrientOutward(ref func(c r3.Vec) r3.Vec) {
	for k := 0; k < pm.K; k++ {
		if pm.FaceNormal(k).Dot(ref(pm.Centroid(k))) < 0 {
			verts := pm.Tri(k)
			verts[1], verts[2] = verts[2], verts[1]
			pm.SetTri(k, verts)
		}
	}
}

/*
WeldVertices merges coincident vertices left over from assembling a shape out of
independently meshed patches, like the cap and side grids of a closed cylinder sharing their
rim points. Elements and patch ids are preserved; chart coordinates do not survive welding
*/
func (pm *Premesh) WeldVertices(tol float64) {
	var (
		remap      = make([]int, pm.Nv)
		seen       = make(map[[3]int64]int)
		vx, vy, vz []float64
		nvNew      int
	)
	for i := 0; i < pm.Nv; i++ {
		p := pm.Vertex(i)
		key := [3]int64{
			int64(math.Round(p.X / tol)),
			int64(math.Round(p.Y / tol)),
			int64(math.Round(p.Z / tol)),
		}
		if j, ok := seen[key]; ok {
			remap[i] = j
			continue
		}
		seen[key] = nvNew
		remap[i] = nvNew
		vx, vy, vz = append(vx, p.X), append(vy, p.Y), append(vz, p.Z)
		nvNew++
	}
	for k := 0; k < pm.K; k++ {
		verts := pm.Tri(k)
		for i := range verts {
			verts[i] = remap[verts[i]]
		}
		pm.SetTri(k, verts)
	}
	pm.Nv = nvNew
	pm.VX = utils.NewVector(nvNew, vx)
	pm.VY = utils.NewVector(nvNew, vy)
	pm.VZ = utils.NewVector(nvNew, vz)
	pm.UV = utils.Matrix{}
}

type edgeUse struct {
	count   int
	patch   [2]int
	forward [2]types.EdgeInt // directed edge as traversed by each adjacent element
}

func (pm *Premesh) edgeUses() map[types.EdgeKey]*edgeUse {
	uses := make(map[types.EdgeKey]*edgeUse)
	for k := 0; k < pm.K; k++ {
		verts := pm.Tri(k)
		for f := 0; f < 3; f++ {
			pair := [2]int{verts[f], verts[(f+1)%3]}
			key := types.NewEdgeKey(pair)
			u, ok := uses[key]
			if !ok {
				u = &edgeUse{}
				uses[key] = u
			}
			if u.count > 1 {
				panic(fmt.Errorf("edge %d-%d is shared by more than two elements", pair[0], pair[1]))
			}
			u.patch[u.count] = pm.PatchID[k]
			u.forward[u.count] = types.NewEdgeInt(pair)
			u.count++
		}
	}
	return uses
}

func sortedEdgeKeys(uses map[types.EdgeKey]*edgeUse) (keys []types.EdgeKey) {
	keys = make([]types.EdgeKey, 0, len(uses))
	for key := range uses {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return
}

/*
AddFeatureCurve collects every edge joining patch a to patch b into a named feature curve,
the segments directed by the patch a side traversal
*/
func (pm *Premesh) AddFeatureCurve(tag types.Tag, proj Surface, a, b int) {
	var (
		uses  = pm.edgeUses()
		edges types.Curve
	)
	for _, key := range sortedEdgeKeys(uses) {
		u := uses[key]
		if u.count != 2 {
			continue
		}
		switch {
		case u.patch[0] == a && u.patch[1] == b:
			edges = append(edges, u.forward[0])
		case u.patch[0] == b && u.patch[1] == a:
			edges = append(edges, u.forward[1])
		}
	}
	pm.appendCurve(tag, proj, edges)
}

/*
MarkBoundaryCurve collects every boundary edge into a named feature curve directed by the
traversal of the single adjacent element
*/
func (pm *Premesh) MarkBoundaryCurve(tag types.Tag, proj Surface) {
	var (
		uses  = pm.edgeUses()
		edges types.Curve
	)
	for _, key := range sortedEdgeKeys(uses) {
		if u := uses[key]; u.count == 1 {
			edges = append(edges, u.forward[0])
		}
	}
	pm.appendCurve(tag, proj, edges)
}

// AttachCurve adds an already collected edge set as a feature curve, as when the
// curve arrives from a mesh file rather than from patch adjacency
func (pm *Premesh) AttachCurve(tag types.Tag, proj Surface, edges types.Curve) {
	pm.appendCurve(tag, proj, edges)
}

func (pm *Premesh) appendCurve(tag types.Tag, proj Surface, edges types.Curve) {
	if len(edges) == 0 {
		return
	}
	ind := len(pm.Curves)
	pm.Curves = append(pm.Curves, FeatureCurve{Tag: tag, Proj: proj, Edges: edges})
	for _, e := range edges {
		pm.EdgeCurve[e.GetKey()] = ind
	}
}
