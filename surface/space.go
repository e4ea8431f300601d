package surface

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/gocurv/element"
	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
)

/*
LagrangeSpace is the continuous scalar nodal space of order P over a curved surface mesh.
Global degrees of freedom are numbered vertices first, then P-1 interior nodes per edge,
then element interiors, so a vertex dof index equals its premesh vertex index. Edge
interior dofs run from the smaller global vertex to the larger, which makes the numbering
match across the two elements sharing an edge.

The mass matrix carries the area form of the mesh embedding, or of a metric field when
the space is built from one, so integrals against the space are metric integrals
*/
type LagrangeSpace struct {
	Msh       *Mesh
	P         int
	El        *element.LagrangeElement2D
	Np        int
	Ndof      int
	GDOF      []int // global dof of local node n of element k at k*Np+n
	DofX      []float64
	DofY      []float64
	DofZ      []float64
	GeoInterp utils.Matrix // geometry nodes to space nodes
	CubJ      utils.Matrix // area form at the space cubature points
	M         utils.CSR
	Solver    *utils.CG // status of the last mass solve
}

// NewLagrangeSpace builds an order P space carrying the embedding area form of the mesh
func NewLagrangeSpace(msh *Mesh, P int) (sp *LagrangeSpace, err error) {
	sp = newSpace(msh, P)
	mt, err := msh.MetricAt(sp.El.Cub.R, sp.El.Cub.S)
	if err != nil {
		return
	}
	sp.CubJ = mt.J
	sp.assembleMass()
	return
}

/*
NewMetricLagrangeSpace builds an order P space whose area form comes from a metric field
sampled on the same mesh, so mass integrals measure the intrinsic surface
*/
func NewMetricLagrangeSpace(msh *Mesh, mf *MetricField, P int) (sp *LagrangeSpace, err error) {
	sp = newSpace(msh, P)
	if sp.CubJ, err = mf.AreaAt(sp.El.Cub.R, sp.El.Cub.S); err != nil {
		return
	}
	sp.assembleMass()
	return
}

func newSpace(msh *Mesh, P int) (sp *LagrangeSpace) {
	sp = &LagrangeSpace{
		Msh: msh,
		P:   P,
		El:  element.NewLagrangeElement2D(P),
	}
	sp.Np = sp.El.Np
	sp.GeoInterp = msh.El.JB2D.GetInterpMatrix(sp.El.R, sp.El.S)
	sp.buildNumbering()
	sp.buildDofCoordinates()
	return
}

func (sp *LagrangeSpace) buildNumbering() {
	var (
		el       = sp.El
		msh      = sp.Msh
		P        = sp.P
		offEdge  = msh.Nv
		offInt   = msh.Nv + msh.NEdges*(P-1)
		intCount int
	)
	sp.GDOF = make([]int, msh.K*el.Np)
	for i := range sp.GDOF {
		sp.GDOF[i] = -1
	}
	for k := 0; k < msh.K; k++ {
		verts := msh.Tri(k)
		for c := 0; c < 3; c++ {
			sp.GDOF[k*el.Np+el.VMask[c]] = verts[c]
		}
		for f := 0; f < 3; f++ {
			var (
				a, b = verts[f], verts[(f+1)%3]
				e    = msh.Edges[types.NewEdgeKey([2]int{a, b})]
			)
			for i := 1; i < P; i++ {
				slot := i - 1
				if a > b {
					slot = P - 1 - i
				}
				sp.GDOF[k*el.Np+el.FMask[f][i]] = offEdge + int(e.Index)*(P-1) + slot
			}
		}
		for n := 0; n < el.Np; n++ {
			if sp.GDOF[k*el.Np+n] < 0 {
				sp.GDOF[k*el.Np+n] = offInt + intCount
				intCount++
			}
		}
	}
	sp.Ndof = offInt + intCount
}

func (sp *LagrangeSpace) buildDofCoordinates() {
	var (
		msh = sp.Msh
		XS  = sp.GeoInterp.Mul(msh.X)
		YS  = sp.GeoInterp.Mul(msh.Y)
		ZS  = sp.GeoInterp.Mul(msh.Z)
	)
	sp.DofX = make([]float64, sp.Ndof)
	sp.DofY = make([]float64, sp.Ndof)
	sp.DofZ = make([]float64, sp.Ndof)
	for k := 0; k < msh.K; k++ {
		for n := 0; n < sp.Np; n++ {
			g := sp.GDOF[k*sp.Np+n]
			sp.DofX[g] = XS.At(n, k)
			sp.DofY[g] = YS.At(n, k)
			sp.DofZ[g] = ZS.At(n, k)
		}
	}
}

type triplet struct {
	i, j int
	v    float64
}

func (sp *LagrangeSpace) assembleMass() {
	var (
		el      = sp.El
		msh     = sp.Msh
		np      = sp.Np
		Nq      = el.Cub.Nq
		phi     = el.Cub.V.DataP // Nq x Np
		pm      = utils.NewPartitionMap(runtime.NumCPU(), msh.K)
		buckets = make([][]triplet, pm.ParallelDegree)
		wg      sync.WaitGroup
	)
	for n := 0; n < pm.ParallelDegree; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var (
				kMin, kMax = pm.GetBucketRange(n)
				local      = make([]triplet, 0, (kMax-kMin)*np*np)
			)
			for k := kMin; k < kMax; k++ {
				for i := 0; i < np; i++ {
					gi := sp.GDOF[k*np+i]
					for j := 0; j <= i; j++ {
						var sum float64
						for q := 0; q < Nq; q++ {
							sum += el.Cub.W.DataP[q] * sp.CubJ.DataP[q*msh.K+k] *
								phi[q*np+i] * phi[q*np+j]
						}
						gj := sp.GDOF[k*np+j]
						local = append(local, triplet{gi, gj, sum})
						if i != j {
							local = append(local, triplet{gj, gi, sum})
						}
					}
				}
			}
			buckets[n] = local
		}(n)
	}
	wg.Wait()
	dok := utils.NewDOK(sp.Ndof, sp.Ndof)
	for _, local := range buckets {
		for _, t := range local {
			dok.Accumulate(t.i, t.j, t.v)
		}
	}
	sp.M = dok.ToCSR()
	sp.M.SetReadOnly("MassMatrix")
}

/*
Lift solves M x = b with preconditioned conjugate gradients, carrying a distributional
functional into the space as a nodal field
*/
func (sp *LagrangeSpace) Lift(b []float64) (x []float64, err error) {
	sp.Solver = &utils.CG{}
	if x, err = sp.Solver.Solve(sp.M, b); err != nil {
		err = fmt.Errorf("mass solve failed: %w", err)
	}
	return
}

// Integrate computes the surface integral of a nodal dof field, x' M 1
func (sp *LagrangeSpace) Integrate(x []float64) (total float64) {
	var (
		ones = make([]float64, sp.Ndof)
		y    = make([]float64, sp.Ndof)
	)
	for i := range ones {
		ones[i] = 1
	}
	sp.M.MulVec(ones, y)
	for i, v := range x {
		total += v * y[i]
	}
	return
}

// InterpFromGeometry carries a geometry-nodal field to the space nodes of every element
func (sp *LagrangeSpace) InterpFromGeometry(fld utils.Matrix) utils.Matrix {
	return sp.GeoInterp.Mul(fld)
}

// NodalValues scatters a dof vector to the element-nodal layout Np x K
func (sp *LagrangeSpace) NodalValues(x []float64) (fld utils.Matrix) {
	fld = utils.NewMatrix(sp.Np, sp.Msh.K)
	for k := 0; k < sp.Msh.K; k++ {
		for n := 0; n < sp.Np; n++ {
			fld.Set(n, k, x[sp.GDOF[k*sp.Np+n]])
		}
	}
	return
}

// Project collocates an ambient function at the space dof coordinates
func (sp *LagrangeSpace) Project(f func(x, y, z float64) float64) (x []float64) {
	x = make([]float64, sp.Ndof)
	for i := range x {
		x[i] = f(sp.DofX[i], sp.DofY[i], sp.DofZ[i])
	}
	return
}

/*
A Functional is a distributional source with a smooth element density, an element
boundary density and vertex point masses, the shape shared by the generalized curvature
measures: test against u gives

	Σ_T ∫_T dens u + Σ_T ∫_∂T edge u + Σ_V mass_V u(V)

Element returns the density at the volume cubature points of element k. Face returns the
edge integrand at the face quadrature points of face f of element k, premultiplied by the
traversal speed so it is integrated against the bare face quadrature weights. Vertex
returns the point mass at a premesh vertex. Any of the three may be nil, as may the
slice returned for an element or face with no contribution
*/
type Functional struct {
	Element func(k int) []float64
	Face    func(k, f int) []float64
	Vertex  func(v int) float64
}

/*
Assemble tests the functional against the space basis, returning the load vector b with
b_i = functional applied to the i-th nodal basis function
*/
func (sp *LagrangeSpace) Assemble(fn *Functional) (b []float64) {
	var (
		el      = sp.El
		msh     = sp.Msh
		np      = sp.Np
		phi     = el.Cub.V.DataP      // Nq x Np
		fphi    = el.FaceInterp.DataP // NGauss x Nfp
		nGauss  = el.GaussR.Len()
		pm      = utils.NewPartitionMap(runtime.NumCPU(), msh.K)
		buckets = make([][]float64, pm.ParallelDegree)
		wg      sync.WaitGroup
	)
	for n := 0; n < pm.ParallelDegree; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var (
				kMin, kMax = pm.GetBucketRange(n)
				local      = make([]float64, sp.Ndof)
			)
			for k := kMin; k < kMax; k++ {
				if fn.Element != nil {
					if dens := fn.Element(k); dens != nil {
						for i := 0; i < np; i++ {
							var sum float64
							for q := 0; q < el.Cub.Nq; q++ {
								sum += el.Cub.W.DataP[q] * sp.CubJ.DataP[q*msh.K+k] *
									dens[q] * phi[q*np+i]
							}
							local[sp.GDOF[k*np+i]] += sum
						}
					}
				}
				if fn.Face != nil {
					for f := 0; f < 3; f++ {
						edge := fn.Face(k, f)
						if edge == nil {
							continue
						}
						for i, node := range el.FMask[f] {
							var sum float64
							for q := 0; q < nGauss; q++ {
								sum += el.GaussW.DataP[q] * edge[q] * fphi[q*el.Nfp+i]
							}
							local[sp.GDOF[k*np+node]] += sum
						}
					}
				}
			}
			buckets[n] = local
		}(n)
	}
	wg.Wait()
	b = make([]float64, sp.Ndof)
	for _, local := range buckets {
		for i, v := range local {
			b[i] += v
		}
	}
	if fn.Vertex != nil {
		for v := 0; v < msh.Nv; v++ {
			b[v] += fn.Vertex(v)
		}
	}
	return
}

// Total is the action of an assembled functional on the constant 1, by partition of unity
func Total(b []float64) (sum float64) {
	for _, v := range b {
		sum += v
	}
	return
}
