package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		high EdgeKey
	)
	high = ek >> 32
	verts[1] = int(high)
	verts[0] = int(ek - high*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
An EdgeInt stores the edge vertices in the original order of the vertices, so that the edge can be recovered
together with its direction. The sign of the packed value records whether the vertex order was ascending.
*/
type EdgeInt int64

func NewEdgeInt(verts [2]int) (packed EdgeInt) {
	var (
		limit = math.MaxUint32 >> 1 // leaves room for the sign bit of an int64
		sign  bool
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		sign = true
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeInt(i1 + i2<<32)
	if sign {
		packed = -packed
	}
	return
}

func (e EdgeInt) GetVertices() (verts [2]int) {
	var (
		high EdgeInt
		sign bool
	)
	if e < 0 {
		sign = true
		e = -e
	}
	high = e >> 32
	verts[1] = int(high)
	verts[0] = int(e - high*(1<<32))
	if sign {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// Reverse returns the same edge traversed in the opposite direction
func (e EdgeInt) Reverse() EdgeInt {
	verts := e.GetVertices()
	return NewEdgeInt([2]int{verts[1], verts[0]})
}

func (e EdgeInt) GetKey() (ek EdgeKey) {
	ek = NewEdgeKey(e.GetVertices())
	return
}

type vertEdgeBucket struct {
	numberOfEdges int
	edgeIndex     [2]int
}

type bucketMap map[int]*vertEdgeBucket

func (bm bucketMap) addEdge(index int, e EdgeInt) (err error) {
	var (
		b  *vertEdgeBucket
		ok bool
	)
	verts := e.GetVertices()
	for i := 0; i < 2; i++ {
		if b, ok = bm[verts[i]]; !ok {
			bm[verts[i]] = &vertEdgeBucket{}
			b = bm[verts[i]]
		}
		if b.numberOfEdges == 2 {
			err = fmt.Errorf("vertex %d belongs to more than two segments", verts[i])
			return
		}
		b.edgeIndex[b.numberOfEdges] = index
		b.numberOfEdges++
	}
	return
}

/*
A Curve is a chain of directed line segments, used for feature lines like the rim joining a cylinder cap to
the cylinder side. Segments can be accumulated in any order, then connected with ReOrder before walking
*/
type Curve []EdgeInt

/*
ReOrder connects a curve's line segments head to tail in place, flipping segment directions where needed, and
reports whether the connected chain closes on itself. An open chain starts at its lowest numbered endpoint.

Optionally, reverses the order relative to the default ordering obtained from the endpoints or the first edge
*/
func (c Curve) ReOrder(reverse bool) (closed bool, err error) {
	var (
		l = len(c)
	)
	if l == 0 {
		return
	}
	vb := make(bucketMap, l)
	for i, e := range c {
		if err = vb.addEdge(i, e); err != nil {
			return
		}
	}
	var ends []int
	for v, b := range vb {
		if b.numberOfEdges == 1 {
			ends = append(ends, v)
		}
	}
	switch len(ends) {
	case 0:
		closed = true
	case 2:
	default:
		err = fmt.Errorf("segments do not form a single chain, found %d endpoints", len(ends))
		return
	}
	start := c[0].GetVertices()[0]
	if !closed {
		sort.Ints(ends)
		start = ends[0]
	}
	var (
		ordered = make(Curve, 0, l)
		used    = make([]bool, l)
		cur     = start
	)
	for range c {
		var (
			b    = vb[cur]
			next = -1
		)
		for i := 0; i < b.numberOfEdges; i++ {
			if !used[b.edgeIndex[i]] {
				next = b.edgeIndex[i]
				break
			}
		}
		if next < 0 {
			err = fmt.Errorf("segments do not form a single chain, connected %d of %d", len(ordered), l)
			return
		}
		used[next] = true
		e := c[next]
		verts := e.GetVertices()
		if verts[0] != cur {
			e = e.Reverse()
			verts[0], verts[1] = verts[1], verts[0]
		}
		ordered = append(ordered, e)
		cur = verts[1]
	}
	if reverse {
		for i, j := 0, l-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
		for i := range ordered {
			ordered[i] = ordered[i].Reverse()
		}
	}
	copy(c, ordered)
	return
}

/*
Vertices returns the vertex chain of a connected curve, one more vertex than segments. On a closed loop the
first and last vertices coincide
*/
func (c Curve) Vertices() (verts []int) {
	if len(c) == 0 {
		return
	}
	verts = make([]int, 0, len(c)+1)
	verts = append(verts, c[0].GetVertices()[0])
	for _, e := range c {
		verts = append(verts, e.GetVertices()[1])
	}
	return
}
