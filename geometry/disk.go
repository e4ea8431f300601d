package geometry

import (
	"math"

	"github.com/pradeep-pyro/triangle"
)

/*
DiskPoints generates concentric rings of points covering the disk of the given radius, the
outer ring exactly at the supplied boundary coordinates so a cap triangulated from these
points welds bit-exactly onto a matching side grid. The outer ring comes first, then the
interior rings and finally the center
*/
func DiskPoints(ringX, ringY []float64, radius, h float64) (pts [][2]float64) {
	var (
		nphi = len(ringX)
		nr   = divisions(radius, h, 1)
	)
	pts = make([][2]float64, 0, nphi*nr/2+1)
	for i := 0; i < nphi; i++ {
		pts = append(pts, [2]float64{ringX[i], ringY[i]})
	}
	for m := nr - 1; m >= 1; m-- {
		var (
			r = radius * float64(m) / float64(nr)
			n = int(math.Round(float64(nphi) * float64(m) / float64(nr)))
		)
		if n < 6 {
			n = 6
		}
		// stagger alternate rings
		var off float64
		if (nr-m)%2 == 1 {
			off = math.Pi / float64(n)
		}
		for i := 0; i < n; i++ {
			ang := 2*math.Pi*float64(i)/float64(n) + off
			pts = append(pts, [2]float64{r * math.Cos(ang), r * math.Sin(ang)})
		}
	}
	pts = append(pts, [2]float64{0, 0})
	return
}

// TriangulateDisk builds the Delaunay triangulation of a disk point set and returns
// counterclockwise oriented triangles
func TriangulateDisk(pts [][2]float64) (tris [][3]int) {
	faces := triangle.Delaunay(pts)
	tris = make([][3]int, 0, len(faces))
	for _, f := range faces {
		t := [3]int{int(f[0]), int(f[1]), int(f[2])}
		if triArea2(pts[t[0]], pts[t[1]], pts[t[2]]) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		tris = append(tris, t)
	}
	return
}

// triArea2 is twice the signed area of a plane triangle, positive for counterclockwise
func triArea2(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func divisions(length, h float64, min int) (n int) {
	n = int(math.Round(length / h))
	if n < min {
		n = min
	}
	return
}

func ringCoordinates(radius float64, nphi int) (x, y []float64) {
	x, y = make([]float64, nphi), make([]float64, nphi)
	for i := 0; i < nphi; i++ {
		ang := 2 * math.Pi * float64(i) / float64(nphi)
		x[i], y[i] = radius*math.Cos(ang), radius*math.Sin(ang)
	}
	return
}
