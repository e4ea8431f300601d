package readfiles

import (
	"bufio"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/surface"
	"github.com/stretchr/testify/assert"
)

func TestGambitSurface(t *testing.T) {
	{ // Round trip a box, its patch and crease topology included
		pm := geometry.NewBox(1, 1, 1, 0.6)
		fname := filepath.Join(t.TempDir(), "box.neu")
		assert.NoError(t, WriteGambitSurface(fname, pm, "box roundtrip"))
		rd, err := ReadGambitSurface(fname, false)
		assert.NoError(t, err)
		assert.Equal(t, pm.Nv, rd.Nv)
		assert.Equal(t, pm.K, rd.K)
		assert.Equal(t, len(pm.Patches), len(rd.Patches))
		assert.Equal(t, len(pm.Curves), len(rd.Curves))
		for k := 0; k < pm.K; k++ {
			assert.Equal(t, pm.Tri(k), rd.Tri(k))
			assert.Equal(t, pm.PatchID[k], rd.PatchID[k])
		}
		for i := range pm.Curves {
			assert.Equal(t, pm.Curves[i].Tag, rd.Curves[i].Tag)
			assert.Equal(t, len(pm.Curves[i].Edges), len(rd.Curves[i].Edges))
			for j := range pm.Curves[i].Edges {
				assert.Equal(t, pm.Curves[i].Edges[j], rd.Curves[i].Edges[j])
			}
		}
		for i := 0; i < pm.Nv; i++ {
			assert.InDelta(t, pm.VX.DataP[i], rd.VX.DataP[i], 1.e-10)
			assert.InDelta(t, pm.VY.DataP[i], rd.VY.DataP[i], 1.e-10)
			assert.InDelta(t, pm.VZ.DataP[i], rd.VZ.DataP[i], 1.e-10)
		}
		// the read-back mesh is faceted but still closed and consistently oriented
		msh, err := surface.NewMesh(rd, 1)
		assert.NoError(t, err)
		assert.Equal(t, 2, msh.Chi)
		assert.Equal(t, 0, msh.NBoundaryEdges)
		assert.InDelta(t, 6., msh.Area(), 1.e-10)
	}
	{ // A minimal hand-written file, a single triangle with one marked edge
		rd, err := readGambitSurface(bufio.NewScanner(strings.NewReader(oneTriFile)), false)
		assert.NoError(t, err)
		assert.Equal(t, 3, rd.Nv)
		assert.Equal(t, 1, rd.K)
		assert.Equal(t, [3]int{0, 1, 2}, rd.Tri(0))
		assert.Equal(t, "floor", string(rd.Patches[rd.PatchID[0]].Tag))
		assert.Equal(t, 1, len(rd.Curves))
		assert.Equal(t, "rim", string(rd.Curves[0].Tag))
		assert.Equal(t, [2]int{0, 1}, rd.Curves[0].Edges[0].GetVertices())
	}
	{ // Malformed inputs report what went wrong
		_, err := readGambitSurface(bufio.NewScanner(strings.NewReader("")), false)
		assert.Error(t, err)
		bad := strings.Replace(oneTriFile, " 1  3  3", " 1  6  4", 1)
		_, err = readGambitSurface(bufio.NewScanner(strings.NewReader(bad)), false)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "triangles")
	}
}

var oneTriFile = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
one triangle
PROGRAM:                Gambit     VERSION:  2.0.0
Jan 2026
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         3         1         1         1         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  3  3        1       2       3
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:          1 ELEMENTS:          1 MATERIAL:          0 NFLAGS:          1
                           floor
       0
       1
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                             rim       1       1       0       6
         1     3     1
ENDOFSECTION
`
