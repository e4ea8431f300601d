package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/notargets/gocurv/geometry"
)

/*
WriteGambitSurface writes the premesh as a Gambit neutral (.neu) file in the dialect
ReadGambitSurface reads: triangles with three coordinates per node, one element group
per patch and one boundary conditions section per feature curve. Exact projector
geometry cannot ride along, a written mesh reads back faceted
*/
func WriteGambitSurface(filename string, pm *geometry.Premesh, title string) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(filename); err != nil {
		return fmt.Errorf("unable to create file %s: %w", filename, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	defer w.Flush()

	fmt.Fprintf(w, "        CONTROL INFO 2.0.0\n")
	fmt.Fprintf(w, "** GAMBIT NEUTRAL FILE\n")
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "PROGRAM:                Gambit     VERSION:  2.0.0\n")
	fmt.Fprintf(w, "%s\n", time.Now().Format("Jan 2006"))
	fmt.Fprintf(w, "     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL\n")
	fmt.Fprintf(w, "%10d%10d%10d%10d%10d%10d\n", pm.Nv, pm.K, len(pm.Patches), len(pm.Curves), 3, 3)
	fmt.Fprintf(w, "ENDOFSECTION\n")

	fmt.Fprintf(w, "   NODAL COORDINATES 2.0.0\n")
	for i := 0; i < pm.Nv; i++ {
		fmt.Fprintf(w, "%10d%20.11e%20.11e%20.11e\n", i+1, pm.VX.DataP[i], pm.VY.DataP[i], pm.VZ.DataP[i])
	}
	fmt.Fprintf(w, "ENDOFSECTION\n")

	fmt.Fprintf(w, "      ELEMENTS/CELLS 2.0.0\n")
	for k := 0; k < pm.K; k++ {
		tri := pm.Tri(k)
		fmt.Fprintf(w, "%8d %2d %2d %8d%8d%8d\n", k+1, 3, 3, tri[0]+1, tri[1]+1, tri[2]+1)
	}
	fmt.Fprintf(w, "ENDOFSECTION\n")

	for g := range pm.Patches {
		var elems []int
		for k := 0; k < pm.K; k++ {
			if pm.PatchID[k] == g {
				elems = append(elems, k)
			}
		}
		fmt.Fprintf(w, "       ELEMENT GROUP 2.0.0\n")
		fmt.Fprintf(w, "GROUP:%11d ELEMENTS:%11d MATERIAL:%11d NFLAGS:%11d\n", g+1, len(elems), 0, 1)
		fmt.Fprintf(w, "%32s\n", pm.Patches[g].Tag)
		fmt.Fprintf(w, "%8d\n", 0)
		for i, e := range elems {
			fmt.Fprintf(w, "%8d", e+1)
			if (i+1)%10 == 0 || i == len(elems)-1 {
				fmt.Fprintf(w, "\n")
			}
		}
		fmt.Fprintf(w, "ENDOFSECTION\n")
	}

	if len(pm.Curves) != 0 {
		// each curve edge is directed by the traversal of one adjacent element, find it
		// so the curve reads back with the orientation it was written with
		faceOf := make(map[[2]int][2]int, 3*pm.K)
		for k := 0; k < pm.K; k++ {
			tri := pm.Tri(k)
			for f := 0; f < 3; f++ {
				faceOf[[2]int{tri[f], tri[(f+1)%3]}] = [2]int{k, f}
			}
		}
		for _, fc := range pm.Curves {
			fmt.Fprintf(w, " BOUNDARY CONDITIONS 2.0.0\n")
			fmt.Fprintf(w, "%32s%8d%8d%8d%8d\n", fc.Tag, 1, len(fc.Edges), 0, 6)
			for _, e := range fc.Edges {
				kf, ok := faceOf[e.GetVertices()]
				if !ok {
					return fmt.Errorf("curve edge %v does not traverse any element face", e.GetVertices())
				}
				fmt.Fprintf(w, "%10d %5d %5d\n", kf[0]+1, 3, kf[1]+1)
			}
			fmt.Fprintf(w, "ENDOFSECTION\n")
		}
	}
	return nil
}
