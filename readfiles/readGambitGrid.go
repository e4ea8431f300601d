package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/types"
)

/*
ReadGambitSurface reads a Gambit neutral (.neu) file holding a triangulated surface
embedded in R3: triangle elements (NTYPE 3) with three coordinates per node. Element
groups become the patches of the premesh, named by their group label, and each boundary
conditions section becomes a feature curve of element/face pairs, so a closed composite
shape like a capped cylinder round-trips with its crease topology intact.

File meshes carry no exact geometry, every patch and curve comes back with a nil
projector and the mesh stays faceted however high the curving order
*/
func ReadGambitSurface(filename string, verbose bool) (pm *geometry.Premesh, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	if verbose {
		fmt.Printf("Reading surface mesh file named: %s\n", filename)
	}
	return readGambitSurface(bufio.NewScanner(file), verbose)
}

type bcSet struct {
	name  string
	pairs [][2]int // element, face
}

func readGambitSurface(scanner *bufio.Scanner, verbose bool) (pm *geometry.Premesh, err error) {
	var (
		nv, k, ngrps, nbsets, nsd int
		vx, vy, vz                []float64
		tris                      [][3]int
		groupName                 []string
		groupElems                [][]int
		bcs                       []bcSet
	)
	// Problem size header
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			if !scanner.Scan() {
				return nil, fmt.Errorf("file ends before the problem size line")
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) < 5 {
				return nil, fmt.Errorf("malformed problem size line: %s", scanner.Text())
			}
			nv, _ = strconv.Atoi(fields[0])
			k, _ = strconv.Atoi(fields[1])
			ngrps, _ = strconv.Atoi(fields[2])
			nbsets, _ = strconv.Atoi(fields[3])
			nsd, _ = strconv.Atoi(fields[4])
			break
		}
	}
	if nv == 0 || k == 0 {
		return nil, fmt.Errorf("no problem size header found")
	}
	if nsd != 3 {
		return nil, fmt.Errorf("surface meshes need 3 coordinates per node, file has %d", nsd)
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.Contains(line, "NODAL COORDINATES"):
			if vx, vy, vz, err = readVertexSection(scanner, nv); err != nil {
				return nil, err
			}
		case strings.Contains(line, "ELEMENTS/CELLS"):
			if tris, err = readTriSection(scanner, k); err != nil {
				return nil, err
			}
		case strings.Contains(line, "ELEMENT GROUP"):
			name, elems, gerr := readGroupSection(scanner, k)
			if gerr != nil {
				return nil, gerr
			}
			groupName = append(groupName, name)
			groupElems = append(groupElems, elems)
		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			bc, berr := readBCSection(scanner, k)
			if berr != nil {
				return nil, berr
			}
			bcs = append(bcs, bc)
		}
	}
	if vx == nil {
		return nil, fmt.Errorf("no nodal coordinates section found")
	}
	if tris == nil {
		return nil, fmt.Errorf("no elements section found")
	}
	if len(groupName) != ngrps && verbose {
		fmt.Printf("expected %d element groups, found %d\n", ngrps, len(groupName))
	}
	if len(bcs) != nbsets && verbose {
		fmt.Printf("expected %d boundary conditions sections, found %d\n", nbsets, len(bcs))
	}

	pm = geometry.NewPremesh(nv, k)
	copy(pm.VX.DataP, vx)
	copy(pm.VY.DataP, vy)
	copy(pm.VZ.DataP, vz)
	for i, tri := range tris {
		pm.SetTri(i, tri)
	}
	if len(groupName) == 0 {
		pm.Patches = []geometry.Patch{{Tag: types.NewTag("surface")}}
	}
	for g := range groupName {
		pm.Patches = append(pm.Patches, geometry.Patch{Tag: types.NewTag(groupName[g])})
		for _, e := range groupElems[g] {
			pm.PatchID[e] = g
		}
	}
	for _, bc := range bcs {
		edges := make(types.Curve, 0, len(bc.pairs))
		for _, pair := range bc.pairs {
			e, f := pair[0], pair[1]
			tri := pm.Tri(e)
			edges = append(edges, types.NewEdgeInt([2]int{tri[f], tri[(f+1)%3]}))
		}
		pm.AttachCurve(types.NewTag(bc.name), nil, edges)
	}
	if verbose {
		fmt.Printf("Read %d vertices, %d triangles, %d patches, %d feature curves\n",
			nv, k, len(pm.Patches), len(pm.Curves))
	}
	return pm, nil
}

func readVertexSection(scanner *bufio.Scanner, nv int) (vx, vy, vz []float64, err error) {
	vx, vy, vz = make([]float64, nv), make([]float64, nv), make([]float64, nv)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "ENDOFSECTION") {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, nil, fmt.Errorf("vertex line has %d fields, need 4: %s", len(fields), line)
		}
		id, _ := strconv.Atoi(fields[0])
		if id < 1 || id > nv {
			return nil, nil, nil, fmt.Errorf("vertex id %d outside 1..%d", id, nv)
		}
		vx[id-1], _ = strconv.ParseFloat(fields[1], 64)
		vy[id-1], _ = strconv.ParseFloat(fields[2], 64)
		vz[id-1], _ = strconv.ParseFloat(fields[3], 64)
		count++
	}
	if count != nv {
		return nil, nil, nil, fmt.Errorf("read %d vertices, header promised %d", count, nv)
	}
	return
}

func readTriSection(scanner *bufio.Scanner, k int) (tris [][3]int, err error) {
	tris = make([][3]int, k)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "ENDOFSECTION") {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, fmt.Errorf("element line has %d fields, need 6: %s", len(fields), line)
		}
		id, _ := strconv.Atoi(fields[0])
		ntype, _ := strconv.Atoi(fields[1])
		if ntype != 3 {
			return nil, fmt.Errorf("element %d has type %d, only triangles (type 3) are supported", id, ntype)
		}
		if id < 1 || id > k {
			return nil, fmt.Errorf("element id %d outside 1..%d", id, k)
		}
		for j := 0; j < 3; j++ {
			v, _ := strconv.Atoi(fields[3+j])
			tris[id-1][j] = v - 1
		}
		count++
	}
	if count != k {
		return nil, fmt.Errorf("read %d elements, header promised %d", count, k)
	}
	return
}

func readGroupSection(scanner *bufio.Scanner, k int) (name string, elems []int, err error) {
	var nelems int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "ENDOFSECTION") {
			break
		}
		fields := strings.Fields(line)
		switch {
		case strings.HasPrefix(line, "GROUP:"):
			if len(fields) < 4 {
				return "", nil, fmt.Errorf("malformed group header: %s", line)
			}
			nelems, _ = strconv.Atoi(fields[3])
		case len(name) == 0 && len(fields) == 1 && !isNumeric(fields[0]):
			name = fields[0]
		default:
			for _, field := range fields {
				e, aerr := strconv.Atoi(field)
				if aerr != nil || e == 0 {
					continue // the flags line
				}
				if e < 1 || e > k {
					return "", nil, fmt.Errorf("group %s references element %d outside 1..%d", name, e, k)
				}
				elems = append(elems, e-1)
			}
		}
	}
	if len(name) == 0 {
		return "", nil, fmt.Errorf("element group carries no name")
	}
	if len(elems) != nelems {
		return "", nil, fmt.Errorf("group %s lists %d elements, header promised %d", name, len(elems), nelems)
	}
	return
}

func readBCSection(scanner *bufio.Scanner, k int) (bc bcSet, err error) {
	var (
		nentry    int
		gotHeader bool
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "ENDOFSECTION") {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !gotHeader {
			if len(fields) < 3 {
				return bc, fmt.Errorf("malformed boundary conditions header: %s", line)
			}
			bc.name = fields[0]
			nentry, _ = strconv.Atoi(fields[2])
			gotHeader = true
			continue
		}
		if len(fields) < 3 {
			return bc, fmt.Errorf("boundary conditions line has %d fields, need 3: %s", len(fields), line)
		}
		e, _ := strconv.Atoi(fields[0])
		f, _ := strconv.Atoi(fields[2])
		if e < 1 || e > k {
			return bc, fmt.Errorf("curve %s references element %d outside 1..%d", bc.name, e, k)
		}
		if f < 1 || f > 3 {
			return bc, fmt.Errorf("curve %s references face %d outside 1..3", bc.name, f)
		}
		bc.pairs = append(bc.pairs, [2]int{e - 1, f - 1})
	}
	if !gotHeader {
		return bc, fmt.Errorf("boundary conditions section carries no header")
	}
	if len(bc.pairs) != nentry {
		return bc, fmt.Errorf("curve %s lists %d edges, header promised %d", bc.name, len(bc.pairs), nentry)
	}
	return
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
