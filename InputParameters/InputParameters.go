package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title           string             `yaml:"Title"`
	Shape           string             `yaml:"Shape"`
	MeshFile        string             `yaml:"MeshFile"` // Gambit .neu surface mesh, used when Shape is "file"
	Radius          float64            `yaml:"Radius"`
	MinorRadius     float64            `yaml:"MinorRadius"` // tube radius of the torus
	Height          float64            `yaml:"Height"`
	SemiAxes        map[string]float64 `yaml:"SemiAxes"` // ellipsoid semi-axes, keys a, b, c
	Sides           map[string]float64 `yaml:"Sides"`    // box side lengths, keys x, y, z
	EdgeLength      float64            `yaml:"EdgeLength"`
	GeometricOrder  int                `yaml:"GeometricOrder"`  // order of the curved element geometry
	PolynomialOrder int                `yaml:"PolynomialOrder"` // order of the Lagrange lift space
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t\t= Shape\n", cp.Shape)
	if len(cp.MeshFile) != 0 {
		fmt.Printf("[%s]\t= Mesh File\n", cp.MeshFile)
	}
	fmt.Printf("%8.5f\t\t= Radius\n", cp.Radius)
	if cp.MinorRadius != 0 {
		fmt.Printf("%8.5f\t\t= Minor Radius\n", cp.MinorRadius)
	}
	if cp.Height != 0 {
		fmt.Printf("%8.5f\t\t= Height\n", cp.Height)
	}
	printAxisMap("SemiAxes", cp.SemiAxes)
	printAxisMap("Sides", cp.Sides)
	fmt.Printf("%8.5f\t\t= Edge Length\n", cp.EdgeLength)
	fmt.Printf("[%d]\t\t\t\t= Geometric Order\n", cp.GeometricOrder)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", cp.PolynomialOrder)
}

func printAxisMap(name string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, len(m))
	i := 0
	for k := range m {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s[%s] = %v\n", name, key, m[key])
	}
}

// Axis reads a named entry of an axis map, falling back to def when the map or the
// key is absent
func Axis(m map[string]float64, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != 0 {
		return v
	}
	return def
}
