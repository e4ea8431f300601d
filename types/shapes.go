package types

import "strings"

type SHAPE uint8

const (
	SH_None SHAPE = iota
	SH_Sphere
	SH_Ellipsoid
	SH_Cylinder
	SH_Box
	SH_Torus
	SH_Hemisphere
	SH_Parametric
	SH_File
)

var shapeNames = map[SHAPE]string{
	SH_None:       "none",
	SH_Sphere:     "sphere",
	SH_Ellipsoid:  "ellipsoid",
	SH_Cylinder:   "cylinder",
	SH_Box:        "box",
	SH_Torus:      "torus",
	SH_Hemisphere: "hemisphere",
	SH_Parametric: "parametric",
	SH_File:       "file",
}

func (s SHAPE) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

var ShapeNameMap = map[string]SHAPE{
	"sphere":     SH_Sphere,
	"ball":       SH_Sphere,
	"ellipsoid":  SH_Ellipsoid,
	"cylinder":   SH_Cylinder,
	"can":        SH_Cylinder,
	"box":        SH_Box,
	"cube":       SH_Box,
	"torus":      SH_Torus,
	"donut":      SH_Torus,
	"hemisphere": SH_Hemisphere,
	"dome":       SH_Hemisphere,
	"parametric": SH_Parametric,
	"graph":      SH_Parametric,
	"file":       SH_File,
	"mesh":       SH_File,
}

// ParseShapeName converts a shape name from a case file or the command line to a SHAPE
// The matching is case-insensitive and trims whitespace
func ParseShapeName(name string) SHAPE {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if shape, ok := ShapeNameMap[lowerName]; ok {
		return shape
	}
	return SH_None
}
