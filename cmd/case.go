/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/notargets/gocurv/InputParameters"
	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/readfiles"
	"github.com/notargets/gocurv/types"
	"github.com/spf13/cobra"
)

// addCaseFlags registers the flags every analysis command shares: a YAML case
// file plus direct flags filling whatever the file leaves unset
func addCaseFlags(c *cobra.Command) {
	c.Flags().StringP("caseFile", "F", "", "YAML case file, like:\n\t- Shape\n\t- EdgeLength\n\t- GeometricOrder")
	c.Flags().String("shape", "", "shape to mesh: sphere, ellipsoid, cylinder, box, torus, hemisphere, file")
	c.Flags().String("meshFile", "", "Gambit .neu surface mesh, read when shape is \"file\"")
	c.Flags().Float64P("radius", "r", 1, "radius of the sphere, hemisphere, cylinder or torus centerline")
	c.Flags().Float64("minorRadius", 0.25, "tube radius of the torus")
	c.Flags().Float64("height", 2, "height of the cylinder")
	c.Flags().Float64("h", 0.3, "target edge length of the triangulation")
	c.Flags().IntP("order", "n", 3, "polynomial order of the curved element geometry")
	c.Flags().IntP("porder", "p", 2, "polynomial order of the Lagrange lift space")
}

func processCase(cmd *cobra.Command) (cp *InputParameters.CaseParameters) {
	var (
		err error
	)
	cp = &InputParameters.CaseParameters{}
	caseFile, err := cmd.Flags().GetString("caseFile")
	if err != nil {
		panic(err)
	}
	if len(caseFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(caseFile); err != nil {
			fmt.Printf("error: unable to read case file: %s\n", err.Error())
			exampleFile := `
########################################
Title: "Capped Cylinder"
Shape: cylinder
Radius: 1.
Height: 2.
EdgeLength: 0.25
GeometricOrder: 3
PolynomialOrder: 2
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if err = cp.Parse(data); err != nil {
			panic(err)
		}
	}
	// flags fill whatever the case file left unset
	if len(cp.Shape) == 0 {
		cp.Shape, _ = cmd.Flags().GetString("shape")
	}
	if len(cp.MeshFile) == 0 {
		cp.MeshFile, _ = cmd.Flags().GetString("meshFile")
	}
	if cp.Radius == 0 {
		cp.Radius, _ = cmd.Flags().GetFloat64("radius")
	}
	if cp.MinorRadius == 0 {
		cp.MinorRadius, _ = cmd.Flags().GetFloat64("minorRadius")
	}
	if cp.Height == 0 {
		cp.Height, _ = cmd.Flags().GetFloat64("height")
	}
	if cp.EdgeLength == 0 {
		cp.EdgeLength, _ = cmd.Flags().GetFloat64("h")
	}
	if cp.GeometricOrder == 0 {
		cp.GeometricOrder, _ = cmd.Flags().GetInt("order")
	}
	if cp.PolynomialOrder == 0 {
		cp.PolynomialOrder, _ = cmd.Flags().GetInt("porder")
	}
	if len(cp.Title) == 0 {
		cp.Title = cp.Shape
	}
	return
}

func buildPremesh(cp *InputParameters.CaseParameters) (pm *geometry.Premesh, err error) {
	h := cp.EdgeLength
	switch types.ParseShapeName(cp.Shape) {
	case types.SH_Sphere:
		pm = geometry.NewSphere(cp.Radius, h)
	case types.SH_Ellipsoid:
		a := InputParameters.Axis(cp.SemiAxes, "a", 1.5)
		b := InputParameters.Axis(cp.SemiAxes, "b", 1)
		c := InputParameters.Axis(cp.SemiAxes, "c", 0.75)
		pm = geometry.NewEllipsoid(a, b, c, h)
	case types.SH_Cylinder:
		pm = geometry.NewCylinder(cp.Radius, cp.Height, h)
	case types.SH_Box:
		lx := InputParameters.Axis(cp.Sides, "x", 1)
		ly := InputParameters.Axis(cp.Sides, "y", 1)
		lz := InputParameters.Axis(cp.Sides, "z", 1)
		pm = geometry.NewBox(lx, ly, lz, h)
	case types.SH_Torus:
		pm = geometry.NewTorus(cp.Radius, cp.MinorRadius, h)
	case types.SH_Hemisphere:
		pm = geometry.NewHemisphere(cp.Radius, h)
	case types.SH_File:
		pm, err = readfiles.ReadGambitSurface(cp.MeshFile, true)
	case types.SH_Parametric:
		err = fmt.Errorf("parametric charts are built in code against a ParamMap, not from the command line")
	default:
		err = fmt.Errorf("unknown shape %q", cp.Shape)
	}
	return
}
