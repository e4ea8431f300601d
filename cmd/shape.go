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
	"math"
	"os"

	"github.com/notargets/gocurv/InputParameters"
	"github.com/notargets/gocurv/curvature"
	"github.com/notargets/gocurv/readfiles"
	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
	"github.com/spf13/cobra"
)

// shapeCmd represents the shape command
var shapeCmd = &cobra.Command{
	Use:   "shape",
	Short: "Pointwise extrinsic curvature of a shape, reported against closed form values",
	Long: `
Meshes a shape, curves the elements against the exact geometry, differentiates
the outward normal into the Weingarten map and reports the Gauss, mean and
principal curvature fields with their closed form errors,

gocurv shape --shape sphere --radius 2 -n 4`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processCase(cmd)
		cp.Print()
		msh, err := meshCase(cp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		ex := curvature.NewExtrinsic(msh)
		reportField(msh, "K ", ex.K)
		reportField(msh, "H ", ex.H)
		reportField(msh, "k1", ex.K1)
		reportField(msh, "k2", ex.K2)
		reportAnalytic(cp, msh, ex)
		if neuFile, _ := cmd.Flags().GetString("writeNeu"); len(neuFile) != 0 {
			if err = readfiles.WriteGambitSurface(neuFile, msh.Pre, cp.Title); err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			fmt.Printf("Wrote %s\n", neuFile)
		}
		if plot, _ := cmd.Flags().GetBool("plot"); plot {
			delay, _ := cmd.Flags().GetInt("delay")
			plotField(msh, ex.K, delay)
		}
	},
}

func init() {
	rootCmd.AddCommand(shapeCmd)
	addCaseFlags(shapeCmd)
	shapeCmd.Flags().String("writeNeu", "", "write the triangulation to a Gambit .neu surface mesh file")
	shapeCmd.Flags().BoolP("plot", "g", false, "display the Gauss curvature field on the avs chart server")
	shapeCmd.Flags().IntP("delay", "d", 30000, "milliseconds to keep the plot on screen")
}

func meshCase(cp *InputParameters.CaseParameters) (msh *surface.Mesh, err error) {
	pm, err := buildPremesh(cp)
	if err != nil {
		return nil, err
	}
	if msh, err = surface.NewMesh(pm, cp.GeometricOrder); err != nil {
		return nil, err
	}
	fmt.Printf("Meshed %s: %d triangles, %d vertices, %d edges, Euler characteristic %d, area %.8f\n",
		cp.Shape, msh.K, msh.Nv, msh.NEdges, msh.Chi, msh.Area())
	return
}

func reportField(msh *surface.Mesh, name string, fld utils.Matrix) {
	var (
		data     = fld.DataP
		min, max = data[0], data[0]
	)
	for _, v := range data {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	avg := msh.Integrate(fld) / msh.Area()
	fmt.Printf("%s: min %12.6f  max %12.6f  area average %12.6f\n", name, min, max, avg)
}

func reportAnalytic(cp *InputParameters.CaseParameters, msh *surface.Mesh, ex *curvature.Extrinsic) {
	switch types.ParseShapeName(cp.Shape) {
	case types.SH_Sphere, types.SH_Hemisphere:
		gauss, mean := curvature.SphereCurvatures(cp.Radius)
		fmt.Printf("max |K - %.6f| = %.3e, max |H - %.6f| = %.3e\n",
			gauss, maxErrConst(ex.K, gauss), mean, maxErrConst(ex.H, mean))
	case types.SH_Cylinder:
		k1, k2 := curvature.CylinderPrincipal(cp.Radius)
		errK1, errK2 := maxErrPatch(msh, ex.K1, k1, "side"), maxErrPatch(msh, ex.K2, k2, "side")
		fmt.Printf("side patch: max |k1 - %.6f| = %.3e, max |k2 - %.6f| = %.3e\n", k1, errK1, k2, errK2)
	case types.SH_Torus:
		fmt.Printf("max |K - K(x)| = %.3e\n", maxErrFunc(msh, ex.K, curvature.TorusGauss(cp.Radius, cp.MinorRadius)))
		fmt.Printf("max |H - H(x)| = %.3e\n", maxErrFunc(msh, ex.H, curvature.TorusMean(cp.Radius, cp.MinorRadius)))
	case types.SH_Ellipsoid:
		a := InputParameters.Axis(cp.SemiAxes, "a", 1.5)
		b := InputParameters.Axis(cp.SemiAxes, "b", 1)
		c := InputParameters.Axis(cp.SemiAxes, "c", 0.75)
		fmt.Printf("max |K - K(x)| = %.3e\n", maxErrFunc(msh, ex.K, curvature.EllipsoidGauss(a, b, c)))
	case types.SH_Box:
		fmt.Printf("planar patches: max |K| = %.3e, max |H| = %.3e\n",
			maxErrConst(ex.K, 0), maxErrConst(ex.H, 0))
	}
}

func maxErrConst(fld utils.Matrix, exact float64) (maxErr float64) {
	for _, v := range fld.DataP {
		maxErr = math.Max(maxErr, math.Abs(v-exact))
	}
	return
}

func maxErrFunc(msh *surface.Mesh, fld utils.Matrix, exact func(x, y, z float64) float64) (maxErr float64) {
	for i, v := range fld.DataP {
		maxErr = math.Max(maxErr, math.Abs(v-exact(msh.X.DataP[i], msh.Y.DataP[i], msh.Z.DataP[i])))
	}
	return
}

func maxErrPatch(msh *surface.Mesh, fld utils.Matrix, exact float64, patchBase string) (maxErr float64) {
	var (
		np, _ = fld.Dims()
		pre   = msh.Pre
	)
	for k := 0; k < msh.K; k++ {
		if pre.Patches[pre.PatchID[k]].Tag.GetBase() != patchBase {
			continue
		}
		for i := 0; i < np; i++ {
			maxErr = math.Max(maxErr, math.Abs(fld.At(i, k)-exact))
		}
	}
	return
}

// plotField projects the surface onto the xy plane and sends the field to the
// avs chart server, one value per mesh vertex
func plotField(msh *surface.Mesh, fld utils.Matrix, delayMillis int) {
	var (
		pre         = msh.Pre
		attributes  = utils.NewMatrix(msh.K, 3)
		vertexField = make([]float32, pre.Nv)
		fmin, fmax  = fld.DataP[0], fld.DataP[0]
	)
	for k := 0; k < msh.K; k++ {
		for c := 0; c < 3; c++ {
			v := fld.At(msh.El.VMask[c], k)
			attributes.Set(k, c, v)
			vertexField[int(pre.EToV.At(k, c))] = float32(v)
		}
	}
	for _, v := range fld.DataP {
		fmin = math.Min(fmin, v)
		fmax = math.Max(fmax, v)
	}
	if fmax-fmin < 1.e-10 {
		fmax = fmin + 1
	}
	gm := utils.BuildTriMesh(pre.VX, pre.VY, pre.EToV, attributes)
	fp := utils.NewFieldPlot(1280, 1024, &gm)
	fp.AddColorMap(fmin, fmax)
	fp.AddFunctionSurface(vertexField)
	fp.AddMesh(utils.GetColor(utils.White))
	fmt.Printf("plot server up for %d ms\n", delayMillis)
	utils.SleepFor(delayMillis)
}
