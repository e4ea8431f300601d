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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/notargets/gocurv/InputParameters"
	"github.com/notargets/gocurv/curvature"
	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/types"
	"github.com/notargets/gocurv/utils"
	"github.com/spf13/cobra"
)

// convergenceCmd represents the convergence command
var convergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Sweep edge length or geometric order and report convergence of a curvature property",
	Long: `
Runs a curvature property over a refinement sweep, halving the target edge
length or raising the geometric order level by level, and prints the measured
errors with their fitted convergence orders. Results can append to a CSV file
for the convOrder tool,

gocurv convergence --property gauss --shape sphere --levels 3`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processCase(cmd)
		if len(cp.Shape) == 0 {
			cp.Shape = "sphere"
		}
		property, _ := cmd.Flags().GetString("property")
		sweep, _ := cmd.Flags().GetString("sweep")
		levels, _ := cmd.Flags().GetInt("levels")
		csvFile, _ := cmd.Flags().GetString("csvFile")
		cp.Print()
		fmt.Printf("sweeping %s over %d levels of %s\n", property, levels, sweep)

		var points []convergencePoint
		for level := 0; level < levels; level++ {
			lp := *cp
			switch sweep {
			case "order":
				lp.GeometricOrder = cp.GeometricOrder + level
			default:
				lp.EdgeLength = cp.EdgeLength / math.Pow(2, float64(level))
			}
			pt, err := runLevel(&lp, property)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			points = append(points, pt)
		}
		printSweep(points, sweep)
		if len(csvFile) != 0 {
			if err := appendCSV(csvFile, cp, property, points); err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			fmt.Printf("Appended %d records to %s\n", len(points), csvFile)
		}
		if plot, _ := cmd.Flags().GetBool("plot"); plot {
			plotSweep(points, property)
		}
	},
}

func init() {
	rootCmd.AddCommand(convergenceCmd)
	addCaseFlags(convergenceCmd)
	convergenceCmd.Flags().String("property", "gauss", "property to sweep: gauss, gaussbonnet, weingarten")
	convergenceCmd.Flags().String("sweep", "h", "what to refine: h halves the edge length, order raises the geometric order")
	convergenceCmd.Flags().IntP("levels", "l", 3, "number of refinement levels")
	convergenceCmd.Flags().String("csvFile", "", "append results to a CSV file for the convOrder tool")
	convergenceCmd.Flags().BoolP("plot", "g", false, "plot the log-log error history on the avs chart server")
}

type convergencePoint struct {
	h              float64
	order          int
	ndof           int
	errRMS, errMax float64
}

func runLevel(cp *InputParameters.CaseParameters, property string) (pt convergencePoint, err error) {
	msh, err := meshCase(cp)
	if err != nil {
		return
	}
	pt.h = cp.EdgeLength
	pt.order = cp.GeometricOrder
	pt.ndof = msh.Nv
	switch property {
	case "gauss":
		exact, ok := exactGauss(cp)
		if !ok {
			return pt, fmt.Errorf("no closed form Gauss curvature for shape %q", cp.Shape)
		}
		ex := curvature.NewExtrinsic(msh)
		pt.errRMS, pt.errMax = fieldError(msh, ex.K, exact)
	case "gaussbonnet":
		var sp *surface.LagrangeSpace
		if sp, err = surface.NewLagrangeSpace(msh, cp.PolynomialOrder); err != nil {
			return
		}
		pt.ndof = sp.Ndof
		var lc *curvature.LiftedCurvature
		if lc, err = curvature.LiftIntrinsic(sp, surface.NewMetricFromEmbedding(msh)); err != nil {
			return
		}
		defect := math.Abs(lc.GaussBonnetDefect())
		pt.errRMS, pt.errMax = defect, defect
	case "weingarten":
		var sp *surface.LagrangeSpace
		if sp, err = surface.NewLagrangeSpace(msh, cp.PolynomialOrder); err != nil {
			return
		}
		pt.ndof = sp.Ndof
		var lw *curvature.LiftedWeingarten
		if lw, err = curvature.LiftWeingarten(sp); err != nil {
			return
		}
		exact, ok := expectedTraceTotal(cp)
		if !ok {
			return pt, fmt.Errorf("no closed form total mean curvature for shape %q", cp.Shape)
		}
		diff := math.Abs(lw.TraceTotal - exact)
		pt.errRMS, pt.errMax = diff, diff
	default:
		return pt, fmt.Errorf("unknown property %q", property)
	}
	return
}

func exactGauss(cp *InputParameters.CaseParameters) (f func(x, y, z float64) float64, ok bool) {
	switch types.ParseShapeName(cp.Shape) {
	case types.SH_Sphere, types.SH_Hemisphere:
		gauss, _ := curvature.SphereCurvatures(cp.Radius)
		return func(x, y, z float64) float64 { return gauss }, true
	case types.SH_Ellipsoid:
		a := InputParameters.Axis(cp.SemiAxes, "a", 1.5)
		b := InputParameters.Axis(cp.SemiAxes, "b", 1)
		c := InputParameters.Axis(cp.SemiAxes, "c", 0.75)
		return curvature.EllipsoidGauss(a, b, c), true
	case types.SH_Torus:
		return curvature.TorusGauss(cp.Radius, cp.MinorRadius), true
	}
	return nil, false
}

func fieldError(msh *surface.Mesh, fld utils.Matrix, exact func(x, y, z float64) float64) (rms, max float64) {
	var (
		nr, nc = fld.Dims()
		sq     = utils.NewMatrix(nr, nc)
	)
	for i, v := range fld.DataP {
		d := v - exact(msh.X.DataP[i], msh.Y.DataP[i], msh.Z.DataP[i])
		sq.DataP[i] = d * d
		max = math.Max(max, math.Abs(d))
	}
	rms = math.Sqrt(msh.Integrate(sq) / msh.Area())
	return
}

func printSweep(points []convergencePoint, sweep string) {
	fmt.Printf("%8s %6s %8s %12s %12s %8s\n", "h", "order", "ndof", "errRMS", "errMax", "rate")
	for i, pt := range points {
		rate := "-"
		if i > 0 && sweep != "order" {
			prev := points[i-1]
			if pt.errMax > 0 && prev.errMax > 0 {
				rate = fmt.Sprintf("%8.2f", math.Log(prev.errMax/pt.errMax)/math.Log(prev.h/pt.h))
			}
		}
		fmt.Printf("%8.4f %6d %8d %12.4e %12.4e %8s\n", pt.h, pt.order, pt.ndof, pt.errRMS, pt.errMax, rate)
	}
}

func appendCSV(csvFile string, cp *InputParameters.CaseParameters, property string, points []convergencePoint) (err error) {
	var (
		f      *os.File
		exists = true
	)
	if _, serr := os.Stat(csvFile); serr != nil {
		exists = false
	}
	if f, err = os.OpenFile(csvFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if !exists {
		if err = w.Write([]string{"Title", "Shape", "Property", "Order", "EdgeLength", "NumDOF", "ErrRMS", "ErrMax"}); err != nil {
			return
		}
	}
	for _, pt := range points {
		rec := []string{
			cp.Title, cp.Shape, property,
			strconv.Itoa(pt.order),
			strconv.FormatFloat(pt.h, 'e', 8, 64),
			strconv.Itoa(pt.ndof),
			strconv.FormatFloat(pt.errRMS, 'e', 8, 64),
			strconv.FormatFloat(pt.errMax, 'e', 8, 64),
		}
		if err = w.Write(rec); err != nil {
			return
		}
	}
	return
}

func plotSweep(points []convergencePoint, property string) {
	var (
		x, f       = make([]float64, len(points)), make([]float64, len(points))
		xmin, xmax = math.MaxFloat64, -math.MaxFloat64
		fmin, fmax = math.MaxFloat64, -math.MaxFloat64
	)
	for i, pt := range points {
		x[i] = math.Log10(1 / pt.h)
		f[i] = math.Log10(math.Max(pt.errMax, 1.e-16))
		xmin, xmax = math.Min(xmin, x[i]), math.Max(xmax, x[i])
		fmin, fmax = math.Min(fmin, f[i]), math.Max(fmax, f[i])
	}
	lc := utils.NewLineChart(1024, 768, xmin-0.1, xmax+0.1, fmin-0.5, fmax+0.5)
	lc.Plot(10*time.Second, x, f, 0.7, property)
}
