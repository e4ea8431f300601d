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
	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/types"
	"github.com/spf13/cobra"
)

// weingartenCmd represents the weingarten command
var weingartenCmd = &cobra.Command{
	Use:   "weingarten",
	Short: "Generalized Weingarten tensor lifted componentwise, trace against total mean curvature",
	Long: `
Lifts the generalized Weingarten measure of a piecewise-smooth shape, the smooth
shape operator on element interiors plus dihedral angle jumps concentrated on
the crease edges, into a Lagrange space component by component. Half the lifted
trace generalizes total mean curvature: a unit box, all of whose curvature sits
in its twelve edges, totals 3 pi,

gocurv weingarten --shape box -n 1 -p 2`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processCase(cmd)
		if len(cp.Shape) == 0 {
			cp.Shape = "box"
		}
		cp.Print()
		msh, err := meshCase(cp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		sp, err := surface.NewLagrangeSpace(msh, cp.PolynomialOrder)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		lw, err := curvature.LiftWeingarten(sp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		names := [6]string{"xx", "xy", "xz", "yy", "yz", "zz"}
		for c := range curvature.Components {
			fmt.Printf("component %s total %12.8f\n", names[c], surface.Total(lw.B[c]))
		}
		fmt.Printf("half trace total %12.8f\n", lw.TraceTotal)
		if exact, ok := expectedTraceTotal(cp); ok {
			fmt.Printf("total mean curvature closed form %12.8f, off by %.3e\n",
				exact, math.Abs(lw.TraceTotal-exact))
		}
		if types.ParseShapeName(cp.Shape) == types.SH_Sphere {
			reportSphereTrace(cp.Radius, sp, lw)
		}
	},
}

func init() {
	rootCmd.AddCommand(weingartenCmd)
	addCaseFlags(weingartenCmd)
}

// expectedTraceTotal is the closed form total mean curvature of the shapes that have
// one: smooth parts integrate H over the area, crease edges add half the dihedral
// angle times their length
func expectedTraceTotal(cp *InputParameters.CaseParameters) (total float64, ok bool) {
	switch types.ParseShapeName(cp.Shape) {
	case types.SH_Sphere:
		return 4 * math.Pi * cp.Radius, true
	case types.SH_Box:
		lx := InputParameters.Axis(cp.Sides, "x", 1)
		ly := InputParameters.Axis(cp.Sides, "y", 1)
		lz := InputParameters.Axis(cp.Sides, "z", 1)
		return math.Pi * (lx + ly + lz), true
	case types.SH_Cylinder:
		// side H = 1/(2R) over 2 pi R Height, two rim circles of dihedral pi/2
		return math.Pi*cp.Height + math.Pi*math.Pi*cp.Radius, true
	}
	return 0, false
}

// reportSphereTrace compares the pointwise lifted trace against the smooth mean
// curvature, which the faceted measure approaches under refinement
func reportSphereTrace(R float64, sp *surface.LagrangeSpace, lw *curvature.LiftedWeingarten) {
	var (
		exact  = 2 / R
		trace  = make([]float64, sp.Ndof)
		maxErr float64
	)
	for i := range trace {
		trace[i] = lw.X[0][i] + lw.X[3][i] + lw.X[5][i]
		maxErr = math.Max(maxErr, math.Abs(trace[i]-exact))
	}
	avg := sp.Integrate(trace) / sp.Msh.Area()
	fmt.Printf("lifted trace vs 2H = %.6f: area average %12.8f, max pointwise error %.3e\n",
		exact, avg, maxErr)
}
