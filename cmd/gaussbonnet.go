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

	"github.com/notargets/gocurv/curvature"
	"github.com/notargets/gocurv/surface"
	"github.com/notargets/gocurv/utils"
	"github.com/spf13/cobra"
)

// gaussbonnetCmd represents the gaussbonnet command
var gaussbonnetCmd = &cobra.Command{
	Use:   "gaussbonnet",
	Short: "Generalized lifted curvature against the Gauss-Bonnet identity",
	Long: `
Lifts the distributional Gauss curvature of a piecewise-smooth shape into a
continuous Lagrange space, element densities plus edge geodesic jumps plus
vertex angle deficits, and integrates it against the Euler characteristic. The
naive lift without the jump terms is reported alongside to show the identity
failing when the distributional parts are dropped,

gocurv gaussbonnet --shape cylinder -n 3 -p 2`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processCase(cmd)
		if len(cp.Shape) == 0 {
			cp.Shape = "sphere"
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
		fmt.Printf("Lagrange space of order %d: %d degrees of freedom\n", sp.P, sp.Ndof)

		var lcI *curvature.LiftedCurvature
		liftIt := func() {
			lcI, err = curvature.LiftIntrinsic(sp, surface.NewMetricFromEmbedding(msh))
		}
		if perf, _ := cmd.Flags().GetBool("perf"); perf {
			instructions, cycles, perr := utils.CountHardware(liftIt)
			if perr != nil {
				fmt.Printf("hardware counters unavailable: %s\n", perr.Error())
			} else {
				fmt.Printf("intrinsic lift: %d instructions, %d cycles, %.2f IPC\n",
					instructions, cycles, float64(instructions)/float64(cycles))
			}
		} else {
			liftIt()
		}
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		target := 2 * math.Pi * float64(msh.Chi)
		fmt.Printf("2 pi Chi = %12.8f\n", target)
		fmt.Printf("intrinsic lift:  total %12.8f  defect %.3e\n", lcI.Total, lcI.GaussBonnetDefect())

		lcE, err := curvature.LiftExtrinsic(sp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("extrinsic lift:  total %12.8f  defect %.3e\n", lcE.Total, lcE.GaussBonnetDefect())

		lcN, err := curvature.LiftNaive(sp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("naive lift:      total %12.8f  misses by %.3e\n", lcN.Total, math.Abs(lcN.Total-target))
	},
}

func init() {
	rootCmd.AddCommand(gaussbonnetCmd)
	addCaseFlags(gaussbonnetCmd)
	gaussbonnetCmd.Flags().Bool("perf", false, "count hardware instructions and cycles around the lift (linux only)")
}
