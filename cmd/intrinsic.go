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
	"github.com/notargets/gocurv/geometry"
	"github.com/notargets/gocurv/surface"
	"github.com/spf13/cobra"
)

// intrinsicCmd represents the intrinsic command
var intrinsicCmd = &cobra.Command{
	Use:   "intrinsic",
	Short: "Gauss curvature from the metric alone, checked against the embedding",
	Long: `
Computes the Gauss curvature of a shape twice, from the embedded Weingarten map
and from the first fundamental form through the Riemann tensor, and reports how
closely the theorema egregium holds discretely. With no shape given the check
runs on a hemisphere, where the closed form chart metric over the polar disk is
also available,

gocurv intrinsic --radius 1.5 -n 4`,
	Run: func(cmd *cobra.Command, args []string) {
		cp := processCase(cmd)
		if len(cp.Shape) == 0 {
			cp.Shape = "hemisphere"
		}
		cp.Print()
		msh, err := meshCase(cp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		var (
			extrinsic = curvature.NewExtrinsic(msh).K
			intrinsic = curvature.GaussFromMetric(surface.NewMetricFromEmbedding(msh))
			maxDiff   float64
		)
		for i := range extrinsic.DataP {
			maxDiff = math.Max(maxDiff, math.Abs(extrinsic.DataP[i]-intrinsic.DataP[i]))
		}
		fmt.Printf("embedding K area average %12.8f\n", msh.Integrate(extrinsic)/msh.Area())
		fmt.Printf("metric    K area average %12.8f\n", msh.Integrate(intrinsic)/msh.Area())
		fmt.Printf("max |K_embedding - K_metric| = %.3e\n", maxDiff)

		// the closed form chart metric of a hemisphere of the same radius, evaluated
		// over a flat polar disk that never leaves the plane
		chartMetric(cp.Radius, cp.EdgeLength, cp.GeometricOrder)
	},
}

func init() {
	rootCmd.AddCommand(intrinsicCmd)
	addCaseFlags(intrinsicCmd)
}

func chartMetric(R, h float64, Ng int) {
	dmsh, err := surface.NewMesh(geometry.NewDisk(math.Pi/2*R, h), Ng)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	mf, err := surface.NewMetricFromChart(dmsh, geometry.HemisphereMetric(R))
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	var (
		gauss  = curvature.GaussFromMetric(mf)
		exact  = 1 / (R * R)
		maxErr float64
	)
	for _, v := range gauss.DataP {
		maxErr = math.Max(maxErr, math.Abs(v-exact))
	}
	fmt.Printf("chart metric on the flat disk: max |K - %.6f| = %.3e\n", exact, maxErr)
}
