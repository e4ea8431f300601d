package element

import (
	"math"

	"github.com/notargets/gocurv/utils"
)

/*
Cubature holds a volume quadrature on the standard triangle along with the interpolation and derivative
matrices that carry element nodal values to the cubature points, which the element constructor fills in
*/
type Cubature struct {
	R, S, W   utils.Vector
	Nq        int
	V, Dr, Ds utils.Matrix
}

/*
NewCubature provides a quadrature rule that integrates polynomials through order COrder exactly on the
standard triangle. A Gauss-Legendre rule in the first collapsed coordinate is crossed with a Gauss-Jacobi(1,0)
rule in the second, the Jacobi weight absorbing the area factor of the collapsed mapping, so the weights sum
to the reference area of 2
*/
func NewCubature(COrder int) (cub *Cubature) {
	var (
		cubNA = int(math.Ceil((float64(COrder) + 1.0) / 2.0))
		cubNB = int(math.Ceil((float64(COrder) + 1.0) / 2.0))
	)
	cubA, cubWA := JacobiGQ(0, 0, cubNA-1)
	cubB, cubWB := JacobiGQ(1, 0, cubNB-1)
	Nq := cubNA * cubNB
	rd, sd, wd := make([]float64, Nq), make([]float64, Nq), make([]float64, Nq)
	var sk int
	for j := 0; j < cubNB; j++ {
		b := cubB.AtVec(j)
		for i := 0; i < cubNA; i++ {
			a := cubA.AtVec(i)
			rd[sk] = 0.5*(1.+a)*(1.-b) - 1.
			sd[sk] = b
			wd[sk] = 0.5 * cubWA.AtVec(i) * cubWB.AtVec(j)
			sk++
		}
	}
	cub = &Cubature{
		R:  utils.NewVector(Nq, rd),
		S:  utils.NewVector(Nq, sd),
		W:  utils.NewVector(Nq, wd),
		Nq: Nq,
	}
	return
}
