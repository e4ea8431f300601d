package utils

import (
	"fmt"
	"math"
)

// Preconditioner applies an approximate inverse to r, storing the result
// in z.
type Preconditioner func(z, r []float64)

// JacobiPreconditioner solves with the matrix diagonal.
func JacobiPreconditioner(diag []float64) Preconditioner {
	var (
		dInv = make([]float64, len(diag))
	)
	for i, d := range diag {
		if d == 0. {
			panic(fmt.Errorf("zero diagonal entry at row %d", i))
		}
		dInv[i] = 1. / d
	}
	return func(z, r []float64) {
		for i, val := range r {
			z[i] = val * dInv[i]
		}
	}
}

// CG is a preconditioned conjugate gradient solver for symmetric positive
// definite sparse systems, used for the mass matrix solves in the field
// liftings.
type CG struct {
	MaxIter int
	Tol     float64
	// Preconditioner applied each iteration. If nil, the Jacobi
	// preconditioner built from the matrix diagonal is used.
	Preconditioner Preconditioner
	niter          int
	ndof           int
	residual       float64
}

func (cg *CG) Status() string {
	return fmt.Sprintf("CG: %d dof, converged in %d iterations, residual %9.2e",
		cg.ndof, cg.niter, cg.residual)
}

func (cg *CG) Solve(A CSR, b []float64) (x []float64, err error) {
	var (
		size = len(b)
	)
	if cg.MaxIter == 0 {
		cg.MaxIter = 2 * size
	}
	if cg.Tol == 0. {
		cg.Tol = 1.e-12
	}
	if cg.Preconditioner == nil {
		cg.Preconditioner = JacobiPreconditioner(A.Diagonal())
	}
	cg.ndof = size

	x = make([]float64, size)
	r := make([]float64, size)
	z := make([]float64, size)
	p := make([]float64, size)
	q := make([]float64, size)

	copy(r, b) // x0 = 0, r0 = b
	normB := norm(b)
	if normB == 0. {
		return
	}
	cg.Preconditioner(z, r)
	copy(p, z)
	rz := dot(r, z)

	for cg.niter = 1; cg.niter <= cg.MaxIter; cg.niter++ {
		A.MulVec(p, q)
		pq := dot(p, q)
		if pq <= 0. {
			err = fmt.Errorf("matrix is not positive definite: p'Ap = %v at iteration %d", pq, cg.niter)
			return
		}
		alpha := rz / pq
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * q[i]
		}
		cg.residual = norm(r) / normB
		if cg.residual < cg.Tol {
			return
		}
		cg.Preconditioner(z, r)
		rzNext := dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	err = fmt.Errorf("CG did not converge in %d iterations, residual %9.2e", cg.MaxIter, cg.residual)
	return
}

func dot(a, b []float64) (d float64) {
	for i, val := range a {
		d += val * b[i]
	}
	return
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}
