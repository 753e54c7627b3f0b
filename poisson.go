package main

import (
	"errors"
	"math"
)

// PoissonSolver relaxes the screened (Yukawa) Poisson equation
//
//	laplacian(phi) - mu^2 phi = 4 pi G (rho_B + rho_DM)
//
// by pointwise Gauss-Seidel iteration. Each sweep rewrites every interior
// node in place from the analytically rearranged update, so later nodes in
// the same sweep already see updated neighbors; this in-place sweep order
// is part of the observable numeric contract, not an implementation
// detail. Boundary nodes are never touched and stay at zero.
//
// The solver uses its own dense five-point stencil rather than the banded
// Laplacian operator, and a different boundary policy (fixed zero boundary
// vs the seam-nulled bands). The two discretizations of the same operator
// are kept separate on purpose.
type PoissonSolver struct {
	grid    *Grid
	g       float64
	mu      float64
	tol     float64
	maxIter int

	// Progress, when set, is invoked after every sweep with the sweep
	// index and the maximum pointwise update of that sweep. The solver is
	// not interruptible mid-sweep; this is the status hook instead.
	Progress func(iter int, maxDelta float64)
}

// PotentialResult is the outcome of a relaxation run: the potential field
// (best-effort if not converged), the number of sweeps performed, and the
// maximum pointwise update of the final sweep.
type PotentialResult struct {
	Phi        [][]float64
	Iterations int
	FinalError float64
	Converged  bool
}

// NewPoissonSolver validates the relaxation controls and binds the solver
// to a grid.
func NewPoissonSolver(g *Grid, coupling, mu, tol float64, maxIter int) (*PoissonSolver, error) {
	if g == nil {
		return nil, errors.New("gravsim: nil grid")
	}
	if mu < 0 {
		return nil, errors.New("gravsim: screening parameter mu must be >= 0")
	}
	if tol <= 0 {
		return nil, errors.New("gravsim: relaxation tolerance must be positive")
	}
	if maxIter < 1 {
		return nil, errors.New("gravsim: relaxation iteration cap must be >= 1")
	}
	return &PoissonSolver{grid: g, g: coupling, mu: mu, tol: tol, maxIter: maxIter}, nil
}

// Solve relaxes the potential from the two density sources until the
// maximum pointwise update falls below tolerance or the iteration cap is
// hit. On non-convergence the best-effort potential is still returned,
// alongside a *NonConvergenceError describing how far the run got. The
// solver owns Phi exclusively while iterating; the returned field is
// frozen and safe to share read-only.
func (s *PoissonSolver) Solve(rho *DensityPair) (*PotentialResult, error) {
	nx, ny := s.grid.Nx, s.grid.Ny
	invDx2 := 1.0 / (s.grid.Dx * s.grid.Dx)
	invDy2 := 1.0 / (s.grid.Dy * s.grid.Dy)

	denom := 2.0*invDx2 + 2.0*invDy2 - s.mu*s.mu
	if denom <= 0 {
		return nil, &DivergentCoefficientError{Mu: s.mu, Denominator: denom}
	}

	// Source term 4*pi*G*(rho_B + rho_DM), fixed for the whole run.
	source := allocField(nx, ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			source[i][j] = 4.0 * math.Pi * s.g * (rho.Baryonic[i][j] + rho.DarkMatter[i][j])
		}
	}

	phi := allocField(nx, ny)
	var maxDelta float64
	for iter := 1; iter <= s.maxIter; iter++ {
		maxDelta = 0.0
		for i := 1; i < nx-1; i++ {
			for j := 1; j < ny-1; j++ {
				next := ((phi[i+1][j]+phi[i-1][j])*invDx2 +
					(phi[i][j+1]+phi[i][j-1])*invDy2 -
					source[i][j]) / denom
				if d := math.Abs(next - phi[i][j]); d > maxDelta {
					maxDelta = d
				}
				phi[i][j] = next
			}
		}
		if s.Progress != nil {
			s.Progress(iter, maxDelta)
		}
		if maxDelta < s.tol {
			return &PotentialResult{Phi: phi, Iterations: iter, FinalError: maxDelta, Converged: true}, nil
		}
	}

	res := &PotentialResult{Phi: phi, Iterations: s.maxIter, FinalError: maxDelta}
	return res, &NonConvergenceError{Iterations: s.maxIter, FinalError: maxDelta, Tol: s.tol}
}
