package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is a rectangular domain [-L/2, L/2] x [-L/2, L/2] discretized into
// Nx x Ny points with inclusive endpoints, so dx = L/(Nx-1) and
// dy = L/(Ny-1). Fields indexed [i][j] run i along x and j along y.
// A Grid is immutable after construction.
type Grid struct {
	L      float64
	Nx, Ny int
	Dx, Dy float64

	// 1-D coordinate arrays.
	X, Y []float64

	// Meshgrid expansion of X and Y.
	XX, YY [][]float64
}

// NewGrid builds the coordinate arrays and meshgrids for a square domain of
// side L centered on the origin.
func NewGrid(L float64, nx, ny int) (*Grid, error) {
	if L <= 0 {
		return nil, fmt.Errorf("%w: L=%g must be positive", ErrInvalidGridSpec, L)
	}
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points per axis, got %dx%d", ErrInvalidGridSpec, nx, ny)
	}

	g := &Grid{
		L:  L,
		Nx: nx,
		Ny: ny,
		Dx: L / float64(nx-1),
		Dy: L / float64(ny-1),
		X:  make([]float64, nx),
		Y:  make([]float64, ny),
	}
	floats.Span(g.X, -L/2.0, L/2.0)
	floats.Span(g.Y, -L/2.0, L/2.0)

	g.XX = allocField(nx, ny)
	g.YY = allocField(nx, ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			g.XX[i][j] = g.X[i]
			g.YY[i][j] = g.Y[j]
		}
	}
	return g, nil
}

// NewDensityField evaluates one Gaussian density source on the grid:
// rho(x,y) = rho0 * exp(-((x-offsetX)^2 + y^2) / (2 sigma^2)).
// The result is non-negative everywhere and is treated as immutable once
// generated. Sigma must be positive unless Rho0 is zero.
func NewDensityField(g *Grid, spec GaussianSpec) [][]float64 {
	rho := allocField(g.Nx, g.Ny)
	if spec.Rho0 == 0 {
		return rho
	}
	twoSigSq := 2.0 * spec.Sigma * spec.Sigma
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			dx := g.XX[i][j] - spec.OffsetX
			y := g.YY[i][j]
			rho[i][j] = spec.Rho0 * math.Exp(-(dx*dx+y*y)/twoSigSq)
		}
	}
	return rho
}

// DensityPair bundles the two static mass-density sources of the model.
type DensityPair struct {
	Baryonic   [][]float64
	DarkMatter [][]float64
}

// NewDensityPair generates both density fields on the same grid.
func NewDensityPair(g *Grid, baryonic, darkMatter GaussianSpec) *DensityPair {
	return &DensityPair{
		Baryonic:   NewDensityField(g, baryonic),
		DarkMatter: NewDensityField(g, darkMatter),
	}
}
