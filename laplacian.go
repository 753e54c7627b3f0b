package main

import (
	"gonum.org/v1/gonum/mat"
)

// Laplacian is the five-point finite-difference Laplacian over the
// flattened grid, stored as five band slices: the center diagonal, the
// +/-1 bands coupling x-neighbors, and the +/-Nx bands coupling
// y-neighbors. The flattened index is n = j*Nx + i, x fastest.
//
// Boundary policy, kept deliberately asymmetric: the +/-1 bands are zeroed
// wherever the one-step offset would cross a row boundary (i = 0 or
// i = Nx-1), so the x seam is nulled rather than wrapped to the opposite
// column; the +/-Nx bands simply have no entries for rows outside
// [0, Ny), an implicit Dirichlet zero beyond the domain in y.
//
// Note the relaxation solver in poisson.go discretizes the same
// differential operator with its own dense stencil and a different
// boundary policy (interior-only updates). The two paths are intentionally
// separate; see poisson.go.
//
// Construction is O(N) and depends only on the grid geometry, so one
// Laplacian can be cached and reused across every potential and
// wavefunction sharing the grid.
type Laplacian struct {
	nx, ny, n int

	center []float64
	xPlus  []float64 // couples node n to n+1
	xMinus []float64 // couples node n to n-1
	yPlus  []float64 // couples node n to n+nx
	yMinus []float64 // couples node n to n-nx
}

// NewLaplacian builds the banded operator for the given grid.
func NewLaplacian(g *Grid) *Laplacian {
	nx, ny := g.Nx, g.Ny
	n := nx * ny
	invDx2 := 1.0 / (g.Dx * g.Dx)
	invDy2 := 1.0 / (g.Dy * g.Dy)

	l := &Laplacian{
		nx:     nx,
		ny:     ny,
		n:      n,
		center: make([]float64, n),
		xPlus:  make([]float64, n),
		xMinus: make([]float64, n),
		yPlus:  make([]float64, n),
		yMinus: make([]float64, n),
	}

	for k := 0; k < n; k++ {
		i := k % nx
		j := k / nx
		l.center[k] = -2.0*invDx2 - 2.0*invDy2
		if i+1 < nx {
			l.xPlus[k] = invDx2
		}
		if i > 0 {
			l.xMinus[k] = invDx2
		}
		if j+1 < ny {
			l.yPlus[k] = invDy2
		}
		if j > 0 {
			l.yMinus[k] = invDy2
		}
	}
	return l
}

// Size returns the flattened dimension Nx*Ny.
func (l *Laplacian) Size() int { return l.n }

// Apply computes dst = L*src for a flattened complex field. dst and src
// must both have length Size and must not alias.
func (l *Laplacian) Apply(dst, src []complex128) {
	nx := l.nx
	for k := 0; k < l.n; k++ {
		v := complex(l.center[k], 0) * src[k]
		if c := l.xPlus[k]; c != 0 {
			v += complex(c, 0) * src[k+1]
		}
		if c := l.xMinus[k]; c != 0 {
			v += complex(c, 0) * src[k-1]
		}
		if c := l.yPlus[k]; c != 0 {
			v += complex(c, 0) * src[k+nx]
		}
		if c := l.yMinus[k]; c != 0 {
			v += complex(c, 0) * src[k-nx]
		}
		dst[k] = v
	}
}

// ApplyReal computes dst = L*src for a flattened real field.
func (l *Laplacian) ApplyReal(dst, src []float64) {
	nx := l.nx
	for k := 0; k < l.n; k++ {
		v := l.center[k] * src[k]
		if c := l.xPlus[k]; c != 0 {
			v += c * src[k+1]
		}
		if c := l.xMinus[k]; c != 0 {
			v += c * src[k-1]
		}
		if c := l.yPlus[k]; c != 0 {
			v += c * src[k+nx]
		}
		if c := l.yMinus[k]; c != 0 {
			v += c * src[k-nx]
		}
		dst[k] = v
	}
}

// ToDense expands the band structure into an explicit Nx*Ny square matrix.
// Only useful for inspection and cross-checking at small grid sizes.
func (l *Laplacian) ToDense() *mat.Dense {
	d := mat.NewDense(l.n, l.n, nil)
	for k := 0; k < l.n; k++ {
		d.Set(k, k, l.center[k])
		if c := l.xPlus[k]; c != 0 {
			d.Set(k, k+1, c)
		}
		if c := l.xMinus[k]; c != 0 {
			d.Set(k, k-1, c)
		}
		if c := l.yPlus[k]; c != 0 {
			d.Set(k, k+l.nx, c)
		}
		if c := l.yMinus[k]; c != 0 {
			d.Set(k, k-l.nx, c)
		}
	}
	return d
}
