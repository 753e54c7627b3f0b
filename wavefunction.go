package main

import (
	"math"
	"math/cmplx"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// entropyFloor replaces exact-zero probabilities before the logarithm in
// the Shannon-entropy diagnostic.
const entropyFloor = 1e-16

// Wavefunction is a complex field over the grid, stored flattened with
// n = j*Nx + i (the operator-facing layout; the 2-D view is derived).
// Invariant: sum(|psi|^2) == 1 within floating tolerance after
// construction and after every evolution step.
type Wavefunction struct {
	nx, ny int
	Psi    []complex128
}

// NewWavefunction builds a normalized Gaussian wave packet
//
//	psi(x,y) = A exp(-r^2 / 4 sigma^2) exp(i k0x x),  A = 1/sqrt(2 pi sigma^2)
//
// with r^2 = (x-x0)^2 + (y-y0)^2, then renormalizes so the discrete
// probability sums to exactly 1 regardless of grid resolution. If the
// pre-normalization sum is zero (sigma too small for the grid, or
// non-positive) a *DegenerateWavefunctionError is returned.
func NewWavefunction(g *Grid, sigma, k0x, x0, y0 float64) (*Wavefunction, error) {
	if sigma <= 0 {
		return nil, &DegenerateWavefunctionError{Sigma: sigma}
	}
	w := &Wavefunction{
		nx:  g.Nx,
		ny:  g.Ny,
		Psi: make([]complex128, g.Nx*g.Ny),
	}

	amp := 1.0 / math.Sqrt(2.0*math.Pi*sigma*sigma)
	fourSigSq := 4.0 * sigma * sigma
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			dx := g.X[i] - x0
			dy := g.Y[j] - y0
			envelope := amp * math.Exp(-(dx*dx+dy*dy)/fourSigSq)
			w.Psi[j*g.Nx+i] = complex(envelope, 0) * cmplx.Exp(complex(0, k0x*g.X[i]))
		}
	}

	if w.NormSq() == 0 {
		return nil, &DegenerateWavefunctionError{Sigma: sigma}
	}
	if err := w.Normalize(); err != nil {
		return nil, err
	}
	return w, nil
}

// NormSq returns the discrete probability sum(|psi|^2).
func (w *Wavefunction) NormSq() float64 {
	var total float64
	for _, v := range w.Psi {
		re, im := real(v), imag(v)
		total += re*re + im*im
	}
	return total
}

// Normalize divides psi by sqrt(sum(|psi|^2)), restoring the unit-norm
// invariant. A zero norm is reported as *DegenerateWavefunctionError.
func (w *Wavefunction) Normalize() error {
	norm := math.Sqrt(w.NormSq())
	if norm == 0 {
		return &DegenerateWavefunctionError{}
	}
	inv := complex(1.0/norm, 0)
	for n := range w.Psi {
		w.Psi[n] *= inv
	}
	return nil
}

// At returns psi at grid node (i, j).
func (w *Wavefunction) At(i, j int) complex128 {
	return w.Psi[j*w.nx+i]
}

// Density returns a fresh Nx x Ny |psi|^2 field.
func (w *Wavefunction) Density() [][]float64 {
	d := allocField(w.nx, w.ny)
	for j := 0; j < w.ny; j++ {
		for i := 0; i < w.nx; i++ {
			v := w.Psi[j*w.nx+i]
			re, im := real(v), imag(v)
			d[i][j] = re*re + im*im
		}
	}
	return d
}

// ShannonEntropy computes S = -sum p ln p of the probability density
// p = |psi|^2. The density is renormalized to sum to 1 first, and exact
// zeros are floored at a small positive value before the logarithm.
// Bounds: 0 <= S <= ln(N) for N grid cells, with S = 0 only for a
// one-hot distribution.
func ShannonEntropy(psi []complex128) float64 {
	p := make([]float64, len(psi))
	for n, v := range psi {
		re, im := real(v), imag(v)
		p[n] = re*re + im*im
	}
	if total := floats.Sum(p); total > 0 {
		floats.Scale(1.0/total, p)
	}
	for n, v := range p {
		if v == 0 {
			p[n] = entropyFloor
		}
	}
	return stat.Entropy(p)
}

// EntropyTrace is the ordered sequence of per-step entropy values,
// append-only during evolution.
type EntropyTrace []float64

// Max returns the largest entropy seen, or 0 for an empty trace.
func (t EntropyTrace) Max() float64 {
	if len(t) == 0 {
		return 0
	}
	return slices.Max([]float64(t))
}

// Check scans the trace for signs of an unstable integration: non-finite
// entries, or entries above the ln(N) bound that a sane normalized density
// on nCells cells cannot exceed. The first offender is reported with its
// step index. Checking is the caller's job; the integrator never halts
// itself.
func (t EntropyTrace) Check(nCells int) error {
	bound := math.Log(float64(nCells)) + 1e-9
	for step, s := range t {
		if math.IsNaN(s) || math.IsInf(s, 0) || s > bound {
			return &NumericalInstabilityError{Step: step, Value: s}
		}
	}
	return nil
}
