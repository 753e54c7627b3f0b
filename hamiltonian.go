package main

import (
	"errors"
	"math"
)

// Hamiltonian applies H psi = -(hbar^2/2m) L psi + m Phi psi, combining
// the banded Laplacian kinetic term with elementwise multiplication by the
// frozen potential. Apply never mutates psi or the potential; the
// potential is copied (flattened) at construction so later writes to the
// source field cannot leak in. Not safe for concurrent use: Apply reuses
// an internal scratch vector.
type Hamiltonian struct {
	lap     *Laplacian
	phi     []float64 // flattened, n = j*nx + i
	kinetic float64   // hbar^2 / 2m
	mass    float64
	scratch []complex128
}

// NewHamiltonian builds the operator from a cached Laplacian, the
// converged potential field, and the physical constants.
func NewHamiltonian(lap *Laplacian, phi [][]float64, hbar, mass float64) *Hamiltonian {
	nx := len(phi)
	ny := len(phi[0])
	return &Hamiltonian{
		lap:     lap,
		phi:     flattenField(phi, nx, ny),
		kinetic: hbar * hbar / (2.0 * mass),
		mass:    mass,
		scratch: make([]complex128, lap.Size()),
	}
}

// Apply computes dst = H psi. dst and psi must have length Nx*Ny and must
// not alias.
func (h *Hamiltonian) Apply(dst, psi []complex128) {
	h.lap.Apply(h.scratch, psi)
	for n := range dst {
		dst[n] = complex(-h.kinetic, 0)*h.scratch[n] + complex(h.mass*h.phi[n], 0)*psi[n]
	}
}

// Integrator advances a wavefunction by explicit first-order (Euler)
// stepping:
//
//	psi <- psi - i dt/hbar H(psi), then renormalize.
//
// This is deliberately NOT the Crank-Nicolson scheme the model's design
// notes aspire to: the step is only approximately norm-preserving, and the
// explicit renormalization after each step is what enforces sum|psi|^2 = 1,
// masking the first-order truncation error rather than evolving unitarily.
// That divergence is expected behavior here, not a defect.
//
// The integrator performs no stability detection. Too large a dt for the
// grid spacing shows up as a spiking or NaN entropy trace, which the
// caller monitors via EntropyTrace.Check.
type Integrator struct {
	ham   *Hamiltonian
	dt    float64
	hbar  float64
	steps int

	hpsi []complex128
	next []complex128
}

// NewIntegrator binds a Hamiltonian to a time step.
func NewIntegrator(h *Hamiltonian, dt, hbar float64) (*Integrator, error) {
	if dt <= 0 {
		return nil, errors.New("gravsim: time step dt must be positive")
	}
	if hbar <= 0 {
		return nil, errors.New("gravsim: hbar must be positive")
	}
	n := h.lap.Size()
	return &Integrator{
		ham:  h,
		dt:   dt,
		hbar: hbar,
		hpsi: make([]complex128, n),
		next: make([]complex128, n),
	}, nil
}

// Steps returns how many steps have been taken.
func (it *Integrator) Steps() int { return it.steps }

// Step advances w by one dt in place. The update is staged in a scratch
// buffer and only committed after renormalization succeeds, so a failed
// step leaves the previous state intact.
func (it *Integrator) Step(w *Wavefunction) error {
	it.ham.Apply(it.hpsi, w.Psi)

	factor := complex(0, -it.dt/it.hbar)
	var normSq float64
	for n, v := range w.Psi {
		nv := v + factor*it.hpsi[n]
		it.next[n] = nv
		re, im := real(nv), imag(nv)
		normSq += re*re + im*im
	}
	if normSq == 0 {
		return &DegenerateWavefunctionError{}
	}

	inv := complex(1.0/math.Sqrt(normSq), 0)
	for n := range w.Psi {
		w.Psi[n] = it.next[n] * inv
	}
	it.steps++
	return nil
}
