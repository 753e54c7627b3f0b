package main

import (
	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum computes the 2-D Fourier power spectrum |F(phi)|^2 of a
// real field. It is a one-shot diagnostic on the converged potential and
// plays no part in the time loop. Frequencies follow the usual FFT layout:
// DC in [0][0], negative frequencies in the upper halves of each axis.
func PowerSpectrum(phi [][]float64) [][]float64 {
	coeffs := fft.FFT2Real(phi)
	power := make([][]float64, len(coeffs))
	for i, row := range coeffs {
		power[i] = make([]float64, len(row))
		for j, c := range row {
			re, im := real(c), imag(c)
			power[i][j] = re*re + im*im
		}
	}
	return power
}
