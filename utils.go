package main

import "math"

// allocField allocates a zeroed Nx x Ny field, indexed [i][j].
func allocField(nx, ny int) [][]float64 {
	f := make([][]float64, nx)
	for i := range f {
		f[i] = make([]float64, ny)
	}
	return f
}

// flattenField copies an [i][j]-indexed field into the operator layout
// n = j*nx + i.
func flattenField(f [][]float64, nx, ny int) []float64 {
	out := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			out[j*nx+i] = f[i][j]
		}
	}
	return out
}

// unflattenField is the inverse of flattenField.
func unflattenField(v []float64, nx, ny int) [][]float64 {
	f := allocField(nx, ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			f[i][j] = v[j*nx+i]
		}
	}
	return f
}

// fieldMin returns the minimum value of a field and its (i, j) location.
func fieldMin(f [][]float64) (min float64, iMin, jMin int) {
	min = math.Inf(1)
	for i := range f {
		for j := range f[i] {
			if f[i][j] < min {
				min, iMin, jMin = f[i][j], i, j
			}
		}
	}
	return min, iMin, jMin
}
