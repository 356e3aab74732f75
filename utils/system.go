package utils

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNonFinite reports NaN or +/-Inf anywhere in A.
func IsNonFinite(A any) bool {
	return anyValue(A, func(f float64) bool {
		return math.IsNaN(f) || math.IsInf(f, 0)
	})
}

func anyValue(A any, test func(float64) bool) bool {
	switch v := A.(type) {
	case float64:
		return test(v)
	case []float64:
		for _, f := range v {
			if test(f) {
				return true
			}
		}
	case *mat.Dense:
		r, c := v.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if test(v.At(i, j)) {
					return true
				}
			}
		}
	}
	return false
}
