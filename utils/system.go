package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNanPanic(A any) {
	if IsNan(A) {
		panic("NAN found")
	}
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case Matrix:
		return IsNan(v.DataP)
	case Vector:
		return IsNan(v.DataP)
	case [3]Matrix:
		for n := 0; n < 3; n++ {
			if IsNan(v[n].DataP) {
				return true
			}
		}
	case [6]Matrix:
		for n := 0; n < 6; n++ {
			if IsNan(v[n].DataP) {
				return true
			}
		}
	}
	return false
}
