package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

// NewRangeOffset converts a 1-based inclusive range to 0-based indices.
func NewRangeOffset(rmin, rmax int) (r Index) {
	return NewRange(rmin-1, rmax-1)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func NewFromFloat(IF []float64) (r Index) {
	r = make(Index, len(IF))
	for i, val := range IF {
		r[i] = int(val)
	}
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) AddInPlace(val int) (r Index) {
	for i := range I {
		I[i] += val
	}
	return I
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

func (I Index) Apply(f func(val int) int) (r Index) {
	r = make(Index, len(I))
	for i, val := range I {
		r[i] = f(val)
	}
	return
}

func (I Index) Reverse() (r Index) {
	var (
		N = len(I)
	)
	r = make(Index, N)
	for i, val := range I {
		r[N-1-i] = val
	}
	return
}

func (I Index) Contains(val int) bool {
	for _, ival := range I {
		if ival == val {
			return true
		}
	}
	return false
}

type Index2D struct {
	RI, CI Index
	Len    int
}

func NewIndex2D(RI, CI Index) (I2 Index2D, err error) {
	if len(RI) != len(CI) {
		err = fmt.Errorf("lengths of row and column indices must be the same: nr, nc = %v, %v",
			len(RI), len(CI))
		return
	}
	return Index2D{
		RI:  RI,
		CI:  CI,
		Len: len(RI),
	}, nil
}
