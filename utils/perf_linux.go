//go:build linux
// +build linux

package utils

import (
	perf "github.com/hodgesds/perf-utils"
)

// CountHardware runs f under the kernel perf interface and reports retired
// instructions and CPU cycles. The function is executed once per counter.
func CountHardware(f func()) (instructions, cycles uint64, err error) {
	var (
		pv *perf.ProfileValue
	)
	wrap := func() error {
		f()
		return nil
	}
	if pv, err = perf.CPUInstructions(wrap); err != nil {
		return
	}
	instructions = pv.Value
	if pv, err = perf.CPUCycles(wrap); err != nil {
		return
	}
	cycles = pv.Value
	return
}
