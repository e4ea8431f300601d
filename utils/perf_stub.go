//go:build !linux
// +build !linux

package utils

import "fmt"

// CountHardware requires the Linux perf interface.
func CountHardware(f func()) (instructions, cycles uint64, err error) {
	f()
	err = fmt.Errorf("hardware counters are only available on linux")
	return
}
