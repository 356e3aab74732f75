//go:build linux

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
)

// countCycles runs fn under a hardware CPU cycle counter.
func countCycles(fn func() error) (cycles uint64, err error) {
	pv, err := perf.CPUCycles(fn)
	if err != nil {
		return
	}
	cycles = pv.Value
	return
}
