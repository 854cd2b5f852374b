package fedicomments

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one request is in flight.
	MinWorkers = 1

	// MaxWorkers caps concurrent requests so one thread does not trip an
	// instance's rate limiter.
	MaxWorkers = 16

	// cpuMultiplier oversubscribes CPUs since workers mostly wait on I/O.
	cpuMultiplier = 2
)

// ResolveWorkers determines the number of concurrent requests.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) * cpuMultiplier

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
