// Package sysinfo provides process diagnostics as an injectable capability,
// so handlers that report them never read runtime state directly.
package sysinfo

import (
	"runtime"
	"time"
)

// Provider supplies the diagnostics included in detailed health responses.
type Provider interface {
	Uptime() time.Duration
	MemStats() runtime.MemStats
	RuntimeVersion() string
}

// Runtime is the live implementation, anchored to its construction time.
type Runtime struct {
	start time.Time
}

// NewRuntime returns a Provider that reports from the current process.
func NewRuntime() *Runtime {
	return &Runtime{start: time.Now()}
}

// Uptime returns time elapsed since the provider was constructed.
func (r *Runtime) Uptime() time.Duration {
	return time.Since(r.start)
}

// MemStats returns a snapshot of the runtime memory statistics.
func (r *Runtime) MemStats() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// RuntimeVersion returns the Go runtime version string.
func (r *Runtime) RuntimeVersion() string {
	return runtime.Version()
}
