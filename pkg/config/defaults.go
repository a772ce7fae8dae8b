package config

import "time"

// Solver defaults. NMax and PTol match the engine's own defaults.
const (
	DefaultSolverNMax       = 10_000_000
	DefaultSolverPTol       = 1e-9
	DefaultSolverConfidence = 0.95
)

// Batch defaults.
const (
	DefaultBatchWorkers = 4
)

// Output defaults.
const (
	DefaultOutputFormat = FormatTable
	DefaultOutputColor  = true
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

// Server defaults.
const (
	DefaultServerHost         = "127.0.0.1"
	DefaultServerPort         = 8080
	DefaultServerReadTimeout  = 10 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second
	DefaultServerMaxBodySize  = "1MiB"
)
