package main

// Process exit status is deliberately binary: schedulers and CI wrappers
// only need to know whether everything synced or was correctly skipped.
const (
	ExitSuccess = 0 // All selected jobs synced or correctly skipped
	ExitError   = 1 // Any job or group step failed, or the run could not start
)
