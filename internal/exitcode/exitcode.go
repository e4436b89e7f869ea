// Package exitcode defines the process exit codes of tasky.
package exitcode

const (
	Success = 0

	// UserError covers bad arguments, unknown commands and out-of-range
	// task or list indexes.
	UserError = 1

	// AuthError covers a missing login and an unreadable configuration.
	AuthError = 2

	// BackendError covers failures of the task service or local database.
	BackendError = 3
)
