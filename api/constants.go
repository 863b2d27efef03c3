package api

const (
	// DefaultFilePermissions for temp directory creation
	DefaultFilePermissions = 0755

	// LockDirName is the directory under TempDir holding per-output lock files
	LockDirName = "locks"

	// MaxErrorMessageLength caps error messages returned to clients
	MaxErrorMessageLength = 200
)
