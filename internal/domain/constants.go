package domain

import "io/fs"

const (
	// DirectoryPermissions is used when creating configuration and data
	// directories.
	DirectoryPermissions fs.FileMode = 0o755

	// SecureFilePermissions is used for config files that may reference
	// credential environment variables.
	SecureFilePermissions fs.FileMode = 0o600
)
