package deps

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DirectoryStatus is the outcome of a directory access check.
type DirectoryStatus struct {
	Name   string
	Path   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that dir exists and is readable and writable.
func CheckDirectoryAccess(name, dir string) DirectoryStatus {
	result := DirectoryStatus{Name: name, Path: dir}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			result.Detail = "does not exist"
			return result
		}
		result.Detail = fmt.Sprintf("stat: %v", err)
		return result
	}
	if !info.IsDir() {
		result.Detail = "is not a directory"
		return result
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		result.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return result
	}
	result.Passed = true
	result.Detail = "read/write ok"
	return result
}
