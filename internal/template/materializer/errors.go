package materializer

import "fmt"

// DirectoryMissingError reports a required checkout directory that does not exist.
type DirectoryMissingError struct {
	// Path is the missing directory.
	Path string
}

// Error implements the error interface.
func (e *DirectoryMissingError) Error() string {
	return fmt.Sprintf("directory %s not found (run checkout first)", e.Path)
}

// FileSystemError reports an I/O failure while creating, reading or writing the tree.
type FileSystemError struct {
	// Op is the attempted operation (e.g. "read", "write", "create directory").
	Op string
	// Path is the file or directory involved.
	Path string
	// Message is an optional description.
	Message string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *FileSystemError) Error() string {
	msg := fmt.Sprintf("failed to %s %s", e.Op, e.Path)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *FileSystemError) Unwrap() error {
	return e.Cause
}

// InvalidKeyError reports a parameter or group key that cannot be used as a file name.
type InvalidKeyError struct {
	// Key is the rejected key.
	Key string
	// Reason explains why.
	Reason string
}

// Error implements the error interface.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

func newFileSystemError(op, path string, cause error) *FileSystemError {
	return &FileSystemError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}
