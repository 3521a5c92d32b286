package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fenilsonani/tidytree/internal/security"
	"github.com/fenilsonani/tidytree/internal/trash"
)

// ErrorReason categorizes why a deletion failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorIsDirectory
	ErrorInvalidPath
	ErrorSafetyViolation
	ErrorTrashUnavailable
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorIsDirectory:
		return "Is a directory"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorSafetyViolation:
		return "Protected path"
	case ErrorTrashUnavailable:
		return "Trash unavailable"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// DeletionError describes one item that could not be deleted
type DeletionError struct {
	Path      string
	Message   string
	Reason    ErrorReason
	Original  error
	Retryable bool
	// NeedsElevation is set when the parent directory is not writable by
	// the current user
	NeedsElevation bool
}

// Error implements the error interface
func (e *DeletionError) Error() string {
	if e.Original == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap exposes the underlying cause
func (e *DeletionError) Unwrap() error {
	return e.Original
}

// UserMessage returns a user-friendly error message
func (e *DeletionError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		if e.NeedsElevation {
			return fmt.Sprintf("⚠️  Need elevated permissions to delete: %s", e.Path)
		}
		return fmt.Sprintf("⚠️  Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("⚠️  File is being used: %s (close the application and try again)", e.Path)
	case ErrorFileNotFound:
		return fmt.Sprintf("ℹ️  Already deleted: %s", e.Path)
	case ErrorIsDirectory:
		return fmt.Sprintf("⚠️  Cannot delete directory: %s", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("❌ Invalid path: %s", e.Path)
	case ErrorSafetyViolation:
		return fmt.Sprintf("🛡️  Protected, not deleted: %s", e.Path)
	case ErrorTrashUnavailable:
		return fmt.Sprintf("⚠️  Could not move to trash: %s", e.Path)
	default:
		return fmt.Sprintf("❌ Error deleting %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized DeletionError
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{
		Path:     path,
		Message:  err.Error(),
		Original: err,
		Reason:   ErrorUnknown,
	}

	switch {
	case errors.Is(err, security.ErrSafetyViolation):
		delErr.Reason = ErrorSafetyViolation
		return delErr
	case errors.Is(err, security.ErrInvalidArgument):
		delErr.Reason = ErrorInvalidPath
		return delErr
	case errors.Is(err, trash.ErrTrashUnavailable):
		delErr.Reason = ErrorTrashUnavailable
		return delErr
	}

	// Check syscall errors
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch {
		case errno == syscall.EACCES || errno == syscall.EPERM:
			delErr.Reason = ErrorPermissionDenied
		case isInUse(errno):
			delErr.Reason = ErrorFileInUse
			delErr.Retryable = true
		case errno == syscall.ENOENT:
			delErr.Reason = ErrorFileNotFound
		case errno == syscall.EISDIR:
			delErr.Reason = ErrorIsDirectory
		case errno == syscall.ENAMETOOLONG || errno == syscall.EINVAL:
			delErr.Reason = ErrorInvalidPath
		}
		if delErr.Reason != ErrorUnknown {
			return delErr
		}
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		delErr.Reason = ErrorFileNotFound
	case errors.Is(err, os.ErrPermission):
		delErr.Reason = ErrorPermissionDenied
	}

	return delErr
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errors []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errors {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of errors
func FormatErrorSummary(errors []*DeletionError) string {
	if len(errors) == 0 {
		return ""
	}

	grouped := GroupErrors(errors)
	var b strings.Builder
	b.WriteString("\n⚠️  Issues encountered:\n")

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		fmt.Fprintf(&b, "   ├─ Permission denied: %d items\n", len(perms))
		b.WriteString("   │  └─ Tip: Check ownership of the parent folder\n")
	}

	if busy, ok := grouped[ErrorFileInUse]; ok {
		fmt.Fprintf(&b, "   ├─ File in use: %d items\n", len(busy))
		b.WriteString("   │  └─ Tip: Close applications and retry\n")
	}

	if notFound, ok := grouped[ErrorFileNotFound]; ok {
		fmt.Fprintf(&b, "   ├─ Already deleted: %d items\n", len(notFound))
	}

	if dirs, ok := grouped[ErrorIsDirectory]; ok {
		fmt.Fprintf(&b, "   ├─ Directories: %d items\n", len(dirs))
	}

	if invalid, ok := grouped[ErrorInvalidPath]; ok {
		fmt.Fprintf(&b, "   ├─ Invalid paths: %d items\n", len(invalid))
	}

	if protected, ok := grouped[ErrorSafetyViolation]; ok {
		fmt.Fprintf(&b, "   ├─ Protected paths: %d items\n", len(protected))
		b.WriteString("   │  └─ System and special folders are never deleted\n")
	}

	if noTrash, ok := grouped[ErrorTrashUnavailable]; ok {
		fmt.Fprintf(&b, "   ├─ Trash unavailable: %d items\n", len(noTrash))
		b.WriteString("   │  └─ Tip: Install gio or trash-cli, or delete permanently\n")
	}

	if unknown, ok := grouped[ErrorUnknown]; ok {
		fmt.Fprintf(&b, "   └─ Other errors: %d items\n", len(unknown))
	}

	return b.String()
}
