package error

import "errors"

// Error codes used across the storage and execution layers.
const (
	CodeFormat          = "FORMAT_ERROR"
	CodeIllegalState    = "ILLEGAL_STATE"
	CodeNoSuchElement   = "NO_SUCH_ELEMENT"
	CodeTupleNotFound   = "TUPLE_NOT_FOUND"
	CodeInvalidPage     = "INVALID_PAGE"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeStorageIO       = "STORAGE_IO"
	CodeTypeMismatch    = "TYPE_MISMATCH"
	CodeStorageFull     = "STORAGE_FULL"
)

// Sentinels for errors.Is. They carry no stack and must not be returned directly.
var (
	ErrFormat          = &DBError{Code: CodeFormat}
	ErrIllegalState    = &DBError{Code: CodeIllegalState}
	ErrNoSuchElement   = &DBError{Code: CodeNoSuchElement}
	ErrTupleNotFound   = &DBError{Code: CodeTupleNotFound}
	ErrInvalidPage     = &DBError{Code: CodeInvalidPage}
	ErrInvalidArgument = &DBError{Code: CodeInvalidArgument}
	ErrStorageIO       = &DBError{Code: CodeStorageIO}
	ErrTypeMismatch    = &DBError{Code: CodeTypeMismatch}
	ErrStorageFull     = &DBError{Code: CodeStorageFull}
)

func categoryFor(code string) ErrorCategory {
	switch code {
	case CodeFormat:
		return ErrCategoryData
	case CodeStorageIO:
		return ErrCategorySystem
	case CodeStorageFull:
		return ErrCategoryTransient
	default:
		return ErrCategoryUser
	}
}

func newCoded(code, format string, args ...any) *DBError {
	e := Newf(categoryFor(code), code, format, args...)
	e.Stack = captureStack()
	return e
}

// Format reports bytes that cannot be a valid page or file image.
func Format(format string, args ...any) *DBError {
	return newCoded(CodeFormat, format, args...)
}

// IllegalState reports an operation invoked in the wrong lifecycle state.
func IllegalState(format string, args ...any) *DBError {
	return newCoded(CodeIllegalState, format, args...)
}

// NoSuchElement reports a Next call on an exhausted iterator.
func NoSuchElement(format string, args ...any) *DBError {
	return newCoded(CodeNoSuchElement, format, args...)
}

// TupleNotFound reports a delete of a tuple that is not stored where its record id says.
func TupleNotFound(format string, args ...any) *DBError {
	return newCoded(CodeTupleNotFound, format, args...)
}

// InvalidPage reports a page id outside the file.
func InvalidPage(format string, args ...any) *DBError {
	return newCoded(CodeInvalidPage, format, args...)
}

// InvalidArgument reports an argument the callee cannot accept.
func InvalidArgument(format string, args ...any) *DBError {
	return newCoded(CodeInvalidArgument, format, args...)
}

// TypeMismatch reports a field whose type does not match the schema.
func TypeMismatch(format string, args ...any) *DBError {
	return newCoded(CodeTypeMismatch, format, args...)
}

// StorageFull reports a page or buffer pool without room.
func StorageFull(format string, args ...any) *DBError {
	return newCoded(CodeStorageFull, format, args...)
}

// StorageIO wraps an I/O failure from the operating system.
func StorageIO(cause error, operation, component string) *DBError {
	return Wrap(cause, CodeStorageIO, operation, component)
}

// HasCode reports whether any error in err's chain is a DBError with the given code.
func HasCode(err error, code string) bool {
	return errors.Is(err, &DBError{Code: code})
}
