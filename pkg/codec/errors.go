package codec

import "errors"

// FormatError represents a structurally invalid blob or an entry that cannot
// be represented in the blob format.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
