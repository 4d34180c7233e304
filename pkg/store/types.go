package store

import (
	"errors"
	"fmt"
)

// KeyError reports a lookup or removal of a key that is not in the store.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key not found: %q", e.Key)
}

// IsKeyNotFound reports whether err is (or wraps) a KeyError.
func IsKeyNotFound(err error) bool {
	var ke *KeyError
	return errors.As(err, &ke)
}
