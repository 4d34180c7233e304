package codec

import (
	"crypto/rand"
	"fmt"
)

const (
	// MagicString identifies an mconf blob. It occupies the first five bytes
	// of every encoded buffer and is never obfuscated.
	MagicString = "MCONF"

	// Version is the only blob version this codec reads and writes.
	Version = 0

	// BufferSize is the fixed size of every encoded blob. Encode always
	// produces exactly this many bytes and Decode never reads beyond it.
	BufferSize = 8192

	// MaxFieldSize is the largest UTF-8 byte length a single key or value
	// may have, bounded by the one-byte length prefix.
	MaxFieldSize = 255

	// headerSize covers the magic string plus the version byte.
	headerSize = len(MagicString) + 1
)

// Encode serializes entries into a BufferSize-byte blob.
// Format: magic, version byte, then one record per entry as
// [keyLen:u8][key][valLen:u8][val], a zero terminator byte, and random
// padding up to BufferSize. A nil value is written as valLen 0 with no value
// bytes. The region after the header is obfuscated with secret.
func Encode(entries map[string]*string, secret string) ([]byte, error) {
	buf := make([]byte, BufferSize)
	copy(buf, MagicString)
	buf[len(MagicString)] = Version

	off := headerSize
	for key, value := range entries {
		if err := ValidateEntry(key, value); err != nil {
			return nil, err
		}

		var val string
		if value != nil {
			val = *value
		}

		// Record width plus the reserved terminator byte must still fit.
		width := 1 + len(key) + 1 + len(val)
		if off+width+1 > BufferSize {
			return nil, &FormatError{Message: fmt.Sprintf("capacity exceeded at key %q", key)}
		}

		buf[off] = byte(len(key))
		off++
		off += copy(buf[off:], key)
		buf[off] = byte(len(val))
		off++
		off += copy(buf[off:], val)
	}

	// Terminator, then random fill so the obfuscated tail does not reveal
	// how much of the buffer is in use.
	buf[off] = 0
	off++
	if _, err := rand.Read(buf[off:]); err != nil {
		return nil, fmt.Errorf("failed to generate padding: %w", err)
	}

	Mask(buf, secret)
	return buf, nil
}

// Decode parses a blob produced by Encode back into an entry map. A buffer
// shorter than the header is treated as a fresh store and yields an empty
// map. Parsing honors len(raw) only: a stream that ends directly after a key,
// or before that key's value-length byte, leaves the key mapped to a nil
// value rather than failing. raw is not modified.
func Decode(raw []byte, secret string) (map[string]*string, error) {
	entries := make(map[string]*string)
	if len(raw) < headerSize {
		return entries, nil
	}

	buf := make([]byte, len(raw))
	copy(buf, raw)
	Mask(buf, secret)

	if string(buf[:len(MagicString)]) != MagicString {
		return nil, &FormatError{Message: "invalid format"}
	}
	if buf[len(MagicString)] != Version {
		return nil, &FormatError{Message: fmt.Sprintf("unknown version %d", buf[len(MagicString)])}
	}

	off := headerSize
	for off < len(buf) {
		keyLen := int(buf[off])
		off++
		if keyLen == 0 {
			// End of the record stream; the remainder is padding.
			break
		}
		if off+keyLen > len(buf) {
			return nil, &FormatError{Message: "key length truncated"}
		}
		key := string(buf[off : off+keyLen])
		off += keyLen

		// The key is recorded before looking at the value so a stream that
		// ends here still yields the key with no value.
		entries[key] = nil
		if off >= len(buf) {
			break
		}

		valLen := int(buf[off])
		off++
		if valLen == 0 {
			continue
		}
		if off+valLen > len(buf) {
			return nil, &FormatError{Message: "value length truncated"}
		}
		val := string(buf[off : off+valLen])
		entries[key] = &val
		off += valLen
	}

	return entries, nil
}

// ValidateEntry checks that key and value fit the record format without
// encoding them. The zero key length byte is the stream terminator, so empty
// keys cannot be represented.
func ValidateEntry(key string, value *string) error {
	if key == "" {
		return &FormatError{Message: "empty key"}
	}
	if len(key) > MaxFieldSize {
		return &FormatError{Message: fmt.Sprintf("key too long: %q is %d bytes, limit is %d", key, len(key), MaxFieldSize)}
	}
	if value != nil && len(*value) > MaxFieldSize {
		return &FormatError{Message: fmt.Sprintf("value too long for key %q: %d bytes, limit is %d", key, len(*value), MaxFieldSize)}
	}
	return nil
}
