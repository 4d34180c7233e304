package store

import (
	"fmt"
	"io"
)

// ByteSink is the backing storage a ConfigStore reads and writes. It needs
// seek-to-start, bounded reads, full-buffer writes and truncation. *os.File
// satisfies it directly.
type ByteSink interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
}

// MemorySink is an in-memory ByteSink, useful for tests and for embedding a
// store with no on-disk backing. The zero value is an empty sink ready for
// use.
type MemorySink struct {
	data []byte
	pos  int64
}

// NewMemorySink creates a MemorySink seeded with initial content. The slice
// is copied.
func NewMemorySink(initial []byte) *MemorySink {
	data := make([]byte, len(initial))
	copy(data, initial)
	return &MemorySink{data: data}
}

func (m *MemorySink) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MemorySink) Write(p []byte) (int, error) {
	if end := m.pos + int64(len(p)); end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	n := copy(m.data[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

func (m *MemorySink) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative position: %d", pos)
	}
	m.pos = pos
	return pos, nil
}

func (m *MemorySink) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("negative size: %d", size)
	}
	if size <= int64(len(m.data)) {
		m.data = m.data[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, m.data)
	m.data = grown
	return nil
}

// Bytes returns the current sink content. The slice is shared with the sink
// and must not be modified.
func (m *MemorySink) Bytes() []byte {
	return m.data
}

// Len returns the number of bytes currently held by the sink.
func (m *MemorySink) Len() int {
	return len(m.data)
}
