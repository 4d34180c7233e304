package store

import (
	"io"
	"os"
	"sort"

	"github.com/mconfdb/mconf/pkg/codec"
)

// ConfigStore holds a string key-value configuration map backed by a fixed
// 8192-byte blob in a ByteSink. Values are optional: a key may be present
// with a nil value, which is distinct from the key being absent.
//
// A ConfigStore is not safe for concurrent use; callers owning an instance
// are expected to serialize all calls.
type ConfigStore struct {
	sink     ByteSink
	entries  map[string]*string
	secret   string
	dirty    bool
	ownsSink bool
}

// New creates a store backed by sink, decoding any existing content. A
// decode failure aborts construction. The caller keeps ownership of sink:
// Close flushes a dirty store but never closes an externally supplied sink.
func New(sink ByteSink, secret string) (*ConfigStore, error) {
	cs := &ConfigStore{
		sink:   sink,
		secret: secret,
	}
	if err := cs.Load(); err != nil {
		return nil, err
	}
	return cs, nil
}

// Open opens (creating if necessary) the file at path and decodes it. The
// store owns the file: Close flushes a dirty store and then closes it.
func Open(path string, secret string) (*ConfigStore, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	cs, err := New(file, secret)
	if err != nil {
		file.Close()
		return nil, err
	}
	cs.ownsSink = true

	return cs, nil
}

// Get returns the value mapped to key. The value may be nil for a key that
// is present without a value. A missing key yields a KeyError.
func (cs *ConfigStore) Get(key string) (*string, error) {
	value, ok := cs.entries[key]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return value, nil
}

// TryGet is the non-failing variant of Get.
func (cs *ConfigStore) TryGet(key string) (*string, bool) {
	value, ok := cs.entries[key]
	return value, ok
}

// Set inserts or overwrites key with value, which may be nil. Key and value
// are validated against the blob format limits before anything is touched.
func (cs *ConfigStore) Set(key string, value *string) error {
	if err := codec.ValidateEntry(key, value); err != nil {
		return err
	}
	cs.entries[key] = value
	cs.dirty = true
	return nil
}

// Remove deletes key from the store, failing with a KeyError if it is not
// present.
func (cs *ConfigStore) Remove(key string) error {
	if _, ok := cs.entries[key]; !ok {
		return &KeyError{Key: key}
	}
	delete(cs.entries, key)
	cs.dirty = true
	return nil
}

// ContainsKey reports whether key is present, with or without a value.
func (cs *ConfigStore) ContainsKey(key string) bool {
	_, ok := cs.entries[key]
	return ok
}

// Count returns the number of keys currently mapped.
func (cs *ConfigStore) Count() int {
	return len(cs.entries)
}

// Keys returns all keys in sorted order.
func (cs *ConfigStore) Keys() []string {
	keys := make([]string, 0, len(cs.entries))
	for key := range cs.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SetSecret replaces the obfuscation secret for subsequent saves. The
// backing sink is not rewritten until the next Save.
func (cs *ConfigStore) SetSecret(secret string) {
	cs.secret = secret
	cs.dirty = true
}

// Dirty reports whether in-memory state has diverged from the last persisted
// blob.
func (cs *ConfigStore) Dirty() bool {
	return cs.dirty
}

// Load re-reads the sink from its start and replaces the in-memory map. On
// failure the previous map is kept.
func (cs *ConfigStore) Load() error {
	if _, err := cs.sink.Seek(0, io.SeekStart); err != nil {
		return err
	}

	buf := make([]byte, codec.BufferSize)
	n, err := io.ReadFull(cs.sink, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return err
	}

	entries, err := codec.Decode(buf[:n], cs.secret)
	if err != nil {
		return err
	}

	cs.entries = entries
	cs.dirty = false
	return nil
}

// Save encodes the current map and writes the full fixed-size blob to the
// sink, truncating it to exactly that size. An encode failure leaves the
// sink untouched.
func (cs *ConfigStore) Save() error {
	buf, err := codec.Encode(cs.entries, cs.secret)
	if err != nil {
		return err
	}

	if _, err := cs.sink.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := cs.sink.Write(buf); err != nil {
		return err
	}
	if err := cs.sink.Truncate(codec.BufferSize); err != nil {
		return err
	}

	cs.dirty = false
	return nil
}

// Close flushes the store if it is dirty and releases the sink if the store
// owns it. It is safe to defer Close directly after Open; all exit paths of
// the owning scope then persist pending changes.
func (cs *ConfigStore) Close() error {
	var err error
	if cs.dirty {
		err = cs.Save()
	}

	if cs.ownsSink {
		if closer, ok := cs.sink.(io.Closer); ok {
			if closeErr := closer.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}

	return err
}

// String is a convenience helper for building optional values in place.
func String(v string) *string {
	return &v
}
