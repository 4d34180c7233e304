package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mconfdb/mconf/pkg/codec"
)

func TestConfigStore_BasicOperations(t *testing.T) {
	cs, err := New(&MemorySink{}, "")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// Set and Get
	if err := cs.Set("host", String("localhost")); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}
	value, err := cs.Get("host")
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}
	if value == nil || *value != "localhost" {
		t.Errorf("Value mismatch: got %v, want localhost", value)
	}

	// Overwrite
	if err := cs.Set("host", String("example.com")); err != nil {
		t.Fatalf("Failed to overwrite key: %v", err)
	}
	value, _ = cs.Get("host")
	if value == nil || *value != "example.com" {
		t.Errorf("Overwritten value mismatch: got %v", value)
	}

	// Get missing key
	if _, err := cs.Get("missing"); !IsKeyNotFound(err) {
		t.Errorf("Expected KeyError for missing key, got %v", err)
	}

	// TryGet
	if _, ok := cs.TryGet("missing"); ok {
		t.Error("TryGet reported a missing key as present")
	}
	if value, ok := cs.TryGet("host"); !ok || value == nil || *value != "example.com" {
		t.Errorf("TryGet mismatch: got %v, %t", value, ok)
	}

	// ContainsKey and Count
	if !cs.ContainsKey("host") {
		t.Error("ContainsKey missed an existing key")
	}
	if cs.ContainsKey("missing") {
		t.Error("ContainsKey reported a missing key")
	}
	if cs.Count() != 1 {
		t.Errorf("Count mismatch: got %d, want 1", cs.Count())
	}

	// Remove
	if err := cs.Remove("host"); err != nil {
		t.Fatalf("Failed to remove key: %v", err)
	}
	if _, err := cs.Get("host"); !IsKeyNotFound(err) {
		t.Errorf("Expected KeyError after remove, got %v", err)
	}
	if err := cs.Remove("host"); !IsKeyNotFound(err) {
		t.Errorf("Expected KeyError for double remove, got %v", err)
	}
}

func TestConfigStore_NilValues(t *testing.T) {
	cs, err := New(&MemorySink{}, "")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := cs.Set("flag", nil); err != nil {
		t.Fatalf("Failed to set nil value: %v", err)
	}

	// Present-with-nil is distinct from absent.
	value, err := cs.Get("flag")
	if err != nil {
		t.Fatalf("Failed to get nil-valued key: %v", err)
	}
	if value != nil {
		t.Errorf("Expected nil value, got %q", *value)
	}
	if !cs.ContainsKey("flag") {
		t.Error("Nil-valued key not reported as present")
	}
	if cs.Count() != 1 {
		t.Errorf("Nil-valued key not counted: got %d", cs.Count())
	}
}

func TestConfigStore_FieldValidation(t *testing.T) {
	cs, err := New(&MemorySink{}, "")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// Exactly 255 bytes is fine.
	boundary := strings.Repeat("x", 255)
	if err := cs.Set(boundary, String(boundary)); err != nil {
		t.Errorf("Boundary-sized entry rejected: %v", err)
	}

	// 256 bytes fails before any encode happens.
	if err := cs.Set(strings.Repeat("x", 256), nil); !codec.IsFormatError(err) {
		t.Errorf("Expected FormatError for oversized key, got %v", err)
	}
	if err := cs.Set("k", String(strings.Repeat("x", 256))); !codec.IsFormatError(err) {
		t.Errorf("Expected FormatError for oversized value, got %v", err)
	}
	if err := cs.Set("", nil); !codec.IsFormatError(err) {
		t.Errorf("Expected FormatError for empty key, got %v", err)
	}
}

func TestConfigStore_DirtyTracking(t *testing.T) {
	cs, err := New(&MemorySink{}, "")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if cs.Dirty() {
		t.Error("Fresh store reported dirty")
	}

	if err := cs.Set("k", String("v")); err != nil {
		t.Fatal(err)
	}
	if !cs.Dirty() {
		t.Error("Set did not mark the store dirty")
	}

	if err := cs.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if cs.Dirty() {
		t.Error("Save did not clear the dirty flag")
	}

	if err := cs.Remove("k"); err != nil {
		t.Fatal(err)
	}
	if !cs.Dirty() {
		t.Error("Remove did not mark the store dirty")
	}

	if err := cs.Save(); err != nil {
		t.Fatal(err)
	}
	cs.SetSecret("new secret")
	if !cs.Dirty() {
		t.Error("SetSecret did not mark the store dirty")
	}
}

func TestConfigStore_SaveAndReload(t *testing.T) {
	sink := &MemorySink{}
	cs, err := New(sink, "reload-secret")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := cs.Set("alpha", String("one")); err != nil {
		t.Fatal(err)
	}
	if err := cs.Set("beta", nil); err != nil {
		t.Fatal(err)
	}
	if err := cs.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if sink.Len() != codec.BufferSize {
		t.Errorf("Sink size mismatch: got %d, want %d", sink.Len(), codec.BufferSize)
	}

	// A second store over the same sink sees the persisted content.
	reopened, err := New(sink, "reload-secret")
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	value, err := reopened.Get("alpha")
	if err != nil || value == nil || *value != "one" {
		t.Errorf("Reloaded value mismatch: got %v, err %v", value, err)
	}
	value, err = reopened.Get("beta")
	if err != nil {
		t.Fatalf("Nil-valued key lost across reload: %v", err)
	}
	if value != nil {
		t.Errorf("Nil value came back as %q", *value)
	}
}

func TestConfigStore_LoadReplacesMap(t *testing.T) {
	sink := &MemorySink{}
	cs, err := New(sink, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := cs.Set("persisted", String("yes")); err != nil {
		t.Fatal(err)
	}
	if err := cs.Save(); err != nil {
		t.Fatal(err)
	}

	// Unsaved mutations disappear on an explicit reload.
	if err := cs.Set("scratch", String("gone")); err != nil {
		t.Fatal(err)
	}
	if err := cs.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cs.ContainsKey("scratch") {
		t.Error("Load kept an unsaved key")
	}
	if !cs.ContainsKey("persisted") {
		t.Error("Load lost a persisted key")
	}
	if cs.Dirty() {
		t.Error("Load left the store dirty")
	}
}

func TestConfigStore_ConstructionFailsOnCorruptSink(t *testing.T) {
	corrupt := append([]byte("XXXXX\x00"), bytes.Repeat([]byte{0xAB}, 64)...)
	_, err := New(NewMemorySink(corrupt), "")
	if !codec.IsFormatError(err) {
		t.Errorf("Expected FormatError from construction, got %v", err)
	}
}

func TestConfigStore_CapacityExceededLeavesSinkUnchanged(t *testing.T) {
	sink := &MemorySink{}
	cs, err := New(sink, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := cs.Set("small", String("entry")); err != nil {
		t.Fatal(err)
	}
	if err := cs.Save(); err != nil {
		t.Fatal(err)
	}
	before := make([]byte, sink.Len())
	copy(before, sink.Bytes())

	// Push the map past the blob capacity.
	for i := 0; i < 40; i++ {
		key := strings.Repeat("k", 240) + string(rune('a'+i%26)) + string(rune('a'+i/26))
		if err := cs.Set(key, String(strings.Repeat("v", 255))); err != nil {
			t.Fatal(err)
		}
	}

	err = cs.Save()
	if !codec.IsFormatError(err) {
		t.Fatalf("Expected FormatError from oversized save, got %v", err)
	}
	if !bytes.Equal(sink.Bytes(), before) {
		t.Error("Failed save modified the sink")
	}
}

func TestConfigStore_OpenCloseFlushesDirty(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mconf_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "settings.mconf")

	cs, err := Open(path, "file-secret")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if cs.Count() != 0 {
		t.Errorf("Fresh file decoded to %d keys", cs.Count())
	}
	if err := cs.Set("endpoint", String("https://example.com")); err != nil {
		t.Fatal(err)
	}

	// Close flushes without an explicit Save.
	if err := cs.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Backing file missing: %v", err)
	}
	if info.Size() != codec.BufferSize {
		t.Errorf("File size mismatch: got %d, want %d", info.Size(), codec.BufferSize)
	}

	reopened, err := Open(path, "file-secret")
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, err := reopened.Get("endpoint")
	if err != nil || value == nil || *value != "https://example.com" {
		t.Errorf("Flushed value mismatch: got %v, err %v", value, err)
	}
}

func TestConfigStore_CloseWithoutChangesDoesNotSave(t *testing.T) {
	sink := &MemorySink{}
	cs, err := New(sink, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := cs.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sink.Len() != 0 {
		t.Errorf("Clean close wrote %d bytes to the sink", sink.Len())
	}
}

func TestConfigStore_SecretRotation(t *testing.T) {
	sink := &MemorySink{}
	cs, err := New(sink, "old-secret")
	if err != nil {
		t.Fatal(err)
	}
	if err := cs.Set("api_key", String("abcdef")); err != nil {
		t.Fatal(err)
	}
	if err := cs.Save(); err != nil {
		t.Fatal(err)
	}

	cs.SetSecret("new-secret")
	if err := cs.Save(); err != nil {
		t.Fatalf("Save after rotation failed: %v", err)
	}

	// Readable with the new secret.
	reopened, err := New(sink, "new-secret")
	if err != nil {
		t.Fatalf("Reopen with new secret failed: %v", err)
	}
	value, err := reopened.Get("api_key")
	if err != nil || value == nil || *value != "abcdef" {
		t.Errorf("Rotated store lost data: got %v, err %v", value, err)
	}

	// The old secret no longer works: construction fails or the content is
	// garbage.
	stale, err := New(sink, "old-secret")
	if err == nil {
		if value, ok := stale.TryGet("api_key"); ok && value != nil && *value == "abcdef" {
			t.Error("Old secret still decodes the rotated store")
		}
	}
}
