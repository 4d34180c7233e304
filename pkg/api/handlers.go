package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/mconfdb/mconf/pkg/codec"
	"github.com/mconfdb/mconf/pkg/store"
)

// Server holds the API server state. The underlying store is not safe for
// concurrent use, so every handler serializes access through mu.
type Server struct {
	store   IConfigStore
	config  ServerConfig
	metrics *Metrics
	mu      sync.Mutex
}

// NewServer creates a new API server
func NewServer(store IConfigStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleGet returns the value for a single key. A present key with no value
// yields a null value in the response.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key, ok := urlKey(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	value, err := s.store.Get(key)
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordStoreOperation("get", false)
		if store.IsKeyNotFound(err) {
			sendError(w, err.Error(), http.StatusNotFound)
			return
		}
		sendError(w, fmt.Sprintf("Failed to get key: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordStoreOperation("get", true)
	sendSuccess(w, KeyValue{Key: key, Value: value})
}

// handleSet inserts or overwrites a key. The body is {"value": ...} where a
// null (or omitted) value stores the key with no value.
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	key, ok := urlKey(w, r)
	if !ok {
		return
	}

	var req SetValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordStoreOperation("set", false)
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.store.Set(key, req.Value)
	keys := s.store.Count()
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordStoreOperation("set", false)
		if codec.IsFormatError(err) {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		sendError(w, fmt.Sprintf("Failed to set key: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordStoreOperation("set", true)
	s.metrics.UpdateStoreStats(keys)
	sendSuccess(w, KeyValue{Key: key, Value: req.Value})
}

// handleDelete removes a key.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key, ok := urlKey(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	err := s.store.Remove(key)
	keys := s.store.Count()
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordStoreOperation("delete", false)
		if store.IsKeyNotFound(err) {
			sendError(w, err.Error(), http.StatusNotFound)
			return
		}
		sendError(w, fmt.Sprintf("Failed to delete key: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordStoreOperation("delete", true)
	s.metrics.UpdateStoreStats(keys)
	sendSuccess(w, map[string]string{"deleted": key})
}

// handleList returns every entry in key order.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	keys := s.store.Keys()
	entries := make([]KeyValue, 0, len(keys))
	for _, key := range keys {
		value, _ := s.store.TryGet(key)
		entries = append(entries, KeyValue{Key: key, Value: value})
	}
	s.mu.Unlock()

	s.metrics.RecordStoreOperation("list", true)
	sendSuccess(w, entries)
}

// handleRotateSecret swaps the obfuscation secret and immediately persists
// the blob under the new secret.
func (s *Server) handleRotateSecret(w http.ResponseWriter, r *http.Request) {
	var req RotateSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordStoreOperation("rotate_secret", false)
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.store.SetSecret(req.Secret)
	err := s.store.Save()
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordStoreOperation("rotate_secret", false)
		sendError(w, fmt.Sprintf("Failed to save store: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordStoreOperation("rotate_secret", true)
	sendSuccess(w, map[string]string{"status": "secret rotated"})
}

// handleSave flushes pending changes to the backing sink.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.store.Save()
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordStoreOperation("save", false)
		if codec.IsFormatError(err) {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		sendError(w, fmt.Sprintf("Failed to save store: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordStoreOperation("save", true)
	sendSuccess(w, map[string]string{"status": "saved"})
}

// handleStats reports the key count and dirty state.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := StatsResponse{
		Keys:  s.store.Count(),
		Dirty: s.store.Dirty(),
	}
	s.mu.Unlock()

	s.metrics.UpdateStoreStats(stats.Keys)
	sendSuccess(w, stats)
}

// urlKey extracts and unescapes the key path parameter, answering the
// request itself when the key is missing or malformed.
func urlKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "key")
	if raw == "" {
		sendError(w, "Key is required", http.StatusBadRequest)
		return "", false
	}
	key, err := url.QueryUnescape(raw)
	if err != nil {
		sendError(w, "Invalid key encoding", http.StatusBadRequest)
		return "", false
	}
	return key, true
}
