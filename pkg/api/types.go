package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// KeyValue is the wire form of one configuration entry. A null value means
// the key is present without a value.
type KeyValue struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// SetValueRequest is the body of a PUT /kv/{key} request.
type SetValueRequest struct {
	Value *string `json:"value"`
}

// RotateSecretRequest is the body of a POST /secret request.
type RotateSecretRequest struct {
	Secret string `json:"secret"`
}

// StatsResponse reports store statistics.
type StatsResponse struct {
	Keys  int  `json:"keys"`
	Dirty bool `json:"dirty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}

// IConfigStore defines the store surface the API needs.
type IConfigStore interface {
	Get(key string) (*string, error)
	TryGet(key string) (*string, bool)
	Set(key string, value *string) error
	Remove(key string) error
	Keys() []string
	Count() int
	Dirty() bool
	SetSecret(secret string)
	Save() error
}
