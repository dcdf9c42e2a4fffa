package editor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/schema"
)

// SettingsKey is the single namespaced key the settings live under.
const SettingsKey = "codebench.editor.settings"

// SettingsStore loads and saves editor settings. Load never fails; Save is
// best effort.
type SettingsStore interface {
	Load(ctx context.Context) Settings
	Save(ctx context.Context, s Settings)
}

// KV is durable string key/value storage.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

var settingsSchema = schema.Definition{
	Name: "editor-settings",
	Source: `{
		"type": "object",
		"required": ["theme", "fontSize", "minimapEnabled", "wordWrap"],
		"properties": {
			"theme": {"enum": ["dark", "light"]},
			"fontSize": {"type": "integer", "minimum": 10, "maximum": 24},
			"minimapEnabled": {"type": "boolean"},
			"wordWrap": {"enum": ["on", "off"]}
		}
	}`,
}

// KVSettingsStore persists settings as one JSON document in a KV.
type KVSettingsStore struct {
	kv     KV
	logger *slog.Logger
}

// NewKVSettingsStore returns a store over kv. A nil logger discards.
func NewKVSettingsStore(kv KV, logger *slog.Logger) *KVSettingsStore {
	return &KVSettingsStore{kv: kv, logger: logging.OrDiscard(logger)}
}

// Load returns the stored settings, or the defaults when the key is missing,
// unreadable or fails validation.
func (s *KVSettingsStore) Load(ctx context.Context) Settings {
	raw, ok, err := s.kv.Get(ctx, SettingsKey)
	if err != nil {
		s.logger.Warn("load editor settings", "err", err)
		return DefaultSettings()
	}
	if !ok {
		return DefaultSettings()
	}

	if err := schema.ValidateJSON(settingsSchema, []byte(raw)); err != nil {
		s.logger.Warn("stored editor settings are malformed, using defaults", "err", err)
		return DefaultSettings()
	}
	var out Settings
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.Warn("decode editor settings", "err", err)
		return DefaultSettings()
	}
	return out
}

// Save writes settings. Failures are logged and dropped.
func (s *KVSettingsStore) Save(ctx context.Context, settings Settings) {
	b, err := json.Marshal(settings)
	if err != nil {
		s.logger.Warn("encode editor settings", "err", err)
		return
	}
	if err := s.kv.Set(ctx, SettingsKey, string(b)); err != nil {
		s.logger.Warn("save editor settings", "err", err)
	}
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
