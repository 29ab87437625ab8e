// Package config manages the host-facing chat settings: file loading with
// automatic reload on change, environment binding, programmatic updates,
// and readback for a settings surface. The core chat client never reads
// this package directly; it receives a read-only snapshot per exchange.
package config

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/liutizhong/PBChatbot/chat"
)

// Settings is the declarative shape the host supplies. Missing fields keep
// their zero value except AuthType, which defaults to Bearer.
type Settings struct {
	APIURL   string `mapstructure:"api_url" json:"apiUrl"`
	APIKey   string `mapstructure:"api_key" json:"apiKey"`
	AuthType string `mapstructure:"auth_type" json:"authType"`
}

// Default returns the settings used before anything is configured.
func Default() Settings {
	return Settings{AuthType: "Bearer"}
}

// Normalized trims whitespace and fills the AuthType default.
func (s Settings) Normalized() Settings {
	s.APIURL = strings.TrimSpace(s.APIURL)
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.AuthType = strings.TrimSpace(s.AuthType)
	if s.AuthType == "" {
		s.AuthType = "Bearer"
	}
	return s
}

// ChatConfig maps the host settings onto the client's request snapshot.
func (s Settings) ChatConfig() chat.Config {
	n := s.Normalized()
	return chat.Config{
		EndpointURL: n.APIURL,
		Credential:  n.APIKey,
		Auth:        chat.ParseAuthMode(n.AuthType),
	}
}

// MaskedKey is the credential as shown on a settings surface. The full key
// never leaves this package through readback.
func (s Settings) MaskedKey() string {
	k := strings.TrimSpace(s.APIKey)
	switch {
	case k == "":
		return "(not set)"
	case len(k) <= 8:
		return "****"
	default:
		return "****" + k[len(k)-4:]
	}
}

// Manager holds the current settings and notifies watchers on every
// effective change, whether it came from a file reload or a programmatic
// Update. Safe for concurrent use.
type Manager struct {
	v *viper.Viper

	mu       sync.RWMutex
	cur      Settings
	watchers []func(old, new Settings)

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// Option configures a Manager during Load.
type Option func(*Manager)

// WithDefaults seeds values for keys the file omits.
func WithDefaults(s Settings) Option {
	return func(m *Manager) {
		m.v.SetDefault("api_url", s.APIURL)
		m.v.SetDefault("api_key", s.APIKey)
		m.v.SetDefault("auth_type", s.AuthType)
	}
}

// WithEnv binds PREFIX_API_URL, PREFIX_API_KEY and PREFIX_AUTH_TYPE.
func WithEnv(prefix string) Option {
	return func(m *Manager) {
		m.v.SetEnvPrefix(prefix)
		m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		m.v.AutomaticEnv()
	}
}

// New creates an in-memory manager for hosts that push settings
// programmatically instead of through a file.
func New(s Settings) *Manager {
	return &Manager{v: viper.New(), cur: s.Normalized()}
}

// Load reads a settings file and watches it for changes. Reloads are
// debounced because editors commonly fire several filesystem events per
// save.
func Load(path string, opts ...Option) (*Manager, error) {
	v := viper.New()
	v.SetConfigFile(path)

	m := &Manager{v: v, cur: Default()}
	for _, opt := range opts {
		opt(m)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	m.cur = s.Normalized()

	m.watch()
	return m, nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Update replaces the current settings from the host.
func (m *Manager) Update(s Settings) {
	m.apply(s.Normalized())
}

// OnChange registers a callback invoked with the old and new settings after
// every effective change. Callbacks run on the updating goroutine.
func (m *Manager) OnChange(fn func(old, new Settings)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

func (m *Manager) apply(s Settings) {
	m.mu.Lock()
	old := m.cur
	if s == old {
		m.mu.Unlock()
		return
	}
	m.cur = s
	watchers := make([]func(old, new Settings), len(m.watchers))
	copy(watchers, m.watchers)
	m.mu.Unlock()

	for _, fn := range watchers {
		func() {
			defer func() { _ = recover() }()
			fn(old, s)
		}()
	}
}

func (m *Manager) watch() {
	m.v.OnConfigChange(func(_ fsnotify.Event) {
		m.debounceMu.Lock()
		if m.debounceTimer != nil {
			m.debounceTimer.Stop()
		}
		m.debounceTimer = time.AfterFunc(100*time.Millisecond, m.reload)
		m.debounceMu.Unlock()
	})
	m.v.WatchConfig()
}

func (m *Manager) reload() {
	// A half-written file must not clobber working settings.
	if err := m.v.ReadInConfig(); err != nil {
		return
	}
	var s Settings
	if err := m.v.Unmarshal(&s); err != nil {
		return
	}
	m.apply(s.Normalized())
}
