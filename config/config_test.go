package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/liutizhong/PBChatbot/chat"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNormalized(t *testing.T) {
	s := Settings{APIURL: "  https://api.example.com/chat  ", APIKey: " k1 "}.Normalized()
	if s.APIURL != "https://api.example.com/chat" {
		t.Fatalf("APIURL = %q", s.APIURL)
	}
	if s.APIKey != "k1" {
		t.Fatalf("APIKey = %q", s.APIKey)
	}
	if s.AuthType != "Bearer" {
		t.Fatalf("AuthType = %q, want default Bearer", s.AuthType)
	}
}

func TestChatConfig(t *testing.T) {
	s := Settings{APIURL: "https://api.example.com/chat", APIKey: "k1", AuthType: "apikey"}
	cfg := s.ChatConfig()
	want := chat.Config{
		EndpointURL: "https://api.example.com/chat",
		Credential:  "k1",
		Auth:        chat.AuthAPIKey,
	}
	if cfg != want {
		t.Fatalf("ChatConfig() = %+v, want %+v", cfg, want)
	}
}

func TestMaskedKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "****"},
		{"sk-1234567890abcdef", "****cdef"},
	}
	for _, tc := range cases {
		if got := (Settings{APIKey: tc.key}).MaskedKey(); got != tc.want {
			t.Errorf("MaskedKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
api_url: https://api.example.com/chat
api_key: sk-test
auth_type: none
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := m.Get()
	want := Settings{APIURL: "https://api.example.com/chat", APIKey: "sk-test", AuthType: "none"}
	if got != want {
		t.Fatalf("Get() = %+v, want %+v", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, "settings.yaml", "api_url: https://api.example.com/chat\n")
	m, err := Load(path, WithDefaults(Default()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Get().AuthType; got != "Bearer" {
		t.Fatalf("AuthType = %q, want Bearer", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

func TestUpdateNotifiesWatchers(t *testing.T) {
	m := New(Default())

	var gotOld, gotNew Settings
	calls := 0
	m.OnChange(func(old, new Settings) {
		gotOld, gotNew = old, new
		calls++
	})

	next := Settings{APIURL: "https://api.example.com/chat", AuthType: "Bearer"}
	m.Update(next)

	if calls != 1 {
		t.Fatalf("watcher calls = %d, want 1", calls)
	}
	if gotOld != Default() {
		t.Fatalf("old = %+v", gotOld)
	}
	if gotNew != next {
		t.Fatalf("new = %+v", gotNew)
	}
	if m.Get() != next {
		t.Fatalf("Get() = %+v", m.Get())
	}
}

func TestUpdateNoOpSkipsWatchers(t *testing.T) {
	m := New(Settings{APIURL: "https://api.example.com/chat"})
	calls := 0
	m.OnChange(func(_, _ Settings) { calls++ })

	// Same settings after normalization.
	m.Update(Settings{APIURL: "  https://api.example.com/chat  "})
	if calls != 0 {
		t.Fatalf("watcher calls = %d, want 0", calls)
	}
}

func TestWatcherPanicDoesNotPoisonManager(t *testing.T) {
	m := New(Default())
	m.OnChange(func(_, _ Settings) { panic("boom") })

	seen := false
	m.OnChange(func(_, _ Settings) { seen = true })

	m.Update(Settings{APIURL: "https://api.example.com/chat"})
	if !seen {
		t.Fatal("second watcher not called after panic in first")
	}
}
