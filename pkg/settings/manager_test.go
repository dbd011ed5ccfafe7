package settings

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/herofx/pkg/config"
)

// openTestStore 在临时 HOME 下打开 gdata 存储
func openTestStore(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_herofx_settings",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 默认全部关闭
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Fullscreen || s.ShowStats || s.RememberQuality {
		t.Errorf("defaults should be off: %+v", s)
	}
	if s.Accent != "" || s.LastQualityTier != 0 {
		t.Errorf("defaults should not override anything: %+v", s)
	}
}

// TestNilGdataDegradedMode gdataManager 为 nil 时仅在内存中工作
func TestNilGdataDegradedMode(t *testing.T) {
	m := NewManager(nil)
	m.SetFullscreen(true)
	if err := m.Save(); err != nil {
		t.Errorf("Save in degraded mode should not fail: %v", err)
	}
	if !m.Get().Fullscreen {
		t.Error("in-memory setting lost")
	}
	if err := m.Load(); err != nil {
		t.Errorf("Load in degraded mode: %v", err)
	}
	if m.Get().Fullscreen {
		t.Error("Load in degraded mode should reset to defaults")
	}
}

// TestSaveAndLoad 保存后新实例能读回
func TestSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	m := NewManager(store)
	m.SetFullscreen(true)
	m.SetShowStats(true)
	m.SetRememberQuality(true)
	m.RecordTier(2)
	if err := m.SetAccent("#ff8800"); err != nil {
		t.Fatalf("SetAccent: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewManager(store)
	got := reloaded.Get()
	if !got.Fullscreen || !got.ShowStats || !got.RememberQuality {
		t.Errorf("flags not persisted: %+v", got)
	}
	if got.Accent != "#ff8800" {
		t.Errorf("accent: got %q", got.Accent)
	}
	if reloaded.RestoredTier() != 2 {
		t.Errorf("RestoredTier: got %d, want 2", reloaded.RestoredTier())
	}
}

func TestRestoredTierRequiresOptIn(t *testing.T) {
	m := NewManager(nil)
	m.RecordTier(1)
	if m.RestoredTier() != 0 {
		t.Errorf("tier restored without opt-in: %d", m.RestoredTier())
	}
	m.SetRememberQuality(true)
	if m.RestoredTier() != 1 {
		t.Errorf("RestoredTier: got %d, want 1", m.RestoredTier())
	}
	m.RecordTier(-3)
	if m.RestoredTier() != 0 {
		t.Errorf("negative tier should clamp to 0, got %d", m.RestoredTier())
	}
}

func TestSetAccent(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		want    string
		wantErr bool
	}{
		{"valid", "#123456", "#123456", false},
		{"upper case normalised", "#FF8800", "#ff8800", false},
		{"clear", "", "", false},
		{"invalid", "not-a-colour", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil)
			err := m.SetAccent(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetAccent(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
			if !tt.wantErr && m.Get().Accent != tt.want {
				t.Errorf("accent: got %q, want %q", m.Get().Accent, tt.want)
			}
		})
	}
}

// TestLoadDropsInvalidAccent 存储中的非法强调色被丢弃，其余设置保留
func TestLoadDropsInvalidAccent(t *testing.T) {
	store := openTestStore(t)
	data := []byte("fullscreen: true\naccent: \"#zzz\"\n")
	if err := store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		t.Fatalf("SaveObjectProp: %v", err)
	}

	m := NewManager(store)
	if m.Get().Accent != "" {
		t.Errorf("invalid accent kept: %q", m.Get().Accent)
	}
	if !m.Get().Fullscreen {
		t.Error("other settings should survive")
	}
}

func TestLoadCorruptedData(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveObjectProp(settingsObject, settingsProperty, []byte("fullscreen: [")); err != nil {
		t.Fatalf("SaveObjectProp: %v", err)
	}

	m := &Manager{gdataManager: store, settings: DefaultSettings()}
	if err := m.Load(); err == nil {
		t.Error("expected unmarshal error")
	}
	if m.Get().Fullscreen {
		t.Error("corrupted data should fall back to defaults")
	}
}

func TestApply(t *testing.T) {
	cfg := config.DefaultFieldConfig()
	m := NewManager(nil)

	m.Apply(cfg)
	if cfg.Accent != "#58a6ff" {
		t.Errorf("empty override changed accent to %q", cfg.Accent)
	}

	if err := m.SetAccent("#00ff00"); err != nil {
		t.Fatalf("SetAccent: %v", err)
	}
	m.Apply(cfg)
	if cfg.Accent != "#00ff00" {
		t.Errorf("accent after Apply: got %q", cfg.Accent)
	}
}
