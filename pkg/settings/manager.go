// Package settings 管理跨会话保存的用户设置
package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/utils"
)

// Settings 用户设置
// 注意：粒子场的结构参数在 data/field.yaml 中，这里只保存用户可切换的选项
type Settings struct {
	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowStats  bool `yaml:"showStats"`  // 是否显示帧率/档位统计

	// Accent 覆盖配置文件中的强调色，空字符串表示不覆盖
	Accent string `yaml:"accent,omitempty"`

	// RememberQuality 启动时是否恢复上次的自适应画质档位
	RememberQuality bool `yaml:"rememberQuality"`
	// LastQualityTier 上次记录的档位
	LastQualityTier int `yaml:"lastQualityTier"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{}
}

// Manager 设置管理器
// 负责设置的加载、保存和内存管理
type Manager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *Settings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "field"
)

// NewManager 创建设置管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不影响创建，此时使用默认设置。
func NewManager(gdataManager *gdata.Manager) *Manager {
	m := &Manager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := m.Load(); err != nil {
		log.Printf("[Settings] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return m
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或文件不存在时使用默认设置
func (m *Manager) Load() error {
	if m.gdataManager == nil {
		m.settings = DefaultSettings()
		return nil
	}

	if !m.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = DefaultSettings()
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		m.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	// 强调色不合法时丢弃覆盖，其余设置照常使用
	if loaded.Accent != "" {
		if _, err := utils.ParseAccent(loaded.Accent); err != nil {
			log.Printf("[Settings] Ignoring invalid accent %q: %v", loaded.Accent, err)
			loaded.Accent = ""
		}
	}
	if loaded.LastQualityTier < 0 {
		loaded.LastQualityTier = 0
	}

	m.settings = &loaded
	log.Printf("[Settings] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := m.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[Settings] Settings saved successfully")
	return nil
}

// Get 当前设置
func (m *Manager) Get() *Settings {
	return m.settings
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 持久化
func (m *Manager) SetFullscreen(enabled bool) {
	m.settings.Fullscreen = enabled
}

// SetShowStats 设置统计信息显示
func (m *Manager) SetShowStats(enabled bool) {
	m.settings.ShowStats = enabled
}

// SetAccent 设置强调色覆盖，空字符串清除覆盖
// 保存的值统一为小写 "#rrggbb"
func (m *Manager) SetAccent(hex string) error {
	if hex == "" {
		m.settings.Accent = ""
		return nil
	}
	accent, err := utils.ParseAccent(hex)
	if err != nil {
		return err
	}
	m.settings.Accent = accent.Hex()
	return nil
}

// SetRememberQuality 设置是否恢复画质档位
func (m *Manager) SetRememberQuality(enabled bool) {
	m.settings.RememberQuality = enabled
}

// RecordTier 记录最新的画质档位
func (m *Manager) RecordTier(tier int) {
	if tier < 0 {
		tier = 0
	}
	m.settings.LastQualityTier = tier
}

// RestoredTier 启动时应恢复的档位，未开启 RememberQuality 时为 0
func (m *Manager) RestoredTier() int {
	if !m.settings.RememberQuality {
		return 0
	}
	return m.settings.LastQualityTier
}

// Apply 把设置中的覆盖项写入粒子场配置
func (m *Manager) Apply(cfg *config.FieldConfig) {
	if m.settings.Accent != "" {
		cfg.Accent = m.settings.Accent
	}
}
