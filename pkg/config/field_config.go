package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FieldConfig 粒子场配置
//
// 包含图层定义、指针交互、滚动视差、物理常量、自适应画质等全部参数。
// 所有距离单位都是宿主区域的逻辑像素（未乘以设备像素比）。
//
// 配置文件位置: data/field.yaml
type FieldConfig struct {
	// Accent 强调色（十六进制，如 "#58a6ff"），所有绘制元素共用，只有透明度不同
	Accent string `yaml:"accent"`

	// Layers 深度图层列表（从近景到远景的顺序无要求，索引越大 wander 越强）
	Layers []LayerConfig `yaml:"layers"`

	// BlobCount 背景光斑数量
	BlobCount int `yaml:"blobCount"`

	// MobileBreakpoint 视口宽度小于该值时视为移动端
	MobileBreakpoint float64 `yaml:"mobileBreakpoint"`

	// MobileDensity 移动端粒子密度系数
	MobileDensity float64 `yaml:"mobileDensity"`

	// DPRCap 设备像素比上限
	DPRCap float64 `yaml:"dprCap"`

	// GridCellSize 空间网格单元尺寸
	GridCellSize float64 `yaml:"gridCellSize"`

	// ResizeDebounceMs 窗口尺寸变化的防抖窗口（毫秒）
	ResizeDebounceMs int `yaml:"resizeDebounceMs"`

	Pointer PointerConfig `yaml:"pointer"`
	Scroll  ScrollConfig  `yaml:"scroll"`
	Physics PhysicsConfig `yaml:"physics"`
	Render  RenderConfig  `yaml:"render"`
	Quality QualityConfig `yaml:"quality"`
}

// LayerConfig 单个深度图层的配置
type LayerConfig struct {
	Count         int     `yaml:"count"`
	SizeMin       float64 `yaml:"sizeMin"`
	SizeMax       float64 `yaml:"sizeMax"`
	Alpha         float64 `yaml:"alpha"`
	Speed         float64 `yaml:"speed"`
	Lines         bool    `yaml:"lines"`
	LineRange     float64 `yaml:"lineRange,omitempty"`
	Glow          bool    `yaml:"glow"`
	Parallax      float64 `yaml:"parallax"`
	MouseStrength float64 `yaml:"mouseStrength"`
}

// PointerConfig 指针（鼠标/触摸）交互配置
type PointerConfig struct {
	// InfluenceRadius 吸引力作用半径
	InfluenceRadius float64 `yaml:"influenceRadius"`
	// IdleMs 指针静止多久后失效（毫秒）
	IdleMs int `yaml:"idleMs"`
	// HighlightRadius 指针光晕半径
	HighlightRadius float64 `yaml:"highlightRadius"`
	// HighlightAlpha 指针光晕中心透明度
	HighlightAlpha float64 `yaml:"highlightAlpha"`
}

// ScrollConfig 滚动视差配置
type ScrollConfig struct {
	VelocityFactor float64 `yaml:"velocityFactor"`
	VelocityDecay  float64 `yaml:"velocityDecay"`
	// ParallaxScale 滚动速度到水平漂移的额外缩放
	ParallaxScale float64 `yaml:"parallaxScale"`
}

// PhysicsConfig 每帧物理积分参数
type PhysicsConfig struct {
	WanderStrength float64 `yaml:"wanderStrength"`
	// WanderLayerScale 每深一层 wander 增加的比例
	WanderLayerScale float64 `yaml:"wanderLayerScale"`
	Damping          float64 `yaml:"damping"`
	// MaxSpeedFactor 速度上限 = 图层速度 * MaxSpeedFactor
	MaxSpeedFactor float64 `yaml:"maxSpeedFactor"`
	// WrapMargin 越过边界多少后从对侧重新出现
	WrapMargin float64 `yaml:"wrapMargin"`
}

// RenderConfig 绘制参数
type RenderConfig struct {
	LineWidth        float64 `yaml:"lineWidth"`
	LineAlphaScale   float64 `yaml:"lineAlphaScale"`
	GlowRadiusFactor float64 `yaml:"glowRadiusFactor"`
	GlowAlphaScale   float64 `yaml:"glowAlphaScale"`
	BlobAlpha        float64 `yaml:"blobAlpha"`
}

// QualityConfig 移动端自适应画质配置
type QualityConfig struct {
	// Tiers 画质档位密度系数，索引 0 为最高画质（必须为 1）
	Tiers []float64 `yaml:"tiers"`
	// WindowMs 帧率统计窗口（毫秒）
	WindowMs int `yaml:"windowMs"`
	// LowFPS 低于该帧率的窗口计为低性能窗口
	LowFPS float64 `yaml:"lowFps"`
	// HighFPS 高于该帧率的窗口计为高性能窗口
	HighFPS float64 `yaml:"highFps"`
	// LowWindows 连续多少个低性能窗口后降档
	LowWindows int `yaml:"lowWindows"`
	// HighWindows 连续多少个高性能窗口后升档
	HighWindows int `yaml:"highWindows"`
	// WarnCooldownMs 性能告警的最小间隔（毫秒）
	WarnCooldownMs int `yaml:"warnCooldownMs"`
}

// DefaultFieldConfig 返回内置默认配置
//
// 数值与 data/field.yaml 保持一致，在配置文件缺失时使用。
func DefaultFieldConfig() *FieldConfig {
	return &FieldConfig{
		Accent: "#58a6ff",
		Layers: []LayerConfig{
			{Count: 65, SizeMin: 0.8, SizeMax: 1.2, Alpha: 0.18, Speed: 0.15, Parallax: 0.02, MouseStrength: 0.002},
			{Count: 39, SizeMin: 1.5, SizeMax: 2.5, Alpha: 0.35, Speed: 0.3, Lines: true, LineRange: 150, Parallax: 0.05, MouseStrength: 0.008},
			{Count: 16, SizeMin: 2.5, SizeMax: 4, Alpha: 0.5, Speed: 0.5, Lines: true, LineRange: 180, Glow: true, Parallax: 0.1, MouseStrength: 0.015},
		},
		BlobCount:        3,
		MobileBreakpoint: 768,
		MobileDensity:    0.5,
		DPRCap:           2,
		GridCellSize:     200,
		ResizeDebounceMs: 200,
		Pointer: PointerConfig{
			InfluenceRadius: 200,
			IdleMs:          3000,
			HighlightRadius: 120,
			HighlightAlpha:  0.06,
		},
		Scroll: ScrollConfig{
			VelocityFactor: 0.3,
			VelocityDecay:  0.95,
			ParallaxScale:  0.1,
		},
		Physics: PhysicsConfig{
			WanderStrength:   0.02,
			WanderLayerScale: 0.5,
			Damping:          0.99,
			MaxSpeedFactor:   3,
			WrapMargin:       20,
		},
		Render: RenderConfig{
			LineWidth:        0.5,
			LineAlphaScale:   0.6,
			GlowRadiusFactor: 8,
			GlowAlphaScale:   0.15,
			BlobAlpha:        0.03,
		},
		Quality: QualityConfig{
			Tiers:          []float64{1, 0.82, 0.65},
			WindowMs:       2400,
			LowFPS:         20,
			HighFPS:        27,
			LowWindows:     2,
			HighWindows:    3,
			WarnCooldownMs: 12000,
		},
	}
}

// LoadFieldConfig 加载粒子场配置
//
// 参数:
//   - path: 配置文件路径（如 "data/field.yaml"）
//
// 返回:
//   - *FieldConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadFieldConfig(path string) (*FieldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field config: %w", err)
	}
	return ParseFieldConfig(data)
}

// ParseFieldConfig 从 YAML 数据解析粒子场配置
//
// 未出现在 YAML 中的字段保留默认值，因此配置文件可以只覆盖部分参数。
func ParseFieldConfig(data []byte) (*FieldConfig, error) {
	cfg := DefaultFieldConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse field config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 至少一个图层，且尺寸范围、速度、透明度合法
//   - 画绘线的图层必须有正的 lineRange
//   - 画质档位非空、首档为 1、单调不增
//   - 低帧率阈值小于高帧率阈值（否则没有迟滞区间）
func (c *FieldConfig) Validate() error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("at least one layer is required")
	}

	for i, layer := range c.Layers {
		if layer.Count < 0 {
			return fmt.Errorf("layer %d: count must be >= 0, got %d", i, layer.Count)
		}
		if layer.SizeMin <= 0 || layer.SizeMin > layer.SizeMax {
			return fmt.Errorf("layer %d: size range invalid: min(%.2f) max(%.2f)", i, layer.SizeMin, layer.SizeMax)
		}
		if layer.Alpha < 0 || layer.Alpha > 1 {
			return fmt.Errorf("layer %d: alpha must be within [0, 1], got %.2f", i, layer.Alpha)
		}
		if layer.Speed <= 0 {
			return fmt.Errorf("layer %d: speed must be > 0, got %.2f", i, layer.Speed)
		}
		if layer.Lines && layer.LineRange <= 0 {
			return fmt.Errorf("layer %d: lines enabled but lineRange is %.1f", i, layer.LineRange)
		}
	}

	if c.GridCellSize <= 0 {
		return fmt.Errorf("gridCellSize must be > 0, got %.1f", c.GridCellSize)
	}
	if c.MobileDensity <= 0 || c.MobileDensity > 1 {
		return fmt.Errorf("mobileDensity must be within (0, 1], got %.2f", c.MobileDensity)
	}
	if c.DPRCap < 1 {
		return fmt.Errorf("dprCap must be >= 1, got %.1f", c.DPRCap)
	}
	if c.Physics.WrapMargin < 0 {
		return fmt.Errorf("wrapMargin must be >= 0, got %.1f", c.Physics.WrapMargin)
	}

	q := c.Quality
	if len(q.Tiers) == 0 {
		return fmt.Errorf("quality tiers must not be empty")
	}
	if q.Tiers[0] != 1 {
		return fmt.Errorf("quality tier 0 must be 1 (full density), got %.2f", q.Tiers[0])
	}
	for i := 1; i < len(q.Tiers); i++ {
		if q.Tiers[i] <= 0 || q.Tiers[i] > q.Tiers[i-1] {
			return fmt.Errorf("quality tier %d (%.2f) must be in (0, %.2f]", i, q.Tiers[i], q.Tiers[i-1])
		}
	}
	if q.LowFPS >= q.HighFPS {
		return fmt.Errorf("lowFps(%.1f) must be below highFps(%.1f)", q.LowFPS, q.HighFPS)
	}
	if q.WindowMs <= 0 || q.LowWindows <= 0 || q.HighWindows <= 0 {
		return fmt.Errorf("quality window and streak lengths must be > 0")
	}

	return nil
}

// ResizeDebounce 返回窗口尺寸变化的防抖窗口
func (c *FieldConfig) ResizeDebounce() time.Duration {
	return time.Duration(c.ResizeDebounceMs) * time.Millisecond
}

// PointerIdle 返回指针失效超时
func (c *FieldConfig) PointerIdle() time.Duration {
	return time.Duration(c.Pointer.IdleMs) * time.Millisecond
}

// Window 返回帧率统计窗口时长
func (q QualityConfig) Window() time.Duration {
	return time.Duration(q.WindowMs) * time.Millisecond
}

// WarnCooldown 返回性能告警冷却时长
func (q QualityConfig) WarnCooldown() time.Duration {
	return time.Duration(q.WarnCooldownMs) * time.Millisecond
}
