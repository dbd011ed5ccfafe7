// Package quality 实现移动端自适应画质控制
//
// 控制器在固定时长的窗口内统计实际帧率，并根据连续低/高帧率窗口数
// 在有限个画质档位之间升降，以牺牲粒子密度换取帧率稳定。
// 桌面端始终保持档位 0，不受影响。
package quality

import (
	"log"
	"time"

	"github.com/decker502/herofx/pkg/config"
)

// Decision 一次观测的结果
type Decision struct {
	// Changed 档位是否变化（变化时调用方需要按新密度重新生成粒子）
	Changed bool
	// Tier 观测后的档位
	Tier int
	// FPS 窗口结束时计算出的帧率，窗口未结束时为 0
	FPS float64
}

// Controller 自适应画质状态机
type Controller struct {
	cfg config.QualityConfig

	mobile bool
	tier   int

	windowOpen  bool
	windowStart time.Duration
	frames      int

	lowStreak  int
	highStreak int

	lastWarnAt time.Duration
	warned     bool
	// warnFunc 性能告警输出，默认写日志
	warnFunc func(now time.Duration, msg string)
}

// NewController 创建控制器，初始档位为 0
func NewController(cfg config.QualityConfig) *Controller {
	c := &Controller{cfg: cfg}
	c.warnFunc = func(now time.Duration, msg string) {
		log.Printf("[Quality] %s", msg)
	}
	return c
}

// Tier 当前档位
func (c *Controller) Tier() int {
	return c.tier
}

// Worst 最差档位索引
func (c *Controller) Worst() int {
	return len(c.cfg.Tiers) - 1
}

// Factor 当前档位的密度系数
func (c *Controller) Factor() float64 {
	return c.cfg.Tiers[c.tier]
}

// SetMobile 切换移动端模式
//
// 从移动端切回桌面端时档位重置为 0，返回 true 表示档位被重置
// （调用方在下一次防抖后的 resize 中按满密度重新生成粒子）。
func (c *Controller) SetMobile(mobile bool) bool {
	wasMobile := c.mobile
	c.mobile = mobile
	if wasMobile && !mobile {
		reset := c.tier != 0
		c.tier = 0
		c.lowStreak = 0
		c.highStreak = 0
		return reset
	}
	return false
}

// SetTier 直接设置档位（恢复持久化的档位时使用），越界时截断
func (c *Controller) SetTier(tier int) {
	if tier < 0 {
		tier = 0
	}
	if tier > c.Worst() {
		tier = c.Worst()
	}
	c.tier = tier
}

// ResetWindow 重置统计窗口
//
// 在渲染循环（重新）启动时调用，下一次观测只打开窗口而不计帧。
func (c *Controller) ResetWindow() {
	c.windowOpen = false
	c.windowStart = 0
	c.frames = 0
}

// SetWarnFunc 替换性能告警输出
func (c *Controller) SetWarnFunc(fn func(now time.Duration, msg string)) {
	c.warnFunc = fn
}

// Observe 记录一帧并在窗口结束时评估
//
// 参数:
//   - now: 单调时钟时间戳
//
// 返回:
//   - Decision: 档位是否变化以及新档位
func (c *Controller) Observe(now time.Duration) Decision {
	if !c.mobile {
		return Decision{Tier: c.tier}
	}

	if !c.windowOpen {
		c.windowOpen = true
		c.windowStart = now
		c.frames = 0
		return Decision{Tier: c.tier}
	}

	c.frames++
	elapsed := now - c.windowStart
	if elapsed < c.cfg.Window() {
		return Decision{Tier: c.tier}
	}

	fps := float64(c.frames) / elapsed.Seconds()

	switch {
	case fps < c.cfg.LowFPS:
		c.lowStreak++
		c.highStreak = 0
	case fps > c.cfg.HighFPS:
		c.highStreak++
		c.lowStreak = 0
	default:
		// 迟滞区间：两个计数都清零，避免来回抖动
		c.lowStreak = 0
		c.highStreak = 0
	}

	d := Decision{Tier: c.tier, FPS: fps}
	if c.lowStreak >= c.cfg.LowWindows && c.tier < c.Worst() {
		c.tier++
		c.lowStreak = 0
		c.highStreak = 0
		d = Decision{Changed: true, Tier: c.tier, FPS: fps}
		c.warn(now, "High frame time detected. Lowering particle quality to maintain smoothness.")
	} else if c.highStreak >= c.cfg.HighWindows && c.tier > 0 {
		c.tier--
		c.lowStreak = 0
		c.highStreak = 0
		d = Decision{Changed: true, Tier: c.tier, FPS: fps}
	}

	c.windowStart = now
	c.frames = 0
	return d
}

// warn 受冷却时间限制的性能告警
func (c *Controller) warn(now time.Duration, msg string) {
	if c.warned && now-c.lastWarnAt < c.cfg.WarnCooldown() {
		return
	}
	c.warned = true
	c.lastWarnAt = now
	if c.warnFunc != nil {
		c.warnFunc(now, msg)
	}
}
