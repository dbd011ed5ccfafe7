package field

import (
	"math"
	"math/rand"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/utils"
)

// Stepper 每帧物理积分
type Stepper struct {
	physics config.PhysicsConfig
	scroll  config.ScrollConfig

	influenceRadius  float64
	influenceRadius2 float64

	rng *rand.Rand
}

// NewStepper 根据配置创建积分器
func NewStepper(cfg *config.FieldConfig, rng *rand.Rand) *Stepper {
	return &Stepper{
		physics:          cfg.Physics,
		scroll:           cfg.Scroll,
		influenceRadius:  cfg.Pointer.InfluenceRadius,
		influenceRadius2: cfg.Pointer.InfluenceRadius * cfg.Pointer.InfluenceRadius,
		rng:              rng,
	}
}

// UpdateScroll 每帧更新一次滚动速度
//
// 速度按本帧与上一帧的滚动偏移差累加，再乘以衰减系数。
func (s *Stepper) UpdateScroll(ctx *SimContext) {
	delta := ctx.ScrollY - ctx.LastScrollY
	ctx.ScrollVelocity += delta * s.scroll.VelocityFactor
	ctx.ScrollVelocity *= s.scroll.VelocityDecay
	ctx.LastScrollY = ctx.ScrollY
}

// Step 推进单个粒子一帧
//
// 顺序：随机游走 → 位移（含滚动视差）→ 指针吸引 → 阻尼 → 限速 → 环绕。
func (s *Stepper) Step(ctx *SimContext, p *Particle, layer Layer) {
	wander := s.physics.WanderStrength * (1 + float64(p.Layer)*s.physics.WanderLayerScale)
	p.VX += utils.Jitter(s.rng, wander)
	p.VY += utils.Jitter(s.rng, wander)

	p.X += p.VX + ctx.ScrollVelocity*layer.ParallaxFactor*s.scroll.ParallaxScale
	p.Y += p.VY

	if ctx.Pointer.Active {
		s.attract(ctx.Pointer, p, layer)
	}

	p.VX *= s.physics.Damping
	p.VY *= s.physics.Damping

	clampSpeed(p, layer.Speed*s.physics.MaxSpeedFactor)
	wrap(p, ctx.Bounds, s.physics.WrapMargin)
}

// attract 施加指向指针的吸引冲量，力度随距离线性衰减
func (s *Stepper) attract(ptr Pointer, p *Particle, layer Layer) {
	dx := ptr.X - p.X
	dy := ptr.Y - p.Y
	d2 := dx*dx + dy*dy
	// d2 <= 1 时方向不稳定，跳过
	if d2 >= s.influenceRadius2 || d2 <= 1 {
		return
	}
	d := math.Sqrt(d2)
	force := layer.MouseStrength * (1 - d/s.influenceRadius)
	p.VX += dx / d * force
	p.VY += dy / d * force
}

// clampSpeed 把速度大小限制在 max 以内，保持方向
func clampSpeed(p *Particle, max float64) {
	speed := math.Sqrt(p.VX*p.VX + p.VY*p.VY)
	if speed > max {
		p.VX = p.VX / speed * max
		p.VY = p.VY / speed * max
	}
}

// wrap 越过边界 margin 后从对侧 margin 处重新出现
func wrap(p *Particle, b Bounds, margin float64) {
	if p.X < -margin {
		p.X = b.W + margin
	}
	if p.X > b.W+margin {
		p.X = -margin
	}
	if p.Y < -margin {
		p.Y = b.H + margin
	}
	if p.Y > b.H+margin {
		p.Y = -margin
	}
}
