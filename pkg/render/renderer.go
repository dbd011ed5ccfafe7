package render

import (
	"math"
	"time"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/field"
	"github.com/decker502/herofx/pkg/utils"
)

// FrameStats 单帧绘制统计
type FrameStats struct {
	Particles int
	Lines     int
	Glows     int
	Blobs     int
	Highlight bool
}

// Renderer 粒子场渲染器
//
// 每帧顺序：清屏 → 背景光斑 → 重建网格 → 逐粒子（积分、连线、光晕、圆点）→ 指针光晕。
type Renderer struct {
	cfg     *config.FieldConfig
	accent  utils.Accent
	layers  field.Layers
	stepper *field.Stepper
	grid    *field.Grid

	// neighbors 复用的近邻缓冲
	neighbors []*field.Particle
}

// NewRenderer 创建渲染器
func NewRenderer(cfg *config.FieldConfig, accent utils.Accent, layers field.Layers, stepper *field.Stepper, grid *field.Grid) *Renderer {
	return &Renderer{
		cfg:     cfg,
		accent:  accent,
		layers:  layers,
		stepper: stepper,
		grid:    grid,
	}
}

// Grid 渲染器使用的空间网格
func (r *Renderer) Grid() *field.Grid {
	return r.grid
}

// Frame 推进模拟并绘制一帧
//
// 网格由本帧开始时的位置构建，随后每个粒子先积分、再用积分后的位置查询近邻连线。
// 近邻中尚未积分的粒子仍处于旧位置，这是可接受的近似。
func (r *Renderer) Frame(s Surface, ctx *field.SimContext, particles []field.Particle, blobs []field.Blob, now time.Duration) FrameStats {
	stats := FrameStats{Particles: len(particles), Blobs: len(blobs)}

	r.stepper.UpdateScroll(ctx)

	s.Clear()
	r.drawBlobs(s, ctx.Bounds, blobs, now)

	cellSize := r.cfg.GridCellSize
	r.grid.Rebuild(particles, cellSize)

	for i := range particles {
		p := &particles[i]
		layer := r.layers.Get(p.Layer)

		r.stepper.Step(ctx, p, layer)

		if layer.DrawsLines {
			stats.Lines += r.drawLines(s, p, layer, cellSize)
		}

		if layer.HasGlow {
			glowRadius := p.Size * r.cfg.Render.GlowRadiusFactor
			s.FillRadial(p.X, p.Y, glowRadius, r.accent.WithAlpha(p.BaseAlpha*r.cfg.Render.GlowAlphaScale))
			stats.Glows++
		}

		s.FillCircle(p.X, p.Y, p.Size, r.accent.WithAlpha(p.BaseAlpha))
	}

	if ctx.Pointer.Active {
		s.FillRadial(ctx.Pointer.X, ctx.Pointer.Y, r.cfg.Pointer.HighlightRadius, r.accent.WithAlpha(r.cfg.Pointer.HighlightAlpha))
		stats.Highlight = true
	}

	return stats
}

// drawLines 向同图层、ID 更大的近邻画线，透明度随距离线性衰减
func (r *Renderer) drawLines(s Surface, p *field.Particle, layer field.Layer, cellSize float64) int {
	r.neighbors = r.grid.AppendNeighbors(r.neighbors[:0], p, layer.LineRange, cellSize)
	rangeSquared := layer.LineRange * layer.LineRange

	drawn := 0
	for _, n := range r.neighbors {
		// 每对只画一次
		if n.ID <= p.ID {
			continue
		}
		dx := n.X - p.X
		dy := n.Y - p.Y
		d2 := dx*dx + dy*dy
		if d2 >= rangeSquared {
			continue
		}
		d := math.Sqrt(d2)
		alpha := (1 - d/layer.LineRange) * layer.Alpha * r.cfg.Render.LineAlphaScale
		s.StrokeLine(p.X, p.Y, n.X, n.Y, r.cfg.Render.LineWidth, r.accent.WithAlpha(alpha))
		drawn++
	}
	return drawn
}

func (r *Renderer) drawBlobs(s Surface, bounds field.Bounds, blobs []field.Blob, now time.Duration) {
	for _, b := range blobs {
		x, y := b.Position(now, bounds)
		s.FillRadial(x, y, b.Radius, r.accent.WithAlpha(b.Alpha))
	}
}
