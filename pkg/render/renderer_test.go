package render

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/field"
	"github.com/decker502/herofx/pkg/utils"
)

// newStillRenderer 关闭随机游走与阻尼，使粒子位置在单帧内保持不变
func newStillRenderer(t *testing.T) (*Renderer, *config.FieldConfig) {
	t.Helper()
	cfg := config.DefaultFieldConfig()
	cfg.Physics.WanderStrength = 0
	cfg.Physics.Damping = 1
	layers := field.NewLayers(cfg.Layers)
	stepper := field.NewStepper(cfg, rand.New(rand.NewSource(1)))
	return NewRenderer(cfg, utils.DefaultAccent, layers, stepper, field.NewGrid()), cfg
}

func newContext() *field.SimContext {
	ctx := field.NewSimContext()
	ctx.Bounds = field.Bounds{W: 1000, H: 800}
	return ctx
}

func TestFrameDrawOrder(t *testing.T) {
	r, _ := newStillRenderer(t)
	rec := NewRecorder()
	ctx := newContext()
	ctx.Pointer = field.Pointer{X: 500, Y: 400, Active: true}

	blobs := field.NewBlobs(3, 0.03, rand.New(rand.NewSource(2)))
	particles := []field.Particle{
		{ID: 0, Layer: 0, X: 100, Y: 100, Size: 1, BaseAlpha: 0.18},
		{ID: 1, Layer: 2, X: 300, Y: 300, Size: 3, BaseAlpha: 0.5},
	}

	stats := r.Frame(rec, ctx, particles, blobs, time.Second)

	want := []OpKind{OpClear, OpRadial, OpRadial, OpRadial, OpCircle, OpRadial, OpCircle, OpRadial}
	if len(rec.Ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(rec.Ops), len(want))
	}
	for i, k := range want {
		if rec.Ops[i].Kind != k {
			t.Errorf("op %d: kind %d, want %d", i, rec.Ops[i].Kind, k)
		}
	}

	glow := rec.Ops[5]
	if glow.R != 3*8 {
		t.Errorf("glow radius = %v, want 24", glow.R)
	}
	if math.Abs(glow.Alpha()-0.5*0.15) > 1e-4 {
		t.Errorf("glow alpha = %v, want 0.075", glow.Alpha())
	}
	highlight := rec.Ops[7]
	if highlight.X != 500 || highlight.Y != 400 || highlight.R != 120 {
		t.Errorf("highlight = %+v", highlight)
	}
	if !stats.Highlight || stats.Glows != 1 || stats.Blobs != 3 || stats.Particles != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestLinesOncePerPair 同图层近邻只画一条线；不同图层、无连线图层、超出范围都不画
func TestLinesOncePerPair(t *testing.T) {
	r, _ := newStillRenderer(t)
	rec := NewRecorder()
	ctx := newContext()

	particles := []field.Particle{
		// 图层 1（连线范围 150）：0 与 1 相距 100
		{ID: 0, Layer: 1, X: 100, Y: 100, Size: 2, BaseAlpha: 0.35},
		{ID: 1, Layer: 1, X: 200, Y: 100, Size: 2, BaseAlpha: 0.35},
		// 图层 1 但超出范围
		{ID: 2, Layer: 1, X: 600, Y: 600, Size: 2, BaseAlpha: 0.35},
		// 图层 2 紧邻 0，但图层不同
		{ID: 3, Layer: 2, X: 110, Y: 100, Size: 3, BaseAlpha: 0.5},
		// 图层 0 不画线
		{ID: 4, Layer: 0, X: 101, Y: 101, Size: 1, BaseAlpha: 0.18},
		{ID: 5, Layer: 0, X: 102, Y: 102, Size: 1, BaseAlpha: 0.18},
	}

	stats := r.Frame(rec, ctx, particles, nil, 0)
	if stats.Lines != 1 || rec.Count(OpLine) != 1 {
		t.Fatalf("expected exactly one line, got stats=%d ops=%d", stats.Lines, rec.Count(OpLine))
	}

	for _, op := range rec.Ops {
		if op.Kind != OpLine {
			continue
		}
		// (1 - 100/150) * 0.35 * 0.6
		want := (1 - 100.0/150.0) * 0.35 * 0.6
		if math.Abs(op.Alpha()-want) > 1e-4 {
			t.Errorf("line alpha = %v, want %v", op.Alpha(), want)
		}
		if op.Width != 0.5 {
			t.Errorf("line width = %v, want 0.5", op.Width)
		}
		if op.X != 100 || op.X1 != 200 {
			t.Errorf("line should run from the lower id to the higher id: %+v", op)
		}
	}
}

// TestFrameAdvancesSimulation 一帧内粒子被积分并保持在环绕边界内
func TestFrameAdvancesSimulation(t *testing.T) {
	cfg := config.DefaultFieldConfig()
	layers := field.NewLayers(cfg.Layers)
	rng := rand.New(rand.NewSource(3))
	r := NewRenderer(cfg, utils.DefaultAccent, layers, field.NewStepper(cfg, rng), field.NewGrid())
	spawner := field.NewSpawner(layers, cfg.Quality.Tiers, cfg.MobileDensity, rng)

	ctx := newContext()
	particles := spawner.Spawn(ctx.Bounds, false, 0)
	before := append([]field.Particle(nil), particles...)

	rec := NewRecorder()
	for i := 0; i < 120; i++ {
		r.Frame(rec, ctx, particles, nil, time.Duration(i)*16*time.Millisecond)
	}

	moved := 0
	for i := range particles {
		if particles[i].X != before[i].X || particles[i].Y != before[i].Y {
			moved++
		}
		if particles[i].X < -20 || particles[i].X > ctx.Bounds.W+20 {
			t.Fatalf("particle %d escaped: %v", i, particles[i].X)
		}
	}
	if moved != len(particles) {
		t.Errorf("only %d of %d particles moved", moved, len(particles))
	}
	if r.Grid().Len() != len(particles) {
		t.Errorf("grid holds %d, want %d", r.Grid().Len(), len(particles))
	}
	if rec.Count(OpCircle) != len(particles) {
		t.Errorf("last frame drew %d discs, want %d", rec.Count(OpCircle), len(particles))
	}
}

func TestRecorderAlpha(t *testing.T) {
	if (Op{}).Alpha() != 0 {
		t.Error("nil color should have zero alpha")
	}
	op := Op{Color: utils.DefaultAccent.WithAlpha(0.5)}
	if math.Abs(op.Alpha()-0.5) > 1e-4 {
		t.Errorf("alpha = %v", op.Alpha())
	}
}
