package field

import (
	"math"
	"math/rand"

	"github.com/decker502/herofx/pkg/utils"
)

// Particle 单个模拟点
type Particle struct {
	// ID 每次重新生成时从 0 开始单调递增，仅用于连线去重（只在 neighbor.ID > self.ID 时画线）
	ID int
	// Layer 所属图层句柄（只读引用，不拥有图层）
	Layer LayerID

	X, Y   float64 // 宿主区域逻辑坐标
	VX, VY float64

	Size      float64 // 创建时确定
	BaseAlpha float64 // 等于图层透明度
}

// Bounds 宿主区域的逻辑尺寸
type Bounds struct {
	W, H float64
}

// Spawner 按图层、设备类型与画质档位批量生成粒子
type Spawner struct {
	Layers Layers
	// Tiers 画质档位系数，索引 0 为满密度
	Tiers []float64
	// MobileDensity 移动端密度系数
	MobileDensity float64

	rng *rand.Rand
}

// NewSpawner 创建粒子生成器
func NewSpawner(layers Layers, tiers []float64, mobileDensity float64, rng *rand.Rand) *Spawner {
	return &Spawner{
		Layers:        layers,
		Tiers:         tiers,
		MobileDensity: mobileDensity,
		rng:           rng,
	}
}

// Count 返回指定图层在给定设备类型与档位下的粒子数
//
// 公式：round(layer.Count * mobileFactor * tierFactor)
// 档位系数只在移动端生效；档位越界时按最差档位处理。
func (s *Spawner) Count(id LayerID, mobile bool, tier int) int {
	mobileFactor := 1.0
	tierFactor := 1.0
	if mobile {
		mobileFactor = s.MobileDensity
		tierFactor = s.tierFactor(tier)
	}
	return int(math.Round(float64(s.Layers.Get(id).Count) * mobileFactor * tierFactor))
}

func (s *Spawner) tierFactor(tier int) float64 {
	if len(s.Tiers) == 0 {
		return 1
	}
	if tier < 0 {
		tier = 0
	}
	if tier >= len(s.Tiers) {
		tier = len(s.Tiers) - 1
	}
	return s.Tiers[tier]
}

// Spawn 生成一组全新的粒子
//
// 返回的切片应整体替换旧集合；ID 从 0 重新分配，不保留任何旧粒子的身份或位置。
func (s *Spawner) Spawn(bounds Bounds, mobile bool, tier int) []Particle {
	total := 0
	for i := range s.Layers {
		total += s.Count(LayerID(i), mobile, tier)
	}

	particles := make([]Particle, 0, total)
	nextID := 0
	for i, layer := range s.Layers {
		id := LayerID(i)
		n := s.Count(id, mobile, tier)
		for j := 0; j < n; j++ {
			particles = append(particles, Particle{
				ID:        nextID,
				Layer:     id,
				X:         utils.RandRange(s.rng, 0, bounds.W),
				Y:         utils.RandRange(s.rng, 0, bounds.H),
				VX:        utils.RandRange(s.rng, -layer.Speed, layer.Speed),
				VY:        utils.RandRange(s.rng, -layer.Speed, layer.Speed),
				Size:      utils.RandRange(s.rng, layer.SizeMin, layer.SizeMax),
				BaseAlpha: layer.Alpha,
			})
			nextID++
		}
	}
	return particles
}
