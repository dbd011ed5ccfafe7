// Package field 实现粒子场的数据模型与每帧模拟
//
// 包含三部分：
//   - 图层与粒子模型（Layer / Particle / Spawner）
//   - 空间网格（Grid），用于同图层近邻查询
//   - 物理积分（Stepper）：随机游走、滚动视差、指针吸引、阻尼、限速、环绕
//
// 本包不涉及任何绘制与平台 API，所有状态通过 SimContext 显式传递。
package field

import "github.com/decker502/herofx/pkg/config"

// LayerID 图层句柄，指向不可变图层列表中的一项
type LayerID int

// Layer 深度图层
//
// 同一图层的粒子共享运动与外观参数。图层在启动后不可变，
// 画质档位变化只影响每个图层的粒子数量。
type Layer struct {
	Count          int     // 满画质下的目标粒子数
	SizeMin        float64 // 粒子半径下限
	SizeMax        float64 // 粒子半径上限
	Alpha          float64 // 基础透明度
	Speed          float64 // 初速度上限，同时决定限速（Speed * MaxSpeedFactor）
	DrawsLines     bool    // 是否绘制连线
	LineRange      float64 // 连线最大距离（仅 DrawsLines 时有效）
	HasGlow        bool    // 是否绘制光晕
	ParallaxFactor float64 // 滚动视差耦合强度
	MouseStrength  float64 // 指针吸引力系数
}

// Layers 不可变图层列表
type Layers []Layer

// NewLayers 从配置构建图层列表
func NewLayers(cfgs []config.LayerConfig) Layers {
	layers := make(Layers, len(cfgs))
	for i, c := range cfgs {
		layers[i] = Layer{
			Count:          c.Count,
			SizeMin:        c.SizeMin,
			SizeMax:        c.SizeMax,
			Alpha:          c.Alpha,
			Speed:          c.Speed,
			DrawsLines:     c.Lines,
			LineRange:      c.LineRange,
			HasGlow:        c.Glow,
			ParallaxFactor: c.Parallax,
			MouseStrength:  c.MouseStrength,
		}
	}
	return layers
}

// Get 按句柄取图层（按值返回，调用方无法修改图层）
func (ls Layers) Get(id LayerID) Layer {
	return ls[id]
}
