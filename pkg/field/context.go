package field

// Pointer 指针状态（宿主区域局部坐标）
type Pointer struct {
	X, Y   float64
	Active bool
}

// SimContext 一个粒子场实例的全部可变模拟状态
//
// 每个实例各持有一份，所有函数都显式接收它，不存在包级全局状态。
type SimContext struct {
	// Bounds 宿主区域逻辑尺寸
	Bounds Bounds
	// Viewport 视口逻辑尺寸（判断移动端用）
	Viewport Bounds
	// DPR 设备像素比（已按上限截断）
	DPR float64
	// Mobile 视口宽度低于断点或运行在移动平台
	Mobile bool
	// Tier 当前画质档位，0 为满密度
	Tier int

	Pointer Pointer

	// ScrollY 最新的页面滚动偏移（由滚动事件写入）
	ScrollY float64
	// LastScrollY 上一帧处理过的滚动偏移
	LastScrollY float64
	// ScrollVelocity 指数衰减后的滚动速度
	ScrollVelocity float64
}

// NewSimContext 创建初始上下文，指针位于远处且未激活
func NewSimContext() *SimContext {
	return &SimContext{
		DPR:     1,
		Pointer: Pointer{X: -9999, Y: -9999},
	}
}
