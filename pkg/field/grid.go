package field

import "math"

// Grid 每帧重建的均匀空间网格
//
// 以 (floor(x/cell), floor(y/cell)) 为键把粒子分桶，使同图层近邻查询
// 只扫描周围若干个桶，而不是两两比较 O(n²)。
// 网格是纯派生状态，不跨帧保存任何信息。
type Grid struct {
	buckets map[uint64][]*Particle
	// used 记录本帧使用过的键，重建时只清空这些桶并复用底层数组
	used []uint64
}

// NewGrid 创建空网格
func NewGrid() *Grid {
	return &Grid{
		buckets: make(map[uint64][]*Particle),
	}
}

// cellKey 把两个单元坐标打包成一个整数键（高 32 位 cx，低 32 位 cy）
func cellKey(cx, cy int) uint64 {
	return uint64(uint32(int32(cx)))<<32 | uint64(uint32(int32(cy)))
}

// cellOf 返回坐标所在单元
func cellOf(x, y, cellSize float64) (int, int) {
	return int(math.Floor(x / cellSize)), int(math.Floor(y / cellSize))
}

// Rebuild 清空网格并重新插入全部粒子
//
// 网格保存的是 particles 元素的指针，因此在下一次 Rebuild 之前
// 不能替换或扩容 particles 底层数组。
func (g *Grid) Rebuild(particles []Particle, cellSize float64) {
	for _, key := range g.used {
		g.buckets[key] = g.buckets[key][:0]
	}
	g.used = g.used[:0]

	for i := range particles {
		p := &particles[i]
		cx, cy := cellOf(p.X, p.Y, cellSize)
		key := cellKey(cx, cy)
		bucket := g.buckets[key]
		if len(bucket) == 0 {
			g.used = append(g.used, key)
		}
		g.buckets[key] = append(bucket, p)
	}
}

// AppendNeighbors 把 p 的候选近邻追加到 dst 并返回
//
// 候选集合为 p 所在单元周围 ceil(radius/cell) 圈内、与 p 同图层的所有其他粒子。
// 这是一个超集：调用方仍需做精确距离判断。
func (g *Grid) AppendNeighbors(dst []*Particle, p *Particle, radius, cellSize float64) []*Particle {
	cx, cy := cellOf(p.X, p.Y, cellSize)
	r := int(math.Ceil(radius / cellSize))

	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			bucket := g.buckets[cellKey(cx+dx, cy+dy)]
			for _, candidate := range bucket {
				if candidate != p && candidate.Layer == p.Layer {
					dst = append(dst, candidate)
				}
			}
		}
	}
	return dst
}

// NeighborsOf 返回 p 的候选近邻（新分配切片）
func (g *Grid) NeighborsOf(p *Particle, radius, cellSize float64) []*Particle {
	return g.AppendNeighbors(nil, p, radius, cellSize)
}

// Len 返回网格中的粒子总数
func (g *Grid) Len() int {
	n := 0
	for _, key := range g.used {
		n += len(g.buckets[key])
	}
	return n
}

// Reset 丢弃所有桶（销毁时调用）
func (g *Grid) Reset() {
	g.buckets = make(map[uint64][]*Particle)
	g.used = nil
}
