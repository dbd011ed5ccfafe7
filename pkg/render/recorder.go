package render

import "image/color"

// OpKind 记录的绘制操作类型
type OpKind int

const (
	OpClear OpKind = iota
	OpCircle
	OpLine
	OpRadial
)

// Op 一次绘制调用
type Op struct {
	Kind   OpKind
	X, Y   float64
	X1, Y1 float64
	R      float64
	Width  float64
	Color  color.Color
}

// Alpha 返回颜色的透明度 [0, 1]
func (o Op) Alpha() float64 {
	if o.Color == nil {
		return 0
	}
	_, _, _, a := o.Color.RGBA()
	return float64(a) / 0xffff
}

// Recorder 记录绘制调用的 Surface，用于测试与无界面运行
type Recorder struct {
	Ops   []Op
	Scale float64
}

// NewRecorder 创建记录器
func NewRecorder() *Recorder {
	return &Recorder{Scale: 1}
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear})
}

func (r *Recorder) SetScale(scale float64) {
	r.Scale = scale
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: x, Y: y, R: radius, Color: c})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x0, Y: y0, X1: x1, Y1: y1, Width: width, Color: c})
}

func (r *Recorder) FillRadial(x, y, radius float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpRadial, X: x, Y: y, R: radius, Color: c})
}

// Count 统计某类操作数量
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
