package lifecycle

// EventKind 宿主事件类型
type EventKind int

const (
	EventResize EventKind = iota
	EventPointerMove
	EventPointerLeave
	EventTouchMove
	EventTouchEnd
	EventScroll
	EventVisibilityChange
	EventPageHide
)

var eventKindNames = map[EventKind]string{
	EventResize:           "resize",
	EventPointerMove:      "pointermove",
	EventPointerLeave:     "pointerleave",
	EventTouchMove:        "touchmove",
	EventTouchEnd:         "touchend",
	EventScroll:           "scroll",
	EventVisibilityChange: "visibilitychange",
	EventPageHide:         "pagehide",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event 宿主事件
//
// 不同类型只使用其中部分字段：
//   - 指针/触摸：ClientX, ClientY（视口坐标）
//   - 滚动：ScrollY
//   - 可见性：Visible
//   - 尺寸：Width, Height（视口逻辑尺寸）
type Event struct {
	Kind             EventKind
	ClientX, ClientY float64
	ScrollY          float64
	Visible          bool
	Width, Height    float64
}

// Handler 事件处理函数
type Handler func(Event)

type listener struct {
	id int
	h  Handler
}

// Events 事件监听注册表
//
// 与 DOM 的 addEventListener/removeEventListener 对应：宿主负责轮询设备
// 并 Emit，粒子场在初始化时注册监听，销毁时逐个移除。
type Events struct {
	next      int
	listeners map[EventKind][]listener
}

// NewEvents 创建注册表
func NewEvents() *Events {
	return &Events{listeners: make(map[EventKind][]listener)}
}

// On 注册监听
func (e *Events) On(kind EventKind, h Handler) *Subscription {
	e.next++
	e.listeners[kind] = append(e.listeners[kind], listener{id: e.next, h: h})
	return &Subscription{events: e, kind: kind, id: e.next}
}

// Emit 按注册顺序分发事件
func (e *Events) Emit(ev Event) {
	// 复制一份，处理函数内移除监听不影响本次分发
	ls := append([]listener(nil), e.listeners[ev.Kind]...)
	for _, l := range ls {
		l.h(ev)
	}
}

// Count 当前监听总数
func (e *Events) Count() int {
	n := 0
	for _, ls := range e.listeners {
		n += len(ls)
	}
	return n
}

func (e *Events) remove(kind EventKind, id int) {
	ls := e.listeners[kind]
	for i, l := range ls {
		if l.id == id {
			e.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Subscription 一次监听注册
type Subscription struct {
	events  *Events
	kind    EventKind
	id      int
	removed bool
}

// Remove 移除监听，重复调用无副作用
func (s *Subscription) Remove() {
	if s == nil || s.removed {
		return
	}
	s.removed = true
	s.events.remove(s.kind, s.id)
}
