package lifecycle

import (
	"sort"
	"time"
)

// TimerID 定时器句柄
type TimerID uint64

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

// Timers 单线程延迟任务队列
//
// 不创建 goroutine：宿主每帧调用 Advance，到期任务在调用方的 goroutine 中执行，
// 因此任务可以安全地读写模拟状态。
type Timers struct {
	next    TimerID
	now     time.Duration
	entries map[TimerID]*timer
}

// NewTimers 创建空队列
func NewTimers() *Timers {
	return &Timers{entries: make(map[TimerID]*timer)}
}

// After 在 d 之后执行 fn，返回可取消的句柄
func (t *Timers) After(d time.Duration, fn func()) TimerID {
	t.next++
	t.entries[t.next] = &timer{id: t.next, due: t.now + d, fn: fn}
	return t.next
}

// Cancel 取消定时器，对已执行或未知句柄无影响
func (t *Timers) Cancel(id TimerID) {
	delete(t.entries, id)
}

// CancelAll 取消全部定时器
func (t *Timers) CancelAll() {
	for id := range t.entries {
		delete(t.entries, id)
	}
}

// Len 未到期的定时器数量
func (t *Timers) Len() int {
	return len(t.entries)
}

// Advance 推进时间并按到期顺序执行到期任务
//
// 任务内部新登记的定时器以新的当前时间为起点，若同样已到期也会在本次执行。
func (t *Timers) Advance(now time.Duration) {
	if now > t.now {
		t.now = now
	}
	for {
		due := t.dueTimers()
		if len(due) == 0 {
			return
		}
		for _, tm := range due {
			// 前面的任务可能已取消它
			if _, ok := t.entries[tm.id]; !ok {
				continue
			}
			delete(t.entries, tm.id)
			tm.fn()
		}
	}
}

func (t *Timers) dueTimers() []*timer {
	var due []*timer
	for _, tm := range t.entries {
		if tm.due <= t.now {
			due = append(due, tm)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	return due
}

// Debouncer 防抖动作
//
// 每次 Trigger 先取消已登记的任务再重新登记，只有触发流安静 window 时长后
// 动作才会执行一次。
type Debouncer struct {
	timers *Timers
	window time.Duration
	action func()

	id    TimerID
	armed bool
}

// NewDebouncer 创建防抖器
func NewDebouncer(timers *Timers, window time.Duration, action func()) *Debouncer {
	return &Debouncer{timers: timers, window: window, action: action}
}

// Trigger 重新开始安静窗口
func (d *Debouncer) Trigger() {
	d.Cancel()
	d.armed = true
	d.id = d.timers.After(d.window, func() {
		d.armed = false
		d.action()
	})
}

// Cancel 取消尚未执行的动作
func (d *Debouncer) Cancel() {
	if d.armed {
		d.timers.Cancel(d.id)
		d.armed = false
	}
}

// Pending 是否有等待执行的动作
func (d *Debouncer) Pending() bool {
	return d.armed
}
