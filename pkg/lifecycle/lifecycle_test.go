package lifecycle

import (
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

func TestTickSchedulerNextFrameSemantics(t *testing.T) {
	s := NewTickScheduler()
	var calls []time.Duration
	var cb FrameCallback
	cb = func(now time.Duration) {
		calls = append(calls, now)
		s.Request(cb)
	}
	s.Request(cb)

	s.Tick(1 * frame)
	s.Tick(2 * frame)
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls (one per tick), got %d", len(calls))
	}
	if calls[1] != 2*frame {
		t.Errorf("timestamp = %v, want %v", calls[1], 2*frame)
	}
	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1", s.Pending())
	}
}

func TestTickSchedulerCancel(t *testing.T) {
	s := NewTickScheduler()
	fired := 0
	h := s.Request(func(time.Duration) { fired++ })
	s.Cancel(h)
	s.Cancel(h)
	s.Tick(frame)
	if fired != 0 {
		t.Errorf("cancelled callback fired")
	}

	// 同一批次中前一个回调取消后一个
	var second FrameHandle
	s.Request(func(time.Duration) { s.Cancel(second) })
	second = s.Request(func(time.Duration) { fired++ })
	s.Tick(2 * frame)
	if fired != 0 {
		t.Errorf("callback cancelled within the same batch fired")
	}
}

// TestLoopHalfRate 移动端每两次调度渲染一次，但每次都重新登记
func TestLoopHalfRate(t *testing.T) {
	s := NewTickScheduler()
	rendered := 0
	l := NewLoop(s, func(time.Duration) { rendered++ })
	mobile := true
	l.HalfRate = func() bool { return mobile }

	l.Start()
	for i := 1; i <= 10; i++ {
		s.Tick(time.Duration(i) * frame)
		if s.Pending() != 1 {
			t.Fatalf("tick %d: loop should always re-arm, pending=%d", i, s.Pending())
		}
	}
	if rendered != 5 {
		t.Errorf("mobile rendered %d of 10 ticks, want 5", rendered)
	}

	mobile = false
	for i := 11; i <= 20; i++ {
		s.Tick(time.Duration(i) * frame)
	}
	if rendered != 15 {
		t.Errorf("desktop should render every tick, total %d want 15", rendered)
	}
}

// TestLoopStopLeavesNoCallback 停止后不残留任何已登记回调
func TestLoopStopLeavesNoCallback(t *testing.T) {
	s := NewTickScheduler()
	var l *Loop
	l = NewLoop(s, func(time.Duration) {
		// 帧内停止：本帧完成，不再继续
		l.Stop()
	})
	l.Start()
	s.Tick(frame)
	if l.IsRunning() {
		t.Fatal("loop should be stopped")
	}
	if s.Pending() != 0 {
		t.Errorf("stopped loop left %d pending callbacks", s.Pending())
	}

	l.Start()
	l.Start()
	if s.Pending() != 1 {
		t.Errorf("double Start should arm once, pending=%d", s.Pending())
	}
}

// TestCoordinatorVisibilityToggle 页面可见性 false→true：running→stopped→running，计数器重置
func TestCoordinatorVisibilityToggle(t *testing.T) {
	s := NewTickScheduler()
	l := NewLoop(s, func(time.Duration) {})
	starts := 0
	l.OnStart = func() { starts++ }
	c := NewCoordinator(l)
	c.Attach(nil)
	c.Sync()

	if c.State() != Running || starts != 1 {
		t.Fatalf("state=%v starts=%d, want running/1", c.State(), starts)
	}
	for i := 1; i <= 5; i++ {
		s.Tick(time.Duration(i) * frame)
	}
	if l.FrameCount() != 5 {
		t.Fatalf("frame count = %d, want 5", l.FrameCount())
	}

	c.SetPageVisible(false)
	if c.State() != Stopped {
		t.Fatalf("state = %v, want stopped", c.State())
	}
	s.Tick(6 * frame)
	if l.FrameCount() != 5 {
		t.Errorf("stopped loop advanced")
	}

	c.SetPageVisible(true)
	if c.State() != Running {
		t.Fatalf("state = %v, want running", c.State())
	}
	if l.FrameCount() != 0 || starts != 2 {
		t.Errorf("restart should reset counters: frames=%d starts=%d", l.FrameCount(), starts)
	}
}

type fakeObserver struct {
	cb           func(bool)
	disconnected int
}

func (o *fakeObserver) Observe(cb func(bool)) { o.cb = cb }
func (o *fakeObserver) Disconnect()           { o.disconnected++ }

func TestCoordinatorHostIntersection(t *testing.T) {
	s := NewTickScheduler()
	l := NewLoop(s, func(time.Duration) {})
	c := NewCoordinator(l)
	obs := &fakeObserver{}
	c.Attach(obs)
	c.Sync()

	obs.cb(false)
	if c.State() != Stopped {
		t.Errorf("host out of view should stop the loop")
	}
	c.SetPageVisible(true)
	if c.State() != Stopped {
		t.Errorf("page visible alone must not start the loop")
	}
	obs.cb(true)
	if c.State() != Running {
		t.Errorf("both conditions true should run the loop")
	}

	c.Detach()
	c.Detach()
	if obs.disconnected != 1 {
		t.Errorf("observer disconnected %d times, want 1", obs.disconnected)
	}
}

func TestTimersAndDebouncer(t *testing.T) {
	timers := NewTimers()
	fired := 0
	d := NewDebouncer(timers, 200*time.Millisecond, func() { fired++ })

	// 触发流：每 100ms 一次，持续 1s
	now := time.Duration(0)
	for i := 0; i < 10; i++ {
		d.Trigger()
		now += 100 * time.Millisecond
		timers.Advance(now)
	}
	if fired != 0 {
		t.Fatalf("debounced action fired during the burst")
	}
	if timers.Len() != 1 {
		t.Errorf("only one timer should be outstanding, got %d", timers.Len())
	}

	now += 200 * time.Millisecond
	timers.Advance(now)
	if fired != 1 || d.Pending() {
		t.Errorf("fired=%d pending=%v, want 1/false", fired, d.Pending())
	}

	d.Trigger()
	d.Cancel()
	timers.Advance(now + time.Second)
	if fired != 1 {
		t.Errorf("cancelled debounce fired")
	}
}

func TestTimersOrderAndCancelAll(t *testing.T) {
	timers := NewTimers()
	var order []int
	timers.After(30*time.Millisecond, func() { order = append(order, 3) })
	timers.After(10*time.Millisecond, func() { order = append(order, 1) })
	timers.After(20*time.Millisecond, func() { order = append(order, 2) })
	timers.Advance(50 * time.Millisecond)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("timers fired out of order: %v", order)
	}

	timers.After(time.Millisecond, func() { order = append(order, 4) })
	timers.CancelAll()
	timers.Advance(time.Second)
	if len(order) != 3 || timers.Len() != 0 {
		t.Errorf("CancelAll should drop pending timers: %v", order)
	}
}

func TestEventsSubscription(t *testing.T) {
	ev := NewEvents()
	var got []string
	a := ev.On(EventScroll, func(e Event) { got = append(got, "a") })
	ev.On(EventScroll, func(e Event) { got = append(got, "b") })
	ev.On(EventResize, func(e Event) { got = append(got, "resize") })

	ev.Emit(Event{Kind: EventScroll, ScrollY: 10})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("dispatch order = %v", got)
	}

	a.Remove()
	a.Remove()
	if ev.Count() != 2 {
		t.Errorf("listener count = %d, want 2", ev.Count())
	}
	got = nil
	ev.Emit(Event{Kind: EventScroll})
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("after remove dispatch = %v", got)
	}
	if EventVisibilityChange.String() != "visibilitychange" {
		t.Errorf("String() = %q", EventVisibilityChange.String())
	}
}

func TestTeardownOnce(t *testing.T) {
	var td Teardown
	td.Run() // 注册前调用也安全

	var td2 Teardown
	var order []int
	td2.Add(func() { order = append(order, 1) })
	td2.Add(func() { order = append(order, 2) })
	td2.Run()
	td2.Run()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("teardown order = %v, want [2 1]", order)
	}
	if !td2.Done() {
		t.Error("Done() should be true")
	}
	td2.Add(func() { order = append(order, 3) })
	if len(order) != 3 {
		t.Errorf("Add after Run should execute immediately")
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(time.Second)
	c.Advance(500 * time.Millisecond)
	if c.Now() != 1500*time.Millisecond {
		t.Errorf("Now = %v", c.Now())
	}
	if NewMonotonicClock().Now() < 0 {
		t.Error("monotonic clock went negative")
	}
}
