package lifecycle

import "sync"

// Teardown 一次性清理注册表
//
// Run 只执行一次，按注册的逆序调用清理函数；之后的 Run 调用无副作用。
// 在任何清理函数注册之前调用 Run 也是安全的。
type Teardown struct {
	once  sync.Once
	done  bool
	funcs []func()
}

// Add 注册清理函数；Run 之后注册的函数会被立即执行
func (t *Teardown) Add(fn func()) {
	if t.done {
		fn()
		return
	}
	t.funcs = append(t.funcs, fn)
}

// Run 执行全部清理
func (t *Teardown) Run() {
	t.once.Do(func() {
		t.done = true
		for i := len(t.funcs) - 1; i >= 0; i-- {
			t.funcs[i]()
		}
		t.funcs = nil
	})
}

// Done 是否已经清理
func (t *Teardown) Done() bool {
	return t.done
}
