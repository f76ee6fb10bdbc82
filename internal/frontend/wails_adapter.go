package frontend

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsChannel implements Events on top of the Wails runtime. All methods
// tolerate a missing runtime context and no-op, so the pipeline can run
// headless in tests.
type WailsChannel struct {
	ctx context.Context
}

// NewWailsChannel wraps the runtime context handed to the startup hook
func NewWailsChannel(ctx context.Context) *WailsChannel {
	return &WailsChannel{ctx: ctx}
}

func (w *WailsChannel) Emit(eventName string, payload ...interface{}) {
	if w.ctx == nil {
		return
	}
	runtime.EventsEmit(w.ctx, eventName, payload...)
}

func (w *WailsChannel) On(eventName string, callback func(payload ...interface{})) func() {
	if w.ctx == nil {
		return func() {}
	}
	return runtime.EventsOn(w.ctx, eventName, callback)
}

func (w *WailsChannel) OnFileDrop(callback func(x, y int, paths []string)) {
	if w.ctx == nil {
		return
	}
	runtime.OnFileDrop(w.ctx, callback)
}

func (w *WailsChannel) OffFileDrop() {
	if w.ctx == nil {
		return
	}
	runtime.OnFileDropOff(w.ctx)
}

var _ Events = (*WailsChannel)(nil)
