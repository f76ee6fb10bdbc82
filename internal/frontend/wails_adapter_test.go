package frontend

import "testing"

// The runtime context only exists inside a running Wails application, so
// the adapter has to stay inert without one. Every method is exercised
// here against a nil context; a panic fails the test.
func TestWailsChannel_InertWithoutRuntime(t *testing.T) {
	t.Parallel()

	channel := NewWailsChannel(nil)

	channel.Emit("open-pdf-file", "/docs/report.pdf")
	channel.Emit("file-drop-cancelled")

	unsubscribe := channel.On("file-drop", func(payload ...interface{}) {
		t.Error("Expected no callback without a runtime")
	})
	if unsubscribe == nil {
		t.Fatal("Expected a non-nil unsubscribe func")
	}
	unsubscribe()

	channel.OnFileDrop(func(x, y int, paths []string) {
		t.Error("Expected no drop callback without a runtime")
	})
	channel.OffFileDrop()
}
