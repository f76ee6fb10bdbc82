package frontend

// Emitter delivers named events to the display layer
type Emitter interface {
	Emit(eventName string, payload ...interface{})
}

// Events is the full event surface between backend and display layer:
// outbound emission, named-event subscription, and the native file-drop
// callback.
type Events interface {
	Emitter
	// On subscribes to a named display-layer event and returns an
	// unsubscribe function.
	On(eventName string, callback func(payload ...interface{})) func()
	// OnFileDrop registers the native drop callback.
	OnFileDrop(callback func(x, y int, paths []string))
	// OffFileDrop removes the native drop callback.
	OffFileDrop()
}
