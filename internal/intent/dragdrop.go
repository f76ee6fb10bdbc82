package intent

import (
	"encoding/json"
	"fmt"

	"vellum/internal/frontend"
	"vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
)

// DropListener turns display-layer drop notifications into dispatcher
// submissions. Drops reach it on one of two channels: the native runtime
// callback, or a forwarded webview event carrying a JSON payload. The
// frontend forwards DOM drops only while the native callback is disabled,
// so a single gesture never produces two submissions.
type DropListener struct {
	validator  *Validator
	dispatcher *Dispatcher
	logger     logging.Logger

	events frontend.Events
	unsubs []func()
}

// NewDropListener wires a listener to the dispatcher. Attach must be
// called before any drops can be observed.
func NewDropListener(validator *Validator, dispatcher *Dispatcher, logger logging.Logger) *DropListener {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &DropListener{
		validator:  validator,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Attach subscribes to the native drop callback and the forwarded drop
// events.
func (l *DropListener) Attach(events frontend.Events) {
	l.events = events
	events.OnFileDrop(l.HandleDrop)
	l.unsubs = append(l.unsubs,
		events.On(EventFileDrop, l.HandlePayload),
		events.On(EventFileDropHover, l.handleHover),
		events.On(EventFileDropCancelled, l.handleCancelled),
	)
	l.logger.Debug("Drop listener attached")
}

// Detach removes every subscription made by Attach.
func (l *DropListener) Detach() {
	for _, off := range l.unsubs {
		off()
	}
	l.unsubs = nil
	if l.events != nil {
		l.events.OffFileDrop()
		l.events = nil
	}
}

// HandleDrop is the native drop callback. The whole window is the drop
// target, so the coordinates are unused.
func (l *DropListener) HandleDrop(x, y int, paths []string) {
	l.submitFirstMatch(paths)
}

// HandlePayload consumes a forwarded drop event whose payload is a JSON
// array of path strings. A malformed payload produces no candidate and no
// user-visible failure.
func (l *DropListener) HandlePayload(payload ...interface{}) {
	paths, err := decodeDropPayload(payload)
	if err != nil {
		l.logger.Debug("Discarding malformed drop payload", "error", err.Error())
		return
	}
	l.submitFirstMatch(paths)
}

// submitFirstMatch submits the first dropped path carrying the supported
// extension. Existence is not checked here: whatever the window manager
// reported as dropped is taken at face value, and a vanished file surfaces
// later when the document is read. The rest of the batch is ignored.
func (l *DropListener) submitFirstMatch(paths []string) {
	for _, p := range paths {
		if !l.validator.HasDocumentExtension(p) {
			continue
		}
		l.dispatcher.Submit(NewCandidate(l.validator.Normalize(p), SourceDragDrop))
		return
	}
	if len(paths) > 0 {
		l.logger.Debug("Drop contained no supported documents", "count", len(paths))
	}
}

// handleHover and handleCancelled stay registered for drag feedback even
// though nothing reacts to them yet.
func (l *DropListener) handleHover(_ ...interface{})     {}
func (l *DropListener) handleCancelled(_ ...interface{}) {}

// decodeDropPayload normalizes the payload shapes the event bus can hand
// us: a JSON string, an already-decoded []interface{} of strings, or a
// plain []string from in-process emitters.
func decodeDropPayload(payload []interface{}) ([]string, error) {
	if len(payload) == 0 {
		return nil, errors.NewPipelineError("decode_drop",
			fmt.Errorf("empty drop payload"), errors.ErrCodeMalformedPayload)
	}
	switch data := payload[0].(type) {
	case string:
		var paths []string
		if err := json.Unmarshal([]byte(data), &paths); err != nil {
			return nil, errors.NewPipelineError("decode_drop", err, errors.ErrCodeMalformedPayload)
		}
		return paths, nil
	case []string:
		return data, nil
	case []interface{}:
		paths := make([]string, 0, len(data))
		for _, entry := range data {
			s, ok := entry.(string)
			if !ok {
				return nil, errors.NewPipelineError("decode_drop",
					fmt.Errorf("non-string entry of type %T", entry), errors.ErrCodeMalformedPayload)
			}
			paths = append(paths, s)
		}
		return paths, nil
	default:
		return nil, errors.NewPipelineError("decode_drop",
			fmt.Errorf("unsupported payload type %T", data), errors.ErrCodeMalformedPayload)
	}
}
