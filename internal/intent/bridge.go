package intent

import (
	"vellum/internal/infrastructure/logging"
	"vellum/internal/platform"
)

// Bridge adapts operating system open-document notifications to dispatcher
// submissions. macOS delivers them as events to the already-running
// process; Windows and Linux have no such channel, so there the bridge
// only sees argument vectors relayed from second-instance launches.
type Bridge struct {
	api        platform.PathAPI
	validator  *Validator
	dispatcher *Dispatcher
	logger     logging.Logger
}

// NewBridge wires the bridge to the dispatcher
func NewBridge(api platform.PathAPI, validator *Validator, dispatcher *Dispatcher, logger logging.Logger) *Bridge {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Bridge{
		api:        api,
		validator:  validator,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Supported reports whether the host OS delivers open-document events to a
// running process.
func (b *Bridge) Supported() bool {
	return b.api.SupportsOpenEvents()
}

// HandleOpenFile consumes one native open-document notification. A payload
// that fails the screen is discarded; the process never terminates over a
// malformed event.
func (b *Bridge) HandleOpenFile(path string) {
	screened, ok := b.validator.Screen(path)
	if !ok {
		b.logger.Debug("Discarding native open event", "path", path)
		return
	}
	b.dispatcher.Submit(NewCandidate(screened, SourceNativeBridge))
}

// HandleRelaunch consumes the argument vector relayed from a second
// instance of the application, the desktop equivalent of an open event on
// platforms without one.
func (b *Bridge) HandleRelaunch(args []string, workingDir string) {
	candidate, ok := ScanRelaunchArgs(args, workingDir, b.validator)
	if !ok {
		b.logger.Debug("Relaunch carried no document argument", "arg_count", len(args))
		return
	}
	b.logger.Info("Relaunch relayed a document", "path", candidate.Path)
	b.dispatcher.Submit(candidate)
}
