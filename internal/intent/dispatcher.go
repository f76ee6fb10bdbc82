package intent

import (
	"fmt"
	"sync"
	"time"

	"vellum/internal/frontend"
	"vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
)

// Dispatcher owns the pending open request and the display-layer readiness
// flag. Input surfaces hand it screened candidates through Submit; the
// display layer signals readiness through MarkReady. Each accepted request
// is delivered to the frontend exactly once, never before readiness, and a
// newer candidate replaces an undelivered older one.
type Dispatcher struct {
	mutex   sync.RWMutex
	emitter frontend.Emitter
	logger  logging.Logger
	timeout time.Duration

	pending  *OpenRequest
	ready    bool
	watchdog *time.Timer
	stopped  bool
}

// NewDispatcher creates a dispatcher. timeout bounds the wait for
// readiness: when it elapses with a request still held the stall is
// logged as an error, but the request is kept so a late readiness signal
// still produces the open. A timeout of zero disables the watchdog.
func NewDispatcher(emitter frontend.Emitter, timeout time.Duration, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Dispatcher{
		emitter: emitter,
		logger:  logger,
		timeout: timeout,
	}
}

// SetEmitter swaps the delivery target. The Wails runtime context does not
// exist until the startup hook runs, so the dispatcher is built with a
// disconnected channel first and rewired here.
func (d *Dispatcher) SetEmitter(emitter frontend.Emitter) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.emitter = emitter
}

// Submit accepts a screened candidate. While the display layer is not
// ready the request is held; once it is, delivery happens immediately.
// A candidate arriving while an undelivered request is held replaces it.
func (d *Dispatcher) Submit(c Candidate) {
	if c.Path == "" {
		d.logger.Debug("Ignoring empty candidate", "source", c.Source.String())
		return
	}

	d.mutex.Lock()
	req := newOpenRequest(c)
	if d.pending != nil {
		d.logger.Info("Pending open request replaced",
			"previous_id", d.pending.ID,
			"previous_path", d.pending.Path,
			"id", req.ID,
			"path", req.Path,
			"source", c.Source.String())
	} else {
		d.logger.Info("Open request accepted",
			"id", req.ID,
			"path", req.Path,
			"source", c.Source.String())
	}
	d.pending = req
	if !d.ready {
		d.armWatchdogLocked()
		d.mutex.Unlock()
		return
	}
	deliver := d.takePendingLocked()
	emitter := d.emitter
	d.mutex.Unlock()

	d.deliver(emitter, deliver)
}

// MarkReady records that the display layer can receive notifications.
// Readiness persists for the rest of the run and repeated calls are
// harmless. Any held request is delivered on the spot.
func (d *Dispatcher) MarkReady() {
	d.mutex.Lock()
	if !d.ready {
		d.ready = true
		d.logger.Info("Display layer ready")
	}
	d.disarmWatchdogLocked()
	deliver := d.takePendingLocked()
	emitter := d.emitter
	d.mutex.Unlock()

	d.deliver(emitter, deliver)
}

// Stop cancels the stall watchdog on shutdown. A stopped dispatcher still
// accepts submissions but arms no new timers.
func (d *Dispatcher) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.stopped = true
	d.disarmWatchdogLocked()
}

// Ready reports whether the display layer has signalled readiness.
func (d *Dispatcher) Ready() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.ready
}

// HasPending reports whether an undelivered request is held.
func (d *Dispatcher) HasPending() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.pending != nil
}

// takePendingLocked detaches the held request for delivery. The caller
// must hold the write lock and have confirmed readiness.
func (d *Dispatcher) takePendingLocked() *OpenRequest {
	req := d.pending
	d.pending = nil
	return req
}

// deliver fires the frontend notification. It runs outside the mutex so a
// re-entrant emitter cannot deadlock the dispatcher.
func (d *Dispatcher) deliver(emitter frontend.Emitter, req *OpenRequest) {
	if req == nil {
		return
	}
	if emitter != nil {
		emitter.Emit(EventOpenPDFFile, req.Path)
	}
	d.logger.Info("Open request delivered",
		"id", req.ID,
		"path", req.Path,
		"source", req.Source.String(),
		"held_for_ms", time.Since(req.AcceptedAt).Milliseconds())
}

// armWatchdogLocked starts the readiness stall timer. A timer already
// running keeps its deadline: the stall clock measures time since the
// first undelivered accept, not since the latest replacement.
func (d *Dispatcher) armWatchdogLocked() {
	if d.timeout <= 0 || d.watchdog != nil || d.stopped {
		return
	}
	d.watchdog = time.AfterFunc(d.timeout, d.reportStall)
}

// disarmWatchdogLocked stops the stall timer if one is running.
func (d *Dispatcher) disarmWatchdogLocked() {
	if d.watchdog != nil {
		d.watchdog.Stop()
		d.watchdog = nil
	}
}

// reportStall runs on the watchdog goroutine when readiness has not
// arrived in time. The held request is deliberately kept.
func (d *Dispatcher) reportStall() {
	d.mutex.Lock()
	req := d.pending
	ready := d.ready
	d.watchdog = nil
	d.mutex.Unlock()

	if ready || req == nil {
		return
	}

	stall := errors.NewPipelineErrorWithContext(
		"await_readiness",
		fmt.Errorf("display layer not ready after %s", d.timeout),
		errors.ErrCodeReadinessTimeout,
		map[string]string{
			"id":     req.ID,
			"path":   req.Path,
			"source": req.Source.String(),
		})
	logging.LogPipelineError(d.logger, stall, "await_readiness", map[string]interface{}{
		"held_for_ms": time.Since(req.AcceptedAt).Milliseconds(),
	})
}
