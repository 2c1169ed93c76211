package ai

// SetDebug turns per-decision tracing at debug level on or off for this world.
func (w *World) SetDebug(on bool) { w.debug = on }

// Debugging reports whether decision tracing is on.
func (w *World) Debugging() bool { return w.debug }

// trace logs a decision when debugging is enabled
func (w *World) trace(b *Brain, msg string, keyvals ...any) {
	if w.debug {
		w.log.Debug(msg, append([]any{"agent", b.id}, keyvals...)...)
	}
}
