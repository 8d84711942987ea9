package render

import "log/slog"

// Option customises a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to report render failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithGlobalData merges values into the engine's global context when the
// renderer is constructed.
func WithGlobalData(data map[string]any) Option {
	return func(r *Renderer) {
		if len(data) == 0 {
			return
		}
		if r.globals == nil {
			r.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			r.globals[key] = value
		}
	}
}
