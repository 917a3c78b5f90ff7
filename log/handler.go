package log

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

type loggingHandler struct {
	handler http.Handler
	logger  Logger
}

// NewLoggingHandler logs one line per request once the wrapped handler has
// written its response.
func NewLoggingHandler(handler http.Handler, logger Logger) http.Handler {
	return &loggingHandler{handler: handler, logger: logger}
}

func (h *loggingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	recorder := &statusRecorder{ResponseWriter: w}
	h.handler.ServeHTTP(recorder, r)
	if recorder.status == 0 {
		recorder.status = http.StatusOK
	}
	h.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"remoteAddr", r.RemoteAddr,
		"status", recorder.status,
		"size", recorder.size,
		"duration", time.Since(start))
}
