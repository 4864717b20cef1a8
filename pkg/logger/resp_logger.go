// Package logger wraps http.ResponseWriter so middleware can report on the
// response after the handler returns.
package logger

import "net/http"

type ResponseLogger struct {
	w      http.ResponseWriter
	status int
	bytes  int
}

func New(w http.ResponseWriter) *ResponseLogger {
	return &ResponseLogger{w: w, status: http.StatusOK}
}

func (l *ResponseLogger) WriteHeader(code int) {
	l.status = code
	l.w.WriteHeader(code)
}

func (l *ResponseLogger) Write(b []byte) (int, error) {
	n, err := l.w.Write(b)
	l.bytes += n
	return n, err
}

func (l *ResponseLogger) Header() http.Header {
	return l.w.Header()
}

// Status returns the status code sent to the client, http.StatusOK if the
// handler never called WriteHeader.
func (l *ResponseLogger) Status() int {
	return l.status
}

// Written returns the number of body bytes sent to the client.
func (l *ResponseLogger) Written() int {
	return l.bytes
}
