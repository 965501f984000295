package httpserver

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"timecapsule/internal/platform/httpx"
)

// Envelope is the uniform shape of every JSON response leaving the server.
type Envelope struct {
	APIVersion string          `json:"api_version"`
	RequestID  string          `json:"request_id,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *EnvelopeError  `json:"error,omitempty"`
}

type EnvelopeError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseInterceptor buffers the handler response and reshapes it on the way out.
// Status >= 400 always becomes an error envelope. Successful JSON or empty
// bodies become a data envelope. Other media types (metrics exposition) and
// everything under SwaggerPrefix pass through untouched.
func ResponseInterceptor(apiVersion string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, SwaggerPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			rec := newBufferedWriter()
			defer func() {
				// A panic escaping the recovery step still gets shaped.
				if recovered := recover(); recovered != nil {
					if recovered == http.ErrAbortHandler {
						panic(recovered)
					}
					rec.reset()
					rec.WriteHeader(http.StatusInternalServerError)
				}
				flushEnveloped(w, rec, apiVersion, httpx.RequestID(r))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

func flushEnveloped(w http.ResponseWriter, rec *bufferedWriter, apiVersion string, requestID string) {
	for key, values := range rec.header {
		w.Header()[key] = values
	}

	status := rec.statusCode()
	body := rec.body.Bytes()
	contentType := rec.header.Get("Content-Type")

	var envelope Envelope
	switch {
	case status >= http.StatusBadRequest:
		envelope = Envelope{APIVersion: apiVersion, RequestID: requestID, Error: errorFromBody(status, contentType, body)}
	case status == http.StatusNoContent || status == http.StatusNotModified:
		w.WriteHeader(status)
		return
	case len(bytes.TrimSpace(body)) == 0:
		envelope = Envelope{APIVersion: apiVersion, RequestID: requestID}
	case isJSON(contentType) && json.Valid(body):
		envelope = Envelope{APIVersion: apiVersion, RequestID: requestID, Data: json.RawMessage(bytes.TrimSpace(body))}
	default:
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"api_version":"` + apiVersion + `","error":{"status":500,"code":"internal_error","message":"internal server error"}}`)
	}
	payload = append(payload, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func errorFromBody(status int, contentType string, body []byte) *EnvelopeError {
	out := &EnvelopeError{
		Status:  status,
		Code:    codeFromStatus(status),
		Message: strings.ToLower(http.StatusText(status)),
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out
	}
	if isJSON(contentType) {
		var typed httpx.ErrorResponse
		if err := json.Unmarshal(trimmed, &typed); err == nil && typed.Code != "" {
			out.Code = typed.Code
			if typed.Message != "" {
				out.Message = typed.Message
			}
			return out
		}
	}
	out.Message = string(trimmed)
	return out
}

func codeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// bufferedWriter captures headers, status and body until the interceptor flushes.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) statusCode() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

func (b *bufferedWriter) reset() {
	b.header = make(http.Header)
	b.status = 0
	b.body.Reset()
}
