package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestRequestLoggerRecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "Job not found")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/content/job/x", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid log line: %v, %q", err, buf.String())
	}
	if event["status"] != float64(http.StatusNotFound) {
		t.Fatalf("status = %v", event["status"])
	}
	if event["req_id"] == "" || event["req_id"] == nil {
		t.Fatalf("missing req_id: %#v", event)
	}
	if event["bytes"].(float64) <= 0 {
		t.Fatalf("bytes not recorded: %#v", event)
	}
}
