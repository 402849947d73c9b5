package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type editBody struct {
	Action string `json:"action"`
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAction string
	}{
		{"valid", `{"action":"File appeal"}`, 0, "File appeal"},
		{"empty body", ``, http.StatusBadRequest, ""},
		{"unknown field", `{"acton":"typo"}`, http.StatusBadRequest, ""},
		{"trailing object", `{"action":"a"}{"action":"b"}`, http.StatusBadRequest, ""},
		{"trailing garbage", `{"action":"a"} x`, http.StatusBadRequest, ""},
		{"too large", `{"action":"` + strings.Repeat("a", MaxJSONBodyBytes) + `"}`, http.StatusRequestEntityTooLarge, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/tasks/1", strings.NewReader(tt.body))
			var dest editBody
			err := ParseJSON(httptest.NewRecorder(), req, &dest)

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("ParseJSON() error = %v", err)
				}
				if dest.Action != tt.wantAction {
					t.Errorf("action = %q, want %q", dest.Action, tt.wantAction)
				}
				return
			}

			var bodyErr *BodyError
			if !errors.As(err, &bodyErr) {
				t.Fatalf("ParseJSON() error = %v, want *BodyError", err)
			}
			if bodyErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", bodyErr.Status, tt.wantStatus, bodyErr.Msg)
			}
		})
	}
}

func TestParseMultipart_TooLarge(t *testing.T) {
	body := "--b\r\nContent-Disposition: form-data; name=\"files\"; filename=\"a.txt\"\r\n\r\n" +
		strings.Repeat("a", 4096) + "\r\n--b--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/api/tasks/1/attachments/commit", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")

	err := ParseMultipart(httptest.NewRecorder(), req, 1024, 512)
	var bodyErr *BodyError
	if !errors.As(err, &bodyErr) {
		t.Fatalf("ParseMultipart() error = %v, want *BodyError", err)
	}
	if bodyErr.Status != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", bodyErr.Status)
	}
}
