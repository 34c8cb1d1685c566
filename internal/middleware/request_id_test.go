package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var gotID string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID == "" {
		t.Error("リクエストIDが採番されるべき")
	}
	if rec.Header().Get("X-Request-ID") != gotID {
		t.Errorf("レスポンスヘッダーのID = %s, want %s", rec.Header().Get("X-Request-ID"), gotID)
	}
}

func TestRequestIDMiddleware_PropagatesClientID(t *testing.T) {
	var gotID string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "client-supplied-id" {
		t.Errorf("クライアント指定のIDが引き継がれるべき: got %s", gotID)
	}
}

func TestRequestIDFromContext_NotSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if id := RequestIDFromContext(req.Context()); id != "" {
		t.Errorf("未設定の場合は空文字列が返されるべき: got %s", id)
	}
}
