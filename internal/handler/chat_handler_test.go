package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/fityog/internal/model"
)

// mockChatService はChatServiceInterfaceのモック実装。
type mockChatService struct {
	recommendFn func(ctx context.Context, userID int, prompt string) (*model.Recommendation, error)
}

func (m *mockChatService) Recommend(ctx context.Context, userID int, prompt string) (*model.Recommendation, error) {
	return m.recommendFn(ctx, userID, prompt)
}

func TestChatHandler_Chat_Success(t *testing.T) {
	metrics := newNopMetrics()
	svc := &mockChatService{
		recommendFn: func(ctx context.Context, userID int, prompt string) (*model.Recommendation, error) {
			if prompt != "I have back pain" {
				t.Errorf("prompt = %q", prompt)
			}
			return &model.Recommendation{
				Message: "Try these poses.",
				Asanas: []model.RecommendationItem{
					{Name: "Child's Pose", Duration: 5, Benefits: []string{"relief"},
						Difficulty: model.DifficultyBeginner, Instructions: []string{"kneel"}},
				},
			}, nil
		},
	}
	h := NewChatHandler(svc, metrics)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/chat", `{"prompt":"I have back pain"}`, 1))

	if rec.Code != http.StatusOK {
		t.Fatalf("ステータス = %d, want 200", rec.Code)
	}
	if metrics.recommendOK != 1 {
		t.Error("成功メトリクスが計上されるべき")
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if body["message"] != "Try these poses." {
		t.Errorf("message = %v", body["message"])
	}
	asanas, ok := body["asanas"].([]any)
	if !ok || len(asanas) != 1 {
		t.Errorf("asanas = %v", body["asanas"])
	}
}

func TestChatHandler_Chat_UpstreamFailure(t *testing.T) {
	metrics := newNopMetrics()
	svc := &mockChatService{
		recommendFn: func(ctx context.Context, userID int, prompt string) (*model.Recommendation, error) {
			return nil, model.NewAIUnavailableError()
		},
	}
	h := NewChatHandler(svc, metrics)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/chat", `{"prompt":"help"}`, 1))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("ステータス = %d, want 500", rec.Code)
	}
	if metrics.recommendNG["upstream"] != 1 {
		t.Errorf("upstream失敗メトリクスが計上されるべき: %v", metrics.recommendNG)
	}

	var body apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if body.Code != model.ErrCodeAIUnavailable {
		t.Errorf("エラーコード = %s, want %s", body.Code, model.ErrCodeAIUnavailable)
	}
}

func TestChatHandler_Chat_FormatFailure(t *testing.T) {
	metrics := newNopMetrics()
	svc := &mockChatService{
		recommendFn: func(ctx context.Context, userID int, prompt string) (*model.Recommendation, error) {
			return nil, model.NewAIResponseFormatError()
		},
	}
	h := NewChatHandler(svc, metrics)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/chat", `{"prompt":"help"}`, 1))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("ステータス = %d, want 500", rec.Code)
	}
	if metrics.recommendNG["format"] != 1 {
		t.Errorf("format失敗メトリクスが計上されるべき: %v", metrics.recommendNG)
	}
}

func TestChatHandler_Chat_EmptyPrompt(t *testing.T) {
	metrics := newNopMetrics()
	svc := &mockChatService{
		recommendFn: func(ctx context.Context, userID int, prompt string) (*model.Recommendation, error) {
			return nil, model.NewValidationError("prompt", "必須項目です")
		},
	}
	h := NewChatHandler(svc, metrics)

	rec := httptest.NewRecorder()
	h.Chat(rec, authedRequest(http.MethodPost, "/api/chat", `{"prompt":""}`, 1))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ステータス = %d, want 400", rec.Code)
	}
	// 検証エラーはAI失敗メトリクスに計上しない
	if len(metrics.recommendNG) != 0 {
		t.Errorf("検証エラーは失敗メトリクスに計上しないべき: %v", metrics.recommendNG)
	}
}

func TestChatHandler_Chat_Unauthenticated(t *testing.T) {
	h := NewChatHandler(&mockChatService{}, newNopMetrics())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ステータス = %d, want 401", rec.Code)
	}
}
