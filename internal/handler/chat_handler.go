package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/fityog/internal/middleware"
	"github.com/hitoshi/fityog/internal/model"
)

// ChatServiceInterface はAIチャットハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	Recommend(ctx context.Context, userID int, prompt string) (*model.Recommendation, error)
}

// RecommendRecorder はAIレコメンドのメトリクス計上に必要なインターフェース。
type RecommendRecorder interface {
	RecordRecommendSuccess()
	RecordRecommendFailure(reason string)
	RecordRecommendLatency(duration time.Duration)
}

// ChatHandler はAIレコメンド取得のHTTPハンドラー。
type ChatHandler struct {
	service  ChatServiceInterface
	recorder RecommendRecorder
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(service ChatServiceInterface, recorder RecommendRecorder) *ChatHandler {
	return &ChatHandler{
		service:  service,
		recorder: recorder,
	}
}

// chatRequest はAIチャットリクエストのボディ。
type chatRequest struct {
	Prompt string `json:"prompt"`
}

// Chat は相談文をAIに送り、構造化レコメンドを返す。
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	start := time.Now()
	rec, err := h.service.Recommend(r.Context(), userID, req.Prompt)
	h.recorder.RecordRecommendLatency(time.Since(start))

	if err != nil {
		h.recordFailure(err)
		handleServiceError(w, err)
		return
	}

	h.recorder.RecordRecommendSuccess()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// recordFailure は失敗理由を分類してメトリクスに計上する。
// 入力検証エラーはAI呼び出しに至っていないため計上しない。
func (h *ChatHandler) recordFailure(err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	switch apiErr.Code {
	case model.ErrCodeAIUnavailable:
		h.recorder.RecordRecommendFailure("upstream")
	case model.ErrCodeAIResponseFormat:
		h.recorder.RecordRecommendFailure("format")
	}
}
