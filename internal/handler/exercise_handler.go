package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/fityog/internal/middleware"
	"github.com/hitoshi/fityog/internal/model"
	"github.com/hitoshi/fityog/internal/workout"
)

// ExerciseServiceInterface は運動ログハンドラーが必要とするサービスインターフェース。
type ExerciseServiceInterface interface {
	ListExercises(ctx context.Context, userID int) ([]*model.Exercise, error)
	LogExercise(ctx context.Context, userID int, input workout.LogInput) (*model.Exercise, error)
}

// ExerciseRecorder は運動ログ作成のメトリクス計上に必要なインターフェース。
type ExerciseRecorder interface {
	RecordExerciseLogged()
}

// ExerciseHandler は運動ログのHTTPハンドラー。
type ExerciseHandler struct {
	service  ExerciseServiceInterface
	recorder ExerciseRecorder
}

// NewExerciseHandler はExerciseHandlerを生成する。
func NewExerciseHandler(service ExerciseServiceInterface, recorder ExerciseRecorder) *ExerciseHandler {
	return &ExerciseHandler{
		service:  service,
		recorder: recorder,
	}
}

// logExerciseRequest は運動ログ記録リクエストのボディ。
// dateは省略可能で、省略時はサーバー側で現在時刻を採用する。
type logExerciseRequest struct {
	Type     string     `json:"type"`
	Duration int        `json:"duration"`
	Calories int        `json:"calories"`
	Date     *time.Time `json:"date"`
}

// ListExercises は認証ユーザーの運動ログ一覧を返す。
// GET /api/exercises
func (h *ExerciseHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	exercises, err := h.service.ListExercises(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 0件でもnullではなく空配列を返す
	if exercises == nil {
		exercises = []*model.Exercise{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(exercises)
}

// LogExercise は運動ログを1件記録する。
// POST /api/exercises
func (h *ExerciseHandler) LogExercise(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req logExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	input := workout.LogInput{
		Type:     req.Type,
		Duration: req.Duration,
		Calories: req.Calories,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	exercise, err := h.service.LogExercise(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.recorder.RecordExerciseLogged()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(exercise)
}
