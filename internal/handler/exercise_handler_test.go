package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/fityog/internal/middleware"
	"github.com/hitoshi/fityog/internal/model"
	"github.com/hitoshi/fityog/internal/workout"
)

// nopMetrics はメトリクス計上を無視するテスト用実装。
type nopMetrics struct {
	exercisesLogged int
	bookingsCreated int
	recommendOK     int
	recommendNG     map[string]int
}

func newNopMetrics() *nopMetrics {
	return &nopMetrics{recommendNG: make(map[string]int)}
}

func (m *nopMetrics) RecordExerciseLogged()                  { m.exercisesLogged++ }
func (m *nopMetrics) RecordBookingCreated()                  { m.bookingsCreated++ }
func (m *nopMetrics) RecordRecommendSuccess()                { m.recommendOK++ }
func (m *nopMetrics) RecordRecommendFailure(reason string)   { m.recommendNG[reason]++ }
func (m *nopMetrics) RecordRecommendLatency(d time.Duration) {}
func (m *nopMetrics) RecordHTTPStatus(statusCode int)        {}
func (m *nopMetrics) RecordHTTPDuration(d time.Duration)     {}

// mockExerciseService はExerciseServiceInterfaceのモック実装。
type mockExerciseService struct {
	listExercisesFn func(ctx context.Context, userID int) ([]*model.Exercise, error)
	logExerciseFn   func(ctx context.Context, userID int, input workout.LogInput) (*model.Exercise, error)
}

func (m *mockExerciseService) ListExercises(ctx context.Context, userID int) ([]*model.Exercise, error) {
	return m.listExercisesFn(ctx, userID)
}

func (m *mockExerciseService) LogExercise(ctx context.Context, userID int, input workout.LogInput) (*model.Exercise, error) {
	return m.logExerciseFn(ctx, userID, input)
}

// authedRequest はユーザーIDをコンテキストに持つリクエストを生成する。
func authedRequest(method, target string, body string, userID int) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

func TestExerciseHandler_ListExercises(t *testing.T) {
	svc := &mockExerciseService{
		listExercisesFn: func(ctx context.Context, userID int) ([]*model.Exercise, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return []*model.Exercise{
				{ID: 1, UserID: 1, Type: "running", Duration: 30, Calories: 250},
			}, nil
		},
	}
	h := NewExerciseHandler(svc, newNopMetrics())

	rec := httptest.NewRecorder()
	h.ListExercises(rec, authedRequest(http.MethodGet, "/api/exercises", "", 1))

	if rec.Code != http.StatusOK {
		t.Errorf("ステータス = %d, want 200", rec.Code)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if len(body) != 1 || body[0]["type"] != "running" {
		t.Errorf("body = %+v", body)
	}
}

func TestExerciseHandler_ListExercises_EmptyReturnsArray(t *testing.T) {
	svc := &mockExerciseService{
		listExercisesFn: func(ctx context.Context, userID int) ([]*model.Exercise, error) {
			return nil, nil
		},
	}
	h := NewExerciseHandler(svc, newNopMetrics())

	rec := httptest.NewRecorder()
	h.ListExercises(rec, authedRequest(http.MethodGet, "/api/exercises", "", 1))

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("0件の場合は[]が返されるべき: got %s", got)
	}
}

func TestExerciseHandler_ListExercises_Unauthenticated(t *testing.T) {
	h := NewExerciseHandler(&mockExerciseService{}, newNopMetrics())

	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	rec := httptest.NewRecorder()
	h.ListExercises(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ステータス = %d, want 401", rec.Code)
	}
}

func TestExerciseHandler_LogExercise_Success(t *testing.T) {
	metrics := newNopMetrics()
	svc := &mockExerciseService{
		logExerciseFn: func(ctx context.Context, userID int, input workout.LogInput) (*model.Exercise, error) {
			return &model.Exercise{ID: 1, UserID: userID, Type: input.Type, Duration: input.Duration, Date: time.Now()}, nil
		},
	}
	h := NewExerciseHandler(svc, metrics)

	rec := httptest.NewRecorder()
	h.LogExercise(rec, authedRequest(http.MethodPost, "/api/exercises",
		`{"type":"running","duration":30,"calories":250}`, 1))

	if rec.Code != http.StatusCreated {
		t.Errorf("ステータス = %d, want 201", rec.Code)
	}
	if metrics.exercisesLogged != 1 {
		t.Errorf("運動ログ作成メトリクスが計上されるべき: got %d", metrics.exercisesLogged)
	}
}

func TestExerciseHandler_LogExercise_ValidationError(t *testing.T) {
	metrics := newNopMetrics()
	svc := &mockExerciseService{
		logExerciseFn: func(ctx context.Context, userID int, input workout.LogInput) (*model.Exercise, error) {
			return nil, model.NewValidationError("type", "必須項目です")
		},
	}
	h := NewExerciseHandler(svc, metrics)

	rec := httptest.NewRecorder()
	h.LogExercise(rec, authedRequest(http.MethodPost, "/api/exercises", `{"duration":30}`, 1))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ステータス = %d, want 400", rec.Code)
	}
	if metrics.exercisesLogged != 0 {
		t.Error("失敗時はメトリクスを計上しないべき")
	}

	var body apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if body.Code != model.ErrCodeValidationFailed {
		t.Errorf("エラーコード = %s, want %s", body.Code, model.ErrCodeValidationFailed)
	}
	// フィールドレベルの詳細を含む
	if !strings.Contains(body.Message, "type") {
		t.Errorf("エラーメッセージにフィールド名が含まれるべき: %s", body.Message)
	}
}

func TestExerciseHandler_LogExercise_InvalidJSON(t *testing.T) {
	h := NewExerciseHandler(&mockExerciseService{}, newNopMetrics())

	rec := httptest.NewRecorder()
	h.LogExercise(rec, authedRequest(http.MethodPost, "/api/exercises", "not json", 1))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ステータス = %d, want 400", rec.Code)
	}
}

func TestExerciseHandler_LogExercise_WithExplicitDate(t *testing.T) {
	var gotInput workout.LogInput
	svc := &mockExerciseService{
		logExerciseFn: func(ctx context.Context, userID int, input workout.LogInput) (*model.Exercise, error) {
			gotInput = input
			return &model.Exercise{ID: 1, UserID: userID, Type: input.Type, Duration: input.Duration, Date: input.Date}, nil
		},
	}
	h := NewExerciseHandler(svc, newNopMetrics())

	rec := httptest.NewRecorder()
	h.LogExercise(rec, authedRequest(http.MethodPost, "/api/exercises",
		`{"type":"yoga","duration":60,"date":"2025-06-01T09:00:00Z"}`, 1))

	if rec.Code != http.StatusCreated {
		t.Fatalf("ステータス = %d, want 201", rec.Code)
	}
	want := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if !gotInput.Date.Equal(want) {
		t.Errorf("date = %v, want %v", gotInput.Date, want)
	}
}
