package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/fityog/internal/expert"
	"github.com/hitoshi/fityog/internal/middleware"
	"github.com/hitoshi/fityog/internal/model"
)

// ExpertServiceInterface はエキスパートハンドラーが必要とするサービスインターフェース。
type ExpertServiceInterface interface {
	ListExperts(ctx context.Context) ([]*model.User, error)
	CreateBooking(ctx context.Context, userID int, input expert.BookingInput) (*model.Booking, error)
}

// BookingRecorder は予約作成のメトリクス計上に必要なインターフェース。
type BookingRecorder interface {
	RecordBookingCreated()
}

// ExpertHandler はエキスパート一覧とセッション予約のHTTPハンドラー。
type ExpertHandler struct {
	service  ExpertServiceInterface
	recorder BookingRecorder
}

// NewExpertHandler はExpertHandlerを生成する。
func NewExpertHandler(service ExpertServiceInterface, recorder BookingRecorder) *ExpertHandler {
	return &ExpertHandler{
		service:  service,
		recorder: recorder,
	}
}

// createBookingRequest はセッション予約リクエストのボディ。
// dateはRFC 3339形式または"2006-01-02"形式を受け付ける。
type createBookingRequest struct {
	ExpertID    int    `json:"expertId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ContactInfo string `json:"contactInfo"`
}

// ListExperts はエキスパート一覧を返す。
// GET /api/experts
func (h *ExpertHandler) ListExperts(w http.ResponseWriter, r *http.Request) {
	experts, err := h.service.ListExperts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 0件でもnullではなく空配列を返す
	if experts == nil {
		experts = []*model.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(experts)
}

// CreateBooking はエキスパートとのセッション予約を作成する。
// POST /api/bookings
func (h *ExpertHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	date, err := parseBookingDate(req.Date)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("date", "RFC 3339形式またはYYYY-MM-DD形式で指定してください"))
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, expert.BookingInput{
		ExpertID:    req.ExpertID,
		Date:        date,
		Time:        req.Time,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.recorder.RecordBookingCreated()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// parseBookingDate は予約日の文字列を解釈する。
// 空文字列はゼロ値として返し、サービス層の必須チェックに委ねる。
func parseBookingDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
