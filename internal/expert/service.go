// Package expert はエキスパート一覧とセッション予約を提供する。
package expert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/fityog/internal/model"
	"github.com/hitoshi/fityog/internal/repository"
)

// BookingInput はセッション予約の入力を表す。
type BookingInput struct {
	ExpertID    int
	Date        time.Time
	Time        string
	ContactInfo string
}

// Service はエキスパートに関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, bookingRepo repository.BookingRepository) *Service {
	return &Service{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
	}
}

// ListExperts はIsExpertがtrueの全ユーザーを返す。
func (s *Service) ListExperts(ctx context.Context) ([]*model.User, error) {
	experts, err := s.userRepo.ListExperts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experts: %w", err)
	}
	return experts, nil
}

// CreateBooking はエキスパートとのセッション予約を作成する。状態は常にpendingで開始する。
//
// 予約先ユーザーのIsExpertフラグや時間帯の競合は意図的に検証しない。
// 永続バックエンドでは外部キー制約により存在しないexpert_idは拒否される。
func (s *Service) CreateBooking(ctx context.Context, userID int, input BookingInput) (*model.Booking, error) {
	if input.ExpertID <= 0 {
		return nil, model.NewValidationError("expertId", "正のIDを指定してください")
	}
	if input.Date.IsZero() {
		return nil, model.NewValidationError("date", "必須項目です")
	}
	if input.Time == "" {
		return nil, model.NewValidationError("time", "必須項目です")
	}
	if input.ContactInfo == "" {
		return nil, model.NewValidationError("contactInfo", "必須項目です")
	}

	booking := &model.Booking{
		UserID:      userID,
		ExpertID:    input.ExpertID,
		Date:        input.Date,
		Time:        input.Time,
		ContactInfo: input.ContactInfo,
		Status:      model.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	slog.Info("booking created",
		slog.Int("user_id", userID),
		slog.Int("expert_id", booking.ExpertID),
		slog.String("time", booking.Time),
	)
	return booking, nil
}
