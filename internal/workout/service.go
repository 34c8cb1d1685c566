// Package workout は運動ログの記録・一覧機能を提供する。
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/fityog/internal/model"
	"github.com/hitoshi/fityog/internal/repository"
)

// LogInput は運動ログ1件の入力を表す。
type LogInput struct {
	Type     string
	Duration int
	Calories int
	Date     time.Time // ゼロ値の場合は現在時刻を採用する
}

// Service は運動ログに関するビジネスロジックを提供する。
type Service struct {
	exerciseRepo repository.ExerciseRepository
}

// NewService はServiceを生成する。
func NewService(exerciseRepo repository.ExerciseRepository) *Service {
	return &Service{exerciseRepo: exerciseRepo}
}

// ListExercises は指定ユーザーの運動ログを返す。
// 1件もない場合は空スライスを返す。
func (s *Service) ListExercises(ctx context.Context, userID int) ([]*model.Exercise, error) {
	exercises, err := s.exerciseRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, nil
}

// LogExercise は運動ログを1件記録する。
// 記録は追記専用で、作成後の更新・削除はできない。
func (s *Service) LogExercise(ctx context.Context, userID int, input LogInput) (*model.Exercise, error) {
	if input.Type == "" {
		return nil, model.NewValidationError("type", "必須項目です")
	}
	if input.Duration < 0 {
		return nil, model.NewValidationError("duration", "0以上を指定してください")
	}
	if input.Calories < 0 {
		return nil, model.NewValidationError("calories", "0以上を指定してください")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	exercise := &model.Exercise{
		UserID:   userID,
		Type:     input.Type,
		Duration: input.Duration,
		Calories: input.Calories,
		Date:     date,
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}

	slog.Info("exercise logged",
		slog.Int("user_id", userID),
		slog.String("type", exercise.Type),
		slog.Int("duration", exercise.Duration),
	)
	return exercise, nil
}
