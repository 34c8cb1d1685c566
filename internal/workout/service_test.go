package workout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/fityog/internal/model"
)

// mockExerciseRepo はExerciseRepositoryのモック実装。
type mockExerciseRepo struct {
	listByUserIDFn func(ctx context.Context, userID int) ([]*model.Exercise, error)
	createFn       func(ctx context.Context, exercise *model.Exercise) error
}

func (m *mockExerciseRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Exercise, error) {
	return m.listByUserIDFn(ctx, userID)
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	return m.createFn(ctx, exercise)
}

func TestService_ListExercises(t *testing.T) {
	repo := &mockExerciseRepo{
		listByUserIDFn: func(ctx context.Context, userID int) ([]*model.Exercise, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return []*model.Exercise{
				{ID: 1, UserID: 1, Type: "running", Duration: 30},
			}, nil
		},
	}

	svc := NewService(repo)
	list, err := svc.ListExercises(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListExercises がエラーを返した: %v", err)
	}
	if len(list) != 1 || list[0].Type != "running" {
		t.Errorf("list = %+v", list)
	}
}

func TestService_LogExercise_Success(t *testing.T) {
	var created *model.Exercise
	repo := &mockExerciseRepo{
		createFn: func(ctx context.Context, exercise *model.Exercise) error {
			exercise.ID = 1
			created = exercise
			return nil
		},
	}

	svc := NewService(repo)
	date := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	exercise, err := svc.LogExercise(context.Background(), 1, LogInput{
		Type:     "running",
		Duration: 30,
		Calories: 250,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("LogExercise がエラーを返した: %v", err)
	}

	if exercise.ID != 1 || created.UserID != 1 {
		t.Errorf("exercise = %+v", exercise)
	}
	if !exercise.Date.Equal(date) {
		t.Errorf("date = %v, want %v", exercise.Date, date)
	}
}

func TestService_LogExercise_DateDefaultsToNow(t *testing.T) {
	repo := &mockExerciseRepo{
		createFn: func(ctx context.Context, exercise *model.Exercise) error {
			exercise.ID = 1
			return nil
		},
	}

	svc := NewService(repo)
	before := time.Now()
	exercise, err := svc.LogExercise(context.Background(), 1, LogInput{
		Type:     "yoga",
		Duration: 60,
	})
	if err != nil {
		t.Fatalf("LogExercise がエラーを返した: %v", err)
	}

	if exercise.Date.Before(before) || exercise.Date.After(time.Now()) {
		t.Errorf("日付省略時は現在時刻が採用されるべき: got %v", exercise.Date)
	}
}

func TestService_LogExercise_Validation(t *testing.T) {
	svc := NewService(&mockExerciseRepo{})

	tests := []struct {
		name  string
		input LogInput
	}{
		{"空の種別", LogInput{Type: "", Duration: 30}},
		{"負の時間", LogInput{Type: "running", Duration: -1}},
		{"負のカロリー", LogInput{Type: "running", Duration: 30, Calories: -10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogExercise(context.Background(), 1, tt.input)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Errorf("VALIDATION_FAILED が返されるべき: got %v", err)
			}
		})
	}
}

func TestService_LogExercise_ZeroDurationAllowed(t *testing.T) {
	repo := &mockExerciseRepo{
		createFn: func(ctx context.Context, exercise *model.Exercise) error {
			exercise.ID = 1
			return nil
		},
	}

	svc := NewService(repo)
	if _, err := svc.LogExercise(context.Background(), 1, LogInput{Type: "stretch", Duration: 0}); err != nil {
		t.Errorf("0分の記録は許容されるべき: %v", err)
	}
}
