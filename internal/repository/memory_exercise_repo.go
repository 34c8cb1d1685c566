package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/fityog/internal/model"
)

// MemoryExerciseRepo はプロセスメモリ上の運動ログリポジトリ。
// UserIDの参照整合性は検証しない（永続バックエンドのみが強制する）。
type MemoryExerciseRepo struct {
	mu        sync.Mutex
	exercises map[int]*model.Exercise
	nextID    int
}

// NewMemoryExerciseRepo はMemoryExerciseRepoを生成する。
func NewMemoryExerciseRepo() *MemoryExerciseRepo {
	return &MemoryExerciseRepo{
		exercises: make(map[int]*model.Exercise),
		nextID:    1,
	}
}

// ListByUserID は指定ユーザーが所有する運動ログのみをID昇順で返す。
func (r *MemoryExerciseRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*model.Exercise, 0)
	for _, ex := range r.exercises {
		if ex.UserID == userID {
			e := *ex
			result = append(result, &e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create は運動ログを作成し、採番したIDをexercise.IDに書き込む。
func (r *MemoryExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = r.nextID
	r.nextID++

	stored := *exercise
	r.exercises[exercise.ID] = &stored
	return nil
}

// compile-time interface check
var _ ExerciseRepository = (*MemoryExerciseRepo)(nil)
