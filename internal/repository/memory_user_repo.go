package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/fityog/internal/model"
)

// MemoryUserRepo はプロセスメモリ上のユーザーリポジトリ。
// 開発・テスト用途で、プロセス終了とともに状態は失われる。
// IDの採番はミューテックスで直列化し、並行作成でも重複しない。
type MemoryUserRepo struct {
	mu     sync.Mutex
	users  map[int]*model.User
	nextID int
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users:  make(map[int]*model.User),
		nextID: 1,
	}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
// 線形走査だがインメモリバックエンドでは許容範囲。
func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

// Create はユーザーを作成し、採番したIDをuser.IDに書き込む。
// ユーザー名が重複している場合はAPIErrorを返し、カウンターも進めない。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return model.NewDuplicateUsernameError(user.Username)
		}
	}

	user.ID = r.nextID
	r.nextID++

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// ListExperts はIsExpertがtrueの全ユーザーを挿入順（=ID昇順）で返す。
func (r *MemoryUserRepo) ListExperts(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	experts := make([]*model.User, 0)
	for _, user := range r.users {
		if user.IsExpert {
			u := *user
			experts = append(experts, &u)
		}
	}
	sort.Slice(experts, func(i, j int) bool { return experts[i].ID < experts[j].ID })
	return experts, nil
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
