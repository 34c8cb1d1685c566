package expert

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/fityog/internal/model"
	"github.com/hitoshi/fityog/internal/repository"
)

// defaultExperts は初期投入するエキスパートの固定ロースター。
// 実行時ロジックではなく、1回限りのフィクスチャとして扱う。
var defaultExperts = []model.User{
	{
		Username:    "Sarah Chen",
		IsExpert:    true,
		Bio:         "Certified yoga instructor with 8 years of experience in Hatha and Vinyasa yoga. Specialized in helping beginners develop proper form and breathing techniques.",
		Specialties: []string{"Hatha Yoga", "Vinyasa Flow", "Meditation", "Breathwork"},
		Rating:      4.9,
		PhotoURL:    "https://images.unsplash.com/photo-1594381898411-846e7d193883",
		Experience:  "8+ years teaching",
	},
	{
		Username:    "Mike Rodriguez",
		IsExpert:    true,
		Bio:         "Former professional athlete turned fitness coach. Specializing in strength training and HIIT workouts. Passionate about helping clients achieve their fitness goals.",
		Specialties: []string{"Strength Training", "HIIT", "Sports Conditioning", "Nutrition"},
		Rating:      4.8,
		PhotoURL:    "https://images.unsplash.com/photo-1594381898411-846e7d193883",
		Experience:  "10+ years coaching",
	},
	{
		Username:    "Priya Patel",
		IsExpert:    true,
		Bio:         "Ashtanga yoga practitioner and mindfulness coach. Combines traditional yoga practices with modern wellness techniques for a holistic approach to health.",
		Specialties: []string{"Ashtanga Yoga", "Mindfulness", "Wellness Coaching", "Power Yoga"},
		Rating:      4.7,
		PhotoURL:    "https://images.unsplash.com/photo-1594381898411-846e7d193883",
		Experience:  "6+ years teaching",
	},
}

// SeedDefaults はエキスパートの固定ロースターをストアに投入する。
// 同名ユーザーが既に存在する場合はスキップするため、複数回実行しても
// 重複しない。エキスパートアカウントはログイン不可とするため、
// パスワードはランダム値のハッシュを設定する。
func SeedDefaults(ctx context.Context, userRepo repository.UserRepository) error {
	for _, tmpl := range defaultExperts {
		existing, err := userRepo.FindByUsername(ctx, tmpl.Username)
		if err != nil {
			return fmt.Errorf("failed to check expert %q: %w", tmpl.Username, err)
		}
		if existing != nil {
			continue
		}

		hash, err := unusablePasswordHash()
		if err != nil {
			return fmt.Errorf("failed to generate password hash: %w", err)
		}

		user := tmpl
		user.PasswordHash = hash
		user.CreatedAt = time.Now()
		if err := userRepo.Create(ctx, &user); err != nil {
			return fmt.Errorf("failed to seed expert %q: %w", tmpl.Username, err)
		}

		slog.Info("expert seeded",
			slog.Int("user_id", user.ID),
			slog.String("username", user.Username),
		)
	}
	return nil
}

// unusablePasswordHash はログインに使用できないランダムパスワードのハッシュを返す。
func unusablePasswordHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(b)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
