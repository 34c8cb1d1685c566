package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/fityog/internal/metrics"
	"github.com/hitoshi/fityog/internal/middleware"
)

// MetricsRecorder はハンドラー層が必要とするメトリクス計上のインターフェース。
type MetricsRecorder interface {
	ExerciseRecorder
	BookingRecorder
	RecommendRecorder
	middleware.HTTPStatusRecorder
}

// コンパイル時にインターフェースを満たすことを確認
var _ MetricsRecorder = (*metrics.Collector)(nil)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics         MetricsRecorder
	MetricsGatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	ExerciseService ExerciseServiceInterface
	ExpertService   ExpertServiceInterface
	ChatService     ChatServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → RequestID → Recovery → SecurityHeaders → Logging → Metrics
//	→ Session → RateLimit(General) [→ RateLimit(Chat)]
//
// 認証ルート（/auth/*）、/health、/metricsはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	exerciseHandler := NewExerciseHandler(deps.ExerciseService, deps.Metrics)
	expertHandler := NewExpertHandler(deps.ExpertService, deps.Metrics)
	chatHandler := NewChatHandler(deps.ChatService, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/health", handleHealth)
	r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 運動ログ
		r.Route("/api/exercises", func(r chi.Router) {
			r.Get("/", exerciseHandler.ListExercises)
			r.Post("/", exerciseHandler.LogExercise)
		})

		// エキスパート一覧と予約
		r.Get("/api/experts", expertHandler.ListExperts)
		r.Post("/api/bookings", expertHandler.CreateBooking)

		// AIチャット（チャット専用レート制限を追加）
		r.With(deps.RateLimiter.ChatMiddleware()).Post("/api/chat", chatHandler.Chat)
	})

	return r
}

// handleHealth はサーバーの稼働確認に応答する。
// GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
