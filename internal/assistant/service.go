package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hitoshi/fityog/internal/model"
)

// systemPrompt はAIに渡す固定の指示文。
// 応答スキーマと件数の目安をここで指定する。件数はベストエフォートの
// 指示であり、応答側で強制はしない。
const systemPrompt = `You are an expert yoga instructor and fitness trainer with deep knowledge of yoga asanas, exercise physiology, and wellness resources.

When users describe their health concerns or fitness goals, provide comprehensive recommendations in the following JSON format:

{
  "message": "A personalized message addressing their concerns",
  "asanas": [
    {
      "name": "Name of the asana",
      "duration": recommended duration in minutes,
      "benefits": ["benefit1", "benefit2"],
      "difficulty": "beginner|intermediate|advanced",
      "instructions": ["step1", "step2"]
    }
  ],
  "exercises": [
    {
      "name": "Name of the exercise",
      "duration": recommended duration in minutes,
      "benefits": ["benefit1", "benefit2"],
      "difficulty": "beginner|intermediate|advanced",
      "instructions": ["step1", "step2"]
    }
  ],
  "resources": [
    {
      "title": "Title of the resource",
      "type": "book|article",
      "description": "Brief description of the resource"
    }
  ]
}

Always provide at least 2-3 asanas, 2-3 exercises, and 1-2 relevant resources.
Focus on safe, beginner-friendly options unless specifically asked for advanced routines.`

// CompletionClient はチャット補完の実行インターフェース。
// テストではモック実装に差し替える。
type CompletionClient interface {
	CreateCompletion(ctx context.Context, messages []Message) (string, error)
}

// Service はAIレコメンド取得のビジネスロジックを提供する。
type Service struct {
	client    CompletionClient
	logger    *slog.Logger
	sanitizer *textSanitizer
}

// コンパイル時にインターフェースを満たすことを確認
var _ CompletionClient = (*Client)(nil)

// NewService はServiceを生成する。
func NewService(client CompletionClient, logger *slog.Logger) *Service {
	return &Service{
		client:    client,
		logger:    logger,
		sanitizer: newTextSanitizer(),
	}
}

// Recommend は相談文をAIに送り、構造化されたレコメンドを返す。
// 上流呼び出しの失敗はAI_SERVICE_UNAVAILABLE、応答の形式不正は
// AI_RESPONSE_FORMATのAPIErrorとして返す。上流の失敗詳細はログにのみ
// 記録し、呼び出し元には汎用メッセージを返す。
func (s *Service) Recommend(ctx context.Context, userID int, prompt string) (*model.Recommendation, error) {
	if prompt == "" {
		return nil, model.NewValidationError("prompt", "必須項目です")
	}

	// 相談文の記録はここで1回だけ行う（クライアント層では記録しない）
	s.logger.Info("recommendation requested",
		slog.Int("user_id", userID),
		slog.String("prompt", prompt),
	)

	content, err := s.client.CreateCompletion(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		if errors.Is(err, ErrNoContent) {
			s.logger.Error("completion returned no content", slog.Int("user_id", userID))
			return nil, model.NewAIResponseFormatError()
		}
		s.logger.Error("completion request failed",
			slog.Int("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewAIUnavailableError()
	}

	var rec model.Recommendation
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		s.logger.Error("failed to parse recommendation JSON",
			slog.Int("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewAIResponseFormatError()
	}
	if err := rec.Validate(); err != nil {
		s.logger.Error("recommendation failed schema validation",
			slog.Int("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewAIResponseFormatError()
	}

	s.sanitizer.sanitizeRecommendation(&rec)

	s.logger.Info("recommendation generated",
		slog.Int("user_id", userID),
		slog.Int("asana_count", len(rec.Asanas)),
		slog.Int("exercise_count", len(rec.Exercises)),
		slog.Int("resource_count", len(rec.Resources)),
	)
	return &rec, nil
}
