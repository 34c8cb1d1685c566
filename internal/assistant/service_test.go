package assistant

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/fityog/internal/model"
)

// mockCompletionClient はCompletionClientのモック実装。
type mockCompletionClient struct {
	createCompletionFn func(ctx context.Context, messages []Message) (string, error)
}

func (m *mockCompletionClient) CreateCompletion(ctx context.Context, messages []Message) (string, error) {
	return m.createCompletionFn(ctx, messages)
}

// validRecommendationJSON は契約を満たす応答の例。
const validRecommendationJSON = `{
  "message": "Here is a gentle routine for your back pain.",
  "asanas": [
    {
      "name": "Child's Pose",
      "duration": 5,
      "benefits": ["relieves back tension", "calms the mind"],
      "difficulty": "beginner",
      "instructions": ["Kneel on the floor", "Fold forward with arms extended"]
    },
    {
      "name": "Cat-Cow",
      "duration": 3,
      "benefits": ["improves spinal mobility"],
      "difficulty": "beginner",
      "instructions": ["Start on all fours", "Alternate arching and rounding the back"]
    }
  ],
  "exercises": [
    {
      "name": "Bird Dog",
      "duration": 5,
      "benefits": ["strengthens core"],
      "difficulty": "beginner",
      "instructions": ["Extend opposite arm and leg", "Hold and switch sides"]
    }
  ],
  "resources": [
    {
      "title": "Back Care Basics",
      "type": "book",
      "description": "A practical guide to yoga for back health."
    }
  ]
}`

func TestService_Recommend_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			if len(messages) != 2 {
				t.Errorf("メッセージ数 = %d, want 2", len(messages))
			}
			if messages[0].Role != "system" {
				t.Errorf("messages[0].Role = %q, want system", messages[0].Role)
			}
			if !strings.Contains(messages[0].Content, "yoga instructor") {
				t.Error("システムプロンプトに指示文が含まれるべき")
			}
			if messages[1].Role != "user" || messages[1].Content != "I have lower back pain" {
				t.Errorf("messages[1] = %+v, want ユーザーの相談文", messages[1])
			}
			return validRecommendationJSON, nil
		},
	}

	svc := NewService(client, logger)
	rec, err := svc.Recommend(context.Background(), 1, "I have lower back pain")
	if err != nil {
		t.Fatalf("Recommend がエラーを返した: %v", err)
	}

	if rec.Message == "" {
		t.Error("message が空であってはならない")
	}
	if len(rec.Asanas) != 2 {
		t.Errorf("アーサナ数 = %d, want 2", len(rec.Asanas))
	}
	if rec.Asanas[0].Name != "Child's Pose" {
		t.Errorf("asanas[0].name = %q, want Child's Pose", rec.Asanas[0].Name)
	}
	if len(rec.Exercises) != 1 {
		t.Errorf("エクササイズ数 = %d, want 1", len(rec.Exercises))
	}
	if len(rec.Resources) != 1 {
		t.Errorf("リソース数 = %d, want 1", len(rec.Resources))
	}
}

func TestService_Recommend_EmptyPrompt(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	called := false
	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			called = true
			return validRecommendationJSON, nil
		},
	}

	svc := NewService(client, logger)
	_, err := svc.Recommend(context.Background(), 1, "")
	if err == nil {
		t.Fatal("空の相談文でエラーが返されるべき")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIError であるべき: got %T", err)
	}
	if apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("エラーコード = %s, want %s", apiErr.Code, model.ErrCodeValidationFailed)
	}
	if called {
		t.Error("検証エラー時に上流APIを呼び出してはならない")
	}
}

func TestService_Recommend_UpstreamFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			return "", &UpstreamError{StatusCode: 429, Message: "Rate limit reached"}
		},
	}

	svc := NewService(client, logger)
	_, err := svc.Recommend(context.Background(), 1, "help me relax")
	if err == nil {
		t.Fatal("上流失敗時にエラーが返されるべき")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIError であるべき: got %T", err)
	}
	if apiErr.Code != model.ErrCodeAIUnavailable {
		t.Errorf("エラーコード = %s, want %s", apiErr.Code, model.ErrCodeAIUnavailable)
	}
	// 上流の詳細はユーザー向けメッセージに含めない
	if strings.Contains(apiErr.Message, "Rate limit") {
		t.Error("ユーザー向けメッセージに上流の詳細を含めてはならない")
	}
}

func TestService_Recommend_NoContent(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			return "", ErrNoContent
		},
	}

	svc := NewService(client, logger)
	_, err := svc.Recommend(context.Background(), 1, "help me relax")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIError であるべき: got %v", err)
	}
	if apiErr.Code != model.ErrCodeAIResponseFormat {
		t.Errorf("エラーコード = %s, want %s", apiErr.Code, model.ErrCodeAIResponseFormat)
	}
}

func TestService_Recommend_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			return "this is not json", nil
		},
	}

	svc := NewService(client, logger)
	_, err := svc.Recommend(context.Background(), 1, "help me relax")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIError であるべき: got %v", err)
	}
	if apiErr.Code != model.ErrCodeAIResponseFormat {
		t.Errorf("エラーコード = %s, want %s", apiErr.Code, model.ErrCodeAIResponseFormat)
	}
}

func TestService_Recommend_SchemaViolation(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	// durationが0のアーサナは契約違反
	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			return `{
  "message": "hi",
  "asanas": [
    {
      "name": "Child's Pose",
      "duration": 0,
      "benefits": ["b"],
      "difficulty": "beginner",
      "instructions": ["i"]
    }
  ],
  "exercises": [],
  "resources": []
}`, nil
		},
	}

	svc := NewService(client, logger)
	_, err := svc.Recommend(context.Background(), 1, "help me relax")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIError であるべき: got %v", err)
	}
	if apiErr.Code != model.ErrCodeAIResponseFormat {
		t.Errorf("エラーコード = %s, want %s", apiErr.Code, model.ErrCodeAIResponseFormat)
	}
}

func TestService_Recommend_SanitizesTextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			return `{
  "message": "<script>alert(1)</script>Relax and breathe.",
  "asanas": [
    {
      "name": "Child's <b>Pose</b>",
      "duration": 5,
      "benefits": ["<img src=x onerror=alert(1)>calms the mind"],
      "difficulty": "beginner",
      "instructions": ["Kneel on the floor"]
    }
  ],
  "exercises": [],
  "resources": [
    {
      "title": "Back <i>Care</i>",
      "type": "article",
      "description": "A guide."
    }
  ]
}`, nil
		},
	}

	svc := NewService(client, logger)
	rec, err := svc.Recommend(context.Background(), 1, "help me relax")
	if err != nil {
		t.Fatalf("Recommend がエラーを返した: %v", err)
	}

	if strings.Contains(rec.Message, "<script>") {
		t.Errorf("message からscriptタグが除去されるべき: %q", rec.Message)
	}
	if !strings.Contains(rec.Message, "Relax and breathe.") {
		t.Errorf("message のテキスト部分は残るべき: %q", rec.Message)
	}
	if rec.Asanas[0].Name != "Child's Pose" {
		t.Errorf("name からHTMLタグが除去されるべき: %q", rec.Asanas[0].Name)
	}
	if strings.Contains(rec.Asanas[0].Benefits[0], "<img") {
		t.Errorf("benefits からimgタグが除去されるべき: %q", rec.Asanas[0].Benefits[0])
	}
	if rec.Resources[0].Title != "Back Care" {
		t.Errorf("title からHTMLタグが除去されるべき: %q", rec.Resources[0].Title)
	}
}

func TestService_Recommend_LogsPromptExactlyOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	client := &mockCompletionClient{
		createCompletionFn: func(ctx context.Context, messages []Message) (string, error) {
			return validRecommendationJSON, nil
		},
	}

	svc := NewService(client, logger)
	const prompt = "prompt-marker-for-log-count"
	if _, err := svc.Recommend(context.Background(), 1, prompt); err != nil {
		t.Fatalf("Recommend がエラーを返した: %v", err)
	}

	count := strings.Count(buf.String(), prompt)
	if count != 1 {
		t.Errorf("相談文はログに1回だけ記録されるべき: got %d", count)
	}
}
