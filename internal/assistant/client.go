// Package assistant はAIアシスタント連携機能を提供する。
// 外部のチャット補完APIを呼び出し、自由入力の相談文を
// 構造化されたヨガ・フィットネスのレコメンドに変換する。
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	// defaultEndpoint はOpenAIチャット補完APIのエンドポイント。
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

// ErrNoContent は上流が成功ステータスで内容のない応答を返したことを示す。
var ErrNoContent = errors.New("no response content from completion API")

// UpstreamError は上流APIのエラー応答（レート制限、認証失敗等）を表す。
type UpstreamError struct {
	StatusCode int
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Message)
}

// Message はチャット補完APIに渡す1メッセージを表す。
type Message struct {
	Role    string `json:"role"` // "system" または "user"
	Content string `json:"content"`
}

// Client はチャット補完APIのクライアント。
// response_format=json_objectを指定し、JSONオブジェクトの応答を要求する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	model      string
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
// httpClientのTimeoutが呼び出し全体の上限となる（推奨: 30秒程度）。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey, model string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		model:      model,
		endpoint:   defaultEndpoint,
	}
}

// completionRequest はチャット補完APIのリクエストボディ。
type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// completionResponse はチャット補完APIのレスポンスボディ。
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateCompletion はチャット補完を1回実行し、応答本文の文字列を返す。
// 上流のエラー応答はUpstreamError、内容のない応答はErrNoContentとして返す。
// リトライは行わない（呼び出し元が再実行を判断する）。
func (c *Client) CreateCompletion(ctx context.Context, messages []Message) (string, error) {
	reqBody, err := json.Marshal(completionRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("completion API call failed",
			slog.String("error", err.Error()),
			slog.String("model", c.model),
		)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		upstreamMsg := extractErrorMessage(body)
		c.logger.Error("completion API returned error status",
			slog.Int("http_status", resp.StatusCode),
			slog.String("upstream_message", upstreamMsg),
		)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMsg}
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("failed to parse completion response",
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}

	return result.Choices[0].Message.Content, nil
}

// extractErrorMessage は上流のエラーレスポンスからメッセージを取り出す。
// パースできない場合は生のボディを短く切り詰めて返す。
func extractErrorMessage(body []byte) string {
	var result completionResponse
	if err := json.Unmarshal(body, &result); err == nil && result.Error != nil {
		return result.Error.Message
	}
	const maxLen = 200
	if len(body) > maxLen {
		return string(body[:maxLen])
	}
	return string(body)
}
