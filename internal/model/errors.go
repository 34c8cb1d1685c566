package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, storage, ai, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeDuplicateUsername   = "DUPLICATE_USERNAME"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	ErrCodeAIUnavailable       = "AI_SERVICE_UNAVAILABLE"
	ErrCodeAIResponseFormat    = "AI_RESPONSE_FORMAT"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewValidationError は入力検証エラーを生成する。
// fieldには問題のあったフィールド名、reasonには不正の内容を渡す。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s（%s）", field, reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewDuplicateUsernameError はユーザー名重複エラーを生成する。
func NewDuplicateUsernameError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUsername,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", username),
		Category: "validation",
		Action:   "別のユーザー名で登録してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名不明とパスワード不一致を区別しない（列挙攻撃対策）。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "ユーザー名とパスワードを確認してください。",
	}
}

// NewForeignKeyViolationError は参照整合性違反エラーを生成する。
// 永続バックエンドで存在しないユーザー・エキスパートを参照した場合に発生する。
func NewForeignKeyViolationError(entity string) *APIError {
	return &APIError{
		Code:     ErrCodeForeignKeyViolation,
		Message:  fmt.Sprintf("参照先が存在しません: %s", entity),
		Category: "storage",
		Action:   "指定したIDを確認してください。",
	}
}

// NewAIUnavailableError はAIサービス呼び出し失敗エラーを生成する。
// 上流の詳細はログにのみ記録し、ユーザーには汎用メッセージを返す。
func NewAIUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeAIUnavailable,
		Message:  "AIレコメンドの取得に失敗しました。",
		Category: "ai",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewAIResponseFormatError はAIレスポンスの形式不正エラーを生成する。
// 呼び出し元から見た扱いはNewAIUnavailableErrorと同一。
func NewAIResponseFormatError() *APIError {
	return &APIError{
		Code:     ErrCodeAIResponseFormat,
		Message:  "AIレコメンドの取得に失敗しました。",
		Category: "ai",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
