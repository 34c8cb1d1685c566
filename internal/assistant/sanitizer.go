package assistant

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/fityog/internal/model"
)

// textSanitizer はAI応答のテキストフィールドからHTMLタグを除去する。
// AI応答はプレーンテキストを想定しているため、許可リストを空にした
// bluemondayのStrictPolicyで全タグを剥がす。
// 同一入力に対して常に同一出力を返す（冪等）。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// newTextSanitizer はtextSanitizerの新しいインスタンスを生成する。
func newTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// sanitize は文字列からHTMLタグとイベント属性を除去する。
func (s *textSanitizer) sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}

// sanitizeSlice はスライスの各要素をサニタイズする。
func (s *textSanitizer) sanitizeSlice(raw []string) []string {
	for i, v := range raw {
		raw[i] = s.sanitize(v)
	}
	return raw
}

// sanitizeRecommendation はレコメンドの全テキストフィールドをサニタイズする。
// 応答の構造自体は変更しない。
func (s *textSanitizer) sanitizeRecommendation(rec *model.Recommendation) {
	rec.Message = s.sanitize(rec.Message)
	for i := range rec.Asanas {
		s.sanitizeItem(&rec.Asanas[i])
	}
	for i := range rec.Exercises {
		s.sanitizeItem(&rec.Exercises[i])
	}
	for i := range rec.Resources {
		rec.Resources[i].Title = s.sanitize(rec.Resources[i].Title)
		rec.Resources[i].Description = s.sanitize(rec.Resources[i].Description)
	}
}

func (s *textSanitizer) sanitizeItem(item *model.RecommendationItem) {
	item.Name = s.sanitize(item.Name)
	item.Benefits = s.sanitizeSlice(item.Benefits)
	item.Instructions = s.sanitizeSlice(item.Instructions)
}
