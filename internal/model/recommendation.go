package model

import "fmt"

// Difficulty はアーサナ・エクササイズの難易度を表す。
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ResourceType は参考リソースの種別を表す。
type ResourceType string

const (
	ResourceTypeBook    ResourceType = "book"
	ResourceTypeArticle ResourceType = "article"
)

// RecommendationItem はAIが推薦するアーサナまたはエクササイズ1件を表す。
type RecommendationItem struct {
	Name         string     `json:"name"`
	Duration     int        `json:"duration"` // 推奨実施時間（分）
	Benefits     []string   `json:"benefits"`
	Difficulty   Difficulty `json:"difficulty"`
	Instructions []string   `json:"instructions"`
}

// Resource はAIが推薦する書籍・記事リソース1件を表す。
type Resource struct {
	Title       string       `json:"title"`
	Type        ResourceType `json:"type"`
	Description string       `json:"description"`
}

// Recommendation はAIアシスタントの構造化レコメンド結果を表す。
// 外部AIサービスのJSONレスポンスをそのままこの形に射影する。
type Recommendation struct {
	Message   string               `json:"message"`
	Asanas    []RecommendationItem `json:"asanas"`
	Exercises []RecommendationItem `json:"exercises"`
	Resources []Resource           `json:"resources"`
}

// Validate はレコメンド結果がスキーマ契約を満たすか検証する。
// 件数の下限（アーサナ2件以上など）は外部サービスへの指示であり
// ベストエフォートのため、ここでは強制しない。
func (r *Recommendation) Validate() error {
	for i, item := range r.Asanas {
		if err := item.validate(); err != nil {
			return fmt.Errorf("asanas[%d]: %w", i, err)
		}
	}
	for i, item := range r.Exercises {
		if err := item.validate(); err != nil {
			return fmt.Errorf("exercises[%d]: %w", i, err)
		}
	}
	for i, res := range r.Resources {
		if err := res.validate(); err != nil {
			return fmt.Errorf("resources[%d]: %w", i, err)
		}
	}
	return nil
}

func (item *RecommendationItem) validate() error {
	if item.Name == "" {
		return fmt.Errorf("name is empty")
	}
	if item.Duration <= 0 {
		return fmt.Errorf("duration must be positive: %d", item.Duration)
	}
	if len(item.Benefits) == 0 {
		return fmt.Errorf("benefits is empty")
	}
	switch item.Difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
	default:
		return fmt.Errorf("unknown difficulty: %q", item.Difficulty)
	}
	if len(item.Instructions) == 0 {
		return fmt.Errorf("instructions is empty")
	}
	return nil
}

func (res *Resource) validate() error {
	if res.Title == "" {
		return fmt.Errorf("title is empty")
	}
	switch res.Type {
	case ResourceTypeBook, ResourceTypeArticle:
	default:
		return fmt.Errorf("unknown resource type: %q", res.Type)
	}
	return nil
}
