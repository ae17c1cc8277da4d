package dto

import "github.com/noah-isme/talent-factory-api/internal/models"

// CatalogQuery captures catalog list query parameters. Remaining query
// parameters are forwarded as resource filters.
type CatalogQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Keyword  string `form:"keyword"`
	SortBy   string `form:"sortBy"`
}

// SkillTagGroup is one category of the skill taxonomy.
type SkillTagGroup struct {
	Category models.SkillCategory `json:"category"`
	Tags     []models.SkillTag    `json:"tags"`
}

// SkillTagTaxonomy is the grouped taxonomy with per-category counts.
type SkillTagTaxonomy struct {
	Groups []SkillTagGroup      `json:"groups"`
	Stats  models.SkillTagStats `json:"stats"`
}
