package models

import "sort"

// SkillCategory classifies a skill tag.
type SkillCategory string

const (
	SkillCategoryTool  SkillCategory = "tool"
	SkillCategoryField SkillCategory = "field"
	SkillCategorySkill SkillCategory = "skill"
)

// SkillCategories lists categories in display order.
var SkillCategories = []SkillCategory{SkillCategoryTool, SkillCategoryField, SkillCategorySkill}

// SkillTag is a taxonomy entry.
type SkillTag struct {
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
}

var skillTags = []SkillTag{
	{"figma", "Figma", SkillCategoryTool},
	{"sketch", "Sketch", SkillCategoryTool},
	{"axure_rp", "Axure RP", SkillCategoryTool},
	{"photoshop", "Photoshop", SkillCategoryTool},
	{"illustrator", "Illustrator", SkillCategoryTool},
	{"after_effects", "After Effects", SkillCategoryTool},
	{"cinema_4d", "Cinema 4D", SkillCategoryTool},
	{"blender", "Blender", SkillCategoryTool},
	{"3d_max", "3D Max", SkillCategoryTool},
	{"maya", "Maya", SkillCategoryTool},
	{"adobe_xd", "Adobe XD", SkillCategoryTool},
	{"invision", "InVision", SkillCategoryTool},
	{"framer", "Framer", SkillCategoryTool},
	{"principle", "Principle", SkillCategoryTool},
	{"zeplin", "Zeplin", SkillCategoryTool},
	{"abstract", "Abstract", SkillCategoryTool},
	{"lottie", "Lottie", SkillCategoryTool},

	{"interaction_design", "Interaction Design", SkillCategoryField},
	{"ui_design", "UI Design", SkillCategoryField},
	{"brand_design", "Brand Design", SkillCategoryField},
	{"product_design", "Product Design", SkillCategoryField},
	{"motion_design", "Motion Design", SkillCategoryField},
	{"game_art", "Game Art", SkillCategoryField},
	{"web_design", "Web Design", SkillCategoryField},
	{"mobile_design", "Mobile Design", SkillCategoryField},
	{"graphic_design", "Graphic Design", SkillCategoryField},
	{"logo_design", "Logo Design", SkillCategoryField},
	{"interface_design", "Interface Design", SkillCategoryField},
	{"brand_identity", "Brand Identity", SkillCategoryField},
	{"animation_design", "Animation Production", SkillCategoryField},
	{"branding", "Branding", SkillCategoryField},

	{"user_experience", "User Experience", SkillCategorySkill},
	{"user_research", "User Research", SkillCategorySkill},
	{"prototype_design", "Prototyping", SkillCategorySkill},
	{"design_system", "Design Systems", SkillCategorySkill},
	{"information_architecture", "Information Architecture", SkillCategorySkill},
	{"visual_system", "Visual Systems", SkillCategorySkill},
	{"wireframing", "Wireframing", SkillCategorySkill},
	{"user_testing", "User Testing", SkillCategorySkill},
	{"persona_design", "Personas", SkillCategorySkill},
	{"journey_mapping", "Journey Mapping", SkillCategorySkill},
	{"usability_testing", "Usability Testing", SkillCategorySkill},
	{"visual_design", "Visual Design", SkillCategorySkill},
	{"typography", "Typography", SkillCategorySkill},
	{"color_theory", "Color Theory", SkillCategorySkill},
	{"illustration", "Illustration", SkillCategorySkill},
	{"character_design", "Character Design", SkillCategorySkill},
	{"scene_design", "Scene Design", SkillCategorySkill},
	{"visual_identity", "Visual Identity", SkillCategorySkill},
	{"animation", "Animation", SkillCategorySkill},
	{"effects", "Effects", SkillCategorySkill},
	{"3d_modeling", "3D Modeling", SkillCategorySkill},
	{"photography", "Photography", SkillCategorySkill},
	{"video_editing", "Video Editing", SkillCategorySkill},
}

var skillTagIndex = func() map[string]SkillTag {
	idx := make(map[string]SkillTag, len(skillTags))
	for _, tag := range skillTags {
		idx[tag.Code] = tag
	}
	return idx
}()

// LookupSkillTag resolves a code. Unknown codes fall into the skill category
// and display as the raw code.
func LookupSkillTag(code string) SkillTag {
	if tag, ok := skillTagIndex[code]; ok {
		return tag
	}
	return SkillTag{Code: code, Name: code, Category: SkillCategorySkill}
}

// AllSkillTags returns a copy of the taxonomy in declaration order.
func AllSkillTags() []SkillTag {
	out := make([]SkillTag, len(skillTags))
	copy(out, skillTags)
	return out
}

// GroupSkillTags buckets codes by category, keeping input order within a bucket
// and dropping duplicates.
func GroupSkillTags(codes []string) map[SkillCategory][]SkillTag {
	grouped := map[SkillCategory][]SkillTag{
		SkillCategoryTool:  {},
		SkillCategoryField: {},
		SkillCategorySkill: {},
	}
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if _, dup := seen[code]; dup || code == "" {
			continue
		}
		seen[code] = struct{}{}
		tag := LookupSkillTag(code)
		grouped[tag.Category] = append(grouped[tag.Category], tag)
	}
	return grouped
}

// SkillTagStats counts codes per category.
type SkillTagStats struct {
	Total int                   `json:"total"`
	ByCat map[SkillCategory]int `json:"byCategory"`
}

// CountSkillTags returns per-category counts for the given codes.
func CountSkillTags(codes []string) SkillTagStats {
	stats := SkillTagStats{ByCat: map[SkillCategory]int{}}
	for _, category := range SkillCategories {
		stats.ByCat[category] = 0
	}
	for _, code := range codes {
		if code == "" {
			continue
		}
		stats.ByCat[LookupSkillTag(code).Category]++
		stats.Total++
	}
	return stats
}

// SortedSkillTagCodes returns known codes in lexical order.
func SortedSkillTagCodes() []string {
	codes := make([]string, 0, len(skillTags))
	for _, tag := range skillTags {
		codes = append(codes, tag.Code)
	}
	sort.Strings(codes)
	return codes
}
