package datasource

import (
	"time"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 0, 0, 0, time.UTC)
}

// Cities offered as location filter options.
var seedCities = []string{"Beijing", "Shanghai", "Guangzhou", "Shenzhen", "Hangzhou", "Chengdu", "Xi'an", "Nanjing"}

// SeedTasks returns the marketplace tasks served in mock mode.
func SeedTasks() []models.TaskPosting {
	return []models.TaskPosting{
		{ID: "1001", EnterpriseID: "ent-1001", EnterpriseName: "Northwind Commerce", Title: "E-commerce app interface design",
			Description: "Full UI for a shopping app: home, product detail, cart and checkout flows following Material Design.",
			TaskType:    "UI_UX_DESIGN", SkillTags: []string{"ui_design", "mobile_design", "figma", "user_experience"},
			BudgetMin: 6000, BudgetMax: 10000, Location: "Shanghai", Urgent: true, Status: models.TaskPublished, Applications: 12,
			Deadline: day(2026, time.December, 30), PublishedAt: day(2026, time.September, 2)},
		{ID: "1002", EnterpriseID: "ent-1002", EnterpriseName: "Lumen Tea House", Title: "Brand identity refresh",
			Description: "Logo, color palette and typography guidelines for a tea house chain.",
			TaskType:    "BRAND_DESIGN", SkillTags: []string{"brand_design", "logo_design", "illustrator", "typography"},
			BudgetMin: 8000, BudgetMax: 15000, Location: "Hangzhou", Status: models.TaskPublished, Applications: 7,
			Deadline: day(2026, time.November, 15), PublishedAt: day(2026, time.September, 10)},
		{ID: "1003", EnterpriseID: "ent-1001", EnterpriseName: "Northwind Commerce", Title: "Holiday campaign posters",
			Description: "Three poster variants for the winter sale, print and social sizes.",
			TaskType:    "POSTER_DESIGN", SkillTags: []string{"graphic_design", "photoshop", "visual_design"},
			BudgetMin: 1500, BudgetMax: 3000, Location: "Shanghai", Urgent: true, Status: models.TaskPublished, Applications: 21,
			Deadline: day(2026, time.October, 31), PublishedAt: day(2026, time.September, 20)},
		{ID: "1004", EnterpriseID: "ent-1003", EnterpriseName: "Orbit Games", Title: "Character concept art",
			Description: "Five playable characters with turnarounds for a casual mobile game.",
			TaskType:    "ILLUSTRATION", SkillTags: []string{"game_art", "character_design", "illustration", "photoshop"},
			BudgetMin: 12000, BudgetMax: 20000, Location: "Chengdu", Status: models.TaskPublished, Applications: 4,
			Deadline: day(2027, time.January, 20), PublishedAt: day(2026, time.August, 28)},
		{ID: "1005", EnterpriseID: "ent-1004", EnterpriseName: "Helix Robotics", Title: "Product launch motion teaser",
			Description: "30 second motion teaser introducing a warehouse robot.",
			TaskType:    "ANIMATION", SkillTags: []string{"motion_design", "after_effects", "cinema_4d", "animation"},
			BudgetMin: 9000, BudgetMax: 14000, Location: "Shenzhen", Status: models.TaskPublished, Applications: 9,
			Deadline: day(2026, time.December, 5), PublishedAt: day(2026, time.September, 15)},
		{ID: "1006", EnterpriseID: "ent-1002", EnterpriseName: "Lumen Tea House", Title: "Landing page redesign",
			Description: "Responsive landing page with online ordering entry points.",
			TaskType:    "WEB_DESIGN", SkillTags: []string{"web_design", "figma", "prototype_design"},
			BudgetMin: 4000, BudgetMax: 7000, Location: "Hangzhou", Status: models.TaskPublished, Applications: 15,
			Deadline: day(2026, time.November, 1), PublishedAt: day(2026, time.September, 25)},
		{ID: "1007", EnterpriseID: "ent-1005", EnterpriseName: "Atlas Logistics", Title: "Dashboard design system",
			Description: "Component library and tokens for an internal operations dashboard.",
			TaskType:    "UI_UX_DESIGN", SkillTags: []string{"design_system", "interface_design", "figma", "information_architecture"},
			BudgetMin: 15000, BudgetMax: 25000, Location: "Beijing", Status: models.TaskPublished, Applications: 3,
			Deadline: day(2027, time.February, 28), PublishedAt: day(2026, time.October, 1)},
		{ID: "1008", EnterpriseID: "ent-1003", EnterpriseName: "Orbit Games", Title: "3D props pack",
			Description: "Twenty low-poly environment props with textures.",
			TaskType:    "3D_MODELING", SkillTags: []string{"3d_modeling", "blender", "scene_design"},
			BudgetMin: 5000, BudgetMax: 8000, Location: "Chengdu", Status: "COMPLETED", Applications: 18,
			Deadline: day(2026, time.June, 30), PublishedAt: day(2026, time.May, 1)},
	}
}

// SeedDesigners returns the designer profiles served in mock mode.
func SeedDesigners() []models.Designer {
	return []models.Designer{
		{ID: "designer-1", Name: "Lin Qiao", Profession: "UI_DESIGNER", SkillTags: []string{"ui_design", "figma", "user_experience", "design_system"},
			Location: "Shanghai", Experience: 4, WorkStatus: "OPEN_TO_WORK", SchoolID: "school-1", Description: "Product-minded interface designer.", CreatedAt: day(2026, time.March, 3)},
		{ID: "designer-2", Name: "Zhou Wen", Profession: "GRAPHIC_DESIGNER", SkillTags: []string{"graphic_design", "brand_design", "illustrator", "typography"},
			Location: "Hangzhou", Experience: 6, WorkStatus: "FREELANCE", SchoolID: "school-2", Description: "Brand systems and packaging.", CreatedAt: day(2026, time.January, 18)},
		{ID: "designer-3", Name: "Chen Yu", Profession: "ILLUSTRATOR", SkillTags: []string{"illustration", "character_design", "game_art", "photoshop"},
			Location: "Chengdu", Experience: 3, WorkStatus: "OPEN_TO_WORK", SchoolID: "school-3", Description: "Characters and worlds for games.", CreatedAt: day(2026, time.May, 9)},
		{ID: "designer-4", Name: "Wang Hao", Profession: "MOTION_DESIGNER", SkillTags: []string{"motion_design", "after_effects", "cinema_4d", "lottie"},
			Location: "Shenzhen", Experience: 5, WorkStatus: "EMPLOYED", Description: "Motion graphics and product films.", CreatedAt: day(2025, time.November, 22)},
		{ID: "designer-5", Name: "Xu Ning", Profession: "UX_DESIGNER", SkillTags: []string{"user_research", "wireframing", "usability_testing", "axure_rp"},
			Location: "Beijing", Experience: 7, WorkStatus: "FREELANCE", SchoolID: "school-1", Description: "Research-led experience design.", CreatedAt: day(2026, time.July, 14)},
		{ID: "designer-6", Name: "Guo Lan", Profession: "3D_DESIGNER", SkillTags: []string{"3d_modeling", "blender", "maya", "scene_design"},
			Location: "Nanjing", Experience: 2, WorkStatus: "OPEN_TO_WORK", SchoolID: "school-4", Description: "Environment art and product renders.", CreatedAt: day(2026, time.August, 30)},
	}
}

// SeedJobs returns the job postings served in mock mode.
func SeedJobs() []models.JobPosting {
	return []models.JobPosting{
		{ID: "job-1", Title: "Senior UI Designer", EnterpriseID: "ent-1001", Company: "Northwind Commerce", Profession: "UI_DESIGNER", Location: "Shanghai",
			WorkType: "FULL_TIME", Experience: "3-5", SalaryMin: 20000, SalaryMax: 30000, SkillTags: []string{"ui_design", "figma", "design_system"}, PublishedAt: day(2026, time.September, 12)},
		{ID: "job-2", Title: "Brand Designer", EnterpriseID: "ent-1002", Company: "Lumen Tea House", Profession: "GRAPHIC_DESIGNER", Location: "Hangzhou",
			WorkType: "FULL_TIME", Experience: "1-3", SalaryMin: 12000, SalaryMax: 18000, SkillTags: []string{"brand_design", "illustrator"}, PublishedAt: day(2026, time.August, 20)},
		{ID: "job-3", Title: "Game Artist", EnterpriseID: "ent-1003", Company: "Orbit Games", Profession: "ILLUSTRATOR", Location: "Chengdu",
			WorkType: "FULL_TIME", Experience: "3-5", SalaryMin: 15000, SalaryMax: 25000, SkillTags: []string{"game_art", "character_design"}, PublishedAt: day(2026, time.September, 28)},
		{ID: "job-4", Title: "Motion Designer (part time)", EnterpriseID: "ent-1004", Company: "Helix Robotics", Profession: "MOTION_DESIGNER", Location: "Shenzhen",
			WorkType: "PART_TIME", Experience: "1-3", SalaryMin: 8000, SalaryMax: 12000, SkillTags: []string{"motion_design", "after_effects"}, PublishedAt: day(2026, time.July, 5)},
		{ID: "job-5", Title: "UX Researcher", EnterpriseID: "ent-1005", Company: "Atlas Logistics", Profession: "UX_DESIGNER", Location: "Beijing",
			WorkType: "FULL_TIME", Experience: "5-10", SalaryMin: 25000, SalaryMax: 40000, SkillTags: []string{"user_research", "usability_testing"}, PublishedAt: day(2026, time.October, 2)},
		{ID: "job-6", Title: "Junior Visual Designer", EnterpriseID: "ent-1001", Company: "Northwind Commerce", Profession: "GRAPHIC_DESIGNER", Location: "Shanghai",
			WorkType: "INTERNSHIP", Experience: "graduate", SalaryMin: 6000, SalaryMax: 9000, SkillTags: []string{"visual_design", "photoshop"}, PublishedAt: day(2026, time.September, 30)},
	}
}

// SeedSchools returns the partner schools served in mock mode.
func SeedSchools() []models.School {
	return []models.School{
		{ID: "school-1", Name: "Eastern Academy of Fine Arts", Location: "Shanghai", Type: "ART", Majors: []string{"Visual Communication", "Digital Media"}, StudentCount: 8200, DesignerCount: 140},
		{ID: "school-2", Name: "Westlake Institute of Design", Location: "Hangzhou", Type: "DESIGN", Majors: []string{"Industrial Design", "Brand Design"}, StudentCount: 5100, DesignerCount: 96},
		{ID: "school-3", Name: "Sichuan Media University", Location: "Chengdu", Type: "MEDIA", Majors: []string{"Animation", "Game Design"}, StudentCount: 12400, DesignerCount: 188},
		{ID: "school-4", Name: "Nanjing Polytechnic", Location: "Nanjing", Type: "COMPREHENSIVE", Majors: []string{"3D Design", "Interaction Design"}, StudentCount: 21000, DesignerCount: 75},
	}
}
