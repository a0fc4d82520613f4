package strapi

import "github.com/garnizeh/weboff/pkg/models"

// levelByScore maps the CMS proficiency score onto named levels. Scores missing from the table
// fall back to Intermediate.
var levelByScore = map[int]models.Level{
	1:  models.LevelBeginner,
	5:  models.LevelIntermediate,
	7:  models.LevelAdvanced,
	10: models.LevelExpert,
}

func NormalizeSkill(item RemoteSkill) models.Skill {
	level := models.LevelIntermediate
	if item.Level.Valid {
		if l, ok := levelByScore[item.Level.Value]; ok {
			level = l
		}
	}

	return models.Skill{
		ID:          int64(item.ID),
		Name:        item.Name,
		Description: nonEmpty(item.Description),
		Level:       level,
	}
}

func NormalizeMedia(item RemoteMedia) models.Media {
	var meta map[string]any
	if len(item.ProviderMetadata) > 0 {
		meta = item.ProviderMetadata
	}

	return models.Media{
		ID: int64(item.ID),
		Attributes: models.MediaAttributes{
			Name:             item.Name,
			AlternativeText:  nonEmpty(item.AlternativeText),
			Caption:          nonEmpty(item.Caption),
			Width:            item.Width.Ptr(),
			Height:           item.Height.Ptr(),
			Formats:          item.Formats,
			Hash:             item.Hash,
			Ext:              item.Ext,
			Mime:             item.Mime,
			Size:             item.Size,
			URL:              item.URL,
			PreviewURL:       nonEmpty(item.PreviewURL),
			Provider:         item.Provider,
			ProviderMetadata: meta,
			CreatedAt:        item.CreatedAt,
			UpdatedAt:        item.UpdatedAt,
		},
	}
}

// NormalizeProject reshapes a CMS record into the view model. is_active falls back to the
// publication state, and media/skills are never nil.
func NormalizeProject(item RemoteProject) models.Project {
	active := item.PublishedAt != nil
	if item.IsActive != nil {
		active = *item.IsActive
	}

	media := make([]models.Media, 0, len(item.Media))
	for _, m := range item.Media {
		media = append(media, NormalizeMedia(m))
	}
	skills := make([]models.Skill, 0, len(item.Skills))
	for _, s := range item.Skills {
		skills = append(skills, NormalizeSkill(s))
	}

	return models.Project{
		ID:          int64(item.ID),
		Title:       item.Title,
		Description: item.Description,
		Link:        item.Link,
		OrderIndex:  item.OrderIndex.Ptr(),
		IsActive:    active,
		Media:       media,
		Skills:      skills,
	}
}

// NormalizeProjects maps a list in source order.
func NormalizeProjects(items []RemoteProject) []models.Project {
	out := make([]models.Project, 0, len(items))
	for _, it := range items {
		out = append(out, NormalizeProject(it))
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
