// internal/extract/profile.go
package extract

import "pitchcraft/internal/models"

// BuildProfile extracts a BusinessProfile from free text. It performs no I/O
// and returns the same profile for the same text.
func BuildProfile(text string) *models.BusinessProfile {
	sections := make(map[models.SectionKey][]string, len(models.SectionKeys))
	for _, key := range models.SectionKeys {
		sections[key] = Section(text, SectionKeywords[key])
	}

	return &models.BusinessProfile{
		CompanyName: CompanyName(text),
		Personnel:   Personnel(text),
		Sections:    sections,
		Metrics:     Numbers(text),
	}
}
