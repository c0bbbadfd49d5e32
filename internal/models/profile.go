// internal/models/profile.go
package models

// SectionKey names one of the nine thematic sections of a business profile.
type SectionKey string

const (
	SectionProblem       SectionKey = "problem"
	SectionSolution      SectionKey = "solution"
	SectionMarket        SectionKey = "market"
	SectionBusinessModel SectionKey = "businessModel"
	SectionTraction      SectionKey = "traction"
	SectionTeam          SectionKey = "team"
	SectionFinancials    SectionKey = "financials"
	SectionCompetition   SectionKey = "competition"
	SectionFunding       SectionKey = "funding"
)

// SectionKeys is the closed set of section keys in presentation order.
var SectionKeys = []SectionKey{
	SectionProblem,
	SectionSolution,
	SectionMarket,
	SectionBusinessModel,
	SectionTraction,
	SectionTeam,
	SectionFinancials,
	SectionCompetition,
	SectionFunding,
}

// DefaultCompanyName is used when no company name can be recognized.
const DefaultCompanyName = "Your Company"

type Person struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// BusinessProfile is the structured result of extracting facts from free text.
type BusinessProfile struct {
	CompanyName string                  `json:"companyName"`
	Personnel   []Person                `json:"personnel"`
	Sections    map[SectionKey][]string `json:"sections"`
	Metrics     []Metric                `json:"metrics"`
}

// Section returns the sentences for key, or nil.
func (p *BusinessProfile) Section(key SectionKey) []string {
	if p == nil || p.Sections == nil {
		return nil
	}
	return p.Sections[key]
}

// HasSection reports whether key has at least one sentence.
func (p *BusinessProfile) HasSection(key SectionKey) bool {
	return len(p.Section(key)) > 0
}
