// internal/extract/patterns.go
package extract

import (
	"pitchcraft/internal/models"

	"github.com/grafana/regexp"
)

// CompanyRule recognizes a company name in captured group NameGroup.
// Rules are tried in ascending Priority; the first non-excluded match wins.
type CompanyRule struct {
	ID        string
	Pattern   *regexp.Regexp
	NameGroup int
	Priority  int
}

// PersonnelRule captures a person and a role. Which group holds which is
// declared here and re-checked against the role vocabulary at match time.
// Name tokens are separated by spaces or tabs only, so a name never spans lines.
type PersonnelRule struct {
	ID        string
	Pattern   *regexp.Regexp
	NameGroup int
	RoleGroup int
	Priority  int
}

// MetricRule captures a numeral in ValueGroup and scales it by Multiplier.
type MetricRule struct {
	ID         string
	Pattern    *regexp.Regexp
	ValueGroup int
	Type       models.MetricType
	Multiplier float64
	Priority   int
}

var CompanyRules = []CompanyRule{
	{
		ID:        "company.declaration",
		Pattern:   regexp.MustCompile(`(?i)(?:company|startup|business|firm)(?:\s+name)?(?:\s+is)?:\s*([A-Z][a-zA-Z0-9\s&.-]+?)(?:\s*[,.\n]|$)`),
		NameGroup: 1,
		Priority:  1,
	},
	{
		ID:        "company.introduction",
		Pattern:   regexp.MustCompile(`(?i)(?:we are|introducing|presenting|about)\s+([A-Z][a-zA-Z0-9\s&.-]+?)(?:\s*[,.\n]|$)`),
		NameGroup: 1,
		Priority:  2,
	},
	{
		ID:        "company.legal_suffix",
		Pattern:   regexp.MustCompile(`(?i)\b([A-Z][a-zA-Z0-9\s&.-]+?)\s+(?:Inc\.?|LLC|Corp\.?|Ltd\.?|Limited|Company|Co\.?|Corporation)\b`),
		NameGroup: 1,
		Priority:  3,
	},
	{
		ID:        "company.sentence_subject",
		Pattern:   regexp.MustCompile(`(?m)^([A-Z][a-zA-Z0-9]+(?:\s+[A-Z][a-zA-Z0-9]+){0,3})\s+(?:is|was|has|will|provides|offers|develops|creates|builds)`),
		NameGroup: 1,
		Priority:  4,
	},
	{
		ID:        "company.called",
		Pattern:   regexp.MustCompile(`(?i)(?:called|named)\s+["']([^"']+)["']`),
		NameGroup: 1,
		Priority:  5,
	},
	{
		ID:        "company.quoted",
		Pattern:   regexp.MustCompile(`["']([A-Z][a-zA-Z0-9\s&.-]+?)["']`),
		NameGroup: 1,
		Priority:  6,
	},
}

// Fallback stage: a title-case line opener, then 3-token windows over the
// first fallbackLines non-empty lines.
var (
	headingPattern = regexp.MustCompile(`(?m)^([A-Z][a-zA-Z0-9]+(?:\s+[A-Z][a-zA-Z0-9]+){0,2})(?:\s*[-:]|\s*$)`)
	windowPattern  = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]+(?:\s+[A-Z][a-zA-Z0-9]+){0,2}$`)
	lineSplit      = regexp.MustCompile(`\n+`)
	wordSplit      = regexp.MustCompile(`\s+`)
)

const fallbackLines = 5

// StopList holds generic words that are never accepted as a company name.
var StopList = []string{
	"The", "This", "Our", "We", "Company", "Business", "Startup",
	"Executive", "Summary", "Overview", "Introduction",
}

// RoleVocabulary is the closed set of role tokens personnel rules recognize.
var RoleVocabulary = []string{
	"CEO", "CTO", "CFO", "COO", "Founder", "Co-founder", "Director", "Manager",
	"Lead", "Head", "VP", "Vice President", "President", "Chief",
}

var PersonnelRules = []PersonnelRule{
	{
		// Jane Doe - CEO / Jane Doe: CEO / Jane Doe, CEO
		ID:        "personnel.name_role",
		Pattern:   regexp.MustCompile(`([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+)(?:\s*[-:,]\s*)([A-Z][a-zA-Z\s]+?)(?:[,.\n]|$)`),
		NameGroup: 1,
		RoleGroup: 2,
		Priority:  1,
	},
	{
		// CEO: Jane Doe / CTO - John Smith
		ID:        "personnel.role_name",
		Pattern:   regexp.MustCompile(`\b((?i:CEO|CTO|CFO|COO|Founder|Co-founder|Director|Manager|Lead|Head|VP|Vice President|President|Chief))(?:\s*[-:]\s*)([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+)`),
		NameGroup: 2,
		RoleGroup: 1,
		Priority:  2,
	},
	{
		// Jane Doe (CEO) / Jane Doe, Chief Product Officer
		ID:        "personnel.name_paren_role",
		Pattern:   regexp.MustCompile(`([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+)\s*[(,]\s*((?i:CEO|CTO|CFO|COO|Founder|Co-founder|Director|Manager|Lead|Head|VP|Vice President|President|Chief[^,)]*))\s*[),]?`),
		NameGroup: 1,
		RoleGroup: 2,
		Priority:  3,
	},
}

var rolePrefix = regexp.MustCompile(`(?i)^(?:CEO|CTO|CFO|COO|Co-founder|Founder|Director|Manager|Lead|Head|VP|Vice President|President|Chief)\b`)

// SectionKeywords maps every section to its lowercase trigger phrases.
var SectionKeywords = map[models.SectionKey][]string{
	models.SectionProblem:       {"problem", "challenge", "pain point", "issue", "opportunity"},
	models.SectionSolution:      {"solution", "product", "service", "offering", "platform", "technology"},
	models.SectionMarket:        {"market", "industry", "customers", "target", "addressable market", "tam"},
	models.SectionBusinessModel: {"business model", "revenue", "monetization", "pricing", "model"},
	models.SectionTraction:      {"traction", "growth", "users", "customers", "sales", "metrics", "kpi"},
	models.SectionTeam:          {"team", "founder", "leadership", "management", "experience", "background"},
	models.SectionFinancials:    {"financial", "revenue", "profit", "funding", "investment", "projections"},
	models.SectionCompetition:   {"competition", "competitor", "competitive", "advantage", "differentiation"},
	models.SectionFunding:       {"funding", "investment", "capital", "raise", "series", "round"},
}

const amount = `(\d+(?:,\d{3})*(?:\.\d+)?)`

var MetricRules = []MetricRule{
	{ID: "metric.currency_million", Pattern: regexp.MustCompile(`(?i)\$` + amount + `\s*(?:million|M)\b`), ValueGroup: 1, Type: models.MetricRevenue, Multiplier: 1e6, Priority: 1},
	{ID: "metric.currency_billion", Pattern: regexp.MustCompile(`(?i)\$` + amount + `\s*(?:billion|B)\b`), ValueGroup: 1, Type: models.MetricRevenue, Multiplier: 1e9, Priority: 2},
	{ID: "metric.currency_thousand", Pattern: regexp.MustCompile(`(?i)\$` + amount + `\s*(?:K|thousand)\b`), ValueGroup: 1, Type: models.MetricRevenue, Multiplier: 1e3, Priority: 3},
	{ID: "metric.user_count", Pattern: regexp.MustCompile(`(?i)(\d+(?:,\d{3})*)\s*(?:users|customers|clients)\b`), ValueGroup: 1, Type: models.MetricUsers, Multiplier: 1, Priority: 4},
	// At most two integer digits: "150% growth" is not a growth metric.
	{ID: "metric.growth_percent", Pattern: regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*%\s*(?:growth|increase|cagr)\b`), ValueGroup: 1, Type: models.MetricGrowth, Multiplier: 1, Priority: 5},
	{ID: "metric.headcount", Pattern: regexp.MustCompile(`(?i)(\d+)\s*(?:employees|team members|staff)\b`), ValueGroup: 1, Type: models.MetricTeam, Multiplier: 1, Priority: 6},
	{ID: "metric.currency_revenue", Pattern: regexp.MustCompile(`(?i)\$` + amount + `\s*(?:revenue|sales|income)\b`), ValueGroup: 1, Type: models.MetricRevenue, Multiplier: 1, Priority: 7},
	{ID: "metric.currency_funding", Pattern: regexp.MustCompile(`(?i)\$` + amount + `\s*(?:funding|raised|investment)\b`), ValueGroup: 1, Type: models.MetricFunding, Multiplier: 1, Priority: 8},
	{ID: "metric.activity_count", Pattern: regexp.MustCompile(`(?i)(\d+(?:,\d{3})*)\s*(?:downloads|installs|visits)\b`), ValueGroup: 1, Type: models.MetricTraction, Multiplier: 1, Priority: 9},
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)
