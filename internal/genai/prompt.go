package genai

import (
	"fmt"
	"strconv"
	"strings"

	"pitchcraft/internal/models"
)

var sectionLabels = []struct {
	key   models.SectionKey
	label string
}{
	{models.SectionProblem, "Problem/Challenge"},
	{models.SectionSolution, "Solution/Product"},
	{models.SectionMarket, "Market/Customers"},
	{models.SectionBusinessModel, "Business Model"},
	{models.SectionTraction, "Traction"},
	{models.SectionTeam, "Team"},
	{models.SectionFinancials, "Financials"},
	{models.SectionCompetition, "Competition"},
	{models.SectionFunding, "Funding"},
}

// BuildPrompt renders the slide-generation prompt for profile. The model is
// told to use only the extracted facts.
func BuildPrompt(profile *models.BusinessProfile) string {
	company := profile.CompanyName
	var b strings.Builder

	fmt.Fprintf(&b, "Create a professional VC presentation for %s. Use ONLY the following business information:\n\n", company)
	fmt.Fprintf(&b, "Company: %s\n\n", company)

	b.WriteString("Personnel/Team:\n")
	names := make([]string, len(profile.Personnel))
	for i, p := range profile.Personnel {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Role)
		names[i] = p.Name
	}

	b.WriteString("\nBusiness Information:\n")
	for _, s := range sectionLabels {
		fmt.Fprintf(&b, "- %s: %s\n", s.label, strings.Join(profile.Section(s.key), " "))
	}

	b.WriteString("\nExtracted Numbers/Metrics:\n")
	for _, m := range profile.Metrics {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", m.Type, strconv.FormatFloat(m.Value, 'f', -1, 64), m.Context)
	}

	b.WriteString("\nIMPORTANT GUIDELINES:\n")
	b.WriteString("1. Use ONLY the information provided above\n")
	fmt.Fprintf(&b, "2. Company name is %q - use this exact name throughout\n", company)
	b.WriteString("3. Create realistic charts using the extracted numbers when available\n")
	b.WriteString("4. Include specific imagePrompt for EVERY slide\n")
	fmt.Fprintf(&b, "5. Present as %s's official presentation\n", company)
	b.WriteString("6. Create 12-15 slides total\n")
	b.WriteString("7. For charts, use actual extracted numbers to create realistic data progressions\n")

	b.WriteString("\nRequired slides:\n")
	b.WriteString("1. Intro (PitchCraft branding)\n")
	fmt.Fprintf(&b, "2. Title (%s)\n", company)
	b.WriteString("3. Problem/Opportunity (if problem data exists)\n")
	b.WriteString("4. Solution/Product (if solution data exists)\n")
	b.WriteString("5. Market (if market data exists)\n")
	b.WriteString("6. Business Model (if business model data exists)\n")
	b.WriteString("7. Traction/Growth (if traction data exists, include chart with real numbers)\n")
	b.WriteString("8. Competition (if competition data exists)\n")
	fmt.Fprintf(&b, "9. Team (featuring actual personnel: %s)\n", strings.Join(names, ", "))
	b.WriteString("10. Financial Projections (chart with realistic projections based on extracted numbers)\n")
	b.WriteString("11. Funding Ask (if funding data exists)\n")
	b.WriteString("12. Thank You\n")

	b.WriteString("\nEach slide has: id (integer, unique), type (intro|title|content|chart|image), title, ")
	b.WriteString("optional content, bulletPoints, chartData {type: bar|line|pie|area|radar, data: [{name, value}]}, ")
	b.WriteString("imagePrompt and metrics [{label, value, icon}] where icon is one of ")
	b.WriteString("DollarSign, TrendingUp, Target, Zap, Shield, Globe, Users, Rocket.\n")

	b.WriteString("\nFor each slide:\n")
	b.WriteString("- Include detailed imagePrompt that will generate relevant business visuals\n")
	b.WriteString("- Use professional, investor-focused language\n")
	fmt.Fprintf(&b, "- Reference %s by name\n", company)

	return b.String()
}
