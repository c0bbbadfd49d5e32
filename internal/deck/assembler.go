// internal/deck/assembler.go
package deck

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"pitchcraft/internal/charts"
	"pitchcraft/internal/models"
)

const maxBullets = 5

// Assembler lays a business profile out as the canonical structured deck.
type Assembler struct {
	placeholder Placeholder
}

func NewAssembler(placeholder Placeholder) *Assembler {
	return &Assembler{placeholder: placeholder}
}

// Assemble builds the offline deck. The result always opens with the intro
// and title slides, carries exactly one financial chart and closes with the
// thank-you slide. Ids are sequential from 0.
func (a *Assembler) Assemble(profile *models.BusinessProfile) []models.Slide {
	if profile == nil {
		profile = &models.BusinessProfile{CompanyName: models.DefaultCompanyName}
	}
	company := profile.CompanyName
	if company == "" {
		company = models.DefaultCompanyName
	}

	b := &builder{}

	b.add(models.Slide{
		Type:    models.SlideIntro,
		Title:   "PitchCraft AI",
		Content: "Investor Presentation",
	})
	b.add(models.Slide{
		Type:        models.SlideTitle,
		Title:       company,
		Content:     "Transforming Industries Through Innovation",
		ImageURL:    a.placeholder.URL(company),
		ImagePrompt: fmt.Sprintf("Company logo and branding for %s", company),
	})

	if profile.HasSection(models.SectionProblem) {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        "The Problem We're Solving",
			Content:      fmt.Sprintf("%s addresses critical market challenges that create significant opportunities.", company),
			BulletPoints: bullets(profile.Section(models.SectionProblem)),
			ImageURL:     a.placeholder.URL("Problem Analysis"),
			ImagePrompt:  fmt.Sprintf("Visual representation of the market problem that %s is solving", company),
			Metrics: []models.SlideMetric{
				{Label: "Market Impact", Value: "High", Icon: models.IconTrendingUp},
				{Label: "Urgency", Value: "Critical", Icon: models.IconTarget},
				{Label: "Opportunity", Value: "Large", Icon: models.IconDollarSign},
				{Label: "Timing", Value: "Now", Icon: models.IconZap},
			},
		})
	}

	if profile.HasSection(models.SectionSolution) {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        fmt.Sprintf("%s's Solution", company),
			Content:      "Our innovative approach addresses core market needs with cutting-edge technology.",
			BulletPoints: bullets(profile.Section(models.SectionSolution)),
			ImageURL:     a.placeholder.URL("Solution Overview"),
			ImagePrompt:  fmt.Sprintf("Product visualization and solution overview for %s", company),
			Metrics: []models.SlideMetric{
				{Label: "Innovation", Value: "Breakthrough", Icon: models.IconRocket},
				{Label: "Scalability", Value: "Global", Icon: models.IconGlobe},
				{Label: "Efficiency", Value: "10x Better", Icon: models.IconZap},
				{Label: "Market Fit", Value: "Proven", Icon: models.IconTarget},
			},
		})
	}

	if profile.HasSection(models.SectionMarket) {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        "Market Opportunity",
			Content:      fmt.Sprintf("%s operates in a large and growing market with significant disruption potential.", company),
			BulletPoints: bullets(profile.Section(models.SectionMarket)),
			ImageURL:     a.placeholder.URL("Market Opportunity"),
			ImagePrompt:  fmt.Sprintf("Market size and opportunity visualization for %s's industry", company),
			Metrics: []models.SlideMetric{
				{Label: "TAM", Value: "$50B+", Icon: models.IconDollarSign},
				{Label: "Growth Rate", Value: "25% CAGR", Icon: models.IconTrendingUp},
				{Label: "Customers", Value: "Millions", Icon: models.IconUsers},
				{Label: "Penetration", Value: "Early", Icon: models.IconTarget},
			},
		})
	}

	if profile.HasSection(models.SectionBusinessModel) {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        fmt.Sprintf("%s's Business Model", company),
			Content:      "Sustainable revenue model with multiple monetization streams and high margins.",
			BulletPoints: bullets(profile.Section(models.SectionBusinessModel)),
			ImageURL:     a.placeholder.URL("Business Model"),
			ImagePrompt:  fmt.Sprintf("Business model and revenue streams visualization for %s", company),
			Metrics: []models.SlideMetric{
				{Label: "Revenue Streams", Value: "Multiple", Icon: models.IconDollarSign},
				{Label: "Margins", Value: "High", Icon: models.IconTrendingUp},
				{Label: "Scalability", Value: "Excellent", Icon: models.IconRocket},
				{Label: "Predictability", Value: "Strong", Icon: models.IconShield},
			},
		})
	}

	if profile.HasSection(models.SectionTraction) || len(profile.Metrics) > 0 {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        fmt.Sprintf("%s's Traction & Growth", company),
			Content:      "Strong momentum with proven market validation and accelerating customer adoption.",
			BulletPoints: bullets(profile.Section(models.SectionTraction)),
			ImageURL:     a.placeholder.URL("Traction Growth"),
			ImagePrompt:  fmt.Sprintf("Growth metrics and traction visualization for %s", company),
			Metrics:      tractionMetrics(profile.Metrics),
		})

		if len(profile.Metrics) > 0 {
			growth := charts.Synthesize(profile.Metrics, models.IntentGrowth)
			b.add(models.Slide{
				Type:        models.SlideChart,
				Title:       fmt.Sprintf("%s's Growth Trajectory", company),
				Content:     "Consistent growth across key metrics demonstrates strong product-market fit.",
				ChartData:   &growth,
				ImagePrompt: fmt.Sprintf("Growth chart and metrics for %s", company),
			})
		}
	}

	if profile.HasSection(models.SectionCompetition) {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        "Competitive Advantage",
			Content:      fmt.Sprintf("%s maintains clear differentiation and sustainable competitive moats.", company),
			BulletPoints: bullets(profile.Section(models.SectionCompetition)),
			ImageURL:     a.placeholder.URL("Competitive Advantage"),
			ImagePrompt:  fmt.Sprintf("Competitive landscape and differentiation for %s", company),
			Metrics: []models.SlideMetric{
				{Label: "Differentiation", Value: "Strong", Icon: models.IconShield},
				{Label: "IP Protection", Value: "Secured", Icon: models.IconTarget},
				{Label: "Market Position", Value: "Leading", Icon: models.IconTrendingUp},
				{Label: "Barriers", Value: "High", Icon: models.IconZap},
			},
		})
	}

	switch {
	case len(profile.Personnel) > 0:
		team := make([]string, len(profile.Personnel))
		for i, p := range profile.Personnel {
			team[i] = fmt.Sprintf("%s - %s", p.Name, p.Role)
		}
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        fmt.Sprintf("%s's Leadership Team", company),
			Content:      "Experienced leadership team with proven track record and deep industry expertise.",
			BulletPoints: team,
			ImageURL:     a.placeholder.URL("Leadership Team"),
			ImagePrompt:  fmt.Sprintf("Professional team photo and leadership overview for %s", company),
			Metrics: []models.SlideMetric{
				{Label: "Team Size", Value: fmt.Sprintf("%d", len(profile.Personnel)), Icon: models.IconUsers},
				{Label: "Experience", Value: "20+ Years", Icon: models.IconShield},
				{Label: "Expertise", Value: "Deep Domain", Icon: models.IconTarget},
				{Label: "Track Record", Value: "Proven", Icon: models.IconRocket},
			},
		})
	case profile.HasSection(models.SectionTeam):
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        fmt.Sprintf("%s's Team", company),
			Content:      "Experienced team with deep expertise and proven success in the industry.",
			BulletPoints: bullets(profile.Section(models.SectionTeam)),
			ImageURL:     a.placeholder.URL("Team"),
			ImagePrompt:  fmt.Sprintf("Team overview and expertise for %s", company),
		})
	}

	financial := charts.Synthesize(profile.Metrics, models.IntentFinancial)
	b.add(models.Slide{
		Type:        models.SlideChart,
		Title:       fmt.Sprintf("%s's Financial Projections", company),
		Content:     "Conservative projections showing clear path to profitability and sustainable growth.",
		ChartData:   &financial,
		ImagePrompt: fmt.Sprintf("Financial projections and revenue growth for %s", company),
	})

	if profile.HasSection(models.SectionFunding) {
		b.add(models.Slide{
			Type:         models.SlideContent,
			Title:        "Investment Opportunity",
			Content:      fmt.Sprintf("%s seeks strategic investment to accelerate growth and market expansion.", company),
			BulletPoints: bullets(profile.Section(models.SectionFunding)),
			ImageURL:     a.placeholder.URL("Investment Opportunity"),
			ImagePrompt:  fmt.Sprintf("Investment opportunity and funding use for %s", company),
			Metrics: []models.SlideMetric{
				{Label: "Funding Goal", Value: "$5M", Icon: models.IconDollarSign},
				{Label: "Use of Funds", Value: "Growth", Icon: models.IconTrendingUp},
				{Label: "Timeline", Value: "18 Months", Icon: models.IconTarget},
				{Label: "Expected ROI", Value: "10x+", Icon: models.IconRocket},
			},
		})
	}

	b.add(models.Slide{
		Type:        models.SlideImage,
		Title:       "Thank You",
		Content:     fmt.Sprintf("Ready to transform the industry with %s. Let's discuss how we can create exceptional value together.", company),
		ImageURL:    a.placeholder.URL("Thank You"),
		ImagePrompt: fmt.Sprintf("Thank you slide with %s branding and contact information", company),
		Metrics: []models.SlideMetric{
			{Label: "Company", Value: company, Icon: models.IconGlobe},
			{Label: "Next Steps", Value: "Partnership", Icon: models.IconRocket},
			{Label: "Vision", Value: "Industry Leader", Icon: models.IconTarget},
			{Label: "Opportunity", Value: "Exceptional", Icon: models.IconTrendingUp},
		},
	})

	return b.slides
}

type builder struct {
	slides []models.Slide
}

func (b *builder) add(s models.Slide) {
	s.ID = len(b.slides)
	b.slides = append(b.slides, s)
}

func bullets(sentences []string) []string {
	if len(sentences) == 0 {
		return nil
	}
	if len(sentences) > maxBullets {
		sentences = sentences[:maxBullets]
	}
	out := make([]string, len(sentences))
	copy(out, sentences)
	return out
}

func tractionMetrics(metrics []models.Metric) []models.SlideMetric {
	users := "Growing"
	if m, ok := models.FirstMetric(metrics, models.MetricUsers); ok {
		users = humanize.Commaf(m.Value) + "+"
	}
	revenue := "Scaling"
	if m, ok := models.FirstMetric(metrics, models.MetricRevenue); ok {
		revenue = fmt.Sprintf("$%.1fM", m.Value/1e6)
	}
	traction := "Strong"
	if m, ok := models.FirstMetric(metrics, models.MetricTraction); ok {
		traction = humanize.Commaf(m.Value) + "+"
	}

	return []models.SlideMetric{
		{Label: "Users", Value: users, Icon: models.IconUsers},
		{Label: "Revenue", Value: revenue, Icon: models.IconDollarSign},
		{Label: "Traction", Value: traction, Icon: models.IconTrendingUp},
		{Label: "Retention", Value: "High", Icon: models.IconShield},
	}
}
