package analytics

import (
	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/types"
	"github.com/okian/elevatos/internal/i18n"
)

// ActiveClients is the fixed client count shown on the analytics page.
const ActiveClients = 87

const millions = 1_000_000

// ReportInput gathers everything a report is built from.
type ReportInput struct {
	Language      string
	Projects      []model.Project
	Countries     []model.Country
	CountryStats  []model.CountryStat
	Monthly       []model.MonthlyFigure
	FeedbackStats model.FeedbackStats
}

// StatusBreakdown labels and weighs CountByStatus for display.
func StatusBreakdown(lang string, projects []model.Project) []types.StatusCount {
	t := i18n.For(lang)
	tallies := CountByStatus(projects, model.Statuses())
	out := make([]types.StatusCount, len(tallies))
	for i, tl := range tallies {
		out[i] = types.StatusCount{
			Status:  tl.Status,
			Label:   t(string(tl.Status)),
			Color:   tl.Status.Color(),
			Count:   tl.Count,
			Percent: PercentOfTotal(tl.Count, len(projects)),
		}
	}
	return out
}

// CountryBreakdown weighs CountByCountry and names each market.
func CountryBreakdown(projects []model.Project, countries []model.Country) []types.CountryCount {
	byCode := make(map[string]model.Country, len(countries))
	for _, c := range countries {
		byCode[c.Code] = c
	}
	tallies := SortedCountryCounts(CountByCountry(projects))
	out := make([]types.CountryCount, len(tallies))
	for i, tl := range tallies {
		c := byCode[tl.Country]
		out[i] = types.CountryCount{
			Country: tl.Country,
			Name:    c.Name,
			Flag:    c.Flag,
			Count:   tl.Count,
			Percent: PercentOfTotal(tl.Count, len(projects)),
		}
	}
	return out
}

// BuildReport assembles the analytics page payload.
func BuildReport(in ReportInput) types.Report {
	t := i18n.For(in.Language)
	revenue := TotalRevenue(in.CountryStats)
	growth := RevenueGrowth(float64(revenue), PriorRevenueFactor)

	monthly := make([]types.MonthlyPoint, len(in.Monthly))
	for i, m := range in.Monthly {
		monthly[i] = types.MonthlyPoint{
			Month:    m.Month,
			Projects: m.Projects,
			Revenue:  float64(m.Revenue) / millions,
			Costs:    float64(m.Costs) / millions,
		}
	}

	countries := make([]model.CountryStat, len(in.CountryStats))
	copy(countries, in.CountryStats)

	return types.Report{
		Language:      in.Language,
		TotalProjects: len(in.Projects),
		TotalRevenue:  revenue,
		GrowthPercent: growth,
		ActiveClients: ActiveClients,
		KPIs: []types.KPI{
			{Key: "totalProjects", Title: t("totalProjects"), Value: len(in.Projects), Display: i18n.FormatNumber(in.Language, int64(len(in.Projects)))},
			{Key: "revenue", Title: t("revenue"), Value: revenue, Display: i18n.FormatCurrency(in.Language, revenue)},
			{Key: "growth", Title: t("growth"), Value: growth, Display: formatGrowth(growth)},
			{Key: "activeClients", Title: t("activeClients"), Value: ActiveClients, Display: i18n.FormatNumber(in.Language, ActiveClients)},
		},
		ByStatus:  StatusBreakdown(in.Language, in.Projects),
		ByCountry: CountryBreakdown(in.Projects, in.Countries),
		Monthly:   monthly,
		Countries: countries,
		Feedback:  in.FeedbackStats,
	}
}
