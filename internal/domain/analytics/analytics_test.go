package analytics_test

import (
	"testing"

	"github.com/okian/elevatos/internal/domain/analytics"
	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/seed"
	. "github.com/smartystreets/goconvey/convey"
)

func projectsWith(statusCountry ...string) []model.Project {
	out := make([]model.Project, 0, len(statusCountry)/2)
	for i := 0; i+1 < len(statusCountry); i += 2 {
		out = append(out, model.Project{Status: model.Status(statusCountry[i]), Country: statusCountry[i+1]})
	}
	return out
}

func TestPercentOfTotal(t *testing.T) {
	Convey("Given counts and totals", t, func() {
		So(analytics.PercentOfTotal(0, 0), ShouldEqual, 0.0)
		So(analytics.PercentOfTotal(5, 0), ShouldEqual, 0.0)
		So(analytics.PercentOfTotal(1, 3), ShouldEqual, 33.3)
		So(analytics.PercentOfTotal(2, 3), ShouldEqual, 66.7)
		So(analytics.PercentOfTotal(45, 144), ShouldEqual, 31.3)
		So(analytics.PercentOfTotal(3, 3), ShouldEqual, 100.0)
	})
}

func TestRound1(t *testing.T) {
	Convey("Given values to round", t, func() {
		So(analytics.Round1(4.80085), ShouldEqual, 4.8)
		So(analytics.Round1(4.75), ShouldEqual, 4.8)
		So(analytics.Round1(4.749), ShouldEqual, 4.7)
		So(analytics.Round1(0), ShouldEqual, 0.0)
	})
}

func TestCountByStatus(t *testing.T) {
	Convey("Given projects in a few stages", t, func() {
		projects := projectsWith("venda", "BR", "venda", "AR", "instalacao", "BR", "unknown", "CL")

		Convey("When counting by the fixed statuses", func() {
			tallies := analytics.CountByStatus(projects, model.Statuses())

			Convey("Then every status appears in order, zero counts included", func() {
				So(tallies, ShouldResemble, []analytics.StatusTally{
					{Status: model.StatusSales, Count: 2},
					{Status: model.StatusManufacturing, Count: 0},
					{Status: model.StatusInstallation, Count: 1},
					{Status: model.StatusAfterSales, Count: 0},
				})
			})
		})

		Convey("When counting with no projects", func() {
			tallies := analytics.CountByStatus(nil, model.Statuses())

			Convey("Then all counts are zero", func() {
				for _, tl := range tallies {
					So(tl.Count, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestCountByCountry(t *testing.T) {
	Convey("Given the seed projects", t, func() {
		projects := seed.New().Projects()
		counts := analytics.CountByCountry(projects)

		So(counts, ShouldResemble, map[string]int{"BR": 45, "AR": 32, "CL": 28, "CO": 21, "MX": 18})

		Convey("Then sorted tallies are by descending count", func() {
			sorted := analytics.SortedCountryCounts(counts)
			So(sorted[0], ShouldResemble, analytics.CountryTally{Country: "BR", Count: 45})
			So(sorted[4], ShouldResemble, analytics.CountryTally{Country: "MX", Count: 18})
		})

		Convey("Then ties are ordered by code", func() {
			sorted := analytics.SortedCountryCounts(map[string]int{"MX": 1, "AR": 1})
			So(sorted[0].Country, ShouldEqual, "AR")
		})
	})
}

func TestRevenueGrowth(t *testing.T) {
	Convey("Given the seeded country revenue", t, func() {
		total := analytics.TotalRevenue(seed.CountryStats())
		So(total, ShouldEqual, int64(13_000_000))

		Convey("Then growth against the synthesized prior period is 17.6%", func() {
			So(analytics.RevenueGrowth(float64(total), analytics.PriorRevenueFactor), ShouldEqual, 17.6)
		})

		Convey("Then a zero revenue does not divide by zero", func() {
			So(analytics.RevenueGrowth(0, analytics.PriorRevenueFactor), ShouldEqual, 0.0)
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given projects across statuses and countries", t, func() {
		projects := projectsWith("venda", "BR", "fabricacao", "BR", "venda", "AR")
		projects[0].ID, projects[1].ID, projects[2].ID = "a", "b", "c"

		Convey("Then an empty or all filter returns everything in order", func() {
			So(analytics.Filter{}.Apply(projects), ShouldResemble, projects)
			So(analytics.Filter{Status: "all", Country: "all"}.Apply(projects), ShouldResemble, projects)
		})

		Convey("Then filters combine status and country", func() {
			got := analytics.Filter{Status: "venda", Country: "AR"}.Apply(projects)
			So(len(got), ShouldEqual, 1)
			So(got[0].ID, ShouldEqual, "c")
		})

		Convey("Then a country filter alone keeps order", func() {
			got := analytics.Filter{Country: "BR"}.Apply(projects)
			So(len(got), ShouldEqual, 2)
			So(got[0].ID, ShouldEqual, "a")
			So(got[1].ID, ShouldEqual, "b")
		})

		Convey("Then a non-matching filter yields an empty list", func() {
			So(analytics.Filter{Status: "pos-venda"}.Apply(projects), ShouldBeEmpty)
		})
	})
}

func TestBuildReport(t *testing.T) {
	Convey("Given the seed dataset", t, func() {
		projects := seed.New().Projects()
		report := analytics.BuildReport(analytics.ReportInput{
			Language:      "en",
			Projects:      projects,
			Countries:     seed.Countries(),
			CountryStats:  seed.CountryStats(),
			Monthly:       seed.MonthlyFigures(),
			FeedbackStats: seed.FeedbackStats(),
		})

		Convey("Then the headline figures are filled", func() {
			So(report.TotalProjects, ShouldEqual, 144)
			So(report.TotalRevenue, ShouldEqual, int64(13_000_000))
			So(report.GrowthPercent, ShouldEqual, 17.6)
			So(report.ActiveClients, ShouldEqual, analytics.ActiveClients)
			So(len(report.KPIs), ShouldEqual, 4)
			So(report.KPIs[1].Title, ShouldEqual, "Revenue")
			So(report.KPIs[2].Display, ShouldEqual, "+17.6%")
		})

		Convey("Then the status breakdown is labelled and sums to the total", func() {
			So(len(report.ByStatus), ShouldEqual, 4)
			So(report.ByStatus[0].Label, ShouldEqual, "Sales")
			sum := 0
			for _, s := range report.ByStatus {
				sum += s.Count
			}
			So(sum, ShouldEqual, 144)
		})

		Convey("Then the country breakdown names each market", func() {
			So(report.ByCountry[0].Country, ShouldEqual, "BR")
			So(report.ByCountry[0].Name, ShouldEqual, "Brasil")
			So(report.ByCountry[0].Percent, ShouldEqual, 31.3)
		})

		Convey("Then monthly revenue is expressed in millions", func() {
			So(report.Monthly[0].Revenue, ShouldEqual, 2.1)
			So(report.Monthly[5].Projects, ShouldEqual, 27)
		})
	})
}
