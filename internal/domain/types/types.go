// Package types contains the read shapes shared by the derived views and the
// HTTP API.
package types

import "github.com/okian/elevatos/internal/domain/model"

// StatusCount is one bar of the projects-by-status chart.
type StatusCount struct {
	Status  model.Status `json:"status"`
	Label   string       `json:"label"`
	Color   string       `json:"color"`
	Count   int          `json:"count"`
	Percent float64      `json:"percent"`
}

// CountryCount is one slice of the projects-by-country chart.
type CountryCount struct {
	Country string  `json:"country"`
	Name    string  `json:"name,omitempty"`
	Flag    string  `json:"flag,omitempty"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// KPI is a headline card.
type KPI struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Value   any    `json:"value"`
	Display string `json:"display"`
}

// MonthlyPoint is one month of the combined projects/revenue chart. Revenue
// is expressed in millions.
type MonthlyPoint struct {
	Month    string  `json:"month"`
	Projects int     `json:"projects"`
	Revenue  float64 `json:"revenue"`
	Costs    float64 `json:"costs"`
}

// Report is the analytics page payload.
type Report struct {
	Language      string              `json:"language"`
	TotalProjects int                 `json:"totalProjects"`
	TotalRevenue  int64               `json:"totalRevenue"`
	GrowthPercent float64             `json:"growthPercent"`
	ActiveClients int                 `json:"activeClients"`
	KPIs          []KPI               `json:"kpis"`
	ByStatus      []StatusCount       `json:"byStatus"`
	ByCountry     []CountryCount      `json:"byCountry"`
	Monthly       []MonthlyPoint      `json:"monthly"`
	Countries     []model.CountryStat `json:"countries"`
	Feedback      model.FeedbackStats `json:"feedback"`
}

// Session is the signed-in state and display preferences.
type Session struct {
	Authenticated bool        `json:"isAuthenticated"`
	Language      string      `json:"language"`
	Theme         model.Theme `json:"theme"`
}
