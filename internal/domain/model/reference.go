package model

// Country is a market the company operates in.
type Country struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Flag        string      `json:"flag"`
	Coordinates Coordinates `json:"coordinates"`
}

// MonthlyFigure is one month of the revenue chart.
type MonthlyFigure struct {
	Month    string `json:"month"`
	Projects int    `json:"projects"`
	Revenue  int64  `json:"revenue"`
	Costs    int64  `json:"costs"`
}

// CountryStat is one row of the per-country KPI table.
type CountryStat struct {
	Country      string  `json:"country"`
	Flag         string  `json:"flag"`
	Projects     int     `json:"projects"`
	Revenue      int64   `json:"revenue"`
	Satisfaction float64 `json:"satisfaction"`
}

// Activity is an entry of the recent-activity feed.
type Activity struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Project string `json:"project"`
	Action  string `json:"action"`
	Time    string `json:"time"`
	User    string `json:"user"`
}
