package model

// DateLayout is the ISO calendar-date form used for every date field.
const DateLayout = "2006-01-02"

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Stage tracks completion of one lifecycle phase of a project.
type Stage struct {
	Complete int    `json:"complete"`
	Notes    string `json:"notes"`
}

// Attachment is document metadata only; no content is stored.
type Attachment struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Type string `json:"type"`
}

// Project is an elevator installation tracked by the dashboard.
type Project struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Country     string           `json:"country"`
	CountryName string           `json:"countryName"`
	Flag        string           `json:"flag"`
	City        string           `json:"city"`
	Status      Status           `json:"status"`
	Progress    int              `json:"progress"`
	Budget      int64            `json:"budget"`
	Manager     string           `json:"manager"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	Coordinates Coordinates      `json:"coordinates"`
	Stages      map[Status]Stage `json:"stages"`
	Attachments []Attachment     `json:"attachments"`
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	out := p
	if p.Stages != nil {
		out.Stages = make(map[Status]Stage, len(p.Stages))
		for k, v := range p.Stages {
			out.Stages[k] = v
		}
	}
	if p.Attachments != nil {
		out.Attachments = make([]Attachment, len(p.Attachments))
		copy(out.Attachments, p.Attachments)
	}
	return out
}

// CloneProjects deep-copies a project slice.
func CloneProjects(in []Project) []Project {
	if in == nil {
		return nil
	}
	out := make([]Project, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// ProjectPatch lists the mutable project fields. Nil fields are left as-is.
type ProjectPatch struct {
	Name      *string      `json:"name,omitempty"`
	Status    *Status      `json:"status,omitempty"`
	Progress  *int         `json:"progress,omitempty"`
	Budget    *int64       `json:"budget,omitempty"`
	Manager   *string      `json:"manager,omitempty"`
	StartDate *string      `json:"startDate,omitempty"`
	EndDate   *string      `json:"endDate,omitempty"`
	Notes     *StageNotes  `json:"notes,omitempty"`
	Location  *Coordinates `json:"coordinates,omitempty"`
}

// StageNotes replaces the notes of a single stage.
type StageNotes struct {
	Stage Status `json:"stage"`
	Notes string `json:"notes"`
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Status == nil && p.Progress == nil && p.Budget == nil &&
		p.Manager == nil && p.StartDate == nil && p.EndDate == nil && p.Notes == nil && p.Location == nil
}
