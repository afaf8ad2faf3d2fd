package model

// FeedbackEntry is a client review of a project. Entries are append-only.
type FeedbackEntry struct {
	ID          int    `json:"id"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	Suggestions string `json:"suggestions"`
	Date        string `json:"date"`
}

// FeedbackInput is what a caller submits; id and date are assigned by the store.
type FeedbackInput struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	Suggestions string `json:"suggestions"`
}

// FeedbackStats is the running review aggregate.
type FeedbackStats struct {
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// CloneFeedback copies a feedback slice.
func CloneFeedback(in []FeedbackEntry) []FeedbackEntry {
	if in == nil {
		return nil
	}
	out := make([]FeedbackEntry, len(in))
	copy(out, in)
	return out
}
