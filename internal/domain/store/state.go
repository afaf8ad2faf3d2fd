package store

import (
	"context"

	"github.com/okian/elevatos/internal/domain/model"
)

// Key names a field of the store state. Mirrored keys double as the
// persistence keys.
type Key string

// State keys.
const (
	KeyAuthenticated Key = "isAuthenticated"
	KeyLanguage      Key = "language"
	KeyTheme         Key = "theme"
	KeyProjects      Key = "projects"
	KeyFeedback      Key = "feedback"
	KeyFeedbackStats Key = "feedbackStats"
	KeyUser          Key = "user"
)

// MirroredKeys lists the keys that are persisted, in load order.
func MirroredKeys() []Key {
	return []Key{KeyAuthenticated, KeyLanguage, KeyTheme, KeyProjects, KeyFeedback, KeyFeedbackStats}
}

// Mirrored reports whether k is persisted.
func (k Key) Mirrored() bool {
	for _, m := range MirroredKeys() {
		if m == k {
			return true
		}
	}
	return false
}

// State is the complete store content. It seeds Start and is returned by
// Snapshot.
type State struct {
	Authenticated bool
	Language      string
	Theme         model.Theme
	Projects      []model.Project
	Feedback      []model.FeedbackEntry
	FeedbackStats model.FeedbackStats
	User          model.UserProfile
}

// Value returns the field of s named by k.
func (s State) Value(k Key) any {
	switch k {
	case KeyAuthenticated:
		return s.Authenticated
	case KeyLanguage:
		return s.Language
	case KeyTheme:
		return s.Theme
	case KeyProjects:
		return model.CloneProjects(s.Projects)
	case KeyFeedback:
		return model.CloneFeedback(s.Feedback)
	case KeyFeedbackStats:
		return s.FeedbackStats
	case KeyUser:
		return s.User
	}
	return nil
}

// Change reports the new value of one field after a mutation. Value holds a
// private copy with the field's Go type (bool, string, model.Theme,
// []model.Project, []model.FeedbackEntry, model.FeedbackStats or
// model.UserProfile).
type Change struct {
	Key   Key
	Value any
}

// Observer receives changes. Observers run while the store holds its write
// lock, in mutation order, and must neither block nor call back into the store.
type Observer interface {
	Observe(ctx context.Context, c Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, c Change)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, c Change) { f(ctx, c) }
