package mirror

import (
	"encoding/json"
	"fmt"

	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/store"
	"github.com/okian/elevatos/internal/i18n"
)

// encode serializes a change value. Every mirrored key is stored as JSON.
func encode(c store.Change) ([]byte, error) {
	b, err := json.Marshal(c.Value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Key, err)
	}
	return b, nil
}

// decodeInto parses data as the field named by key and assigns it to st.
// On error st is left untouched.
func decodeInto(key store.Key, data []byte, st *store.State) error {
	fail := func(reason string) error {
		return fmt.Errorf("%w: %s: %s", ErrDeserialization, key, reason)
	}

	switch key {
	case store.KeyAuthenticated:
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return fail(err.Error())
		}
		st.Authenticated = v

	case store.KeyLanguage:
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fail(err.Error())
		}
		lang, ok := i18n.Normalize(v)
		if !ok {
			return fail(fmt.Sprintf("unsupported language %q", v))
		}
		st.Language = lang

	case store.KeyTheme:
		var v model.Theme
		if err := json.Unmarshal(data, &v); err != nil {
			return fail(err.Error())
		}
		if !v.Valid() {
			return fail(fmt.Sprintf("unknown theme %q", v))
		}
		st.Theme = v

	case store.KeyProjects:
		var v []model.Project
		if err := json.Unmarshal(data, &v); err != nil {
			return fail(err.Error())
		}
		if v == nil {
			return fail("null")
		}
		seen := make(map[string]struct{}, len(v))
		for _, p := range v {
			if _, dup := seen[p.ID]; dup {
				return fail(fmt.Sprintf("duplicate project id %q", p.ID))
			}
			seen[p.ID] = struct{}{}
		}
		st.Projects = v

	case store.KeyFeedback:
		var v []model.FeedbackEntry
		if err := json.Unmarshal(data, &v); err != nil {
			return fail(err.Error())
		}
		if v == nil {
			return fail("null")
		}
		st.Feedback = v

	case store.KeyFeedbackStats:
		var v model.FeedbackStats
		if err := json.Unmarshal(data, &v); err != nil {
			return fail(err.Error())
		}
		if v.TotalReviews < 0 {
			return fail("negative review count")
		}
		st.FeedbackStats = v

	default:
		return fmt.Errorf("%w: %s is not persisted", ErrDeserialization, key)
	}
	return nil
}
