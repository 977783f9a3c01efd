package manifest

import (
	"fmt"
	"time"
)

// AmendAction is what a conversational amendment does to a manifest field.
type AmendAction string

const (
	AmendAdd    AmendAction = "add"
	AmendUpdate AmendAction = "update"
	AmendRemove AmendAction = "remove"
)

// Amendment is one extracted profile change, addressed by dot-notation path
// into the manifest's item slices.
type Amendment struct {
	Path       string      `json:"path"`
	Action     AmendAction `json:"action"`
	OldValue   string      `json:"old_value,omitempty"`
	NewValue   string      `json:"new_value,omitempty"`
	Confidence float64     `json:"confidence"`
}

// itemFields maps amendment paths to the item slices they address. Paths not
// listed here (structured sections like meta.tensions or interests.topics)
// are not amendable through conversation.
var itemFields = map[string]func(*SoulManifest) *[]Item{
	"identity.passions":                  func(m *SoulManifest) *[]Item { return &m.Identity.Passions },
	"identity.purpose":                   func(m *SoulManifest) *[]Item { return &m.Identity.Purpose },
	"identity.superpowers":               func(m *SoulManifest) *[]Item { return &m.Identity.Superpowers },
	"identity.values":                    func(m *SoulManifest) *[]Item { return &m.Identity.Values },
	"growth.current_challenges":          func(m *SoulManifest) *[]Item { return &m.Growth.CurrentChallenges },
	"growth.fears":                       func(m *SoulManifest) *[]Item { return &m.Growth.Fears },
	"growth.goals_short_term":            func(m *SoulManifest) *[]Item { return &m.Growth.GoalsShortTerm },
	"growth.goals_long_term":             func(m *SoulManifest) *[]Item { return &m.Growth.GoalsLongTerm },
	"dreams.vivid_future_scenes":         func(m *SoulManifest) *[]Item { return &m.Dreams.VividFutureScenes },
	"dreams.bucket_list":                 func(m *SoulManifest) *[]Item { return &m.Dreams.BucketList },
	"dreams.fantasy_selves":              func(m *SoulManifest) *[]Item { return &m.Dreams.FantasySelves },
	"worldview.core_beliefs":             func(m *SoulManifest) *[]Item { return &m.Worldview.CoreBeliefs },
	"worldview.sources_of_meaning":       func(m *SoulManifest) *[]Item { return &m.Worldview.SourcesOfMeaning },
	"worldview.questions_wrestling_with": func(m *SoulManifest) *[]Item { return &m.Worldview.QuestionsWrestlingWith },
}

// ItemsAt resolves a dot-notation path to its item slice. The second return
// is false for paths that do not address an amendable slice.
func (m *SoulManifest) ItemsAt(path string) (*[]Item, bool) {
	f, ok := itemFields[path]
	if !ok {
		return nil, false
	}
	return f(m), true
}

// Amend applies one conversational amendment. Adds append a new
// conversation-sourced item; updates rewrite the matched item's value and
// confirm it; removes soft-delete the matched item, keeping it at weight
// zero. The caller stamps UpdatedAt when it persists the manifest.
func (m *SoulManifest) Amend(a Amendment) error {
	items, ok := m.ItemsAt(a.Path)
	if !ok {
		return fmt.Errorf("path %q is not amendable", a.Path)
	}

	switch a.Action {
	case AmendAdd:
		if a.NewValue == "" {
			return fmt.Errorf("add to %q: empty value", a.Path)
		}
		*items = append(*items, NewItem(a.NewValue, SourceConversation))
		return nil

	case AmendUpdate:
		it := findItem(*items, a.OldValue)
		if it == nil {
			return fmt.Errorf("update in %q: no item %q", a.Path, a.OldValue)
		}
		if a.NewValue != "" {
			it.Value = a.NewValue
		}
		it.Confirm()
		return nil

	case AmendRemove:
		it := findItem(*items, a.OldValue)
		if it == nil {
			return fmt.Errorf("remove from %q: no item %q", a.Path, a.OldValue)
		}
		it.Remove()
		return nil

	default:
		return fmt.Errorf("unknown amendment action %q", a.Action)
	}
}

// MarkFieldsReferenced records a generation or conversation reference against
// every live item under the given paths. Paths that do not resolve to item
// slices are ignored; they name structured sections with no per-item weights.
func (m *SoulManifest) MarkFieldsReferenced(paths []string, now time.Time) {
	for _, path := range paths {
		items, ok := m.ItemsAt(path)
		if !ok {
			continue
		}
		for i := range *items {
			if (*items)[i].Removed() {
				continue
			}
			(*items)[i].MarkReferenced(now)
		}
	}
}

// DecayStale applies the 30-day non-reference decay across every amendable
// slice, returning how many items lost weight.
func (m *SoulManifest) DecayStale(now time.Time) int {
	var decayed int
	for _, f := range itemFields {
		items := f(m)
		for i := range *items {
			if (*items)[i].Removed() {
				continue
			}
			if (*items)[i].Decay(now) {
				decayed++
			}
		}
	}
	return decayed
}

func findItem(items []Item, value string) *Item {
	for i := range items {
		if items[i].Value == value && !items[i].Removed() {
			return &items[i]
		}
	}
	return nil
}
