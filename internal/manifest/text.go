package manifest

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ToText flattens a manifest into the plain-text representation used as raw
// data in summarization prompts. Soft-deleted items (weight 0) are skipped.
func (m *SoulManifest) ToText() string {
	var sections []string

	add := func(label string, items []Item) {
		values := itemValues(items)
		if len(values) > 0 {
			sections = append(sections, label+": "+strings.Join(values, ", "))
		}
	}

	if m.Identity.Name != "" {
		sections = append(sections, "Name: "+m.Identity.Name)
	}
	add("Passions", m.Identity.Passions)
	add("Purpose", m.Identity.Purpose)
	add("Values", m.Identity.Values)
	add("Superpowers", m.Identity.Superpowers)

	if m.Interests != nil && len(m.Interests.Topics) > 0 {
		var topics []string
		for _, t := range m.Interests.Topics {
			entry := t.Topic
			if len(t.Subtopics) > 0 {
				entry += " (" + strings.Join(t.Subtopics, ", ") + ")"
			}
			topics = append(topics, entry)
		}
		sections = append(sections, "Interests: "+strings.Join(topics, "; "))
	}

	if loc := m.LifeContext.CurrentLocation; loc != nil {
		place := loc.City
		if loc.Neighborhood != "" {
			place = loc.Neighborhood + ", " + place
		}
		sections = append(sections, fmt.Sprintf("Current location: %s, %s", place, loc.Country))
	}
	if len(m.LifeContext.PlacesLived) > 0 {
		var cities []string
		for _, p := range m.LifeContext.PlacesLived {
			cities = append(cities, p.City)
		}
		sections = append(sections, "Places lived: "+strings.Join(cities, " → "))
	}
	if len(m.LifeContext.Eras) > 0 {
		var eras []string
		for _, e := range m.LifeContext.Eras {
			eras = append(eras, fmt.Sprintf("%s (%s, %s): %s", e.Name, e.TimePeriod, e.Location, e.Description))
		}
		sections = append(sections, "Life eras:\n"+strings.Join(eras, "\n"))
	}
	if s := m.LifeContext.LifeStorySummary; s != nil && !s.Removed() {
		sections = append(sections, "Life story: "+s.Value)
	}

	add("Current challenges", m.Growth.CurrentChallenges)
	add("Fears", m.Growth.Fears)
	add("Short-term goals", m.Growth.GoalsShortTerm)
	add("Long-term goals", m.Growth.GoalsLongTerm)

	if values := itemValues(m.Dreams.VividFutureScenes); len(values) > 0 {
		sections = append(sections, "Future visions: "+strings.Join(values, "; "))
	}
	add("Fantasy selves", m.Dreams.FantasySelves)

	add("Core beliefs", m.Worldview.CoreBeliefs)
	add("Questions wrestling with", m.Worldview.QuestionsWrestlingWith)

	if len(m.Relationships.ImportantPeople) > 0 {
		var relations []string
		for _, p := range m.Relationships.ImportantPeople {
			relations = append(relations, p.Relation)
		}
		sections = append(sections, "Important people: "+strings.Join(relations, ", "))
	}

	if m.Meta != nil {
		if len(m.Meta.Tensions) > 0 {
			var tensions []string
			for _, t := range m.Meta.Tensions {
				tensions = append(tensions, fmt.Sprintf("%s (%s vs %s)", t.Tension, t.Poles[0], t.Poles[1]))
			}
			sections = append(sections, "Tensions: "+strings.Join(tensions, "; "))
		}
		if len(m.Meta.WeightedThemes) > 0 {
			var themes []string
			for _, th := range m.Meta.WeightedThemes {
				themes = append(themes, fmt.Sprintf("%s [%s]", th.Theme, th.Weight))
			}
			sections = append(sections, "Weighted themes: "+strings.Join(themes, ", "))
		}
		if m.Meta.LifePhaseAnalysis.CurrentPhase != "" {
			sections = append(sections, "Life phase: "+m.Meta.LifePhaseAnalysis.CurrentPhase)
		}
	}

	if m.VoiceProfile != nil {
		vp := m.VoiceProfile
		sections = append(sections, fmt.Sprintf(
			"Voice profile: directness=%s, humor=%s, challenge=%s; responds to: %s; turned off by: %s",
			vp.PreferredDirectness, vp.HumorTolerance, vp.ChallengeTolerance,
			strings.Join(vp.RespondsTo, ", "), strings.Join(vp.TurnedOffBy, ", "),
		))
	}

	for _, key := range slices.Sorted(maps.Keys(m.RawInputs)) {
		if raw := m.RawInputs[key]; raw != "" {
			sections = append(sections, fmt.Sprintf("Raw (%s): %s", key, raw))
		}
	}

	return strings.Join(sections, "\n\n")
}

func itemValues(items []Item) []string {
	var values []string
	for _, it := range items {
		if it.Removed() {
			continue
		}
		values = append(values, it.Value)
	}
	return values
}
