// Package intake turns free-text onboarding answers into a structured Soul
// Manifest through two structured completions: one for the manifest
// sections, one for the meta observations and voice profile.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/manifest"
)

// StructuredCompleter is the slice of the completion client the parser needs.
type StructuredCompleter interface {
	CompleteStructured(ctx context.Context, system, user, schemaName string, schema map[string]any, opts llm.Options) (json.RawMessage, error)
}

// Parser builds manifests from raw onboarding answers.
type Parser struct {
	client StructuredCompleter
	now    func() time.Time
}

// NewParser creates an intake parser.
func NewParser(client StructuredCompleter) *Parser {
	return &Parser{client: client, now: time.Now}
}

const intakeSystem = `You extract structured facts about a person from their own words.
Only record what the text supports; never invent details. Keep the person's
phrasing where it is vivid. Empty arrays are fine when the answers say
nothing about a section.`

// ParseOnboarding builds a complete manifest from question/answer pairs.
// The raw answers are preserved verbatim; every extracted item gets the
// onboarding initial weight and a fresh id.
func (p *Parser) ParseOnboarding(ctx context.Context, userID string, answers map[string]string) (*manifest.SoulManifest, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("no onboarding answers for user %s", userID)
	}

	var sb strings.Builder
	for _, q := range slices.Sorted(maps.Keys(answers)) {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n\n", q, answers[q])
	}
	raw := sb.String()

	slog.Info("parsing onboarding answers", "user_id", userID, "answers", len(answers))

	sections, err := p.parseSections(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("parse sections: %w", err)
	}
	meta, voice, err := p.parseMeta(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("parse meta observations: %w", err)
	}

	m := manifest.New(userID)
	m.RawInputs = maps.Clone(answers)
	m.Meta = meta
	m.VoiceProfile = voice
	p.fillSections(m, sections)
	return m, nil
}

type parsedSections struct {
	Name        string   `json:"name"`
	Passions    []string `json:"passions"`
	Purpose     []string `json:"purpose"`
	Superpowers []string `json:"superpowers"`
	Values      []string `json:"values"`

	Interests []struct {
		Topic           string   `json:"topic"`
		FascinationType string   `json:"fascination_type"`
		Subtopics       []string `json:"subtopics"`
	} `json:"interests"`

	LifeStorySummary string `json:"life_story_summary"`
	CurrentCity      string `json:"current_city"`
	CurrentCountry   string `json:"current_country"`

	ImportantPeople []struct {
		Name     string `json:"name"`
		Relation string `json:"relation"`
		Context  string `json:"context"`
	} `json:"important_people"`

	CurrentChallenges []string `json:"current_challenges"`
	Fears             []string `json:"fears"`
	GoalsShortTerm    []string `json:"goals_short_term"`
	GoalsLongTerm     []string `json:"goals_long_term"`

	VividFutureScenes []string `json:"vivid_future_scenes"`
	BucketList        []string `json:"bucket_list"`

	CoreBeliefs      []string `json:"core_beliefs"`
	SourcesOfMeaning []string `json:"sources_of_meaning"`
}

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

var sectionsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":        map[string]any{"type": "string"},
		"passions":    stringArray(),
		"purpose":     stringArray(),
		"superpowers": stringArray(),
		"values":      stringArray(),
		"interests": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic": map[string]any{"type": "string"},
					"fascination_type": map[string]any{
						"type": "string",
						"enum": []string{"curious_about", "obsessed_with", "want_to_learn", "love_reading_about"},
					},
					"subtopics": stringArray(),
				},
				"required":             []string{"topic", "fascination_type", "subtopics"},
				"additionalProperties": false,
			},
		},
		"life_story_summary": map[string]any{"type": "string"},
		"current_city":       map[string]any{"type": "string"},
		"current_country":    map[string]any{"type": "string"},
		"important_people": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]any{"type": "string"},
					"relation": map[string]any{"type": "string"},
					"context":  map[string]any{"type": "string"},
				},
				"required":             []string{"name", "relation", "context"},
				"additionalProperties": false,
			},
		},
		"current_challenges":  stringArray(),
		"fears":               stringArray(),
		"goals_short_term":    stringArray(),
		"goals_long_term":     stringArray(),
		"vivid_future_scenes": stringArray(),
		"bucket_list":         stringArray(),
		"core_beliefs":        stringArray(),
		"sources_of_meaning":  stringArray(),
	},
	"required": []string{
		"name", "passions", "purpose", "superpowers", "values", "interests",
		"life_story_summary", "current_city", "current_country", "important_people",
		"current_challenges", "fears", "goals_short_term", "goals_long_term",
		"vivid_future_scenes", "bucket_list", "core_beliefs", "sources_of_meaning",
	},
	"additionalProperties": false,
}

func (p *Parser) parseSections(ctx context.Context, raw string) (*parsedSections, error) {
	out, err := p.client.CompleteStructured(ctx, intakeSystem,
		"Onboarding answers:\n\n"+raw+"\nExtract the structured sections.",
		"manifest_sections", sectionsSchema,
		llm.Options{Temperature: 0.2, MaxTokens: 2000})
	if err != nil {
		return nil, err
	}
	var sections parsedSections
	if err := json.Unmarshal(out, &sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return &sections, nil
}

type parsedMeta struct {
	VoiceSignature struct {
		Tone            string   `json:"tone"`
		SentenceStyle   string   `json:"sentence_style"`
		VocabularyLevel string   `json:"vocabulary_level"`
		NotablePatterns []string `json:"notable_patterns"`
	} `json:"voice_signature"`
	Tensions []struct {
		Tension string    `json:"tension"`
		Poles   [2]string `json:"poles"`
	} `json:"tensions"`
	MotivationalDrivers []struct {
		Driver   string `json:"driver"`
		Strength string `json:"strength"`
	} `json:"motivational_drivers"`
	WeightedThemes []struct {
		Theme  string `json:"theme"`
		Weight string `json:"weight"`
	} `json:"weighted_themes"`
	CurrentPhase        string   `json:"current_phase"`
	PreferredDirectness string   `json:"preferred_directness"`
	HumorTolerance      string   `json:"humor_tolerance"`
	ChallengeTolerance  string   `json:"challenge_tolerance"`
	RespondsTo          []string `json:"responds_to"`
	TurnedOffBy         []string `json:"turned_off_by"`
}

var metaSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"voice_signature": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tone":             map[string]any{"type": "string"},
				"sentence_style":   map[string]any{"type": "string"},
				"vocabulary_level": map[string]any{"type": "string"},
				"notable_patterns": stringArray(),
			},
			"required":             []string{"tone", "sentence_style", "vocabulary_level", "notable_patterns"},
			"additionalProperties": false,
		},
		"tensions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tension": map[string]any{"type": "string"},
					"poles": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 2,
						"maxItems": 2,
					},
				},
				"required":             []string{"tension", "poles"},
				"additionalProperties": false,
			},
		},
		"motivational_drivers": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"driver":   map[string]any{"type": "string"},
					"strength": map[string]any{"type": "string", "enum": []string{"primary", "secondary"}},
				},
				"required":             []string{"driver", "strength"},
				"additionalProperties": false,
			},
		},
		"weighted_themes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"theme":  map[string]any{"type": "string"},
					"weight": map[string]any{"type": "string", "enum": []string{"high", "medium"}},
				},
				"required":             []string{"theme", "weight"},
				"additionalProperties": false,
			},
		},
		"current_phase":        map[string]any{"type": "string"},
		"preferred_directness": map[string]any{"type": "string", "enum": []string{"very_direct", "direct", "gentle", "very_gentle"}},
		"humor_tolerance":      map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
		"challenge_tolerance":  map[string]any{"type": "string", "enum": []string{"loves_it", "moderate", "sensitive"}},
		"responds_to":          stringArray(),
		"turned_off_by":        stringArray(),
	},
	"required": []string{
		"voice_signature", "tensions", "motivational_drivers", "weighted_themes",
		"current_phase", "preferred_directness", "humor_tolerance",
		"challenge_tolerance", "responds_to", "turned_off_by",
	},
	"additionalProperties": false,
}

func (p *Parser) parseMeta(ctx context.Context, raw string) (*manifest.MetaObservations, *manifest.VoiceProfile, error) {
	out, err := p.client.CompleteStructured(ctx,
		intakeSystem+"\nFor this pass, read BETWEEN the lines: how they write, what contradictions they carry, what actually drives them.",
		"Onboarding answers:\n\n"+raw+"\nExtract the meta observations and voice profile.",
		"meta_observations", metaSchema,
		llm.Options{Model: llm.ModelReasoning, Temperature: 0.4, MaxTokens: 1500})
	if err != nil {
		return nil, nil, err
	}
	var parsed parsedMeta
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, nil, fmt.Errorf("decode meta: %w", err)
	}

	meta := &manifest.MetaObservations{
		VoiceSignature: manifest.VoiceSignature{
			Tone:            parsed.VoiceSignature.Tone,
			SentenceStyle:   parsed.VoiceSignature.SentenceStyle,
			VocabularyLevel: parsed.VoiceSignature.VocabularyLevel,
			NotablePatterns: parsed.VoiceSignature.NotablePatterns,
		},
		LifePhaseAnalysis: manifest.LifePhaseAnalysis{CurrentPhase: parsed.CurrentPhase},
	}
	for _, t := range parsed.Tensions {
		meta.Tensions = append(meta.Tensions, manifest.Tension{Tension: t.Tension, Poles: t.Poles})
	}
	for _, d := range parsed.MotivationalDrivers {
		meta.MotivationalDrivers = append(meta.MotivationalDrivers, manifest.MotivationalDriver{
			Driver:   d.Driver,
			Strength: manifest.DriverStrength(d.Strength),
		})
	}
	for _, w := range parsed.WeightedThemes {
		meta.WeightedThemes = append(meta.WeightedThemes, manifest.WeightedTheme{
			Theme:  w.Theme,
			Weight: manifest.ThemeWeight(w.Weight),
		})
	}

	voice := &manifest.VoiceProfile{
		PreferredDirectness: manifest.Directness(parsed.PreferredDirectness),
		HumorTolerance:      manifest.Tolerance(parsed.HumorTolerance),
		ChallengeTolerance:  manifest.ChallengeTolerance(parsed.ChallengeTolerance),
		RespondsTo:          parsed.RespondsTo,
		TurnedOffBy:         parsed.TurnedOffBy,
	}
	return meta, voice, nil
}

func (p *Parser) fillSections(m *manifest.SoulManifest, s *parsedSections) {
	m.Identity.Name = s.Name
	m.Identity.Passions = newItems(s.Passions)
	m.Identity.Purpose = newItems(s.Purpose)
	m.Identity.Superpowers = newItems(s.Superpowers)
	m.Identity.Values = newItems(s.Values)

	if len(s.Interests) > 0 {
		m.Interests = &manifest.Interests{}
		for _, it := range s.Interests {
			m.Interests.Topics = append(m.Interests.Topics, manifest.InterestItem{
				ID:              uuid.NewString(),
				Topic:           it.Topic,
				FascinationType: manifest.FascinationType(it.FascinationType),
				Subtopics:       it.Subtopics,
				Weight:          manifest.InitialWeights[manifest.SourceOnboarding],
				Source:          manifest.SourceOnboarding,
				CreatedAt:       p.now().UTC(),
			})
		}
	}

	if s.LifeStorySummary != "" {
		item := manifest.NewItem(s.LifeStorySummary, manifest.SourceOnboarding)
		m.LifeContext.LifeStorySummary = &item
	}
	if s.CurrentCity != "" || s.CurrentCountry != "" {
		m.LifeContext.CurrentLocation = &manifest.LocationItem{
			City:    s.CurrentCity,
			Country: s.CurrentCountry,
		}
	}

	for _, person := range s.ImportantPeople {
		m.Relationships.ImportantPeople = append(m.Relationships.ImportantPeople, manifest.RelationshipItem{
			ID:       uuid.NewString(),
			Name:     person.Name,
			Relation: person.Relation,
			Context:  person.Context,
			Weight:   manifest.InitialWeights[manifest.SourceOnboarding],
		})
	}

	m.Growth.CurrentChallenges = newItems(s.CurrentChallenges)
	m.Growth.Fears = newItems(s.Fears)
	m.Growth.GoalsShortTerm = newItems(s.GoalsShortTerm)
	m.Growth.GoalsLongTerm = newItems(s.GoalsLongTerm)

	m.Dreams.VividFutureScenes = newItems(s.VividFutureScenes)
	m.Dreams.BucketList = newItems(s.BucketList)

	m.Worldview.CoreBeliefs = newItems(s.CoreBeliefs)
	m.Worldview.SourcesOfMeaning = newItems(s.SourcesOfMeaning)
}

func newItems(values []string) []manifest.Item {
	var items []manifest.Item
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		items = append(items, manifest.NewItem(v, manifest.SourceOnboarding))
	}
	return items
}
