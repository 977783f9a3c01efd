// Package manifest defines the Soul Manifest: the structured, versioned
// record of a user's identity, history, fears, and dreams that drives all
// content generation.
package manifest

import (
	"time"

	"github.com/google/uuid"
)

// CurrentSchemaVersion is stamped on newly created manifests.
const CurrentSchemaVersion = "1.1"

// Source identifies where a manifest item came from.
type Source string

const (
	SourceOnboarding   Source = "onboarding"
	SourceConversation Source = "conversation"
	SourceUserEdit     Source = "user_edit"
)

// InitialWeights maps an item source to its starting weight.
var InitialWeights = map[Source]float64{
	SourceOnboarding:   0.7,
	SourceConversation: 0.6,
	SourceUserEdit:     0.9,
}

// Weight adjustment constants. Weights only change through these rules;
// explicit removal zeroes the weight but never deletes the item.
const (
	WeightConfirmed        = 0.1
	WeightReferenced       = 0.05
	WeightDecay30Days      = -0.1
	WeightExplicitConfirm  = 0.9
	WeightExplicitRemoval  = 0.0
	nonReferenceDecayAfter = 30 * 24 * time.Hour
)

// Item is an atomic manifest fact with provenance and weight.
type Item struct {
	ID               string    `json:"id"`
	Value            string    `json:"value"`
	Weight           float64   `json:"weight"`
	ContextTags      []string  `json:"context_tags,omitempty"`
	Source           Source    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
	LastReferencedAt time.Time `json:"last_referenced_at,omitzero"`
}

// NewItem creates an item with the weight its source dictates.
func NewItem(value string, source Source) Item {
	return Item{
		ID:        uuid.NewString(),
		Value:     value,
		Weight:    InitialWeights[source],
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// Confirm bumps the weight after the item was confirmed in conversation.
func (it *Item) Confirm() {
	it.Weight = clampWeight(it.Weight + WeightConfirmed)
}

// MarkReferenced records a generation reference and bumps the weight.
func (it *Item) MarkReferenced(now time.Time) {
	it.LastReferencedAt = now
	it.Weight = clampWeight(it.Weight + WeightReferenced)
}

// Decay applies the 30-day non-reference decay if due. Returns true if the
// weight changed.
func (it *Item) Decay(now time.Time) bool {
	last := it.LastReferencedAt
	if last.IsZero() {
		last = it.CreatedAt
	}
	if now.Sub(last) < nonReferenceDecayAfter {
		return false
	}
	it.Weight = clampWeight(it.Weight + WeightDecay30Days)
	return true
}

// Remove soft-deletes the item: the weight goes to zero, the item stays.
func (it *Item) Remove() {
	it.Weight = WeightExplicitRemoval
}

// Removed reports whether the item has been soft-deleted.
func (it *Item) Removed() bool {
	return it.Weight == 0
}

func clampWeight(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// FascinationType grades how strongly an interest pulls.
type FascinationType string

const (
	FascinationCurious     FascinationType = "curious_about"
	FascinationObsessed    FascinationType = "obsessed_with"
	FascinationWantToLearn FascinationType = "want_to_learn"
	FascinationLoveReading FascinationType = "love_reading_about"
)

// InterestItem is a topic the user is drawn to.
type InterestItem struct {
	ID                string          `json:"id"`
	Topic             string          `json:"topic"`
	FascinationType   FascinationType `json:"fascination_type"`
	Subtopics         []string        `json:"subtopics,omitempty"`
	PeopleWhoInspire  []string        `json:"people_who_inspire,omitempty"`
	Weight            float64         `json:"weight"`
	Source            Source          `json:"source"`
	CreatedAt         time.Time       `json:"created_at"`
}

// EraItem is one chapter of the user's life.
type EraItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	TimePeriod  string   `json:"time_period"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	KeyEvents   []string `json:"key_events,omitempty"`
	Weight      float64  `json:"weight"`
}

// LocationItem describes a place the user lives or lived.
type LocationItem struct {
	City           string   `json:"city"`
	Neighborhood   string   `json:"neighborhood,omitempty"`
	Country        string   `json:"country"`
	LocalLandmarks []string `json:"local_landmarks,omitempty"`
	Years          string   `json:"years,omitempty"`
}

// RelationshipItem is a person who matters to the user.
type RelationshipItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Relation string  `json:"relation"`
	Context  string  `json:"context,omitempty"`
	Weight   float64 `json:"weight"`
}

// Tension is a contradiction worth writing into.
type Tension struct {
	Tension        string    `json:"tension"`
	Poles          [2]string `json:"poles"`
	SourceEvidence string    `json:"source_evidence,omitempty"`
}

// DriverStrength tags a motivational driver as primary or secondary.
type DriverStrength string

const (
	DriverPrimary   DriverStrength = "primary"
	DriverSecondary DriverStrength = "secondary"
)

// MotivationalDriver is what actually moves the user.
type MotivationalDriver struct {
	Driver   string         `json:"driver"`
	Strength DriverStrength `json:"strength"`
	Evidence string         `json:"evidence,omitempty"`
}

// ThemeWeight grades how much emotional weight a theme carries.
type ThemeWeight string

const (
	ThemeHigh   ThemeWeight = "high"
	ThemeMedium ThemeWeight = "medium"
)

// WeightedTheme is a theme that carries extra significance.
type WeightedTheme struct {
	Theme     string      `json:"theme"`
	Weight    ThemeWeight `json:"weight"`
	Reasoning string      `json:"reasoning,omitempty"`
}

// VoiceSignature captures how the user writes and speaks.
type VoiceSignature struct {
	Tone            string   `json:"tone"`
	SentenceStyle   string   `json:"sentence_style"`
	VocabularyLevel string   `json:"vocabulary_level"`
	NotablePatterns []string `json:"notable_patterns,omitempty"`
}

// LifePhaseAnalysis situates the user in their current chapter.
type LifePhaseAnalysis struct {
	CurrentPhase        string   `json:"current_phase"`
	KeyDecisionsPending []string `json:"key_decisions_pending,omitempty"`
	TimePressureFelt    bool     `json:"time_pressure_felt"`
}

// MetaObservations is the AI-derived analysis layered over raw inputs.
type MetaObservations struct {
	VoiceSignature      VoiceSignature       `json:"voice_signature"`
	Tensions            []Tension            `json:"tensions,omitempty"`
	MotivationalDrivers []MotivationalDriver `json:"motivational_drivers,omitempty"`
	WeightedThemes      []WeightedTheme      `json:"weighted_themes,omitempty"`
	LifePhaseAnalysis   LifePhaseAnalysis    `json:"life_phase_analysis"`
}

// Directness grades how bluntly to speak to the user.
type Directness string

const (
	DirectnessVeryDirect Directness = "very_direct"
	DirectnessDirect     Directness = "direct"
	DirectnessGentle     Directness = "gentle"
	DirectnessVeryGentle Directness = "very_gentle"
)

// Tolerance is a coarse high/medium/low grade.
type Tolerance string

const (
	ToleranceHigh   Tolerance = "high"
	ToleranceMedium Tolerance = "medium"
	ToleranceLow    Tolerance = "low"
)

// ChallengeTolerance grades appetite for being pushed.
type ChallengeTolerance string

const (
	ChallengeLovesIt   ChallengeTolerance = "loves_it"
	ChallengeModerate  ChallengeTolerance = "moderate"
	ChallengeSensitive ChallengeTolerance = "sensitive"
)

// VoiceProfile directs generation tone for this user.
type VoiceProfile struct {
	PreferredDirectness Directness         `json:"preferred_directness"`
	HumorTolerance      Tolerance          `json:"humor_tolerance"`
	ChallengeTolerance  ChallengeTolerance `json:"challenge_tolerance"`
	RespondsTo          []string           `json:"responds_to,omitempty"`
	TurnedOffBy         []string           `json:"turned_off_by,omitempty"`
	StyleNotes          string             `json:"style_notes,omitempty"`
}

// RawInputs preserves the user's onboarding answers verbatim.
type RawInputs map[string]string

// Identity is the core of who the user is.
type Identity struct {
	Name        string `json:"name,omitempty"`
	Passions    []Item `json:"passions"`
	Purpose     []Item `json:"purpose"`
	Superpowers []Item `json:"superpowers"`
	Values      []Item `json:"values"`
}

// Interests groups topics and people the user gravitates toward.
type Interests struct {
	Topics                []InterestItem `json:"topics"`
	PeopleWhoFascinate    []string       `json:"people_who_fascinate,omitempty"`
	QuestionsCuriousAbout []string       `json:"questions_curious_about,omitempty"`
}

// LifeContext is where and how the user has lived.
type LifeContext struct {
	LifeStorySummary *Item          `json:"life_story_summary,omitempty"`
	Eras             []EraItem      `json:"eras"`
	CurrentLocation  *LocationItem  `json:"current_location,omitempty"`
	PlacesLived      []LocationItem `json:"places_lived,omitempty"`
}

// Relationships are the people around the user.
type Relationships struct {
	Family             []RelationshipItem `json:"family,omitempty"`
	ImportantPeople    []RelationshipItem `json:"important_people,omitempty"`
	RelationshipStatus string             `json:"relationship_status,omitempty"`
}

// Growth covers challenges, fears, and goals.
type Growth struct {
	CurrentChallenges []Item `json:"current_challenges"`
	Fears             []Item `json:"fears"`
	GoalsShortTerm    []Item `json:"goals_short_term"`
	GoalsLongTerm     []Item `json:"goals_long_term"`
}

// Dreams holds the user's imagined futures.
type Dreams struct {
	VividFutureScenes []Item   `json:"vivid_future_scenes"`
	BucketList        []Item   `json:"bucket_list,omitempty"`
	FantasySelves     []Item   `json:"fantasy_selves,omitempty"`
	DreamPlaces       []string `json:"dream_places,omitempty"`
}

// Worldview holds beliefs and open questions.
type Worldview struct {
	CoreBeliefs           []Item `json:"core_beliefs,omitempty"`
	SourcesOfMeaning      []Item `json:"sources_of_meaning,omitempty"`
	QuestionsWrestlingWith []Item `json:"questions_wrestling_with,omitempty"`
}

// SoulManifest is the full profile. Created wholesale at onboarding
// completion; individual items are amended afterward but the manifest
// itself is never deleted.
type SoulManifest struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SchemaVersion string    `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	RawInputs    RawInputs         `json:"raw_inputs,omitempty"`
	Meta         *MetaObservations `json:"meta,omitempty"`
	VoiceProfile *VoiceProfile     `json:"voice_profile,omitempty"`

	Identity      Identity      `json:"identity"`
	Interests     *Interests    `json:"interests,omitempty"`
	LifeContext   LifeContext   `json:"life_context"`
	Relationships Relationships `json:"relationships"`
	Growth        Growth        `json:"growth"`
	Dreams        Dreams        `json:"dreams"`
	Worldview     Worldview     `json:"worldview"`
}

// New creates an empty manifest shell for a user.
func New(userID string) *SoulManifest {
	now := time.Now().UTC()
	return &SoulManifest{
		ID:            uuid.NewString(),
		UserID:        userID,
		SchemaVersion: CurrentSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
