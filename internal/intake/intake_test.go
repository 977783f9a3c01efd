package intake

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/manifest"
)

type structuredCall struct {
	schemaName string
	user       string
	opts       llm.Options
}

type fakeStructured struct {
	responses map[string]json.RawMessage
	err       error
	calls     []structuredCall
}

func (f *fakeStructured) CompleteStructured(_ context.Context, _, user, schemaName string, _ map[string]any, opts llm.Options) (json.RawMessage, error) {
	f.calls = append(f.calls, structuredCall{schemaName: schemaName, user: user, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[schemaName], nil
}

var sectionsResponse = json.RawMessage(`{
	"name": "Maya",
	"passions": ["restoring old furniture"],
	"purpose": ["making discarded things useful again"],
	"superpowers": ["patience with tedious work"],
	"values": ["craftsmanship"],
	"interests": [{"topic": "japanese joinery", "fascination_type": "obsessed_with", "subtopics": ["kanawa tsugi"]}],
	"life_story_summary": "Grew up in a workshop, left for an office, came back to the bench.",
	"current_city": "Porto",
	"current_country": "Portugal",
	"important_people": [{"name": "Rui", "relation": "brother", "context": "runs the family shop"}],
	"current_challenges": ["pricing her work fairly"],
	"fears": ["the craft dying with her generation"],
	"goals_short_term": ["finish the walnut cabinet"],
	"goals_long_term": ["open a teaching workshop"],
	"vivid_future_scenes": ["a room of students at their own benches"],
	"bucket_list": ["study in Takayama"],
	"core_beliefs": ["well-made things are a form of respect"],
	"sources_of_meaning": ["work you can stand behind"]
}`)

var metaResponse = json.RawMessage(`{
	"voice_signature": {"tone": "warm, dry", "sentence_style": "short declaratives", "vocabulary_level": "plain with trade terms", "notable_patterns": ["understates achievements"]},
	"tensions": [{"tension": "security versus craft", "poles": ["steady income", "honest work"]}],
	"motivational_drivers": [{"driver": "mastery", "strength": "primary"}],
	"weighted_themes": [{"theme": "return and repair", "weight": "high"}],
	"current_phase": "rebuilding on her own terms",
	"preferred_directness": "direct",
	"humor_tolerance": "medium",
	"challenge_tolerance": "loves_it",
	"responds_to": ["concrete examples"],
	"turned_off_by": ["hustle language"]
}`)

func testAnswers() map[string]string {
	return map[string]string{
		"What do you love doing?":        "Restoring old furniture. My grandfather taught me.",
		"What keeps you up at night?":    "Whether I can make a living from the bench.",
		"Where do you see yourself in 5": "Teaching joinery in my own workshop.",
	}
}

func TestParseOnboarding(t *testing.T) {
	client := &fakeStructured{responses: map[string]json.RawMessage{
		"manifest_sections": sectionsResponse,
		"meta_observations": metaResponse,
	}}
	p := NewParser(client)

	m, err := p.ParseOnboarding(context.Background(), "user-1", testAnswers())
	require.NoError(t, err)

	assert.Equal(t, "user-1", m.UserID)
	assert.Equal(t, manifest.CurrentSchemaVersion, m.SchemaVersion)
	assert.NotEmpty(t, m.ID)

	// Raw answers preserved verbatim
	assert.Equal(t, testAnswers(), map[string]string(m.RawInputs))

	// Identity items carry onboarding weight and fresh ids
	require.Len(t, m.Identity.Passions, 1)
	item := m.Identity.Passions[0]
	assert.Equal(t, "restoring old furniture", item.Value)
	assert.InEpsilon(t, 0.7, item.Weight, 1e-9)
	assert.Equal(t, manifest.SourceOnboarding, item.Source)
	assert.NotEmpty(t, item.ID)

	require.NotNil(t, m.Interests)
	require.Len(t, m.Interests.Topics, 1)
	assert.Equal(t, manifest.FascinationObsessed, m.Interests.Topics[0].FascinationType)

	require.NotNil(t, m.LifeContext.LifeStorySummary)
	require.NotNil(t, m.LifeContext.CurrentLocation)
	assert.Equal(t, "Porto", m.LifeContext.CurrentLocation.City)

	require.Len(t, m.Relationships.ImportantPeople, 1)
	assert.Equal(t, "brother", m.Relationships.ImportantPeople[0].Relation)

	require.NotNil(t, m.Meta)
	require.Len(t, m.Meta.Tensions, 1)
	assert.Equal(t, [2]string{"steady income", "honest work"}, m.Meta.Tensions[0].Poles)
	assert.Equal(t, "rebuilding on her own terms", m.Meta.LifePhaseAnalysis.CurrentPhase)

	require.NotNil(t, m.VoiceProfile)
	assert.Equal(t, manifest.DirectnessDirect, m.VoiceProfile.PreferredDirectness)
	assert.Equal(t, manifest.ChallengeLovesIt, m.VoiceProfile.ChallengeTolerance)
}

func TestParseOnboardingTwoStructuredCalls(t *testing.T) {
	client := &fakeStructured{responses: map[string]json.RawMessage{
		"manifest_sections": sectionsResponse,
		"meta_observations": metaResponse,
	}}
	p := NewParser(client)

	_, err := p.ParseOnboarding(context.Background(), "user-1", testAnswers())
	require.NoError(t, err)

	require.Len(t, client.calls, 2)
	assert.Equal(t, "manifest_sections", client.calls[0].schemaName)
	assert.Equal(t, "meta_observations", client.calls[1].schemaName)
	assert.Equal(t, llm.ModelReasoning, client.calls[1].opts.Model)

	// Both passes see the raw answers
	for _, call := range client.calls {
		assert.Contains(t, call.user, "My grandfather taught me.")
	}
}

func TestParseOnboardingEmptyAnswers(t *testing.T) {
	p := NewParser(&fakeStructured{})
	_, err := p.ParseOnboarding(context.Background(), "user-1", nil)
	require.Error(t, err)
}

func TestParseOnboardingCompletionError(t *testing.T) {
	p := NewParser(&fakeStructured{err: errors.New("backend down")})
	_, err := p.ParseOnboarding(context.Background(), "user-1", testAnswers())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse sections")
}
