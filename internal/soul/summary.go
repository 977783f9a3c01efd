package soul

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/manifest"
)

// Summaries is the cached set of per-angle summaries for one user.
// Generated once per manifest and reused; regenerated only if absent.
type Summaries struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Summaries   map[Angle]string `json:"summaries"`
}

// Selection is one randomly chosen angle plus its summary text.
type Selection struct {
	Angle   Angle
	Summary string
}

// PickRandom selects one of the present angles uniformly at random. Picks are
// independent; the same angle may repeat across a batch.
func PickRandom(rng *rand.Rand, s *Summaries) Selection {
	var present []Angle
	for _, info := range Angles {
		if _, ok := s.Summaries[info.Angle]; ok {
			present = append(present, info.Angle)
		}
	}
	if len(present) == 0 {
		return Selection{}
	}

	angle := present[rng.IntN(len(present))]
	return Selection{Angle: angle, Summary: s.Summaries[angle]}
}

// Completer is the slice of the completion client the generator needs.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts llm.Options) (string, error)
}

// Generator derives soul summaries from a manifest.
type Generator struct {
	client Completer
}

// NewGenerator creates a summary generator.
func NewGenerator(client Completer) *Generator {
	return &Generator{client: client}
}

const summarySystemTemplate = `You are creating a hyper-condensed psychological profile. Think: clinical notes meets poetry. Dense with specifics, zero filler.

Your task: Write a 100-150 word summary from the "%s" angle.

Focus: %s

STYLE RULES:
- Third person ("They..." not "You...")
- DENSE. Every sentence carries weight. No fluff.
- Specifics over abstractions. "Software engineer pivoting to design at 34" not "creative professional in transition"
- Include contradictions and tensions — these are the interesting parts
- No inspirational language. No "journey" or "discovering themselves"
- Write like case notes, not a magazine profile
- If something is vague in the data, don't invent — skip it

Be RUTHLESSLY specific. If you don't have the data, don't pad.`

// GenerateAll derives every angle's summary concurrently. Each derivation
// reads the same immutable manifest and writes a disjoint slot, so the only
// coordination needed is the final join.
func (g *Generator) GenerateAll(ctx context.Context, m *manifest.SoulManifest) (*Summaries, error) {
	slog.Info("generating soul summaries", "user_id", m.UserID, "angles", len(Angles))

	manifestText := m.ToText()

	results := make([]string, len(Angles))
	errs := make([]error, len(Angles))

	var wg sync.WaitGroup
	for i, info := range Angles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := g.generateAngle(ctx, manifestText, info)
			if err != nil {
				errs[i] = fmt.Errorf("angle %s: %w", info.Angle, err)
				return
			}
			results[i] = summary
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	summaries := &Summaries{
		GeneratedAt: time.Now().UTC(),
		Summaries:   make(map[Angle]string, len(Angles)),
	}
	for i, info := range Angles {
		summaries.Summaries[info.Angle] = results[i]
	}

	return summaries, nil
}

func (g *Generator) generateAngle(ctx context.Context, manifestText string, info AngleInfo) (string, error) {
	system := fmt.Sprintf(summarySystemTemplate, info.Name, info.Focus)
	user := fmt.Sprintf("Raw data:\n\n%s\n\nWrite the %q summary. Dense, specific, no filler.", manifestText, info.Name)

	summary, err := g.client.Complete(ctx, system, user, llm.Options{
		Model:       llm.ModelReasoning,
		Temperature: 0.5,
		MaxTokens:   400,
	})
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	return strings.TrimSpace(summary), nil
}
