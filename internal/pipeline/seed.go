package pipeline

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Seed is a randomized constraint injected into a prompt to force output
// variety. LLM sampling alone drifts toward repetition; the seed exists
// purely to defeat that. Value is a short machine-readable label for logs.
type Seed struct {
	Kind       string // "quote" or "time"
	Value      string
	Constraint string
}

// Randomization tables. Immutable after init; safe for concurrent reads.

var seasons = []string{"spring", "summer", "fall", "winter"}

var timesOfDay = []string{"early morning", "mid-morning", "afternoon", "golden hour", "evening", "late night"}

var yearsAhead = []int{1, 2, 3, 5, 7, 10}

type quoteSource struct {
	category string
	examples string
}

var quoteSources = []quoteSource{
	{"writer", "Virginia Woolf, James Baldwin, Joan Didion, Toni Morrison, Jorge Luis Borges"},
	{"philosopher", "Seneca, Marcus Aurelius, Simone de Beauvoir, Albert Camus, Alan Watts"},
	{"scientist", "Richard Feynman, Marie Curie, Carl Sagan, Ada Lovelace, Nikola Tesla"},
	{"artist", "Patti Smith, David Bowie, Frida Kahlo, Jean-Michel Basquiat, Yoko Ono"},
	{"filmmaker", "Werner Herzog, Agnes Varda, Akira Kurosawa, Maya Deren, Andrei Tarkovsky"},
	{"poet", "Mary Oliver, Rainer Maria Rilke, Ocean Vuong, Lucille Clifton, Pablo Neruda"},
}

var quoteThemes = []string{
	"creativity and making things",
	"fear and courage",
	"change and transformation",
	"patience and time",
	"solitude and connection",
	"failure and persistence",
	"authenticity and self",
	"work and craft",
}

// GenerateSeed returns a persona-specific randomized constraint, or nil for
// posters with no seed logic defined.
func GenerateSeed(rng *rand.Rand, posterID string, now time.Time) *Seed {
	switch posterID {
	case "daily-dose":
		return quoteSeed(rng)
	case "scenes-future":
		return timeSeed(rng, now)
	default:
		return nil
	}
}

func quoteSeed(rng *rand.Rand) *Seed {
	source := quoteSources[rng.IntN(len(quoteSources))]
	theme := quoteThemes[rng.IntN(len(quoteThemes))]

	constraint := fmt.Sprintf(`CONSTRAINT: Find a real quote from a %s (like %s) about %s.

CRITICAL: You MUST use a real, verified quote. Do NOT make up quotes. Do NOT modify quotes. If you're not 100%% certain the quote is real and correctly attributed, pick a different one you ARE certain about.

The quote should feel unexpected — not the obvious choice.

FORMAT: Output ONLY the quote and attribution. NO preamble, NO intro like "On finding meaning:" or "About creativity:" — JUST the quote itself, then the author.
Example format:
"The quote text goes here exactly as written."
— Author Name`, source.category, source.examples, theme)

	return &Seed{
		Kind:       "quote",
		Value:      source.category + " / " + theme,
		Constraint: constraint,
	}
}

func timeSeed(rng *rand.Rand, now time.Time) *Seed {
	season := seasons[rng.IntN(len(seasons))]
	timeOfDay := timesOfDay[rng.IntN(len(timesOfDay))]
	years := yearsAhead[rng.IntN(len(yearsAhead))]

	plural := ""
	if years > 1 {
		plural = "s"
	}

	constraint := fmt.Sprintf(`CONSTRAINT: The scene MUST take place in %s, during %s, approximately %d year%s from now.

CRITICAL DIRECTION: Do NOT visualize the exact things they said they wanted. Instead, imagine TANGENTIAL scenes — things ADJACENT to their dreams that would make them just as happy.

Think about:
- What byproducts of success look like (not the award ceremony, but the random Tuesday after)
- What their life AROUND their goals might look like (not the book launch, but the morning routine of a person who writes)
- Unexpected moments that signal they've arrived (not closing the deal, but teaching someone else how)
- The small human moments that accompany big achievements

If they want to be a writer: don't show them at a signing — show them skipping a party because they're in flow.
If they want financial freedom: don't show wealth — show the 2pm Tuesday where they chose a long walk over a meeting.

Start with a time anchor like "It's %s, %d. %s..."`,
		season, timeOfDay, years, plural,
		season, now.Year()+years, capitalize(timeOfDay))

	return &Seed{
		Kind:       "time",
		Value:      fmt.Sprintf("%s, %s, %dy", season, timeOfDay, years),
		Constraint: constraint,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
