package pipeline

import (
	"fmt"
	"strings"

	"github.com/yellowpill/soulfeed/internal/poster"
)

// Prompt is a composed generation request. The system portion defines the
// persona's identity and style and is reusable across calls; the user portion
// varies per generation.
type Prompt struct {
	System string
	User   string
}

// approachDirectives are the fixed behavioral rules shared by every standard
// generation, layered under each persona's own prompt.
const approachDirectives = `APPROACH:
You're writing for someone you deeply understand. The soul context below includes their raw words, observations about their tensions and drivers, a voice profile for how to communicate with them, and structured facts about their life.

KEY PRINCIPLES:
1. Draw from their TENSIONS — these are where resonant content lives
2. Honor their VOICE PROFILE — if they prefer directness, be direct; if they hate generic advice, avoid it
3. Use their raw words as INSPIRATION, not direct reference
4. Find an angle that reframes, encourages, or illuminates something they need to hear
5. Be specific enough that it feels written for them, general enough to feel discovered

THE THINK BIGGER DIRECTIVE:
Take what they gave you and EXTRAPOLATE. Assume their life goes extraordinarily well — better than they even imagined possible. Continue their trendlines. Take the seed of what they want and grow it into something that expands their sense of what's possible. When you're painting futures or encouraging them, think a layer beyond what they said.

TONE IMPERATIVES:
- Nothing should feel "on the nose" or heavy-handed
- It should feel INEVITABLE, not aspirational
- Sure, not preachy; confident, not eye-rolly
- Like a future that's already in motion, not a wish
- Warm but not saccharine. Honest but not harsh.

The best posts make someone think "How did you know I needed to hear this?" — not "You obviously read my profile."

RULES:
- Never use the reader's name
- Never say "you mentioned" or "since you're afraid of..."
- Write for a general audience; never address the reader directly
- The voice should feel native to this poster, but informed by their preferences
- If their voice profile says they're turned off by something (generic advice, toxic positivity), AVOID IT`

// BuildPrompt composes a persona's fixed prompt, its style guide, the shared
// behavioral directives, the chosen soul summary, and any seed constraint
// into one generation request. Deterministic string composition, no I/O.
func BuildPrompt(p poster.Poster, pt poster.PostType, summary string, seed *Seed) Prompt {
	system := strings.Join([]string{
		p.SystemPrompt,
		"Style Guide:\n" + p.StyleGuide,
		approachDirectives,
	}, "\n\n")

	var user strings.Builder
	fmt.Fprintf(&user, "Write a %q post.\n\nPost type description: %s\n\n", pt.Type, pt.Description)
	fmt.Fprintf(&user, "=== SOUL CONTEXT ===\n%s\n=== END CONTEXT ===\n", summary)

	if seed != nil {
		user.WriteString("\n" + seed.Constraint + "\n")
	}

	fmt.Fprintf(&user, `
Constraints:
- Maximum %d characters
- No emojis
- No names or direct address

Generate ONLY the post content. No preamble, no explanation.`, pt.MaxLength)

	return Prompt{System: system, User: user.String()}
}
