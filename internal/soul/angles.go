// Package soul derives and selects narrative soul summaries: condensed
// profiles of a user viewed through a small fixed set of angles.
package soul

// Angle is one narrative lens on a user.
type Angle string

const (
	AngleBuilder    Angle = "builder"
	AngleSeeker     Angle = "seeker"
	AngleDreamer    Angle = "dreamer"
	AngleChronicler Angle = "chronicler"
)

// AngleInfo names an angle and states what it looks at.
type AngleInfo struct {
	Angle Angle
	Name  string
	Focus string
}

// Angles is the fixed set of lenses, in definition order.
var Angles = []AngleInfo{
	{AngleBuilder, "The Builder", "making, creating, craftsmanship, what they build and why"},
	{AngleSeeker, "The Seeker", "growth, fears, searching, the tensions they navigate"},
	{AngleDreamer, "The Dreamer", "future visions, aspirations, who they want to become"},
	{AngleChronicler, "The Chronicler", "life story, journey, eras, how they got here"},
}
