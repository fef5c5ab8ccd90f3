package bucket

// Timer categories ordered by effort. The boundaries are part of the
// gamification contract and must not drift: the category is always derived
// from the estimate, never taken from user or model input.
const (
	Lifeline       = "Lifeline"
	QuickTask      = "Quick Task"
	SmallTask      = "Small Task"
	FocusedSprint  = "Focused Sprint"
	OneHourChallenge = "1 Hour Challenge"
	DeepWork       = "Deep Work"
)

// Categories lists all timer categories in ascending effort order.
var Categories = []string{
	Lifeline,
	QuickTask,
	SmallTask,
	FocusedSprint,
	OneHourChallenge,
	DeepWork,
}

// boundary maps an inclusive upper bound in minutes to a category.
type boundary struct {
	max      float64
	category string
}

var boundaries = []boundary{
	{1.5, Lifeline},
	{5, QuickTask},
	{10, SmallTask},
	{25, FocusedSprint},
	{60, OneHourChallenge},
}

// Bucket returns the timer category for an estimated duration in minutes.
// First matching boundary in ascending order wins; anything above the last
// boundary is Deep Work.
func Bucket(minutes float64) string {
	for _, b := range boundaries {
		if minutes <= b.max {
			return b.category
		}
	}
	return DeepWork
}
