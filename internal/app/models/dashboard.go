package models

// ProgressLevel buckets a student by number of logged internships
type ProgressLevel string

const (
	ProgressNone ProgressLevel = "no_progress"
	ProgressSome ProgressLevel = "some_progress"
	ProgressHigh ProgressLevel = "high_progress"
)

// HighProgressThreshold is the internship count at which a student reaches ProgressHigh.
const HighProgressThreshold = 3

// ProgressLevelFor returns the level for a number of internships
func ProgressLevelFor(internships int) ProgressLevel {
	switch {
	case internships >= HighProgressThreshold:
		return ProgressHigh
	case internships > 0:
		return ProgressSome
	default:
		return ProgressNone
	}
}

// Dashboard is the landing view for an authenticated user.
type Dashboard struct {
	Greeting string        `json:"greeting"`
	Prompt   string        `json:"prompt,omitempty"`
	Level    ProgressLevel `json:"level,omitempty"`
	Profile  *UserProfile  `json:"profile"`
	// Ticker always shows Student-scoped metrics, whatever the viewer's role.
	Ticker Metrics `json:"ticker"`
}
