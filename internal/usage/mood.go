package usage

// Mood summarizes a day by its share of focus time.
type Mood int

const (
	MoodWarmingUp Mood = iota
	MoodFullBrainrot
	MoodStruggling
	MoodMixed
	MoodLockedIn
)

var moodLabels = [...]string{
	MoodWarmingUp:    "Warming up",
	MoodFullBrainrot: "Full brainrot",
	MoodStruggling:   "Struggling",
	MoodMixed:        "Mixed",
	MoodLockedIn:     "Locked in",
}

func (m Mood) String() string {
	if int(m) < len(moodLabels) {
		return moodLabels[m]
	}
	return "Unknown"
}

// warmupSeconds is the minimum tracked time before a mood is reported.
const warmupSeconds = 10

// MoodOf classifies a snapshot by its focus ratio.
func MoodOf(s DailySnapshot) Mood {
	total := s.Total()
	if total < warmupSeconds {
		return MoodWarmingUp
	}
	ratio := float64(s.FocusSeconds) / float64(total)
	switch {
	case ratio < 0.20:
		return MoodFullBrainrot
	case ratio < 0.50:
		return MoodStruggling
	case ratio < 0.80:
		return MoodMixed
	}
	return MoodLockedIn
}

// FocusRatio returns focus seconds over total seconds, or 0 for an empty day.
func FocusRatio(s DailySnapshot) float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.FocusSeconds) / float64(s.Total())
}
