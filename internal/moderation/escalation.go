// Package moderation decides what happens after a user receives a report.
package moderation

// Report counts that trigger an action. Warnings fire only when the count is
// exactly equal to the threshold; the ban fires at or above BanThreshold.
const (
	GentleWarningAt = 1
	StrongWarningAt = 5
	FinalWarningAt  = 8
	BanThreshold    = 10
)

// Level is the escalation outcome for a report count.
type Level int

const (
	None Level = iota
	GentleWarning
	StrongWarning
	FinalWarning
	Ban
)

var levelNames = map[Level]string{
	None:          "none",
	GentleWarning: "gentle_warning",
	StrongWarning: "strong_warning",
	FinalWarning:  "final_warning",
	Ban:           "ban",
}

func (l Level) String() string {
	return levelNames[l]
}

// Escalate maps the total report count against a user to an action.
func Escalate(count int) Level {
	switch {
	case count >= BanThreshold:
		return Ban
	case count == FinalWarningAt:
		return FinalWarning
	case count == StrongWarningAt:
		return StrongWarning
	case count == GentleWarningAt:
		return GentleWarning
	default:
		return None
	}
}

// Message is the notification text sent to the reported user.
func (l Level) Message() string {
	switch l {
	case GentleWarning:
		return "Someone reported your recent activity. Please keep Connectibles friendly and respectful."
	case StrongWarning:
		return "You have received several reports. Continued violations of the community guidelines may lead to a ban."
	case FinalWarning:
		return "Final warning: your account is close to being banned because of repeated reports."
	case Ban:
		return "Your account has been banned after repeated reports from the community."
	default:
		return ""
	}
}
