package form

import "time"

// NoticeKind distinguishes the banners a session can raise
type NoticeKind int

const (
	// NoticeNone means no banner is showing
	NoticeNone NoticeKind = iota
	// NoticeAlert is the transient unfilled-fields alert
	NoticeAlert
	// NoticeFailure is the persistent submission failure banner
	NoticeFailure
)

// String returns the wire name of the kind
func (k NoticeKind) String() string {
	switch k {
	case NoticeAlert:
		return "alert"
	case NoticeFailure:
		return "failure"
	default:
		return "none"
	}
}

// Notice is a banner shown above the form
type Notice struct {
	Kind    NoticeKind
	Message string
	Expires time.Time // zero for persistent notices
}

// Active reports whether the notice should be shown at now
func (n Notice) Active(now time.Time) bool {
	if n.Kind == NoticeNone {
		return false
	}
	return n.Expires.IsZero() || now.Before(n.Expires)
}

// Remaining returns how long a transient notice stays up after now
func (n Notice) Remaining(now time.Time) time.Duration {
	if n.Expires.IsZero() || !n.Active(now) {
		return 0
	}
	return n.Expires.Sub(now)
}
