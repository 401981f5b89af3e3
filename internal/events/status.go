package events

type Status string

const (
	StatusDraft   Status = "Draft"
	StatusOnGoing Status = "On-going"
	StatusExpired Status = "Expired"
)

// SortRank orders statuses for organizer listings: drafts first,
// running events next, finished events last.
func (s Status) SortRank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusOnGoing:
		return 1
	case StatusExpired:
		return 2
	default:
		return 3
	}
}

// CanEdit reports whether seating or pricing mutations are allowed.
// Only drafts may change classes, settings, staff, or bank details.
func (s Status) CanEdit() bool {
	return s == StatusDraft
}
