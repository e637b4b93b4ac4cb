package dom

// Mutation is the part of a DOM MutationRecord the registry looks at.
type Mutation struct {
	// Type is "childList", "attributes" or "characterData".
	Type string
	// InCountdown is set when the record's target is a countdown node or lies inside one.
	InCountdown bool
}

// NeedsRescan reports whether a batch of subtree mutations can have added or
// removed a countdown. Countdowns rewriting their own text only produce records
// targeted at themselves and never trigger a rescan.
func NeedsRescan(records []Mutation) bool {
	for _, m := range records {
		if m.Type != "childList" {
			continue
		}
		if m.InCountdown {
			continue
		}
		return true
	}
	return false
}
