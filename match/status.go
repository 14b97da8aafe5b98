package match

import "freightcore/store"

// transitions lists the forward edges of the freight bid state machine.
// Cancellation is handled separately: it is legal from any non-terminal
// state. Anything not listed here is a refused transition.
var transitions = map[string]string{
	store.BidStatusRequested:  store.BidStatusOpen,
	store.BidStatusOpen:       store.BidStatusAccepted,
	store.BidStatusAccepted:   store.BidStatusAssigned,
	store.BidStatusAssigned:   store.BidStatusInProgress,
	store.BidStatusInProgress: store.BidStatusCompleted,
}

// CanTransition reports whether a freight bid may move from one status
// directly to the next. Skipping states or moving backward is refused.
func CanTransition(from, to string) bool {
	if to == store.BidStatusCancelled {
		return !IsTerminal(from)
	}
	return transitions[from] == to
}

func IsTerminal(status string) bool {
	return status == store.BidStatusCompleted || status == store.BidStatusCancelled
}

// ValidStatus reports whether the string is a known freight bid status.
func ValidStatus(status string) bool {
	switch status {
	case store.BidStatusRequested, store.BidStatusOpen, store.BidStatusAccepted,
		store.BidStatusAssigned, store.BidStatusInProgress, store.BidStatusCompleted,
		store.BidStatusCancelled:
		return true
	}
	return false
}
