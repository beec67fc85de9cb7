// Package vote is the ledger behind every score in the dictionary: one row
// per (votable, voter), with the votable's score column maintained as the
// running sum of its rows.
package vote

import (
	"errors"
)

var (
	// ErrInvalidAction is returned before any transaction opens.
	ErrInvalidAction = errors.New("vote: action must be like or dislike")
	// ErrNotFound means the votable id does not exist.
	ErrNotFound = errors.New("vote: votable not found")
	// ErrNotVotable means the target exists but is still pending moderation.
	ErrNotVotable = errors.New("vote: votable not accepting votes")
)

// Action is a caller's requested vote direction.
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionLike, ActionDislike:
		return Action(s), nil
	}
	return "", ErrInvalidAction
}

func (a Action) value() int {
	if a == ActionDislike {
		return -1
	}
	return 1
}

// Applied reports what a toggle actually did, phrased so a three-state
// like/dislike/none button can render itself from the response alone.
type Applied string

const (
	AppliedLiked    Applied = "liked"
	AppliedDisliked Applied = "disliked"
	AppliedNone     Applied = "none"
)

func applied(value int) Applied {
	if value < 0 {
		return AppliedDisliked
	}
	return AppliedLiked
}

// actionFor maps a stored ledger value back to the action label used in
// listings.
func actionFor(value int) Action {
	if value < 0 {
		return ActionDislike
	}
	return ActionLike
}
