package models

// Kind selects which votable table a request targets. It is a closed set;
// anything outside it is rejected at parse time rather than branched on as a
// free-form string deeper down.
type Kind string

const (
	KindWord    Kind = "word"
	KindComment Kind = "comment"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindWord:
		return KindWord, true
	case KindComment:
		return KindComment, true
	}
	return "", false
}

// Votable is the capability shared by Word and Comment: a stable id, the
// moderation gate, and the materialized score.
type Votable interface {
	VotableID() uint
	AcceptsVotes() bool
	CurrentScore() int
}
