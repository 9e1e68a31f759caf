package engine

// Kind classifies a business-rule violation so the HTTP layer can pick a status code.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindInvalidTransition   Kind = "INVALID_TRANSITION"
	KindMissingReason       Kind = "MISSING_REASON"
	KindNotVenueOwner       Kind = "NOT_VENUE_OWNER"
	KindCannotVoteOwnReview Kind = "CANNOT_VOTE_OWN_REVIEW"
	KindAlreadyVoted        Kind = "ALREADY_VOTED"
	KindNotVoted            Kind = "NOT_VOTED"
	KindAlreadyResponded    Kind = "ALREADY_RESPONDED"
	KindNoResponseToUpdate  Kind = "NO_RESPONSE_TO_UPDATE"
	KindInvalidState        Kind = "INVALID_STATE"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// KindOf returns the engine kind of err, or "" for non-engine errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
