package model

// VerificationOutcome classifies one object's replica check. Exactly one
// outcome is produced per object per audit pass.
type VerificationOutcome int

const (
	// OutcomeFound means at least one node returned the object.
	OutcomeFound VerificationOutcome = iota
	// OutcomeMissing means every queried node returned a clean not-found.
	OutcomeMissing
	// OutcomeAmbiguous means no node returned the object but at least one
	// query failed, so absence could not be confirmed.
	OutcomeAmbiguous
)

func (o VerificationOutcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeMissing:
		return "missing"
	case OutcomeAmbiguous:
		return "potentially missing"
	default:
		return "unknown"
	}
}

// DeleteOutcome is the result of removing a listing entry. Succeeded requires
// that every primary container node accepted the tombstone.
type DeleteOutcome int

const (
	DeleteSucceeded DeleteOutcome = iota
	DeleteFailed
)
