package loan

import "time"

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeApprove
	OutcomeReject
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApprove:
		return "approve"
	case OutcomeReject:
		return "reject"
	}
	return "none"
}

// TallyInput is everything the closure rule looks at. Now is supplied by the caller.
type TallyInput struct {
	State        State
	Votes        []Vote
	TotalMembers int
	CreatedAt    time.Time
	Now          time.Time
	Timeout      time.Duration // zero means QuorumTimeout
}

// Tally decides whether a pending request closes and how.
// The requester is never part of the quorum, so votesRequired = totalMembers - 1.
// Equal for/against counts reject.
func Tally(in TallyInput) Outcome {
	if in.State != StatePending {
		return OutcomeNone
	}
	timeout := in.Timeout
	if timeout <= 0 {
		timeout = QuorumTimeout
	}

	total := len(in.Votes)
	votesRequired := in.TotalMembers - 1
	allVoted := total >= votesRequired
	timedOut := in.Now.Sub(in.CreatedAt) >= timeout

	if !allVoted && !(timedOut && total > 0) {
		return OutcomeNone
	}
	if VotesFor(in.Votes) > VotesAgainst(in.Votes) {
		return OutcomeApprove
	}
	return OutcomeReject
}

// TallyFor is Tally over a stored request.
func TallyFor(l *LoanRequest, totalMembers int, now time.Time, timeout time.Duration) Outcome {
	return Tally(TallyInput{
		State:        l.State,
		Votes:        l.Votes,
		TotalMembers: totalMembers,
		CreatedAt:    l.CreatedAt,
		Now:          now,
		Timeout:      timeout,
	})
}
