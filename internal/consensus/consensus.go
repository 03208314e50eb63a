// Package consensus reduces a story's vote set into a displayable
// distribution and a consensus verdict. It is a pure function of the votes
// passed in; callers recompute it whenever the vote set changes.
package consensus

import (
	"github.com/pointdeck/pointdeck/internal/models"
)

// Summary is the reduction of one story's current votes
type Summary struct {
	// Distribution counts votes per textual value, unsure votes included
	Distribution map[string]int

	// TotalVotes is the number of votes cast
	TotalVotes int

	// NumericVotes is the number of votes with a numeric value
	NumericVotes int

	// Verdict is the consensus point value, nil when there is no consensus
	Verdict *int
}

// Evaluate computes the vote distribution and consensus verdict.
//
// Unsure votes are discarded for the verdict. With zero numeric votes the
// verdict is nil. When all numeric votes agree the verdict is that value.
// Otherwise the verdict is the unique most frequent value, or nil when
// several values tie for the highest frequency.
func Evaluate(votes []*models.Vote) Summary {
	summary := Summary{
		Distribution: make(map[string]int),
		TotalVotes:   len(votes),
	}

	counts := make(map[int]int)
	for _, vote := range votes {
		summary.Distribution[vote.Value]++

		if n, ok := vote.NumericValue(); ok {
			counts[n]++
			summary.NumericVotes++
		}
	}

	if summary.NumericVotes == 0 {
		return summary
	}

	best := 0
	bestCount := 0
	tied := false
	for value, count := range counts {
		switch {
		case count > bestCount:
			best = value
			bestCount = count
			tied = false
		case count == bestCount:
			tied = true
		}
	}

	if tied {
		return summary
	}

	summary.Verdict = &best
	return summary
}

// Unanimous reports whether every non-admin member has voted and all of those
// votes are textually identical. Admin votes are ignored on both sides.
func Unanimous(votes []*models.Vote, members []*models.Member) bool {
	byUser := make(map[string]string, len(votes))
	for _, vote := range votes {
		byUser[vote.UserID] = vote.Value
	}

	value := ""
	counted := 0
	for _, member := range members {
		if member.IsAdmin {
			continue
		}

		v, ok := byUser[member.UserID]
		if !ok {
			return false
		}

		if counted == 0 {
			value = v
		} else if v != value {
			return false
		}
		counted++
	}

	return counted > 0
}
