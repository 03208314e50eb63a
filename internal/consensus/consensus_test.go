package consensus

import (
	"testing"

	"github.com/pointdeck/pointdeck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votesWithValues(values ...string) []*models.Vote {
	votes := make([]*models.Vote, 0, len(values))
	for i, value := range values {
		votes = append(votes, &models.Vote{
			StoryID: "story-1",
			UserID:  string(rune('a' + i)),
			Value:   value,
		})
	}
	return votes
}

func TestEvaluateAllEqual(t *testing.T) {
	summary := Evaluate(votesWithValues("5", "5", "5"))

	require.NotNil(t, summary.Verdict)
	assert.Equal(t, 5, *summary.Verdict)
	assert.Equal(t, 3, summary.TotalVotes)
	assert.Equal(t, 3, summary.NumericVotes)
	assert.Equal(t, 3, summary.Distribution["5"])
}

func TestEvaluateMajority(t *testing.T) {
	summary := Evaluate(votesWithValues("5", "5", "8"))

	require.NotNil(t, summary.Verdict)
	assert.Equal(t, 5, *summary.Verdict)
}

func TestEvaluateTie(t *testing.T) {
	summary := Evaluate(votesWithValues("5", "8"))

	assert.Nil(t, summary.Verdict)
	assert.Equal(t, 2, summary.NumericVotes)
}

func TestEvaluateOnlyUnsure(t *testing.T) {
	summary := Evaluate(votesWithValues("?", "?"))

	assert.Nil(t, summary.Verdict)
	assert.Equal(t, 2, summary.TotalVotes)
	assert.Equal(t, 0, summary.NumericVotes)
	assert.Equal(t, 2, summary.Distribution["?"])
}

func TestEvaluateUnsureDiscardedForVerdict(t *testing.T) {
	summary := Evaluate(votesWithValues("8", "?", "8"))

	require.NotNil(t, summary.Verdict)
	assert.Equal(t, 8, *summary.Verdict)
	assert.Equal(t, 2, summary.NumericVotes)
}

func TestEvaluateEmpty(t *testing.T) {
	summary := Evaluate(nil)

	assert.Nil(t, summary.Verdict)
	assert.Equal(t, 0, summary.TotalVotes)
}

func TestUnanimous(t *testing.T) {
	members := []*models.Member{
		{UserID: "admin", IsAdmin: true},
		{UserID: "a"},
		{UserID: "b"},
	}

	votes := []*models.Vote{
		{UserID: "a", Value: "5"},
		{UserID: "b", Value: "5"},
	}
	assert.True(t, Unanimous(votes, members))

	// admin disagreement does not break unanimity
	votes = append(votes, &models.Vote{UserID: "admin", Value: "13"})
	assert.True(t, Unanimous(votes, members))
}

func TestUnanimousMissingVoter(t *testing.T) {
	members := []*models.Member{
		{UserID: "admin", IsAdmin: true},
		{UserID: "a"},
		{UserID: "b"},
	}

	votes := []*models.Vote{
		{UserID: "a", Value: "5"},
	}
	assert.False(t, Unanimous(votes, members))
}

func TestUnanimousDisagreement(t *testing.T) {
	members := []*models.Member{
		{UserID: "a"},
		{UserID: "b"},
	}

	votes := []*models.Vote{
		{UserID: "a", Value: "5"},
		{UserID: "b", Value: "8"},
	}
	assert.False(t, Unanimous(votes, members))
}

func TestUnanimousUnsureCounts(t *testing.T) {
	members := []*models.Member{
		{UserID: "a"},
		{UserID: "b"},
	}

	// textually identical unsure votes are unanimous
	votes := []*models.Vote{
		{UserID: "a", Value: models.UnsureValue},
		{UserID: "b", Value: models.UnsureValue},
	}
	assert.True(t, Unanimous(votes, members))
}

func TestUnanimousNoMembers(t *testing.T) {
	assert.False(t, Unanimous(nil, nil))
	assert.False(t, Unanimous(nil, []*models.Member{{UserID: "admin", IsAdmin: true}}))
}
