package approval

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		req := &Request{RequestID: uuid.New(), Status: StatusPending}
		admin := uuid.New()
		now := time.Now().UTC()

		require.NoError(t, req.Decide(DecisionApprove, admin, now))
		assert.Equal(t, StatusApproved, req.Status)
		require.NotNil(t, req.ReviewedBy)
		assert.Equal(t, admin, *req.ReviewedBy)
		require.NotNil(t, req.DecidedAt)
	})

	t.Run("reject", func(t *testing.T) {
		req := &Request{Status: StatusPending}
		require.NoError(t, req.Decide(DecisionReject, uuid.New(), time.Now()))
		assert.Equal(t, StatusRejected, req.Status)
	})

	t.Run("already decided", func(t *testing.T) {
		req := &Request{Status: StatusApproved}
		assert.Error(t, req.Decide(DecisionReject, uuid.New(), time.Now()))
		assert.Equal(t, StatusApproved, req.Status)
	})

	t.Run("unknown decision", func(t *testing.T) {
		req := &Request{Status: StatusPending}
		assert.Error(t, req.Decide("maybe", uuid.New(), time.Now()))
		assert.True(t, req.IsPending())
	})
}

func TestValidatePitch(t *testing.T) {
	assert.NoError(t, ValidatePitch("I restore vintage cameras and sell them."))
	assert.Error(t, ValidatePitch("too short"))
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("APPROVE")
	require.NoError(t, err)
	assert.Equal(t, DecisionApprove, d)

	_, err = ParseDecision("defer")
	assert.Error(t, err)
}
