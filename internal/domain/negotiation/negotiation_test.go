package negotiation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	productID, buyerID, sellerID := uuid.New(), uuid.New(), uuid.New()

	n := New(productID, buyerID, sellerID, 900, 3)

	assert.NotEqual(t, uuid.Nil, n.NegotiationID)
	assert.Equal(t, StatusPending, n.Status)
	assert.Equal(t, sellerID, n.SellerID)
	assert.Equal(t, int64(2700), n.Total())
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
}

func TestCanTransition(t *testing.T) {
	statuses := []Status{StatusPending, StatusAccepted, StatusRejected, StatusOrdered}
	legal := map[[2]Status]bool{
		{StatusPending, StatusAccepted}: true,
		{StatusPending, StatusRejected}: true,
		{StatusAccepted, StatusOrdered}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, legal[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&Negotiation{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Negotiation{Status: StatusAccepted}).IsTerminal())
	assert.True(t, (&Negotiation{Status: StatusRejected}).IsTerminal())
	assert.True(t, (&Negotiation{Status: StatusOrdered}).IsTerminal())
}

func TestIsParticipant(t *testing.T) {
	n := New(uuid.New(), uuid.New(), uuid.New(), 100, 1)
	assert.True(t, n.IsParticipant(n.BuyerID))
	assert.True(t, n.IsParticipant(n.SellerID))
	assert.False(t, n.IsParticipant(uuid.New()))
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision(" Accept ")
	require.NoError(t, err)
	assert.Equal(t, DecisionAccept, d)

	d, err = ParseDecision("reject")
	require.NoError(t, err)
	assert.Equal(t, DecisionReject, d)

	_, err = ParseDecision("counter")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("ordered")
	require.NoError(t, err)
	assert.Equal(t, StatusOrdered, s)

	_, err = ParseStatus("expired")
	assert.Error(t, err)
}
