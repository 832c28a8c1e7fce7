package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/bid-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyBidLastWriteWins(t *testing.T) {
	repo := newFakeBidRepo()
	repo.set("r1", []models.Bid{
		{ID: "first", SellerID: "me", Price: price(100)},
		{ID: "other", SellerID: "someone"},
		{ID: "second", SellerID: "me", Price: price(90)},
	}, nil)
	id := signedIn(t, "me")
	svc := NewBidService(repo, NewOfferService(repo, 1, nil), id)

	bid, err := svc.MyBid(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "second", bid.ID)

	repo.set("r2", []models.Bid{{ID: "x", SellerID: "someone"}}, nil)
	_, err = svc.MyBid(context.Background(), "r2")
	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusNotFound, errorResponse.StatusCode)
}

func TestAcceptBidInvalidatesOffers(t *testing.T) {
	repo := newFakeBidRepo()
	repo.set("r1", []models.Bid{{ID: "b1", Price: price(10)}}, nil)
	offers := NewOfferService(repo, 1, nil)
	svc := NewBidService(repo, offers, signedIn(t, "buyer"))
	ctx := context.Background()

	offers.Load(ctx, "r1")
	require.Equal(t, models.OfferOK, offers.State("r1").Status)

	require.NoError(t, svc.AcceptBid(ctx, "b1", "r1"))
	assert.Equal(t, []string{"b1"}, repo.accepted)
	assert.Equal(t, models.OfferIdle, offers.State("r1").Status)

	assert.Error(t, svc.AcceptBid(ctx, "", "r1"))
}
