package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/apiclient"
	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/normalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowestOffer(t *testing.T) {
	assert.Nil(t, LowestOffer(nil))
	assert.Nil(t, LowestOffer([]models.Bid{{ID: "no price"}}))

	bids := []models.Bid{
		{ID: "a", Price: price(500)},
		{ID: "b"},
		{ID: "c", Price: price(120.5)},
		{ID: "d", Price: price(300)},
	}
	lowest := LowestOffer(bids)
	require.NotNil(t, lowest)
	assert.Equal(t, 120.5, *lowest)
}

func TestLoadComputesCountAndLowestFromMixedPriceFields(t *testing.T) {
	var payload any
	require.NoError(t, json.Unmarshal([]byte(`[{"totalPrice": 500}, {"amount": "350"}]`), &payload))

	repo := newFakeBidRepo()
	repo.set("r1", normalize.Bids(payload), nil)
	svc := NewOfferService(repo, 4, nil)

	summary := svc.Load(context.Background(), "r1")
	assert.Equal(t, models.OfferOK, summary.Status)
	assert.Equal(t, 2, summary.OffersCount)
	require.NotNil(t, summary.LowestOffer)
	assert.Equal(t, 350.0, *summary.LowestOffer)
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	repo := newFakeBidRepo()
	repo.set("A", nil, &apiclient.APIError{StatusCode: 500, Message: "Request failed (500)"})
	repo.set("B", []models.Bid{{ID: "b1", Price: price(75)}}, nil)
	svc := NewOfferService(repo, 4, nil)

	states := svc.LoadAll(context.Background(), []string{"A", "B"})
	assert.Equal(t, models.OfferErr, states["A"].Status)
	assert.Equal(t, "Request failed (500)", states["A"].Error)
	assert.Equal(t, models.OfferOK, states["B"].Status)
	assert.Equal(t, 75.0, *states["B"].LowestOffer)

	repo.set("A", []models.Bid{{ID: "a1", Price: price(60)}}, nil)
	retried := svc.Retry(context.Background(), "A")
	assert.Equal(t, models.OfferOK, retried.Status)
	assert.Equal(t, 60.0, *retried.LowestOffer)

	assert.Equal(t, 2, repo.callCount("A"))
	assert.Equal(t, 1, repo.callCount("B"))
	assert.Equal(t, models.OfferOK, svc.State("B").Status)
}

func TestLoadAllIsMemoized(t *testing.T) {
	repo := newFakeBidRepo()
	repo.set("ok", []models.Bid{{ID: "b1"}}, nil)
	repo.set("bad", nil, errors.New("boom"))
	svc := NewOfferService(repo, 2, nil)

	svc.LoadAll(context.Background(), []string{"ok", "bad"})
	states := svc.LoadAll(context.Background(), []string{"ok", "bad"})

	assert.Equal(t, 1, repo.callCount("ok"))
	assert.Equal(t, 1, repo.callCount("bad"))
	assert.Equal(t, models.OfferOK, states["ok"].Status)
	assert.Equal(t, models.OfferErr, states["bad"].Status)
}

func TestStateOfUnknownRequestIsIdle(t *testing.T) {
	svc := NewOfferService(newFakeBidRepo(), 1, nil)
	assert.Equal(t, models.OffersSummary{RequestID: "r9", Status: models.OfferIdle}, svc.State("r9"))
}

func TestConcurrentLoadsShareOneRequest(t *testing.T) {
	repo := newFakeBidRepo()
	repo.gate = make(chan struct{})
	repo.started = make(chan string, 1)
	repo.set("r1", []models.Bid{{ID: "b1", Price: price(10)}}, nil)
	svc := NewOfferService(repo, 4, nil)

	results := make(chan models.OffersSummary, 2)
	go func() { results <- svc.Load(context.Background(), "r1") }()
	<-repo.started
	assert.Equal(t, models.OfferLoading, svc.State("r1").Status)
	go func() { results <- svc.Load(context.Background(), "r1") }()

	close(repo.gate)
	for i := 0; i < 2; i++ {
		select {
		case summary := <-results:
			assert.Equal(t, models.OfferOK, summary.Status)
		case <-time.After(2 * time.Second):
			t.Fatal("load did not finish")
		}
	}
	assert.Equal(t, 1, repo.callCount("r1"))
}

func TestNewGenerationDiscardsInFlightResult(t *testing.T) {
	repo := newFakeBidRepo()
	repo.gate = make(chan struct{})
	repo.started = make(chan string, 1)
	repo.set("r1", []models.Bid{{ID: "old", Price: price(1)}}, nil)
	svc := NewOfferService(repo, 1, nil)

	finished := make(chan struct{})
	go func() {
		svc.Load(context.Background(), "r1")
		close(finished)
	}()
	<-repo.started

	gen := svc.NewGeneration()
	assert.Equal(t, uint64(1), gen)
	close(repo.gate)
	<-finished

	assert.Equal(t, models.OfferIdle, svc.State("r1").Status)
}

func TestWaiterLoadsItselfWhenOwnerIsCancelled(t *testing.T) {
	repo := newFakeBidRepo()
	repo.gate = make(chan struct{})
	repo.started = make(chan string, 2)
	repo.set("r1", []models.Bid{{ID: "b1", Price: price(7)}}, nil)
	svc := NewOfferService(repo, 2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	owner := make(chan models.OffersSummary, 1)
	go func() { owner <- svc.Load(ctx, "r1") }()
	<-repo.started

	waiter := make(chan models.OffersSummary, 1)
	go func() { waiter <- svc.Load(context.Background(), "r1") }()
	cancel()
	assert.Equal(t, models.OfferIdle, (<-owner).Status)

	select {
	case <-repo.started:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not start its own load")
	}
	close(repo.gate)

	select {
	case summary := <-waiter:
		assert.Equal(t, models.OfferOK, summary.Status)
		require.NotNil(t, summary.LowestOffer)
		assert.Equal(t, 7.0, *summary.LowestOffer)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not finish")
	}
	assert.Equal(t, 2, repo.callCount("r1"))
}

func TestWaiterLoadsAgainAfterNewGeneration(t *testing.T) {
	repo := newFakeBidRepo()
	repo.gate = make(chan struct{})
	repo.started = make(chan string, 2)
	repo.set("r1", []models.Bid{{ID: "b1", Price: price(3)}}, nil)
	svc := NewOfferService(repo, 2, nil)

	owner := make(chan models.OffersSummary, 1)
	go func() { owner <- svc.Load(context.Background(), "r1") }()
	<-repo.started

	waiter := make(chan models.OffersSummary, 1)
	go func() { waiter <- svc.Load(context.Background(), "r1") }()
	svc.NewGeneration()
	close(repo.gate)

	select {
	case summary := <-waiter:
		assert.Equal(t, models.OfferOK, summary.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not finish")
	}
	<-owner
	assert.Equal(t, models.OfferOK, svc.State("r1").Status)
	assert.Equal(t, 2, repo.callCount("r1"))
}

func TestInvalidateForcesReload(t *testing.T) {
	repo := newFakeBidRepo()
	repo.set("r1", []models.Bid{{ID: "b1", Price: price(5)}}, nil)
	svc := NewOfferService(repo, 1, nil)

	svc.Load(context.Background(), "r1")
	svc.Invalidate("r1")
	assert.Equal(t, models.OfferIdle, svc.State("r1").Status)

	svc.Load(context.Background(), "r1")
	assert.Equal(t, 2, repo.callCount("r1"))
}

func TestCancelledLoadReturnsToIdle(t *testing.T) {
	repo := newFakeBidRepo()
	repo.gate = make(chan struct{})
	repo.started = make(chan string, 1)
	repo.set("r1", []models.Bid{{ID: "b1"}}, nil)
	svc := NewOfferService(repo, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan models.OffersSummary, 1)
	go func() { finished <- svc.Load(ctx, "r1") }()
	<-repo.started
	cancel()

	assert.Equal(t, models.OfferIdle, (<-finished).Status)

	close(repo.gate)
	summary := svc.Load(context.Background(), "r1")
	assert.Equal(t, models.OfferOK, summary.Status)
	assert.Equal(t, 2, repo.callCount("r1"))
}
