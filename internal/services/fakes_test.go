package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/identity"
	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/storage"

	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T, userID string) *identity.Context {
	t.Helper()
	id := identity.New(storage.NewMemoryStorage())
	require.NoError(t, id.Save(context.Background(), "test-token", userID))
	return id
}

type fakeRequestRepo struct {
	requests []models.Request
	err      error
}

func (f *fakeRequestRepo) GetBuyerRequests(context.Context, string) ([]models.Request, error) {
	return f.requests, f.err
}

type bidsResult struct {
	bids []models.Bid
	err  error
}

type fakeBidRepo struct {
	mu       sync.Mutex
	results  map[string]bidsResult
	calls    map[string]int
	gate     chan struct{}
	started  chan string
	accepted []string
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{results: map[string]bidsResult{}, calls: map[string]int{}}
}

func (f *fakeBidRepo) set(requestID string, bids []models.Bid, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[requestID] = bidsResult{bids: bids, err: err}
}

func (f *fakeBidRepo) callCount(requestID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[requestID]
}

func (f *fakeBidRepo) GetRequestBids(ctx context.Context, requestID string) ([]models.Bid, error) {
	f.mu.Lock()
	f.calls[requestID]++
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- requestID
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	result := f.results[requestID]
	return result.bids, result.err
}

func (f *fakeBidRepo) AcceptBid(_ context.Context, bidID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = append(f.accepted, bidID)
	return nil
}

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts map[models.ReceiptRole][]models.Receipt
	errs     map[models.ReceiptRole]error
	rated    map[string]models.RatingInput
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{
		receipts: map[models.ReceiptRole][]models.Receipt{},
		errs:     map[models.ReceiptRole]error{},
		rated:    map[string]models.RatingInput{},
	}
}

func (f *fakeReceiptRepo) GetReceipts(_ context.Context, role models.ReceiptRole, unviewedOnly bool) ([]models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[role]; err != nil {
		return nil, err
	}
	var out []models.Receipt
	for _, receipt := range f.receipts[role] {
		if unviewedOnly && receipt.ViewedBy(role) {
			continue
		}
		out = append(out, receipt)
	}
	return out, nil
}

func (f *fakeReceiptRepo) MarkViewed(_ context.Context, role models.ReceiptRole, receiptID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.receipts[role] {
		if f.receipts[role][i].ID == receiptID {
			markViewed(&f.receipts[role][i], role)
		}
	}
	return nil
}

func (f *fakeReceiptRepo) MarkAllViewed(_ context.Context, role models.ReceiptRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.receipts[role] {
		markViewed(&f.receipts[role][i], role)
	}
	return nil
}

func (f *fakeReceiptRepo) Rate(_ context.Context, receiptID string, rating models.RatingInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rated[receiptID] = rating
	return nil
}

func markViewed(receipt *models.Receipt, role models.ReceiptRole) {
	if role == models.SellerRole {
		receipt.SellerViewed = true
		return
	}
	receipt.BuyerViewed = true
}

type fakeSessionRepo struct {
	token, userID string
	err           error
	gotTimeout    time.Duration
}

func (f *fakeSessionRepo) Login(_ context.Context, _ models.LoginInput, timeout time.Duration) (string, string, error) {
	f.gotTimeout = timeout
	return f.token, f.userID, f.err
}

func price(v float64) *float64 {
	return &v
}

func at(day int) time.Time {
	return time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)
}
