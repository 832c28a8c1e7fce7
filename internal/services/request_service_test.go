package services

import (
	"context"
	"errors"
	"testing"

	"github.com/senyabanana/bid-dashboard/internal/identity"
	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		name string
		req  models.Request
		want bool
	}{
		{name: "plain open", req: models.Request{Status: "open"}, want: false},
		{name: "empty status", req: models.Request{}, want: false},
		{name: "is paid flag", req: models.Request{Status: "open", IsPaid: true}, want: true},
		{name: "paid flag", req: models.Request{Status: "open", Paid: true}, want: true},
		{name: "receipt reference", req: models.Request{Status: "open", ReceiptID: "rc1"}, want: true},
		{name: "payment status", req: models.Request{Status: "open", PaymentStatus: "PAID"}, want: true},
		{name: "payment pending", req: models.Request{Status: "open", PaymentStatus: "pending"}, want: false},
		{name: "awarded mixed case", req: models.Request{Status: "Awarded"}, want: true},
		{name: "closed substring", req: models.Request{Status: "closed_by_buyer"}, want: true},
		{name: "completed", req: models.Request{Status: "Completed"}, want: true},
		{name: "expired", req: models.Request{Status: "EXPIRED"}, want: true},
		{name: "canceled", req: models.Request{Status: "canceled"}, want: true},
		{name: "cancelled", req: models.Request{Status: "Cancelled by admin"}, want: true},
		{name: "unpaid contains paid", req: models.Request{Status: "unpaid"}, want: true},
		{name: "several reasons", req: models.Request{Status: "Closed", Paid: true, IsPaid: true, ReceiptID: "x"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExcluded(tt.req))
		})
	}
}

func TestIsExcludedSingleFlagFlipsResult(t *testing.T) {
	base := models.Request{ID: "r1", Status: "open"}
	require.False(t, IsExcluded(base))

	toggles := map[string]func(*models.Request){
		"isPaid":        func(r *models.Request) { r.IsPaid = true },
		"paid":          func(r *models.Request) { r.Paid = true },
		"receipt":       func(r *models.Request) { r.ReceiptID = "rc" },
		"paymentStatus": func(r *models.Request) { r.PaymentStatus = "paid" },
		"status":        func(r *models.Request) { r.Status = "expired" },
	}
	for name, toggle := range toggles {
		t.Run(name, func(t *testing.T) {
			req := base
			toggle(&req)
			assert.True(t, IsExcluded(req))
		})
	}
}

func TestFilterActiveKeepsOnlyOpenRequest(t *testing.T) {
	requests := []models.Request{
		{ID: "r1", Status: "Awarded"},
		{ID: "r2", Status: "open", Paid: true},
		{ID: "r3", Status: "open"},
	}

	active := FilterActive(requests)
	require.Len(t, active, 1)
	assert.Equal(t, "r3", active[0].ID)
}

func TestSearch(t *testing.T) {
	requests := []models.Request{
		{ID: "0000000000abc123", ProductName: "Steel Pipes", Category: "Metal"},
		{ID: "0000000000def456", ProductName: "Office Chairs", Category: "Furniture"},
	}

	assert.Len(t, Search(requests, ""), 2)
	assert.Len(t, Search(requests, "  "), 2)
	assert.Equal(t, "0000000000abc123", Search(requests, "ABC1")[0].ID)
	assert.Equal(t, "0000000000def456", Search(requests, "chair")[0].ID)
	assert.Equal(t, "0000000000abc123", Search(requests, "metal")[0].ID)
	assert.Empty(t, Search(requests, "0000000000"))
}

func TestLoadActiveRequestsFailureYieldsEmptyList(t *testing.T) {
	svc := NewRequestService(&fakeRequestRepo{err: errors.New("network down")}, nil)

	requests, err := svc.LoadActiveRequests(context.Background(), "u1")
	require.Error(t, err)
	assert.NotNil(t, requests)
	assert.Empty(t, requests)
}

func TestActiveRequests(t *testing.T) {
	repo := &fakeRequestRepo{requests: []models.Request{
		{ID: "r1", ProductName: "Bolts", Status: "open"},
		{ID: "r2", ProductName: "Nuts", Status: "open"},
		{ID: "r3", ProductName: "Bolts", Status: "closed"},
	}}

	svc := NewRequestService(repo, signedIn(t, "u1"))
	requests, err := svc.ActiveRequests(context.Background(), "bolt")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "r1", requests[0].ID)

	anonymous := NewRequestService(repo, identity.New(storage.NewMemoryStorage()))
	_, err = anonymous.ActiveRequests(context.Background(), "")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}
