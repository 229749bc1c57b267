//go:build integration

package bookings

import (
	"net/http"
	"testing"

	"camrent/internal/bookings/repository"
	"camrent/pkg/model"
	"camrent/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type bookingView struct {
	model.Booking
	NeedsAction bool   `json:"needs_action"`
	CurrentStep string `json:"current_step"`
}

func submit(t *testing.T, c *testutil.Client, body map[string]any) bookingView {
	t.Helper()
	resp := c.POST(t, "/api/v1/bookings", body)
	testutil.RequireStatus(t, resp, http.StatusCreated)
	var v bookingView
	resp.Data(t, &v)
	return v
}

func act(t *testing.T, c *testutil.Client, id, action string) bookingView {
	t.Helper()
	resp := c.POST(t, "/api/v1/bookings/id/"+id+"/"+action, nil)
	testutil.RequireStatus(t, resp, http.StatusOK)
	var v bookingView
	resp.Data(t, &v)
	return v
}

func TestBookingLifecycle_HappyPath(t *testing.T) {
	mongo, c := testutil.NewTestEnv().Setup(t)
	itemID := testutil.CreateItem(t, c, "Sony A7 III")

	b := submit(t, c, testutil.NewBookingBuilder(itemID).Build())
	assert.Equal(t, model.RentalPending, b.RentalStatus)
	assert.Equal(t, 5, b.RentalDays)
	assert.Equal(t, int64(30000), b.TotalPriceCents)
	assert.True(t, b.NeedsAction)

	for _, action := range []string{"approve", "ready-to-ship", "in-transit", "delivered", "activate", "schedule-return", "shipped-back"} {
		b = act(t, c, b.ID, action)
	}
	b = act(t, c, b.ID, "returned")
	assert.Equal(t, model.RentalCompleted, b.RentalStatus)
	assert.Equal(t, model.ShippingReturned, b.ShippingStatus)
	assert.Equal(t, "completed", b.CurrentStep)

	assert.Equal(t, int64(1), mongo.CountDocuments(t, repository.PaymentsCollection, bson.D{{Key: "booking_id", Value: b.ID}}))
}

func TestBookingLifecycle_ApproveConflict(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	itemID := testutil.CreateItem(t, c, "Canon R5")

	first := submit(t, c, testutil.NewBookingBuilder(itemID).WithDates("2030-07-01", "2030-07-05").Build())
	second := submit(t, c, testutil.NewBookingBuilder(itemID).WithDates("2030-07-05", "2030-07-08").Build())
	act(t, c, first.ID, "approve")

	resp := c.POST(t, "/api/v1/bookings/id/"+second.ID+"/approve", nil)
	testutil.RequireStatus(t, resp, http.StatusConflict)
	assert.Equal(t, "BOOKING_CONFLICT", resp.ErrorCode(t))

	resp = c.GET(t, "/api/v1/items/id/"+itemID+"/conflicts?start=2030-07-05&end=2030-07-06")
	testutil.RequireStatus(t, resp, http.StatusOK)
	var conflicts []model.Booking
	resp.Data(t, &conflicts)
	require.Len(t, conflicts, 1)
	assert.Equal(t, first.ID, conflicts[0].ID)
}

func TestBookingLifecycle_IllegalTransition(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	itemID := testutil.CreateItem(t, c, "Fuji X-T5")

	b := submit(t, c, testutil.NewBookingBuilder(itemID).Build())
	resp := c.POST(t, "/api/v1/bookings/id/"+b.ID+"/activate", nil)
	testutil.RequireStatus(t, resp, http.StatusConflict)
	assert.Equal(t, "ILLEGAL_TRANSITION", resp.ErrorCode(t))
}

func TestBookingLifecycle_Extension(t *testing.T) {
	_, c := testutil.NewTestEnv().Setup(t)
	itemID := testutil.CreateItem(t, c, "Nikon Z8")

	b := submit(t, c, testutil.NewBookingBuilder(itemID).WithDates("2030-08-01", "2030-08-03").Build())
	for _, action := range []string{"approve", "ready-to-ship", "in-transit", "delivered"} {
		b = act(t, c, b.ID, action)
	}

	resp := c.POST(t, "/api/v1/bookings/id/"+b.ID+"/extensions", map[string]any{"requested_end_date": "2030-08-10"})
	testutil.RequireStatus(t, resp, http.StatusCreated)
	var ext model.Extension
	resp.Data(t, &ext)

	testutil.RequireStatus(t, c.POST(t, "/api/v1/extensions/id/"+ext.ID+"/approve", nil), http.StatusOK)
	resp = c.POST(t, "/api/v1/extensions/id/"+ext.ID+"/apply", nil)
	testutil.RequireStatus(t, resp, http.StatusOK)

	var applied bookingView
	resp.Data(t, &applied)
	assert.Equal(t, "2030-08-10", applied.EndDate.String())
	assert.Equal(t, 10, applied.RentalDays)
	assert.Equal(t, int64(50000), applied.TotalPriceCents)

	resp = c.GET(t, "/api/v1/bookings/id/"+b.ID+"/payments")
	testutil.RequireStatus(t, resp, http.StatusOK)
	var payments []model.Payment
	resp.Data(t, &payments)
	assert.Len(t, payments, 2)
}
