package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.June, 5), d)
	assert.Equal(t, "2024-06-05", d.String())

	_, err = ParseDate("05/06/2024")
	assert.Error(t, err)
}

func TestParseDateIn_TimestampUsesReferenceZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 20:00 UTC on the 5th is already the 6th in Tokyo
	d, err := ParseDateIn("2024-06-05T20:00:00Z", tokyo)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-06", d.String())

	d, err = ParseDateIn("2024-06-05T20:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", d.String())

	d, err = ParseDateIn("2024-06-05", tokyo)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", d.String())
}

func TestDaysUntil_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start := DateOf(time.Date(2024, 3, 9, 23, 0, 0, 0, ny), ny)
	end := DateOf(time.Date(2024, 3, 11, 1, 0, 0, 0, ny), ny)
	assert.Equal(t, 2, start.DaysUntil(end))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	raw, err := json.Marshal(payload{Start: NewDate(2024, 6, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-06-01","end":null}`, string(raw))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-06-01","end":""}`), &p))
	assert.Equal(t, NewDate(2024, 6, 1), p.Start)
	assert.True(t, p.End.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"start":"June 1"}`), &p))
}

func TestDate_BSONStoresMidnightUTC(t *testing.T) {
	type doc struct {
		Day Date `bson:"day"`
	}

	raw, err := bson.Marshal(doc{Day: NewDate(2024, 6, 1)})
	require.NoError(t, err)

	var asTime struct {
		Day time.Time `bson:"day"`
	}
	require.NoError(t, bson.Unmarshal(raw, &asTime))
	assert.True(t, asTime.Day.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	var back doc
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.True(t, back.Day.Equal(NewDate(2024, 6, 1)))
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange(NewDate(2024, 6, 1), NewDate(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Days())
	assert.Equal(t, "2024-06-01..2024-06-05", r.String())

	single, err := NewDateRange(NewDate(2024, 6, 1), NewDate(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())

	_, err = NewDateRange(NewDate(2024, 6, 5), NewDate(2024, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewDateRange(Date{}, NewDate(2024, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
