package slashgolf

import (
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrappedInt_AcceptsEveryObservedShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		json  string
		value int
		set   bool
	}{
		{"mongo numberInt", `{"$numberInt":"8000000"}`, 8000000, true},
		{"mongo numberLong", `{"$numberLong":"42"}`, 42, true},
		{"mongo numberDouble", `{"$numberDouble":"3.0"}`, 3, true},
		{"plain number", `5`, 5, true},
		{"quoted number", `"17"`, 17, true},
		{"null", `null`, 0, false},
		{"garbage", `"abc"`, 0, false},
		{"unknown object", `{"$oid":"x"}`, 0, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var w wrappedInt
			require.NoError(t, sonic.Unmarshal([]byte(tc.json), &w))
			assert.Equal(t, tc.set, w.Set)
			assert.Equal(t, tc.value, w.Value)
			if !tc.set {
				assert.Nil(t, w.ptr())
			}
		})
	}
}

func TestWrappedDate_DecodesMillisAndStrings(t *testing.T) {
	t.Parallel()

	var mongo wrappedDate
	require.NoError(t, sonic.Unmarshal([]byte(`{"$date":{"$numberLong":"1712793600000"}}`), &mongo))
	require.True(t, mongo.Set)
	assert.Equal(t, time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC), mongo.Value)

	var plain wrappedDate
	require.NoError(t, sonic.Unmarshal([]byte(`"2025-04-10"`), &plain))
	require.True(t, plain.Set)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), plain.Value)

	var bad wrappedDate
	require.NoError(t, sonic.Unmarshal([]byte(`{"$date":{"$numberLong":"not-a-number"}}`), &bad))
	assert.False(t, bad.Set)
}

func TestLeaderboardEnvelope_DecodesWrappedFields(t *testing.T) {
	t.Parallel()

	payload := `{
		"tournId": "014",
		"year": "2025",
		"status": "Official",
		"roundId": {"$numberInt": "4"},
		"lastUpdated": {"$date": {"$numberLong": "1712793600000"}},
		"cutLines": [{"cutScore": "+1"}],
		"leaderboardRows": [
			{
				"playerId": "46046",
				"firstName": "Scottie",
				"lastName": "Scheffler",
				"position": "T1",
				"total": "-11",
				"currentRoundScore": "-4",
				"thru": "F",
				"status": "active",
				"rounds": [
					{"roundId": {"$numberInt": "1"}, "scoreToPar": "-5"}
				]
			}
		]
	}`

	var envelope leaderboardEnvelope
	require.NoError(t, sonic.Unmarshal([]byte(payload), &envelope))

	require.True(t, envelope.RoundID.Set)
	assert.Equal(t, 4, envelope.RoundID.Value)
	require.True(t, envelope.LastUpdated.Set)
	require.Len(t, envelope.LeaderboardRows, 1)
	assert.Equal(t, "T1", envelope.LeaderboardRows[0].Position)
	require.Len(t, envelope.LeaderboardRows[0].Rounds, 1)
	assert.Equal(t, 1, envelope.LeaderboardRows[0].Rounds[0].RoundID.Value)
}
