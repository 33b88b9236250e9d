package nhlapi

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const finalSchedule = `{
	"totalItems": 1,
	"totalGames": 1,
	"dates": [{
		"date": "2024-01-01",
		"games": [{
			"gamePk": 2023020555,
			"gameDate": "2024-01-01T19:00:00Z",
			"status": {"abstractGameState": "Final", "detailedState": "Final"},
			"linescore": {
				"currentPeriod": 3,
				"periods": [
					{"num": 1, "startTime": "2024-01-01T19:08:00Z", "endTime": "2024-01-01T19:45:00Z"},
					{"num": 2, "startTime": "2024-01-01T20:03:00Z", "endTime": "2024-01-01T20:42:00Z"},
					{"num": 3, "startTime": "2024-01-01T21:00:00Z", "endTime": "2024-01-01T22:00:00Z"}
				]
			}
		}]
	}]
}`

func TestUnmarshalScheduleNoGames(t *testing.T) {

	schedule, err := UnmarshalSchedule([]byte(`{"totalGames": 0, "dates": []}`))
	require.NoError(t, err)
	assert.False(t, schedule.HasGame())
	assert.Equal(t, "no games", schedule.String())
}

func TestUnmarshalSchedulePreview(t *testing.T) {

	data := `{"totalGames": 1, "dates": [{"games": [{"gameDate": "2024-01-01T19:00:00Z", "status": {"abstractGameState": "Preview"}, "linescore": {"periods": []}}]}]}`
	schedule, err := UnmarshalSchedule([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, schedule.TotalGames)
	assert.Equal(t, Preview, schedule.State)
	assert.True(t, schedule.GameStart.Equal(time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)))
	assert.True(t, schedule.LastPeriodEnd.IsZero())
}

func TestUnmarshalScheduleLiveWithPeriodInProgress(t *testing.T) {

	data := `{"totalGames": 1, "dates": [{"games": [{"gameDate": "2024-01-01T19:00:00Z", "status": {"abstractGameState": "Live"},
		"linescore": {"periods": [{"endTime": "2024-01-01T19:45:00Z"}, {"startTime": "2024-01-01T20:03:00Z"}]}}]}]}`
	schedule, err := UnmarshalSchedule([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, Live, schedule.State)
	assert.True(t, schedule.LastPeriodEnd.IsZero())
}

func TestUnmarshalScheduleFinal(t *testing.T) {

	schedule, err := UnmarshalSchedule([]byte(finalSchedule))
	require.NoError(t, err)
	assert.Equal(t, Final, schedule.State)
	assert.True(t, schedule.LastPeriodEnd.Equal(time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)))
}

func TestUnmarshalScheduleMalformed(t *testing.T) {

	tests := map[string]string{
		"not json":            `{"totalGames": `,
		"no total":            `{"dates": []}`,
		"games missing":       `{"totalGames": 1, "dates": []}`,
		"bad game date":       `{"totalGames": 1, "dates": [{"games": [{"gameDate": "tonight", "status": {"abstractGameState": "Preview"}}]}]}`,
		"unknown state":       `{"totalGames": 1, "dates": [{"games": [{"gameDate": "2024-01-01T19:00:00Z", "status": {"abstractGameState": "Postponed"}}]}]}`,
		"final without end":   `{"totalGames": 1, "dates": [{"games": [{"gameDate": "2024-01-01T19:00:00Z", "status": {"abstractGameState": "Final"}}]}]}`,
		"final with bad time": `{"totalGames": 1, "dates": [{"games": [{"gameDate": "2024-01-01T19:00:00Z", "status": {"abstractGameState": "Final"}, "linescore": {"periods": [{"endTime": "later"}]}}]}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalSchedule([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSchedule))
		})
	}
}
