package nhlapi

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Returned, marked, when the payload does not have the expected shape
var ErrMalformedSchedule = errors.New("malformed schedule")

func malformed(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedSchedule)
}

func UnmarshalSchedule(data []byte) (Schedule, error) {

	// unmarshal
	var raw struct {
		TotalGames *int `json:"totalGames"`
		Dates      []struct {
			Games []struct {
				GameDate string `json:"gameDate"`
				Status   struct {
					AbstractGameState string `json:"abstractGameState"`
				} `json:"status"`
				Linescore struct {
					Periods []struct {
						EndTime string `json:"endTime"`
					} `json:"periods"`
				} `json:"linescore"`
			} `json:"games"`
		} `json:"dates"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return Schedule{}, errors.Mark(errors.Wrap(err, "could not decode schedule"), ErrMalformedSchedule)
	}

	if raw.TotalGames == nil {
		return Schedule{}, malformed("totalGames not found in schedule")
	}
	schedule := Schedule{TotalGames: *raw.TotalGames}
	if schedule.TotalGames == 0 {
		return schedule, nil
	}
	if len(raw.Dates) == 0 || len(raw.Dates[0].Games) == 0 {
		return Schedule{}, malformed("schedule announces %d game(s) but contains none", schedule.TotalGames)
	}
	game := raw.Dates[0].Games[0]

	// start time
	start, err := parseTime(game.GameDate)
	if err != nil {
		return Schedule{}, err
	}
	schedule.GameStart = start

	// state
	switch state := GameState(game.Status.AbstractGameState); state {
	case Preview, Live, Final:
		schedule.State = state
	default:
		return Schedule{}, malformed("abstract game state %q not understood", game.Status.AbstractGameState)
	}

	// end of the last period, only mandatory once the game is over
	periods := game.Linescore.Periods
	if len(periods) > 0 && periods[len(periods)-1].EndTime != "" {
		end, err := parseTime(periods[len(periods)-1].EndTime)
		if err != nil {
			return Schedule{}, err
		}
		schedule.LastPeriodEnd = end
	}
	if schedule.State == Final && schedule.LastPeriodEnd.IsZero() {
		return Schedule{}, malformed("game is final but the end of its last period is unknown")
	}

	return schedule, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, malformed("empty timestamp in schedule")
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.Mark(errors.Wrapf(err, "timestamp %q not understood", value), ErrMalformedSchedule)
	}
	return parsed, nil
}
