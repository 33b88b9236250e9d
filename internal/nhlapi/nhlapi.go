package nhlapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gameday/internal/common"

	"github.com/rs/zerolog/log"
)

// Default schema of the NHL stats API
const NHL_SCHEMA = "http://statsapi.web.nhl.com/api/v1"

// Schedule of a team for a single day, including the linescore so that
// the end of the last period is known once the game is final
const ROUTE_SCHEDULE = "/schedule?teamId=%d&date=%s&expand=schedule.linescore"

const DATE_FORMAT = "2006-01-02"

type ScheduleApi struct {
	schema string
	teamId int
	proxy  common.Proxy
}

func NewScheduleApi(schema string, teamId int, timeout time.Duration, retry common.RetryPolicy) ScheduleApi {

	if schema == "" {
		schema = NHL_SCHEMA
	}
	return ScheduleApi{
		schema: strings.TrimRight(schema, "/"),
		teamId: teamId,
		proxy:  common.NewProxy(map[string]string{"Accept": "application/json"}, timeout, retry),
	}
}

// Get the schedule of the team for the day of the provided date.
// The date is used as is, so the caller decides the time zone of the day
func (api *ScheduleApi) GetSchedule(ctx context.Context, date time.Time) (Schedule, error) {

	day := date.Format(DATE_FORMAT)
	log.Info().Msg(fmt.Sprintf("Retrieving the schedule of team %d for %s", api.teamId, day))

	// Request
	url := api.schema + fmt.Sprintf(ROUTE_SCHEDULE, api.teamId, day)
	data, err := api.proxy.Request(ctx, url)
	if err != nil {
		return Schedule{}, err
	}

	// Decode
	schedule, err := UnmarshalSchedule(data)
	if err != nil {
		return Schedule{}, err
	}
	log.Debug().Msg(fmt.Sprintf("Schedule for %s: %s", day, &schedule))

	return schedule, nil
}
