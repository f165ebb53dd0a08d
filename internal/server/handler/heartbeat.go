package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/heartbeat/internal/ledger"
	"github.com/pulseboard/heartbeat/internal/logx"
)

// BeatObserver receives heartbeat outcome metrics.
type BeatObserver interface {
	ObserveBeat(method string)
	ObserveRace()
}

type heartbeatRequest struct {
	ID string `form:"id"`
}

// HandleHeartbeat handles POST /api/heartbeat.
//
// A race rejection is deliberately returned through the uniform error channel
// and nothing else: the client that lost the window simply has no effect this
// cycle and retries on its own schedule.
func HandleHeartbeat(engine *ledger.Engine, obs BeatObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req heartbeatRequest
		_ = c.ShouldBind(&req)
		if err := ledger.Validate(checkID(nil, req.ID)); err != nil {
			Fail(c, err.Error())
			return
		}

		beat, err := engine.Heartbeat(req.ID)
		if err != nil {
			if errors.Is(err, ledger.ErrRaceCondition) {
				obs.ObserveRace()
				Fail(c, err.Error())
				return
			}
			logx.Errorf("heartbeat(%s): %v", req.ID, err)
			Fail(c, fmt.Sprintf("both UPDATE and INSERT operations failed (%s)", err))
			return
		}

		obs.ObserveBeat(beat.Method)
		logx.Debugf("heartbeat(%s): %s %s end=%d", req.ID, beat.Method, beat.Date, beat.End)
		OK(c, "heartbeat", beat)
	}
}
