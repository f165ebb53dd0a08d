package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/heartbeat/internal/ledger"
	"github.com/pulseboard/heartbeat/internal/logx"
	"github.com/pulseboard/heartbeat/internal/server/db"
)

type queryRequest struct {
	ID    string `form:"id"`
	Month string `form:"month"`
}

// HandleQuery handles GET /api/query: plans the calendar window for the
// requested month and returns the matching raw rows keyed by day.
func HandleQuery(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryRequest
		_ = c.ShouldBind(&req)
		if err := ledger.Validate(checkID(nil, req.ID)); err != nil {
			Fail(c, err.Error())
			return
		}

		month := req.Month
		if month == "" {
			month = ledger.MonthKey(time.Now())
		}
		patterns, err := ledger.PlanMonth(month)
		if err != nil {
			Fail(c, err.Error())
			return
		}

		records, err := store.QueryDays(req.ID, patterns)
		if err != nil {
			logx.Errorf("query(%s, %s): %v", req.ID, month, err)
			Fail(c, "query failed")
			return
		}

		days := make(map[string]db.DailyRecord, len(records))
		for _, r := range records {
			days[r.Date] = r
		}
		OK(c, "query", days)
	}
}
