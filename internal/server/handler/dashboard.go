package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pulseboard/heartbeat/internal/ledger"
	"github.com/pulseboard/heartbeat/internal/logx"
)

// HandleDashboard handles GET /api/dashboard: the anonymized cross-subject
// view of effective daily totals. Subject ids are stripped before rendering,
// which is what lets this read skip authentication.
func HandleDashboard(store ledger.HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := ledger.Aggregate(store)
		if err != nil {
			logx.Errorf("dashboard: %v", err)
			Fail(c, "dashboard failed")
			return
		}
		OK(c, "dashboard", groups)
	}
}
