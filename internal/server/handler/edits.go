package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/heartbeat/internal/ledger"
	"github.com/pulseboard/heartbeat/internal/logx"
	"github.com/pulseboard/heartbeat/internal/server/db"
)

type adjustRequest struct {
	ID     string `form:"id"`
	Date   string `form:"date"`
	Target string `form:"target"`
	Value  string `form:"value"`
}

// HandleAdjust handles POST /api/adjust: writes one override field. Raw
// heartbeat fields stay untouched, so provenance survives every edit.
func HandleAdjust(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adjustRequest
		_ = c.ShouldBind(&req)

		problems := checkID(nil, req.ID)
		problems = checkDate(problems, req.Date)
		switch req.Target {
		case "start", "end", "gaps":
			problems = checkAdjustValue(problems, req.Target, req.Value, req.Date)
		default:
			problems = append(problems, "'target' must be one of 'start', 'end' and 'gaps'")
		}
		if err := ledger.Validate(problems); err != nil {
			Fail(c, err.Error())
			return
		}

		value, _ := strconv.ParseInt(req.Value, 10, 64)
		if _, err := store.SetAdjustment(req.ID, req.Date, req.Target, value); err != nil {
			logx.Errorf("adjust(%s, %s, %s): %v", req.ID, req.Date, req.Target, err)
			Fail(c, "adjust failed")
			return
		}

		OK(c, "adjust", gin.H{"date": req.Date, "target": req.Target, "value": value})
	}
}

type createRequest struct {
	ID   string `form:"id"`
	Date string `form:"date"`
}

// HandleCreate handles POST /api/create: materializes a zeroed day so a date
// with no recorded activity can be edited by hand.
func HandleCreate(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequest
		_ = c.ShouldBind(&req)

		problems := checkID(nil, req.ID)
		problems = checkDate(problems, req.Date)
		if err := ledger.Validate(problems); err != nil {
			Fail(c, err.Error())
			return
		}

		inserted, err := store.StartDay(req.ID, req.Date, 0)
		if err != nil {
			logx.Errorf("create(%s, %s): %v", req.ID, req.Date, err)
			Fail(c, "create failed")
			return
		}
		if !inserted {
			Fail(c, "instruction failed (record already exists)")
			return
		}

		OK(c, "create", gin.H{"date": req.Date})
	}
}

type validateRequest struct {
	ID    string `form:"id"`
	Date  string `form:"date"`
	Value string `form:"value"`
}

// HandleValidate handles POST /api/validate: sets or clears the human-review
// lock flag on a day's totals.
func HandleValidate(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		_ = c.ShouldBind(&req)

		problems := checkID(nil, req.ID)
		problems = checkDate(problems, req.Date)
		if req.Value != "0" && req.Value != "1" {
			problems = append(problems, "'value' must be 0 or 1")
		}
		if err := ledger.Validate(problems); err != nil {
			Fail(c, err.Error())
			return
		}

		matched, err := store.SetValidated(req.ID, req.Date, req.Value == "1")
		if err != nil {
			logx.Errorf("validate(%s, %s): %v", req.ID, req.Date, err)
			Fail(c, "validate failed")
			return
		}
		if !matched {
			Fail(c, "instruction failed (no record for that date)")
			return
		}

		OK(c, "validate", gin.H{"date": req.Date, "value": req.Value})
	}
}
