package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Adjustable override columns. SetAdjustment refuses anything else so user
// input never reaches the SQL text.
var adjustmentColumns = map[string]string{
	"start": "adj_start",
	"end":   "adj_end",
	"gaps":  "adj_gaps",
}

// TouchDay performs the conditional half of the heartbeat upsert: it moves the
// day's end timestamp forward and bumps the counter, but only when the stored
// end is older than staleBefore. Reports whether a row was written.
func (s *Store) TouchDay(subjectID, date string, end, staleBefore, increment int64) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE daily_records SET "end" = ?, counter = counter + ?
		 WHERE subject_id = ? AND date = ? AND "end" < ?`,
		end, increment, subjectID, date, staleBefore,
	)
	if err != nil {
		return false, fmt.Errorf("touch day: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// StartDay inserts a fresh row with start == end == ts, keeping any existing
// row untouched. A zero ts materializes an empty day for manual editing.
// Reports whether a row was inserted.
func (s *Store) StartDay(subjectID, date string, ts int64) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO daily_records (subject_id, date, start, "end")
		 VALUES (?, ?, ?, ?)`,
		subjectID, date, ts, ts,
	)
	if err != nil {
		return false, fmt.Errorf("start day: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetAdjustment writes one override field (start, end or gaps) on a day.
// Raw heartbeat fields are never touched. Reports whether a row matched.
func (s *Store) SetAdjustment(subjectID, date, target string, value int64) (bool, error) {
	col, ok := adjustmentColumns[target]
	if !ok {
		return false, fmt.Errorf("set adjustment: unknown target %q", target)
	}
	res, err := s.db.Exec(
		`UPDATE daily_records SET `+col+` = ? WHERE subject_id = ? AND date = ?`,
		value, subjectID, date,
	)
	if err != nil {
		return false, fmt.Errorf("set adjustment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetValidated flips the human-review lock flag on a day.
func (s *Store) SetValidated(subjectID, date string, validated bool) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE daily_records SET validated = ? WHERE subject_id = ? AND date = ?`,
		validated, subjectID, date,
	)
	if err != nil {
		return false, fmt.Errorf("set validated: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// GetDay retrieves a single day row, or nil if absent.
func (s *Store) GetDay(subjectID, date string) (*DailyRecord, error) {
	r := &DailyRecord{}
	err := s.db.QueryRow(
		`SELECT subject_id, date, start, "end", counter, adj_start, adj_end, adj_gaps, validated
		 FROM daily_records WHERE subject_id = ? AND date = ?`, subjectID, date,
	).Scan(&r.SubjectID, &r.Date, &r.Start, &r.End, &r.Counter,
		&r.AdjStart, &r.AdjEnd, &r.AdjGaps, &r.Validated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day: %w", err)
	}
	return r, nil
}

// QueryDays scans a subject's rows whose day key matches any of the LIKE
// patterns, ordered by date.
func (s *Store) QueryDays(subjectID string, patterns []string) ([]DailyRecord, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	clauses := make([]string, len(patterns))
	args := make([]any, 0, len(patterns)+1)
	args = append(args, subjectID)
	for i, p := range patterns {
		clauses[i] = "date LIKE ?"
		args = append(args, p)
	}

	rows, err := s.db.Query(
		`SELECT subject_id, date, start, "end", counter, adj_start, adj_end, adj_gaps, validated
		 FROM daily_records WHERE subject_id = ? AND (`+strings.Join(clauses, " OR ")+`)
		 ORDER BY date`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllRecords returns the full ledger history ordered by subject then date.
func (s *Store) AllRecords() ([]DailyRecord, error) {
	rows, err := s.db.Query(
		`SELECT subject_id, date, start, "end", counter, adj_start, adj_end, adj_gaps, validated
		 FROM daily_records ORDER BY subject_id, date`,
	)
	if err != nil {
		return nil, fmt.Errorf("all records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]DailyRecord, error) {
	var records []DailyRecord
	for rows.Next() {
		var r DailyRecord
		if err := rows.Scan(&r.SubjectID, &r.Date, &r.Start, &r.End, &r.Counter,
			&r.AdjStart, &r.AdjEnd, &r.AdjGaps, &r.Validated); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
