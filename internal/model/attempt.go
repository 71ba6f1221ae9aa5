package model

import (
	"encoding/json"
	"time"
)

// legacyTimestampLayout is how the original portal wrote timestamps
// into student_logs.json.
const legacyTimestampLayout = "2006-01-02 15:04:05"

// Attempt is one validation outcome, appended to the attempt log
// exactly once per submission and never mutated. The JSON keys match
// the legacy student_logs.json layout so existing log files stay
// readable.
type Attempt struct {
	Timestamp   time.Time `json:"timestamp"`
	StudentNo   string    `json:"student_no"`
	StudentName string    `json:"student_name"`
	Assignment  string    `json:"odev_no"`
	Success     bool      `json:"success"`
	Errors      []string  `json:"errors"`
}

// UnmarshalJSON accepts both RFC 3339 timestamps and the legacy
// "2006-01-02 15:04:05" layout the original portal wrote.
func (a *Attempt) UnmarshalJSON(data []byte) error {
	type alias Attempt
	aux := struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		t, err = time.ParseInLocation(legacyTimestampLayout, aux.Timestamp, time.Local)
		if err != nil {
			return err
		}
	}
	a.Timestamp = t
	return nil
}
