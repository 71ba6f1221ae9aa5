package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/pkg/errors"
)

// deadlineFormats are tried in priority order against the raw
// Son_Teslim cell text. The last layout is how excelize renders a
// native Excel datetime cell (number format 22, m/d/yy h:mm).
var deadlineFormats = []string{
	"2006-01-02 15:04",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	"1/2/06 15:04",
}

// CheckDeadline gates login and submission on the record's deadline.
// It returns a DeadlineError once the deadline has passed; the caller
// must not run validation or write a log entry for a blocked attempt.
//
// A deadline cell that matches none of the accepted formats disables
// enforcement for that record (fail open, kept from the original
// system) but is logged so a typoed cell is visible to the instructor.
func CheckDeadline(ref *model.Declaration, now time.Time) error {
	if !ref.HasDeadline() {
		return nil
	}

	deadline, ok := ParseDeadline(ref.Deadline)
	if !ok {
		log := logger.Get()
		log.Warn().
			Str("student_no", ref.StudentNo).
			Str("odev_no", ref.Assignment).
			Str("son_teslim", ref.Deadline).
			Msg("Unparseable deadline, not enforced")
		return nil
	}

	if now.After(deadline) {
		return errors.DeadlineError{Deadline: ref.Deadline}
	}
	return nil
}

// ParseDeadline tries each accepted format in order. A bare number is
// treated as an Excel date serial, which is what a General-formatted
// datetime cell comes through as.
func ParseDeadline(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range deadlineFormats {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			// The serial encodes wall-clock time, same as the text formats.
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
		}
	}
	return time.Time{}, false
}
