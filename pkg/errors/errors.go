package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidWorkbook    = errors.New("invalid workbook format")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrDeadlinePassed     = errors.New("assignment deadline has passed")
	ErrInvoiceAmbiguous   = errors.New("multiple invoices for student, selection required")
)

// DeadlineError is a terminal rejection: the attempt is blocked before
// validation runs and no attempt entry is written.
type DeadlineError struct {
	Deadline string
}

func (e DeadlineError) Error() string {
	return fmt.Sprintf("assignment deadline has passed (son teslim: %s)", e.Deadline)
}

func (e DeadlineError) Unwrap() error {
	return ErrDeadlinePassed
}

type WorkbookError struct {
	Sheet   string
	Message string
}

func (e WorkbookError) Error() string {
	return fmt.Sprintf("workbook sheet '%s': %s", e.Sheet, e.Message)
}

func (e WorkbookError) Unwrap() error {
	return ErrInvalidWorkbook
}
