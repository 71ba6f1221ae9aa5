package model

import "time"

// PublishJob asks the publish worker to validate the workbook staged
// at StagingKey and promote it to the live dataset key.
type PublishJob struct {
	StagingKey  string    `json:"staging_key"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
	Note        string    `json:"note,omitempty"`
}

type LoginRequest struct {
	StudentNo  string `json:"student_no"`
	Assignment string `json:"assignment"`

	// InvoiceNo selects one invoice when the student has several rows
	// in the assignment sheet; leave empty to get the candidate list.
	InvoiceNo string `json:"invoice_no,omitempty"`
}

type LoginResponse struct {
	Token       string `json:"token,omitempty"`
	StudentName string `json:"student_name,omitempty"`
	Assignment  string `json:"assignment,omitempty"`
	InvoiceNo   string `json:"invoice_no,omitempty"`
	Deadline    string `json:"deadline,omitempty"`

	// Invoices is set instead of Token when an invoice must be chosen.
	Invoices []string `json:"invoices,omitempty"`
}

type DeclarationResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
}

type PanelStats struct {
	Assignment  string  `json:"assignment,omitempty"`
	Total       int     `json:"total_attempts"`
	Succeeded   int     `json:"succeeded"`
	SuccessRate float64 `json:"success_rate"`
}

// FieldErrorCount is one row of the "most common mistakes" report.
type FieldErrorCount struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}
