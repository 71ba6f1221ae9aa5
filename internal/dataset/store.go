package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/internal/storage"
	"github.com/balenascatcher/bilge-simulasyon/pkg/errors"
)

// Store reads reference records from the published workbook. The
// workbook is fetched fresh on every lookup rather than cached, so a
// newly published dataset is picked up at the next login without a
// portal restart.
type Store struct {
	storage storage.Storage
	key     string
	log     zerolog.Logger
}

func NewStore(st storage.Storage, key string) *Store {
	return &Store{
		storage: st,
		key:     key,
		log:     logger.Get(),
	}
}

func (s *Store) open(ctx context.Context) (*Workbook, error) {
	reader, err := s.storage.Download(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to download workbook %s: %w", s.key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook %s: %w", s.key, err)
	}

	return Open(data)
}

// Assignments lists the available assignment sheets in workbook order.
func (s *Store) Assignments(ctx context.Context) ([]string, error) {
	wb, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Assignments(), nil
}

// Find returns every reference record for one student in one
// assignment. A student may have several invoices defined; the caller
// decides which to work with. Returns ErrRecordNotFound when the
// student has no row in the sheet.
func (s *Store) Find(ctx context.Context, assignment, studentNo string) ([]*model.Declaration, error) {
	wb, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	records, err := wb.Records(assignment)
	if err != nil {
		return nil, err
	}

	want := strings.TrimSpace(studentNo)
	var matches []*model.Declaration
	for _, rec := range records {
		if rec.StudentNo == want {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return nil, errors.ErrRecordNotFound
	}
	return matches, nil
}

// Get resolves a single reference record. With an empty invoiceNo it
// succeeds only when the student has exactly one invoice; otherwise it
// returns ErrInvoiceAmbiguous so the caller can offer a selection.
func (s *Store) Get(ctx context.Context, assignment, studentNo, invoiceNo string) (*model.Declaration, error) {
	matches, err := s.Find(ctx, assignment, studentNo)
	if err != nil {
		return nil, err
	}

	if invoiceNo == "" {
		if len(matches) > 1 {
			return nil, errors.ErrInvoiceAmbiguous
		}
		return matches[0], nil
	}

	for _, rec := range matches {
		if rec.InvoiceNo == invoiceNo {
			return rec, nil
		}
	}
	return nil, errors.ErrRecordNotFound
}
