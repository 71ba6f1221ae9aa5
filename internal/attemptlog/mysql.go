package attemptlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// MySQLStore is the attempt log backed by the declaration_attempts
// table (scripts/schema.sql), for deployments that already run MySQL
// and want the history queryable. The mismatch list is stored as a
// JSON column.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLConnection(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Append(ctx context.Context, attempt model.Attempt) error {
	errorsJSON, err := json.Marshal(attempt.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal errors: %w", err)
	}

	query := `INSERT INTO declaration_attempts (attempted_at, student_no, student_name, odev_no, success, errors)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, attempt.Timestamp, attempt.StudentNo,
		attempt.StudentName, attempt.Assignment, attempt.Success, errorsJSON)
	return err
}

func (s *MySQLStore) List(ctx context.Context, assignment string) ([]model.Attempt, error) {
	query := `SELECT attempted_at, student_no, student_name, odev_no, success, errors
			  FROM declaration_attempts`
	args := []interface{}{}
	if assignment != "" {
		query += ` WHERE odev_no = ?`
		args = append(args, assignment)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var errorsJSON []byte
		if err := rows.Scan(&a.Timestamp, &a.StudentNo, &a.StudentName,
			&a.Assignment, &a.Success, &errorsJSON); err != nil {
			return nil, err
		}
		if len(errorsJSON) > 0 {
			if err := json.Unmarshal(errorsJSON, &a.Errors); err != nil {
				return nil, fmt.Errorf("failed to unmarshal errors: %w", err)
			}
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
