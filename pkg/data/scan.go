package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ScanListLimitDefault = 20

	insertScanSQL = `INSERT INTO scan (
			id,
			product_name,
			brand,
			category,
			overall_score,
			reference_version,
			created_at,
			report
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectScanSQL = `SELECT
			id,
			product_name,
			brand,
			category,
			overall_score,
			reference_version,
			created_at,
			report
		FROM scan
		WHERE id = ?
	`

	listScansSQL = `SELECT
			id,
			product_name,
			brand,
			category,
			overall_score,
			reference_version,
			created_at
		FROM scan
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
)

// Scan is a saved scoring report. The report body is stored as opaque JSON.
type Scan struct {
	ID               string          `json:"id" yaml:"id"`
	ProductName      string          `json:"productName,omitempty" yaml:"productName,omitempty"`
	Brand            string          `json:"brand,omitempty" yaml:"brand,omitempty"`
	Category         string          `json:"category,omitempty" yaml:"category,omitempty"`
	OverallScore     int             `json:"overallScore" yaml:"overallScore"`
	ReferenceVersion string          `json:"referenceVersion,omitempty" yaml:"referenceVersion,omitempty"`
	CreatedAt        time.Time       `json:"createdAt" yaml:"createdAt"`
	Report           json.RawMessage `json:"report,omitempty" yaml:"-"`
}

// SaveScan persists s with report marshaled as JSON. A missing id or
// timestamp is filled in.
func SaveScan(db *sql.DB, s *Scan, report any) (*Scan, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if s == nil {
		return nil, errors.New("scan required")
	}

	b, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan report: %w", err)
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.Report = b

	stmt, err := db.Prepare(insertScanSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare scan insert statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(s.ID, s.ProductName, s.Brand, s.Category, s.OverallScore,
		s.ReferenceVersion, s.CreatedAt.UnixNano(), string(b)); err != nil {
		return nil, fmt.Errorf("failed to insert scan %s: %w", s.ID, err)
	}

	return s, nil
}

// GetScan returns the scan with id including its report.
func GetScan(db *sql.DB, id string) (*Scan, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("scan id required")
	}

	row := db.QueryRow(selectScanSQL, id)

	s := &Scan{}
	var created int64
	var report string
	err := row.Scan(&s.ID, &s.ProductName, &s.Brand, &s.Category, &s.OverallScore,
		&s.ReferenceVersion, &created, &report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scan %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	s.CreatedAt = time.Unix(0, created).UTC()
	s.Report = json.RawMessage(report)

	return s, nil
}

// ListScans returns the most recent scans, newest first, without reports.
func ListScans(db *sql.DB, limit int) ([]*Scan, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = ScanListLimitDefault
	}

	rows, err := db.Query(listScansSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute scan list statement: %w", err)
	}
	defer rows.Close()

	list := make([]*Scan, 0)
	for rows.Next() {
		s := &Scan{}
		var created int64
		if err := rows.Scan(&s.ID, &s.ProductName, &s.Brand, &s.Category, &s.OverallScore,
			&s.ReferenceVersion, &created); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan rows: %w", err)
	}

	return list, nil
}
