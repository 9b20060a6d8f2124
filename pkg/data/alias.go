package data

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const (
	insertAliasSQL = `INSERT INTO alias (name, record_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET record_id = ?
	`

	selectAliasesSQL = `SELECT name, record_id, created_at FROM alias ORDER BY record_id, created_at, name`

	deleteAliasSQL = `DELETE FROM alias WHERE name = ?`
)

// Alias is a user-supplied hidden name for a reference record.
type Alias struct {
	Name      string    `json:"name" yaml:"name"`
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// SaveAlias stores name as an extra hidden name of record id. Saving an
// existing name points it at the new id.
func SaveAlias(db *sql.DB, name, id string) (*Alias, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	name = strings.TrimSpace(name)
	id = strings.TrimSpace(id)
	if name == "" || id == "" {
		return nil, fmt.Errorf("name: %q, id: %q are both required", name, id)
	}

	a := &Alias{
		Name:      name,
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := db.Prepare(insertAliasSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare alias insert statement: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(a.Name, a.ID, a.CreatedAt.UnixNano(), a.ID); err != nil {
		return nil, fmt.Errorf("failed to insert alias: %w", err)
	}

	return a, nil
}

// ListAliases returns all stored aliases grouped by record id.
func ListAliases(db *sql.DB) ([]*Alias, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectAliasesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute alias select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*Alias, 0)
	for rows.Next() {
		a := &Alias{}
		var created int64
		if err := rows.Scan(&a.Name, &a.ID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		a.CreatedAt = time.Unix(0, created).UTC()
		list = append(list, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alias rows: %w", err)
	}

	return list, nil
}

// GetAliasMap returns the stored aliases as record id to names, in the
// order they were added.
func GetAliasMap(db *sql.DB) (map[string][]string, error) {
	list, err := ListAliases(db)
	if err != nil {
		return nil, err
	}

	m := make(map[string][]string)
	for _, a := range list {
		m[a.ID] = append(m[a.ID], a.Name)
	}
	return m, nil
}

// DeleteAlias removes the alias with name and returns ErrNotFound when
// there was none.
func DeleteAlias(db *sql.DB, name string) error {
	if db == nil {
		return errDBNotInitialized
	}

	res, err := db.Exec(deleteAliasSQL, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to execute alias delete statement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("alias %s: %w", name, ErrNotFound)
	}

	return nil
}
