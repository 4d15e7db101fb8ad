package sqlite

import (
	"fmt"

	"github.com/vertextoedge/download-janitor/internal/domain"
)

// All returns every download record.
func (s *Store) All() ([]*domain.Download, error) {
	query := `
		SELECT id, path, size, uid, status, created_at, updated_at
		FROM downloads
		ORDER BY id
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var records []*domain.Download
	for rows.Next() {
		rec := &domain.Download{}
		if err := rows.Scan(
			&rec.ID, &rec.Path, &rec.Size, &rec.UID, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Create inserts rec and fills in its ID.
func (s *Store) Create(rec *domain.Download) error {
	query := `
		INSERT INTO downloads (path, size, uid, status)
		VALUES (?, ?, ?, ?)
	`

	status := rec.Status
	if status == "" {
		status = domain.StatusPending
	}

	result, err := s.db.Exec(query, rec.Path, rec.Size, rec.UID, status)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}

	rec.ID = id
	rec.Status = status
	return nil
}

// MarkComplete transitions the record with the given id to complete.
func (s *Store) MarkComplete(id int64) error {
	query := `
		UPDATE downloads
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := s.db.Exec(query, domain.StatusComplete, id); err != nil {
		return fmt.Errorf("failed to mark download complete: %w", err)
	}
	return nil
}

// DeleteByID removes the record with the given id. Deleting a record that
// no longer exists is not an error.
func (s *Store) DeleteByID(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM downloads WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}
	return nil
}
