package port

import (
	"github.com/vertextoedge/download-janitor/internal/domain"
)

// DownloadRepository is the persisted record store for downloads.
type DownloadRepository interface {
	// All returns every download record.
	All() ([]*domain.Download, error)

	// Create inserts rec and fills in its ID.
	Create(rec *domain.Download) error

	// MarkComplete transitions the record with the given id to complete.
	MarkComplete(id int64) error

	// DeleteByID removes the record with the given id. Deleting a record
	// that no longer exists is not an error.
	DeleteByID(id int64) error
}
