package storage

import "context"

// MetadataStorage defines interface for reading client metadata
type MetadataStorage interface {
	// GetLastExportTimestamp retrieves the unix time of the last archived export
	// Returns 0 if nothing was exported yet
	GetLastExportTimestamp(ctx context.Context) (int64, error)
}
