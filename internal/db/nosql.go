package db

import (
	"context"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// NoSQLDatabase defines the interface for NoSQL database operations (scan records)
type NoSQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Scan operations
	CreateScan(ctx context.Context, scan *models.ScanRecord) error
	GetScan(ctx context.Context, id string) (*models.ScanRecord, error)
	ListScans(ctx context.Context, filter shared.ScanFilter) ([]models.ScanRecord, error)
	CountScans(ctx context.Context, projectID string) (int64, error)
	DeleteScansByProject(ctx context.Context, projectID string) (int, error)

	// Competitor search (on-demand, scans the stored mention records)
	ListScansMentioning(ctx context.Context, projectID, competitor string, filter shared.ScanFilter) ([]models.ScanRecord, error)
}
