package db

import (
	"context"
	"fmt"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// hybrid pairs a SQL store for configuration entities with a NoSQL store
// for scan records behind the combined Database interface.
type hybrid struct {
	SQLDatabase
	nosql NoSQLDatabase
}

// NewHybrid combines an already constructed SQL and NoSQL store.
func NewHybrid(sql SQLDatabase, nosql NoSQLDatabase) Database {
	return &hybrid{SQLDatabase: sql, nosql: nosql}
}

// New creates the hybrid database from the two backend configurations.
func New(sqlConfig, nosqlConfig *models.Config) (Database, error) {
	sql, err := newSQL(sqlConfig)
	if err != nil {
		return nil, err
	}

	nosql, err := newNoSQL(nosqlConfig)
	if err != nil {
		return nil, err
	}

	return NewHybrid(sql, nosql), nil
}

func (h *hybrid) Connect(ctx context.Context) error {
	if err := h.SQLDatabase.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect SQL database: %w", err)
	}
	if err := h.nosql.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect NoSQL database: %w", err)
	}
	return nil
}

func (h *hybrid) Disconnect(ctx context.Context) error {
	sqlErr := h.SQLDatabase.Disconnect(ctx)
	nosqlErr := h.nosql.Disconnect(ctx)
	if sqlErr != nil {
		return sqlErr
	}
	return nosqlErr
}

func (h *hybrid) Ping(ctx context.Context) error {
	if err := h.SQLDatabase.Ping(ctx); err != nil {
		return err
	}
	return h.nosql.Ping(ctx)
}

func (h *hybrid) CreateScan(ctx context.Context, scan *models.ScanRecord) error {
	return h.nosql.CreateScan(ctx, scan)
}

func (h *hybrid) GetScan(ctx context.Context, id string) (*models.ScanRecord, error) {
	return h.nosql.GetScan(ctx, id)
}

func (h *hybrid) ListScans(ctx context.Context, filter shared.ScanFilter) ([]models.ScanRecord, error) {
	return h.nosql.ListScans(ctx, filter)
}

func (h *hybrid) CountScans(ctx context.Context, projectID string) (int64, error) {
	return h.nosql.CountScans(ctx, projectID)
}

func (h *hybrid) DeleteScansByProject(ctx context.Context, projectID string) (int, error) {
	return h.nosql.DeleteScansByProject(ctx, projectID)
}

func (h *hybrid) ListScansMentioning(ctx context.Context, projectID, competitor string, filter shared.ScanFilter) ([]models.ScanRecord, error) {
	return h.nosql.ListScansMentioning(ctx, projectID, competitor, filter)
}
