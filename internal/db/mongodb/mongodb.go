package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// MongoDB implements the NoSQLDatabase interface for MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.Config
}

const collScans = "scans"

// New creates a new MongoDB database instance
func New(config *models.Config) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// createIndexes creates necessary indexes for optimal query performance
func (m *MongoDB) createIndexes(ctx context.Context) error {
	// Scan indexes - every analytics query filters by project and time
	scanIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "project_id", Value: 1},
				{Key: "executed_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "prompt_id", Value: 1},
				{Key: "executed_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "schedule_id", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "results.competitor_mentions.name", Value: 1},
			},
		},
	}

	_, err := m.database.Collection(collScans).Indexes().CreateMany(ctx, scanIndexes)
	if err != nil {
		return fmt.Errorf("failed to create scan indexes: %w", err)
	}

	return nil
}

// CreateScan stores a scan record
func (m *MongoDB) CreateScan(ctx context.Context, scan *models.ScanRecord) error {
	if scan.ExecutedAt.IsZero() {
		scan.ExecutedAt = time.Now()
	}

	_, err := m.database.Collection(collScans).InsertOne(ctx, scan)
	return err
}

// GetScan retrieves a scan record by ID
func (m *MongoDB) GetScan(ctx context.Context, id string) (*models.ScanRecord, error) {
	var scan models.ScanRecord
	err := m.database.Collection(collScans).FindOne(ctx, bson.M{"_id": id}).Decode(&scan)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("scan not found: %s", id)
	}
	return &scan, err
}

// ListScans lists scan records with filtering. Records that fail to decode
// are skipped so one malformed document cannot take down a whole
// aggregation.
func (m *MongoDB) ListScans(ctx context.Context, filter shared.ScanFilter) ([]models.ScanRecord, error) {
	query := bson.M{}

	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.PromptID != "" {
		query["prompt_id"] = filter.PromptID
	}
	if filter.ScheduleID != "" {
		query["schedule_id"] = filter.ScheduleID
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["executed_at"] = timeQuery
	}

	opts := options.Find().SetSort(bson.D{{Key: "executed_at", Value: -1}})

	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := m.database.Collection(collScans).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scans []models.ScanRecord
	for cursor.Next(ctx) {
		var scan models.ScanRecord
		if err := cursor.Decode(&scan); err != nil {
			logger.Warning("Skipping undecodable scan record: %v", err)
			continue
		}
		scans = append(scans, scan)
	}

	return scans, cursor.Err()
}

// CountScans counts all scan records for a project
func (m *MongoDB) CountScans(ctx context.Context, projectID string) (int64, error) {
	return m.database.Collection(collScans).CountDocuments(ctx, bson.M{"project_id": projectID})
}

// DeleteScansByProject deletes all scan records for a project
func (m *MongoDB) DeleteScansByProject(ctx context.Context, projectID string) (int, error) {
	result, err := m.database.Collection(collScans).DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return int(result.DeletedCount), nil
}

// GetDatabase returns the underlying MongoDB database instance
func (m *MongoDB) GetDatabase() *mongo.Database {
	return m.database
}
