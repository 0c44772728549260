package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// ListScansMentioning lists a project's scans containing at least one
// mention of the given competitor. The name match is exact and case
// sensitive, matching how the aggregation engine keys competitors.
func (m *MongoDB) ListScansMentioning(ctx context.Context, projectID, competitor string, filter shared.ScanFilter) ([]models.ScanRecord, error) {
	query := bson.M{
		"project_id":                       projectID,
		"results.competitor_mentions.name": competitor,
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
