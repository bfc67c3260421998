package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

const (
	recordsCollection = "measurement_records"
	plotsCollection   = "plots"
)

// MongoDBRepository stores plots and measurement records in MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, dbName: dbName}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// Name identifies the repository as an audit sink.
func (r *MongoDBRepository) Name() string {
	return "mongodb"
}

// SaveMeasurementRecord appends an audit record. Redelivery of the same record is a no-op.
func (r *MongoDBRepository) SaveMeasurementRecord(ctx context.Context, record models.MeasurementRecord) error {
	_, err := r.collection(recordsCollection).InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert measurement record: %w", err)
	}
	return nil
}

// SavePlot stores a new plot.
func (r *MongoDBRepository) SavePlot(ctx context.Context, plot models.Plot) error {
	if _, err := r.collection(plotsCollection).InsertOne(ctx, plot); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to insert plot %q on farm %s: %w", plot.Name, plot.FarmID, models.ErrPlotExists)
		}
		return fmt.Errorf("failed to insert plot %s: %w", plot.ID, err)
	}
	return nil
}

// GetPlot loads a plot by id.
func (r *MongoDBRepository) GetPlot(ctx context.Context, id string) (models.Plot, error) {
	var plot models.Plot
	err := r.collection(plotsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&plot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Plot{}, models.ErrPlotNotFound
		}
		return models.Plot{}, fmt.Errorf("failed to load plot %s: %w", id, err)
	}
	return plot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection(plotsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "farm_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create plot index: %w", err)
	}

	_, err = r.collection(recordsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create measurement record index: %w", err)
	}
	return nil
}
