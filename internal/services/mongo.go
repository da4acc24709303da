package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brasstrack/backend/internal/models"
)

const mongoOpTimeout = 10 * time.Second

// ConnectMongo connects, pings and ensures the unique indexes the catalog
// relies on. Index creation is best-effort.
func ConnectMongo(ctx context.Context, mongoURI, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)

	unique := options.Index().SetUnique(true)
	_, _ = db.Collection("categories").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
	})
	_, _ = db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "item_number", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	_, _ = db.Collection("items").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "item_sku", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "product", Value: 1}}},
	})
	_, _ = db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})

	log.Printf("MongoDB connected: db=%s", dbName)
	return db, nil
}

type MongoStatsService struct {
	categories *mongo.Collection
	products   *mongo.Collection
	items      *mongo.Collection
}

func NewMongoStatsService(db *mongo.Database) *MongoStatsService {
	return &MongoStatsService{
		categories: db.Collection("categories"),
		products:   db.Collection("products"),
		items:      db.Collection("items"),
	}
}

func (s *MongoStatsService) Stats() (*models.StatsResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	totalCategories, err := s.categories.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	totalItems, err := s.items.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	// Finish is a free-text product attribute, so the finish count is the
	// number of distinct non-empty values in use.
	finishes, err := s.products.Distinct(ctx, "finish", bson.M{"finish": bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		TotalCategories: totalCategories,
		TotalProducts:   totalProducts,
		TotalItems:      totalItems,
		TotalFinishes:   int64(len(finishes)),
	}, nil
}
