package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brasstrack/backend/internal/models"
)

type MongoCategoryService struct {
	coll *mongo.Collection
}

type categoryDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoCategoryService(db *mongo.Database) *MongoCategoryService {
	return &MongoCategoryService{coll: db.Collection("categories")}
}

func categoryDocToModel(d categoryDoc) *models.Category {
	return &models.Category{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}

func (s *MongoCategoryService) Create(name string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	doc := categoryDoc{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	return categoryDocToModel(doc), nil
}

func (s *MongoCategoryService) List() ([]*models.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	categories := make([]*models.Category, 0)
	for cur.Next(ctx) {
		var d categoryDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		categories = append(categories, categoryDocToModel(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// Delete removes a category by id. Products referencing it keep their stale
// reference and resolve to a nil category in responses.
func (s *MongoCategoryService) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
