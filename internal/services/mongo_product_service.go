package services

import (
	"context"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brasstrack/backend/internal/models"
)

type MongoProductService struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

type productDoc struct {
	ID              string              `bson:"_id"`
	Name            string              `bson:"name"`
	ItemNumber      string              `bson:"item_number"`
	Slug            string              `bson:"slug"`
	ImageURL        string              `bson:"image_url,omitempty"`
	Description     string              `bson:"description,omitempty"`
	CategoryID      string              `bson:"category"`
	ItemSizes       []models.Dimensions `bson:"item_sizes,omitempty"`
	MasterPack      string              `bson:"master_pack,omitempty"`
	CartonSize      models.Dimensions   `bson:"carton_size,omitempty"`
	Weight          string              `bson:"weight,omitempty"`
	Finish          string              `bson:"finish,omitempty"`
	OtherMaterials  []string            `bson:"other_materials,omitempty"`
	Price           float64             `bson:"price"`
	DiscountPercent float64             `bson:"discount_percent,omitempty"`
	CreatedAt       time.Time           `bson:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at"`
}

func NewMongoProductService(db *mongo.Database) *MongoProductService {
	return &MongoProductService{
		products:   db.Collection("products"),
		categories: db.Collection("categories"),
	}
}

func productDocToModel(d productDoc) *models.Product {
	return &models.Product{
		ID:              d.ID,
		Name:            d.Name,
		ItemNumber:      d.ItemNumber,
		Slug:            d.Slug,
		ImageURL:        d.ImageURL,
		Description:     d.Description,
		Category:        nil, // resolved separately
		ItemSizes:       d.ItemSizes,
		MasterPack:      d.MasterPack,
		CartonSize:      d.CartonSize,
		Weight:          d.Weight,
		Finish:          d.Finish,
		OtherMaterials:  d.OtherMaterials,
		Price:           d.Price,
		DiscountPercent: d.DiscountPercent,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (s *MongoProductService) Create(req *models.CreateProductRequest) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := productDoc{
		ID:              uuid.New().String(),
		Name:            req.Name,
		ItemNumber:      req.ItemNumber,
		Slug:            ProductSlug(req.Name, req.ItemNumber),
		ImageURL:        req.ImageURL,
		Description:     req.Description,
		CategoryID:      req.Category,
		ItemSizes:       req.ItemSizes,
		MasterPack:      req.MasterPack,
		CartonSize:      req.CartonSize,
		Weight:          req.Weight,
		Finish:          req.Finish,
		OtherMaterials:  req.OtherMaterials,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateProduct
		}
		return nil, err
	}

	return s.resolveOne(ctx, doc)
}

// List answers search + filter + sort + pagination in one shot.
//
// The default ordering is deliberate: whether the item number leads with a
// letter sorts before the item number itself, and ascending requests place
// alphabetic-leading numbers first while descending requests place
// numeric-leading numbers first.
func (s *MongoProductService) List(query models.ListProductsQuery) (*models.ProductListing, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	query.Normalize()

	filter := bson.M{}
	if query.Search != "" {
		// Quote metacharacters so arbitrary input stays a substring match.
		re := primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"item_number": re},
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}

	dir := -1
	if query.Sort == models.SortAsc {
		dir = 1
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
	}
	switch query.SortBy {
	case models.SortByCreatedAt:
		pipeline = append(pipeline,
			bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: dir}}}},
		)
	default:
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{
				"is_alpha": bson.M{"$regexMatch": bson.M{
					"input": "$item_number",
					"regex": "^[A-Za-z]",
				}},
			}}},
			// ASC: alpha-leading first. DESC: numeric-leading first.
			bson.D{{Key: "$sort", Value: bson.D{
				{Key: "is_alpha", Value: -dir},
				{Key: "item_number", Value: dir},
			}}},
		)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$skip", Value: int64(query.Page-1) * int64(query.Limit)}},
		bson.D{{Key: "$limit", Value: int64(query.Limit)}},
	)

	cur, err := s.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]productDoc, 0)
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	products, err := s.resolveMany(ctx, docs)
	if err != nil {
		return nil, err
	}

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.ProductListing{
		Success:       true,
		Products:      products,
		TotalProducts: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(query.Limit))),
		CurrentPage:   query.Page,
		SortBy:        query.SortBy,
		SortOrder:     query.Sort,
	}, nil
}

func (s *MongoProductService) ListByCategory(categoryID string) ([]*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	cur, err := s.products.Find(ctx, bson.M{"category": categoryID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]productDoc, 0)
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return s.resolveMany(ctx, docs)
}

func (s *MongoProductService) GetByID(id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	var d productDoc
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.resolveOne(ctx, d)
}

func (s *MongoProductService) GetByItemNumber(itemNumber string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	var d productDoc
	if err := s.products.FindOne(ctx, bson.M{"item_number": itemNumber}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.resolveOne(ctx, d)
}

// UpdateField applies one decoded field update. Editing the name re-derives
// the slug from the new name and the current item number; no other field
// touches the slug.
func (s *MongoProductService) UpdateField(id string, update *models.ProductUpdate) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	var existing productDoc
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	switch update.Field {
	case models.FieldName:
		set["name"] = update.Text
		set["slug"] = ProductSlug(update.Text, existing.ItemNumber)
	case models.FieldDescription:
		set["description"] = update.Text
	case models.FieldCategory:
		set["category"] = update.Text
	case models.FieldImageURL:
		set["image_url"] = update.Text
	case models.FieldItemNumber:
		set["item_number"] = update.Text
	case models.FieldItemSize:
		set["item_sizes"] = update.Sizes
	case models.FieldMasterPack:
		set["master_pack"] = update.Text
	case models.FieldCartonSize:
		set["carton_size"] = update.Carton
	case models.FieldWeight:
		set["weight"] = update.Text
	case models.FieldFinish:
		set["finish"] = update.Text
	case models.FieldOtherMaterial:
		set["other_materials"] = update.Materials
	case models.FieldPrice:
		set["price"] = update.Number
	case models.FieldDiscountPercent:
		set["discount_percent"] = update.Number
	}

	res := s.products.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated productDoc
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateProduct
		}
		return nil, err
	}

	return s.resolveOne(ctx, updated)
}

func (s *MongoProductService) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *MongoProductService) resolveOne(ctx context.Context, d productDoc) (*models.Product, error) {
	products, err := s.resolveMany(ctx, []productDoc{d})
	if err != nil {
		return nil, err
	}
	return products[0], nil
}

// resolveMany attaches category names to product models with a single batch
// lookup. Unknown references resolve to a nil category.
func (s *MongoProductService) resolveMany(ctx context.Context, docs []productDoc) ([]*models.Product, error) {
	ids := make([]string, 0, len(docs))
	seen := make(map[string]bool)
	for _, d := range docs {
		if d.CategoryID != "" && !seen[d.CategoryID] {
			seen[d.CategoryID] = true
			ids = append(ids, d.CategoryID)
		}
	}

	refs := make(map[string]*models.CategoryRef)
	if len(ids) > 0 {
		cur, err := s.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var c categoryDoc
			if err := cur.Decode(&c); err != nil {
				return nil, err
			}
			refs[c.ID] = &models.CategoryRef{ID: c.ID, Name: c.Name}
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}
	}

	products := make([]*models.Product, 0, len(docs))
	for _, d := range docs {
		m := productDocToModel(d)
		m.Category = refs[d.CategoryID]
		products = append(products, m)
	}
	return products, nil
}
