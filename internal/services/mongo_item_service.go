package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brasstrack/backend/internal/models"
)

type MongoItemService struct {
	items    *mongo.Collection
	products *MongoProductService
	gen      *Generator
}

type itemDoc struct {
	ID        string    `bson:"_id"`
	ProductID string    `bson:"product"`
	ItemSKU   string    `bson:"item_sku"`
	QRCode    string    `bson:"qr_code"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoItemService(db *mongo.Database, products *MongoProductService, gen *Generator) *MongoItemService {
	return &MongoItemService{
		items:    db.Collection("items"),
		products: products,
		gen:      gen,
	}
}

func itemDocToModel(d itemDoc) *models.Item {
	return &models.Item{
		ID:        d.ID,
		ProductID: d.ProductID,
		ItemSKU:   d.ItemSKU,
		QRCode:    d.QRCode,
		CreatedAt: d.CreatedAt,
	}
}

// CreateBatch manufactures quantity unit records for one product. QR encoding
// runs concurrently, inserts run in order. The batch is not transactional: if
// an insert fails, the units already written are compensating-deleted before
// the error is reported, so a failed request never leaves stray units behind.
func (s *MongoItemService) CreateBatch(productID string, quantity int) ([]*models.Item, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}

	units, err := s.gen.GenerateUnits(product, quantity)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	created := make([]*models.Item, 0, quantity)
	createdIDs := make([]string, 0, quantity)
	for _, u := range units {
		doc := itemDoc{
			ID:        uuid.New().String(),
			ProductID: productID,
			ItemSKU:   u.SKU,
			QRCode:    u.QRCode,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := s.items.InsertOne(ctx, doc); err != nil {
			s.rollback(createdIDs)
			return nil, err
		}
		m := itemDocToModel(doc)
		m.Product = product
		created = append(created, m)
		createdIDs = append(createdIDs, doc.ID)
	}

	return created, nil
}

func (s *MongoItemService) rollback(ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	if _, err := s.items.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		log.Printf("[CreateBatch] rollback failed for %d items: %v", len(ids), err)
	}
}

func (s *MongoItemService) List() ([]*models.Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	cur, err := s.items.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]itemDoc, 0)
	for cur.Next(ctx) {
		var d itemDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return s.resolveProducts(ctx, docs)
}

func (s *MongoItemService) GetBySKU(itemSKU string) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	var d itemDoc
	if err := s.items.FindOne(ctx, bson.M{"item_sku": itemSKU}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	m := itemDocToModel(d)
	product, err := s.products.GetByID(d.ProductID)
	if err != nil && err != ErrProductNotFound {
		return nil, err
	}
	m.Product = product
	return m, nil
}

// resolveProducts attaches product records (category included) to items with
// a single batch lookup per referenced product set.
func (s *MongoItemService) resolveProducts(ctx context.Context, docs []itemDoc) ([]*models.Item, error) {
	ids := make([]string, 0, len(docs))
	seen := make(map[string]bool)
	for _, d := range docs {
		if !seen[d.ProductID] {
			seen[d.ProductID] = true
			ids = append(ids, d.ProductID)
		}
	}

	byID := make(map[string]*models.Product)
	if len(ids) > 0 {
		cur, err := s.products.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		pdocs := make([]productDoc, 0, len(ids))
		for cur.Next(ctx) {
			var pd productDoc
			if err := cur.Decode(&pd); err != nil {
				return nil, err
			}
			pdocs = append(pdocs, pd)
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}

		resolved, err := s.products.resolveMany(ctx, pdocs)
		if err != nil {
			return nil, err
		}
		for _, p := range resolved {
			byID[p.ID] = p
		}
	}

	items := make([]*models.Item, 0, len(docs))
	for _, d := range docs {
		m := itemDocToModel(d)
		m.Product = byID[d.ProductID]
		items = append(items, m)
	}
	return items, nil
}
