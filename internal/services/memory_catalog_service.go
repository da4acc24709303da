package services

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/storage"
)

// MemoryCatalogService is an in-memory implementation of every catalog
// interface, optionally persisted to a JSON file. It backs tests and the
// no-database dev mode.
type MemoryCatalogService struct {
	mu    sync.RWMutex
	store *storage.JSONStore
	gen   *Generator

	categories map[string]*models.Category
	products   map[string]*memProduct
	items      map[string]*models.Item
	itemBySKU  map[string]string // itemSKU -> itemID
	users      map[string]*memUser
}

// memProduct keeps the raw category reference; resolution to a CategoryRef
// happens on the way out, like the Mongo populate.
type memProduct struct {
	models.Product
	CategoryID string `json:"categoryId"`
}

type memUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type catalogSnapshot struct {
	Categories []*models.Category `json:"categories"`
	Products   []*memProduct      `json:"products"`
	Items      []*models.Item     `json:"items"`
	Users      []*memUser         `json:"users"`
}

// NewMemoryCatalogService creates the in-memory catalog. A non-empty dataDir
// enables JSON-file persistence across restarts.
func NewMemoryCatalogService(dataDir string, gen *Generator) (*MemoryCatalogService, error) {
	s := &MemoryCatalogService{
		gen:        gen,
		categories: make(map[string]*models.Category),
		products:   make(map[string]*memProduct),
		items:      make(map[string]*models.Item),
		itemBySKU:  make(map[string]string),
		users:      make(map[string]*memUser),
	}

	if dataDir != "" {
		store, err := storage.NewJSONStore(dataDir, "catalog.json")
		if err != nil {
			return nil, err
		}
		s.store = store

		var snap catalogSnapshot
		if err := store.Load(&snap); err != nil {
			return nil, err
		}
		for _, c := range snap.Categories {
			s.categories[c.ID] = c
		}
		for _, p := range snap.Products {
			s.products[p.ID] = p
		}
		for _, it := range snap.Items {
			it.Product = nil
			s.items[it.ID] = it
			s.itemBySKU[it.ItemSKU] = it.ID
		}
		for _, u := range snap.Users {
			s.users[u.ID] = u
		}
	}

	return s, nil
}

// persist writes a snapshot; callers hold the write lock.
func (s *MemoryCatalogService) persist() {
	if s.store == nil {
		return
	}

	snap := catalogSnapshot{
		Categories: make([]*models.Category, 0, len(s.categories)),
		Products:   make([]*memProduct, 0, len(s.products)),
		Items:      make([]*models.Item, 0, len(s.items)),
		Users:      make([]*memUser, 0, len(s.users)),
	}
	for _, c := range s.categories {
		snap.Categories = append(snap.Categories, c)
	}
	for _, p := range s.products {
		snap.Products = append(snap.Products, p)
	}
	for _, it := range s.items {
		stored := *it
		stored.Product = nil
		snap.Items = append(snap.Items, &stored)
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, u)
	}

	if err := s.store.Save(snap); err != nil {
		// Persistence is best effort in dev mode; the in-memory state stays
		// authoritative for this process.
		log.Printf("catalog snapshot save failed: %v", err)
	}
}

// --- categories ---

func (s *MemoryCatalogService) CreateCategory(name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return nil, ErrCategoryExists
		}
	}

	category := &models.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.categories[category.ID] = category
	s.persist()
	return category, nil
}

func (s *MemoryCatalogService) ListCategories() ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *MemoryCatalogService) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[id]; !exists {
		return ErrCategoryNotFound
	}
	delete(s.categories, id)
	s.persist()
	return nil
}

// --- products ---

func (s *MemoryCatalogService) CreateProduct(req *models.CreateProductRequest) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newSlug := ProductSlug(req.Name, req.ItemNumber)
	for _, p := range s.products {
		if p.ItemNumber == req.ItemNumber || p.Slug == newSlug {
			return nil, ErrDuplicateProduct
		}
	}

	now := time.Now().UTC()
	p := &memProduct{
		Product: models.Product{
			ID:              uuid.New().String(),
			Name:            req.Name,
			ItemNumber:      req.ItemNumber,
			Slug:            newSlug,
			ImageURL:        req.ImageURL,
			Description:     req.Description,
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
		},
		CategoryID: req.Category,
	}
	s.products[p.ID] = p
	s.persist()
	return s.resolveProduct(p), nil
}

func (s *MemoryCatalogService) ListProducts(query models.ListProductsQuery) (*models.ProductListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query.Normalize()

	matched := make([]*memProduct, 0, len(s.products))
	for _, p := range s.products {
		if query.Category != "" && p.CategoryID != query.Category {
			continue
		}
		if query.Search != "" && !productMatches(p, query.Search) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, query)

	total := int64(len(matched))
	start := (query.Page - 1) * query.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}

	products := make([]*models.Product, 0, end-start)
	for _, p := range matched[start:end] {
		products = append(products, s.resolveProduct(p))
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

func productMatches(p *memProduct, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.ItemNumber), needle) ||
		strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// leadsWithLetter reports whether an item number starts with A-Z or a-z.
func leadsWithLetter(itemNumber string) bool {
	if itemNumber == "" {
		return false
	}
	c := itemNumber[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// sortProducts applies the listing order. The item-number mode keeps the
// business rule: ascending puts alphabetic-leading item numbers first,
// descending puts numeric-leading ones first, then the item number itself in
// the requested direction.
func sortProducts(products []*memProduct, query models.ListProductsQuery) {
	asc := query.Sort == models.SortAsc

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]

		if query.SortBy == models.SortByCreatedAt {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}

		la, lb := leadsWithLetter(a.ItemNumber), leadsWithLetter(b.ItemNumber)
		if la != lb {
			if asc {
				return la
			}
			return lb
		}
		if asc {
			return a.ItemNumber < b.ItemNumber
		}
		return a.ItemNumber > b.ItemNumber
	})
}

func (s *MemoryCatalogService) ListProductsByCategory(categoryID string) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*models.Product, 0)
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			products = append(products, s.resolveProduct(p))
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ItemNumber < products[j].ItemNumber })
	return products, nil
}

func (s *MemoryCatalogService) GetProductByID(id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return s.resolveProduct(p), nil
}

func (s *MemoryCatalogService) GetProductByItemNumber(itemNumber string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ItemNumber == itemNumber {
			return s.resolveProduct(p), nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *MemoryCatalogService) UpdateProductField(id string, update *models.ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}

	switch update.Field {
	case models.FieldName:
		newSlug := ProductSlug(update.Text, p.ItemNumber)
		for _, other := range s.products {
			if other.ID != id && other.Slug == newSlug {
				return nil, ErrDuplicateProduct
			}
		}
		p.Name = update.Text
		p.Slug = newSlug
	case models.FieldDescription:
		p.Description = update.Text
	case models.FieldCategory:
		p.CategoryID = update.Text
	case models.FieldImageURL:
		p.ImageURL = update.Text
	case models.FieldItemNumber:
		for _, other := range s.products {
			if other.ID != id && other.ItemNumber == update.Text {
				return nil, ErrDuplicateProduct
			}
		}
		p.ItemNumber = update.Text
	case models.FieldItemSize:
		p.ItemSizes = update.Sizes
	case models.FieldMasterPack:
		p.MasterPack = update.Text
	case models.FieldCartonSize:
		p.CartonSize = update.Carton
	case models.FieldWeight:
		p.Weight = update.Text
	case models.FieldFinish:
		p.Finish = update.Text
	case models.FieldOtherMaterial:
		p.OtherMaterials = update.Materials
	case models.FieldPrice:
		p.Price = update.Number
	case models.FieldDiscountPercent:
		p.DiscountPercent = update.Number
	}
	p.UpdatedAt = time.Now().UTC()
	s.persist()
	return s.resolveProduct(p), nil
}

func (s *MemoryCatalogService) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(s.products, id)
	s.persist()
	return nil
}

// resolveProduct returns a detached copy with the category reference resolved
// to its display form; callers hold at least the read lock.
func (s *MemoryCatalogService) resolveProduct(p *memProduct) *models.Product {
	m := p.Product
	if c, ok := s.categories[p.CategoryID]; ok {
		m.Category = &models.CategoryRef{ID: c.ID, Name: c.Name}
	} else {
		m.Category = nil
	}
	return &m
}

// --- items ---

func (s *MemoryCatalogService) CreateItemBatch(productID string, quantity int) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[productID]
	if !exists {
		return nil, ErrProductNotFound
	}
	product := s.resolveProduct(p)

	units, err := s.gen.GenerateUnits(product, quantity)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if _, taken := s.itemBySKU[u.SKU]; taken {
			return nil, fmt.Errorf("item SKU collision: %s", u.SKU)
		}
	}

	created := make([]*models.Item, 0, quantity)
	for _, u := range units {
		item := &models.Item{
			ID:        uuid.New().String(),
			ProductID: productID,
			ItemSKU:   u.SKU,
			QRCode:    u.QRCode,
			CreatedAt: time.Now().UTC(),
		}
		s.items[item.ID] = item
		s.itemBySKU[item.ItemSKU] = item.ID

		out := *item
		out.Product = product
		created = append(created, &out)
	}
	s.persist()
	return created, nil
}

func (s *MemoryCatalogService) ListItems() ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*models.Item, 0, len(s.items))
	for _, it := range s.items {
		out := *it
		if p, ok := s.products[it.ProductID]; ok {
			out.Product = s.resolveProduct(p)
		}
		items = append(items, &out)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemSKU < items[j].ItemSKU })
	return items, nil
}

func (s *MemoryCatalogService) GetItemBySKU(itemSKU string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.itemBySKU[itemSKU]
	if !exists {
		return nil, ErrItemNotFound
	}
	it := s.items[id]

	out := *it
	if p, ok := s.products[it.ProductID]; ok {
		out.Product = s.resolveProduct(p)
	}
	return &out, nil
}

// --- users ---

func (s *MemoryCatalogService) Authenticate(email, password string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
				return nil, ErrInvalidPassword
			}
			return memUserToModel(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryCatalogService) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return memUserToModel(u), nil
}

func (s *MemoryCatalogService) EnsureAdmin(email, password, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &memUser{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.persist()
	return nil
}

func memUserToModel(u *memUser) *models.User {
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

// --- stats ---

func (s *MemoryCatalogService) Stats() (*models.StatsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	finishes := make(map[string]bool)
	for _, p := range s.products {
		if p.Finish != "" {
			finishes[p.Finish] = true
		}
	}

	return &models.StatsResponse{
		TotalCategories: int64(len(s.categories)),
		TotalProducts:   int64(len(s.products)),
		TotalItems:      int64(len(s.items)),
		TotalFinishes:   int64(len(finishes)),
	}, nil
}

// --- interface adapters ---
//
// The shared in-memory state satisfies the per-entity service interfaces
// through thin views, so handlers depend on the same contracts whether Mongo
// or memory backs them.

type memCategoryView struct{ c *MemoryCatalogService }
type memProductView struct{ c *MemoryCatalogService }
type memItemView struct{ c *MemoryCatalogService }
type memUserView struct{ c *MemoryCatalogService }

func (s *MemoryCatalogService) Categories() CategoryService { return memCategoryView{s} }
func (s *MemoryCatalogService) Products() ProductService { return memProductView{s} }
func (s *MemoryCatalogService) Items() ItemService { return memItemView{s} }
func (s *MemoryCatalogService) Users() UserService { return memUserView{s} }

func (v memCategoryView) Create(name string) (*models.Category, error) {
	return v.c.CreateCategory(name)
}
func (v memCategoryView) List() ([]*models.Category, error) { return v.c.ListCategories() }
func (v memCategoryView) Delete(id string) error { return v.c.DeleteCategory(id) }

func (v memProductView) Create(req *models.CreateProductRequest) (*models.Product, error) {
	return v.c.CreateProduct(req)
}
func (v memProductView) List(query models.ListProductsQuery) (*models.ProductListing, error) {
	return v.c.ListProducts(query)
}
func (v memProductView) ListByCategory(categoryID string) ([]*models.Product, error) {
	return v.c.ListProductsByCategory(categoryID)
}
func (v memProductView) GetByID(id string) (*models.Product, error) { return v.c.GetProductByID(id) }
func (v memProductView) GetByItemNumber(itemNumber string) (*models.Product, error) {
	return v.c.GetProductByItemNumber(itemNumber)
}
func (v memProductView) UpdateField(id string, update *models.ProductUpdate) (*models.Product, error) {
	return v.c.UpdateProductField(id, update)
}
func (v memProductView) Delete(id string) error { return v.c.DeleteProduct(id) }

func (v memItemView) CreateBatch(productID string, quantity int) ([]*models.Item, error) {
	return v.c.CreateItemBatch(productID, quantity)
}
func (v memItemView) List() ([]*models.Item, error) { return v.c.ListItems() }
func (v memItemView) GetBySKU(itemSKU string) (*models.Item, error) { return v.c.GetItemBySKU(itemSKU) }

func (v memUserView) Authenticate(email, password string) (*models.User, error) {
	return v.c.Authenticate(email, password)
}
func (v memUserView) GetByID(id string) (*models.User, error) { return v.c.GetUserByID(id) }
func (v memUserView) EnsureAdmin(email, password, name string) error {
	return v.c.EnsureAdmin(email, password, name)
}
