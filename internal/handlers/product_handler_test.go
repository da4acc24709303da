package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

type testEnv struct {
	catalog *services.MemoryCatalogService
	router  *chi.Mux
}

// newTestEnv wires the handlers over the in-memory catalog with the same
// route shapes the server registers, minus the access gate.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gen := services.NewGenerator("http://localhost:5173")
	catalog, err := services.NewMemoryCatalogService("", gen)
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}

	categoryHandler := NewCategoryHandler(catalog.Categories())
	productHandler := NewProductHandler(catalog.Products())
	itemHandler := NewItemHandler(catalog.Items(), services.NewLabelRenderer(gen, t.TempDir()))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/categories", categoryHandler.CreateCategory)
		r.Get("/categories", categoryHandler.ListCategories)
		r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

		r.Get("/products", productHandler.ListProducts)
		r.Post("/products", productHandler.CreateProduct)
		r.Get("/products/{id}", productHandler.ListProductsByCategory)
		r.Patch("/products/{id}/update-field", productHandler.UpdateProductField)
		r.Delete("/products/{id}", productHandler.DeleteProduct)
		r.Get("/product/{itemNumber}", productHandler.GetProductByItemNumber)

		r.Post("/items", itemHandler.CreateItems)
		r.Get("/items", itemHandler.ListItems)
		r.Get("/items/{itemSKU}", itemHandler.GetItemBySKU)
		r.Get("/items/{itemSKU}/label", itemHandler.GetItemLabel)
	})

	return &testEnv{catalog: catalog, router: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// mustCreateCategory creates a category over the API and returns its id.
func (e *testEnv) mustCreateCategory(t *testing.T, name string) string {
	t.Helper()

	rec := e.do(t, "POST", "/api/categories", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category %q: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	var resp struct {
		Data models.Category `json:"data"`
	}
	decodeInto(t, rec, &resp)
	return resp.Data.ID
}

func (e *testEnv) mustCreateProduct(t *testing.T, req models.CreateProductRequest) *models.Product {
	t.Helper()

	rec := e.do(t, "POST", "/api/products", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product %q: status %d, body %s", req.ItemNumber, rec.Code, rec.Body.String())
	}
	var resp models.ProductResponse
	decodeInto(t, rec, &resp)
	return resp.Product
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	catID := env.mustCreateCategory(t, "Taps")

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/products", models.CreateProductRequest{
			Name:       "Classic Tap",
			ItemNumber: "A100",
			Category:   catID,
			Price:      25,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var resp models.ProductResponse
		decodeInto(t, rec, &resp)
		if !resp.Success {
			t.Fatal("expected success response")
		}
		if resp.Product.Slug != "classic-tap-a100" {
			t.Errorf("slug = %q, want classic-tap-a100", resp.Product.Slug)
		}
		if resp.Product.Category == nil || resp.Product.Category.Name != "Taps" {
			t.Errorf("category = %+v, want Taps", resp.Product.Category)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/products", models.CreateProductRequest{Name: "Nameless"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		decodeInto(t, rec, &resp)
		for _, field := range []string{"itemNumber", "category", "price"} {
			if _, ok := resp.Errors[field]; !ok {
				t.Errorf("missing validation error for %q", field)
			}
		}
	})

	t.Run("duplicate item number", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/products", models.CreateProductRequest{
			Name:       "Second Classic Tap",
			ItemNumber: "A100",
			Category:   catID,
			Price:      30,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)
	taps := env.mustCreateCategory(t, "Taps")
	handles := env.mustCreateCategory(t, "Handles")

	env.mustCreateProduct(t, models.CreateProductRequest{Name: "Classic Tap", ItemNumber: "A100", Category: taps, Price: 25})
	env.mustCreateProduct(t, models.CreateProductRequest{Name: "Bar Handle", ItemNumber: "900", Category: handles, Price: 8})
	env.mustCreateProduct(t, models.CreateProductRequest{Name: "Round Knob", ItemNumber: "B5", Category: handles, Price: 4})

	t.Run("default listing", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/products", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var listing models.ProductListing
		decodeInto(t, rec, &listing)
		if listing.TotalProducts != 3 {
			t.Fatalf("totalProducts = %d, want 3", listing.TotalProducts)
		}
		if listing.CurrentPage != 1 || listing.SortOrder != models.SortDesc {
			t.Errorf("defaults not applied: page %d order %s", listing.CurrentPage, listing.SortOrder)
		}
		// Descending puts numeric-leading item numbers ahead of alpha-leading.
		if got := listing.Products[0].ItemNumber; got != "900" {
			t.Errorf("first item number = %q, want 900", got)
		}
	})

	t.Run("ascending listing", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/products?sort=asc", nil)
		var listing models.ProductListing
		decodeInto(t, rec, &listing)
		want := []string{"A100", "B5", "900"}
		for i, p := range listing.Products {
			if p.ItemNumber != want[i] {
				t.Fatalf("position %d: %q, want %q", i, p.ItemNumber, want[i])
			}
		}
	})

	t.Run("search", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/products?search=handle", nil)
		var listing models.ProductListing
		decodeInto(t, rec, &listing)
		if listing.TotalProducts != 1 || listing.Products[0].ItemNumber != "900" {
			t.Fatalf("search result = %+v", listing.Products)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/products?category="+handles, nil)
		var listing models.ProductListing
		decodeInto(t, rec, &listing)
		if listing.TotalProducts != 2 {
			t.Fatalf("totalProducts = %d, want 2", listing.TotalProducts)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/products?sort=asc&page=2&limit=2", nil)
		var listing models.ProductListing
		decodeInto(t, rec, &listing)
		if listing.TotalPages != 2 || listing.CurrentPage != 2 {
			t.Fatalf("pages = %d/%d", listing.CurrentPage, listing.TotalPages)
		}
		if len(listing.Products) != 1 || listing.Products[0].ItemNumber != "900" {
			t.Fatalf("page 2 = %+v", listing.Products)
		}
	})

	t.Run("malformed page falls back to defaults", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/products?page=abc&limit=-3", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var listing models.ProductListing
		decodeInto(t, rec, &listing)
		if listing.CurrentPage != 1 {
			t.Errorf("currentPage = %d, want 1", listing.CurrentPage)
		}
	})
}

func TestListProductsByCategory(t *testing.T) {
	env := newTestEnv(t)
	taps := env.mustCreateCategory(t, "Taps")
	handles := env.mustCreateCategory(t, "Handles")
	env.mustCreateProduct(t, models.CreateProductRequest{Name: "Classic Tap", ItemNumber: "A100", Category: taps, Price: 25})
	env.mustCreateProduct(t, models.CreateProductRequest{Name: "Bar Handle", ItemNumber: "900", Category: handles, Price: 8})

	rec := env.do(t, "GET", "/api/products/"+taps, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data []*models.Product `json:"data"`
	}
	decodeInto(t, rec, &resp)
	if len(resp.Data) != 1 || resp.Data[0].ItemNumber != "A100" {
		t.Fatalf("products = %+v", resp.Data)
	}
}

func TestGetProductByItemNumber(t *testing.T) {
	env := newTestEnv(t)
	taps := env.mustCreateCategory(t, "Taps")
	env.mustCreateProduct(t, models.CreateProductRequest{Name: "Classic Tap", ItemNumber: "A100", Category: taps, Price: 25})

	rec := env.do(t, "GET", "/api/product/A100", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.ProductResponse
	decodeInto(t, rec, &resp)
	if resp.Product.Name != "Classic Tap" {
		t.Errorf("name = %q", resp.Product.Name)
	}

	if rec := env.do(t, "GET", "/api/product/Z999", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown item number: status %d, want 404", rec.Code)
	}
}

func TestUpdateProductField(t *testing.T) {
	env := newTestEnv(t)
	taps := env.mustCreateCategory(t, "Taps")
	product := env.mustCreateProduct(t, models.CreateProductRequest{Name: "Classic Tap", ItemNumber: "A100", Category: taps, Price: 25})

	t.Run("rename re-derives slug", func(t *testing.T) {
		rec := env.do(t, "PATCH", "/api/products/"+product.ID+"/update-field",
			map[string]any{"field": "name", "value": "Modern Tap"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp models.ProductResponse
		decodeInto(t, rec, &resp)
		if resp.Product.Name != "Modern Tap" || resp.Product.Slug != "modern-tap-a100" {
			t.Errorf("product = %q / %q", resp.Product.Name, resp.Product.Slug)
		}
	})

	t.Run("price update", func(t *testing.T) {
		rec := env.do(t, "PATCH", "/api/products/"+product.ID+"/update-field",
			map[string]any{"field": "price", "value": 42.5})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp models.ProductResponse
		decodeInto(t, rec, &resp)
		if resp.Product.Price != 42.5 {
			t.Errorf("price = %v", resp.Product.Price)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := env.do(t, "PATCH", "/api/products/"+product.ID+"/update-field",
			map[string]any{"field": "slug", "value": "injected"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := env.do(t, "PATCH", "/api/products/no-such-id/update-field",
			map[string]any{"field": "price", "value": 10})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	taps := env.mustCreateCategory(t, "Taps")
	product := env.mustCreateProduct(t, models.CreateProductRequest{Name: "Classic Tap", ItemNumber: "A100", Category: taps, Price: 25})

	if rec := env.do(t, "DELETE", "/api/products/"+product.ID, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec := env.do(t, "GET", "/api/product/A100", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("lookup after delete: status %d, want 404", rec.Code)
	}
	if rec := env.do(t, "DELETE", "/api/products/"+product.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d, want 404", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	id := env.mustCreateCategory(t, "Taps")

	t.Run("duplicate name", func(t *testing.T) {
		rec := env.do(t, "POST", "/api/categories", map[string]string{"name": "Taps"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, "GET", "/api/categories", nil)
		var resp struct {
			Data []*models.Category `json:"data"`
		}
		decodeInto(t, rec, &resp)
		if len(resp.Data) != 1 || resp.Data[0].Name != "Taps" {
			t.Fatalf("categories = %+v", resp.Data)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if rec := env.do(t, "DELETE", "/api/categories/"+id, nil); rec.Code != http.StatusOK {
			t.Fatalf("delete: status %d", rec.Code)
		}
		if rec := env.do(t, "DELETE", "/api/categories/"+id, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("second delete: status %d, want 404", rec.Code)
		}
	})
}
