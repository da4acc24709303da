package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/brasstrack/backend/internal/config"
	"github.com/brasstrack/backend/internal/handlers"
	appMiddleware "github.com/brasstrack/backend/internal/middleware"
	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gen := services.NewGenerator(cfg.FrontendBaseURL)

	var (
		categoryService services.CategoryService
		productService  services.ProductService
		itemService     services.ItemService
		userService     services.UserService
		statsService    services.StatsService
	)

	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		db, err := services.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}

		products := services.NewMongoProductService(db)
		categoryService = services.NewMongoCategoryService(db)
		productService = products
		itemService = services.NewMongoItemService(db, products, gen)
		userService = services.NewMongoUserService(db)
		statsService = services.NewMongoStatsService(db)
	} else {
		log.Printf("MONGO_URI not set, using JSON-file catalog in %s", cfg.DataDir)
		catalog, err := services.NewMemoryCatalogService(cfg.DataDir, gen)
		if err != nil {
			log.Fatalf("Failed to open catalog store: %v", err)
		}
		categoryService = catalog.Categories()
		productService = catalog.Products()
		itemService = catalog.Items()
		userService = catalog.Users()
		statsService = catalog
	}

	if err := userService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, "Administrator"); err != nil {
		log.Printf("Warning: failed to seed admin user: %v", err)
	}

	uploadService := services.NewUploadService(cfg.UploadDir)
	labelRenderer := services.NewLabelRenderer(gen, cfg.UploadDir)

	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	itemHandler := handlers.NewItemHandler(itemService, labelRenderer)
	statsHandler := handlers.NewStatsHandler(statsService)
	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.MaxUploadSizeMB)

	authenticate := appMiddleware.Authenticate(cfg.JWTSecret, userService)
	adminOnly := appMiddleware.RequireRole(models.RoleAdmin)
	adminOrStaff := appMiddleware.RequireRole(models.RoleAdmin, models.RoleStaff)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.With(authenticate).Get("/auth/me", authHandler.Me)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.With(authenticate, adminOnly).Post("/", categoryHandler.CreateCategory)
			r.With(authenticate, adminOnly).Delete("/{id}", categoryHandler.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.With(authenticate, adminOnly).Post("/", productHandler.CreateProduct)

			r.Route("/{id}", func(r chi.Router) {
				// Legacy shape: the id here is a category id.
				r.Get("/", productHandler.ListProductsByCategory)
				r.With(authenticate, adminOnly).Patch("/update-field", productHandler.UpdateProductField)
				r.With(authenticate, adminOnly).Delete("/", productHandler.DeleteProduct)
			})
		})

		// Public item-number lookup page.
		r.Get("/product/{itemNumber}", productHandler.GetProductByItemNumber)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.With(authenticate, adminOrStaff).Post("/", itemHandler.CreateItems)
			r.Get("/{itemSKU}", itemHandler.GetItemBySKU)
			r.Get("/{itemSKU}/label", itemHandler.GetItemLabel)
		})

		r.Get("/stats", statsHandler.GetStats)

		r.With(authenticate, adminOrStaff).Post("/upload", uploadHandler.Upload)
	})

	// Serve uploaded product photos.
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	log.Printf("Brasstrack API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
