package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
)

// dbCounter gives every test its own in-memory database so state cannot
// leak between tests sharing the process.
var dbCounter int64

// setupApp wires the full HTTP stack against an in-memory SQLite database
// and returns the app plus a valid bearer token for a registered staff user.
func setupApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	return setupAppWithExpiryDays(t, models.DefaultExpiryThresholdDays)
}

// setupAppWithExpiryDays is setupApp with a configurable default window for
// the expiring listing.
func setupAppWithExpiryDays(t *testing.T, expiryDays int) (*fiber.App, string) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.User{},
	))

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	supplierRepo := repositories.NewGORMSupplierRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(productRepo, categoryRepo, supplierRepo, nil)
	categoryService := services.NewCategoryService(categoryRepo, productRepo)
	supplierService := services.NewSupplierService(supplierRepo, productRepo)
	authService := services.NewAuthService(userRepo, "test_jwt_secret")

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(productService, expiryDays).RegisterRoutes(protected)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(protected)
	handlers.NewSupplierHandler(supplierService).RegisterRoutes(protected)

	registerBody := map[string]string{
		"username": "warehouse1",
		"email":    "warehouse1@example.com",
		"password": "secret123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "warehouse1",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &loginResp)
	require.NotEmpty(t, loginResp.Token)

	return app, loginResp.Token
}

// doJSON issues a request through the in-process app. A non-empty token is
// sent as a bearer Authorization header.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// createCategory seeds a category over the API and returns its ID.
func createCategory(t *testing.T, app *fiber.App, token, name string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/categories/", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decodeJSON(t, resp, &category)
	return category.ID
}

// createSupplier seeds a supplier over the API and returns its ID.
func createSupplier(t *testing.T, app *fiber.App, token, name, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/suppliers/", token, map[string]string{
		"name":  name,
		"email": email,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var supplier models.Supplier
	decodeJSON(t, resp, &supplier)
	return supplier.ID
}

func productPayload(sku, barcode, price string, stock, minStock int) map[string]interface{} {
	return map[string]interface{}{
		"name":           "Organic Apples",
		"sku":            sku,
		"barcode":        barcode,
		"price":          price,
		"stock_quantity": stock,
		"min_stock_level": minStock,
	}
}

func TestAuthenticationGuard(t *testing.T) {
	app, _ := setupApp(t)

	t.Run("missing token is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/", "not-a-real-token", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProductLifecycle(t *testing.T) {
	app, token := setupApp(t)

	categoryID := createCategory(t, app, token, "Fruits")
	supplierID := createSupplier(t, app, token, "Fresh Farms", "a@b.com")

	payload := productPayload("ORG-APP-001", "1234567890123", "4.99", 50, 10)
	payload["category_id"] = categoryID
	payload["supplier_id"] = supplierID

	var created models.ProductResponse
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Fruits", created.CategoryName)
	assert.Equal(t, "Fresh Farms", created.SupplierName)
	assert.False(t, created.IsLowStock)
	assert.False(t, created.IsExpired)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("4.99")))

	t.Run("fetch by id resolves names again", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var fetched models.ProductResponse
		decodeJSON(t, resp, &fetched)
		assert.Equal(t, "Fruits", fetched.CategoryName)
		assert.Equal(t, "Fresh Farms", fetched.SupplierName)
	})

	t.Run("fetch by sku and barcode", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/sku/ORG-APP-001", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/products/barcode/1234567890123", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/products/sku/NOPE-000", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("full replace keeps the id", func(t *testing.T) {
		update := productPayload("ORG-APP-001", "1234567890123", "5.49", 40, 10)
		update["name"] = "Organic Red Apples"
		resp := doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, token, update)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.ProductResponse
		decodeJSON(t, resp, &updated)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Organic Red Apples", updated.Name)
		assert.True(t, updated.Price.Equal(decimal.RequireFromString("5.49")))
		// References omitted from the payload are retained, not cleared.
		assert.Equal(t, "Fruits", updated.CategoryName)
		assert.Equal(t, "Fresh Farms", updated.SupplierName)
	})

	t.Run("delete then fetch yields not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, token, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestProductValidationAndConflicts(t *testing.T) {
	app, token := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token,
		productPayload("ORG-APP-001", "1234567890123", "4.99", 50, 10))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("duplicate sku is a conflict", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token,
			productPayload("ORG-APP-001", "9999999999999", "4.99", 50, 10))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("duplicate barcode is a conflict", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token,
			productPayload("ORG-APP-002", "1234567890123", "4.99", 50, 10))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown category reference is a bad request", func(t *testing.T) {
		payload := productPayload("ORG-APP-003", "5555555555555", "4.99", 50, 10)
		payload["category_id"] = "11111111-2222-3333-4444-555555555555"
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token, payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-positive price is a bad request", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token,
			productPayload("ORG-APP-004", "4444444444444", "0", 50, 10))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete of a nonexistent product is not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/v1/products/11111111-2222-3333-4444-555555555555", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStockUpdates(t *testing.T) {
	app, token := setupApp(t)

	var created models.ProductResponse
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token,
		productPayload("ORG-APP-001", "1234567890123", "4.99", 50, 10))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &created)

	t.Run("stock patch sets the new quantity", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/v1/products/"+created.ID+"/stock", token,
			map[string]int{"quantity": 5})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.ProductResponse
		decodeJSON(t, resp, &updated)
		assert.Equal(t, 5, updated.StockQuantity)
		assert.True(t, updated.IsLowStock)
	})

	t.Run("low stock listing picks up the product", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/low-stock", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var products []models.ProductResponse
		decodeJSON(t, resp, &products)
		require.Len(t, products, 1)
		assert.Equal(t, created.ID, products[0].ID)
	})

	t.Run("negative quantity is rejected and stock is untouched", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/v1/products/"+created.ID+"/stock", token,
			map[string]int{"quantity": -1})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var fetched models.ProductResponse
		decodeJSON(t, resp, &fetched)
		assert.Equal(t, 5, fetched.StockQuantity)
	})

	t.Run("missing quantity is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/v1/products/"+created.ID+"/stock", token,
			map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("stock patch on an unknown product is not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/v1/products/11111111-2222-3333-4444-555555555555/stock", token,
			map[string]int{"quantity": 5})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestExpiryQueries(t *testing.T) {
	app, token := setupApp(t)

	dateIn := func(days int) string {
		return models.DateOnly(time.Now()).AddDate(0, 0, days).Format(time.RFC3339)
	}

	soon := productPayload("MLK-001", "1111111111111", "1.20", 20, 5)
	soon["name"] = "Milk"
	soon["is_perishable"] = true
	soon["expiration_date"] = dateIn(3)

	far := productPayload("CHS-001", "2222222222222", "6.80", 15, 5)
	far["name"] = "Cheese"
	far["is_perishable"] = true
	far["expiration_date"] = dateIn(30)

	gone := productPayload("YOG-001", "3333333333333", "0.99", 8, 5)
	gone["name"] = "Yogurt"
	gone["is_perishable"] = true
	gone["expiration_date"] = dateIn(-2)

	dry := productPayload("RIC-001", "4444444444444", "2.50", 30, 5)
	dry["name"] = "Rice"

	for _, payload := range []map[string]interface{}{soon, far, gone, dry} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token, payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	listNames := func(path string) []string {
		resp := doJSON(t, app, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var products []models.ProductResponse
		decodeJSON(t, resp, &products)
		names := make([]string, 0, len(products))
		for _, p := range products {
			names = append(names, p.Name)
		}
		return names
	}

	t.Run("default expiring window excludes expired and distant products", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Milk"}, listNames("/api/v1/products/expiring"))
	})

	t.Run("custom window widens the match", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Milk", "Cheese"}, listNames("/api/v1/products/expiring?days=31"))
	})

	t.Run("window below the earliest date matches nothing", func(t *testing.T) {
		assert.Empty(t, listNames("/api/v1/products/expiring?days=2"))
	})

	t.Run("configured default widens the bare listing", func(t *testing.T) {
		wideApp, wideToken := setupAppWithExpiryDays(t, 31)

		for _, payload := range []map[string]interface{}{soon, far} {
			resp := doJSON(t, wideApp, http.MethodPost, "/api/v1/products/", wideToken, payload)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		resp := doJSON(t, wideApp, http.MethodGet, "/api/v1/products/expiring", wideToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var products []models.ProductResponse
		decodeJSON(t, resp, &products)
		names := make([]string, 0, len(products))
		for _, p := range products {
			names = append(names, p.Name)
		}
		assert.ElementsMatch(t, []string{"Milk", "Cheese"}, names)
	})

	t.Run("expired listing only returns past dates", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Yogurt"}, listNames("/api/v1/products/expired"))
	})

	t.Run("perishable listing ignores dates entirely", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Milk", "Cheese", "Yogurt"}, listNames("/api/v1/products/perishable"))
	})
}

func TestInventoryValue(t *testing.T) {
	app, token := setupApp(t)

	t.Run("empty inventory is worth zero", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/inventory-value", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result struct {
			TotalValue decimal.Decimal `json:"total_value"`
		}
		decodeJSON(t, resp, &result)
		assert.True(t, result.TotalValue.IsZero())
	})

	t.Run("value sums price times quantity", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token,
			productPayload("ORG-APP-001", "1234567890123", "4.99", 50, 10))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		second := productPayload("HNY-001", "7777777777777", "9.99", 10, 2)
		second["name"] = "Honey"
		resp = doJSON(t, app, http.MethodPost, "/api/v1/products/", token, second)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/products/inventory-value", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result struct {
			TotalValue decimal.Decimal `json:"total_value"`
		}
		decodeJSON(t, resp, &result)
		assert.True(t, result.TotalValue.Equal(decimal.RequireFromString("349.40")),
			"got %s", result.TotalValue)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	app, token := setupApp(t)

	categoryID := createCategory(t, app, token, "Fruits")

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/categories/", token, map[string]string{"name": "Fruits"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/categories/search?name=FRU", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var categories []models.Category
		decodeJSON(t, resp, &categories)
		require.Len(t, categories, 1)
		assert.Equal(t, "Fruits", categories[0].Name)
	})

	t.Run("referenced category cannot be deleted", func(t *testing.T) {
		payload := productPayload("ORG-APP-001", "1234567890123", "4.99", 50, 10)
		payload["category_id"] = categoryID
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token, payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var product models.ProductResponse
		decodeJSON(t, resp, &product)

		resp = doJSON(t, app, http.MethodDelete, "/api/v1/categories/"+categoryID, token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		// Once the product is gone the category can go too.
		resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+product.ID, token, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp = doJSON(t, app, http.MethodDelete, "/api/v1/categories/"+categoryID, token, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("listing products for an unknown category is not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/products/category/11111111-2222-3333-4444-555555555555", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSupplierEndpoints(t *testing.T) {
	app, token := setupApp(t)

	supplierID := createSupplier(t, app, token, "Fresh Farms", "a@b.com")

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/suppliers/", token, map[string]string{
			"name":  "Other Farms",
			"email": "a@b.com",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("suppliers without email never collide", func(t *testing.T) {
		for _, name := range []string{"No Email One", "No Email Two"} {
			resp := doJSON(t, app, http.MethodPost, "/api/v1/suppliers/", token, map[string]string{"name": name})
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
		}
	})

	t.Run("search by contact person", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/v1/suppliers/"+supplierID, token, map[string]string{
			"name":           "Fresh Farms",
			"email":          "a@b.com",
			"contact_person": "Alex Doe",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/suppliers/search?contact_person=alex", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var suppliers []models.Supplier
		decodeJSON(t, resp, &suppliers)
		require.Len(t, suppliers, 1)
		assert.Equal(t, "Fresh Farms", suppliers[0].Name)
	})

	t.Run("referenced supplier cannot be deleted", func(t *testing.T) {
		payload := productPayload("ORG-APP-002", "8888888888888", "4.99", 50, 10)
		payload["supplier_id"] = supplierID
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products/", token, payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, app, http.MethodDelete, "/api/v1/suppliers/"+supplierID, token, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestAuthEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "warehouse1",
			"email":    "other@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "warehouse1",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
