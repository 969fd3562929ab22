//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	httpapi "github.com/edgeup/marketplace/internal/api/http"
	"github.com/edgeup/marketplace/internal/application/approval"
	"github.com/edgeup/marketplace/internal/application/auth"
	"github.com/edgeup/marketplace/internal/application/chat"
	"github.com/edgeup/marketplace/internal/application/favorite"
	"github.com/edgeup/marketplace/internal/application/negotiation"
	"github.com/edgeup/marketplace/internal/application/notification"
	"github.com/edgeup/marketplace/internal/application/order"
	"github.com/edgeup/marketplace/internal/application/product"
	"github.com/edgeup/marketplace/internal/application/review"
	"github.com/edgeup/marketplace/internal/application/user"
	"github.com/edgeup/marketplace/internal/infrastructure/events"
	"github.com/edgeup/marketplace/internal/infrastructure/postgres"
)

const testPassword = "Market9place"

type apiObject map[string]interface{}

func (o apiObject) str(key string) string {
	v, _ := o[key].(string)
	return v
}

func (o apiObject) num(key string) int {
	v, _ := o[key].(float64)
	return int(v)
}

func TestNegotiationLifecycleIntegration(t *testing.T) {
	server, cleanup := newTestServer(t)
	defer cleanup()

	admin := newClient(t)
	bootstrapAdmin(t, admin, server.URL)
	login(t, admin, server.URL, "admin@example.com")

	seller := registerAndLogin(t, server.URL, "seller@example.com", "Porto", "PT")
	buyer := registerAndLogin(t, server.URL, "buyer@example.com", "Braga", "PT")

	// seller becomes trusted
	var req apiObject
	expectStatus(t, doJSON(t, seller, http.MethodPost, server.URL+"/v1/trusted-requests",
		map[string]string{"pitch": "I restore and sell vintage lamps."}, &req), http.StatusCreated)
	expectStatus(t, doJSON(t, admin, http.MethodPost, server.URL+"/v1/trusted-requests/"+req.str("requestId")+"/review",
		map[string]string{"decision": "approve"}, nil), http.StatusOK)

	var prod apiObject
	expectStatus(t, doJSON(t, seller, http.MethodPost, server.URL+"/v1/products", map[string]interface{}{
		"title":          "Brass desk lamp",
		"category":       "Home",
		"price":          10000,
		"stock":          2,
		"autoRejectRule": "discount_pct > 50",
	}, &prod), http.StatusCreated)
	productID := prod.str("productId")

	// lowball offer is rejected by the seller rule
	var lowball apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodPost, server.URL+"/v1/negotiations", map[string]interface{}{
		"productId": productID, "offeredPrice": 4000, "quantity": 1,
	}, &lowball), http.StatusCreated)
	if lowball.str("status") != "REJECTED" {
		t.Fatalf("lowball status = %s, want REJECTED", lowball.str("status"))
	}

	// sellers cannot haggle with themselves
	expectStatus(t, doJSON(t, seller, http.MethodPost, server.URL+"/v1/negotiations", map[string]interface{}{
		"productId": productID, "offeredPrice": 9000, "quantity": 1,
	}, nil), http.StatusUnprocessableEntity)

	var offer apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodPost, server.URL+"/v1/negotiations", map[string]interface{}{
		"productId": productID, "offeredPrice": 8000, "quantity": 1,
	}, &offer), http.StatusCreated)
	if offer.str("status") != "PENDING" {
		t.Fatalf("offer status = %s, want PENDING", offer.str("status"))
	}

	// only the seller may answer
	expectStatus(t, doJSON(t, buyer, http.MethodPost, server.URL+"/v1/negotiations/"+offer.str("negotiationId")+"/respond",
		map[string]string{"decision": "accept"}, nil), http.StatusForbidden)

	var accepted struct {
		Negotiation apiObject `json:"negotiation"`
		Order       apiObject `json:"order"`
	}
	expectStatus(t, doJSON(t, seller, http.MethodPost, server.URL+"/v1/negotiations/"+offer.str("negotiationId")+"/respond",
		map[string]string{"decision": "accept"}, &accepted), http.StatusOK)
	if accepted.Negotiation.str("status") != "ORDERED" {
		t.Fatalf("negotiation status = %s, want ORDERED", accepted.Negotiation.str("status"))
	}
	if accepted.Order.num("price") != 8000 {
		t.Fatalf("order price = %d, want 8000", accepted.Order.num("price"))
	}
	if accepted.Order.str("shippingAddress") != "Braga, PT" {
		t.Fatalf("shipping address = %q", accepted.Order.str("shippingAddress"))
	}

	// a decided offer stays decided
	expectStatus(t, doJSON(t, seller, http.MethodPost, server.URL+"/v1/negotiations/"+offer.str("negotiationId")+"/respond",
		map[string]string{"decision": "reject"}, nil), http.StatusConflict)

	var after apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodGet, server.URL+"/v1/products/"+productID, nil, &after), http.StatusOK)
	if after.num("stock") != 1 {
		t.Fatalf("stock = %d, want 1", after.num("stock"))
	}

	var unread map[string]int
	expectStatus(t, doJSON(t, buyer, http.MethodGet, server.URL+"/v1/notifications/unread-count", nil, &unread), http.StatusOK)
	if unread["unread"] < 2 {
		t.Fatalf("buyer unread = %d, want at least 2", unread["unread"])
	}

	// the order moves through fulfilment and then accepts a review
	orderURL := server.URL + "/v1/orders/" + accepted.Order.str("orderId") + "/status"
	expectStatus(t, doJSON(t, buyer, http.MethodPost, orderURL, map[string]string{"status": "paid"}, nil), http.StatusOK)
	expectStatus(t, doJSON(t, seller, http.MethodPost, orderURL, map[string]string{"status": "shipped"}, nil), http.StatusOK)
	expectStatus(t, doJSON(t, seller, http.MethodPost, orderURL, map[string]string{"status": "delivered"}, nil), http.StatusOK)
	expectStatus(t, doJSON(t, buyer, http.MethodPost, server.URL+"/v1/products/"+productID+"/reviews",
		map[string]interface{}{"rating": 5, "comment": "Lovely lamp"}, nil), http.StatusCreated)

	// orders keep the product row alive so their historical price survives
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}
	defer pool.Close()
	_, err = pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		t.Fatalf("deleting an ordered product: err = %v, want foreign key violation", err)
	}
	var kept apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodGet, server.URL+"/v1/orders/"+accepted.Order.str("orderId"), nil, &kept), http.StatusOK)
	if kept.num("price") != 8000 {
		t.Fatalf("kept order price = %d, want 8000", kept.num("price"))
	}
}

func TestConcurrentAcceptIntegration(t *testing.T) {
	server, cleanup := newTestServer(t)
	defer cleanup()

	admin := newClient(t)
	bootstrapAdmin(t, admin, server.URL)
	login(t, admin, server.URL, "admin@example.com")
	buyer := registerAndLogin(t, server.URL, "buyer@example.com", "Lisbon", "PT")

	// admins may sell directly
	var prod apiObject
	expectStatus(t, doJSON(t, admin, http.MethodPost, server.URL+"/v1/products", map[string]interface{}{
		"title": "Vinyl record", "category": "Other", "price": 3000, "stock": 1,
	}, &prod), http.StatusCreated)

	var offer apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodPost, server.URL+"/v1/negotiations", map[string]interface{}{
		"productId": prod.str("productId"), "offeredPrice": 2500, "quantity": 1,
	}, &offer), http.StatusCreated)

	const attempts = 5
	statuses := make([]int, attempts)
	bodies := make([]apiObject, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i] = doJSON(t, admin, http.MethodPost,
				server.URL+"/v1/negotiations/"+offer.str("negotiationId")+"/respond",
				map[string]string{"decision": "accept"}, &bodies[i])
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, st := range statuses {
		switch st {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			// losers must observe the settled negotiation, not an empty shelf
			if code := bodies[i].str("error"); code != "INVALID_STATE" {
				t.Fatalf("losing accept error = %q, want INVALID_STATE", code)
			}
		default:
			t.Fatalf("unexpected status %d", st)
		}
	}
	if ok != 1 {
		t.Fatalf("successful accepts = %d, want 1", ok)
	}

	var orders []apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodGet, server.URL+"/v1/orders?as=buyer", nil, &orders), http.StatusOK)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}

	// stock is exhausted, so a direct purchase now fails
	var direct apiObject
	expectStatus(t, doJSON(t, buyer, http.MethodPost, server.URL+"/v1/orders", map[string]interface{}{
		"productId": prod.str("productId"), "quantity": 1,
	}, &direct), http.StatusConflict)
	if code := direct.str("error"); code != "OUT_OF_STOCK" {
		t.Fatalf("direct order error = %q, want OUT_OF_STOCK", code)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Errorf("marshal request: %v", err)
			return 0
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Errorf("new request: %v", err)
		return 0
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Errorf("%s %s: %v", method, url, err)
		return 0
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Errorf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func expectStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Timeout: 10 * time.Second, Jar: jar}
}

func bootstrapAdmin(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	expectStatus(t, doJSON(t, client, http.MethodPost, baseURL+"/v1/auth/bootstrap", map[string]string{
		"email": "admin@example.com", "password": testPassword, "name": "Admin",
	}, nil), http.StatusCreated)
}

func registerAndLogin(t *testing.T, baseURL, email, city, country string) *http.Client {
	t.Helper()
	client := newClient(t)
	expectStatus(t, doJSON(t, client, http.MethodPost, baseURL+"/v1/auth/register", map[string]string{
		"email": email, "password": testPassword, "name": fmt.Sprintf("User %s", email), "city": city, "country": country,
	}, nil), http.StatusCreated)
	login(t, client, baseURL, email)
	return client
}

func login(t *testing.T, client *http.Client, baseURL, email string) {
	t.Helper()
	expectStatus(t, doJSON(t, client, http.MethodPost, baseURL+"/v1/auth/login", map[string]string{
		"email": email, "password": testPassword,
	}, nil), http.StatusOK)
}

func newTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	dsn := testDatabaseURL(t)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}

	root := repoRoot(t)
	if err := postgres.RunMigrations(ctx, pool, filepath.Join(root, "internal", "migrations")); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	if err := resetDatabase(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("reset db: %v", err)
	}

	logger := zerolog.Nop()
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	negotiationStore := postgres.NewNegotiationStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	dispatcher := notification.NewDispatcher(notificationRepo, events.NewNoop(logger), logger)

	apiServer := httpapi.NewServer(httpapi.Deps{
		Auth:              auth.NewService(userRepo, sessionRepo, []byte("integration-secret"), 24*time.Hour, logger),
		Users:             user.NewService(userRepo, logger),
		Products:          product.NewService(productRepo, logger),
		Negotiations:      negotiation.NewService(negotiationStore, dispatcher, logger),
		Orders:            order.NewService(orderStore, userRepo, dispatcher, logger),
		Notifier:          notification.NewService(notificationRepo, logger),
		Chat:              chat.NewService(postgres.NewChatRepository(pool), userRepo, logger),
		Favorites:         favorite.NewService(postgres.NewFavoriteRepository(pool), productRepo, logger),
		Reviews:           review.NewService(postgres.NewReviewRepository(pool), productRepo, orderStore, dispatcher, logger),
		Approvals:         approval.NewService(postgres.NewApprovalRepository(pool), userRepo, dispatcher, logger),
		SessionCookieName: "marketplace_session",
	}, logger)
	server := httptest.NewServer(apiServer.Router())

	cleanup := func() {
		server.Close()
		pool.Close()
	}

	return server, cleanup
}

func testDatabaseURL(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	return ""
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		TRUNCATE TABLE
			favorites,
			trusted_requests,
			messages,
			conversations,
			notifications,
			reviews,
			orders,
			negotiations,
			products,
			sessions,
			users
		RESTART IDENTITY CASCADE
	`)
	return err
}
