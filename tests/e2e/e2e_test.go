//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - register → login → authenticated CRUD
//   - order creation explodes the BOM and locks stock
//   - replenishment completes the spawned sub-order
//   - order deletion returns locked stock to on-hand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GiacomoGuaresi/LiteERP/internal/config"
	"github.com/GiacomoGuaresi/LiteERP/internal/infra"
	"github.com/GiacomoGuaresi/LiteERP/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("liteerp_test"),
		tcPostgres.WithUsername("liteerp"),
		tcPostgres.WithPassword("liteerp"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	// Register + login.
	regResp := do(t, srv, "POST", "/users",
		jsonBody(t, map[string]string{
			"email": "admin@e2e.test", "password": "liteerp2026", "name": "Admin",
		}), "")
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	regResp.Body.Close()

	loginResp := do(t, srv, "POST", "/users/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "liteerp2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"accessToken"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createItem(t *testing.T, code, category string, onHand int) uint {
	t.Helper()
	resp := do(t, env.server, "POST", "/inventory",
		jsonBody(t, map[string]any{"code": code, "category": category, "quantityOnHand": onHand}),
		env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &item)
	return item.ID
}

func (env *testEnv) createEdge(t *testing.T, parent, child uint, qty int) {
	t.Helper()
	resp := do(t, env.server, "POST", "/bom",
		jsonBody(t, map[string]any{"parentProductId": parent, "childProductId": child, "quantityPerUnit": qty}),
		env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func (env *testEnv) getItem(t *testing.T, id uint) (onHand, locked int) {
	t.Helper()
	resp := do(t, env.server, "GET", fmt.Sprintf("/inventory/%d", id), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var item struct {
		QuantityOnHand int `json:"quantityOnHand"`
		QuantityLocked int `json:"quantityLocked"`
	}
	decodeJSON(t, resp, &item)
	return item.QuantityOnHand, item.QuantityLocked
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/inventory", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/inventory", nil, env.token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_OrderExplosionAndReplenishment(t *testing.T) {
	env := setupTestEnv(t)

	bike := env.createItem(t, "BIKE", "Finished", 0)
	wheel := env.createItem(t, "WHEEL", "Subassembly", 1)
	spoke := env.createItem(t, "SPOKE", "Raw", 4)
	env.createEdge(t, bike, wheel, 2)
	env.createEdge(t, wheel, spoke, 3)

	// 2 bikes → 4 wheels needed, 1 locked, sub-order for 3 wheels → 9 spokes
	// needed, 4 locked.
	orderResp := do(t, env.server, "POST", "/orders",
		jsonBody(t, map[string]any{"productId": bike, "quantityRequested": 2, "date": "2026-03-01"}),
		env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID      uint   `json:"id"`
		Status  string `json:"status"`
		Details []struct {
			ID               uint `json:"id"`
			QuantityRequired int  `json:"quantityRequired"`
			QuantityLocked   int  `json:"quantityLocked"`
		} `json:"details"`
	}
	decodeJSON(t, orderResp, &order)
	require.Len(t, order.Details, 1)
	assert.Equal(t, 4, order.Details[0].QuantityRequired)
	assert.Equal(t, 1, order.Details[0].QuantityLocked)

	onHand, locked := env.getItem(t, wheel)
	assert.Equal(t, 0, onHand)
	assert.Equal(t, 1, locked)
	onHand, locked = env.getItem(t, spoke)
	assert.Equal(t, 0, onHand)
	assert.Equal(t, 4, locked)

	listResp := do(t, env.server, "GET", "/orders", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(2), list.Total) // root + sub-order

	// 5 wheels arrive: 3 complete the sub-order, 2 lock onto the root detail.
	addResp := do(t, env.server, "POST", fmt.Sprintf("/inventory/%d/add", wheel),
		jsonBody(t, map[string]any{"quantity": 5}), env.token)
	require.Equal(t, http.StatusOK, addResp.StatusCode)
	addResp.Body.Close()

	onHand, locked = env.getItem(t, wheel)
	assert.Equal(t, 0, onHand)
	assert.Equal(t, 3, locked)

	detailsResp := do(t, env.server, "GET", fmt.Sprintf("/orders/%d/details", order.ID), nil, env.token)
	require.Equal(t, http.StatusOK, detailsResp.StatusCode)
	var details []struct {
		QuantityLocked int `json:"quantityLocked"`
	}
	decodeJSON(t, detailsResp, &details)
	require.Len(t, details, 1)
	assert.Equal(t, 3, details[0].QuantityLocked)
}

func TestE2E_StatusCascadeAndInvalidTransition(t *testing.T) {
	env := setupTestEnv(t)

	bike := env.createItem(t, "BIKE", "Finished", 0)
	wheel := env.createItem(t, "WHEEL", "Subassembly", 0)
	env.createEdge(t, bike, wheel, 2)

	orderResp := do(t, env.server, "POST", "/orders",
		jsonBody(t, map[string]any{"productId": bike, "quantityRequested": 1, "date": "2026-03-01"}),
		env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, orderResp, &order)

	// Skipping a step is a conflict.
	skipResp := do(t, env.server, "PATCH", fmt.Sprintf("/orders/%d/status", order.ID),
		jsonBody(t, map[string]any{"status": "Completed"}), env.token)
	assert.Equal(t, http.StatusConflict, skipResp.StatusCode)
	skipResp.Body.Close()

	stepResp := do(t, env.server, "PATCH", fmt.Sprintf("/orders/%d/status", order.ID),
		jsonBody(t, map[string]any{"status": "InProgress"}), env.token)
	require.Equal(t, http.StatusOK, stepResp.StatusCode)
	stepResp.Body.Close()

	// The spawned wheel sub-order followed.
	listResp := do(t, env.server, "GET", "/orders", nil, env.token)
	var list struct {
		Data []struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	decodeJSON(t, listResp, &list)
	for _, o := range list.Data {
		assert.Equal(t, "InProgress", o.Status)
	}
}

func TestE2E_DeleteOrderRestoresStock(t *testing.T) {
	env := setupTestEnv(t)

	bike := env.createItem(t, "BIKE", "Finished", 0)
	wheel := env.createItem(t, "WHEEL", "Subassembly", 5)
	env.createEdge(t, bike, wheel, 2)

	orderResp := do(t, env.server, "POST", "/orders",
		jsonBody(t, map[string]any{"productId": bike, "quantityRequested": 2, "date": "2026-03-01"}),
		env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, orderResp, &order)

	onHand, locked := env.getItem(t, wheel)
	require.Equal(t, 1, onHand)
	require.Equal(t, 4, locked)

	delResp := do(t, env.server, "DELETE", fmt.Sprintf("/orders/%d", order.ID), nil, env.token)
	require.Equal(t, http.StatusOK, delResp.StatusCode)
	delResp.Body.Close()

	onHand, locked = env.getItem(t, wheel)
	assert.Equal(t, 5, onHand)
	assert.Equal(t, 0, locked)
}
