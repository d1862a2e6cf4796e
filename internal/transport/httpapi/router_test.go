package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
	"github.com/samantha-blablabla/MyVault-sub000/internal/market"
	"github.com/samantha-blablabla/MyVault-sub000/internal/platform/user"
	"github.com/samantha-blablabla/MyVault-sub000/internal/receipt"
	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi/handler"
	"github.com/samantha-blablabla/MyVault-sub000/internal/transport/httpapi/middleware"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

const (
	testEmail    = "admin@myvault.local"
	testPassword = "correct-horse"
)

// memTxStore is an in-memory TransactionStore mirror
type memTxStore struct {
	mu  sync.Mutex
	txs []ledger.Transaction
}

func (s *memTxStore) Save(_ context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return nil
}

func (s *memTxStore) Update(_ context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == tx.ID {
			s.txs[i] = tx
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *memTxStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *memTxStore) List(_ context.Context) ([]ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// memStateStore is an in-memory StateStore mirror
type memStateStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *memStateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	if !ok {
		return nil, vault.ErrKeyNotFound
	}
	return value, nil
}

func (s *memStateStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = value
	return nil
}

type testServer struct {
	router http.Handler
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.New("test", io.Discard)
	provider := market.NewStubProvider(7, nil, log)
	v := vault.New(&memTxStore{}, &memStateStore{}, provider, log)

	owner, err := user.NewOwner(testEmail, testPassword)
	require.NoError(t, err)
	authSvc := user.NewService(owner)
	jwtSvc := middleware.NewJWTService("test-secret-key-minimum-32-characters-long")

	router := NewRouter(Config{
		Logger:             log,
		AllowedOrigins:     []string{"http://localhost:5173"},
		AuthHandler:        handler.NewAuthHandler(authSvc, jwtSvc),
		TransactionHandler: handler.NewTransactionHandler(v, receipt.NewRulesParser()),
		PortfolioHandler:   handler.NewPortfolioHandler(v),
		BudgetHandler:      handler.NewBudgetHandler(v),
		AdvisoryHandler:    handler.NewAdvisoryHandler(v),
		GoalHandler:        handler.NewGoalHandler(v),
		MarketHandler:      handler.NewMarketHandler(provider),
		JWTMiddleware:      middleware.JWTMiddleware(jwtSvc),
	})

	token, err := jwtSvc.GenerateToken(owner.ID, owner.Email)
	require.NoError(t, err)

	return &testServer{router: router, token: token}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLogin_Success(t *testing.T) {
	ts := newTestServer(t)
	ts.token = "" // login is public

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	owner := body["owner"].(map[string]interface{})
	assert.Equal(t, testEmail, owner["email"])
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    testEmail,
		"password": "wrong-horse",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	refreshed, ok := body["token"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, refreshed)
	_, hasOwner := body["owner"]
	assert.False(t, hasOwner, "refresh returns only the token")

	// The refreshed token works for protected routes
	ts.token = refreshed
	rec = ts.do(t, http.MethodGet, "/api/v1/portfolio", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshToken_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	rec := ts.do(t, http.MethodGet, "/api/v1/portfolio", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/budget/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth_Public(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTransactionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Record a buy
	rec := ts.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"id":       "tx-1",
		"date":     "2025-06-01",
		"symbol":   "vti",
		"type":     "BUY",
		"quantity": 10,
		"price":    100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	holdings := body["holdings"].([]interface{})
	require.Len(t, holdings, 1)
	holding := holdings[0].(map[string]interface{})
	assert.Equal(t, "VTI", holding["symbol"]) // symbol uppercased at the edge
	assert.Equal(t, 10.0, holding["quantity"])
	assert.Equal(t, 100.0, holding["avgPrice"])

	// Edit the fill price; average cost follows
	rec = ts.do(t, http.MethodPatch, "/api/v1/transactions/tx-1", map[string]interface{}{
		"price": 110,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	holding = body["holdings"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 110.0, holding["avgPrice"])

	// List
	rec = ts.do(t, http.MethodGet, "/api/v1/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, 1.0, body["total"])

	// Delete; the holding disappears with the only buy
	rec = ts.do(t, http.MethodDelete, "/api/v1/transactions/tx-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Empty(t, body["holdings"])
}

func TestTransaction_InvalidType(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"date":     "2025-06-01",
		"symbol":   "VTI",
		"type":     "SHORT",
		"quantity": 10,
		"price":    100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransaction_DuplicateID(t *testing.T) {
	ts := newTestServer(t)

	tx := map[string]interface{}{
		"id":       "tx-1",
		"date":     "2025-06-01",
		"symbol":   "VTI",
		"type":     "BUY",
		"quantity": 1,
		"price":    100,
	}
	rec := ts.do(t, http.MethodPost, "/api/v1/transactions", tx)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/transactions", tx)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTransaction_DeleteUnknown(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodDelete, "/api/v1/transactions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanReceipt(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/transactions/scan", map[string]string{
		"text": "WHOLE FOODS MARKET\n2025-06-10\nBananas 3.50\nTOTAL 42.80",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	draft := body["draft"].(map[string]interface{})
	assert.Equal(t, 42.80, draft["amount"])

	tx := body["transaction"].(map[string]interface{})
	assert.Equal(t, "EXPENSE", tx["type"])
	assert.Equal(t, ledger.SymbolExpense, tx["symbol"])
	assert.NotEmpty(t, tx["id"])
}

func TestScanReceipt_EmptyText(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/transactions/scan", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/budget/income", map[string]float64{"amount": 10000000})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/budget/rules", map[string]float64{
		"needs": 60, "invest": 30, "savings": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Rules that do not sum to 100 are rejected at the edit boundary
	rec = ts.do(t, http.MethodPut, "/api/v1/budget/rules", map[string]float64{
		"needs": 60, "invest": 30, "savings": 20,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/budget/bills", map[string]interface{}{
		"name":   "Rent",
		"amount": 2000000,
		"dueDay": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	bills := body["bills"].([]interface{})
	require.Len(t, bills, 1)
	billID := bills[0].(map[string]interface{})["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/v1/budget/bills/"+billID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.True(t, body["bills"].([]interface{})[0].(map[string]interface{})["isPaid"].(bool))

	rec = ts.do(t, http.MethodGet, "/api/v1/budget/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	overview := body["overview"].(map[string]interface{})
	categories := overview["categories"].([]interface{})
	require.Len(t, categories, 3)
	needs := categories[0].(map[string]interface{})
	assert.Equal(t, 6000000.0, needs["allocated"])
}

func TestBudget_UnknownBill(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/budget/bills/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioTarget_PlaceholderHasNullPerformance(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/portfolio/targets/BND", map[string]float64{"quantity": 15})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	holdings := body["holdings"].([]interface{})
	require.Len(t, holdings, 1)
	holding := holdings[0].(map[string]interface{})
	assert.Equal(t, "BND", holding["symbol"])
	assert.Equal(t, 15.0, holding["targetQuantity"])
	assert.Equal(t, 0.0, holding["quantity"])

	// Never-bought placeholder has no defined return; it must serialize as
	// JSON null, not NaN.
	pct, present := holding["pnlPercent"]
	assert.True(t, present)
	assert.Nil(t, pct)

	// Clearing the target removes the placeholder
	rec = ts.do(t, http.MethodPut, "/api/v1/portfolio/targets/BND", map[string]float64{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Empty(t, body["holdings"])
}

func TestGoals(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/goals", map[string]interface{}{
		"name":                "Emergency fund",
		"targetAmount":        12000.0,
		"savedAmount":         3000.0,
		"monthlyContribution": 1000.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	goalList := body["goals"].([]interface{})
	require.Len(t, goalList, 1)
	goal := goalList[0].(map[string]interface{})
	projection := goal["projection"].(map[string]interface{})
	assert.Equal(t, 25.0, projection["progress"])
	assert.Equal(t, 9.0, projection["monthsToTarget"])
}

func TestShoppingPlan(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/budget/income", map[string]float64{"amount": 10000})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/shopping-plan", map[string]interface{}{
		"item":  "Laptop",
		"price": 4000.0,
		"saved": 1000.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/goals", nil)
	body := decodeBody(t, rec)
	plan := body["shoppingPlan"].(map[string]interface{})
	assert.Equal(t, "Laptop", plan["item"])
	// Savings slice of 10000 at the default 20% funds 2000/month:
	// 3000 short -> 2 months
	projection := plan["projection"].(map[string]interface{})
	assert.Equal(t, 2.0, projection["monthsToTarget"])

	rec = ts.do(t, http.MethodDelete, "/api/v1/shopping-plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	_, present := body["shoppingPlan"]
	assert.False(t, present)
}

func TestAdvisory(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/advisory", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	// Fresh vault has no closed months to judge
	assert.Nil(t, body["summary"])
}

func TestMarketEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/market/universe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	symbols := body["symbols"].([]interface{})
	assert.NotEmpty(t, symbols)

	rec = ts.do(t, http.MethodGet, "/api/v1/market/signals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	signals := body["signals"].([]interface{})
	require.Len(t, signals, len(symbols))
	first := signals[0].(map[string]interface{})
	assert.NotEmpty(t, first["symbol"])
	assert.Greater(t, first["price"].(float64), 0.0)
}

func TestPrivacyMode(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/settings/privacy", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.True(t, body["privacyMode"].(bool))
}
