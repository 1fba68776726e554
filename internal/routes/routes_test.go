package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jovejob/txledger/internal/config"
	"github.com/jovejob/txledger/internal/logging"
	"github.com/jovejob/txledger/internal/store"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	deps := Deps{
		Cfg:    config.Config{AppName: "txledger-test", StoreBackend: config.BackendMemory},
		Store:  store.NewMemory(),
		Logger: logging.Discard(),
	}
	if err := Setup(app, deps); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doTransact(t *testing.T, app *fiber.App, accountID, key string, amount int64, txType string) int {
	t.Helper()
	body := fmt.Sprintf(`{"account_id":%q,"idempotency_key":%q,"amount":%d,"type":%q}`, accountID, key, amount, txType)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func fetchBalance(t *testing.T, app *fiber.App, accountID string) int64 {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/accounts/"+accountID+"/balance", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded struct {
		AccountID string `json:"account_id"`
		Balance   int64  `json:"balance"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return decoded.Balance
}

func TestTransactCreditAndReadBalance(t *testing.T) {
	app := setupTestApp(t)

	if status := doTransact(t, app, "acct-1", "k1", 50, "CREDIT"); status != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d", status)
	}
	if balance := fetchBalance(t, app, "acct-1"); balance != 150 {
		t.Fatalf("expected balance 150, got %d", balance)
	}
}

func TestTransactDuplicateKeyReturnsConflict(t *testing.T) {
	app := setupTestApp(t)

	if status := doTransact(t, app, "acct-1", "k3", 20, "CREDIT"); status != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d", status)
	}
	if status := doTransact(t, app, "acct-1", "k3", 20, "CREDIT"); status != fiber.StatusConflict {
		t.Fatalf("expected 409 got %d", status)
	}
	if balance := fetchBalance(t, app, "acct-1"); balance != 120 {
		t.Fatalf("expected balance 120, got %d", balance)
	}
}

func TestTransactInsufficientFunds(t *testing.T) {
	app := setupTestApp(t)

	if status := doTransact(t, app, "acct-1", "k4", 1000, "DEBIT"); status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", status)
	}
	if balance := fetchBalance(t, app, "acct-1"); balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}
}

func TestTransactInvalidInput(t *testing.T) {
	app := setupTestApp(t)

	if status := doTransact(t, app, "acct-1", "k5", 10, "TRANSFER"); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
	if status := doTransact(t, app, "acct-1", "", 10, "CREDIT"); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
}

func TestHealthz(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/healthz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
}
