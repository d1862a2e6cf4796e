package vault

import (
	"context"
	"errors"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

// ErrKeyNotFound is returned by StateStore when a key has never been written
var ErrKeyNotFound = errors.New("state key not found")

var (
	ErrBillNotFound = errors.New("bill not found")
	ErrGoalNotFound = errors.New("goal not found")
)

// TransactionStore mirrors the transaction ledger. The vault is the source
// of truth; mirror failures are logged and swallowed, never rolled back.
type TransactionStore interface {
	Save(ctx context.Context, tx ledger.Transaction) error
	Update(ctx context.Context, tx ledger.Transaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]ledger.Transaction, error)
}

// StateStore mirrors the non-ledger state as key -> JSON value.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MarketData supplies the quotes the portfolio derivation needs.
type MarketData interface {
	Prices(ctx context.Context, symbols []string) map[string]float64
	History(symbols []string) map[string][]float64
	Names(symbols []string) map[string]string
}

// State keys in the StateStore mirror
const (
	keyBills        = "bills"
	keyTargets      = "targets"
	keyRules        = "rules"
	keyIncome       = "monthly_income"
	keySeededSpent  = "seeded_spent"
	keyGoals        = "goals"
	keyShoppingPlan = "shopping_plan"
	keyPrivacyMode  = "privacy_mode"
)
