package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/internal/advisory"
	"github.com/samantha-blablabla/MyVault-sub000/internal/budget"
	"github.com/samantha-blablabla/MyVault-sub000/internal/goals"
	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
	"github.com/samantha-blablabla/MyVault-sub000/internal/portfolio"
	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

const mirrorTimeout = 10 * time.Second

// Vault is the single state-holder. There is one logical writer (the
// interactive user); every command takes the writer lock, mutates a
// copy-on-write state, re-derives all views synchronously, and then mirrors
// the change to the stores asynchronously, best-effort.
type Vault struct {
	mu       sync.RWMutex
	state    State
	snapshot Snapshot

	txStore    TransactionStore
	stateStore StateStore
	market     MarketData
	log        *logger.Logger
	now        func() time.Time
}

// Option configures a Vault
type Option func(*Vault)

// WithClock overrides the clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// New creates an empty vault. Call Load to hydrate it from the mirrors.
func New(txStore TransactionStore, stateStore StateStore, market MarketData, log *logger.Logger, opts ...Option) *Vault {
	v := &Vault{
		state:      defaultState(),
		txStore:    txStore,
		stateStore: stateStore,
		market:     market,
		log:        log.WithField("component", "vault"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.snapshot = v.derive(context.Background(), v.state)
	return v
}

// Load hydrates the vault from the mirrors. Each piece loads independently;
// a missing or malformed entry is discarded and replaced by its default
// (the only self-healing in the system). Load never fails.
func (v *Vault) Load(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := defaultState()

	if txs, err := v.txStore.List(ctx); err != nil {
		v.log.Warn("failed to load ledger mirror, starting empty", "error", err)
	} else {
		state.Ledger = txs
	}

	loadKey(v, ctx, keyBills, &state.Bills)
	loadKey(v, ctx, keyTargets, &state.Targets)
	loadKey(v, ctx, keyRules, &state.Rules)
	loadKey(v, ctx, keyIncome, &state.MonthlyIncome)
	loadKey(v, ctx, keySeededSpent, &state.SeededSpent)
	loadKey(v, ctx, keyGoals, &state.Goals)
	loadKey(v, ctx, keyShoppingPlan, &state.ShoppingPlan)
	loadKey(v, ctx, keyPrivacyMode, &state.PrivacyMode)

	if state.Targets == nil {
		state.Targets = make(map[string]float64)
	}
	if state.SeededSpent == nil {
		state.SeededSpent = make(map[string]float64)
	}

	v.state = state
	v.snapshot = v.derive(ctx, state)
	v.log.Info("vault loaded",
		"transactions", len(state.Ledger),
		"bills", len(state.Bills),
		"goals", len(state.Goals),
	)
}

// loadKey reads one state key, leaving dst untouched when the key is absent
// and resetting it to the zero value when the stored JSON is malformed.
func loadKey[T any](v *Vault, ctx context.Context, key string, dst *T) {
	raw, err := v.stateStore.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			v.log.Warn("failed to load state key, using default", "key", key, "error", err)
		}
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var zero T
		*dst = zero
		v.log.Warn("discarding malformed state key, using default", "key", key, "error", err)
	}
}

// Snapshot returns the latest derived snapshot
func (v *Vault) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot
}

// AppendTransaction appends a validated transaction to the ledger
func (v *Vault) AppendTransaction(ctx context.Context, tx ledger.Transaction) (Snapshot, error) {
	if err := tx.Validate(); err != nil {
		return v.Snapshot(), err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.state.Ledger {
		if v.state.Ledger[i].ID == tx.ID {
			return v.snapshot, fmt.Errorf("%w: %s", ledger.ErrDuplicateID, tx.ID)
		}
	}

	v.state.Ledger = append(cloneTransactions(v.state.Ledger), tx)
	v.rederive(ctx)
	v.mirror("save transaction", func(mctx context.Context) error {
		return v.txStore.Save(mctx, tx)
	})
	return v.snapshot, nil
}

// TransactionPatch carries the editable fields of a ledger record. Nil
// fields are left as they are; the ID never changes.
type TransactionPatch struct {
	Date     *string
	Type     *ledger.TransactionType
	Quantity *float64
	Price    *float64
	Notes    *string
}

// EditTransaction mutates one transaction in place, preserving its ID and
// its position in ledger order.
func (v *Vault) EditTransaction(ctx context.Context, id string, patch TransactionPatch) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := -1
	for i := range v.state.Ledger {
		if v.state.Ledger[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return v.snapshot, fmt.Errorf("%w: %s", ledger.ErrNotFound, id)
	}

	next := cloneTransactions(v.state.Ledger)
	tx := &next[idx]
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.Type != nil {
		tx.Type = *patch.Type
	}
	if patch.Quantity != nil {
		tx.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		tx.Price = *patch.Price
	}
	if patch.Notes != nil {
		tx.Notes = *patch.Notes
	}
	if err := tx.Validate(); err != nil {
		return v.snapshot, err
	}

	v.state.Ledger = next
	v.rederive(ctx)

	edited := next[idx]
	v.mirror("update transaction", func(mctx context.Context) error {
		return v.txStore.Update(mctx, edited)
	})
	return v.snapshot, nil
}

// DeleteTransaction removes a transaction from the ledger
func (v *Vault) DeleteTransaction(ctx context.Context, id string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := make([]ledger.Transaction, 0, len(v.state.Ledger))
	found := false
	for i := range v.state.Ledger {
		if v.state.Ledger[i].ID == id {
			found = true
			continue
		}
		next = append(next, v.state.Ledger[i])
	}
	if !found {
		return v.snapshot, fmt.Errorf("%w: %s", ledger.ErrNotFound, id)
	}

	v.state.Ledger = next
	v.rederive(ctx)
	v.mirror("delete transaction", func(mctx context.Context) error {
		return v.txStore.Delete(mctx, id)
	})
	return v.snapshot, nil
}

// SetBudgetRules replaces the plan split. The sum-to-100 rule is enforced
// here, at the edit boundary.
func (v *Vault) SetBudgetRules(ctx context.Context, rules budget.Rules) (Snapshot, error) {
	if err := rules.Validate(); err != nil {
		return v.Snapshot(), err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Rules = rules
	v.rederive(ctx)
	v.mirrorState(keyRules, rules)
	return v.snapshot, nil
}

// SetMonthlyIncome replaces the income figure the allocations derive from
func (v *Vault) SetMonthlyIncome(ctx context.Context, income float64) (Snapshot, error) {
	if income < 0 {
		return v.Snapshot(), fmt.Errorf("monthly income must not be negative")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.MonthlyIncome = income
	v.rederive(ctx)
	v.mirrorState(keyIncome, income)
	return v.snapshot, nil
}

// UpsertBill adds or replaces a fixed bill by ID
func (v *Vault) UpsertBill(ctx context.Context, bill budget.FixedBill) (Snapshot, error) {
	if err := bill.Validate(); err != nil {
		return v.Snapshot(), err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next := cloneBills(v.state.Bills)
	replaced := false
	for i := range next {
		if next[i].ID == bill.ID {
			next[i] = bill
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, bill)
	}

	v.state.Bills = next
	v.rederive(ctx)
	v.mirrorState(keyBills, next)
	return v.snapshot, nil
}

// DeleteBill removes a fixed bill
func (v *Vault) DeleteBill(ctx context.Context, id string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := make([]budget.FixedBill, 0, len(v.state.Bills))
	found := false
	for i := range v.state.Bills {
		if v.state.Bills[i].ID == id {
			found = true
			continue
		}
		next = append(next, v.state.Bills[i])
	}
	if !found {
		return v.snapshot, fmt.Errorf("%w: %s", ErrBillNotFound, id)
	}

	v.state.Bills = next
	v.rederive(ctx)
	v.mirrorState(keyBills, next)
	return v.snapshot, nil
}

// ToggleBillPaid flips a bill's paid flag. This is the only way IsPaid ever
// resets; there is no automatic month rollover.
func (v *Vault) ToggleBillPaid(ctx context.Context, id string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := cloneBills(v.state.Bills)
	found := false
	for i := range next {
		if next[i].ID == id {
			next[i].IsPaid = !next[i].IsPaid
			found = true
			break
		}
	}
	if !found {
		return v.snapshot, fmt.Errorf("%w: %s", ErrBillNotFound, id)
	}

	v.state.Bills = next
	v.rederive(ctx)
	v.mirrorState(keyBills, next)
	return v.snapshot, nil
}

// SetTarget sets the target quantity for a symbol; zero or negative removes
// the target (and with it any placeholder holding).
func (v *Vault) SetTarget(ctx context.Context, symbol string, quantity float64) (Snapshot, error) {
	if symbol == "" {
		return v.Snapshot(), fmt.Errorf("target symbol is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next := cloneTargets(v.state.Targets)
	if quantity > 0 {
		next[symbol] = quantity
	} else {
		delete(next, symbol)
	}

	v.state.Targets = next
	v.rederive(ctx)
	v.mirrorState(keyTargets, next)
	return v.snapshot, nil
}

// UpsertGoal adds or replaces a financial goal by ID
func (v *Vault) UpsertGoal(ctx context.Context, goal goals.Goal) (Snapshot, error) {
	if err := goal.Validate(); err != nil {
		return v.Snapshot(), err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next := cloneGoals(v.state.Goals)
	replaced := false
	for i := range next {
		if next[i].ID == goal.ID {
			next[i] = goal
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, goal)
	}

	v.state.Goals = next
	v.rederive(ctx)
	v.mirrorState(keyGoals, next)
	return v.snapshot, nil
}

// DeleteGoal removes a financial goal
func (v *Vault) DeleteGoal(ctx context.Context, id string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := make([]goals.Goal, 0, len(v.state.Goals))
	found := false
	for i := range v.state.Goals {
		if v.state.Goals[i].ID == id {
			found = true
			continue
		}
		next = append(next, v.state.Goals[i])
	}
	if !found {
		return v.snapshot, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}

	v.state.Goals = next
	v.rederive(ctx)
	v.mirrorState(keyGoals, next)
	return v.snapshot, nil
}

// SetShoppingPlan replaces the planned purchase record
func (v *Vault) SetShoppingPlan(ctx context.Context, plan *goals.ShoppingPlan) (Snapshot, error) {
	if plan != nil && plan.Item == "" {
		return v.Snapshot(), fmt.Errorf("shopping plan item is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ShoppingPlan = plan
	v.rederive(ctx)
	v.mirrorState(keyShoppingPlan, plan)
	return v.snapshot, nil
}

// SetPrivacyMode flips the amount-masking flag
func (v *Vault) SetPrivacyMode(ctx context.Context, enabled bool) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.PrivacyMode = enabled
	v.rederive(ctx)
	v.mirrorState(keyPrivacyMode, enabled)
	return v.snapshot, nil
}

// rederive recomputes every derived view from the current state. Must be
// called with the writer lock held.
func (v *Vault) rederive(ctx context.Context) {
	v.snapshot = v.derive(ctx, v.state)
}

// derive is the explicit pipeline: holdings, budget, history, advisory —
// each a pure function of the state and the market data.
func (v *Vault) derive(ctx context.Context, state State) Snapshot {
	now := v.now()

	symbols := state.symbols()
	prices := v.market.Prices(ctx, symbols)
	history := v.market.History(symbols)
	names := v.market.Names(symbols)

	monthly := advisory.MonthlyHistory(state.Ledger, state.MonthlyIncome, now)

	return Snapshot{
		State:     state,
		Holdings:  portfolio.DeriveHoldings(state.Ledger, prices, history, state.Targets, names),
		Budget:    budget.Derive(state.Ledger, state.Rules, state.MonthlyIncome, state.Bills, state.SeededSpent, now),
		History:   monthly,
		Advisory:  advisory.Summarize(monthly, state.Rules),
		DerivedAt: now,
	}
}

// mirror runs one best-effort store write in the background. Failures are
// logged and swallowed; in-memory state stays authoritative.
func (v *Vault) mirror(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			v.log.Warn("mirror write failed", "op", op, "error", err)
		}
	}()
}

// mirrorState marshals one state key and mirrors it
func (v *Vault) mirrorState(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		v.log.Error("failed to marshal state key", "key", key, "error", err)
		return
	}
	v.mirror("set "+key, func(mctx context.Context) error {
		return v.stateStore.Set(mctx, key, raw)
	})
}
