package ledger

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/money"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
)

// DefaultSeed is the balance every new account starts with.
var DefaultSeed = ledgerv1.Seed{
	Cash:      money.FromUnits(1000),
	Inventory: 5,
}

// Ledger holds balances and the transaction log in memory, optionally writing
// through to a repository. It is safe for concurrent use.
type Ledger struct {
	mu           sync.RWMutex
	accounts     map[string]*ledgerv1.Account
	emails       map[string]string
	transactions map[string][]ledgerv1.Transaction
	lastTxID     int64

	repo   ledgerv1.Repository
	logger logger.Interface
	seed   ledgerv1.Seed
	now    func() time.Time
	newID  func() string
}

var _ ledgerv1.Ledger = (*Ledger)(nil)

// Option configures a Ledger.
type Option func(*Ledger)

// WithRepository writes every account and settlement through to repo.
func WithRepository(repo ledgerv1.Repository) Option {
	return func(l *Ledger) {
		l.repo = repo
	}
}

// WithSeed overrides the starting balance of new accounts.
func WithSeed(seed ledgerv1.Seed) Option {
	return func(l *Ledger) {
		l.seed = seed
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides account id generation.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// NewLedger creates an empty ledger.
func NewLedger(log logger.Interface, opts ...Option) *Ledger {
	l := &Ledger{
		accounts:     make(map[string]*ledgerv1.Account),
		emails:       make(map[string]string),
		transactions: make(map[string][]ledgerv1.Transaction),
		logger:       log,
		seed:         DefaultSeed,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func consistencyError(format string, args ...any) error {
	return errors.NewTracer("settle").Wrap(
		fmt.Errorf("%w: %s", ledgerv1.ErrInternalConsistency, fmt.Sprintf(format, args...)),
	)
}

// Settle moves s.Quantity units from seller to buyer against s.Quantity*s.Price
// cash and appends a sell row and a buy row. Either everything is applied
// (and persisted, when a repository is set) or nothing is. Every failure wraps
// ErrInternalConsistency.
func (l *Ledger) Settle(ctx context.Context, s ledgerv1.Settlement) error {
	if s.Quantity <= 0 || s.Price <= 0 {
		return consistencyError("non-positive fill %d @ %s", s.Quantity, s.Price)
	}
	if s.SellerID == s.BuyerID {
		return consistencyError("self settlement for %s", s.SellerID)
	}
	if s.At.IsZero() {
		s.At = l.now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seller, ok := l.accounts[s.SellerID]
	if !ok {
		return consistencyError("unknown seller %s", s.SellerID)
	}
	buyer, ok := l.accounts[s.BuyerID]
	if !ok {
		return consistencyError("unknown buyer %s", s.BuyerID)
	}

	notional := s.Notional()
	if seller.Inventory < s.Quantity {
		return consistencyError("seller %s holds %d, needs %d", seller.ID, seller.Inventory, s.Quantity)
	}
	if buyer.Cash < notional {
		return consistencyError("buyer %s holds %s, needs %s", buyer.ID, buyer.Cash, notional)
	}
	if seller.Cash > money.Cents(math.MaxInt64)-notional || buyer.Inventory > math.MaxInt64-s.Quantity {
		return consistencyError("balance overflow")
	}

	nextSeller, nextBuyer := *seller, *buyer
	nextSeller.Inventory -= s.Quantity
	nextSeller.Cash += notional
	nextBuyer.Inventory += s.Quantity
	nextBuyer.Cash -= notional

	record := ledgerv1.SettlementRecord{
		Seller: nextSeller,
		Buyer:  nextBuyer,
		SellTransaction: ledgerv1.Transaction{
			ID:        l.lastTxID + 1,
			AccountID: seller.ID,
			Type:      ledgerv1.TransactionSell,
			Quantity:  s.Quantity,
			Price:     s.Price,
			CreatedAt: s.At,
		},
		BuyTransaction: ledgerv1.Transaction{
			ID:        l.lastTxID + 2,
			AccountID: buyer.ID,
			Type:      ledgerv1.TransactionBuy,
			Quantity:  s.Quantity,
			Price:     s.Price,
			CreatedAt: s.At,
		},
	}

	if l.repo != nil {
		if err := l.repo.ApplySettlement(ctx, record); err != nil {
			return consistencyError("persist settlement: %v", err)
		}
	}

	*seller, *buyer = nextSeller, nextBuyer
	l.transactions[seller.ID] = append(l.transactions[seller.ID], record.SellTransaction)
	l.transactions[buyer.ID] = append(l.transactions[buyer.ID], record.BuyTransaction)
	l.lastTxID += 2

	return nil
}

// OpenAccount registers a new account with the seed balance.
func (l *Ledger) OpenAccount(ctx context.Context, req ledgerv1.OpenAccountRequest) (ledgerv1.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ledgerv1.Account{}, ledgerv1.ErrInvalidName
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return ledgerv1.Account{}, ledgerv1.ErrInvalidEmail
	}
	email := strings.ToLower(addr.Address)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.emails[email]; exists {
		return ledgerv1.Account{}, ledgerv1.ErrAccountExists
	}

	account := ledgerv1.Account{
		ID:        l.newID(),
		Name:      name,
		Email:     email,
		Cash:      l.seed.Cash,
		Inventory: l.seed.Inventory,
		CreatedAt: l.now(),
	}

	if l.repo != nil {
		if err := l.repo.CreateAccount(ctx, account); err != nil {
			return ledgerv1.Account{}, errors.NewTracer("failed to create account").Wrap(err)
		}
	}

	l.accounts[account.ID] = &account
	l.emails[email] = account.ID

	l.logger.InfoContext(ctx, "Account opened", logger.NewField("accountID", account.ID))

	return account, nil
}

// Account returns a copy of the account.
func (l *Ledger) Account(id string) (ledgerv1.Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, ok := l.accounts[id]
	if !ok {
		return ledgerv1.Account{}, false
	}
	return *account, true
}

// Accounts returns every account, oldest first.
func (l *Ledger) Accounts() []ledgerv1.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make([]ledgerv1.Account, 0, len(l.accounts))
	for _, account := range l.accounts {
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts
}

// Transactions returns the account's history, most recent last.
func (l *Ledger) Transactions(accountID string) []ledgerv1.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.transactions[accountID]
	out := make([]ledgerv1.Transaction, len(history))
	copy(out, history)
	return out
}

// Totals returns the cash and inventory summed over all accounts.
func (l *Ledger) Totals() (money.Cents, int64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var cash money.Cents
	var inventory int64
	for _, account := range l.accounts {
		cash += account.Cash
		inventory += account.Inventory
	}
	return cash, inventory
}

// Restore replaces the in-memory state with what the repository holds.
func (l *Ledger) Restore(ctx context.Context) error {
	if l.repo == nil {
		return nil
	}

	accounts, err := l.repo.LoadAccounts(ctx)
	if err != nil {
		return errors.NewTracer("failed to load accounts").Wrap(err)
	}
	transactions, err := l.repo.LoadTransactions(ctx)
	if err != nil {
		return errors.NewTracer("failed to load transactions").Wrap(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[string]*ledgerv1.Account, len(accounts))
	l.emails = make(map[string]string, len(accounts))
	l.transactions = make(map[string][]ledgerv1.Transaction)
	l.lastTxID = 0

	for i := range accounts {
		account := accounts[i]
		l.accounts[account.ID] = &account
		l.emails[strings.ToLower(account.Email)] = account.ID
	}
	for _, tx := range transactions {
		l.transactions[tx.AccountID] = append(l.transactions[tx.AccountID], tx)
		l.lastTxID = max(l.lastTxID, tx.ID)
	}

	l.logger.Info("Ledger restored",
		logger.NewField("accounts", len(accounts)),
		logger.NewField("transactions", len(transactions)),
	)
	return nil
}
