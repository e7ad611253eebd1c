// Package ledger is the in-memory state of the reference finance service:
// accounts, their transactions and their categories.
package ledger

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// User is a registered account.
type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the public view of u.
func (u User) Profile() domain.UserProfile {
	return domain.UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileChanges lists the account fields to overwrite. Nil fields are kept.
type ProfileChanges = domain.ProfilePatch

type account struct {
	user         User
	transactions map[string]domain.Transaction
	categories   map[string]domain.Category
}

// Ledger holds every account in memory. It is safe for concurrent use.
type Ledger struct {
	mu         sync.RWMutex
	accounts   map[string]*account
	byUsername map[string]string
	cost       int
	now        func() time.Time
}

type Option func(*Ledger)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(l *Ledger) { l.cost = cost }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts:   make(map[string]*account),
		byUsername: make(map[string]string),
		cost:       bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates an account. Usernames are unique, case-insensitively.
func (l *Ledger) Register(username, password, name, email string) (*User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := usernameKey(username)
	if _, exists := l.byUsername[key]; exists {
		return nil, ErrUserExists
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    l.now().UTC(),
	}
	l.accounts[u.ID] = &account{
		user:         u,
		transactions: make(map[string]domain.Transaction),
		categories:   make(map[string]domain.Category),
	}
	l.byUsername[key] = u.ID
	return &u, nil
}

// Authenticate returns the account matching username and password. Unknown
// usernames and wrong passwords are indistinguishable.
func (l *Ledger) Authenticate(username, password string) (*User, error) {
	l.mu.RLock()
	id, ok := l.byUsername[usernameKey(username)]
	var u User
	if ok {
		u = l.accounts[id].user
	}
	l.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

func (l *Ledger) User(id string) (*User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := acc.user
	return &u, nil
}

// UpdateProfile applies changes to account id. Renaming to a taken username
// fails with ErrUserExists.
func (l *Ledger) UpdateProfile(id string, changes ProfileChanges) (*User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if changes.Username != nil {
		newKey := usernameKey(*changes.Username)
		if newKey == "" {
			return nil, ErrInvalidCredentials
		}
		oldKey := usernameKey(acc.user.Username)
		if owner, taken := l.byUsername[newKey]; taken && owner != id {
			return nil, ErrUserExists
		}
		delete(l.byUsername, oldKey)
		l.byUsername[newKey] = id
		trimmed := strings.TrimSpace(*changes.Username)
		changes.Username = &trimmed
	}

	profile := changes.Apply(acc.user.Profile())
	acc.user.Username = profile.Username
	acc.user.Email = profile.Email
	acc.user.Name = profile.Name

	u := acc.user
	return &u, nil
}

// ChangePassword replaces the password of account id after checking current.
func (l *Ledger) ChangePassword(id, current, next string) error {
	if next == "" {
		return ErrInvalidCredentials
	}

	l.mu.RLock()
	acc, ok := l.accounts[id]
	var hash string
	if ok {
		hash = acc.user.PasswordHash
	}
	l.mu.RUnlock()

	if !ok {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
		return ErrWrongPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), l.cost)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	acc.user.PasswordHash = string(newHash)
	return nil
}

// Transactions lists the account's transactions, newest first, optionally
// narrowed to one type.
func (l *Ledger) Transactions(userID string, typ domain.TransactionType) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	out := make([]domain.Transaction, 0, len(acc.transactions))
	for _, tx := range acc.transactions {
		if typ != "" && tx.Type != typ {
			continue
		}
		out = append(out, tx)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date.Equal(txs[j].Date) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].Date.After(txs[j].Date)
	})
}

func (l *Ledger) normalize(in domain.TransactionInput) (domain.TransactionInput, error) {
	if !in.Type.Valid() {
		return in, ErrInvalidType
	}
	if !in.Amount.IsPositive() {
		return in, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		in.Date = l.now()
	}
	in.Date = in.Date.UTC()
	return in, nil
}

func (l *Ledger) CreateTransaction(userID string, in domain.TransactionInput) (*domain.Transaction, error) {
	in, err := l.normalize(in)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	tx := domain.Transaction{
		ID:          uuid.NewString(),
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
	}
	acc.transactions[tx.ID] = tx
	return &tx, nil
}

// UpdateTransaction replaces every field of transaction txID.
func (l *Ledger) UpdateTransaction(userID, txID string, in domain.TransactionInput) (*domain.Transaction, error) {
	in, err := l.normalize(in)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if _, ok := acc.transactions[txID]; !ok {
		return nil, ErrTransactionNotFound
	}
	tx := domain.Transaction{
		ID:          txID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
	}
	acc.transactions[txID] = tx
	return &tx, nil
}

func (l *Ledger) DeleteTransaction(userID, txID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return ErrUserNotFound
	}
	if _, ok := acc.transactions[txID]; !ok {
		return ErrTransactionNotFound
	}
	delete(acc.transactions, txID)
	return nil
}

// Dashboard returns the account totals and its latest transactions.
func (l *Ledger) Dashboard(userID string, recent int) (domain.Summary, []domain.Transaction, error) {
	all, err := l.Transactions(userID, "")
	if err != nil {
		return domain.Summary{}, nil, err
	}
	summary := domain.Summarize(all)
	if recent >= 0 && len(all) > recent {
		all = all[:recent]
	}
	return summary, all, nil
}

// Categories lists the account's categories by name.
func (l *Ledger) Categories(userID string) ([]domain.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]domain.Category, 0, len(acc.categories))
	for _, c := range acc.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (l *Ledger) CreateCategory(userID string, in domain.CategoryInput) (*domain.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := domain.Category{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Type:  in.Type,
		Icon:  in.Icon,
		Color: in.Color,
	}
	acc.categories[c.ID] = c
	return &c, nil
}

// DeleteCategory removes category id. Transactions keep their category id.
func (l *Ledger) DeleteCategory(userID, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return ErrUserNotFound
	}
	if _, ok := acc.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(acc.categories, id)
	return nil
}
