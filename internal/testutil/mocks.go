package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users               map[uuid.UUID]*domain.User
	ApplyBalanceDeltaFn func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uuid.UUID]*domain.User)}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.Users[user.ID] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// ApplyBalanceDelta adds delta to the user's balance and returns the result
func (m *MockUserRepository) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if m.ApplyBalanceDeltaFn != nil {
		return m.ApplyBalanceDeltaFn(ctx, id, delta)
	}
	user, ok := m.Users[id]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	user.Balance = user.Balance.Add(delta)
	return user.Balance, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.ID] = user
}

// MockPotRepository is a mock implementation of domain.PotRepository
type MockPotRepository struct {
	Pots            map[int32]*domain.Pot
	NextID          int32
	AddToTotalFn    func(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error)
	TakeFromTotalFn func(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error)
	DeleteFn        func(ctx context.Context, userID uuid.UUID, id int32) error
}

// NewMockPotRepository creates a new MockPotRepository
func NewMockPotRepository() *MockPotRepository {
	return &MockPotRepository{
		Pots:   make(map[int32]*domain.Pot),
		NextID: 1,
	}
}

// Create creates a new pot
func (m *MockPotRepository) Create(ctx context.Context, pot *domain.Pot) (*domain.Pot, error) {
	pot.ID = m.NextID
	m.NextID++
	pot.CreatedAt = time.Now()
	pot.UpdatedAt = pot.CreatedAt
	m.Pots[pot.ID] = pot
	return pot, nil
}

// GetByID retrieves a pot by ID scoped to the user
func (m *MockPotRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Pot, error) {
	pot, ok := m.Pots[id]
	if !ok || pot.UserID != userID {
		return nil, domain.ErrPotNotFound
	}
	return pot, nil
}

// ListByUser lists all pots for a user
func (m *MockPotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pot, error) {
	var pots []*domain.Pot
	for _, pot := range m.Pots {
		if pot.UserID == userID {
			pots = append(pots, pot)
		}
	}
	sort.Slice(pots, func(i, j int) bool { return pots[i].ID < pots[j].ID })
	return pots, nil
}

// UpdateMeta updates pot metadata
func (m *MockPotRepository) UpdateMeta(ctx context.Context, userID uuid.UUID, id int32, data *domain.UpdatePotData) (*domain.Pot, error) {
	pot, ok := m.Pots[id]
	if !ok || pot.UserID != userID {
		return nil, domain.ErrPotNotFound
	}
	if data.Name != nil {
		pot.Name = *data.Name
	}
	if data.Target != nil {
		pot.Target = *data.Target
	}
	if data.Theme != nil {
		pot.Theme = *data.Theme
	}
	pot.UpdatedAt = time.Now()
	return pot, nil
}

// Delete removes a pot
func (m *MockPotRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	pot, ok := m.Pots[id]
	if !ok || pot.UserID != userID {
		return domain.ErrPotNotFound
	}
	delete(m.Pots, id)
	return nil
}

// AddToTotal increments the pot total and returns the new total
func (m *MockPotRepository) AddToTotal(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error) {
	if m.AddToTotalFn != nil {
		return m.AddToTotalFn(ctx, id, amount)
	}
	pot, ok := m.Pots[id]
	if !ok {
		return decimal.Zero, domain.ErrPotNotFound
	}
	pot.Total = pot.Total.Add(amount)
	return pot.Total, nil
}

// TakeFromTotal decrements the pot total only if it covers the amount
func (m *MockPotRepository) TakeFromTotal(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error) {
	if m.TakeFromTotalFn != nil {
		return m.TakeFromTotalFn(ctx, id, amount)
	}
	pot, ok := m.Pots[id]
	if !ok {
		return decimal.Zero, domain.ErrPotNotFound
	}
	if pot.Total.LessThan(amount) {
		return decimal.Zero, domain.ErrInsufficientPotFunds
	}
	pot.Total = pot.Total.Sub(amount)
	return pot.Total, nil
}

// SumTotals returns the pot count and the sum of totals for a user
func (m *MockPotRepository) SumTotals(ctx context.Context, userID uuid.UUID) (int32, decimal.Decimal, error) {
	var count int32
	total := decimal.Zero
	for _, pot := range m.Pots {
		if pot.UserID == userID {
			count++
			total = total.Add(pot.Total)
		}
	}
	return count, total, nil
}

// AddPot adds a pot to the mock repository (helper for tests)
func (m *MockPotRepository) AddPot(pot *domain.Pot) {
	if pot.ID == 0 {
		pot.ID = m.NextID
	}
	if pot.ID >= m.NextID {
		m.NextID = pot.ID + 1
	}
	m.Pots[pot.ID] = pot
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateFn     func(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	DeleteFn     func(ctx context.Context, userID uuid.UUID, id int32) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, transaction)
	}
	// The unique period constraint in the store maps to ErrAlreadyPaid
	if transaction.TemplateID != nil && transaction.PeriodKey != nil {
		for _, existing := range m.Transactions {
			if existing.TemplateID != nil && *existing.TemplateID == *transaction.TemplateID &&
				existing.PeriodKey != nil && *existing.PeriodKey == *transaction.PeriodKey {
				return nil, domain.ErrAlreadyPaid
			}
		}
	}
	transaction.ID = m.NextID
	m.NextID++
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID scoped to the user
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// List returns a filtered, sorted, paginated page of transactions
func (m *MockTransactionRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.IsTemplate {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(tx.Name), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.Category != nil && tx.Category != *filters.Category {
			continue
		}
		matched = append(matched, tx)
	}

	sortTransactions(matched, filters.Sort)

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	totalItems := int64(len(matched))
	totalPages := int32((totalItems + int64(pageSize) - 1) / int64(pageSize))

	start := int((page - 1) * pageSize)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(pageSize)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// sortTransactions orders transactions the way the store does, with the ID
// as the deterministic tie-break
func sortTransactions(txs []*domain.Transaction, sortOption domain.SortOption) {
	less := func(i, j int) bool { return txs[i].ID < txs[j].ID }
	switch sortOption {
	case domain.SortOldest:
		less = func(i, j int) bool {
			if !txs[i].TransactionDate.Equal(txs[j].TransactionDate) {
				return txs[i].TransactionDate.Before(txs[j].TransactionDate)
			}
			return txs[i].ID < txs[j].ID
		}
	case domain.SortAToZ:
		less = func(i, j int) bool {
			if txs[i].Name != txs[j].Name {
				return txs[i].Name < txs[j].Name
			}
			return txs[i].ID < txs[j].ID
		}
	case domain.SortZToA:
		less = func(i, j int) bool {
			if txs[i].Name != txs[j].Name {
				return txs[i].Name > txs[j].Name
			}
			return txs[i].ID < txs[j].ID
		}
	case domain.SortHighest:
		less = func(i, j int) bool {
			if !txs[i].Amount.Equal(txs[j].Amount) {
				return txs[i].Amount.GreaterThan(txs[j].Amount)
			}
			return txs[i].ID < txs[j].ID
		}
	case domain.SortLowest:
		less = func(i, j int) bool {
			if !txs[i].Amount.Equal(txs[j].Amount) {
				return txs[i].Amount.LessThan(txs[j].Amount)
			}
			return txs[i].ID < txs[j].ID
		}
	default: // latest
		less = func(i, j int) bool {
			if !txs[i].TransactionDate.Equal(txs[j].TransactionDate) {
				return txs[i].TransactionDate.After(txs[j].TransactionDate)
			}
			return txs[i].ID < txs[j].ID
		}
	}
	sort.SliceStable(txs, less)
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// SumExpensesByCategory sums absolute expense amounts in a category within [from, to)
func (m *MockTransactionRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, category domain.Category, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.IsTemplate || tx.Category != category {
			continue
		}
		if tx.Amount.Sign() >= 0 {
			continue
		}
		if tx.TransactionDate.Before(from) || !tx.TransactionDate.Before(to) {
			continue
		}
		total = total.Add(tx.Amount.Neg())
	}
	return total, nil
}

// LatestByCategory returns the n newest transactions in a category
func (m *MockTransactionRepository) LatestByCategory(ctx context.Context, userID uuid.UUID, category domain.Category, n int32) ([]*domain.Transaction, error) {
	var matched []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.IsTemplate || tx.Category != category {
			continue
		}
		matched = append(matched, tx)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].TransactionDate.Equal(matched[j].TransactionDate) {
			return matched[i].TransactionDate.After(matched[j].TransactionDate)
		}
		return matched[i].ID > matched[j].ID
	})
	if int32(len(matched)) > n {
		matched = matched[:n]
	}
	return matched, nil
}

// SumInPeriod returns total income and absolute expenses within [from, to)
func (m *MockTransactionRepository) SumInPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.IsTemplate {
			continue
		}
		if tx.TransactionDate.Before(from) || !tx.TransactionDate.Before(to) {
			continue
		}
		if tx.Amount.Sign() > 0 {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Neg())
		}
	}
	return income, expenses, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == 0 {
		tx.ID = m.NextID
	}
	if tx.ID >= m.NextID {
		m.NextID = tx.ID + 1
	}
	m.Transactions[tx.ID] = tx
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID scoped to the user
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// ListByUser lists all budgets for a user
func (m *MockBudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, budget := range m.Budgets {
		if budget.UserID == userID {
			budgets = append(budgets, budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].ID < budgets[j].ID })
	return budgets, nil
}

// Update updates an existing budget
func (m *MockBudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.UpdatedAt = time.Now()
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// ExistsForCategory reports whether a budget exists for the category
func (m *MockBudgetRepository) ExistsForCategory(ctx context.Context, userID uuid.UUID, category domain.Category) (bool, error) {
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.Category == category {
			return true, nil
		}
	}
	return false, nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID == 0 {
		budget.ID = m.NextID
	}
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
	m.Budgets[budget.ID] = budget
}

// MockBillRepository is a mock implementation of domain.BillRepository
type MockBillRepository struct {
	Bills          map[int32]*domain.Bill
	Paid           map[string]bool
	NextID         int32
	PaidInPeriodFn func(ctx context.Context, userID uuid.UUID, templateID int32, periodKey string) (bool, error)
}

// NewMockBillRepository creates a new MockBillRepository
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{
		Bills:  make(map[int32]*domain.Bill),
		Paid:   make(map[string]bool),
		NextID: 1,
	}
}

// Create creates a new bill template
func (m *MockBillRepository) Create(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	bill.ID = m.NextID
	m.NextID++
	bill.CreatedAt = time.Now()
	m.Bills[bill.ID] = bill
	return bill, nil
}

// GetByID retrieves a bill by ID scoped to the user
func (m *MockBillRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Bill, error) {
	bill, ok := m.Bills[id]
	if !ok || bill.UserID != userID {
		return nil, domain.ErrBillNotFound
	}
	return bill, nil
}

// ListByUser lists bill templates with filtering and sorting
func (m *MockBillRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.BillFilters) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	for _, bill := range m.Bills {
		if bill.UserID != userID {
			continue
		}
		if filters != nil && filters.Search != "" && !strings.Contains(strings.ToLower(bill.Name), strings.ToLower(filters.Search)) {
			continue
		}
		bills = append(bills, bill)
	}
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].DueDay != bills[j].DueDay {
			return bills[i].DueDay < bills[j].DueDay
		}
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}

// PaidInPeriod reports whether the bill is paid for the period
func (m *MockBillRepository) PaidInPeriod(ctx context.Context, userID uuid.UUID, templateID int32, periodKey string) (bool, error) {
	if m.PaidInPeriodFn != nil {
		return m.PaidInPeriodFn(ctx, userID, templateID, periodKey)
	}
	return m.Paid[paidKey(templateID, periodKey)], nil
}

// MarkPaid marks a bill paid for a period (helper for tests)
func (m *MockBillRepository) MarkPaid(templateID int32, periodKey string) {
	m.Paid[paidKey(templateID, periodKey)] = true
}

// AddBill adds a bill to the mock repository (helper for tests)
func (m *MockBillRepository) AddBill(bill *domain.Bill) {
	if bill.ID == 0 {
		bill.ID = m.NextID
	}
	if bill.ID >= m.NextID {
		m.NextID = bill.ID + 1
	}
	m.Bills[bill.ID] = bill
}

func paidKey(templateID int32, periodKey string) string {
	return strconv.FormatInt(int64(templateID), 10) + "/" + periodKey
}

// MockTransferLogRepository is a mock implementation of domain.TransferLogRepository
type MockTransferLogRepository struct {
	Entries    map[uuid.UUID]*domain.TransferLog
	ByKey      map[string]*domain.TransferLog
	CreateFn   func(ctx context.Context, entry *domain.TransferLog) (*domain.TransferLog, error)
	SetStateFn func(ctx context.Context, id uuid.UUID, state domain.TransferState) error
}

// NewMockTransferLogRepository creates a new MockTransferLogRepository
func NewMockTransferLogRepository() *MockTransferLogRepository {
	return &MockTransferLogRepository{
		Entries: make(map[uuid.UUID]*domain.TransferLog),
		ByKey:   make(map[string]*domain.TransferLog),
	}
}

// Create records a new transfer log entry
func (m *MockTransferLogRepository) Create(ctx context.Context, entry *domain.TransferLog) (*domain.TransferLog, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, entry)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.IdempotencyKey != nil {
		key := keyFor(entry.UserID, *entry.IdempotencyKey)
		if _, exists := m.ByKey[key]; exists {
			return nil, domain.ErrDuplicateRequest
		}
		m.ByKey[key] = entry
	}
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	m.Entries[entry.ID] = entry
	return entry, nil
}

// SetState updates the state of an entry
func (m *MockTransferLogRepository) SetState(ctx context.Context, id uuid.UUID, state domain.TransferState) error {
	if m.SetStateFn != nil {
		return m.SetStateFn(ctx, id, state)
	}
	entry, ok := m.Entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	entry.State = state
	entry.UpdatedAt = time.Now()
	return nil
}

// Complete marks an entry completed with its result snapshot
func (m *MockTransferLogRepository) Complete(ctx context.Context, id uuid.UUID, resultTotal, resultBalance decimal.Decimal) error {
	entry, ok := m.Entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	entry.State = domain.TransferCompleted
	entry.ResultTotal = &resultTotal
	entry.ResultBalance = &resultBalance
	entry.UpdatedAt = time.Now()
	return nil
}

// ReleaseKey clears the idempotency key so it can be reused
func (m *MockTransferLogRepository) ReleaseKey(ctx context.Context, id uuid.UUID) error {
	entry, ok := m.Entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	if entry.IdempotencyKey != nil {
		delete(m.ByKey, keyFor(entry.UserID, *entry.IdempotencyKey))
		entry.IdempotencyKey = nil
	}
	entry.UpdatedAt = time.Now()
	return nil
}

// GetByIdempotencyKey looks up an entry by user and idempotency key
func (m *MockTransferLogRepository) GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*domain.TransferLog, error) {
	if entry, ok := m.ByKey[keyFor(userID, key)]; ok {
		return entry, nil
	}
	return nil, domain.ErrNotFound
}

// ListFailed returns entries awaiting compensation replay
func (m *MockTransferLogRepository) ListFailed(ctx context.Context, limit int32) ([]*domain.TransferLog, error) {
	var failed []*domain.TransferLog
	for _, entry := range m.Entries {
		if entry.State == domain.TransferFailedState {
			failed = append(failed, entry)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].CreatedAt.Before(failed[j].CreatedAt) })
	if int32(len(failed)) > limit {
		failed = failed[:limit]
	}
	return failed, nil
}

// ListStalePending returns pending entries older than cutoff
func (m *MockTransferLogRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]*domain.TransferLog, error) {
	var stale []*domain.TransferLog
	for _, entry := range m.Entries {
		if entry.State == domain.TransferPending && entry.CreatedAt.Before(cutoff) {
			stale = append(stale, entry)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	if int32(len(stale)) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

func keyFor(userID uuid.UUID, key string) string {
	return userID.String() + "/" + key
}
