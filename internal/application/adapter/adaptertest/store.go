// Package adaptertest provides in-memory implementations of the adapter ports for use case tests.
package adaptertest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// Store holds every entity in memory. The repositories it hands out share it,
// so a transaction created through one is visible to the others.
type Store struct {
	mu                sync.Mutex
	Users             map[uuid.UUID]*entity.User
	Categories        map[uuid.UUID]*entity.Category
	Transactions      map[uuid.UUID]*entity.Transaction
	ScheduledPayments map[uuid.UUID]*entity.ScheduledPayment
	EmailJobs         map[uuid.UUID]*entity.EmailJob

	// Err, when set, is returned by every repository call.
	Err error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Users:             make(map[uuid.UUID]*entity.User),
		Categories:        make(map[uuid.UUID]*entity.Category),
		Transactions:      make(map[uuid.UUID]*entity.Transaction),
		ScheduledPayments: make(map[uuid.UUID]*entity.ScheduledPayment),
		EmailJobs:         make(map[uuid.UUID]*entity.EmailJob),
	}
}

// CategoryRepository returns a CategoryRepository backed by the store.
func (s *Store) CategoryRepository() adapter.CategoryRepository { return &categoryRepo{s} }

// TransactionRepository returns a TransactionRepository backed by the store.
func (s *Store) TransactionRepository() adapter.TransactionRepository { return &transactionRepo{s} }

// ScheduledPaymentRepository returns a ScheduledPaymentRepository backed by the store.
func (s *Store) ScheduledPaymentRepository() adapter.ScheduledPaymentRepository {
	return &scheduledPaymentRepo{s}
}

// UserRepository returns a UserRepository backed by the store.
func (s *Store) UserRepository() adapter.UserRepository { return &userRepo{s} }

// EmailQueueRepository returns an EmailQueueRepository backed by the store.
func (s *Store) EmailQueueRepository() adapter.EmailQueueRepository { return &emailQueueRepo{s} }

// AddUser stores a user and returns it.
func (s *Store) AddUser(u *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[u.ID] = u
	return u
}

// AddCategory stores a category and returns it.
func (s *Store) AddCategory(c *entity.Category) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Categories[c.ID] = c
	return c
}

// AddTransaction stores a transaction and returns it.
func (s *Store) AddTransaction(t *entity.Transaction) *entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transactions[t.ID] = t
	return t
}

// AddScheduledPayment stores a scheduled payment and returns it.
func (s *Store) AddScheduledPayment(p *entity.ScheduledPayment) *entity.ScheduledPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScheduledPayments[p.ID] = p
	return p
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.AddCategory(c)
	return nil
}

func (r *categoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	c, ok := r.s.Categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepo) FindByUser(_ context.Context, userID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*entity.Category, 0)
	for _, c := range r.s.Categories {
		if c.UserID != userID {
			continue
		}
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *categoryRepo) ExistsByNameAndUser(_ context.Context, name string, categoryType entity.CategoryType, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	for _, c := range r.s.Categories {
		if c.UserID == userID && c.Type == categoryType && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepo) HasChildren(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.Categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *c
	r.s.AddCategory(&cp)
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	delete(r.s.Categories, id)
	return nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.AddTransaction(t)
	return nil
}

func (r *transactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	t, ok := r.s.Transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error) {
	t, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return &entity.TransactionWithCategory{Transaction: t, Category: r.s.Categories[t.CategoryID]}, nil
}

func (r *transactionRepo) matching(filter adapter.TransactionFilter) []*entity.TransactionWithCategory {
	out := make([]*entity.TransactionWithCategory, 0)
	for _, t := range r.s.Transactions {
		if t.UserID != filter.UserID {
			continue
		}
		day := t.Date.Format("2006-01-02")
		if filter.StartDate != nil && day < filter.StartDate.Format("2006-01-02") {
			continue
		}
		if filter.EndDate != nil && day > filter.EndDate.Format("2006-01-02") {
			continue
		}
		c := r.s.Categories[t.CategoryID]
		if c == nil {
			continue
		}
		if filter.CategoryType != nil && c.Type != *filter.CategoryType {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !containsID(filter.CategoryIDs, t.CategoryID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(filter.Search)) {
			continue
		}
		tc, cc := *t, *c
		out = append(out, &entity.TransactionWithCategory{Transaction: &tc, Category: &cc})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Transaction, out[j].Transaction
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out
}

func (r *transactionRepo) FindByFilter(_ context.Context, filter adapter.TransactionFilter, p adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	all := r.matching(filter)
	total := len(all)
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return &adapter.TransactionListResult{
		Transactions: all[start:end],
		Total:        int64(total),
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   totalPages,
	}, nil
}

func (r *transactionRepo) FindViews(_ context.Context, filter adapter.TransactionFilter) ([]entity.TransactionView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	all := r.matching(filter)
	views := make([]entity.TransactionView, 0, len(all))
	for _, tc := range all {
		views = append(views, entity.NewTransactionView(tc.Transaction, tc.Category))
	}
	return views, nil
}

func (r *transactionRepo) Update(_ context.Context, t *entity.Transaction) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *t
	r.s.AddTransaction(&cp)
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	delete(r.s.Transactions, id)
	return nil
}

type scheduledPaymentRepo struct{ s *Store }

func (r *scheduledPaymentRepo) Create(_ context.Context, p *entity.ScheduledPayment) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *p
	r.s.AddScheduledPayment(&cp)
	return nil
}

func (r *scheduledPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ScheduledPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.ScheduledPayments[id]
	if !ok {
		return nil, domainerror.ErrScheduledPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *scheduledPaymentRepo) FindByFilter(_ context.Context, filter adapter.ScheduledPaymentFilter) ([]*entity.ScheduledPaymentWithCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*entity.ScheduledPaymentWithCategory, 0)
	for _, p := range r.s.ScheduledPayments {
		if filter.UserID != uuid.Nil && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.DueFrom != nil && p.DueDate.Before(*filter.DueFrom) {
			continue
		}
		if filter.DueTo != nil && p.DueDate.After(*filter.DueTo) {
			continue
		}
		if filter.PublicBurden != nil && p.IsPublicBurden != *filter.PublicBurden {
			continue
		}
		if filter.ReminderUnsent && p.ReminderSentAt != nil {
			continue
		}
		pc := *p
		var cat *entity.Category
		if c, ok := r.s.Categories[p.CategoryID]; ok {
			cc := *c
			cat = &cc
		}
		out = append(out, &entity.ScheduledPaymentWithCategory{Payment: &pc, Category: cat})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Payment.DueDate.Before(out[j].Payment.DueDate)
	})
	return out, nil
}

func (r *scheduledPaymentRepo) Update(_ context.Context, p *entity.ScheduledPayment) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *p
	r.s.AddScheduledPayment(&cp)
	return nil
}

func (r *scheduledPaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	delete(r.s.ScheduledPayments, id)
	return nil
}

func (r *scheduledPaymentRepo) Complete(_ context.Context, params adapter.CompleteScheduledPaymentParams) (*entity.ScheduledPayment, *entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, nil, r.s.Err
	}
	p, ok := r.s.ScheduledPayments[params.PaymentID]
	if !ok || p.UserID != params.UserID {
		return nil, nil, domainerror.ErrScheduledPaymentNotFound
	}
	if !p.IsPending() {
		return nil, nil, domainerror.ErrScheduledPaymentCompleted
	}
	amount := p.EstimatedAmount
	if params.ActualAmount != nil {
		amount = *params.ActualAmount
	}
	description := p.Memo
	if description == "" {
		if c, ok := r.s.Categories[p.CategoryID]; ok {
			description = c.Name
		}
	}
	txn := entity.NewTransaction(p.UserID, p.CategoryID, amount, description, params.Date)
	r.s.Transactions[txn.ID] = txn
	p.Complete(txn.ID, amount, params.CompletedAt)

	pc, tc := *p, *txn
	return &pc, &tc, nil
}

func (r *scheduledPaymentRepo) MarkReminded(_ context.Context, ids []uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, id := range ids {
		if p, ok := r.s.ScheduledPayments[id]; ok {
			stamp := at
			p.ReminderSentAt = &stamp
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *u
	r.s.AddUser(&cp)
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.Users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *userRepo) FindWithPaymentReminders(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*entity.User, 0)
	for _, u := range r.s.Users {
		if u.PaymentReminders {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *u
	r.s.AddUser(&cp)
	return nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

type emailQueueRepo struct{ s *Store }

func (r *emailQueueRepo) Create(_ context.Context, job *entity.EmailJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *job
	r.s.EmailJobs[job.ID] = &cp
	return nil
}

func (r *emailQueueRepo) GetPendingJobs(_ context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*entity.EmailJob, 0)
	for _, j := range r.s.EmailJobs {
		if j.IsReadyToProcess(now) {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ScheduledAt.Before(out[k].ScheduledAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *emailQueueRepo) Update(_ context.Context, job *entity.EmailJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *job
	r.s.EmailJobs[job.ID] = &cp
	return nil
}

func (r *emailQueueRepo) GetByRecipient(_ context.Context, email string) ([]*entity.EmailJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.EmailJob, 0)
	for _, j := range r.s.EmailJobs {
		if j.RecipientEmail == email {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}
