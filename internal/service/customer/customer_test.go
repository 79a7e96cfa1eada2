package customer

import (
	"context"
	"errors"
	"testing"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/ai"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/message"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/reminder"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	txs []*fakeTx
}

func (f *fakeDB) BeginTx(context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	f.txs = append(f.txs, tx)
	return tx, nil
}

type fakeRepo struct {
	customers map[int64]*customer.Customer
	deleted   []int64
	nextID    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: map[int64]*customer.Customer{}}
}

func (f *fakeRepo) handleTaken(handle string, except int64) bool {
	for id, c := range f.customers {
		if id != except && c.InstagramHandle == handle {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Create(_ context.Context, c *customer.Customer) error {
	if f.handleTaken(c.InstagramHandle, 0) {
		return xerrors.ErrConflict
	}
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, c *customer.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return xerrors.ErrNotFound
	}
	if f.handleTaken(c.InstagramHandle, c.ID) {
		return xerrors.ErrConflict
	}
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteWithTx(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.customers, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) Search(_ context.Context, filters *customer.CustomerListFilters) ([]customer.Customer, error) {
	out := []customer.Customer{}
	for _, c := range f.customers {
		if c.Name == filters.Search {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Summaries(context.Context) ([]customer.Summary, error) {
	out := []customer.Summary{}
	for _, c := range f.customers {
		out = append(out, customer.Summary{Customer: *c, Tier: customer.TierLead})
	}
	return out, nil
}

func (f *fakeRepo) SummaryByID(_ context.Context, id int64) (*customer.Summary, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &customer.Summary{Customer: *c, OrderCount: 1, CLV: 25, Tier: customer.TierLead}, nil
}

func (f *fakeRepo) Totals(context.Context) (int64, int64, int64, error) {
	return int64(len(f.customers)), 4, 2, nil
}

type fakeInvalidator struct {
	ids []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, id int64) error {
	f.ids = append(f.ids, id)
	return nil
}

func newTestService() (*CustomerService, *fakeRepo, *fakeDB, *fakeInvalidator) {
	repo := newFakeRepo()
	db := &fakeDB{}
	inv := &fakeInvalidator{}
	return NewCustomerService(db, repo, inv, zap.NewNop()), repo, db, inv
}

func TestCreateCustomer(t *testing.T) {
	svc, _, _, _ := newTestService()

	c, err := svc.CreateCustomer(context.Background(), &customer.CreateCustomerRequest{
		Name: "Ama", InstagramHandle: "@ama.shop",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "ama.shop", c.InstagramHandle)
	assert.Equal(t, customer.TierLead, c.Category)
	assert.Equal(t, customer.StageNew, c.Stage)
}

func TestCreateCustomer_DuplicateHandleConflicts(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, &customer.CreateCustomerRequest{Name: "Ama", InstagramHandle: "ama"})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(ctx, &customer.CreateCustomerRequest{Name: "Other", InstagramHandle: "@ama"})

	assert.True(t, errors.Is(err, xerrors.ErrConflict))
	assert.Len(t, repo.customers, 1)
}

func TestUpdateCustomer(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	a, _ := svc.CreateCustomer(ctx, &customer.CreateCustomerRequest{Name: "Ama", InstagramHandle: "ama"})
	_, _ = svc.CreateCustomer(ctx, &customer.CreateCustomerRequest{Name: "Kofi", InstagramHandle: "kofi"})

	stage := "Contacted"
	updated, err := svc.UpdateCustomer(ctx, a.ID, &customer.UpdateCustomerRequest{Stage: &stage})
	require.NoError(t, err)
	assert.Equal(t, customer.StageContacted, updated.Stage)

	taken := "kofi"
	_, err = svc.UpdateCustomer(ctx, a.ID, &customer.UpdateCustomerRequest{InstagramHandle: &taken})
	assert.True(t, errors.Is(err, xerrors.ErrConflict))
	assert.Equal(t, "ama", repo.customers[a.ID].InstagramHandle)

	_, err = svc.UpdateCustomer(ctx, 99, &customer.UpdateCustomerRequest{Stage: &stage})
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}

func TestDeleteCustomer_CommitsAndInvalidates(t *testing.T) {
	svc, repo, db, inv := newTestService()
	ctx := context.Background()
	c, _ := svc.CreateCustomer(ctx, &customer.CreateCustomerRequest{Name: "Ama", InstagramHandle: "ama"})

	require.NoError(t, svc.DeleteCustomer(ctx, c.ID))

	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Equal(t, []int64{c.ID}, repo.deleted)
	assert.Equal(t, []int64{c.ID}, inv.ids)
}

func TestDeleteCustomer_UnknownRollsBack(t *testing.T) {
	svc, _, db, inv := newTestService()

	err := svc.DeleteCustomer(context.Background(), 42)

	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.Empty(t, inv.ids)
}

func TestDashboard(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.CreateCustomer(ctx, &customer.CreateCustomerRequest{Name: "Ama", InstagramHandle: "ama"})

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.TotalCustomers)
	assert.Equal(t, int64(4), d.TotalMessages)
	assert.Equal(t, int64(2), d.TotalOrders)
	assert.Len(t, d.Customers, 1)
}

type messagesStub struct{}

func (messagesStub) ListByCustomer(context.Context, int64) ([]message.Message, error) {
	return []message.Message{{ID: 1, MessageText: "hi"}}, nil
}

type ordersStub struct{}

func (ordersStub) ListByCustomer(context.Context, int64) ([]order.Order, error) {
	return []order.Order{{ID: 1, ProductName: "Bag", Price: 25}}, nil
}

type remindersStub struct{}

func (remindersStub) ListByCustomer(context.Context, int64, reminder.Status) ([]reminder.Reminder, error) {
	return []reminder.Reminder{{ID: 1, ReminderText: "call back"}}, nil
}

type activityStub struct{}

func (activityStub) ListByCustomer(context.Context, int64, int) ([]activity.Entry, error) {
	return []activity.Entry{{ID: 1, Action: "Auto-tagged: Interested"}}, nil
}

type summaryStub struct {
	summary *ai.Summary
	err     error
}

func (s summaryStub) LatestSummary(context.Context, int64) (*ai.Summary, error) {
	return s.summary, s.err
}

func TestGetProfile(t *testing.T) {
	repo := newFakeRepo()
	c := &customer.Customer{Name: "Ama", InstagramHandle: "ama"}
	require.NoError(t, repo.Create(context.Background(), c))

	svc := NewProfileService(repo, messagesStub{}, ordersStub{}, remindersStub{}, activityStub{},
		summaryStub{summary: &ai.Summary{SummaryText: "wants a bag"}}, zap.NewNop())

	p, err := svc.GetProfile(context.Background(), c.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ama", p.Name)
	assert.Equal(t, 25.0, p.CLV)
	assert.Len(t, p.Messages, 1)
	assert.Len(t, p.Orders, 1)
	assert.Len(t, p.Reminders, 1)
	assert.Len(t, p.Activity, 1)
	require.NotNil(t, p.AISummary)
	assert.Equal(t, "wants a bag", p.AISummary.SummaryText)
}

func TestGetProfile_NoSummaryAndUnknownCustomer(t *testing.T) {
	repo := newFakeRepo()
	c := &customer.Customer{Name: "Ama", InstagramHandle: "ama"}
	require.NoError(t, repo.Create(context.Background(), c))
	svc := NewProfileService(repo, messagesStub{}, ordersStub{}, remindersStub{}, activityStub{},
		summaryStub{err: xerrors.ErrNotFound}, zap.NewNop())

	p, err := svc.GetProfile(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Nil(t, p.AISummary)

	_, err = svc.GetProfile(context.Background(), 77)
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}
