//go:build integration

package postgres

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"testing"
	"time"

	"crm-service/internal/db"
	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/ai"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/message"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/reminder"
	"crm-service/internal/domain/tag"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("CRM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CRM_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.ConnectDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = db.Migrate(ctx, pool)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE customers, message_templates RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestCustomerLifecycle(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	customers := NewCustomerRepository(pool)
	messages := NewMessageRepository(pool)
	orders := NewOrderRepository(pool)
	tags := NewTagRepository(pool)
	database := NewDB(pool)

	c, err := customer.New(&customer.CreateCustomerRequest{Name: "Ama", InstagramHandle: "ama.shop"})
	require.NoError(t, err)
	require.NoError(t, customers.Create(ctx, c))

	dup, _ := customer.New(&customer.CreateCustomerRequest{Name: "Other", InstagramHandle: "ama.shop"})
	err = customers.Create(ctx, dup)
	assert.True(t, errors.Is(err, xerrors.ErrConflict))

	for i := 0; i < 3; i++ {
		require.NoError(t, messages.Create(ctx, &message.Message{CustomerID: c.ID, MessageText: "hi", Direction: message.DirectionInbound}))
	}
	require.NoError(t, tags.Create(ctx, &tag.Tag{CustomerID: c.ID, Tag: tag.HotLead}))

	tx, err := database.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, orders.CreateWithTx(ctx, tx, &order.Order{CustomerID: c.ID, ProductName: "Bag", Quantity: 1, Price: 40.5, Status: order.StatusPending}))
	require.NoError(t, customers.UpdateStageWithTx(ctx, tx, c.ID, customer.StageOrdered))
	require.NoError(t, tx.Commit(ctx))

	summary, err := customers.SummaryByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.OrderCount)
	assert.Equal(t, int64(3), summary.MessageCount)
	assert.Equal(t, customer.TierActive, summary.Tier)
	assert.InDelta(t, 40.5, summary.CLV, 0.001)
	assert.Equal(t, []string{tag.HotLead}, []string(summary.Tags))
	assert.Equal(t, customer.StageOrdered, summary.Stage)

	found, err := customers.Search(ctx, &customer.CustomerListFilters{Search: "@AMA"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	aiRepo := NewAIRepository(pool)
	require.NoError(t, NewReminderRepository(pool).Create(ctx, &reminder.Reminder{
		CustomerID: c.ID, ReminderText: "follow up", ReminderDate: time.Now().Add(24 * time.Hour), Status: reminder.StatusPending,
	}))
	require.NoError(t, NewActivityRepository(pool).Create(ctx, &activity.Entry{CustomerID: c.ID, Action: "Order created"}))
	require.NoError(t, aiRepo.SaveReply(ctx, &ai.ReplyCacheEntry{CustomerID: c.ID, Message: "price?", Tone: ai.ToneProfessional, Reply: "20"}))
	require.NoError(t, aiRepo.SaveSummary(ctx, &ai.Summary{CustomerID: c.ID, SummaryText: "wants a bag"}))

	dependents := []string{"messages", "orders", "customer_tags", "reminders", "activity_timeline", "ai_replies", "ai_summaries"}
	for _, table := range dependents {
		assert.Positive(t, countRows(t, pool, table, c.ID), table)
	}

	tx, err = database.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, customers.DeleteWithTx(ctx, tx, c.ID))
	require.NoError(t, tx.Commit(ctx))

	_, err = customers.FindByID(ctx, c.ID)
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
	remaining, err := messages.ListByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	for _, table := range dependents {
		assert.Zero(t, countRows(t, pool, table, c.ID), table)
	}
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string, customerID int64) int64 {
	t.Helper()
	var n int64
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE customer_id = $1", customerID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestSaveReply_FirstWriterWins(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	c, _ := customer.New(&customer.CreateCustomerRequest{Name: "Kofi", InstagramHandle: "kofi"})
	require.NoError(t, NewCustomerRepository(pool).Create(ctx, c))

	repo := NewAIRepository(pool)
	first := &ai.ReplyCacheEntry{CustomerID: c.ID, Message: "price?", Tone: ai.ToneProfessional, Reply: "first"}
	second := &ai.ReplyCacheEntry{CustomerID: c.ID, Message: "price?", Tone: ai.ToneFriendly, Reply: "second"}
	require.NoError(t, repo.SaveReply(ctx, first))
	require.NoError(t, repo.SaveReply(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Reply)

	_, err := repo.LatestSummary(ctx, c.ID)
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))

	require.NoError(t, repo.SaveSummary(ctx, &ai.Summary{CustomerID: c.ID, SummaryText: "old"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.SaveSummary(ctx, &ai.Summary{CustomerID: c.ID, SummaryText: "new"}))
	latest, err := repo.LatestSummary(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.SummaryText)
}

func TestSaveReply_LongMessage(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	c, _ := customer.New(&customer.CreateCustomerRequest{Name: "Esi", InstagramHandle: "esi"})
	require.NoError(t, NewCustomerRepository(pool).Create(ctx, c))

	// Random text defeats TOAST compression, so the raw value would not fit a btree entry.
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	rng := rand.New(rand.NewSource(42))
	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = letters[rng.Intn(len(letters))]
	}
	long := string(buf)

	repo := NewAIRepository(pool)
	first := &ai.ReplyCacheEntry{CustomerID: c.ID, Message: long, Tone: ai.ToneProfessional, Reply: "first"}
	require.NoError(t, repo.SaveReply(ctx, first))

	got, err := repo.FindReply(ctx, c.ID, long)
	require.NoError(t, err)
	assert.Equal(t, long, got.Message)
	assert.Equal(t, "first", got.Reply)

	second := &ai.ReplyCacheEntry{CustomerID: c.ID, Message: long, Tone: ai.ToneSales, Reply: "second"}
	require.NoError(t, repo.SaveReply(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Reply)

	_, err = repo.FindReply(ctx, c.ID, long[:len(long)-1])
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}
