package scoring

import (
	"context"
	"errors"
	"testing"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	orders     map[int64]int64
	messages   map[int64]int64
	categories map[int64]customer.Tier
	countCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:     map[int64]int64{},
		messages:   map[int64]int64{},
		categories: map[int64]customer.Tier{},
	}
}

func (f *fakeRepo) Counts(_ context.Context, id int64) (int64, int64, error) {
	f.countCalls++
	return f.orders[id], f.messages[id], nil
}

func (f *fakeRepo) UpdateCategory(_ context.Context, id int64, tier customer.Tier) error {
	if _, ok := f.categories[id]; !ok {
		return xerrors.ErrNotFound
	}
	f.categories[id] = tier
	return nil
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		orders   int64
		messages int64
		want     customer.Tier
		points   int64
	}{
		{"no history", 0, 0, customer.TierLead, 0},
		{"active by messages", 0, 5, customer.TierActive, 5},
		{"active mixed", 2, 1, customer.TierActive, 5},
		{"vip by orders", 5, 0, customer.TierVIP, 10},
		{"just below vip", 4, 1, customer.TierActive, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.orders[1] = tt.orders
			repo.messages[1] = tt.messages

			score, err := NewScorer(repo, zap.NewNop()).Score(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score.Tier)
			assert.Equal(t, tt.points, score.Points)
		})
	}
}

func TestScore_UnknownCustomerIsLead(t *testing.T) {
	score, err := NewScorer(newFakeRepo(), zap.NewNop()).Score(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, customer.TierLead, score.Tier)
}

func TestScore_NeverCaches(t *testing.T) {
	repo := newFakeRepo()
	s := NewScorer(repo, zap.NewNop())
	ctx := context.Background()

	first, _ := s.Score(ctx, 1)
	repo.messages[1] = 6
	second, _ := s.Score(ctx, 1)

	assert.Equal(t, customer.TierLead, first.Tier)
	assert.Equal(t, customer.TierActive, second.Tier)
	assert.Equal(t, 2, repo.countCalls)
}

func TestRefresh_PersistsTier(t *testing.T) {
	repo := newFakeRepo()
	repo.categories[3] = customer.TierLead
	repo.orders[3] = 5

	tier, err := NewScorer(repo, zap.NewNop()).Refresh(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, customer.TierVIP, tier)
	assert.Equal(t, customer.TierVIP, repo.categories[3])
}

func TestRefresh_UnknownCustomer(t *testing.T) {
	_, err := NewScorer(newFakeRepo(), zap.NewNop()).Refresh(context.Background(), 42)
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}
