package customer

import (
	"errors"
	"testing"

	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name     string
		orders   int64
		messages int64
		want     Tier
	}{
		{"fresh customer", 0, 0, TierLead},
		{"four points", 1, 2, TierLead},
		{"exactly five", 0, 5, TierActive},
		{"five via orders", 2, 1, TierActive},
		{"nine points", 3, 3, TierActive},
		{"exactly ten", 5, 0, TierVIP},
		{"ten mixed", 3, 4, TierVIP},
		{"far above", 20, 40, TierVIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.orders, tt.messages))
		})
	}
}

func TestPoints(t *testing.T) {
	assert.Equal(t, int64(7), Points(2, 3))
	assert.Equal(t, int64(0), Points(0, 0))
}

func TestNew(t *testing.T) {
	c, err := New(&CreateCustomerRequest{
		Name:            "  Ama Owusu ",
		InstagramHandle: "@ama.shop",
		Email:           "ama@example.com",
		Phone:           "  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ama Owusu", c.Name)
	assert.Equal(t, "ama.shop", c.InstagramHandle)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ama@example.com", *c.Email)
	assert.Nil(t, c.Phone)
	assert.Equal(t, TierLead, c.Category)
	assert.Equal(t, StageNew, c.Stage)
}

func TestNew_RequiresNameAndHandle(t *testing.T) {
	_, err := New(&CreateCustomerRequest{InstagramHandle: "x"})
	assert.True(t, errors.Is(err, xerrors.ErrInvalidInput))

	_, err = New(&CreateCustomerRequest{Name: "X", InstagramHandle: " @ "})
	assert.True(t, errors.Is(err, xerrors.ErrInvalidInput))
}

func TestApply(t *testing.T) {
	c := &Customer{Name: "Old", InstagramHandle: "old", Stage: StageNew}
	name, stage, email := "New", "Contacted", ""

	require.NoError(t, c.Apply(&UpdateCustomerRequest{Name: &name, Stage: &stage, Email: &email}))

	assert.Equal(t, "New", c.Name)
	assert.Equal(t, StageContacted, c.Stage)
	assert.Nil(t, c.Email)
	assert.Equal(t, "old", c.InstagramHandle)
}

func TestApply_RejectsUnknownStage(t *testing.T) {
	c := &Customer{Stage: StageNew}
	stage := "Negotiating"

	err := c.Apply(&UpdateCustomerRequest{Stage: &stage})

	assert.True(t, errors.Is(err, xerrors.ErrInvalidInput))
	assert.Equal(t, StageNew, c.Stage)
}
