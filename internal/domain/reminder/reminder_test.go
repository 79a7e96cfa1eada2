package reminder

import (
	"errors"
	"testing"
	"time"

	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2026-11-02", "2026-11-02T09:30", "2026-11-02T09:30:00Z"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.November, got.Month())
		assert.Equal(t, 2, got.Day())
	}

	_, err := ParseDate("next tuesday")
	assert.True(t, errors.Is(err, xerrors.ErrInvalidInput))
}

func TestNew(t *testing.T) {
	r, err := New(4, &CreateReminderRequest{ReminderText: "Call back", ReminderDate: "2026-11-02"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "Call back", r.ReminderText)

	_, err = New(4, &CreateReminderRequest{ReminderText: " ", ReminderDate: "2026-11-02"})
	assert.True(t, errors.Is(err, xerrors.ErrInvalidInput))
}
