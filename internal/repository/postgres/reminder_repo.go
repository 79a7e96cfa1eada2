package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/reminder"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

const reminderColumns = `id, customer_id, reminder_text, reminder_date, status`

type ReminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func scanReminder(row rowScanner, rem *reminder.Reminder) error {
	return row.Scan(&rem.ID, &rem.CustomerID, &rem.ReminderText, &rem.ReminderDate, &rem.Status)
}

func (r *ReminderRepository) Create(ctx context.Context, rem *reminder.Reminder) error {
	query := `
		INSERT INTO reminders (customer_id, reminder_text, reminder_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, rem.CustomerID, rem.ReminderText, rem.ReminderDate, rem.Status).Scan(&rem.ID)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// ListByCustomer returns reminders soonest first, optionally filtered by status.
func (r *ReminderRepository) ListByCustomer(ctx context.Context, customerID int64, status reminder.Status) ([]reminder.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE customer_id = $1`
	args := []interface{}{customerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY reminder_date ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []reminder.Reminder{}
	for rows.Next() {
		var rem reminder.Reminder
		if err := scanReminder(rows, &rem); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// MarkDone flips a reminder to Done and returns it.
func (r *ReminderRepository) MarkDone(ctx context.Context, id int64) (*reminder.Reminder, error) {
	query := `UPDATE reminders SET status = $1 WHERE id = $2 RETURNING ` + reminderColumns

	var rem reminder.Reminder
	err := scanReminder(r.db.QueryRow(ctx, query, reminder.StatusDone, id), &rem)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete reminder: %w", err)
	}
	return &rem, nil
}
