package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const customerColumns = `id, name, instagram_handle, email, phone, notes, category, stage, created_at, updated_at`

// childTables are wiped together with their customer.
var childTables = []string{
	"messages", "orders", "customer_tags", "reminders",
	"activity_timeline", "ai_replies", "ai_summaries",
}

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner, c *customer.Customer) error {
	return row.Scan(
		&c.ID, &c.Name, &c.InstagramHandle, &c.Email, &c.Phone, &c.Notes,
		&c.Category, &c.Stage, &c.CreatedAt, &c.UpdatedAt,
	)
}

// Create inserts a customer. A duplicate instagram handle yields ErrConflict.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, instagram_handle, email, phone, notes, category, stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Name, c.InstagramHandle, c.Email, c.Phone, c.Notes, c.Category, c.Stage,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: instagram handle %q is already registered", xerrors.ErrConflict, c.InstagramHandle)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// FindByID retrieves a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var c customer.Customer
	err := scanCustomer(r.db.QueryRow(ctx, query, id), &c)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return &c, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer: %w", err)
	}
	return exists, nil
}

// Update writes every editable column of c.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, instagram_handle = $2, email = $3, phone = $4,
		    notes = $5, stage = $6, updated_at = $7
		WHERE id = $8
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Name, c.InstagramHandle, c.Email, c.Phone, c.Notes, c.Stage, time.Now(), c.ID,
	).Scan(&c.UpdatedAt)

	if isNoRows(err) {
		return xerrors.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: instagram handle %q is already registered", xerrors.ErrConflict, c.InstagramHandle)
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// UpdateCategory persists a recomputed tier.
func (r *CustomerRepository) UpdateCategory(ctx context.Context, id int64, tier customer.Tier) error {
	result, err := r.db.Exec(ctx, `UPDATE customers SET category = $1 WHERE id = $2`, tier, id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStageWithTx moves a customer through the pipeline within a transaction
func (r *CustomerRepository) UpdateStageWithTx(ctx context.Context, tx pgx.Tx, id int64, stage customer.Stage) error {
	query := `UPDATE customers SET stage = $1, updated_at = $2 WHERE id = $3`

	result, err := tx.Exec(ctx, query, stage, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// DeleteWithTx removes the customer and every row that references it.
func (r *CustomerRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id int64) error {
	for _, table := range childTables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE customer_id = $1", table), id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Search matches the query against name or handle, optionally narrowed to customers
// carrying any of the given tags.
func (r *CustomerRepository) Search(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.Customer, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if q := strings.TrimSpace(filters.Search); q != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR instagram_handle ILIKE $%d)", argPos, argPos,
		))
		args = append(args, "%"+customer.NormalizeHandle(q)+"%")
		argPos++
	}

	if len(filters.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM customer_tags t WHERE t.customer_id = customers.id AND t.tag = ANY($%d))", argPos,
		))
		args = append(args, pq.Array(filters.Tags))
		argPos++
	}

	limit := filters.Limit
	if limit < 1 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE %s
		ORDER BY name ASC, id ASC
		LIMIT $%d
	`, customerColumns, strings.Join(conditions, " AND "), argPos)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// ListAll returns every customer ordered by id.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

const summarySelect = `
	SELECT c.id, c.name, c.instagram_handle, c.email, c.phone, c.notes, c.category, c.stage,
	       c.created_at, c.updated_at,
	       COALESCE(o.order_count, 0), COALESCE(m.message_count, 0),
	       COALESCE(o.clv, 0)::float8, COALESCE(t.tags, '{}')
	FROM customers c
	LEFT JOIN (
		SELECT customer_id, COUNT(*) AS order_count, SUM(price) AS clv
		FROM orders GROUP BY customer_id
	) o ON o.customer_id = c.id
	LEFT JOIN (
		SELECT customer_id, COUNT(*) AS message_count
		FROM messages GROUP BY customer_id
	) m ON m.customer_id = c.id
	LEFT JOIN (
		SELECT customer_id, array_agg(tag ORDER BY created_at, id) AS tags
		FROM customer_tags GROUP BY customer_id
	) t ON t.customer_id = c.id
`

func scanSummary(row rowScanner, s *customer.Summary) error {
	err := row.Scan(
		&s.ID, &s.Name, &s.InstagramHandle, &s.Email, &s.Phone, &s.Notes, &s.Category, &s.Stage,
		&s.CreatedAt, &s.UpdatedAt,
		&s.OrderCount, &s.MessageCount, &s.CLV, (*[]string)(&s.Tags),
	)
	if err != nil {
		return err
	}
	s.Points = customer.Points(s.OrderCount, s.MessageCount)
	s.Tier = customer.TierFor(s.OrderCount, s.MessageCount)
	return nil
}

// Summaries reads every customer with its counts, CLV and tags in one query.
func (r *CustomerRepository) Summaries(ctx context.Context) ([]customer.Summary, error) {
	rows, err := r.db.Query(ctx, summarySelect+` ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	defer rows.Close()

	summaries := []customer.Summary{}
	for rows.Next() {
		var s customer.Summary
		if err := scanSummary(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// SummaryByID is Summaries narrowed to one customer.
func (r *CustomerRepository) SummaryByID(ctx context.Context, id int64) (*customer.Summary, error) {
	var s customer.Summary
	err := scanSummary(r.db.QueryRow(ctx, summarySelect+` WHERE c.id = $1`, id), &s)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer summary: %w", err)
	}
	return &s, nil
}

// Totals counts customers, messages and orders.
func (r *CustomerRepository) Totals(ctx context.Context) (customers, messages, orders int64, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM orders)
	`
	if err = r.db.QueryRow(ctx, query).Scan(&customers, &messages, &orders); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count totals: %w", err)
	}
	return customers, messages, orders, nil
}

// Counts returns the order and message counts the lead score is computed from.
func (r *CustomerRepository) Counts(ctx context.Context, id int64) (orders, messages int64, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE customer_id = $1),
			(SELECT COUNT(*) FROM messages WHERE customer_id = $1)
	`
	if err = r.db.QueryRow(ctx, query, id).Scan(&orders, &messages); err != nil {
		return 0, 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return orders, messages, nil
}
