package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/message"
	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Tables that can be exported.
const (
	TableCustomers = "customers"
	TableOrders    = "orders"
	TableMessages  = "messages"
)

var headers = map[string][]string{
	TableCustomers: {"id", "name", "instagram_handle", "email", "phone", "notes", "category", "stage", "created_at", "updated_at"},
	TableOrders:    {"id", "customer_id", "product_name", "quantity", "price", "status", "timestamp"},
	TableMessages:  {"id", "customer_id", "message_text", "direction", "timestamp"},
}

type CustomerLister interface {
	ListAll(ctx context.Context) ([]customer.Customer, error)
}

type OrderLister interface {
	ListAll(ctx context.Context) ([]order.Order, error)
}

type MessageLister interface {
	ListAll(ctx context.Context) ([]message.Message, error)
}

type ExportService struct {
	customers CustomerLister
	orders    OrderLister
	messages  MessageLister
	logger    *zap.Logger
}

func NewExportService(customers CustomerLister, orders OrderLister, messages MessageLister, logger *zap.Logger) *ExportService {
	return &ExportService{customers: customers, orders: orders, messages: messages, logger: logger}
}

// ParseTable normalizes a table name and rejects anything not exportable.
func ParseTable(name string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(name))
	if _, ok := headers[t]; !ok {
		return "", xerrors.Invalid("cannot export table %q", name)
	}
	return t, nil
}

// Export writes table as CSV to w. The header row is written even when the
// table is empty.
func (s *ExportService) Export(ctx context.Context, table string, w io.Writer) error {
	table, err := ParseTable(table)
	if err != nil {
		return err
	}

	rows, err := s.rows(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", table, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers[table]); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s csv: %w", table, err)
	}

	s.logger.Info("table exported", zap.String("table", table), zap.Int("rows", len(rows)))
	return nil
}

func (s *ExportService) rows(ctx context.Context, table string) ([][]string, error) {
	switch table {
	case TableCustomers:
		list, err := s.customers.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([][]string, 0, len(list))
		for _, c := range list {
			out = append(out, []string{
				id(c.ID), c.Name, c.InstagramHandle,
				deref(c.Email), deref(c.Phone), deref(c.Notes),
				string(c.Category), string(c.Stage),
				ts(c.CreatedAt), ts(c.UpdatedAt),
			})
		}
		return out, nil

	case TableOrders:
		list, err := s.orders.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([][]string, 0, len(list))
		for _, o := range list {
			out = append(out, []string{
				id(o.ID), id(o.CustomerID), o.ProductName,
				strconv.Itoa(o.Quantity),
				strconv.FormatFloat(o.Price, 'f', 2, 64),
				string(o.Status), ts(o.Timestamp),
			})
		}
		return out, nil

	default:
		list, err := s.messages.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([][]string, 0, len(list))
		for _, m := range list {
			out = append(out, []string{
				id(m.ID), id(m.CustomerID), m.MessageText,
				string(m.Direction), ts(m.Timestamp),
			})
		}
		return out, nil
	}
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func ts(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
