package template

import (
	"strings"

	xerrors "crm-service/internal/pkg/errors"
)

// Template is a canned message staff can send to customers.
// Content may reference {{name}} and {{handle}}.
type Template struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Content string `json:"content" db:"content"`
}

type CreateTemplateRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=100"`
	Content string `json:"content" form:"content" binding:"required"`
}

type Rendered struct {
	TemplateID int64  `json:"template_id"`
	CustomerID int64  `json:"customer_id"`
	Text       string `json:"text"`
}

func New(req *CreateTemplateRequest) (*Template, error) {
	name := strings.TrimSpace(req.Name)
	content := strings.TrimSpace(req.Content)
	if name == "" || content == "" {
		return nil, xerrors.Invalid("name and content are required")
	}
	return &Template{Name: name, Content: content}, nil
}

// Render substitutes the customer placeholders.
func (t *Template) Render(name, handle string) string {
	return strings.NewReplacer("{{name}}", name, "{{handle}}", "@"+handle).Replace(t.Content)
}
