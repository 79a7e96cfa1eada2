package middleware

import (
	"strconv"

	xerrors "crm-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive int64 path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, xerrors.Invalid("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// QueryInt reads an optional integer query parameter.
func QueryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, xerrors.Invalid("%s must be an integer", name)
	}
	return n, nil
}
