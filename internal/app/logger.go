package app

import (
	"crm-service/internal/config"

	"go.uber.org/zap"
)

// NewLogger returns a development logger for APP_ENV=development and a JSON
// production logger otherwise.
func NewLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
