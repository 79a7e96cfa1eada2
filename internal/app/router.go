package app

import (
	aiHandler "crm-service/internal/handlers/ai"
	customerHandler "crm-service/internal/handlers/customer"
	exportHandler "crm-service/internal/handlers/export"
	healthHandler "crm-service/internal/handlers/health"
	messageHandler "crm-service/internal/handlers/message"
	orderHandler "crm-service/internal/handlers/order"
	reminderHandler "crm-service/internal/handlers/reminder"
	tagHandler "crm-service/internal/handlers/tag"
	templateHandler "crm-service/internal/handlers/template"
	wsHandler "crm-service/internal/handlers/websocket"
	"crm-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	HealthHandler   *healthHandler.HealthHandler
	CustomerHandler *customerHandler.CustomerHandler
	MessageHandler  *messageHandler.MessageHandler
	OrderHandler    *orderHandler.OrderHandler
	ReminderHandler *reminderHandler.ReminderHandler
	TagHandler      *tagHandler.TagHandler
	AIHandler       *aiHandler.AIHandler
	TemplateHandler *templateHandler.TemplateHandler
	ExportHandler   *exportHandler.ExportHandler
	WSHandler       *wsHandler.WebSocketHandler
	Metrics         *metrics.Metrics
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", h.HealthHandler.Health)
	api.GET("/ws/stats", h.WSHandler.GetStats)

	// ==================== Dashboard ====================
	api.GET("/dashboard", h.CustomerHandler.Dashboard)

	// ==================== Customers ====================
	customers := api.Group("/customers")
	{
		customers.POST("", h.CustomerHandler.CreateCustomer)
		customers.GET("/search", h.CustomerHandler.SearchCustomers)
		customers.GET("/:id", h.CustomerHandler.GetCustomer)
		customers.PUT("/:id", h.CustomerHandler.UpdateCustomer)
		customers.DELETE("/:id", h.CustomerHandler.DeleteCustomer)
		customers.GET("/:id/profile", h.CustomerHandler.GetProfile)

		customers.GET("/:id/messages", h.MessageHandler.ListMessages)
		customers.POST("/:id/messages", h.MessageHandler.AddMessage)

		customers.GET("/:id/orders", h.OrderHandler.ListOrders)
		customers.POST("/:id/orders", h.OrderHandler.CreateOrder)

		customers.GET("/:id/reminders", h.ReminderHandler.ListReminders)
		customers.POST("/:id/reminders", h.ReminderHandler.CreateReminder)

		customers.GET("/:id/tags", h.TagHandler.ListTags)
		customers.POST("/:id/tags", h.TagHandler.AddTag)
		customers.GET("/:id/activity", h.TagHandler.ListActivity)

		customers.POST("/:id/ai/reply", h.AIHandler.GenerateReply)
		customers.GET("/:id/ai/summary", h.AIHandler.GenerateSummary)
	}

	// ==================== Orders & Reminders ====================
	api.PUT("/orders/:id/status", h.OrderHandler.UpdateStatus)
	api.PUT("/reminders/:id/done", h.ReminderHandler.CompleteReminder)

	// ==================== Templates ====================
	templates := api.Group("/templates")
	{
		templates.GET("", h.TemplateHandler.ListTemplates)
		templates.POST("", h.TemplateHandler.CreateTemplate)
		templates.DELETE("/:id", h.TemplateHandler.DeleteTemplate)
		templates.GET("/:id/render/:customer_id", h.TemplateHandler.RenderTemplate)
	}

	// ==================== Export ====================
	api.GET("/export/:table", h.ExportHandler.ExportTable)

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
