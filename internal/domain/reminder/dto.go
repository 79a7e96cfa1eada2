package reminder

type CreateReminderRequest struct {
	ReminderText string `json:"reminder_text" form:"reminder_text" binding:"required"`
	ReminderDate string `json:"reminder_date" form:"reminder_date" binding:"required"`
}

type ListFilters struct {
	Status string `form:"status"`
}
