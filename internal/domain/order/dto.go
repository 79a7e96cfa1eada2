package order

type CreateOrderRequest struct {
	ProductName string  `json:"product_name" form:"product_name" binding:"required,max=255"`
	Quantity    int     `json:"quantity" form:"quantity" binding:"required"`
	Price       float64 `json:"price" form:"price"`
	Status      string  `json:"status" form:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
