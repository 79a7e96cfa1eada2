package message

import "crm-service/internal/domain/tag"

type CreateMessageRequest struct {
	Message   string `json:"message" form:"message" binding:"required"`
	Direction string `json:"direction" form:"direction" binding:"required"`
}

// Created is returned after appending a message: the row plus any tags it triggered.
type Created struct {
	Message *Message  `json:"message"`
	Tags    []tag.Tag `json:"tags"`
}
