package request

// Pointer fields distinguish a field the client omitted from one the client
// set to an empty value. The merge in the service layer is presence-based.

type CreateTaskRequest struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
}
