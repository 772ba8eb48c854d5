package dto

// CreateRoomRequest creates a defense room.
type CreateRoomRequest struct {
	Name        string `json:"name" validate:"required"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	Building    string `json:"building" validate:"required"`
	Floor       int    `json:"floor"`
	IsAvailable *bool  `json:"is_available"`
}

// UpdateRoomRequest updates a defense room.
type UpdateRoomRequest struct {
	Name        string `json:"name" validate:"required"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	Building    string `json:"building" validate:"required"`
	Floor       int    `json:"floor"`
	IsAvailable *bool  `json:"is_available"`
}
