package model

type Location struct {
	Base
	Name      string `db:"name" json:"name"`
	Address   string `db:"address" json:"address"`
	RoomCount int    `db:"room_count" json:"room_count"`
	Active    bool   `db:"active" json:"active"`
}

type CreateLocationRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Address   string `json:"address"`
	RoomCount int    `json:"room_count" binding:"gte=0"`
	Active    *bool  `json:"active"`
}

type UpdateLocationRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Address   *string `json:"address"`
	RoomCount *int    `json:"room_count" binding:"omitempty,gte=0"`
	Active    *bool   `json:"active"`
}
