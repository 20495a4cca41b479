package model

// OperatingHour is the clinic-wide default for one weekday (0 = Monday).
type OperatingHour struct {
	Base
	Weekday   int        `db:"weekday" json:"weekday"`
	IsOpen    bool       `db:"is_open" json:"is_open"`
	StartTime *TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   *TimeOfDay `db:"end_time" json:"end_time"`
}

type CreateOperatingHourRequest struct {
	Weekday   *int       `json:"weekday" binding:"required,weekday"`
	IsOpen    bool       `json:"is_open"`
	StartTime *TimeOfDay `json:"start_time"`
	EndTime   *TimeOfDay `json:"end_time"`
}

type UpdateOperatingHourRequest struct {
	IsOpen    *bool      `json:"is_open"`
	StartTime *TimeOfDay `json:"start_time"`
	EndTime   *TimeOfDay `json:"end_time"`
}
