package model

type DailyCount struct {
	Date  Date `db:"day" json:"date"`
	Count int  `db:"count" json:"count"`
}

type ServiceCount struct {
	ServiceName string `db:"service_name" json:"service_name"`
	Count       int    `db:"count" json:"count"`
}

type StatusCount struct {
	Status AppointmentStatus `db:"status" json:"status"`
	Count  int               `db:"count" json:"count"`
}

type DashboardStats struct {
	TotalPatients     int            `json:"total_patients"`
	TotalTherapists   int            `json:"total_therapists"`
	AppointmentsByDay []DailyCount   `json:"appointments_last_7_days"`
	ByService         []ServiceCount `json:"appointments_by_service"`
	ByStatus          []StatusCount  `json:"appointments_by_status"`
}
