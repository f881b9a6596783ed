package domain

import "time"

// DashboardStats are the aggregate counts shown on the admin dashboard.
// Active/inactive follow the expiry-aware definition: an approved member is
// active until the day after its expiry date; everyone else is inactive.
type DashboardStats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Inactive         int `json:"inactive"`
	NewRegistrations int `json:"newRegistrations"`
}

// TrendPoint is one day of the registration trend series.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}
