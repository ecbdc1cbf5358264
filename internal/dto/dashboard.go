package dto

import "time"

// DashboardParams defines the query parameters for the dashboard.
type DashboardParams struct {
	CashbookID *string    `form:"cashbookId"`
	StartDate  *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"endDate" time_format:"2006-01-02"`
}
