package dto

import "github.com/LeFrancilien/LeadFlow/internal/entity"

// DashboardStats summarises the lead pipeline for the dashboard screen.
type DashboardStats struct {
	TotalLeads     int            `json:"total_leads"`
	LeadsThisMonth int            `json:"leads_this_month"`
	ConversionRate int            `json:"conversion_rate"`
	AverageScore   int            `json:"average_score"`
	BySource       map[string]int `json:"by_source"`
	ByStatus       map[string]int `json:"by_status"`
	RecentLeads    []entity.Lead  `json:"recent_leads"`
}
