package models

import "time"

// DashboardSnapshot is the nightly aggregate archived by the scheduler.
type DashboardSnapshot struct {
	Date          time.Time `bson:"date" json:"date"`
	TotalProducts int       `bson:"total_products" json:"total_products"`
	InProduction  int       `bson:"in_production" json:"in_production"`
	Completed     int       `bson:"completed" json:"completed"`
	Cancelled     int       `bson:"cancelled" json:"cancelled"`
	BranchCount   int       `bson:"branch_count" json:"branch_count"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
