// Package dashboard derives the read-side summary from the raw product and
// stage collections. Everything is a pure fold recomputed on each fetch.
package dashboard

import (
	"math"
	"slices"
	"time"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// RecentActivityWindow caps the recent activity list.
const RecentActivityWindow = 10

// StatusSlice is one segment of the status distribution.
type StatusSlice struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// BranchStats aggregates one branch's products by status.
type BranchStats struct {
	BranchID       string `json:"branchId"`
	BranchName     string `json:"branchName"`
	BranchLocation string `json:"branchLocation,omitempty"`
	Total          int    `json:"total"`
	InProduction   int    `json:"inProduction"`
	Completed      int    `json:"completed"`
	Cancelled      int    `json:"cancelled"`
}

// Activity is one recent stage-recording event.
type Activity struct {
	StageID     string    `json:"stageId"`
	StageName   string    `json:"stageName"`
	ProductID   string    `json:"productId"`
	BatchNumber string    `json:"batchNumber,omitempty"`
	BranchID    string    `json:"branchId,omitempty"`
	BranchName  string    `json:"branchName,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// Summary is the dashboard aggregate.
type Summary struct {
	TotalProducts      int                    `json:"totalProducts"`
	InProduction       int                    `json:"inProduction"`
	Completed          int                    `json:"completed"`
	Cancelled          int                    `json:"cancelled"`
	StatusDistribution map[string]StatusSlice `json:"statusDistribution"`
	BranchStats        []BranchStats          `json:"branchStats"`
	RecentActivity     []Activity             `json:"recentActivity"`
}

// Percent computes the integer-rounded share of part in total, 0 when the
// total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// BuildSummary folds the current collections into the dashboard aggregate.
// When branchID is non-empty both the counts and the activity list are
// restricted to that branch. Every known branch appears in BranchStats even
// with zero products.
func BuildSummary(branches []models.Branch, products []models.Product, stageRows []models.ProductionStage, branchID string) Summary {
	branchByID := make(map[string]models.Branch, len(branches))
	statsByID := make(map[string]*BranchStats, len(branches))
	statsOrder := make([]string, 0, len(branches))

	for _, branch := range branches {
		branchByID[branch.ID] = branch
		statsByID[branch.ID] = &BranchStats{
			BranchID:       branch.ID,
			BranchName:     branch.Name,
			BranchLocation: branch.Location,
		}
		statsOrder = append(statsOrder, branch.ID)
	}

	productByID := make(map[string]models.Product, len(products))

	var total, inProduction, completed, cancelled int
	for _, product := range products {
		productByID[product.ID] = product

		stats := statsByID[product.BranchID]
		if stats != nil {
			stats.Total++
		}

		counted := branchID == "" || product.BranchID == branchID
		if counted {
			total++
		}

		switch product.Status {
		case models.StatusInProduction:
			if counted {
				inProduction++
			}
			if stats != nil {
				stats.InProduction++
			}
		case models.StatusCompleted:
			if counted {
				completed++
			}
			if stats != nil {
				stats.Completed++
			}
		case models.StatusCancelled:
			if counted {
				cancelled++
			}
			if stats != nil {
				stats.Cancelled++
			}
		}
	}

	branchStats := make([]BranchStats, 0, len(statsOrder))
	for _, id := range statsOrder {
		branchStats = append(branchStats, *statsByID[id])
	}

	return Summary{
		TotalProducts: total,
		InProduction:  inProduction,
		Completed:     completed,
		Cancelled:     cancelled,
		StatusDistribution: map[string]StatusSlice{
			string(models.StatusInProduction): {Count: inProduction, Percentage: Percent(inProduction, total)},
			string(models.StatusCompleted):    {Count: completed, Percentage: Percent(completed, total)},
			string(models.StatusCancelled):    {Count: cancelled, Percentage: Percent(cancelled, total)},
		},
		BranchStats:    branchStats,
		RecentActivity: recentActivity(stageRows, productByID, branchByID, branchID),
	}
}

func recentActivity(stageRows []models.ProductionStage, productByID map[string]models.Product, branchByID map[string]models.Branch, branchID string) []Activity {
	sorted := slices.Clone(stageRows)
	slices.SortFunc(sorted, func(a, b models.ProductionStage) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})

	activity := make([]Activity, 0, RecentActivityWindow)
	for _, row := range sorted {
		product, ok := productByID[row.ProductID]
		if branchID != "" && (!ok || product.BranchID != branchID) {
			continue
		}

		entry := Activity{
			StageID:    row.StageID,
			StageName:  row.StageName,
			ProductID:  row.ProductID,
			RecordedAt: row.RecordedAt,
		}
		if ok {
			entry.BatchNumber = product.BatchNumber
			entry.BranchID = product.BranchID
			if branch, found := branchByID[product.BranchID]; found {
				entry.BranchName = branch.Name
			}
		}

		activity = append(activity, entry)
		if len(activity) == RecentActivityWindow {
			break
		}
	}

	return activity
}

// SnapshotFrom condenses a summary into the archive row written nightly.
func SnapshotFrom(summary Summary, at time.Time) models.DashboardSnapshot {
	return models.DashboardSnapshot{
		Date:          at.Truncate(24 * time.Hour),
		TotalProducts: summary.TotalProducts,
		InProduction:  summary.InProduction,
		Completed:     summary.Completed,
		Cancelled:     summary.Cancelled,
		BranchCount:   len(summary.BranchStats),
		CreatedAt:     at,
	}
}
