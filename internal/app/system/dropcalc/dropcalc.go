// internal/app/system/dropcalc/dropcalc.go
package dropcalc

import (
	"math"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
)

// Recompute refreshes the aggregate fields of d from its products and
// advances its status by time and stock. Call it before every write of a
// drop document.
//
//   - total_items = number of products
//   - total_stock = Σ stock_quantity, sold_count = Σ sold_quantity
//   - price_range = {min, max} of product prices
//   - scheduled and now ≥ launch → live
//   - live and sold_count ≥ total_stock → completed
func Recompute(d *models.Drop, now time.Time) {
	d.TotalItems = len(d.Products)
	d.TotalStock = 0
	d.SoldCount = 0
	d.PriceRange = models.PriceRange{}
	for i, p := range d.Products {
		d.TotalStock += p.StockQuantity
		d.SoldCount += p.SoldQuantity
		if i == 0 || p.Price < d.PriceRange.Min {
			d.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > d.PriceRange.Max {
			d.PriceRange.Max = p.Price
		}
	}

	if d.Status == models.DropScheduled && !now.Before(d.LaunchDatetime) {
		d.Status = models.DropLive
	}
	if d.Status == models.DropLive && d.TotalStock > 0 && d.SoldCount >= d.TotalStock {
		d.Status = models.DropCompleted
	}
	d.EngagementRate = EngagementRate(*d)
}

// EngagementRate weighs notifications, sales and reviews against views:
// (notifications·0.1 + sold·2 + reviews·1.5) / views · 100, two decimals.
// A drop with no views has a rate of 0.
func EngagementRate(d models.Drop) float64 {
	if d.Views <= 0 {
		return 0
	}
	score := float64(d.NotificationCount)*0.1 + float64(d.SoldCount)*2 + float64(d.ReviewCount)*1.5
	return math.Round(score/float64(d.Views)*100*100) / 100
}

// View adds the read-time virtual fields to d. Live and completed drops
// have no time until launch; draft and upcoming drops have no days since
// launch. A drop with no stock counts as sold out.
func View(d models.Drop, now time.Time) models.DropView {
	v := models.DropView{Drop: d, IsSoldOut: d.SoldCount >= d.TotalStock}
	if d.TotalStock > 0 {
		v.SelloutPercentage = int(math.Round(float64(d.SoldCount) / float64(d.TotalStock) * 100))
	}
	launched := d.Status == models.DropLive || d.Status == models.DropCompleted
	if until := d.LaunchDatetime.Sub(now); until > 0 && !launched {
		v.TimeUntilLaunchMS = until.Milliseconds()
	}
	unreleased := d.Status == models.DropDraft || d.Status == models.DropUpcoming
	if since := now.Sub(d.LaunchDatetime); since > 0 && !unreleased {
		v.DaysSinceLaunch = int(since.Hours() / 24)
	}
	return v
}

// Views applies View to every drop.
func Views(ds []models.Drop, now time.Time) []models.DropView {
	out := make([]models.DropView, len(ds))
	for i, d := range ds {
		out[i] = View(d, now)
	}
	return out
}
