package analytics

import (
	"database/sql"
	"math"
	"time"

	"github.com/fuselink/backend/internal/models"
	"gorm.io/gorm"
)

// Aggregator computes rollups over the recorded page view and link click
// events. All queries are scoped to the requesting user: directly for views,
// through the parent link's owner for clicks. Everything here is read-only.
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates an aggregator over the given database
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Overview is the headline numbers for a trailing window
type Overview struct {
	TotalViews         int64   `json:"total_views"`
	UniqueViews        int64   `json:"unique_views"`
	TotalClicks        int64   `json:"total_clicks"`
	UniqueClicks       int64   `json:"unique_clicks"`
	CTR                float64 `json:"ctr"`
	AverageTimeToClick float64 `json:"average_time_to_click"`
}

// ChartPoint is one calendar day of the daily series
type ChartPoint struct {
	Date   string `json:"date"`
	Views  int64  `json:"views"`
	Clicks int64  `json:"clicks"`
}

// ReferrerStat is one row of the top-referrers breakdown
type ReferrerStat struct {
	Referrer   string  `json:"referrer"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LocationStat is one row of the top-locations breakdown
type LocationStat struct {
	Country    string  `json:"country"`
	City       string  `json:"city"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DeviceStat is one row of the device breakdown
type DeviceStat struct {
	Device     string  `json:"device"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Export is the raw event dump for offline analysis
type Export struct {
	Views  []models.PageView  `json:"views"`
	Clicks []models.LinkClick `json:"clicks"`
}

// LinkStats is the per-link analytics payload: the user-level shape minus
// the page-view component
type LinkStats struct {
	TotalClicks        int64          `json:"total_clicks"`
	UniqueClicks       int64          `json:"unique_clicks"`
	AverageTimeToClick float64        `json:"average_time_to_click"`
	ClicksOverTime     []ChartPoint   `json:"clicks_over_time"`
	Referrers          []ReferrerStat `json:"referrers"`
	Devices            []DeviceStat   `json:"devices"`
}

// Window returns the trailing window for a day count: start of the day N
// days ago through the end of today, inclusive both ends, in now's location.
// N <= 0 degenerates to (at most) today; it is never an error.
func Window(days int, now time.Time) (time.Time, time.Time) {
	if days < 0 {
		days = 0
	}
	start := StartOfDay(now.AddDate(0, 0, -days))
	return start, EndOfDay(now)
}

// StartOfDay truncates t to midnight in its location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// userViews builds a fresh query over the user's page views in the window
func (a *Aggregator) userViews(userID string, start, end time.Time) *gorm.DB {
	return a.db.Model(&models.PageView{}).
		Where("user_id = ?", userID).
		Where("page_views.created_at BETWEEN ? AND ?", start, end)
}

// userClicks builds a fresh query over clicks against the user's links in
// the window. Ownership runs through the parent link.
func (a *Aggregator) userClicks(userID string, start, end time.Time) *gorm.DB {
	return a.db.Model(&models.LinkClick{}).
		Joins("JOIN links ON links.id = link_clicks.link_id AND links.deleted_at IS NULL").
		Where("links.user_id = ?", userID).
		Where("link_clicks.created_at BETWEEN ? AND ?", start, end)
}

// GetOverview computes the headline numbers for the trailing window
func (a *Aggregator) GetOverview(userID string, days int) (*Overview, error) {
	start, end := Window(days, time.Now())

	var o Overview

	if err := a.userViews(userID, start, end).Count(&o.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := a.userViews(userID, start, end).Where("is_unique = ?", true).Count(&o.UniqueViews).Error; err != nil {
		return nil, err
	}
	if err := a.userClicks(userID, start, end).Count(&o.TotalClicks).Error; err != nil {
		return nil, err
	}
	if err := a.userClicks(userID, start, end).Where("is_unique = ?", true).Count(&o.UniqueClicks).Error; err != nil {
		return nil, err
	}

	if o.TotalViews > 0 {
		o.CTR = round2(float64(o.TotalClicks) / float64(o.TotalViews) * 100)
	}

	var avg sql.NullFloat64
	err := a.userClicks(userID, start, end).
		Where("time_to_click IS NOT NULL").
		Select("AVG(time_to_click)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		o.AverageTimeToClick = avg.Float64
	}

	return &o, nil
}

// GetChart computes the zero-filled daily series over the same inclusive
// window as GetOverview: one point per calendar day from the start of the
// day N days ago through today, oldest first (N+1 points).
func (a *Aggregator) GetChart(userID string, days int) ([]ChartPoint, error) {
	start, end := Window(days, time.Now())

	points := make([]ChartPoint, 0, days+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dayStart := day
		dayEnd := EndOfDay(day)

		var views, clicks int64
		if err := a.userViews(userID, dayStart, dayEnd).Count(&views).Error; err != nil {
			return nil, err
		}
		if err := a.userClicks(userID, dayStart, dayEnd).Count(&clicks).Error; err != nil {
			return nil, err
		}

		points = append(points, ChartPoint{
			Date:   day.Format("2006-01-02"),
			Views:  views,
			Clicks: clicks,
		})
	}

	return points, nil
}

// countRow is the scan target for the grouped breakdowns
type countRow struct {
	Referrer string
	Country  string
	City     string
	Device   string
	Count    int64
}

// GetReferrers returns the top 10 referrers by view count in the window.
// Views without a referrer are excluded. Percentages are computed over the
// returned top-10 set, not the full population; the original product shipped
// that convention and dashboards depend on it.
func (a *Aggregator) GetReferrers(userID string, days int) ([]ReferrerStat, error) {
	start, end := Window(days, time.Now())

	var rows []countRow
	err := a.userViews(userID, start, end).
		Where("referrer IS NOT NULL").
		Select("referrer, COUNT(*) AS count").
		Group("referrer").
		Order("count DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var total int64
	for _, r := range rows {
		total += r.Count
	}

	stats := make([]ReferrerStat, 0, len(rows))
	for _, r := range rows {
		stat := ReferrerStat{Referrer: r.Referrer, Count: r.Count}
		if total > 0 {
			stat.Percentage = round2(float64(r.Count) / float64(total) * 100)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// GetLocations returns the top 10 (country, city) pairs by view count in the
// window, excluding views with unknown-null country. Same subset-percentage
// convention as GetReferrers.
func (a *Aggregator) GetLocations(userID string, days int) ([]LocationStat, error) {
	start, end := Window(days, time.Now())

	var rows []countRow
	err := a.userViews(userID, start, end).
		Where("country IS NOT NULL").
		Select("country, city, COUNT(*) AS count").
		Group("country, city").
		Order("count DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var total int64
	for _, r := range rows {
		total += r.Count
	}

	stats := make([]LocationStat, 0, len(rows))
	for _, r := range rows {
		stat := LocationStat{Country: r.Country, City: r.City, Count: r.Count}
		if total > 0 {
			stat.Percentage = round2(float64(r.Count) / float64(total) * 100)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// GetDevices returns the device breakdown of views in the window. Unlike the
// referrer and location breakdowns every view counts; the recorder always
// classifies a device.
func (a *Aggregator) GetDevices(userID string, days int) ([]DeviceStat, error) {
	start, end := Window(days, time.Now())

	var rows []countRow
	err := a.userViews(userID, start, end).
		Select("device, COUNT(*) AS count").
		Group("device").
		Order("count DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var total int64
	for _, r := range rows {
		total += r.Count
	}

	stats := make([]DeviceStat, 0, len(rows))
	for _, r := range rows {
		stat := DeviceStat{Device: r.Device, Count: r.Count}
		if total > 0 {
			stat.Percentage = round2(float64(r.Count) / float64(total) * 100)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// GetExport returns the raw event rows in the window, newest first. Click
// rows carry their parent link's title and url for the CSV exporter.
func (a *Aggregator) GetExport(userID string, days int) (*Export, error) {
	start, end := Window(days, time.Now())

	var views []models.PageView
	err := a.userViews(userID, start, end).
		Order("created_at DESC").
		Find(&views).Error
	if err != nil {
		return nil, err
	}

	var clicks []models.LinkClick
	err = a.userClicks(userID, start, end).
		Preload("Link", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, title, url")
		}).
		Order("link_clicks.created_at DESC").
		Find(&clicks).Error
	if err != nil {
		return nil, err
	}

	return &Export{Views: views, Clicks: clicks}, nil
}

// linkClicks builds a fresh query over one link's clicks in the window
func (a *Aggregator) linkClicks(linkID string, start, end time.Time) *gorm.DB {
	return a.db.Model(&models.LinkClick{}).
		Where("link_id = ?", linkID).
		Where("created_at BETWEEN ? AND ?", start, end)
}

// GetLinkStats computes the per-link rollup. Callers must have verified
// ownership of the link already.
func (a *Aggregator) GetLinkStats(linkID string, days int) (*LinkStats, error) {
	start, end := Window(days, time.Now())

	var s LinkStats

	if err := a.linkClicks(linkID, start, end).Count(&s.TotalClicks).Error; err != nil {
		return nil, err
	}
	if err := a.linkClicks(linkID, start, end).Where("is_unique = ?", true).Count(&s.UniqueClicks).Error; err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	err := a.linkClicks(linkID, start, end).
		Where("time_to_click IS NOT NULL").
		Select("AVG(time_to_click)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		s.AverageTimeToClick = avg.Float64
	}

	// Zero-filled daily series, same shape as the user-level chart
	s.ClicksOverTime = make([]ChartPoint, 0, days+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var clicks int64
		if err := a.linkClicks(linkID, day, EndOfDay(day)).Count(&clicks).Error; err != nil {
			return nil, err
		}
		s.ClicksOverTime = append(s.ClicksOverTime, ChartPoint{
			Date:   day.Format("2006-01-02"),
			Clicks: clicks,
		})
	}

	var refRows []countRow
	err = a.linkClicks(linkID, start, end).
		Where("referrer IS NOT NULL").
		Select("referrer, COUNT(*) AS count").
		Group("referrer").
		Order("count DESC").
		Limit(10).
		Scan(&refRows).Error
	if err != nil {
		return nil, err
	}
	var refTotal int64
	for _, r := range refRows {
		refTotal += r.Count
	}
	for _, r := range refRows {
		stat := ReferrerStat{Referrer: r.Referrer, Count: r.Count}
		if refTotal > 0 {
			stat.Percentage = round2(float64(r.Count) / float64(refTotal) * 100)
		}
		s.Referrers = append(s.Referrers, stat)
	}

	var devRows []countRow
	err = a.linkClicks(linkID, start, end).
		Select("device, COUNT(*) AS count").
		Group("device").
		Order("count DESC").
		Limit(10).
		Scan(&devRows).Error
	if err != nil {
		return nil, err
	}
	var devTotal int64
	for _, r := range devRows {
		devTotal += r.Count
	}
	for _, r := range devRows {
		stat := DeviceStat{Device: r.Device, Count: r.Count}
		if devTotal > 0 {
			stat.Percentage = round2(float64(r.Count) / float64(devTotal) * 100)
		}
		s.Devices = append(s.Devices, stat)
	}

	return &s, nil
}
