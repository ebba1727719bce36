package web

import (
	"fmt"
	"math"
	"strconv"

	"sudogwon/web/config"
	"sudogwon/web/internal/chart"
	"sudogwon/web/internal/format"
	"sudogwon/web/internal/insight"
	"sudogwon/web/internal/models"
)

// pageMeta feeds the shared <head> template.
type pageMeta struct {
	Title       string
	Description string
	Canonical   string
	OGImage     string
	Refresh     bool // operator pages reload themselves every 5 s
	NoIndex     bool
}

func (h *Handler) meta(title, description, path string) pageMeta {
	return pageMeta{
		Title:       title,
		Description: description,
		Canonical:   h.cfg.SiteURL + path,
	}
}

type homeView struct {
	pageMeta
	Stats  *models.MarketStats
	Recent []txRowView
}

type searchView struct {
	pageMeta
	Query    string
	Searched bool
	Results  []searchResultView
}

type searchResultView struct {
	ID          int64
	Name        string
	RegionLabel string
	BuildYear   int
	TxCount     int
	PriceLabel  string
	AreaLabel   string
	LatestDate  string
}

type browseCitiesView struct {
	pageMeta
	Cities []cityView
}

type cityView struct {
	Name     string
	AptCount int
	TxCount  int
}

type browseDistrictsView struct {
	pageMeta
	City      string
	Districts []models.District
}

type browseApartmentsView struct {
	pageMeta
	RegionName string
	Total      int
	Rows       []regionAptView
}

type regionAptView struct {
	ID         int64
	Name       string
	Dong       string
	BuildYear  int
	TxCount    int
	PriceLabel string
	AreaLabel  string
	LatestDate string
	PeakLabel  string
}

// txRowView is one rendered transaction row, shared by the home feed, the
// detail list and the scroll JSON endpoint.
type txRowView struct {
	AptID       int64  `json:"apt_id,omitempty"`
	AptName     string `json:"apt_name,omitempty"`
	RegionLabel string `json:"region_label,omitempty"`
	DealDate    string `json:"deal_date"`
	AreaLabel   string `json:"area_label"`
	Floor       int    `json:"floor"`
	PriceLabel  string `json:"price_label"`
	PerPyeong   string `json:"per_pyeong"`
	DropPercent int    `json:"drop_percent"`
	RecordHigh  bool   `json:"record_high"`
	Summary     string `json:"summary,omitempty"`
}

type detailView struct {
	pageMeta
	Apartment    models.Apartment
	RegionLabel  string
	InCompare    bool
	CompareReady bool

	Latest *latestView

	AreaStats    []areaStatView
	SelectedArea string

	HasChart     bool
	Chart        chart.Snippet
	HasSummary   bool
	ChartSummary chart.Summary
	Windows      []windowLink

	Transactions []txRowView
	Total        int
	Offset       int
	HasMore      bool
	FeedPath     string
}

// latestView is the headline card above the chart.
type latestView struct {
	PriceLabel   string
	DealDate     string
	AreaLabel    string
	Floor        int
	PeakLabel    string
	DropPercent  int
	RecordHigh   bool
	RatioPercent int
}

type areaStatView struct {
	AreaLabel   string
	PyeongLabel string
	PriceLabel  string
	Count       int
	Selected    bool
	URL         string
}

type windowLink struct {
	Label  string
	Active bool
	URL    string
}

type compareView struct {
	pageMeta
	Empty   bool
	Entries []compareEntryView
}

type compareEntryView struct {
	ID          int64
	Name        string
	RegionLabel string
	BuildYear   int
	TxCount     int
	PriceLabel  string
	DealDate    string
	AreaLabel   string
	PerPyeong   string
	PeakLabel   string
	DropPercent int
	RecordHigh  bool
}

type statsView struct {
	pageMeta
	Summary models.StatsSummary
	City    string
	Cities  []cityFilterLink
	Headers []sortHeader
	Rows    []regionStatView
	Top     []moverView
	Bottom  []moverView
}

type cityFilterLink struct {
	Label  string
	Active bool
	URL    string
}

type sortHeader struct {
	Label  string
	Active bool
	Arrow  string
	URL    string
}

type regionStatView struct {
	Code       string
	Name       string
	City       string
	PriceLabel string
	TxCount    int
	AptCount   int
	YoYLabel   string
	YoYUp      bool
	YoYDown    bool
}

type moverView struct {
	Name     string
	City     string
	YoYLabel string
}

type monitorView struct {
	pageMeta
	Loaded    bool
	Data      *models.MonitorData
	Regions   []monitorRegionView
	Daily     []models.DailyStat
	Yearly    []models.YearlyStat
	Progress  *models.ProgressData
	CurrentAt string
}

type monitorRegionView struct {
	Code     string
	Name     string
	AptCount int
	TxCount  int
}

type perfView struct {
	pageMeta
	Ran     bool
	Runs    int
	Success int
	Failed  int
	MinMs   int64
	MaxMs   int64
	AvgMs   int64
	Slow    []perfRunView
	Results []perfRunView
}

type perfRunView struct {
	Index  int
	Millis int64
	Count  int
	Failed bool
}

// buildTxRow formats one transaction and stamps its peak verdict.
func buildTxRow(tx models.Transaction, stats []models.AreaStat, selectedArea *float64) txRowView {
	v := insight.Classify(stats, selectedArea, tx)
	return txRowView{
		DealDate:    tx.DealDate,
		AreaLabel:   format.Area(tx.Area),
		Floor:       tx.Floor,
		PriceLabel:  format.Price(tx.Amount),
		PerPyeong:   format.PricePerPyeongLabel(format.PricePerPyeong(tx.Amount, tx.Area)),
		DropPercent: v.DropPercent,
		RecordHigh:  v.RecordHigh,
		Summary:     tx.SummaryText,
	}
}

func buildTxRows(txs []models.Transaction, stats []models.AreaStat, selectedArea *float64) []txRowView {
	rows := make([]txRowView, len(txs))
	for i, tx := range txs {
		rows[i] = buildTxRow(tx, stats, selectedArea)
	}
	return rows
}

// buildLatestView summarizes the most recent deal against its area bucket.
func buildLatestView(txs []models.Transaction, stats []models.AreaStat) *latestView {
	if len(txs) == 0 {
		return nil
	}
	tx := txs[0]
	v := &latestView{
		PriceLabel: format.Price(tx.Amount),
		DealDate:   tx.DealDate,
		AreaLabel:  format.Area(tx.Area),
		Floor:      tx.Floor,
	}
	stat := insight.MatchAreaStat(stats, tx.Area)
	if stat == nil || stat.MaxAmount <= 0 {
		return v
	}
	v.PeakLabel = format.Price(stat.MaxAmount)
	if tx.Amount >= stat.MaxAmount {
		v.RecordHigh = true
		v.RatioPercent = 100
		return v
	}
	v.DropPercent = insight.PeakDeviation(tx.Amount, stat.MaxAmount)
	ratio := insight.RecoveryRate(tx.Amount, stat.MaxAmount)
	if ratio > 100 {
		ratio = 100
	}
	v.RatioPercent = ratio
	return v
}

func buildAreaStats(stats []models.AreaStat, selectedArea *float64, aptID int64, window int) []areaStatView {
	out := make([]areaStatView, len(stats))
	for i, s := range stats {
		selected := selectedArea != nil && *selectedArea == s.Area

		amount := int64(math.Round(s.AvgAmount))
		if s.LatestAmount != nil {
			amount = *s.LatestAmount
		}

		url := detailURL(aptID, formatAreaParam(s.Area), window)
		if selected {
			// linking to the active bucket toggles the filter off
			url = detailURL(aptID, "", window)
		}

		out[i] = areaStatView{
			AreaLabel:   format.Area(s.Area),
			PyeongLabel: fmt.Sprintf("%.0f평형", math.Round(format.Pyeong(s.Area))),
			PriceLabel:  format.Price(amount),
			Count:       s.Count,
			Selected:    selected,
			URL:         url,
		}
	}
	return out
}

func buildWindowLinks(aptID int64, area string, active int) []windowLink {
	links := make([]windowLink, len(chart.WindowOptions))
	for i, opt := range chart.WindowOptions {
		links[i] = windowLink{
			Label:  opt.Label,
			Active: opt.Months == active,
			URL:    detailURL(aptID, area, opt.Months),
		}
	}
	return links
}

// detailURL builds an apartment page link, carrying only non-default params.
func detailURL(aptID int64, area string, window int) string {
	u := "/apartment/" + strconv.FormatInt(aptID, 10)
	sep := "?"
	if area != "" {
		u += sep + "area=" + area
		sep = "&"
	}
	if window != chart.DefaultWindow {
		u += sep + "window=" + strconv.Itoa(window)
	}
	return u
}

func formatAreaParam(area float64) string {
	return strconv.FormatFloat(area, 'f', -1, 64)
}

func buildCompareEntries(entries []models.CompareEntry) []compareEntryView {
	out := make([]compareEntryView, len(entries))
	for i, e := range entries {
		v := compareEntryView{
			ID:          e.Apartment.ID,
			Name:        e.Apartment.Name,
			RegionLabel: regionLabel(e.Apartment),
			BuildYear:   e.Apartment.BuildYear,
			TxCount:     e.TransactionCount,
			PeakLabel:   format.Price(e.PeakAmount),
		}
		if tx := e.LatestTransaction; tx != nil {
			v.PriceLabel = format.Price(tx.Amount)
			v.DealDate = tx.DealDate
			v.AreaLabel = format.Area(tx.Area)
			v.PerPyeong = format.PricePerPyeongLabel(format.PricePerPyeong(tx.Amount, tx.Area))
			if e.PeakAmount > 0 {
				if tx.Amount >= e.PeakAmount {
					v.RecordHigh = true
				} else {
					v.DropPercent = insight.PeakDeviation(tx.Amount, e.PeakAmount)
				}
			}
		}
		out[i] = v
	}
	return out
}

func buildRegionStatRows(regions []models.RegionStat) []regionStatView {
	rows := make([]regionStatView, len(regions))
	for i, r := range regions {
		v := regionStatView{
			Code:       r.Code,
			Name:       r.Name,
			City:       r.City,
			PriceLabel: format.Price(r.AvgPrice),
			TxCount:    r.TxCount,
			AptCount:   r.AptCount,
			YoYLabel:   "-",
		}
		if r.YoYChange != nil {
			v.YoYLabel = fmt.Sprintf("%+.1f%%", *r.YoYChange)
			v.YoYUp = *r.YoYChange > 0
			v.YoYDown = *r.YoYChange < 0
		}
		rows[i] = v
	}
	return rows
}

func buildMovers(regions []models.RegionStat) []moverView {
	out := make([]moverView, len(regions))
	for i, r := range regions {
		label := "-"
		if r.YoYChange != nil {
			label = fmt.Sprintf("%+.1f%%", *r.YoYChange)
		}
		out[i] = moverView{Name: r.Name, City: r.City, YoYLabel: label}
	}
	return out
}

// regionLabel prefers the backend-provided name, falling back to the local
// code table for rows that predate the region_name column.
func regionLabel(apt models.Apartment) string {
	if apt.RegionName != "" {
		return apt.RegionName
	}
	return config.RegionName(apt.LawdCd)
}
