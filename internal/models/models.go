package models

// Apartment is a single 단지 as returned by the backend.
type Apartment struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Dong       string `json:"dong"`
	LawdCd     string `json:"lawd_cd"`
	RegionName string `json:"region_name"`
	Jibun      string `json:"jibun"`
	BuildYear  int    `json:"build_year"`
}

// Transaction is one recorded deal. Amount is in 만원, area in m².
type Transaction struct {
	ID          int64   `json:"id"`
	Amount      int64   `json:"amount"`
	Area        float64 `json:"area"`
	Floor       int     `json:"floor"`
	DealDate    string  `json:"deal_date"`
	SummaryText string  `json:"summary_text,omitempty"`
}

// AreaStat aggregates transactions within ±2 m² of Area.
type AreaStat struct {
	Area         float64  `json:"area"`
	MaxAmount    int64    `json:"max_amount"`
	MinAmount    int64    `json:"min_amount"`
	AvgAmount    float64  `json:"avg_amount"`
	Count        int      `json:"count"`
	LatestAmount *int64   `json:"latest_amount"`
	LatestDate   *string  `json:"latest_date"`
	RecentAvg    *float64 `json:"recent_avg"`
}

// ApartmentDetail is the /api/apartments/{id} response bundle.
type ApartmentDetail struct {
	Apartment    Apartment     `json:"apartment"`
	Transactions []Transaction `json:"transactions"`
	AreaStats    []AreaStat    `json:"area_stats"`
}

// TransactionPage is one page of /api/apartments/{id}/transactions.
type TransactionPage struct {
	Total        int           `json:"total"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
	Transactions []Transaction `json:"transactions"`
}

// HistoryPoint is one calendar month of the price trend series.
type HistoryPoint struct {
	Month     string  `json:"month"`
	AvgAmount float64 `json:"avg_amount"`
	Count     int     `json:"count"`
	AvgArea   float64 `json:"avg_area"`
}

// SearchResult is one ranked hit from /api/search.
type SearchResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Dong         string  `json:"dong"`
	LawdCd       string  `json:"lawd_cd"`
	RegionName   string  `json:"region_name"`
	BuildYear    int     `json:"build_year"`
	TxCount      int     `json:"tx_count"`
	LatestAmount int64   `json:"latest_amount"`
	LatestArea   float64 `json:"latest_area"`
	LatestDate   string  `json:"latest_date"`
}

// RecentTransaction is a row of the global recent-deals feed on the home page.
type RecentTransaction struct {
	ID          int64   `json:"id"`
	AptID       int64   `json:"apt_id"`
	AptName     string  `json:"apt_name"`
	Dong        string  `json:"dong"`
	RegionName  string  `json:"region_name"`
	Amount      int64   `json:"amount"`
	Area        float64 `json:"area"`
	Floor       int     `json:"floor"`
	DealDate    string  `json:"deal_date"`
	SummaryText string  `json:"summary_text,omitempty"`
}

// MarketStats are the global counters shown on the home page.
type MarketStats struct {
	RecentTransactions30d int `json:"recent_transactions_30d"`
	TotalApartments       int `json:"total_apartments"`
}

// District is one administrative district inside a city.
type District struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	AptCount int    `json:"apt_count"`
	TxCount  int    `json:"tx_count"`
}

// RegionHierarchy maps a city name (서울/경기/인천) to its districts.
type RegionHierarchy map[string][]District

// RegionApartment is an apartment row of a district listing.
type RegionApartment struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Dong         string  `json:"dong"`
	Jibun        string  `json:"jibun"`
	BuildYear    int     `json:"build_year"`
	TxCount      int     `json:"tx_count"`
	MaxAmount    int64   `json:"max_amount"`
	LatestAmount int64   `json:"latest_amount"`
	LatestArea   float64 `json:"latest_area"`
	LatestDate   string  `json:"latest_date"`
}

// RegionApartments is the /api/regions/{code}/apartments response.
type RegionApartments struct {
	RegionCode string            `json:"region_code"`
	RegionName string            `json:"region_name"`
	Total      int               `json:"total"`
	Apartments []RegionApartment `json:"apartments"`
}

// CompareEntry is one side of the two-way comparison bundle.
type CompareEntry struct {
	Apartment         Apartment    `json:"apartment"`
	LatestTransaction *Transaction `json:"latest_transaction"`
	PeakAmount        int64        `json:"peak_amount"`
	TransactionCount  int          `json:"transaction_count"`
}

// RegionStat is one row of the per-district stats table.
type RegionStat struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	City      string   `json:"city"`
	AvgPrice  int64    `json:"avg_price"`
	TxCount   int      `json:"tx_count"`
	AptCount  int      `json:"apt_count"`
	YoYChange *float64 `json:"yoy_change"`
}

// StatsSummary carries the per-city averages above the stats table.
type StatsSummary struct {
	SeoulAvg    int64 `json:"seoul_avg"`
	GyeonggiAvg int64 `json:"gyeonggi_avg"`
	IncheonAvg  int64 `json:"incheon_avg"`
}

// RegionStatsResponse is the /api/stats/regions response.
type RegionStatsResponse struct {
	Regions []RegionStat `json:"regions"`
	Summary StatsSummary `json:"summary"`
}

// MonitorRegion is per-region collection coverage on the monitor page.
type MonitorRegion struct {
	LawdCd   string `json:"lawd_cd"`
	AptCount int    `json:"apt_count"`
	TxCount  int    `json:"tx_count"`
}

// MonitorData is the /api/monitor response.
type MonitorData struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalApartments   int             `json:"total_apartments"`
	TotalRegions      int             `json:"total_regions"`
	Regions           []MonitorRegion `json:"regions"`
	DailyStats        []DailyStat     `json:"daily_stats"`
	YearlyStats       []YearlyStat    `json:"yearly_stats"`
	DateRange         DateRange       `json:"date_range"`
}

type DailyStat struct {
	DealDate string `json:"deal_date"`
	Count    int    `json:"count"`
}

type YearlyStat struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// ProgressData is the /api/progress ingestion snapshot.
type ProgressData struct {
	Completed []string        `json:"completed"`
	Failed    []FailedTask    `json:"failed"`
	Current   *CurrentTask    `json:"current"`
	Stats     ProgressStats   `json:"stats"`
	Summary   ProgressSummary `json:"summary"`
}

type FailedTask struct {
	Task  string `json:"task"`
	Error string `json:"error"`
}

type CurrentTask struct {
	LawdCd  string `json:"lawd_cd"`
	DealYmd string `json:"deal_ymd"`
	Region  string `json:"region"`
}

type ProgressStats struct {
	TotalSaved int `json:"total_saved"`
}

type ProgressSummary struct {
	CompletedCount  int     `json:"completed_count"`
	FailedCount     int     `json:"failed_count"`
	TotalExpected   int     `json:"total_expected"`
	ProgressPercent float64 `json:"progress_percent"`
}
