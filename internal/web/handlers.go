package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"sudogwon/web/config"
	"sudogwon/web/internal/chart"
	"sudogwon/web/internal/compare"
	"sudogwon/web/internal/feed"
	"sudogwon/web/internal/format"
	"sudogwon/web/internal/models"
	"sudogwon/web/internal/regiontable"
)

const searchLimit = 30

// Home renders the landing page: global counters plus the recent deal feed.
// The two fetches are independent and run concurrently; either failing leaves
// its section empty.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	view := homeView{
		pageMeta: h.meta(
			"수도권 아파트 실거래가",
			"서울·경기·인천 아파트 실거래가 조회. 단지별 시세 추이, 면적별 최고가, 신고가 알림.",
			"/",
		),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, err := h.client.MarketStats(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch market stats")
			return
		}
		view.Stats = stats
	}()
	go func() {
		defer wg.Done()
		recent, err := h.client.RecentTransactions(ctx, 6)
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch recent transactions")
			return
		}
		view.Recent = recentTxRows(recent)
	}()
	wg.Wait()

	c.HTML(http.StatusOK, "home.html", view)
}

func recentTxRows(txs []models.RecentTransaction) []txRowView {
	rows := make([]txRowView, len(txs))
	for i, tx := range txs {
		rows[i] = txRowView{
			AptID:       tx.AptID,
			AptName:     tx.AptName,
			RegionLabel: tx.RegionName,
			DealDate:    tx.DealDate,
			AreaLabel:   format.Area(tx.Area),
			Floor:       tx.Floor,
			PriceLabel:  format.Price(tx.Amount),
			PerPyeong:   format.PricePerPyeongLabel(format.PricePerPyeong(tx.Amount, tx.Area)),
			Summary:     tx.SummaryText,
		}
	}
	return rows
}

// Search renders the name search page. The backend call is bound to the
// request context, so a client abandoning the page cancels the ranked query.
func (h *Handler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	view := searchView{
		pageMeta: h.meta("아파트 검색", "단지명으로 수도권 아파트 실거래가를 검색합니다.", "/search"),
		Query:    q,
	}

	if q != "" {
		view.Searched = true
		// a failed search reads as no results, like every other fetch
		results, err := h.client.Search(c.Request.Context(), q, searchLimit)
		if err != nil {
			h.logger.WithError(err).WithField("q", q).Error("Search failed")
		}
		view.Results = searchRows(results)
	}

	c.HTML(http.StatusOK, "search.html", view)
}

func searchRows(results []models.SearchResult) []searchResultView {
	rows := make([]searchResultView, len(results))
	for i, r := range results {
		label := r.RegionName
		if label == "" {
			label = config.RegionName(r.LawdCd)
		}
		rows[i] = searchResultView{
			ID:          r.ID,
			Name:        r.Name,
			RegionLabel: label,
			BuildYear:   r.BuildYear,
			TxCount:     r.TxCount,
			PriceLabel:  format.Price(r.LatestAmount),
			AreaLabel:   format.Area(r.LatestArea),
			LatestDate:  r.LatestDate,
		}
	}
	return rows
}

// Browse drills down city → district → apartment listing, driven entirely by
// query parameters so every level is a crawlable URL.
func (h *Handler) Browse(c *gin.Context) {
	ctx := c.Request.Context()
	city := c.Query("city")
	code := c.Query("code")

	if code != "" {
		view := browseApartmentsView{}
		region, err := h.client.RegionApartments(ctx, code, 100)
		if err != nil {
			h.logger.WithError(err).WithField("code", code).Error("Failed to fetch region apartments")
			view.pageMeta = h.meta("지역별 아파트", "지역별 아파트 실거래가 목록.", "/browse?code="+code)
		} else {
			view.RegionName = region.RegionName
			view.Total = region.Total
			view.Rows = regionAptRows(region.Apartments)
			view.pageMeta = h.meta(
				region.RegionName+" 아파트 실거래가",
				region.RegionName+" 아파트 "+format.Comma(int64(region.Total))+"개 단지의 실거래가 목록.",
				"/browse?code="+code,
			)
		}
		c.HTML(http.StatusOK, "browse_apartments.html", view)
		return
	}

	hierarchy, err := h.client.RegionHierarchy(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch region hierarchy")
	}

	if city != "" {
		view := browseDistrictsView{
			pageMeta:  h.meta(city+" 아파트 실거래가", city+" 지역구별 아파트 실거래가.", "/browse?city="+city),
			City:      city,
			Districts: hierarchy[city],
		}
		c.HTML(http.StatusOK, "browse_districts.html", view)
		return
	}

	view := browseCitiesView{
		pageMeta: h.meta("지역별 탐색", "서울, 경기, 인천 지역별 아파트 실거래가 탐색.", "/browse"),
	}
	for _, name := range []string{"서울", "경기", "인천"} {
		districts, ok := hierarchy[name]
		if !ok {
			continue
		}
		cv := cityView{Name: name}
		for _, d := range districts {
			cv.AptCount += d.AptCount
			cv.TxCount += d.TxCount
		}
		view.Cities = append(view.Cities, cv)
	}
	c.HTML(http.StatusOK, "browse.html", view)
}

func regionAptRows(apts []models.RegionApartment) []regionAptView {
	rows := make([]regionAptView, len(apts))
	for i, a := range apts {
		rows[i] = regionAptView{
			ID:         a.ID,
			Name:       a.Name,
			Dong:       a.Dong,
			BuildYear:  a.BuildYear,
			TxCount:    a.TxCount,
			PriceLabel: format.Price(a.LatestAmount),
			AreaLabel:  format.Area(a.LatestArea),
			LatestDate: a.LatestDate,
			PeakLabel:  format.Price(a.MaxAmount),
		}
	}
	return rows
}

// ApartmentDetail renders the single-apartment page: header, area stat grid,
// windowed trend chart and the first transaction page. The detail bundle and
// the feed load concurrently.
func (h *Handler) ApartmentDetail(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	selectedArea := parseAreaParam(c.Query("area"))
	window := chart.DefaultWindow
	if m, err := strconv.Atoi(c.Query("window")); err == nil && chart.ValidWindow(m) {
		window = m
	}

	var (
		wg     sync.WaitGroup
		detail *models.ApartmentDetail
	)
	f := feed.New(h.client, h.logger, id)
	f.SelectedArea = selectedArea

	wg.Add(2)
	go func() {
		defer wg.Done()
		d, err := h.client.ApartmentDetail(ctx, id)
		if err != nil {
			h.logger.WithError(err).WithField("apt_id", id).Error("Failed to fetch apartment detail")
			return
		}
		detail = d
	}()
	go func() {
		defer wg.Done()
		f.Load(ctx)
	}()
	wg.Wait()

	if detail == nil {
		h.notFound(c)
		return
	}

	view := h.buildDetailView(c, detail, f, window)
	c.HTML(http.StatusOK, "apartment.html", view)
}

func (h *Handler) buildDetailView(c *gin.Context, detail *models.ApartmentDetail, f *feed.Feed, window int) detailView {
	apt := detail.Apartment
	region := regionLabel(apt)
	areaParam := ""
	if f.SelectedArea != nil {
		areaParam = formatAreaParam(*f.SelectedArea)
	}

	ids := compare.NewCookieStore(c).Get()

	view := detailView{
		Apartment:    apt,
		RegionLabel:  region,
		InCompare:    compare.Contains(ids, apt.ID),
		CompareReady: len(ids) >= compare.MaxEntries,
		Latest:       buildLatestView(detail.Transactions, detail.AreaStats),
		AreaStats:    buildAreaStats(detail.AreaStats, f.SelectedArea, apt.ID, window),
		SelectedArea: areaParam,
		Windows:      buildWindowLinks(apt.ID, areaParam, window),
		Transactions: buildTxRows(f.Transactions, detail.AreaStats, f.SelectedArea),
		Total:        f.Total,
		Offset:       f.Offset,
		HasMore:      f.HasMore,
		FeedPath:     "/api/apartments/" + strconv.FormatInt(apt.ID, 10) + "/transactions",
	}

	windowed := chart.Window(f.History, window)
	if _, _, ok := chart.PriceDomain(windowed); ok {
		view.HasChart = true
		view.Chart = chart.Render(windowed)
	}
	if s, ok := chart.Summarize(windowed); ok {
		view.HasSummary = true
		view.ChartSummary = s
	}

	title := apt.Name + " 실거래가"
	desc := region + " " + apt.Name + " 아파트 실거래가, 시세 추이, 면적별 최고가."
	if view.Latest != nil {
		desc = region + " " + apt.Name + " 최근 실거래가 " + view.Latest.PriceLabel + ". 시세 추이와 면적별 최고가."
	}
	view.pageMeta = h.meta(title, desc, "/apartment/"+strconv.FormatInt(apt.ID, 10))
	view.OGImage = h.cfg.SiteURL + "/api/og/" + strconv.FormatInt(apt.ID, 10)
	return view
}

// TransactionsJSON serves the scroll sentinel: it resumes the feed at the
// client's last offset, fetches the next page and returns rendered rows.
func (h *Handler) TransactionsJSON(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid apartment id"})
		return
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	selectedArea := parseAreaParam(c.Query("area"))

	// verdicts need the area stats; served from the metadata cache
	var stats []models.AreaStat
	if detail, err := h.client.CachedDetail(ctx, id); err == nil {
		stats = detail.AreaStats
	} else {
		h.logger.WithError(err).WithField("apt_id", id).Error("Failed to fetch area stats for feed page")
	}

	f := feed.Resume(h.client, h.logger, id, offset, selectedArea)
	if err := f.LoadMore(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream fetch failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    f.Total,
		"offset":   f.Offset,
		"has_more": f.HasMore,
		"rows":     buildTxRows(f.Transactions, stats, selectedArea),
	})
}

// Compare renders the side-by-side view. Explicit ?ids= wins over the cookie
// so shared links always show the sender's selection.
func (h *Handler) Compare(c *gin.Context) {
	view := compareView{
		pageMeta: h.meta("아파트 비교", "두 아파트의 실거래가를 나란히 비교합니다.", "/compare"),
	}

	ids := parseIDList(c.Query("ids"))
	if len(ids) == 0 {
		ids = compare.NewCookieStore(c).Get()
	}
	if len(ids) > compare.MaxEntries {
		ids = ids[len(ids)-compare.MaxEntries:]
	}

	if len(ids) < compare.MaxEntries {
		view.Empty = true
		c.HTML(http.StatusOK, "compare.html", view)
		return
	}

	entries, err := h.client.Compare(c.Request.Context(), ids)
	if err != nil {
		// indistinguishable from having nothing selected
		h.logger.WithError(err).Error("Failed to fetch comparison")
		view.Empty = true
		c.HTML(http.StatusOK, "compare.html", view)
		return
	}
	view.Entries = buildCompareEntries(entries)
	c.HTML(http.StatusOK, "compare.html", view)
}

// CompareToggle adds or removes an apartment from the cookie list and sends
// the browser back where it came from.
func (h *Handler) CompareToggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.PostForm("apt_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	store := compare.NewCookieStore(c)
	store.Set(compare.Toggle(store.Get(), id))
	c.Redirect(http.StatusSeeOther, backTo(c, "/apartment/"+strconv.FormatInt(id, 10)))
}

// CompareRemove drops one apartment from the list. Falling below two entries
// leaves the compare page in its empty state.
func (h *Handler) CompareRemove(c *gin.Context) {
	id, err := strconv.ParseInt(c.PostForm("apt_id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/compare")
		return
	}
	store := compare.NewCookieStore(c)
	store.Set(compare.Remove(store.Get(), id))
	c.Redirect(http.StatusSeeOther, "/compare")
}

// Stats renders the per-district table. Sorting and the city filter are pure
// view transforms over the single fetched response.
func (h *Handler) Stats(c *gin.Context) {
	city := c.Query("city")
	key := regiontable.ParseSortKey(c.Query("sort"))
	order := regiontable.ParseOrder(c.Query("order"), key)

	view := statsView{
		pageMeta: h.meta("지역별 통계", "서울·경기·인천 지역구별 평균 실거래가, 거래량, 전년 대비 변동률.", "/stats"),
		City:     city,
	}

	resp, err := h.client.RegionStats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch region stats")
		c.HTML(http.StatusOK, "stats.html", view)
		return
	}

	view.Summary = resp.Summary
	// the city filter scopes the movers as well as the table
	filtered := regiontable.FilterCity(resp.Regions, city)
	view.Rows = buildRegionStatRows(regiontable.View(filtered, "", key, order))
	top, bottom := regiontable.TopMovers(filtered)
	view.Top = buildMovers(top)
	view.Bottom = buildMovers(bottom)
	view.Cities = cityFilterLinks(city, key, order)
	view.Headers = sortHeaders(city, key, order)
	c.HTML(http.StatusOK, "stats.html", view)
}

func statsURL(city string, key regiontable.SortKey, order regiontable.Order) string {
	u := "/stats?sort=" + string(key) + "&order=" + string(order)
	if city != "" {
		u += "&city=" + city
	}
	return u
}

func cityFilterLinks(active string, key regiontable.SortKey, order regiontable.Order) []cityFilterLink {
	links := []cityFilterLink{{Label: "전체", Active: active == "", URL: statsURL("", key, order)}}
	for _, city := range []string{"서울", "경기", "인천"} {
		links = append(links, cityFilterLink{Label: city, Active: active == city, URL: statsURL(city, key, order)})
	}
	return links
}

func sortHeaders(city string, key regiontable.SortKey, order regiontable.Order) []sortHeader {
	cols := []struct {
		label string
		key   regiontable.SortKey
	}{
		{"지역", regiontable.SortByName},
		{"평균가", regiontable.SortByPrice},
		{"거래량", regiontable.SortByTxCount},
		{"전년比", regiontable.SortByYoY},
	}

	headers := make([]sortHeader, len(cols))
	for i, col := range cols {
		h := sortHeader{Label: col.label, Active: col.key == key}
		next := regiontable.ParseOrder("", col.key)
		if h.Active {
			if order == regiontable.OrderAsc {
				next = regiontable.OrderDesc
				h.Arrow = "▲"
			} else {
				next = regiontable.OrderAsc
				h.Arrow = "▼"
			}
		}
		h.URL = statsURL(city, col.key, next)
		headers[i] = h
	}
	return headers
}

// Monitor renders the collection coverage dashboard. The page refreshes
// itself every five seconds; both snapshots load concurrently.
func (h *Handler) Monitor(c *gin.Context) {
	ctx := c.Request.Context()
	view := monitorView{
		pageMeta: h.meta("수집 현황", "실거래가 수집 현황 대시보드.", "/monitor"),
	}
	view.Refresh = true
	view.NoIndex = true

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		data, err := h.client.Monitor(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch monitor data")
			return
		}
		view.Data = data
	}()
	go func() {
		defer wg.Done()
		progress, err := h.client.Progress(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch progress data")
			return
		}
		view.Progress = progress
	}()
	wg.Wait()

	if view.Data != nil {
		view.Loaded = true
		view.Regions = monitorRegionRows(view.Data.Regions)
		view.Daily = tail(view.Data.DailyStats, 14)
		view.Yearly = view.Data.YearlyStats
	}
	if view.Progress != nil && view.Progress.Current != nil {
		cur := view.Progress.Current
		view.CurrentAt = config.RegionName(cur.LawdCd) + " " + cur.DealYmd
	}
	c.HTML(http.StatusOK, "monitor.html", view)
}

func monitorRegionRows(regions []models.MonitorRegion) []monitorRegionView {
	rows := make([]monitorRegionView, len(regions))
	for i, r := range regions {
		rows[i] = monitorRegionView{
			Code:     r.LawdCd,
			Name:     config.RegionName(r.LawdCd),
			AptCount: r.AptCount,
			TxCount:  r.TxCount,
		}
	}
	return rows
}

func tail(stats []models.DailyStat, n int) []models.DailyStat {
	if len(stats) <= n {
		return stats
	}
	return stats[len(stats)-n:]
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", h.meta(
		"아파트를 찾을 수 없습니다",
		"요청하신 아파트 정보를 찾을 수 없습니다.",
		"/",
	))
}

// parseAreaParam returns nil for an absent or malformed area filter.
func parseAreaParam(s string) *float64 {
	if s == "" {
		return nil
	}
	area, err := strconv.ParseFloat(s, 64)
	if err != nil || area <= 0 {
		return nil
	}
	return &area
}

func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// backTo keeps only the path and query of the Referer so the redirect never
// leaves the site.
func backTo(c *gin.Context, fallback string) string {
	ref := c.Request.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return fallback
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}
