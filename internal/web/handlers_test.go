package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudogwon/web/config"
	"sudogwon/web/internal/api"
	"sudogwon/web/internal/compare"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend serves the subset of the backend API the pages read.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/apartments/42", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"apartment": map[string]interface{}{
				"id": 42, "name": "래미안대치팰리스", "dong": "대치동",
				"lawd_cd": "11680", "region_name": "서울 강남구",
				"jibun": "316", "build_year": 2015,
			},
			"transactions": []map[string]interface{}{
				{"id": 1, "amount": 250000, "area": 84.97, "floor": 20, "deal_date": "2024-05-02"},
			},
			"area_stats": []map[string]interface{}{
				{"area": 84.97, "max_amount": 300000, "min_amount": 180000, "avg_amount": 240000, "count": 55},
				{"area": 59.5, "max_amount": 220000, "min_amount": 140000, "avg_amount": 175000, "count": 30},
			},
		})
	})

	mux.HandleFunc("/api/apartments/42/transactions", func(w http.ResponseWriter, r *http.Request) {
		// an area bucket nobody traded in is a valid zero-row response
		if r.URL.Query().Get("area") == "200" {
			writeJSON(w, map[string]interface{}{
				"total": 0, "limit": 20, "offset": 0,
				"transactions": []interface{}{},
			})
			return
		}
		offset := 0
		fmt.Sscanf(r.URL.Query().Get("offset"), "%d", &offset)
		txs := make([]map[string]interface{}, 0, 20)
		for i := offset; i < offset+20 && i < 55; i++ {
			txs = append(txs, map[string]interface{}{
				"id": i + 1, "amount": 250000 - i*500, "area": 84.97,
				"floor": 10, "deal_date": fmt.Sprintf("2024-04-%02d", i%28+1),
			})
		}
		writeJSON(w, map[string]interface{}{
			"total": 55, "limit": 20, "offset": offset, "transactions": txs,
		})
	})

	mux.HandleFunc("/api/apartments/42/history", func(w http.ResponseWriter, r *http.Request) {
		points := make([]map[string]interface{}, 48)
		for i := range points {
			points[i] = map[string]interface{}{
				"month":      fmt.Sprintf("%04d-%02d", 2021+i/12, i%12+1),
				"avg_amount": 200000 + i*1000,
				"count":      3,
			}
		}
		writeJSON(w, points)
	})

	mux.HandleFunc("/api/apartments/ids", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []int64{42, 43, 44})
	})

	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "없는단지" {
			writeJSON(w, []interface{}{})
			return
		}
		writeJSON(w, []map[string]interface{}{
			{"id": 42, "name": "래미안대치팰리스", "region_name": "서울 강남구",
				"tx_count": 55, "latest_amount": 250000, "latest_area": 84.97, "latest_date": "2024-05-02"},
		})
	})

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{"recent_transactions_30d": 1234, "total_apartments": 9876})
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]interface{}{
			{"id": 1, "apt_id": 42, "apt_name": "래미안대치팰리스", "region_name": "서울 강남구",
				"amount": 250000, "area": 84.97, "floor": 20, "deal_date": "2024-05-02"},
		})
	})

	mux.HandleFunc("/api/compare", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("apt_ids"), ",")
		entries := make([]map[string]interface{}, len(ids))
		for i, id := range ids {
			n, _ := strconv.Atoi(strings.TrimSpace(id))
			entries[i] = map[string]interface{}{
				"apartment": map[string]interface{}{
					"id": n, "name": "단지" + id, "region_name": "서울 강남구",
				},
				"latest_transaction": map[string]interface{}{
					"amount": 200000, "area": 84.9, "floor": 10, "deal_date": "2024-04-01",
				},
				"peak_amount": 250000, "transaction_count": 40,
			}
		}
		writeJSON(w, entries)
	})

	mux.HandleFunc("/api/stats/regions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"regions": []map[string]interface{}{
				{"code": "11680", "name": "강남구", "city": "서울", "avg_price": 250000, "tx_count": 900, "apt_count": 300, "yoy_change": 4.2},
				{"code": "41135", "name": "성남분당", "city": "경기", "avg_price": 120000, "tx_count": 1500, "apt_count": 500, "yoy_change": -2.1},
				{"code": "28185", "name": "연수구", "city": "인천", "avg_price": 60000, "tx_count": 700, "apt_count": 280, "yoy_change": nil},
			},
			"summary": map[string]int{"seoul_avg": 130000, "gyeonggi_avg": 70000, "incheon_avg": 50000},
		})
	})

	mux.HandleFunc("/api/regions/hierarchy", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"서울": []map[string]interface{}{
				{"code": "11680", "name": "강남구", "apt_count": 300, "tx_count": 900},
			},
			"경기": []map[string]interface{}{
				{"code": "41135", "name": "성남시 분당구", "apt_count": 500, "tx_count": 1500},
			},
			"인천": []map[string]interface{}{},
		})
	})

	mux.HandleFunc("/api/regions/11680/apartments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"region_code": "11680", "region_name": "서울 강남구", "total": 1,
			"apartments": []map[string]interface{}{
				{"id": 42, "name": "래미안대치팰리스", "dong": "대치동", "build_year": 2015,
					"tx_count": 55, "max_amount": 300000, "latest_amount": 250000,
					"latest_area": 84.97, "latest_date": "2024-05-02"},
			},
		})
	})

	mux.HandleFunc("/api/monitor", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"total_transactions": 100000, "total_apartments": 9876, "total_regions": 77,
			"regions":      []map[string]interface{}{{"lawd_cd": "11680", "apt_count": 300, "tx_count": 900}},
			"daily_stats":  []map[string]interface{}{{"deal_date": "2024-05-01", "count": 120}},
			"yearly_stats": []map[string]interface{}{{"year": "2024", "count": 20000}},
			"date_range":   map[string]string{"min": "2006-01-02", "max": "2024-05-02"},
		})
	})

	mux.HandleFunc("/api/progress", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"completed": []string{"11680_202404"},
			"failed":    []interface{}{},
			"current":   map[string]string{"lawd_cd": "11680", "deal_ymd": "202405"},
			"stats":     map[string]int{"total_saved": 100000},
			"summary":   map[string]interface{}{"completed_count": 1, "failed_count": 0, "total_expected": 77, "progress_percent": 1.3},
		})
	})

	// unknown apartments read as backend 404s
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	backend := fakeBackend(t)
	cfg := &config.Config{
		Port:         3000,
		APIBaseURL:   backend.URL,
		SiteURL:      "https://sudogwon.example",
		PerfTestRuns: 3,
	}
	client := api.NewClient(backend.URL, nil)
	router, err := SetupRouter(NewHandler(client, cfg, nil))
	require.NoError(t, err)
	return router
}

// newFailingRouter wires the pages to a backend that refuses every request.
func newFailingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		Port:         3000,
		APIBaseURL:   backend.URL,
		SiteURL:      "https://sudogwon.example",
		PerfTestRuns: 3,
	}
	client := api.NewClient(backend.URL, nil)
	router, err := SetupRouter(NewHandler(client, cfg, nil))
	require.NoError(t, err)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHomePage(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "9,876")
	assert.Contains(t, body, "래미안대치팰리스")
	assert.Contains(t, body, "25억원")
}

func TestApartmentDetailPage(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/apartment/42")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "래미안대치팰리스")
	assert.Contains(t, body, "서울 강남구")
	assert.Contains(t, body, "25억원")

	// latest deal sits 17% below the 30억 bucket peak
	assert.Contains(t, body, "-17%")

	// both area buckets render
	assert.Contains(t, body, "84.97㎡")
	assert.Contains(t, body, "59.5㎡")

	// chart fragment and canonical metadata
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "https://sudogwon.example/apartment/42")
	assert.Contains(t, body, "/api/og/42")
}

func TestApartmentDetailAreaFilterLinks(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/apartment/42?area=84.97")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	// the selected card links back to the unfiltered page
	assert.Contains(t, body, `href="/apartment/42"`)
	// the other card keeps its filter link
	assert.Contains(t, body, `href="/apartment/42?area=59.5"`)
}

func TestApartmentDetailNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := get(router, "/apartment/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/apartment/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionsJSONPagination(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/api/apartments/42/transactions?offset=20")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Total   int  `json:"total"`
		Offset  int  `json:"offset"`
		HasMore bool `json:"has_more"`
		Rows    []struct {
			PriceLabel string `json:"price_label"`
			DealDate   string `json:"deal_date"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 55, resp.Total)
	assert.Equal(t, 40, resp.Offset, "resumes past the client's last page")
	assert.False(t, resp.HasMore, "40 + 15 covers the total")
	require.Len(t, resp.Rows, 15)
	assert.NotEmpty(t, resp.Rows[0].PriceLabel)
}

func TestTransactionsJSONEmptyFilteredPage(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/api/apartments/42/transactions?area=200")

	require.Equal(t, http.StatusOK, w.Code, "a zero-transaction bucket is not a failure")
	var resp struct {
		Total   int               `json:"total"`
		HasMore bool              `json:"has_more"`
		Rows    []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.False(t, resp.HasMore)
	assert.Empty(t, resp.Rows)
}

func TestTransactionsJSONUpstreamFailure(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/api/apartments/999/transactions")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSearchPage(t *testing.T) {
	router := newTestRouter(t)

	w := get(router, "/search?q=래미안")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "래미안대치팰리스")

	w = get(router, "/search?q=없는단지")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "검색 결과가 없습니다")

	// no query renders the prompt, not an empty result
	w = get(router, "/search")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "검색 결과가 없습니다")
}

func TestBrowseDrillDown(t *testing.T) {
	router := newTestRouter(t)

	w := get(router, "/browse")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "서울")

	w = get(router, "/browse?city=서울")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "강남구")

	w = get(router, "/browse?code=11680")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "래미안대치팰리스")
}

func TestCompareEmptyState(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/compare")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "비교할 아파트 2곳을 담아주세요")
}

func TestCompareWithIDs(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/compare?ids=42,43")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "단지42")
	assert.Contains(t, body, "단지43")
	assert.NotContains(t, body, "담아주세요")
}

func TestCompareToggleSetsCookie(t *testing.T) {
	router := newTestRouter(t)

	w := postForm(router, "/compare/toggle", url.Values{"apt_id": {"42"}}, "")
	require.Equal(t, http.StatusSeeOther, w.Code)

	cookie := findCookie(t, w, compare.CookieName)
	decoded, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	assert.JSONEq(t, "[42]", decoded)
}

func TestCompareToggleEvictsOldest(t *testing.T) {
	router := newTestRouter(t)

	w := postForm(router, "/compare/toggle", url.Values{"apt_id": {"9"}},
		compare.CookieName+"="+url.QueryEscape("[1,2]"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	cookie := findCookie(t, w, compare.CookieName)
	decoded, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	assert.JSONEq(t, "[2,9]", decoded)
}

func TestCompareRemoveDropsBelowPair(t *testing.T) {
	router := newTestRouter(t)

	w := postForm(router, "/compare/remove", url.Values{"apt_id": {"1"}},
		compare.CookieName+"="+url.QueryEscape("[1,2]"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/compare", w.Header().Get("Location"))

	cookie := findCookie(t, w, compare.CookieName)
	decoded, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	assert.JSONEq(t, "[2]", decoded)
}

func TestStatsPage(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/stats")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "강남구")
	// html/template escapes the plus sign in the YoY label
	assert.Contains(t, body, "&#43;4.2%")
	// default order: tx_count desc puts 분당 above 강남구 in the table
	assert.Less(t, strings.Index(body, `/browse?code=41135`), strings.Index(body, `/browse?code=11680`))
}

func TestStatsCityFilter(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/stats?city=인천")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "연수구")
	assert.NotContains(t, body, "성남분당")
}

// A dead backend must read exactly like having no data: every page still
// renders 200 with its usual empty state and no error wording.
func TestBackendDownRendersEmptyStates(t *testing.T) {
	router := newFailingRouter(t)

	pages := map[string]string{
		"/":                "최근 거래 내역이 없습니다",
		"/search?q=래미안":    "검색 결과가 없습니다",
		"/browse":          "표시할 지역이 없습니다",
		"/compare?ids=1,2": "비교할 아파트 2곳을 담아주세요",
		"/stats":           "표시할 통계가 없습니다",
		"/monitor":         "표시할 수집 현황이 없습니다",
	}
	for path, placeholder := range pages {
		w := get(router, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		body := w.Body.String()
		assert.Contains(t, body, placeholder, path)
		assert.NotContains(t, body, "못했습니다", path)
		assert.NotContains(t, body, `class="error"`, path)
	}
}

func TestMonitorPage(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/monitor")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "100,000")
	assert.Contains(t, body, "강남구")
}

func TestPerfTestRunsOnlyWhenAsked(t *testing.T) {
	router := newTestRouter(t)

	w := get(router, "/perf-test")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "테스트 시작")

	w = get(router, "/perf-test?run=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "평균")
}

func TestSitemap(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/sitemap.xml")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<urlset")
	assert.Contains(t, body, "https://sudogwon.example/apartment/42")
	assert.Contains(t, body, "https://sudogwon.example/stats")
}

func TestRobots(t *testing.T) {
	router := newTestRouter(t)
	w := get(router, "/robots.txt")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Disallow: /perf-test")
	assert.Contains(t, body, "Disallow: /monitor")
	assert.Contains(t, body, "Disallow: /api/")
	assert.Contains(t, body, "Sitemap: https://sudogwon.example/sitemap.xml")
}

func TestOGImage(t *testing.T) {
	router := newTestRouter(t)

	w := get(router, "/api/og/42")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])

	// unknown apartment still gets a preview image
	w = get(router, "/api/og/999")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := w.Result()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}
