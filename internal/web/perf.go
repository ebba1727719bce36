package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// perfQuery is a representative ranked-search term used for latency probing.
const perfQuery = "기흥"

const perfSlowThreshold = 500 * time.Millisecond

// PerfTest measures backend search latency with sequential requests. The
// probe only runs when asked (?run=1) so crawlers hitting the URL never
// hammer the backend; robots.txt excludes it as well.
func (h *Handler) PerfTest(c *gin.Context) {
	view := perfView{
		pageMeta: h.meta("검색 성능 테스트", "백엔드 검색 응답 시간 측정.", "/perf-test"),
		Runs:     h.cfg.PerfTestRuns,
	}
	view.NoIndex = true

	if c.Query("run") != "1" {
		c.HTML(http.StatusOK, "perftest.html", view)
		return
	}

	ctx := c.Request.Context()
	view.Ran = true

	var totalMs int64
	for i := 0; i < h.cfg.PerfTestRuns; i++ {
		start := time.Now()
		results, err := h.client.Search(ctx, perfQuery, searchLimit)
		elapsed := time.Since(start)

		run := perfRunView{
			Index:  i + 1,
			Millis: elapsed.Milliseconds(),
			Count:  len(results),
			Failed: err != nil,
		}
		view.Results = append(view.Results, run)

		if err != nil {
			h.logger.WithError(err).WithField("run", i+1).Error("Perf test request failed")
			view.Failed++
			// the probe context dying means the client is gone; stop early
			if ctx.Err() != nil {
				break
			}
			continue
		}

		view.Success++
		totalMs += run.Millis
		if view.MinMs == 0 || run.Millis < view.MinMs {
			view.MinMs = run.Millis
		}
		if run.Millis > view.MaxMs {
			view.MaxMs = run.Millis
		}
		if elapsed > perfSlowThreshold {
			view.Slow = append(view.Slow, run)
		}
	}
	if view.Success > 0 {
		view.AvgMs = totalMs / int64(view.Success)
	}

	c.HTML(http.StatusOK, "perftest.html", view)
}
