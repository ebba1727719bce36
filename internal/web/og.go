package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/gin-gonic/gin"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"sudogwon/web/internal/format"
	"sudogwon/web/internal/insight"
	"sudogwon/web/internal/models"
)

const (
	ogWidth  = 1200
	ogHeight = 630
)

var (
	fallbackFontOnce sync.Once
	fallbackFont     *truetype.Font
)

// OGImage renders the 1200×630 link-preview card for one apartment. Data
// comes from the metadata cache; any failure falls back to a generic card so
// preview bots always get an image.
func (h *Handler) OGImage(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSuffix(c.Param("id"), ".png"), 10, 64)
	if err != nil {
		h.renderFallbackOG(c)
		return
	}

	detail, err := h.client.CachedDetail(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("apt_id", id).Error("Failed to fetch detail for OG image")
		h.renderFallbackOG(c)
		return
	}

	dc := gg.NewContext(ogWidth, ogHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// accent bar
	dc.SetRGB255(37, 99, 235)
	dc.DrawRectangle(0, 0, ogWidth, 12)
	dc.Fill()

	apt := detail.Apartment

	dc.SetRGB255(107, 114, 128)
	h.setFontFace(dc, 36)
	dc.DrawString(regionLabel(apt)+" · "+apt.Dong, 80, 140)

	dc.SetRGB255(17, 24, 39)
	h.setFontFace(dc, 72)
	dc.DrawString(truncate(apt.Name, 16), 80, 250)

	if len(detail.Transactions) > 0 {
		tx := detail.Transactions[0]

		dc.SetRGB255(107, 114, 128)
		h.setFontFace(dc, 32)
		dc.DrawString(fmt.Sprintf("최근 실거래 %s · %s %d층", tx.DealDate, format.Area(tx.Area), tx.Floor), 80, 340)

		dc.SetRGB255(37, 99, 235)
		h.setFontFace(dc, 84)
		dc.DrawString(format.Price(tx.Amount), 80, 450)

		h.drawPeakBadge(dc, detail.AreaStats, tx)
	}

	dc.SetRGB255(156, 163, 175)
	h.setFontFace(dc, 28)
	dc.DrawString("수도권 아파트 실거래가", 80, ogHeight-60)

	h.writePNG(c, dc)
}

// drawPeakBadge stamps either the record-high badge or the drop-from-peak
// percentage next to the price.
func (h *Handler) drawPeakBadge(dc *gg.Context, stats []models.AreaStat, tx models.Transaction) {
	stat := insight.MatchAreaStat(stats, tx.Area)
	if stat == nil || stat.MaxAmount <= 0 {
		return
	}

	var label string
	if tx.Amount >= stat.MaxAmount {
		dc.SetRGB255(220, 38, 38)
		label = "신고가"
	} else {
		drop := insight.PeakDeviation(tx.Amount, stat.MaxAmount)
		if drop <= 0 {
			return
		}
		dc.SetRGB255(30, 64, 175)
		label = fmt.Sprintf("최고가 대비 -%d%%", drop)
	}

	h.setFontFace(dc, 36)
	w, ht := dc.MeasureString(label)
	x, y := 80.0, 500.0
	dc.DrawRoundedRectangle(x, y, w+48, ht+32, 12)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(label, x+24, y+ht+10)
}

// renderFallbackOG draws a generic site card.
func (h *Handler) renderFallbackOG(c *gin.Context) {
	dc := gg.NewContext(ogWidth, ogHeight)
	dc.SetRGB255(37, 99, 235)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	h.setFontFace(dc, 64)
	dc.DrawStringAnchored("수도권 아파트 실거래가", ogWidth/2, ogHeight/2, 0.5, 0.5)
	h.writePNG(c, dc)
}

func (h *Handler) writePNG(c *gin.Context, dc *gg.Context) {
	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "public, max-age=3600")
	c.Status(http.StatusOK)
	if err := dc.EncodePNG(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to encode OG image")
	}
}

// setFontFace loads the configured TTF (Korean text needs one), falling back
// to the bundled Go Regular face.
func (h *Handler) setFontFace(dc *gg.Context, points float64) {
	if h.cfg.OGFontPath != "" {
		if err := dc.LoadFontFace(h.cfg.OGFontPath, points); err == nil {
			return
		}
		h.logger.WithField("path", h.cfg.OGFontPath).Warn("Failed to load OG font, using fallback")
	}
	fallbackFontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		fallbackFont = f
	})
	if fallbackFont != nil {
		dc.SetFontFace(truetype.NewFace(fallbackFont, &truetype.Options{Size: points}))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
