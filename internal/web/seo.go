package web

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap lists the static pages plus every apartment detail page. The id
// listing comes from the 24 h cache; when even that fails the static pages
// still go out.
func (h *Handler) Sitemap(c *gin.Context) {
	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.cfg.SiteURL + "/", ChangeFreq: "daily", Priority: 1.0},
			{Loc: h.cfg.SiteURL + "/search", ChangeFreq: "daily", Priority: 0.8},
			{Loc: h.cfg.SiteURL + "/browse", ChangeFreq: "weekly", Priority: 0.8},
			{Loc: h.cfg.SiteURL + "/stats", ChangeFreq: "daily", Priority: 0.7},
			{Loc: h.cfg.SiteURL + "/compare", ChangeFreq: "weekly", Priority: 0.5},
		},
	}

	ids, err := h.client.CachedIDs(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch apartment ids for sitemap")
	}
	for _, id := range ids {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.cfg.SiteURL + "/apartment/" + strconv.FormatInt(id, 10),
			ChangeFreq: "weekly",
			Priority:   0.6,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal sitemap")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

// Robots allows everything except the operator pages and the JSON surface.
func (h *Handler) Robots(c *gin.Context) {
	body := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /perf-test\n" +
		"Disallow: /monitor\n" +
		"Disallow: /api/\n" +
		"\n" +
		"Sitemap: " + h.cfg.SiteURL + "/sitemap.xml\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
