package httpapi

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitemap lists the home page, the blog index and every post. Post entries
// are omitted when the content API is unavailable.
func (h *handler) sitemap(c *gin.Context) {
	base := strings.TrimRight(h.opts.SiteURL, "/")
	today := h.now().UTC().Format("2006-01-02")

	set := urlSet{
		NS: sitemapNS,
		URLs: []sitemapURL{
			{Loc: base, LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
			{Loc: base + "/blog", LastMod: today, ChangeFreq: "daily", Priority: "0.8"},
		},
	}

	if h.posts != nil {
		posts, err := h.posts.AllPosts(c.Request.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("sitemap built without posts")
		}
		for _, p := range posts {
			if p.Slug == "" {
				continue
			}
			entry := sitemapURL{Loc: base + "/blog/" + p.Slug, ChangeFreq: "weekly", Priority: "0.6"}
			if len(p.Date) >= 10 {
				entry.LastMod = p.Date[:10]
			}
			set.URLs = append(set.URLs, entry)
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("sitemap encoding failed"))
		return
	}
	cacheFor(c, h.opts.ContentTTL)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}
