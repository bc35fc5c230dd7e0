package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"goldrates/internal/service"
)

type handler struct {
	opts   Options
	prices PriceService
	posts  service.PostSource
	logger zerolog.Logger
	now    func() time.Time
}

func (h *handler) health(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *handler) today(c *gin.Context) {
	region := h.prices.Region(c.Param("region"))
	quote, ok := h.prices.GetTodayPrice(c.Request.Context(), region)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(fmt.Sprintf("no quote available for %s", region)))
		return
	}
	cacheFor(c, h.opts.TodayTTL)
	c.JSON(http.StatusOK, quote)
}

func (h *handler) history(c *gin.Context) {
	region := h.prices.Region(c.Param("region"))
	cacheFor(c, h.opts.HistoryTTL)
	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"points": h.prices.GetHistory(c.Request.Context(), region),
	})
}

func (h *handler) overview(c *gin.Context) {
	ov := h.prices.GetOverview(c.Request.Context(), c.Param("region"))
	cacheFor(c, min(h.opts.TodayTTL, h.opts.HistoryTTL))
	c.JSON(http.StatusOK, ov)
}

func (h *handler) ticker(c *gin.Context) {
	cacheFor(c, h.opts.TickerTTL)
	c.JSON(http.StatusOK, gin.H{"quotes": h.prices.GetMarketTicker(c.Request.Context())})
}

func (h *handler) allPosts(c *gin.Context) {
	if !h.postsAvailable(c) {
		return
	}
	posts, err := h.posts.AllPosts(c.Request.Context())
	if err != nil {
		h.upstreamFailure(c, err)
		return
	}
	cacheFor(c, h.opts.ContentTTL)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *handler) latestPosts(c *gin.Context) {
	if !h.postsAvailable(c) {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 50 {
			c.JSON(http.StatusBadRequest, errorBody("limit must be between 1 and 50"))
			return
		}
		limit = n
	}
	posts, err := h.posts.LatestPosts(c.Request.Context(), limit)
	if err != nil {
		h.upstreamFailure(c, err)
		return
	}
	cacheFor(c, h.opts.ContentTTL)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *handler) postBySlug(c *gin.Context) {
	if !h.postsAvailable(c) {
		return
	}
	post, ok, err := h.posts.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.upstreamFailure(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("post not found"))
		return
	}
	cacheFor(c, h.opts.ContentTTL)
	c.JSON(http.StatusOK, post)
}

func (h *handler) postsAvailable(c *gin.Context) bool {
	if h.posts == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("content api not configured"))
		return false
	}
	return true
}

func (h *handler) upstreamFailure(c *gin.Context, err error) {
	h.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("content api failed")
	c.JSON(http.StatusBadGateway, errorBody("content temporarily unavailable"))
}

func cacheFor(c *gin.Context, ttl time.Duration) {
	if ttl <= 0 {
		c.Header("Cache-Control", "no-store")
		return
	}
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
}
