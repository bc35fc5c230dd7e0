package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"goldrates/internal/cache"
	"goldrates/internal/content"
)

// PostSource is the content API.
type PostSource interface {
	AllPosts(ctx context.Context) ([]content.Post, error)
	PostBySlug(ctx context.Context, slug string) (content.Post, bool, error)
	LatestPosts(ctx context.Context, limit int) ([]content.Post, error)
}

// Posts revalidates blog content through the cache.
type Posts struct {
	source PostSource
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewPosts wraps source with a cache window of ttl.
func NewPosts(source PostSource, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *Posts {
	return &Posts{source: source, cache: c, ttl: ttl, logger: logger.With().Str("component", "posts").Logger()}
}

// AllPosts returns every post.
func (p *Posts) AllPosts(ctx context.Context) ([]content.Post, error) {
	var loadErr error
	posts, _ := cache.Revalidate(ctx, p.cache, p.logger, "posts", "posts:all", p.ttl,
		func(ctx context.Context) ([]content.Post, bool) {
			posts, err := p.source.AllPosts(ctx)
			loadErr = err
			return posts, err == nil
		})
	if loadErr != nil {
		return nil, loadErr
	}
	return posts, nil
}

// LatestPosts returns the newest limit posts.
func (p *Posts) LatestPosts(ctx context.Context, limit int) ([]content.Post, error) {
	if limit <= 0 {
		limit = content.DefaultLatestLimit
	}
	var loadErr error
	posts, _ := cache.Revalidate(ctx, p.cache, p.logger, "posts", "posts:latest:"+strconv.Itoa(limit), p.ttl,
		func(ctx context.Context) ([]content.Post, bool) {
			posts, err := p.source.LatestPosts(ctx, limit)
			loadErr = err
			return posts, err == nil
		})
	if loadErr != nil {
		return nil, loadErr
	}
	return posts, nil
}

// PostBySlug returns the named post. Missing posts are not cached.
func (p *Posts) PostBySlug(ctx context.Context, slug string) (content.Post, bool, error) {
	var loadErr error
	post, ok := cache.Revalidate(ctx, p.cache, p.logger, "posts", "posts:slug:"+slug, p.ttl,
		func(ctx context.Context) (content.Post, bool) {
			post, found, err := p.source.PostBySlug(ctx, slug)
			loadErr = err
			return post, found && err == nil
		})
	if loadErr != nil {
		return content.Post{}, false, loadErr
	}
	return post, ok, nil
}

var _ PostSource = (*Posts)(nil)
var _ PostSource = (*content.Client)(nil)
