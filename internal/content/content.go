// Package content reads blog posts from the site's GraphQL CMS.
package content

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultLatestLimit is the number of posts LatestPosts returns when no
// positive limit is given.
const DefaultLatestLimit = 3

// Category is a post category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post is a CMS blog post. Content is empty in LatestPosts results.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content,omitempty"`
	Excerpt       string     `json:"excerpt"`
	Date          string     `json:"date"`
	Categories    []Category `json:"categories"`
	BlogTitle     string     `json:"blogTitle,omitempty"`
	ReadingTime   int        `json:"readingTime,omitempty"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
}

// Options parameterise the content client.
type Options struct {
	GraphQLURL string
	Timeout    time.Duration
}

// Client queries the GraphQL endpoint.
type Client struct {
	endpoint string
	client   *resty.Client
	logger   zerolog.Logger
}

// New constructs a content client.
func New(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		endpoint: opts.GraphQLURL,
		client:   client,
		logger:   logger.With().Str("component", "content").Logger(),
	}
}

const postFields = `
          id
          title
          slug
          date
          excerpt
          categories { edges { node { id name } } }
          blogPosts { blogTitle readingTime }
          featuredImage { node { sourceUrl } }`

const allPostsQuery = `
    query GetFullPostContent {
      posts {
        nodes {` + postFields + `
          content
        }
      }
    }`

const postBySlugQuery = `
    query GetSinglePostBySlug($slugName: String!) {
      posts(where: {name: $slugName}) {
        nodes {` + postFields + `
          content
        }
      }
    }`

const latestPostsQuery = `
    query GetLatestPosts($limit: Int!) {
      posts(first: $limit, where: {orderby: {field: DATE, order: DESC}}) {
        nodes {` + postFields + `
        }
      }
    }`

// AllPosts returns every published post with its body.
func (c *Client) AllPosts(ctx context.Context) ([]Post, error) {
	return c.posts(ctx, "all_posts", allPostsQuery, nil)
}

// PostBySlug returns the post named slug. ok is false when no post matches.
func (c *Client) PostBySlug(ctx context.Context, slug string) (Post, bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Post{}, false, nil
	}
	posts, err := c.posts(ctx, "post_by_slug", postBySlugQuery, map[string]any{"slugName": slug})
	if err != nil {
		return Post{}, false, err
	}
	if len(posts) == 0 {
		return Post{}, false, nil
	}
	return posts[0], true, nil
}

// LatestPosts returns the newest limit posts without bodies.
func (c *Client) LatestPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	return c.posts(ctx, "latest_posts", latestPostsQuery, map[string]any{"limit": limit})
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type postNode struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	Date       string `json:"date"`
	Categories *struct {
		Edges []struct {
			Node Category `json:"node"`
		} `json:"edges"`
	} `json:"categories"`
	BlogPosts *struct {
		BlogTitle   *string  `json:"blogTitle"`
		ReadingTime *float64 `json:"readingTime"`
	} `json:"blogPosts"`
	FeaturedImage *struct {
		Node struct {
			SourceURL string `json:"sourceUrl"`
		} `json:"node"`
	} `json:"featuredImage"`
}

type postsResponse struct {
	Data struct {
		Posts *struct {
			Nodes []postNode `json:"nodes"`
		} `json:"posts"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func (c *Client) posts(ctx context.Context, op, query string, vars map[string]any) ([]Post, error) {
	if c.endpoint == "" {
		return nil, errors.New("content graphql url not configured")
	}

	var payload postsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: query, Variables: vars}).
		SetResult(&payload).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%s: content api responded %d", op, resp.StatusCode())
	}
	if len(payload.Errors) > 0 {
		msgs := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			msgs = append(msgs, e.Message)
		}
		c.logger.Error().Str("op", op).Strs("errors", msgs).Msg("graphql returned errors")
		return nil, fmt.Errorf("%s: graphql: %s", op, strings.Join(msgs, "; "))
	}

	if payload.Data.Posts == nil {
		return []Post{}, nil
	}
	posts := make([]Post, 0, len(payload.Data.Posts.Nodes))
	for _, n := range payload.Data.Posts.Nodes {
		posts = append(posts, n.toPost())
	}
	c.logger.Debug().Str("op", op).Int("posts", len(posts)).Msg("content query complete")
	return posts, nil
}

func (n postNode) toPost() Post {
	p := Post{
		ID:         n.ID,
		Title:      n.Title,
		Slug:       n.Slug,
		Content:    n.Content,
		Excerpt:    n.Excerpt,
		Date:       n.Date,
		Categories: []Category{},
	}
	if n.Categories != nil {
		for _, e := range n.Categories.Edges {
			p.Categories = append(p.Categories, e.Node)
		}
	}
	if n.BlogPosts != nil {
		if n.BlogPosts.BlogTitle != nil {
			p.BlogTitle = *n.BlogPosts.BlogTitle
		}
		if n.BlogPosts.ReadingTime != nil {
			p.ReadingTime = int(math.Round(*n.BlogPosts.ReadingTime))
		}
	}
	if n.FeaturedImage != nil {
		p.FeaturedImage = n.FeaturedImage.Node.SourceURL
	}
	return p
}
