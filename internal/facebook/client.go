// Package facebook is a minimal Graph API client for reading public page
// posts. Group content is out of reach with a page token.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const postFields = "message,created_time,permalink_url,id"

// Client represents a Facebook Graph API client
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// Post is a single page post. Raw carries the original provider JSON for
// storage next to the normalized fields.
type Post struct {
	ID           string `json:"id"`
	Message      string `json:"message,omitempty"`
	CreatedTime  string `json:"created_time,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type postsResponse struct {
	Data []json.RawMessage `json:"data"`
}

// NewClient creates a new Graph API client
func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com"
	}

	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// HasToken reports whether the client was configured with an access token
func (c *Client) HasToken() bool {
	return c.accessToken != ""
}

// PagePosts fetches recent posts from a public page
func (c *Client) PagePosts(ctx context.Context, pageID string, limit int) ([]Post, error) {
	if !c.HasToken() {
		return nil, fmt.Errorf("page access token is required")
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", postFields)

	endpoint := fmt.Sprintf("%s/v19.0/%s/posts?%s", c.baseURL, pageID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get posts for page %s: %s", pageID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result postsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(result.Data))
	for _, raw := range result.Data {
		var post Post
		if err := json.Unmarshal(raw, &post); err != nil {
			continue
		}
		post.Raw = raw
		posts = append(posts, post)
	}

	return posts, nil
}
