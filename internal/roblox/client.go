package roblox

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	thumbnailsBaseURL = "https://thumbnails.roblox.com"
	assetsPath        = "/v1/assets"

	// returnPolicy asks the API to answer with a placeholder entry instead
	// of omitting assets it cannot serve yet.
	returnPolicy = "PlaceHolder"

	defaultSize    = "250x250"
	defaultFormat  = "Png"
	defaultTimeout = 10 * time.Second
)

// Client is a client for the Roblox thumbnails batch endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	size    string
	format  string
	logger  *slog.Logger
}

// ClientOptions configures a Client. Zero values fall back to the defaults.
type ClientOptions struct {
	BaseURL string
	Size    string
	Format  string
	Timeout time.Duration
}

// NewClient creates a thumbnails API client.
func NewClient(opts ClientOptions, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = thumbnailsBaseURL
	}
	if opts.Size == "" {
		opts.Size = defaultSize
	}
	if opts.Format == "" {
		opts.Format = defaultFormat
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL: opts.BaseURL,
		size:    opts.Size,
		format:  opts.Format,
		logger:  logger,
	}
}

// Lookup requests thumbnails for one batch of asset IDs. The response may
// cover fewer assets than requested, and returned states other than
// StateCompleted carry no usable URL; callers decide how to retry.
func (c *Client) Lookup(ctx context.Context, assetIDs []string) ([]Thumbnail, error) {
	const op = "lookup"

	params := url.Values{}
	params.Set("assetIds", strings.Join(assetIDs, ","))
	params.Set("returnPolicy", returnPolicy)
	params.Set("size", c.size)
	params.Set("format", c.format)
	params.Set("isCircular", "false")

	lookupURL := c.baseURL + assetsPath + "?" + params.Encode()

	c.logger.Debug("requesting thumbnails",
		"assets", len(assetIDs),
		"url", lookupURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, wrapError(op, len(assetIDs), fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "showroom-tools/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(op, len(assetIDs), fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, wrapError(op, len(assetIDs), ErrRateLimited)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, wrapError(op, len(assetIDs), ErrBadRequest)
	case resp.StatusCode >= 500:
		return nil, wrapError(op, len(assetIDs), ErrServer)
	default:
		return nil, wrapError(op, len(assetIDs), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var lookupResp lookupResponse
	if err := json.UnmarshalRead(resp.Body, &lookupResp); err != nil {
		return nil, wrapError(op, len(assetIDs), fmt.Errorf("parse response: %w", err))
	}

	// targetId comes back as a number; normalize to the decimal string used
	// as the request key.
	thumbs := make([]Thumbnail, 0, len(lookupResp.Data))
	for _, item := range lookupResp.Data {
		thumbs = append(thumbs, Thumbnail{
			AssetID:  strconv.FormatInt(item.TargetID, 10),
			State:    item.State,
			ImageURL: item.ImageURL,
		})
	}

	c.logger.Debug("thumbnails response",
		"requested", len(assetIDs),
		"returned", len(thumbs),
	)

	return thumbs, nil
}
