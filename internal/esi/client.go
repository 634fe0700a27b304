package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sanri/eve-online-tools/internal/core"
)

const (
	// DefaultBaseURL is the public ESI endpoint.
	DefaultBaseURL = "https://esi.evetech.net"
	// compatibilityDate pins the upstream API revision this client was
	// written against.
	compatibilityDate = "2025-09-30"
)

// Config configures a Client. Token is required for the wallet journal
// (private scope); the public endpoints work without it.
type Config struct {
	// BaseURL overrides the ESI endpoint, mainly for tests.
	BaseURL string
	// ProxyURL routes requests through an HTTPS proxy when set.
	ProxyURL string
	// Token is the raw Authorization header value ("Bearer ...").
	Token string
}

// Client talks to the EVE Swagger Interface over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New builds a Client with a pooled transport. An invalid proxy URL is a
// construction error, not a deferred request failure.
func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	transport := newPooledTransport()
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   60 * time.Second,
		},
		baseURL: base,
		token:   cfg.Token,
	}, nil
}

func newPooledTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// WalletJournal fetches one page of a corporation's wallet division journal.
// A 404 means the page is past the end and returns (nil, nil); callers page
// from 1 until that happens.
func (c *Client) WalletJournal(ctx context.Context, corporationID, division int64, page int) ([]core.JournalEntry, error) {
	endpoint := fmt.Sprintf("%s/corporations/%d/wallets/%d/journal?page=%d", c.baseURL, corporationID, division, page)

	var items []journalItem
	found, err := c.getJSON(ctx, endpoint, true, &items)
	if err != nil {
		return nil, fmt.Errorf("wallet journal page %d: %w", page, err)
	}
	if !found {
		return nil, nil
	}

	entries := make([]core.JournalEntry, 0, len(items))
	for _, it := range items {
		entry, err := it.toEntry()
		if err != nil {
			return nil, fmt.Errorf("wallet journal page %d: %w", page, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CharacterInfo returns a character's public record, or (nil, nil) when the
// id is not a character.
func (c *Client) CharacterInfo(ctx context.Context, characterID int64) (*CharacterInfo, error) {
	endpoint := fmt.Sprintf("%s/characters/%d", c.baseURL, characterID)

	var info CharacterInfo
	found, err := c.getJSON(ctx, endpoint, false, &info)
	if err != nil {
		return nil, fmt.Errorf("character %d: %w", characterID, err)
	}
	if !found {
		return nil, nil
	}
	return &info, nil
}

// CorporationInfo returns a corporation's public record, or (nil, nil) when
// the id is not a corporation.
func (c *Client) CorporationInfo(ctx context.Context, corporationID int64) (*CorporationInfo, error) {
	endpoint := fmt.Sprintf("%s/corporations/%d", c.baseURL, corporationID)

	var info CorporationInfo
	found, err := c.getJSON(ctx, endpoint, false, &info)
	if err != nil {
		return nil, fmt.Errorf("corporation %d: %w", corporationID, err)
	}
	if !found {
		return nil, nil
	}
	return &info, nil
}

// CharacterPortraits returns the portrait image URLs for a character.
func (c *Client) CharacterPortraits(ctx context.Context, characterID int64) (*PortraitURLs, error) {
	endpoint := fmt.Sprintf("%s/characters/%d/portrait", c.baseURL, characterID)

	var urls PortraitURLs
	found, err := c.getJSON(ctx, endpoint, false, &urls)
	if err != nil {
		return nil, fmt.Errorf("portraits for %d: %w", characterID, err)
	}
	if !found {
		return nil, fmt.Errorf("portraits for %d: not found", characterID)
	}
	return &urls, nil
}

// FetchPortraits downloads all four portrait sizes concurrently. Any single
// failure fails the set; partial portrait rows are not useful.
func (c *Client) FetchPortraits(ctx context.Context, urls PortraitURLs) (*Portraits, error) {
	var out Portraits
	g, ctx := errgroup.WithContext(ctx)

	fetch := func(src string, dst *[]byte) func() error {
		return func() error {
			data, err := c.getImage(ctx, src)
			if err != nil {
				return err
			}
			*dst = data
			return nil
		}
	}

	g.Go(fetch(urls.Px64, &out.Px64))
	g.Go(fetch(urls.Px128, &out.Px128))
	g.Go(fetch(urls.Px256, &out.Px256))
	g.Go(fetch(urls.Px512, &out.Px512))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON issues an authenticated GET and decodes the body into v. It
// returns found=false on 404 without error; every other non-2xx status
// surfaces the response body as the error text.
func (c *Client) getJSON(ctx context.Context, endpoint string, authorized bool, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("X-Compatibility-Date", compatibilityDate)
	if authorized && c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return false, fmt.Errorf("status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// getImage downloads one portrait and verifies the data is a decodable JPEG
// before it is ever written to storage.
func (c *Client) getImage(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("get image: status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("get image: not a jpeg: %w", err)
	}
	return data, nil
}
