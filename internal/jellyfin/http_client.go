package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tunebridge/internal/config"
)

// HTTPDoer describes the HTTP client used by the Jellyfin service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewHTTPClient constructs an HTTP-backed Jellyfin client.
func NewHTTPClient(baseURL, apiKey string, client HTTPDoer) Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

// NewConfiguredClient returns a Jellyfin client built from application config,
// or nil when no server is configured.
func NewConfiguredClient(cfg *config.Config) Client {
	if cfg == nil || cfg.Jellyfin.URL == "" || cfg.Jellyfin.APIKey == "" {
		return nil
	}
	doer := &http.Client{Timeout: time.Duration(cfg.Jellyfin.TimeoutSeconds) * time.Second}
	return NewHTTPClient(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey, doer)
}

type itemsResponse struct {
	Items []itemDTO `json:"Items"`
}

type itemDTO struct {
	ID           string    `json:"Id"`
	Name         string    `json:"Name"`
	Album        string    `json:"Album"`
	Artists      []string  `json:"Artists"`
	AlbumArtists []nameDTO `json:"AlbumArtists"`
	IndexNumber  int       `json:"IndexNumber"`
	Path         string    `json:"Path"`
}

type nameDTO struct {
	Name string `json:"Name"`
}

func (d itemDTO) item() Item {
	albumArtists := make([]string, 0, len(d.AlbumArtists))
	for _, artist := range d.AlbumArtists {
		if artist.Name != "" {
			albumArtists = append(albumArtists, artist.Name)
		}
	}
	return Item{
		ID:           d.ID,
		Name:         d.Name,
		Album:        d.Album,
		Artists:      d.Artists,
		AlbumArtists: albumArtists,
		IndexNumber:  d.IndexNumber,
		Path:         d.Path,
	}
}

func (c *httpClient) SearchTracks(ctx context.Context, query string, limit int) ([]Item, error) {
	params := url.Values{}
	params.Set("searchTerm", query)
	params.Set("includeItemTypes", "Audio")
	params.Set("recursive", "true")
	params.Set("fields", "Path")
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.getItems(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(resp.Items))
	for _, dto := range resp.Items {
		items = append(items, dto.item())
	}
	return items, nil
}

func (c *httpClient) GetTrack(ctx context.Context, id string) (*Item, error) {
	normalized, err := NormalizeItemID(id)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ids", normalized)
	params.Set("fields", "Path")

	resp, err := c.getItems(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	item := resp.Items[0].item()
	return &item, nil
}

func (c *httpClient) getItems(ctx context.Context, params url.Values) (*itemsResponse, error) {
	requestURL := fmt.Sprintf("%s/Items?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build jellyfin items request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query jellyfin items: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("jellyfin items query returned %d", resp.StatusCode)
	}

	var decoded itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode jellyfin items response: %w", err)
	}
	return &decoded, nil
}
