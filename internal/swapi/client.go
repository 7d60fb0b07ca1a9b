package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coded-movies/films-api/internal/models"
)

// DefaultTimeout bounds every upstream call; the catalog is a public service
// and must never hold a request open indefinitely.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response body we keep around.
const maxErrorBody = 8 << 10

// Client fetches film pages from a SWAPI-style catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the catalog at baseURL (e.g.
// "https://swapi.dev/api"). A non-positive timeout falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Page is one page of the upstream films listing.
type Page struct {
	Results []Entry `json:"results"`
	Next    *string `json:"next"`
}

// Entry is a raw upstream film record before normalization.
type Entry struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

// Record is a normalized film record.
type Record struct {
	ID          uint
	Title       string
	ReleaseDate models.Date
}

// FilmsURL returns the first page of the films listing.
func (c *Client) FilmsURL() string {
	return c.baseURL + "/films/"
}

// FetchPage retrieves one page of the films listing. An empty pageURL means
// the first page; subsequent pages come from Page.Next, which the upstream
// returns as an absolute URL.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if pageURL == "" {
		pageURL = c.FilmsURL()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UnavailableError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &MalformedRecordError{Reason: "invalid JSON: " + err.Error()}
	}
	return &page, nil
}

// Normalize validates an upstream entry and extracts the numeric film id from
// the trailing path segment of its resource URL.
func Normalize(e Entry) (Record, error) {
	id, err := extractID(e.URL)
	if err != nil {
		return Record{}, &MalformedRecordError{URL: e.URL, Reason: err.Error()}
	}
	date, err := models.ParseDate(e.ReleaseDate)
	if err != nil {
		return Record{}, &MalformedRecordError{URL: e.URL, Reason: "invalid release_date " + strconv.Quote(e.ReleaseDate)}
	}
	return Record{ID: id, Title: e.Title, ReleaseDate: date}, nil
}

// extractID pulls the numeric id out of a resource URL such as
// "https://swapi.dev/api/films/1/".
func extractID(rawURL string) (uint, error) {
	trimmed := strings.Trim(rawURL, "/")
	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]
	id, err := strconv.ParseUint(last, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("non-numeric id segment " + strconv.Quote(last))
	}
	return uint(id), nil
}
