package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BookInfo contains book metadata fetched from an external source.
// Fields left at their zero value were not found remotely.
type BookInfo struct {
	Title          string `json:"title,omitempty"`
	Author         string `json:"author,omitempty"`
	Description    string `json:"description,omitempty"`
	PublishedDate  string `json:"published_date,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	PageCount      int    `json:"page_count,omitempty"`
	CoverThumbnail string `json:"cover_thumbnail,omitempty"`
}

// IsZero reports whether no field was filled.
func (i BookInfo) IsZero() bool {
	return i == BookInfo{}
}

// Provider fetches book metadata by ISBN. Implementations return an
// empty BookInfo with a nil error when the lookup succeeded but matched
// nothing; a non-nil error means the lookup itself failed.
type Provider interface {
	FetchByISBN(ctx context.Context, isbn string) (BookInfo, error)
}

// GoogleBooksClient fetches book metadata from the Google Books API.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewGoogleBooksClient creates a Google Books API client. A single
// attempt is made per call, bounded by timeout; there are no retries.
func NewGoogleBooksClient(baseURL string, timeout time.Duration) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// FetchByISBN looks up a volume by ISBN. A response without matching
// volumes yields an empty BookInfo and no error.
func (c *GoogleBooksClient) FetchByISBN(ctx context.Context, isbn string) (BookInfo, error) {
	query := url.QueryEscape("isbn:" + isbn)
	reqURL := fmt.Sprintf("%s/books/v1/volumes?q=%s", c.baseURL, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return BookInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Librarian/1.0 (https://github.com/mrlokans/librarian)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return BookInfo{}, fmt.Errorf("fetch volume data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return BookInfo{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return BookInfo{}, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Items) == 0 {
		return BookInfo{}, nil
	}

	return convertVolumeInfo(result.Items[0].VolumeInfo), nil
}

func convertVolumeInfo(volume volumeInfo) BookInfo {
	info := BookInfo{
		Title:         volume.Title,
		Description:   volume.Description,
		PublishedDate: volume.PublishedDate,
		Publisher:     volume.Publisher,
		PageCount:     volume.PageCount,
	}

	if len(volume.Authors) > 0 {
		info.Author = strings.Join(volume.Authors, ", ")
	}

	if volume.ImageLinks.Thumbnail != "" {
		info.CoverThumbnail = volume.ImageLinks.Thumbnail
	}

	return info
}

// Google Books API response types (internal)

type volumesResult struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	PageCount     int        `json:"pageCount"`
	ImageLinks    imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	Thumbnail string `json:"thumbnail"`
}
