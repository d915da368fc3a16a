// Package arxiv is a client for the arXiv Atom export API. It resolves paper
// metadata by id and searches the archive by free-text query.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/ronbun/internal/config"
)

var (
	// ErrNotFound is returned when the API yields no entry for an id or query.
	ErrNotFound = errors.New("paper not found on arxiv")
	// ErrUnavailable marks transport failures and non-200 answers from the API.
	ErrUnavailable = errors.New("arxiv unavailable")
)

// Paper is the metadata arXiv publishes for one entry.
type Paper struct {
	ID        string
	Title     string
	Authors   []string
	Abstract  string
	Published time.Time
	PDFURL    string
}

// Client talks to the arXiv export API.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.ArxivConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// ParseID extracts a bare arXiv id from an id, an abs/pdf URL, or an id with
// a version suffix. "https://arxiv.org/abs/2301.00001v2" -> "2301.00001".
func ParseID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".pdf")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return versionSuffix.ReplaceAllString(s, "")
}

// Fetch resolves a single paper by id or arXiv URL.
func (c *Client) Fetch(ctx context.Context, idOrURL string) (*Paper, error) {
	id := ParseID(idOrURL)
	if id == "" {
		return nil, fmt.Errorf("empty arxiv id")
	}

	q := url.Values{}
	q.Set("id_list", id)
	q.Set("max_results", "1")

	papers, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return papers[0], nil
}

// Search runs a free-text query, optionally restricted to a category
// (e.g. "cs.LG"). max caps the result count; zero uses the configured default.
func (c *Client) Search(ctx context.Context, query, category string, max int) ([]*Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if max <= 0 {
		max = c.maxResults
	}

	search := fmt.Sprintf("all:%q", query)
	if category != "" {
		search = fmt.Sprintf("%s AND cat:%s", search, category)
	}

	q := url.Values{}
	q.Set("search_query", search)
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", max))
	q.Set("sortBy", "relevance")

	return c.query(ctx, q)
}

func (c *Client) query(ctx context.Context, q url.Values) ([]*Paper, error) {
	u := c.baseURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read arxiv response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse arxiv feed: %w", err)
	}

	papers := make([]*Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		p := e.toPaper()
		// The API answers unknown ids with a placeholder entry that has
		// no usable id.
		if p.ID == "" {
			continue
		}
		papers = append(papers, p)
	}

	c.logger.Debug("arxiv query", zap.String("url", u), zap.Int("results", len(papers)))
	return papers, nil
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func (e atomEntry) toPaper() *Paper {
	p := &Paper{
		ID:       parseEntryID(e.ID),
		Title:    collapseSpace(e.Title),
		Abstract: collapseSpace(e.Summary),
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			p.PDFURL = l.Href
			break
		}
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		p.Published = t
	}
	return p
}

// parseEntryID turns an Atom entry id like "http://arxiv.org/abs/2301.00001v1"
// into a bare versionless id. Placeholder entries without "/abs/" yield "".
func parseEntryID(s string) string {
	if !strings.Contains(s, "/abs/") {
		return ""
	}
	return ParseID(s)
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
