package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNetwork covers transport failures, bad status codes and
	// unexpected content types. The key is worth another attempt.
	ErrNetwork = errors.New("network error")
	// ErrParse means the page arrived but has no usable article body.
	ErrParse = errors.New("parse error")
)

// Fetcher downloads printable Wiktionary articles. It never retries on its
// own; the crawler decides when a key gets another attempt.
type Fetcher struct {
	client          *http.Client
	baseURL         string
	contentSelector string
}

func New(c *http.Client, baseURL, contentSelector string) *Fetcher {
	return &Fetcher{
		client:          c,
		baseURL:         baseURL,
		contentSelector: contentSelector,
	}
}

// ArticleURL builds the printable article address for key.
func (f *Fetcher) ArticleURL(key string) string {
	q := url.Values{}
	q.Set("title", key)
	q.Set("printable", "yes")
	return f.baseURL + "?" + q.Encode()
}

// Fetch returns the outer HTML of the article's content root.
func (f *Fetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	body, err := f.get(ctx, f.ArticleURL(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetwork, key, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}

	content := doc.Find(f.contentSelector).First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("%w: %s: no %s element", ErrParse, key, f.contentSelector)
	}

	out, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}

	return []byte(out), nil
}

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "text/html") {
			return nil, fmt.Errorf("unexpected MIME: %s", ct)
		}
	}

	return io.ReadAll(resp.Body)
}
