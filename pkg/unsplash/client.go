package unsplash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "unsplashdl/pkg/errors"
	"unsplashdl/pkg/logger"
)

// DefaultTimeout bounds every request, so a stalled server cannot hang a run
const DefaultTimeout = 30 * time.Second

// Client talks to the Unsplash API and fetches image bytes
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	logger     logger.Logger
}

// Asset is the body of a downloaded image
type Asset struct {
	Data        []byte
	ContentType string
}

// NewClient creates a new Unsplash API client. A zero timeout means DefaultTimeout.
func NewClient(baseURL, accessKey string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		accessKey: accessKey,
		logger:    log,
	}
}

// BaseURL returns the API root the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request, logging its outcome
func (c *Client) doRequest(req *http.Request, op string) (*http.Response, error) {
	logURL := RedactKey(req.URL.String())

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    logURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      logURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Transport(op, 0, err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      logURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get performs a GET and returns the whole body of a successful response
func (c *Client) get(ctx context.Context, rawURL, op string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", errs.Transport(op, 0, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.doRequest(req, op)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp, op); err != nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errs.Transport(op, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// checkResponseStatus maps a non-2xx status to a transport error
func checkResponseStatus(resp *http.Response, op string) error {
	if errs.IsSuccessStatus(resp.StatusCode) {
		return nil
	}

	var reason string
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		reason = "access key rejected"
	case http.StatusForbidden:
		reason = "forbidden (rate limit exceeded or key lacks access)"
	case http.StatusNotFound:
		reason = "resource not found"
	default:
		reason = fmt.Sprintf("unexpected status %s", resp.Status)
	}
	return errs.Transport(op, resp.StatusCode, fmt.Errorf("%s", reason))
}

// FetchCollectionPage fetches and decodes one page of a collection's photos
func (c *Client) FetchCollectionPage(ctx context.Context, collectionID string, page int) (CollectionPage, error) {
	url := CollectionPhotosURL(c.baseURL, collectionID, c.accessKey, page)
	op := fmt.Sprintf("fetch collection %s page %d", collectionID, page)

	body, _, err := c.get(ctx, url, op)
	if err != nil {
		return nil, err
	}

	photos, err := DecodeCollectionPage(body)
	if err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse collection page", map[string]interface{}{
			"collection":   collectionID,
			"page":         page,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, errs.Decode(op, err)
	}

	return photos, nil
}

// Download fetches the full body of an image URL.
// An empty body is reported as errors.ErrNoData.
func (c *Client) Download(ctx context.Context, imageURL string) (*Asset, error) {
	op := "download " + imageURL

	data, contentType, err := c.get(ctx, imageURL, op)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errs.Transport(op, 0, errs.ErrNoData)
	}

	return &Asset{Data: data, ContentType: contentType}, nil
}
