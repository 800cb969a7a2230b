package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Yadino/vidextract/model"
)

// QueryAllEvents is the reserved sentinel query: the backend skips
// semantic search and returns every extracted moment. Wire constant,
// must match the backend exactly.
const QueryAllEvents = "__GET_ALL_EVENTS__"

const (
	genericUploadError = "Failed to upload video"
	genericQueryError  = "Failed to send message"
	genericEventsError = "Failed to fetch events"
)

// ProgressFunc reports multipart transfer progress in bytes.
type ProgressFunc func(sent, total int64)

// Client wraps the VidExtract backend HTTP API. No retries, no custom
// timeouts: failures surface immediately to the caller.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		logger:  logger,
	}
}

// UploadResult is the upload endpoint's success body. Only Filename
// matters to the chat handoff; the rest is informational.
type UploadResult struct {
	Message     string          `json:"message"`
	Filename    string          `json:"filename"`
	EventsSaved int             `json:"events_saved"`
	Analysis    json.RawMessage `json:"analysis"`
}

// ChatResponse is the chat endpoint's success body.
type ChatResponse struct {
	Events       []model.Event `json:"events"`
	TotalResults int           `json:"total_results"`
}

type chatRequest struct {
	Query         string `json:"query"`
	VideoFilename string `json:"video_filename"`
}

// Upload streams the file at path as a single multipart field named
// "file". onProgress, when non-nil, fires zero or more times as file
// bytes are written to the wire. The HTTP call blocks until the backend
// has finished analyzing the video.
func (c *Client) Upload(ctx context.Context, path string, onProgress ProgressFunc) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UploadError{Message: err.Error(), Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &UploadError{Message: err.Error(), Err: err}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := io.Reader(f)
		if onProgress != nil {
			src = &progressReader{r: f, total: info.Size(), report: onProgress}
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/video/upload", pr)
	if err != nil {
		return nil, &UploadError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("uploading video",
		zap.String("file", filepath.Base(path)),
		zap.Int64("size", info.Size()))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &UploadError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := normalizeDetail(body, genericUploadError)
		c.logger.Warn("upload rejected",
			zap.Int("status", resp.StatusCode), zap.String("detail", msg))
		return nil, &UploadError{Message: msg}
	}

	var out UploadResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &UploadError{Message: genericUploadError, Err: err}
	}
	c.logger.Info("upload complete",
		zap.String("filename", out.Filename), zap.Int("events_saved", out.EventsSaved))
	return &out, nil
}

// Query posts {query, video_filename} to the chat endpoint. Pass
// QueryAllEvents to request the unfiltered moment list.
func (c *Client) Query(ctx context.Context, filename, query string) (*ChatResponse, error) {
	payload, err := json.Marshal(chatRequest{Query: query, VideoFilename: filename})
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := normalizeDetail(body, genericQueryError)
		c.logger.Warn("query rejected",
			zap.Int("status", resp.StatusCode), zap.String("detail", msg))
		return nil, &QueryError{Message: msg}
	}

	// events must be present even when empty; its absence means the
	// backend did not answer the contract we depend on
	var out struct {
		Events       *[]model.Event `json:"events"`
		TotalResults int            `json:"total_results"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Events == nil {
		return nil, &QueryError{Message: "Received an unexpected response from the server.", Err: err}
	}
	return &ChatResponse{Events: *out.Events, TotalResults: out.TotalResults}, nil
}

// Events fetches the raw event list for a video, bypassing search.
func (c *Client) Events(ctx context.Context, filename string) ([]model.Event, error) {
	endpoint := fmt.Sprintf("%s/api/video/events/%s", c.baseURL, url.PathEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &QueryError{Message: normalizeDetail(body, genericEventsError)}
	}

	var events []model.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, &QueryError{Message: genericEventsError, Err: err}
	}
	return events, nil
}

// progressReader counts file bytes as the multipart writer drains them.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.sent, p.total)
	}
	return n, err
}
