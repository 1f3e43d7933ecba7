package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"tiktok-bulk-scheduler/internal/model"
)

// DefaultBaseURL is the Content Posting API root.
const DefaultBaseURL = "https://open.tiktokapis.com/v2"

const requestTimeout = 60 * time.Second

// InitRequest carries the metadata declared when opening an upload session.
type InitRequest struct {
	Caption      string
	Privacy      model.PrivacyLevel
	ScheduleTime time.Time
	VideoSize    int64
}

// UploadSession is the server-issued context for one upload attempt.
// It is consumed within a single request and never reused.
type UploadSession struct {
	ID          string
	UploadURL   string
	ChunkSize   int64
	TotalSize   int64
	TotalChunks int
}

// Client is the protocol surface the upload driver needs. The real
// implementation is APIClient; tests substitute a scripted fake.
type Client interface {
	InitUpload(ctx context.Context, req InitRequest) (*UploadSession, error)
	UploadChunk(ctx context.Context, session *UploadSession, chunk Chunk, body io.Reader) error
	FinalizeUpload(ctx context.Context, sessionID string) (string, error)
}

// APIClient talks to the Content Posting API with bearer auth.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient builds a client whose every call carries the access
// token. An empty baseURL selects the production endpoint.
func NewAPIClient(ctx context.Context, accessToken, baseURL string) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = requestTimeout
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type initPayload struct {
	PostInfo   postInfo   `json:"post_info"`
	SourceInfo sourceInfo `json:"source_info"`
}

type postInfo struct {
	Title                 string `json:"title"`
	PrivacyLevel          string `json:"privacy_level"`
	DisableDuet           bool   `json:"disable_duet"`
	DisableComment        bool   `json:"disable_comment"`
	DisableStitch         bool   `json:"disable_stitch"`
	VideoCoverTimestampMS int    `json:"video_cover_timestamp_ms"`
	ScheduleTime          int64  `json:"schedule_time,omitempty"`
}

type sourceInfo struct {
	Source    string `json:"source"`
	VideoSize int64  `json:"video_size,omitempty"`
	VideoID   string `json:"video_id,omitempty"`
}

type initResponse struct {
	Data struct {
		UploadSessionID string `json:"upload_session_id"`
		UploadURL       string `json:"upload_url"`
		ChunkSize       int64  `json:"chunk_size"`
	} `json:"data"`
}

type publishResponse struct {
	Data struct {
		PostID    string `json:"post_id"`
		PublishID string `json:"publish_id"`
	} `json:"data"`
}

// InitUpload opens an upload session, declaring size and post metadata
// up front. The API chooses the chunk size; the caller must honor it.
func (c *APIClient) InitUpload(ctx context.Context, req InitRequest) (*UploadSession, error) {
	const op = "init upload"

	payload := initPayload{
		PostInfo: postInfo{
			Title:                 req.Caption,
			PrivacyLevel:          string(req.Privacy),
			VideoCoverTimestampMS: 1000,
			ScheduleTime:          req.ScheduleTime.Unix(),
		},
		SourceInfo: sourceInfo{
			Source:    "FILE_UPLOAD",
			VideoSize: req.VideoSize,
		},
	}

	body, status, err := c.postJSON(ctx, "/post/publish/video/init/", payload)
	if err != nil {
		return nil, errf(KindNetwork, op, "%v", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, errf(KindAuth, op, "credentials rejected (status %d): %s", status, apiErrorDetail(body))
	}
	if status < 200 || status > 299 {
		return nil, errf(KindValidation, op, "rejected (status %d): %s", status, apiErrorDetail(body))
	}

	var res initResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errf(KindUpload, op, "malformed response: %v", err)
	}
	if res.Data.UploadSessionID == "" || res.Data.UploadURL == "" {
		return nil, errf(KindUpload, op, "response missing upload URL or session id")
	}
	if res.Data.ChunkSize <= 0 {
		return nil, errf(KindUpload, op, "response missing chunk size")
	}

	return &UploadSession{
		ID:          res.Data.UploadSessionID,
		UploadURL:   res.Data.UploadURL,
		ChunkSize:   res.Data.ChunkSize,
		TotalSize:   req.VideoSize,
		TotalChunks: ChunkCount(req.VideoSize, res.Data.ChunkSize),
	}, nil
}

// UploadChunk streams one byte range to the session's upload URL. The
// Content-Range header tells the API where the bytes land in the file.
func (c *APIClient) UploadChunk(ctx context.Context, session *UploadSession, chunk Chunk, body io.Reader) error {
	op := fmt.Sprintf("upload chunk %d/%d", chunk.Index+1, session.TotalChunks)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, session.UploadURL, body)
	if err != nil {
		return errf(KindNetwork, op, "%v", err)
	}
	httpReq.ContentLength = chunk.Len()
	httpReq.Header.Set("Content-Type", "video/mp4")
	httpReq.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", chunk.Start, chunk.End-1, session.TotalSize))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errf(KindNetwork, op, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errf(KindUpload, op, "rejected (status %d): %s", resp.StatusCode, apiErrorDetail(detail))
	}
	return nil
}

// FinalizeUpload publishes the accumulated session and returns the
// platform post identifier.
func (c *APIClient) FinalizeUpload(ctx context.Context, sessionID string) (string, error) {
	const op = "finalize upload"

	payload := struct {
		SourceInfo sourceInfo `json:"source_info"`
	}{
		SourceInfo: sourceInfo{
			Source:  "FILE_UPLOAD",
			VideoID: sessionID,
		},
	}

	body, status, err := c.postJSON(ctx, "/post/publish/", payload)
	if err != nil {
		return "", errf(KindNetwork, op, "%v", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "", errf(KindAuth, op, "credentials rejected (status %d): %s", status, apiErrorDetail(body))
	}
	if status < 200 || status > 299 {
		return "", errf(KindUpload, op, "rejected (status %d): %s", status, apiErrorDetail(body))
	}

	var res publishResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", errf(KindUpload, op, "malformed response: %v", err)
	}
	postID := res.Data.PostID
	if postID == "" {
		postID = res.Data.PublishID
	}
	if postID == "" {
		return "", errf(KindUpload, op, "response missing post id")
	}
	return postID, nil
}

func (c *APIClient) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// apiErrorDetail digs the error message out of an API error body; the
// API wraps failures as {"error": {"code": ..., "message": ...}}.
func apiErrorDetail(body []byte) string {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = gjson.GetBytes(body, "error.code").String()
	}
	if msg == "" {
		if s := strings.TrimSpace(string(body)); s != "" && len(s) <= 500 {
			return s
		}
		return "unknown error"
	}
	return msg
}
