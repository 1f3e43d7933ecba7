package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tiktok-bulk-scheduler/internal/model"
	"tiktok-bulk-scheduler/internal/report"
	"tiktok-bulk-scheduler/internal/tiktok"
)

type posterFunc func(ctx context.Context, req model.PostRequest) (string, error)

func (f posterFunc) Post(ctx context.Context, req model.PostRequest) (string, error) {
	return f(ctx, req)
}

func recordSleeps(s *Scheduler) *[]time.Duration {
	var sleeps []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return &sleeps
}

func requests(n int) []model.PostRequest {
	reqs := make([]model.PostRequest, n)
	for i := range reqs {
		reqs[i] = model.PostRequest{
			VideoPath:    fmt.Sprintf("videos/%d.mp4", i),
			Caption:      fmt.Sprintf("caption %d", i),
			ScheduleTime: time.Now().Add(time.Duration(i+1) * time.Hour),
			Privacy:      model.PrivacyPublic,
		}
	}
	return reqs
}

func TestRunAllSucceed(t *testing.T) {
	poster := posterFunc(func(_ context.Context, req model.PostRequest) (string, error) {
		return "post-" + filepath.Base(req.VideoPath), nil
	})
	s := New(poster, report.New(io.Discard), 5*time.Second)
	sleeps := recordSleeps(s)

	sum := s.Run(context.Background(), requests(3))
	require.Equal(t, 3, sum.Total())
	require.Equal(t, 3, sum.Succeeded())
	require.Equal(t, 0, sum.Failed())

	// Pacing applies between consecutive requests only.
	require.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, *sleeps)

	// Results keep input order.
	for i, res := range sum.Results {
		require.Equal(t, fmt.Sprintf("videos/%d.mp4", i), res.Request.VideoPath)
	}
}

func TestRunFailureDoesNotHalt(t *testing.T) {
	boom := errors.New("chunk rejected")
	poster := posterFunc(func(_ context.Context, req model.PostRequest) (string, error) {
		if req.VideoPath == "videos/1.mp4" {
			return "", boom
		}
		return "ok", nil
	})
	s := New(poster, report.New(io.Discard), time.Second)
	sleeps := recordSleeps(s)

	sum := s.Run(context.Background(), requests(3))
	require.Equal(t, 3, sum.Total())
	require.Equal(t, 2, sum.Succeeded())
	require.Equal(t, 1, sum.Failed())
	require.ErrorIs(t, sum.Results[1].Err, boom)
	require.Len(t, *sleeps, 2)
}

func TestRunSingleRequestNoDelay(t *testing.T) {
	poster := posterFunc(func(context.Context, model.PostRequest) (string, error) { return "ok", nil })
	s := New(poster, report.New(io.Discard), time.Second)
	sleeps := recordSleeps(s)

	sum := s.Run(context.Background(), requests(1))
	require.Equal(t, 1, sum.Total())
	require.Empty(t, *sleeps)
}

func TestRunEmptyInput(t *testing.T) {
	poster := posterFunc(func(context.Context, model.PostRequest) (string, error) {
		t.Fatal("poster must not be called")
		return "", nil
	})
	s := New(poster, report.New(io.Discard), time.Second)

	sum := s.Run(context.Background(), nil)
	require.Zero(t, sum.Total())
}

// End-to-end over the real upload driver: first row resolves to an
// existing file, second row points at a missing one.
func TestRunWithUploadDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.mp4")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	client := &scriptedClient{chunkSize: 32, postID: "post-1"}
	var out bytes.Buffer
	s := New(tiktok.NewUploader(client), report.New(&out), 5*time.Second)
	sleeps := recordSleeps(s)

	reqs := []model.PostRequest{
		{VideoPath: path, Caption: "a", ScheduleTime: time.Now().Add(time.Hour), Privacy: model.PrivacyPublic},
		{VideoPath: filepath.Join(t.TempDir(), "missing.mp4"), Caption: "b", ScheduleTime: time.Now().Add(2 * time.Hour), Privacy: model.PrivacyPublic},
	}

	sum := s.Run(context.Background(), reqs)
	require.Equal(t, 2, sum.Total())
	require.Equal(t, 1, sum.Succeeded())
	require.Equal(t, 1, sum.Failed())
	require.True(t, tiktok.IsKind(sum.Results[1].Err, tiktok.KindFile))

	// Delay exactly once: between the two rows, not after the last.
	require.Equal(t, []time.Duration{5 * time.Second}, *sleeps)

	// The missing file never reached the network.
	require.Equal(t, 1, client.initCalls)
	require.Contains(t, out.String(), "Successful: 1")
	require.Contains(t, out.String(), "Failed: 1")
}

// scriptedClient is a minimal protocol fake for the driver.
type scriptedClient struct {
	chunkSize int64
	postID    string
	initCalls int
}

func (c *scriptedClient) InitUpload(_ context.Context, req tiktok.InitRequest) (*tiktok.UploadSession, error) {
	c.initCalls++
	return &tiktok.UploadSession{
		ID:          "s1",
		UploadURL:   "https://upload.example/s1",
		ChunkSize:   c.chunkSize,
		TotalSize:   req.VideoSize,
		TotalChunks: tiktok.ChunkCount(req.VideoSize, c.chunkSize),
	}, nil
}

func (c *scriptedClient) UploadChunk(_ context.Context, _ *tiktok.UploadSession, _ tiktok.Chunk, body io.Reader) error {
	_, err := io.Copy(io.Discard, body)
	return err
}

func (c *scriptedClient) FinalizeUpload(context.Context, string) (string, error) {
	return c.postID, nil
}
