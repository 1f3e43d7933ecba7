package tiktok

import (
	"context"
	"io"
	"os"
	"time"

	"tiktok-bulk-scheduler/internal/model"
)

// Uploader drives the three-phase posting protocol for one request:
// init session, stream chunks in index order, finalize. A failed chunk
// aborts the rest; there is no partial-session resume.
type Uploader struct {
	client Client
	now    func() time.Time
}

// NewUploader wraps a protocol client. now is overridable for tests;
// nil means time.Now.
func NewUploader(client Client) *Uploader {
	return &Uploader{client: client, now: time.Now}
}

// Post uploads and schedules one video, returning the platform post id.
//
// Local checks run before any network call: the schedule must be
// strictly in the future (a time equal to now is rejected), the video
// must be a readable regular file, and it must be non-empty.
func (u *Uploader) Post(ctx context.Context, req model.PostRequest) (string, error) {
	if !req.ScheduleTime.After(u.now()) {
		return "", errf(KindValidation, "validate request", "schedule time %s is not in the future",
			req.ScheduleTime.Format("2006-01-02 15:04:05"))
	}

	f, err := os.Open(req.VideoPath)
	if err != nil {
		return "", errf(KindFile, "open video", "%v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", errf(KindFile, "open video", "%v", err)
	}
	if info.IsDir() {
		return "", errf(KindFile, "open video", "%s is a directory", req.VideoPath)
	}
	if info.Size() == 0 {
		return "", errf(KindValidation, "validate request", "video file %s is empty", req.VideoPath)
	}

	session, err := u.client.InitUpload(ctx, InitRequest{
		Caption:      req.Caption,
		Privacy:      req.Privacy,
		ScheduleTime: req.ScheduleTime,
		VideoSize:    info.Size(),
	})
	if err != nil {
		return "", err
	}

	// Chunk size is dictated by the init response; a locally chosen
	// size would corrupt the reassembled file.
	for _, chunk := range ChunkPlan(session.TotalSize, session.ChunkSize) {
		body := io.NewSectionReader(f, chunk.Start, chunk.Len())
		if err := u.client.UploadChunk(ctx, session, chunk, body); err != nil {
			return "", err
		}
	}

	return u.client.FinalizeUpload(ctx, session.ID)
}
