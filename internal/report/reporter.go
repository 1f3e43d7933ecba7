package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"tiktok-bulk-scheduler/internal/model"
)

// Reporter renders per-request progress and the final tally. It only
// writes; it never influences control flow.
type Reporter struct {
	w io.Writer
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Starting announces that request i of n is about to be processed.
func (r *Reporter) Starting(i, n int, req model.PostRequest) {
	fmt.Fprintf(r.w, "\n[%d/%d] Processing video: %s\n", i, n, filepath.Base(req.VideoPath))
	fmt.Fprintf(r.w, "Scheduled for: %s\n", req.ScheduleTime.Format("2006-01-02 15:04:05"))
}

// Finished reports the outcome of one request.
func (r *Reporter) Finished(res model.PostResult) {
	if res.OK() {
		fmt.Fprintf(r.w, "✓ Successfully scheduled video (post id %s)\n", res.PostID)
		return
	}
	fmt.Fprintf(r.w, "✗ Error: %v\n", res.Err)
}

// Waiting reports the pacing pause between consecutive requests.
func (r *Reporter) Waiting(d time.Duration) {
	fmt.Fprintf(r.w, "Waiting %s before next upload...\n", d)
}

// Summary prints the final banner with the run tally.
func (r *Reporter) Summary(sum *model.RunSummary) {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(r.w, "\n%s\n", line)
	fmt.Fprintln(r.w, "Bulk scheduling complete!")
	fmt.Fprintf(r.w, "Successful: %d\n", sum.Succeeded())
	fmt.Fprintf(r.w, "Failed: %d\n", sum.Failed())
	fmt.Fprintf(r.w, "%s\n", line)
}
