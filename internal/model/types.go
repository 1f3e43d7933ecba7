package model

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// PrivacyLevel is the visibility setting TikTok applies to a published post.
type PrivacyLevel string

const (
	PrivacyPublic        PrivacyLevel = "PUBLIC_TO_EVERYONE"
	PrivacyMutualFriends PrivacyLevel = "MUTUAL_FOLLOW_FRIENDS"
	PrivacySelfOnly      PrivacyLevel = "SELF_ONLY"
)

// ParsePrivacyLevel maps an input string to a PrivacyLevel. An empty
// string falls back to PUBLIC_TO_EVERYONE, matching the input file
// contract where the column is optional.
func ParsePrivacyLevel(s string) (PrivacyLevel, error) {
	switch PrivacyLevel(s) {
	case "":
		return PrivacyPublic, nil
	case PrivacyPublic, PrivacyMutualFriends, PrivacySelfOnly:
		return PrivacyLevel(s), nil
	}
	return "", fmt.Errorf("unknown privacy level %q", s)
}

// PostRequest describes one video to upload and schedule. Values are
// fixed at load time and never mutated afterwards.
type PostRequest struct {
	VideoPath    string       `json:"video_path"`
	Caption      string       `json:"caption"`
	ScheduleTime time.Time    `json:"schedule_time"`
	Privacy      PrivacyLevel `json:"privacy_level"`
}

// PostResult is the outcome of processing a single PostRequest.
// Success means Err is nil and PostID carries the platform identifier.
type PostResult struct {
	Request PostRequest
	PostID  string
	Err     error
}

// OK reports whether the request was uploaded and scheduled.
func (r PostResult) OK() bool { return r.Err == nil }

// RunSummary accumulates per-request outcomes in processing order.
type RunSummary struct {
	Results []PostResult
}

// Add appends one outcome.
func (s *RunSummary) Add(r PostResult) {
	s.Results = append(s.Results, r)
}

func (s *RunSummary) Total() int { return len(s.Results) }

func (s *RunSummary) Succeeded() int {
	return lo.CountBy(s.Results, func(r PostResult) bool { return r.OK() })
}

func (s *RunSummary) Failed() int { return s.Total() - s.Succeeded() }

// Failures returns the failed results, preserving order.
func (s *RunSummary) Failures() []PostResult {
	return lo.Filter(s.Results, func(r PostResult, _ int) bool { return !r.OK() })
}
