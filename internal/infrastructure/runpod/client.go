// Package runpod talks to the external GPU worker that renders the highlight
// video and generates the commentary script.
package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"video-orchestrator/internal/domain/repositories"
	pkgerrors "video-orchestrator/pkg/errors"
)

const (
	submitTimeout = 30 * time.Second
	statusTimeout = 15 * time.Second
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	http    httpDoer
}

func NewClient(baseURL string, doer httpDoer) *Client {
	return &Client{baseURL: baseURL, http: doer}
}

// MapAnalyst translates a platform commentator code into the worker's analyst
// enumeration. Unmapped codes intentionally fall back to worker analyst 1.
func MapAnalyst(dbCode int) int {
	switch dbCode {
	case 17:
		return 3
	case 18:
		return 2
	case 19:
		return 1
	default:
		return 1
	}
}

type submitRequest struct {
	S3VideoURL    string `json:"s3_video_url"`
	S3UploadURL   string `json:"s3_upload_url"`
	S3ScriptURL   string `json:"s3_script_url"`
	AnalystSelect int    `json:"analyst_select"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// SubmitJob dispatches one processing job. A non-2xx response or a missing
// job_id is a hard failure; there is no job to poll afterwards.
func (c *Client) SubmitJob(ctx context.Context, downloadURL, uploadURL, scriptUploadURL string, analystID int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	body, err := json.Marshal(submitRequest{
		S3VideoURL:    downloadURL,
		S3UploadURL:   uploadURL,
		S3ScriptURL:   scriptUploadURL,
		AnalystSelect: analystID,
	})
	if err != nil {
		return "", pkgerrors.ErrSubmission(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process_video", bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.ErrSubmission(err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("Submitting RunPod job (analyst: %d)", analystID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.ErrSubmission(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", pkgerrors.ErrSubmission(fmt.Errorf("worker rejected submission: status %d", resp.StatusCode))
	}

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", pkgerrors.ErrSubmission(err)
	}
	if result.JobID == "" {
		return "", pkgerrors.ErrSubmission(fmt.Errorf("worker response has no job_id"))
	}

	log.Printf("RunPod job submitted (job id: %s)", result.JobID)
	return result.JobID, nil
}

// JobStatus fetches the current snapshot for a job. Errors here are expected
// to be transient; the caller decides whether to keep polling.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*repositories.StatusSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var snapshot repositories.StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
