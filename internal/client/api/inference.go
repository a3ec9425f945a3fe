// Package api implements the HTTP clients for the two opaque remote
// services: the image inference endpoint and the chat completion endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"dermascan/internal/logging"
)

// imageField is the multipart field name the inference endpoint expects.
const imageField = "images"

// AnalysisResult is the outcome of one inference call. Confidence is nil when
// the endpoint returned bare labels.
type AnalysisResult struct {
	Disease    string
	Confidence *float64
}

// InferenceClient submits images to the remote prediction endpoint.
type InferenceClient struct {
	url  string
	http *http.Client
	log  logging.Logger
}

// NewInferenceClient builds a client with the given request timeout. The
// timeout covers the whole call, body included.
func NewInferenceClient(url string, timeout time.Duration, log logging.Logger) *InferenceClient {
	return &InferenceClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// predictionResponse covers both response shapes the endpoint has been seen
// to produce: a disease/confidence pair, or an array of label strings.
type predictionResponse struct {
	Disease     string   `json:"disease"`
	Confidence  *float64 `json:"confidence"`
	Predictions []string `json:"predictions"`
}

// Analyze uploads the image at imagePath and returns the predicted condition.
// Failures map to the package taxonomy: ErrTimeout, ErrUnreachable, or
// ErrAnalysisFailed for anything the server answered with that is not a
// usable prediction.
func (c *InferenceClient) Analyze(ctx context.Context, imagePath string) (AnalysisResult, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, filepath.Base(imagePath)))
	header.Set("Content-Type", "image/jpeg")

	part, err := mw.CreatePart(header)
	if err != nil {
		return AnalysisResult{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return AnalysisResult{}, c.mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "inference endpoint returned error status", "status", resp.StatusCode)
		return AnalysisResult{}, fmt.Errorf("%w: status %d", ErrAnalysisFailed, resp.StatusCode)
	}

	var pr predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: malformed response", ErrAnalysisFailed)
	}

	switch {
	case pr.Disease != "":
		return AnalysisResult{Disease: pr.Disease, Confidence: pr.Confidence}, nil
	case len(pr.Predictions) > 0:
		return AnalysisResult{Disease: pr.Predictions[0]}, nil
	default:
		return AnalysisResult{}, fmt.Errorf("%w: no condition detected", ErrAnalysisFailed)
	}
}

// mapTransportError sorts a failed round trip into timed-out vs unreachable.
func (c *InferenceClient) mapTransportError(ctx context.Context, err error) error {
	if isTimeout(err) {
		c.log.Warn(ctx, "inference request timed out")
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	c.log.Warn(ctx, "inference endpoint unreachable", "error", err)
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
