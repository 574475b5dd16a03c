package form

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/username/booking-form/pkg/dateutil"
)

const (
	defaultSubmitTimeout = 30 * time.Second
	requestIDHeader      = "X-Request-Id"
)

// SubmitError is returned when the form endpoint answers with a non-2xx status
type SubmitError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("form submission failed with HTTP %d (request %s): %s", e.StatusCode, e.RequestID, e.Body)
}

// Receipt describes an accepted submission
type Receipt struct {
	RequestID  string
	StatusCode int
	Body       string
}

// Submitter posts applications as multipart forms
type Submitter struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	newID      func() string
}

// NewSubmitter creates a submitter for the given endpoint
func NewSubmitter(url string, timeout time.Duration, logger *zap.Logger) *Submitter {
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}

	return &Submitter{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Submit sends app in one request. The application is expected to be validated.
func (s *Submitter) Submit(ctx context.Context, app Application) (*Receipt, error) {
	if s.url == "" {
		return nil, fmt.Errorf("form.submit_url is not configured")
	}

	body, contentType, err := encode(app)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := s.newID()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(requestIDHeader, requestID)

	s.logger.Info("Submitting application",
		zap.String("request_id", requestID),
		zap.String("date", dateutil.ISODate(app.Date)),
		zap.String("time", app.Time))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("Application rejected",
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return nil, &SubmitError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			RequestID:  requestID,
		}
	}

	s.logger.Info("Application submitted",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	return &Receipt{
		RequestID:  requestID,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}

func encode(app Application) (io.Reader, string, error) {
	path := app.Photo()
	if path == "" {
		return nil, "", fmt.Errorf("exactly one file must be attached, got %d", len(app.Files))
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{FieldFirstName, app.FirstName},
		{FieldLastName, app.LastName},
		{FieldEmail, app.Email},
		{FieldAge, strconv.Itoa(app.Age)},
		{FieldDate, dateutil.ISODate(app.Date)},
		{FieldTime, app.Time},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer file.Close()

	part, err := w.CreateFormFile(FieldPhoto, filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy attachment: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
