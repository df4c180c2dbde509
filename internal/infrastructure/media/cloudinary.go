package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/metrics"
)

// Config holds the credentials for the hosted media service
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

// CloudinaryStore uploads product images to Cloudinary. All calls go
// through a circuit breaker so a slow or failing media service cannot
// stall product mutations for long.
type CloudinaryStore struct {
	config     Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// NewCloudinaryStore creates a media store for the configured account
func NewCloudinaryStore(config Config, logger *logging.Logger, m *metrics.Metrics) *CloudinaryStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "media-store",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &CloudinaryStore{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    breaker,
		logger:     logger.WithComponent("media-store"),
		metrics:    m,
	}
}

// Store uploads an image and returns its public URL and external ID
func (s *CloudinaryStore) Store(ctx context.Context, data []byte, filename string) (*domain.MediaAsset, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := s.sign("timestamp=" + timestamp)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	_ = writer.WriteField("api_key", s.config.APIKey)
	_ = writer.WriteField("timestamp", timestamp)
	_ = writer.WriteField("signature", signature)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.config.BaseURL, s.config.CloudName)

	result, err := s.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, fmt.Errorf("media store returned status %d: %s", resp.StatusCode, payload)
		}

		var upload uploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
			return nil, fmt.Errorf("failed to decode upload response: %w", err)
		}
		return &upload, nil
	})

	s.record("upload", err)

	if err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}

	upload := result.(*uploadResponse)
	return &domain.MediaAsset{
		URL:        upload.SecureURL,
		ExternalID: upload.PublicID,
	}, nil
}

// Delete removes a previously uploaded image. A missing asset is not
// an error; the external service reports it as "not found" with a 200.
func (s *CloudinaryStore) Delete(ctx context.Context, externalID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := s.sign("public_id=" + externalID + "&timestamp=" + timestamp)

	form := url.Values{}
	form.Set("public_id", externalID)
	form.Set("api_key", s.config.APIKey)
	form.Set("timestamp", timestamp)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", s.config.BaseURL, s.config.CloudName)

	_, err := s.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, fmt.Errorf("media store returned status %d: %s", resp.StatusCode, payload)
		}
		return nil, nil
	})

	s.record("delete", err)

	if err != nil {
		return fmt.Errorf("media delete failed: %w", err)
	}
	return nil
}

func (s *CloudinaryStore) sign(params string) string {
	digest := sha1.Sum([]byte(params + s.config.APISecret))
	return hex.EncodeToString(digest[:])
}

func (s *CloudinaryStore) record(operation string, err error) {
	if err != nil {
		s.logger.Warn("media store request failed",
			"operation", operation,
			"error", err.Error(),
		)
	}
	if s.metrics != nil {
		s.metrics.RecordMediaStoreRequest(operation, err == nil)
	}
}
