package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"seedlink-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageClient defines what we need from Supabase storage.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error)
}

// HTTPClient is a StorageClient backed by the Supabase HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"` // relative path returned by upload/sign API
	Path           string `json:"path"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("supabase: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("supabase: SUPABASE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    false,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	// Supabase storage expects both apikey and Authorization Bearer (same key)
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := string(respBody)
		if resp.StatusCode == 400 || resp.StatusCode == 403 {
			if strings.Contains(bodyStr, "Invalid Compact JWS") || strings.Contains(bodyStr, "Unauthorized") {
				return "", fmt.Errorf("supabase storage requires the service_role key (secret), not the anon key: set SUPABASE_SECRET_KEY to your project's service_role key (raw body: %s)", bodyStr)
			}
		}
		return "", fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, bodyStr)
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("supabase response decode: %w", err)
	}
	// API can return signedUrl, signed_url, or url (relative)
	if data.SignedURL != "" {
		return data.SignedURL, nil
	}
	if data.SignedURLSnake != "" {
		return data.SignedURLSnake, nil
	}
	if data.URL != "" {
		u := data.URL
		if len(u) > 0 && u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("supabase returned no signed URL, body: %s", string(respBody))
}

// Storage buckets.
const (
	BucketStartupDocs   = "startup-docs"
	BucketProfileImages = "profile-images"
)

// Service encapsulates document metadata and upload-URL generation.
type Service struct {
	DB          *gorm.DB
	Client      StorageClient
	SupabaseURL string
}

// UploadResult is the signed-URL response shape.
type UploadResult struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// GetSignedUploadURL generates a signed upload URL for a bucket.
func (s *Service) GetSignedUploadURL(ctx context.Context, bucket, fileName string) (*UploadResult, error) {
	path := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)

	signedURL, err := s.Client.CreateSignedUploadURL(ctx, bucket, path)
	if err != nil {
		return nil, err
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", strings.TrimRight(s.SupabaseURL, "/"), bucket, path)
	return &UploadResult{
		UploadURL: signedURL,
		PublicURL: publicURL,
		Path:      path,
	}, nil
}

// CreateDocumentInput records metadata after the client finished the
// signed upload.
type CreateDocumentInput struct {
	Name        string `json:"name"`
	FileType    string `json:"file_type"`
	StoragePath string `json:"storage_path"`
	SizeBytes   int64  `json:"size_bytes"`
}

// CreateDocument records a document row against the caller's startup.
func (s *Service) CreateDocument(ctx context.Context, ownerID uuid.UUID, in CreateDocumentInput) (*domain.Document, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Document name is required")
	}
	if strings.TrimSpace(in.StoragePath) == "" {
		return nil, errors.New("Storage path is required")
	}
	if in.SizeBytes < 0 {
		return nil, errors.New("Invalid document size")
	}

	var startup domain.Startup
	if err := s.DB.WithContext(ctx).Where("user_id = ?", ownerID).First(&startup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Startup not found")
		}
		return nil, err
	}

	doc := &domain.Document{
		StartupID:   startup.StartupID,
		Name:        strings.TrimSpace(in.Name),
		FileType:    in.FileType,
		StoragePath: in.StoragePath,
		SizeBytes:   in.SizeBytes,
	}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// ListForStartup returns a startup's documents, newest first.
func (s *Service) ListForStartup(ctx context.Context, startupID uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	if err := s.DB.WithContext(ctx).Where("startup_id = ?", startupID).
		Order(`"createdAt" DESC`).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
