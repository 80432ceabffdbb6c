package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AssetRef identifies a stored asset: a stable URL plus the handle used to
// delete it later.
type AssetRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// AssetHost is the narrow contract the services need from the external image
// store. Image bytes are never inspected here.
type AssetHost interface {
	Upload(ctx context.Context, image, folder string) (*AssetRef, error)
	Delete(ctx context.Context, publicID string) error
}

// AssetService talks to the external asset host over HTTP.
type AssetService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewAssetService(baseURL, apiKey string) *AssetService {
	return &AssetService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type assetUploadRequest struct {
	Image  string `json:"image"`
	Folder string `json:"folder"`
}

// Upload sends a base64-encoded image with a folder hint and returns the
// hosted URL and deletion handle.
func (s *AssetService) Upload(ctx context.Context, image, folder string) (*AssetRef, error) {
	payload, err := json.Marshal(assetUploadRequest{Image: image, Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("asset host returned status %d: %s", resp.StatusCode, string(body))
	}

	var ref AssetRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &ref, nil
}

// Delete removes a previously uploaded asset by its handle.
func (s *AssetService) Delete(ctx context.Context, publicID string) error {
	endpoint := s.baseURL + "/assets/" + url.PathEscape(publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("asset host returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
