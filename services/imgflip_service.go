package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExternalTemplate is one record from the external template catalog.
type ExternalTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	BoxCount int    `json:"box_count"`
}

type imgflipEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Memes []ExternalTemplate `json:"memes"`
	} `json:"data"`
}

// ImgflipService fetches the public meme template catalog. It is consumed
// once per seeding event; non-2xx responses and timeouts surface as errors.
type ImgflipService struct {
	baseURL    string
	httpClient *http.Client
}

func NewImgflipService(baseURL string, timeout time.Duration) *ImgflipService {
	return &ImgflipService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchTemplates returns the catalog's template list.
func (s *ImgflipService) FetchTemplates(ctx context.Context) ([]ExternalTemplate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get_memes", nil)
	if err != nil {
		return nil, fmt.Errorf("build template request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch templates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("template API returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope imgflipEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode template response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("template API reported failure")
	}

	return envelope.Data.Memes, nil
}
