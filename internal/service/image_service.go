package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dom/haikyu-team-builder/internal/config"
)

const (
	imageListLimit    = 100
	folderPlaceholder = ".emptyFolderPlaceholder"
)

// StoredImage is a character picture on the image host.
type StoredImage struct {
	Name      string `json:"name"`
	PublicURL string `json:"publicUrl"`
}

// ImageService lists character pictures from the storage bucket of the image
// host.
type ImageService struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewImageService(cfg *config.Config) *ImageService {
	return &ImageService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type storageListRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	SortBy struct {
		Column string `json:"column"`
		Order  string `json:"order"`
	} `json:"sortBy"`
}

type storageObject struct {
	Name string `json:"name"`
}

// ListImages returns up to 100 images of the configured folder, sorted by name.
func (s *ImageService) ListImages(ctx context.Context) ([]StoredImage, error) {
	if s.cfg.ImageHostURL == "" {
		return nil, fmt.Errorf("image host is not configured")
	}

	reqBody := storageListRequest{Prefix: s.cfg.ImageFolder, Limit: imageListLimit}
	reqBody.SortBy.Column = "name"
	reqBody.SortBy.Order = "asc"
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	listURL := fmt.Sprintf("%s/storage/v1/object/list/%s", s.baseURL(), url.PathEscape(s.cfg.ImageBucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, listURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.ImageHostKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.ImageHostKey)
		req.Header.Set("apikey", s.cfg.ImageHostKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("failed to list images: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var objects []storageObject
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode image list: %w", err)
	}

	images := make([]StoredImage, 0, len(objects))
	for _, o := range objects {
		if o.Name == "" || o.Name == folderPlaceholder {
			continue
		}
		images = append(images, StoredImage{Name: o.Name, PublicURL: s.PublicURL(o.Name)})
	}
	return images, nil
}

// PublicURL is the address a stored image is served from.
func (s *ImageService) PublicURL(name string) string {
	path := name
	if s.cfg.ImageFolder != "" {
		path = strings.Trim(s.cfg.ImageFolder, "/") + "/" + name
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL(), url.PathEscape(s.cfg.ImageBucket), path)
}

func (s *ImageService) baseURL() string {
	return strings.TrimRight(s.cfg.ImageHostURL, "/")
}
