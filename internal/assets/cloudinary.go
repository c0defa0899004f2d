// Package assets sube imágenes de producto al servicio externo de imágenes.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("image upload is not configured")

// Uploader guarda una imagen y devuelve su URL pública
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Cloudinary sube imágenes sin firmar usando un upload preset
type Cloudinary struct {
	cloudName string
	preset    string
	endpoint  string
	http      *http.Client
}

type Option func(*Cloudinary)

// WithEndpoint reemplaza la URL de subida (útil en pruebas)
func WithEndpoint(url string) Option {
	return func(c *Cloudinary) { c.endpoint = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Cloudinary) { c.http = hc }
}

func NewCloudinary(cloudName, preset string, opts ...Option) *Cloudinary {
	c := &Cloudinary{
		cloudName: cloudName,
		preset:    preset,
		endpoint:  fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName),
		http:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload envía el archivo como multipart y devuelve secure_url
func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.cloudName == "" || c.preset == "" {
		return "", ErrNotConfigured
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := w.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := w.WriteField("cloud_name", c.cloudName); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("upload image: HTTP %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("upload image: HTTP %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("upload image: decode response: %w", decodeErr)
	}
	if out.SecureURL == "" {
		return "", errors.New("upload image: response without secure_url")
	}
	return out.SecureURL, nil
}
