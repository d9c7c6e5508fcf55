package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the image API client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client is a thin facade over an OpenAI-compatible image API. It covers the
// two endpoints this product uses: prompt-only generation and mask edits.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// GenerateRequest describes a prompt-only generation call.
type GenerateRequest struct {
	Prompt string
	Size   string
}

// EditRequest describes a mask-edit call. Image and Mask are raw PNG bytes;
// the mask's transparent pixels mark the region to regenerate.
type EditRequest struct {
	Prompt string
	Size   string
	Image  []byte
	Mask   []byte
}

// Image is the normalized provider output: either a remote URL or inline
// bytes, never both empty.
type Image struct {
	URL  string
	Data []byte
	MIME string
}

type generatePayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

type imagesResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults. Callers may provide a nil
// HTTP client; a reusable one with a generation-sized timeout is created.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://ai.sumopod.com/v1"
	}

	model := opts.Model
	if model == "" {
		model = "gpt-image-1"
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate performs one generation call. Exactly one image is requested and
// no retry is attempted; a failed call surfaces the provider's own message.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Image, error) {
	payload := generatePayload{
		Model:  c.model,
		Prompt: req.Prompt,
		N:      1,
		Size:   req.Size,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var response imagesResponse
	if err := c.invoke(ctx, "/images/generations", "application/json", bytes.NewReader(body), &response); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("model", c.model).Msg("openai: generation call completed")
	return firstImage(response)
}

// Edit performs one mask-edit call using multipart form encoding.
func (c *Client) Edit(ctx context.Context, req EditRequest) (*Image, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("prompt", req.Prompt); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("n", "1"); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if req.Size != "" {
		if err := form.WriteField("size", req.Size); err != nil {
			return nil, fmt.Errorf("build form: %w", err)
		}
	}
	if err := writeFormFile(form, "image", "image.png", req.Image); err != nil {
		return nil, err
	}
	if err := writeFormFile(form, "mask", "mask.png", req.Mask); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	var response imagesResponse
	if err := c.invoke(ctx, "/images/edits", form.FormDataContentType(), &buf, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("model", c.model).Msg("openai: edit call completed")
	return firstImage(response)
}

func (c *Client) invoke(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke image api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("image api status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("image api status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("image api status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode image api response: %w", err)
	}
	return nil
}

func firstImage(response imagesResponse) (*Image, error) {
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("no image returned")
	}
	item := response.Data[0]
	if item.URL != "" {
		return &Image{URL: item.URL}, nil
	}
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode inline image: %w", err)
		}
		return &Image{Data: data, MIME: "image/png"}, nil
	}
	return nil, fmt.Errorf("no image returned")
}

func writeFormFile(form *multipart.Writer, field, filename string, data []byte) error {
	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	return nil
}
