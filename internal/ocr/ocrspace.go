package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// requestTimeout bounds the OCR call; the request is aborted once it
// elapses and the failure surfaces as ErrUnavailable.
const requestTimeout = 20 * time.Second

// OCRSpace implements the Recognizer interface against the OCR.space
// web API.
type OCRSpace struct {
	endpoint string
	apiKey   string
	engine   int
	client   *http.Client
}

// NewOCRSpace creates a new OCR.space Recognizer. The engine selects
// the service's OCR engine; zero lets the service pick its default.
func NewOCRSpace(endpoint, apiKey string, engine int) (*OCRSpace, error) {
	if endpoint == "" {
		endpoint = "https://api.ocr.space/parse/image"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ocr.space api key is required")
	}

	return &OCRSpace{
		endpoint: endpoint,
		apiKey:   apiKey,
		engine:   engine,
		client:   &http.Client{Timeout: requestTimeout},
	}, nil
}

// ocrSpaceResponse is the subset of the service response we consume.
type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ErrorMessage          any  `json:"ErrorMessage"`
}

// Recognize submits the image as base64 form data with fixed
// recognition parameters and returns the first parsed text result.
func (o *OCRSpace) Recognize(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if contentType == "" {
		contentType = "image/jpeg"
	}

	form := url.Values{}
	form.Set("base64Image", fmt.Sprintf("data:%s;base64,%s",
		contentType, base64.StdEncoding.EncodeToString(imageData)))
	form.Set("language", "eng")
	form.Set("isTable", "true")
	form.Set("scale", "true")
	if o.engine > 0 {
		form.Set("OCREngine", strconv.Itoa(o.engine))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, parsed.ErrorMessage)
	}

	if len(parsed.ParsedResults) == 0 {
		return "", ErrNoText
	}
	text := strings.TrimSpace(parsed.ParsedResults[0].ParsedText)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Close closes the recognizer (no-op for the HTTP client).
func (o *OCRSpace) Close() error {
	return nil
}
