package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRSpace implements the Recognizer interface using the OCR.space parse API.
type OCRSpace struct {
	apiKey   string
	language string
	url      string
	client   *http.Client
}

const ocrSpaceURL = "https://api.ocr.space/parse/image"

// NewOCRSpace creates a new OCRSpace Recognizer. language is the OCR.space
// language code, e.g. "tha" for Thai.
func NewOCRSpace(apiKey, language string) (*OCRSpace, error) {
	return NewOCRSpaceWithURL(apiKey, language, ocrSpaceURL)
}

// NewOCRSpaceWithURL creates an OCRSpace Recognizer against a custom endpoint for testing
func NewOCRSpaceWithURL(apiKey, language, url string) (*OCRSpace, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ocr.space api key is required")
	}
	if language == "" {
		language = "tha"
	}

	return &OCRSpace{
		apiKey:   apiKey,
		language: language,
		url:      url,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ErrorMessage          any  `json:"ErrorMessage"`
}

// RecognizeText sends the image to OCR.space and returns the parsed text.
func (o *OCRSpace) RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	finalImageData, _, err := PrepareImage(imageData, contentType)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"apikey":    o.apiKey,
		"language":  o.language,
		"OCREngine": "2",
		"scale":     "true",
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return "", fmt.Errorf("writing form field %s: %w", name, err)
		}
	}

	part, err := form.CreateFormFile("file", "image.png")
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(finalImageData); err != nil {
		return "", fmt.Errorf("writing image data: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url, &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ocr.space API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocr.space API error (status %d): %s", resp.StatusCode, string(b))
	}

	var parsed ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr.space processing error: %v", parsed.ErrorMessage)
	}
	if len(parsed.ParsedResults) == 0 {
		return "", nil
	}
	return parsed.ParsedResults[0].ParsedText, nil
}

// Close closes the OCRSpace client (no-op for HTTP client)
func (o *OCRSpace) Close() error {
	return nil
}
