package ocr

import "context"

// Recognizer defines the interface for text recognition backends. Recognition
// is best-effort: an empty string with a nil error means the image carried no
// readable text.
type Recognizer interface {
	// RecognizeText transcribes all text found in the image
	RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the recognizer and releases resources
	Close() error
}
