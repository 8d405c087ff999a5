package ocr

import "errors"

var (
	// ErrNoText means the service answered but recognized nothing.
	ErrNoText = errors.New("no text recognized")

	// ErrUnavailable covers transport failures, timeouts and error
	// responses from the OCR service.
	ErrUnavailable = errors.New("ocr service unavailable")

	// ErrBadImage means the uploaded bytes could not be decoded into
	// a supported image format.
	ErrBadImage = errors.New("unsupported or corrupt image")
)

// Recognizer turns a prepared document image into plain text.
type Recognizer interface {
	// Recognize submits the image and returns the recognized text.
	Recognize(imageData []byte, contentType string) (string, error)
	// Close closes the recognizer and releases resources.
	Close() error
}
