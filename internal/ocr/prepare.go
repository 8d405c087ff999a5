package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	// maxWidth bounds the prepared image; anything wider is scaled
	// down preserving aspect ratio before transmission.
	maxWidth = 1200

	// jpegQuality is the re-encode quality for the prepared image.
	jpegQuality = 80
)

// Prepare turns an uploaded document (photo, scan or PDF) into a
// bounded, compressed JPEG ready for the OCR service. PDFs are
// rendered from their first page, HEIC photos are decoded with a pure
// Go decoder, everything else goes through the standard image
// decoders. The result is always image/jpeg.
func Prepare(data []byte, contentType string) ([]byte, string, error) {
	img, err := decode(data, contentType)
	if err != nil {
		return nil, "", err
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	img = enhance(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("encoding prepared image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func decode(data []byte, contentType string) (image.Image, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))

	if mimeType == "application/pdf" {
		return pdfPage(data)
	}

	if isHEIC(data) || strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif") {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding HEIC: %v", ErrBadImage, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return img, nil
}

// pdfPage renders the first page; scanned business documents are
// single page in practice.
func pdfPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrBadImage, err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering PDF page: %v", ErrBadImage, err)
	}
	return img, nil
}

// enhance applies a grayscale/contrast/sharpen pass that makes printed
// text easier for the OCR engine to read.
func enhance(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 20)
	return imaging.Sharpen(out, 1.0)
}

// isHEIC checks for the ftyp box brands iPhones write.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}
