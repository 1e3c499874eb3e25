package util

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageContentType : MIME type for an uploaded board image by file extension
func ImageContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ImageExtension : file extension for a decoded image format name
func ImageExtension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png", "gif", "webp":
		return "." + format
	default:
		return ""
	}
}

// DecodeImageConfig : native dimensions and format of an encoded image.
// Only the header is read, images claiming more than maxPixels are rejected before anything is allocated.
func DecodeImageConfig(data []byte, maxPixels int64) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("unsupported image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, "", fmt.Errorf("image has no pixels")
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return 0, 0, "", fmt.Errorf("image is %dx%d, more than %d pixels", cfg.Width, cfg.Height, maxPixels)
	}
	return cfg.Width, cfg.Height, format, nil
}
