package processor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/kotoba/internal"
)

// ErrNotImageDataURL is returned for values that are not base64 image
// data URLs
var ErrNotImageDataURL = errors.New("not a base64 image data URL")

var imageExtensions = map[string]string{
	"jpeg": "jpg",
	"jpg":  "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// DecodeDataURL decodes a data:image/<type>;base64,<data> URL and returns
// the image bytes and the file extension. Unknown image types map to png.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, "", ErrNotImageDataURL
	}

	header, encoded, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, "", ErrNotImageDataURL
	}

	mediaType := strings.TrimPrefix(header, "data:image/")
	format, params, _ := strings.Cut(mediaType, ";")
	if !strings.Contains(params, "base64") {
		return nil, "", ErrNotImageDataURL
	}

	ext, ok := imageExtensions[strings.ToLower(format)]
	if !ok {
		ext = "png"
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, "", fmt.Errorf("decode image data: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	return data, ext, nil
}

// SaveDataURLImage decodes a sentence image and writes it to dir as
// sentence_<hash>.<ext>. It returns the written path.
func SaveDataURLImage(dataURL, dir string) (string, error) {
	data, ext, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("sentence_%s.%s", internal.ShortHash(data), ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}
