package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const MaxAvatarSize = 5 << 20

var (
	ErrAvatarTooLarge = errors.New("image must be smaller than 5MB")
	ErrNotAnImage     = errors.New("please select an image file")
)

// EncodeAvatar reads an image file and returns it as a data URL.
func EncodeAvatar(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open avatar: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat avatar: %w", err)
	}
	if info.Size() > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(f, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(raw) > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}

	contentType := http.DetectContentType(raw)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
