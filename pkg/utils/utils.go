package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrInvalidBase64Image = errors.New("invalid base64 image data")
	ErrImageTooLarge      = errors.New("image exceeds size limit")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeBase64Image(data string) ([]byte, error)
	ImageDimensions(data []byte) (int, int, error)
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return NewWithMaxFileSize(10 * 1024 * 1024)
}

func NewWithMaxFileSize(maxFileSize int64) IUtils {
	return &utils{
		maxFileSize: maxFileSize,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeBase64Image accepts raw base64 or a data URL ("data:image/png;base64,....").
func (u *utils) DecodeBase64Image(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 {
		data = data[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64Image, err)
	}
	if len(decoded) == 0 {
		return nil, ErrInvalidBase64Image
	}
	if int64(len(decoded)) > u.maxFileSize {
		return nil, ErrImageTooLarge
	}

	return decoded, nil
}

// ImageDimensions reads only the image header.
func (u *utils) ImageDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
