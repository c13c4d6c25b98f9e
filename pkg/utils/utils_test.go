package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDecodeBase64Image_DataURL(t *testing.T) {
	u := New()
	raw := encodePNG(t, 4, 6)

	got, err := u.DecodeBase64Image("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = u.DecodeBase64Image(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestDecodeBase64Image_Invalid(t *testing.T) {
	u := New()

	_, err := u.DecodeBase64Image("invalid_base64_data!!")
	require.ErrorIs(t, err, ErrInvalidBase64Image)

	_, err = u.DecodeBase64Image("")
	require.ErrorIs(t, err, ErrInvalidBase64Image)
}

func TestImageDimensions(t *testing.T) {
	u := New()

	w, h, err := u.ImageDimensions(encodePNG(t, 400, 600))
	require.NoError(t, err)
	require.Equal(t, 400, w)
	require.Equal(t, 600, h)

	_, _, err = u.ImageDimensions([]byte("not an image"))
	require.Error(t, err)
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	id, err := u.NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	require.Len(t, id, 26)
}

func TestDecodeBase64Image_SizeLimit(t *testing.T) {
	u := NewWithMaxFileSize(8)

	_, err := u.DecodeBase64Image(base64.StdEncoding.EncodeToString([]byte("0123456789")))
	require.ErrorIs(t, err, ErrImageTooLarge)

	got, err := u.DecodeBase64Image(base64.StdEncoding.EncodeToString([]byte("01234567")))
	require.NoError(t, err)
	require.Len(t, got, 8)
}
