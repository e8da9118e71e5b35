package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"remarkly/internal/errors"
)

// newFileHeader builds a real multipart.FileHeader the way echo hands them
// to handlers, so SaveImage can open the part.
func newFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="profileImage"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("part.Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, fh, err := req.FormFile("profileImage")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return fh
}

func TestStore_SaveAndRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	fh := newFileHeader(t, "avatar.png", "image/png", []byte("png-bytes"))

	path, err := store.SaveImage(fh)
	assert.NoError(t, err)

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)

	assert.NoError(t, store.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// removing again must not fail
	assert.NoError(t, store.Remove(path))
}

func TestStore_RejectsOversizedFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	fh := &multipart.FileHeader{
		Filename: "huge.png",
		Size:     MaxImageSize + 1,
		Header:   textproto.MIMEHeader{"Content-Type": {"image/png"}},
	}

	_, err = store.SaveImage(fh)
	assert.ErrorIs(t, err, errors.ErrImageTooLarge)
}

func TestStore_RejectsNonImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	fh := newFileHeader(t, "notes.txt", "text/plain", []byte("plain text"))

	_, err = store.SaveImage(fh)
	assert.ErrorIs(t, err, errors.ErrNotAnImage)
}
