package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	"github.com/uzacademy/course-platform-api/internal/service"
)

type stubLocalStore struct {
	saved int
}

func (s *stubLocalStore) SaveStream(folder, filename string, r io.Reader) (string, error) {
	s.saved++
	return folder + "/" + filename, nil
}

func (s *stubLocalStore) PublicURL(rel string) string {
	return "http://localhost:8080/uploads/" + rel
}

type stubVideoStore struct {
	stored int
}

func (s *stubVideoStore) Configured() bool { return true }

func (s *stubVideoStore) Store(_ context.Context, folder, filename string, _ io.Reader, _ int64) (string, error) {
	s.stored++
	return "https://videos.example.com/" + folder + "/" + filename, nil
}

type stubUploadRecorder struct {
	outcomes []string
}

func (s *stubUploadRecorder) RecordUpload(_ models.UploadPurpose, outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

func multipartBody(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func newUploadTestContext(t *testing.T, purpose, filename, contentType string, payload []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, formContentType := multipartBody(t, filename, contentType, payload)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/uploads/"+purpose, body)
	c.Request.Header.Set("Content-Type", formContentType)
	c.Params = gin.Params{{Key: "purpose", Value: purpose}}
	return c, w
}

func TestUploadHandlerStoresImage(t *testing.T) {
	local := &stubLocalStore{}
	recorder := &stubUploadRecorder{}
	svc := service.NewUploadService(local, &stubVideoStore{}, 0, 0, zap.NewNop())
	h := NewUploadHandler(svc, recorder)

	c, w := newUploadTestContext(t, "thumbnail", "cover.png", "image/png", []byte("png-bytes"))
	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, local.saved)
	assert.Equal(t, []string{"stored"}, recorder.outcomes)
}

func TestUploadHandlerRoutesVideoRemotely(t *testing.T) {
	local := &stubLocalStore{}
	videos := &stubVideoStore{}
	svc := service.NewUploadService(local, videos, 0, 0, zap.NewNop())
	h := NewUploadHandler(svc, nil)

	c, w := newUploadTestContext(t, "lesson-video", "intro.mp4", "video/mp4", []byte("mp4-bytes"))
	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Zero(t, local.saved)
	assert.Equal(t, 1, videos.stored)
}

func TestUploadHandlerRejectsUnsupportedMedia(t *testing.T) {
	recorder := &stubUploadRecorder{}
	svc := service.NewUploadService(&stubLocalStore{}, &stubVideoStore{}, 0, 0, zap.NewNop())
	h := NewUploadHandler(svc, recorder)

	c, w := newUploadTestContext(t, "gallery", "report.pdf", "application/pdf", []byte("%PDF"))
	h.Upload(c)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, []string{"rejected"}, recorder.outcomes)
}

func TestUploadHandlerRejectsOversizedFile(t *testing.T) {
	local := &stubLocalStore{}
	svc := service.NewUploadService(local, &stubVideoStore{}, 4, 4, zap.NewNop())
	h := NewUploadHandler(svc, nil)

	c, w := newUploadTestContext(t, "gallery", "big.png", "image/png", []byte("way-too-large"))
	h.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, local.saved)
}

func TestUploadHandlerUnknownPurpose(t *testing.T) {
	svc := service.NewUploadService(&stubLocalStore{}, &stubVideoStore{}, 0, 0, zap.NewNop())
	h := NewUploadHandler(svc, nil)

	c, w := newUploadTestContext(t, "avatar", "a.png", "image/png", []byte("x"))
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandlerMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/uploads/thumbnail", nil)
	c.Params = gin.Params{{Key: "purpose", Value: "thumbnail"}}

	svc := service.NewUploadService(&stubLocalStore{}, &stubVideoStore{}, 0, 0, zap.NewNop())
	h := NewUploadHandler(svc, nil)
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
