package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

type fakeLocalStore struct {
	saved    []string
	savedRel string
	err      error
}

func (f *fakeLocalStore) SaveStream(folder, filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, folder+"/"+filename)
	f.savedRel = folder + "/" + filename
	return f.savedRel, nil
}

func (f *fakeLocalStore) PublicURL(rel string) string {
	return "http://localhost:8080/uploads/" + rel
}

type fakeVideoStore struct {
	stored []string
	err    error
}

func (f *fakeVideoStore) Configured() bool { return true }

func (f *fakeVideoStore) Store(_ context.Context, folder, filename string, _ io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.stored = append(f.stored, folder+"/"+filename)
	return "https://videos.example.com/" + folder + "/" + filename, nil
}

func newTestUploadService(local *fakeLocalStore, videos *fakeVideoStore) *UploadService {
	return NewUploadService(local, videos, 50<<20, 1<<30, zap.NewNop())
}

func TestClassifyMedia(t *testing.T) {
	kind, err := ClassifyMedia("image/png")
	require.NoError(t, err)
	assert.Equal(t, models.MediaKindImage, kind)

	kind, err = ClassifyMedia("video/mp4")
	require.NoError(t, err)
	assert.Equal(t, models.MediaKindVideo, kind)

	_, err = ClassifyMedia("application/pdf")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnsupportedMedia.Code, appErr.Code)
}

func TestUploadStoreRoutesByPurpose(t *testing.T) {
	cases := []struct {
		purpose     models.UploadPurpose
		contentType string
		wantFolder  string
		wantRemote  bool
	}{
		{models.UploadPurposeThumbnail, "image/jpeg", "thumbnails", false},
		{models.UploadPurposeGallery, "video/mp4", "gallery", false},
		{models.UploadPurposeResource, "application/zip", "resources", false},
		{models.UploadPurposeStudentWork, "image/png", "student-works", false},
		{models.UploadPurposeLessonVideo, "video/mp4", "videos", true},
	}
	for _, tc := range cases {
		t.Run(string(tc.purpose), func(t *testing.T) {
			local := &fakeLocalStore{}
			videos := &fakeVideoStore{}
			svc := newTestUploadService(local, videos)

			result, err := svc.Store(context.Background(), tc.purpose, "file.bin", tc.contentType, strings.NewReader("data"), 4)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRemote, result.Remote)
			assert.True(t, strings.HasPrefix(result.StoredPath, tc.wantFolder+"/"))
			if tc.wantRemote {
				assert.Empty(t, local.saved)
				require.Len(t, videos.stored, 1)
			} else {
				assert.Empty(t, videos.stored)
				require.Len(t, local.saved, 1)
			}
		})
	}
}

func TestUploadStoreRejectsDocumentInGallery(t *testing.T) {
	local := &fakeLocalStore{}
	svc := newTestUploadService(local, &fakeVideoStore{})

	_, err := svc.Store(context.Background(), models.UploadPurposeGallery, "report.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnsupportedMedia.Code, appErr.Code)
	assert.Empty(t, local.saved)
}

func TestUploadStoreThumbnailRequiresImage(t *testing.T) {
	svc := newTestUploadService(&fakeLocalStore{}, &fakeVideoStore{})

	_, err := svc.Store(context.Background(), models.UploadPurposeThumbnail, "clip.mp4", "video/mp4", strings.NewReader("data"), 4)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnsupportedMedia.Code, appErr.Code)
}

func TestUploadStoreLessonVideoRequiresVideo(t *testing.T) {
	videos := &fakeVideoStore{}
	svc := newTestUploadService(&fakeLocalStore{}, videos)

	_, err := svc.Store(context.Background(), models.UploadPurposeLessonVideo, "poster.png", "image/png", strings.NewReader("data"), 4)
	require.Error(t, err)
	assert.Empty(t, videos.stored)
}

func TestUploadStoreSizeCheckedBeforePersist(t *testing.T) {
	local := &fakeLocalStore{}
	svc := NewUploadService(local, &fakeVideoStore{}, 10, 20, zap.NewNop())

	_, err := svc.Store(context.Background(), models.UploadPurposeGallery, "big.png", "image/png", strings.NewReader("0123456789ABCDEF"), 16)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPayloadTooLarge.Code, appErr.Code)
	assert.Empty(t, local.saved)
}

func TestUploadStoreResourceSkipsClassification(t *testing.T) {
	local := &fakeLocalStore{}
	svc := newTestUploadService(local, &fakeVideoStore{})

	result, err := svc.Store(context.Background(), models.UploadPurposeResource, "notes.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)
	assert.Empty(t, result.MediaKind)
	require.Len(t, local.saved, 1)
}

func TestUploadStoreUnknownPurpose(t *testing.T) {
	svc := newTestUploadService(&fakeLocalStore{}, &fakeVideoStore{})

	_, err := svc.Store(context.Background(), models.UploadPurpose("avatar"), "a.png", "image/png", strings.NewReader("x"), 1)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUploadStoreRemoteFailurePropagates(t *testing.T) {
	storeErr := appErrors.Clone(appErrors.ErrStorageUnavailable, "video storage unreachable")
	videos := &fakeVideoStore{err: storeErr}
	svc := newTestUploadService(&fakeLocalStore{}, videos)

	_, err := svc.Store(context.Background(), models.UploadPurposeLessonVideo, "clip.mp4", "video/mp4", strings.NewReader("data"), 4)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrStorageUnavailable.Code, appErr.Code)
}

func TestGenerateFilenameUnique(t *testing.T) {
	a := GenerateFilename("intro.mp4")
	b := GenerateFilename("intro.mp4")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "-intro.mp4"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_video.mp4", sanitizeFilename("my video.mp4"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file", sanitizeFilename(""))
	assert.Equal(t, "file", sanitizeFilename(".."))
}
