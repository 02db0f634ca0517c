package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

type localStore interface {
	SaveStream(folder, filename string, r io.Reader) (string, error)
	PublicURL(rel string) string
}

type remoteVideoStore interface {
	Configured() bool
	Store(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error)
}

// uploadRoute describes where files for one purpose land and how large they
// may be.
type uploadRoute struct {
	folder   string
	remote   bool
	maxBytes int64
}

// UploadService decides destination, naming, and size policy for every
// inbound file and hands the stream to the matching backend.
type UploadService struct {
	local  localStore
	videos remoteVideoStore
	routes map[models.UploadPurpose]uploadRoute
	logger *zap.Logger
}

// NewUploadService constructs UploadService. maxMediaBytes caps images and
// smaller media, maxResourceBytes caps resources and lesson videos.
func NewUploadService(local localStore, videos remoteVideoStore, maxMediaBytes, maxResourceBytes int64, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxMediaBytes <= 0 {
		maxMediaBytes = 50 << 20
	}
	if maxResourceBytes <= 0 {
		maxResourceBytes = 1 << 30
	}
	return &UploadService{
		local:  local,
		videos: videos,
		routes: map[models.UploadPurpose]uploadRoute{
			models.UploadPurposeThumbnail:   {folder: "thumbnails", maxBytes: maxMediaBytes},
			models.UploadPurposeGallery:     {folder: "gallery", maxBytes: maxMediaBytes},
			models.UploadPurposeResource:    {folder: "resources", maxBytes: maxResourceBytes},
			models.UploadPurposeLessonVideo: {folder: "videos", remote: true, maxBytes: maxResourceBytes},
			models.UploadPurposeStudentWork: {folder: "student-works", maxBytes: maxMediaBytes},
		},
		logger: logger,
	}
}

// ClassifyMedia maps a declared content type to a media kind. Only the
// top-level MIME family is inspected; anything outside image/* and video/*
// is rejected rather than defaulted.
func ClassifyMedia(contentType string) (models.MediaKind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaKindImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaKindVideo, nil
	}
	return "", appErrors.Clone(appErrors.ErrUnsupportedMedia,
		fmt.Sprintf("unsupported content type %q, expected image/* or video/*", contentType))
}

// GenerateFilename produces a stored name that is unique even for
// simultaneous uploads of the same original: a millisecond timestamp, a
// random suffix, and the sanitized original name.
func GenerateFilename(original string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), sanitizeFilename(original))
}

// sanitizeFilename strips path separators and collapses whitespace so the
// original name is safe to embed in a stored path.
func sanitizeFilename(name string) string {
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte('_')
		case r == '/' || r == '\\' || r == ':':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}
	return sanitized
}

// Store validates the upload against the purpose's policy and writes it to
// the routed backend. The declared size is checked against the route ceiling
// before any byte is persisted.
func (s *UploadService) Store(ctx context.Context, purpose models.UploadPurpose, originalName, contentType string, r io.Reader, size int64) (*models.UploadResult, error) {
	route, ok := s.routes[purpose]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown upload purpose %q", purpose))
	}

	result := &models.UploadResult{Remote: route.remote}

	switch purpose {
	case models.UploadPurposeResource:
		// Resources accept any content type; no media classification.
	case models.UploadPurposeLessonVideo:
		kind, err := ClassifyMedia(contentType)
		if err != nil {
			return nil, err
		}
		if kind != models.MediaKindVideo {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "lesson uploads must be video/*")
		}
		result.MediaKind = kind
	default:
		kind, err := ClassifyMedia(contentType)
		if err != nil {
			return nil, err
		}
		if purpose == models.UploadPurposeThumbnail && kind != models.MediaKindImage {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "thumbnail uploads must be image/*")
		}
		result.MediaKind = kind
	}

	if size > route.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit for %s uploads", route.maxBytes, purpose))
	}

	filename := GenerateFilename(originalName)

	if route.remote {
		url, err := s.videos.Store(ctx, route.folder, filename, r, size)
		if err != nil {
			s.logger.Error("remote video upload failed", zap.String("purpose", string(purpose)), zap.Error(err))
			return nil, err
		}
		result.StoredPath = route.folder + "/" + filename
		result.URL = url
		return result, nil
	}

	rel, err := s.local.SaveStream(route.folder, filename, r)
	if err != nil {
		s.logger.Error("local upload failed", zap.String("purpose", string(purpose)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "failed to store upload")
	}
	result.StoredPath = rel
	result.URL = s.local.PublicURL(rel)
	return result, nil
}
