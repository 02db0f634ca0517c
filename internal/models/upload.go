package models

// UploadPurpose classifies an inbound file and determines its destination
// and size policy.
type UploadPurpose string

const (
	UploadPurposeThumbnail   UploadPurpose = "thumbnail"
	UploadPurposeGallery     UploadPurpose = "gallery"
	UploadPurposeResource    UploadPurpose = "resource"
	UploadPurposeLessonVideo UploadPurpose = "lesson-video"
	UploadPurposeStudentWork UploadPurpose = "student-work-media"
)

// Valid reports whether the purpose tag is a known value.
func (p UploadPurpose) Valid() bool {
	switch p {
	case UploadPurposeThumbnail, UploadPurposeGallery, UploadPurposeResource,
		UploadPurposeLessonVideo, UploadPurposeStudentWork:
		return true
	}
	return false
}

// UploadResult describes where an upload landed and how to reach it.
type UploadResult struct {
	StoredPath string    `json:"stored_path"`
	URL        string    `json:"url"`
	MediaKind  MediaKind `json:"media_kind,omitempty"`
	Remote     bool      `json:"remote"`
}
