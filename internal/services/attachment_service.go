package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// attachmentType maps an accepted file extension to its MIME type and the
// message kind it produces
type attachmentType struct {
	mime string
	kind MessageKind
}

var acceptedAttachments = map[string]attachmentType{
	".jpg":  {"image/jpeg", MessageKindImage},
	".jpeg": {"image/jpeg", MessageKindImage},
	".png":  {"image/png", MessageKindImage},
	".gif":  {"image/gif", MessageKindImage},
	".webp": {"image/webp", MessageKindImage},
	".mp4":  {"video/mp4", MessageKindFile},
	".mov":  {"video/quicktime", MessageKindFile},
	".pdf":  {"application/pdf", MessageKindFile},
	".doc":  {"application/msword", MessageKindFile},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", MessageKindFile},
	".txt":  {"text/plain", MessageKindFile},
}

// AttachmentServiceImpl implements AttachmentService
type AttachmentServiceImpl struct{}

// NewAttachmentService creates a new attachment service
func NewAttachmentService() *AttachmentServiceImpl {
	return &AttachmentServiceImpl{}
}

// ValidateFilename checks the extension against the accept list
func (s *AttachmentServiceImpl) ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("%w: %q has no extension", ErrUnsupportedAttachment, filepath.Base(filename))
	}
	if _, ok := acceptedAttachments[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedAttachment, ext)
	}
	return nil
}

// BuildAttachments validates the given paths and builds attachment metadata
// for an outgoing message. Any rejected path fails the whole batch.
func (s *AttachmentServiceImpl) BuildAttachments(paths []string) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(paths))
	for _, path := range paths {
		if err := s.ValidateFilename(path); err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %q is a directory", ErrInvalidInput, path)
		}

		at := acceptedAttachments[strings.ToLower(filepath.Ext(path))]
		attachments = append(attachments, Attachment{
			Filename: filepath.Base(path),
			MimeType: at.mime,
			Kind:     at.kind,
			Size:     info.Size(),
		})
	}
	return attachments, nil
}
