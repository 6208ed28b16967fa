package attachments

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ownerdesk/internal/domain"
)

const (
	uploadPath  = "/attachments"
	uploadField = "attachment"
)

var ErrEmptyResponse = errors.New("attachment store returned no id")

type Service struct {
	up  Uploader
	log *zap.Logger
}

func NewService(up Uploader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{up: up, log: log}
}

// Upload stores a file and returns the reference to record on a booking or the business profile.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (domain.Attachment, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return domain.Attachment{}, domain.NewValidationError(uploadField, "file name is required")
	}

	var out domain.Attachment
	if err := s.up.PostFile(ctx, uploadPath, uploadField, name, r, &out); err != nil {
		s.log.Warn("Upload: request failed", zap.String("filename", name), zap.Error(err))
		return domain.Attachment{}, err
	}
	if out.ID == "" {
		return domain.Attachment{}, ErrEmptyResponse
	}
	return out, nil
}
