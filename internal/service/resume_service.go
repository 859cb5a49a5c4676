package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
	"github.com/talentgate-labs/talentgate-api/pkg/cloudinary"
)

var (
	// ErrResumeTooLarge indicates the resume exceeded the size limit.
	ErrResumeTooLarge = errors.New("resume exceeds maximum allowed size")
	// ErrResumeTypeNotAllowed indicates the file is not a PDF or Word document.
	ErrResumeTypeNotAllowed = errors.New("resume must be a pdf or word document")
	// ErrNoResume indicates the candidate has no stored resume.
	ErrNoResume = errors.New("no resume on file")
	// ErrStorageUnavailable indicates no upload backend is configured.
	ErrStorageUnavailable = errors.New("resume storage unavailable")
)

var allowedResumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ResumeStorage abstracts the resume file backend.
type ResumeStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// ResumeService stores and removes candidate resumes.
type ResumeService interface {
	Upload(ctx context.Context, candidateID uint, file *multipart.FileHeader) (dto.ResumeResponse, error)
	Delete(ctx context.Context, candidateID uint) error
	Get(ctx context.Context, candidateID uint) (dto.ResumeResponse, error)
}

type resumeService struct {
	candidates repository.CandidateRepository
	storage    ResumeStorage
	maxSize    int64
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewResumeService constructs the resume service. Storage may be nil when
// Cloudinary credentials are absent; uploads then fail with a clear error.
func NewResumeService(candidates repository.CandidateRepository, storage ResumeStorage, maxSizeMB int, logger zerolog.Logger) ResumeService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &resumeService{
		candidates: candidates,
		storage:    storage,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		logger:     logger.With().Str("component", "resume_service").Logger(),
		tracer:     otel.Tracer("github.com/talentgate-labs/talentgate-api/internal/service/resume"),
	}
}

func (s *resumeService) Upload(ctx context.Context, candidateID uint, file *multipart.FileHeader) (dto.ResumeResponse, error) {
	if s.storage == nil {
		return dto.ResumeResponse{}, ErrStorageUnavailable
	}

	if file == nil || file.Size == 0 {
		return dto.ResumeResponse{}, ErrResumeTypeNotAllowed
	}
	if file.Size > s.maxSize {
		return dto.ResumeResponse{}, ErrResumeTooLarge
	}

	ctx, span := s.tracer.Start(ctx, "resume.upload", trace.WithAttributes(
		attribute.String("resume.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("resume.size", file.Size),
	))
	defer span.End()

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}

	source, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}
	defer source.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(source, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		return dto.ResumeResponse{}, ErrResumeTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	if !resumeTypeAllowed(mime.String()) {
		span.SetStatus(codes.Error, "disallowed mime type")
		return dto.ResumeResponse{}, ErrResumeTypeNotAllowed
	}

	uploaded, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}

	now := time.Now()
	candidate.ResumeURL = uploaded.SecureURL
	candidate.ResumeFilename = file.Filename
	candidate.ResumeUploadedAt = &now
	if err := s.candidates.Save(ctx, &candidate); err != nil {
		span.RecordError(err)
		return dto.ResumeResponse{}, err
	}

	s.logger.Info().Uint("candidate_id", candidateID).Str("mime", mime.String()).Msg("resume uploaded")
	return dto.NewResumeResponse(candidate), nil
}

func (s *resumeService) Delete(ctx context.Context, candidateID uint) error {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}

	if candidate.ResumeURL == "" {
		return ErrNoResume
	}

	if s.storage != nil {
		if err := s.storage.Destroy(ctx, publicIDFromURL(candidate.ResumeURL)); err != nil {
			s.logger.Warn().Err(err).Uint("candidate_id", candidateID).Msg("failed to remove stored resume")
		}
	}

	candidate.ResumeURL = ""
	candidate.ResumeFilename = ""
	candidate.ResumeUploadedAt = nil
	return s.candidates.Save(ctx, &candidate)
}

func (s *resumeService) Get(ctx context.Context, candidateID uint) (dto.ResumeResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.ResumeResponse{}, err
	}
	if candidate.ResumeURL == "" {
		return dto.ResumeResponse{}, ErrNoResume
	}
	return dto.NewResumeResponse(candidate), nil
}

func resumeTypeAllowed(mime string) bool {
	for _, allowed := range allowedResumeTypes {
		if strings.EqualFold(mime, allowed) {
			return true
		}
	}
	return false
}

// publicIDFromURL extracts the Cloudinary public id from a delivery URL,
// folder prefix included.
func publicIDFromURL(url string) string {
	parts := strings.Split(url, "/upload/")
	if len(parts) != 2 {
		return ""
	}

	path := parts[1]
	// Strip the version segment (v<digits>/).
	if strings.HasPrefix(path, "v") {
		if idx := strings.Index(path, "/"); idx > 0 {
			path = path[idx+1:]
		}
	}

	if idx := strings.LastIndex(path, "."); idx > 0 {
		path = path[:idx]
	}
	return path
}
