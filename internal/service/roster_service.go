package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
)

// ErrUnsupportedUploadFormat indicates the uploaded file is neither CSV nor XLSX.
var ErrUnsupportedUploadFormat = errors.New("unsupported upload format")

// ErrEmptyUpload indicates the uploaded file contains no data rows.
var ErrEmptyUpload = errors.New("upload contains no data rows")

// BulkUploadFunc is the shared shape of the spreadsheet ingestion operations.
type BulkUploadFunc func(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error)

// RosterService provisions candidate accounts and ingests question banks from
// recruiter-uploaded spreadsheets.
type RosterService interface {
	CreateCandidate(ctx context.Context, payload dto.CandidateCreateRequest) (models.Candidate, error)
	BulkUploadCandidates(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error)
	BulkUploadMCQQuestions(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error)
	BulkUploadTextQuestions(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error)
}

type rosterService struct {
	candidates repository.CandidateRepository
	mcq        repository.MCQRepository
	text       repository.TextRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(candidates repository.CandidateRepository, mcq repository.MCQRepository, text repository.TextRepository, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		candidates: candidates,
		mcq:        mcq,
		text:       text,
		validator:  validate,
		logger:     logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) CreateCandidate(ctx context.Context, payload dto.CandidateCreateRequest) (models.Candidate, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Candidate{}, err
	}

	candidate := models.Candidate{Email: normalizeEmail(payload.Email)}
	if err := candidate.SetPassword(payload.Password); err != nil {
		return models.Candidate{}, err
	}
	if err := s.candidates.Create(ctx, &candidate); err != nil {
		return models.Candidate{}, err
	}

	s.logger.Info().Uint("candidate_id", candidate.ID).Msg("candidate provisioned")
	return candidate, nil
}

// BulkUploadCandidates upserts candidate accounts by email. Rows with a blank
// email or password are reported per-row rather than failing the upload.
func (s *rosterService) BulkUploadCandidates(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error) {
	rows, err := readTabularFile(filename, file)
	if err != nil {
		return dto.BulkUploadResult{}, err
	}

	result := dto.BulkUploadResult{Errors: []dto.BulkRowError{}}
	for i, row := range rows {
		rowNum := i + 2 // header is row 1
		result.Total++

		if len(row) < 2 {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "expected columns: email, password"})
			continue
		}

		email := normalizeEmail(row[0])
		password := strings.TrimSpace(row[1])
		payload := dto.CandidateCreateRequest{Email: email, Password: password}
		if err := s.validator.Struct(payload); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		existing, err := s.candidates.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if err := existing.SetPassword(password); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			if err := s.candidates.Save(ctx, &existing); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			result.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			candidate := models.Candidate{Email: email}
			if err := candidate.SetPassword(password); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			if err := s.candidates.Create(ctx, &candidate); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			result.Created++
		default:
			return dto.BulkUploadResult{}, err
		}
	}

	s.logger.Info().
		Int("total", result.Total).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("candidate bulk upload processed")

	return result, nil
}

// BulkUploadMCQQuestions replaces the MCQ bank with the uploaded rows.
// Expected columns: question_id, question, option1..option4, correct_answer.
func (s *rosterService) BulkUploadMCQQuestions(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error) {
	rows, err := readTabularFile(filename, file)
	if err != nil {
		return dto.BulkUploadResult{}, err
	}

	result := dto.BulkUploadResult{Errors: []dto.BulkRowError{}}
	questions := make([]models.MCQQuestion, 0, len(rows))
	seen := map[int]bool{}

	for i, row := range rows {
		rowNum := i + 2
		result.Total++

		if len(row) < 7 {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "expected columns: question_id, question, option1-4, correct_answer"})
			continue
		}

		questionID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || questionID <= 0 {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "invalid question_id"})
			continue
		}
		if seen[questionID] {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: fmt.Sprintf("duplicate question_id %d", questionID)})
			continue
		}

		correct, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil || correct < 1 || correct > 4 {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "correct_answer must be 1-4"})
			continue
		}

		question := models.MCQQuestion{
			QuestionID:    questionID,
			Question:      strings.TrimSpace(row[1]),
			Option1:       strings.TrimSpace(row[2]),
			Option2:       strings.TrimSpace(row[3]),
			Option3:       strings.TrimSpace(row[4]),
			Option4:       strings.TrimSpace(row[5]),
			CorrectAnswer: correct,
		}
		if question.Question == "" {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "question text is empty"})
			continue
		}

		seen[questionID] = true
		questions = append(questions, question)
		result.Created++
	}

	if len(questions) == 0 {
		return result, ErrEmptyUpload
	}

	if err := s.mcq.ReplaceBank(ctx, questions); err != nil {
		return dto.BulkUploadResult{}, err
	}

	s.logger.Info().Int("questions", len(questions)).Msg("mcq bank replaced")
	return result, nil
}

// BulkUploadTextQuestions replaces the text question bank with the uploaded
// rows. Expected columns: question_id, question.
func (s *rosterService) BulkUploadTextQuestions(ctx context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error) {
	rows, err := readTabularFile(filename, file)
	if err != nil {
		return dto.BulkUploadResult{}, err
	}

	result := dto.BulkUploadResult{Errors: []dto.BulkRowError{}}
	questions := make([]models.TextQuestion, 0, len(rows))
	seen := map[int]bool{}

	for i, row := range rows {
		rowNum := i + 2
		result.Total++

		if len(row) < 2 {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "expected columns: question_id, question"})
			continue
		}

		questionID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || questionID <= 0 {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "invalid question_id"})
			continue
		}
		if seen[questionID] {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: fmt.Sprintf("duplicate question_id %d", questionID)})
			continue
		}

		text := strings.TrimSpace(row[1])
		if text == "" {
			result.Skipped++
			result.Errors = append(result.Errors, dto.BulkRowError{Row: rowNum, Reason: "question text is empty"})
			continue
		}

		seen[questionID] = true
		questions = append(questions, models.TextQuestion{QuestionID: questionID, Question: text})
		result.Created++
	}

	if len(questions) == 0 {
		return result, ErrEmptyUpload
	}

	if err := s.text.ReplaceBank(ctx, questions); err != nil {
		return dto.BulkUploadResult{}, err
	}

	s.logger.Info().Int("questions", len(questions)).Msg("text question bank replaced")
	return result, nil
}

// readTabularFile parses CSV or XLSX content into data rows, skipping the
// header row.
func readTabularFile(filename string, file io.Reader) ([][]string, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		return dropHeader(rows), nil
	case strings.HasSuffix(lower, ".xlsx"):
		workbook, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("parse xlsx: %w", err)
		}
		defer workbook.Close()

		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyUpload
		}
		rows, err := workbook.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read xlsx rows: %w", err)
		}
		return dropHeader(rows), nil
	default:
		return nil, ErrUnsupportedUploadFormat
	}
}

func dropHeader(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
