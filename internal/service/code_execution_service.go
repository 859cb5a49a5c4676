package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	dockerexec "github.com/talentgate-labs/talentgate-api/pkg/docker"
)

// ErrUnsupportedLanguage indicates the requested language has no sandbox image.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrExecutorUnavailable indicates no sandbox backend is configured.
var ErrExecutorUnavailable = errors.New("code executor unavailable")

// CodeExecutionConfig describes execution configuration knobs.
type CodeExecutionConfig struct {
	ExecutionTimeout time.Duration
	MemoryLimitMB    int
	CPUShares        int
	WorkspaceRoot    string
}

type languageConfig struct {
	Image    string
	FileName string
	Command  []string
}

// CodeExecutionService runs candidate code inside a sandboxed container.
type CodeExecutionService interface {
	Execute(ctx context.Context, candidateID uint, payload dto.CodeExecutionRequest) (dto.CodeExecutionResponse, error)
}

type codeExecutionService struct {
	executor  dockerexec.Executor
	validator *validator.Validate
	logger    zerolog.Logger
	config    CodeExecutionConfig
	languages map[string]languageConfig
}

// NewCodeExecutionService constructs the code execution service. The executor
// may be nil when Docker is not configured.
func NewCodeExecutionService(executor dockerexec.Executor, validate *validator.Validate, logger zerolog.Logger, cfg CodeExecutionConfig) CodeExecutionService {
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = os.TempDir()
	}

	return &codeExecutionService{
		executor:  executor,
		validator: validate,
		logger:    logger.With().Str("component", "code_execution_service").Logger(),
		config:    cfg,
		languages: map[string]languageConfig{
			"python": {
				Image:    "python:3.11-alpine",
				FileName: "main.py",
				Command:  []string{"python", "main.py"},
			},
			"javascript": {
				Image:    "node:20-alpine",
				FileName: "main.js",
				Command:  []string{"node", "main.js"},
			},
			"go": {
				Image:    "golang:1.22-alpine",
				FileName: "main.go",
				Command:  []string{"sh", "-c", "go run main.go"},
			},
			"java": {
				Image:    "eclipse-temurin:21-alpine",
				FileName: "Main.java",
				Command:  []string{"sh", "-c", "javac Main.java && java Main"},
			},
		},
	}
}

// withStdinRedirect rewrites a container command to read from stdin.txt.
// Commands already running under sh -c keep a single shell level so their
// arguments survive; plain commands gain one.
func withStdinRedirect(command []string) []string {
	if len(command) == 3 && command[0] == "sh" && command[1] == "-c" {
		return []string{"sh", "-c", command[2] + " < stdin.txt"}
	}
	return []string{"sh", "-c", strings.Join(command, " ") + " < stdin.txt"}
}

func (s *codeExecutionService) Execute(ctx context.Context, candidateID uint, payload dto.CodeExecutionRequest) (dto.CodeExecutionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CodeExecutionResponse{}, err
	}

	if s.executor == nil {
		return dto.CodeExecutionResponse{}, ErrExecutorUnavailable
	}

	language := strings.ToLower(strings.TrimSpace(payload.Language))
	langCfg, ok := s.languages[language]
	if !ok {
		return dto.CodeExecutionResponse{}, ErrUnsupportedLanguage
	}

	workspace, err := os.MkdirTemp(s.config.WorkspaceRoot, "coderun-")
	if err != nil {
		return dto.CodeExecutionResponse{}, fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	if err := os.WriteFile(filepath.Join(workspace, langCfg.FileName), []byte(payload.Source), 0600); err != nil {
		return dto.CodeExecutionResponse{}, fmt.Errorf("write source: %w", err)
	}

	cmd := langCfg.Command
	if payload.Stdin != "" {
		if err := os.WriteFile(filepath.Join(workspace, "stdin.txt"), []byte(payload.Stdin), 0600); err != nil {
			return dto.CodeExecutionResponse{}, fmt.Errorf("write stdin: %w", err)
		}
		cmd = withStdinRedirect(langCfg.Command)
	}

	result, execErr := s.executor.Run(ctx, dockerexec.ExecutionRequest{
		Image:           langCfg.Image,
		Cmd:             cmd,
		Timeout:         s.config.ExecutionTimeout,
		Workspace:       workspace,
		WorkingDir:      "/workspace",
		MemoryLimitMB:   int64(s.config.MemoryLimitMB),
		CPUShares:       int64(s.config.CPUShares),
		NetworkDisabled: true,
	})

	response := dto.CodeExecutionResponse{
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		ExitCode:   result.ExitCode,
		DurationMs: result.Duration.Milliseconds(),
		TimedOut:   result.TimedOut,
	}

	if execErr != nil && !result.TimedOut {
		s.logger.Warn().Err(execErr).Uint("candidate_id", candidateID).Str("language", language).Msg("code execution failed")
		return response, execErr
	}

	s.logger.Info().
		Uint("candidate_id", candidateID).
		Str("language", language).
		Int("exit_code", result.ExitCode).
		Bool("timed_out", result.TimedOut).
		Msg("code executed")

	return response, nil
}
