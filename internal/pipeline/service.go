package pipeline

// service.go is the boundary between the HTTP trigger surface and the
// pipeline. Submitted files are persisted into the input directory and a run
// is dispatched in the background relative to the request that triggered it;
// the pipeline itself stays strictly sequential, so concurrent submissions
// serialize on a single run lock. There is no cancellation once a run has
// started.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Service accepts file submissions and exposes run status to the web layer.
type Service struct {
	orchestrator *Orchestrator
	inputDir     string
	maxFileSize  int64
	logger       *slog.Logger

	runMu sync.Mutex // serializes runs

	mu         sync.Mutex
	running    bool
	lastReport *RunReport
	lastError  string
}

// NewService creates the run service.
func NewService(orchestrator *Orchestrator, inputDir string, maxFileSize int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orchestrator: orchestrator,
		inputDir:     inputDir,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// Status is the coarse health probe exposed by the API.
type Status struct {
	State      State      `json:"state"`
	Running    bool       `json:"running"`
	LastError  string     `json:"last_error,omitempty"`
	LastReport *RunReport `json:"last_report,omitempty"`
}

// Status reports the orchestrator state and the last finished run.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:      s.orchestrator.Status(),
		Running:    s.running,
		LastError:  s.lastError,
		LastReport: s.lastReport,
	}
}

// SubmitFile stores an uploaded payload under the input directory and
// dispatches a background run for it. hint selects the entity type; "auto"
// falls back to filename keyword routing. Returns the stored file's ID.
func (s *Service) SubmitFile(filename string, data []byte, hint EntityType) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return "", fmt.Errorf("file exceeds %d byte limit", s.maxFileSize)
	}

	if err := os.MkdirAll(s.inputDir, 0o755); err != nil {
		return "", fmt.Errorf("create input dir: %w", err)
	}

	fileID := uuid.NewString()
	name := fileID + "_" + filepath.Base(filename)
	path := filepath.Join(s.inputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	go s.runFile(name, hint)

	s.logger.Info("file submitted", "file", filename, "file_id", fileID, "hint", hint)
	return fileID, nil
}

// RunBatch processes every discovered input file as one run, blocking until
// the run completes.
func (s *Service) RunBatch(ctx context.Context) (RunReport, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.setRunning(true)
	report, err := s.orchestrator.Run(ctx)
	s.recordOutcome(&report, err)
	return report, err
}

func (s *Service) runFile(name string, hint EntityType) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.setRunning(true)
	report, err := s.orchestrator.RunFile(context.Background(), name, hint)
	if err != nil {
		s.logger.Error("background run failed", "file", name, "error", err)
	}
	s.recordOutcome(&report, err)
}

func (s *Service) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

func (s *Service) recordOutcome(report *RunReport, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	if err != nil {
		s.lastError = err.Error()
		return
	}
	s.lastError = ""
	s.lastReport = report
}
