package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	docerrors "vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
)

// Service reads documents from disk for the viewer layer. It enforces the
// configured size cap and retries transiently locked files: an association
// launch can race the downloader or scanner that is still holding the
// file open.
type Service struct {
	maxBytes int64
	logger   logging.Logger
}

// NewService creates a document service with the given size cap in bytes
func NewService(maxBytes int64, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Service{
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Stat probes a document without reading its contents.
func (s *Service) Stat(ctx context.Context, path string) (*DocumentInfo, error) {
	if path == "" {
		return nil, docerrors.NewPipelineError("stat_document",
			fmt.Errorf("empty path"), docerrors.ErrCodeValidation)
	}

	var info os.FileInfo
	err := docerrors.RetryQuick(ctx, func() error {
		fi, statErr := os.Stat(path)
		if statErr != nil {
			return classifyFSError("stat_document", path, statErr)
		}
		info = fi
		return nil
	})
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, docerrors.NewPipelineErrorWithContext("stat_document",
			fmt.Errorf("path is a directory"), docerrors.ErrCodeValidation,
			map[string]string{"path": path})
	}

	return &DocumentInfo{
		Name:    filepath.Base(path),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Read loads a document into memory. Files over the size cap are refused
// before any bytes are read.
func (s *Service) Read(ctx context.Context, path string) (*Document, error) {
	start := time.Now()

	info, err := s.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	if info.Size > s.maxBytes {
		return nil, docerrors.NewPipelineErrorWithContext("read_document",
			fmt.Errorf("document is %d bytes, cap is %d", info.Size, s.maxBytes),
			docerrors.ErrCodeTooLarge,
			map[string]string{"path": path})
	}

	var data []byte
	err = docerrors.RetryPersistent(ctx, func() error {
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return classifyFSError("read_document", path, readErr)
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	// The file can grow between the stat and the read.
	if int64(len(data)) > s.maxBytes {
		return nil, docerrors.NewPipelineErrorWithContext("read_document",
			fmt.Errorf("document grew to %d bytes, cap is %d", len(data), s.maxBytes),
			docerrors.ErrCodeTooLarge,
			map[string]string{"path": path})
	}

	logging.LogOperation(s.logger, "read_document", time.Since(start), map[string]interface{}{
		"path":       path,
		"size_bytes": len(data),
	})

	return &Document{
		Name: info.Name,
		Path: path,
		Size: int64(len(data)),
		Data: data,
	}, nil
}

// classifyFSError wraps a filesystem error with the matching pipeline code
// so the retry helpers know what is worth another attempt.
func classifyFSError(op, path string, err error) *docerrors.PipelineError {
	code := docerrors.ErrCodeUnknown
	switch {
	case os.IsNotExist(err):
		code = docerrors.ErrCodeNotFound
	case os.IsPermission(err):
		code = docerrors.ErrCodePermission
	case isBusyError(err):
		code = docerrors.ErrCodeBusy
	}
	return docerrors.NewPipelineErrorWithContext(op, err, code, map[string]string{"path": path})
}

// isBusyError reports whether the error indicates a file that is
// temporarily locked by another process.
func isBusyError(err error) bool {
	if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EAGAIN) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "used by another process") ||
		strings.Contains(msg, "sharing violation") ||
		strings.Contains(msg, "locked")
}
