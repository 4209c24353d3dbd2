package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// stagingPrefix names the per-call temporary directories.
const stagingPrefix = "axrepo-stage-"

// Stager uploads file content to the remote buffer or cache store.
//
// Byte and path sources are first written under a fresh temporary directory
// using the requested target name, so the service stores the file under that
// name. The directory is removed when the call returns, whatever the outcome.
type Stager struct {
	buffers driven.BufferAPI
	tempDir string
}

// NewStager creates a stager. An empty tempDir uses os.TempDir.
func NewStager(buffers driven.BufferAPI, tempDir string) *Stager {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Stager{buffers: buffers, tempDir: tempDir}
}

// UploadStream uploads r under name.
func (s *Stager) UploadStream(ctx context.Context, r io.Reader, name string, useCache bool) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("upload stream: nil reader: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		ids []string
		err error
	)
	if useCache {
		logger.Debug("staging %s in cache", name)
		ids, err = s.buffers.CacheInsert(ctx, name, r)
	} else {
		logger.Debug("staging %s in buffer", name)
		ids, err = s.buffers.Insert(ctx, name, r)
	}
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("upload %s: service returned no buffer id: %w", name, domain.ErrTransport)
	}
	return ids, nil
}

// UploadBytes uploads an in-memory file under name.
func (s *Stager) UploadBytes(ctx context.Context, name string, data []byte, useCache bool) ([]string, error) {
	name, err := stagedName(name, "")
	if err != nil {
		return nil, err
	}

	return s.withStagingDir(func(dir string) ([]string, error) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return nil, fmt.Errorf("stage %s: %w", name, err)
		}
		return s.uploadFile(ctx, path, name, useCache)
	})
}

// UploadPath uploads the file at path, stored as targetName.
// An empty targetName keeps the file's base name.
func (s *Stager) UploadPath(ctx context.Context, path, targetName string, useCache bool) ([]string, error) {
	name, err := stagedName(targetName, path)
	if err != nil {
		return nil, err
	}

	return s.withStagingDir(func(dir string) ([]string, error) {
		staged := filepath.Join(dir, name)
		if err := copyFile(path, staged); err != nil {
			return nil, fmt.Errorf("stage %s: %w", path, err)
		}
		return s.uploadFile(ctx, staged, name, useCache)
	})
}

// UploadPayload uploads a FilePayload under its own name.
func (s *Stager) UploadPayload(ctx context.Context, file domain.FilePayload, useCache bool) ([]string, error) {
	return s.UploadBytes(ctx, file.Name, file.Bytes, useCache)
}

func (s *Stager) uploadFile(ctx context.Context, path, name string, useCache bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()
	return s.UploadStream(ctx, f, name, useCache)
}

// withStagingDir runs fn in a fresh directory and removes it afterwards.
// Cleanup failures are logged and never replace fn's result.
func (s *Stager) withStagingDir(fn func(dir string) ([]string, error)) ([]string, error) {
	dir := filepath.Join(s.tempDir, stagingPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("failed to remove staging directory %s: %v", dir, err)
		}
	}()
	return fn(dir)
}

// stagedName picks the stored file name, rejecting names that would escape
// the staging directory.
func stagedName(name, sourcePath string) (string, error) {
	if name == "" && sourcePath != "" {
		name = filepath.Base(sourcePath)
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q: %w", name, domain.ErrInvalidInput)
	}
	return name, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
