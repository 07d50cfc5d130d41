package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/logger"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type FileKind string

const (
	FileKindDocument FileKind = "documents"
	FileKindPhoto    FileKind = "photos"
)

var allowedContentTypes = map[FileKind]map[string]string{
	FileKindDocument: {
		"application/pdf": ".pdf",
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
	},
	FileKindPhoto: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
}

// FileStorage stores uploaded athlete files and hands back the reference
// kept on the athlete row.
type FileStorage interface {
	Save(ctx context.Context, kind FileKind, header *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, ref string) error
}

type fileStorage struct {
	fs       afero.Fs
	maxBytes int64
	log      logger.Logger
}

// NewDiskStorage stores files below root on the local disk.
func NewDiskStorage(root string, maxBytes int64) FileStorage {
	return NewFileStorage(afero.NewBasePathFs(afero.NewOsFs(), root), maxBytes)
}

func NewFileStorage(fs afero.Fs, maxBytes int64) FileStorage {
	return &fileStorage{
		fs:       fs,
		maxBytes: maxBytes,
		log:      logger.New("FileStorage"),
	}
}

func (s *fileStorage) Save(
	ctx context.Context,
	kind FileKind,
	header *multipart.FileHeader,
) (string, error) {
	log := s.log.Function("Save")

	allowed, ok := allowedContentTypes[kind]
	if !ok {
		return "", log.Error("unknown file kind", "kind", kind)
	}

	if header == nil {
		return "", apperr.Validation("All fields are required.")
	}

	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return "", apperr.Validation(
			fmt.Sprintf("%s exceeds the %d byte upload limit", header.Filename, s.maxBytes),
		)
	}

	src, err := header.Open()
	if err != nil {
		return "", log.Err("failed to open upload", err, "filename", header.Filename)
	}
	defer src.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(src, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", log.Err("failed to read upload", err, "filename", header.Filename)
	}
	sniff = sniff[:n]

	contentType := http.DetectContentType(sniff)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	ext, ok := allowed[contentType]
	if !ok {
		return "", apperr.Validation(
			fmt.Sprintf("%s has unsupported type %s", header.Filename, contentType),
		)
	}

	if err := s.fs.MkdirAll(string(kind), 0o755); err != nil {
		return "", log.Err("failed to create upload directory", err, "kind", kind)
	}

	ref := path.Join(string(kind), uuid.NewString()+ext)
	dst, err := s.fs.Create(ref)
	if err != nil {
		return "", log.Err("failed to create stored file", err, "ref", ref)
	}

	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(sniff), src))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(ref)
		return "", log.Err("failed to write stored file", err, "ref", ref)
	}

	log.Info("Stored upload", "ref", ref, "bytes", written, "contentType", contentType)
	return ref, nil
}

func (s *fileStorage) Remove(ctx context.Context, ref string) error {
	log := s.log.Function("Remove")

	if ref == "" {
		return nil
	}

	cleaned := path.Clean(filepath.ToSlash(ref))
	if strings.HasPrefix(cleaned, "../") || cleaned == ".." || path.IsAbs(cleaned) {
		return log.Error("refusing to remove file outside storage", "ref", ref)
	}

	if err := s.fs.Remove(cleaned); err != nil {
		exists, statErr := afero.Exists(s.fs, cleaned)
		if statErr == nil && !exists {
			return nil
		}
		return log.Err("failed to remove stored file", err, "ref", ref)
	}

	return nil
}
