package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bodegita/backend/internal/http/respond"
	"github.com/bodegita/backend/internal/middleware"
	"github.com/bodegita/backend/internal/models/dto"
	"github.com/google/uuid"
)

const (
	uploadField = "image"
	// Room for multipart boundaries and part headers on top of the file itself.
	multipartOverhead = 64 << 10
	sniffLen          = 512
	svgType           = "image/svg+xml"
)

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// UploadHandler stores images on local disk and serves them back.
type UploadHandler struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

// NewUploadHandler stores files under dir and refuses files over maxBytes.
func NewUploadHandler(dir string, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{dir: dir, maxBytes: maxBytes, logger: logger, now: time.Now}
}

// Register mounts POST /upload behind the gate and GET /uploads/ publicly.
func (h *UploadHandler) Register(mux *http.ServeMux, gate *middleware.Gate) {
	mux.Handle("POST /upload", gate.RequireAuth(http.HandlerFunc(h.handleUpload)))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(h.dir)))))
}

func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.rejectTooLarge(w)
		case errors.Is(err, http.ErrMissingFile):
			respond.Fail(w, http.StatusBadRequest, "missing_file", "no file provided")
		default:
			respond.Fail(w, http.StatusBadRequest, "invalid_upload", "could not process the file")
		}
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.rejectTooLarge(w)
		return
	}
	declared := header.Header.Get("Content-Type")
	if !strings.HasPrefix(declared, "image/") {
		respond.Fail(w, http.StatusBadRequest, "not_an_image", "the file must be an image")
		return
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		respond.Fail(w, http.StatusBadRequest, "invalid_upload", "could not read the file")
		return
	}
	if !looksLikeImage(declared, head[:n]) {
		respond.Fail(w, http.StatusBadRequest, "not_an_image", "the file must be an image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to process the image")
		return
	}

	filename := header.Filename
	if strings.HasPrefix(declared, svgType) {
		filename = "image.svg"
	}
	name := h.storedName(filename)
	if err := h.save(name, file); err != nil {
		h.logger.ErrorContext(r.Context(), "store upload", "file", name, "error", err)
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to process the image")
		return
	}
	url := fmt.Sprintf("%s://%s/uploads/%s", requestScheme(r), r.Host, name)
	h.logger.InfoContext(r.Context(), "image uploaded", "file", name, "bytes", header.Size)
	respond.JSON(w, http.StatusOK, "image uploaded", dto.UploadResponse{URL: url})
}

// looksLikeImage checks the leading bytes agree with an image type. SVG is
// text, so it is accepted when declared as such and an <svg element appears.
func looksLikeImage(declared string, head []byte) bool {
	sniffed := http.DetectContentType(head)
	if strings.HasPrefix(sniffed, "image/") {
		return true
	}
	if !strings.HasPrefix(declared, svgType) {
		return false
	}
	textual := strings.HasPrefix(sniffed, "text/xml") || strings.HasPrefix(sniffed, "text/plain")
	return textual && bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func (h *UploadHandler) rejectTooLarge(w http.ResponseWriter) {
	respond.Fail(w, http.StatusBadRequest, "file_too_large",
		fmt.Sprintf("the file is too large; the maximum size is %d bytes", h.maxBytes))
}

// storedName returns "<unix-ms>-<uuid><ext>", dropping extensions that are
// not short alphanumerics.
func (h *UploadHandler) storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", h.now().UnixMilli(), uuid.NewString(), ext)
}

func (h *UploadHandler) save(name string, src io.Reader) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(h.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}
	return dst.Close()
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// noListing hides directory indexes from the file server and locks down
// what served files may do.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			NotFound(w, r)
			return
		}
		// Uploaded SVGs must not run scripts when opened directly.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
