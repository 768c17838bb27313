package web

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxReceiptBytes caps receipt uploads at 5MB.
const maxReceiptBytes = 5 << 20

// allowedReceiptExts are the file extensions accepted for receipts.
var allowedReceiptExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
}

var errBadReceipt = errors.New("receipt must be a jpg, png, gif, webp or pdf under 5MB")

// saveReceiptUpload stores the "Receipt" file from a multipart form and
// returns its path relative to the uploads dir, or "" when no file was
// sent. The stored name is a fresh UUID; the client name never touches
// the filesystem.
func saveReceiptUpload(r *http.Request) (string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return "", nil
	}

	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		return "", errBadReceipt
	}

	file, header, err := r.FormFile("Receipt")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	if header.Size > maxReceiptBytes {
		return "", errBadReceipt
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedReceiptExts[ext] {
		return "", errBadReceipt
	}

	if err := os.MkdirAll(UploadsDir, 0o755); err != nil {
		return "", err
	}
	name := generateID() + ext
	dst, err := os.Create(filepath.Join(UploadsDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxReceiptBytes)); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}
