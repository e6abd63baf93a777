package files

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/gabriel-vasile/mimetype"
)

// ParseSize converts a size such as "8M", "512k" or "1048576" to bytes. The
// leading integer is scaled by a case-insensitive g, m or k suffix; anything
// unparseable is 0.
func ParseSize(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	n := leadingInt(value)
	var shift uint
	switch value[len(value)-1] {
	case 'g', 'G':
		shift = 30
	case 'm', 'M':
		shift = 20
	case 'k', 'K':
		shift = 10
	}
	switch {
	case n > math.MaxInt64>>shift:
		return math.MaxInt64
	case n < math.MinInt64>>shift:
		return math.MinInt64
	}
	return n << shift
}

// MaxUploadSize returns the effective upload ceiling: the smaller of the two
// limits, ignoring limits that are zero or negative. A result of 0 means unlimited.
func MaxUploadSize(postMax, uploadMax int64) int64 {
	switch {
	case postMax <= 0 && uploadMax <= 0:
		return 0
	case postMax <= 0:
		return uploadMax
	case uploadMax <= 0:
		return postMax
	}
	return min(postMax, uploadMax)
}

// leadingInt parses an optional sign and the digits that follow it, stopping at
// the first non-digit. Values beyond int64 saturate.
func leadingInt(s string) int64 {
	var (
		n    int64
		sign int64 = 1
		i    int
	)
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int64(s[i] - '0')
		if n > (math.MaxInt64-d)/10 {
			n = math.MaxInt64
			break
		}
		n = n*10 + d
	}
	return sign * n
}

// UploadName reduces a client-supplied filename to a bare base name.
func UploadName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("upload name %q: %w", name, ErrInvalidName)
	}
	return name, nil
}

// DirName strips separators from a requested directory name. Names starting with
// ".." are forbidden.
func DirName(name string) (string, error) {
	name = strings.NewReplacer("/", "", "\\", "").Replace(name)
	if strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("directory name %q: %w", name, ErrForbidden)
	}
	if name == "" || name == "." {
		return "", fmt.Errorf("directory name %q: %w", name, ErrInvalidName)
	}
	return name, nil
}

// Mkdir creates a single subdirectory of dir.
func Mkdir(dir, name string) (string, error) {
	clean, err := DirName(name)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, clean)
	if err := os.Mkdir(target, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", clean, err)
	}
	return target, nil
}

// SaveUpload writes src to dir/name. An existing entry that is not a regular
// file is forbidden. The data lands in a temporary file that is renamed over
// the target, so a link created in the meantime is replaced, never followed.
func SaveUpload(dir, name string, src io.Reader) (string, error) {
	dest := filepath.Join(dir, name)
	if info, err := os.Lstat(dest); err == nil && !info.Mode().IsRegular() {
		return "", fmt.Errorf("upload %s: %w", name, ErrForbidden)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return dest, nil
}

// Register records an uploaded file in the entry store.
func Register(ctx context.Context, guard *Guard, store media.EntryStore, stationID, path string) (*media.Record, error) {
	rec, err := store.GetOrCreate(ctx, stationID, media.NormalizePath(guard.Rel(path)))
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", guard.Rel(path), err)
	}
	if err := store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("register %s: %w", guard.Rel(path), err)
	}
	return rec, nil
}

// Download describes a file ready to be streamed to a client
type Download struct {
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// PrepareDownload stats path and sniffs its content type.
func PrepareDownload(path string) (*Download, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("download: %w", ErrNotFound)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("download %s: %w", filepath.Base(path), ErrNotFound)
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(path); err == nil {
		contentType = mtype.String()
	}

	return &Download{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// Disposition builds an attachment Content-Disposition value. Legacy Internet
// Explorer user agents get a percent-encoded filename.
func Disposition(filename, userAgent string) string {
	if strings.Contains(userAgent, "MSIE") || strings.Contains(userAgent, "Trident/") {
		return "attachment; filename=" + strings.ReplaceAll(url.QueryEscape(filename), "+", "%20")
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(filename)
	return `attachment; filename="` + escaped + `"`
}
