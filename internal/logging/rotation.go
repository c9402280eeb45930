package logging

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls size-based log rotation.
type RotationConfig struct {
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	// Zero disables rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep. Zero keeps none.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig returns the rotation settings used when the config
// file does not override them.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{MaxSizeMB: 10, MaxBackups: 3}
}

// RotatingWriter is an io.WriteCloser that rotates the underlying file when
// it exceeds the configured size. Rotated files are numbered path.1 (newest)
// through path.N (oldest). Safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	path    string
	limit   int64
	backups int
	gzipOld bool

	file *os.File
	size int64
}

// NewRotatingWriter opens path for appending and rotates it per cfg.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:    path,
		limit:   int64(cfg.MaxSizeMB) * 1024 * 1024,
		backups: cfg.MaxBackups,
		gzipOld: cfg.Compress,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

// open opens the log file and records its size. Caller holds the mutex
// except during construction.
func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(rw.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rw.file = file
	rw.size = info.Size()
	return nil
}

// Write appends p to the log file, rotating first when the write would push
// the file past the size limit. A failed rotation is reported to stderr and
// the write still goes to the current file so no log data is lost.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if rw.limit > 0 && rw.size+int64(len(p)) > rw.limit {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// rotate closes the current file, shifts backups, and opens a fresh file.
// Caller holds the mutex.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	rw.shiftBackups()

	if rw.backups > 0 {
		first := rw.backupPath(1)
		if err := os.Rename(rw.path, first); err != nil {
			if openErr := rw.open(); openErr != nil {
				return fmt.Errorf("failed to rename log file and reopen: %w", openErr)
			}
			return fmt.Errorf("failed to rename log file: %w", err)
		}
		if rw.gzipOld {
			if err := compressFile(first); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to compress rotated log: %v\n", err)
			}
		}
	} else {
		os.Remove(rw.path)
	}

	return rw.open()
}

// shiftBackups renumbers existing backups, dropping the oldest when the
// backup count is reached. Caller holds the mutex.
func (rw *RotatingWriter) shiftBackups() {
	if rw.backups <= 0 {
		return
	}

	oldest := rw.backupPath(rw.backups)
	os.Remove(oldest)
	os.Remove(oldest + ".gz")

	for i := rw.backups - 1; i >= 1; i-- {
		from, to := rw.backupPath(i), rw.backupPath(i+1)
		if _, err := os.Stat(from + ".gz"); err == nil {
			os.Rename(from+".gz", to+".gz")
		} else if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
}

func (rw *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", rw.path, n)
}

// compressFile gzips path and removes the original. The original is kept
// when compression fails.
func compressFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	gzPath := path + ".gz"
	gzFile, err := os.Create(gzPath)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(gzFile)
	if _, err := gz.Write(data); err != nil {
		gzFile.Close()
		os.Remove(gzPath)
		return err
	}
	if err := gz.Close(); err != nil {
		gzFile.Close()
		os.Remove(gzPath)
		return err
	}
	if err := gzFile.Close(); err != nil {
		os.Remove(gzPath)
		return err
	}

	return os.Remove(path)
}

// CurrentSize returns the size in bytes of the active log file.
func (rw *RotatingWriter) CurrentSize() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.size
}

// Close syncs and closes the active log file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil
	return nil
}
