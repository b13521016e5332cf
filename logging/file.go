package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileWriter appends log lines to dir/name and rotates the file once it grows past
// maxSize or a day has passed. Rotated files are gzipped; only keep archives survive.
type FileWriter struct {
	mu      sync.Mutex
	pending sync.WaitGroup
	dir     string
	name    string
	maxSize int64
	keep    int
	now     func() time.Time

	file     *os.File
	size     int64
	openedAt time.Time
}

// NewFileWriter opens (or creates) dir/name for appending.
func NewFileWriter(dir, name string, maxSizeMB, keep int) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if keep <= 0 {
		keep = 5
	}
	fw := &FileWriter{
		dir:     dir,
		name:    name,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		keep:    keep,
		now:     time.Now,
	}
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

func (fw *FileWriter) path() string {
	return filepath.Join(fw.dir, fw.name)
}

func (fw *FileWriter) open() error {
	f, err := os.OpenFile(fw.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.file = f
	fw.size = info.Size()
	fw.openedAt = fw.now()
	return nil
}

// Write implements io.Writer.
func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.file == nil {
		return 0, os.ErrClosed
	}
	if fw.size+int64(len(p)) > fw.maxSize || fw.now().Sub(fw.openedAt) > 24*time.Hour {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := fw.file.Write(p)
	fw.size += int64(n)
	return n, err
}

func (fw *FileWriter) rotate() error {
	if err := fw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	archived := fmt.Sprintf("%s.%s", fw.path(), fw.now().Format("20060102-150405.000"))
	if err := os.Rename(fw.path(), archived); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	fw.pending.Add(1)
	go func() {
		defer fw.pending.Done()
		compress(archived)
		fw.prune()
	}()
	return fw.open()
}

func compress(path string) {
	in, err := os.Open(path)
	if err != nil {
		return
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return
	}
	gz := gzip.NewWriter(out)
	_, copyErr := io.Copy(gz, in)
	closeErr := gz.Close()
	out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(path + ".gz")
		return
	}
	os.Remove(path)
}

func (fw *FileWriter) prune() {
	matches, err := filepath.Glob(fw.path() + ".*.gz")
	if err != nil || len(matches) <= fw.keep {
		return
	}
	// Archive names embed the rotation timestamp, so lexical order is age order.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-fw.keep] {
		os.Remove(path)
	}
}

// Close closes the underlying file and waits for pending archive work.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	var err error
	if fw.file != nil {
		err = fw.file.Close()
		fw.file = nil
	}
	fw.mu.Unlock()
	fw.pending.Wait()
	return err
}
