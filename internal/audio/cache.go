package audio

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Cache keeps synthesized clips on disk, keyed by the request that
// produced them. A nil *Cache caches nothing.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. An empty dir disables caching.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Key hashes the request parameters of one clip. Callers include the
// output file name so numbered variants of the same text stay distinct.
func (c *Cache) Key(parts ...string) string {
	h := md5.New()
	for _, p := range parts {
		io.WriteString(h, p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key[2:]+".mp3")
}

// Fetch copies the cached clip for key to dst and reports whether there
// was one
func (c *Cache) Fetch(key, dst string) bool {
	if c == nil {
		return false
	}
	src := c.path(key)
	if _, err := os.Stat(src); err != nil {
		return false
	}
	if err := copyFile(src, dst); err != nil {
		slog.Debug("audio cache read failed", "key", key, "error", err)
		return false
	}
	slog.Debug("audio cache hit", "file", filepath.Base(dst))
	return true
}

// Put stores src under key. Failures are logged and otherwise ignored.
func (c *Cache) Put(key, src string) {
	if c == nil {
		return
	}
	if err := copyFile(src, c.path(key)); err != nil {
		slog.Debug("failed to cache audio", "key", key, "error", err)
	}
}

// Clear removes every cached clip
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// Stats counts the cached clips and their total size
func (c *Cache) Stats() (files int, size int64, err error) {
	if c == nil {
		return 0, 0, nil
	}
	err = filepath.WalkDir(c.dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files++
		size += info.Size()
		return nil
	})
	return files, size, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeClip(dst, in, "")
}

// writeClip streams r into path, creating parent directories. An empty
// stream is an error naming source.
func writeClip(path string, r io.Reader, source string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, r)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 && source != "" {
		return fmt.Errorf("no audio data received from %s", source)
	}
	return nil
}
