package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"weft/internal/format"
)

// Current schema version - increment when FormatPayload format changes
const formatCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// FormatCache хранит отформатированный вывод по хешу содержимого файла и
// настроек форматирования. Thread-safe for concurrent access.
type FormatCache struct {
	mu  sync.RWMutex
	dir string
}

// FormatPayload stores one cached formatting result.
type FormatPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path      string
	Formatted []byte
}

// OpenFormatCache initializes and returns a disk cache at the standard location.
func OpenFormatCache(app string) (*FormatCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FormatCache{dir: dir}, nil
}

// FormatCacheKey derives the cache key from the file content hash and every
// option that influences the output. Changing any option yields a new key.
func FormatCacheKey(contentHash [32]byte, opts format.Options) Digest {
	h := sha256.New()
	h.Write(contentHash[:])

	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], formatCacheSchemaVersion)
	h.Write(buf[:2])
	for _, knob := range []int64{
		int64(opts.IndentWidth),
		int64(opts.WrapThreshold),
		int64(opts.MacroIndentOffset),
	} {
		binary.LittleEndian.PutUint64(buf[:], uint64(knob))
		h.Write(buf[:])
	}

	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

func (c *FormatCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "fmt" — для удобства читаемости/очистки.
	return filepath.Join(c.dir, "fmt", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *FormatCache) Put(key Digest, payload *FormatPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err = os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	enc := msgpack.NewEncoder(f)
	err = enc.Encode(payload)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A payload with a
// stale schema is treated as a miss.
func (c *FormatCache) Get(key Digest, out *FormatPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != formatCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *FormatCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
