package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"headerlint/internal/header"
	"headerlint/internal/source"
)

// Bump on any change to the resultPayload layout: the version participates
// in the key, so old entries become unreachable instead of misparsed.
const resultCacheSchemaVersion uint16 = 1

// ResultCache хранит вердикты проверки на диске. Ключ строится из хэшей
// файла и спецификации, так что правка любого из них промахивается мимо
// старой записи. Safe for concurrent use.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

// resultPayload stores one cached verdict: either a clean file or the first
// finding together with its repairing edit. Byte offsets are relative to the
// file content; the FileID is re-bound on restore because IDs are only
// stable within one run.
type resultPayload struct {
	// Версия схемы; растёт при несовместимых правках формата
	Schema uint16

	// Clean marks a file that complied with the spec.
	Clean bool

	// Finding fields, meaningful when Clean is false.
	MessageID string
	Data      map[string]string
	SpanStart uint32
	SpanEnd   uint32

	HasEdit   bool
	EditStart uint32
	EditEnd   uint32
	EditText  string
}

// OpenResultCache initializes and returns a result cache at the standard
// location.
func OpenResultCache(app string) (*ResultCache, error) {
	base, err := cacheBase()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResultCache{dir: dir}, nil
}

// cacheBase honors XDG_CACHE_HOME with a ~/.cache fallback on every
// platform alike: CI containers set XDG and expect it to win.
func cacheBase() (string, error) {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache"), nil
}

// resultKey derives the cache key for a (file, spec) pair. The schema version
// participates so that a format bump invalidates every old entry at once.
func resultKey(fileHash, specHash [32]byte) [32]byte {
	h := sha256.New()
	h.Write(fileHash[:])
	h.Write(specHash[:])
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], resultCacheSchemaVersion)
	h.Write(schema[:])
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

func (c *ResultCache) pathFor(key [32]byte) string {
	// Подкаталог results оставляет место другим видам записей, не
	// перемешивая их с вердиктами.
	return filepath.Join(c.dir, "results", hex.EncodeToString(key[:])+".mp")
}

// Put stores a serialized payload on disk.
func (c *ResultCache) Put(key [32]byte, payload *resultPayload) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return writeFileAtomic(c.pathFor(key), data)
}

// writeFileAtomic пишет во временный файл и подменяет целевой через
// Rename: параллельный Get видит либо старую запись, либо новую, но не
// половину.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после удачного Rename файла уже нет, ошибка не интересна
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Get reads and deserializes a payload from the disk cache. A missing entry
// is not an error.
func (c *ResultCache) Get(key [32]byte, out *resultPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// Dir returns the cache root on disk.
func (c *ResultCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// DropResultCache removes the whole on-disk result cache at its standard
// location. Серверного процесса нет, поэтому гонок с другими запусками мы
// не боимся: в худшем случае параллельный check заполнит кэш заново.
func DropResultCache() (string, error) {
	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		return "", err
	}
	return cache.Dir(), cache.DropAll()
}

// DropAll wipes every cached entry.
func (c *ResultCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// Сначала переименование: оно атомарно убирает каталог из-под
	// читателей, а содержимое удаляется уже без спешки.
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// payloadFromFinding converts the engine verdict into its cached form.
// A nil finding becomes a clean entry.
func payloadFromFinding(f *header.Finding) *resultPayload {
	p := &resultPayload{Schema: resultCacheSchemaVersion}
	if f == nil {
		p.Clean = true
		return p
	}
	p.MessageID = f.MessageID
	p.Data = f.Data
	p.SpanStart = f.Span.Start
	p.SpanEnd = f.Span.End
	if f.Edit != nil {
		p.HasEdit = true
		p.EditStart = f.Edit.Start
		p.EditEnd = f.Edit.End
		p.EditText = f.Edit.Text
	}
	return p
}

// finding restores the cached verdict, re-binding spans to the file ID of
// the current run. Returns nil for clean entries.
func (p *resultPayload) finding(id source.FileID) *header.Finding {
	if p.Clean {
		return nil
	}
	f := &header.Finding{
		MessageID: p.MessageID,
		Data:      p.Data,
		Span:      source.Span{File: id, Start: p.SpanStart, End: p.SpanEnd},
	}
	if p.HasEdit {
		f.Edit = &header.Edit{Start: p.EditStart, End: p.EditEnd, Text: p.EditText}
	}
	return f
}
