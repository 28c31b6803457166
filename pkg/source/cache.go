package source

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/syndtr/goleveldb/leveldb"
)

// OpenCache opens the local dataset cache, creating it if needed. An
// empty path places the cache under the system temp directory.
func OpenCache(path string) (*leveldb.DB, error) {
	if path == "" {
		path = fmt.Sprintf("%s/vqc-datasets.db", os.TempDir())
	}
	return leveldb.OpenFile(path, nil)
}

// NUL separator: dataset names may contain dashes or slashes, and the
// key must not collide across roles.
func cacheKey(role, name string) []byte {
	return fmt.Appendf([]byte{}, "%s\x00%s", role, name)
}

// GetRecord reads a record line through the cache, fetching from the
// remote URL on a miss. A nil db disables caching.
func GetRecord(db *leveldb.DB, client *resty.Client, role, name, url string) (string, error) {
	key := cacheKey(role, name)

	if db != nil {
		if value, err := db.Get(key, nil); err == nil {
			return string(value), nil
		} else if !errors.Is(err, leveldb.ErrNotFound) {
			return "", fmt.Errorf("reading cache: %w", err)
		}
	}

	line, err := Fetch(client, url)
	if err != nil {
		return "", err
	}

	if db != nil {
		if err := db.Put(key, []byte(line), nil); err != nil {
			log.Printf("failed to cache %s: %v", key, err)
		}
	}
	return line, nil
}
