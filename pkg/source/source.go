// Package source materializes exercise dataset files, preferring local
// files in the working directory, then the local cache, then a remote
// challenge server.
package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/amenhotep19/vqc/pkg/dataset"
)

var ErrNoSource = errors.New("dataset not found locally and no base URL configured")

// Resolve returns the input record and answer lines for the named
// dataset. The name is used as a path prefix for the local files
// (<name>.in / <name>.ans) and as the remote file stem.
func Resolve(db *leveldb.DB, client *resty.Client, name, baseURL string) (string, string, error) {
	inPath := name + ".in"
	ansPath := name + ".ans"

	if _, err := os.Stat(inPath); err == nil {
		record, err := dataset.ReadRecord(inPath)
		if err != nil {
			return "", "", err
		}
		answers, err := dataset.ReadRecord(ansPath)
		if err != nil {
			return "", "", err
		}
		return record, answers, nil
	}

	if baseURL == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNoSource, inPath)
	}

	record, err := GetRecord(db, client, "record", name, fmt.Sprintf("%s/%s.in", baseURL, name))
	if err != nil {
		return "", "", err
	}
	answers, err := GetRecord(db, client, "answers", name, fmt.Sprintf("%s/%s.ans", baseURL, name))
	if err != nil {
		return "", "", err
	}
	return record, answers, nil
}
