package hasher

import (
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
	sha256 "github.com/minio/sha256-simd"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

// Sum computes the SHA-256 digest of the file's full content, streamed in
// fixed-size chunks so memory use stays constant regardless of file size.
// The digest is returned as a lowercase hex string.
func Sum(fs afero.Fs, filePath string) (string, error) {
	logger.Get().Debug().Msgf("hashing file: %s", filePath)

	file, err := fs.Open(filePath)
	if err != nil {
		logger.Get().Error().Err(err).Msgf("cannot open file: %s", filePath)
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	buf := make([]byte, internal.HashChunkSize)
	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		logger.Get().Error().Err(err).Msgf("hashing failed: %s", filePath)
		return "", err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	logger.Get().Trace().Msgf("file digest: %s -> %s", filePath, digest)
	return digest, nil
}

// Quick computes an xxHash64 of the file's leading chunk. It is a cheap
// pre-filter inside a size bucket: files whose quick hashes differ cannot be
// duplicates, so only quick-hash collisions get the full digest.
func Quick(fs afero.Fs, filePath string) (uint64, error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	buf := make([]byte, internal.HashChunkSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}

	return xxhash.Sum64(buf[:n]), nil
}
