package dedup

import (
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/hasher"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

// DigestCache lets repeat scans skip re-hashing files whose path, size and
// mtime are unchanged. Implemented by pkg/database; nil disables caching.
type DigestCache interface {
	Lookup(path string, size int64, modTime time.Time) (string, bool)
	Store(path string, size int64, modTime time.Time, digest string) error
}

// Finder locates groups of content-identical files under a directory tree.
//
// The search is two-phase: files are bucketed by exact byte size first, and
// full content digests are computed only inside buckets holding two or more
// entries. A unique size cannot have a content twin, so those files are never
// read at all.
type Finder struct {
	Fs      afero.Fs
	Walker  *scanner.FileWalker
	MinSize int64
	Workers int
	Cache   DigestCache
}

func NewFinder() *Finder {
	return &Finder{
		Fs:      afero.NewOsFs(),
		Walker:  scanner.NewFileWalker(),
		MinSize: internal.DefaultMinFileSize,
		Workers: internal.DefaultWorkers,
	}
}

// Find returns every duplicate group under root: a map from content digest to
// the member paths in traversal order, restricted to groups of two or more.
// Unreadable entries are reported in the result's skip list; only an unusable
// root fails the whole scan.
func (f *Finder) Find(root string) (*internal.ScanResult, error) {
	start := time.Now()

	buckets, skipped, err := f.Walker.CollectBySize(root, f.MinSize)
	if err != nil {
		return nil, err
	}

	candidates := f.selectCandidates(buckets, &skipped)

	logger.Get().Info().
		Int("size_buckets", len(buckets)).
		Int("hash_candidates", len(candidates)).
		Msgf("scan phase one complete: %s", root)

	byDigest := f.hashCandidates(candidates, &skipped)

	groups := make(map[string][]string)
	for digest, entries := range byDigest {
		if len(entries) < 2 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		groups[digest] = paths
	}

	logger.Get().Info().
		Int("groups", len(groups)).
		Int("skipped", len(skipped)).
		Dur("elapsed", time.Since(start)).
		Msgf("duplicate scan complete: %s", root)

	return &internal.ScanResult{Groups: groups, Skipped: skipped}, nil
}

// selectCandidates narrows multi-entry size buckets with a quick hash of each
// file's leading chunk. Files alone in their (size, quick-hash) partition
// cannot have a duplicate and are dropped before full hashing.
func (f *Finder) selectCandidates(buckets map[int64][]scanner.FileEntry, skipped *[]internal.SkippedFile) []scanner.FileEntry {
	var candidates []scanner.FileEntry

	for _, entries := range buckets {
		if len(entries) < 2 {
			continue
		}

		partitions := make(map[uint64][]scanner.FileEntry)
		for _, entry := range entries {
			quick, err := hasher.Quick(f.Fs, entry.Path)
			if err != nil {
				*skipped = append(*skipped, internal.SkippedFile{Path: entry.Path, Reason: err.Error()})
				logger.Get().Debug().Err(err).Msgf("skipping unreadable candidate: %s", entry.Path)
				continue
			}
			partitions[quick] = append(partitions[quick], entry)
		}

		for _, partition := range partitions {
			if len(partition) >= 2 {
				candidates = append(candidates, partition...)
			}
		}
	}

	return candidates
}

// hashCandidates computes full digests for the candidate set, consulting the
// cache first and fanning the rest out over the worker pool.
func (f *Finder) hashCandidates(candidates []scanner.FileEntry, skipped *[]internal.SkippedFile) map[string][]scanner.FileEntry {
	byDigest := make(map[string][]scanner.FileEntry)
	bySeq := make(map[int]scanner.FileEntry, len(candidates))

	pool := hasher.NewHashPool(f.Fs, f.Workers)
	if err := pool.Start(); err != nil {
		// Pool creation only fails on a non-positive size; hash inline instead.
		logger.Get().Warn().Err(err).Msg("hash pool unavailable, hashing sequentially")
		for _, entry := range candidates {
			digest, err := hasher.Sum(f.Fs, entry.Path)
			if err != nil {
				*skipped = append(*skipped, internal.SkippedFile{Path: entry.Path, Reason: err.Error()})
				continue
			}
			byDigest[digest] = append(byDigest[digest], entry)
		}
		return byDigest
	}

	var toHash []scanner.FileEntry
	for _, entry := range candidates {
		if f.Cache != nil {
			if digest, ok := f.Cache.Lookup(entry.Path, entry.Size, entry.ModTime); ok {
				byDigest[digest] = append(byDigest[digest], entry)
				continue
			}
		}
		bySeq[entry.Seq] = entry
		toHash = append(toHash, entry)
	}

	// Submit from a separate goroutine so draining results below keeps the
	// bounded channels moving no matter how many candidates there are.
	go func() {
		for _, entry := range toHash {
			pool.AddTask(hasher.HashTask{Seq: entry.Seq, Path: entry.Path, Size: entry.Size})
		}
		pool.Finish()
	}()

	for result := range pool.Results() {
		entry := bySeq[result.Seq]
		if result.Error != nil {
			*skipped = append(*skipped, internal.SkippedFile{Path: result.Path, Reason: result.Error.Error()})
			logger.Get().Debug().Err(result.Error).Msgf("failed to hash file: %s", result.Path)
			continue
		}
		byDigest[result.Digest] = append(byDigest[result.Digest], entry)
		if f.Cache != nil {
			if err := f.Cache.Store(entry.Path, entry.Size, entry.ModTime, result.Digest); err != nil {
				logger.Get().Debug().Err(err).Msgf("failed to cache digest: %s", entry.Path)
			}
		}
	}

	logger.Get().Debug().Msgf("hashed %d of %d candidates (%d cache hits)",
		len(toHash), len(candidates), len(candidates)-len(toHash))

	return byDigest
}
