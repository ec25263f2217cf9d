package dedup

import (
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/hasher"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

type ResolveOptions struct {
	Policy internal.KeepPolicy
	DryRun bool
	// Verify re-hashes each candidate right before deletion and refuses to
	// remove a file whose content no longer matches the group digest.
	Verify bool
}

// Resolver applies a keep policy to duplicate groups and removes the
// redundant copies. It trusts the finder's grouping: members of one group
// have identical content as observed at scan time.
type Resolver struct {
	Fs afero.Fs
}

func NewResolver() *Resolver {
	return &Resolver{Fs: afero.NewOsFs()}
}

// Resolve processes each group independently: exactly one member is kept per
// the policy, every other member is deleted (or reported under dry run). One
// failed deletion never aborts the batch. An invalid policy fails before any
// group is touched.
func (r *Resolver) Resolve(groups map[string][]string, opts ResolveOptions) ([]internal.DeletionRecord, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}

	var records []internal.DeletionRecord

	for digest, paths := range groups {
		if len(paths) < 2 {
			continue
		}

		keep := SelectKeep(paths, opts.Policy)
		logger.Get().Debug().Msgf("group %s: keeping %s of %d copies", digest, paths[keep], len(paths))

		for i, path := range paths {
			if i == keep {
				continue
			}
			records = append(records, r.remove(path, digest, opts))
		}
	}

	return records, nil
}

// SelectKeep returns the index of the group member the policy retains.
// Ties on path length resolve to the earliest member in traversal order.
// The policy must have been validated; unknown values fall back to first.
func SelectKeep(paths []string, policy internal.KeepPolicy) int {
	switch policy {
	case internal.KeepLast:
		return len(paths) - 1
	case internal.KeepShortestPath:
		keep := 0
		for i, path := range paths {
			if len(path) < len(paths[keep]) {
				keep = i
			}
		}
		return keep
	case internal.KeepLongestPath:
		keep := 0
		for i, path := range paths {
			if len(path) > len(paths[keep]) {
				keep = i
			}
		}
		return keep
	default:
		return 0
	}
}

func (r *Resolver) remove(path, digest string, opts ResolveOptions) internal.DeletionRecord {
	var size int64
	if info, err := r.Fs.Stat(path); err == nil {
		size = info.Size()
	}

	if opts.DryRun {
		return internal.DeletionRecord{Path: path, Outcome: internal.OutcomeWouldDelete, Size: size}
	}

	if opts.Verify {
		current, err := hasher.Sum(r.Fs, path)
		if err != nil {
			logger.Get().Error().Err(err).Msgf("verify failed, not deleting: %s", path)
			return internal.DeletionRecord{Path: path, Outcome: internal.OutcomeFailed, Reason: err.Error(), Size: size}
		}
		if current != digest {
			logger.Get().Warn().Msgf("content changed since scan, not deleting: %s", path)
			return internal.DeletionRecord{Path: path, Outcome: internal.OutcomeFailed, Reason: "content changed since scan", Size: size}
		}
	}

	if err := r.Fs.Remove(path); err != nil {
		logger.Get().Error().Err(err).Msgf("failed to delete duplicate: %s", path)
		return internal.DeletionRecord{Path: path, Outcome: internal.OutcomeFailed, Reason: err.Error(), Size: size}
	}

	logger.Get().Debug().Msgf("deleted duplicate: %s (%d bytes freed)", path, size)
	return internal.DeletionRecord{Path: path, Outcome: internal.OutcomeDeleted, Size: size}
}

// Summarize folds deletion records into run statistics.
func Summarize(result *internal.ScanResult, records []internal.DeletionRecord) internal.DedupStats {
	stats := internal.DedupStats{
		Groups:  len(result.Groups),
		Skipped: len(result.Skipped),
	}
	for _, rec := range records {
		switch rec.Outcome {
		case internal.OutcomeDeleted:
			stats.Deleted++
			stats.FreedSpace += rec.Size
		case internal.OutcomeWouldDelete:
			stats.WouldDelete++
			stats.FreedSpace += rec.Size
		case internal.OutcomeFailed:
			stats.Failed++
		}
	}
	return stats
}
