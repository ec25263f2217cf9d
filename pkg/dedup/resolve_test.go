package dedup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/file-organizer/internal"
)

func TestSelectKeep(t *testing.T) {
	paths := []string{"/deep/nested/path/file.txt", "/a.txt", "/medium/file.txt"}

	tests := []struct {
		policy internal.KeepPolicy
		want   int
	}{
		{internal.KeepFirst, 0},
		{internal.KeepLast, 2},
		{internal.KeepShortestPath, 1},
		{internal.KeepLongestPath, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectKeep(paths, tt.policy))
		})
	}
}

func TestSelectKeep_TieBreaksToFirst(t *testing.T) {
	paths := []string{"/aa/1.txt", "/bb/2.txt", "/c.txt", "/d.txt"}

	assert.Equal(t, 0, SelectKeep(paths, internal.KeepLongestPath),
		"equal-length longest candidates resolve to the earliest")
	assert.Equal(t, 2, SelectKeep(paths, internal.KeepShortestPath),
		"equal-length shortest candidates resolve to the earliest")
}

func TestResolver_Resolve_DryRun(t *testing.T) {
	tempDir := t.TempDir()
	pathA := writeFile(t, tempDir, "a.txt", repeat('x', 2000))
	pathB := writeFile(t, tempDir, "b.txt", repeat('x', 2000))

	resolver := NewResolver()
	records, err := resolver.Resolve(
		map[string][]string{"digest-x": {pathA, pathB}},
		ResolveOptions{Policy: internal.KeepFirst, DryRun: true},
	)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, pathB, records[0].Path)
	assert.Equal(t, internal.OutcomeWouldDelete, records[0].Outcome)
	assert.Equal(t, int64(2000), records[0].Size)

	// Nothing was touched.
	_, err = os.Stat(pathA)
	assert.NoError(t, err)
	_, err = os.Stat(pathB)
	assert.NoError(t, err)
}

func TestResolver_Resolve_DeletesRedundantCopies(t *testing.T) {
	tempDir := t.TempDir()
	pathA := writeFile(t, tempDir, "a.txt", repeat('x', 2000))
	pathB := writeFile(t, tempDir, "b.txt", repeat('x', 2000))
	pathC := writeFile(t, tempDir, "c.txt", repeat('x', 2000))

	resolver := NewResolver()
	records, err := resolver.Resolve(
		map[string][]string{"digest-x": {pathA, pathB, pathC}},
		ResolveOptions{Policy: internal.KeepLast},
	)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.Equal(t, internal.OutcomeDeleted, rec.Outcome)
		assert.NotEqual(t, pathC, rec.Path, "the keep path never appears in the output")
	}

	_, err = os.Stat(pathC)
	assert.NoError(t, err, "the kept copy survives")
	_, err = os.Stat(pathA)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(pathB)
	assert.True(t, os.IsNotExist(err))
}

func TestResolver_Resolve_KeepNeverDeleted_AllPolicies(t *testing.T) {
	policies := []internal.KeepPolicy{
		internal.KeepFirst,
		internal.KeepLast,
		internal.KeepShortestPath,
		internal.KeepLongestPath,
	}

	for _, policy := range policies {
		t.Run(string(policy), func(t *testing.T) {
			tempDir := t.TempDir()
			paths := []string{
				writeFile(t, tempDir, "deep/nested/a.txt", repeat('x', 1500)),
				writeFile(t, tempDir, "b.txt", repeat('x', 1500)),
				writeFile(t, tempDir, "mid/c.txt", repeat('x', 1500)),
			}
			keep := paths[SelectKeep(paths, policy)]

			resolver := NewResolver()
			records, err := resolver.Resolve(
				map[string][]string{"digest": paths},
				ResolveOptions{Policy: policy},
			)
			require.NoError(t, err)
			require.Len(t, records, 2)

			for _, rec := range records {
				assert.NotEqual(t, keep, rec.Path)
			}
			_, err = os.Stat(keep)
			assert.NoError(t, err)
		})
	}
}

func TestResolver_Resolve_DryRunMatchesRealRun(t *testing.T) {
	build := func(t *testing.T) (string, map[string][]string) {
		tempDir := t.TempDir()
		groups := map[string][]string{
			"g1": {
				writeFile(t, tempDir, "a1.txt", repeat('p', 1200)),
				writeFile(t, tempDir, "a2.txt", repeat('p', 1200)),
			},
			"g2": {
				writeFile(t, tempDir, "b1.txt", repeat('q', 1300)),
				writeFile(t, tempDir, "b2.txt", repeat('q', 1300)),
				writeFile(t, tempDir, "b3.txt", repeat('q', 1300)),
			},
		}
		return tempDir, groups
	}

	collect := func(records []internal.DeletionRecord) map[string]bool {
		set := make(map[string]bool)
		for _, rec := range records {
			set[filepath.Base(rec.Path)] = true
		}
		return set
	}

	resolver := NewResolver()

	_, dryGroups := build(t)
	dryRecords, err := resolver.Resolve(dryGroups, ResolveOptions{Policy: internal.KeepFirst, DryRun: true})
	require.NoError(t, err)

	_, realGroups := build(t)
	realRecords, err := resolver.Resolve(realGroups, ResolveOptions{Policy: internal.KeepFirst})
	require.NoError(t, err)

	assert.Equal(t, collect(dryRecords), collect(realRecords),
		"dry run and real run select the same candidates")
}

func TestResolver_Resolve_InvalidPolicy(t *testing.T) {
	tempDir := t.TempDir()
	pathA := writeFile(t, tempDir, "a.txt", repeat('x', 2000))
	pathB := writeFile(t, tempDir, "b.txt", repeat('x', 2000))

	resolver := NewResolver()
	_, err := resolver.Resolve(
		map[string][]string{"digest": {pathA, pathB}},
		ResolveOptions{Policy: internal.KeepPolicy("newest")},
	)
	require.Error(t, err)

	// No partial deletion happened.
	_, err = os.Stat(pathA)
	assert.NoError(t, err)
	_, err = os.Stat(pathB)
	assert.NoError(t, err)
}

func TestResolver_Resolve_FailureDoesNotAbortBatch(t *testing.T) {
	tempDir := t.TempDir()
	pathA := writeFile(t, tempDir, "a.txt", repeat('x', 2000))
	pathB := writeFile(t, tempDir, "b.txt", repeat('x', 2000))
	pathC := writeFile(t, tempDir, "c.txt", repeat('x', 2000))

	// The middle candidate vanishes between scan and resolve.
	require.NoError(t, os.Remove(pathB))

	resolver := NewResolver()
	records, err := resolver.Resolve(
		map[string][]string{"digest": {pathA, pathB, pathC}},
		ResolveOptions{Policy: internal.KeepFirst},
	)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byPath := make(map[string]internal.DeletionRecord)
	for _, rec := range records {
		byPath[rec.Path] = rec
	}
	assert.Equal(t, internal.OutcomeFailed, byPath[pathB].Outcome)
	assert.NotEmpty(t, byPath[pathB].Reason)
	assert.Equal(t, internal.OutcomeDeleted, byPath[pathC].Outcome,
		"one failure never stops the remaining candidates")
}

func TestResolver_Resolve_ReadOnlyFsReportsFailures(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/a.txt", repeat('x', 1200), 0644))
	require.NoError(t, afero.WriteFile(base, "/b.txt", repeat('x', 1200), 0644))

	resolver := &Resolver{Fs: afero.NewReadOnlyFs(base)}
	records, err := resolver.Resolve(
		map[string][]string{"digest": {"/a.txt", "/b.txt"}},
		ResolveOptions{Policy: internal.KeepFirst},
	)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, internal.OutcomeFailed, records[0].Outcome)

	exists, err := afero.Exists(base, "/b.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestResolver_Resolve_VerifyRefusesChangedContent(t *testing.T) {
	tempDir := t.TempDir()
	pathA := writeFile(t, tempDir, "a.txt", repeat('x', 2000))
	pathB := writeFile(t, tempDir, "b.txt", repeat('x', 2000))

	finder := NewFinder()
	result, err := finder.Find(tempDir)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)

	// B changes after the scan; verify mode must not delete it.
	require.NoError(t, os.WriteFile(pathB, repeat('y', 2000), 0644))

	resolver := NewResolver()
	records, err := resolver.Resolve(result.Groups, ResolveOptions{Policy: internal.KeepFirst, Verify: true})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, internal.OutcomeFailed, records[0].Outcome)
	assert.Equal(t, "content changed since scan", records[0].Reason)

	_, err = os.Stat(pathA)
	assert.NoError(t, err)
	_, err = os.Stat(pathB)
	assert.NoError(t, err, "the changed file is left in place")
}

func TestSummarize(t *testing.T) {
	result := &internal.ScanResult{
		Groups: map[string][]string{
			"g1": {"/a", "/b"},
			"g2": {"/c", "/d", "/e"},
		},
		Skipped: []internal.SkippedFile{{Path: "/locked", Reason: "permission denied"}},
	}
	records := []internal.DeletionRecord{
		{Path: "/b", Outcome: internal.OutcomeDeleted, Size: 100},
		{Path: "/d", Outcome: internal.OutcomeDeleted, Size: 200},
		{Path: "/e", Outcome: internal.OutcomeFailed, Reason: "busy"},
	}

	stats := Summarize(result, records)
	assert.Equal(t, 2, stats.Groups)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2, stats.Deleted)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, int64(300), stats.FreedSpace)
}
