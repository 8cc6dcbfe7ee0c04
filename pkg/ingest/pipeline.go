package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/repod/internal/logger"
	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/pkginfo"
	"golang.org/x/sync/errgroup"
)

// pkgExtMarker identifies package archive filenames regardless of the
// compression suffix (.pkg.tar.xz, .pkg.tar.zst, ...).
const pkgExtMarker = ".pkg.tar."

// scanStaging discovers staged archives per repository. Archives within one
// repository are ordered by filename so batch processing is deterministic.
func scanStaging(stagingDir string) ([]*stagedArchive, error) {
	repos, err := os.ReadDir(stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read staging directory %s", stagingDir)
	}

	var archives []*stagedArchive
	for _, repo := range repos {
		if !repo.IsDir() {
			continue
		}
		repoDir := filepath.Join(stagingDir, repo.Name())
		entries, err := os.ReadDir(repoDir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read staging directory %s", repoDir)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.Contains(name, pkgExtMarker) || strings.HasSuffix(name, SigExt) {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			archives = append(archives, &stagedArchive{
				repo:     repo.Name(),
				path:     filepath.Join(repoDir, name),
				filename: name,
			})
		}
	}
	return archives, nil
}

// inspectAll runs archive inspection and signature verification for every
// staged archive concurrently, bounded by maxConcurrent. The first failure
// cancels the remaining work and is returned; results of completed tasks
// are discarded with the batch.
func (o *Operator) inspectAll(ctx context.Context, archives []*stagedArchive, maxConcurrent int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, archive := range archives {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Debug("inspecting archive", logger.Fields{"repo": archive.repo, "file": archive.filename})

			ok, tokens, err := o.verifier.Verify(ctx, archive.path, archive.path+SigExt)
			if err != nil {
				return errors.Wrapf(err, "verifying %s", archive.filename)
			}
			if !ok {
				return errors.Wrapf(errors.ErrBadSignature, "%s: %s",
					archive.filename, strings.Join(tokens, "; "))
			}

			text, err := o.inspector.ReadPkgInfo(ctx, archive.path)
			if err != nil {
				return err
			}
			archive.info = pkginfo.Parse(text)

			archive.files, err = o.inspector.ListFiles(ctx, archive.path)
			return err
		})
	}
	return g.Wait()
}
