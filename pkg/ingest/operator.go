// Package ingest implements the mutating repository workflows: ingesting
// staged archives, removing package groups, and moving groups between
// repositories. Every workflow runs under the store-wide lock and commits
// no metadata before the whole batch has validated.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/glorpus-work/repod/internal/logger"
	"github.com/glorpus-work/repod/pkg/config"
	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/fsutil"
	"github.com/glorpus-work/repod/pkg/model"
	"github.com/glorpus-work/repod/pkg/repodb"
	"github.com/glorpus-work/repod/pkg/store"
)

// Operator orchestrates the mutating repository workflows.
type Operator struct {
	cfg       *config.Config
	store     *store.Store
	db        *repodb.Writer
	inspector ArchiveInspector
	verifier  SignatureVerifier
}

// NewOperator creates an Operator over the configured directory layout.
func NewOperator(cfg *config.Config, inspector ArchiveInspector, verifier SignatureVerifier) *Operator {
	return &Operator{
		cfg:       cfg,
		store:     store.New(cfg.Directories.MetaDir),
		db:        repodb.NewWriter(cfg.Directories.DBDir),
		inspector: inspector,
		verifier:  verifier,
	}
}

// Update ingests every staged archive. All archives are inspected and
// signature-verified in parallel, aggregated per repository, and checked
// against the version guard; only when every repository in the batch has
// validated are the metadata store and database artifacts rewritten and
// the archives promoted into the pool.
func (o *Operator) Update(ctx context.Context) error {
	lock, err := store.AcquireLock(o.cfg.Directories.MetaDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	archives, err := scanStaging(o.cfg.Directories.StagingDir)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		logger.Info("nothing staged, store unchanged")
		return nil
	}

	if err := o.inspectAll(ctx, archives, o.cfg.Settings.MaxConcurrent); err != nil {
		return err
	}

	byRepo := make(map[string][]*stagedArchive)
	for _, archive := range archives {
		byRepo[archive.repo] = append(byRepo[archive.repo], archive)
	}
	repos := make([]string, 0, len(byRepo))
	for repo := range byRepo {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	// Validate every repository before writing anything.
	current := make(map[string]model.RepoMetadata, len(repos))
	incoming := make(map[string]model.RepoMetadata, len(repos))
	for _, repo := range repos {
		existing := model.RepoMetadata{}
		if o.store.RepoExists(repo) {
			if existing, err = o.store.LoadRepo(repo); err != nil {
				return err
			}
		}
		batch, err := aggregate(byRepo[repo])
		if err != nil {
			return err
		}
		if err := guardVersions(repo, existing, batch); err != nil {
			return err
		}
		current[repo] = existing
		incoming[repo] = batch
	}

	// Commit phase. Individual writes are atomic but the batch is not:
	// a crash here can leave some groups updated and others not.
	for _, repo := range repos {
		merged := current[repo]
		for pkgbase, record := range incoming[repo] {
			if err := o.store.WriteGroup(repo, record); err != nil {
				return err
			}
			merged[pkgbase] = record
			logger.Info("wrote pkgbase", logger.Fields{
				"repo": repo, "pkgbase": pkgbase, "version": record.Version,
			})
		}
		if err := o.db.Write(repo, merged); err != nil {
			return err
		}
	}

	return o.promoteToPool(archives)
}

// Remove deletes package groups from a repository, regenerates its
// database, and removes the groups' staged and pooled archive files. File
// deletion is not rolled back when it fails partway.
func (o *Operator) Remove(ctx context.Context, repo string, pkgbases []string) error {
	lock, err := store.AcquireLock(o.cfg.Directories.MetaDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	meta, err := o.store.LoadRepo(repo)
	if err != nil {
		return err
	}

	var filenames []string
	for _, pkgbase := range pkgbases {
		record, ok := meta[pkgbase]
		if !ok {
			return errors.Wrapf(errors.ErrNotFound, "%s in %s", pkgbase, repo)
		}
		filenames = append(filenames, record.PackageFilenames()...)
	}

	for _, pkgbase := range pkgbases {
		if err := o.store.DeleteGroup(repo, pkgbase); err != nil {
			return err
		}
		delete(meta, pkgbase)
		logger.Info("removed pkgbase", logger.Fields{"repo": repo, "pkgbase": pkgbase})
	}

	if err := o.db.Write(repo, meta); err != nil {
		return err
	}
	return o.removeArchiveFiles(repo, filenames)
}

// Move relocates package groups from one repository to another and
// regenerates both databases.
func (o *Operator) Move(ctx context.Context, fromRepo, toRepo string, pkgbases []string) error {
	if fromRepo == toRepo {
		return errors.Wrapf(errors.ErrInvalidArgument,
			"source and destination repository are both %s", fromRepo)
	}

	lock, err := store.AcquireLock(o.cfg.Directories.MetaDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	source, err := o.store.LoadRepo(fromRepo)
	if err != nil {
		return err
	}
	dest, err := o.store.LoadRepo(toRepo)
	if err != nil {
		return err
	}

	for _, pkgbase := range pkgbases {
		if _, ok := source[pkgbase]; !ok {
			return errors.Wrapf(errors.ErrNotFound, "%s in %s", pkgbase, fromRepo)
		}
		if _, ok := dest[pkgbase]; ok {
			return errors.Wrapf(errors.ErrAlreadyExists, "%s in %s", pkgbase, toRepo)
		}
	}

	for _, pkgbase := range pkgbases {
		if err := o.store.MoveGroup(fromRepo, toRepo, pkgbase); err != nil {
			return err
		}
		dest[pkgbase] = source[pkgbase]
		delete(source, pkgbase)
		logger.Info("moved pkgbase", logger.Fields{
			"pkgbase": pkgbase, "from": fromRepo, "to": toRepo,
		})
	}

	if err := o.db.Write(fromRepo, source); err != nil {
		return err
	}
	return o.db.Write(toRepo, dest)
}

// WriteDB regenerates a repository's database artifact from the metadata
// store alone.
func (o *Operator) WriteDB(ctx context.Context, repo string) error {
	lock, err := store.AcquireLock(o.cfg.Directories.MetaDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	meta, err := o.store.LoadRepo(repo)
	if err != nil {
		return err
	}
	return o.db.Write(repo, meta)
}

// promoteToPool moves committed archives and their signatures from the
// staging area into long-term pool storage.
func (o *Operator) promoteToPool(archives []*stagedArchive) error {
	if err := os.MkdirAll(o.cfg.Directories.PoolDir, fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create pool directory")
	}
	for _, archive := range archives {
		target := filepath.Join(o.cfg.Directories.PoolDir, archive.filename)
		if err := os.Rename(archive.path, target); err != nil {
			return errors.Wrapf(err, "failed to move %s to pool", archive.filename)
		}
		if err := os.Rename(archive.path+SigExt, target+SigExt); err != nil {
			return errors.Wrapf(err, "failed to move %s to pool", archive.filename+SigExt)
		}
	}
	return nil
}

// removeArchiveFiles deletes the staged and pooled archive and signature
// files for the given filenames. Missing files are ignored.
func (o *Operator) removeArchiveFiles(repo string, filenames []string) error {
	for _, filename := range filenames {
		paths := []string{
			filepath.Join(o.cfg.Directories.StagingDir, repo, filename),
			filepath.Join(o.cfg.Directories.PoolDir, filename),
		}
		for _, path := range paths {
			for _, target := range []string{path, path + SigExt} {
				if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
					return errors.Wrapf(err, "failed to delete %s", target)
				}
			}
		}
	}
	return nil
}
