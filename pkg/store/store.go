// Package store persists pkgbase metadata records as one JSON document per
// package group per repository, and provides the store-wide lock guarding
// all mutations.
//
// Writes of individual documents go through a temp file and rename so a
// single document is never torn. A batch of writes across several groups
// or repositories is not transactional: a crash between the first and last
// write of a batch can leave it partially applied.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/fsutil"
	"github.com/glorpus-work/repod/pkg/model"
)

const jsonExt = ".json"

// Store is the durable metadata store rooted at a meta directory.
type Store struct {
	root string
}

// New creates a Store rooted at metaDir.
func New(metaDir string) *Store {
	return &Store{root: metaDir}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// GroupPath returns the on-disk path of a group's JSON document.
func (s *Store) GroupPath(repo, pkgbase string) string {
	return filepath.Join(s.root, repo, pkgbase+jsonExt)
}

// RepoExists reports whether the repository's directory exists.
func (s *Store) RepoExists(repo string) bool {
	fi, err := os.Stat(filepath.Join(s.root, repo))
	return err == nil && fi.IsDir()
}

// LoadRepo reads every pkgbase document of a repository. A missing
// repository directory fails with ErrUnknownRepo.
func (s *Store) LoadRepo(repo string) (model.RepoMetadata, error) {
	repoDir := filepath.Join(s.root, repo)
	entries, err := os.ReadDir(repoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrUnknownRepo, "%s", repo)
		}
		return nil, errors.Wrapf(err, "failed to read repository directory %s", repoDir)
	}

	meta := make(model.RepoMetadata)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), jsonExt) {
			continue
		}
		record, err := s.readGroup(filepath.Join(repoDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		meta[record.Pkgbase] = record
	}
	return meta, nil
}

// WriteGroup serializes the record as indented JSON and writes it to
// <repo>/<pkgbase>.json, creating the repository directory if absent. An
// existing document is overwritten unconditionally.
func (s *Store) WriteGroup(repo string, record *model.PkgbaseRecord) error {
	repoDir := filepath.Join(s.root, repo)
	if err := os.MkdirAll(repoDir, fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create repository directory %s", repoDir)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to serialize pkgbase %s", record.Pkgbase)
	}
	data = append(data, '\n')

	target := s.GroupPath(repo, record.Pkgbase)
	tmp, err := os.CreateTemp(repoDir, "."+record.Pkgbase+"-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", repoDir)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, fsutil.FileModeDefault); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to rename %s to %s", tmpName, target)
	}
	return nil
}

// DeleteGroup removes the group's JSON document. It fails with ErrNotFound
// when the document does not exist.
func (s *Store) DeleteGroup(repo, pkgbase string) error {
	target := s.GroupPath(repo, pkgbase)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s in %s", pkgbase, repo)
		}
		return errors.Wrapf(err, "failed to delete %s", target)
	}
	return nil
}

// MoveGroup relocates a group's JSON document from one repository to
// another. The destination must not already contain the group and the
// source must contain it.
func (s *Store) MoveGroup(fromRepo, toRepo, pkgbase string) error {
	src := s.GroupPath(fromRepo, pkgbase)
	dst := s.GroupPath(toRepo, pkgbase)

	if _, err := os.Stat(dst); err == nil {
		return errors.Wrapf(errors.ErrAlreadyExists, "%s in %s", pkgbase, toRepo)
	}
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s in %s", pkgbase, fromRepo)
		}
		return errors.Wrapf(err, "failed to stat %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create repository directory for %s", toRepo)
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrapf(err, "failed to move %s to %s", src, dst)
	}
	return nil
}

func (s *Store) readGroup(path string) (*model.PkgbaseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	record := &model.PkgbaseRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return record, nil
}
