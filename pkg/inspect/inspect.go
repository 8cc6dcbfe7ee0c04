// Package inspect reads metadata out of built package archives.
package inspect

import (
	"context"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/mholt/archives"
)

const pkgInfoMember = ".PKGINFO"

// Inspector reads members and file listings out of compressed package
// archives.
type Inspector struct{}

// NewInspector creates a new Inspector instance.
func NewInspector() *Inspector {
	return &Inspector{}
}

// ReadPkgInfo returns the text of the archive's embedded .PKGINFO member.
func (i *Inspector) ReadPkgInfo(ctx context.Context, archivePath string) (string, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	member, err := fsys.Open(pkgInfoMember)
	if err != nil {
		return "", errors.Wrapf(err, "archive %s has no %s member", archivePath, pkgInfoMember)
	}
	defer func() { _ = member.Close() }()

	data, err := io.ReadAll(member)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s from %s", pkgInfoMember, archivePath)
	}
	return string(data), nil
}

// ListFiles returns the archive's member paths sorted lexicographically.
// Directory members carry a trailing slash. Members whose path starts with
// a dot are archive-internal control files and are excluded.
func (i *Inspector) ListFiles(ctx context.Context, archivePath string) ([]string, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	var files []string
	walkErr := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." || strings.HasPrefix(path, ".") {
			return nil
		}
		if d.IsDir() {
			path += "/"
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "failed to list archive %s", archivePath)
	}

	sort.Strings(files)
	return files, nil
}
