// Package repodb serializes repository metadata into the binary database
// artifact consumed by package-manager clients: a gzip-compressed tar
// holding one desc file per package.
package repodb

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/fsutil"
	"github.com/glorpus-work/repod/pkg/model"
)

// DBExt is the file extension of the database artifact.
const DBExt = ".db.tar.gz"

// descField is one rendered block of a desc file.
type descField struct {
	name   string
	values []string
}

// Writer produces <repo>.db.tar.gz artifacts in a database directory.
type Writer struct {
	dbDir string
}

// NewWriter creates a Writer targeting dbDir.
func NewWriter(dbDir string) *Writer {
	return &Writer{dbDir: dbDir}
}

// DBPath returns the artifact path for a repository.
func (w *Writer) DBPath(repo string) string {
	return filepath.Join(w.dbDir, repo+DBExt)
}

// Write serializes the repository's metadata and replaces its database
// artifact. The artifact is written to a temp file and renamed so readers
// never observe a torn database.
func (w *Writer) Write(repo string, meta model.RepoMetadata) error {
	if err := os.MkdirAll(w.dbDir, fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create database directory %s", w.dbDir)
	}

	tmp, err := os.CreateTemp(w.dbDir, "."+repo+"-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp database for %s", repo)
	}
	tmpName := tmp.Name()

	if err := WriteTo(tmp, meta); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to serialize database for %s", repo)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, fsutil.FileModeDefault); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, w.DBPath(repo)); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to rename %s", tmpName)
	}
	return nil
}

// WriteTo serializes the repository metadata as a gzip-compressed tar into
// out. Groups are emitted sorted by pkgbase, packages in record order, with
// fixed header metadata, so the same input always produces the same bytes.
func WriteTo(out io.Writer, meta model.RepoMetadata) error {
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	pkgbases := make([]string, 0, len(meta))
	for pkgbase := range meta {
		pkgbases = append(pkgbases, pkgbase)
	}
	sort.Strings(pkgbases)

	mtime := time.Unix(0, 0)
	for _, pkgbase := range pkgbases {
		group := meta[pkgbase]
		for i := range group.Packages {
			pkg := &group.Packages[i]
			entryDir := pkg.Name + "-" + group.Version

			if err := tw.WriteHeader(&tar.Header{
				Name:     entryDir + "/",
				Typeflag: tar.TypeDir,
				Mode:     int64(fsutil.DirModeDefault),
				ModTime:  mtime,
			}); err != nil {
				return err
			}

			desc := renderDesc(group, pkg)
			if err := tw.WriteHeader(&tar.Header{
				Name:     entryDir + "/desc",
				Typeflag: tar.TypeReg,
				Mode:     int64(fsutil.FileModeDefault),
				Size:     int64(len(desc)),
				ModTime:  mtime,
			}); err != nil {
				return err
			}
			if _, err := io.WriteString(tw, desc); err != nil {
				return err
			}
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// renderDesc emits the desc blocks for one package in the fixed field
// order. A field with no values is omitted entirely.
func renderDesc(group *model.PkgbaseRecord, pkg *model.PackageRecord) string {
	fields := []descField{
		{"FILENAME", []string{pkg.Filename}},
		{"NAME", []string{pkg.Name}},
		{"BASE", []string{group.Pkgbase}},
		{"VERSION", []string{group.Version}},
		{"DESC", []string{pkg.Desc}},
		{"GROUPS", pkg.Groups},
		{"CSIZE", []string{strconv.FormatInt(pkg.CSize, 10)}},
		{"ISIZE", []string{strconv.FormatInt(pkg.ISize, 10)}},
		{"MD5SUM", []string{pkg.MD5Sum}},
		{"SHA256SUM", []string{pkg.SHA256Sum}},
		{"PGPSIG", []string{pkg.PGPSig}},
		{"URL", []string{pkg.URL}},
		{"LICENSE", pkg.Licenses},
		{"ARCH", []string{pkg.Arch}},
		{"BUILDDATE", []string{strconv.FormatInt(pkg.BuildDate, 10)}},
		{"PACKAGER", []string{pkg.Packager}},
		{"REPLACES", pkg.Replaces},
		{"CONFLICTS", pkg.Conflicts},
		{"PROVIDES", pkg.Provides},
		{"DEPENDS", pkg.Depends},
		{"OPTDEPENDS", pkg.OptDepends},
		{"MAKEDEPENDS", group.MakeDepends},
		{"CHECKDEPENDS", group.CheckDepends},
	}

	var b strings.Builder
	for _, field := range fields {
		if len(field.values) == 0 || (len(field.values) == 1 && field.values[0] == "") {
			continue
		}
		fmt.Fprintf(&b, "%%%s%%\n", field.name)
		for _, value := range field.values {
			b.WriteString(value)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
