package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/model"
	"github.com/glorpus-work/repod/pkg/pkginfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stageArchive writes an archive file plus its detached signature and
// returns a stagedArchive carrying the parsed metadata.
func stageArchive(t *testing.T, dir, filename, infoText string, files []string) *stagedArchive {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(path+SigExt, []byte("sigbytes"), 0o644))
	return &stagedArchive{
		repo:     "core",
		path:     path,
		filename: filename,
		info:     pkginfo.Parse(infoText),
		files:    files,
	}
}

const fooInfo = `pkgname = foo
pkgbase = foo
pkgver = 1.0-1
pkgdesc = the foo tool
url = https://example.org
arch = x86_64
builddate = 1700000000
packager = Jane Doe <jane@example.org>
size = 8192
license = GPL
depend = glibc
makedepend = gcc
`

func TestBuildPackage(t *testing.T) {
	archive := stageArchive(t, t.TempDir(), "foo-1.0-1-x86_64.pkg.tar.xz", fooInfo,
		[]string{"usr/", "usr/bin/", "usr/bin/foo"})

	pkg, err := buildPackage(archive.path, archive.info, archive.files)
	require.NoError(t, err)

	assert.Equal(t, "foo-1.0-1-x86_64.pkg.tar.xz", pkg.Filename)
	assert.Equal(t, "foo", pkg.Name)
	assert.Equal(t, "the foo tool", pkg.Desc)
	assert.Equal(t, "x86_64", pkg.Arch)
	assert.Equal(t, int64(1700000000), pkg.BuildDate)
	assert.Equal(t, int64(8192), pkg.ISize)
	assert.Equal(t, int64(5), pkg.CSize, "compressed size comes from the archive file")
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", pkg.MD5Sum)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", pkg.SHA256Sum)
	assert.Equal(t, "c2lnYnl0ZXM=", pkg.PGPSig, "signature is base64 of the raw sig bytes")
	assert.Equal(t, []string{"usr/", "usr/bin/", "usr/bin/foo"}, pkg.Files)
	assert.Equal(t, []string{"GPL"}, pkg.Licenses)
	assert.Equal(t, []string{"glibc"}, pkg.Depends)
	assert.Nil(t, pkg.OptDepends, "absent list fields stay nil")
}

func TestBuildPackageMissingField(t *testing.T) {
	info := "pkgname = foo\npkgver = 1.0-1\n"
	archive := stageArchive(t, t.TempDir(), "foo-1.0-1-x86_64.pkg.tar.xz", info, nil)

	_, err := buildPackage(archive.path, archive.info, archive.files)
	assert.ErrorIs(t, err, errors.ErrMissingField)
}

func TestAggregateSingleGroup(t *testing.T) {
	dir := t.TempDir()
	archives := []*stagedArchive{
		stageArchive(t, dir, "foo-1.0-1-x86_64.pkg.tar.xz", fooInfo, nil),
	}

	meta, err := aggregate(archives)
	require.NoError(t, err)
	require.Len(t, meta, 1)

	group := meta["foo"]
	assert.Equal(t, "1.0-1", group.Version)
	assert.Equal(t, []string{"gcc"}, group.MakeDepends)
	assert.Nil(t, group.CheckDepends)
	require.Len(t, group.Packages, 1)
	assert.Equal(t, "foo", group.Packages[0].Name)
}

func TestAggregateSplitPackages(t *testing.T) {
	dir := t.TempDir()
	libInfo := `pkgname = libfoo
pkgbase = foo
pkgver = 1.0-1
pkgdesc = the foo library
url = https://example.org
arch = x86_64
builddate = 1700000000
packager = Jane Doe <jane@example.org>
size = 2048
makedepend = gcc
`
	archives := []*stagedArchive{
		stageArchive(t, dir, "foo-1.0-1-x86_64.pkg.tar.xz", fooInfo, nil),
		stageArchive(t, dir, "libfoo-1.0-1-x86_64.pkg.tar.xz", libInfo, nil),
	}

	meta, err := aggregate(archives)
	require.NoError(t, err)
	require.Len(t, meta, 1)

	group := meta["foo"]
	require.Len(t, group.Packages, 2)
	assert.Equal(t, "foo", group.Packages[0].Name, "packages keep processing order")
	assert.Equal(t, "libfoo", group.Packages[1].Name)
}

func TestAggregateInconsistentPkgbase(t *testing.T) {
	libBase := `pkgname = libfoo
pkgbase = foo
pkgdesc = the foo library
url = https://example.org
arch = x86_64
builddate = 1700000000
packager = Jane Doe <jane@example.org>
size = 2048
`
	tests := []struct {
		name  string
		extra string
	}{
		{"different version", "pkgver = 1.0-2\nmakedepend = gcc\n"},
		{"different makedepends", "pkgver = 1.0-1\nmakedepend = clang\n"},
		{"different checkdepends", "pkgver = 1.0-1\nmakedepend = gcc\ncheckdepend = pytest\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archives := []*stagedArchive{
				stageArchive(t, dir, "foo-1.0-1-x86_64.pkg.tar.xz", fooInfo, nil),
				stageArchive(t, dir, "libfoo-1.0-1-x86_64.pkg.tar.xz", libBase+tt.extra, nil),
			}
			_, err := aggregate(archives)
			assert.ErrorIs(t, err, errors.ErrInconsistentPkgbase)
		})
	}
}

func TestAggregatePkgbaseDefaultsToPkgname(t *testing.T) {
	info := `pkgname = solo
pkgver = 2.0-1
pkgdesc = standalone
url = https://example.org
arch = any
builddate = 1700000000
packager = Jane Doe <jane@example.org>
size = 100
`
	archives := []*stagedArchive{
		stageArchive(t, t.TempDir(), "solo-2.0-1-any.pkg.tar.xz", info, nil),
	}

	meta, err := aggregate(archives)
	require.NoError(t, err)
	assert.Contains(t, meta, "solo")
}

func TestGuardVersions(t *testing.T) {
	current := model.RepoMetadata{
		"foo": {Pkgbase: "foo", Version: "1.0-1"},
	}

	t.Run("increase passes", func(t *testing.T) {
		incoming := model.RepoMetadata{"foo": {Pkgbase: "foo", Version: "1.0-2"}}
		assert.NoError(t, guardVersions("core", current, incoming))
	})

	t.Run("same version fails", func(t *testing.T) {
		incoming := model.RepoMetadata{"foo": {Pkgbase: "foo", Version: "1.0-1"}}
		assert.ErrorIs(t, guardVersions("core", current, incoming), errors.ErrVersionNotIncreased)
	})

	t.Run("downgrade fails", func(t *testing.T) {
		incoming := model.RepoMetadata{"foo": {Pkgbase: "foo", Version: "0.9-1"}}
		assert.ErrorIs(t, guardVersions("core", current, incoming), errors.ErrVersionNotIncreased)
	})

	t.Run("first publish is exempt", func(t *testing.T) {
		incoming := model.RepoMetadata{"bar": {Pkgbase: "bar", Version: "0.1-1"}}
		assert.NoError(t, guardVersions("core", current, incoming))
	})
}
