package repodb

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/glorpus-work/repod/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta() model.RepoMetadata {
	return model.RepoMetadata{
		"foo": {
			Pkgbase:     "foo",
			Version:     "1.0-1",
			MakeDepends: []string{"gcc"},
			Packages: []model.PackageRecord{
				{
					Filename:  "foo-1.0-1-x86_64.pkg.tar.xz",
					Name:      "foo",
					Desc:      "the foo tool",
					URL:       "https://example.org/foo",
					Arch:      "x86_64",
					BuildDate: 1700000000,
					Packager:  "Jane Doe <jane@example.org>",
					ISize:     8192,
					CSize:     2048,
					MD5Sum:    "11111111111111111111111111111111",
					SHA256Sum: "2222222222222222222222222222222222222222222222222222222222222222",
					PGPSig:    "c2ln",
					Files:     []string{"usr/", "usr/bin/", "usr/bin/foo"},
					Depends:   []string{"glibc", "zlib"},
					Licenses:  []string{"GPL"},
				},
			},
		},
		"bar": {
			Pkgbase: "bar",
			Version: "2:3.1-4",
			Packages: []model.PackageRecord{
				{
					Filename:  "bar-2:3.1-4-any.pkg.tar.xz",
					Name:      "bar",
					Desc:      "the bar library",
					URL:       "https://example.org/bar",
					Arch:      "any",
					BuildDate: 1700000001,
					Packager:  "Jane Doe <jane@example.org>",
					ISize:     100,
					CSize:     50,
					MD5Sum:    "33333333333333333333333333333333",
					SHA256Sum: "4444444444444444444444444444444444444444444444444444444444444444",
					PGPSig:    "c2ln",
					Files:     []string{"usr/"},
				},
			},
		},
	}
}

// readEntries decompresses a database artifact into entry name -> content.
func readEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(content)
	}
	return entries
}

func TestWriteToEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testMeta()))

	entries := readEntries(t, buf.Bytes())
	require.Contains(t, entries, "foo-1.0-1/")
	require.Contains(t, entries, "foo-1.0-1/desc")
	require.Contains(t, entries, "bar-2:3.1-4/desc")

	desc := entries["foo-1.0-1/desc"]
	assert.Contains(t, desc, "%NAME%\nfoo\n")
	assert.Contains(t, desc, "%VERSION%\n1.0-1\n")
	assert.Contains(t, desc, "%BASE%\nfoo\n")
	assert.Contains(t, desc, "%DEPENDS%\nglibc\nzlib\n")
	assert.Contains(t, desc, "%MAKEDEPENDS%\ngcc\n")
}

func TestWriteToFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testMeta()))

	desc := readEntries(t, buf.Bytes())["foo-1.0-1/desc"]
	order := []string{
		"%FILENAME%", "%NAME%", "%BASE%", "%VERSION%", "%DESC%", "%CSIZE%",
		"%ISIZE%", "%MD5SUM%", "%SHA256SUM%", "%PGPSIG%", "%URL%",
		"%LICENSE%", "%ARCH%", "%BUILDDATE%", "%PACKAGER%", "%DEPENDS%",
		"%MAKEDEPENDS%",
	}
	last := -1
	for _, field := range order {
		pos := strings.Index(desc, field)
		require.GreaterOrEqual(t, pos, 0, "missing %s", field)
		assert.Greater(t, pos, last, "%s out of order", field)
		last = pos
	}
}

func TestWriteToOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testMeta()))

	desc := readEntries(t, buf.Bytes())["bar-2:3.1-4/desc"]
	for _, absent := range []string{"%GROUPS%", "%LICENSE%", "%DEPENDS%", "%MAKEDEPENDS%", "%CHECKDEPENDS%"} {
		assert.NotContains(t, desc, absent)
	}
}

func TestWriteToDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, WriteTo(&first, testMeta()))
	require.NoError(t, WriteTo(&second, testMeta()))

	assert.Equal(t, first.Bytes(), second.Bytes(), "re-serialization is byte-identical")
}

func TestWriterWrite(t *testing.T) {
	dbDir := t.TempDir()
	w := NewWriter(dbDir)

	require.NoError(t, w.Write("core", testMeta()))

	data, err := os.ReadFile(w.DBPath("core"))
	require.NoError(t, err)
	entries := readEntries(t, data)
	assert.Contains(t, entries, "foo-1.0-1/desc")

	// Rewriting an unchanged store replaces the artifact with identical bytes.
	require.NoError(t, w.Write("core", testMeta()))
	again, err := os.ReadFile(w.DBPath("core"))
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestDescSurvivesJSONRoundTrip(t *testing.T) {
	meta := testMeta()

	var direct bytes.Buffer
	require.NoError(t, WriteTo(&direct, meta))

	reloaded := model.RepoMetadata{}
	for pkgbase, record := range meta {
		data, err := json.Marshal(record)
		require.NoError(t, err)
		restored := &model.PkgbaseRecord{}
		require.NoError(t, json.Unmarshal(data, restored))
		reloaded[pkgbase] = restored
	}

	var fromJSON bytes.Buffer
	require.NoError(t, WriteTo(&fromJSON, reloaded))

	assert.Equal(t,
		readEntries(t, direct.Bytes()),
		readEntries(t, fromJSON.Bytes()),
		"desc output is identical after a JSON persistence round trip")
}

func TestWriteEmptyRepo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, model.RepoMetadata{}))

	entries := readEntries(t, buf.Bytes())
	assert.Empty(t, entries, "an emptied repository yields a valid empty database")
}
