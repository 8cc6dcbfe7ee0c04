package ingest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"
	"strconv"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/model"
	"github.com/glorpus-work/repod/pkg/pkginfo"
)

// hashChunkSize is the buffer size for streaming the archive through the
// digest functions.
const hashChunkSize = 32 * 1024

// SigExt is the extension of a detached signature file, appended to the
// archive filename.
const SigExt = ".sig"

// buildPackage turns a staged archive plus its parsed metadata and file
// list into a canonical package record.
func buildPackage(archivePath string, info pkginfo.RawInfo, files []string) (*model.PackageRecord, error) {
	name, err := info.First("pkgname")
	if err != nil {
		return nil, err
	}
	desc, err := info.First("pkgdesc")
	if err != nil {
		return nil, err
	}
	url, err := info.First("url")
	if err != nil {
		return nil, err
	}
	arch, err := info.First("arch")
	if err != nil {
		return nil, err
	}
	packager, err := info.First("packager")
	if err != nil {
		return nil, err
	}
	buildDate, err := intField(info, "builddate")
	if err != nil {
		return nil, err
	}
	iSize, err := intField(info, "size")
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", archivePath)
	}
	md5Sum, sha256Sum, err := hashFile(archivePath)
	if err != nil {
		return nil, err
	}
	sigData, err := os.ReadFile(archivePath + SigExt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read signature for %s", archivePath)
	}

	return &model.PackageRecord{
		Filename:   stat.Name(),
		Name:       name,
		Desc:       desc,
		URL:        url,
		Arch:       arch,
		BuildDate:  buildDate,
		Packager:   packager,
		ISize:      iSize,
		CSize:      stat.Size(),
		MD5Sum:     md5Sum,
		SHA256Sum:  sha256Sum,
		PGPSig:     base64.StdEncoding.EncodeToString(sigData),
		Files:      files,
		Licenses:   info.Values("license"),
		Groups:     info.Values("group"),
		Conflicts:  info.Values("conflict"),
		Provides:   info.Values("provides"),
		Replaces:   info.Values("replaces"),
		Backup:     info.Values("backup"),
		Depends:    info.Values("depend"),
		OptDepends: info.Values("optdepend"),
	}, nil
}

func intField(info pkginfo.RawInfo, key string) (int64, error) {
	raw, err := info.First(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "field %q is not an integer", key)
	}
	return value, nil
}

// hashFile streams the file through MD5 and SHA-256 in one pass.
func hashFile(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to open %s for hashing", path)
	}
	defer func() { _ = f.Close() }()

	md5Hash := md5.New()
	sha256Hash := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(io.MultiWriter(md5Hash, sha256Hash), f, buf); err != nil {
		return "", "", errors.Wrapf(err, "failed to hash %s", path)
	}
	return hex.EncodeToString(md5Hash.Sum(nil)), hex.EncodeToString(sha256Hash.Sum(nil)), nil
}
