package ingest

import (
	"slices"
	"sort"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/model"
	"github.com/glorpus-work/repod/pkg/pkginfo"
	"github.com/glorpus-work/repod/pkg/version"
)

// stagedArchive is one inbound archive together with its inspection
// results.
type stagedArchive struct {
	repo     string
	path     string
	filename string

	info  pkginfo.RawInfo
	files []string
}

// aggregate groups one repository's staged archives by pkgbase. The first
// archive of a group establishes its version, makedepends and checkdepends;
// every later archive of the group must agree bit-for-bit. Packages are
// appended in processing order.
func aggregate(archives []*stagedArchive) (model.RepoMetadata, error) {
	meta := make(model.RepoMetadata)
	for _, archive := range archives {
		name, err := archive.info.First("pkgname")
		if err != nil {
			return nil, errors.Wrapf(err, "archive %s", archive.filename)
		}
		pkgver, err := archive.info.First("pkgver")
		if err != nil {
			return nil, errors.Wrapf(err, "archive %s", archive.filename)
		}
		pkgbase := archive.info.FirstOr("pkgbase", name)
		makeDepends := archive.info.Values("makedepend")
		checkDepends := archive.info.Values("checkdepend")

		group, seen := meta[pkgbase]
		if !seen {
			group = &model.PkgbaseRecord{
				Pkgbase:      pkgbase,
				Version:      pkgver,
				MakeDepends:  makeDepends,
				CheckDepends: checkDepends,
			}
			meta[pkgbase] = group
		} else if group.Version != pkgver ||
			!slices.Equal(group.MakeDepends, makeDepends) ||
			!slices.Equal(group.CheckDepends, checkDepends) {
			return nil, errors.Wrapf(errors.ErrInconsistentPkgbase,
				"package %s disagrees with pkgbase %s", name, pkgbase)
		}

		pkg, err := buildPackage(archive.path, archive.info, archive.files)
		if err != nil {
			return nil, errors.Wrapf(err, "archive %s", archive.filename)
		}
		group.Packages = append(group.Packages, *pkg)
	}
	return meta, nil
}

// guardVersions enforces strictly increasing versions per pkgbase against
// the current on-disk metadata. Groups without a prior record are exempt.
func guardVersions(repo string, current, incoming model.RepoMetadata) error {
	pkgbases := make([]string, 0, len(incoming))
	for pkgbase := range incoming {
		pkgbases = append(pkgbases, pkgbase)
	}
	sort.Strings(pkgbases)

	for _, pkgbase := range pkgbases {
		existing, ok := current[pkgbase]
		if !ok {
			continue
		}
		if !version.Newer(incoming[pkgbase].Version, existing.Version) {
			return errors.Wrapf(errors.ErrVersionNotIncreased,
				"%s/%s: %s does not supersede %s",
				repo, pkgbase, incoming[pkgbase].Version, existing.Version)
		}
	}
	return nil
}
