// Package model provides the data structures for package and pkgbase
// metadata records maintained by repod.
package model

// PackageRecord is the published metadata of one binary package. Optional
// list fields stay nil when the package declares no values, so they never
// appear in serialized output.
type PackageRecord struct {
	Filename  string   `json:"filename"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc"`
	URL       string   `json:"url"`
	Arch      string   `json:"arch"`
	BuildDate int64    `json:"builddate"`
	Packager  string   `json:"packager"`
	ISize     int64    `json:"isize"`
	CSize     int64    `json:"csize"`
	MD5Sum    string   `json:"md5sum"`
	SHA256Sum string   `json:"sha256sum"`
	PGPSig    string   `json:"pgpsig"`
	Files     []string `json:"files"`

	Licenses   []string `json:"licenses,omitempty"`
	Groups     []string `json:"groups,omitempty"`
	Conflicts  []string `json:"conflicts,omitempty"`
	Provides   []string `json:"provides,omitempty"`
	Replaces   []string `json:"replaces,omitempty"`
	Backup     []string `json:"backup,omitempty"`
	Depends    []string `json:"depends,omitempty"`
	OptDepends []string `json:"optdepends,omitempty"`
}

// PkgbaseRecord is the published metadata of one package group within one
// repository. Packages keeps processing order; it is not sorted.
type PkgbaseRecord struct {
	Pkgbase      string          `json:"pkgbase"`
	Version      string          `json:"version"`
	MakeDepends  []string        `json:"makedepends,omitempty"`
	CheckDepends []string        `json:"checkdepends,omitempty"`
	Packages     []PackageRecord `json:"packages"`
}

// RepoMetadata maps pkgbase to its record for one repository. It is the
// in-memory image of the repository's meta directory.
type RepoMetadata map[string]*PkgbaseRecord

// PackageFilenames returns the archive filenames of every package in the
// record, in package order.
func (r *PkgbaseRecord) PackageFilenames() []string {
	names := make([]string, 0, len(r.Packages))
	for _, pkg := range r.Packages {
		names = append(names, pkg.Filename)
	}
	return names
}
