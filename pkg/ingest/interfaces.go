//go:generate mockgen -destination=./mocks/ingest.go . ArchiveInspector,SignatureVerifier

package ingest

import "context"

// ArchiveInspector is the subset of the archive inspector used during
// ingestion.
type ArchiveInspector interface {
	ReadPkgInfo(ctx context.Context, archivePath string) (string, error)
	ListFiles(ctx context.Context, archivePath string) ([]string, error)
}

// SignatureVerifier checks a detached signature against an archive. The
// boolean reports overall success; the token lines carry detailed status.
type SignatureVerifier interface {
	Verify(ctx context.Context, archivePath, sigPath string) (bool, []string, error)
}
