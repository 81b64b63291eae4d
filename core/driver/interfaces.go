package driver

import (
	"context"

	"github.com/emenda-labs/classbrowser/core/report"
	"github.com/emenda-labs/classbrowser/drivers/java/apidiff"
	"github.com/emenda-labs/classbrowser/drivers/java/javaapi"
)

// APILoader is the interface each API source format implements.
type APILoader interface {
	// Load reads one or more files into a single merged API snapshot.
	// Entities carry the provenance of the file they were read from.
	Load(ctx context.Context, files []string) (*javaapi.API, error)

	// Compare diffs a reference snapshot against a target snapshot and wraps
	// the discrepancies with the file lists they were loaded from.
	Compare(reference, target Snapshot, opts apidiff.Options) report.Comparison
}

// Snapshot is a loaded API together with where it came from.
type Snapshot struct {
	API     *javaapi.API
	Files   []string
	Version string
}
