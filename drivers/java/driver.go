package java

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/emenda-labs/classbrowser/core/driver"
	"github.com/emenda-labs/classbrowser/core/report"
	"github.com/emenda-labs/classbrowser/drivers/java/apidiff"
	"github.com/emenda-labs/classbrowser/drivers/java/apixml"
	"github.com/emenda-labs/classbrowser/drivers/java/bindings"
	"github.com/emenda-labs/classbrowser/drivers/java/javaapi"
)

var _ driver.APILoader = (*Driver)(nil)

// ErrUnsupportedFormat is returned for binary artifacts that must first be
// converted to an api.xml description or a registration manifest.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// LoadedFile pairs a file id with the path it was assigned to.
type LoadedFile struct {
	ID   string
	Path string
}

// Driver implements driver.APILoader for Java API descriptions.
type Driver struct {
	bindings *bindings.Loader

	mu      sync.Mutex
	fileIDs map[string]string
	files   []LoadedFile
}

// NewDriver creates a Driver with no files registered.
func NewDriver() *Driver {
	return &Driver{
		bindings: bindings.NewLoader(),
		fileIDs:  make(map[string]string),
	}
}

// Load reads every file into one merged API. Packages with the same name are
// combined in first-seen order.
func (d *Driver) Load(ctx context.Context, files []string) (*javaapi.API, error) {
	api := &javaapi.API{}
	for _, file := range files {
		loaded, err := d.LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		api.Merge(loaded)
	}
	return api, nil
}

// LoadFile reads a single file, dispatching on its extension. Unknown
// extensions are read as api.xml.
func (d *Driver) LoadFile(ctx context.Context, file string) (*javaapi.API, error) {
	src := &javaapi.Provenance{FileID: d.fileID(file), SourceURI: file}

	slog.DebugContext(ctx, "loading api source", "file", file, "id", src.FileID)

	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".apk", ".aar", ".jar", ".dex", ".dll":
		return nil, errors.Errorf("%s: %w: %s archives and assemblies are not read directly", file, ErrUnsupportedFormat, ext)
	case ".yaml", ".yml", ".json":
		return d.bindings.LoadFile(ctx, file, src)
	default:
		return apixml.LoadFile(ctx, file, src)
	}
}

// Compare runs the API differ over two loaded snapshots.
func (d *Driver) Compare(reference, target driver.Snapshot, opts apidiff.Options) report.Comparison {
	reports := apidiff.Compare(reference.API, target.API, opts)
	if reports == nil {
		reports = []report.Report{}
	}
	return report.Comparison{
		Reference:        reference.Files,
		Target:           target.Files,
		ReferenceVersion: reference.Version,
		TargetVersion:    target.Version,
		Reports:          reports,
	}
}

// Files lists the files seen so far in the order their ids were assigned.
func (d *Driver) Files() []LoadedFile {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]LoadedFile, len(d.files))
	copy(out, d.files)
	return out
}

// Clear forgets all assigned file ids.
func (d *Driver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fileIDs = make(map[string]string)
	d.files = nil
}

// fileID returns the id for file, assigning the next sequence number on first use.
func (d *Driver) fileID(file string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.fileIDs[file]; ok {
		return id
	}
	id := strconv.Itoa(len(d.fileIDs))
	d.fileIDs[file] = id
	d.files = append(d.files, LoadedFile{ID: id, Path: file})
	return id
}
