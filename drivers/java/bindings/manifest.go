// Package bindings builds an API graph from JNI registrations: the Java names
// and JNI signatures that compiled bindings register for their types and members.
package bindings

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/classbrowser/drivers/java/javaapi"
	"github.com/emenda-labs/classbrowser/drivers/java/jnisig"
)

const (
	constructorName   = "<init>"
	signatureCacheLen = 4096
)

// Manifest is the on-disk list of registered types.
type Manifest struct {
	Types []RegisteredType `yaml:"types"`
}

// RegisteredType is one type registration.
type RegisteredType struct {
	Register  string             `yaml:"register"` // internal name, e.g. android/app/Activity
	Managed   string             `yaml:"managed,omitempty"`
	Interface bool               `yaml:"interface,omitempty"`
	Abstract  bool               `yaml:"abstract,omitempty"`
	APISince  int                `yaml:"api-since,omitempty"`
	Members   []RegisteredMember `yaml:"members"`
}

// RegisteredMember is one field, method or constructor registration.
type RegisteredMember struct {
	Register  string `yaml:"register"`
	Signature string `yaml:"signature"`
	Abstract  bool   `yaml:"abstract,omitempty"`
	Static    bool   `yaml:"static,omitempty"`
	Final     bool   `yaml:"final,omitempty"`
	APISince  int    `yaml:"api-since,omitempty"`
}

// Loader turns manifests into API graphs. Decoded method signatures are
// cached across loads.
type Loader struct {
	sigs *lru.Cache[string, jnisig.Method]
}

// NewLoader creates a Loader with an empty signature cache.
func NewLoader() *Loader {
	cache, err := lru.New[string, jnisig.Method](signatureCacheLen)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Loader{sigs: cache}
}

// LoadFile reads a YAML or JSON manifest from path.
func (l *Loader) LoadFile(ctx context.Context, path string, source *javaapi.Provenance) (*javaapi.API, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	api, err := l.Load(ctx, f, source)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}
	return api, nil
}

// Load decodes a manifest and assembles it into an API graph.
func (l *Loader) Load(ctx context.Context, r io.Reader, source *javaapi.Provenance) (*javaapi.API, error) {
	var manifest Manifest
	if err := yaml.NewDecoder(r).Decode(&manifest); err != nil && err != io.EOF {
		return nil, errors.Errorf("decoding manifest: %w", err)
	}
	return l.Build(ctx, manifest, source)
}

// Build assembles an API graph from an already decoded manifest. Invoker and
// Implementor helper types are skipped.
func (l *Loader) Build(ctx context.Context, manifest Manifest, source *javaapi.Provenance) (*javaapi.API, error) {
	api := &javaapi.API{}

	for i, rt := range manifest.Types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isHelperType(rt.Managed) {
			slog.DebugContext(ctx, "skipping helper type", "managed", rt.Managed)
			continue
		}
		if rt.Register == "" {
			return nil, errors.Errorf("types[%d]: missing register name", i)
		}

		pkgName, typeName := splitTypeName(rt.Register)
		kind := javaapi.KindClass
		if rt.Interface {
			kind = javaapi.KindInterface
		}

		t := &javaapi.Type{
			Kind:         kind,
			Name:         typeName,
			Abstract:     rt.Abstract || rt.Interface,
			JNISignature: "L" + rt.Register + ";",
			APISince:     rt.APISince,
			Source:       source,
		}

		for j, rm := range rt.Members {
			m, err := l.buildMember(rm, source)
			if err != nil {
				return nil, errors.Errorf("types[%d] %s members[%d] %s: %w", i, rt.Register, j, rm.Register, err)
			}
			if m.Kind == javaapi.MemberConstructor {
				m.Name = typeName
			}
			t.AddMember(m)
		}

		api.EnsurePackage(pkgName).AddType(t)
	}

	slog.DebugContext(ctx, "built api from registrations", "packages", len(api.Packages), "types", api.TypeCount())
	return api, nil
}

func (l *Loader) buildMember(rm RegisteredMember, source *javaapi.Provenance) (*javaapi.Member, error) {
	m := &javaapi.Member{
		Name:         rm.Register,
		Abstract:     rm.Abstract,
		Static:       rm.Static,
		Final:        rm.Final,
		JNISignature: rm.Signature,
		APISince:     rm.APISince,
		Source:       source,
	}

	if !strings.HasPrefix(rm.Signature, "(") {
		ft, next, err := jnisig.DecodeSingle(rm.Signature, 0)
		if err != nil {
			return nil, err
		}
		if next != len(rm.Signature) {
			return nil, &jnisig.MalformedSignatureError{Text: rm.Signature, Pos: next, Char: rm.Signature[next]}
		}
		m.Kind = javaapi.MemberField
		m.Type = ft.JavaName()
		return m, nil
	}

	sig, err := l.parseMethod(rm.Signature)
	if err != nil {
		return nil, err
	}

	m.Kind = javaapi.MemberMethod
	if rm.Register == constructorName {
		m.Kind = javaapi.MemberConstructor
	} else {
		m.Return = sig.Return.JavaName()
	}
	for i, name := range sig.ParamNames() {
		m.Parameters = append(m.Parameters, javaapi.Parameter{Name: "p" + strconv.Itoa(i), Type: name})
	}
	return m, nil
}

func (l *Loader) parseMethod(descriptor string) (jnisig.Method, error) {
	if sig, ok := l.sigs.Get(descriptor); ok {
		return sig, nil
	}
	sig, err := jnisig.ParseMethod(descriptor)
	if err != nil {
		return jnisig.Method{}, err
	}
	l.sigs.Add(descriptor, sig)
	return sig, nil
}

// splitTypeName derives the dotted package and the type name from an internal
// name; nested-class separators in the type name become dots.
func splitTypeName(register string) (pkg, name string) {
	idx := strings.LastIndexByte(register, '/')
	if idx < 0 {
		return "", strings.ReplaceAll(register, "$", ".")
	}
	return strings.ReplaceAll(register[:idx], "/", "."), strings.ReplaceAll(register[idx+1:], "$", ".")
}

func isHelperType(managed string) bool {
	return strings.HasSuffix(managed, "Invoker") || strings.HasSuffix(managed, "Implementor")
}
