package javaapi

import "strings"

// TypeKind distinguishes classes from interfaces.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
)

// MemberKind identifies what kind of type member this is.
type MemberKind string

const (
	MemberField       MemberKind = "field"
	MemberMethod      MemberKind = "method"
	MemberConstructor MemberKind = "constructor"
)

// Provenance records which loaded file an entity came from.
type Provenance struct {
	FileID    string `json:"file_id"`
	SourceURI string `json:"source_uri"`
}

// API is one loaded snapshot of a Java API surface.
type API struct {
	Packages []*Package
}

// Package groups the types of one Java package.
type Package struct {
	Name  string
	Types []*Type
}

// Type is a class or an interface.
type Type struct {
	Kind    TypeKind
	Name    string
	Package *Package

	Abstract       bool
	Final          bool
	Static         bool
	Visibility     string
	Extends        string
	Implements     []string
	TypeParameters []string
	JNISignature   string
	APISince       int

	Members []*Member
	Source  *Provenance
}

// Parameter is one method or constructor parameter.
type Parameter struct {
	Name string
	Type string
}

// Member is a field, method or constructor. Type is only meaningful for
// fields; Return and Parameters only for methods and constructors.
type Member struct {
	Kind   MemberKind
	Name   string
	Parent *Type

	Abstract   bool
	Final      bool
	Static     bool
	Visibility string

	Type       string
	Return     string
	Parameters []Parameter

	JNISignature string
	APISince     int
	Source       *Provenance
}

// FindPackage returns the first package with the given name, or nil.
func (a *API) FindPackage(name string) *Package {
	if a == nil {
		return nil
	}
	for _, p := range a.Packages {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// EnsurePackage returns the named package, appending it if absent.
func (a *API) EnsurePackage(name string) *Package {
	if p := a.FindPackage(name); p != nil {
		return p
	}
	p := &Package{Name: name}
	a.Packages = append(a.Packages, p)
	return p
}

// Merge appends the packages and types of other into a. Packages with the same
// name are combined; types keep their order and are re-parented.
func (a *API) Merge(other *API) {
	if other == nil {
		return
	}
	for _, op := range other.Packages {
		p := a.EnsurePackage(op.Name)
		for _, t := range op.Types {
			p.AddType(t)
		}
	}
}

// TypeCount returns the number of types across all packages.
func (a *API) TypeCount() int {
	n := 0
	for _, p := range a.Packages {
		n += len(p.Types)
	}
	return n
}

// FindType returns the first type with the given name, or nil.
func (p *Package) FindType(name string) *Type {
	if p == nil {
		return nil
	}
	for _, t := range p.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddType appends t and points its parent at p.
func (p *Package) AddType(t *Type) {
	t.Package = p
	p.Types = append(p.Types, t)
}

// FullName is the package-qualified type name.
func (t *Type) FullName() string {
	if t.Package == nil || t.Package.Name == "" {
		return t.Name
	}
	return t.Package.Name + "." + t.Name
}

// AddMember appends m and points its parent at t.
func (t *Type) AddMember(m *Member) {
	m.Parent = t
	t.Members = append(t.Members, m)
}

// MembersOf returns the members of the given kind in declaration order.
func (t *Type) MembersOf(kind MemberKind) []*Member {
	var out []*Member
	for _, m := range t.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ParameterTypes returns the parameter type strings in order.
func (m *Member) ParameterTypes() []string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}

// String renders methods and constructors as "name(T1, T2)" and fields by name.
func (m *Member) String() string {
	switch m.Kind {
	case MemberMethod, MemberConstructor:
		return m.Name + "(" + strings.Join(m.ParameterTypes(), ", ") + ")"
	case MemberField:
		return m.Name
	default:
		return m.Name
	}
}

// FullName is the member name qualified with its declaring type.
func (m *Member) FullName() string {
	if m.Parent == nil {
		return m.String()
	}
	return m.Parent.FullName() + "." + m.String()
}
