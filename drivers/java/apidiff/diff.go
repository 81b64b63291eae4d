package apidiff

import (
	"fmt"

	"github.com/emenda-labs/classbrowser/core/report"
	"github.com/emenda-labs/classbrowser/drivers/java/javaapi"
)

const javaLangObject = "java.lang.Object"

// Options selects the optional checks of Compare.
type Options struct {
	// IgnoreSystemObjectOverrides skips hashCode(), toString() and
	// equals(java.lang.Object) in the missing-method check.
	IgnoreSystemObjectOverrides bool `yaml:"ignore_object_overrides"`

	// CompareFieldStatic adds the static flag to field property checks.
	CompareFieldStatic bool `yaml:"field_static"`

	// CompareTypeProperties checks abstract, final, static, visibility and
	// the JNI signature of every type present on both sides.
	CompareTypeProperties bool `yaml:"type_properties"`

	// CompareImplements reports interfaces the target type no longer implements.
	CompareImplements bool `yaml:"implements"`

	// CompareTypeParameters reports type parameters missing from the target type.
	CompareTypeParameters bool `yaml:"type_parameters"`
}

// compareState holds the options and the reports collected so far.
type compareState struct {
	opts    Options
	reports []report.Report
}

// Compare walks every type of reference and reports what target lacks or
// declares differently. Reports follow the reference order: package, type,
// then type-level checks, fields, methods and constructors.
func Compare(reference, target *javaapi.API, opts Options) []report.Report {
	s := &compareState{opts: opts}
	if reference == nil {
		return s.reports
	}

	for _, rpkg := range reference.Packages {
		tpkg := target.FindPackage(rpkg.Name)
		for _, rtype := range rpkg.Types {
			ttype := tpkg.FindType(rtype.Name)
			if ttype == nil {
				s.emit(report.MissingType, rtype.FullName(), rtype.Source,
					"Type `%s` does not exist in the target API.", rtype.FullName())
				continue
			}
			s.compareType(rtype, ttype)
		}
	}

	return s.reports
}

func (s *compareState) emit(issue report.IssueKind, entity string, src *javaapi.Provenance, format string, args ...any) {
	r := report.Report{
		Issue:   issue,
		Message: fmt.Sprintf(format, args...),
		Entity:  entity,
	}
	if src != nil {
		r.Source = src.SourceURI
	}
	s.reports = append(s.reports, r)
}

func (s *compareState) compareType(rtype, ttype *javaapi.Type) {
	if s.opts.CompareTypeProperties {
		name := rtype.FullName()
		compareProperty(s, report.TypePropertyMismatch, name, rtype.Source, "Abstract", rtype.Abstract, ttype.Abstract)
		compareProperty(s, report.TypePropertyMismatch, name, rtype.Source, "Final", rtype.Final, ttype.Final)
		compareProperty(s, report.TypePropertyMismatch, name, rtype.Source, "Static", rtype.Static, ttype.Static)
		compareProperty(s, report.TypePropertyMismatch, name, rtype.Source, "Visibility", rtype.Visibility, ttype.Visibility)
		compareProperty(s, report.TypePropertyMismatch, name, rtype.Source, "JniSignature", rtype.JNISignature, ttype.JNISignature)
	}
	if s.opts.CompareImplements {
		s.compareImplements(rtype, ttype)
	}
	if s.opts.CompareTypeParameters {
		s.compareTypeParameters(rtype, ttype)
	}

	s.compareFields(rtype, ttype)
	s.compareMethods(rtype, ttype)
	s.compareConstructors(rtype, ttype)
}

func (s *compareState) compareFields(rtype, ttype *javaapi.Type) {
	targets := ttype.MembersOf(javaapi.MemberField)
	for _, rf := range rtype.MembersOf(javaapi.MemberField) {
		tf := findMember(targets, func(m *javaapi.Member) bool { return m.Name == rf.Name })
		if tf == nil {
			s.emit(report.MissingField, rf.FullName(), rf.Source,
				"`%s` misses field `%s`.", ttype.FullName(), rf.Name)
			continue
		}

		name := rf.FullName()
		compareProperty(s, report.FieldPropertyMismatch, name, rf.Source, "Final", rf.Final, tf.Final)
		if s.opts.CompareFieldStatic {
			compareProperty(s, report.FieldPropertyMismatch, name, rf.Source, "Static", rf.Static, tf.Static)
		}
	}
}

func (s *compareState) compareMethods(rtype, ttype *javaapi.Type) {
	targets := ttype.MembersOf(javaapi.MemberMethod)
	for _, rm := range rtype.MembersOf(javaapi.MemberMethod) {
		if s.opts.IgnoreSystemObjectOverrides && isObjectOverride(rm) {
			continue
		}

		tm := findMember(targets, func(m *javaapi.Member) bool {
			return m.Name == rm.Name && isMatchMethod(rm, m)
		})
		if tm == nil {
			s.emit(report.MissingMethod, rm.FullName(), rm.Source,
				"`%s` misses method `%s`.", ttype.FullName(), rm.String())
			continue
		}

		name := rm.FullName()
		compareProperty(s, report.MethodPropertyMismatch, name, rm.Source, "Abstract", rm.Abstract, tm.Abstract)
		compareProperty(s, report.MethodPropertyMismatch, name, rm.Source, "Static", rm.Static, tm.Static)
	}
}

func (s *compareState) compareConstructors(rtype, ttype *javaapi.Type) {
	targets := ttype.MembersOf(javaapi.MemberConstructor)
	for _, rc := range rtype.MembersOf(javaapi.MemberConstructor) {
		tc := findMember(targets, func(m *javaapi.Member) bool {
			return sameParameterTypes(rc, m)
		})
		if tc == nil {
			s.emit(report.MissingConstructor, rc.FullName(), rc.Source,
				"`%s` misses constructor `%s`.", ttype.FullName(), rc.String())
		}
	}
}

func (s *compareState) compareImplements(rtype, ttype *javaapi.Type) {
	have := make(map[string]bool, len(ttype.Implements))
	for _, name := range ttype.Implements {
		have[name] = true
	}
	for _, name := range rtype.Implements {
		if !have[name] {
			s.emit(report.MissingInterfaceImplementation, rtype.FullName(), rtype.Source,
				"`%s` does not implement interface `%s`.", ttype.FullName(), name)
		}
	}
}

func (s *compareState) compareTypeParameters(rtype, ttype *javaapi.Type) {
	if len(rtype.TypeParameters) == 0 {
		return
	}
	if len(ttype.TypeParameters) == 0 {
		s.emit(report.MissingTypeParameter, rtype.FullName(), rtype.Source,
			"`%s` does not have any type parameter.", ttype.FullName())
		return
	}

	have := make(map[string]bool, len(ttype.TypeParameters))
	for _, name := range ttype.TypeParameters {
		have[name] = true
	}
	for _, name := range rtype.TypeParameters {
		if !have[name] {
			s.emit(report.MissingTypeParameter, rtype.FullName(), rtype.Source,
				"`%s` does not have type parameter `%s`.", ttype.FullName(), name)
		}
	}
}

// compareProperty emits one report when the two values differ. Absent string
// attributes are empty on both sides and therefore never conflict.
func compareProperty[T comparable](s *compareState, issue report.IssueKind, entity string, src *javaapi.Provenance, property string, expected, actual T) {
	if expected == actual {
		return
	}
	s.emit(issue, entity, src, "`%s` - `%s`: expected `%v`, got `%v`.", entity, property, expected, actual)
}

func findMember(candidates []*javaapi.Member, match func(*javaapi.Member) bool) *javaapi.Member {
	for _, m := range candidates {
		if match(m) {
			return m
		}
	}
	return nil
}

// isMatchMethod compares return type and parameter types; names are matched by the caller.
func isMatchMethod(reference, target *javaapi.Member) bool {
	return reference.Return == target.Return && sameParameterTypes(reference, target)
}

func sameParameterTypes(reference, target *javaapi.Member) bool {
	if len(reference.Parameters) != len(target.Parameters) {
		return false
	}
	for i := range reference.Parameters {
		if reference.Parameters[i].Type != target.Parameters[i].Type {
			return false
		}
	}
	return true
}

// isObjectOverride reports whether m is one of the java.lang.Object methods
// every type provides.
func isObjectOverride(m *javaapi.Member) bool {
	switch m.Name {
	case "hashCode", "toString":
		return len(m.Parameters) == 0
	case "equals":
		return len(m.Parameters) == 1 && m.Parameters[0].Type == javaLangObject
	default:
		return false
	}
}
