package apixml

import (
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gitlab.com/tozd/go/errors"

	"github.com/emenda-labs/classbrowser/drivers/java/javaapi"
	"github.com/emenda-labs/classbrowser/drivers/java/jnisig"
)

// xmlType is a <class> or <interface> element.
type xmlType struct {
	XMLName        xml.Name
	Name           string      `xml:"name,attr"`
	Abstract       string      `xml:"abstract,attr"`
	Final          string      `xml:"final,attr"`
	Static         string      `xml:"static,attr"`
	Visibility     string      `xml:"visibility,attr"`
	Extends        string      `xml:"extends,attr"`
	JNISignature   string      `xml:"jni-signature,attr"`
	APISince       string      `xml:"api-since,attr"`
	Implements     []xmlNamed  `xml:"implements"`
	TypeParameters []xmlNamed  `xml:"typeParameters>typeParameter"`
	Fields         []xmlField  `xml:"field"`
	Methods        []xmlMethod `xml:"method"`
	Constructors   []xmlMethod `xml:"constructor"`
}

type xmlNamed struct {
	Name string `xml:"name,attr"`
}

type xmlField struct {
	Name         string `xml:"name,attr"`
	Type         string `xml:"type,attr"`
	Final        string `xml:"final,attr"`
	Static       string `xml:"static,attr"`
	Visibility   string `xml:"visibility,attr"`
	JNISignature string `xml:"jni-signature,attr"`
	APISince     string `xml:"api-since,attr"`
}

type xmlMethod struct {
	Name         string         `xml:"name,attr"`
	Return       string         `xml:"return,attr"`
	Abstract     string         `xml:"abstract,attr"`
	Final        string         `xml:"final,attr"`
	Static       string         `xml:"static,attr"`
	Visibility   string         `xml:"visibility,attr"`
	JNISignature string         `xml:"jni-signature,attr"`
	APISince     string         `xml:"api-since,attr"`
	Parameters   []xmlParameter `xml:"parameter"`
}

type xmlParameter struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string, source *javaapi.Provenance) (*javaapi.API, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	api, err := Load(ctx, f, source)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}
	return api, nil
}

// Load reads an api.xml document. Packages and types keep document order;
// members keep their order within each kind. source, when non-nil, is
// attached to every type and member.
func Load(ctx context.Context, r io.Reader, source *javaapi.Provenance) (*javaapi.API, error) {
	dec := xml.NewDecoder(r)
	api := &javaapi.API{}

	var pkg *javaapi.Package
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading api xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "api":
				// root
			case "package":
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				pkg = api.EnsurePackage(attr(el, "name"))
			case "class", "interface":
				if pkg == nil {
					return nil, errors.Errorf("<%s> outside of <package> at offset %d", el.Name.Local, dec.InputOffset())
				}
				var xt xmlType
				if err := dec.DecodeElement(&xt, &el); err != nil {
					return nil, errors.Errorf("decoding %s in package %s: %w", el.Name.Local, pkg.Name, err)
				}
				t, err := collectType(xt, source)
				if err != nil {
					return nil, errors.Errorf("package %s: %w", pkg.Name, err)
				}
				pkg.AddType(t)
			default:
				if err := dec.Skip(); err != nil {
					return nil, errors.Errorf("skipping <%s>: %w", el.Name.Local, err)
				}
			}
		case xml.EndElement:
			if el.Name.Local == "package" {
				pkg = nil
			}
		}
	}

	slog.DebugContext(ctx, "loaded api xml", "packages", len(api.Packages), "types", api.TypeCount())
	return api, nil
}

func collectType(xt xmlType, source *javaapi.Provenance) (*javaapi.Type, error) {
	kind := javaapi.KindClass
	if xt.XMLName.Local == "interface" {
		kind = javaapi.KindInterface
	}

	t := &javaapi.Type{
		Kind:         kind,
		Name:         xt.Name,
		Abstract:     parseBool(xt.Abstract),
		Final:        parseBool(xt.Final),
		Static:       parseBool(xt.Static),
		Visibility:   xt.Visibility,
		Extends:      xt.Extends,
		JNISignature: xt.JNISignature,
		APISince:     parseInt(xt.APISince),
		Source:       source,
	}
	for _, impl := range xt.Implements {
		t.Implements = append(t.Implements, impl.Name)
	}
	for _, tp := range xt.TypeParameters {
		t.TypeParameters = append(t.TypeParameters, tp.Name)
	}

	for _, xf := range xt.Fields {
		t.AddMember(&javaapi.Member{
			Kind:         javaapi.MemberField,
			Name:         xf.Name,
			Type:         xf.Type,
			Final:        parseBool(xf.Final),
			Static:       parseBool(xf.Static),
			Visibility:   xf.Visibility,
			JNISignature: xf.JNISignature,
			APISince:     parseInt(xf.APISince),
			Source:       source,
		})
	}

	for _, xm := range xt.Methods {
		m, err := collectMethod(javaapi.MemberMethod, xm, source)
		if err != nil {
			return nil, errors.Errorf("type %s: %w", xt.Name, err)
		}
		t.AddMember(m)
	}

	for _, xc := range xt.Constructors {
		c, err := collectMethod(javaapi.MemberConstructor, xc, source)
		if err != nil {
			return nil, errors.Errorf("type %s: %w", xt.Name, err)
		}
		if c.Name == "" {
			c.Name = xt.Name
		}
		t.AddMember(c)
	}

	return t, nil
}

// collectMethod builds a method or constructor. A jni-signature attribute is
// decoded to validate it and to supply the return type when none is given.
func collectMethod(kind javaapi.MemberKind, xm xmlMethod, source *javaapi.Provenance) (*javaapi.Member, error) {
	m := &javaapi.Member{
		Kind:         kind,
		Name:         xm.Name,
		Return:       xm.Return,
		Abstract:     parseBool(xm.Abstract),
		Final:        parseBool(xm.Final),
		Static:       parseBool(xm.Static),
		Visibility:   xm.Visibility,
		JNISignature: xm.JNISignature,
		APISince:     parseInt(xm.APISince),
		Source:       source,
	}
	for _, xp := range xm.Parameters {
		m.Parameters = append(m.Parameters, javaapi.Parameter{Name: xp.Name, Type: xp.Type})
	}

	if xm.JNISignature == "" {
		return m, nil
	}

	sig, err := jnisig.ParseMethod(xm.JNISignature)
	if err != nil {
		return nil, errors.Errorf("%s %s: %w", kind, xm.Name, err)
	}
	if kind == javaapi.MemberMethod && m.Return == "" {
		m.Return = sig.Return.JavaName()
	}
	if len(m.Parameters) == 0 {
		for i, name := range sig.ParamNames() {
			m.Parameters = append(m.Parameters, javaapi.Parameter{Name: "p" + strconv.Itoa(i), Type: name})
		}
	}
	return m, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func parseBool(s string) bool {
	return s == "true"
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
