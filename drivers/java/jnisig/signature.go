package jnisig

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Kind identifies the shape of a decoded JNI type.
type Kind int

const (
	Boolean Kind = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
	Array
	Reference
)

var primitiveByCode = map[byte]Kind{
	'Z': Boolean,
	'B': Byte,
	'C': Char,
	'S': Short,
	'I': Int,
	'J': Long,
	'F': Float,
	'D': Double,
	'V': Void,
}

var primitiveInfo = map[Kind]struct {
	code byte
	name string
}{
	Boolean: {'Z', "boolean"},
	Byte:    {'B', "byte"},
	Char:    {'C', "char"},
	Short:   {'S', "short"},
	Int:     {'I', "int"},
	Long:    {'J', "long"},
	Float:   {'F', "float"},
	Double:  {'D', "double"},
	Void:    {'V', "void"},
}

// ErrMalformedSignature is matched by every *MalformedSignatureError.
var ErrMalformedSignature = errors.New("malformed JNI signature")

// MalformedSignatureError reports the character and position where decoding failed.
// Char is zero when the descriptor ended early.
type MalformedSignatureError struct {
	Text string
	Pos  int
	Char byte
}

func (e *MalformedSignatureError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("malformed JNI signature %q: unexpected end at position %d", e.Text, e.Pos)
	}
	return fmt.Sprintf("malformed JNI signature %q: unexpected %q at position %d", e.Text, e.Char, e.Pos)
}

func (e *MalformedSignatureError) Is(target error) bool {
	return target == ErrMalformedSignature
}

func malformed(text string, pos int) error {
	var c byte
	if pos < len(text) {
		c = text[pos]
	}
	return &MalformedSignatureError{Text: text, Pos: pos, Char: c}
}

// Type is a decoded JNI type. Elem is set for arrays, Name for references.
type Type struct {
	Kind Kind
	Elem *Type
	Name string // dotted, e.g. "java.lang.String" or "android.view.View$OnClickListener"
}

// Method holds the decoded parameter and return types of a method descriptor.
type Method struct {
	Params []Type
	Return Type
}

// DecodeSingle decodes one type starting at pos and returns it together with
// the position just past the consumed characters.
func DecodeSingle(text string, pos int) (Type, int, error) {
	if pos < 0 || pos >= len(text) {
		return Type{}, pos, malformed(text, pos)
	}

	c := text[pos]
	if kind, ok := primitiveByCode[c]; ok {
		return Type{Kind: kind}, pos + 1, nil
	}

	switch c {
	case '[':
		elem, next, err := DecodeSingle(text, pos+1)
		if err != nil {
			return Type{}, next, err
		}
		return Type{Kind: Array, Elem: &elem}, next, nil

	case 'L':
		end := strings.IndexByte(text[pos+1:], ';')
		if end < 0 {
			return Type{}, pos, malformed(text, len(text))
		}
		internal := text[pos+1 : pos+1+end]
		if internal == "" {
			return Type{}, pos, malformed(text, pos+1)
		}
		return Type{Kind: Reference, Name: strings.ReplaceAll(internal, "/", ".")}, pos + end + 2, nil

	default:
		return Type{}, pos, malformed(text, pos)
	}
}

// DecodeParameterBlock decodes every type in text, which is the content between
// the parentheses of a method descriptor. An empty block yields no types.
func DecodeParameterBlock(text string) ([]Type, error) {
	params := []Type{}
	for pos := 0; pos < len(text); {
		t, next, err := DecodeSingle(text, pos)
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		pos = next
	}
	return params, nil
}

// ParseMethod decodes a full method descriptor such as "(I[Ljava/lang/String;)V".
func ParseMethod(descriptor string) (Method, error) {
	if !strings.HasPrefix(descriptor, "(") {
		return Method{}, malformed(descriptor, 0)
	}
	closing := strings.IndexByte(descriptor, ')')
	if closing < 0 {
		return Method{}, malformed(descriptor, len(descriptor))
	}

	params, err := DecodeParameterBlock(descriptor[1:closing])
	if err != nil {
		// Report the position within the full descriptor.
		var me *MalformedSignatureError
		if errors.As(err, &me) {
			return Method{}, &MalformedSignatureError{Text: descriptor, Pos: me.Pos + 1, Char: me.Char}
		}
		return Method{}, err
	}

	ret, next, err := DecodeSingle(descriptor, closing+1)
	if err != nil {
		return Method{}, err
	}
	if next != len(descriptor) {
		return Method{}, malformed(descriptor, next)
	}

	return Method{Params: params, Return: ret}, nil
}

// NormalizeNested replaces nested-class separators with dots.
func NormalizeNested(descriptor string) string {
	return strings.ReplaceAll(descriptor, "$", ".")
}

// IsPrimitive reports whether t is one of the nine primitive kinds.
func (t Type) IsPrimitive() bool {
	_, ok := primitiveInfo[t.Kind]
	return ok
}

// Descriptor re-encodes t into its JNI form.
func (t Type) Descriptor() string {
	switch t.Kind {
	case Array:
		if t.Elem == nil {
			return "["
		}
		return "[" + t.Elem.Descriptor()
	case Reference:
		return "L" + strings.ReplaceAll(t.Name, ".", "/") + ";"
	default:
		return string(primitiveInfo[t.Kind].code)
	}
}

// JavaName renders t the way Java source and api.xml spell it:
// "int", "java.lang.String[]", "android.view.View.OnClickListener".
func (t Type) JavaName() string {
	switch t.Kind {
	case Array:
		if t.Elem == nil {
			return "[]"
		}
		return t.Elem.JavaName() + "[]"
	case Reference:
		return strings.ReplaceAll(t.Name, "$", ".")
	default:
		return primitiveInfo[t.Kind].name
	}
}

func (t Type) String() string {
	return t.JavaName()
}

// Descriptor re-encodes m into "(params)return" form.
func (m Method) Descriptor() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Params {
		b.WriteString(p.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(m.Return.Descriptor())
	return b.String()
}

// ParamNames returns the Java names of the parameter types in order.
func (m Method) ParamNames() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.JavaName()
	}
	return names
}

// String renders m as "(int, java.lang.String[]) void".
func (m Method) String() string {
	return "(" + strings.Join(m.ParamNames(), ", ") + ") " + m.Return.JavaName()
}
