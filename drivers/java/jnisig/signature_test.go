package jnisig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func ref(name string) Type {
	return Type{Kind: Reference, Name: name}
}

func arrayOf(elem Type) Type {
	return Type{Kind: Array, Elem: &elem}
}

func TestDecodeSingle_Primitives(t *testing.T) {
	tests := []struct {
		code string
		want Kind
		name string
	}{
		{"Z", Boolean, "boolean"},
		{"B", Byte, "byte"},
		{"C", Char, "char"},
		{"S", Short, "short"},
		{"I", Int, "int"},
		{"J", Long, "long"},
		{"F", Float, "float"},
		{"D", Double, "double"},
		{"V", Void, "void"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next, err := DecodeSingle(tt.code, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, 1, next)
			assert.True(t, got.IsPrimitive())
			assert.Equal(t, tt.name, got.JavaName())
		})
	}
}

func TestDecodeSingle_NestedArrayOfReference(t *testing.T) {
	text := "[[Ljava/lang/String;"
	got, next, err := DecodeSingle(text, 0)
	require.NoError(t, err)

	assert.Equal(t, arrayOf(arrayOf(ref("java.lang.String"))), got)
	assert.Equal(t, len(text), next)
	assert.Equal(t, "java.lang.String[][]", got.JavaName())
}

func TestDecodeSingle_AdvancesFromOffset(t *testing.T) {
	text := "ILjava/util/List;J"

	got, next, err := DecodeSingle(text, 1)
	require.NoError(t, err)
	assert.Equal(t, ref("java.util.List"), got)
	assert.Equal(t, 17, next)

	got, next, err = DecodeSingle(text, next)
	require.NoError(t, err)
	assert.Equal(t, Long, got.Kind)
	assert.Equal(t, len(text), next)
}

func TestDecodeSingle_NestedClassKeepsDollar(t *testing.T) {
	got, _, err := DecodeSingle("Landroid/view/View$OnClickListener;", 0)
	require.NoError(t, err)
	assert.Equal(t, "android.view.View$OnClickListener", got.Name)
	assert.Equal(t, "android.view.View.OnClickListener", got.JavaName())
	assert.Equal(t, "Landroid/view/View$OnClickListener;", got.Descriptor())
}

func TestDecodeSingle_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pos     int
		wantPos int
		wantChr byte
	}{
		{"unknown_code", "Q", 0, 0, 'Q'},
		{"lowercase", "i", 0, 0, 'i'},
		{"empty", "", 0, 0, 0},
		{"array_without_element", "[", 0, 1, 0},
		{"array_of_unknown", "[[X", 0, 2, 'X'},
		{"unterminated_reference", "Ljava/lang/String", 0, 17, 0},
		{"empty_reference", "L;", 0, 1, ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeSingle(tt.text, tt.pos)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSignature))

			var me *MalformedSignatureError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.wantPos, me.Pos)
			assert.Equal(t, tt.wantChr, me.Char)
		})
	}
}

func TestDecodeParameterBlock(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got, err := DecodeParameterBlock("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("mixed", func(t *testing.T) {
		got, err := DecodeParameterBlock("I[Ljava/lang/String;[[JZ")
		require.NoError(t, err)
		assert.Equal(t, []Type{
			{Kind: Int},
			arrayOf(ref("java.lang.String")),
			arrayOf(arrayOf(Type{Kind: Long})),
			{Kind: Boolean},
		}, got)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeParameterBlock("IQ")
		assert.ErrorIs(t, err, ErrMalformedSignature)
	})
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("(I[Ljava/lang/String;)V")
	require.NoError(t, err)
	assert.Equal(t, []Type{{Kind: Int}, arrayOf(ref("java.lang.String"))}, m.Params)
	assert.Equal(t, Void, m.Return.Kind)
	assert.Equal(t, "(int, java.lang.String[]) void", m.String())
	assert.Equal(t, []string{"int", "java.lang.String[]"}, m.ParamNames())

	m, err = ParseMethod("()Ljava/lang/Object;")
	require.NoError(t, err)
	assert.Empty(t, m.Params)
	assert.Equal(t, ref("java.lang.Object"), m.Return)
}

func TestParseMethod_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantPos int
	}{
		{"no_open_paren", "I)V", 0},
		{"no_close_paren", "(I", 2},
		{"bad_param", "(IQ)V", 2},
		{"no_return", "(I)", 3},
		{"trailing", "(I)VV", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMethod(tt.text)
			var me *MalformedSignatureError
			require.True(t, errors.As(err, &me), "got %v", err)
			assert.Equal(t, tt.text, me.Text)
			assert.Equal(t, tt.wantPos, me.Pos)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	descriptors := []string{
		"()V",
		"(I)Z",
		"(I[Ljava/lang/String;)V",
		"([[[I[[Landroid/view/View$OnClickListener;)[J",
		"(Landroid/content/Context;Landroid/util/AttributeSet;I)Landroid/view/View;",
		"(ZBCSIJFD)Ljava/lang/Object;",
	}

	for _, desc := range descriptors {
		t.Run(desc, func(t *testing.T) {
			m, err := ParseMethod(desc)
			require.NoError(t, err)
			assert.Equal(t, desc, m.Descriptor())

			again, err := ParseMethod(m.Descriptor())
			require.NoError(t, err)
			assert.Equal(t, m, again)
		})
	}

	for _, single := range []string{"I", "[[I", "Ljava/lang/String;", "[La/b/C$D$E;"} {
		got, next, err := DecodeSingle(single, 0)
		require.NoError(t, err)
		assert.Equal(t, len(single), next)
		assert.Equal(t, single, got.Descriptor())
	}
}

func TestNormalizeNested(t *testing.T) {
	assert.Equal(t, "(La/b/Outer.Inner;)V", NormalizeNested("(La/b/Outer$Inner;)V"))

	got, _, err := DecodeSingle(NormalizeNested("La/b/Outer$Inner;"), 0)
	require.NoError(t, err)
	assert.Equal(t, "a.b.Outer.Inner", got.Name)
}
