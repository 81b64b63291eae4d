package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/classbrowser/core/cli"
	"github.com/emenda-labs/classbrowser/core/config"
	"github.com/emenda-labs/classbrowser/core/report"
	javadriver "github.com/emenda-labs/classbrowser/drivers/java"
	"github.com/emenda-labs/classbrowser/drivers/java/jnisig"
)

const (
	referenceXML = "../../drivers/java/testdata/reference.xml"
	targetYAML   = "../../drivers/java/testdata/target.yaml"
)

func newTestApp() *app {
	return &app{driver: javadriver.NewDriver(), cfg: config.Default()}
}

func TestRunDiff_Text(t *testing.T) {
	var out bytes.Buffer
	err := newTestApp().runDiff(context.Background(), cli.DiffOptions{
		Reference: []string{referenceXML},
		Target:    []string{targetYAML},
		Format:    "text",
		Out:       &out,
	})
	require.ErrorIs(t, err, errDiscrepancies)

	assert.Contains(t, out.String(), "Reference: "+referenceXML)
	assert.Contains(t, out.String(), "[missing_method] `android.app.Activity` misses method `finish()`.")
	assert.Contains(t, out.String(), "[missing_type] Type `android.app.Dialog` does not exist in the target API.")
	assert.Contains(t, out.String(), "discrepancies:")
}

func TestRunDiff_JSON(t *testing.T) {
	var out bytes.Buffer
	err := newTestApp().runDiff(context.Background(), cli.DiffOptions{
		Reference:        []string{referenceXML},
		Target:           []string{targetYAML},
		ReferenceVersion: "v2.0.0",
		TargetVersion:    "v1.0.0",
		Format:           "json",
		Out:              &out,
	})
	require.ErrorIs(t, err, errDiscrepancies)

	var cmp report.Comparison
	require.NoError(t, json.Unmarshal(out.Bytes(), &cmp))
	assert.Equal(t, "v2.0.0", cmp.ReferenceVersion)
	assert.Equal(t, "v1.0.0", cmp.TargetVersion)
	assert.NotEmpty(t, cmp.Reports)
}

func TestRunDiff_Identical(t *testing.T) {
	var out bytes.Buffer
	err := newTestApp().runDiff(context.Background(), cli.DiffOptions{
		Reference: []string{referenceXML},
		Target:    []string{referenceXML},
		Format:    "text",
		Out:       &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No discrepancies found.")
}

func TestRunDiff_LoadError(t *testing.T) {
	err := newTestApp().runDiff(context.Background(), cli.DiffOptions{
		Reference: []string{referenceXML},
		Target:    []string{"../../drivers/java/testdata/classes.jar"},
		Format:    "text",
		Out:       &bytes.Buffer{},
	})
	require.ErrorIs(t, err, javadriver.ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, errDiscrepancies)
}

func TestRunDecode(t *testing.T) {
	var out bytes.Buffer
	err := newTestApp().runDecode(context.Background(), cli.DecodeOptions{
		Descriptors: []string{"(I[Ljava/lang/String;)V", "[[J", "Landroid/view/View$OnClickListener;"},
		Out:         &out,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"(I[Ljava/lang/String;)V => (int, java.lang.String[]) void\n"+
			"[[J => long[][]\n"+
			"Landroid/view/View$OnClickListener; => android.view.View.OnClickListener\n",
		out.String())
}

func TestRunDecode_Malformed(t *testing.T) {
	for _, desc := range []string{"II", "(I", "Q", "Ljava/lang/String"} {
		t.Run(desc, func(t *testing.T) {
			err := newTestApp().runDecode(context.Background(), cli.DecodeOptions{
				Descriptors: []string{desc},
				Out:         &bytes.Buffer{},
			})
			assert.ErrorIs(t, err, jnisig.ErrMalformedSignature)
		})
	}
}

func TestRunTree(t *testing.T) {
	var out bytes.Buffer
	err := newTestApp().runTree(context.Background(), cli.TreeOptions{
		Files: []string{referenceXML, targetYAML},
		Out:   &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "0   "+referenceXML)
	assert.Contains(t, out.String(), "1   "+targetYAML)
	assert.Contains(t, out.String(), "android.app")
	assert.Contains(t, out.String(), "1 packages, 3 types")
}
