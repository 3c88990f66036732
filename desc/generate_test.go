package desc

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/pari-runtime/errors"
)

func TestGenerate(t *testing.T) {
	cat := loadTestdata(t)

	var buf bytes.Buffer
	skipped, err := Generate(&buf, cat.Filter(nil), GenerateOptions{Package: "gp"})
	require.NoError(t, err)

	src := buf.String()
	require.True(t, strings.HasPrefix(src, GeneratedHeader+"\n"))

	// The output must be a valid Go file.
	_, err = parser.ParseFile(token.NewFileSet(), "gp.go", src, parser.ParseComments)
	require.NoError(t, err)

	assert.Contains(t, src, "func Nextprime(ctx context.Context, rt *runtime.Runtime, x *runtime.Gen) (*runtime.Gen, error)")
	assert.Contains(t, src, "func Qfbred(ctx context.Context, rt *runtime.Runtime, x *runtime.Gen, flag int64, d *runtime.Gen, isd *runtime.Gen, sd *runtime.Gen) (*runtime.Gen, error)")
	assert.Contains(t, src, "func Polcoef(ctx context.Context, rt *runtime.Runtime, x *runtime.Gen, n int64, v *runtime.Gen) (*runtime.Gen, error)")
	assert.Contains(t, src, "func Zeta(ctx context.Context, rt *runtime.Runtime, s *runtime.Gen) (*runtime.Gen, error)")
	assert.Contains(t, src, "func Pi(ctx context.Context, rt *runtime.Runtime) (*runtime.Gen, error)")
	assert.Contains(t, src, `return rt.Call(ctx, "qfbred", args...)`)
	assert.NotContains(t, src, "math/big")
	assert.Contains(t, src, "// flag: GP default 0. The value passed here always replaces it.")
	assert.Contains(t, src, "// d: optional, GP default NULL.")
	assert.Contains(t, src, "// v: optional, GP default -1.")

	reasons := make(map[string]string)
	for _, s := range skipped {
		reasons[s.Name] = s.Reason
	}
	assert.Len(t, reasons, 3)
	assert.Equal(t, "class gp", reasons["default"])
	assert.Contains(t, reasons["if"], "unsupported")
	assert.Contains(t, reasons["sqrtint"], "GEN*")
}

func TestGenerate_ULong(t *testing.T) {
	fns := []*Function{{Name: "f_u", Class: "basic", Prototype: "U", Help: "f_u(n): x."}}

	var buf bytes.Buffer
	skipped, err := Generate(&buf, fns, GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	src := buf.String()
	assert.Contains(t, src, "package gp")
	assert.Contains(t, src, `"math/big"`)
	assert.Contains(t, src, "func FU(ctx context.Context, rt *runtime.Runtime, n uint64) (*runtime.Gen, error)")
	assert.Contains(t, src, "new(big.Int).SetUint64(n)")
}

func TestGenerate_IntegerDefault(t *testing.T) {
	fns := []*Function{{Name: "f_d", Class: "basic", Prototype: "GD1,L,", Help: "f_d(x,{n=1}): x."}}

	var buf bytes.Buffer
	skipped, err := Generate(&buf, fns, GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	src := buf.String()
	assert.Contains(t, src, "func FD(ctx context.Context, rt *runtime.Runtime, x *runtime.Gen, n int64) (*runtime.Gen, error)")
	assert.Contains(t, src, "// n: GP default 1. The value passed here always replaces it.")
	assert.NotContains(t, src, "// x:")
}

func TestGenerate_Collisions(t *testing.T) {
	fns := []*Function{
		{Name: "foo_bar", Class: "basic", Prototype: "G", Help: "foo_bar(ctx): x."},
		{Name: "foobar", Class: "basic", Prototype: "G", Help: "foobar(x): x."},
		{Name: "fooBar", Class: "basic", Prototype: "G", Help: "fooBar(x): x."},
	}

	var buf bytes.Buffer
	skipped, err := Generate(&buf, fns, GenerateOptions{})
	require.NoError(t, err)

	src := buf.String()
	assert.Contains(t, src, "func FooBar(ctx context.Context, rt *runtime.Runtime, ctx_ *runtime.Gen)")
	assert.Contains(t, src, "func Foobar(")
	require.Len(t, skipped, 1)
	assert.Equal(t, "fooBar", skipped[0].Name)
}

func TestGenerate_Empty(t *testing.T) {
	var buf bytes.Buffer
	_, err := Generate(&buf, nil, GenerateOptions{Package: "wrappers", RuntimeImport: "example.com/rt"})
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "w.go", buf.String(), 0)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `runtime "example.com/rt"`)
}

func TestGenerate_BadPackage(t *testing.T) {
	_, err := Generate(&bytes.Buffer{}, nil, GenerateOptions{Package: "not a name"})
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"nextprime":  "Nextprime",
		"qfbred":     "Qfbred",
		"ellinit_r":  "EllinitR",
		"_internal":  "Internal",
		"Pi":         "Pi",
		"":           "",
		"__":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, GoName(in), "GoName(%q)", in)
	}
}

func TestPlainDoc(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{
			"finds the smallest pseudoprime (see\n\\tet{ispseudoprime}) greater than or equal to $x$.",
			"finds the smallest pseudoprime (see ispseudoprime) greater than or equal to x.",
		},
		{
			"Gives the first prime $\\ge x$. See \\kbd{precprime}.\n\n\\bprog\n? nextprime(2)\n\\eprog",
			"Gives the first prime >= x. See precprime.\n\n? nextprime(2)",
		},
		{
			"the constant $\\pi$ ($3.14159\\dots$).",
			"the constant pi (3.14159...).",
		},
		{
			"type \\typ{INT}, index\\sidx{foo} only, \\fl = 1",
			"type t_INT, index only, flag = 1",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainDoc(tt.in))
	}
}
