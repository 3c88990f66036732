package runtime

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExample(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	var buf bytes.Buffer
	report, err := RunExample(ctx, rt, &buf)
	require.NoError(t, err)

	assert.Equal(t, "x^3 + x^2 + x - 1", report.P)
	assert.Equal(t, "y^3 + y^2 + y - 1", report.Modulus)
	assert.True(t, strings.HasPrefix(report.Zeta2, "1.6449340668"), "zeta(2) = %s", report.Zeta2)
	assert.NotEmpty(t, report.Factorization)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, report.Lines(), lines)
	assert.True(t, strings.HasPrefix(lines[3], "centerlift(lift(fq)) = "))

	// Everything the example allocated is gone.
	assert.Zero(t, rt.Live())
}

func TestRunExample_NilWriter(t *testing.T) {
	rt := newRuntime(t)

	report, err := RunExample(context.Background(), rt, nil)
	require.NoError(t, err)
	assert.Len(t, report.Lines(), 4)
}

func TestExampleReport_Lines(t *testing.T) {
	r := &ExampleReport{Zeta2: "z", P: "p", Modulus: "m", Factorization: "f"}
	assert.Equal(t, []string{
		"zeta(2) = z",
		"p = p",
		"modulus = m",
		"centerlift(lift(fq)) = f",
	}, r.Lines())
}
