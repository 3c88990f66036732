package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	buildVersion = "1.2.3"
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
	versionShort = false
}

func TestFuncs(t *testing.T) {
	out, err := run(t, "funcs", "--share", "testdata", "--format", "text", "--class", "", "next")
	require.NoError(t, err)
	assert.Equal(t, "nextprime(x): smallest pseudoprime >= x.\nnextprime_list(x,n): not a real GP function.\n", out)

	out, err = run(t, "funcs", "--share", "testdata", "--format", "text", "--class", "basic")
	require.NoError(t, err)
	assert.Equal(t, "nextprime(x): smallest pseudoprime >= x.\nsqrtint(x,{&r}): integer square root y of x.\n", out)
	funcsClass = ""
}

func TestFuncs_YAML(t *testing.T) {
	out, err := run(t, "funcs", "--share", "testdata", "--format", "yaml", "--class", "", "sqrt")
	require.NoError(t, err)
	assert.Contains(t, out, "function: sqrtint")
	assert.Contains(t, out, "cname: sqrtint0")
	funcsFormat = "text"
}

func TestDoc(t *testing.T) {
	out, err := run(t, "doc", "--share", "testdata", "nextprime")
	require.NoError(t, err)
	assert.Contains(t, out, "nextprime(x): smallest pseudoprime >= x.")
	assert.Contains(t, out, "GEN nextprime(GEN x)")
	assert.Contains(t, out, "finds the smallest pseudoprime greater than or equal to x.")

	_, err = run(t, "doc", "--share", "testdata", "nosuch")
	assert.Error(t, err)
}

func TestGendecl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gp.go")
	_, err := run(t, "gendecl", "--share", "testdata", "-o", path, "--package", "gp", "--class", "basic")
	require.NoError(t, err)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "// Code generated by pari gendecl. DO NOT EDIT."))
	assert.Contains(t, string(src), "func Nextprime(")
	assert.NotContains(t, string(src), "func Sqrtint(")
	genOut = ""
}

func TestConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack_size: 1\n"), 0o644))

	_, err := run(t, "funcs", "--share", "testdata", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack_size")
	cfgFile = ""
}

func TestRunLines(t *testing.T) {
	var seen []string
	eval := func(_ context.Context, expr string) (string, error) {
		seen = append(seen, expr)
		if expr == "1/0" {
			return "", errors.New("impossible inverse")
		}
		return "<" + expr + ">", nil
	}

	in := strings.NewReader("1+1\n\n  2*3  \n\\\\ comment\n1/0\nquit\nnever\n")
	var out bytes.Buffer
	require.NoError(t, runLines(context.Background(), eval, in, &out))

	assert.Equal(t, []string{"1+1", "2*3", "1/0"}, seen)
	assert.Equal(t, "<1+1>\n<2*3>\nerror: impossible inverse\n", out.String())
}

func TestRunLines_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eval := func(context.Context, string) (string, error) { return "", nil }

	err := runLines(ctx, eval, strings.NewReader("1\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplModel(t *testing.T) {
	eval := func(_ context.Context, expr string) (string, error) {
		if expr == "bad" {
			return "", errors.New("syntax error")
		}
		return expr + "!", nil
	}
	m := newReplModel(context.Background(), eval)

	submit := func(expr string) {
		t.Helper()
		m.input.SetValue(expr)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.True(t, m.pending)
		m.Update(cmd())
		assert.False(t, m.pending)
	}

	submit("2^10")
	submit("bad")
	require.Len(t, m.entries, 2)
	assert.Equal(t, "2^10!", m.entries[0].result)
	assert.EqualError(t, m.entries[1].err, "syntax error")
	assert.Contains(t, m.View(), "? 2^10")

	// Empty input does nothing.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	// History walks back through submitted expressions.
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "bad", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "2^10", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "bad", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", m.input.Value())

	m.input.SetValue("quit")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}
