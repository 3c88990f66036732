package desc

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wippyai/pari-runtime/errors"
)

// GeneratedHeader starts every file written by Generate.
const GeneratedHeader = "// Code generated by pari gendecl. DO NOT EDIT."

// DefaultRuntimeImport is the import path of the runtime package the
// generated wrappers call into.
const DefaultRuntimeImport = "github.com/wippyai/pari-runtime/runtime"

// GenerateOptions configures Generate.
type GenerateOptions struct {
	// Package is the package clause of the output. Defaults to "gp".
	Package string
	// RuntimeImport overrides DefaultRuntimeImport.
	RuntimeImport string
	// Classes lists the function classes to wrap. Defaults to "basic".
	Classes []string
}

// Skipped records a function Generate did not wrap.
type Skipped struct {
	Name   string
	Reason string
}

func (s Skipped) String() string {
	return s.Name + ": " + s.Reason
}

type genParam struct {
	Ident string
	Type  string
	Kind  ArgKind
	Arg   Arg
}

type genFunc struct {
	Ident    string
	Name     string
	Help     string
	Doc      []string
	Defaults []string
	Params   []genParam
}

var fileTmpl = template.Must(template.New("file").Parse(`{{.Header}}

package {{.Package}}

import (
	"context"
{{- if .NeedBig}}
	"math/big"
{{- end}}

	runtime "{{.Import}}"
)

var (
	_ = context.Background
	_ *runtime.Gen
{{- if .NeedBig}}
	_ = big.NewInt
{{- end}}
)
{{range .Funcs}}
// {{.Ident}} calls the GP function {{.Name}}.
{{- if .Help}}
//
//	{{.Help}}
{{- end}}
{{- range .Doc}}
//{{if .}} {{.}}{{end}}
{{- end}}
{{- if .Defaults}}
//
{{- range .Defaults}}
// {{.}}
{{- end}}
{{- end}}
func {{.Ident}}(ctx context.Context, rt *runtime.Runtime{{range .Params}}, {{.Ident}} {{.Type}}{{end}}) (*runtime.Gen, error) {
	args := make([]*runtime.Gen, 0, {{len .Params}})
{{- range .Params}}
{{- if eq .Type "int64"}}
	{{.Ident}}Gen, err := rt.Int(ctx, {{.Ident}})
	if err != nil {
		return nil, err
	}
	args = append(args, {{.Ident}}Gen)
{{- else if eq .Type "uint64"}}
	{{.Ident}}Gen, err := rt.BigInt(ctx, new(big.Int).SetUint64({{.Ident}}))
	if err != nil {
		return nil, err
	}
	args = append(args, {{.Ident}}Gen)
{{- else}}
	args = append(args, {{.Ident}})
{{- end}}
{{- end}}
	return rt.Call(ctx, "{{.Name}}", args...)
}
{{end}}`))

// Generate writes Go wrappers for fns. Each wrapper forwards to
// runtime.Runtime.Call. Functions whose prototypes take strings, pointers
// or closures are skipped and reported. Precision arguments are omitted
// since GP fills them from the runtime's defaults.
func Generate(w io.Writer, fns []*Function, opts GenerateOptions) ([]Skipped, error) {
	if opts.Package == "" {
		opts.Package = "gp"
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = DefaultRuntimeImport
	}
	if len(opts.Classes) == 0 {
		opts.Classes = []string{"basic"}
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, errors.InvalidInput(errors.PhaseParse, "invalid package name "+opts.Package)
	}

	classes := make(map[string]bool, len(opts.Classes))
	for _, c := range opts.Classes {
		classes[c] = true
	}

	var (
		funcs   []genFunc
		skipped []Skipped
		seen    = make(map[string]string)
		needBig bool
	)
	for _, f := range fns {
		if !classes[f.Class] {
			skipped = append(skipped, Skipped{f.Name, "class " + quoteClass(f.Class)})
			continue
		}
		gf, reason := wrapFunction(f)
		if reason != "" {
			skipped = append(skipped, Skipped{f.Name, reason})
			continue
		}
		if prev, ok := seen[gf.Ident]; ok {
			skipped = append(skipped, Skipped{f.Name, "identifier " + gf.Ident + " already used by " + prev})
			continue
		}
		seen[gf.Ident] = f.Name
		for _, p := range gf.Params {
			if p.Type == "uint64" {
				needBig = true
			}
		}
		funcs = append(funcs, gf)
	}

	var buf bytes.Buffer
	err := fileTmpl.Execute(&buf, struct {
		Header  string
		Package string
		Import  string
		NeedBig bool
		Funcs   []genFunc
	}{GeneratedHeader, opts.Package, opts.RuntimeImport, needBig, funcs})
	if err != nil {
		return skipped, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "execute template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return skipped, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "format generated source")
	}
	if _, err := w.Write(src); err != nil {
		return skipped, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "write generated source")
	}
	return skipped, nil
}

func quoteClass(c string) string {
	if c == "" {
		return `""`
	}
	return c
}

// reserved are identifiers the wrapper body uses itself.
var reserved = map[string]bool{
	"ctx": true, "rt": true, "err": true, "args": true, "runtime": true,
	"context": true, "big": true,
}

func wrapFunction(f *Function) (genFunc, string) {
	if f.Prototype == "" {
		return genFunc{}, "no prototype"
	}
	args, _, err := f.Signature()
	if err != nil {
		return genFunc{}, err.Error()
	}

	gf := genFunc{
		Ident: GoName(f.Name),
		Name:  f.Name,
		Help:  oneLine(f.Help),
	}
	if gf.Ident == "" {
		return genFunc{}, "no Go identifier for " + f.Name
	}
	if doc := PlainDoc(f.Doc); doc != "" {
		gf.Doc = append([]string{""}, wrapText(doc, 72)...)
	}

	used := make(map[string]bool)
	for _, a := range args {
		if a.Kind.Implicit() {
			continue
		}
		var typ string
		switch a.Kind {
		case ArgGEN, ArgVariable:
			typ = "*runtime.Gen"
		case ArgLong:
			typ = "int64"
		case ArgULong:
			typ = "uint64"
		default:
			return genFunc{}, fmt.Sprintf("argument %s of kind %s", a.Name, a.Kind)
		}
		ident := paramName(a.Name)
		for used[ident] {
			ident += "_"
		}
		used[ident] = true
		gf.Params = append(gf.Params, genParam{Ident: ident, Type: typ, Kind: a.Kind, Arg: a})
		if a.HasDefault {
			gf.Defaults = append(gf.Defaults, wrapText(defaultNote(ident, typ, a.Default), 72)...)
		}
	}
	return gf, ""
}

// defaultNote documents a defaulted parameter. Integers are always
// forwarded, so their GP default only applies if the caller passes it.
func defaultNote(ident, typ, def string) string {
	if typ == "int64" || typ == "uint64" {
		return fmt.Sprintf("%s: GP default %s. The value passed here always replaces it.", ident, def)
	}
	return fmt.Sprintf("%s: optional, GP default %s. Pass nil to keep it; nil is only accepted when every later argument is nil too.", ident, def)
}

func paramName(n string) string {
	n = strings.TrimSuffix(n, "_")
	if reserved[n] || token.IsKeyword(n) {
		return n + "_"
	}
	if !token.IsIdentifier(n) {
		return "arg"
	}
	return n
}

// GoName converts a GP function name to an exported Go identifier:
// "nextprime" becomes "Nextprime" and "ellinit_r" becomes "EllinitR".
// It returns "" when no identifier can be formed.
func GoName(name string) string {
	titler := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(titler.String(part))
	}
	id := b.String()
	if !token.IsIdentifier(id) || !token.IsExported(id) {
		return ""
	}
	return id
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wrapText(s string, width int) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
