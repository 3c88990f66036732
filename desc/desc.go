package desc

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/wippyai/pari-runtime/errors"
)

// FileName is the name of the function catalog in PARI's share directory.
const FileName = "pari.desc"

// Function is one record of pari.desc.
type Function struct {
	// Fields holds every key of the record, lowercased with '-' removed.
	Fields map[string]string `yaml:"-" json:"-"`

	Name        string `yaml:"function" json:"function"`
	Class       string `yaml:"class,omitempty" json:"class,omitempty"`
	Section     string `yaml:"section,omitempty" json:"section,omitempty"`
	CName       string `yaml:"cname,omitempty" json:"cname,omitempty"`
	Prototype   string `yaml:"prototype,omitempty" json:"prototype,omitempty"`
	Help        string `yaml:"help,omitempty" json:"help,omitempty"`
	Doc         string `yaml:"doc,omitempty" json:"doc,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Signature parses the function's prototype against its help string.
func (f *Function) Signature() ([]Arg, Return, error) {
	args, ret, err := ParsePrototype(f.Prototype, f.Help)
	if err != nil {
		if e, ok := errors.From(err); ok {
			e.Function = f.Name
		}
	}
	return args, ret, err
}

// Catalog maps GP function names to their records.
type Catalog map[string]*Function

// Names returns the function names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Filter returns the functions for which keep returns true, sorted by name.
// A nil keep selects everything.
func (c Catalog) Filter(keep func(*Function) bool) []*Function {
	var out []*Function
	for _, name := range c.Names() {
		if f := c[name]; keep == nil || keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// Load reads pari.desc from a PARI share directory.
func Load(shareDir string) (Catalog, error) {
	path := filepath.Join(shareDir, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open "+path, err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		if e, ok := errors.From(err); ok {
			e.Path = append([]string{path}, e.Path...)
		}
		return nil, err
	}
	return cat, nil
}

// Parse reads pari.desc records. Records are separated by blank lines;
// each line is "Key: value" and lines starting with a space continue the
// previous value.
func Parse(r io.Reader) (Catalog, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	cat := make(Catalog)
	var (
		record  []string // logical lines of the current record
		lineNo  int
		started int
	)

	flush := func() error {
		if len(record) == 0 {
			return nil
		}
		f, err := parseRecord(record, started)
		record = record[:0]
		if err != nil {
			return err
		}
		cat[f.Name] = f
		return nil
	}

	for sc.Scan() {
		lineNo++
		line := sc.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, " "):
			if len(record) == 0 {
				return nil, parseError(lineNo, "continuation line outside a record")
			}
			record[len(record)-1] += "\n" + line[1:]
		default:
			if len(record) == 0 {
				started = lineNo
			}
			record = append(record, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.ParseFailed(FileName, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cat, nil
}

func parseRecord(lines []string, lineNo int) (*Function, error) {
	fields := make(map[string]string, len(lines))
	for i, l := range lines {
		key, value, ok := strings.Cut(l, ":")
		if !ok {
			return nil, parseError(lineNo+i, "missing ':' in "+quoteShort(l))
		}
		key = strings.ReplaceAll(strings.ToLower(key), "-", "")
		fields[key] = strings.TrimSpace(value)
	}

	name, ok := fields["function"]
	if !ok || name == "" {
		return nil, parseError(lineNo, "record has no Function key")
	}
	return &Function{
		Fields:      fields,
		Name:        name,
		Class:       fields["class"],
		Section:     fields["section"],
		CName:       fields["cname"],
		Prototype:   fields["prototype"],
		Help:        fields["help"],
		Doc:         fields["doc"],
		Description: fields["description"],
	}, nil
}

func parseError(line int, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Path(FileName).
		Value(line).
		Detail("line %d: %s", line, detail).
		Build()
}

func quoteShort(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return "\"" + s + "\""
}

// Format names an export format of Export.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Export writes fns in the given format. Text lists the help lines.
func Export(w io.Writer, fns []*Function, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fns); err != nil {
			return errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "encode yaml")
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fns); err != nil {
			return errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "encode json")
		}
		return nil
	case FormatText, "":
		bw := bufio.NewWriter(w)
		for _, f := range fns {
			help := f.Help
			if help == "" {
				help = f.Name
			}
			bw.WriteString(help)
			bw.WriteByte('\n')
		}
		return bw.Flush()
	default:
		return errors.InvalidInput(errors.PhaseParse, "unknown format "+string(format))
	}
}
