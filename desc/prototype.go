package desc

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"

	"github.com/wippyai/pari-runtime/errors"
)

// DefaultBitPrec is the default of precision arguments.
const DefaultBitPrec = "DEFAULT_BITPREC"

// ArgKind is the type of a prototype argument.
type ArgKind int

const (
	ArgGEN ArgKind = iota
	ArgString
	ArgLong
	ArgULong
	ArgVariable
	ArgPrec
	ArgBitPrec
	ArgSeriesPrec
	ArgGENPointer
)

var argKindNames = [...]string{
	ArgGEN:        "GEN",
	ArgString:     "str",
	ArgLong:       "long",
	ArgULong:      "unsigned long",
	ArgVariable:   "var",
	ArgPrec:       "prec",
	ArgBitPrec:    "bitprec",
	ArgSeriesPrec: "serprec",
	ArgGENPointer: "GEN*",
}

func (k ArgKind) String() string {
	if k < 0 || int(k) >= len(argKindNames) {
		return "unknown"
	}
	return argKindNames[k]
}

// Implicit reports whether GP supplies the argument from its defaults, so
// it does not appear in a GP-level call.
func (k ArgKind) Implicit() bool {
	return k == ArgPrec || k == ArgBitPrec || k == ArgSeriesPrec
}

// argCodes maps supported prototype codes to kinds.
var argCodes = map[byte]ArgKind{
	'G': ArgGEN,
	'W': ArgGEN,
	'r': ArgString,
	's': ArgString,
	'L': ArgLong,
	'U': ArgULong,
	'n': ArgVariable,
	'p': ArgPrec,
	'b': ArgBitPrec,
	'P': ArgSeriesPrec,
	'&': ArgGENPointer,
}

// unsupportedCodes are valid prototype codes this package cannot express.
var unsupportedCodes = map[byte]bool{
	'V': true, 'I': true, 'E': true, 'J': true, 'C': true, '*': true, '=': true,
}

func isArgCode(c byte) bool {
	_, ok := argCodes[c]
	return ok || unsupportedCodes[c]
}

// Arg is one argument of a PARI function.
type Arg struct {
	Name    string
	Default string
	Index   int
	Kind    ArgKind
	Code    byte
	// HasDefault is set when the argument may be omitted.
	HasDefault bool
	// Required marks a GEN argument without default that follows a
	// defaulted one. Callers must pass it even though it sits among
	// optional arguments.
	Required bool
	// Undocumented is set when the help string ran out of names.
	Undocumented bool
}

func (a Arg) String() string {
	s := a.Kind.String() + " " + a.Name
	switch {
	case a.Required:
		s += " (required)"
	case a.HasDefault:
		s += "=" + a.Default
	}
	return s
}

// Return is the return type of a PARI function.
type Return int

const (
	ReturnGEN Return = iota
	ReturnGENCopy
	ReturnInt
	ReturnLong
	ReturnULong
	ReturnVoid
)

var retCodes = map[byte]Return{
	'm': ReturnGENCopy,
	'i': ReturnInt,
	'l': ReturnLong,
	'u': ReturnULong,
	'v': ReturnVoid,
}

// String returns the C type.
func (r Return) String() string {
	switch r {
	case ReturnGEN, ReturnGENCopy:
		return "GEN"
	case ReturnInt:
		return "int"
	case ReturnLong:
		return "long"
	case ReturnULong:
		return "unsigned long"
	case ReturnVoid:
		return "void"
	default:
		return "unknown"
	}
}

var (
	parenRe   = regexp.MustCompile(`[(](.*)[)]`)
	argNameRe = regexp.MustCompile(`^[ {]*&?([A-Za-z_][A-Za-z0-9_]*)`)
)

var nameReplacements = map[string]string{
	"char":   "character",
	"return": "return_value",
}

// helpNames extracts argument names from a help string such as
// "qfbred(x,{flag=0},{d},{isd},{sd})".
func helpNames(help string) []string {
	m := parenRe.FindStringSubmatch(help)
	if m == nil {
		return nil
	}
	var names []string
	for _, part := range strings.Split(m[1], ",") {
		if n := argNameRe.FindStringSubmatch(part); n != nil {
			names = append(names, n[1])
		}
	}
	return names
}

func safeName(n string) string {
	if r, ok := nameReplacements[n]; ok {
		return r
	}
	if token.IsKeyword(n) {
		return n + "_"
	}
	return n
}

// ParsePrototype parses a PARI prototype such as "GD0,L,DGDGDG". help
// supplies the argument names.
func ParsePrototype(proto, help string) ([]Arg, Return, error) {
	names := helpNames(help)
	nextName := func() (string, bool) {
		if len(names) == 0 {
			return "", false
		}
		n := names[0]
		names = names[1:]
		return n, true
	}

	ret := ReturnGEN
	n := 0
	if len(proto) > 0 {
		if r, ok := retCodes[proto[0]]; ok {
			ret = r
			n = 1
		}
	}

	var (
		args        []Arg
		haveDefault bool
	)
	for n < len(proto) {
		c := proto[n]
		n++

		var (
			def    string
			hasDef bool
		)
		if c == 'D' {
			hasDef = true
			if n >= len(proto) {
				return nil, ret, protoError(proto, "D at end of prototype")
			}
			if !isArgCode(proto[n]) {
				end := strings.IndexByte(proto[n:], ',')
				if end < 0 {
					return nil, ret, protoError(proto, "unterminated default value")
				}
				def = proto[n : n+end]
				n += end + 1
			}
			if n >= len(proto) {
				return nil, ret, protoError(proto, "default without argument code")
			}
			c = proto[n]
			n++
		}

		kind, ok := argCodes[c]
		if !ok {
			if c == ',' {
				continue
			}
			if unsupportedCodes[c] {
				e := errors.Unsupported(errors.PhaseParse, fmt.Sprintf("prototype code %q", c))
				e.Value = proto
				return nil, ret, e
			}
			return nil, ret, protoError(proto, fmt.Sprintf("unknown prototype code %q", c))
		}

		arg := Arg{Index: len(args), Kind: kind, Code: c}
		switch kind {
		case ArgPrec, ArgBitPrec:
			arg.Name = "precision"
		case ArgSeriesPrec:
			arg.Name = "serprec"
		default:
			if name, ok := nextName(); ok {
				arg.Name = safeName(name)
			} else {
				arg.Name = fmt.Sprintf("arg%d", arg.Index)
				arg.Undocumented = true
			}
		}

		switch {
		case !hasDef:
			if kind == ArgPrec || kind == ArgBitPrec {
				arg.Default = DefaultBitPrec
				arg.HasDefault = true
			}
		case def == "":
			arg.Default = emptyDefault(kind)
			arg.HasDefault = true
		default:
			arg.Default = def
			arg.HasDefault = true
		}

		if arg.HasDefault {
			haveDefault = true
		} else if haveDefault {
			if c != 'G' {
				e := errors.Unsupported(errors.PhaseParse,
					"non-default argument after default argument is only implemented for GEN arguments")
				e.Value = proto
				return nil, ret, e
			}
			arg.Required = true
		}
		args = append(args, arg)
	}
	return args, ret, nil
}

func emptyDefault(k ArgKind) string {
	switch k {
	case ArgVariable, ArgSeriesPrec:
		return "-1"
	case ArgLong, ArgULong:
		return "0"
	default:
		return "NULL"
	}
}

func protoError(proto, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Path("prototype").
		Value(proto).
		Detail("%s in %q", detail, proto).
		Build()
}
