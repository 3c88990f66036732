//go:build !cgo || nopari

package libpari

// Available reports whether this build links against libpari.
const Available = false

func Init(stackSize, maxPrime uint64) error { return ErrUnavailable }

func Close() {}

func VersionCode() int { return 0 }

func Apply(op Op, a, b, c GEN, bitprec int) (GEN, error) { return nil, ErrUnavailable }

func Read(expr string) (GEN, error) { return nil, ErrUnavailable }

func Strtoi(s string) (GEN, error) { return nil, ErrUnavailable }

func Stoi(v int64) GEN { return nil }

func Itos(x GEN) (int64, error) { return 0, ErrUnavailable }

func Zeta(s int64, bitprec int) (GEN, error) { return nil, ErrUnavailable }

func Var(name string) (GEN, error) { return nil, ErrUnavailable }

func CallByName(name string, args []GEN) (GEN, error) { return nil, ErrUnavailable }

func NewVector(n int) (GEN, error) { return nil, ErrUnavailable }

func String(x GEN) string { return "" }

func TypeName(x GEN) string { return TypeUnknown }

func Length(x GEN) int { return 0 }

func Lg(x GEN) int { return 0 }

func SetLen(x GEN, n int) {}

func Elem(x GEN, i int) GEN { return nil }

func SetElem(x GEN, i int, y GEN) {}

func SetRealPrecision(digits int) error { return ErrUnavailable }

func RealPrecision() int { return 0 }

func Avma() uintptr { return 0 }

func SetAvma(mark uintptr) {}

func StackUsed() uint64 { return 0 }

func StackSize() uint64 { return 0 }

func OnStack(x GEN) bool { return false }
