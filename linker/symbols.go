package linker

import (
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/errors"
)

// ImportPrefix decorates data symbols in a Windows import library.
const ImportPrefix = "__imp_"

// dataSymbols are the PARI globals the bindings touch, in header order.
var dataSymbols = []string{
	"PARI_SIGINT_block",
	"PARI_SIGINT_pending",
	"pari_mainstack",
	"avma",
	"gen_0",
	"cb_pari_err_handler",
	"cb_pari_err_recover",
	"GP_DATA",
	"pariOut",
	"LOG10_2",
	"new_galois_format",
	"factor_proven",
	"precdl",
	"gen_1",
	"gen_2",
	"gnil",
	"ghalf",
	"err_e_STACK",
	"cb_pari_err_handle",
}

// windowsOnly are only exported by Windows builds of PARI.
var windowsOnly = []string{"win32ctrlc"}

// DataSymbols returns the data symbols a PARI library must export on goos.
func DataSymbols(goos string) []string {
	out := make([]string, 0, len(dataSymbols)+len(windowsOnly))
	if goos == "windows" {
		out = append(out, windowsOnly...)
	}
	return append(out, dataSymbols...)
}

// ImportName returns the import-library alias of sym.
func ImportName(sym string) string {
	return ImportPrefix + sym
}

// VerifyWith resolves each of syms and reports every failure in one
// *errors.MissingSymbolsError. library only labels the error.
func VerifyWith(library string, resolve func(string) error, syms []string) error {
	log := Logger()

	var missing []string
	for _, s := range syms {
		if err := resolve(s); err != nil {
			log.Debug("symbol not resolved", zap.String("symbol", s), zap.Error(err))
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		log.Warn("library is missing data symbols",
			zap.String("library", library),
			zap.Strings("symbols", missing))
		return errors.NewMissingSymbolsError(library, missing)
	}
	log.Debug("all data symbols resolved",
		zap.String("library", library),
		zap.Int("count", len(syms)))
	return nil
}

func checkPath(path string) error {
	if path == "" {
		return errors.InvalidInput(errors.PhaseLink, "empty library path")
	}
	return nil
}
