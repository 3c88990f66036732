// Package desc reads PARI's function catalog, pari.desc, and turns it into
// Go.
//
// Load and Parse produce a Catalog of Function records. Each record's
// Prototype is a compact string describing the C signature; ParsePrototype
// decodes it into Args and a Return type, taking argument names from the
// record's Help line:
//
//	cat, err := desc.Load("/usr/share/pari")
//	args, ret, err := cat["qfbred"].Signature()
//	// args: GEN x, long flag=0, GEN d=NULL, GEN isd=NULL, GEN sd=NULL
//
// Generate writes typed wrappers that forward to runtime.Runtime.Call, and
// Export dumps records as YAML, JSON or help text. PlainDoc strips the TeX
// markup from the Doc field.
package desc
