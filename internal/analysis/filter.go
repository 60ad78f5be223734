package analysis

import (
	"strings"

	"github.com/ianlancetaylor/demangle"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/715d/sinkreach/internal/catalog"
	"github.com/715d/sinkreach/internal/profile"
)

// Filter selects sink functions from the project's function universe by
// matching derived (qualifier, symbol) keys against a catalog. The
// catalog is supplied at construction; its lifecycle is scoped to one
// analysis run.
type Filter struct {
	catalog   *catalog.Catalog
	demangled *xsync.Map[string, string]
}

// NewFilter creates a filter backed by the given catalog.
func NewFilter(c *catalog.Catalog) *Filter {
	return &Filter{
		catalog:   c,
		demangled: xsync.NewMap[string, string](),
	}
}

// Sinks returns the functions whose derived key exactly matches a
// catalog entry for the given language. Unknown languages match nothing.
func (f *Filter) Sinks(functions []*profile.Function, lang catalog.Language) []*profile.Function {
	var sinks []*profile.Function
	for _, fn := range functions {
		key, ok := f.deriveKey(fn, lang)
		if !ok {
			continue
		}
		if f.catalog.Contains(lang, key) {
			sinks = append(sinks, fn)
		}
	}
	return sinks
}

// deriveKey computes the catalog lookup key for a function under the
// language's naming scheme.
func (f *Filter) deriveKey(fn *profile.Function, lang catalog.Language) (catalog.Entry, bool) {
	raw := fn.RawName
	if raw == "" {
		raw = fn.Name
	}

	switch lang {
	case catalog.CCpp:
		// C++ symbols arrive mangled; C symbols pass through unchanged.
		return catalog.Entry{Symbol: f.demangleSymbol(raw)}, true

	case catalog.Python:
		// Python sinks are matched by bare name plus declaring file,
		// not by module path resolution.
		return catalog.Entry{Qualifier: fn.SourceFile, Symbol: raw}, true

	case catalog.JVM:
		// Strip the parameter signature, then split package.class from
		// the method name on the last dot.
		name, _, _ := strings.Cut(raw, "(")
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			return catalog.Entry{Qualifier: name[:dot], Symbol: name[dot+1:]}, true
		}
		return catalog.Entry{Qualifier: catalog.DefaultPackage, Symbol: name}, true
	}

	return catalog.Entry{}, false
}

// demangleSymbol resolves a raw symbol to its display name, caching
// results for the run. Names that fail to demangle are used as-is.
func (f *Filter) demangleSymbol(raw string) string {
	if name, ok := f.demangled.Load(raw); ok {
		return name
	}
	name, err := demangle.ToString(raw, demangle.NoParams)
	if err != nil {
		name = raw
	}
	f.demangled.Store(raw, name)
	return name
}
