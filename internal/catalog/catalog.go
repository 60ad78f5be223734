// Package catalog holds the per-language table of security-sensitive
// sink functions and methods.
package catalog

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Language identifies the target language of an analyzed project.
// The set is closed: adding a language means adding a variant here and
// a key-derivation strategy in the sink filter, not another string
// comparison chain.
type Language int

const (
	Unknown Language = iota
	CCpp
	Python
	JVM
)

// DefaultPackage is the qualifier used for JVM symbols that carry no
// package prefix.
const DefaultPackage = "default"

// ParseLanguage maps a language tag to its variant. Unsupported tags
// yield (Unknown, false); sink filtering degrades to no matches.
func ParseLanguage(tag string) (Language, bool) {
	switch tag {
	case "c-cpp":
		return CCpp, true
	case "python":
		return Python, true
	case "jvm":
		return JVM, true
	}
	return Unknown, false
}

// String returns the canonical tag for the language.
func (l Language) String() string {
	switch l {
	case CCpp:
		return "c-cpp"
	case Python:
		return "python"
	case JVM:
		return "jvm"
	}
	return "unknown"
}

// Entry identifies one sensitive function or method. Qualifier is a
// namespace, class or module prefix, empty for free functions.
type Entry struct {
	Qualifier string `yaml:"qualifier"`
	Symbol    string `yaml:"symbol"`
}

// Catalog is a per-language set of sink entries. It is an explicit
// value constructed per analysis run; there is no package-level mutable
// table.
type Catalog struct {
	entries map[Language][]Entry
	lookup  map[Language]map[Entry]struct{}
}

// New builds a catalog from per-language entry lists.
func New(entries map[Language][]Entry) *Catalog {
	c := &Catalog{
		entries: make(map[Language][]Entry, len(entries)),
		lookup:  make(map[Language]map[Entry]struct{}, len(entries)),
	}
	for lang, list := range entries {
		for _, e := range list {
			c.add(lang, e)
		}
	}
	return c
}

// Default returns the built-in sink table.
func Default() *Catalog {
	return New(defaultSinks)
}

// Entries returns the ordered entry list for a language. Unsupported
// languages yield an empty list, never an error.
func (c *Catalog) Entries(lang Language) []Entry {
	return c.entries[lang]
}

// Contains reports whether the exact (qualifier, symbol) pair is a sink
// for the given language. Matching is case-sensitive, no wildcards.
func (c *Catalog) Contains(lang Language, e Entry) bool {
	_, ok := c.lookup[lang][e]
	return ok
}

// Load merges additional entries from a YAML file keyed by language tag.
// Unsupported language tags in the file are skipped.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}

	var byTag map[string][]Entry
	if err := yaml.Unmarshal(data, &byTag); err != nil {
		return fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	for tag, list := range byTag {
		lang, ok := ParseLanguage(tag)
		if !ok {
			continue
		}
		for _, e := range list {
			c.add(lang, e)
		}
	}
	return nil
}

func (c *Catalog) add(lang Language, e Entry) {
	set, ok := c.lookup[lang]
	if !ok {
		set = make(map[Entry]struct{})
		c.lookup[lang] = set
	}
	if _, dup := set[e]; dup {
		return
	}
	set[e] = struct{}{}
	c.entries[lang] = append(c.entries[lang], e)
}

// defaultSinks lists well-known process-spawning, code-evaluation and
// I/O-redirection primitives per language.
var defaultSinks = map[Language][]Entry{
	CCpp: {
		{"", "system"},
		{"", "execl"},
		{"", "execve"},
		{"", "wordexp"},
		{"", "popen"},
		{"", "fdopen"},
	},
	Python: {
		{"", "exec"},
		{"", "eval"},
		{"subprocess", "call"},
		{"subprocess", "run"},
		{"subprocess", "Popen"},
		{"subprocess", "check_output"},
		{"os", "system"},
		{"os", "popen"},
		{"os", "spawnlpe"},
		{"os", "spawnve"},
		{"os", "execl"},
		{"os", "execve"},
		{"asyncio", "create_subprocess_shell"},
		{"asyncio", "create_subprocess_exec"},
		{"asyncio", "run"},
		{"asyncio", "sleep"},
		{"logging.config", "listen"},
		{"code.InteractiveInterpreter", "runsource"},
		{"code.InteractiveInterpreter", "runcode"},
		{"code.InteractiveInterpreter", "write"},
		{"code.InteractiveConsole", "push"},
		{"code.InteractiveConsole", "interact"},
		{"code.InteractiveConsole", "raw_input"},
		{"code", "interact"},
		{"code", "compile_command"},
	},
	JVM: {
		{"java.lang.Runtime", "exec"},
		{"javax.xml.xpath.XPath", "compile"},
		{"javax.xml.xpath.XPath", "evaluate"},
		{"java.lang.Thread", "sleep"},
		{"java.lang.Thread", "run"},
		{"java.lang.Runnable", "run"},
		{"java.util.concurrent.Executor", "execute"},
		{"java.util.concurrent.Callable", "call"},
		{"java.lang.System", "console"},
		{"java.lang.System", "load"},
		{"java.lang.System", "loadLibrary"},
		{"java.lang.System", "mapLibraryName"},
		{"java.lang.System", "runFinalization"},
		{"java.lang.System", "setErr"},
		{"java.lang.System", "setIn"},
		{"java.lang.System", "setOut"},
		{"java.lang.System", "setProperties"},
		{"java.lang.System", "setProperty"},
		{"java.lang.System", "setSecurityManager"},
		{"java.lang.ProcessBuilder", "directory"},
		{"java.lang.ProcessBuilder", "inheritIO"},
		{"java.lang.ProcessBuilder", "command"},
		{"java.lang.ProcessBuilder", "redirectError"},
		{"java.lang.ProcessBuilder", "redirectErrorStream"},
		{"java.lang.ProcessBuilder", "redirectInput"},
		{"java.lang.ProcessBuilder", "redirectOutput"},
		{"java.lang.ProcessBuilder", "start"},
	},
}
