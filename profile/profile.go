package profile

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"gone/common"
	"gone/generate"
	"gone/report"

	"github.com/pelletier/go-toml"
)

// Profile is a build profile: it configures how a listing is lowered and where
// the result goes.
type Profile struct {
	// Name is the name of the program.  It is empty if not set.
	Name string

	// TargetTriple and DataLayout are copied onto the generated module.
	TargetTriple, DataLayout string

	// OutputPath is the path the LLVM module is written to.  It is empty if
	// not set.
	OutputPath string

	// LogLevel is the log level name.  It is empty if not set.
	LogLevel string

	// Runtime holds the names of the runtime print routines.
	Runtime generate.RuntimeNames
}

// tomlProfile represents a build profile as it is encoded in TOML.
type tomlProfile struct {
	Name         string      `toml:"name"`
	GoneVersion  string      `toml:"gone-version"`
	TargetTriple string      `toml:"target-triple"`
	DataLayout   string      `toml:"data-layout"`
	Output       string      `toml:"output"`
	LogLevel     string      `toml:"log-level"`
	Runtime      tomlRuntime `toml:"runtime"`
}

type tomlRuntime struct {
	PrintInt   string `toml:"print-int"`
	PrintFloat string `toml:"print-float"`
	PrintBool  string `toml:"print-bool"`
}

// knownKeys is the set of keys a profile may contain.
var knownKeys = map[string]struct{}{
	"name":                {},
	"gone-version":        {},
	"target-triple":       {},
	"data-layout":         {},
	"output":              {},
	"log-level":           {},
	"runtime":             {},
	"runtime.print-int":   {},
	"runtime.print-float": {},
	"runtime.print-bool":  {},
}

// Default returns the profile used when there is no profile file.
func Default() *Profile {
	return &Profile{
		Runtime: generate.DefaultOptions().Runtime,
	}
}

// Options returns the generator options configured by the profile.
func (p *Profile) Options() generate.Options {
	opts := generate.DefaultOptions()
	opts.TargetTriple = p.TargetTriple
	opts.DataLayout = p.DataLayout
	opts.Runtime = p.Runtime
	return opts
}

// Find returns the path of the profile file in dir.
func Find(dir string) string {
	return filepath.Join(dir, common.ProfileFileName)
}

// Load loads and validates the profile at path.  If there is no file at path,
// the default profile is returned.  Warnings about the profile are reported to
// rep which may be nil.  Invalid profiles produce a *report.LocalCompileError
// positioned at the offending key.
func Load(path string, rep *report.Reporter) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}

		return nil, fmt.Errorf("unable to open profile at `%s`: %w", path, err)
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading profile at `%s`: %w", path, err)
	}

	return Parse(buff, path, rep)
}

// Parse parses and validates the contents of a profile file.  path is only used
// to identify the profile in warnings.
func Parse(buff []byte, path string, rep *report.Reporter) (*Profile, error) {
	tree, err := toml.LoadBytes(buff)
	if err != nil {
		return nil, fmt.Errorf("error parsing profile: %w", err)
	}

	tp := &tomlProfile{}
	if err := tree.Unmarshal(tp); err != nil {
		return nil, fmt.Errorf("error parsing profile: %w", err)
	}

	pv := &profileValidator{tree: tree, path: path, rep: rep}
	return pv.validate(tp)
}

// -----------------------------------------------------------------------------

// profileValidator checks a decoded profile against its TOML tree so that
// problems can be reported at the position of their key.
type profileValidator struct {
	tree *toml.Tree
	path string
	rep  *report.Reporter
}

// span returns the text span of a key in the profile.  It is nil if the key is
// not present.
func (pv *profileValidator) span(key string) *report.TextSpan {
	pos := pv.tree.GetPosition(key)
	if pos.Invalid() {
		return nil
	}

	return &report.TextSpan{
		StartLine: pos.Line - 1,
		StartCol:  pos.Col - 1,
		EndLine:   pos.Line - 1,
		EndCol:    pos.Col - 1 + len(key),
	}
}

func (pv *profileValidator) warn(key, msg string, args ...interface{}) {
	if pv.rep != nil {
		pv.rep.CompileWarning(pv.path, pv.path, pv.span(key), msg, args...)
	}
}

func (pv *profileValidator) validate(tp *tomlProfile) (*Profile, error) {
	pv.checkKeys("", pv.tree)

	if tp.GoneVersion != "" && tp.GoneVersion != common.GoneVersion {
		pv.warn("gone-version", "profile version (v%s) does not match the current version (v%s)", tp.GoneVersion, common.GoneVersion)
	}

	if tp.Name != "" && !isValidIdentifier(tp.Name) {
		return nil, report.Raise(pv.span("name"), "profile name must be a valid identifier")
	}

	if tp.LogLevel != "" {
		if _, ok := report.ParseLogLevel(tp.LogLevel); !ok {
			return nil, report.Raise(pv.span("log-level"), "unknown log level `%s`", tp.LogLevel)
		}
	}

	p := Default()
	p.Name = tp.Name
	p.TargetTriple = tp.TargetTriple
	p.DataLayout = tp.DataLayout
	p.OutputPath = tp.Output
	p.LogLevel = tp.LogLevel

	overrides := []struct {
		key   string
		value string
		dest  *string
	}{
		{"runtime.print-int", tp.Runtime.PrintInt, &p.Runtime.PrintInt},
		{"runtime.print-float", tp.Runtime.PrintFloat, &p.Runtime.PrintFloat},
		{"runtime.print-bool", tp.Runtime.PrintBool, &p.Runtime.PrintBool},
	}

	seen := make(map[string]string)
	for _, o := range overrides {
		if o.value != "" {
			if !isValidIdentifier(o.value) {
				return nil, report.Raise(pv.span(o.key), "runtime routine name `%s` must be a valid identifier", o.value)
			}

			*o.dest = o.value
		}

		if other, ok := seen[*o.dest]; ok {
			return nil, report.Raise(pv.span(o.key), "runtime routine name `%s` is already used by `%s`", *o.dest, other)
		} else if *o.dest == common.EntryFuncName {
			return nil, report.Raise(pv.span(o.key), "runtime routine may not be named `%s`", *o.dest)
		}

		seen[*o.dest] = o.key
	}

	return p, nil
}

// checkKeys warns about every key of tree that is not a profile key.
func (pv *profileValidator) checkKeys(prefix string, tree *toml.Tree) {
	keys := tree.Keys()
	sort.Strings(keys)

	for _, key := range keys {
		full := prefix + key
		if _, ok := knownKeys[full]; !ok {
			pv.warn(full, "unknown profile key `%s`", full)
			continue
		}

		if sub, ok := tree.Get(key).(*toml.Tree); ok {
			pv.checkKeys(full+".", sub)
		}
	}
}

// isValidIdentifier returns whether name is a valid identifier.
func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}

	return true
}
