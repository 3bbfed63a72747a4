// pkg/toolchain/environment.go
package toolchain

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/arc-language/emsdk/pkg/platform"
)

// Variable is a single named environment variable
type Variable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Environment is everything a consumer needs to use the installed SDK
type Environment struct {
	Platform      platform.Descriptor `json:"platform" yaml:"platform"`
	PathAdditions []string            `json:"path" yaml:"path"` // root first, so its wrappers shadow the raw tools
	Vars          []Variable          `json:"vars" yaml:"vars"`
}

// BuildEnvironment resolves the search path additions and named variables for
// the target. Every tool must resolve; on error no environment is returned.
func (r *Resolver) BuildEnvironment(target platform.Descriptor) (*Environment, error) {
	l := r.layout
	env := &Environment{
		Platform:      target,
		PathAdditions: []string{l.RootDir, l.ToolsDir()},
	}

	r.logger.Printf("Appending PATH environment variable: %s", l.RootDir)
	r.logger.Printf("Appending PATH environment variable: %s", l.ToolsDir())

	env.set(r, VarRoot, l.RootDir)
	env.set(r, VarTools, l.ToolsDir())
	env.set(r, VarConfig, l.ConfigPath())
	env.set(r, VarCache, l.CachePath())
	env.set(r, VarToolchainFile, l.ToolchainPath())

	for _, tool := range l.Tools {
		path, err := r.ResolveExecutablePath(tool.Name, target.OS)
		if err != nil {
			return nil, err
		}
		env.set(r, tool.Name, path)
	}

	return env, nil
}

func (e *Environment) set(r *Resolver, name, value string) {
	r.logger.Printf("Creating %s environment variable: %s", name, value)
	e.Vars = append(e.Vars, Variable{Name: name, Value: value})
}

// Lookup returns the value of a named variable
func (e *Environment) Lookup(name string) (string, bool) {
	for _, v := range e.Vars {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Map returns the named variables as a map
func (e *Environment) Map() map[string]string {
	m := make(map[string]string, len(e.Vars))
	for _, v := range e.Vars {
		m[v.Name] = v.Value
	}
	return m
}

// SearchPath prepends the path additions to an existing search path
func (e *Environment) SearchPath(existing string) string {
	parts := append([]string(nil), e.PathAdditions...)
	if existing != "" {
		parts = append(parts, existing)
	}
	return strings.Join(parts, e.Platform.PathListSeparator())
}

// Environ merges the environment into base, a list of KEY=VALUE entries such
// as os.Environ(). base is not modified.
func (e *Environment) Environ(base []string) []string {
	pathKey := "PATH"
	out := make([]string, 0, len(base)+len(e.Vars)+1)
	seen := make(map[string]bool)
	overrides := e.Map()

	for _, kv := range base {
		k, v, _ := strings.Cut(kv, "=")
		switch {
		case isPathKey(k, e.Platform.OS):
			out = append(out, k+"="+e.SearchPath(v))
			seen[pathKey] = true
		case overrides[k] != "":
			out = append(out, k+"="+overrides[k])
			seen[k] = true
		default:
			out = append(out, kv)
		}
	}

	if !seen[pathKey] {
		out = append(out, pathKey+"="+e.SearchPath(""))
	}
	for _, v := range e.Vars {
		if !seen[v.Name] {
			out = append(out, v.Name+"="+v.Value)
		}
	}

	return out
}

func isPathKey(k string, target platform.OS) bool {
	if target == platform.Windows {
		return strings.EqualFold(k, "PATH")
	}
	return k == "PATH"
}

// Script renders the environment as a sourceable script: POSIX shell exports,
// or cmd.exe set statements for Windows targets
func (e *Environment) Script() string {
	var b strings.Builder

	if e.Platform.OS == platform.Windows {
		fmt.Fprintf(&b, "@echo off\r\n")
		fmt.Fprintf(&b, "set \"PATH=%s\"\r\n", e.SearchPath("%PATH%"))
		for _, v := range e.Vars {
			fmt.Fprintf(&b, "set \"%s=%s\"\r\n", v.Name, v.Value)
		}
		return b.String()
	}

	path := strings.Join(e.PathAdditions, e.Platform.PathListSeparator())
	fmt.Fprintf(&b, "export PATH=%s:\"$PATH\"\n", shellquote.Join(path))
	for _, v := range e.Vars {
		fmt.Fprintf(&b, "export %s=%s\n", v.Name, shellquote.Join(v.Value))
	}
	return b.String()
}
