/*
Package toolchain resolves the environment an installed Emscripten SDK exposes
to its consumers.

It handles:
  - Computing the location of the compiler driver wrappers (emcc, em++, ...)
  - Making sure those wrappers are executable on POSIX targets
  - Building the search path additions and named variables a build needs
  - Patching the CMake toolchain file so dependency libraries are discoverable

Basic Usage:

	import "github.com/arc-language/emsdk/pkg/toolchain"

	layout := toolchain.DefaultLayout("/opt/emsdk")
	r := toolchain.New(layout, nil)

	env, err := r.BuildEnvironment(platform.Descriptor{OS: platform.Linux, Arch: platform.X86_64})
	if err != nil {
		return err
	}
	cc, _ := env.Lookup("CC") // /opt/emsdk/upstream/emscripten/emcc

Nothing in this package touches the process environment. Callers decide how
to materialize an Environment, e.g. with Environ when spawning a build:

	cmd.Env = env.Environ(os.Environ())
*/
package toolchain
