package emsdk_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/emsdk"
	"github.com/arc-language/emsdk/pkg/platform"
	"github.com/arc-language/emsdk/pkg/toolchain"
)

const toolchainFile = `set(CMAKE_FIND_ROOT_PATH_MODE_LIBRARY ONLY)
set(CMAKE_FIND_ROOT_PATH_MODE_INCLUDE ONLY)
set(CMAKE_FIND_ROOT_PATH_MODE_PACKAGE ONLY)
`

// installSDK lays out what the vendor installer leaves behind
func installSDK(tb testing.TB) string {
	tb.Helper()

	root := filepath.Join(tb.TempDir(), "emsdk")
	layout := toolchain.DefaultLayout(root)
	require.NoError(tb, os.MkdirAll(filepath.Dir(layout.ToolchainPath()), 0o755))
	require.NoError(tb, os.WriteFile(layout.ToolchainPath(), []byte(toolchainFile), 0o644))
	require.NoError(tb, os.WriteFile(layout.ConfigPath(), []byte("NODE_JS = ''\n"), 0o644))
	require.NoError(tb, os.WriteFile(filepath.Join(root, "emsdk"), []byte("#!/bin/sh\n"), 0o644))
	for _, tool := range layout.Tools {
		path := filepath.Join(layout.ToolsDir(), tool.Base)
		require.NoError(tb, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))
	}
	return root
}

func newPackager(tb testing.TB, root, osName, archName string) *emsdk.Packager {
	tb.Helper()

	p, err := emsdk.NewPackager(&emsdk.Config{
		PackageRoot: root,
		CachePath:   filepath.Join(tb.TempDir(), "cache"),
		OS:          osName,
		Arch:        archName,
	})
	require.NoError(tb, err)
	return p
}

func TestPackagerInfo(t *testing.T) {
	root := installSDK(t)
	p := newPackager(t, root, "Linux", "x86_64")

	info, err := p.Info()
	require.NoError(t, err)
	require.Equal(t, "emsdk_installer/"+p.Recipe().Version, info.Reference)
	require.Equal(t, platform.Descriptor{OS: platform.Linux, Arch: platform.X86_64}, info.Platform)
	require.Equal(t, []string{root, filepath.Join(root, "upstream", "emscripten")}, info.Environment.PathAdditions)

	cxx, ok := info.Environment.Lookup("CXX")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "upstream", "emscripten", "em++"), cxx)
}

func TestPackagerRejectsInvalidTarget(t *testing.T) {
	_, err := emsdk.NewPackager(&emsdk.Config{PackageRoot: t.TempDir(), OS: "Linux", Arch: "macos_fat"})
	require.ErrorIs(t, err, emsdk.ErrPlatformNotSupported)
}

func TestPackagerRejectsCacheInsideRoot(t *testing.T) {
	root := installSDK(t)

	for _, cache := range []string{root, filepath.Join(root, "cache"), filepath.Join(root, "upstream", "..", "cache")} {
		_, err := emsdk.NewPackager(&emsdk.Config{PackageRoot: root, CachePath: cache, OS: "Linux", Arch: "x86_64"})
		require.ErrorIs(t, err, emsdk.ErrCacheInsidePackage, cache)
	}

	// a sibling whose name merely starts with the root's is fine
	_, err := emsdk.NewPackager(&emsdk.Config{PackageRoot: root, CachePath: root + "-cache", OS: "Linux", Arch: "x86_64"})
	require.NoError(t, err)
}

func TestPackagerRepackIsStable(t *testing.T) {
	ctx := context.Background()
	root := installSDK(t)
	p := newPackager(t, root, "Linux", "x86_64")

	first, _, err := p.Package(ctx)
	require.NoError(t, err)
	second, _, err := p.Package(ctx)
	require.NoError(t, err)
	require.Equal(t, first.NarHash, second.NarHash)
	require.Equal(t, first.NarSize, second.NarSize)

	dest := filepath.Join(t.TempDir(), "restored")
	_, err = p.Restore(ctx, dest)
	require.NoError(t, err)
	require.NoDirExists(t, filepath.Join(dest, "cache"))
}

func TestPackagerPackageID(t *testing.T) {
	root := installSDK(t)

	fat, err := newPackager(t, root, "Macos", "macos_fat").PackageID()
	require.NoError(t, err)
	thin, err := newPackager(t, root, "Macos", "x86_64").PackageID()
	require.NoError(t, err)
	require.Equal(t, thin, fat)

	win, err := newPackager(t, root, "Windows", "x86_64").PackageID()
	require.NoError(t, err)
	require.NotEqual(t, fat, win)
}

func TestPackagerEnsureScripts(t *testing.T) {
	root := installSDK(t)
	p := newPackager(t, root, "Linux", "x86_64")

	require.ErrorIs(t, p.EnsureScripts([]string{"python_selector"}, false), emsdk.ErrToolNotFound)

	require.NoError(t, p.EnsureScripts([]string{"emsdk", "python_selector"}, true))
	for _, name := range []string{"emsdk", "python_selector"} {
		info, err := os.Stat(filepath.Join(root, name))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o111), info.Mode().Perm()&0o111, name)
	}
}

func TestPackagerLifecycle(t *testing.T) {
	ctx := context.Background()
	root := installSDK(t)
	p := newPackager(t, root, "Macos", "macos_fat")

	m, manifestPath, err := p.Package(ctx)
	require.NoError(t, err)
	require.FileExists(t, manifestPath)
	require.Equal(t, platform.Descriptor{OS: platform.MacOS, Arch: platform.X86_64}, m.Platform)

	id, err := p.PackageID()
	require.NoError(t, err)
	require.Equal(t, id, m.PackageID)

	data, err := os.ReadFile(p.Layout().ToolchainPath())
	require.NoError(t, err)
	require.NotContains(t, string(data), "ONLY")

	// a retried packaging step finds nothing left to patch
	applied, err := p.Patch()
	require.NoError(t, err)
	require.Equal(t, 0, applied)

	dest := filepath.Join(t.TempDir(), "restored")
	restored, err := p.Restore(ctx, dest)
	require.NoError(t, err)
	require.Equal(t, m, restored)

	patched, err := os.ReadFile(filepath.Join(dest, "upstream", "emscripten", "cmake", "Modules", "Platform", "Emscripten.cmake"))
	require.NoError(t, err)
	require.Equal(t, string(data), string(patched))

	// the restored tree is a complete package on its own
	q := newPackager(t, dest, "Macos", "x86_64")
	_, err = q.Info()
	require.NoError(t, err)
}

func TestPackagerZstd(t *testing.T) {
	ctx := context.Background()
	root := installSDK(t)

	p, err := emsdk.NewPackager(&emsdk.Config{
		PackageRoot: root,
		CachePath:   filepath.Join(t.TempDir(), "cache"),
		Compression: "zstd",
		OS:          "Linux",
		Arch:        "x86_64",
	})
	require.NoError(t, err)

	m, _, err := p.Package(ctx)
	require.NoError(t, err)
	require.Regexp(t, `\.nar\.zst$`, m.Archive)

	dest := filepath.Join(t.TempDir(), "restored")
	_, err = p.Restore(ctx, dest)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dest, "upstream", "emscripten", "emcc"))
}

func TestPackagerPatchMissingTarget(t *testing.T) {
	p := newPackager(t, t.TempDir(), "Linux", "x86_64")

	_, err := p.Patch()
	require.ErrorIs(t, err, emsdk.ErrPatchTargetMissing)

	_, _, err = p.Package(context.Background())
	require.ErrorIs(t, err, emsdk.ErrPatchTargetMissing)
}
