// emsdk.go
package emsdk

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/arc-language/emsdk/pkg/archive"
	"github.com/arc-language/emsdk/pkg/core"
	"github.com/arc-language/emsdk/pkg/platform"
	"github.com/arc-language/emsdk/pkg/recipe"
	"github.com/arc-language/emsdk/pkg/toolchain"
)

// Re-export types for convenience
type (
	Config      = core.Config
	Descriptor  = platform.Descriptor
	Environment = toolchain.Environment
	Layout      = toolchain.Layout
	Recipe      = recipe.Recipe
	Manifest    = archive.Manifest
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// PackageInfo is what the package exposes to its consumers
type PackageInfo struct {
	Reference   string                 `json:"reference" yaml:"reference"`
	PackageID   string                 `json:"package_id" yaml:"package_id"`
	Platform    platform.Descriptor    `json:"platform" yaml:"platform"`
	Environment *toolchain.Environment `json:"environment" yaml:"environment"`
}

// Packager turns an installed SDK tree into a binary package for one target
type Packager struct {
	config   *core.Config
	recipe   *recipe.Recipe
	target   platform.Descriptor
	resolver *toolchain.Resolver
	archiver *archive.Archiver
	logger   *log.Logger
}

// NewPackager creates a packager from config
func NewPackager(config *Config) (*Packager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}

	rcp := recipe.Default()
	if config.Recipe != "" {
		var err error
		if rcp, err = recipe.Load(config.Recipe); err != nil {
			return nil, err
		}
	}

	target, err := config.Platform()
	if err != nil {
		return nil, fmt.Errorf("resolving target platform: %w", err)
	}
	if err := rcp.Supports(target); err != nil {
		return nil, &Error{Op: "configure", Package: rcp.Reference(), Err: err}
	}

	if config.PackageRoot == "" {
		return nil, fmt.Errorf("package root is required")
	}
	root, err := filepath.Abs(config.PackageRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving package root: %w", err)
	}
	if err := checkCachePath(root, config.CachePath); err != nil {
		return nil, &Error{Op: "configure", Package: rcp.Reference(), Err: err}
	}

	logger := config.GetLogger()
	if config.Debug {
		logger.Printf("Initialized Packager")
		logger.Printf("  Recipe: %s", rcp.Reference())
		logger.Printf("  Root: %s", root)
		logger.Printf("  Target: %s", target)
	}

	return &Packager{
		config:   config,
		recipe:   rcp,
		target:   target,
		resolver: toolchain.New(rcp.ToolchainLayout(root), logger),
		archiver: archive.New(logger),
		logger:   logger,
	}, nil
}

// checkCachePath rejects a cache inside the package tree, which Package would
// otherwise serialize into every new archive
func checkCachePath(root, cache string) error {
	if cache == "" {
		return nil
	}
	abs, err := filepath.Abs(cache)
	if err != nil {
		return fmt.Errorf("resolving cache path: %w", err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return fmt.Errorf("%w: %s is inside %s", ErrCacheInsidePackage, abs, root)
}

// Recipe returns the recipe being packaged
func (p *Packager) Recipe() *Recipe {
	return p.recipe
}

// Target returns the platform being packaged for
func (p *Packager) Target() Descriptor {
	return p.target
}

// Layout returns the layout of the installed SDK
func (p *Packager) Layout() Layout {
	return p.resolver.Layout()
}

// PackageID returns the identity of the binary package for the target
func (p *Packager) PackageID() (string, error) {
	id, err := p.recipe.PackageID(p.target)
	if err != nil {
		return "", &Error{Op: "package id", Package: p.recipe.Reference(), Err: err}
	}
	return id, nil
}

// Info resolves everything a consumer needs from the installed package.
// It is recomputed on every call.
func (p *Packager) Info() (*PackageInfo, error) {
	id, err := p.PackageID()
	if err != nil {
		return nil, err
	}

	env, err := p.resolver.BuildEnvironment(p.target)
	if err != nil {
		return nil, &Error{Op: "info", Package: p.recipe.Reference(), Err: err}
	}

	return &PackageInfo{
		Reference:   p.recipe.Reference(),
		PackageID:   id,
		Platform:    p.target,
		Environment: env,
	}, nil
}

// Patch applies the toolchain file patch and returns how many substitutions fired
func (p *Packager) Patch() (int, error) {
	applied, err := p.resolver.Patch()
	if err != nil {
		return 0, &Error{Op: "patch", Package: p.recipe.Reference(), Err: err}
	}
	return applied, nil
}

// EnsureScripts makes auxiliary scripts, given relative to the package root,
// executable. With create set, missing scripts are first created as
// placeholders; without it a missing script is an error.
func (p *Packager) EnsureScripts(paths []string, create bool) error {
	root := p.resolver.Layout().RootDir

	for _, rel := range paths {
		path := filepath.Join(root, filepath.FromSlash(rel))

		if create {
			created, err := toolchain.EnsureFilePresent(path)
			if err != nil {
				return &Error{Op: "ensure", Package: p.recipe.Reference(), Err: err}
			}
			if created {
				p.logger.Printf("Created placeholder %s", path)
			}
		}

		if p.target.OS == platform.Windows {
			continue
		}
		if err := toolchain.EnsureExecutable(path); err != nil {
			return &Error{Op: "ensure", Package: p.recipe.Reference(), Err: err}
		}
	}

	return nil
}

// ArchivePath returns where the binary package for the target is cached
func (p *Packager) ArchivePath() (string, error) {
	id, err := p.PackageID()
	if err != nil {
		return "", err
	}
	codec, err := archive.ParseCompression(p.config.Compression)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.config.CachePath, p.recipe.Name, p.recipe.Version, id+codec.Extension()), nil
}

// Package runs the packaging lifecycle: patch the toolchain file, verify the
// environment resolves, then store the tree as a binary package in the cache.
// It returns the manifest and its path.
func (p *Packager) Package(ctx context.Context) (*Manifest, string, error) {
	applied, err := p.Patch()
	if err != nil {
		return nil, "", err
	}
	p.logger.Printf("Toolchain patch: %d substitutions applied", applied)

	info, err := p.Info()
	if err != nil {
		return nil, "", err
	}

	dest, err := p.ArchivePath()
	if err != nil {
		return nil, "", err
	}

	res, err := p.archiver.Pack(ctx, p.resolver.Layout().RootDir, dest)
	if err != nil {
		return nil, "", &Error{Op: "package", Package: info.Reference, Err: err}
	}

	m := &archive.Manifest{
		Name:      p.recipe.Name,
		Version:   p.recipe.Version,
		PackageID: info.PackageID,
		Archive:   filepath.Base(res.Path),
		NarHash:   res.NarHash,
		NarSize:   res.NarSize,
		Size:      res.Size,
		Platform:  p.target.Normalize(),
	}
	manifestPath := archive.ManifestPath(res.Path)
	if err := archive.WriteManifest(manifestPath, m); err != nil {
		return nil, "", &Error{Op: "package", Package: info.Reference, Err: err}
	}

	return m, manifestPath, nil
}

// Restore unpacks the cached binary package for the target into dest. The
// manifest names the archive, so packages of either codec restore.
func (p *Packager) Restore(ctx context.Context, dest string) (*Manifest, error) {
	archivePath, err := p.ArchivePath()
	if err != nil {
		return nil, err
	}

	manifestPath := archive.ManifestPath(archivePath)
	m, err := archive.ReadManifest(manifestPath)
	if err != nil {
		return nil, &Error{Op: "restore", Package: p.recipe.Reference(), Err: err}
	}

	if err := p.archiver.Unpack(ctx, m.ArchivePath(manifestPath), dest, m.NarHash); err != nil {
		return nil, &Error{Op: "restore", Package: p.recipe.Reference(), Err: err}
	}
	return m, nil
}
