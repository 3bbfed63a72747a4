// pkg/archive/archive.go
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"zombiezen.com/go/nix"
	"zombiezen.com/go/nix/nar"
)

// ErrHashMismatch indicates an archive whose contents do not match the recorded hash
var ErrHashMismatch = errors.New("hash mismatch")

// Result describes a written binary package
type Result struct {
	Path    string // Archive path
	NarHash string // Hash of the uncompressed NAR in nix base-32, e.g. "sha256:1b8m..."
	NarSize int64  // Size of the uncompressed NAR
	Size    int64  // Size of the archive on disk
}

// Archiver writes and restores binary packages
type Archiver struct {
	logger *log.Logger
}

// New creates an Archiver. A nil logger discards output.
func New(logger *log.Logger) *Archiver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Archiver{logger: logger}
}

// Pack serializes the tree at root as a compressed NAR at dest. The codec
// follows the extension of dest. dest is replaced atomically; a failed Pack
// leaves no partial archive.
func (a *Archiver) Pack(ctx context.Context, root, dest string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	codec, err := CompressionOf(dest)
	if err != nil {
		return nil, err
	}

	a.logger.Printf("Packing %s -> %s", root, dest)

	if _, err := os.Lstat(root); err != nil {
		return nil, fmt.Errorf("packing %s: %w", root, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	f, err := renameio.TempFile("", dest)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	defer f.Cleanup()

	fileCount := &countingWriter{w: f}
	cw, err := codec.newWriter(fileCount)
	if err != nil {
		return nil, fmt.Errorf("creating %s writer: %w", codec, err)
	}

	h := nix.NewHasher(nix.SHA256)
	narCount := &countingWriter{w: io.MultiWriter(cw, h)}
	if err := nar.DumpPath(&contextWriter{ctx: ctx, w: narCount}, root); err != nil {
		cw.Close()
		return nil, fmt.Errorf("serializing %s: %w", root, err)
	}

	if err := cw.Close(); err != nil {
		return nil, fmt.Errorf("finishing %s stream: %w", codec, err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("writing archive: %w", err)
	}

	res := &Result{
		Path:    dest,
		NarHash: h.SumHash().Base32(),
		NarSize: narCount.n,
		Size:    fileCount.n,
	}
	a.logger.Printf("✓ Packed %d bytes (%d compressed), %s", res.NarSize, res.Size, res.NarHash)
	return res, nil
}

// Unpack restores the archive at src into dest, which must not exist yet.
// When wantHash is non-empty the NAR hash is verified before dest appears.
func (a *Archiver) Unpack(ctx context.Context, src, dest, wantHash string) error {
	a.logger.Printf("Unpacking %s -> %s", src, dest)

	codec, err := CompressionOf(src)
	if err != nil {
		return err
	}

	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("unpacking: %s already exists", dest)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer in.Close()

	cr, err := codec.newReader(in)
	if err != nil {
		return fmt.Errorf("creating %s reader: %w", codec, err)
	}
	defer cr.Close()

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".unpack-*")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	// the NAR root lands at staging/root so a single-file archive works too
	target := filepath.Join(staging, "root")
	h := nix.NewHasher(nix.SHA256)
	stream := io.TeeReader(cr, h)

	fileCount, err := a.extract(ctx, nar.NewReader(stream), target)
	if err != nil {
		return err
	}
	// drain any trailer so the hash covers the whole stream
	if _, err := io.Copy(io.Discard, stream); err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}

	if wantHash != "" {
		if got := h.SumHash().Base32(); got != wantHash {
			return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, wantHash, got)
		}
		a.logger.Printf("  ✓ Hashes match!")
	}

	if err := os.Rename(target, dest); err != nil {
		return fmt.Errorf("moving into place: %w", err)
	}

	a.logger.Printf("✓ Extraction complete (%d files)", fileCount)
	return nil
}

func (a *Archiver) extract(ctx context.Context, narReader *nar.Reader, destPath string) (int, error) {
	fileCount := 0

	for {
		if err := ctx.Err(); err != nil {
			return fileCount, err
		}

		hdr, err := narReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileCount, fmt.Errorf("reading NAR entry: %w", err)
		}

		targetPath := filepath.Join(destPath, filepath.FromSlash(hdr.Path))

		switch hdr.Mode.Type() {
		case os.ModeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
		case os.ModeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fileCount, fmt.Errorf("creating parent directory: %w", err)
			}
			if err := os.Symlink(hdr.LinkTarget, targetPath); err != nil {
				return fileCount, fmt.Errorf("creating symlink: %w", err)
			}
		case 0:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fileCount, fmt.Errorf("creating parent directory: %w", err)
			}

			perm := os.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
			if err != nil {
				return fileCount, fmt.Errorf("creating file %s: %w", targetPath, err)
			}

			written, err := io.Copy(outFile, narReader)
			closeErr := outFile.Close()
			if err != nil {
				return fileCount, fmt.Errorf("writing %s: %w", targetPath, err)
			}
			if closeErr != nil {
				return fileCount, fmt.Errorf("writing %s: %w", targetPath, closeErr)
			}
			if written != hdr.Size {
				return fileCount, fmt.Errorf("writing %s: size mismatch", targetPath)
			}
			// umask may have masked the executable bits
			if err := os.Chmod(targetPath, perm); err != nil {
				return fileCount, fmt.Errorf("setting mode of %s: %w", targetPath, err)
			}
			fileCount++
		}
	}

	return fileCount, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// contextWriter fails writes once ctx is done, aborting long serializations
type contextWriter struct {
	ctx context.Context
	w   io.Writer
}

func (cw *contextWriter) Write(p []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}
