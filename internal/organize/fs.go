package organize

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"foldr/internal/errors"
	"foldr/internal/log"

	"github.com/dustin/go-humanize"
)

// metaExt is the sidecar each asset folder carries next to it.
const metaExt = ".meta"

// MergeStats summarises a merge.
type MergeStats struct {
	Files int
	Bytes int64
}

// FileSystem is the asset store the orchestrator moves folders in. All
// paths are project-relative and slash separated.
type FileSystem interface {
	IsDir(p string) bool
	Exists(p string) bool
	// Move renames a folder together with its sidecar.
	Move(src, dst string) error
	// Merge copies src into the existing folder dst, overwriting files
	// with the same name, then deletes src.
	Merge(src, dst string) (MergeStats, error)
}

// OSFileSystem is a FileSystem over a project directory on disk.
type OSFileSystem struct {
	root string
}

var _ FileSystem = (*OSFileSystem)(nil)

// NewOSFileSystem returns a FileSystem rooted at the project directory.
func NewOSFileSystem(root string) *OSFileSystem {
	return &OSFileSystem{root: root}
}

func (f *OSFileSystem) abs(p string) string {
	return filepath.Join(f.root, filepath.FromSlash(p))
}

// IsDir reports whether p is an existing directory.
func (f *OSFileSystem) IsDir(p string) bool {
	info, err := os.Stat(f.abs(p))
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at p.
func (f *OSFileSystem) Exists(p string) bool {
	_, err := os.Lstat(f.abs(p))
	return err == nil
}

// Move renames src to dst. A rename across devices falls back to copying
// the tree and deleting the source.
func (f *OSFileSystem) Move(src, dst string) error {
	from, to := f.abs(src), f.abs(dst)

	if _, err := os.Lstat(to); err == nil {
		return errors.NewFileError("destination already exists", dst, errors.FileOperationFailed, nil)
	}

	if err := rename(from, to); err != nil {
		return errors.NewFileError("failed to move folder", src, errors.FileOperationFailed, err)
	}

	if _, err := os.Lstat(from + metaExt); err == nil {
		if err := rename(from+metaExt, to+metaExt); err != nil {
			return errors.NewFileError("failed to move sidecar", src+metaExt, errors.FileOperationFailed, err)
		}
	}

	log.Debug("Moved %s -> %s", src, dst)
	return nil
}

// Merge copies every file of src over dst, creating directories that are
// missing, then removes src and its sidecar. A failure part way leaves the
// files copied so far in place.
func (f *OSFileSystem) Merge(src, dst string) (MergeStats, error) {
	var stats MergeStats
	from, to := f.abs(src), f.abs(dst)

	err := filepath.WalkDir(from, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, p)
		if err != nil {
			return err
		}
		target := filepath.Join(to, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := copyFileMode(p, target, info.Mode().Perm()); err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return stats, errors.NewFileError("failed to merge folder", src, errors.FileOperationFailed, err)
	}

	if err := os.RemoveAll(from); err != nil {
		return stats, errors.NewFileError("failed to delete merged folder", src, errors.FileOperationFailed, err)
	}
	if err := f.mergeMeta(from, to); err != nil {
		return stats, errors.NewFileError("failed to merge sidecar", src+metaExt, errors.FileOperationFailed, err)
	}

	log.Info("Merged %s into %s: %d files, %s", src, dst, stats.Files, humanize.Bytes(uint64(stats.Bytes)))
	return stats, nil
}

// mergeMeta keeps the destination's sidecar when it has one.
func (f *OSFileSystem) mergeMeta(from, to string) error {
	if _, err := os.Lstat(from + metaExt); err != nil {
		return nil
	}
	if _, err := os.Lstat(to + metaExt); err == nil {
		return os.Remove(from + metaExt)
	}
	return rename(from+metaExt, to+metaExt)
}

func rename(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || linkErr.Err != syscall.EXDEV {
		return err
	}

	log.Debug("Cross-device rename, copying %s", from)
	if err := copyTree(from, to); err != nil {
		_ = os.RemoveAll(to)
		return err
	}
	return os.RemoveAll(from)
}

func copyTree(from, to string) error {
	return filepath.WalkDir(from, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, p)
		if err != nil {
			return err
		}
		target := filepath.Join(to, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFileMode(p, target, info.Mode().Perm())
	})
}

// copyFileMode streams src to dst, setting the given file mode on dst.
func copyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
