// Package walker finds the PDF files named on the command line.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// FileInfo holds metadata about a single PDF found for ingestion.
type FileInfo struct {
	Path        string // Absolute path on disk.
	RelPath     string // Path relative to the argument it was found under.
	Size        int64  // File size in bytes.
	ContentHash string // SHA-256 hex digest of the file content.
}

// WalkerConfig controls the behaviour of Walk and Collect.
type WalkerConfig struct {
	RootDir     string   // Root directory to walk.
	Exclude     []string // Glob patterns; matching files are skipped.
	MaxFileSize int64    // Files larger than this are skipped (0 = no limit).
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// every PDF that passes filtering, in lexical order.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		name := d.Name()

		// Skip default-excluded directories.
		if d.IsDir() {
			if path != root && shouldExcludeDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		// Only process regular PDF files.
		if !d.Type().IsRegular() || !isPDF(name) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		if fi, ok := describe(path, relPath, config.MaxFileSize); ok {
			files = append(files, fi)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// Collect resolves command-line arguments into PDF files. An argument may be
// a file, a directory (walked recursively) or a doublestar glob such as
// "reports/**/*.pdf". Files reached twice, by path or by identical content,
// are returned once.
func Collect(args []string, config WalkerConfig) ([]FileInfo, error) {
	var (
		files    []FileInfo
		seenPath = make(map[string]bool)
		seenHash = make(map[string]string)
	)
	add := func(fi FileInfo) {
		if seenPath[fi.Path] {
			return
		}
		seenPath[fi.Path] = true
		if first, dup := seenHash[fi.ContentHash]; dup {
			log.Printf("walker: skipping %s: same content as %s", fi.Path, first)
			return
		}
		seenHash[fi.ContentHash] = fi.Path
		files = append(files, fi)
	}

	for _, arg := range args {
		info, statErr := os.Stat(arg)
		switch {
		case statErr == nil && info.IsDir():
			cfg := config
			cfg.RootDir = arg
			found, err := Walk(cfg)
			if err != nil {
				return nil, err
			}
			for _, fi := range found {
				add(fi)
			}

		case statErr == nil:
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, fmt.Errorf("walker: resolve %s: %w", arg, err)
			}
			if fi, ok := describe(abs, filepath.Base(abs), config.MaxFileSize); ok {
				add(fi)
			}

		case isGlob(arg):
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("walker: bad pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				if !isPDF(m) || MatchesExclude(m, config.Exclude) {
					continue
				}
				abs, err := filepath.Abs(m)
				if err != nil {
					continue
				}
				if fi, ok := describe(abs, filepath.ToSlash(m), config.MaxFileSize); ok {
					add(fi)
				}
			}

		default:
			return nil, fmt.Errorf("walker: %s: %w", arg, statErr)
		}
	}

	return files, nil
}

// describe stats and hashes a file. It reports false for files that cannot be
// read or exceed maxSize.
func describe(path, relPath string, maxSize int64) (FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, false
	}
	if maxSize > 0 && info.Size() > maxSize {
		log.Printf("walker: skipping %s: %d bytes exceeds the %d byte limit", path, info.Size(), maxSize)
		return FileInfo{}, false
	}

	hash, err := hashFile(path)
	if err != nil {
		return FileInfo{}, false
	}

	return FileInfo{
		Path:        path,
		RelPath:     filepath.ToSlash(relPath),
		Size:        info.Size(),
		ContentHash: hash,
	}, true
}

// hashFile computes the SHA-256 digest of the given file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
