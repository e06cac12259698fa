// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/addonhelper/addonhelper/pkg/fspath"

	"github.com/charlievieth/fastwalk"
)

// CopyTree merges the contents of src into dst. Files at the same relative
// path are overwritten and files only present in dst are left alone.
// Symlinks are not followed. It returns the number of files copied.
func CopyTree(ctx context.Context, src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("copy source %s is not a directory", src)
	}
	if err := os.MkdirAll(dst, fspath.DirPerm); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	var copied atomic.Int64
	conf := fastwalk.Config{Follow: false}

	// fastwalk invokes the callback from several goroutines.
	err = fastwalk.Walk(&conf, src, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}
		if path == src {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, fspath.DirPerm)
		case !d.Type().IsRegular():
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(target), fspath.DirPerm); err != nil {
			return err
		}
		if err := copyFile(path, target); err != nil {
			return fmt.Errorf("failed to copy %s: %w", rel, err)
		}
		copied.Add(1)
		return nil
	})

	return int(copied.Load()), err
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fspath.FilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
