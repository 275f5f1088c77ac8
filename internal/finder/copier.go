package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"image-finder/internal/models"
)

// errTaken reports that the destination name was claimed while copying.
var errTaken = errors.New("destination already exists")

// Copier copies matches into a destination folder without ever
// overwriting an existing file.
type Copier struct {
	bufSize int
	link    func(oldname, newname string) error

	beforePublish func(dest string)
}

func NewCopier() *Copier {
	return &Copier{bufSize: 256 * 1024, link: os.Link}
}

// Copy copies m into destDir under its own name. It returns Existing when
// the destination name is already taken, including when another writer
// creates it while the copy runs. Contents, permission bits and
// modification time are copied; a failed copy leaves nothing behind.
func (c *Copier) Copy(ctx context.Context, m Match, destDir string) (models.Outcome, int64, error) {
	dest := filepath.Join(destDir, m.Name)

	if _, err := os.Lstat(dest); err == nil {
		return models.Existing, 0, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return models.Failed, 0, fmt.Errorf("stat %s: %w", dest, err)
	}

	n, err := c.copyFile(ctx, m.Path(), dest)
	if errors.Is(err, errTaken) {
		return models.Existing, 0, nil
	}
	if err != nil {
		return models.Failed, 0, err
	}
	return models.Copied, n, nil
}

func (c *Copier) copyFile(ctx context.Context, src, dest string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".image-finder-*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	buf := make([]byte, c.bufSize)
	n, err = io.CopyBuffer(tmp, &ctxReader{ctx: ctx, r: in}, buf)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("chmod: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}
	if err = os.Chtimes(tmp.Name(), info.ModTime(), info.ModTime()); err != nil {
		return 0, fmt.Errorf("set times: %w", err)
	}

	if c.beforePublish != nil {
		c.beforePublish(dest)
	}
	if err = c.publish(tmp.Name(), dest, info); err != nil {
		return 0, err
	}
	return n, nil
}

// publish moves the finished temp file to dest. A hard link fails when
// dest exists, unlike a rename; file systems without hard links get an
// exclusive create instead.
func (c *Copier) publish(tmpName, dest string, info fs.FileInfo) error {
	err := c.link(tmpName, dest)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return errTaken
	}
	return publishExclusive(tmpName, dest, info)
}

func publishExclusive(tmpName, dest string, info fs.FileInfo) (err error) {
	in, err := os.Open(tmpName)
	if err != nil {
		return fmt.Errorf("reopen temp file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if errors.Is(err, fs.ErrExist) {
		return errTaken
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err = out.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("set times: %w", err)
	}
	return nil
}

// ctxReader aborts a copy when the context is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
