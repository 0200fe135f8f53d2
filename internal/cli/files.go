package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// errNoAttachments is returned when no attachment bucket is configured.
var errNoAttachments = fmt.Errorf("attachment storage not configured")

// Upload stores a local file as an attachment under the current scope.
func (a *App) Upload(ctx context.Context, name, path string) error {
	if a.blobs == nil {
		return errNoAttachments
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.blobs.Put(ctx, a.sc, name, f); err != nil {
		printlnFn("Upload failed:", err)
		return err
	}
	printlnFn("Uploaded", name)
	return nil
}

// Download fetches an attachment into a local file.
func (a *App) Download(ctx context.Context, name, path string) error {
	if a.blobs == nil {
		return errNoAttachments
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	rc, err := a.blobs.Get(ctx, a.sc, name)
	if err != nil {
		printlnFn("Download failed:", err)
		return err
	}
	defer rc.Close()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, rc); err != nil {
		return err
	}
	printlnFn("Saved to", path)
	return nil
}

// Files lists the attachments stored under the current scope.
func (a *App) Files(ctx context.Context) error {
	if a.blobs == nil {
		return errNoAttachments
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	names, err := a.blobs.List(ctx, a.sc)
	if err != nil {
		printlnFn("Could not list attachments:", err)
		return err
	}
	if len(names) == 0 {
		printlnFn("(no attachments)")
		return nil
	}
	for _, n := range names {
		printlnFn(n)
	}
	return nil
}
