package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

const (
	probeConcurrency = 4
	sniffLen         = 512
)

// ProbeResult holds the files discovered for a batch of raw paths.
type ProbeResult struct {
	Files []File
	// Missing lists paths that did not exist.
	Missing []string
}

// PageCounter returns the page count of the PDF at path.
type PageCounter func(path string) (int, error)

// Prober turns user supplied paths into candidate files.
type Prober struct {
	CountPages PageCounter
}

var pdfcpuOnce sync.Once

// NewProber returns a Prober that reads page counts with pdfcpu.
func NewProber() *Prober {
	pdfcpuOnce.Do(api.DisableConfigDir)
	return &Prober{CountPages: api.PageCountFile}
}

// Probe stats and sniffs every path concurrently. Directories expand to the
// regular files they contain. Output order follows input order.
func (p *Prober) Probe(ctx context.Context, paths []string) (ProbeResult, error) {
	expanded, missing, err := expand(paths)
	if err != nil {
		return ProbeResult{}, err
	}

	files := make([]File, len(expanded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for i, path := range expanded {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := p.probeFile(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ProbeResult{}, err
	}
	return ProbeResult{Files: files, Missing: missing}, nil
}

func (p *Prober) probeFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	f := File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}
	mediaType, err := sniff(path)
	if err != nil {
		return File{}, err
	}
	f.MediaType = mediaType
	if f.IsPDF() && p.CountPages != nil {
		if pages, err := p.CountPages(path); err == nil {
			f.Pages = pages
		}
	}
	return f, nil
}

func sniff(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if n == 0 {
		return "", nil
	}
	return http.DetectContentType(head[:n]), nil
}

func expand(paths []string) (files, missing []string, err error) {
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, path)
				continue
			}
			return nil, nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, abs)
			continue
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, nil, fmt.Errorf("read dir %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				files = append(files, filepath.Join(abs, entry.Name()))
			}
		}
	}
	return files, missing, nil
}
