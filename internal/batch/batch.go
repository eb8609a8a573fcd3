package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Processor watermarks src into dst.
type Processor interface {
	Process(src, dst string) error
}

// Report summarizes a batch run.
type Report struct {
	OutDir  string
	Written []string
	// Failed holds one wrapped error per image that could not be processed.
	Failed *multierror.Error
}

// FailedCount is the number of images that failed.
func (r Report) FailedCount() int {
	if r.Failed == nil {
		return 0
	}
	return len(r.Failed.Errors)
}

// Run processes images sequentially into outDir, which must exist. Each
// output keeps the source's base name, so equal names from different
// subdirectories overwrite each other. A failing image is logged and
// recorded; it never stops the batch.
func Run(images []string, outDir string, p Processor, log zerolog.Logger) Report {
	rep := Report{OutDir: outDir}
	for _, src := range images {
		dst := filepath.Join(outDir, filepath.Base(src))
		if err := p.Process(src, dst); err != nil {
			log.Error().Err(err).Str("src", src).Msg("watermark failed")
			rep.Failed = multierror.Append(rep.Failed, fmt.Errorf("%s: %w", src, err))
			continue
		}
		ev := log.Info().Str("src", src).Str("dst", dst)
		if fi, err := os.Stat(dst); err == nil {
			ev = ev.Str("size", humanize.Bytes(uint64(fi.Size())))
		}
		ev.Msg("watermarked")
		rep.Written = append(rep.Written, dst)
	}
	return rep
}
