package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/vbauerster/mpb/v8"
	cmdCommon "github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/internal/cookies"
	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// fsys is the filesystem cookie sources are read from.
var fsys afero.Fs = afero.NewOsFs()

// progressOutput receives the import progress bar.
var progressOutput io.Writer = os.Stderr

func cliLogger() logger.Logger {
	if common.IsDebug() {
		return logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags), logger.WithPrefix("warpjar"))
	}
	return logger.NewNopLogger()
}

// seedJar starts a local jar and loads every cookie source into it. A
// source is a cookie file path or "auto". The caller owns the returned jar.
func seedJar(ctx context.Context, l logger.Logger, sources []string, domain string, progress bool, opts ...cookiejar.Option) (*cookiejar.Jar, error) {
	jar := cookiejar.New(ctx, append([]cookiejar.Option{cookiejar.WithLogger(l)}, opts...)...)
	if len(sources) == 0 {
		return jar, nil
	}
	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	if progress {
		p = mpb.New(mpb.WithOutput(progressOutput), mpb.WithWidth(48))
		bar = cmdCommon.InitImportBar(p, len(sources))
	}
	for _, src := range sources {
		imported, source, err := cookies.ImportSource(fsys, src, domain)
		if err != nil {
			if bar != nil {
				bar.Abort(false)
				p.Wait()
			}
			jar.Close()
			return nil, fmt.Errorf("error: cannot import %s: %w", src, err)
		}
		seed := cookies.ToStore(imported, time.Now())
		jar.Load(seed)
		l.Info("imported %d cookies from %s (%s)", len(seed), source.Path, source.Browser)
		if bar != nil {
			bar.Increment()
		}
	}
	if p != nil {
		p.Wait()
	}
	return jar, nil
}
