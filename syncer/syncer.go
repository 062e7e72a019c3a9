// Package syncer runs one synchronization of a worksheet into locale files.
//
// A run has four phases executed in order: prepare the output directory,
// fetch the document, map its rows, and write one file per language. Every
// phase reports into a single Report; main decides the exit code from it.
// Directory and write failures are logged and the run continues. Fetch and
// map failures stop the run before anything is written.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/sheetsync/config"
	"github.com/minios-linux/sheetsync/gsheet"
	"github.com/minios-linux/sheetsync/i18n"
	"github.com/minios-linux/sheetsync/localejson"
	"github.com/minios-linux/sheetsync/mapper"
)

// Options controls a sync run.
type Options struct {
	Config *config.Config
	// Connect returns the spreadsheet client. It is called in the fetch
	// phase, after the output directory has been prepared.
	Connect func(ctx context.Context) (gsheet.Client, error)
	// DryRun maps rows and reports key counts without touching the filesystem.
	DryRun bool

	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
	// OnSuccess emits completion messages.
	OnSuccess func(format string, args ...any)
	// OnWarning emits non-fatal anomalies.
	OnWarning func(format string, args ...any)
	// OnError emits failures.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logSuccess(format string, args ...any) {
	if o.OnSuccess != nil {
		o.OnSuccess(format, args...)
	} else {
		o.log(format, args...)
	}
}

func (o *Options) logWarning(format string, args ...any) {
	if o.OnWarning != nil {
		o.OnWarning(format, args...)
	} else {
		o.log(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else {
		o.log(format, args...)
	}
}

// Run executes all phases and returns their outcome.
func Run(ctx context.Context, opts Options) *Report {
	cfg := opts.Config
	report := &Report{}

	if opts.DryRun {
		report.skip(PhasePrepare)
	} else {
		opts.log(i18n.T("Checking and making locale directories..."))
		report.add(PhasePrepare, prepare(cfg, &opts))
	}

	opts.log(i18n.T("Getting Google Sheet data..."))
	doc, err := fetch(ctx, cfg, opts.Connect)
	report.add(PhaseFetch, err)
	if err != nil {
		opts.logError(i18n.T("Failed to get Google Sheet data: %v"), err)
		report.skip(PhaseMap)
		report.skip(PhaseWrite)
		return report
	}

	opts.log(i18n.T("Mapping Google Sheet data..."))
	result, err := mapper.Map(ctx, doc, cfg)
	report.add(PhaseMap, err)
	if err != nil {
		opts.logError(i18n.T("Failed to map Google Sheet data: %v"), err)
		report.skip(PhaseWrite)
		return report
	}
	report.Result = result
	summarize(result, cfg, &opts)

	if opts.DryRun {
		report.skip(PhaseWrite)
		return report
	}

	opts.log(i18n.T("Updating locales..."))
	files, err := writeAll(result, cfg.OutputDir, &opts)
	report.Files = files
	report.add(PhaseWrite, err)
	if err != nil {
		opts.logError(i18n.T("Failed to update locales."))
	}

	return report
}

func prepare(cfg *config.Config, opts *Options) error {
	dirErrs := PrepareDirs(cfg.OutputDir, cfg.SubDirs)
	errs := make([]error, 0, len(dirErrs))
	for _, de := range dirErrs {
		opts.logError(i18n.T("Failed to create directory: %s"), de.Path)
		opts.logError("%v", de.Err)
		errs = append(errs, de)
	}
	return errors.Join(errs...)
}

func fetch(ctx context.Context, cfg *config.Config, connect func(context.Context) (gsheet.Client, error)) (*gsheet.Document, error) {
	if connect == nil {
		return nil, fmt.Errorf("no spreadsheet client configured")
	}
	client, err := connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.Open(ctx, cfg.DocumentID)
}

func summarize(result *mapper.Result, cfg *config.Config, opts *Options) {
	if !result.SheetFound {
		opts.logWarning(i18n.T("Sheet %d not found in document; locale files will be empty"), cfg.SheetID)
		return
	}
	if result.SkippedRows > 0 {
		opts.logWarning(i18n.N("Skipped %d row without a key", "Skipped %d rows without a key", result.SkippedRows), result.SkippedRows)
	}
	for _, lang := range result.Languages {
		opts.log(i18n.T("%s (%s): %d keys"), lang, languageName(lang), result.Map(lang).Len())
	}
}

// writeAll writes every language file concurrently and waits for all of
// them. A failed write does not cancel the others.
func writeAll(result *mapper.Result, dir string, opts *Options) ([]FileResult, error) {
	files := make([]FileResult, len(result.Languages))

	var g errgroup.Group
	for i, lang := range result.Languages {
		i := i
		m := result.Map(lang)
		files[i] = FileResult{Lang: lang, Path: localejson.Path(dir, lang), Keys: m.Len()}

		g.Go(func() error {
			fr := &files[i]
			if err := localejson.WriteFile(fr.Path, m); err != nil {
				fr.Err = err
				opts.logError("%v", err)
				return err
			}
			opts.logSuccess(i18n.T("Successfully updated %s"), fr.Path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var errs []error
		for _, fr := range files {
			if fr.Err != nil {
				errs = append(errs, fr.Err)
			}
		}
		return files, errors.Join(errs...)
	}
	return files, nil
}

// languageName returns the native name of a language code, or the code
// itself when it is unknown.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}
