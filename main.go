// sheetsync — pulls translation strings from a Google Sheets worksheet into per-language JSON files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/minios-linux/sheetsync/config"
	"github.com/minios-linux/sheetsync/credentials"
	"github.com/minios-linux/sheetsync/gsheet"
	"github.com/minios-linux/sheetsync/i18n"
	"github.com/minios-linux/sheetsync/syncer"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logOut receives status lines. color.Output handles Windows consoles.
var logOut io.Writer = color.Output

var (
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	successTag = color.New(color.FgGreen).Sprint("[OK]")
	warningTag = color.New(color.FgYellow, color.Bold).Sprint("[WARN]")
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(logOut, infoTag+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(logOut, successTag+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(logOut, warningTag+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(logOut, errorTag+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
)

// syncFlags are the per-run overrides of the loaded configuration.
type syncFlags struct {
	outputDir   string
	credentials string
	strict      bool
	dryRun      bool
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	var flags syncFlags

	root := &cobra.Command{
		Use:   "sheetsync",
		Short: "Sync translation strings from Google Sheets into locale JSON files",
		Long: `sheetsync — pull translation strings from a Google Sheets worksheet and
write one JSON file per language.

Without arguments it reads the built-in worksheet layout (key in column D,
ko in column E, en in column F, two banner rows below the header) and writes
./assets/translations/<lang>.json. A .sheetsync.yaml or .sheetsync.toml in
the project root overrides the layout.

Credentials:
  A Google service-account key, read from --credentials, $SHEETSYNC_CREDENTIALS,
  the config file (default ./credential.json), or
  ~/.local/share/sheetsync/credential.json.

Exit status:
  1 when the sheet cannot be fetched or mapped. Directory and write failures
  are logged and only fail the run with --strict (or policy: strict).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .sheetsync.yaml/.yml/.toml in --root)")

	root.Flags().StringVarP(&flags.outputDir, "out", "o", "", "Output directory (overrides output_dir)")
	root.Flags().StringVar(&flags.credentials, "credentials", "", "Service-account key file (overrides credentials)")
	root.Flags().BoolVar(&flags.strict, "strict", false, "Exit non-zero when any directory or file write fails")
	root.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Fetch and map rows without writing files")

	root.AddCommand(
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	i18n.Init("")

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		stop()
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// sync (default action)
// ---------------------------------------------------------------------------

func runSync(ctx context.Context, flags syncFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	report := syncer.Run(ctx, syncer.Options{
		Config:    cfg,
		Connect:   connect(cfg.Credentials),
		DryRun:    flags.dryRun,
		OnLog:     logInfo,
		OnSuccess: logSuccess,
		OnWarning: logWarning,
		OnError:   logError,
	})

	if flags.dryRun && !report.Fatal() {
		logInfo(i18n.T("Dry run: no files were written"))
	}

	if code := report.ExitCode(cfg.Policy); code != 0 {
		return fmt.Errorf("sync failed: %w", report.Err())
	}
	return nil
}

// loadConfig loads the project configuration and applies command-line
// overrides on top of it.
func loadConfig(flags syncFlags) (*config.Config, error) {
	cfg, err := config.Load(rootDir, configPath)
	if err != nil {
		return nil, err
	}

	if flags.outputDir != "" {
		cfg.OutputDir = resolvePath(flags.outputDir)
	}
	if flags.credentials != "" {
		cfg.Credentials = resolvePath(flags.credentials)
	}
	if flags.strict {
		cfg.Policy = config.PolicyStrict
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}

// connect returns the fetch-phase client factory: it loads the service
// account key and authenticates against the Sheets API.
func connect(credentialPath string) func(ctx context.Context) (gsheet.Client, error) {
	return func(ctx context.Context) (gsheet.Client, error) {
		sa, err := credentials.Load(credentials.Resolve(credentialPath))
		if err != nil {
			return nil, err
		}
		logInfo(i18n.T("Loaded credentials for %s"), credentials.MaskKey(sa.ClientEmail))

		return gsheet.NewGoogleClient(ctx, sa.Raw)
	}
}

// ---------------------------------------------------------------------------
// config (print effective configuration)
// ---------------------------------------------------------------------------

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration a sync would use, after applying the config file,
.env and SHEETSYNC_* environment variables. Does not contact the spreadsheet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir, configPath)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sheetsync version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}
