// Package commands implements the blogctl command tree. Each invocation
// loads configuration, opens the database, runs one service call in-process
// and flushes telemetry before exiting.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-blog-backend/cmd/blogctl/output"
	"github.com/tbourn/go-blog-backend/internal/app"
	"github.com/tbourn/go-blog-backend/internal/clock"
	"github.com/tbourn/go-blog-backend/internal/config"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/observability"
	"github.com/tbourn/go-blog-backend/internal/repo"
	"github.com/tbourn/go-blog-backend/internal/sysutil"
)

// Exit codes returned by Execute.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// runtime holds per-invocation state shared by the subcommands.
type runtime struct {
	// Global flags
	envFile     string
	dbDriver    string
	dbPath      string
	databaseURL string
	verbose     bool
	jsonOutput  bool
	migrate     bool

	version string
	runID   string
	stderr  io.Writer
	clock   clock.Clock

	cfg      config.Config
	app      *app.App
	shutdown func(context.Context) error
}

// NewRootCmd builds the blogctl command tree. Log lines go to stderr; results
// go to the command's output writer.
func NewRootCmd(version string, stderr io.Writer) *cobra.Command {
	root, _ := newRoot(version, stderr)
	return root
}

func newRoot(version string, stderr io.Writer) (*cobra.Command, *runtime) {
	rt := &runtime{version: version, stderr: stderr, clock: clock.System{}}

	root := &cobra.Command{
		Use:   "blogctl",
		Short: "Manage blog authors and posts",
		Long: `blogctl manages the authors and posts of a blog database.

Every write is validated before it is stored:
  - Author names are required and unique; phone numbers are ten digits
  - Post titles need a clickbait marker ("Won't Believe", "Secret", "Top", "Guess")
  - Post content is at least 250 characters, summaries at most 250
  - Post categories are "Fiction" or "Non-Fiction"

Configuration comes from the environment (and an optional .env file);
flags override it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd.Context())
		},
	}

	// Global flags
	pf := root.PersistentFlags()
	pf.StringVar(&rt.envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
	pf.StringVar(&rt.dbDriver, "db-driver", "", "Database driver: sqlite or postgres (overrides DB_DRIVER)")
	pf.StringVar(&rt.dbPath, "db-path", "", "SQLite database file (overrides DB_PATH)")
	pf.StringVar(&rt.databaseURL, "database-url", "", "PostgreSQL DSN (overrides DATABASE_URL)")
	pf.BoolVarP(&rt.verbose, "verbose", "v", false, "Verbose output (debug logging)")
	pf.BoolVar(&rt.jsonOutput, "json", sysutil.IsTruthy(os.Getenv("BLOGCTL_JSON")), "Output in JSON format")
	pf.BoolVar(&rt.migrate, "migrate", true, "Create or update the schema before running the command")

	root.AddCommand(
		newMigrateCmd(rt),
		newAuthorCmd(rt),
		newPostCmd(rt),
		newStatsCmd(rt),
	)
	return root, rt
}

// Execute runs blogctl with os.Args and returns the process exit code:
// ExitValidation when a field rule rejected the input, ExitFailure for any
// other error.
func Execute(version string) int {
	root, rt := newRoot(version, os.Stderr)
	return run(root, rt, os.Args[1:])
}

func run(root *cobra.Command, rt *runtime, args []string) int {
	root.SetArgs(args)
	ctx := context.Background()
	err := root.ExecuteContext(ctx)
	if cerr := rt.close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return ExitOK
	}
	log.Debug().Err(err).Msg("command failed")
	output.Error(rt.stderr, "%s", err)
	if domain.IsValidation(err) {
		return ExitValidation
	}
	return ExitFailure
}

// open loads configuration, sets up logging and tracing, and connects.
func (rt *runtime) open(ctx context.Context) error {
	if err := godotenv.Load(rt.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", rt.envFile, err)
	}

	// Flags override the environment before anything is validated, so
	// "--db-driver PostgreSQL" behaves like DB_DRIVER=PostgreSQL.
	cfg := config.FromEnv()
	cfg.DB.Driver = sysutil.FirstNonEmpty(rt.dbDriver, cfg.DB.Driver)
	cfg.DB.Path = sysutil.FirstNonEmpty(rt.dbPath, cfg.DB.Path)
	cfg.DB.URL = sysutil.FirstNonEmpty(rt.databaseURL, cfg.DB.URL)
	if rt.dbDriver == "" && rt.databaseURL != "" {
		cfg.DB.Driver = config.DriverPostgres
	}
	if rt.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	rt.cfg = cfg

	rt.runID = uuid.NewString()
	log.Logger = sysutil.NewLogger(rt.stderr, cfg.LogLevel, cfg.LogPretty).
		With().Str("run_id", rt.runID).Logger()

	shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, rt.version, rt.runID)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	rt.shutdown = shutdown

	db, err := repo.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DB.Driver, err)
	}
	var m *observability.Metrics
	if cfg.MetricsTextfile != "" {
		m = observability.NewMetrics()
	}
	rt.app = app.New(db, rt.clock, m)

	if rt.migrate {
		if err := rt.app.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	log.Debug().Str("driver", cfg.DB.Driver).Msg("database ready")
	return nil
}

// close flushes metrics and spans and releases the database. It runs after
// every invocation, failed ones included, and is a no-op when open never ran.
func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	if rt.app != nil {
		if err := rt.app.Metrics.WriteTextfile(rt.cfg.MetricsTextfile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
		if err := rt.app.Close(); err != nil {
			errs = append(errs, err)
		}
		rt.app = nil
	}
	if rt.shutdown != nil {
		if err := rt.shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
		rt.shutdown = nil
	}
	return errors.Join(errs...)
}

// emit writes v as JSON when --json is set, otherwise calls human.
func (rt *runtime) emit(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	if rt.jsonOutput {
		return output.JSON(cmd.OutOrStdout(), v)
	}
	human(cmd.OutOrStdout())
	return nil
}
