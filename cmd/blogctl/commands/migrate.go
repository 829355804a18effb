package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-blog-backend/cmd/blogctl/output"
	"github.com/tbourn/go-blog-backend/internal/config"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the authors and posts tables",
		Long: `Create or update the authors and posts tables.

Every command migrates on start unless --migrate=false is given; this
command only migrates, which is useful before pointing other tools at a
fresh database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !rt.migrate {
				if err := rt.app.Migrate(); err != nil {
					return err
				}
			}
			target := rt.cfg.DB.Path
			if rt.cfg.DB.Driver != config.DriverSQLite {
				target = rt.cfg.DB.Driver
			}
			return rt.emit(cmd, map[string]string{"migrated": target}, func(w io.Writer) {
				output.Success(w, "schema up to date (%s)", target)
			})
		},
	}
}
