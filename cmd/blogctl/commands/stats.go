package commands

import (
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-blog-backend/cmd/blogctl/output"
	"github.com/tbourn/go-blog-backend/internal/services"
)

type statsView struct {
	Authors services.Stats `json:"authors"`
	Posts   services.Stats `json:"posts"`
}

func newStatsCmd(rt *runtime) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show record counts and last change times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			authors, err := rt.app.Authors.Stats(ctx)
			if err != nil {
				return err
			}
			posts, err := rt.app.Posts.Stats(ctx, category)
			if err != nil {
				return err
			}
			return rt.emit(cmd, statsView{Authors: authors, Posts: posts}, func(w io.Writer) {
				output.Table(w, []string{"TABLE", "ROWS", "LAST UPDATED"}, [][]string{
					{"authors", itoa(authors.Count), when(authors.LastUpdated)},
					{"posts", itoa(posts.Count), when(posts.LastUpdated)},
				})
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Count only posts in this category")
	return cmd
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func when(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}
