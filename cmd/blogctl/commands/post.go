package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-blog-backend/cmd/blogctl/output"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/services"
	"github.com/tbourn/go-blog-backend/internal/utils"
)

func newPostCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post",
		Aliases: []string{"posts"},
		Short:   "Create, inspect, update and delete posts",
	}
	cmd.AddCommand(
		newPostCreateCmd(rt),
		newPostGetCmd(rt),
		newPostListCmd(rt),
		newPostUpdateCmd(rt),
		newPostDeleteCmd(rt),
	)
	return cmd
}

// postFlags are shared by create and update.
type postFlags struct {
	title, content, contentFile, summary, category string
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", `Title; must contain "Won't Believe", "Secret", "Top" or "Guess"`)
	cmd.Flags().StringVar(&f.content, "content", "", "Body text, at least 250 characters")
	cmd.Flags().StringVar(&f.contentFile, "content-file", "", "Read the body from this file instead of --content")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Summary, at most 250 characters")
	cmd.Flags().StringVar(&f.category, "category", "", `"Fiction" or "Non-Fiction"`)
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

// body resolves --content / --content-file and reports whether either was set.
func (f *postFlags) body(cmd *cobra.Command) (string, bool, error) {
	if cmd.Flags().Changed("content-file") {
		b, err := os.ReadFile(f.contentFile)
		if err != nil {
			return "", false, fmt.Errorf("read content: %w", err)
		}
		return string(b), true, nil
	}
	return f.content, cmd.Flags().Changed("content"), nil
}

func newPostCreateCmd(rt *runtime) *cobra.Command {
	var (
		f      postFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Example: `  blogctl post create --title "Top 5 Secrets" --content-file body.txt --category Fiction
  blogctl post create --title "Guess What" --content-file body.txt --summary "short" --category Non-Fiction --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, _, err := f.body(cmd)
			if err != nil {
				return err
			}
			in := domain.PostInput{Title: f.title, Content: content, Summary: f.summary, Category: f.category}
			if dryRun {
				p := &domain.Post{Title: in.Title, Content: in.Content, Summary: in.Summary, Category: in.Category}
				if err := p.Validate(); err != nil {
					return err
				}
				output.Success(cmd.OutOrStdout(), "post %q is valid", in.Title)
				return nil
			}
			p, err := rt.app.Posts.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return rt.emit(cmd, p, func(w io.Writer) {
				output.Success(w, "created post %d %q", p.ID, p.Title)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the fields without writing")
	return cmd
}

func newPostGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			p, err := rt.app.Posts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.emit(cmd, p, func(w io.Writer) {
				output.Field(w, "ID", p.ID)
				output.Field(w, "Title", p.Title)
				output.Field(w, "Category", p.Category)
				output.Field(w, "Summary", p.Summary)
				output.Field(w, "Created", p.CreatedAt.Format(time.RFC3339))
				output.Field(w, "Updated", p.UpdatedAt.Format(time.RFC3339))
				fmt.Fprintln(w)
				fmt.Fprintln(w, p.Content)
			})
		},
	}
}

func newPostListCmd(rt *runtime) *cobra.Command {
	var q services.PostQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Example: `  blogctl post list --category fiction
  blogctl post list --page 2 --page-size 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, total, err := rt.app.Posts.ListPage(cmd.Context(), q)
			if err != nil {
				return err
			}
			p, size, _ := utils.Page(q.Page, q.PageSize)
			return rt.emit(cmd, pageOf(items, total, p, size), func(w io.Writer) {
				if total == 0 {
					output.Warning(w, "no posts")
					return
				}
				rows := make([][]string, 0, len(items))
				for _, it := range items {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(it.ID), 10),
						it.Title,
						it.Category,
						strconv.Itoa(utf8.RuneCountInString(it.Content)),
						it.CreatedAt.Format(time.RFC3339),
					})
				}
				output.Table(w, []string{"ID", "TITLE", "CATEGORY", "CHARS", "CREATED"}, rows)
				output.Muted(w, "page %d of %d (%d posts)", p, utils.TotalPages(total, size), total)
			})
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "Only posts in this category (case-insensitive)")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&q.PageSize, "page-size", utils.DefaultPageSize, "Posts per page")
	return cmd
}

func newPostUpdateCmd(rt *runtime) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Change any of a post's fields",
		Example: `  blogctl post update 7 --summary "" --category Fiction`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			var p services.PostPatch
			if cmd.Flags().Changed("title") {
				p.Title = &f.title
			}
			content, set, err := f.body(cmd)
			if err != nil {
				return err
			}
			if set {
				p.Content = &content
			}
			if cmd.Flags().Changed("summary") {
				p.Summary = &f.summary
			}
			if cmd.Flags().Changed("category") {
				p.Category = &f.category
			}
			if p.Empty() {
				return fmt.Errorf("nothing to update: pass at least one of --title, --content, --content-file, --summary, --category")
			}
			post, err := rt.app.Posts.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			return rt.emit(cmd, post, func(w io.Writer) {
				output.Success(w, "updated post %d %q", post.ID, post.Title)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newPostDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.app.Posts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return rt.emit(cmd, map[string]uint{"deleted": id}, func(w io.Writer) {
				output.Success(w, "deleted post %d", id)
			})
		},
	}
}
