package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-blog-backend/cmd/blogctl/output"
	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/services"
	"github.com/tbourn/go-blog-backend/internal/utils"
)

func newAuthorCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "author",
		Aliases: []string{"authors"},
		Short:   "Create, inspect, update and delete authors",
	}
	cmd.AddCommand(
		newAuthorCreateCmd(rt),
		newAuthorGetCmd(rt),
		newAuthorListCmd(rt),
		newAuthorUpdateCmd(rt),
		newAuthorDeleteCmd(rt),
	)
	return cmd
}

func newAuthorCreateCmd(rt *runtime) *cobra.Command {
	var (
		name, phone string
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an author",
		Example: `  blogctl author create --name "Jane Doe" --phone 0123456789
  blogctl author create --name "Jane Doe" --phone 0123456789 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun {
				if err := (&domain.Author{Name: name, PhoneNumber: phone}).Validate(); err != nil {
					return err
				}
				output.Success(cmd.OutOrStdout(), "author %q is valid (uniqueness is checked on create)", name)
				return nil
			}
			a, err := rt.app.Authors.Create(cmd.Context(), name, phone)
			if err != nil {
				return err
			}
			return rt.emit(cmd, a, func(w io.Writer) {
				output.Success(w, "created %s", a)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Author name (unique)")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number, ten digits")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the fields without writing")
	return cmd
}

func newAuthorGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.app.Authors.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.emit(cmd, a, func(w io.Writer) { printAuthor(w, a) })
		},
	}
}

func newAuthorListCmd(rt *runtime) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List authors, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, total, err := rt.app.Authors.ListPage(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			p, size, _ := utils.Page(page, pageSize)
			return rt.emit(cmd, pageOf(items, total, p, size), func(w io.Writer) {
				if total == 0 {
					output.Warning(w, "no authors")
					return
				}
				rows := make([][]string, 0, len(items))
				for _, a := range items {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(a.ID), 10),
						a.Name,
						a.PhoneNumber,
						a.UpdatedAt.Format(time.RFC3339),
					})
				}
				output.Table(w, []string{"ID", "NAME", "PHONE", "UPDATED"}, rows)
				output.Muted(w, "page %d of %d (%d authors)", p, utils.TotalPages(total, size), total)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", utils.DefaultPageSize, "Authors per page")
	return cmd
}

func newAuthorUpdateCmd(rt *runtime) *cobra.Command {
	var name, phone string
	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Change an author's name and/or phone number",
		Example: `  blogctl author update 3 --phone 0987654321`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			var p services.AuthorPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				p.PhoneNumber = &phone
			}
			if p.Empty() {
				return fmt.Errorf("nothing to update: pass --name and/or --phone")
			}
			a, err := rt.app.Authors.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			return rt.emit(cmd, a, func(w io.Writer) {
				output.Success(w, "updated %s", a)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New author name")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	return cmd
}

func newAuthorDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.app.Authors.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return rt.emit(cmd, map[string]uint{"deleted": id}, func(w io.Writer) {
				output.Success(w, "deleted author %d", id)
			})
		},
	}
}

func printAuthor(w io.Writer, a *domain.Author) {
	output.Field(w, "ID", a.ID)
	output.Field(w, "Name", a.Name)
	output.Field(w, "Phone", a.PhoneNumber)
	output.Field(w, "Created", a.CreatedAt.Format(time.RFC3339))
	output.Field(w, "Updated", a.UpdatedAt.Format(time.RFC3339))
}

// listPage is the JSON shape of list commands.
type listPage[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func pageOf[T any](items []T, total int64, page, size int) listPage[T] {
	return listPage[T]{Items: items, Total: total, Page: page, PageSize: size}
}
