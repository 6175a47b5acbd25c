package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"bazaarku/internal/api"
	"bazaarku/internal/export"
	"bazaarku/internal/models"

	"github.com/spf13/cobra"
)

type table struct {
	header []string
	list   func(ctx context.Context) ([][]string, error)
	remove func(ctx context.Context, id int64) error
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// adminTables describes every table of the admin console.
func adminTables(a *app) map[string]table {
	c := func() *api.Client { return a.client }
	return map[string]table{
		"events": {
			header: []string{"ID", "NAME", "START", "END", "SLOT"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := a.admin.AllEvents(ctx)
				return rows(items, err, func(e models.Event) []string {
					return []string{id(e.ID), e.Name, e.StartDate, e.EndDate, strconv.Itoa(e.Slot)}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteEvent(ctx, v) },
		},
		"ratings": {
			header: []string{"ID", "EVENT", "USER", "STARS", "REVIEW"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := a.admin.AllRatings(ctx)
				return rows(items, err, func(r models.Rating) []string {
					return []string{id(r.ID), id(r.EventID), id(r.UserID), strconv.Itoa(r.RatingStar), r.Review}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteRating(ctx, v) },
		},
		"users": {
			header: []string{"ID", "NAME", "EMAIL", "ROLE"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := a.admin.AllUsers(ctx)
				return rows(items, err, func(u models.AdminUser) []string {
					return []string{id(u.ID), strings.TrimSpace(u.FirstName + " " + u.LastName), u.Email, u.Role}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteUser(ctx, v) },
		},
		"booths": {
			header: []string{"ID", "EVENT", "USER", "STATUS"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := a.admin.AllBooths(ctx)
				return rows(items, err, func(b models.Booth) []string {
					return []string{id(b.ID), id(b.EventID), id(b.UserID), b.Status}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteBooth(ctx, v) },
		},
		"banners": {
			header: []string{"ID", "TITLE", "ACTIVE", "ORDER"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := api.ListAll(ctx, c().ListBanners, 0)
				return rows(items, err, func(b models.Banner) []string {
					return []string{id(b.ID), b.Title, strconv.FormatBool(b.IsActive), strconv.Itoa(b.SortOrder)}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteBanner(ctx, v) },
		},
		"event-categories": {
			header: []string{"ID", "NAME"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := api.ListAll(ctx, c().ListEventCategories, 0)
				return rows(items, err, func(e models.EventCategory) []string { return []string{id(e.ID), e.Name} })
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteEventCategory(ctx, v) },
		},
		"areas": {
			header: []string{"ID", "NAME", "CITY"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := api.ListAll(ctx, c().ListAreas, 0)
				return rows(items, err, func(ar models.Area) []string { return []string{id(ar.ID), ar.Name, ar.City} })
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteArea(ctx, v) },
		},
		"vendors": {
			header: []string{"ID", "NAME", "OWNER", "CATEGORY"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := api.ListAll(ctx, c().ListVendors, 0)
				return rows(items, err, func(v models.Vendor) []string {
					return []string{id(v.ID), v.Name, id(v.UserID), v.Category}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteVendor(ctx, v) },
		},
		"rentals": {
			header: []string{"ID", "NAME", "DESCRIPTION"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := api.ListAll(ctx, c().ListRentals, 0)
				return rows(items, err, func(r models.Rental) []string { return []string{id(r.ID), r.Name, r.Description} })
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteRental(ctx, v) },
		},
		"rental-products": {
			header: []string{"ID", "RENTAL", "NAME", "PRICE", "STOCK"},
			list: func(ctx context.Context) ([][]string, error) {
				items, err := api.ListAll(ctx, c().ListRentalProducts, 0)
				return rows(items, err, func(p models.RentalProduct) []string {
					return []string{id(p.ID), id(p.RentalID), p.Name, strconv.FormatFloat(p.Price, 'f', 0, 64), strconv.Itoa(p.Stock)}
				})
			},
			remove: func(ctx context.Context, v int64) error { return c().DeleteRentalProduct(ctx, v) },
		},
	}
}

func rows[T any](items []T, err error, format func(T) []string) ([][]string, error) {
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, format(item))
	}
	return out, nil
}

func tableNames(tables map[string]table) string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupTable(a *app, name string) (table, error) {
	tables := adminTables(a)
	t, ok := tables[name]
	if !ok {
		return table{}, fmt.Errorf("unknown table %q (one of %s)", name, tableNames(tables))
	}
	return t, nil
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console tables",
	}

	list := &cobra.Command{
		Use:   "list <table>",
		Short: "List every row of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupTable(a, args[0])
			if err != nil {
				return err
			}
			data, err := t.list(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(t.header, "\t"))
			for _, row := range data {
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n", len(data))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupTable(a, args[0])
			if err != nil {
				return err
			}
			rowID, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := t.remove(cmd.Context(), rowID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s #%d.\n", args[0], rowID)
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:       "export <table|all>",
		Short:     "Export admin tables to XLSX",
		Args:      cobra.ExactArgs(1),
		ValidArgs: append([]string{"all"}, export.Tables...),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Exports.Path
			}
			exporter := export.NewExporter(a.admin, dir, &a.logger)

			targets := []string{args[0]}
			if args[0] == "all" {
				targets = export.Tables
			}
			for _, name := range targets {
				path, err := exporter.Export(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default exports.path)")
	return cmd
}
