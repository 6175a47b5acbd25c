package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"bazaarku/internal/models"
	"bazaarku/internal/service"

	"github.com/spf13/cobra"
)

func newEventsCmd(a *app) *cobra.Command {
	var (
		params models.ListParams
		mine   bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				items []models.Event
				pg    *models.Pagination
				err   error
			)
			if mine {
				items, err = a.client.ListMyEvents(cmd.Context())
			} else {
				items, pg, err = a.client.ListEvents(cmd.Context(), params)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTART\tEND\tSLOT\tSTATUS")
			for _, e := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", e.ID, e.Name, e.StartDate, e.EndDate, e.Slot, e.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if pg != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d events)\n", pg.Page, pg.TotalPages, pg.Total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&params.Search, "search", "", "search term")
	cmd.Flags().BoolVar(&mine, "mine", false, "only events created by the signed-in user")
	return cmd
}

func newEventCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "event <id>",
		Short: "Show an event with booth availability, ratings and review eligibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var user *models.UserProfile
			sess, err := a.sessions.Current(cmd.Context())
			switch {
			case err == nil:
				user = sess.User
			case !errors.Is(err, service.ErrNotSignedIn):
				return err
			}

			d, err := a.details.Load(cmd.Context(), id, user)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			e := d.Event
			fmt.Fprintf(out, "%s (#%d)\n", e.Name, e.ID)
			if e.Description != "" {
				fmt.Fprintln(out, e.Description)
			}
			fmt.Fprintf(out, "When:      %s to %s\n", e.StartDate, e.EndDate)
			fmt.Fprintf(out, "Where:     %s\n", e.Location)
			fmt.Fprintf(out, "Price:     %.0f\n", e.Price)
			fmt.Fprintf(out, "Contact:   %s\n", e.Contact)
			fmt.Fprintf(out, "Booths:    %d available of %d (%d accepted)\n", d.AvailableBooths, e.Slot, d.AcceptedBooths)
			fmt.Fprintf(out, "Rating:    %.1f from %d reviews\n", d.AverageRating, len(d.Ratings))
			if user != nil {
				state := "not yet"
				if d.Review.Eligible {
					state = "yes"
				}
				fmt.Fprintf(out, "Can review: %s, %s\n", state, d.RemainingLabel)
			}

			if len(d.Ratings) > 0 {
				fmt.Fprintln(out)
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "STARS\tBY\tREVIEW")
				for _, r := range d.Ratings {
					fmt.Fprintf(w, "%d\t%s\t%s\n", r.RatingStar, r.Name, r.Review)
				}
				return w.Flush()
			}
			return nil
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	var in models.RatingInput
	cmd := &cobra.Command{
		Use:   "review <event-id>",
		Short: "Review a finished event you had an approved booth at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in.EventID = id
			rating, err := a.reviews.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Review #%d posted for event %d.\n", rating.ID, id)
			return nil
		},
	}
	cmd.Flags().IntVar(&in.RatingStar, "star", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&in.Review, "text", "", "review text")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name (defaults to your full name)")
	_ = cmd.MarkFlagRequired("star")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newBoothsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booths",
		Short: "Booth applications",
	}

	var in models.BoothInput
	apply := &cobra.Command{
		Use:   "apply <event-id>",
		Short: "Apply for a booth at an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in.EventID = id
			booth, err := a.booths.Apply(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booth #%d requested, status %s.\n", booth.ID, booth.Status)
			return nil
		},
	}
	apply.Flags().Int64Var(&in.VendorID, "vendor-id", 0, "vendor applying")
	apply.Flags().StringVar(&in.Note, "note", "", "note for the organiser")

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your booth applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.sessions.Current(cmd.Context())
			if err != nil {
				return err
			}
			if sess.User == nil {
				return service.ErrNotSignedIn
			}
			booths, err := a.client.ListUserBooths(cmd.Context(), sess.User.ID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEVENT\tSTATUS")
			for _, b := range booths {
				fmt.Fprintf(w, "%d\t%d\t%s\n", b.ID, b.EventID, b.Status)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(apply, mine,
		newBoothDecisionCmd("approve", "Approve a booth (admin)", func(ctx context.Context, id int64) (*models.Booth, error) {
			return a.booths.Approve(ctx, id)
		}),
		newBoothDecisionCmd("reject", "Reject a booth (admin)", func(ctx context.Context, id int64) (*models.Booth, error) {
			return a.booths.Reject(ctx, id)
		}),
	)
	return cmd
}

func newBoothDecisionCmd(use, short string, decide func(ctx context.Context, id int64) (*models.Booth, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <booth-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			booth, err := decide(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booth #%d is now %s.\n", booth.ID, booth.Status)
			return nil
		},
	}
}
