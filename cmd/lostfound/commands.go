package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/service"
)

// timeLayouts are the accepted --time formats, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// parseTime parses a report time in local time unless it carries a zone.
// An empty value means now.
func parseTime(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC3339, \"2006-01-02 15:04\" or \"2006-01-02\")", value)
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

// userRef returns nil for an unset user ID so the report is stored without an owner.
func userRef(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var studentID, name, email, phone string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			u, err := svc.RegisterUser(cmd.Context(), studentID, name, email, phone)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d created (student %s)\n", u.ID, u.StudentID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&studentID, "student-id", "", "student ID (required)")
	addCmd.Flags().StringVar(&name, "name", "", "display name (required)")
	addCmd.Flags().StringVar(&email, "email", "", "email address")
	addCmd.Flags().StringVar(&phone, "phone", "", "phone number")
	addCmd.MarkFlagRequired("student-id")
	addCmd.MarkFlagRequired("name")

	userCmd.AddCommand(addCmd)
	return userCmd
}

// reportFlags are the fields shared by lost and found reports.
type reportFlags struct {
	user        int64
	name        string
	category    string
	location    string
	at          string
	description string
	color       string
	brand       string
}

func (f *reportFlags) register(cmd *cobra.Command, kind string) {
	cmd.Flags().Int64Var(&f.user, "user", 0, "reporting user ID (default: anonymous)")
	cmd.Flags().StringVar(&f.name, "name", "", "item name")
	cmd.Flags().StringVar(&f.category, "category", "", "item category")
	cmd.Flags().StringVar(&f.location, "location", "", "where the item was "+kind)
	cmd.Flags().StringVar(&f.at, "time", "", "when the item was "+kind+" (default: now)")
	cmd.Flags().StringVar(&f.description, "description", "", "free-text description")
	cmd.Flags().StringVar(&f.color, "color", "", "item color")
	cmd.Flags().StringVar(&f.brand, "brand", "", "item brand")
}

func newLostCmd(a *app) *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "lost",
		Short: "Report a lost item and match it against found items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			at, err := parseTime(f.at, svc.Now())
			if err != nil {
				return err
			}
			r, res, err := svc.ReportLost(cmd.Context(), model.LostReport{
				UserID:       userRef(f.user),
				ItemName:     f.name,
				Category:     f.category,
				LostLocation: f.location,
				LostTime:     at,
				Description:  f.description,
				Color:        model.SomeAttr(f.color),
				Brand:        model.SomeAttr(f.brand),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lost report %d created\n", r.ID)
			printCycle(cmd.OutOrStdout(), res)
			return nil
		},
	}
	f.register(cmd, "lost")
	return cmd
}

func newFoundCmd(a *app) *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "found",
		Short: "Report a found item and match it against lost items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			at, err := parseTime(f.at, svc.Now())
			if err != nil {
				return err
			}
			r, res, err := svc.ReportFound(cmd.Context(), model.FoundReport{
				UserID:        userRef(f.user),
				ItemName:      f.name,
				Category:      f.category,
				FoundLocation: f.location,
				FoundTime:     at,
				Description:   f.description,
				Color:         model.SomeAttr(f.color),
				Brand:         model.SomeAttr(f.brand),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found report %d created\n", r.ID)
			printCycle(cmd.OutOrStdout(), res)
			return nil
		},
	}
	f.register(cmd, "found")
	return cmd
}

func printCycle(w io.Writer, res *service.CycleResult) {
	fmt.Fprintf(w, "%d match(es), %d new, %d notification(s)\n", len(res.Matches), res.New, res.Notifications)
	printMatches(w, res.Matches)
}

func printMatches(w io.Writer, matches []model.MatchRecord) {
	for _, m := range matches {
		fmt.Fprintf(w, "  #%d lost=%d found=%d %s\n", m.ID, m.LostID, m.FoundID, m.Reason)
	}
}

func newMatchesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "matches <lost-id>",
		Short: "List stored matches of a lost report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			matches, err := svc.Matches(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d match(es)\n", len(matches))
			printMatches(cmd.OutOrStdout(), matches)
			return nil
		},
	}
}

func newRematchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rematch <lost-id>",
		Short: "Run the match cycle again for a lost report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Rematch(cmd.Context(), id)
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newNotifyPendingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-pending",
		Short: "Send notifications for stored matches that never got them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			n, err := svc.NotifyPending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d notification(s) sent\n", n)
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	var user int64
	cmd := &cobra.Command{
		Use:       "resolve <lost|found> <id>",
		Short:     "Mark one of your reports resolved",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{model.KindLost, model.KindFound},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			switch args[0] {
			case model.KindLost:
				err = svc.ResolveLost(cmd.Context(), id, user)
			case model.KindFound:
				err = svc.ResolveFound(cmd.Context(), id, user)
			default:
				err = fmt.Errorf("unknown report kind %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s report %d resolved\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "acting user ID (required)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Send reminders for long-unresolved reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.Previous.IsZero() {
				fmt.Fprintln(w, "First sweep")
			} else {
				fmt.Fprintf(w, "Previous sweep: %s\n", res.Previous.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(w, "Checked %d lost and %d found report(s), %d reminder(s) sent\n",
				res.Lost, res.Found, res.Notifications)
			return nil
		},
	}
}

func newAnnounceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "announce <title> <body> [user-id...]",
		Short: "Send an announcement to the given users, or to everyone",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ids []int64
			for _, arg := range args[2:] {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			n, err := svc.Announce(cmd.Context(), args[0], args[1], ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Announcement sent to %d user(s)\n", n)
			return nil
		},
	}
}

func newNotificationsCmd(a *app) *cobra.Command {
	var (
		user   int64
		unread bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List a user's notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			notes, err := svc.Notifications(cmd.Context(), user, unread, limit)
			if err != nil {
				return err
			}
			count, err := svc.UnreadCount(cmd.Context(), user)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d unread\n", count)
			for _, n := range notes {
				flags := ""
				if n.Urgent {
					flags += "!"
				}
				if !n.Read {
					flags += "*"
				}
				fmt.Fprintf(w, "%-2s #%d [%s] %s: %s\n", flags, n.ID, n.Type, n.Title, n.Body)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "user ID (required)")
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of notifications (0 for all)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newReadCmd(a *app) *cobra.Command {
	var user int64
	cmd := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := svc.MarkRead(cmd.Context(), id, user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification %d marked read\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&user, "user", 0, "recipient user ID (required)")
	cmd.MarkFlagRequired("user")
	return cmd
}
