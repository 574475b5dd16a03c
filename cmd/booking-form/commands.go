package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/booking-form/internal/calendar"
	"github.com/username/booking-form/internal/form"
	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/pkg/dateutil"
)

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "calendar [show|next|prev]",
		Short:     "Show the month grid, optionally moving one month",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"show", "next", "prev"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			action := "show"
			if len(args) == 1 {
				action = args[0]
			}

			switch action {
			case "next":
				a.engine.Navigate(calendar.Next)
			case "prev":
				if _, ok := a.engine.Navigate(calendar.Prev); !ok {
					fmt.Fprintln(a.errOut, "already showing the current month")
				}
			}

			if err := a.saveSession(); err != nil {
				return err
			}

			byDate := a.loadHolidays(cmd.Context(), a.engine.Cursor())
			a.printCalendar(byDate)
			return nil
		},
	}
}

func selectCmd() *cobra.Command {
	var slot string
	var clearSelection bool

	cmd := &cobra.Command{
		Use:   "select [YYYY-MM-DD]",
		Short: "Select a day and optionally a time slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if clearSelection {
				a.engine.ClearSelection()
				return a.saveSession()
			}
			if len(args) == 0 {
				return fmt.Errorf("a date is required (or --clear)")
			}

			date, err := dateutil.ParseISODate(args[0], a.now.Location())
			if err != nil {
				return err
			}

			byDate := a.loadHolidays(cmd.Context(), date)
			if a.engine.IsBlocked(date, byDate) {
				return fmt.Errorf("%s is not available", dateutil.ISODate(date))
			}

			a.engine.Select(date)
			a.engine.JumpTo(date)
			a.sessions.Capture(a.engine)

			// Without --time the previously chosen slot is kept; submit re-checks it
			if slot != "" {
				slots := a.engine.Slots(a.cfg.Form.Slots, a.now)
				if !slots.Selectable(slot) {
					return fmt.Errorf("time %s is not available on %s (open: %s)",
						slot, dateutil.ISODate(date), strings.Join(slots.Open(), ", "))
				}
				a.sessions.SetTime(slot)
			}

			if err := a.sessions.Save(); err != nil {
				return err
			}

			logger.Info("Day selected",
				zap.String("date", dateutil.ISODate(date)),
				zap.String("time", slot))

			fmt.Fprintf(a.out, "Selected %s", date.Format("Monday, 2 January 2006"))
			if slot != "" {
				fmt.Fprintf(a.out, " at %s", slot)
			}
			fmt.Fprintln(a.out)
			renderObservances(a.out, date, a.engine.Observances(byDate))
			return nil
		},
	}

	cmd.Flags().StringVarP(&slot, "time", "t", "", "Time slot (HH:MM)")
	cmd.Flags().BoolVar(&clearSelection, "clear", false, "Clear the current selection")

	return cmd
}

func slotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List time slots for the selected day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			selected, ok := a.engine.Selected()
			if !ok {
				return fmt.Errorf("no day selected, run: booking-form select YYYY-MM-DD")
			}

			fmt.Fprintln(a.out, selected.Format("Monday, 2 January 2006"))
			renderSlots(a.out, a.engine.Slots(a.cfg.Form.Slots, a.now), a.sessions.State().Time, isTerminal(a.out))
			return nil
		},
	}
}

func holidaysCmd() *cobra.Command {
	var year int
	var country string
	var icsPath string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List holidays and observances, or export them as iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			q := a.query(a.now)
			if year > 0 {
				q.Year = year
			}
			if country != "" {
				q.Country = country
			}

			state := a.load(cmd.Context(), q)
			if state.Err != nil {
				return fmt.Errorf("failed to load calendar: %w", state.Err)
			}

			if icsPath != "" {
				return writeICS(icsPath, a, state)
			}

			for _, key := range state.Data.Dates() {
				info := state.Data[key]
				kind := "observance"
				if info.IsNationalHoliday {
					kind = "national"
				}
				fmt.Fprintf(a.out, "%s  %-10s  %s\n", key, kind, strings.Join(info.ObservanceNames, ", "))
			}
			fmt.Fprintf(a.out, "%d dates, %d national holidays\n", len(state.Data), state.Data.NationalCount())
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year to list (default: holidays.year or the current year)")
	cmd.Flags().StringVar(&country, "country", "", "ISO country code (default: holidays.country)")
	cmd.Flags().StringVar(&icsPath, "ics", "", "Write an iCalendar file instead of listing (- for stdout)")

	return cmd
}

func writeICS(path string, a *app, state holidays.State) error {
	if path == "-" {
		return holidays.WriteICS(a.out, state.Data, state.Query.Country, a.now)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ICS file: %w", err)
	}
	defer f.Close()

	if err := holidays.WriteICS(f, state.Data, state.Query.Country, a.now); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote %d dates to %s\n", len(state.Data), path)
	return nil
}

func submitCmd() *cobra.Command {
	var application form.Application
	var date string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit the application for the selected day and time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if date != "" {
				application.Date, err = dateutil.ParseISODate(date, a.now.Location())
				if err != nil {
					return err
				}
			} else if selected, ok := a.engine.Selected(); ok {
				application.Date = selected
			}
			if application.Time == "" {
				application.Time = a.sessions.State().Time
			}

			var byDate holidays.ByDate
			if !application.Date.IsZero() {
				byDate = a.loadHolidays(cmd.Context(), application.Date)
			}

			if err := a.cfg.Form.Rules().Validate(application, byDate, a.now); err != nil {
				var ve form.ValidationErrors
				if errors.As(err, &ve) {
					for _, fe := range ve {
						fmt.Fprintf(a.errOut, "  %s: %s\n", fe.Field, strings.ReplaceAll(fe.Message, "\n", " "))
					}
					return fmt.Errorf("application has %d invalid field(s)", len(ve))
				}
				return err
			}

			submitter := form.NewSubmitter(a.cfg.Form.SubmitURL, a.cfg.Form.GetTimeout(), logger)
			receipt, err := submitter.Submit(cmd.Context(), application)
			if err != nil {
				var se *form.SubmitError
				if errors.As(err, &se) {
					return fmt.Errorf("submission rejected (HTTP %d): %s", se.StatusCode, strings.TrimSpace(se.Body))
				}
				return err
			}

			fmt.Fprintf(a.out, "Application submitted for %s at %s (request %s)\n",
				application.Date.Format("Monday, 2 January 2006"), application.Time, receipt.RequestID)

			a.sessions.Reset()
			return a.sessions.Save()
		},
	}

	cmd.Flags().StringVar(&application.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&application.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&application.Email, "email", "", "Email address")
	cmd.Flags().IntVar(&application.Age, "age", 0, "Age")
	cmd.Flags().StringSliceVar(&application.Files, "file", nil, "Photo to attach (exactly one)")
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, default: selected day)")
	cmd.Flags().StringVarP(&application.Time, "time", "t", "", "Time slot (HH:MM, default: selected slot)")

	return cmd
}

func (a *app) printCalendar(byDate holidays.ByDate) {
	color := isTerminal(a.out)
	selected, _ := a.engine.Selected()

	renderMonth(a.out, a.engine.Month(byDate), selected, byDate, color)
	fmt.Fprintln(a.out, legend)
	if !a.engine.CanNavigate(calendar.Prev) {
		fmt.Fprintln(a.out, "(previous month unavailable)")
	}

	if !selected.IsZero() {
		renderObservances(a.out, selected, a.engine.Observances(byDate))
		if t := a.sessions.State().Time; t != "" {
			fmt.Fprintf(a.out, "Selected %s at %s\n", dateutil.ISODate(selected), t)
		}
	}
}
