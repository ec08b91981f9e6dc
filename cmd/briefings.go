package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var briefingsCmd = &cobra.Command{
	Use:   "briefings",
	Short: "Inspect and run scheduled briefings",
}

func init() {
	briefingsCmd.AddCommand(briefingsListCmd)
	briefingsCmd.AddCommand(briefingsRunCmd)
}

// ---- list ------------------------------------------------------------------

var briefingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured briefings",
	RunE: func(_ *cobra.Command, _ []string) error {
		container, err := loadContainer()
		if err != nil {
			return err
		}
		jobs := container.CronService().Jobs()
		if len(jobs) == 0 {
			fmt.Println("No briefings configured.")
			return nil
		}
		fmt.Printf("%-16s %-20s %-16s %-14s %-20s\n", "Name", "Schedule", "TZ", "Deliver to", "Next Run")
		fmt.Println(strings.Repeat("-", 88))
		for _, j := range jobs {
			b := j.Briefing
			target := "log"
			if b.ChatID != "" {
				target = "tg:" + b.ChatID
			}
			fmt.Printf("%-16s %-20s %-16s %-14s %-20s\n",
				truncStr(b.Name, 15), truncStr(b.Expr, 19), orLocal(b.TZ),
				truncStr(target, 13), j.State.NextRunAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// ---- run -------------------------------------------------------------------

var briefingsRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a briefing now and deliver its reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		container, err := loadContainer()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		svc := container.CronService()
		if err := svc.RunJob(ctx, args[0]); err != nil {
			return err
		}
		for _, j := range svc.Jobs() {
			if j.Briefing.Name == args[0] {
				fmt.Printf("✓ Briefing %q ran\n\n%s\n", args[0], j.State.LastReply)
			}
		}
		return nil
	},
}

func truncStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func orLocal(tz string) string {
	if tz == "" {
		return "local"
	}
	return tz
}
