package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Run the Telegram channel and scheduled briefings",
	RunE:  runGateway,
}

func runGateway(_ *cobra.Command, _ []string) error {
	container, err := loadContainer()
	if err != nil {
		return err
	}

	fmt.Printf("%s Starting weatherbot gateway...\n", logo)

	channelMgr := container.ChannelManager()
	cronSvc := container.CronService()

	if enabled := channelMgr.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("Warning: no channels enabled")
	}
	if n := len(cronSvc.Jobs()); n > 0 {
		fmt.Printf("✓ Briefings scheduled: %d\n", n)
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return cronSvc.Start(gctx) })
	g.Go(func() error { return channelMgr.StartAll(gctx) })

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
