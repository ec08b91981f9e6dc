package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimiro1/banner"
	"github.com/spf13/cobra"

	"github.com/weatherbot/weatherbot/internal/agent"
	"github.com/weatherbot/weatherbot/internal/channels"
	"github.com/weatherbot/weatherbot/internal/shared/cmdutils"
)

var agentMessage string

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with weatherbot in the terminal",
	RunE:  runAgent,
}

func init() {
	agentCmd.Flags().StringVarP(&agentMessage, "message", "m", "", "Send a single message and exit")
}

func runAgent(_ *cobra.Command, _ []string) error {
	container, err := loadContainer()
	if err != nil {
		return err
	}
	sess := container.AgentFactory().NewSession()

	if agentMessage != "" {
		return runSingleMessage(sess)
	}
	return runInteractive(sess)
}

// runSingleMessage runs one exchange and prints the reply.
func runSingleMessage(sess *agent.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "  ↳ thinking...\n")
	res, err := sess.Exchange(ctx, agentMessage)
	if err != nil {
		cmdutils.PrintResponse(agent.ErrorReply(err))
		return err
	}
	cmdutils.PrintToolsUsed(res.ToolsUsed, res.Degraded)
	cmdutils.PrintResponse(res.Reply)
	return nil
}

// runInteractive prints the banner and starts the terminal REPL.
func runInteractive(sess *agent.Session) error {
	printBanner()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := channels.NewCLIChannel(sess, os.Stdin, os.Stdout)
	if err := cli.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Println("\nGoodbye!")
	}
	return nil
}

func printBanner() {
	tpl := "{{ .Title \"weatherbot\" \"\" 0 }}\n" + logo + " v" + version + "\n\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}
