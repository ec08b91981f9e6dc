package channels

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/weatherbot/weatherbot/internal/agent"
	"github.com/weatherbot/weatherbot/internal/shared/cmdutils"
)

var cliExitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

// CLIChannel is the interactive terminal REPL. It owns a single session.
type CLIChannel struct {
	sess *agent.Session
	in   io.Reader
	out  io.Writer
}

// NewCLIChannel creates a CLIChannel reading from in and prompting on out.
func NewCLIChannel(sess *agent.Session, in io.Reader, out io.Writer) *CLIChannel {
	return &CLIChannel{sess: sess, in: in, out: out}
}

func (c *CLIChannel) Name() string { return "cli" }

// Start runs the REPL: reads lines, runs each through the session, and
// prints the reply. Blocks until ctx is cancelled, input ends, or the user
// types an exit command.
func (c *CLIChannel) Start(ctx context.Context) error {
	fmt.Fprintf(c.out, "Ask about the weather or the news. Type 'exit' or press Ctrl+C to quit.\n\n")

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "You: ")

		scanDone := make(chan bool, 1)
		go func() {
			scanDone <- scanner.Scan()
		}()

		select {
		case ok := <-scanDone:
			if !ok {
				fmt.Fprintln(c.out, "\nGoodbye!")
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if cliExitCommands[strings.ToLower(line)] {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}

		c.handleLine(ctx, line)
	}
}

func (c *CLIChannel) handleLine(ctx context.Context, line string) {
	if strings.HasPrefix(line, "/") {
		reply, err := c.sess.Respond(ctx, line)
		if err != nil {
			reply = agent.ErrorReply(err)
		}
		cmdutils.PrintResponse(reply)
		return
	}
	res, err := c.sess.Exchange(ctx, line)
	if err != nil {
		cmdutils.PrintResponse(agent.ErrorReply(err))
		return
	}
	cmdutils.PrintToolsUsed(res.ToolsUsed, res.Degraded)
	cmdutils.PrintResponse(res.Reply)
}

// Send prints text to the terminal.
func (c *CLIChannel) Send(_ context.Context, _ string, text string) error {
	cmdutils.PrintResponse(text)
	return nil
}
