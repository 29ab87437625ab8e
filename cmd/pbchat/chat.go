package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/liutizhong/PBChatbot/chat"
	"github.com/liutizhong/PBChatbot/config"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var (
		noStream bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := flags.settingsManager()
			if err != nil {
				return err
			}
			manager.OnChange(func(_, new config.Settings) {
				fmt.Fprintln(os.Stderr, faintStyle.Render("settings reloaded: "+new.APIURL))
			})

			client, err := chat.New(
				chat.WithLogger(flags.logger()),
				chat.WithUserAgent(userAgent()),
				chat.WithStreaming(!noStream),
				chat.WithSendTimeout(timeout),
				chat.WithRetryProgress(func(attempt, max int, delay time.Duration) {
					fmt.Fprintln(os.Stderr, faintStyle.Render(
						fmt.Sprintf("connection failed, retrying in %s (attempt %d/%d)", delay, attempt, max)))
				}),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runREPL(ctx, client, manager)
		},
	}

	cmd.Flags().BoolVar(&noStream, "no-stream", false, "request a single JSON reply instead of a stream")
	cmd.Flags().DurationVar(&timeout, "timeout", chat.DefaultSendTimeout, "per-message timeout")
	return cmd
}

// runREPL reads one line at a time and plays one exchange per line. A new
// message is only read after the previous exchange delivered its terminal
// output.
func runREPL(ctx context.Context, client *chat.Client, manager *config.Manager) error {
	fmt.Println(faintStyle.Render("type a message and press enter; /quit exits"))

	target := newTerminalTarget(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	prompt := promptStyle.Render("you>") + " "

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			return nil
		}

		// Errors reach the user through the target; the loop keeps going
		// unless the whole session was canceled.
		if _, err := client.Send(ctx, line, manager.Get().ChatConfig(), target); err != nil {
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}
