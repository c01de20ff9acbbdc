package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkboard/inkboard/internal/app"
	"github.com/inkboard/inkboard/internal/domain"
)

func newInterpretCommand(container *app.Container) *cobra.Command {
	var (
		locale  string
		yes     bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "interpret [command text]",
		Short: "Interpret a natural language whiteboard command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			if locale == "" {
				locale = container.Config.Preferences.Locale
			}

			text := strings.Join(args, " ")
			resp := container.Interpreter.InterpretWithFallback(ctx, text, locale)

			if resp.Type == domain.ResponseConfirmation && resp.Confirm != nil {
				if yes || promptYes(cmd.OutOrStdout(), resp.Message) {
					resp = resp.Confirm()
				} else {
					resp = domain.ClarificationResponse("Cancelled, nothing was changed.")
				}
			}

			RenderResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale tag for generative backends (default from config)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm destructive operations without prompting")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Override request timeout")

	return cmd
}

func promptYes(out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", message)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
