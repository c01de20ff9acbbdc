package cli

import (
	"fmt"
	"io"

	"github.com/inkboard/inkboard/internal/domain"
)

// RenderResponse prints the response in a friendly, ASCII-only format.
func RenderResponse(out io.Writer, resp domain.AIResponse) {
	switch resp.Type {
	case domain.ResponseSuccess:
		fmt.Fprintln(out, resp.Message)
		for _, call := range resp.Result {
			fmt.Fprintf(out, " - %s\n", call.Name)
		}
	case domain.ResponseClarification:
		fmt.Fprintln(out, resp.Message)
		if len(resp.Suggestions) > 0 {
			fmt.Fprintln(out, "\nFor example:")
			for _, suggestion := range resp.Suggestions {
				fmt.Fprintf(out, " - %s\n", suggestion)
			}
		}
	case domain.ResponseConfirmation:
		fmt.Fprintln(out, resp.Message)
	case domain.ResponseError:
		fmt.Fprintf(out, "Error: %s\n", resp.Message)
	}
}
