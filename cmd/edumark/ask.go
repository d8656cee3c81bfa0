package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"

	"edumark/internal/app"
	"edumark/internal/chat"
)

const askLongDesc string = `Send one message through the chat handler and print the response envelope.

History, if given, is a JSON array of {"role","content"} turns.

Examples:
  edumark ask "What is photosynthesis?"
  edumark ask --variant tutor --history turns.json "And in simpler words?"`

type askCommander struct {
	historyPath string
}

func newAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask a single question",
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.Build(ctx, os.Getenv, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Logger.Sync() }()
			return cmder.run(ctx, cmd.OutOrStdout(), a.Handler, args[0])
		},
	}

	cmd.Flags().StringVar(&cmder.historyPath, "history", "", "Path to a JSON file with prior turns")
	return cmd
}

func (c *askCommander) run(ctx context.Context, out io.Writer, h *chat.Handler, message string) error {
	req := chat.ChatRequest{Message: message}
	if c.historyPath != "" {
		raw, err := os.ReadFile(c.historyPath)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if err := json.Unmarshal(raw, &req.History); err != nil {
			return fmt.Errorf("parse history %s: %w", c.historyPath, err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: string(body)})
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(resp.Body), "", "  "); err != nil {
		pretty.WriteString(resp.Body)
	}
	fmt.Fprintf(out, "HTTP %d\n%s\n", resp.StatusCode, pretty.String())
	return nil
}
