package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-push-relay/internal/application/reply"
	"github.com/go-push-relay/internal/domain"
	"github.com/spf13/cobra"
)

var (
	replayFile   string
	replayDryRun bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run one stored change event through the notifier",
	Long: `replay reads a webhook payload from --file (or stdin with "-") and
processes it exactly as the server would. Replaying an event that was
already delivered sends a duplicate push.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := readEvent(cmd.InOrStdin(), replayFile)
		if err != nil {
			return err
		}

		st, err := buildStores(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		var sender reply.Sender = dryRunSender{logger: logger}
		if !replayDryRun {
			if sender, err = buildSender(cmd.Context(), cfg); err != nil {
				return err
			}
		}

		svc := reply.NewService(reply.ServiceDeps{
			Stories:  st.stories,
			Profiles: st.profiles,
			Sender:   sender,
			Logger:   logger,
			Options:  serviceOptions(cfg),
		})
		out, err := svc.Notify(cmd.Context(), ev)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", out.Result, out.MessageID)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "-", "path to a JSON change event, or - for stdin")
	replayCmd.Flags().BoolVar(&replayDryRun, "dry-run", false, "log the push instead of sending it")
}

func readEvent(stdin io.Reader, path string) (domain.ChangeEvent, error) {
	var ev domain.ChangeEvent
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return ev, fmt.Errorf("open event: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return ev, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}
