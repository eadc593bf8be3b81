package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"playground/cmd/playground/ui"
	"playground/internal/home"
	"playground/internal/journal"
	"playground/internal/logging"
	"playground/internal/mvi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// replayCmd rebuilds a recorded session's final state.
var replayCmd = &cobra.Command{
	Use:   "replay [session]",
	Short: "Rebuild a recorded session's final state and effects",
	Long: `Fold a journaled session's events through the screen's reducer and print
the resulting state and the effects it emitted. Without a session id the
most recent session is replayed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

// sessionsCmd lists recorded sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	RunE:  runSessions,
}

// replayResult is what replay prints.
type replayResult struct {
	Session string               `json:"session"`
	Events  int                  `json:"events"`
	State   home.StateSummary    `json:"state"`
	Effects []home.EffectSummary `json:"effects"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		latest, err := j.Latest(ctx)
		if errors.Is(err, journal.ErrNoSession) {
			return fmt.Errorf("no sessions recorded in %s", cfg.Journal.Path)
		}
		if err != nil {
			return err
		}
		id = latest.ID
	}

	res, err := replaySession(ctx, j, id, logger.For(logging.CategoryJournal))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// replaySession decodes a session's events and folds them into a state.
func replaySession(ctx context.Context, j *journal.Journal, id string, log *zap.Logger) (replayResult, error) {
	recs, err := j.Records(ctx, id)
	if err != nil {
		return replayResult{}, err
	}

	events := make([]home.Event, 0, len(recs))
	for _, rec := range recs {
		ev, err := home.DecodeEvent(rec.Kind, rec.Payload)
		if err != nil {
			return replayResult{}, fmt.Errorf("session %s event #%d: %w", id, rec.Seq, err)
		}
		events = append(events, ev)
	}
	log.Debug("replaying session", zap.String("session", id), zap.Int("events", len(events)))

	state, effects := mvi.Replay[home.Event, home.State, home.Effect](home.NewReducer(nil, log), events)

	res := replayResult{
		Session: id,
		Events:  len(events),
		State:   home.Summarize(state),
		Effects: make([]home.EffectSummary, 0, len(effects)),
	}
	for _, f := range effects {
		res.Effects = append(res.Effects, home.SummarizeEffect(f))
	}
	return res, nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	sessions, err := j.Sessions(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded.")
		return nil
	}

	tbl := ui.NewTable("Sessions", "Session", "Started", "Events")
	tbl.RightAlign[2] = true
	for _, s := range sessions {
		tbl.AddRow(s.ID, s.StartedAt.Local().Format(time.DateTime), strconv.Itoa(s.Events))
	}
	fmt.Fprint(out, tbl.View(ui.NewStyles(ui.DetectTheme(cfg.UI.DarkMode))))
	fmt.Fprintf(out, "Total: %d sessions\n", len(sessions))
	return nil
}
