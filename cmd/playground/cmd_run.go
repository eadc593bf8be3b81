package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"playground/internal/home"
	"playground/internal/logging"
	"playground/internal/users"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var runWait time.Duration

// runCmd drives the store headless from a script of event tokens.
var runCmd = &cobra.Command{
	Use:   "run [event...]",
	Short: "Dispatch scripted events and stream states and effects as JSON lines",
	Long: `Dispatch events to a fresh store and print every state snapshot and effect
as one JSON object per line.

Events:
  load              load users
  error             show the error message
  click:<id>        click the user with this id
  dismiss-dialog    close the user dialog
  dismiss-snackbar  close the error snackbar
  wait:<duration>   pause before the next event, e.g. wait:500ms`,
	Example: `  playground run load
  playground run error dismiss-snackbar
  playground run load wait:6s click:2 dismiss-dialog`,
	RunE: runScriptCmd,
}

// step is one scripted action: an event to dispatch or a pause.
type step struct {
	event home.Event
	pause time.Duration
}

// parseScript turns event tokens into steps.
func parseScript(tokens []string) ([]step, error) {
	steps := make([]step, 0, len(tokens))
	for _, tok := range tokens {
		name, arg, hasArg := strings.Cut(tok, ":")
		var s step
		switch name {
		case "load":
			s.event = home.LoadUsersClicked{}
		case "error":
			s.event = home.ShowErrorMessageClicked{}
		case "dismiss-dialog":
			s.event = home.UserDialogDismissed{}
		case "dismiss-snackbar":
			s.event = home.SnackbarDismissed{}
		case "click":
			if !hasArg {
				return nil, fmt.Errorf("%q: click needs a user id", tok)
			}
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q: invalid user id: %w", tok, err)
			}
			u, ok := users.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("%q: no user with id %d", tok, id)
			}
			s.event = home.UserClicked{User: u}
		case "wait":
			d, err := time.ParseDuration(arg)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("%q: invalid duration", tok)
			}
			s.pause = d
		default:
			return nil, fmt.Errorf("unknown event %q", tok)
		}
		if hasArg && name != "click" && name != "wait" {
			return nil, fmt.Errorf("%q: %s takes no argument", tok, name)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// lingerFor picks how long to keep streaming after the last step: long
// enough for a started load to finish.
func lingerFor(steps []step, fetchDelay time.Duration) time.Duration {
	for _, s := range steps {
		if _, ok := s.event.(home.LoadUsersClicked); ok {
			return fetchDelay + 500*time.Millisecond
		}
	}
	return 100 * time.Millisecond
}

func runScriptCmd(cmd *cobra.Command, args []string) error {
	steps, err := parseScript(args)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if id := sess.ID(); id != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "session %s\n", id)
	}

	linger := runWait
	if linger <= 0 {
		linger = lingerFor(steps, cfg.GetFetchDelay())
	}

	runErr := runScript(ctx, sess.store, steps, linger, cmd.OutOrStdout())
	closeErr := sess.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// streamLine is one line of run output; exactly one field is set.
type streamLine struct {
	State  *home.StateSummary  `json:"state,omitempty"`
	Effect *home.EffectSummary `json:"effect,omitempty"`
}

// runScript subscribes to store, plays steps, then keeps streaming for
// linger. States and effects are written to out as they arrive.
func runScript(ctx context.Context, store *home.Store, steps []step, linger time.Duration, out io.Writer) error {
	log := logger.For(logging.CategoryStore)

	g, gctx := errgroup.WithContext(ctx)
	streamCtx, stopStreams := context.WithCancel(gctx)
	defer stopStreams()

	states := store.States(streamCtx)
	effects := store.Effects(streamCtx)

	var mu sync.Mutex
	enc := json.NewEncoder(out)
	write := func(line streamLine) error {
		mu.Lock()
		defer mu.Unlock()
		return enc.Encode(line)
	}

	g.Go(func() error {
		for s := range states {
			sum := home.Summarize(s)
			if err := write(streamLine{State: &sum}); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for f := range effects {
			sum := home.SummarizeEffect(f)
			if err := write(streamLine{Effect: &sum}); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		defer stopStreams()
		for _, s := range steps {
			if s.pause > 0 {
				if err := sleep(gctx, store, s.pause); err != nil {
					return err
				}
				continue
			}
			log.Debug("dispatching scripted event", zap.String("event", fmt.Sprintf("%T", s.event)))
			if err := store.Dispatch(s.event); err != nil {
				return err
			}
		}
		return sleep(gctx, store, linger)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return store.Err()
}

// sleep waits for d, returning early when ctx ends or the store stops.
func sleep(ctx context.Context, store *home.Store, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-store.Done():
		return store.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
