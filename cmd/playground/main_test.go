package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playground/internal/config"
	"playground/internal/home"
	"playground/internal/journal"
	"playground/internal/logging"
	"playground/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a config that keeps every file under a temp dir
// and makes loads finish immediately.
func writeTestConfig(t *testing.T) (string, *config.Config) {
	t.Helper()
	for _, env := range []string{
		"PLAYGROUND_FETCH_DELAY", "PLAYGROUND_EFFECT_POLICY", "PLAYGROUND_JOURNAL_PATH",
		"PLAYGROUND_LOG_LEVEL", "PLAYGROUND_DARK_MODE",
	} {
		t.Setenv(env, "")
	}

	dir := t.TempDir()
	c := config.DefaultConfig()
	c.Fetch.Delay = "0s"
	c.Fetch.Seed = 7
	c.Journal.Path = filepath.Join(dir, "journal.db")
	c.Logging.File = filepath.Join(dir, "playground.log")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, c.Save(path))
	return path, c
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		cfg, logger = nil, nil
		runWait, configForce = 0, false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func decodeLines(t *testing.T, out string) []streamLine {
	t.Helper()
	var lines []streamLine
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var l streamLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), "line %q", sc.Text())
		lines = append(lines, l)
	}
	return lines
}

func TestParseScript(t *testing.T) {
	steps, err := parseScript([]string{"load", "wait:250ms", "click:2", "dismiss-dialog", "error", "dismiss-snackbar"})
	require.NoError(t, err)
	require.Len(t, steps, 6)

	peter, ok := users.Lookup(2)
	require.True(t, ok)

	assert.Equal(t, home.LoadUsersClicked{}, steps[0].event)
	assert.Equal(t, 250*time.Millisecond, steps[1].pause)
	assert.Nil(t, steps[1].event)
	assert.Equal(t, home.UserClicked{User: peter}, steps[2].event)
	assert.Equal(t, home.UserDialogDismissed{}, steps[3].event)
	assert.Equal(t, home.ShowErrorMessageClicked{}, steps[4].event)
	assert.Equal(t, home.SnackbarDismissed{}, steps[5].event)
}

func TestParseScriptRejectsBadTokens(t *testing.T) {
	for _, tok := range []string{"fly", "click", "click:abc", "click:999", "wait:soon", "wait:-1s", "load:now"} {
		t.Run(tok, func(t *testing.T) {
			_, err := parseScript([]string{tok})
			assert.Error(t, err)
		})
	}
}

func TestLingerFor(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, lingerFor([]step{{event: home.ShowErrorMessageClicked{}}}, time.Second))
	assert.Equal(t, 1500*time.Millisecond, lingerFor([]step{{event: home.LoadUsersClicked{}}}, time.Second))
}

func TestRunScriptStreamsStatesAndEffects(t *testing.T) {
	ctx := context.Background()
	src := users.NewFakeSource(0, users.WithDraw(func() int { return 1 }))
	store := home.NewStore(ctx, src, nil)
	defer store.Close()

	steps, err := parseScript([]string{"load", "wait:200ms", "click:2"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runScript(ctx, store, steps, 200*time.Millisecond, &out))

	var states []string
	var effects []home.EffectSummary
	for _, l := range decodeLines(t, out.String()) {
		switch {
		case l.State != nil:
			states = append(states, l.State.Users)
		case l.Effect != nil:
			effects = append(effects, *l.Effect)
		}
	}

	assert.Equal(t, []string{"idle", "loading", "success"}, states)
	require.Len(t, effects, 1)
	assert.Equal(t, "show_dialog", effects[0].Effect)
	require.NotNil(t, effects[0].User)
	assert.Equal(t, "Peter", effects[0].User.Name)
}

func TestRunScriptStopsWhenContextEnds(t *testing.T) {
	store := home.NewStore(context.Background(), users.NewFakeSource(time.Hour), nil)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	var out bytes.Buffer
	err := runScript(ctx, store, []step{{event: home.LoadUsersClicked{}}}, time.Hour, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUsersCommand(t *testing.T) {
	path, _ := writeTestConfig(t)
	out, err := execute(t, "--config", path, "users")
	require.NoError(t, err)

	for _, u := range users.Catalog() {
		assert.Contains(t, out, u.Name)
	}
}

func TestRunCommandJournalsAndReplays(t *testing.T) {
	path, c := writeTestConfig(t)

	out, err := execute(t, "--config", path, "run", "--wait", "100ms", "click:2", "error")
	require.NoError(t, err)
	assert.Contains(t, out, `"effect":"show_dialog"`)
	assert.Contains(t, out, `"effect":"show_error_message"`)

	j, err := journal.Open(c.Journal.Path)
	require.NoError(t, err)
	defer j.Close()

	latest, err := j.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Events)

	res, err := replaySession(context.Background(), j, latest.ID, logging.Nop().For(logging.CategoryJournal))
	require.NoError(t, err)
	assert.Equal(t, "idle", res.State.Users)
	require.Len(t, res.Effects, 2)
	assert.Equal(t, "show_dialog", res.Effects[0].Effect)
	assert.Equal(t, "show_error_message", res.Effects[1].Effect)
}

func TestReplayCommandUsesLatestSession(t *testing.T) {
	path, _ := writeTestConfig(t)

	_, err := execute(t, "--config", path, "run", "--wait", "500ms", "load")
	require.NoError(t, err)

	out, err := execute(t, "--config", path, "replay")
	require.NoError(t, err)

	var res replayResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	// load, then the fetch outcome the live store fed back.
	assert.Equal(t, 2, res.Events)
	switch res.State.Users {
	case "success":
		assert.Len(t, res.State.List, len(users.Catalog()))
		assert.Empty(t, res.Effects)
	case "idle":
		require.Len(t, res.Effects, 1)
		assert.Equal(t, "show_error_message", res.Effects[0].Effect)
	default:
		t.Fatalf("unexpected replayed state %q", res.State.Users)
	}
}

func TestReplayCommandWithoutSessions(t *testing.T) {
	path, _ := writeTestConfig(t)
	_, err := execute(t, "--config", path, "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sessions recorded")
}

func TestSessionsCommand(t *testing.T) {
	path, _ := writeTestConfig(t)

	out, err := execute(t, "--config", path, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded.")

	_, err = execute(t, "--config", path, "run", "--wait", "50ms", "error")
	require.NoError(t, err)

	out, err = execute(t, "--config", path, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1 sessions")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Effects, loaded.Effects)

	_, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)

	_, err = execute(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path, c := writeTestConfig(t)
	c.Effects.Policy = "broadcast"
	require.NoError(t, c.Save(path))

	_, err := execute(t, "--config", path, "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid effect policy")
}
