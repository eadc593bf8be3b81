package home

import (
	"testing"

	"playground/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_PayloadEventsSurviveEncoding(t *testing.T) {
	events := []Event{
		UserClicked{User: users.User{Name: "Peter", ID: 2}},
		UsersLoaded{Users: users.Catalog()},
		UsersLoadFailed{Reason: "users: fetch failed (draw 0)"},
		LoadUsersClicked{},
	}
	for _, ev := range events {
		kind, payload, err := EncodeEvent(ev)
		require.NoError(t, err)

		got, err := DecodeEvent(kind, payload)
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
}

func TestCodec_StableKinds(t *testing.T) {
	kind, _, err := EncodeEvent(UserDialogDismissed{})
	require.NoError(t, err)
	assert.Equal(t, "user_dialog_dismissed", kind)
}

func TestCodec_Unknown(t *testing.T) {
	_, err := DecodeEvent("teleport", nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, _, err = EncodeAny("not an event")
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = DecodeEvent(KindUserClicked, []byte("{"))
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	assert.Equal(t, "idle", Summarize(State{Users: UsersIdle{}}).Users)
	assert.Equal(t, "loading", Summarize(State{Users: UsersLoading{}}).Users)
	s := Summarize(State{Users: UsersSuccess{Users: users.Catalog()}})
	assert.Equal(t, "success", s.Users)
	assert.Len(t, s.List, 17)

	e := SummarizeEffect(ShowDialog{User: users.User{Name: "Ivan", ID: 9}})
	assert.Equal(t, "show_dialog", e.Effect)
	require.NotNil(t, e.User)
	assert.Equal(t, int64(9), e.User.ID)
	assert.Equal(t, "none", SummarizeEffect(NoEffect{}).Effect)
}
