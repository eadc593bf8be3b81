package home

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned when decoding an unrecognised event kind.
var ErrUnknownEvent = errors.New("home: unknown event kind")

// Event kinds as stored in the journal.
const (
	KindLoadUsersClicked        = "load_users_clicked"
	KindShowErrorMessageClicked = "show_error_message_clicked"
	KindSnackbarDismissed       = "snackbar_dismissed"
	KindUserClicked             = "user_clicked"
	KindUserDialogDismissed     = "user_dialog_dismissed"
	KindUsersLoaded             = "users_loaded"
	KindUsersLoadFailed         = "users_load_failed"
)

// EncodeEvent returns the stable kind name and JSON payload of ev.
func EncodeEvent(ev Event) (string, []byte, error) {
	var kind string
	switch ev.(type) {
	case LoadUsersClicked:
		kind = KindLoadUsersClicked
	case ShowErrorMessageClicked:
		kind = KindShowErrorMessageClicked
	case SnackbarDismissed:
		kind = KindSnackbarDismissed
	case UserClicked:
		kind = KindUserClicked
	case UserDialogDismissed:
		kind = KindUserDialogDismissed
	case UsersLoaded:
		kind = KindUsersLoaded
	case UsersLoadFailed:
		kind = KindUsersLoadFailed
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return kind, payload, nil
}

// EncodeAny is EncodeEvent for callers that only hold an any, such as a
// store observer.
func EncodeAny(v any) (string, []byte, error) {
	ev, ok := v.(Event)
	if !ok {
		return "", nil, fmt.Errorf("%w: %T", ErrUnknownEvent, v)
	}
	return EncodeEvent(ev)
}

// DecodeEvent reverses EncodeEvent.
func DecodeEvent(kind string, payload []byte) (Event, error) {
	switch kind {
	case KindLoadUsersClicked:
		return LoadUsersClicked{}, nil
	case KindShowErrorMessageClicked:
		return ShowErrorMessageClicked{}, nil
	case KindSnackbarDismissed:
		return SnackbarDismissed{}, nil
	case KindUserDialogDismissed:
		return UserDialogDismissed{}, nil
	case KindUserClicked:
		var ev UserClicked
		return decodeInto(kind, payload, ev)
	case KindUsersLoaded:
		var ev UsersLoaded
		return decodeInto(kind, payload, ev)
	case KindUsersLoadFailed:
		var ev UsersLoadFailed
		return decodeInto(kind, payload, ev)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
	}
}

func decodeInto[T Event](kind string, payload []byte, ev T) (Event, error) {
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return ev, nil
}
