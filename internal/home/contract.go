// Package home is the users screen: its events, state and effects, and the
// reducer that ties them together.
package home

import "playground/internal/users"

// Event is something the view (or a finished load) asks the screen to do.
type Event interface {
	isEvent()
}

// LoadUsersClicked starts a users load.
type LoadUsersClicked struct{}

// ShowErrorMessageClicked asks for the error snackbar directly.
type ShowErrorMessageClicked struct{}

// SnackbarDismissed is sent when the error snackbar goes away.
type SnackbarDismissed struct{}

// UserClicked is sent when a row in the list is selected.
type UserClicked struct {
	User users.User
}

// UserDialogDismissed is sent when the user dialog is closed.
type UserDialogDismissed struct{}

// UsersLoaded carries a successful load back into the lane. Only the
// store's own fetch work or a journal replay produces it; views never
// dispatch it.
type UsersLoaded struct {
	Users []users.User
}

// UsersLoadFailed carries a failed load back into the lane. Like
// UsersLoaded, it comes from the store's fetch work or a replay, not from
// a view.
type UsersLoadFailed struct {
	Reason string
}

func (LoadUsersClicked) isEvent()        {}
func (ShowErrorMessageClicked) isEvent() {}
func (SnackbarDismissed) isEvent()       {}
func (UserClicked) isEvent()             {}
func (UserDialogDismissed) isEvent()     {}
func (UsersLoaded) isEvent()             {}
func (UsersLoadFailed) isEvent()         {}

// State is everything needed to draw the screen.
type State struct {
	Users UsersState
}

// UsersState is the state of the user list.
type UsersState interface {
	isUsersState()
}

// UsersIdle means nothing has been loaded.
type UsersIdle struct{}

// UsersLoading means a load is in flight.
type UsersLoading struct{}

// UsersSuccess holds the loaded list.
type UsersSuccess struct {
	Users []users.User
}

func (UsersIdle) isUsersState()    {}
func (UsersLoading) isUsersState() {}
func (UsersSuccess) isUsersState() {}

// Effect is a one-shot instruction for the view.
type Effect interface {
	isEffect()
}

// NoEffect tells the view a transient element was dismissed.
type NoEffect struct{}

// ShowErrorMessage shows the error snackbar.
type ShowErrorMessage struct{}

// ShowDialog opens the dialog for User.
type ShowDialog struct {
	User users.User
}

func (NoEffect) isEffect()         {}
func (ShowErrorMessage) isEffect() {}
func (ShowDialog) isEffect()       {}
