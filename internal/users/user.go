// Package users holds the user model and the source the home screen loads
// it from.
package users

import "fmt"

// User is an immutable list entry.
type User struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

func (u User) String() string {
	return fmt.Sprintf("%s (%d)", u.Name, u.ID)
}

var catalog = [...]User{
	{"John", 1},
	{"Peter", 2},
	{"Pavel", 3},
	{"George", 4},
	{"Vasquez", 5},
	{"Rodrigo", 6},
	{"Artur", 7},
	{"Viktor", 8},
	{"Ivan", 9},
	{"Oleg", 10},
	{"Dominique", 11},
	{"Fabio", 12},
	{"Rafael", 13},
	{"Alexander", 14},
	{"Roger", 15},
	{"Novak", 16},
	{"Cameron", 17},
}

// Catalog returns a fresh copy of the fixed user list.
func Catalog() []User {
	out := make([]User, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup finds a catalog user by id.
func Lookup(id int64) (User, bool) {
	for _, u := range catalog {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
