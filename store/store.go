// Package store persists the client-side application state shared with the authentication
// collaborator: the signed-in user, their profiles, the active profile and the API token.
package store

import (
	"sync"

	"github.com/aurora-stream/aurora/filesystem"
	"github.com/aurora-stream/aurora/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// Profile is a viewer profile of the signed-in account.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Kids   bool   `json:"kids,omitempty"`
}

// User is the signed-in account.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Profiles       []Profile `json:"profiles"`
	CurrentProfile *Profile  `json:"currentProfile,omitempty"`
}

// State is the persisted document.
type State struct {
	User     *User  `json:"user,omitempty"`
	APIToken string `json:"apiToken,omitempty"`
}

var (
	mu     sync.Mutex
	cacher *gache.Cache[*State]
)

func backend() *gache.Cache[*State] {
	if cacher == nil {
		cacher = gache.New[*State](&gache.Options{
			Path:       where.Store(),
			FileSystem: &filesystem.GacheFs{},
		})
	}
	return cacher
}

// ResetCache drops the cached handle so the next access re-resolves the store path.
// Tests call it after swapping the filesystem backend.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()
	cacher = nil
}

// Load returns the persisted state, or an empty one if nothing was saved yet.
func Load() (State, error) {
	mu.Lock()
	defer mu.Unlock()
	return load()
}

func load() (State, error) {
	cached, expired, err := backend().Get()
	if err != nil {
		return State{}, err
	}
	if expired || cached == nil {
		return State{}, nil
	}
	return *cached, nil
}

// Update applies fn to the persisted state and saves the result.
func Update(fn func(*State)) error {
	mu.Lock()
	defer mu.Unlock()

	state, err := load()
	if err != nil {
		return err
	}
	fn(&state)
	return backend().Set(&state)
}

// SetUser replaces the signed-in user.
func SetUser(user *User) error {
	return Update(func(s *State) { s.User = user })
}

// SetAPIToken stores the token used when the keyring holds none.
func SetAPIToken(token string) error {
	return Update(func(s *State) { s.APIToken = token })
}

// SetCurrentProfile selects the active profile. It is ignored when no user is signed in.
func SetCurrentProfile(profile Profile) error {
	return Update(func(s *State) {
		if s.User == nil {
			return
		}
		p := profile
		s.User.CurrentProfile = &p
	})
}

// SetProfiles replaces the profile list of the signed-in user.
func SetProfiles(profiles []Profile) error {
	return Update(func(s *State) {
		if s.User != nil {
			s.User.Profiles = profiles
		}
	})
}

// APIToken returns the stored token, if any.
func APIToken() mo.Option[string] {
	state, err := Load()
	if err != nil || state.APIToken == "" {
		return mo.None[string]()
	}
	return mo.Some(state.APIToken)
}

// CurrentProfileID returns the id of the active profile, if any.
func CurrentProfileID() mo.Option[string] {
	state, err := Load()
	if err != nil || state.User == nil || state.User.CurrentProfile == nil || state.User.CurrentProfile.ID == "" {
		return mo.None[string]()
	}
	return mo.Some(state.User.CurrentProfile.ID)
}
