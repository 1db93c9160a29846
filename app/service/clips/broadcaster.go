package clips

import (
	"fmt"
	"regexp"
	"twdl/app/apperr"
)

type broadcasterKind int

const (
	broadcasterByID broadcasterKind = iota + 1
	broadcasterByLogin
)

var numericID = regexp.MustCompile(`^[0-9]+$`)

// BroadcasterRef addresses a channel either by numeric ID or by login name. The zero value
// addresses nothing and is rejected by Validate.
type BroadcasterRef struct {
	kind  broadcasterKind
	value string
}

func ByID(id string) BroadcasterRef {
	return BroadcasterRef{kind: broadcasterByID, value: id}
}

func ByLogin(login string) BroadcasterRef {
	return BroadcasterRef{kind: broadcasterByLogin, value: login}
}

// NewBroadcasterRef builds a reference from the two mutually exclusive CLI inputs.
func NewBroadcasterRef(id, login string) (BroadcasterRef, error) {
	switch {
	case id != "" && login != "":
		return BroadcasterRef{}, fmt.Errorf("%w: broadcaster id and login are mutually exclusive", apperr.ErrConfig)
	case id != "":
		ref := ByID(id)
		return ref, ref.Validate()
	case login != "":
		ref := ByLogin(login)
		return ref, ref.Validate()
	default:
		return BroadcasterRef{}, fmt.Errorf("%w: either broadcaster login or id is required", apperr.ErrConfig)
	}
}

func (r BroadcasterRef) Validate() error {
	switch r.kind {
	case broadcasterByID:
		if !numericID.MatchString(r.value) {
			return fmt.Errorf("%w: broadcaster id must be numeric, got %q", apperr.ErrConfig, r.value)
		}
	case broadcasterByLogin:
		if r.value == "" {
			return fmt.Errorf("%w: broadcaster login is empty", apperr.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: either broadcaster login or id is required", apperr.ErrConfig)
	}

	return nil
}

// ID returns the broadcaster ID when the reference was built from one.
func (r BroadcasterRef) ID() (string, bool) {
	return r.value, r.kind == broadcasterByID
}

// Login returns the login name when the reference was built from one.
func (r BroadcasterRef) Login() (string, bool) {
	return r.value, r.kind == broadcasterByLogin
}

func (r BroadcasterRef) String() string {
	switch r.kind {
	case broadcasterByID:
		return "id:" + r.value
	case broadcasterByLogin:
		return "login:" + r.value
	default:
		return ""
	}
}
