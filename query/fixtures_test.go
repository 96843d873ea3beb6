package query

import (
	stderrors "errors"
	"strings"
	"time"
)

// searchRequest is the canonical fixture: a flat record with a nested
// record, both sequence strategies and two optionals.
type searchRequest struct {
	Name    string `query:"name"`
	Age     uint   `query:"age"`
	Pages   pagination
	IDs     []uint64  `query:"ids"`
	Hobbies *[]string `query:"hobbies"`
	Op      *string   `query:"op"`
}

type pagination struct {
	Limit  uint64 `query:"limit"`
	Offset uint64 `query:"offset"`
}

// event exercises the text interfaces through time.Time.
type event struct {
	Name string    `query:"name"`
	At   time.Time `query:"at"`
}

// upperToken proves the custom interfaces are used: the token form is
// upper-cased on the way out and lower-cased on the way in.
type upperToken struct {
	v string
}

func (u upperToken) MarshalQuery() (string, error) { return strings.ToUpper(u.v), nil }

func (u *upperToken) UnmarshalQuery(s string) error {
	u.v = strings.ToLower(s)
	return nil
}

var errTokenBroken = stderrors.New("token broken")

// failToken always fails, for error propagation tests.
type failToken struct{}

func (failToken) MarshalQuery() (string, error) { return "", errTokenBroken }

func (*failToken) UnmarshalQuery(string) error { return errTokenBroken }

func ptr[T any](v T) *T {
	return &v
}
