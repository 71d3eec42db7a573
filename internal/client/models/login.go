package models

import "fmt"

// LoginState is one of LoginEmpty, LoginPending, LoginSuccess or
// LoginFailure. The unexported marker keeps the set closed.
type LoginState interface {
	loginState()
}

type LoginEmpty struct{}

type LoginPending struct{}

type LoginSuccess struct {
	Username string
	Email    string
}

type LoginFailure struct {
	Err NetworkError
}

func (LoginEmpty) loginState()   {}
func (LoginPending) loginState() {}
func (LoginSuccess) loginState() {}
func (LoginFailure) loginState() {}

// DescribeLogin renders s for the status line.
func DescribeLogin(s LoginState) string {
	switch st := s.(type) {
	case LoginEmpty:
		return "not logged in"
	case LoginPending:
		return "logging in..."
	case LoginSuccess:
		return fmt.Sprintf("logged in as %s", st.Username)
	case LoginFailure:
		return fmt.Sprintf("login failed: %s", st.Err.Message())
	}
	panic(fmt.Sprintf("unhandled login state %T", s))
}
