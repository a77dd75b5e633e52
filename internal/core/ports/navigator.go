package ports

// Navigator moves the user to the login view after sign-out or an
// unrecoverable session failure.
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }
