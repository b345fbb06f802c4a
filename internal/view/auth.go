package view

import (
	"context"
	"io"

	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
)

// AuthPage is the sign-in or sign-up form.
type AuthPage struct {
	v        *Views
	register bool
	errMsg   string
}

// Login builds the sign-in page.
func (v *Views) Login() *AuthPage {
	return &AuthPage{v: v}
}

// Register builds the sign-up page.
func (v *Views) Register() *AuthPage {
	return &AuthPage{v: v, register: true}
}

// Title implements Page.
func (p *AuthPage) Title() string {
	if p.register {
		return "register"
	}
	return "login"
}

// Load implements Page.
func (p *AuthPage) Load(context.Context) {}

// SubmitLogin validates and signs in.
func (p *AuthPage) SubmitLogin(ctx context.Context, f form.Login) model.Result {
	if err := form.Validate(f); err != nil {
		return p.fail(model.Failure("Please enter a valid email and password", err))
	}
	return p.fail(p.v.deps.Session.Login(ctx, f.Email, f.Password))
}

// SubmitRegister validates and creates an account.
func (p *AuthPage) SubmitRegister(ctx context.Context, f form.Register) model.Result {
	if err := form.Validate(f); err != nil {
		return p.fail(model.Failure("Please fill in your name, email and password", err))
	}
	return p.fail(p.v.deps.Session.Register(ctx, f.Name, f.Email, f.Password))
}

func (p *AuthPage) fail(res model.Result) model.Result {
	if res.OK {
		p.errMsg = ""
	} else {
		p.errMsg = res.Reason
	}
	return res
}

// Render implements Page.
func (p *AuthPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	if p.register {
		out.line("Create your account")
		out.blank()
		out.line("  Full Name")
	} else {
		out.line("Sign in to your account")
		out.blank()
	}
	out.line("  Email address")
	out.line("  Password")
	if p.errMsg != "" {
		out.blank()
		out.line(p.errMsg)
	}
	out.blank()
	if p.register {
		out.line("[ Sign up ]")
		out.line("Already have an account? Sign in: /login")
	} else {
		out.line("[ Sign in ]")
		out.line("Don't have an account? Sign up: /register")
	}
	return out.err
}
