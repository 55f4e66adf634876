package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/session"
)

// authClient is the part of session.Client the commands use.
type authClient interface {
	State() session.State
	Login(ctx context.Context, email, password string) (model.UserResponse, error)
	Register(ctx context.Context, email, name, password string) (model.UserResponse, error)
	Profile(ctx context.Context) (model.UserResponse, error)
	Logout(ctx context.Context) error
}

type app struct {
	client authClient
	reader *bufio.Reader
	out    io.Writer
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "profile":
		return a.profile(ctx)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status()
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	}
	fmt.Fprintln(a.out, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.ask(email, "Email"); err != nil {
		return err
	}
	if err := a.ask(name, "Name"); err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.client.Register(ctx, *email, *name, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and signed in as %s\n", user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.ask(email, "Email"); err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", user.Email)
	return nil
}

func (a *app) profile(ctx context.Context) error {
	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id:      %d\n", user.ID)
	fmt.Fprintf(a.out, "email:   %s\n", user.Email)
	fmt.Fprintf(a.out, "name:    %s\n", user.Name)
	fmt.Fprintf(a.out, "role:    %s\n", user.Role)
	fmt.Fprintf(a.out, "created: %s\n", user.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) status() error {
	st := a.client.State()
	fmt.Fprintf(a.out, "status: %s\n", st.Status)
	if st.User != nil {
		fmt.Fprintf(a.out, "user:   %s\n", st.User.Email)
	}
	return nil
}

// ask prompts for v when it was not given as a flag.
func (a *app) ask(v *string, prompt string) error {
	if *v != "" {
		return nil
	}
	s, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	*v = s
	return nil
}
