package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	state     session.State
	gotEmail  string
	gotName   string
	gotPass   string
	loginErr  error
	loggedOut bool
}

func (s *stubClient) State() session.State { return s.state }

func (s *stubClient) Login(_ context.Context, email, password string) (model.UserResponse, error) {
	s.gotEmail, s.gotPass = email, password
	if s.loginErr != nil {
		return model.UserResponse{}, s.loginErr
	}
	return model.UserResponse{Email: email}, nil
}

func (s *stubClient) Register(_ context.Context, email, name, password string) (model.UserResponse, error) {
	s.gotEmail, s.gotName, s.gotPass = email, name, password
	return model.UserResponse{Email: email, Name: name}, nil
}

func (s *stubClient) Profile(context.Context) (model.UserResponse, error) {
	return model.UserResponse{ID: 3, Email: "a@b.com", Name: "A", Role: model.RoleUser}, nil
}

func (s *stubClient) Logout(context.Context) error {
	s.loggedOut = true
	return nil
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(client authClient, input string) (*app, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &app{client: client, reader: bufio.NewReader(strings.NewReader(input)), out: out}, out
}

func TestLoginPromptsForMissingEmail(t *testing.T) {
	stubPassword(t, "secret1")
	client := &stubClient{}
	a, out := newTestApp(client, "a@b.com\n")

	require.NoError(t, a.dispatch(context.Background(), "login", nil))
	assert.Equal(t, "a@b.com", client.gotEmail)
	assert.Equal(t, "secret1", client.gotPass)
	assert.Contains(t, out.String(), "Signed in as a@b.com")
}

func TestRegisterUsesFlags(t *testing.T) {
	stubPassword(t, "secret1")
	client := &stubClient{}
	a, _ := newTestApp(client, "")

	require.NoError(t, a.dispatch(context.Background(), "register", []string{"-email", "n@b.com", "-name", "N"}))
	assert.Equal(t, "n@b.com", client.gotEmail)
	assert.Equal(t, "N", client.gotName)
}

func TestLoginError(t *testing.T) {
	stubPassword(t, "wrongpw")
	client := &stubClient{loginErr: errors.New("invalid email or password")}
	a, _ := newTestApp(client, "")

	err := a.dispatch(context.Background(), "login", []string{"-email", "a@b.com"})
	assert.EqualError(t, err, "invalid email or password")
}

func TestProfileStatusLogout(t *testing.T) {
	client := &stubClient{state: session.State{Status: session.StatusAuthenticated, User: &model.UserResponse{Email: "a@b.com"}}}
	a, out := newTestApp(client, "")
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "profile", nil))
	assert.Contains(t, out.String(), "name:    A")

	require.NoError(t, a.dispatch(ctx, "status", nil))
	assert.Contains(t, out.String(), "status: authenticated")
	assert.Contains(t, out.String(), "user:   a@b.com")

	require.NoError(t, a.dispatch(ctx, "logout", nil))
	assert.True(t, client.loggedOut)
}

func TestUnknownCommand(t *testing.T) {
	a, out := newTestApp(&stubClient{}, "")

	err := a.dispatch(context.Background(), "frobnicate", nil)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "usage:")
}

func TestGetSimpleTextEOF(t *testing.T) {
	out := &bytes.Buffer{}
	s, err := GetSimpleText(bufio.NewReader(strings.NewReader("  partial  ")), "Email", out)
	require.NoError(t, err)
	assert.Equal(t, "partial", s)
	assert.Equal(t, "Email: ", out.String())
}
