package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/internal/client/api"
	"github.com/iudanet/freelancehub/internal/client/auth"
	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/client/iocli"
	"github.com/iudanet/freelancehub/internal/client/session"
	"github.com/iudanet/freelancehub/internal/client/storage/memory"
	"github.com/iudanet/freelancehub/internal/fakeapi"
	"github.com/iudanet/freelancehub/internal/models"
	pkgapi "github.com/iudanet/freelancehub/pkg/api"
)

// terminal - IOMock, пишущий вывод в буфер и отдающий заранее заданный ввод
type terminal struct {
	mock   *iocli.IOMock
	out    bytes.Buffer
	inputs []string
	mu     sync.Mutex
}

func newTerminal(inputs ...string) *terminal {
	term := &terminal{inputs: inputs}
	next := func(string) (string, error) {
		term.mu.Lock()
		defer term.mu.Unlock()
		if len(term.inputs) == 0 {
			return "", io.EOF
		}
		v := term.inputs[0]
		term.inputs = term.inputs[1:]
		return v, nil
	}
	term.mock = &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			term.mu.Lock()
			defer term.mu.Unlock()
			fmt.Fprintln(&term.out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			term.mu.Lock()
			defer term.mu.Unlock()
			fmt.Fprintf(&term.out, format, a...)
		},
		ReadInputFunc:    next,
		ReadPasswordFunc: next,
		WriteFunc: func(p []byte) (int, error) {
			term.mu.Lock()
			defer term.mu.Unlock()
			return term.out.Write(p)
		},
	}
	return term
}

func (term *terminal) String() string {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.out.String()
}

type cliEnv struct {
	cli     *Cli
	backend *fakeapi.Server
	sess    *session.Session
	term    *terminal
	screen  *Screen
	status  *bytes.Buffer
}

func newCliEnv(t *testing.T, inputs ...string) *cliEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := fakeapi.New(fakeapi.WithLogger(logger))
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	term := newTerminal(inputs...)
	status := &bytes.Buffer{}
	screen := NewScreen(term.mock, status)

	sess := session.New(memory.New(), logger)
	client := api.NewClient(server.URL, sess,
		api.WithNavigator(screen), api.WithNotifier(screen), api.WithLogger(logger))
	g := guard.New(sess, client,
		guard.WithNavigator(screen), guard.WithLoading(screen.Loading), guard.WithLogger(logger))
	authService := auth.NewAuthService(client, sess, screen, logger)

	c := New(term.mock, authService, client, g, logger)
	c.getenv = func(string) string { return "" }

	return &cliEnv{cli: c, backend: backend, sess: sess, term: term, screen: screen, status: status}
}

// loginAs заводит пользователя на сервере и входит под ним
func (e *cliEnv) loginAs(t *testing.T, email string, role models.Role) int {
	t.Helper()
	id := e.backend.AddUser(email, "password1", role)
	_, err := e.cli.authService.Login(context.Background(), email, "password1")
	require.NoError(t, err)
	return id
}

// mockCli - views поверх auth.ServiceMock, без сервера
func mockCli(term *terminal, svc auth.Service) *Cli {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.New(memory.New(), logger)
	c := New(term.mock, svc, nil, guard.New(sess, nil, guard.WithLogger(logger)), logger)
	c.getenv = func(string) string { return "" }
	return c
}

func (e *cliEnv) run(args ...string) error {
	return runCommands(e.cli, args...)
}

func runCommands(c *Cli, args ...string) error {
	root := &cobra.Command{Use: "freelancehub", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(c.Commands()...)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestGetPassword_Priority(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0600))

	tests := []struct {
		name      string
		env       string
		passwords Passwords
		input     []string
		want      string
		wantErr   bool
	}{
		{"env wins", "from-env", Passwords{FromFile: file, FromArgs: "from-args"}, nil, "from-env", false},
		{"file over args", "", Passwords{FromFile: file, FromArgs: "from-args"}, nil, "from-file", false},
		{"args", "", Passwords{FromArgs: "from-args"}, nil, "from-args", false},
		{"prompt", "", Passwords{}, []string{"typed"}, "typed", false},
		{"empty prompt", "", Passwords{}, []string{""}, "", true},
		{"missing file", "", Passwords{FromFile: filepath.Join(dir, "none")}, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newTerminal(tt.input...)
			c := &Cli{io: term.mock, getenv: func(key string) string {
				if key == EnvPassword {
					return tt.env
				}
				return ""
			}}

			got, err := c.getPassword(tt.passwords, "Password: ")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogin_UsesService(t *testing.T) {
	term := newTerminal("u@x.io", "pw")
	svc := &auth.ServiceMock{
		LoginFunc: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			return &auth.LoginResult{Email: email, Role: models.RoleClient, Dashboard: "/client/dashboard"}, nil
		},
	}
	c := mockCli(term, svc)
	c.getenv = func(string) string { return "" }

	require.NoError(t, runCommands(c, "login"))

	require.Len(t, svc.LoginCalls(), 1)
	assert.Equal(t, "u@x.io", svc.LoginCalls()[0].Email)
	assert.Equal(t, "pw", svc.LoginCalls()[0].Password)
	assert.Contains(t, term.String(), "✓ Login successful!")
	assert.Contains(t, term.String(), "/client/dashboard")
}

func TestLogin_Flags(t *testing.T) {
	env := newCliEnv(t)
	env.backend.AddUser("u@x.io", "pw", models.RoleFreelancer)

	require.NoError(t, env.run("login", "--email", "u@x.io", "--password", "pw"))

	assert.Equal(t, session.Snapshot{State: session.StateAuthenticated, Role: models.RoleFreelancer}, env.sess.Snapshot())
	assert.Contains(t, env.term.String(), "/freelancer/dashboard")
}

func TestLogin_Failure(t *testing.T) {
	env := newCliEnv(t)
	env.backend.AddUser("u@x.io", "pw", models.RoleClient)

	err := env.run("login", "--email", "u@x.io", "--password", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect password")
	assert.False(t, env.sess.Snapshot().Authenticated())
}

func TestRegister(t *testing.T) {
	term := newTerminal("f@x.io", "Ann", "Lee", "Freelancer", "password1", "password1")
	svc := &auth.ServiceMock{
		RegisterFunc: func(ctx context.Context, input auth.RegisterInput) (*auth.LoginResult, error) {
			return &auth.LoginResult{Email: input.Email, Role: models.RoleFreelancer, Dashboard: "/freelancer/dashboard"}, nil
		},
	}
	c := mockCli(term, svc)

	require.NoError(t, runCommands(c, "register"))

	require.Len(t, svc.RegisterCalls(), 1)
	assert.Equal(t, auth.RegisterInput{
		Email:    "f@x.io",
		Password: "password1",
		Role:     "freelancer",
		Name:     "Ann",
		Surname:  "Lee",
	}, svc.RegisterCalls()[0].Input)
	assert.Contains(t, term.String(), "✓ Registration successful!")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	term := newTerminal("f@x.io", "Ann", "Lee", "client", "password1", "password2")
	svc := &auth.ServiceMock{}
	c := mockCli(term, svc)

	err := runCommands(c, "register")
	assert.ErrorContains(t, err, "passwords do not match")
	assert.Empty(t, svc.RegisterCalls())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want string
	}{
		{"anonymous", session.Snapshot{State: session.StateAnonymous}, "Status: Not authenticated"},
		{"admin", session.Snapshot{State: session.StateAuthenticated, Role: models.RoleAdmin}, "/admin/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newTerminal()
			svc := &auth.ServiceMock{
				StatusFunc: func(ctx context.Context) (session.Snapshot, error) { return tt.snap, nil },
			}
			c := mockCli(term, svc)

			require.NoError(t, runCommands(c, "status"))
			assert.Contains(t, term.String(), tt.want)
		})
	}
}

func TestLogout(t *testing.T) {
	env := newCliEnv(t)
	env.loginAs(t, "u@x.io", models.RoleClient)

	require.NoError(t, env.run("logout"))

	assert.Equal(t, session.StateAnonymous, env.sess.Snapshot().State)
	assert.Contains(t, env.term.String(), "✓ Logout successful!")
	assert.Contains(t, env.term.String(), "Back to the start page")
}

func TestDashboard_RoutesByRole(t *testing.T) {
	tests := []struct {
		role models.Role
		want string
	}{
		{models.RoleAdmin, "=== Admin Dashboard ==="},
		{models.RoleClient, "=== Client Dashboard ==="},
		{models.RoleFreelancer, "=== Freelancer Dashboard ==="},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			env := newCliEnv(t)
			env.loginAs(t, "u@x.io", tt.role)

			require.NoError(t, env.run("dashboard"))
			assert.Contains(t, env.term.String(), tt.want)
			assert.Contains(t, env.status.String(), "Checking session...")
		})
	}
}

func TestDashboard_Anonymous(t *testing.T) {
	env := newCliEnv(t)

	err := env.run("dashboard")
	require.Error(t, err)
	assert.True(t, errors.Is(err, guard.ErrDenied))
	assert.Contains(t, env.term.String(), "Please log in")
	assert.NotContains(t, env.term.String(), "Dashboard ===")
}

func TestAdmin_DeniedForClient(t *testing.T) {
	env := newCliEnv(t)
	env.loginAs(t, "c@x.io", models.RoleClient)

	err := env.run("admin", "users")
	require.ErrorIs(t, err, guard.ErrDenied)
	assert.ErrorIs(t, err, api.ErrForbidden)
	assert.Contains(t, env.term.String(), "Back to the start page")
	assert.NotContains(t, env.term.String(), "=== Users ===")

	// недостаток прав не завершает сессию
	assert.True(t, env.sess.Snapshot().Authenticated())
}

func TestAdmin_Users(t *testing.T) {
	env := newCliEnv(t)
	env.loginAs(t, "admin@x.io", models.RoleAdmin)
	userID := env.backend.AddUser("u@x.io", "password1", models.RoleFreelancer)

	require.NoError(t, env.run("admin", "ban", fmt.Sprint(userID)))
	require.NoError(t, env.run("admin", "users"))

	out := env.term.String()
	assert.Contains(t, out, fmt.Sprintf("✓ User #%d banned", userID))
	assert.Contains(t, out, "u@x.io [banned]")
}

func TestBannedUserIsLoggedOut(t *testing.T) {
	env := newCliEnv(t)
	id := env.loginAs(t, "u@x.io", models.RoleFreelancer)
	env.backend.SetBanned(id, true)

	err := env.run("jobs", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrBanned)
	assert.Contains(t, env.term.String(), "You are banned!")
	assert.Equal(t, session.StateAnonymous, env.sess.Snapshot().State)
}

func TestExpiredTokenIsRefreshed(t *testing.T) {
	env := newCliEnv(t)
	env.loginAs(t, "u@x.io", models.RoleClient)
	env.backend.ExpireTokens()

	require.NoError(t, env.run("profile"))
	assert.Contains(t, env.term.String(), "Email:   u@x.io")
	assert.Equal(t, 1, env.backend.Hits("POST /refresh"))
	assert.True(t, env.sess.Snapshot().Authenticated())
}

func TestClientJobFlow(t *testing.T) {
	env := newCliEnv(t)
	env.loginAs(t, "c@x.io", models.RoleClient)
	skill := env.backend.AddSkill("Go")
	freelancer := env.backend.AddUser("f@x.io", "password1", models.RoleFreelancer)

	require.NoError(t, env.run("my-jobs", "create",
		"--title", "Go API", "--description", "Build it", "--amount", "900",
		"--skills", fmt.Sprint(skill)))
	assert.Contains(t, env.term.String(), "posted")

	// ошибки формы ловятся до обращения к серверу
	err := env.run("my-jobs", "create", "--title", "", "--description", "x", "--amount", "1")
	assert.ErrorContains(t, err, "title is required")

	jobs, err := env.cli.apiClient.ListClientJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	jobID := jobs[0].ID

	appID := env.backend.AddApplication(freelancer, jobID, "hire me", "cv.pdf", []byte("%PDF"))

	require.NoError(t, env.run("my-jobs", "review", fmt.Sprint(appID), "--status", "accepted"))
	require.NoError(t, env.run("my-jobs", "show", fmt.Sprint(jobID)))
	out := env.term.String()
	assert.Contains(t, out, "Status:   in-progress")
	assert.Contains(t, out, "cv.pdf")

	assert.Error(t, env.run("my-jobs", "edit", fmt.Sprint(jobID), "--title", "Go API v2"))
	job, err := env.cli.apiClient.GetClientJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "Go API", job.Title, "jobs in progress cannot be edited")

	require.NoError(t, env.run("my-jobs", "complete", fmt.Sprint(jobID)))
	assert.Contains(t, env.term.String(), "✓ Job completed")
}

func TestFreelancerApplyAndDownload(t *testing.T) {
	env := newCliEnv(t)
	clientID := env.backend.AddUser("c@x.io", "password1", models.RoleClient)
	env.loginAs(t, "f@x.io", models.RoleFreelancer)

	dir := t.TempDir()
	cv := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(cv, []byte("%PDF-1.7"), 0600))

	jobID := env.backend.AddJob(clientID, validJob())
	require.NoError(t, env.run("applications", "apply", fmt.Sprint(jobID), "--description", "hire me", "--file", cv))

	apps, err := env.cli.apiClient.ListApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Attachment)

	out := filepath.Join(dir, "downloads")
	require.NoError(t, env.run("attachment", fmt.Sprint(apps[0].Attachment.ID), "--out", out))

	data, err := os.ReadFile(filepath.Join(out, "cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestProfile_DeleteAccount(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		env := newCliEnv(t, "n")
		env.loginAs(t, "u@x.io", models.RoleClient)

		require.NoError(t, env.run("profile", "delete"))
		assert.Contains(t, env.term.String(), "Cancelled.")
		assert.True(t, env.sess.Snapshot().Authenticated())
	})

	t.Run("confirmed", func(t *testing.T) {
		env := newCliEnv(t, "yes")
		env.loginAs(t, "u@x.io", models.RoleClient)

		require.NoError(t, env.run("profile", "delete"))
		assert.Contains(t, env.term.String(), "✓ Account deleted")
		assert.Equal(t, session.StateAnonymous, env.sess.Snapshot().State)
	})
}

func TestProfile_UpdateFreelancer(t *testing.T) {
	env := newCliEnv(t)
	env.loginAs(t, "f@x.io", models.RoleFreelancer)
	skill := env.backend.AddSkill("Go")

	require.NoError(t, env.run("profile", "freelancer", "--title", "Gopher", "--rate", "55"))
	require.NoError(t, env.run("profile", "add-skill", fmt.Sprint(skill)))
	require.NoError(t, env.run("profile"))

	out := env.term.String()
	assert.Contains(t, out, "Title:   Gopher")
	assert.Contains(t, out, "Rate:    55.00/h")
	assert.Contains(t, out, "Go (#")

	err := env.run("profile", "freelancer")
	assert.ErrorContains(t, err, "nothing to update")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func validJob() pkgapi.JobRequest {
	return pkgapi.JobRequest{
		Title:        "Landing page",
		Description:  "Simple site",
		Type:         models.JobTypeOneTime,
		Rate:         models.RateFixed,
		Length:       "<1",
		HoursPerWeek: "<10",
		Amount:       300,
	}
}
