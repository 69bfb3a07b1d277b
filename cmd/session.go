package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/upca/personnel-console/internal/client"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/session"
	"github.com/upca/personnel-console/pkg/logger"
)

var (
	apiURL        string
	sessionFile   string
	loginEmail    string
	loginPassword string
	screenPath    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the console API and remember the identity on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newSessionManager(cmd.ErrOrStderr())
		if err := signIn(cmd, mgr); err != nil {
			return err
		}
		printSession(cmd.OutOrStdout(), mgr)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Close the session remembered on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newSessionManager(cmd.ErrOrStderr())
		mgr.Restore(cmd.Context())
		return mgr.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity remembered on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newSessionManager(cmd.ErrOrStderr())
		if !mgr.Restore(cmd.Context()) {
			return session.ErrNotAuthenticated
		}
		printSession(cmd.OutOrStdout(), mgr)
		return nil
	},
}

var canCmd = &cobra.Command{
	Use:   "can [module] [action]",
	Short: "Decide whether the session may open a screen or perform an action",
	Long: `Run the route guard against the current session.
Pass --email to sign in first, otherwise the remembered identity is used
and only role-level grants apply. Exits non-zero unless the decision is render.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if screenPath != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newSessionManager(cmd.ErrOrStderr())
		if loginEmail != "" {
			if err := signIn(cmd, mgr); err != nil {
				return err
			}
		} else {
			mgr.Restore(cmd.Context())
		}

		var decision session.Decision
		if screenPath != "" {
			decision = session.GuardScreen(mgr, screenPath)
		} else {
			req, err := parseRequirement(args[0], args[1])
			if err != nil {
				return err
			}
			decision = session.Guard(mgr, req)
		}

		fmt.Fprintln(cmd.OutOrStdout(), decision)
		if decision != session.Render {
			return fmt.Errorf("guard decision: %s", decision)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, logoutCmd, whoamiCmd, canCmd} {
		c.Flags().StringVar(&apiURL, "api-url", "", "console API base URL (default from config)")
		c.Flags().StringVar(&sessionFile, "session-file", "", "where the session is remembered")
	}
	for _, c := range []*cobra.Command{loginCmd, canCmd} {
		c.Flags().StringVar(&loginEmail, "email", "", "account email")
		c.Flags().StringVar(&loginPassword, "password", "", "account password (default $UPCA_PASSWORD)")
	}
	canCmd.Flags().StringVar(&screenPath, "screen", "", "guard a console screen by path instead, e.g. /novedades")
	_ = loginCmd.MarkFlagRequired("email")
}

func newSessionManager(out io.Writer) *session.Manager {
	url, timeout, path := clientSettings()
	log := logger.LoggerWrapper()
	notifier := session.NotifierFunc(func(level session.Level, message string) {
		fmt.Fprintf(out, "[%s] %s\n", level, message)
	})
	return session.NewManager(client.New(url, timeout, log), session.NewFileStore(path), notifier, log)
}

// clientSettings resolves flags first, then config, then defaults. A
// missing or invalid server config does not block the client commands.
func clientSettings() (url string, timeout time.Duration, path string) {
	url, timeout, path = "http://localhost:8080", 10*time.Second, ""
	if cfg, err := readConfig(configPath); err == nil {
		if cfg.Client.APIURL != "" {
			url = cfg.Client.APIURL
		}
		if cfg.Client.Timeout > 0 {
			timeout = cfg.Client.Timeout
		}
		path = cfg.Client.SessionFile
	}
	if apiURL != "" {
		url = apiURL
	}
	if sessionFile != "" {
		path = sessionFile
	}
	if path == "" {
		path = defaultSessionFile()
	}
	return url, timeout, path
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "upca-console", "session.json")
}

func signIn(cmd *cobra.Command, mgr *session.Manager) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("UPCA_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required (--password or UPCA_PASSWORD)")
	}
	return mgr.Login(cmd.Context(), loginEmail, password)
}

func parseRequirement(module, action string) (session.Requirement, error) {
	m, err := access.ParseModule(module)
	if err != nil {
		return session.Requirement{}, err
	}
	a, err := access.ParseAction(action)
	if err != nil {
		return session.Requirement{}, err
	}
	return session.Requirement{Module: m, Action: a}, nil
}

func printSession(out io.Writer, mgr *session.Manager) {
	s, ok := mgr.Current()
	if !ok {
		fmt.Fprintln(out, "not signed in")
		return
	}
	fmt.Fprintf(out, "%s (%s)\n", s.User.Email, s.User.Role)
	for _, m := range access.Modules {
		var granted []string
		for _, a := range access.Actions {
			if s.Can(m, a) {
				granted = append(granted, a.String())
			}
		}
		if len(granted) == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-14s %s\n", m, strings.Join(granted, ","))
	}
}
