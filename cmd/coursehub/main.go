package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"coursehub_backend/client"

	"github.com/spf13/cobra"
)

const (
	defaultServer  = "http://localhost:8080"
	perUserDotFile = ".coursehubrc"
)

type settings struct {
	Server string `json:"server"`
	Token  string `json:"token"`
}

type app struct {
	out      io.Writer
	server   string
	token    string
	dotFile  string
	settings settings
}

func main() {
	if err := newRootCmd(os.Stdout, defaultDotFile()).Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultDotFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return perUserDotFile
	}
	return filepath.Join(home, perUserDotFile)
}

func newRootCmd(out io.Writer, dotFile string) *cobra.Command {
	a := &app{out: out, dotFile: dotFile}

	cmdRoot := &cobra.Command{
		Use:          "coursehub",
		Short:        "command-line interface to CourseHub",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadSettings(cmd)
		},
	}
	cmdRoot.SetOut(out)
	cmdRoot.SetErr(out)
	cmdRoot.PersistentFlags().StringVar(&a.server, "server", "", "server URL (env COURSEHUB_SERVER)")
	cmdRoot.PersistentFlags().StringVar(&a.token, "token", "", "access token (env COURSEHUB_TOKEN)")

	cmdRoot.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.coursesCmd(),
		a.lessonsCmd(),
		a.enrollCmd(),
		a.dashboardCmd(),
		a.whoamiCmd(),
	)
	return cmdRoot
}

// loadSettings resolves server and token: flag, then environment, then the dot file.
func (a *app) loadSettings(cmd *cobra.Command) error {
	if data, err := os.ReadFile(a.dotFile); err == nil {
		if err := json.Unmarshal(data, &a.settings); err != nil {
			return fmt.Errorf("parsing %s: %w", a.dotFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if !cmd.Flags().Changed("server") {
		a.server = firstNonEmpty(os.Getenv("COURSEHUB_SERVER"), a.settings.Server, defaultServer)
	}
	if !cmd.Flags().Changed("token") {
		a.token = firstNonEmpty(os.Getenv("COURSEHUB_TOKEN"), a.settings.Token)
	}
	return nil
}

func (a *app) saveSettings() error {
	a.settings.Server = a.server
	a.settings.Token = a.token
	data, err := json.MarshalIndent(a.settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.dotFile, append(data, '\n'), 0o600)
}

func (a *app) client() *client.Client {
	return client.New(a.server, a.token)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
