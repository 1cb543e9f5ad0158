// Package cli implements the bazaar command-line interface.
//
// Every command that shows or changes marketplace state is a navigation:
// it carries a route name and the route guard runs before the command does.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/pkg/bazaar"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Command annotations read by the root pre-run hook.
const (
	// annotationRoute names the route a command navigates to.
	annotationRoute = "bazaar.route"
	// annotationSetup is "none" for commands that need no config, and
	// "config" for commands that need config but no client.
	annotationSetup = "bazaar.setup"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool
	ephemeral bool
}

// app is the state of one CLI invocation.
type app struct {
	flags  rootFlags
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configDir string
	config    types.Config
	log       *logrus.Logger
	client    *bazaar.Client
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

// NewRootCmd creates the top-level "bazaar" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdin, os.Stdout, os.Stderr).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bazaar",
		Short: "A command-line client for the second-hand marketplace",
		Long: "Bazaar signs in to the marketplace API, keeps the session token in local\n" +
			"storage, and exposes products, orders, favorites, comments, and messages.",
		Version:           bazaar.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.preRun,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory for the sqlite token store (default: platform data dir)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: from config, else warn)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&a.flags.ephemeral, "ephemeral", false, "keep the session in memory only")

	root.AddCommand(
		a.newVersionCmd(),
		a.newInitCmd(),
		a.newStatusCmd(),
		a.newLoginCmd(),
		a.newRegisterCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newUserCmd(),
		a.newUploadCmd(),
		a.newProductsCmd(),
		a.newBuyCmd(),
		a.newOrdersCmd(),
		a.newCategoriesCmd(),
		a.newFoldersCmd(),
		a.newFavoritesCmd(),
		a.newCommentsCmd(),
		a.newMessagesCmd(),
	)
	return root
}

// preRun loads configuration, opens the client, and runs the route guard,
// each only as far as the command needs.
func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	setup := cmd.Annotations[annotationSetup]
	if setup == "none" || isBuiltin(cmd) {
		return nil
	}
	if err := a.loadConfig(); err != nil {
		return err
	}
	if setup == "config" {
		return nil
	}

	if err := a.openClient(cmd.Context()); err != nil {
		return err
	}

	if name, ok := cmd.Annotations[annotationRoute]; ok {
		return a.guard(cmd.Context(), name)
	}
	return nil
}

// isBuiltin reports whether cmd is one of cobra's help or completion
// commands.
func isBuiltin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

// guard navigates to the command's route and turns a redirect into the
// matching user error.
func (a *app) guard(ctx context.Context, name string) error {
	landed, err := a.client.Navigator.Navigate(ctx, name)
	if err != nil {
		return err
	}
	if landed.Name == name {
		return nil
	}
	switch landed.Name {
	case types.RouteLogin:
		return fmt.Errorf("%w: run \"bazaar login\" first", types.ErrLoginRequired)
	case types.RouteHome:
		return fmt.Errorf("%w: run \"bazaar logout\" first", types.ErrAlreadyLoggedIn)
	default:
		return fmt.Errorf("redirected from %s to %s", name, landed.Name)
	}
}

// close releases the client, if one was opened.
func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// Execute runs the root command against the process arguments and returns
// the exit code.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes one CLI invocation and returns its exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil {
		err = errors.Join(err, systemError{fmt.Errorf("close storage: %w", cerr)})
	}
	if err == nil {
		return exitSuccess
	}
	if !alreadyNotified(err) {
		fmt.Fprintf(stderr, "error: %s\n", err)
	}
	return exitCode(err)
}
