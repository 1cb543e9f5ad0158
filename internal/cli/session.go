package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/internal/route"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	username      string
	password      string
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account name (required)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (env BAZAAR_PASSWORD)")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("username")
}

// credentials resolves the password from flag, stdin, or environment.
func (f *credentialFlags) credentials(cmd *cobra.Command) (types.Credentials, error) {
	password := f.password
	if f.passwordStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return types.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		password = os.Getenv("BAZAAR_PASSWORD")
	}
	if password == "" {
		return types.Credentials{}, usageError{errors.New("password required: use --password, --password-stdin, or BAZAAR_PASSWORD")}
	}
	return types.Credentials{Username: f.username, Password: password}, nil
}

func (a *app) newLoginCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in and store the session token",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: types.RouteLogin},
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := f.credentials(cmd)
			if err != nil {
				return err
			}
			res, err := a.client.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return a.emit(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Signed in as %s\n", creds.Username)
				return err
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newRegisterCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create a marketplace account",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: route.Register},
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := f.credentials(cmd)
			if err != nil {
				return err
			}
			ack, err := a.client.Register(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Registered "+creds.Username))
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Sign out and forget the session token",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: route.User},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return systemError{fmt.Errorf("clear session: %w", err)}
			}
			return a.emit(map[string]bool{"authenticated": false}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Signed out")
				return err
			})
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the signed-in user's profile",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: route.User},
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client.GetSelfInfo(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(info, userInfoText(info))
		},
	}
}

// userInfoText prints a profile as sorted key: value lines.
func userInfoText(info types.UserInfo) func(io.Writer) error {
	return func(w io.Writer) error {
		for _, k := range slices.Sorted(maps.Keys(info)) {
			if _, err := fmt.Fprintf(w, "%s: %v\n", k, info[k]); err != nil {
				return err
			}
		}
		return nil
	}
}
