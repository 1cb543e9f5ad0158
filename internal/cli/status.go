package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// statusReport is what the status command prints.
type statusReport struct {
	BaseAddress   string     `json:"base_address"`
	Profile       string     `json:"profile"`
	Backend       string     `json:"backend"`
	DataDir       string     `json:"data_dir,omitempty"`
	Authenticated bool       `json:"authenticated"`
	User          string     `json:"user,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured API and whether a user is signed in",
		Args:  cobra.NoArgs,
		RunE:  a.runStatus,
	}
}

func (a *app) runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess := a.client.Session

	report := statusReport{
		BaseAddress:   a.config.BaseAddress,
		Profile:       a.config.Profile,
		Backend:       a.config.Storage.Backend,
		DataDir:       a.config.Storage.DataDir,
		Authenticated: sess.IsAuthenticated(ctx),
		User:          sess.UserInfo(ctx).Name(),
	}
	if claims, ok := sess.Claims(ctx); ok && !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt
		report.ExpiresAt = &exp
		report.Expired = claims.Expired(time.Now())
	}

	return a.emit(report, func(w io.Writer) error {
		fmt.Fprintf(w, "api:      %s\n", report.BaseAddress)
		fmt.Fprintf(w, "profile:  %s\n", report.Profile)
		fmt.Fprintf(w, "storage:  %s %s\n", report.Backend, report.DataDir)
		switch {
		case !report.Authenticated:
			fmt.Fprintln(w, "session:  signed out")
		case report.User != "":
			fmt.Fprintf(w, "session:  signed in as %s\n", report.User)
		default:
			fmt.Fprintln(w, "session:  signed in")
		}
		if report.ExpiresAt != nil {
			fmt.Fprintf(w, "expires:  %s\n", report.ExpiresAt.Format(time.RFC3339))
		}
		return nil
	})
}
