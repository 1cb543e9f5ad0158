package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/pkg/bazaar"
)

const modulePath = "github.com/mesh-intelligence/bazaar"

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the bazaar version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSetup: "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{"version": bazaar.Version, "module": modulePath}
			return a.emit(info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "bazaar v%s\nmodule: %s\n", bazaar.Version, modulePath)
				return err
			})
		},
	}
}
