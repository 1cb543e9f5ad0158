package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/internal/paths"
	"github.com/mesh-intelligence/bazaar/internal/storage"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Initialize bazaar configuration and storage",
		Long:        "Create the configuration directory with a default config.yaml, then initialize the token storage backend.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSetup: "config"},
		RunE:        a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(cmd.Context(), a.config.Profile, a.config.Storage)
	if err != nil {
		return systemError{fmt.Errorf("initialize storage: %w", err)}
	}
	if err := store.Close(); err != nil {
		return systemError{fmt.Errorf("finalize storage: %w", err)}
	}

	result := map[string]string{
		"config_file": paths.ConfigFile(a.configDir),
		"backend":     a.config.Storage.Backend,
		"data_dir":    a.config.Storage.DataDir,
	}
	return a.emit(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Bazaar initialized successfully\nconfig: %s\nstorage: %s %s\n",
			result["config_file"], result["backend"], result["data_dir"])
		return err
	})
}
