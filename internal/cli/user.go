package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/internal/route"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

func (a *app) newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show and edit user profiles",
	}
	cmd.AddCommand(a.newUserGetCmd(), a.newUserUpdateCmd())
	return cmd
}

func (a *app) newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "get <id>",
		Short:       "Show another user's public profile",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: route.User},
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client.GetUserInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(info, userInfoText(info))
		},
	}
}

func (a *app) newUserUpdateCmd() *cobra.Command {
	var in types.UserUpdate
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the signed-in user's profile",
		Long: "Update the signed-in user's profile. The API replaces every field, so\n" +
			"fields not given on the command line keep their current values.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRoute: route.User},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.client.GetSelfInfo(ctx)
			if err != nil {
				return err
			}
			update := types.UserUpdate{
				Nickname:  pick(cmd, "nickname", "nickname", in.Nickname, current),
				AvatarURL: pick(cmd, "avatar-url", "avatar_url", in.AvatarURL, current),
				Phone:     pick(cmd, "phone", "phone", in.Phone, current),
				Intro:     pick(cmd, "intro", "intro", in.Intro, current),
			}
			ack, err := a.client.UpdateUserInfo(ctx, update)
			if err != nil {
				return err
			}
			if _, err := a.client.GetSelfInfo(ctx); err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Profile updated"))
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Nickname, "nickname", "", "display name")
	f.StringVar(&in.AvatarURL, "avatar-url", "", "avatar image URL (see the upload command)")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&in.Intro, "intro", "", "short self-introduction")
	return cmd
}

// pick returns the flag value when the flag was given, else the current
// profile value under key.
func pick(cmd *cobra.Command, flag, key, value string, current types.UserInfo) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	s, _ := current[key].(string)
	return s
}

func (a *app) newUploadCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:         "upload <file>",
		Short:       "Upload an image and print its URL",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationRoute: route.CreateProduct},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open upload: %w", err)
			}
			defer f.Close()

			up, err := a.client.UploadFile(cmd.Context(), filepath.Base(args[0]), f, kind)
			if err != nil {
				return err
			}
			return a.emit(up, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, up.URL)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "upload category, for example product or avatar")
	return cmd
}
