package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bazaar/internal/route"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

func (a *app) newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write product reviews",
	}

	var rate int
	publish := &cobra.Command{
		Use:         "publish <product-id> <text>...",
		Short:       "Review a product",
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{annotationRoute: route.Product},
		RunE: func(cmd *cobra.Command, args []string) error {
			if rate < 0 || rate > 5 {
				return usageError{fmt.Errorf("rating %d out of range 1-5", rate)}
			}
			ack, err := a.client.PublishComment(cmd.Context(), types.CommentInput{
				ProductID: types.ID(args[0]),
				Content:   strings.Join(args[1:], " "),
				Rate:      rate,
			})
			if err != nil {
				return err
			}
			return a.emit(ack, ackText(ack, "Comment published"))
		},
	}
	publish.Flags().IntVar(&rate, "rate", 0, "rating from 1 to 5 (server default 5)")

	cmd.AddCommand(
		&cobra.Command{
			Use:         "list <product-id>",
			Short:       "List the reviews of a product",
			Args:        cobra.ExactArgs(1),
			Annotations: map[string]string{annotationRoute: route.Product},
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := a.client.GetComments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.emit(comments, func(w io.Writer) error {
					if len(comments) == 0 {
						_, err := fmt.Fprintln(w, "No comments")
						return err
					}
					rows := make([][]string, len(comments))
					for i, c := range comments {
						rows[i] = []string{c.ID.String(), c.Nickname, fmt.Sprintf("%d/5", c.Rating), c.Time, c.Content}
					}
					return writeTable(w, []string{"ID", "USER", "RATING", "TIME", "COMMENT"}, rows)
				})
			},
		},
		publish,
		&cobra.Command{
			Use:         "delete <comment-id>",
			Short:       "Delete one of your reviews",
			Args:        cobra.ExactArgs(1),
			Annotations: map[string]string{annotationRoute: route.Product},
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.DeleteComment(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Comment deleted"))
			},
		},
	)
	return cmd
}

func (a *app) newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Read and send direct messages",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "list",
			Short:       "List your conversations",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationRoute: route.Messages},
			RunE: func(cmd *cobra.Command, args []string) error {
				msgs, err := a.client.GetMsgs(cmd.Context())
				if err != nil {
					return err
				}
				return a.emit(msgs, func(w io.Writer) error {
					if len(msgs) == 0 {
						_, err := fmt.Fprintln(w, "No messages")
						return err
					}
					rows := make([][]string, len(msgs))
					for i, m := range msgs {
						from := m.SenderNickname
						if m.IsMe {
							from = "me"
						} else if from == "" {
							from = m.SenderID.String()
						}
						rows[i] = []string{m.Time, from, m.ReceiverID.String(), m.Content}
					}
					return writeTable(w, []string{"TIME", "FROM", "TO", "MESSAGE"}, rows)
				})
			},
		},
		&cobra.Command{
			Use:         "send <user-id> <text>...",
			Short:       "Send a direct message",
			Args:        cobra.MinimumNArgs(2),
			Annotations: map[string]string{annotationRoute: route.Messages},
			RunE: func(cmd *cobra.Command, args []string) error {
				ack, err := a.client.SendMsg(cmd.Context(), types.MessageInput{
					ReceiverID: types.ID(args[0]),
					Content:    strings.Join(args[1:], " "),
				})
				if err != nil {
					return err
				}
				return a.emit(ack, ackText(ack, "Message sent"))
			},
		},
	)
	return cmd
}
