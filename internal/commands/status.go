package commands

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"io"
)

type storeStatus struct {
	Status string `json:"status"`
	Posts  int64  `json:"posts"`
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the post store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runWithRuntime(cmd, func(ctx context.Context, rt *Runtime) (result, error) {
				if rt.Ping != nil {
					if err := rt.Ping(ctx); err != nil {
						return result{}, err
					}
				}

				var count int64
				if err := rt.Posts.CountPosts(ctx, &count); err != nil {
					return result{}, fmt.Errorf("error counting posts: %w", err)
				}

				status := storeStatus{Status: "running", Posts: count}
				return result{
					message: "running",
					data:    status,
					text: func(w io.Writer) error {
						_, err := fmt.Fprintf(w, "running (%d post(s))\n", status.Posts)
						return err
					},
				}, nil
			})
		},
	}
}
