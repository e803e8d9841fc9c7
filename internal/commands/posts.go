package commands

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"post-store/internal/api"
	"post-store/internal/models"
	"post-store/internal/posts"
	"post-store/internal/utils"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

const listContentWidth = 60

func newCreateCmd(o *options) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, s *posts.PostService) (result, error) {
				post, err := s.Create(ctx, title, content)
				if err != nil {
					return result{}, err
				}
				return postResult(fmt.Sprintf("created post %d", post.ID), post), nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title (at most 100 characters)")
	cmd.Flags().StringVar(&content, "content", "", "post content")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newGetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseId(args[0])
			if err != nil {
				return err
			}

			return o.run(cmd, func(ctx context.Context, s *posts.PostService) (result, error) {
				post, err := s.Get(ctx, id)
				if err != nil {
					return result{}, err
				}
				return postResult(fmt.Sprintf("post %d", post.ID), post), nil
			})
		},
	}
}

func newUpdateCmd(o *options) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <id> [title=<title>] [content=<content>]",
		Short: "Change the title and/or content of a post",
		Long: "Applies key=value pairs to the post with the given id. Keys are title and content.\n" +
			"Alternatively --data takes a JSON object of the form {\"data\": {\"title\": \"...\"}}.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseId(args[0])
			if err != nil {
				return err
			}

			patch, err := parsePatch(args[1:], data)
			if err != nil {
				return err
			}

			return o.run(cmd, func(ctx context.Context, s *posts.PostService) (result, error) {
				post, err := s.Update(ctx, id, patch)
				if err != nil {
					return result{}, err
				}
				return postResult(fmt.Sprintf("updated post %d", post.ID), post), nil
			})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON request with the fields to change")
	return cmd
}

// parsePatch builds a patch from key=value arguments or a JSON request, never both.
func parsePatch(pairs []string, data string) (posts.PostPatch, error) {
	values := make(map[string]any)

	switch {
	case len(pairs) > 0 && data != "":
		return posts.PostPatch{}, fmt.Errorf("use either key=value arguments or --data")
	case data != "":
		var req api.GenericRequest
		if err := req.Load([]byte(data)); err != nil {
			return posts.PostPatch{}, fmt.Errorf("invalid --data: %w", err)
		}
		values = req.Data
	default:
		for _, pair := range pairs {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return posts.PostPatch{}, fmt.Errorf("invalid argument %q: want key=value", pair)
			}
			values[strings.ToLower(key)] = value
		}
	}

	patch, err := posts.DecodePatch(values)
	if err != nil {
		return posts.PostPatch{}, err
	}
	if patch.IsEmpty() {
		return posts.PostPatch{}, fmt.Errorf("nothing to update: provide title and/or content")
	}

	return patch, nil
}

func newDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseId(args[0])
			if err != nil {
				return err
			}

			return o.run(cmd, func(ctx context.Context, s *posts.PostService) (result, error) {
				if err := s.Delete(ctx, id); err != nil {
					return result{}, err
				}
				return result{message: fmt.Sprintf("deleted post %d", id), data: map[string]any{"id": id}}, nil
			})
		},
	}
}

func newFindCmd(o *options) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find posts by exact title or content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byTitle := cmd.Flags().Changed("title")

			return o.run(cmd, func(ctx context.Context, s *posts.PostService) (result, error) {
				var found []models.Post
				var err error
				if byTitle {
					found, err = s.FindByTitle(ctx, title)
				} else {
					found, err = s.FindByContent(ctx, content)
				}
				if err != nil {
					return result{}, err
				}
				return postsResult(fmt.Sprintf("found %d post(s)", len(found)), found, found), nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "exact title to look up")
	cmd.Flags().StringVar(&content, "content", "", "exact content to look up")
	cmd.MarkFlagsMutuallyExclusive("title", "content")
	cmd.MarkFlagsOneRequired("title", "content")
	return cmd
}

func newListCmd(o *options) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, s *posts.PostService) (result, error) {
				p, err := s.List(ctx, page, pageSize)
				if err != nil {
					return result{}, err
				}
				message := fmt.Sprintf("page %d of %d (%d post(s) total)", p.Pageable.PageNumber+1, p.TotalPages, p.TotalElements)
				return postsResult(message, p.Content, p), nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", posts.DefaultPageSize, "posts per page")
	return cmd
}

func postResult(message string, post models.Post) result {
	return result{
		message: message,
		data:    post,
		text: func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "id:      %d\ntitle:   %s\ncontent: %s\n", post.ID, post.Title, post.Content)
			return err
		},
	}
}

func postsResult(message string, list []models.Post, data any) result {
	return result{
		message: message,
		data:    data,
		text: func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCONTENT")
			for _, p := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Title, abbreviate(p.Content, listContentWidth))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(w, message)
			return err
		},
	}
}

// abbreviate shortens s to at most n runes on a single line.
func abbreviate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
