package commands

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"io"
	"post-store/internal/api"
	"post-store/internal/logging"
	"post-store/internal/posts"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	OutputText = "text"
	OutputJson = "json"
)

const progressName = "posts"

// Runtime is what a command needs to run against the store.
type Runtime struct {
	Posts *posts.PostService
	// Ping checks the connection to the store, nil skips the check
	Ping func(ctx context.Context) error
	// Close releases the resources opened by the Bootstrap
	Close func() error
}

// Bootstrap builds the Runtime from the configuration file at configPath.
type Bootstrap func(configPath string) (*Runtime, error)

type options struct {
	bootstrap  Bootstrap
	configPath string
	output     string
}

func NewRootCmd(bootstrap Bootstrap) *cobra.Command {
	o := &options{bootstrap: bootstrap}

	cmd := &cobra.Command{
		Use:           "posts",
		Short:         "Store and query posts",
		Long:          "posts stores Post records with a bounded title and free-form content, and looks them up by id, title or content.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch o.output {
			case OutputText, OutputJson:
				return nil
			}
			return fmt.Errorf("unsupported output format %q (want %s or %s)", o.output, OutputText, OutputJson)
		},
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "config.json", "path to the JSON config file")
	cmd.PersistentFlags().StringVarP(&o.output, "output", "o", OutputText, "output format: text or json")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCreateCmd(o))
	cmd.AddCommand(newGetCmd(o))
	cmd.AddCommand(newUpdateCmd(o))
	cmd.AddCommand(newDeleteCmd(o))
	cmd.AddCommand(newFindCmd(o))
	cmd.AddCommand(newListCmd(o))
	cmd.AddCommand(newStatusCmd(o))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "posts %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// Execute runs cmd with ctx and args and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	if err := Run(ctx, cmd, args); err != nil {
		return 1
	}
	return 0
}

// Run executes cmd with ctx and args. A failure, including an argument or flag
// error rejected by cobra, is reported in the selected output format and returned.
func Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		report(cmd, args, err)
	}
	return err
}

func report(cmd *cobra.Command, args []string, err error) {
	if outputFormat(cmd, args) == OutputJson {
		_ = api.NewErrorResponse(err.Error()).Write(cmd.OutOrStdout())
		return
	}
	cmd.PrintErrln("Error:", err.Error())
}

// outputFormat also covers runs that failed before cobra parsed the flags.
func outputFormat(cmd *cobra.Command, args []string) string {
	if f := cmd.PersistentFlags().Lookup("output"); f != nil && f.Changed {
		return f.Value.String()
	}

	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	output := fs.StringP("output", "o", OutputText, "")
	_ = fs.Parse(args)

	return *output
}

// run bootstraps the runtime and calls fn under a fresh logging correlation id.
// The outcome is rendered in the selected output format.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, s *posts.PostService) (result, error)) error {
	return o.runWithRuntime(cmd, func(ctx context.Context, rt *Runtime) (result, error) {
		return fn(ctx, rt.Posts)
	})
}

// runWithRuntime turns a panic in fn into an error wrapping logging.ErrPanic.
func (o *options) runWithRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *Runtime) (result, error)) (err error) {
	rt, err := o.bootstrap(o.configPath)
	if err != nil {
		return err
	}
	defer func() {
		if rt.Close != nil {
			_ = rt.Close()
		}
	}()

	logging.StartProgress(progressName)
	defer logging.EndProgress(progressName)

	defer logging.RecoverPanic(rt.Posts, cmd.CommandPath(), &err)

	rt.Posts.LogDebugf(logging.GetLogType(progressName), "running %s", cmd.CommandPath())

	res, err := fn(cmd.Context(), rt)
	if err != nil {
		return err
	}

	return o.print(cmd.OutOrStdout(), res)
}

func (o *options) print(w io.Writer, res result) error {
	if o.output == OutputJson {
		return api.NewGenericResponse(api.Success, res.message, res.data).Write(w)
	}

	if res.text != nil {
		return res.text(w)
	}
	_, err := fmt.Fprintln(w, res.message)
	return err
}

// result is the outcome of a command: a message, the data rendered as JSON and an optional text renderer.
type result struct {
	message string
	data    any
	text    func(w io.Writer) error
}
