package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"post-store/internal/commands"
	"post-store/internal/config"
	"post-store/internal/database"
	"post-store/internal/environment"
	"post-store/internal/logging"
	"post-store/internal/models"
	"post-store/internal/posts"
	"syscall"
)

func main() {
	ctx, stop := SetupCloseHandler()
	code := commands.Execute(ctx, commands.NewRootCmd(bootstrap), os.Args[1:])
	stop()

	os.Exit(code)
}

func bootstrap(configPath string) (runtime *commands.Runtime, err error) {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.InitLogging(c)
	defer logging.RecoverPanic(logger, "bootstrap", &err)

	runtime, err = injectDependencies(c, logger)
	if err != nil {
		logger.LogErrorf(logging.GetLogTypeInitialization(), "injecting dependencies failed: %s", err.Error())
		return nil, err
	}

	return runtime, nil
}

func injectDependencies(config *config.Configuration, logger *logging.DefaultLogger) (*commands.Runtime, error) {
	policy, err := models.ParseBoundedFieldPolicy(config.Posts.BoundedFieldPolicy)
	if err != nil {
		return nil, err
	}

	db, err := database.InitDatabase(config, logger)
	if err != nil {
		logger.LogError(logging.GetLogTypeInitialization(), "error initializing database: ", err)
		return nil, err
	}

	env := environment.FromDatabase(db, logger)

	postService := &posts.PostService{
		Env:    env,
		Policy: policy,
	}

	return &commands.Runtime{
		Posts: postService,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Close: func() error {
			_ = logger.Logger.Sync()
			return database.Close(db)
		},
	}, nil
}

// SetupCloseHandler returns a context that is cancelled on SIGHUP, SIGINT, SIGTERM or SIGQUIT.
func SetupCloseHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		select {
		case <-c:
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Cleaning up...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(c)
		cancel()
	}
}
