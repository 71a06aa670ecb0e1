/* main.go
 * The "main" method for running the JCup bot and status server. Configuration is read from .env, see utils.go
 * Usage: go run . -mode=both -autostart=false
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"jcup-bot/api/api"
	"jcup-bot/api/external"
	"jcup-bot/api/store"
	"jcup-bot/bot"
	"jcup-bot/web"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//Flags
	modePtr := flag.String("mode", "both", "What to run: bot, web or both")
	autostartPtr := flag.String("autostart", "false", "Start a tournament on launch: takes true or false as argument")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*modePtr, *autostartPtr, logger); err != nil {
		logger.Fatal("jcup bot exited with error", zap.Error(err))
	}
}

// run wires the components together and blocks until an interrupt is received
func run(mode string, autostart string, logger *zap.Logger) error {
	if mode != "bot" && mode != "web" && mode != "both" {
		return fmt.Errorf("invalid mode %q: should be bot, web or both", mode)
	}
	start, err := convertStrToBool(autostart)
	if err != nil {
		return fmt.Errorf("invalid autostart flag: %w", err)
	}

	// A missing .env is fine, the variables may come from the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return err
	}

	client, err := external.NewClient(cfg.BaseURL, cfg.Timeout, cfg.RequestRate)
	if err != nil {
		return err
	}

	apiCfg := api.Config{
		Transport:  client,
		Logger:     logger.Named("api"),
		AllowRetry: cfg.AllowRetry,
	}
	if cfg.MongoURI != "" {
		s, err := store.NewStore(cfg.MongoDB, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
		defer func() {
			if err := s.Client.Disconnect(context.TODO()); err != nil {
				logger.Error("failed to disconnect from mongo", zap.Error(err))
			}
		}()
		apiCfg.Store = s
	} else {
		logger.Info("MONGO_URI not set, tournament history is disabled")
	}

	apiPtr, err := api.NewAPI(apiCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize API: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if start {
		if _, err := apiPtr.Start(ctx); err != nil {
			logger.Warn("failed to start tournament on launch", zap.Error(err))
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	if mode == "bot" || mode == "both" {
		b, err := bot.NewBot(cfg.DiscordToken, apiPtr, logger.Named("bot"))
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Run(ctx); err != nil {
				errs <- fmt.Errorf("bot: %w", err)
				stop()
			}
		}()
	}

	if mode == "web" || mode == "both" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := web.Start(ctx, web.Config{Addr: cfg.HTTPAddr, API: apiPtr, Logger: logger.Named("web")}); err != nil {
				errs <- fmt.Errorf("web: %w", err)
				stop()
			}
		}()
	}

	wg.Wait()
	close(errs)
	return errors.Join(collect(errs)...)
}

func collect(errs <-chan error) []error {
	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return all
}
