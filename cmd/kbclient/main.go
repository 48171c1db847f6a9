package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ebarkhatov/kbkeeper/internal/adapter"
	"github.com/ebarkhatov/kbkeeper/internal/auth"
	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
	"github.com/ebarkhatov/kbkeeper/internal/repository"
	"github.com/ebarkhatov/kbkeeper/internal/store"
	"github.com/ebarkhatov/kbkeeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("kb-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	topics := repository.NewTopicRepository(serverAdapter, storages.Topics, log)
	mode := topics.Probe(ctx)
	log.Info().Str("mode", mode.String()).Msg("topic repository ready")

	manager, err := auth.NewManager(ctx, storages, cfg.Auth, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create auth manager")
	}
	defer manager.Close()

	manager.OnSessionExpired(func() {
		log.Info().Msg("session expired, please log in again")
	})

	if user := manager.RestoreSession(ctx); user.ID != 0 {
		log.Info().Str("username", user.Username).Msg("restored remembered session")
	}

	revalidate := auth.NewRevalidateJob(manager)
	revalidate.Start(ctx, cfg.Workers.RevalidateInterval)
	defer revalidate.Stop()

	printOverview(ctx, topics)

	<-ctx.Done()
	log.Info().Msg("client shut down")
}

func printOverview(ctx context.Context, topics *repository.TopicRepository) {
	for _, topic := range topics.GetTopics(ctx, models.TopicFilter{}) {
		fmt.Printf("#%d [%s] %s: %s\n", topic.ID, topic.Category, topic.Title, topic.Preview)
	}

	stats, err := topics.GetCategoryStats(ctx)
	if err != nil {
		return
	}
	for _, stat := range stats {
		fmt.Printf("%s: %d topics\n", stat.Category, stat.Count)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
