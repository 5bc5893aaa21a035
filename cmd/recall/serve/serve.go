// Package servecmder provides the serve command for running the Recall
// services: the call lifecycle API and the post-call worker pool.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/recallhq/recall/api"
	"github.com/recallhq/recall/pkg/briefing"
	"github.com/recallhq/recall/pkg/config"
	"github.com/recallhq/recall/pkg/dotdir"
	"github.com/recallhq/recall/pkg/eventstream"
	"github.com/recallhq/recall/pkg/eventstream/kafka"
	"github.com/recallhq/recall/pkg/eventstream/nop"
	"github.com/recallhq/recall/pkg/logger"
	"github.com/recallhq/recall/pkg/memstore"
	"github.com/recallhq/recall/pkg/metadata"
	"github.com/recallhq/recall/pkg/metadata/inmemory"
	"github.com/recallhq/recall/pkg/metadata/postgres"
	"github.com/recallhq/recall/pkg/metadata/sqlite"
	"github.com/recallhq/recall/pkg/metadata/webhook"
	"github.com/recallhq/recall/pkg/postcall"
)

// shutdownGrace bounds the final drain of interrupted sessions.
const shutdownGrace = 10 * time.Second

type ServeCommander struct {
	listen          string
	memoryBaseURL   string
	memoryAPIKey    string
	memoryTimeoutMS uint
	fetchLimit      uint
	metaProvider    string
	metaTarget      string
	eventsProvider  string
	eventsBrokers   string
	eventsTopic     string
	workers         uint
	queueSize       uint

	debug     bool
	configDir string
	logger    *slog.Logger
}

const serveLongDesc string = `Run the Recall services.

Starts the call lifecycle API the voice pipeline drives (call start, turn
events, call end) and the background workers that process finished calls:
extracting promises, goals, blockers, and progress, persisting a call memory,
recording call metadata, and emitting processed-call events.`

const serveShortDesc string = "Run the Recall lifecycle API and post-call workers"

var serveFlags = config.FlagSet{
	config.FlagListen: {
		Name: "listen", Shorthand: "l", ViperKey: "server.listen",
		Description: "Address for the lifecycle API to listen on",
	},
	config.FlagMemoryBaseURL: {
		Name: "memory-base-url", ViperKey: "memory.base_url",
		Description: "Remote memory service base URL",
	},
	config.FlagMemoryAPIKey: {
		Name: "memory-api-key", ViperKey: "memory.api_key",
		Description: "Remote memory service API key",
	},
	config.FlagMemoryTimeout: {
		Name: "memory-timeout-ms", ViperKey: "memory.timeout_ms",
		Description: "Hard timeout for memory service requests, in milliseconds",
	},
	config.FlagMemoryFetchLimit: {
		Name: "memory-fetch-limit", ViperKey: "memory.fetch_limit",
		Description: "Number of memories requested per briefing",
	},
	config.FlagMetadataProvider: {
		Name: "metadata-provider", ViperKey: "metadata.provider",
		Description: "Call metadata sink (inmemory, sqlite, postgres, webhook)",
	},
	config.FlagMetadataTarget: {
		Name: "metadata-target", ViperKey: "metadata.target",
		Description: "Metadata sink target (path, DSN, or URL)",
	},
	config.FlagEventsProvider: {
		Name: "events-provider", ViperKey: "events.provider",
		Description: "Event stream backend (nop, kafka)",
	},
	config.FlagEventsBrokers: {
		Name: "events-brokers", ViperKey: "events.brokers",
		Description: "Comma-separated Kafka broker list",
	},
	config.FlagEventsTopic: {
		Name: "events-topic", ViperKey: "events.topic",
		Description: "Kafka topic for processed-call events",
	},
	config.FlagWorkers: {
		Name: "workers", ViperKey: "pipeline.workers",
		Description: "Number of post-call workers",
	},
	config.FlagQueueSize: {
		Name: "queue-size", ViperKey: "pipeline.queue_size",
		Description: "Capacity of the post-call job queue",
	},
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagMemoryBaseURL,
	config.FlagMemoryAPIKey,
	config.FlagMemoryTimeout,
	config.FlagMemoryFetchLimit,
	config.FlagMetadataProvider,
	config.FlagMetadataTarget,
	config.FlagEventsProvider,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
	config.FlagWorkers,
	config.FlagQueueSize,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.applyViper(v)

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagMemoryBaseURL, &cmder.memoryBaseURL)
	config.AddStringFlag(cmd, serveFlags, config.FlagMemoryAPIKey, &cmder.memoryAPIKey)
	config.AddUintFlag(cmd, serveFlags, config.FlagMemoryTimeout, &cmder.memoryTimeoutMS)
	config.AddUintFlag(cmd, serveFlags, config.FlagMemoryFetchLimit, &cmder.fetchLimit)
	config.AddStringFlag(cmd, serveFlags, config.FlagMetadataProvider, &cmder.metaProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagMetadataTarget, &cmder.metaTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsTopic, &cmder.eventsTopic)
	config.AddUintFlag(cmd, serveFlags, config.FlagWorkers, &cmder.workers)
	config.AddUintFlag(cmd, serveFlags, config.FlagQueueSize, &cmder.queueSize)

	return cmd
}

// applyViper reads the resolved precedence chain (flag > env > file >
// default) back into the commander's fields.
func (c *ServeCommander) applyViper(v *viper.Viper) {
	c.listen = v.GetString("server.listen")
	c.memoryBaseURL = v.GetString("memory.base_url")
	c.memoryAPIKey = v.GetString("memory.api_key")
	c.memoryTimeoutMS = v.GetUint("memory.timeout_ms")
	c.fetchLimit = v.GetUint("memory.fetch_limit")
	c.metaProvider = v.GetString("metadata.provider")
	c.metaTarget = v.GetString("metadata.target")
	c.eventsProvider = v.GetString("events.provider")
	c.eventsBrokers = v.GetString("events.brokers")
	c.eventsTopic = v.GetString("events.topic")
	c.workers = v.GetUint("pipeline.workers")
	c.queueSize = v.GetUint("pipeline.queue_size")
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))

	store, err := c.newMemoryClient()
	if err != nil {
		return err
	}

	sink, err := c.newMetadataSink()
	if err != nil {
		return err
	}
	defer sink.Close()

	events, err := c.newEventPublisher()
	if err != nil {
		return err
	}
	defer events.Close()

	pool, err := postcall.NewPool(&postcall.Config{
		Processor:  postcall.NewProcessor(store, sink, c.logger),
		Events:     events,
		NumWorkers: c.workers,
		QueueSize:  c.queueSize,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}

	server := api.NewServer(
		api.Config{
			ListenAddr: c.listen,
			FetchLimit: int(c.fetchLimit),
		},
		briefing.NewAssembler(store, c.logger),
		pool,
		c.logger,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("lifecycle API error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		pool.Close()
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
	}

	// Stop accepting calls, drain interrupted sessions into the pool, then
	// let the workers finish. Transcripts captured so far are processed
	// even though their calls never ended normally.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		c.logger.Warn("shutting down lifecycle API", "err", err)
	}
	pool.Close()

	return nil
}

// newMemoryClient builds the shared memory service client. An empty base
// URL disables recall and persistence rather than failing startup.
func (c *ServeCommander) newMemoryClient() (*memstore.Client, error) {
	if c.memoryBaseURL == "" {
		c.logger.Warn("no memory service configured, briefings will be empty")
		return nil, nil
	}

	client, err := memstore.NewClient(memstore.Config{
		BaseURL: c.memoryBaseURL,
		APIKey:  c.memoryAPIKey,
		Timeout: time.Duration(c.memoryTimeoutMS) * time.Millisecond,
		Logger:  c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating memory client: %w", err)
	}

	c.logger.Info("using memory service", "base_url", c.memoryBaseURL)
	return client, nil
}

func (c *ServeCommander) newMetadataSink() (metadata.Sink, error) {
	switch c.metaProvider {
	case "sqlite", "":
		path := c.metaTarget
		if path == "" {
			target, err := dotdir.NewManager().Target(c.configDir)
			if err != nil || target == "" {
				c.logger.Warn("no .recall directory resolved, using in-memory metadata sink")
				return inmemory.NewSink(), nil
			}
			path = filepath.Join(target, "metadata.db")
		}
		sink, err := sqlite.NewSink(path)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite metadata sink: %w", err)
		}
		c.logger.Info("using sqlite metadata sink", "path", path)
		return sink, nil

	case "postgres":
		sink, err := postgres.NewSink(context.Background(), c.metaTarget)
		if err != nil {
			return nil, fmt.Errorf("creating postgres metadata sink: %w", err)
		}
		c.logger.Info("using postgres metadata sink")
		return sink, nil

	case "webhook":
		c.logger.Info("using webhook metadata sink", "url", c.metaTarget)
		return webhook.NewSink(c.metaTarget), nil

	case "inmemory":
		return inmemory.NewSink(), nil

	default:
		return nil, fmt.Errorf("unknown metadata provider: %q", c.metaProvider)
	}
}

func (c *ServeCommander) newEventPublisher() (eventstream.Publisher, error) {
	switch c.eventsProvider {
	case "kafka":
		if c.eventsBrokers == "" {
			return nil, fmt.Errorf("events.brokers required for the kafka provider")
		}
		brokers := strings.Split(c.eventsBrokers, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		c.logger.Info("publishing call events to kafka", "brokers", brokers, "topic", c.eventsTopic)
		return kafka.NewPublisher(brokers, c.eventsTopic), nil

	case "nop", "":
		return nop.NewPublisher(), nil

	default:
		return nil, fmt.Errorf("unknown events provider: %q", c.eventsProvider)
	}
}
