package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/dvsilva/shortr/internal/analytics"
	analyticsstore "github.com/dvsilva/shortr/internal/analytics/store"
	"github.com/dvsilva/shortr/internal/enrich"
	"github.com/dvsilva/shortr/internal/handlers"
	"github.com/dvsilva/shortr/internal/health"
	"github.com/dvsilva/shortr/internal/messaging"
	"github.com/dvsilva/shortr/internal/middleware"
	"github.com/dvsilva/shortr/internal/ratelimit"
	"github.com/dvsilva/shortr/internal/shorturl"
	"github.com/dvsilva/shortr/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options is the externally configurable surface of the service.
type Options struct {
	Port            int    `default:"8888"                  help:"Port to listen on"                                          short:"p"`
	BaseURL         string `help:"Externally visible base URL for short links (default http://localhost:<port>/url)"`
	RedisAddr       string `default:"localhost:6379"        help:"Redis server address"                                       short:"r"`
	PostgresDSN     string `help:"Postgres DSN for the analytics archive; events are logged when empty"`
	RateLimitMax    int64  `default:"10"                    help:"Max shorten requests per client per window"`
	RateLimitWindow int    `default:"60"                    help:"Rate limit window in seconds"`
	CodeLength      int    `default:"6"                     help:"Length of generated short codes"`
	CodeSource      string `default:"uuid"                  help:"Generated code source: uuid or nanoid"`
	GeoEndpoint     string `default:"http://ip-api.com/json" help:"IP geolocation endpoint"`
	LogFormat       string `default:"console"               help:"Log output format: console or json"`
}

// ShortLinkBase returns the prefix full short URLs are built from.
func (o *Options) ShortLinkBase() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d/url", o.Port)
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// StorePackage provides the Redis-backed record store and binds it to the
// repository and rate-limit store interfaces.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.RedisStore, error) {
		return store.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (shorturl.Repository, error) {
		return do.MustInvoke[*store.RedisStore](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return do.MustInvoke[*store.RedisStore](i), nil
	})
}

// RateLimitPackage provides the fixed-window limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)

		return ratelimit.NewFixedWindowLimiter(
			do.MustInvoke[ratelimit.Store](i),
			options.RateLimitMax,
			time.Duration(options.RateLimitWindow)*time.Second,
		), nil
	})
}

// ShortenerPackage provides code generation, allocation, visit recording, and
// the shortening service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shorturl.CodeGenerator, error) {
		options := do.MustInvoke[*Options](i)

		if options.CodeSource == "nanoid" {
			generate, err := nanoid.Standard(options.CodeLength)
			if err != nil {
				return nil, err
			}

			return shorturl.CodeGenerator(generate), nil
		}

		return shorturl.UUIDGenerator(options.CodeLength), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shorturl.Allocator, error) {
		return shorturl.NewAllocator(
			do.MustInvoke[shorturl.Repository](i),
			do.MustInvoke[shorturl.CodeGenerator](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (shorturl.Locator, error) {
		options := do.MustInvoke[*Options](i)

		return enrich.NewIPAPILocator(options.GeoEndpoint, do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shorturl.VisitRecorder, error) {
		return shorturl.NewVisitRecorder(
			do.MustInvoke[shorturl.Repository](i),
			do.MustInvoke[shorturl.Locator](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shorturl.Service, error) {
		options := do.MustInvoke[*Options](i)

		return shorturl.NewService(
			do.MustInvoke[shorturl.Repository](i),
			do.MustInvoke[ratelimit.Limiter](i),
			do.MustInvoke[*shorturl.Allocator](i),
			do.MustInvoke[*shorturl.VisitRecorder](i),
			options.ShortLinkBase(),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the Redis Streams publisher and the typed
// publish functions for analytics events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLCreatedEvent](group.Publisher(), analytics.TopicURLCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLVisitedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLVisitedEvent](group.Publisher(), analytics.TopicURLVisited), nil
	})
}

// HTTPPackage provides the router and API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("Shortr", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shorturl.Service](i),
			do.MustInvoke[messaging.Publish[analytics.URLCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.URLVisitedEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		)
		handlers.RegisterRoutes(api, urlHandler)

		healthHandler := health.NewHandler(health.NewRedisChecker(do.MustInvoke[*redis.Client](i)))
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}

// AnalyticsStorePackage provides the archive the consumer writes events to:
// Postgres when a DSN is configured, a logging no-op otherwise.
func AnalyticsStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.PostgresDSN == "" {
			logger.Info("no postgres dsn configured, analytics events will be logged only")

			return analyticsstore.NewNoop(logger), nil
		}

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, err
		}

		return store.NewPostgresStore(pool), nil
	})
}

// ConsumerGroupPackage provides the Redis Streams subscriber and the consumer
// group archiving analytics events.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "analytics-archiver",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		archiver := analytics.NewArchiver(do.MustInvoke[analytics.Store](i), logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicURLCreated, archiver.HandleURLCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicURLVisited, archiver.HandleURLVisited, logger))

		return group, nil
	})
}
