package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fenixcs/fieldtracker/docs" // connecting generated Swagger files
	authz "github.com/fenixcs/fieldtracker/internal/authorization"
	"github.com/fenixcs/fieldtracker/internal/bdkeeper"
	"github.com/fenixcs/fieldtracker/internal/config"
	"github.com/fenixcs/fieldtracker/internal/controllers"
	"github.com/fenixcs/fieldtracker/internal/events"
	"github.com/fenixcs/fieldtracker/internal/fileregistry"
	"github.com/fenixcs/fieldtracker/internal/filestore"
	"github.com/fenixcs/fieldtracker/internal/geoloc"
	"github.com/fenixcs/fieldtracker/internal/logger"
	"github.com/fenixcs/fieldtracker/internal/middleware"
	"github.com/fenixcs/fieldtracker/internal/sessioncache"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"github.com/fenixcs/fieldtracker/internal/workerpool"
	"github.com/fenixcs/fieldtracker/internal/worksession"
)

type Server struct {
	srv     *http.Server
	ctx     context.Context
	tracker *geoloc.Tracker
	sweeper *sweeper
}

// NewServer creates a new Server instance with the provided context
func NewServer(ctx context.Context) *Server {
	server := new(Server)
	server.ctx = ctx
	return server
}

// Serve starts the server and handles signal interruption for graceful shutdown
func (server *Server) Serve() {
	// create and initialize a new option instance
	option := config.NewOptions()
	option.ParseFlags()

	// get a new logger
	nLogger, err := logger.NewLogger(option.LogLevel())
	if err != nil {
		log.Fatalln(err)
	}

	// initialize the keeper instance
	keeper := initializeKeeper(option.DataBaseDSN, nLogger)
	if keeper != nil {
		defer keeper.Close()
	}

	// initialize the storage instance
	memoryStorage := initializeStorage(keeper, nLogger)

	// create a new workerpool for concurrency task processing
	var allTask []*workerpool.Task
	pool := initializeWorkerPool(allTask, option, nLogger)

	// redis-backed cache for persisted login sessions
	cache := sessioncache.NewCache(option.RedisAddr, nLogger)
	if cache != nil {
		defer cache.Close()
	}

	// create a new NewJWTAuthz for employee authorization
	auth := initializeAuthz(memoryStorage, cache, option, nLogger)

	// local object store and the file registry on top of it
	objects, err := filestore.NewLocalStore(option.FileStoreRoot())
	if err != nil {
		log.Fatalln(err)
	}
	registry := fileregistry.NewRegistry(memoryStorage, objects, nLogger)

	// kafka publisher for session lifecycle events, disabled without brokers
	publisher := events.NewPublisher(option.KafkaBrokers, option.KafkaTopic, pool, nLogger)
	if publisher != nil {
		defer publisher.Close()
	}

	// the work session state machine
	lifecycle := worksession.NewManager(memoryStorage, registry, publisher, nLogger)

	// position pings land in the reporter; the tracker samples it on a timer
	reporter := geoloc.NewReporter()
	server.tracker = geoloc.NewTracker(memoryStorage, lifecycle, reporter, nLogger, option.SampleInterval)

	// create a new controller for creating outgoing requests
	extcontr := initializeExtController(option, nLogger)

	// create a new controller to process incoming requests
	basecontr := controllers.NewBaseController(memoryStorage, lifecycle, registry, objects,
		extcontr, reporter, cache, nLogger, auth)

	// get a middleware for logging requests
	reqLog := middleware.NewReqLog(nLogger)

	// start the worker pool in the background
	go pool.RunBackground()

	server.tracker.Start()

	server.sweeper = newSweeper(memoryStorage, nLogger, option.SessionSweepInterval)
	server.sweeper.Start()

	// create router and mount routes
	r := chi.NewRouter()
	r.Use(reqLog.RequestLogger)
	r.Mount("/", basecontr.Route())

	// Add route for Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// configure and start the server
	server.srv = startServer(r, option.RunAddr())

	// Create a channel to receive interrupt signals (e.g., CTRL+C)
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)

	// Block execution until a signal is received
	<-stopChan

	// Perform graceful server shutdown
	server.Shutdown()
}

// initializeKeeper initializes a BDKeeper instance
func initializeKeeper(dataBaseDSN func() string, logger *logger.Logger) *bdkeeper.BDKeeper {
	if dataBaseDSN() == "" {
		logger.Warn("DataBaseDSN is empty, running on memory storage only")
		return nil
	}

	return bdkeeper.NewBDKeeper(dataBaseDSN, logger)
}

// initializeStorage initializes a MemoryStorage instance
func initializeStorage(keeper *bdkeeper.BDKeeper, logger *logger.Logger) *storage.MemoryStorage {
	if keeper == nil {
		return storage.NewMemoryStorage(nil, logger)
	}

	return storage.NewMemoryStorage(keeper, logger)
}

// initializeWorkerPool initializes a worker pool with the provided tasks and options
func initializeWorkerPool(allTask []*workerpool.Task, option *config.Options, logger *logger.Logger) *workerpool.Pool {
	return workerpool.NewPool(allTask, option.Concurrency, logger)
}

// initializeAuthz initializes a JWTAuthz instance for employee authorization
func initializeAuthz(storage *storage.MemoryStorage, cache *sessioncache.Cache,
	option *config.Options, logger *logger.Logger,
) *authz.JWTAuthz {
	return authz.NewJWTAuthz(storage, cache, option.JWTSigningKey(), logger)
}

// initializeExtController initializes an ExtController instance
func initializeExtController(option *config.Options, logger *logger.Logger) *controllers.ExtController {
	return controllers.NewExtController(option.WeatherAddress, option.GeocodingAddress, logger)
}

// startServer configures and starts an HTTP server with the provided router and address
func startServer(router chi.Router, address string) *http.Server {
	const (
		oneMegabyte = 1 << 20
		readTimeout = 3 * time.Second
	)

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
		MaxHeaderBytes:    oneMegabyte, // 1 MB
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln(err)
		}
	}()

	return server
}

// Shutdown gracefully shuts down the server
func (server *Server) Shutdown() {
	log.Printf("server stopped")

	if server.tracker != nil {
		server.tracker.Stop()
	}
	if server.sweeper != nil {
		server.sweeper.Stop()
	}

	const shutdownTimeout = 5 * time.Second
	ctxShutDown, cancel := context.WithTimeout(server.ctx, shutdownTimeout)

	defer cancel()

	if server.srv != nil {
		if err := server.srv.Shutdown(ctxShutDown); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("server Shutdown Failed:%s", err)
			}
		}
	}

	log.Println("server exited properly")
}
