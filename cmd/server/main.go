package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shipment-tracker/internal/adapter/cache"
	"github.com/example/shipment-tracker/internal/adapter/catalog"
	"github.com/example/shipment-tracker/internal/adapter/httpapi"
	"github.com/example/shipment-tracker/internal/adapter/natsstan"
	"github.com/example/shipment-tracker/internal/adapter/registry"
	"github.com/example/shipment-tracker/internal/adapter/repo"
	"github.com/example/shipment-tracker/internal/adapter/ws"
	"github.com/example/shipment-tracker/internal/config"
	"github.com/example/shipment-tracker/internal/domain"
	"github.com/example/shipment-tracker/internal/usecase"
)

type App struct {
	cfg      config.Config
	store    *cache.RecordStore
	registry *registry.Registry
	upload   usecase.UploadOrder
	server   *httpapi.Server
	closers  []func()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer app.Close()

	if cfg.NATSEnabled {
		sub := &natsstan.Subscriber{
			ClusterID: cfg.STANClusterID,
			ClientID:  cfg.STANClientID,
			URL:       cfg.NATSURL,
			Subject:   cfg.STANSubject,
			Durable:   cfg.STANDurable,
			Permanent: usecase.IsClientError,
		}
		ingest := usecase.ProcessIncomingOrder{Upload: app.upload}
		if err := sub.Subscribe(ctx, ingest.Execute); err != nil {
			log.Printf("stan subscribe: %v", err)
		} else {
			log.Printf("consuming orders from %s", cfg.STANSubject)
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: app.server.Router}
	go func() {
		log.Printf("http listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}

func newApp(ctx context.Context, cfg config.Config) (*App, error) {
	cat, err := catalog.LoadDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg}
	snapshots, err := app.openRepo(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.store = cache.NewRecordStore(snapshots, cfg.SnapshotName)
	app.registry = registry.New()
	deriver := usecase.Deriver{Catalog: cat, Location: cfg.Location()}

	boot := usecase.Bootstrap{Repo: snapshots, Store: app.store, Deriver: deriver, SnapshotName: cfg.SnapshotName}
	source, err := boot.Execute(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	log.Printf("loaded %d shipping records (%s, %s backend)", app.store.Len(), source, cfg.StoreBackend)

	app.upload = usecase.UploadOrder{
		Deriver:    deriver,
		Store:      app.store,
		Dispatcher: usecase.Dispatcher{Registry: app.registry},
	}
	app.server = httpapi.NewServer(httpapi.Deps{
		Auth:        usecase.Authenticate{Catalog: cat},
		List:        usecase.ListRecords{Store: app.store},
		Search:      usecase.SearchRecords{Store: app.store},
		Upload:      app.upload,
		Subscribers: ws.NewHandler(app.registry, cfg.SubscriberQueueSize),
		StaticDir:   cfg.StaticDir,
	})
	return app, nil
}

func (a *App) openRepo(ctx context.Context) (domain.SnapshotRepository, error) {
	switch a.cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
		return repo.NewPostgresSnapshotRepo(pool), nil
	case config.BackendSQLite:
		r, err := repo.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = r.Close() })
		return r, nil
	default:
		return repo.NewFileSnapshotRepo(a.cfg.DataDir), nil
	}
}

// Close дожидается начатых сохранений и освобождает ресурсы хранилища.
func (a *App) Close() {
	if a.store != nil {
		a.store.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
