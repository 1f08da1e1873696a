package application

import (
	"context"
	"embed"
	"io/fs"
	"reflect"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/eventbus"
)

// Module is a self-registering feature unit: it wires its services,
// controllers and schema into the application on startup.
type Module interface {
	Name() string
	Register(app Application) error
}

// Controller exposes a module's HTTP surface on the shared router.
type Controller interface {
	Register(r *mux.Router)
}

type Application interface {
	DB() *pgxpool.Pool
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus

	RegisterModule(modules ...Module) error
	RegisterServices(services ...any)
	RegisterControllers(controllers ...Controller)
	RegisterSchemaFS(schema *embed.FS)

	Service(service any) any
	Controllers() []Controller
	ApplySchemas(ctx context.Context) error
}

func New(pool *pgxpool.Pool, log *logrus.Logger) Application {
	return &application{
		pool:     pool,
		log:      log,
		bus:      eventbus.NewEventPublisher(log),
		services: map[reflect.Type]any{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	log         *logrus.Logger
	bus         eventbus.EventBus
	services    map[reflect.Type]any
	controllers []Controller
	schemas     []*embed.FS
}

func (a *application) DB() *pgxpool.Pool                 { return a.pool }
func (a *application) Logger() *logrus.Logger            { return a.log }
func (a *application) EventPublisher() eventbus.EventBus { return a.bus }

func (a *application) RegisterModule(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(a); err != nil {
			return err
		}
		a.log.WithField("module", m.Name()).Info("module registered")
	}
	return nil
}

func (a *application) RegisterServices(services ...any) {
	for _, s := range services {
		a.services[serviceType(s)] = s
	}
}

// serviceType keys services by their struct type so lookup works with a zero
// value while registration passes the pointer.
func serviceType(s any) reflect.Type {
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) RegisterSchemaFS(schema *embed.FS) {
	a.schemas = append(a.schemas, schema)
}

// Service returns the registered service matching the type of the given
// zero value, or nil when none was registered.
func (a *application) Service(service any) any {
	return a.services[serviceType(service)]
}

func (a *application) Controllers() []Controller {
	return a.controllers
}

// ApplySchemas executes every registered embedded schema file. Statements are
// idempotent (CREATE TABLE IF NOT EXISTS) so this is safe on every boot.
func (a *application) ApplySchemas(ctx context.Context) error {
	for _, schema := range a.schemas {
		err := fs.WalkDir(schema, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".sql") {
				return nil
			}
			content, err := schema.ReadFile(path)
			if err != nil {
				return err
			}
			if _, err := a.pool.Exec(ctx, string(content)); err != nil {
				return err
			}
			a.log.WithField("schema", path).Info("schema applied")
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
