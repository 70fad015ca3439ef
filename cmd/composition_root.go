package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "pos/internal/adapters/in/http"
	"pos/internal/adapters/out/broadcast"
	"pos/internal/adapters/out/postgres"
	"pos/internal/adapters/out/postgres/salesrepo"
	"pos/internal/adapters/out/printer"
	"pos/internal/adapters/out/rabbitmq"
	"pos/internal/adapters/out/refdata"
	"pos/internal/adapters/out/sqlite"
	"pos/internal/core/application/session"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/display"
	"pos/internal/core/ports"
	"pos/internal/jobs"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDB connects to postgres.
func OpenDB(cfg Config) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// CompositionRoot builds the object graph. Reference data is loaded on
// construction; outbound connections are opened by Connect.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	directory  *refdata.Directory

	rabbit    *rabbitmq.Client
	publisher *rabbitmq.Publisher
	spool     *sqlite.Spool
	printer   *printer.DirPrinter

	displays *broadcast.Channel
	ticker   *broadcast.Ticker
	cues     *broadcast.Cues

	clock  func() time.Time
	logger *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	directory, err := refdata.Load(cfg.RefDataPath)
	if err != nil {
		return nil, err
	}
	clock := time.Now
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:  directory,
		displays:   broadcast.NewChannel(),
		ticker:     broadcast.NewTicker(),
		cues:       broadcast.NewCues(clock),
		clock:      clock,
		logger:     logger,
	}, nil
}

// Connect opens the sales spool, the broker connection and, when configured,
// the ticket printer directory.
func (c *CompositionRoot) Connect() error {
	spool, err := sqlite.Open(c.cfg.SpoolPath)
	if err != nil {
		return err
	}
	c.spool = spool

	rabbit, err := rabbitmq.Dial(c.cfg.Rabbit())
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	c.rabbit = rabbit
	if err = rabbit.DeclareTopology(); err != nil {
		return fmt.Errorf("failed to declare rabbitmq topology: %w", err)
	}
	c.publisher = rabbitmq.NewPublisher(rabbit, c.clock)

	if c.cfg.PrinterDir != "" {
		p, err := printer.NewDirPrinter(c.cfg.PrinterDir)
		if err != nil {
			return err
		}
		c.printer = p
	}
	return nil
}

func (c *CompositionRoot) Close() {
	if c.rabbit != nil {
		c.rabbit.Close()
	}
	if c.spool != nil {
		if err := c.spool.Close(); err != nil {
			c.logger.Warn("failed to close sales spool", "error", err)
		}
	}
}

func (c *CompositionRoot) Directory() *refdata.Directory {
	return c.directory
}

func (c *CompositionRoot) OrderRepository() ports.OrderRepository {
	return c.uowFactory.Create().OrderRepository()
}

func (c *CompositionRoot) TicketRepository() ports.TicketRepository {
	return c.uowFactory.Create().TicketRepository()
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrderCommandHandler(f, c.directory, c.ticketPublisher(), c.cues, c.clock, c.logger)
}

func (c *CompositionRoot) CreateFinalizeSaleCommandHandler() commands.FinalizeSaleCommandHandler {
	var f commands.SettlementUoWFactory = FuncSettlementUoWFactory(func() commands.SettlementUoW {
		return c.uowFactory.Create()
	})
	return commands.NewFinalizeSaleCommandHandler(f, c.directory, salesrepo.NewGormSalesHistory(c.gormDB), c.spool,
		c.publisher, c.cues, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAdvanceTicketCommandHandler() commands.AdvanceTicketCommandHandler {
	return commands.NewAdvanceTicketCommandHandler(c.ticketUoWFactory())
}

func (c *CompositionRoot) CreateCheckTicketUnitCommandHandler() commands.CheckTicketUnitCommandHandler {
	return commands.NewCheckTicketUnitCommandHandler(c.ticketUoWFactory())
}

func (c *CompositionRoot) CreateRetrySpooledSalesCommandHandler() commands.RetrySpooledSalesCommandHandler {
	return commands.NewRetrySpooledSalesCommandHandler(c.spool, salesrepo.NewGormSalesHistory(c.gormDB), c.logger)
}

func (c *CompositionRoot) CreateGetKitchenBoardQueryHandler() queries.GetKitchenBoardQueryHandler {
	return queries.NewGetKitchenBoardQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenOrderByTableQueryHandler() queries.GetOpenOrderByTableQueryHandler {
	return queries.NewGetOpenOrderByTableQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSalesHistoryQueryHandler() queries.GetSalesHistoryQueryHandler {
	return queries.NewGetSalesHistoryQueryHandler(c.gormDB)
}

// CreateSessionRegistry gives every terminal its own controller. Cart
// projections go to the local websocket displays and to the broker.
func (c *CompositionRoot) CreateSessionRegistry() *session.Registry {
	dispatcher := c.CreateDispatchOrderCommandHandler()
	finalizer := c.CreateFinalizeSaleCommandHandler()
	canceller := c.CreateCancelOrderCommandHandler()
	displays := DisplayFanout{c.displays, c.publisher}

	return session.NewRegistry(func(terminal string) *session.Controller {
		return session.NewController(terminal, c.directory, c.OrderRepository(), dispatcher, finalizer, canceller,
			displays, c.clock, c.logger)
	})
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateSessionRegistry(),
		c.directory,
		c.OrderRepository(),
		c.CreateAdvanceTicketCommandHandler(),
		c.CreateCheckTicketUnitCommandHandler(),
		c.CreateGetKitchenBoardQueryHandler(),
		c.CreateGetOpenOrderByTableQueryHandler(),
		c.CreateGetSalesHistoryQueryHandler(),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateStreams() *httpin.Streams {
	return httpin.NewStreams(c.displays, c.ticker, c.cues, c.CreateGetKitchenBoardQueryHandler(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.ticker, c.CreateRetrySpooledSalesCommandHandler(), c.clock, c.logger)
}

func (c *CompositionRoot) ticketPublisher() ports.TicketPublisher {
	if c.printer == nil {
		return c.publisher
	}
	return printer.Fanout{c.publisher, c.printer}
}

func (c *CompositionRoot) ticketUoWFactory() commands.TicketUoWFactory {
	return FuncTicketUoWFactory(func() commands.TicketUoW {
		return c.uowFactory.Create()
	})
}

// DisplayFanout publishes a projection to every target.
type DisplayFanout []ports.DisplayPublisher

func (f DisplayFanout) Publish(ctx context.Context, projection display.Projection) error {
	var errList []error
	for _, target := range f {
		errList = append(errList, target.Publish(ctx, projection))
	}
	return errors.Join(errList...)
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncTicketUoWFactory func() commands.TicketUoW

func (f FuncTicketUoWFactory) Create() commands.TicketUoW {
	return f()
}
