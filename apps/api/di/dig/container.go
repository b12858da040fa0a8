package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/scuola/apps/api/echo"
	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/records"
	logsvc "github.com/trezcool/scuola/services/logger"
	"github.com/trezcool/scuola/storage/database"
	inmemdb "github.com/trezcool/scuola/storage/database/inmem"
	redisrepos "github.com/trezcool/scuola/storage/database/redis"
	sqlxrepos "github.com/trezcool/scuola/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// Closer releases the storage opened by newRepository.
type Closer func() error

// newRepository picks the storage: PostgreSQL when a DSN is set, then Redis, else in memory.
func newRepository(conf *core.Config, loggerParam DBLoggerParam) (records.Repository, Closer) {
	ctx := context.Background()
	dbLogger := loggerParam.Logger

	switch {
	case conf.Database.DSN != "":
		db, err := database.Open(ctx, conf)
		if err == nil {
			err = database.Migrate(ctx, db)
		}
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		dbLogger.Info(fmt.Sprintf("using %s storage", conf.Database.Engine))
		return sqlxrepos.NewRecordRepository(db), db.Close

	case conf.Redis.Addr != "":
		rdb, err := redisrepos.Open(ctx, conf)
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("setting up redis: %v", err), err)
		}
		dbLogger.Info("using redis storage")
		return redisrepos.NewRecordRepository(rdb), rdb.Close

	default:
		dbLogger.Info("using in-memory storage")
		return inmemdb.NewRecordRepository(inmemdb.Open()), func() error { return nil }
	}
}

func newValidator() *validator.Validate {
	return validator.New()
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepository))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(records.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
