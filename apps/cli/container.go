package main

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/notify"
	"github.com/trezcool/scuola/core/resource"
	"github.com/trezcool/scuola/core/school"
	logsvc "github.com/trezcool/scuola/services/logger"
	restsvc "github.com/trezcool/scuola/services/rest"
)

// newLogger writes to stderr so that diagnostics never mix with the rendered views.
func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stderr, "SCUOLA : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newTransport(conf *core.Config, logger core.Logger) resource.Transport {
	return restsvc.NewClient(conf, logger)
}

func newToasts(conf *core.Config) *notify.Channel {
	return notify.NewChannel(conf.Client.ToastDuration)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newTerminalCommandLine(
	conf *core.Config,
	logger core.Logger,
	caches *school.Caches,
	toasts *notify.Channel,
	validate *validator.Validate,
	translator ut.Translator,
) *commandLine {
	return newCommandLine(conf, logger, caches, toasts, validate, translator, os.Stdin, os.Stdout)
}

// newContainer returns the dependency injection dig.Container of the front-end.
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newTransport))
	must(c.Provide(school.NewCaches))
	must(c.Provide(newToasts))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newTerminalCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
