// Command admin manages the storage of the reference backend.
package main

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/trezcool/scuola/apps/api/di/dig"
	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/records"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var err error
	errAndDie(dig_container.New().Invoke(func(
		conf *core.Config,
		closeDB dig_container.Closer,
		validate *validator.Validate,
		translator ut.Translator,
		svc *records.Service,
	) {
		core.InitValidators(validate, translator)
		defer func() { errAndDie(closeDB()) }()

		cli := commandLine{conf: conf, svc: svc, out: os.Stdout}
		err = cli.run(os.Args)
	}))

	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
