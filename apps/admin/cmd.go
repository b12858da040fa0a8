package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/records"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf *core.Config
	svc  *records.Service
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate              - create the records table of the configured database")
	fmt.Fprintln(cli.out, "  seed -i db.json      - load a json-server style fixture into the configured storage")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedCmd.SetOutput(cli.out)
	seedFile := seedCmd.String("i", "", "The JSON file to load: {\"aule\": [...], \"corsi\": [...], ...}.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return errHelp
			}
			return err
		}
		if *seedFile == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
