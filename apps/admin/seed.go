package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core/school"
)

// seedOrder inserts the referenced records before the records referencing them.
var seedOrder = []string{school.RoomsPath, school.TeachersPath, school.StudentsPath, school.CoursesPath, school.EnrollmentsPath}

// seed loads every collection of file, keeping the fixture ids.
func (cli *commandLine) seed(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "reading %s", file)
	}
	var fixture map[string][]json.RawMessage
	if err = json.Unmarshal(data, &fixture); err != nil {
		return errors.Wrapf(err, "decoding %s", file)
	}

	ctx := context.Background()
	for _, coll := range seedOrder {
		for i, body := range fixture[coll] {
			if _, err = cli.svc.Restore(ctx, coll, body); err != nil {
				return errors.Wrapf(err, "%s[%d]", coll, i)
			}
		}
		if n := len(fixture[coll]); n > 0 {
			fmt.Fprintf(cli.out, "%s: %d records\n", coll, n)
		}
	}
	return nil
}
