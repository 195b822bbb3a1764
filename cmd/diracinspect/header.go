package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/qchemtools/diracinspect/internal/logger"
	"github.com/qchemtools/diracinspect/internal/report"
	"github.com/qchemtools/diracinspect/pkg/mrconee"
)

func headerCmd() *cli.Command {
	return &cli.Command{
		Name:  "header",
		Usage: "Decode a one-electron header file (MRCONEE)",
		Flags: []cli.Flag{
			fileFlag("path to the header file"),
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			d, err := mrconee.Read(filePath)
			if err != nil {
				return err
			}
			log.Debug("decoded header file",
				"path", filePath, "int_width", d.IntWidth, "spinors", d.NumSpinors)

			if jsonOut {
				return report.HeaderJSON(os.Stdout, d)
			}
			return report.Header(os.Stdout, d)
		},
	}
}
