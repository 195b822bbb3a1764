package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/qchemtools/diracinspect/internal/logger"
	"github.com/qchemtools/diracinspect/internal/report"
	"github.com/qchemtools/diracinspect/pkg/mdcint"
)

func twoelCmd() *cli.Command {
	return &cli.Command{
		Name:  "twoel",
		Usage: "Summarize a two-electron integral file (MDCINT)",
		Flags: []cli.Flag{
			fileFlag("path to the integral file"),
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			d, err := mdcint.Read(filePath)
			if err != nil {
				return err
			}
			log.Debug("decoded integral file",
				"path", filePath, "kramers_pairs", d.NumKramersPairs, "integrals", d.TotalIntegrals)

			if jsonOut {
				return report.TwoElectronJSON(os.Stdout, d)
			}
			return report.TwoElectron(os.Stdout, d)
		},
	}
}
