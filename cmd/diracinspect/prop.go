package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/qchemtools/diracinspect/internal/logger"
	"github.com/qchemtools/diracinspect/internal/report"
	"github.com/qchemtools/diracinspect/pkg/mdprop"
	"github.com/qchemtools/diracinspect/pkg/mrconee"
)

func propCmd() *cli.Command {
	return &cli.Command{
		Name:  "prop",
		Usage: "Decode a one-electron property file (MDPROP)",
		Flags: []cli.Flag{
			fileFlag("path to the property file"),
			jsonFlag(),
			&cli.Int64Flag{
				Name:        "spinors",
				Usage:       "spinor basis dimension",
				Destination: &numSpinors,
			},
			&cli.StringFlag{
				Name:        "header",
				Usage:       "header file to take the spinor dimension from",
				Destination: &headerPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			n := int(numSpinors)
			if n == 0 && headerPath != "" {
				hdr, err := mrconee.Read(headerPath)
				if err != nil {
					return fmt.Errorf("resolving spinor dimension: %w", err)
				}
				n = hdr.NumSpinors
				log.Debug("took spinor dimension from header file",
					"path", headerPath, "spinors", n)
			}
			if n <= 0 {
				return fmt.Errorf("the spinor dimension is not stored in property files; pass --spinors or --header")
			}

			ops, err := mdprop.Read(filePath, n)
			if err != nil {
				return err
			}
			log.Debug("decoded property file", "path", filePath, "operators", len(ops))

			if jsonOut {
				return report.PropertiesJSON(os.Stdout, ops)
			}
			return report.Properties(os.Stdout, ops)
		},
	}
}
