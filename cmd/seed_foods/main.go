package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "seed_foods",
		Usage: "Import curated foods and recipes into the food tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Usage:    "Seed file path or s3://bucket/key URI",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "Write to this SQLite database instead of the configured Postgres",
			},
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Owner ID recorded on imported recipes",
				Value: systemOwner.String(),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Parse and validate the seed data without writing it",
			},
		},
		Action: runSeed,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
