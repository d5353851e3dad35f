package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v2"

	raytrace "github.com/bathytrace/raytrace"
	"github.com/bathytrace/raytrace/search"
)

// traceFile processes a single ping-set JSON file: trace every ping and
// write the resulting RayTraceBatch as a TileDB array under outdirUri, or
// alongside the ping set when outdirUri is empty.
// Grounded on the teacher's convert_gsf (cmd/main.go), minus the
// GSF-specific attitude/SVP/beam group assembly since a ping set already
// carries its own SVP and rotation matrices.
func traceFile(pingSetUri, configUri, outdirUri string) error {
	dir, _ := filepath.Split(pingSetUri)
	if outdirUri == "" {
		outdirUri = dir
	}

	log.Println("Processing ping set:", pingSetUri)
	batch, err := raytrace.TraceBatchFile(pingSetUri, configUri, outdirUri)
	if err != nil {
		return err
	}

	log.Println("Finished ping set:", pingSetUri, "rows:", len(batch.X))

	return nil
}

// traceDirectory finds every ping-set JSON file under uri and traces each
// one concurrently using a bounded worker pool. Grounded on the teacher's
// convert_gsf_list (cmd/main.go): a fixed pool sized to 2*NumCPU, cancelled
// on SIGINT.
func traceDirectory(uri, configUri, outdirUri string) error {
	log.Println("Searching uri:", uri)
	items := search.FindPingSets(uri, configUri)
	log.Println("Number of ping sets to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	errs := raytrace.TraceBatchFiles(ctx, items, configUri, outdirUri, n)

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			log.Println("Error tracing", items[i], ":", err)
		}
	}
	log.Println("Finished; failures:", failed, "of", len(items))

	return nil
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "trace",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ping-set-uri",
						Usage: "URI or pathname to a ping-set JSON file.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return traceFile(cCtx.String("ping-set-uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"))
				},
			},
			{
				Name: "trace-batch",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing ping-set JSON files.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return traceDirectory(cCtx.String("uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
