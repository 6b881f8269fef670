package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/listfy/listfy/internal/config"
	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/logging"
	"github.com/listfy/listfy/internal/persist"
	"github.com/listfy/listfy/internal/product"
	"github.com/listfy/listfy/internal/store"
	"github.com/listfy/listfy/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "listfyd",
		Usage:   "Listfy companion daemon: product-lookup proxy and backup tool",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(cfg),
			lookupCmd(db, cfg),
			exportCmd(db, cfg),
			importCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the product-lookup proxy server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			logger := logging.Setup(cfg.LogLevel)

			client, err := product.NewClient(cfg.ProductAPIBaseURL, cfg.ProductTimeout(), cfg.UserAgent)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			srv := web.NewServer(client, logger, c.String("bind"), c.Int("port"))
			if err := web.Run(srv, logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// lookupCmd creates the lookup command. Resolution consults the local
// user-confirmed cache before going to the remote database, same as the
// app's scan flow.
func lookupCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Resolve a barcode (local cache first, then the product database)",
		ArgsUsage: "<barcode>",
		Action: func(c *cli.Context) error {
			barcode := c.Args().First()
			if !product.ValidBarcode(barcode) {
				return outputError(errors.NewValidation("barcode must be 8 to 13 digits"))
			}

			client, err := product.NewClient(cfg.ProductAPIBaseURL, cfg.ProductTimeout(), cfg.UserAgent)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			s, err := openStore(db, cfg)
			if err != nil {
				return outputError(err)
			}
			defer s.Flush()

			resolver := product.NewResolver(s, client, logging.Setup(cfg.LogLevel))

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ProductTimeout())
			defer cancel()

			resolution, err := resolver.Resolve(ctx, barcode)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(resolution)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all lists to a JSONL backup file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "listfy-backup.jsonl", Usage: "Output file path"},
		},
		Action: func(c *cli.Context) error {
			s, err := openStore(db, cfg)
			if err != nil {
				return outputError(err)
			}
			defer s.Flush()

			output, err := s.Export(c.String("output"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import lists from a JSONL backup file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Input file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|rename"},
		},
		Action: func(c *cli.Context) error {
			s, err := openStore(db, cfg)
			if err != nil {
				return outputError(err)
			}
			defer s.Flush()

			output, err := s.Import(c.String("input"), store.ImportMode(c.String("mode")))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// openStore hydrates a store over the shared database.
func openStore(db *sql.DB, cfg *config.Config) (*store.Store, error) {
	s := store.New(persist.New(db), cfg, logging.Setup(cfg.LogLevel))
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lerr, ok := err.(*errors.ListfyError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", lerr.Code, lerr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
