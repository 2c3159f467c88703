package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/xmlsearch/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a commented sample configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "XML file path or http(s) URL to put in the sample",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(os.Stdout, c.String("config"), c.String("source"), c.Bool("force"))
		},
	}
}

// initConfig writes the sample config to configPath, refusing to replace
// an existing file unless force is set.
func initConfig(w io.Writer, configPath, source string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", configPath)
	}
	cfg := config.GetDefaultConfig()
	cfg.Source = source
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(w, "Configuration written to %s\n", configPath)
	if source == "" {
		fmt.Fprintln(w, "Edit source and field_map before running search or web.")
	}
	return nil
}
