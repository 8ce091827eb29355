// seehuhn.de/go/blockrender - render voxel blocks from game resource packs
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package commands implements the subcommands of the blockrender tool.
package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"seehuhn.de/go/blockrender"
	"seehuhn.de/go/blockrender/internal/config"
)

var (
	configPath string
	archives   []string
	logLevel   string

	// set up by the persistent pre-run hook
	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "blockrender",
	Short: "Render isometric images of blocks from game resource archives",
	Long: `blockrender draws isometric pictures of voxel-game blocks, using the
block states, models and textures found in the game's client archive and
in resource packs.

Archives are given with --archive (repeatable, later archives override
earlier ones) or in the configuration file.

Examples:
  # Render a block to stone.png
  blockrender render stone -a client.jar -o stone.png

  # Render all blocks listed in a configuration file
  blockrender batch --config blockrender.yml`,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the command given on the command line.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().StringArrayVarP(&archives, "archive", "a", nil, "resource archive or directory (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: error, warn, info, debug or trace")

	rootCmd.AddCommand(renderCmd, batchCmd, resolveCmd, listCmd)
}

// setup loads the configuration and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}
	if len(archives) > 0 {
		cfg.Archives = archives
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

// openSession opens the configured archives.
func openSession() (*blockrender.Session, error) {
	if len(cfg.Archives) == 0 {
		return nil, fmt.Errorf("no resource archives given (use --archive or the config file)")
	}
	log.WithField("archives", cfg.Archives).Debug("opening archives")
	return blockrender.Open(cfg.Archives, &blockrender.SessionOptions{Logger: log})
}
