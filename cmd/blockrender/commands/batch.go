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

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"seehuhn.de/go/blockrender"
	"seehuhn.de/go/blockrender/internal/config"
	"seehuhn.de/go/blockrender/resource"
)

var (
	batchAll       bool
	batchNamespace string
	batchWorkers   int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render many blocks concurrently",
	Long: `Render the blocks listed in the configuration file into output_dir.

With --all, every block state found in the archives is rendered in its
default state instead.  Rendering continues after errors; the command
fails if any block could not be rendered.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchAll, "all", false, "render every block state in the archives")
	batchCmd.Flags().StringVar(&batchNamespace, "namespace", "", "with --all, only render blocks of this namespace")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "number of concurrent renders (default from config)")
}

// batchResult is the outcome of one render job.
type batchResult struct {
	block config.Block
	path  string
	err   error
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	blocks := cfg.Blocks
	if batchAll {
		keys, err := s.Pack().List(batchNamespace, resource.BlockStates)
		if err != nil {
			return err
		}
		blocks = blocks[:0:0]
		for _, k := range keys {
			blocks = append(blocks, config.Block{ID: k.ID()})
		}
	}
	if len(blocks) == 0 {
		return fmt.Errorf("no blocks to render (list them in the config file or use --all)")
	}

	workers := cfg.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	printStep("rendering %d blocks with %d workers", len(blocks), workers)
	start := time.Now()
	failed := 0
	for res := range renderAll(ctx, s, blocks, workers) {
		if res.err != nil {
			failed++
			printFailure("%s: %v", res.block.ID, res.err)
			continue
		}
		printSuccess("%s → %s", res.block.ID, res.path)
	}

	log.WithFields(logrus.Fields{
		"blocks":   len(blocks),
		"failed":   failed,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("batch finished")

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d blocks failed", failed, len(blocks))
	}
	return nil
}

// renderAll renders the blocks using a fixed number of workers which share
// the session.  The results are delivered in completion order; the channel
// is closed once all workers have finished.
func renderAll(ctx context.Context, s *blockrender.Session, blocks []config.Block, workers int) <-chan batchResult {
	jobs := make(chan config.Block)
	results := make(chan batchResult)

	var wg sync.WaitGroup
	for range max(workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				results <- renderOne(s, b)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, b := range blocks {
			select {
			case jobs <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

func renderOne(s *blockrender.Session, b config.Block) batchResult {
	res := batchResult{block: b, path: cfg.OutputPath(b)}
	img, err := s.RenderBlock(b.ID, b.Properties, cfg.BlockSize(b), cfg.RenderOptions(b.ID))
	if err != nil {
		res.err = err
		return res
	}
	res.err = writePNG(res.path, img)
	return res
}
