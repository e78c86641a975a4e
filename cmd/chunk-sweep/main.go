package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"flyover/internal/chunk"
)

func main() {
	steps := flag.Int("steps", 480, "frames to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	resolution := flag.Int("resolution", 17, "vertices per chunk side")
	pathList := flag.String("paths", "line,circle,teleport", "comma separated flight paths")
	tracePath := flag.String("trace", "", "write per-frame records as zstd JSON lines to this file")
	verbose := flag.Bool("v", false, "log manager warnings to stderr")
	flag.Parse()

	base := chunk.DefaultConfig()
	base.Resolution = *resolution
	base.Clouds = 0
	base.Orbs = 0

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	radiusOptions := []int{1, 2, 3, 4}
	marginOptions := []int{0, 1, 2}
	capOptions := []int{0, 2, 4, 8}

	var sets []paramSet
	for _, name := range strings.Split(*pathList, ",") {
		name = strings.TrimSpace(name)
		if _, ok := paths[name]; !ok {
			log.Fatalf("unknown path %q", name)
		}
		for _, radius := range radiusOptions {
			for _, margin := range marginOptions {
				for _, c := range capOptions {
					sets = append(sets, paramSet{path: name, radius: radius, margin: margin, cap: c})
				}
			}
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d frames)\n", len(sets), *workers, *steps)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(base, params, *steps, *tracePath != "", logger)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.leaked > 0 || res.overflow > 0 || res.closeErr != nil {
			fmt.Printf("Problem: leaked=%d overflow=%d close=%v with %s\n", res.leaked, res.overflow, res.closeErr, res.params)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].convergence != all[j].convergence {
			return all[i].convergence < all[j].convergence
		}
		return all[i].created < all[j].created
	})
	elapsed := time.Since(start)

	fmt.Printf("\nFastest 10 by convergence (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 10; i++ {
		res := all[i]
		fmt.Printf("%2d) converge=%d peak=%d created=%d evicted=%d failures=%d %s\n",
			i+1, res.convergence, res.peakResident, res.created, res.evicted, res.failures, res.params)
	}

	if *tracePath != "" {
		f, err := os.Create(*tracePath)
		if err != nil {
			log.Fatal(err)
		}
		if err := writeTrace(f, all); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nTrace written to %s\n", *tracePath)
	}
}
