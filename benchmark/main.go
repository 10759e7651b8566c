// Package main provides a performance benchmarking tool for the sitepulse CLI.
// It measures execution times across sites and command types, running each
// test multiple times, treating the first successful stored run as cold and
// averaging the rest as warm, generating CSV output for performance analysis
// and documentation.
//
// Prerequisites:
// - sitepulse binary installed and available in PATH
// - Clears the local SQLite report store before the stored phase
//
// Usage: go run benchmark/main.go [site-url...]
//
//	site-url: Sites to benchmark; defaults to a built-in list
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// benchmarkPeriod pins every run to one period so warm runs hit the
// same stored report.
const benchmarkPeriod = "2026-07"

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Site        string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Workers     int
	NoStoreRuns int
	StoreRuns   int
	TestSites   []string
}

func main() {
	// Parse command line arguments
	sites := []string{
		"https://example.com",
		"https://blog.example.org",
		"https://shop.example.net",
	}
	if len(os.Args) > 1 {
		sites = os.Args[1:]
	}

	config := BenchmarkConfig{
		Timeout:     2 * time.Minute,
		Workers:     4,
		NoStoreRuns: 3,
		StoreRuns:   4,
		TestSites:   sites,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the store using sitepulse store clear
	fmt.Printf("Clearing store...\n")
	clearCmd := exec.Command("sitepulse", "store", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear store: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Store cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the sitepulse binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("sitepulse"); err != nil {
		return fmt.Errorf("sitepulse binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured sites
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sites, %v timeout, %d workers, no-store: %d runs, store: %d runs\n",
		len(config.TestSites), config.Timeout, config.Workers, config.NoStoreRuns, config.StoreRuns)

	for _, site := range config.TestSites {
		fmt.Printf("Benchmarking %s\n", site)

		// Report generation
		result := runBenchmarkSuite(config, site, "report", "report generation", "")
		results = append(results, result)

		// Job batches over subpages
		args := fmt.Sprintf("--workers %d", config.Workers)
		result = runBenchmarkSuite(config, site, "jobs", "job batch over subpages", args)
		results = append(results, result)

		// History reads against whatever the report runs stored
		result = runBenchmarkSuite(config, site, "history", "history reads", "--points 6")
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both no-store and stored benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, site, command, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, site)

	// Helper to run a benchmark phase
	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, site, command, extraArgs, storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Stored runs
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Site:        site,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// commandTargets returns the positional URLs a command runs against.
// Job batches use subpages so their cold runs never reuse the report
// the report suite already stored for the bare site.
func commandTargets(site, command string) []string {
	if command == "jobs" {
		return []string{site + "/blog", site + "/pricing", site + "/docs"}
	}
	return []string{site}
}

// runBenchmark executes a sitepulse command multiple times with the specified store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, site, command, extraArgs, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := []string{command}
	args = append(args, commandTargets(site, command)...)
	args = append(args, "--backend", storeBackend, "--fixture", "--period", benchmarkPeriod)
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("sitepulse", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion.
// Warm job runs reuse stored reports and list no jobs, so every check
// keys on the section heading rather than row counts.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	var completionPhrase string
	switch command {
	case "jobs":
		completionPhrase = "Report Jobs"
	case "history":
		completionPhrase = "Score History"
	default:
		completionPhrase = "compiled in"
	}

	return strings.Contains(outputStr, completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/sitepulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"site", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Site, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "report", "Report Generation:")
	printCommandSummary(results, "jobs", "Job Batches:")
	printCommandSummary(results, "history", "History Reads:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-24s: No-store: %s, Cold: %s, Warm: %s\n", result.Site, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
