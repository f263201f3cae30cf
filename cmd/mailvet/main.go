// Package main provides the mailvet CLI: it validates a batch of email
// addresses for deliverability (syntax, blacklist, disposable-provider,
// MX resolution, SMTP recipient probe) and prints a per-address report.
//
// Usage:
//
//	mailvet --input addresses.txt --output report.csv
//	mailvet --blacklist blocked.txt --workers 40 user@example.com other@example.org
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/sungwon/mailvet/internal/logger"
	"github.com/sungwon/mailvet/internal/verify"
)

type cliConfig struct {
	input     string
	blacklist string
	output    string
	workers   int
	sender    string
	hello     string
	port      int
	timeout   time.Duration
	logLevel  string
	quiet     bool
}

func main() {
	cfg := parseFlags()

	addresses, err := collectAddresses(cfg.input, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(addresses) == 0 {
		fmt.Fprintln(os.Stderr, "error: no addresses given; use --input or positional arguments")
		flag.Usage()
		os.Exit(2)
	}

	blacklist := verify.DomainSet{}
	if cfg.blacklist != "" {
		blacklist, err = loadBlacklist(cfg.blacklist)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	log := logger.NewConsole(cfg.logLevel)

	resolver := verify.NewResolver(nil, verify.ResolverOptions{
		MaxAttempts:  verify.DefaultDNSMaxAttempts,
		RetryDelay:   verify.DefaultDNSRetryDelay,
		QueryTimeout: verify.DefaultDNSQueryTimeout,
	}, log)
	prober := verify.NewProber(verify.ProberOptions{
		Sender:      cfg.sender,
		HelloDomain: cfg.hello,
		Port:        cfg.port,
		Timeout:     cfg.timeout,
	}, log)
	pipeline := verify.NewPipeline(blacklist, verify.DefaultDisposableDomains(), resolver, prober, log)
	runner := verify.NewRunner(pipeline, cfg.workers, log)

	progress := func(completed, total int) {
		if cfg.quiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\rValidating %d/%d (%.0f%%)", completed, total, 100*float64(completed)/float64(total))
		if completed == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	start := time.Now()
	result := runner.Run(context.Background(), addresses, progress)

	printResults(result)
	printSummary(result, time.Since(start))

	if cfg.output != "" {
		if err := writeReport(cfg.output, result); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", cfg.output)
	}
}

func parseFlags() cliConfig {
	var cfg cliConfig

	flag.StringVar(&cfg.input, "input", "", "File with one email address per line")
	flag.StringVar(&cfg.blacklist, "blacklist", "", "File with one blacklisted domain per line")
	flag.StringVar(&cfg.output, "output", "", "Write the CSV report to this file")
	flag.IntVar(&cfg.workers, "workers", verify.DefaultWorkers, "Concurrent validation workers")
	flag.StringVar(&cfg.sender, "sender", verify.DefaultSender, "MAIL FROM address used for SMTP probes")
	flag.StringVar(&cfg.hello, "hello", verify.DefaultHelloDomain, "Domain announced in the SMTP greeting")
	flag.IntVar(&cfg.port, "port", verify.DefaultSMTPPort, "SMTP port to probe")
	flag.DurationVar(&cfg.timeout, "timeout", verify.DefaultSMTPTimeout, "SMTP probe timeout")
	flag.StringVar(&cfg.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.BoolVar(&cfg.quiet, "quiet", false, "Suppress the progress indicator")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mailvet [options] [address ...]\n\n")
		fmt.Fprintf(os.Stderr, "Validates email addresses for deliverability.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	return cfg
}

// collectAddresses merges the input file (if any) with positional
// arguments, preserving order.
func collectAddresses(path string, args []string) ([]string, error) {
	var addresses []string

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			addresses = append(addresses, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
	}

	return append(addresses, args...), nil
}

func loadBlacklist(path string) (verify.DomainSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blacklist file: %w", err)
	}
	defer f.Close()

	set, err := verify.ParseDomainList(f)
	if err != nil {
		return nil, fmt.Errorf("parse blacklist file: %w", err)
	}
	return set, nil
}

func printResults(result *verify.BatchResult) {
	// Completion order is arbitrary; sort for a stable report.
	rows := make([]verify.Disposition, len(result.Dispositions))
	copy(rows, result.Dispositions)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Email < rows[j].Email })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tSTATUS\tMESSAGE")
	for _, d := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Email, d.Status, d.Message)
	}
	w.Flush()
}

func printSummary(result *verify.BatchResult, elapsed time.Duration) {
	summary := result.Summary()

	fmt.Println()
	fmt.Printf("Validated %d addresses in %s\n", result.Total, elapsed.Round(time.Millisecond))
	for _, status := range verify.Statuses {
		fmt.Printf("  %-12s %d\n", status, summary[status])
	}
}

func writeReport(path string, result *verify.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := result.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}
