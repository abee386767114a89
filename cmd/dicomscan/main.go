// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command dicomscan extracts attributes and pixel data from every DICOM file below a directory.
//
//	dicomscan read -path DIR [-threads N] [-attributes FILE.yaml] [-catalog FILE.sqlite] [-no-pixels] [-v]
//	dicomscan runs -catalog FILE.sqlite
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GoogleCloudPlatform/dicomscan/batch"
	"github.com/GoogleCloudPlatform/dicomscan/catalog"
	"github.com/GoogleCloudPlatform/dicomscan/extract"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
)

// Exit codes
const (
	exitOK                = 0
	exitSetup             = 1
	exitInvalidInvocation = 2
)

const usage = `usage:
  dicomscan read -path DIR [-threads N] [-attributes FILE.yaml] [-catalog FILE.sqlite] [-no-pixels] [-v]
  dicomscan runs -catalog FILE.sqlite`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return exitInvalidInvocation
	}
	switch args[0] {
	case "read":
		return read(ctx, args[1:], stdout, stderr)
	case "runs":
		return runs(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return exitOK
	}
	fmt.Fprintf(stderr, "unknown command %q\n%s\n", args[0], usage)
	return exitInvalidInvocation
}

type readInvocation struct {
	root           string
	threads        int
	attributesPath string
	catalogPath    string
	noPixels       bool
	verbose        bool
}

func parseRead(args []string) (readInvocation, error) {
	var inv readInvocation
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&inv.root, "path", "", "Directory to scan for DICOM files. Required.")
	fs.IntVar(&inv.threads, "threads", 0, "Files processed concurrently (default: processors - 1).")
	fs.StringVar(&inv.attributesPath, "attributes", "", "YAML file listing the attributes to extract.")
	fs.StringVar(&inv.catalogPath, "catalog", "", "SQLite file the run is recorded in.")
	fs.BoolVar(&inv.noPixels, "no-pixels", false, "Skip pixel data.")
	fs.BoolVar(&inv.verbose, "v", false, "Log debug diagnostics.")

	if err := fs.Parse(args); err != nil {
		return inv, err
	}
	if fs.NArg() != 0 {
		return inv, fmt.Errorf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}
	if inv.root == "" {
		return inv, errors.New("-path is required")
	}
	if inv.threads < 0 {
		return inv, fmt.Errorf("-threads must not be negative (got %d)", inv.threads)
	}
	return inv, nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func read(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inv, err := parseRead(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n%s\n", err, usage)
		return exitInvalidInvocation
	}
	log := newLogger(stderr, inv.verbose)

	attributes := extract.DefaultAttributes
	if inv.attributesPath != "" {
		if attributes, err = extract.LoadAttributes(inv.attributesPath); err != nil {
			fmt.Fprintln(stderr, err)
			return exitSetup
		}
	}

	tracker := batch.NewTracker(stderr, "reading files")
	opts := []batch.Option{
		batch.WithWorkers(inv.threads),
		batch.WithAttributes(attributes),
		batch.WithLogger(log),
		batch.WithProgress(tracker),
	}
	if inv.noPixels {
		opts = append(opts, batch.WithoutPixels())
	}
	if inv.catalogPath != "" {
		c, err := catalog.Open(inv.catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "opening catalog: %v\n", err)
			return exitSetup
		}
		defer c.Close()
		opts = append(opts, batch.WithSink(c))
	}

	pipeline := batch.NewPipeline(opts...)
	fmt.Fprintf(stdout, "Processing DICOM files in %s with %d workers\n", inv.root, pipeline.Workers())

	report, err := pipeline.Run(ctx, inv.root)
	tracker.Stop()
	if report != nil {
		if rerr := report.Render(stdout); rerr != nil {
			fmt.Fprintln(stderr, rerr)
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetup
	}
	return exitOK
}

func runs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	catalogPath := fs.String("catalog", "", "SQLite file written by read -catalog. Required.")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "%v\n%s\n", err, usage)
		return exitInvalidInvocation
	}
	if *catalogPath == "" || fs.NArg() != 0 {
		fmt.Fprintf(stderr, "-catalog is required\n%s\n", usage)
		return exitInvalidInvocation
	}
	if _, err := os.Stat(*catalogPath); err != nil {
		fmt.Fprintln(stderr, err)
		return exitSetup
	}

	c, err := catalog.Open(*catalogPath)
	if err != nil {
		fmt.Fprintf(stderr, "opening catalog: %v\n", err)
		return exitSetup
	}
	defer c.Close()

	stored, err := c.Runs(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "listing runs: %v\n", err)
		return exitSetup
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.AppendHeader(table.Row{"Run", "Root", "Started", "Files", "Succeeded", "Failed", "Elapsed"})
	for _, r := range stored {
		status := r.Elapsed.String()
		if !r.Finished {
			status = "unfinished"
		}
		t.AppendRow(table.Row{r.ID, r.Root, r.Started.Local().Format(time.DateTime), r.Total, r.Succeeded, r.Failed, status})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return exitOK
}
