// Command crowdgit-extract turns a walker commits file into trailer contributions,
// or into full activities with -crowd-activities
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"crowdgit/internal/adapters/commits"
	"crowdgit/internal/core/activity"
	"crowdgit/internal/core/trailer"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
)

type options struct {
	input, output string
	crowd         bool
	remote        string
	fuzzy         bool
	match         string
}

func parse(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("crowdgit-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&o.crowd, "crowd-activities", false, "emit full activities instead of raw trailer contributions")
	fs.StringVar(&o.remote, "remote", "", "remote repository URL, required with -crowd-activities")
	fs.BoolVar(&o.fuzzy, "fuzzy", false, "match trailer labels approximately")
	fs.StringVar(&o.match, "match", "", "print the fuzzy match for a label and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: crowdgit-extract [-crowd-activities -remote URL] [-fuzzy] input.json output.json")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "flags")
	}
	if o.match != "" {
		return o, nil
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return o, perr.InvalidArgf("expected input and output files")
	}
	o.input, o.output = fs.Arg(0), fs.Arg(1)
	if o.crowd && o.remote == "" {
		return o, perr.WithField(perr.InvalidArgf("-remote is required with -crowd-activities"), "remote")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parse(args, stderr)
	if err != nil {
		return err
	}
	log := logger.Named("extract")

	if o.match != "" {
		key, score, ok := trailer.DefaultMatcher().Match(o.match)
		kinds, _ := trailer.Lookup(key)
		return json.NewEncoder(stdout).Encode(map[string]any{
			"label": o.match, "key": key, "score": score, "matched": ok, "kinds": kinds,
		})
	}

	in, err := os.Open(o.input)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "open %s", o.input)
	}
	defer in.Close()

	extract := trailer.Extract
	if o.fuzzy {
		extract = trailer.ExtractFuzzy
	}

	start := time.Now()
	var out any
	var n int
	if o.crowd {
		out, n, err = crowdActivities(ctx, in, o.remote, extract)
	} else {
		out, n, err = rawContributions(ctx, in, extract)
	}
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode output")
	}
	if err := os.WriteFile(o.output, b, 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", o.output)
	}

	elapsed := time.Since(start)
	log.Info().
		Int("count", n).
		Int("seconds", int(elapsed.Seconds())).
		Str("minutes", fmt.Sprintf("%.1f", elapsed.Minutes())).
		Msg("activities extracted")
	return nil
}

// rawContributions maps each hash to [{kind: {name, email}}]
func rawContributions(ctx context.Context, r io.Reader, extract func([]string) []trailer.Contribution) (map[string][]map[trailer.Kind]trailer.Person, int, error) {
	out := map[string][]map[trailer.Kind]trailer.Person{}
	err := commits.Decode(ctx, r, func(c activity.Commit, derr error) error {
		if derr != nil {
			logger.Named("extract").Warn().Err(derr).Msg("malformed commit record skipped")
			return nil
		}
		list := make([]map[trailer.Kind]trailer.Person, 0)
		for _, ct := range extract(c.Message) {
			list = append(list, map[trailer.Kind]trailer.Person{ct.Kind: ct.Person})
		}
		out[c.Hash] = list
		return nil
	})
	return out, len(out), err
}

func crowdActivities(ctx context.Context, r io.Reader, rawRemote string, extract func([]string) []trailer.Contribution) ([]activity.Activity, int, error) {
	b := activity.NewBuilder(rawRemote, activity.WithExtractor(extract))
	out := make([]activity.Activity, 0)
	err := commits.Decode(ctx, r, func(c activity.Commit, derr error) error {
		if derr != nil {
			logger.Named("extract").Warn().Err(derr).Msg("malformed commit record skipped")
			return nil
		}
		res := b.Build(c)
		if !res.OK() {
			logger.Named("extract").Error().Err(res.Err).Str("commit", res.Hash).Msg("commit skipped")
			return nil
		}
		out = append(out, res.Activities...)
		return nil
	})
	return out, len(out), err
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logger.Get().Error().Err(err).Msg("crowdgit-extract failed")
		os.Exit(1)
	}
}
