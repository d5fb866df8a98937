package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ubq-testing/ubq-daily-streak/internal/activity"
	"github.com/ubq-testing/ubq-daily-streak/internal/enrich"
	"github.com/ubq-testing/ubq-daily-streak/internal/policy"
	"github.com/ubq-testing/ubq-daily-streak/internal/render"
	"github.com/ubq-testing/ubq-daily-streak/internal/reward"
	"github.com/ubq-testing/ubq-daily-streak/internal/source"
	"github.com/ubq-testing/ubq-daily-streak/internal/streak"
)

type computeFlags struct {
	org         string
	policyPath  string
	format      string
	out         string
	concurrency int
	verbose     bool
}

func newComputeCmd() *cobra.Command {
	f := &computeFlags{}

	cmd := &cobra.Command{
		Use:   "compute <username>",
		Short: "Compute streak rewards for a contributor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.org, "org", "", "Target organization (required)")
	flags.StringVar(&f.policyPath, "policy", "", "Policy yaml file (default: builtin policy)")
	flags.StringVar(&f.format, "format", "json", "Output format: json or md")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.IntVar(&f.concurrency, "concurrency", 0, "Parallel label lookups (default: policy value)")
	flags.BoolVar(&f.verbose, "verbose", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func runCompute(username string, f *computeFlags) error {
	if f.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.WithFields(logrus.Fields{"user": username, "org": f.org})
	ctx := context.Background()

	// 1. Load policy
	pol, err := loadPolicy(f.policyPath)
	if err != nil {
		return exitError(3, "failed to load policy: %v", err)
	}
	if f.concurrency > 0 {
		pol.EnrichConcurrency = f.concurrency
	}

	// 2. Build GitHub source
	src := source.NewGitHub(ctx, os.Getenv("GITHUB_TOKEN"))

	// 3. Fetch the three listings concurrently
	log.Debug("fetching activity data")
	var (
		events []source.RawEvent
		pulls  []source.RawPullRequest
		repos  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = src.ListUserEvents(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		pulls, err = src.ListUserPullRequests(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		repos, err = src.ListOrgRepositories(gctx, f.org)
		return err
	})
	if err := g.Wait(); err != nil {
		return exitError(4, "failed to fetch activity data: %v", err)
	}
	log.Debugf("fetched %d events, %d pull requests, %d repos", len(events), len(pulls), len(repos))

	orgRepoSet := make(map[string]bool, len(repos))
	for _, r := range repos {
		orgRepoSet[r] = true
	}

	// 4. Normalize
	activities, err := activity.Normalize(events, pulls, orgRepoSet, f.org)
	if err != nil {
		return exitError(5, "normalization failed: %v", err)
	}
	log.Debugf("normalized %d activities", len(activities))

	// 5. Enrich labels
	enricher := enrich.New(src, src, f.org, pol.EnrichConcurrency)
	activities, enrichErr := enricher.EnrichAll(ctx, activities)
	if enrichErr != nil {
		log.Warnf("some label lookups failed: %v", enrichErr)
	}

	// 6. Detect streaks
	streaks, err := streak.Detect(activities, streak.Config{GracePeriodLimitDays: pol.GracePeriodLimitDays})
	if err != nil {
		return exitError(5, "streak detection failed: %v", err)
	}
	log.Debugf("detected %d streaks", len(streaks))

	// 7. Assemble rewards
	multiplier := func(length int, hoursWorked float64) float64 {
		return reward.ComputeMultiplier(length, hoursWorked, pol.FirstDayMultiplier, pol.MaxMultiplier)
	}
	rewards, err := reward.Assemble(streaks, activities, username, multiplier)
	if err != nil {
		return exitError(5, "reward assembly failed: %v", err)
	}

	// 8. Render
	output, err := formatRewards(rewards, f.format)
	if err != nil {
		return exitError(2, "%v", err)
	}
	return writeOutput(output, f.out)
}

func loadPolicy(path string) (*policy.Policy, error) {
	if path == "" {
		return policy.LoadBuiltin()
	}
	return policy.Load(path)
}

func formatRewards(rewards []reward.Reward, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rewards, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode rewards: %v", err)
		}
		return string(data) + "\n", nil
	case "md":
		return render.Markdown(rewards), nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or md)", format)
	}
}

func writeOutput(output, path string) error {
	if path == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return exitError(3, "failed to write output: %v", err)
	}
	return nil
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
