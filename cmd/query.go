package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/upskill/internal/domain/types"
)

type recommendFlags struct {
	paid     bool
	platform string
	skills   string
	goal     string
	useAI    bool
}

func newRecommendCmd() *cobra.Command {
	var f recommendFlags
	cmd := &cobra.Command{
		Use:   "recommend <job role>",
		Short: "Print recommendations for a job role as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := types.RecommendParams{
				JobRole:    strings.Join(args, " "),
				Platform:   f.platform,
				UserSkills: splitList(f.skills),
				Goal:       f.goal,
				UseAI:      f.useAI,
			}
			if cmd.Flags().Changed("paid") {
				paid := f.paid
				p.Paid = &paid
			}
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().BoolVar(&f.paid, "paid", false, "only paid (true) or free (false) courses; unset means both")
	cmd.Flags().StringVar(&f.platform, "platform", "", "restrict to one provider")
	cmd.Flags().StringVar(&f.skills, "skills", "", "comma-separated skills you already have")
	cmd.Flags().StringVar(&f.goal, "goal", "", "free-text learning goal")
	cmd.Flags().BoolVar(&f.useAI, "ai", false, "enrich results with the AI provider")
	return cmd
}

func runRecommend(ctx context.Context, w io.Writer, p types.RecommendParams) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	res, err := svc.Recommend(ctx, p)
	if err != nil {
		return err
	}
	return printJSON(w, res.Reduce())
}

func newCareerPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "career-path <job role>",
		Short: "Print the career progression for a job role as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup(ctx)
			if err != nil {
				return err
			}
			svc, err := newService(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer svc.Stop()
			return printJSON(cmd.OutOrStdout(), svc.CareerPath(ctx, strings.Join(args, " ")))
		},
	}
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
