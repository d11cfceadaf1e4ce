package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// ReportInit registers an object so it can be reported.
func (r *Runner) ReportInit(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "object")
	if err != nil {
		return err
	}
	if err := r.reports.Initialize(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ %s can now be reported\n", id)
}

// ReportAdd reports an object as the signed-in user.
func (r *Runner) ReportAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "object")
	if err != nil {
		return err
	}
	if err := r.reports.Report(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Reported %s (%d reports)\n", id, r.refreshCount(ctx, id))
}

// ReportRemove withdraws the signed-in user's report.
func (r *Runner) ReportRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "object")
	if err != nil {
		return err
	}
	if err := r.reports.Unreport(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Withdrew report on %s (%d reports)\n", id, r.refreshCount(ctx, id))
}

// ReportStatus prints the report count and whether the signed-in user reported the object.
func (r *Runner) ReportStatus(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "object")
	if err != nil {
		return err
	}

	st, err := r.reports.Check(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"object": id, "count": st.Count, "reported": st.Reported}, cmd.Bool("pretty"))
	}

	reported := "no"
	if st.Reported {
		reported = "yes"
	}
	return r.writePlain("Object: %s\nReports: %d\nReported by you: %s\n", id, st.Count, reported)
}

// refreshCount reloads the report count, falling back to the locally reconciled one.
func (r *Runner) refreshCount(ctx context.Context, id string) int {
	st, err := r.reports.Check(ctx, id)
	if err != nil {
		r.logger.Warn("failed to refresh report count", "object", id, "error", err)
		return r.reports.Status(id).Count
	}
	return st.Count
}
