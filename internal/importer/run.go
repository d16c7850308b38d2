package importer

// run.go drives one complete headless import: schema fetch, inference,
// reconciliation with defaults (plus any saved session), diff, policy
// conflict resolution, commit. Interactive surfaces drive the same
// stages themselves to interleave user edits.

import (
	"context"
	"log/slog"

	"github.com/cmsbridge/importer/internal/collection"
)

// RunOptions configures a headless import.
type RunOptions struct {
	// UpdateOnConflict applies update to every conflicting record;
	// false skips them all.
	UpdateOnConflict bool
	// SlugColumn overrides the slug column selection. Empty keeps the
	// saved or default selection.
	SlugColumn string
	// RestoreSaved applies the previously saved mapping session before
	// planning.
	RestoreSaved bool
	// SaveSession persists the mapping decisions after a successful
	// commit.
	SaveSession bool
}

// Run imports a record set into the store end to end and returns the
// commit report. The import is single-flight: one diff/commit cycle,
// no retries, cancellable at every store call through ctx.
func Run(ctx context.Context, store collection.Store, resolver collection.Resolver, set *RecordSet, opts RunOptions) (*Report, error) {
	log := slog.Default().With("records", len(set.Records), "columns", len(set.Columns))

	fields, err := store.GetFields(ctx)
	if err != nil {
		return nil, errStoreWrite(err)
	}

	inferred := InferFields(set)
	rec := Reconcile(inferred, fields, set.Records)

	if opts.RestoreSaved {
		if err := RestoreSession(ctx, store, rec); err != nil {
			return nil, err
		}
	}
	if opts.SlugColumn != "" {
		if err := rec.SetSlugColumn(opts.SlugColumn); err != nil {
			return nil, err
		}
	}

	plan, err := rec.Plan()
	if err != nil {
		return nil, err
	}
	log.Info("mapping planned",
		"slug_column", plan.SlugColumn,
		"mapped_columns", len(plan.FieldByColumn),
		"schema_changed", plan.SchemaChanged,
	)

	refs, err := BuildReferenceIndex(ctx, resolver, plan.Fields)
	if err != nil {
		return nil, err
	}

	existing, err := store.GetItems(ctx)
	if err != nil {
		return nil, errStoreWrite(err)
	}

	payload := Diff(set, plan, existing, refs)
	NewResolution(payload).ResolveAll(opts.UpdateOnConflict)

	report, err := Commit(ctx, store, plan, payload)
	if err != nil {
		return nil, err
	}

	if opts.SaveSession {
		if err := SaveSession(ctx, store, rec); err != nil {
			log.Warn("mapping session not saved", "error", err)
		}
	}

	log.Info("import committed",
		"added", report.Added,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"dropped_missing_slug", report.Warnings.MissingSlugs,
		"dropped_duplicate_slug", report.Warnings.DuplicateSlugs,
		"skipped_values", report.Warnings.SkippedValues,
	)
	return report, nil
}
