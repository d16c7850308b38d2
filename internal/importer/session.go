package importer

// session.go persists mapping decisions between imports through the
// store's plugin-data channel. A returning user gets their previous
// column bindings, ignored columns, and slug choice back instead of the
// name-match defaults.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmsbridge/importer/internal/collection"
)

// SessionDataKey is the plugin-data key the mapping session is stored
// under.
const SessionDataKey = "import:mapping"

// savedSession is the serialized shape of a mapping session. Create
// decisions are not recorded: once committed, the created field exists
// and the next import's name matching finds it on its own.
type savedSession struct {
	SlugColumn string `json:"slugColumn,omitempty"`
	// Targets maps column name to target field id.
	Targets map[string]string `json:"columnTargets,omitempty"`
	Ignored []string          `json:"ignoredColumns,omitempty"`
}

// SaveSession writes the reconciler's current decisions to plugin data.
func SaveSession(ctx context.Context, store collection.Store, r *Reconciler) error {
	saved := savedSession{
		SlugColumn: r.SlugColumn(),
		Targets:    make(map[string]string),
	}
	for _, m := range r.Mappings() {
		switch m.Action {
		case ActionIgnore:
			saved.Ignored = append(saved.Ignored, m.Field.Column)
		case ActionMap:
			saved.Targets[m.Field.Column] = m.TargetID
		}
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode mapping session: %w", err)
	}
	if err := store.SetPluginData(ctx, SessionDataKey, string(data)); err != nil {
		return fmt.Errorf("save mapping session: %w", err)
	}
	return nil
}

// RestoreSession applies a previously saved session to a fresh
// reconciler. Restoration is best-effort: columns or fields that no
// longer exist are skipped, and a missing or unreadable saved session
// leaves the defaults untouched.
func RestoreSession(ctx context.Context, store collection.Store, r *Reconciler) error {
	data, err := store.GetPluginData(ctx, SessionDataKey)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load mapping session: %w", err)
	}

	var saved savedSession
	if err := json.Unmarshal([]byte(data), &saved); err != nil {
		// A stale or corrupt session is not worth failing an import over.
		return nil
	}

	for column, targetID := range saved.Targets {
		_ = r.Retarget(column, targetID)
	}
	for _, column := range saved.Ignored {
		_ = r.SetIgnored(column, true)
	}
	if saved.SlugColumn != "" {
		_ = r.SetSlugColumn(saved.SlugColumn)
	}
	return nil
}
