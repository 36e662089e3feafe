// internal/pipeline/resources.go
package pipeline

import (
	"go.uber.org/zap"

	"btyper/internal/config"
	"btyper/internal/mlst"
	"btyper/internal/report"
	"btyper/internal/taxonomy"
)

// Resources are the reference tables shared read-only by every genome of a
// batch.
type Resources struct {
	Panels   map[taxonomy.Kind]*taxonomy.Panel
	Profiles *mlst.Profiles
}

// LoadResources reads the tables the enabled categories need.
func LoadResources(layout config.Layout, enabled Categories) (*Resources, error) {
	res := &Resources{Panels: map[taxonomy.Kind]*taxonomy.Panel{}}
	for _, k := range taxonomy.Kinds {
		if !enabled.Has(report.Category(k)) {
			continue
		}
		p, err := taxonomy.LoadPanel(layout.PanelFile(k), k)
		if err != nil {
			return nil, err
		}
		res.Panels[k] = p
	}
	if enabled.Has(report.MLST) {
		p, err := mlst.LoadProfiles(layout.MLSTProfiles())
		if err != nil {
			return nil, err
		}
		res.Profiles = p
	}
	return res, nil
}

// Fields describes the loaded tables for logging.
func (r *Resources) Fields() []zap.Field {
	var fs []zap.Field
	for _, k := range taxonomy.Kinds {
		if p := r.Panels[k]; p != nil {
			fs = append(fs, zap.Int(string(k)+"_references", len(p.IDs())))
		}
	}
	if r.Profiles != nil {
		fs = append(fs, zap.Int("mlst_profiles", r.Profiles.Len()))
	}
	return fs
}
