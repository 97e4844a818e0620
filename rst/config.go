package rst

// WrapConfig is the YAML-serializable configuration for Wrap, letting a
// CLI/config collaborator load min_resolution from disk alongside the
// scheduler's Config (see SPEC_FULL.md §3). The yaml struct tag is all
// gopkg.in/yaml.v3 needs to (un)marshal it; no custom methods required.
type WrapConfig struct {
	MinResolution float64 `yaml:"min_resolution"`
}

// WrapWithConfig runs Wrap using cfg.MinResolution.
func WrapWithConfig(rt *RegionTable, st *SegmentTable, meta *Meta, ids *IDGen, cfg WrapConfig) error {
	return Wrap(rt, st, meta, cfg.MinResolution, ids)
}
