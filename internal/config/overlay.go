package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"jobmatch-engine/internal/query"
)

const TaxonomyFileName = "taxonomy.yml"

type taxonomyFile struct {
	Taxonomy query.Taxonomy `yaml:"taxonomy"`
}

// OverlayTaxonomy replaces the taxonomy lists present in taxonomyPath.
// Lists the file leaves empty keep their current values.
func OverlayTaxonomy(cfg *Config, taxonomyPath string) error {
	b, err := os.ReadFile(taxonomyPath)
	if err != nil {
		// Missing taxonomy file should not kill startup
		return nil
	}

	var tf taxonomyFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return err
	}

	overlay := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	overlay(&cfg.Taxonomy.Industries, tf.Taxonomy.Industries)
	overlay(&cfg.Taxonomy.Areas, tf.Taxonomy.Areas)
	overlay(&cfg.Taxonomy.Modalities, tf.Taxonomy.Modalities)
	overlay(&cfg.Taxonomy.Seniorities, tf.Taxonomy.Seniorities)
	overlay(&cfg.Taxonomy.Locations, tf.Taxonomy.Locations)
	overlay(&cfg.Taxonomy.Roles, tf.Taxonomy.Roles)
	return nil
}
