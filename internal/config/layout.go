// internal/config/layout.go
package config

import (
	"path/filepath"

	"btyper/internal/taxonomy"
)

// Layout resolves database files under DBDir:
//
//	seq_ani_db/<kind>.tsv        panel metadata
//	seq_ani_db/<kind>/           reference genomes named by panel id
//	seq_virulence_db/            btyper3_virulence_sequences.faa|.ffn
//	seq_bt_db/                   btyper3_bt_sequences.faa
//	seq_mlst_db/                 mlst.fas, bcereus.txt
//	seq_panC_db/                 panC.fna
type Layout struct {
	Root string
}

// Layout returns the database layout of c.
func (c *Config) Layout() Layout { return Layout{Root: c.DBDir} }

// PanelFile is the metadata table of panel k.
func (l Layout) PanelFile(k taxonomy.Kind) string {
	return filepath.Join(l.Root, "seq_ani_db", string(k)+".tsv")
}

// PanelGenomes is the directory holding the reference genomes of panel k.
func (l Layout) PanelGenomes(k taxonomy.Kind) string {
	return filepath.Join(l.Root, "seq_ani_db", string(k))
}

// VirulenceQuery returns the query file and BLAST program for a flavour.
func (l Layout) VirulenceQuery(flavour string) (path, program string) {
	if flavour == VirulenceNuc {
		return filepath.Join(l.Root, "seq_virulence_db", "btyper3_virulence_sequences.ffn"), "blastn"
	}
	return filepath.Join(l.Root, "seq_virulence_db", "btyper3_virulence_sequences.faa"), "tblastn"
}

func (l Layout) BtQuery() string {
	return filepath.Join(l.Root, "seq_bt_db", "btyper3_bt_sequences.faa")
}

func (l Layout) MLSTQuery() string {
	return filepath.Join(l.Root, "seq_mlst_db", "mlst.fas")
}

func (l Layout) MLSTProfiles() string {
	return filepath.Join(l.Root, "seq_mlst_db", "bcereus.txt")
}

func (l Layout) PanCQuery() string {
	return filepath.Join(l.Root, "seq_panC_db", "panC.fna")
}
