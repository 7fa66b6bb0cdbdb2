package rasmap

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Snapshot is one result instant pulled from the model output: a per-cell
// scalar (water-surface elevation by convention) and, for velocity mapping,
// the per-face normal velocity components. Missing cells hold NODATA.
// Snapshots are ephemeral; face and vertex values are rebuilt from them on
// every rasterization.
type Snapshot struct {
	ID      int
	Cell    []float64
	FaceVel [][2]float64 // optional; nil for scalar-only results
}

func (sn *Snapshot) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" snapshot.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(sn); err != nil {
		return fmt.Errorf(" snapshot.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobSnapshot(fp string) (*Snapshot, error) {
	var sn Snapshot
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&sn); err != nil {
		return nil, err
	}
	f.Close()
	return &sn, nil
}
