package rasmap

import "github.com/hydrograph/rasmap/grid"

// LoadDomain loads a pre-built model domain from gob files sharing a path
// prefix: <prefix>mesh.gob (raw mesh arrays) and <prefix>grid.gob (target
// raster definition). The topology is rebuilt and validated here rather
// than persisted, so a stale adjacency cache can never outlive a geometry
// revision.
func LoadDomain(mdlprfx string) (*Topology, *grid.Definition) {
	chkerr := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	rm, err := LoadGobRawMesh(mdlprfx + "mesh.gob")
	chkerr(err)
	t, err := BuildTopology(rm)
	chkerr(err)
	gd, err := grid.LoadGobDefinition(mdlprfx + "grid.gob")
	chkerr(err)
	return t, gd
}
