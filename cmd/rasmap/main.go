package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/hydrograph/rasmap"
	"github.com/im7mortal/UTM"
	"github.com/maseology/mmio"
)

func main() {
	mdlprfx := flag.String("p", "", "domain file prefix (expects <prefix>mesh.gob, <prefix>grid.gob)")
	snapfp := flag.String("s", "", "snapshot gob file")
	outprfx := flag.String("o", "out.", "output file prefix")
	nwrkrs := flag.Int("w", runtime.GOMAXPROCS(0), "number of rasterization workers")
	flat := flag.Bool("flat", false, "constant value per cell (no interpolation)")
	vel := flag.Bool("vel", false, "render velocity (u,v) instead of the scalar")
	consum := flag.Bool("c", false, "print the face connectivity breakdown")
	utmzone := flag.Int("utm", 0, "UTM zone for the extent report (0 to skip)")
	flag.Parse()
	if *mdlprfx == "" || *snapfp == "" {
		flag.Usage()
		log.Fatalln(" rasmap: -p and -s are required")
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nrasmap complete. n processes: %v", runtime.GOMAXPROCS(0)))

	t, gd := rasmap.LoadDomain(*mdlprfx)
	tt.Print("domain load complete")
	fmt.Printf(" %s cells, %s faces, %s vertices; %d x %d target raster\n",
		mmio.Thousands(int64(t.NCells())), mmio.Thousands(int64(t.NFaces())),
		mmio.Thousands(int64(t.NVerts())), gd.Nr, gd.Nc)
	if *utmzone > 0 {
		xmin, ymin, xmax, ymax := gd.Extent()
		lat0, lon0, err := UTM.ToLatLon(xmin, ymin, *utmzone, "", true)
		if err != nil {
			log.Fatalf(" rasmap extent error: %v", err)
		}
		lat1, lon1, err := UTM.ToLatLon(xmax, ymax, *utmzone, "", true)
		if err != nil {
			log.Fatalf(" rasmap extent error: %v", err)
		}
		fmt.Printf(" extent: (%.6f, %.6f) to (%.6f, %.6f)\n", lat0, lon0, lat1, lon1)
	}

	sn, err := rasmap.LoadGobSnapshot(*snapfp)
	if err != nil {
		log.Fatalf(" rasmap snapshot load: %v", err)
	}

	opts := rasmap.Options{}
	if *flat {
		opts.Mode = rasmap.Flat
	}
	ev := rasmap.NewEvaluator(t, gd, opts)
	tt.Print("evaluator build complete")

	if *consum {
		fmt.Println(" face connectivity:")
		rasmap.ComputeFaceValues(t, sn.Cell, ev.Policy).PrintSummary()
	}

	if *vel {
		u, v, d := ev.EvaluateVectorConcurrent(sn, *nwrkrs)
		tt.Print("rasterization complete")
		report(d)
		chk(u.WriteBil(*outprfx + "u.bil"))
		chk(v.WriteBil(*outprfx + "v.bil"))
	} else {
		rb, d := ev.EvaluateConcurrent(sn, *nwrkrs)
		tt.Print("rasterization complete")
		report(d)
		chk(rb.WriteBil(*outprfx + "wse.bil"))
	}
}

func report(d *rasmap.Diagnostics) {
	if len(d.SkippedCells) > 0 {
		fmt.Printf(" %d degenerate cells skipped\n", len(d.SkippedCells))
	}
	if len(d.UncoveredVerts) > 0 {
		fmt.Printf(" %d vertices without connected faces (nodata)\n", len(d.UncoveredVerts))
	}
}

func chk(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}
