package grid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// WriteBil writes a row-major float32 raster as an ESRI band-interleaved
// binary (.bil) with its sidecar .hdr.
func WriteBil(fp string, gd *Definition, data []float32, nodata float32) error {
	if len(data) != gd.NCells() {
		return fmt.Errorf("WriteBil %s: %d values for %d-cell grid", fp, len(data), gd.NCells())
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("WriteBil failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("WriteBil failed: %v", err)
	}
	return writeHdr(fp+".hdr", gd, nodata)
}

func writeHdr(fp string, gd *Definition, nodata float32) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("writeHdr failed: %v", err)
	}
	defer f.Close()
	fmt.Fprintf(f, "BYTEORDER      I\n")
	fmt.Fprintf(f, "LAYOUT         BIL\n")
	fmt.Fprintf(f, "NROWS          %d\n", gd.Nr)
	fmt.Fprintf(f, "NCOLS          %d\n", gd.Nc)
	fmt.Fprintf(f, "NBANDS         1\n")
	fmt.Fprintf(f, "NBITS          32\n")
	fmt.Fprintf(f, "PIXELTYPE      FLOAT\n")
	fmt.Fprintf(f, "ULXMAP         %f\n", gd.Eorig+gd.Cs/2.)
	fmt.Fprintf(f, "ULYMAP         %f\n", gd.Norig-gd.Cs/2.)
	fmt.Fprintf(f, "XDIM           %f\n", gd.Cs)
	fmt.Fprintf(f, "YDIM           %f\n", gd.Cs)
	fmt.Fprintf(f, "NODATA         %f\n", nodata)
	return nil
}

// WriteAscii writes an ESRI ASCII grid (.asc).
func WriteAscii(fp string, gd *Definition, data []float32, nodata float32) error {
	if len(data) != gd.NCells() {
		return fmt.Errorf("WriteAscii %s: %d values for %d-cell grid", fp, len(data), gd.NCells())
	}
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("WriteAscii failed: %v", err)
	}
	defer f.Close()
	fmt.Fprintf(f, "ncols %d\n", gd.Nc)
	fmt.Fprintf(f, "nrows %d\n", gd.Nr)
	fmt.Fprintf(f, "xllcorner %f\n", gd.Eorig)
	fmt.Fprintf(f, "yllcorner %f\n", gd.Norig-float64(gd.Nr)*gd.Cs)
	fmt.Fprintf(f, "cellsize %f\n", gd.Cs)
	fmt.Fprintf(f, "nodata_value %f\n", nodata)
	for r := 0; r < gd.Nr; r++ {
		for c := 0; c < gd.Nc; c++ {
			if c > 0 {
				fmt.Fprint(f, " ")
			}
			fmt.Fprintf(f, "%g", data[r*gd.Nc+c])
		}
		fmt.Fprintln(f)
	}
	return nil
}
