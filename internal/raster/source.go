// File: source.go
// Purpose: read-only windowed access to one global COG in object storage
// Pattern: domain
// Dependencies: GDAL (github.com/airbusgeo/godal), vsis3/vsicurl virtual filesystem
// Frequency: critical - every layer of every job goes through here

package raster

import (
	"fmt"
	"math"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/f4roos41/solarmcda/internal/catalog"
	"github.com/f4roos41/solarmcda/internal/engerr"
)

// gdalMu serializes all GDAL calls. GDAL (and libtiff underneath it)
// keep global C state that is not safe for concurrent access from
// multiple goroutines — the same constraint the teacher's GLO-90
// importer documents and works around with a single package mutex.
var gdalMu sync.Mutex

// GDALMutex returns the package-wide GDAL call lock, so that other
// packages performing their own direct godal calls (internal/writer,
// encoding the final result) serialize against the same lock rather
// than introducing a second one.
func GDALMutex() *sync.Mutex { return &gdalMu }

// Source is a read-only view over one COG addressed by URI
// (spec.md §4.1). URIs are GDAL virtual filesystem paths:
// "/vsis3/<bucket>/<key>" for the object-store data lake, or a plain
// path for local/test fixtures.
type Source struct {
	uri  string
	mu   sync.Mutex // serializes reads against this dataset's Band
	ds   *godal.Dataset
	grid Grid
}

// Open opens uri for reading, performing metadata I/O only — GDAL's COG
// driver reads just the header and IFDs via ranged GETs, it does not
// download the file.
func Open(uri string) (*Source, error) {
	gdalMu.Lock()
	ds, err := godal.Open(uri, godal.RasterOnly())
	gdalMu.Unlock()
	if err != nil {
		return nil, engerr.SourceUnavailable(fmt.Sprintf("open %s", uri), err)
	}

	gdalMu.Lock()
	gt, gtErr := ds.GeoTransform()
	structure := ds.Structure()
	bands := ds.Bands()
	gdalMu.Unlock()

	if gtErr != nil {
		ds.Close()
		return nil, engerr.SourceCorrupt(fmt.Sprintf("geotransform %s", uri), gtErr)
	}
	if len(bands) == 0 {
		ds.Close()
		return nil, engerr.SourceCorrupt(fmt.Sprintf("%s has no bands", uri), nil)
	}

	nodata, _ := bands[0].NoData()

	grid := Grid{
		Transform: gt,
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		CRS:       ds.Projection(),
		NoData:    nodata,
		DType:     structure.DataType.String(),
	}

	return &Source{uri: uri, ds: ds, grid: grid}, nil
}

// Close releases the underlying GDAL dataset handle.
func (s *Source) Close() error {
	gdalMu.Lock()
	defer gdalMu.Unlock()
	return s.ds.Close()
}

// Grid returns the source's native grid metadata.
func (s *Source) Grid() Grid { return s.grid }

// Window is a pixel window read from a Source: the array (row-major,
// float32) and the affine transform describing where it sits on the
// ground.
type Window struct {
	Data      []float32
	Width     int
	Height    int
	Transform [6]float64
	NoData    float64
}

// ReadWindow reads the minimal pixel window covering bbox in the
// source's own grid, with no resampling (spec.md §4.1). A bbox disjoint
// from the source's coverage returns an all-no-data Window, not an
// error.
func (s *Source) ReadWindow(bbox [4]float64) (Window, error) {
	col0, row0 := s.grid.ToPixel(bbox[0], bbox[3]) // top-left: minLon, maxLat
	col1, row1 := s.grid.ToPixel(bbox[2], bbox[1]) // bottom-right: maxLon, minLat

	x0, y0 := int(math.Floor(col0)), int(math.Floor(row0))
	w := int(math.Ceil(col1)) - x0
	h := int(math.Ceil(row1)) - y0
	if w <= 0 || h <= 0 {
		return Window{}, fmt.Errorf("raster: empty window requested from %s", s.uri)
	}

	winTransform := s.grid.Transform
	winTransform[0] = s.grid.Transform[0] + float64(x0)*s.grid.Transform[1]
	winTransform[3] = s.grid.Transform[3] + float64(y0)*s.grid.Transform[5]

	out := Window{
		Data:      make([]float32, w*h),
		Width:     w,
		Height:    h,
		Transform: winTransform,
		NoData:    s.grid.NoData,
	}

	// Out-of-coverage: fill with no-data and return, per spec.md §4.1.
	if x0+w <= 0 || y0+h <= 0 || x0 >= s.grid.Width || y0 >= s.grid.Height {
		fillNoData(out.Data, out.NoData)
		return out, nil
	}

	clipX0, clipY0 := clampInt(x0, 0, s.grid.Width), clampInt(y0, 0, s.grid.Height)
	clipX1, clipY1 := clampInt(x0+w, 0, s.grid.Width), clampInt(y0+h, 0, s.grid.Height)
	clipW, clipH := clipX1-clipX0, clipY1-clipY0

	if clipW <= 0 || clipH <= 0 {
		fillNoData(out.Data, out.NoData)
		return out, nil
	}

	s.mu.Lock()
	bands := s.ds.Bands()
	var readBuf []float32
	var readErr error
	if clipW == w && clipH == h {
		readErr = bands[0].Read(clipX0, clipY0, out.Data, w, h)
	} else {
		readBuf = make([]float32, clipW*clipH)
		readErr = bands[0].Read(clipX0, clipY0, readBuf, clipW, clipH)
	}
	s.mu.Unlock()

	if readErr != nil {
		return Window{}, engerr.SourceUnavailable(fmt.Sprintf("read window from %s", s.uri), readErr)
	}

	if readBuf != nil {
		fillNoData(out.Data, out.NoData)
		destOffX, destOffY := clipX0-x0, clipY0-y0
		for row := 0; row < clipH; row++ {
			srcOff := row * clipW
			dstOff := (destOffY+row)*w + destOffX
			copy(out.Data[dstOff:dstOff+clipW], readBuf[srcOff:srcOff+clipW])
		}
	}

	return out, nil
}

// ReadWarped reads and resamples the source into target's pixel
// alignment over bbox, using the requested kernel. No-data pixels
// remain no-data through resampling (spec.md §4.1) because the warp
// carries the source's nodata value as both src and dst nodata.
func (s *Source) ReadWarped(target Grid, bbox [4]float64, resampling catalog.Resampling) ([]float32, error) {
	alg := godal.NearestNeighbour
	if resampling == catalog.ResamplingBilinear {
		alg = godal.Bilinear
	}

	switches := []string{
		"-te", f(bbox[0]), f(bbox[1]), f(bbox[2]), f(bbox[3]),
		"-ts", fmt.Sprintf("%d", target.Width), fmt.Sprintf("%d", target.Height),
		"-t_srs", "EPSG:4326",
		"-dstnodata", f(s.grid.NoData),
		"-srcnodata", f(s.grid.NoData),
	}

	gdalMu.Lock()
	memDS, err := godal.Create(godal.Memory, "", 1, godal.Float32, target.Width, target.Height)
	if err == nil {
		err = memDS.SetGeoTransform(target.Transform)
	}
	if err == nil {
		err = memDS.WarpInto([]*godal.Dataset{s.ds}, switches, godal.Resampling(alg))
	}
	gdalMu.Unlock()

	if err != nil {
		return nil, engerr.SourceUnavailable(fmt.Sprintf("warp %s", s.uri), err)
	}
	defer memDS.Close()

	out := make([]float32, target.Width*target.Height)
	gdalMu.Lock()
	bands := memDS.Bands()
	readErr := bands[0].Read(0, 0, out, target.Width, target.Height)
	gdalMu.Unlock()
	if readErr != nil {
		return nil, engerr.SourceUnavailable(fmt.Sprintf("read warped result for %s", s.uri), readErr)
	}

	return out, nil
}

// Sample returns the value at a single coordinate, or ok=false if the
// pixel is no-data or lon/lat falls outside the source's coverage.
func (s *Source) Sample(lon, lat float64) (value float32, ok bool, err error) {
	col, row := s.grid.ToPixel(lon, lat)
	x, y := int(col), int(row)
	if x < 0 || y < 0 || x >= s.grid.Width || y >= s.grid.Height {
		return 0, false, nil
	}

	buf := make([]float32, 1)
	s.mu.Lock()
	bands := s.ds.Bands()
	readErr := bands[0].Read(x, y, buf, 1, 1)
	s.mu.Unlock()
	if readErr != nil {
		return 0, false, engerr.SourceUnavailable(fmt.Sprintf("sample %s", s.uri), readErr)
	}

	if float64(buf[0]) == s.grid.NoData {
		return 0, false, nil
	}
	return buf[0], true, nil
}

func fillNoData(buf []float32, nodata float64) {
	v := float32(nodata)
	for i := range buf {
		buf[i] = v
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func f(v float64) string { return fmt.Sprintf("%.10f", v) }
