// File: internal/writer/writer.go
// Purpose: ResultWriter (spec.md §4.8) — encodes the overlay's output
//          as a tiled, compressed GeoTIFF and uploads it to object
//          storage.
// Pattern: in-process GDAL encode to a temp file, then stream-upload,
//          mirroring cmd/import-elevation's stream-to-disk-then-process
//          approach to keep peak memory bounded.
// Dependencies: github.com/airbusgeo/godal, github.com/dustin/go-humanize
package writer

import (
	"context"
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/dustin/go-humanize"
	"log/slog"

	"github.com/f4roos41/solarmcda/internal/engerr"
	"github.com/f4roos41/solarmcda/internal/raster"
)

// gdalMu is the same serialization discipline as internal/raster: the
// underlying libtiff/GDAL driver is not safe for concurrent calls from
// multiple goroutines.
var gdalMu = raster.GDALMutex()

// Uploader is the upload operation the writer needs, satisfied by
// *objectstore.Store (which wraps the aws-sdk-go-v2 s3 manager).
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, body *os.File) error
}

// Write encodes score as a single-band, tiled, LZW-compressed Float32
// GeoTIFF over grid and uploads it to bucket/key via up. It returns the
// number of bytes written.
func Write(ctx context.Context, score []float32, grid raster.Grid, up Uploader, bucket, key string) (int64, error) {
	tmp, err := os.CreateTemp("", "mcda-result-*.tif")
	if err != nil {
		return 0, engerr.WriteFailed("create temp file", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := encode(score, grid, tmpPath); err != nil {
		return 0, err
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return 0, engerr.WriteFailed("reopen encoded result", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, engerr.WriteFailed("stat encoded result", err)
	}

	slog.Info("uploading mcda result", "bucket", bucket, "key", key, "size", humanize.Bytes(uint64(info.Size())))
	if err := up.Upload(ctx, bucket, key, f); err != nil {
		return 0, engerr.WriteFailed(fmt.Sprintf("upload to s3://%s/%s", bucket, key), err)
	}

	return info.Size(), nil
}

func encode(score []float32, grid raster.Grid, path string) error {
	gdalMu.Lock()
	defer gdalMu.Unlock()

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, grid.Width, grid.Height,
		godal.CreationOption("TILED=YES", "BLOCKXSIZE=512", "BLOCKYSIZE=512", "COMPRESS=LZW"))
	if err != nil {
		return engerr.WriteFailed("create output dataset", err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform(grid.Transform); err != nil {
		return engerr.WriteFailed("set geotransform", err)
	}
	if grid.CRS != "" {
		if err := ds.SetProjection(grid.CRS); err != nil {
			return engerr.WriteFailed("set projection", err)
		}
	}
	if err := ds.SetNoData(-9999.0); err != nil {
		return engerr.WriteFailed("set nodata", err)
	}
	if err := ds.Write(0, 0, score, grid.Width, grid.Height); err != nil {
		return engerr.WriteFailed("write raster band", err)
	}

	return nil
}
