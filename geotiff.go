package resample

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"math"
	"strconv"

	"github.com/google/tiff"
	_ "github.com/google/tiff/bigtiff"
	_ "github.com/google/tiff/geotiff"
	"golang.org/x/image/tiff/lzw"
)

var errShortRead = errors.New("short read")

// A geoTIFFIFD is a struct into which github.com/google/tiff can unmarshal
// an IFD.
type geoTIFFIFD struct {
	ImageWidth                uint16    `tiff:"field,tag=256"`
	ImageLength               uint16    `tiff:"field,tag=257"`
	BitsPerSample             uint16    `tiff:"field,tag=258"`
	Compression               uint16    `tiff:"field,tag=259"`
	PhotometricInterpretation uint16    `tiff:"field,tag=262"`
	SamplesPerPixel           uint16    `tiff:"field,tag=277"`
	PlanarConfiguration       uint16    `tiff:"field,tag=284"`
	Predictor                 uint16    `tiff:"field,tag=317"`
	TileWidth                 uint16    `tiff:"field,tag=322"`
	TileLength                uint16    `tiff:"field,tag=323"`
	TileOffsets               []uint64  `tiff:"field,tag=324"`
	TileByteCounts            []uint64  `tiff:"field,tag=325"`
	SampleFormat              uint16    `tiff:"field,tag=339"`
	ModelPixelScaleTag        []float64 `tiff:"field,tag=33550"`
	ModelTiepointTag          []float64 `tiff:"field,tag=33922"`
	GeoKeyDirectoryTag        []uint16  `tiff:"field,tag=34735"`
	GDALNoData                string    `tiff:"field,tag=42113"`
}

// ReadGeoTIFF reads a single-band, tiled, LZW-compressed float32 GeoTIFF and
// returns its geometry as an AreaGrid together with its data as a row-major
// layer aligned with the grid. No-data samples are NaN.
func ReadGeoTIFF(fsys fs.FS, filename string) (*AreaGrid, []float64, error) {
	file, err := fsys.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}

	tiffTIFF, err := tiff.Parse(bytes.NewReader(contents), tiff.GetTagSpace("GeoTIFF"), nil)
	if err != nil {
		return nil, nil, err
	}
	if len(tiffTIFF.IFDs()) != 1 {
		return nil, nil, errors.ErrUnsupported
	}
	var ifd geoTIFFIFD
	if err := tiff.UnmarshalIFD(tiffTIFF.IFDs()[0], &ifd); err != nil {
		return nil, nil, err
	}

	if ifd.BitsPerSample != 32 ||
		ifd.Compression != 5 ||
		ifd.SamplesPerPixel != 1 ||
		(ifd.PlanarConfiguration != 0 && ifd.PlanarConfiguration != 1) ||
		(ifd.Predictor != 0 && ifd.Predictor != 1) ||
		ifd.SampleFormat != 3 ||
		len(ifd.ModelPixelScaleTag) != 3 ||
		len(ifd.ModelTiepointTag) != 6 {
		return nil, nil, errors.ErrUnsupported
	}

	noData := math.NaN()
	if ifd.GDALNoData != "" {
		noData, err = strconv.ParseFloat(ifd.GDALNoData, 64)
		if err != nil {
			return nil, nil, err
		}
	}

	grid, err := areaGridFromIFD(&ifd)
	if err != nil {
		return nil, nil, err
	}

	data, err := decodeTiles(&ifd, contents, float32(noData))
	if err != nil {
		return nil, nil, err
	}

	return grid, data, nil
}

// areaGridFromIFD builds the grid geometry from the GeoTIFF's tiepoint,
// pixel scale, and GeoKeys. The tiepoint anchors the corner of pixel (0, 0);
// the grid origin is that pixel's center.
func areaGridFromIFD(ifd *geoTIFFIFD) (*AreaGrid, error) {
	if i, j, k := ifd.ModelTiepointTag[0], ifd.ModelTiepointTag[1], ifd.ModelTiepointTag[2]; i != 0 || j != 0 || k != 0 {
		return nil, errors.ErrUnsupported
	}
	scaleX, scaleY := ifd.ModelPixelScaleTag[0], ifd.ModelPixelScaleTag[1]
	x, y := ifd.ModelTiepointTag[3], ifd.ModelTiepointTag[4]

	crs, err := crsFromGeoKeys(ifd.GeoKeyDirectoryTag)
	if err != nil {
		return nil, err
	}

	return NewAreaGrid(
		crs,
		int(ifd.ImageLength),
		int(ifd.ImageWidth),
		x+scaleX/2,
		y-scaleY/2,
		scaleX,
		scaleY,
	)
}

// decodeTiles decompresses and decodes every tile into one row-major layer,
// clipping edge tiles to the image bounds.
func decodeTiles(ifd *geoTIFFIFD, contents []byte, noData float32) ([]float64, error) {
	imageWidth := int(ifd.ImageWidth)
	imageLength := int(ifd.ImageLength)
	tileWidth := int(ifd.TileWidth)
	tileLength := int(ifd.TileLength)
	if tileWidth == 0 || tileLength == 0 {
		return nil, errors.ErrUnsupported
	}
	tilesAcross := (imageWidth + tileWidth - 1) / tileWidth
	tilesDown := (imageLength + tileLength - 1) / tileLength
	if len(ifd.TileOffsets) != tilesAcross*tilesDown || len(ifd.TileByteCounts) != tilesAcross*tilesDown {
		return nil, errors.New("incorrect number of tile byte counts or offsets")
	}

	data := make([]float64, imageWidth*imageLength)
	tileByteCountUncompressed := tileWidth * tileLength * 4
	tileData := make([]byte, tileByteCountUncompressed)
	for tileIndex := range ifd.TileOffsets {
		offset := int(ifd.TileOffsets[tileIndex])
		byteCount := int(ifd.TileByteCounts[tileIndex])
		if offset+byteCount > len(contents) {
			return nil, errShortRead
		}

		r := lzw.NewReader(bytes.NewReader(contents[offset:offset+byteCount]), lzw.MSB, 8)
		for bytesRead := 0; bytesRead < tileByteCountUncompressed; {
			n, err := r.Read(tileData[bytesRead:])
			if err != nil {
				return nil, err
			}
			bytesRead += n
		}

		tileCol := tileIndex % tilesAcross
		tileRow := tileIndex / tilesAcross
		for localY := range tileLength {
			y := tileRow*tileLength + localY
			if y >= imageLength {
				break
			}
			for localX := range tileWidth {
				x := tileCol*tileWidth + localX
				if x >= imageWidth {
					break
				}
				b := binary.LittleEndian.Uint32(tileData[4*(localY*tileWidth+localX):])
				sample := math.Float32frombits(b)
				if sample == noData {
					data[y*imageWidth+x] = math.NaN()
				} else {
					data[y*imageWidth+x] = float64(sample)
				}
			}
		}
	}

	return data, nil
}
