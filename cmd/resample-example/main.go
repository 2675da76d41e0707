package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	resample "github.com/twpayne/go-resample"
)

func run() error {
	radius := flag.Float64("radius", 50e3, "cutoff radius for candidate source points")
	neighbours := flag.Int("neighbours", 32, "candidate source points per target point")
	crs := flag.String("crs", "epsg:3035", "target coordinate reference system")
	rows := flag.Int("rows", 256, "target grid rows")
	cols := flag.Int("cols", 256, "target grid columns")
	originX := flag.Float64("origin-x", 0, "x coordinate of the target grid's upper-left cell center")
	originY := flag.Float64("origin-y", 0, "y coordinate of the target grid's upper-left cell center")
	scale := flag.Float64("scale", 1000, "target grid cell size")
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("syntax: resample-example source.tif")
	}

	source, data, err := resample.ReadGeoTIFF(os.DirFS(filepath.Dir(flag.Arg(0))), filepath.Base(flag.Arg(0)))
	if err != nil {
		return err
	}

	target, err := resample.NewAreaGrid(*crs, *rows, *cols, *originX, *originY, *scale, *scale)
	if err != nil {
		return err
	}

	resampler, err := resample.NewResampler(
		resample.WithRadius(*radius),
		resample.WithNeighbours(*neighbours),
	)
	if err != nil {
		return err
	}

	result, err := resampler.Resample(context.Background(), data, source, target)
	if err != nil {
		return err
	}

	valid := 0
	for _, masked := range resample.MaskOf(result) {
		if !masked {
			valid++
		}
	}
	fmt.Printf("resampled %d target points, %d valid\n", len(result), valid)

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
