package resample

import (
	"errors"
	"fmt"
)

var errGeoKeyParse = errors.New("geokey parse error")

type geoKey uint16

const (
	geoKeyGTModelType  geoKey = 1024
	geoKeyGeodeticCRS  geoKey = 2048
	geoKeyProjectedCRS geoKey = 3072
)

const (
	modelTypeProjected  = 1
	modelTypeGeographic = 2
)

// parseGeoKeyDirectory extracts the short-valued GeoKeys from a GeoTIFF
// GeoKeyDirectoryTag. Keys stored in the double or ASCII params tags are
// skipped; only inline short values are needed for CRS detection.
func parseGeoKeyDirectory(directory []uint16) (map[geoKey]int, error) {
	if len(directory) < 4 {
		return nil, errGeoKeyParse
	}
	if keyDirectoryVersion := int(directory[0]); keyDirectoryVersion != 1 {
		return nil, errGeoKeyParse
	}
	if keyRevision := int(directory[1]); keyRevision != 1 {
		return nil, errGeoKeyParse
	}
	if minorRevision := int(directory[2]); minorRevision != 0 && minorRevision != 1 {
		return nil, errGeoKeyParse
	}
	numberOfKeys := int(directory[3])
	if len(directory) != 4+4*numberOfKeys {
		return nil, errGeoKeyParse
	}

	keys := make(map[geoKey]int)
	for i := range numberOfKeys {
		keyValues := directory[4+4*i : 4+4*(i+1)]
		if tiffTagLocation := int(keyValues[1]); tiffTagLocation != 0 {
			continue
		}
		if numberOfValues := int(keyValues[2]); numberOfValues != 1 {
			return nil, errGeoKeyParse
		}
		keys[geoKey(keyValues[0])] = int(keyValues[3])
	}
	return keys, nil
}

// crsFromGeoKeys returns the EPSG CRS string recorded in a GeoTIFF GeoKey
// directory.
func crsFromGeoKeys(directory []uint16) (string, error) {
	keys, err := parseGeoKeyDirectory(directory)
	if err != nil {
		return "", err
	}
	switch keys[geoKeyGTModelType] {
	case modelTypeProjected:
		if code, ok := keys[geoKeyProjectedCRS]; ok {
			return fmt.Sprintf("epsg:%d", code), nil
		}
	case modelTypeGeographic:
		if code, ok := keys[geoKeyGeodeticCRS]; ok {
			return fmt.Sprintf("epsg:%d", code), nil
		}
	}
	return "", errGeoKeyParse
}
