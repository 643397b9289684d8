// Package rawunravel reconstructs full-color rasters from single-sensor
// mosaiced RAW capture data.
//
// The package implements two demosaicing engines, one for 2x2-repeating
// Bayer color filter arrays and one for 6x6-repeating Fuji X-Trans arrays,
// both producing three full-resolution linear float planes. A decode
// pipeline sequences plane acquisition, demosaicing and orientation
// normalization, so callers always receive pixel data in canonical
// (EXIF 1) orientation. Parsing of manufacturer RAW containers is out of
// scope; callers supply mosaic planes and CFA metadata through SensorData.
package rawunravel
