// Package cr3 decodes Canon CR3 raw files.
//
// A CR3 file is an ISO BMFF container. Its "CRAW" box holds a 28-byte
// image header followed by the sample data, and its CMT1/CMT2 boxes hold
// TIFF IFD0 and Exif metadata. Decode locates the CRAW box, validates the
// header and reads fixed-width samples (one or two bytes per pixel) into
// a flat row-major []uint16. Compressed CRX tile data is not decoded.
//
// In dummy mode only the header is read and a zeroed buffer of the right
// size is returned, which is enough for dimension and metadata queries.
package cr3
