package formatfilter

import (
	"strings"

	"github.com/nabbar/arkive/arkerr"
)

type formatMeta struct {
	extension   string
	mime        string
	description string
	codecID     int
}

type filterMeta struct {
	extension   string
	mime        string
	description string
	codecID     int
}

// Codec format/filter ids are opaque identifiers handed to the codec
// backend (spec.md §4.1, §6.2). They are stable within this module but
// carry no meaning outside it.
const (
	codecFormatZip = iota + 1
	codecFormatTar
	codecFormatCpio
	codecFormat7Zip
	codecFormatArBsd
	codecFormatArSvr4
	codecFormatCpioNewc
	codecFormatGnuTar
	codecFormatIso9660
	codecFormatPax
	codecFormatUstar
	codecFormatXar
)

const (
	codecFilterCompress = iota + 1
	codecFilterGzip
	codecFilterBzip2
	codecFilterXz
	codecFilterLzma
	codecFilterLzip
	codecFilterLzop
	codecFilterGrzip
	codecFilterLrzip
)

var formatTable = map[Format]formatMeta{
	Zip:      {".zip", "application/zip", "ZIP archive", codecFormatZip},
	Tar:      {".tar", "application/x-tar", "TAR archive", codecFormatTar},
	Cpio:     {".cpio", "application/x-cpio", "CPIO archive", codecFormatCpio},
	SevenZip: {".7z", "application/x-7z-compressed", "7-Zip archive", codecFormat7Zip},
	ArBsd:    {".a", "application/x-archive", "BSD ar archive", codecFormatArBsd},
	ArSvr4:   {".a", "application/x-archive", "SVR4 ar archive", codecFormatArSvr4},
	CpioNewc: {".cpio", "application/x-cpio", "CPIO archive (newc)", codecFormatCpioNewc},
	GnuTar:   {".tar", "application/x-gtar", "GNU TAR archive", codecFormatGnuTar},
	Iso9660:  {".iso", "application/x-iso9660-image", "ISO 9660 CD-ROM image", codecFormatIso9660},
	Pax:      {".tar", "application/x-tar", "POSIX pax archive", codecFormatPax},
	Ustar:    {".tar", "application/x-tar", "POSIX ustar archive", codecFormatUstar},
	Xar:      {".xar", "application/x-xar", "XAR archive", codecFormatXar},
}

var filterTable = map[Filter]filterMeta{
	FilterNone: {"", "", "", 0},
	Compress:   {".Z", "application/x-compress", "Unix compress", codecFilterCompress},
	Gzip:       {".gz", "application/gzip", "gzip compression", codecFilterGzip},
	Bzip2:      {".bz2", "application/x-bzip2", "bzip2 compression", codecFilterBzip2},
	Xz:         {".xz", "application/x-xz", "xz compression", codecFilterXz},
	Lzma:       {".lzma", "application/x-lzma", "LZMA compression", codecFilterLzma},
	Lzip:       {".lz", "application/x-lzip", "lzip compression", codecFilterLzip},
	Lzop:       {".lzo", "application/x-lzop", "lzop compression", codecFilterLzop},
	Grzip:      {".grz", "application/x-grzip", "grzip compression", codecFilterGrzip},
	Lrzip:      {".lrz", "application/x-lrzip", "lrzip compression", codecFilterLrzip},
}

func formatMetaOf(f Format) (formatMeta, error) {
	m, ok := formatTable[f]
	if !ok {
		return formatMeta{}, arkerr.New(arkerr.KindInvalidFormat, f.String(), nil)
	}
	return m, nil
}

func filterMetaOf(f Filter) (filterMeta, error) {
	m, ok := filterTable[f]
	if !ok {
		return filterMeta{}, arkerr.New(arkerr.KindInvalidFilter, f.String(), nil)
	}
	return m, nil
}

// Extension returns ".<format-ext>[.<filter-ext>]" (spec.md §4.1).
func Extension(format Format, filter Filter) (string, error) {
	fm, err := formatMetaOf(format)
	if err != nil {
		return "", err
	}
	lm, err := filterMetaOf(filter)
	if err != nil {
		return "", err
	}
	return fm.extension + lm.extension, nil
}

// MimeType combines the format and filter into the conventional MIME name.
func MimeType(format Format, filter Filter) (string, error) {
	fm, err := formatMetaOf(format)
	if err != nil {
		return "", err
	}
	if filter.IsNone() {
		return fm.mime, nil
	}
	lm, err := filterMetaOf(filter)
	if err != nil {
		return "", err
	}
	// conventional composite MIME subtype, e.g. application/x-tar+gzip
	base := fm.mime
	sub := strings.TrimPrefix(lm.mime, "application/")
	sub = strings.TrimPrefix(sub, "x-")
	return base + "+" + sub, nil
}

// Description returns a human-readable description of the format/filter pair.
func Description(format Format, filter Filter) (string, error) {
	fm, err := formatMetaOf(format)
	if err != nil {
		return "", err
	}
	if filter.IsNone() {
		return fm.description, nil
	}
	lm, err := filterMetaOf(filter)
	if err != nil {
		return "", err
	}
	return fm.description + ", " + lm.description, nil
}

// CodecFormatID returns the opaque identifier the CodecAdapter hands to the
// codec backend for this format.
func CodecFormatID(format Format) (int, error) {
	fm, err := formatMetaOf(format)
	if err != nil {
		return 0, err
	}
	return fm.codecID, nil
}

// CodecFilterID returns the opaque identifier the CodecAdapter hands to the
// codec backend for this filter.
func CodecFilterID(filter Filter) (int, error) {
	lm, err := filterMetaOf(filter)
	if err != nil {
		return 0, err
	}
	return lm.codecID, nil
}
