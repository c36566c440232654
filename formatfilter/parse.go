package formatfilter

import "strings"

var formatNames = map[string]Format{
	"zip":       Zip,
	"tar":       Tar,
	"cpio":      Cpio,
	"7z":        SevenZip,
	"7zip":      SevenZip,
	"ar-bsd":    ArBsd,
	"ar-svr4":   ArSvr4,
	"ar":        ArSvr4,
	"cpio-newc": CpioNewc,
	"gnu-tar":   GnuTar,
	"gnutar":    GnuTar,
	"iso9660":   Iso9660,
	"pax":       Pax,
	"ustar":     Ustar,
	"xar":       Xar,
}

var filterNames = map[string]Filter{
	"none":     FilterNone,
	"compress": Compress,
	"gzip":     Gzip,
	"gz":       Gzip,
	"bzip2":    Bzip2,
	"bz2":      Bzip2,
	"xz":       Xz,
	"lzma":     Lzma,
	"lzip":     Lzip,
	"lzop":     Lzop,
	"grzip":    Grzip,
	"lrzip":    Lrzip,
}

// ParseFormat resolves a case-insensitive command-line format name (spec.md
// §3's container list) to its Format. ok is false for an unrecognized name.
func ParseFormat(name string) (f Format, ok bool) {
	f, ok = formatNames[strings.ToLower(name)]
	return f, ok
}

// ParseFilter resolves a case-insensitive command-line filter name to its
// Filter. ok is false for an unrecognized name.
func ParseFilter(name string) (f Filter, ok bool) {
	f, ok = filterNames[strings.ToLower(name)]
	return f, ok
}
