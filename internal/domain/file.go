package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DateDirFormat is the layout of date directory names, e.g. "2017.06.22".
const DateDirFormat = "2006.01.02"

// UnknownDeviceDirName is the directory segment used for files without a
// determinable device when device subdirs are forced.
const UnknownDeviceDirName = "Unknown"

type SupportLevel int

const (
	// Full support: recognized extension that can carry embedded metadata.
	SupportFull SupportLevel = iota
	// Partial support: recognized extension, but metadata was absent,
	// unreadable, or impossible by construction (operator extensions).
	SupportPartial
	// Unsupported: unrecognized extension; the file is only reported.
	SupportUnsupported
)

func (s SupportLevel) String() string {
	switch s {
	case SupportFull:
		return "full"
	case SupportPartial:
		return "partial"
	default:
		return "unsupported"
	}
}

type MediaKind int

const (
	KindUnknown MediaKind = iota
	KindImage
	KindVideo
	KindAudio
)

func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// SupportedFile is one classified input file. Created once during
// classification and immutable afterwards.
type SupportedFile struct {
	SourcePath string
	SourceDir  string
	Name       string
	Ext        string
	Kind       MediaKind
	Support    SupportLevel
	// TakenAt is always set: embedded capture date when available,
	// otherwise the filesystem modification time.
	TakenAt time.Time
	// Device is the make+model identity after custom-name substitution;
	// empty when no device could be determined.
	Device string
	Size   int64
	// Unreadable marks a recognized file whose content could not be read,
	// as opposed to an unrecognized extension. Both are unsupported, but
	// only the latter belongs in the unknown-extensions report.
	Unreadable bool
}

// DateKey returns the date directory name for this file.
func (f SupportedFile) DateKey() string {
	return f.TakenAt.Format(DateDirFormat)
}

// ExtensionTable recognizes media files by extension. The base table holds
// extensions with embedded-metadata support; the custom table is
// operator-extended and always maps to partial support.
type ExtensionTable struct {
	custom map[string]MediaKind
}

// NewExtensionTable builds a table from operator extension lists keyed by
// media kind. Extensions are matched case-insensitively, without dots.
func NewExtensionTable(images, videos, audios []string) ExtensionTable {
	custom := make(map[string]MediaKind)
	add := func(exts []string, kind MediaKind) {
		for _, e := range exts {
			e = strings.ToLower(strings.TrimPrefix(e, "."))
			if e != "" {
				custom[e] = kind
			}
		}
	}
	add(images, KindImage)
	add(videos, KindVideo)
	add(audios, KindAudio)
	return ExtensionTable{custom: custom}
}

// Lookup classifies a file name by extension, returning the media kind and
// the support level the extension alone can promise. An image extension
// from the base table is eligible for embedded metadata (full support);
// everything else recognized is partial; unrecognized is unsupported.
func (t ExtensionTable) Lookup(name string) (MediaKind, SupportLevel) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return KindUnknown, SupportUnsupported
	}
	switch ext {
	case "jpg", "jpeg", "png", "tiff", "heic", "heif", "webp":
		return KindImage, SupportFull
	case "crw", "nef", "nrw":
		return KindImage, SupportPartial
	case "avif", "mp4", "mov", "3gp", "avi":
		return KindVideo, SupportPartial
	case "amr", "ogg", "m4a":
		return KindAudio, SupportPartial
	}
	if kind, ok := t.custom[ext]; ok {
		return kind, SupportPartial
	}
	return KindUnknown, SupportUnsupported
}

// DeviceNames rewrites raw device identities via an exact-match table.
// Keys are stored lowercase for case-insensitive retrieval; identities
// without a custom name pass through unchanged.
type DeviceNames map[string]string

func (d DeviceNames) Resolve(raw string) (name string, custom bool) {
	if v, ok := d[strings.ToLower(raw)]; ok {
		return v, true
	}
	return raw, false
}
