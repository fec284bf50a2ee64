package app

import (
	"path/filepath"
	"strings"
	"time"

	"mediasort/internal/domain"
)

// RawFile is a file handle produced by the scanner: raw filesystem
// metadata only, no embedded metadata yet.
type RawFile struct {
	Path      string
	SourceDir string
	Name      string
	Size      int64
	ModTime   time.Time
}

// ClassifyOptions are the read-only lookup tables shared by all workers.
type ClassifyOptions struct {
	Extensions        domain.ExtensionTable
	DeviceNames       domain.DeviceNames
	IncludeDeviceMake bool
}

// Classify turns a raw file plus optional embedded metadata into a
// SupportedFile. It never fails: extraction failures degrade the support
// level and drop the device instead. The second return value is the raw
// device identity when no custom name was configured for it, for the
// end-of-run report.
func Classify(raw RawFile, meta *Metadata, opts ClassifyOptions) (domain.SupportedFile, string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(raw.Name), "."))
	kind, support := opts.Extensions.Lookup(raw.Name)

	file := domain.SupportedFile{
		SourcePath: raw.Path,
		SourceDir:  raw.SourceDir,
		Name:       raw.Name,
		Ext:        ext,
		Kind:       kind,
		Support:    support,
		TakenAt:    raw.ModTime,
		Size:       raw.Size,
	}
	if support != domain.SupportFull {
		return file, ""
	}

	// Metadata-capable extension: a missing or empty read degrades to
	// partial support on modification time, with no device.
	if meta == nil || (meta.TakenAt == nil && meta.Model == "") {
		file.Support = domain.SupportPartial
		return file, ""
	}

	if meta.TakenAt != nil {
		file.TakenAt = *meta.TakenAt
	}

	nonCustom := ""
	if meta.Model != "" {
		identity := deviceIdentity(meta.Make, meta.Model, opts.IncludeDeviceMake)
		name, custom := opts.DeviceNames.Resolve(identity)
		if !custom {
			nonCustom = identity
		}
		file.Device = name
	}
	return file, nonCustom
}

// deviceIdentity composes the device identity from make and model. The
// make is skipped when the model already starts with it, e.g.
// "HUAWEI" + "HUAWEI CAN-L11" stays "HUAWEI CAN-L11".
func deviceIdentity(make, model string, includeMake bool) string {
	if !includeMake || make == "" {
		return model
	}
	if strings.HasPrefix(strings.ToLower(model), strings.ToLower(make)) {
		return model
	}
	return make + " " + model
}
