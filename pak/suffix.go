package pak

import (
	"path"
	"strconv"
	"strings"
)

// DefaultPrefixes are tried in order when resolving a path. The empty prefix
// lets callers pass full archive paths unchanged.
var DefaultPrefixes = []string{"", "natives/STM/", "natives/NSW/"}

// DefaultSuffixes maps a file extension to the format version the engine
// appends to archive paths (e.g. "foo.user" is stored as "foo.user.2").
var DefaultSuffixes = map[string]string{
	"chain":   "35",
	"efx":     "1769669",
	"fbxskel": "5",
	"gui":     "270020",
	"mdf2":    "19",
	"mesh":    "2109148288",
	"mot":     "484",
	"motbank": "1",
	"motlist": "486",
	"msg":     "17",
	"pfb":     "17",
	"rcol":    "18",
	"scn":     "20",
	"tex":     "28",
	"uvs":     "7",
	"user":    "2",
}

// normalizePath converts separators and strips a leading slash.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "/")
}

// versionSuffix returns the version suffix for p, or "" if p already ends
// in a numeric version or its extension is unknown.
func versionSuffix(p string, suffixes map[string]string) string {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return ""
	}
	if _, err := strconv.ParseUint(ext, 10, 64); err == nil {
		return ""
	}
	return suffixes[strings.ToLower(ext)]
}

// candidates lists the archive paths tried for p, in lookup order.
func candidates(p string, prefixes []string, suffixes map[string]string) []string {
	p = normalizePath(p)
	suffix := versionSuffix(p, suffixes)

	out := make([]string, 0, 2*len(prefixes))
	seen := make(map[string]struct{}, 2*len(prefixes))
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(strings.ToLower(p), strings.ToLower(prefix)) {
			continue
		}
		add(prefix + p)
		if suffix != "" {
			add(prefix + p + "." + suffix)
		}
	}
	return out
}
