package geostore

// IndexKind identifies one of the closed set of index files in a snapshot.
type IndexKind string

const (
	KindName     IndexKind = "name"
	KindPrefix   IndexKind = "prefix"
	KindFeature  IndexKind = "feature"
	KindGeometry IndexKind = "geometry"
	KindCell     IndexKind = "cell"
	KindSlug     IndexKind = "slug"
)

// indexSpec describes one index file: its fixed name relative to the
// snapshot directory and whether a snapshot must contain it. One entry
// exists per kind; none is ever mutated after init.
type indexSpec struct {
	kind     IndexKind
	fileName string
	required bool
}

var indexSpecs = map[IndexKind]indexSpec{
	KindName:     {kind: KindName, fileName: "name_index.hfile", required: true},
	KindPrefix:   {kind: KindPrefix, fileName: "prefix_index"},
	KindFeature:  {kind: KindFeature, fileName: "feature_index.hfile", required: true},
	KindGeometry: {kind: KindGeometry, fileName: "geometry"},
	KindCell:     {kind: KindCell, fileName: "s2_index"},
	KindSlug:     {kind: KindSlug, fileName: "id-mapping"},
}

// Metadata keys written at index build time and read back at open time.
const (
	metaMaxPrefixLength = "MAX_PREFIX_LENGTH"
	metaMinLevel        = "minS2Level"
	metaMaxLevel        = "maxS2Level"
	metaLevelMod        = "levelMod"
)

// FileName returns the on-disk file name for an index kind, for callers
// that resolve snapshot paths before handing readers to Open.
func FileName(kind IndexKind) string {
	return indexSpecs[kind].fileName
}

// Hotfix file names, resolved relative to the hotfix directory.
const (
	hotfixDeletesFile = "hotfixes_deletes.txt"
	hotfixBoostsFile  = "hotfixes_boosts.txt"
)
