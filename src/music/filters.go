package music

// Combine says how multiple predicates of a query are joined.
type Combine int

const (
	// CombineAny joins predicates with OR. This is the zero value.
	CombineAny Combine = iota
	// CombineAll joins predicates with AND.
	CombineAll
)

// SortField names the column family a sorted query orders by.
type SortField int

const (
	// SortTitle orders by the display name of the queried category
	// (song title, album name, artist name, ...). Zero value.
	SortTitle SortField = iota
	// SortDateAdded orders by insertion time. Songs only; entity
	// queries fall back to SortTitle.
	SortDateAdded
)

// Sort is an optional ordering request. Absent a Sort, result order is
// unspecified beyond the per-song grouping.
type Sort struct {
	Field     SortField
	Ascending bool
}

// SongFilter holds substring predicates against song columns. Every
// non-empty field becomes a LIKE '%value%' match, identifiers included;
// exact lookups go through GetByHash instead.
type SongFilter struct {
	ID       string
	Title    string
	Path     string
	Hash     string
	Provider string
}

// AlbumFilter holds substring predicates against album columns. All set
// to true means "every album, ignore the other predicates".
type AlbumFilter struct {
	ID     string
	Name   string
	Artist string
	All    bool
}

// ArtistFilter holds substring predicates against artist columns.
type ArtistFilter struct {
	ID   string
	Name string
	All  bool
}

// GenreFilter holds substring predicates against genre columns.
type GenreFilter struct {
	ID   string
	Name string
	All  bool
}

// PlaylistFilter holds substring predicates against playlist columns.
type PlaylistFilter struct {
	ID   string
	Name string
	All  bool
}

// QueryOptions is the full filter specification for a song query. Nil
// category filters contribute no predicates; with zero predicates the
// query degrades to a full scan with joins, not an error.
type QueryOptions struct {
	Song     *SongFilter
	Album    *AlbumFilter
	Artist   *ArtistFilter
	Genre    *GenreFilter
	Playlist *PlaylistFilter
	Combine  Combine
	Sort     *Sort
}
