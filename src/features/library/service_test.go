package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"melodex/src/infra/files"
	"melodex/src/music"
)

// MockLibrary is a mock implementation of music.Library
type MockLibrary struct {
	music.Library // Embed interface to avoid implementing all methods, unused ones panic when called

	songs       map[string]*music.Song
	songsByHash map[string]*music.Song
	cleanup     map[string][]string
	removed     []string
	covers      map[string][2]string

	searchExcluded []string
}

func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		songs:       make(map[string]*music.Song),
		songsByHash: make(map[string]*music.Song),
		cleanup:     make(map[string][]string),
		covers:      make(map[string][2]string),
	}
}

func (m *MockLibrary) Store(ctx context.Context, song *music.Song) error {
	if song.ID == "" {
		song.ID = music.GenerateSongID()
	}
	m.songs[song.ID] = song
	if song.Hash != "" {
		m.songsByHash[song.Hash] = song
	}
	return nil
}

func (m *MockLibrary) GetByHash(ctx context.Context, hash string) (*music.Song, error) {
	return m.songsByHash[hash], nil
}

func (m *MockLibrary) RemoveSong(ctx context.Context, id string) ([]string, error) {
	if _, ok := m.songs[id]; !ok {
		return nil, music.ErrNotFound
	}
	delete(m.songs, id)
	m.removed = append(m.removed, id)
	return m.cleanup[id], nil
}

func (m *MockLibrary) UpdateSongCover(ctx context.Context, songID, coverHigh, coverLow string) error {
	if _, ok := m.songs[songID]; !ok {
		return music.ErrNotFound
	}
	m.covers[songID] = [2]string{coverHigh, coverLow}
	return nil
}

func (m *MockLibrary) UpdateAlbumCoverIfMissing(ctx context.Context, songID, coverHigh, coverLow string) error {
	return nil
}

func (m *MockLibrary) SearchAll(ctx context.Context, term string, excludePaths ...string) (*music.SearchResult, error) {
	m.searchExcluded = excludePaths
	return &music.SearchResult{}, nil
}

// stubExtractor returns a canned song without touching the filesystem.
type stubExtractor struct {
	song    music.Song
	picture []byte
	calls   int
}

func (s *stubExtractor) ReadFile(ctx context.Context, path string) (*music.Song, []byte, error) {
	s.calls++
	song := s.song
	song.Path = path
	return &song, s.picture, nil
}

// stubCoverWriter records writes instead of encoding images.
type stubCoverWriter struct {
	writes int
}

func (w *stubCoverWriter) Write(id string, data []byte) (string, string, error) {
	w.writes++
	return "/covers/" + id + "-high.jpg", "/covers/" + id + "-low.jpg", nil
}

func TestRemoveSong_HandsOrphanedCoversToCleaner(t *testing.T) {
	dir := t.TempDir()
	coverHigh := filepath.Join(dir, "a-high.jpg")
	coverLow := filepath.Join(dir, "a-low.jpg")
	for _, p := range []string{coverHigh, coverLow} {
		if err := os.WriteFile(p, []byte("jpeg"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	mockLib := NewMockLibrary()
	song := &music.Song{Title: "Around the World", Path: "/music/atw.flac"}
	mockLib.Store(context.Background(), song)
	mockLib.cleanup[song.ID] = []string{coverHigh, coverLow}

	cleaner := files.NewCleaner()
	service := NewService(mockLib, cleaner, nil, nil, nil)

	if err := service.RemoveSong(context.Background(), song.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, p := range []string{coverHigh, coverLow} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be deleted", p)
		}
	}
}

func TestRemoveSong_MissingSong(t *testing.T) {
	service := NewService(NewMockLibrary(), files.NewCleaner(), nil, nil, nil)
	err := service.RemoveSong(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected an error for a missing song")
	}
}

func TestImportFile_StoresSongAndCover(t *testing.T) {
	mockLib := NewMockLibrary()
	extractor := &stubExtractor{
		song:    music.Song{Title: "One More Time", Hash: "abc123", Provider: "local"},
		picture: []byte("png-bytes"),
	}
	covers := &stubCoverWriter{}
	service := NewService(mockLib, files.NewCleaner(), extractor, covers, nil)

	song, err := service.ImportFile(context.Background(), "/music/omt.mp3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.ID == "" {
		t.Error("expected an ID to be assigned")
	}
	if covers.writes != 1 {
		t.Errorf("expected 1 cover write, got %d", covers.writes)
	}
	if _, ok := mockLib.covers[song.ID]; !ok {
		t.Error("expected song cover paths to be recorded")
	}
}

func TestSearch_ForwardsExcludedPaths(t *testing.T) {
	mockLib := NewMockLibrary()
	service := NewService(mockLib, files.NewCleaner(), nil, nil, nil)

	_, err := service.Search(context.Background(), "daft", "/music/a.mp3", "/music/b.mp3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockLib.searchExcluded) != 2 {
		t.Fatalf("expected 2 excluded paths, got %d", len(mockLib.searchExcluded))
	}
	if mockLib.searchExcluded[0] != "/music/a.mp3" || mockLib.searchExcluded[1] != "/music/b.mp3" {
		t.Errorf("unexpected excluded paths %v", mockLib.searchExcluded)
	}
}

func TestImportFile_SkipsKnownHash(t *testing.T) {
	mockLib := NewMockLibrary()
	existing := &music.Song{Title: "One More Time", Hash: "abc123"}
	mockLib.Store(context.Background(), existing)

	extractor := &stubExtractor{song: music.Song{Title: "One More Time", Hash: "abc123"}}
	service := NewService(mockLib, files.NewCleaner(), extractor, &stubCoverWriter{}, nil)

	song, err := service.ImportFile(context.Background(), "/music/copy-of-omt.mp3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.ID != existing.ID {
		t.Errorf("expected existing song %s, got %s", existing.ID, song.ID)
	}
	if len(mockLib.songs) != 1 {
		t.Errorf("expected 1 song in library, got %d", len(mockLib.songs))
	}
}
