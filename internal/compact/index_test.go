package compact

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestArray(t *testing.T, places []struct {
	lat, lon   float64
	population int64
}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.bin")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	for i, p := range places {
		idx, err := w.Append(p.lat, p.lon, p.population)
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if idx != i {
			t.Fatalf("Append returned idx %d, want %d", idx, i)
		}
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return path
}

func TestWriterProducesDenseArray(t *testing.T) {
	places := []struct {
		lat, lon   float64
		population int64
	}{
		{51.5074, -0.1278, 8900000},
		{48.8566, 2.3522, 2100000},
		{55.7558, 37.6173, 12600000},
	}
	path := writeTestArray(t, places)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(len(places)*RecordSize) {
		t.Errorf("file size = %d, want %d", info.Size(), len(places)*RecordSize)
	}

	ix, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	if ix.Len() != len(places) {
		t.Errorf("Len() = %d, want %d", ix.Len(), len(places))
	}

	for i, p := range places {
		lat, lon, _ := ix.Record(i)
		if diff := lat - p.lat; diff > 0.0014 || diff < -0.0014 {
			t.Errorf("record %d lat = %f, want ~%f", i, lat, p.lat)
		}
		if diff := lon - p.lon; diff > 0.0028 || diff < -0.0028 {
			t.Errorf("record %d lon = %f, want ~%f", i, lon, p.lon)
		}
	}
}

func TestWriterAbortLeavesNoArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.bin")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Append(10, 20, 1000); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("aborted writer should not publish the array file")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("aborted writer should remove its temp file")
	}
}

func TestOpenRejectsMisalignedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.bin")
	if err := os.WriteFile(path, make([]byte, RecordSize+2), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for file with partial record")
	}
}

func TestNearestWeightsByPopulation(t *testing.T) {
	// Query point sits 0.2 degrees from a village but 0.5 degrees from a
	// large city; the city's wide catchment must win the weighted score.
	places := []struct {
		lat, lon   float64
		population int64
	}{
		{50.5, 30.0, 5000000}, // city, idx 0
		{50.0, 30.2, 1000},    // village, idx 1
	}
	path := writeTestArray(t, places)

	ix, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	m, ok := ix.Nearest(30.0, 50.0)
	if !ok {
		t.Fatal("Nearest returned no match")
	}
	if m.Idx != 0 {
		t.Errorf("Nearest picked idx %d, want 0 (weighted by population)", m.Idx)
	}
	if m.Score >= 4.0 {
		t.Errorf("city score %f unexpectedly high", m.Score)
	}

	// A point right on the village still resolves to the village
	m, ok = ix.Nearest(30.2, 50.0)
	if !ok {
		t.Fatal("Nearest returned no match")
	}
	if m.Idx != 1 {
		t.Errorf("Nearest picked idx %d, want 1 (exact village hit)", m.Idx)
	}
}
