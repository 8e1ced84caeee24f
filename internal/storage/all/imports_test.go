package all

import (
	"testing"

	"efwetl/internal/storage"
)

func TestAllBackendsRegistered(t *testing.T) {
	t.Parallel()

	got := storage.Kinds()
	want := []string{"mssql", "mysql", "postgres", "sqlite"}
	if len(got) != len(want) {
		t.Fatalf("Kinds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Kinds() = %v, want %v", got, want)
		}
	}
}
