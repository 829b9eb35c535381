package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func pdf(name string) File {
	return File{Path: "/tmp/" + name, Name: name, MediaType: MediaTypePDF}
}

func names(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestSelection_AcceptFiltersToPDFInOrder(t *testing.T) {
	var s Selection
	batch := []File{
		pdf("a.pdf"),
		{Name: "notes.txt", MediaType: "text/plain; charset=utf-8"},
		pdf("b.pdf"),
		pdf("c.pdf"),
	}
	dropped, err := s.Accept(batch)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if got := names(s.Files()); !reflect.DeepEqual(got, []string{"a.pdf", "b.pdf", "c.pdf"}) {
		t.Fatalf("selection = %v, want [a.pdf b.pdf c.pdf]", got)
	}
}

func TestSelection_AcceptRejectsMoreThanMax(t *testing.T) {
	var s Selection
	if _, err := s.Accept([]File{pdf("keep.pdf")}); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	var nine []File
	for i := 0; i < MaxFiles+1; i++ {
		nine = append(nine, pdf(string(rune('a'+i))+".pdf"))
	}
	_, err := s.Accept(nine)
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("Accept error = %v, want ErrTooManyFiles", err)
	}
	if got := names(s.Files()); !reflect.DeepEqual(got, []string{"keep.pdf"}) {
		t.Fatalf("selection changed on rejection: %v", got)
	}

	if _, err := s.Accept(nine[:MaxFiles]); err != nil {
		t.Fatalf("Accept(%d) returned error: %v", MaxFiles, err)
	}
	if s.Len() != MaxFiles {
		t.Fatalf("Len = %d, want %d", s.Len(), MaxFiles)
	}
}

func TestSelection_NonPDFDoNotCountTowardsCap(t *testing.T) {
	var s Selection
	batch := make([]File, 0, 12)
	for i := 0; i < MaxFiles; i++ {
		batch = append(batch, pdf(string(rune('a'+i))+".pdf"))
	}
	for i := 0; i < 4; i++ {
		batch = append(batch, File{Name: "img.png", MediaType: "image/png"})
	}
	if _, err := s.Accept(batch); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if s.Len() != MaxFiles {
		t.Fatalf("Len = %d, want %d", s.Len(), MaxFiles)
	}
}

func TestSelection_RemoveAndClear(t *testing.T) {
	var s Selection
	_, _ = s.Accept([]File{pdf("a.pdf"), pdf("b.pdf"), pdf("c.pdf")})

	files := s.Files()
	if !s.Remove(1) {
		t.Fatalf("Remove(1) = false, want true")
	}
	if got := names(s.Files()); !reflect.DeepEqual(got, []string{"a.pdf", "c.pdf"}) {
		t.Fatalf("selection = %v, want [a.pdf c.pdf]", got)
	}
	if files[1].Name != "b.pdf" {
		t.Fatalf("Files should return a copy; got %q", files[1].Name)
	}
	if s.Remove(5) || s.Remove(-1) {
		t.Fatalf("Remove out of range returned true")
	}
	s.Clear()
	if s.Len() != 0 || s.Files() != nil {
		t.Fatalf("Clear left %d files", s.Len())
	}
}

func TestSplitPaths(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "/a/one.pdf /b/two.pdf", []string{"/a/one.pdf", "/b/two.pdf"}},
		{"single quoted", `'/home/ana/Ficha 2019.pdf' /x.pdf`, []string{"/home/ana/Ficha 2019.pdf", "/x.pdf"}},
		{"double quoted", `"/home/ana/Ficha 2020.pdf"`, []string{"/home/ana/Ficha 2020.pdf"}},
		{"escaped spaces", `/home/ana/Ficha\ 2021.pdf`, []string{"/home/ana/Ficha 2021.pdf"}},
		{"file uri", "file:///home/ana/Ficha%202022.pdf", []string{"/home/ana/Ficha 2022.pdf"}},
		{"extra whitespace", "  \t/a.pdf   ", []string{"/a.pdf"}},
		{"empty quotes dropped", `'' /a.pdf`, []string{"/a.pdf"}},
		{"blank", "   ", nil},
		{"escaped ampersand", `/docs/R\&D.pdf`, []string{"/docs/R&D.pdf"}},
		{"control operator separates", "/a.pdf & /b.pdf", []string{"/a.pdf", "/b.pdf"}},
		{"accented names", `/fichas/Conceição\ 2019.pdf`, []string{"/fichas/Conceição 2019.pdf"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitPaths(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitPaths(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name string, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestProber_SniffsExpandsAndKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "z-first.pdf", "%PDF-1.7\n...")
	renamed := writeFile(t, dir, "scan.bin", "%PDF-1.4\n...")
	notPDF := writeFile(t, dir, "fake.pdf", "hello, not a pdf")

	sub := filepath.Join(dir, "lote")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeFile(t, sub, "b.pdf", "%PDF-1.5")
	writeFile(t, sub, "a.pdf", "%PDF-1.5")

	p := &Prober{CountPages: func(path string) (int, error) {
		if filepath.Base(path) == "a.pdf" {
			return 0, errors.New("broken xref")
		}
		return 3, nil
	}}

	res, err := p.Probe(context.Background(), []string{first, sub, notPDF, renamed, filepath.Join(dir, "gone.pdf")})
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if got := names(res.Files); !reflect.DeepEqual(got, []string{"z-first.pdf", "a.pdf", "b.pdf", "fake.pdf", "scan.bin"}) {
		t.Fatalf("probe order = %v", got)
	}
	if len(res.Missing) != 1 || filepath.Base(res.Missing[0]) != "gone.pdf" {
		t.Fatalf("Missing = %v, want [gone.pdf]", res.Missing)
	}

	byName := map[string]File{}
	for _, f := range res.Files {
		byName[f.Name] = f
	}
	if !byName["z-first.pdf"].IsPDF() || byName["z-first.pdf"].Pages != 3 {
		t.Fatalf("z-first.pdf = %#v, want pdf with 3 pages", byName["z-first.pdf"])
	}
	if !byName["scan.bin"].IsPDF() {
		t.Fatalf("scan.bin should be sniffed as pdf, got %q", byName["scan.bin"].MediaType)
	}
	if byName["fake.pdf"].IsPDF() {
		t.Fatalf("fake.pdf should not be a pdf, got %q", byName["fake.pdf"].MediaType)
	}
	if byName["a.pdf"].Pages != 0 {
		t.Fatalf("a.pdf pages = %d, want 0 when counting fails", byName["a.pdf"].Pages)
	}

	var s Selection
	if _, err := s.Accept(res.Files); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if got := names(s.Files()); !reflect.DeepEqual(got, []string{"z-first.pdf", "a.pdf", "b.pdf", "scan.bin"}) {
		t.Fatalf("selection = %v", got)
	}
}

func TestProber_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.pdf", "%PDF-1.5")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Prober{}
	if _, err := p.Probe(ctx, []string{path}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Probe error = %v, want context.Canceled", err)
	}
}
