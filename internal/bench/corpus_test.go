package bench

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Header
		wantBody string
		wantErr  bool
	}{
		{
			name: "valid header",
			input: `# Source: PKU sample
# Title: News

我/PN 爱/VV`,
			want: Header{
				Source: "PKU sample",
				Title:  "News",
			},
			wantBody: "我/PN 爱/VV",
		},
		{
			name:     "header only",
			input:    "# Source: empty\n",
			want:     Header{Source: "empty"},
			wantBody: "",
		},
		{
			name: "missing source",
			input: `# Title: News

我/PN`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, body, err := ParseHeader(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHeader() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseHeader() header = %+v, want %+v", got, tt.want)
			}
			if body != tt.wantBody {
				t.Errorf("ParseHeader() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParseSentence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Sentence
	}{
		{
			name:  "tagged",
			input: "我/PN 爱/VV 北京/NR",
			want: Sentence{
				Text: "我爱北京",
				Words: []Word{
					{Text: "我", Tag: "PN", Start: 0, End: 3},
					{Text: "爱", Tag: "VV", Start: 3, End: 6},
					{Text: "北京", Tag: "NR", Start: 6, End: 12},
				},
			},
		},
		{
			name:  "untagged",
			input: "今天  天气",
			want: Sentence{
				Text: "今天天气",
				Words: []Word{
					{Text: "今天", Start: 0, End: 6},
					{Text: "天气", Start: 6, End: 12},
				},
			},
		},
		{
			name:  "slash inside word",
			input: "1/2 //PU",
			want: Sentence{
				Text: "1/2/",
				Words: []Word{
					{Text: "1/2", Start: 0, End: 3},
					{Text: "/", Tag: "PU", Start: 3, End: 4},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSentence(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSentence() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSentences(t *testing.T) {
	got := ParseSentences("我/PN 爱/VV\n\n  \n北京/NR\n")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2", len(got))
	}
	if got[1].Text != "北京" {
		t.Errorf("sentence[1] = %q, want 北京", got[1].Text)
	}
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument("../../testdata/corpus/sample.txt")
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	if doc.ID != "sample" {
		t.Errorf("ID = %q, want %q", doc.ID, "sample")
	}
	if doc.Title != "sample" {
		t.Errorf("Title = %q, want %q", doc.Title, "sample")
	}
	if len(doc.Sentences) != 3 {
		t.Errorf("got %d sentences, want 3", len(doc.Sentences))
	}
	if doc.Words() != 10 {
		t.Errorf("got %d words, want 10", doc.Words())
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"doc1.txt", "doc2.txt"} {
		content := `# Source: test
# Title: Title

我/PN 爱/VV`
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Non-txt files are ignored
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Readme"), 0644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}
}
