package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	milkcat "github.com/jamesainslie/go-milkcat"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		typ      milkcat.ProcessorType
		wordType bool
		in       string
		want     string
	}{
		{
			name: "plain",
			typ:  milkcat.PlainSegmentTag,
			in:   "我爱北京\nhello world\n",
			want: "我/PN  爱/VV  北京/NR\nhello/NN  world/NN\n",
		},
		{
			name: "segment only",
			typ:  milkcat.CRFSegmentOnly,
			in:   "北京上海",
			want: "北京  上海\n",
		},
		{
			name:     "word types",
			typ:      milkcat.CRFSegmentOnly,
			wordType: true,
			in:       "hello 2024",
			want:     "hello_EN  2024_NUM\n",
		},
		{
			name: "blank line",
			typ:  milkcat.HMMSegmentTag,
			in:   "\n",
			want: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := milkcat.New(tt.typ, "../../testdata/model")
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			defer func() { _ = proc.Close() }()

			var out bytes.Buffer
			if err := run(context.Background(), proc, strings.NewReader(tt.in), &out, tt.wordType); err != nil {
				t.Fatalf("run() failed: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("MILKCAT_TEST_TYPE", "hmm")

	if got := envOr("MILKCAT_TEST_TYPE", "plain"); got != "hmm" {
		t.Errorf("envOr() = %q, want hmm", got)
	}
	if got := envOr("MILKCAT_TEST_UNSET", "plain"); got != "plain" {
		t.Errorf("envOr() = %q, want plain", got)
	}
}
