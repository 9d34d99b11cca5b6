package sema

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type corpusCase struct {
	Name  string `yaml:"name"`
	Src   string `yaml:"src"`
	Error string `yaml:"error"`
}

func loadCorpus(t *testing.T, path string) []corpusCase {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read corpus '%s': %v", path, err)
	}

	var cases []corpusCase
	err = yaml.Unmarshal(data, &cases)
	if err != nil {
		t.Fatalf("unable to decode corpus '%s': %v", path, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpus '%s' is empty", path)
	}
	return cases
}

func TestProgramCorpus(t *testing.T) {
	for _, test := range loadCorpus(t, "testdata/programs.yaml") {
		t.Run(test.Name, func(t *testing.T) {
			err := parseAndCheck(t, test.Src, nil)
			if test.Error == "" {
				if err != nil {
					t.Fatalf("unexpected error '%v'", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error '%s', but got none", test.Error)
			}
			if !strings.Contains(err.Error(), test.Error) {
				t.Fatalf("expected error '%s', but got '%s'", test.Error, err)
			}
		})
	}
}
